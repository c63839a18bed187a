package vhdl

import (
	"errors"
	"fmt"
)

// ErrEmptyEntityName is returned when the interface has no name.
var ErrEmptyEntityName = errors.New("vhdl: empty entity name")

// Stage names a section of the emitted unit.
type Stage string

const (
	StagePreamble     Stage = "preamble"
	StageEntityHeader Stage = "entity header"
	StagePortList     Stage = "port list"
	StageEntityEnd    Stage = "entity end"
	StageArchitecture Stage = "architecture body"
)

// EmitError wraps a sink failure with the stage being written.
type EmitError struct {
	Stage Stage
	Err   error
}

func (e *EmitError) Error() string {
	return fmt.Sprintf("vhdl: while emitting %s: %v", e.Stage, e.Err)
}

func (e *EmitError) Unwrap() error {
	return e.Err
}
