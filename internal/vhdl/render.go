package vhdl

import (
	"fmt"
	"strconv"

	"architect/internal/rtl"
	"architect/internal/types"
)

// Literal tokens for the two logic values.
const (
	LowToken  = "'0'"
	HighToken = "'1'"
)

// RenderType renders a descriptor as a VHDL subtype indication.
// The range is written high first, exactly as given.
func RenderType(t types.Type) string {
	if !t.Ranged {
		return t.Base
	}
	return t.Base + "(" + strconv.FormatUint(uint64(t.Range.High), 10) + " downto " + strconv.FormatUint(uint64(t.Range.Low), 10) + ")"
}

// RenderValue renders a logic literal.
func RenderValue(v rtl.LogicValue) string {
	if v == rtl.High {
		return HighToken
	}
	return LowToken
}

func renderStatement(st rtl.Statement) (string, error) {
	switch s := st.(type) {
	case rtl.Assignment:
		return s.Target + " <= " + RenderValue(s.Value) + ";", nil
	case *rtl.Assignment:
		if s == nil {
			return "", fmt.Errorf("vhdl: nil assignment")
		}
		return s.Target + " <= " + RenderValue(s.Value) + ";", nil
	default:
		return "", fmt.Errorf("vhdl: unsupported statement %T", st)
	}
}
