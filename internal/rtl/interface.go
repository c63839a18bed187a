package rtl

import (
	"fmt"

	"architect/internal/types"
)

// Direction is the port mode of a signal.
type Direction uint8

const (
	In Direction = iota
	Out
)

func (d Direction) String() string {
	switch d {
	case In:
		return "in"
	case Out:
		return "out"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}

// Signal is a handle to a declared port. It carries the direction and
// type it was declared with so that assignments can be checked.
type Signal struct {
	Name string
	Dir  Direction
	Type types.TypeID
}

// Port is one entry of an interface port list.
type Port struct {
	Name string
	Type types.TypeID
}

// Interface describes an entity: its name and the ordered input and output
// port lists. Order is declaration order and is kept by the emitter.
type Interface struct {
	Name    string
	Inputs  []Port
	Outputs []Port
}

// PortCount returns len(Inputs) + len(Outputs).
func (i Interface) PortCount() int {
	return len(i.Inputs) + len(i.Outputs)
}

// Find looks a port up by exact name, inputs first.
func (i Interface) Find(name string) (Signal, bool) {
	for _, p := range i.Inputs {
		if p.Name == name {
			return Signal{Name: p.Name, Dir: In, Type: p.Type}, true
		}
	}
	for _, p := range i.Outputs {
		if p.Name == name {
			return Signal{Name: p.Name, Dir: Out, Type: p.Type}, true
		}
	}
	return Signal{}, false
}
