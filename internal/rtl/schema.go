package rtl

import (
	"errors"
	"fmt"

	"golang.org/x/text/cases"

	"architect/internal/types"
)

var (
	// ErrEmptyName reports an empty entity or port name.
	ErrEmptyName = errors.New("empty name")
	// ErrDuplicatePort reports two ports with the same identifier in one list.
	ErrDuplicatePort = errors.New("duplicate port")
)

// FoldIdent returns the comparison key of a VHDL identifier.
// VHDL basic identifiers are case-insensitive.
func FoldIdent(name string) string {
	return cases.Fold().String(name)
}

// Schema collects an entity's ports in declaration order. It replaces
// field introspection: each Input/Output call appends one port and returns
// its handle.
type Schema struct {
	name    string
	reg     *types.Interner
	inputs  []Port
	outputs []Port
}

// NewSchema starts an interface declaration whose types are interned in reg.
func NewSchema(name string, reg *types.Interner) *Schema {
	return &Schema{name: name, reg: reg}
}

// Registry returns the interner the schema interns into.
func (s *Schema) Registry() *types.Interner {
	return s.reg
}

// Input declares an input port.
func (s *Schema) Input(name string, t types.Type) Signal {
	id := s.reg.Intern(t)
	s.inputs = append(s.inputs, Port{Name: name, Type: id})
	return Signal{Name: name, Dir: In, Type: id}
}

// Output declares an output port.
func (s *Schema) Output(name string, t types.Type) Signal {
	id := s.reg.Intern(t)
	s.outputs = append(s.outputs, Port{Name: name, Type: id})
	return Signal{Name: name, Dir: Out, Type: id}
}

// Interface validates the declaration and returns it. Names must be
// non-empty and unique within their own list; every problem found is
// joined into the returned error.
func (s *Schema) Interface() (Interface, error) {
	var errs []error
	if s.name == "" {
		errs = append(errs, fmt.Errorf("entity: %w", ErrEmptyName))
	}
	errs = append(errs, checkPorts(In, s.inputs)...)
	errs = append(errs, checkPorts(Out, s.outputs)...)
	if len(errs) > 0 {
		return Interface{}, errors.Join(errs...)
	}
	iface := Interface{
		Name:    s.name,
		Inputs:  make([]Port, len(s.inputs)),
		Outputs: make([]Port, len(s.outputs)),
	}
	copy(iface.Inputs, s.inputs)
	copy(iface.Outputs, s.outputs)
	return iface, nil
}

func checkPorts(dir Direction, ports []Port) []error {
	var errs []error
	seen := make(map[string]string, len(ports))
	for i, p := range ports {
		if p.Name == "" {
			errs = append(errs, fmt.Errorf("%s port #%d: %w", dir, i, ErrEmptyName))
			continue
		}
		key := FoldIdent(p.Name)
		if prev, ok := seen[key]; ok {
			errs = append(errs, fmt.Errorf("%s port %q: %w (clashes with %q)", dir, p.Name, ErrDuplicatePort, prev))
			continue
		}
		seen[key] = p.Name
	}
	return errs
}
