package rtl

import (
	"fmt"

	"architect/internal/types"
)

// Entity is a hardware module written in Go. Declare registers ports on
// the schema (keeping the returned handles); Elaborate describes the
// architecture body with those handles.
type Entity interface {
	Name() string
	Declare(s *Schema)
	Elaborate(b *Builder)
}

// Module is an elaborated entity ready for emission.
type Module struct {
	Interface Interface
	Program   Program
	Types     *types.Interner
}

// Elaborate declares and elaborates e against a fresh interner.
func Elaborate(e Entity) (Module, error) {
	return ElaborateWith(e, types.NewInterner())
}

// ElaborateWith declares and elaborates e, interning into reg.
func ElaborateWith(e Entity, reg *types.Interner) (Module, error) {
	schema := NewSchema(e.Name(), reg)
	e.Declare(schema)
	iface, err := schema.Interface()
	if err != nil {
		return Module{}, fmt.Errorf("entity %s: %w", e.Name(), err)
	}
	b := NewBuilder(reg)
	e.Elaborate(b)
	prog, err := b.Program()
	if err != nil {
		return Module{}, fmt.Errorf("entity %s: %w", e.Name(), err)
	}
	return Module{Interface: iface, Program: prog, Types: reg}, nil
}
