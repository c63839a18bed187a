package rtl

import (
	"errors"
	"fmt"

	"architect/internal/types"
)

var (
	// ErrAssignToInput reports an assignment whose target is an input port.
	ErrAssignToInput = errors.New("cannot assign to input")
	// ErrTypeMismatch reports a literal that does not fit the target's type.
	ErrTypeMismatch = errors.New("type mismatch")
)

// Builder collects assignments into a Program. Rejected assignments are
// recorded and reported by Program; accepted ones keep call order.
type Builder struct {
	reg   types.Resolver
	stmts []Statement
	errs  []error
}

// NewBuilder returns a builder that checks target types against reg.
func NewBuilder(reg types.Resolver) *Builder {
	return &Builder{reg: reg}
}

// Assign appends `target <= value`.
func (b *Builder) Assign(target Signal, value LogicValue) *Builder {
	if err := b.check(target); err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	b.stmts = append(b.stmts, Assignment{Target: target.Name, Value: value})
	return b
}

// AssignBool is Assign(target, ValueOf(v)).
func (b *Builder) AssignBool(target Signal, v bool) *Builder {
	return b.Assign(target, ValueOf(v))
}

func (b *Builder) check(target Signal) error {
	if target.Name == "" {
		return fmt.Errorf("assignment target: %w", ErrEmptyName)
	}
	if target.Dir != Out {
		return fmt.Errorf("assignment to %q: %w", target.Name, ErrAssignToInput)
	}
	tt, err := b.reg.Resolve(target.Type)
	if err != nil {
		return fmt.Errorf("assignment to %q: %w", target.Name, err)
	}
	if !tt.IsScalar() {
		return fmt.Errorf("assignment to %q: %w: bit literal assigned to %s", target.Name, ErrTypeMismatch, tt)
	}
	return nil
}

// Err returns the joined errors recorded so far, or nil.
func (b *Builder) Err() error {
	return errors.Join(b.errs...)
}

// Program returns the collected statements, or the recorded errors.
func (b *Builder) Program() (Program, error) {
	if err := b.Err(); err != nil {
		return Program{}, err
	}
	stmts := make([]Statement, len(b.stmts))
	copy(stmts, b.stmts)
	return Program{Statements: stmts}, nil
}
