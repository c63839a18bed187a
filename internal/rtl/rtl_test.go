package rtl

import (
	"errors"
	"testing"

	"architect/internal/types"
)

func TestValueOf(t *testing.T) {
	if ValueOf(true) != High || ValueOf(false) != Low {
		t.Fatalf("ValueOf mapping broken")
	}
	if !High.Bool() || Low.Bool() {
		t.Fatalf("Bool mapping broken")
	}
}

func TestSchemaKeepsDeclarationOrder(t *testing.T) {
	reg := types.NewInterner()
	s := NewSchema("ShiftRegister", reg)
	s.Input("clk", types.Logic())
	s.Input("input", types.Logic())
	s.Output("state", types.LogicVector(7, 0))
	s.Output("output", types.Logic())

	iface, err := s.Interface()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantIn := []string{"clk", "input"}
	wantOut := []string{"state", "output"}
	for i, p := range iface.Inputs {
		if p.Name != wantIn[i] {
			t.Fatalf("input %d = %q, want %q", i, p.Name, wantIn[i])
		}
	}
	for i, p := range iface.Outputs {
		if p.Name != wantOut[i] {
			t.Fatalf("output %d = %q, want %q", i, p.Name, wantOut[i])
		}
	}
	if iface.Inputs[0].Type != iface.Inputs[1].Type || iface.Inputs[0].Type != iface.Outputs[1].Type {
		t.Fatalf("std_logic should be interned once")
	}
	if reg.Len() != 2 {
		t.Fatalf("expected 2 interned types, got %d", reg.Len())
	}
}

func TestSchemaRejectsDuplicatesCaseInsensitively(t *testing.T) {
	s := NewSchema("Dup", types.NewInterner())
	s.Input("clk", types.Logic())
	s.Input("CLK", types.Logic())
	_, err := s.Interface()
	if !errors.Is(err, ErrDuplicatePort) {
		t.Fatalf("expected ErrDuplicatePort, got %v", err)
	}
}

func TestSchemaAllowsSameNameAcrossLists(t *testing.T) {
	s := NewSchema("Split", types.NewInterner())
	s.Input("data", types.Logic())
	s.Output("data", types.Logic())
	if _, err := s.Interface(); err != nil {
		t.Fatalf("lists are checked independently, got %v", err)
	}
}

func TestSchemaRejectsEmptyNames(t *testing.T) {
	s := NewSchema("", types.NewInterner())
	s.Output("", types.Logic())
	_, err := s.Interface()
	if !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
}

func TestBuilderKeepsProgramOrder(t *testing.T) {
	reg := types.NewInterner()
	s := NewSchema("Pair", reg)
	a := s.Output("a", types.Logic())
	b := s.Output("b", types.Logic())

	prog, err := NewBuilder(reg).AssignBool(b, true).AssignBool(a, false).Program()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Assignment{{Target: "b", Value: High}, {Target: "a", Value: Low}}
	if prog.Len() != len(want) {
		t.Fatalf("got %d statements", prog.Len())
	}
	for i, st := range prog.Statements {
		if st.(Assignment) != want[i] {
			t.Fatalf("statement %d = %+v, want %+v", i, st, want[i])
		}
	}
}

func TestBuilderRejectsInputTarget(t *testing.T) {
	reg := types.NewInterner()
	s := NewSchema("Bad", reg)
	clk := s.Input("clk", types.Logic())

	_, err := NewBuilder(reg).AssignBool(clk, true).Program()
	if !errors.Is(err, ErrAssignToInput) {
		t.Fatalf("expected ErrAssignToInput, got %v", err)
	}
}

func TestBuilderRejectsVectorTarget(t *testing.T) {
	reg := types.NewInterner()
	s := NewSchema("Bad", reg)
	state := s.Output("state", types.LogicVector(7, 0))

	_, err := NewBuilder(reg).AssignBool(state, true).Program()
	if !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}
}

func TestBuilderRejectsForeignType(t *testing.T) {
	other := types.NewInternerWith(types.Logic(), types.LogicVector(1, 0), types.LogicVector(2, 0))
	sig := Signal{Name: "q", Dir: Out, Type: other.Intern(types.LogicVector(2, 0))}

	_, err := NewBuilder(types.NewInterner()).AssignBool(sig, true).Program()
	if !errors.Is(err, types.ErrInvalidTypeID) {
		t.Fatalf("expected ErrInvalidTypeID, got %v", err)
	}
}

type shiftRegister struct {
	clk, input, state, output Signal
}

func (*shiftRegister) Name() string { return "ShiftRegister" }

func (e *shiftRegister) Declare(s *Schema) {
	e.clk = s.Input("clk", types.Logic())
	e.input = s.Input("input", types.Logic())
	e.state = s.Output("state", types.LogicVector(7, 0))
	e.output = s.Output("output", types.Logic())
}

func (e *shiftRegister) Elaborate(b *Builder) {
	b.AssignBool(e.output, true)
}

func TestElaborateEntity(t *testing.T) {
	mod, err := Elaborate(&shiftRegister{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mod.Interface.Name != "ShiftRegister" || mod.Interface.PortCount() != 4 {
		t.Fatalf("unexpected interface %+v", mod.Interface)
	}
	if mod.Program.Len() != 1 {
		t.Fatalf("expected one statement, got %d", mod.Program.Len())
	}
	sig, ok := mod.Interface.Find("state")
	if !ok || sig.Dir != Out {
		t.Fatalf("Find(state) = %+v, %v", sig, ok)
	}
	if got := mod.Types.MustLookup(sig.Type); got != types.LogicVector(7, 0) {
		t.Fatalf("state type = %v", got)
	}
}
