package vhdl

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"architect/internal/rtl"
	"architect/internal/types"
)

const shiftRegisterVHDL = `library ieee;

entity ShiftRegister is
	port (
		clk : in std_logic;
		input : in std_logic;
		state : out std_logic_vector(7 downto 0);
		output : out std_logic
	);
end ShiftRegister;

architecture rtl of ShiftRegister is
begin
	output <= '1';
end rtl;
`

func shiftRegister(t *testing.T) (rtl.Interface, *types.Interner, rtl.Program) {
	t.Helper()
	reg := types.NewInterner()
	s := rtl.NewSchema("ShiftRegister", reg)
	s.Input("clk", types.Logic())
	s.Input("input", types.Logic())
	s.Output("state", types.LogicVector(7, 0))
	out := s.Output("output", types.Logic())
	iface, err := s.Interface()
	if err != nil {
		t.Fatalf("interface: %v", err)
	}
	prog, err := rtl.NewBuilder(reg).AssignBool(out, true).Program()
	if err != nil {
		t.Fatalf("program: %v", err)
	}
	return iface, reg, prog
}

func TestEmitShiftRegister(t *testing.T) {
	iface, reg, prog := shiftRegister(t)
	var buf bytes.Buffer
	if err := Emit(&buf, iface, reg, prog); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if got := buf.String(); got != shiftRegisterVHDL {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, shiftRegisterVHDL)
	}
}

func TestEmitUseClauseAndArchitectureName(t *testing.T) {
	iface, reg, prog := shiftRegister(t)
	var buf bytes.Buffer
	if err := Emit(&buf, iface, reg, prog, WithUseClause(true), WithArchitectureName("behavior")); err != nil {
		t.Fatalf("emit: %v", err)
	}
	got := buf.String()
	if !strings.HasPrefix(got, "library ieee;\nuse ieee.std_logic_1164.all;\n\nentity ShiftRegister is\n") {
		t.Fatalf("missing use clause:\n%s", got)
	}
	if !strings.Contains(got, "architecture behavior of ShiftRegister is\n") || !strings.HasSuffix(got, "end behavior;\n") {
		t.Fatalf("architecture name not applied:\n%s", got)
	}
}

func portLines(out string) []string {
	var lines []string
	for _, l := range strings.Split(out, "\n") {
		if strings.HasPrefix(l, "\t\t") {
			lines = append(lines, strings.TrimPrefix(l, "\t\t"))
		}
	}
	return lines
}

func TestEmitSeparators(t *testing.T) {
	tests := []struct {
		name    string
		inputs  []string
		outputs []string
		want    []string
	}{
		{
			name:   "inputs only",
			inputs: []string{"a", "b"},
			want:   []string{"a : in std_logic;", "b : in std_logic"},
		},
		{
			name:    "one of each",
			inputs:  []string{"a"},
			outputs: []string{"c"},
			want:    []string{"a : in std_logic;", "c : out std_logic"},
		},
		{
			name:    "outputs only",
			outputs: []string{"x", "y"},
			want:    []string{"x : out std_logic;", "y : out std_logic"},
		},
		{
			name:   "single port",
			inputs: []string{"a"},
			want:   []string{"a : in std_logic"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := types.NewInterner()
			s := rtl.NewSchema("M", reg)
			for _, n := range tt.inputs {
				s.Input(n, types.Logic())
			}
			for _, n := range tt.outputs {
				s.Output(n, types.Logic())
			}
			iface, err := s.Interface()
			if err != nil {
				t.Fatalf("interface: %v", err)
			}
			var buf bytes.Buffer
			if err := Emit(&buf, iface, reg, rtl.Program{}); err != nil {
				t.Fatalf("emit: %v", err)
			}
			got := portLines(buf.String())
			if len(got) != len(tt.want) {
				t.Fatalf("got %d port lines %q, want %q", len(got), got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("line %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestEmitWithoutPortsOmitsPortClause(t *testing.T) {
	var buf bytes.Buffer
	if err := Emit(&buf, rtl.Interface{Name: "Empty"}, types.NewInterner(), rtl.Program{}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	want := "library ieee;\n\nentity Empty is\nend Empty;\n\narchitecture rtl of Empty is\nbegin\nend rtl;\n"
	if buf.String() != want {
		t.Fatalf("got:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestEmitStatementOrderAndLiterals(t *testing.T) {
	reg := types.NewInterner()
	s := rtl.NewSchema("Lits", reg)
	a := s.Output("a", types.Logic())
	b := s.Output("b", types.Logic())
	iface, _ := s.Interface()
	prog, err := rtl.NewBuilder(reg).
		AssignBool(b, false).
		AssignBool(a, true).
		AssignBool(b, true).
		Program()
	if err != nil {
		t.Fatalf("program: %v", err)
	}
	var buf bytes.Buffer
	if err := Emit(&buf, iface, reg, prog); err != nil {
		t.Fatalf("emit: %v", err)
	}
	want := "begin\n\tb <= '0';\n\ta <= '1';\n\tb <= '1';\nend rtl;\n"
	if !strings.HasSuffix(buf.String(), want) {
		t.Fatalf("unexpected body:\n%s", buf.String())
	}
}

func TestRenderValue(t *testing.T) {
	if RenderValue(rtl.ValueOf(true)) != "'1'" || RenderValue(rtl.ValueOf(false)) != "'0'" {
		t.Fatalf("literal tokens wrong")
	}
}

func TestRenderTypeKeepsRangeOrder(t *testing.T) {
	if got := RenderType(types.LogicVector(0, 7)); got != "std_logic_vector(0 downto 7)" {
		t.Fatalf("got %q", got)
	}
	if got := RenderType(types.Logic()); got != "std_logic" {
		t.Fatalf("got %q", got)
	}
}

func TestEmitRejectsForeignTypeBeforeWriting(t *testing.T) {
	other := types.NewInternerWith(types.Logic(), types.LogicVector(3, 0), types.LogicVector(7, 0))
	iface := rtl.Interface{
		Name:    "Foreign",
		Outputs: []rtl.Port{{Name: "q", Type: other.Intern(types.LogicVector(7, 0))}},
	}
	var buf bytes.Buffer
	err := Emit(&buf, iface, types.NewInternerWith(types.Logic()), rtl.Program{})
	if !errors.Is(err, types.ErrInvalidTypeID) {
		t.Fatalf("expected ErrInvalidTypeID, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("nothing should be written, got %q", buf.String())
	}
}

func TestEmitRejectsEmptyName(t *testing.T) {
	err := Emit(&bytes.Buffer{}, rtl.Interface{}, types.NewInterner(), rtl.Program{})
	if !errors.Is(err, ErrEmptyEntityName) {
		t.Fatalf("expected ErrEmptyEntityName, got %v", err)
	}
}

// failingWriter accepts the first `allow` writes and fails afterwards.
type failingWriter struct {
	allow int
	calls int
	err   error
}

func (w *failingWriter) Write(p []byte) (int, error) {
	w.calls++
	if w.calls > w.allow {
		return 0, w.err
	}
	return len(p), nil
}

func TestEmitNamesFailingStage(t *testing.T) {
	sinkErr := errors.New("disk full")
	stages := []Stage{StagePreamble, StageEntityHeader, StagePortList, StageEntityEnd, StageArchitecture}
	for allow, want := range stages {
		t.Run(string(want), func(t *testing.T) {
			iface, reg, prog := shiftRegister(t)
			err := Emit(&failingWriter{allow: allow, err: sinkErr}, iface, reg, prog)
			var emitErr *EmitError
			if !errors.As(err, &emitErr) {
				t.Fatalf("expected *EmitError, got %v", err)
			}
			if emitErr.Stage != want {
				t.Fatalf("stage = %q, want %q", emitErr.Stage, want)
			}
			if !errors.Is(err, sinkErr) {
				t.Fatalf("sink error must pass through, got %v", err)
			}
		})
	}
}
