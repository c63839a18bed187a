package elab

import (
	"testing"

	"architect/internal/diag"
	"architect/internal/project"
	"architect/internal/rtl"
	"architect/internal/types"
)

func shiftDecl() project.EntityDecl {
	return project.EntityDecl{
		Name: "ShiftRegister",
		Inputs: []project.PortDecl{
			{Name: "clk", Type: "std_logic"},
			{Name: "input", Type: "std_logic"},
		},
		Outputs: []project.PortDecl{
			{Name: "state", Type: "std_logic_vector", Range: []int64{7, 0}},
			{Name: "output", Type: "std_logic"},
		},
		Assign: []project.AssignDecl{{Target: "output", Value: true}},
	}
}

func lower(t *testing.T, decl project.EntityDecl) (Unit, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag(50)
	u := Lower("architect.toml", 0, decl, diag.BagReporter{Bag: bag})
	return u, bag
}

func codes(bag *diag.Bag) map[diag.Code]diag.Severity {
	out := make(map[diag.Code]diag.Severity)
	for _, d := range bag.Items() {
		out[d.Code] = d.Severity
	}
	return out
}

func TestLowerShiftRegister(t *testing.T) {
	u, bag := lower(t, shiftDecl())
	if !u.OK {
		t.Fatalf("lowering failed: %+v", bag.Items())
	}
	if bag.HasErrors() || bag.HasWarnings() {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
	iface := u.Module.Interface
	if iface.Name != "ShiftRegister" || len(iface.Inputs) != 2 || len(iface.Outputs) != 2 {
		t.Fatalf("interface = %+v", iface)
	}
	if u.Module.Types.Len() != 2 {
		t.Fatalf("expected 2 interned types, got %d", u.Module.Types.Len())
	}
	if iface.Inputs[0].Type != iface.Inputs[1].Type || iface.Inputs[0].Type != iface.Outputs[1].Type {
		t.Fatalf("std_logic ports should share one id")
	}
	state, err := u.Module.Types.Resolve(iface.Outputs[0].Type)
	if err != nil || state != types.LogicVector(7, 0) {
		t.Fatalf("state type = %v, %v", state, err)
	}
	if u.Module.Program.Len() != 1 {
		t.Fatalf("program = %+v", u.Module.Program)
	}
	if a, ok := u.Module.Program.Statements[0].(rtl.Assignment); !ok || a.Target != "output" || a.Value != rtl.High {
		t.Fatalf("statement = %#v", u.Module.Program.Statements[0])
	}
}

func TestLowerInlineRange(t *testing.T) {
	decl := shiftDecl()
	decl.Outputs[0] = project.PortDecl{Name: "state", Type: "std_logic_vector(15 downto 8)"}
	u, bag := lower(t, decl)
	if !u.OK {
		t.Fatalf("lowering failed: %+v", bag.Items())
	}
	got := u.Module.Types.MustLookup(u.Module.Interface.Outputs[0].Type)
	if got != types.LogicVector(15, 8) {
		t.Fatalf("type = %v", got)
	}
}

func TestLowerReportsErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*project.EntityDecl)
		code   diag.Code
	}{
		{"empty entity name", func(d *project.EntityDecl) { d.Name = "" }, diag.SemaEmptyName},
		{"empty port name", func(d *project.EntityDecl) { d.Inputs[0].Name = "" }, diag.SemaEmptyName},
		{"duplicate port", func(d *project.EntityDecl) { d.Inputs[1].Name = "CLK" }, diag.SemaDuplicatePort},
		{"missing type", func(d *project.EntityDecl) { d.Inputs[0].Type = "" }, diag.SemaMissingType},
		{"range arity", func(d *project.EntityDecl) { d.Outputs[0].Range = []int64{7} }, diag.SemaBadRange},
		{"negative bound", func(d *project.EntityDecl) { d.Outputs[0].Range = []int64{7, -1} }, diag.SemaBadRange},
		{"range twice", func(d *project.EntityDecl) { d.Outputs[0].Type = "std_logic_vector(3 downto 0)" }, diag.SemaBadRange},
		{"garbled type", func(d *project.EntityDecl) { d.Inputs[0].Type = "std_logic(" }, diag.SemaBadRange},
		{"unknown target", func(d *project.EntityDecl) { d.Assign[0].Target = "nope" }, diag.SemaUnknownSignal},
		{"input target", func(d *project.EntityDecl) { d.Assign[0].Target = "clk" }, diag.SemaAssignToInput},
		{"vector target", func(d *project.EntityDecl) { d.Assign[0].Target = "state" }, diag.SemaTypeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decl := shiftDecl()
			tt.mutate(&decl)
			u, bag := lower(t, decl)
			if u.OK {
				t.Fatalf("expected failure")
			}
			got := codes(bag)
			if sev, ok := got[tt.code]; !ok || sev != diag.SevError {
				t.Fatalf("expected error %s, got %+v", tt.code.ID(), bag.Items())
			}
		})
	}
}

func TestLowerWarnings(t *testing.T) {
	decl := shiftDecl()
	decl.Outputs[0].Range = []int64{0, 7}
	decl.Assign = append(decl.Assign, project.AssignDecl{Target: "OUTPUT", Value: false})
	u, bag := lower(t, decl)
	if !u.OK {
		t.Fatalf("warnings must not fail lowering: %+v", bag.Items())
	}
	got := codes(bag)
	if got[diag.SemaInvertedRange] != diag.SevWarning {
		t.Errorf("expected inverted range warning")
	}
	if got[diag.SemaMultipleDrivers] != diag.SevWarning {
		t.Errorf("expected multiple drivers warning")
	}
	if sev, ok := got[diag.SemaUndrivenOutput]; !ok || sev != diag.SevInfo {
		t.Errorf("expected undriven info for state")
	}
	// inverted ranges are kept as written
	st := u.Module.Types.MustLookup(u.Module.Interface.Outputs[0].Type)
	if st.Range.High != 0 || st.Range.Low != 7 {
		t.Fatalf("range was altered: %v", st)
	}
	if u.Module.Program.Len() != 2 {
		t.Fatalf("both assignments should be kept, got %d", u.Module.Program.Len())
	}
}

func TestDiagnosticsCarryKeyPaths(t *testing.T) {
	decl := shiftDecl()
	decl.Inputs[1].Name = "Clk"
	_, bag := lower(t, decl)
	items := bag.Items()
	if len(items) == 0 {
		t.Fatal("expected diagnostics")
	}
	d := items[0]
	if d.Primary.Path != "entity.ShiftRegister.inputs[1]" {
		t.Fatalf("path = %q", d.Primary.Path)
	}
	if len(d.Notes) != 1 || d.Notes[0].At.Path != "entity.ShiftRegister.inputs[0]" {
		t.Fatalf("notes = %+v", d.Notes)
	}
}

func TestLowerManifestDuplicateEntity(t *testing.T) {
	m := &project.Manifest{Path: "architect.toml"}
	a := shiftDecl()
	b := shiftDecl()
	b.Name = "shiftregister"
	m.Config.Entities = []project.EntityDecl{a, b}
	bag := diag.NewBag(20)
	units := LowerManifest(m, diag.BagReporter{Bag: bag})
	if len(units) != 2 || !units[0].OK || units[1].OK {
		t.Fatalf("units = %+v", units)
	}
	if _, ok := codes(bag)[diag.SemaDuplicateEntity]; !ok {
		t.Fatalf("expected SEM3008, got %+v", bag.Items())
	}
}

func TestSelect(t *testing.T) {
	units := []Unit{{Decl: project.EntityDecl{Name: "A"}}, {Decl: project.EntityDecl{Name: "B"}}}
	picked, unknown := Select(units, []string{"b", "c"})
	if len(picked) != 1 || picked[0].Decl.Name != "B" {
		t.Fatalf("picked = %+v", picked)
	}
	if len(unknown) != 1 || unknown[0] != "c" {
		t.Fatalf("unknown = %v", unknown)
	}
	if all, _ := Select(units, nil); len(all) != 2 {
		t.Fatalf("empty selection should keep everything")
	}
}

func TestParseTypeSpec(t *testing.T) {
	tests := []struct {
		in   string
		ok   bool
		want typeSpec
	}{
		{"std_logic", true, typeSpec{base: "std_logic"}},
		{" std_logic_vector(7 downto 0) ", true, typeSpec{base: "std_logic_vector", ranged: true, high: 7}},
		{"unsigned(3 DOWNTO 1)", true, typeSpec{base: "unsigned", ranged: true, high: 3, low: 1}},
		{"std_logic_vector(7 to 0)", false, typeSpec{}},
		{"std_logic_vector(7 downto 0", false, typeSpec{}},
		{"(7 downto 0)", false, typeSpec{}},
		{"", false, typeSpec{}},
		{"two words", false, typeSpec{}},
	}
	for _, tt := range tests {
		got, ok := parseTypeSpec(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("parseTypeSpec(%q) = %+v, %v", tt.in, got, ok)
		}
	}
}
