package project

import (
	"os"
	"path/filepath"
	"testing"

	"architect/internal/diag"
)

const shiftManifest = `
[package]
name = "shift"
version = "0.1.0"
architect = ">=0.1.0"

[emit]
out_dir = "out"
use_clause = false

[[entity]]
name = "ShiftRegister"
inputs = [
  { name = "clk", type = "std_logic" },
  { name = "input", type = "std_logic" },
]
outputs = [
  { name = "state", type = "std_logic_vector", range = [7, 0] },
  { name = "output", type = "std_logic" },
]
assign = [
  { target = "output", value = true },
]
`

func TestDecodeKeepsDeclarationOrder(t *testing.T) {
	m, err := Decode("architect.toml", shiftManifest)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(m.Config.Entities) != 1 {
		t.Fatalf("expected one entity, got %d", len(m.Config.Entities))
	}
	e := m.Config.Entities[0]
	if e.Inputs[0].Name != "clk" || e.Inputs[1].Name != "input" {
		t.Fatalf("inputs out of order: %+v", e.Inputs)
	}
	if e.Outputs[0].Name != "state" || e.Outputs[1].Name != "output" {
		t.Fatalf("outputs out of order: %+v", e.Outputs)
	}
	if got := e.Outputs[0].Range; len(got) != 2 || got[0] != 7 || got[1] != 0 {
		t.Fatalf("range = %v", got)
	}
	if len(e.Assign) != 1 || e.Assign[0].Target != "output" || !e.Assign[0].Value {
		t.Fatalf("assign = %+v", e.Assign)
	}
	if m.UseClause() {
		t.Fatalf("use_clause = false should be honoured")
	}
	if _, ok := m.Entity("ShiftRegister"); !ok {
		t.Fatalf("Entity lookup failed")
	}
}

func TestCheckAcceptsValidManifest(t *testing.T) {
	m, err := Decode("architect.toml", shiftManifest)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	bag := diag.NewBag(20)
	Check(m, diag.BagReporter{Bag: bag}, "0.1.0-dev")
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
}

func TestCheckReportsProblems(t *testing.T) {
	m, err := Decode("architect.toml", `
[package]
version = "one"
architect = ">=9.0.0"
colour = "blue"
`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	bag := diag.NewBag(20)
	Check(m, diag.BagReporter{Bag: bag}, "0.1.0")
	want := map[diag.Code]bool{
		diag.ProjMissingName: false,
		diag.ProjBadVersion:  false,
		diag.ProjToolTooOld:  false,
		diag.ProjNoEntities:  false,
		diag.ProjUnknownKey:  false,
	}
	for _, d := range bag.Items() {
		if _, ok := want[d.Code]; ok {
			want[d.Code] = true
		}
	}
	for code, seen := range want {
		if !seen {
			t.Errorf("expected %s", code.ID())
		}
	}
}

func TestCheckRejectsBadConstraint(t *testing.T) {
	m, err := Decode("architect.toml", "[package]\nname = \"x\"\narchitect = \"~>banana\"\n")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	bag := diag.NewBag(20)
	Check(m, diag.BagReporter{Bag: bag}, "0.1.0")
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.ProjBadToolConstraint {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected PRJ5004, got %+v", bag.Items())
	}
}

func TestFindManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ManifestName), []byte(shiftManifest), 0o600); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	m, ok, err := Discover(nested)
	if err != nil || !ok {
		t.Fatalf("Discover: ok=%v err=%v", ok, err)
	}
	wantRoot, _ := filepath.Abs(root)
	if m.Root != wantRoot {
		t.Fatalf("root = %q, want %q", m.Root, wantRoot)
	}
	out, stdout := m.OutDir()
	if stdout || out != filepath.Join(wantRoot, "out") {
		t.Fatalf("OutDir = %q, %v", out, stdout)
	}
}

func TestLoadReportsSyntaxErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), ManifestName)
	if err := os.WriteFile(path, []byte("[package\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestDigest(t *testing.T) {
	a := Sum([]byte("a"))
	if a.IsZero() || a == Sum([]byte("b")) {
		t.Fatalf("digests should differ and be non-zero")
	}
	if len(a.String()) != 64 {
		t.Fatalf("hex form should be 64 chars")
	}
}
