package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"architect/internal/diag"
)

func sampleBag() *diag.Bag {
	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.SemaDuplicatePort,
		diag.Location{File: "/home/user/shift/architect.toml", Path: "entity.X.inputs[1]"},
		`in port "clk" is declared twice`).
		WithNote(diag.Location{File: "/home/user/shift/architect.toml", Path: "entity.X.inputs[0]"}, "first declared here"))
	bag.Add(diag.New(diag.SevWarning, diag.SemaInvertedRange,
		diag.Location{File: "/home/user/shift/architect.toml", Path: "entity.X.outputs[0].range"},
		"range (0 downto 7) has high < low; emitted as written"))
	return bag
}

func TestPrettyPathModes(t *testing.T) {
	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/shift/architect.toml: entity.X.inputs[1]"},
		{"Relative path", PathModeRelative, "shift/architect.toml: entity.X.inputs[1]"},
		{"Basename only", PathModeBasename, "architect.toml: entity.X.inputs[1]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			opts := PrettyOpts{PathMode: tt.mode, BaseDir: "/home/user"}
			if err := Pretty(&buf, sampleBag(), opts); err != nil {
				t.Fatal(err)
			}
			out := buf.String()
			if !strings.Contains(out, tt.contains) {
				t.Errorf("expected %q in:\n%s", tt.contains, out)
			}
			if !strings.Contains(out, "ERROR SEM3002") || !strings.Contains(out, "WARNING SEM3004") {
				t.Errorf("severity/code missing:\n%s", out)
			}
			if strings.Contains(out, "note:") {
				t.Errorf("notes must be hidden unless requested")
			}
		})
	}
}

func TestPrettyNotesAndSummary(t *testing.T) {
	var buf bytes.Buffer
	opts := PrettyOpts{PathMode: PathModeBasename, ShowNotes: true, Summary: true}
	if err := Pretty(&buf, sampleBag(), opts); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "    note: architect.toml: entity.X.inputs[0]: first declared here") {
		t.Errorf("note missing:\n%s", out)
	}
	if !strings.HasSuffix(out, "1 error, 1 warning\n") {
		t.Errorf("summary missing:\n%s", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("color disabled but escape codes present")
	}
}

func TestPrettyColor(t *testing.T) {
	var buf bytes.Buffer
	if err := Pretty(&buf, sampleBag(), PrettyOpts{Color: true}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("expected ANSI escapes with Color=true")
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, sampleBag(), JSONOpts{PathMode: PathModeBasename, IncludeNotes: true}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if out.Count != 2 || out.Errors != 1 || out.Warnings != 1 {
		t.Fatalf("counts = %+v", out)
	}
	d := out.Diagnostics[0]
	if d.Code != "SEM3002" || d.Severity != "ERROR" || d.Location.File != "architect.toml" || d.Location.Path != "entity.X.inputs[1]" {
		t.Fatalf("diagnostic = %+v", d)
	}
	if len(d.Notes) != 1 || d.Notes[0].Location.Path != "entity.X.inputs[0]" {
		t.Fatalf("notes = %+v", d.Notes)
	}
}

func TestJSONMax(t *testing.T) {
	out := BuildDiagnosticsOutput(sampleBag(), JSONOpts{Max: 1})
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("Max not applied: %+v", out)
	}
	if out.Errors != 1 || out.Warnings != 1 {
		t.Fatalf("totals should cover the whole bag: %+v", out)
	}
	if out.Diagnostics[0].Notes != nil {
		t.Fatalf("notes should be omitted by default")
	}
}
