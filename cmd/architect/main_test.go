package main

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/fsnotify/fsnotify"

	"architect/internal/project"
)

func TestManifestTemplateDecodes(t *testing.T) {
	text, err := renderManifestTemplate("demo")
	if err != nil {
		t.Fatalf("template: %v", err)
	}
	m, err := project.Decode(project.ManifestName, text)
	if err != nil {
		t.Fatal(err)
	}
	if m.Name() != "demo" {
		t.Fatalf("name = %q", m.Name())
	}
	if _, ok := m.Entity("ShiftRegister"); !ok {
		t.Fatal("template should declare ShiftRegister")
	}
	if !strings.Contains(text, ">="+minToolVersion()) {
		t.Fatalf("constraint missing from template:\n%s", text)
	}
}

func TestReadUIMode(t *testing.T) {
	tests := []struct {
		in   string
		want uiMode
		ok   bool
	}{
		{"", uiModeAuto, true},
		{"AUTO", uiModeAuto, true},
		{" on ", uiModeOn, true},
		{"off", uiModeOff, true},
		{"fancy", "", false},
	}
	for _, tt := range tests {
		got, err := readUIMode(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("readUIMode(%q) = %q, %v", tt.in, got, err)
		}
	}
	if shouldUseTUI(uiModeOn, true) {
		t.Error("stdout output must never use the progress view")
	}
	if !shouldUseTUI(uiModeOn, false) || shouldUseTUI(uiModeOff, false) {
		t.Error("explicit modes should win")
	}
}

func TestReadDiagFormat(t *testing.T) {
	if f, err := readDiagFormat("JSON"); err != nil || f != diagFormatJSON {
		t.Fatalf("got %q, %v", f, err)
	}
	if _, err := readDiagFormat("xml"); err == nil {
		t.Fatal("expected error")
	}
}

func TestIsManifestEvent(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, project.ManifestName)
	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"write", fsnotify.Event{Name: manifest, Op: fsnotify.Write}, true},
		{"create", fsnotify.Event{Name: manifest, Op: fsnotify.Create}, true},
		{"chmod only", fsnotify.Event{Name: manifest, Op: fsnotify.Chmod}, false},
		{"other file", fsnotify.Event{Name: filepath.Join(dir, "notes.txt"), Op: fsnotify.Write}, false},
		{"unclean path", fsnotify.Event{Name: dir + "/./" + project.ManifestName, Op: fsnotify.Write}, true},
	}
	for _, tt := range tests {
		if got := isManifestEvent(tt.ev, manifest); got != tt.want {
			t.Errorf("%s: got %v", tt.name, got)
		}
	}
}

func TestFormatPathForOutput(t *testing.T) {
	base := filepath.FromSlash("/work/proj")
	if got := formatPathForOutput(base, filepath.Join(base, "build", "A.vhd")); got != filepath.Join("build", "A.vhd") {
		t.Fatalf("got %q", got)
	}
	if got := formatPathForOutput(base, filepath.Join(base, ".architect")); got != ".architect" {
		t.Fatalf("got %q", got)
	}
	outside := filepath.FromSlash("/elsewhere/out")
	if got := formatPathForOutput(base, outside); got != outside {
		t.Fatalf("got %q", got)
	}
}
