package observ

import (
	"errors"
	"strings"
	"testing"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	if err := tm.Track("cache", func() error { return nil }); err != nil {
		t.Fatal(err)
	}
	boom := errors.New("boom")
	if err := tm.Track("emit", func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("Track should return fn's error, got %v", err)
	}
	r := tm.Report()
	if len(r.Phases) != 2 || r.Phases[0].Name != "cache" || r.Phases[1].Note != "boom" {
		t.Fatalf("report = %+v", r)
	}
	r.Label = "ShiftRegister"
	s := Summary(r, Report{})
	if !strings.HasPrefix(s, "ShiftRegister:\n") || !strings.Contains(s, "// boom") || !strings.Contains(s, "total") {
		t.Fatalf("summary = %q", s)
	}
}

func TestTimerIgnoresBadIndex(t *testing.T) {
	tm := NewTimer()
	tm.End(3, "x")
	if len(tm.Report().Phases) != 0 {
		t.Fatal("End with a bad index must not add phases")
	}
	var nilTimer *Timer
	if nilTimer.Report().TotalMS != 0 {
		t.Fatal("nil timer reports nothing")
	}
}
