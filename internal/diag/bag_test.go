package diag

import "testing"

func TestBagRespectsLimit(t *testing.T) {
	bag := NewBag(2)
	for i := 0; i < 3; i++ {
		bag.Add(NewError(SemaEmptyName, Location{Path: "entity"}, "x"))
	}
	if bag.Len() != 2 {
		t.Fatalf("expected 2 items, got %d", bag.Len())
	}
}

func TestBagZeroLimitMeansUnbounded(t *testing.T) {
	bag := NewBag(0)
	if bag.Cap() == 0 {
		t.Fatalf("zero limit should not drop everything")
	}
	if !bag.Add(New(SevInfo, ProjInfo, Location{}, "hello")) {
		t.Fatalf("add failed")
	}
}

func TestBagSortAndDedup(t *testing.T) {
	bag := NewBag(10)
	r := BagReporter{Bag: bag}
	ReportWarning(r, SemaInvertedRange, Location{File: "a.toml", Path: "entity.B"}, "w").Emit()
	ReportError(r, SemaDuplicatePort, Location{File: "a.toml", Path: "entity.A"}, "e").Emit()
	ReportError(r, SemaDuplicatePort, Location{File: "a.toml", Path: "entity.A"}, "e").Emit()
	ReportError(r, SemaAssignToInput, Location{File: "a.toml", Path: "entity.B"}, "e2").Emit()

	bag.Dedup()
	bag.Sort()
	items := bag.Items()
	if len(items) != 3 {
		t.Fatalf("expected 3 items after dedup, got %d", len(items))
	}
	if items[0].Primary.Path != "entity.A" {
		t.Fatalf("expected entity.A first, got %s", items[0].Primary)
	}
	if items[1].Severity != SevError || items[2].Severity != SevWarning {
		t.Fatalf("errors should sort before warnings at the same location")
	}
	if !bag.HasErrors() || !bag.HasWarnings() {
		t.Fatalf("expected errors and warnings")
	}
	if bag.Count(SevError) != 2 {
		t.Fatalf("expected 2 errors, got %d", bag.Count(SevError))
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(10)
	b := ReportError(BagReporter{Bag: bag}, SemaUnknownSignal, Location{Path: "x"}, "nope").
		WithNote(Location{Path: "y"}, "declared here")
	b.Emit()
	b.Emit()
	if bag.Len() != 1 {
		t.Fatalf("expected one diagnostic, got %d", bag.Len())
	}
	if len(bag.Items()[0].Notes) != 1 {
		t.Fatalf("note lost")
	}
}

func TestCodeID(t *testing.T) {
	cases := map[Code]string{
		SemaDuplicatePort: "SEM3002",
		IOWriteFailed:     "IO4002",
		ProjBadVersion:    "PRJ5003",
		UnknownCode:       "E0000",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Errorf("%d.ID() = %q, want %q", code, got, want)
		}
	}
}
