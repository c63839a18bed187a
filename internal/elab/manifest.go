package elab

import (
	"fmt"

	"architect/internal/diag"
	"architect/internal/project"
	"architect/internal/rtl"
)

// LowerManifest lowers every [[entity]] of m in declaration order. An entity
// whose name repeats an earlier one (case-insensitively) is reported and
// not lowered, so each output file has exactly one source.
func LowerManifest(m *project.Manifest, r diag.Reporter) []Unit {
	units := make([]Unit, 0, len(m.Config.Entities))
	first := make(map[string]int, len(m.Config.Entities))
	for i, decl := range m.Config.Entities {
		if decl.Name != "" {
			key := rtl.FoldIdent(decl.Name)
			if prev, ok := first[key]; ok {
				prevDecl := m.Config.Entities[prev]
				diag.ReportError(r, diag.SemaDuplicateEntity,
					diag.Location{File: m.Path, Path: fmt.Sprintf("entity[%d].name", i)},
					fmt.Sprintf("entity %q is declared more than once", decl.Name)).
					WithNote(diag.Location{File: m.Path, Path: EntityPath(prev, prevDecl)}, "first declared here").
					Emit()
				units = append(units, Unit{Index: i, Decl: decl})
				continue
			}
			first[key] = i
		}
		units = append(units, Lower(m.Path, i, decl, r))
	}
	return units
}

// Select filters units to the named entities. Unknown names are returned
// separately.
func Select(units []Unit, names []string) (picked []Unit, unknown []string) {
	if len(names) == 0 {
		return units, nil
	}
	for _, name := range names {
		found := false
		for _, u := range units {
			if u.Decl.Name != "" && rtl.FoldIdent(u.Decl.Name) == rtl.FoldIdent(name) {
				picked = append(picked, u)
				found = true
				break
			}
		}
		if !found {
			unknown = append(unknown, name)
		}
	}
	return picked, unknown
}
