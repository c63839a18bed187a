// Package elab lowers manifest entity declarations into elaborated
// modules, reporting every problem as a located diagnostic.
package elab

import (
	"errors"
	"fmt"

	"fortio.org/safecast"

	"architect/internal/diag"
	"architect/internal/project"
	"architect/internal/rtl"
	"architect/internal/types"
)

// Unit is one lowered entity.
type Unit struct {
	Index  int
	Decl   project.EntityDecl
	Module rtl.Module
	// OK is false when an error diagnostic was reported for this entity.
	OK bool
}

// Name returns the entity name, falling back to its position.
func (u Unit) Name() string {
	if u.Decl.Name != "" {
		return u.Decl.Name
	}
	return fmt.Sprintf("entity[%d]", u.Index)
}

// EntityPath returns the key path of the i-th entity declaration.
func EntityPath(i int, decl project.EntityDecl) string {
	if decl.Name == "" {
		return fmt.Sprintf("entity[%d]", i)
	}
	return "entity." + decl.Name
}

type lowerer struct {
	file    string
	base    string
	r       diag.Reporter
	failed  bool
	reg     *types.Interner
	signals map[string]rtl.Signal
	origin  map[string]string
}

// Lower elaborates one entity declaration against a fresh interner.
func Lower(file string, index int, decl project.EntityDecl, r diag.Reporter) Unit {
	return LowerWith(file, index, decl, r, types.NewInterner())
}

// LowerWith elaborates one entity declaration, interning into reg.
func LowerWith(file string, index int, decl project.EntityDecl, r diag.Reporter, reg *types.Interner) Unit {
	l := &lowerer{
		file:    file,
		base:    EntityPath(index, decl),
		r:       r,
		reg:     reg,
		signals: make(map[string]rtl.Signal),
		origin:  make(map[string]string),
	}
	unit := Unit{Index: index, Decl: decl}

	if decl.Name == "" {
		l.errorf(diag.SemaEmptyName, l.base+".name", "entity has no name")
	}

	schema := rtl.NewSchema(decl.Name, reg)
	l.declarePorts(schema, rtl.In, "inputs", decl.Inputs)
	l.declarePorts(schema, rtl.Out, "outputs", decl.Outputs)
	if l.failed {
		return unit
	}
	iface, err := schema.Interface()
	if err != nil {
		l.errorf(codeOf(err), l.base, "%v", err)
		return unit
	}

	b := rtl.NewBuilder(reg)
	l.assign(b, decl.Assign)
	l.checkUndriven(decl)
	if l.failed {
		return unit
	}
	prog, err := b.Program()
	if err != nil {
		l.errorf(codeOf(err), l.base+".assign", "%v", err)
		return unit
	}
	unit.Module = rtl.Module{Interface: iface, Program: prog, Types: reg}
	unit.OK = true
	return unit
}

func (l *lowerer) at(path string) diag.Location {
	return diag.Location{File: l.file, Path: path}
}

func (l *lowerer) errorf(code diag.Code, path, format string, args ...any) {
	l.failed = true
	diag.ReportError(l.r, code, l.at(path), fmt.Sprintf(format, args...)).Emit()
}

// codeOf maps a schema or builder error to its diagnostic code.
func codeOf(err error) diag.Code {
	switch {
	case errors.Is(err, rtl.ErrEmptyName):
		return diag.SemaEmptyName
	case errors.Is(err, rtl.ErrDuplicatePort):
		return diag.SemaDuplicatePort
	case errors.Is(err, rtl.ErrAssignToInput):
		return diag.SemaAssignToInput
	default:
		return diag.SemaTypeMismatch
	}
}

func (l *lowerer) declarePorts(schema *rtl.Schema, dir rtl.Direction, key string, ports []project.PortDecl) {
	seen := make(map[string]string, len(ports))
	for i, p := range ports {
		path := fmt.Sprintf("%s.%s[%d]", l.base, key, i)
		if p.Name == "" {
			l.errorf(diag.SemaEmptyName, path+".name", "%s port has no name", dir)
			continue
		}
		folded := rtl.FoldIdent(p.Name)
		if prev, ok := seen[folded]; ok {
			diag.ReportError(l.r, diag.SemaDuplicatePort, l.at(path),
				fmt.Sprintf("%s port %q is declared twice", dir, p.Name)).
				WithNote(l.at(prev), "first declared here").
				Emit()
			l.failed = true
			continue
		}
		seen[folded] = path

		t, ok := l.portType(path, p)
		if !ok {
			continue
		}
		var sig rtl.Signal
		if dir == rtl.In {
			sig = schema.Input(p.Name, t)
		} else {
			sig = schema.Output(p.Name, t)
		}
		// an output shadows an input of the same name as assignment target
		if _, exists := l.signals[folded]; !exists || dir == rtl.Out {
			l.signals[folded] = sig
			l.origin[folded] = path
		}
	}
}

func (l *lowerer) portType(path string, p project.PortDecl) (types.Type, bool) {
	if p.Type == "" {
		l.errorf(diag.SemaMissingType, path+".type", "port %q has no type", p.Name)
		return types.Type{}, false
	}
	spec, ok := parseTypeSpec(p.Type)
	if !ok {
		l.errorf(diag.SemaBadRange, path+".type", "cannot parse type %q (expected `name` or `name(hi downto lo)`)", p.Type)
		return types.Type{}, false
	}
	if p.Range != nil {
		if spec.ranged {
			l.errorf(diag.SemaBadRange, path+".range", "port %q has both an inline range and a range key", p.Name)
			return types.Type{}, false
		}
		if len(p.Range) != 2 {
			l.errorf(diag.SemaBadRange, path+".range", "range must be [high, low], got %d values", len(p.Range))
			return types.Type{}, false
		}
		spec.ranged, spec.high, spec.low = true, p.Range[0], p.Range[1]
	}
	if !spec.ranged {
		return types.Scalar(spec.base), true
	}
	hi, errHi := safecast.Conv[uint32](spec.high)
	lo, errLo := safecast.Conv[uint32](spec.low)
	if errHi != nil || errLo != nil {
		l.errorf(diag.SemaBadRange, path+".range", "range bounds (%d, %d) must be between 0 and 4294967295", spec.high, spec.low)
		return types.Type{}, false
	}
	t := types.Vector(spec.base, hi, lo)
	if t.Range.Inverted() {
		diag.ReportWarning(l.r, diag.SemaInvertedRange, l.at(path+".range"),
			fmt.Sprintf("range (%d downto %d) has high < low; emitted as written", hi, lo)).Emit()
	}
	return t, true
}

func (l *lowerer) assign(b *rtl.Builder, assigns []project.AssignDecl) {
	driven := make(map[string]string, len(assigns))
	for i, a := range assigns {
		path := fmt.Sprintf("%s.assign[%d]", l.base, i)
		if a.Target == "" {
			l.errorf(diag.SemaEmptyName, path+".target", "assignment has no target")
			continue
		}
		folded := rtl.FoldIdent(a.Target)
		sig, ok := l.signals[folded]
		if !ok {
			l.errorf(diag.SemaUnknownSignal, path+".target", "%q is not a port of %s", a.Target, l.base)
			continue
		}
		if sig.Dir != rtl.Out {
			diag.ReportError(l.r, diag.SemaAssignToInput, l.at(path+".target"),
				fmt.Sprintf("cannot assign to input port %q", sig.Name)).
				WithNote(l.at(l.origin[folded]), "declared as input here").
				Emit()
			l.failed = true
			continue
		}
		tt, err := l.reg.Resolve(sig.Type)
		if err != nil {
			l.errorf(diag.SemaTypeMismatch, path, "%v", err)
			continue
		}
		if !tt.IsScalar() {
			diag.ReportError(l.r, diag.SemaTypeMismatch, l.at(path+".value"),
				fmt.Sprintf("bit literal cannot drive %q of type %s", sig.Name, tt)).
				WithNote(l.at(l.origin[folded]), "declared here").
				Emit()
			l.failed = true
			continue
		}
		if prev, ok := driven[folded]; ok {
			diag.ReportWarning(l.r, diag.SemaMultipleDrivers, l.at(path),
				fmt.Sprintf("%q is already driven", sig.Name)).
				WithNote(l.at(prev), "first driven here").
				Emit()
		} else {
			driven[folded] = path
		}
		b.Assign(sig, rtl.ValueOf(a.Value))
	}
}

func (l *lowerer) checkUndriven(decl project.EntityDecl) {
	driven := make(map[string]bool, len(decl.Assign))
	for _, a := range decl.Assign {
		driven[rtl.FoldIdent(a.Target)] = true
	}
	for i, p := range decl.Outputs {
		if p.Name == "" || driven[rtl.FoldIdent(p.Name)] {
			continue
		}
		diag.ReportInfo(l.r, diag.SemaUndrivenOutput, l.at(fmt.Sprintf("%s.outputs[%d]", l.base, i)),
			fmt.Sprintf("output %q is never assigned", p.Name)).Emit()
	}
}
