// Package vhdl renders an elaborated entity as a VHDL design unit.
//
// Emit is deterministic: the same interface, types and program always
// produce the same bytes. Ports appear inputs first, each list in
// declaration order; statements appear in program order. Every type is
// resolved and every statement rendered before the first byte is written,
// so contract errors never leave partial output behind.
package vhdl

import (
	"fmt"
	"io"

	"architect/internal/rtl"
	"architect/internal/types"
)

// Options configures the emitted text.
type Options struct {
	// UseClause adds `use ieee.std_logic_1164.all;` after the library clause.
	UseClause bool
	// ArchitectureName names the architecture body ("rtl" when empty).
	ArchitectureName string
}

// Option mutates Options.
type Option func(*Options)

// WithUseClause toggles the IEEE 1164 use clause.
func WithUseClause(on bool) Option {
	return func(o *Options) { o.UseClause = on }
}

// WithArchitectureName overrides the architecture name.
func WithArchitectureName(name string) Option {
	return func(o *Options) { o.ArchitectureName = name }
}

func (o Options) withDefaults() Options {
	if o.ArchitectureName == "" {
		o.ArchitectureName = "rtl"
	}
	return o
}

type portLine struct {
	name string
	dir  rtl.Direction
	typ  string
}

// Emit writes the VHDL unit for iface and prog to w. Types are resolved
// through reg. Write failures are returned as *EmitError; resolution
// failures wrap types.ErrInvalidTypeID.
func Emit(w io.Writer, iface rtl.Interface, reg types.Resolver, prog rtl.Program, opts ...Option) error {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	return EmitWithOptions(w, iface, reg, prog, o)
}

// EmitWithOptions is Emit with an explicit Options value.
func EmitWithOptions(w io.Writer, iface rtl.Interface, reg types.Resolver, prog rtl.Program, opts Options) error {
	if iface.Name == "" {
		return ErrEmptyEntityName
	}
	opts = opts.withDefaults()

	ports := make([]portLine, 0, iface.PortCount())
	for _, group := range []struct {
		dir   rtl.Direction
		ports []rtl.Port
	}{{rtl.In, iface.Inputs}, {rtl.Out, iface.Outputs}} {
		for _, p := range group.ports {
			tt, err := reg.Resolve(p.Type)
			if err != nil {
				return fmt.Errorf("vhdl: port %q of %s: %w", p.Name, iface.Name, err)
			}
			ports = append(ports, portLine{name: p.Name, dir: group.dir, typ: RenderType(tt)})
		}
	}
	body := make([]string, 0, prog.Len())
	for i, st := range prog.Statements {
		text, err := renderStatement(st)
		if err != nil {
			return fmt.Errorf("statement %d: %w", i, err)
		}
		body = append(body, text)
	}

	out := newWriter(w)
	emitPreamble(out, opts)
	if err := out.begin(StageEntityHeader); err != nil {
		return err
	}
	out.line("entity " + iface.Name + " is")
	if err := out.begin(StagePortList); err != nil {
		return err
	}
	emitPorts(out, ports)
	if err := out.begin(StageEntityEnd); err != nil {
		return err
	}
	out.line("end " + iface.Name + ";")
	out.line("")
	if err := out.begin(StageArchitecture); err != nil {
		return err
	}
	out.line("architecture " + opts.ArchitectureName + " of " + iface.Name + " is")
	out.line("begin")
	out.indentPush()
	for _, text := range body {
		out.line(text)
	}
	out.indentPop()
	out.line("end " + opts.ArchitectureName + ";")
	return out.flush()
}

func emitPreamble(out *writer, opts Options) {
	out.stage = StagePreamble
	out.line("library ieee;")
	if opts.UseClause {
		out.line("use ieee.std_logic_1164.all;")
	}
	out.line("")
}

// emitPorts writes the port clause. Every line but the last of the
// combined inputs-then-outputs list ends with ';'. An entity without ports
// gets no port clause at all.
func emitPorts(out *writer, ports []portLine) {
	if len(ports) == 0 {
		return
	}
	out.indentPush()
	out.line("port (")
	out.indentPush()
	for i, p := range ports {
		text := p.name + " : " + p.dir.String() + " " + p.typ
		if i != len(ports)-1 {
			text += ";"
		}
		out.line(text)
	}
	out.indentPop()
	out.line(");")
	out.indentPop()
}
