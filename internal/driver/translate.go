// Package driver runs translations: one Go entity or manifest unit in,
// one VHDL text out. Batches run in parallel and may be served from the
// on-disk cache.
package driver

import (
	"context"
	"fmt"
	"io"

	"architect/internal/rtl"
	"architect/internal/trace"
	"architect/internal/vhdl"
)

// Options selects emitter output features.
type Options struct {
	UseClause    bool   `msgpack:"use_clause"`
	Architecture string `msgpack:"architecture"`
}

func (o Options) emit() vhdl.Options {
	return vhdl.Options{UseClause: o.UseClause, ArchitectureName: o.Architecture}
}

// Translate elaborates e against a fresh type registry and writes its VHDL
// unit to w.
func Translate(ctx context.Context, w io.Writer, e rtl.Entity, opts Options) error {
	ctx, span := trace.BeginCtx(ctx, trace.ScopeEntity, "entity:"+e.Name())
	defer span.End("")

	m, err := rtl.Elaborate(e)
	if err != nil {
		return err
	}
	return TranslateModule(ctx, w, m, opts)
}

// TranslateModule writes an already elaborated module to w.
func TranslateModule(ctx context.Context, w io.Writer, m rtl.Module, opts Options) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, span := trace.BeginCtx(ctx, trace.ScopeEntity, "emit:"+m.Interface.Name)
	err := vhdl.EmitWithOptions(w, m.Interface, m.Types, m.Program, opts.emit())
	if err != nil {
		span.End(err.Error())
		return fmt.Errorf("translate %s: %w", m.Interface.Name, err)
	}
	span.WithExtra("types", fmt.Sprint(m.Types.Len())).End("")
	return nil
}
