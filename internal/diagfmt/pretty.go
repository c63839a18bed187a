package diagfmt

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"architect/internal/diag"
)

type palette struct {
	err, warn, info, code, path, note, bold *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:  color.New(color.FgRed, color.Bold),
		warn: color.New(color.FgYellow, color.Bold),
		info: color.New(color.FgCyan, color.Bold),
		code: color.New(color.FgHiBlack),
		path: color.New(color.FgWhite, color.Bold),
		note: color.New(color.FgBlue),
		bold: color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.path, p.note, p.bold} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее):
//
//	architect.toml: entity.X.inputs[1]: ERROR SEM3002: input port "clk" is declared twice
//	    note: architect.toml: entity.X.inputs[0]: first declared here
func Pretty(w io.Writer, bag *diag.Bag, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		loc := locationString(d.Primary, opts.PathMode, opts.BaseDir)
		if _, err := fmt.Fprintf(w, "%s: %s %s: %s\n",
			p.path.Sprint(loc),
			p.severity(d.Severity).Sprint(d.Severity.String()),
			p.code.Sprint(d.Code.ID()),
			d.Message,
		); err != nil {
			return err
		}
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			if _, err := fmt.Fprintf(w, "    %s %s: %s\n",
				p.note.Sprint("note:"),
				locationString(n.At, opts.PathMode, opts.BaseDir),
				n.Msg,
			); err != nil {
				return err
			}
		}
	}
	if opts.Summary && bag.Len() > 0 {
		errs, warns := bag.Count(diag.SevError), bag.Count(diag.SevWarning)
		if _, err := fmt.Fprintf(w, "%s\n", p.bold.Sprintf("%s, %s", plural(errs, "error"), plural(warns, "warning"))); err != nil {
			return err
		}
	}
	return nil
}

func locationString(l diag.Location, mode PathMode, base string) string {
	l.File = formatPath(l.File, mode, base)
	return l.String()
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
