package vhdl

import (
	"bufio"
	"io"
)

// writer buffers output per stage and keeps the first failure.
// Each stage is flushed before the next one starts, so a sink error is
// attributed to the stage whose bytes it refused.
type writer struct {
	bw          *bufio.Writer
	indentLevel int
	stage       Stage
	err         error
}

func newWriter(w io.Writer) *writer {
	return &writer{bw: bufio.NewWriter(w)}
}

// begin flushes the previous stage and switches to stage.
func (w *writer) begin(stage Stage) error {
	if err := w.flush(); err != nil {
		return err
	}
	w.stage = stage
	return nil
}

// line writes one indented line terminated by '\n'. An empty s writes a
// blank line without indentation.
func (w *writer) line(s string) {
	if w.err != nil {
		return
	}
	if s != "" {
		for range w.indentLevel {
			if err := w.bw.WriteByte('\t'); err != nil {
				w.fail(err)
				return
			}
		}
		if _, err := w.bw.WriteString(s); err != nil {
			w.fail(err)
			return
		}
	}
	if err := w.bw.WriteByte('\n'); err != nil {
		w.fail(err)
	}
}

func (w *writer) indentPush() {
	w.indentLevel++
}

func (w *writer) indentPop() {
	if w.indentLevel > 0 {
		w.indentLevel--
	}
}

func (w *writer) flush() error {
	if w.err != nil {
		return w.err
	}
	if err := w.bw.Flush(); err != nil {
		w.fail(err)
	}
	return w.err
}

func (w *writer) fail(err error) {
	if w.err == nil {
		w.err = &EmitError{Stage: w.stage, Err: err}
	}
}
