package report

import (
	"fmt"
	"io"

	"github.com/valyala/fasttemplate"
)

type TextWriter struct {
	tmpl *fasttemplate.Template
}

func NewTextWriter(tmpl string) (*TextWriter, error) {
	if tmpl == "" {
		tmpl = DefaultTemplate
	}
	t, err := fasttemplate.NewTemplate(tmpl, "{", "}")
	if err != nil {
		return nil, fmt.Errorf("parse report template: %w", err)
	}
	return &TextWriter{tmpl: t}, nil
}

// Write prints one line per failed record followed by a summary line.
func (tw *TextWriter) Write(w io.Writer, rep Report) error {
	for _, e := range rep.Failures {
		if _, err := tw.tmpl.Execute(w, map[string]any{
			"status":   e.Status,
			"path":     e.Path,
			"expected": e.Expected,
			"computed": e.Computed,
			"error":    e.Error,
		}); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}

	verdict := "OK"
	if !rep.OK {
		verdict = "FAILED"
	}
	_, err := fmt.Fprintf(w, "%s: %d/%d records checked, %d failed: %s\n",
		rep.Manifest, rep.Checked, rep.Records, len(rep.Failures), verdict)
	return err
}
