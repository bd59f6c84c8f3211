// Package report renders the result of checking a manifest.
package report

import (
	"fmt"
	"io"

	"sfvtool/internal/sfv"
	"sfvtool/internal/verify"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// DefaultTemplate renders one failed record in text reports. Placeholders
// are {status}, {path}, {expected}, {computed} and {error}.
const DefaultTemplate = "{status}\t{path}\texpected={expected}\tcomputed={computed}"

type Entry struct {
	Path     string `json:"path"`
	Status   string `json:"status"`
	Expected string `json:"expected"`
	Computed string `json:"computed,omitempty"`
	Error    string `json:"error,omitempty"`
}

type Report struct {
	Manifest string  `json:"manifest"`
	Records  int     `json:"records"`
	Checked  int     `json:"checked"`
	OK       bool    `json:"ok"`
	Failures []Entry `json:"failures"`
}

func New(manifest string, res *verify.Result) Report {
	rep := Report{
		Manifest: manifest,
		Records:  len(res.Outcomes),
		Checked:  res.Checked,
		OK:       res.OK(),
		Failures: make([]Entry, 0, len(res.Failures)),
	}
	for _, out := range res.Failures {
		rep.Failures = append(rep.Failures, entry(out))
	}
	return rep
}

func entry(out sfv.Outcome) Entry {
	e := Entry{
		Path:     out.Record.Path(),
		Status:   string(out.Status),
		Expected: out.Record.ChecksumHex(),
		Computed: out.ComputedHex(),
	}
	if out.Err != nil {
		e.Error = out.Err.Error()
	}
	return e
}

// Writer renders a report.
type Writer interface {
	Write(w io.Writer, rep Report) error
}

// NewWriter returns the writer for format. tmpl is used by text reports
// only; empty means DefaultTemplate.
func NewWriter(format, tmpl string) (Writer, error) {
	switch format {
	case "", FormatText:
		return NewTextWriter(tmpl)
	case FormatJSON:
		return JSONWriter{Indent: "  "}, nil
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}
