package report

import (
	"io"

	"github.com/goccy/go-json"
)

type JSONWriter struct {
	Indent string
}

func (jw JSONWriter) Write(w io.Writer, rep Report) error {
	enc := json.NewEncoder(w)
	if jw.Indent != "" {
		enc.SetIndent("", jw.Indent)
	}
	return enc.Encode(rep)
}
