package manifest

import (
	"bufio"
	"io"
	"slices"
	"strings"
	"unicode"

	"sfvtool/internal/sfv"
)

// MaxLineSize bounds a single manifest line.
const MaxLineSize = 1 << 20

// Validator holds the records of a successfully loaded manifest. A Validator
// only exists once loading has succeeded; any failure is returned by Load or
// Read instead.
type Validator struct {
	name    string
	records []sfv.Record
}

// Load reads the manifest at path. Compressed manifests are decoded
// transparently.
func Load(path string) (v *Validator, retErr error) {
	rc, err := openManifest(path)
	if err != nil {
		return nil, &sfv.Error{Kind: sfv.KindIO, Op: "open", Path: path, Err: err}
	}
	defer func() {
		if cerr := rc.Close(); cerr != nil && retErr == nil {
			v, retErr = nil, &sfv.Error{Kind: sfv.KindIO, Op: "close", Path: path, Err: cerr}
		}
	}()

	return Read(rc, path)
}

// Read parses manifest text from r. name is used in errors only.
func Read(r io.Reader, name string) (*Validator, error) {
	v := &Validator{name: name}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineSize)

	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if IsComment(text) {
			continue
		}

		rec, err := sfv.Parse(text)
		if err != nil {
			if e := sfv.AsError(err); e != nil {
				e.Path = name
				e.Line = line
			}
			return nil, err
		}
		v.records = append(v.records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, &sfv.Error{Kind: sfv.KindIO, Op: "read", Path: name, Line: line + 1, Err: err}
	}

	return v, nil
}

// IsComment reports whether line's first non-whitespace character is ';'.
func IsComment(line string) bool {
	return strings.HasPrefix(strings.TrimLeftFunc(line, unicode.IsSpace), ";")
}

func (v *Validator) Name() string {
	return v.name
}

// Records returns the records in file order.
func (v *Validator) Records() []sfv.Record {
	return slices.Clone(v.records)
}

func (v *Validator) Len() int {
	return len(v.records)
}

// Validate reports whether every record still matches its file. It stops at
// the first record that does not.
func (v *Validator) Validate(opts ...sfv.HashOption) bool {
	for _, rec := range v.records {
		if !rec.Validate(opts...) {
			return false
		}
	}
	return true
}
