package manifest

import (
	"io"
	"os"
	"path/filepath"
	"slices"

	"sfvtool/internal/sfv"
)

// DefaultToolName is the tool named in the header of created manifests.
const DefaultToolName = "sfvtool"

// Creator accumulates records in insertion order and writes them out as a
// manifest.
type Creator struct {
	tool     string
	hashOpts []sfv.HashOption
	records  []sfv.Record
}

type Option func(*Creator)

// WithToolName overrides the tool named in the header. Empty names are
// ignored.
func WithToolName(name string) Option {
	return func(c *Creator) {
		if name != "" {
			c.tool = name
		}
	}
}

// WithHashOptions sets the options used when AddPath hashes a file.
func WithHashOptions(opts ...sfv.HashOption) Option {
	return func(c *Creator) {
		c.hashOpts = append(c.hashOpts, opts...)
	}
}

func NewCreator(opts ...Option) *Creator {
	c := &Creator{tool: DefaultToolName}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddPath hashes the file at path and appends its record. On error nothing
// is appended.
func (c *Creator) AddPath(path string) error {
	rec, err := sfv.FromPath(path, c.hashOpts...)
	if err != nil {
		return err
	}
	c.records = append(c.records, rec)
	return nil
}

// Add appends an already computed record.
func (c *Creator) Add(rec sfv.Record) {
	c.records = append(c.records, rec)
}

func (c *Creator) Records() []sfv.Record {
	return slices.Clone(c.records)
}

func (c *Creator) Len() int {
	return len(c.records)
}

// Header is the comment line written first, newline included.
func (c *Creator) Header() string {
	return ";created using " + c.tool + "\n"
}

// WriteTo writes the header and every record. It stops at the first failed
// write and leaves w partially written.
func (c *Creator) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, c.Header())
	total := int64(n)
	if err != nil {
		return total, &sfv.Error{Kind: sfv.KindIO, Op: "write", Err: err}
	}

	for _, rec := range c.records {
		m, err := rec.WriteTo(w)
		total += m
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteFile writes the manifest to path through a temporary file in the same
// directory that is renamed into place, so readers never see a partial
// manifest. Paths ending in .zst are zstd-compressed.
func (c *Creator) WriteFile(path string) (retErr error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return &sfv.Error{Kind: sfv.KindIO, Op: "create", Path: path, Err: err}
	}
	var enc io.WriteCloser
	defer func() {
		if retErr != nil {
			if enc != nil {
				_ = enc.Close()
			}
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	enc, err = encodeFor(path, tmp)
	if err != nil {
		return &sfv.Error{Kind: sfv.KindIO, Op: "create", Path: path, Err: err}
	}
	if _, err := c.WriteTo(enc); err != nil {
		return err
	}
	err = enc.Close()
	enc = nil
	if err != nil {
		return &sfv.Error{Kind: sfv.KindIO, Op: "write", Path: path, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		return &sfv.Error{Kind: sfv.KindIO, Op: "sync", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &sfv.Error{Kind: sfv.KindIO, Op: "close", Path: path, Err: err}
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return &sfv.Error{Kind: sfv.KindIO, Op: "chmod", Path: path, Err: err}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return &sfv.Error{Kind: sfv.KindIO, Op: "rename", Path: path, Err: err}
	}
	return nil
}
