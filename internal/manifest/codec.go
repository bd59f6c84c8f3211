package manifest

import (
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// CompressedExt marks a manifest stored zstd-compressed.
const CompressedExt = ".zst"

// IsCompressed reports whether path names a zstd-compressed manifest.
func IsCompressed(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), CompressedExt)
}

// openManifest opens path for reading, decoding it when compressed.
func openManifest(path string) (io.ReadCloser, error) {
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return nil, err
	}
	if !IsCompressed(path) {
		return f, nil
	}

	dec, err := zstd.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &decodedFile{ReadCloser: dec.IOReadCloser(), f: f}, nil
}

type decodedFile struct {
	io.ReadCloser
	f *os.File
}

func (d *decodedFile) Close() error {
	_ = d.ReadCloser.Close()
	return d.f.Close()
}

// encodeFor wraps w in a zstd encoder when path is compressed. The returned
// closer flushes the encoder but never closes w.
func encodeFor(path string, w io.Writer) (io.WriteCloser, error) {
	if !IsCompressed(path) {
		return nopWriteCloser{w}, nil
	}
	return newEncoder(w)
}

var newEncoder = func(w io.Writer) (io.WriteCloser, error) {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return nil, err
	}
	return enc, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
