package sfv

import (
	"io"

	"sfvtool/internal/digest"
)

type hashOptions struct {
	bufferSize int
	onProgress func(n int64)
}

// HashOption tunes how a file is streamed through the digest.
// Options never change the resulting checksum.
type HashOption func(*hashOptions)

// WithBufferSize sets the read chunk size. Values below 1 are ignored.
func WithBufferSize(size int) HashOption {
	return func(o *hashOptions) {
		if size > 0 {
			o.bufferSize = size
		}
	}
}

// WithProgress registers a callback receiving the size of every chunk read.
func WithProgress(fn func(n int64)) HashOption {
	return func(o *hashOptions) {
		o.onProgress = fn
	}
}

func newHashOptions(opts []HashOption) hashOptions {
	o := hashOptions{bufferSize: digest.DefaultChunkSize}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o hashOptions) buffer() []byte {
	return make([]byte, o.bufferSize)
}

func (o hashOptions) reader(r io.Reader) io.Reader {
	return digest.ProgressReader(r, o.onProgress)
}
