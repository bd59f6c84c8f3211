package digest

import "io"

// ProgressReader wraps r so fn receives the size of every non-empty read.
// A nil fn returns r unchanged.
func ProgressReader(r io.Reader, fn func(n int64)) io.Reader {
	if fn == nil {
		return r
	}
	return &progressReader{r: r, fn: fn}
}

type progressReader struct {
	r  io.Reader
	fn func(n int64)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.fn(int64(n))
	}
	return n, err
}
