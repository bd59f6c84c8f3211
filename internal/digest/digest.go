package digest

import (
	"errors"
	"hash/crc32"
	"io"
	"strconv"
)

// DefaultChunkSize is the read size used by Update.
const DefaultChunkSize = 1 << 20 // 1 MiB

// Digest accumulates a CRC-32 (IEEE, reflected) over a byte stream.
// The zero value is ready to use and equals New().
type Digest struct {
	value uint32
}

func New() *Digest {
	return &Digest{}
}

// Update reads r until EOF and folds every chunk into the digest.
// It returns the number of bytes consumed. A non-EOF read error stops the
// update and is returned; the value accumulated so far is kept but must not
// be trusted as the checksum of r.
func (d *Digest) Update(r io.Reader) (int64, error) {
	return d.UpdateBuffer(r, make([]byte, DefaultChunkSize))
}

// UpdateBuffer is Update with a caller supplied read buffer.
func (d *Digest) UpdateBuffer(r io.Reader, buf []byte) (int64, error) {
	if len(buf) == 0 {
		buf = make([]byte, DefaultChunkSize)
	}

	var total int64
	for {
		n, rerr := r.Read(buf)
		if n > 0 {
			d.value = crc32.Update(d.value, crc32.IEEETable, buf[:n])
			total += int64(n)
		}
		if errors.Is(rerr, io.EOF) {
			return total, nil
		}
		if rerr != nil {
			return total, rerr
		}
	}
}

// Write folds p into the digest. It never fails.
func (d *Digest) Write(p []byte) (int, error) {
	d.value = crc32.Update(d.value, crc32.IEEETable, p)
	return len(p), nil
}

func (d *Digest) Value() uint32 {
	return d.value
}

// String renders the value as lowercase hex without padding.
func (d *Digest) String() string {
	return Hex(d.value)
}

// Hex renders a checksum the way manifests store it.
func Hex(sum uint32) string {
	return strconv.FormatUint(uint64(sum), 16)
}
