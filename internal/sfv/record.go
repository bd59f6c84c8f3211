package sfv

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"sfvtool/internal/digest"
)

// Record is one manifest entry: a path and the CRC-32 its contents had
// when the record was made. Records are immutable.
type Record struct {
	path     string
	checksum uint32
}

func NewRecord(path string, checksum uint32) Record {
	return Record{path: path, checksum: checksum}
}

func (r Record) Path() string {
	return r.path
}

func (r Record) Checksum() uint32 {
	return r.checksum
}

// ChecksumHex is the lowercase, unpadded hex form written to manifests.
func (r Record) ChecksumHex() string {
	return digest.Hex(r.checksum)
}

func (r Record) String() string {
	return r.path + " " + r.ChecksumHex()
}

// FromPath hashes the file at path and returns its record.
func FromPath(path string, opts ...HashOption) (Record, error) {
	sum, err := checksumFile(path, newHashOptions(opts))
	if err != nil {
		return Record{}, err
	}
	return Record{path: path, checksum: sum}, nil
}

// FromReader hashes r and records it under path. r is not closed.
func FromReader(path string, r io.Reader, opts ...HashOption) (Record, error) {
	o := newHashOptions(opts)
	d := digest.New()
	if _, err := d.UpdateBuffer(o.reader(r), o.buffer()); err != nil {
		return Record{}, ioError("read", path, err)
	}
	return Record{path: path, checksum: d.Value()}, nil
}

// WriteTo writes the record as a manifest data line.
func (r Record) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, r.path+" "+r.ChecksumHex()+"\n")
	if err != nil {
		return int64(n), ioError("write", r.path, err)
	}
	return int64(n), nil
}

// Validate reports whether the file at Path still has the recorded
// checksum. A missing or unreadable file is reported as false.
func (r Record) Validate(opts ...HashOption) bool {
	return r.Verify(opts...).Status == StatusOK
}

// Verify recomputes the checksum of the file at Path and compares it with
// the recorded one. It never returns an error; failures are in the Outcome.
func (r Record) Verify(opts ...HashOption) Outcome {
	out := Outcome{Record: r}

	sum, err := checksumFile(r.path, newHashOptions(opts))
	switch {
	case err == nil:
		out.Computed = sum
		if sum == r.checksum {
			out.Status = StatusOK
		} else {
			out.Status = StatusMismatch
		}
	case errors.Is(err, fs.ErrNotExist):
		out.Status = StatusMissing
		out.Err = err
	default:
		out.Status = StatusUnreadable
		out.Err = err
	}

	return out
}

// Parse turns one manifest data line into a Record. Comment lines must be
// filtered out by the caller.
func Parse(line string) (Record, error) {
	fields := strings.Fields(line)

	switch len(fields) {
	case 0:
		return Record{}, formatError(ErrMissingFilePath)
	case 1:
		return Record{}, formatError(ErrMissingChecksum)
	case 2:
	default:
		return Record{}, formatError(ErrTooLong)
	}

	sum, err := strconv.ParseUint(fields[1], 16, 32)
	if err != nil {
		return Record{}, formatError(fmt.Errorf("%w %q: %w", ErrInvalidChecksum, fields[1], err))
	}

	return Record{path: fields[0], checksum: uint32(sum)}, nil
}

func checksumFile(path string, o hashOptions) (sum uint32, retErr error) {
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return 0, ioError("open", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && retErr == nil {
			retErr = ioError("close", path, cerr)
		}
	}()

	d := digest.New()
	if _, err := d.UpdateBuffer(o.reader(f), o.buffer()); err != nil {
		return 0, ioError("read", path, err)
	}

	return d.Value(), nil
}
