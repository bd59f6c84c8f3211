package verify

import (
	"errors"
	"fmt"
	"io"
	"os"

	"sfvtool/internal/digest"
)

// ErrShortRange is returned when a file ends before the requested range does.
var ErrShortRange = errors.New("file shorter than requested range")

// ChecksumRange computes the CRC-32 of length bytes of path starting at start.
func ChecksumRange(path string, start, length int64, onProgress func(n int64)) (uint32, error) {
	if start < 0 || length < 0 {
		return 0, fmt.Errorf("invalid range: start=%d length=%d", start, length)
	}

	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = f.Close()
	}()

	r := digest.ProgressReader(io.NewSectionReader(f, start, length), onProgress)

	d := digest.New()
	n, err := d.UpdateBuffer(r, make([]byte, digest.DefaultChunkSize))
	if err != nil {
		return 0, err
	}
	if n != length {
		return 0, fmt.Errorf("%w: read %d of %d bytes at offset %d", ErrShortRange, n, length, start)
	}
	return d.Value(), nil
}

// splitRange divides size bytes into splits parts; the first size%splits
// parts are one byte longer.
func splitRange(size int64, splits, s int) (start, end int64) {
	base := size / int64(splits)
	rem := size % int64(splits)

	start = int64(s)*base + min(int64(s), rem)
	end = start + base
	if int64(s) < rem {
		end++
	}
	return start, end
}

// CompareFileSplitsMany cuts the common prefix of two or more files into
// splits equal parts, checksums every part of every file and reports the
// parts that differ. Bytes past the shortest file are reported as tails.
func CompareFileSplitsMany(paths []string, splits int) (*MultiSplitResult, error) {
	if len(paths) < 2 {
		return nil, fmt.Errorf("need at least 2 files")
	}
	if splits <= 0 {
		return nil, fmt.Errorf("splits must be > 0")
	}

	sizes := make([]int64, len(paths))
	var minSize, maxSize int64

	for i, p := range paths {
		st, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		sz := st.Size()
		sizes[i] = sz

		if i == 0 {
			minSize, maxSize = sz, sz
			continue
		}
		minSize = min(minSize, sz)
		maxSize = max(maxSize, sz)
	}

	sums := make([][]uint32, splits)
	differing := make([]int, 0)

	for s := range splits {
		start, end := splitRange(minSize, splits, s)

		sums[s] = make([]uint32, len(paths))
		for fi, p := range paths {
			sum, err := ChecksumRange(p, start, end-start, nil)
			if err != nil {
				return nil, fmt.Errorf("split %d of %s: %w", s, p, err)
			}
			sums[s][fi] = sum
		}

		for fi := 1; fi < len(paths); fi++ {
			if sums[s][fi] != sums[s][0] {
				differing = append(differing, s)
				break
			}
		}
	}

	tails := make([]int64, len(paths))
	for i := range sizes {
		tails[i] = sizes[i] - minSize
	}

	return &MultiSplitResult{
		Splits:          splits,
		Paths:           paths,
		Sizes:           sizes,
		MinSize:         minSize,
		MaxSize:         maxSize,
		SplitChecksums:  sums,
		DifferingSplits: differing,
		TailBytes:       tails,
	}, nil
}
