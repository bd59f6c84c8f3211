package verify

import "sfvtool/internal/sfv"

type Options struct {
	// Workers bounds concurrent checks. Values below 1 mean 1.
	Workers int

	// BufferSize is the read chunk size per check. Zero keeps the default.
	BufferSize int

	// FailFast stops scheduling new checks after the first failure.
	FailFast bool
}

type Result struct {
	// Outcomes is indexed like the input records. Records never checked,
	// because of cancellation or FailFast, have an empty Status.
	Outcomes []sfv.Outcome

	// Failures holds the checked records that did not match, in input order.
	Failures []sfv.Outcome

	Checked int
}

// OK reports whether every record was checked and matched.
func (r *Result) OK() bool {
	return r.Checked == len(r.Outcomes) && len(r.Failures) == 0
}

type MultiSplitResult struct {
	Splits          int
	Paths           []string
	Sizes           []int64
	SplitChecksums  [][]uint32
	DifferingSplits []int
	TailBytes       []int64
	MinSize         int64
	MaxSize         int64
}

// Range returns the byte range [start, end) covered by split s.
func (r *MultiSplitResult) Range(s int) (start, end int64) {
	return splitRange(r.MinSize, r.Splits, s)
}
