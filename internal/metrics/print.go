package metrics

import (
	"fmt"
	"io"
	"sync/atomic"
)

type Snapshot struct {
	DurationMs  int64
	Total       int64
	Processed   int64
	OK          int64
	Mismatches  int64
	Missing     int64
	ReadErrors  int64
	BytesHashed int64
	TotalBytes  int64
}

// Failed is the number of processed records that did not match.
func (s Snapshot) Failed() int64 {
	return s.Mismatches + s.Missing + s.ReadErrors
}

func (s *Stats) Snapshot() Snapshot {
	dur := s.Duration()

	return Snapshot{
		DurationMs:  dur.Milliseconds(),
		Total:       atomic.LoadInt64(&s.Total),
		Processed:   atomic.LoadInt64(&s.Processed),
		OK:          atomic.LoadInt64(&s.OK),
		Mismatches:  atomic.LoadInt64(&s.Mismatches),
		Missing:     atomic.LoadInt64(&s.Missing),
		ReadErrors:  atomic.LoadInt64(&s.ReadErrors),
		BytesHashed: atomic.LoadInt64(&s.BytesHashed),
		TotalBytes:  atomic.LoadInt64(&s.TotalBytes),
	}
}

// Print writes a plain key: value summary of s to w.
func Print(w io.Writer, s *Stats) {
	snap := s.Snapshot()

	fmt.Fprintln(w, "--- stats ---")
	fmt.Fprintln(w, "duration_ms:", snap.DurationMs)
	fmt.Fprintln(w, "total:", snap.Total)
	fmt.Fprintln(w, "processed:", snap.Processed)
	fmt.Fprintln(w, "ok:", snap.OK)
	fmt.Fprintln(w, "mismatches:", snap.Mismatches)
	fmt.Fprintln(w, "missing:", snap.Missing)
	fmt.Fprintln(w, "read_errors:", snap.ReadErrors)
	fmt.Fprintln(w, "bytes_hashed:", snap.BytesHashed)
	fmt.Fprintln(w, "total_bytes:", snap.TotalBytes)

	if snap.DurationMs > 0 {
		secs := float64(snap.DurationMs) / 1000.0
		bps := float64(snap.BytesHashed) / secs
		fmt.Fprintln(w, "throughput_bytes_per_sec:", bps)
		fmt.Fprintln(w, "throughput_mb_per_sec:", bps/1_000_000.0)
	}
}
