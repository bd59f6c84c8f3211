package metrics

import (
	"sync/atomic"
	"time"

	"sfvtool/internal/sfv"
)

// Stats is shared by check workers. Counters are updated atomically.
type Stats struct {
	TotalBytes int64

	Total      int64
	Processed  int64
	OK         int64
	Mismatches int64
	Missing    int64
	ReadErrors int64

	BytesHashed int64
	Started     time.Time
	Finished    time.Time
}

func (s *Stats) Start() { s.Started = time.Now() }
func (s *Stats) Stop()  { s.Finished = time.Now() }
func (s *Stats) Duration() time.Duration {
	if s.Started.IsZero() {
		return 0
	}
	if s.Finished.IsZero() {
		return time.Since(s.Started)
	}
	return s.Finished.Sub(s.Started)
}

// Observe counts one finished record check.
func (s *Stats) Observe(status sfv.Status) {
	switch status {
	case sfv.StatusOK:
		atomic.AddInt64(&s.OK, 1)
	case sfv.StatusMismatch:
		atomic.AddInt64(&s.Mismatches, 1)
	case sfv.StatusMissing:
		atomic.AddInt64(&s.Missing, 1)
	case sfv.StatusUnreadable:
		atomic.AddInt64(&s.ReadErrors, 1)
	}
	atomic.AddInt64(&s.Processed, 1)
}

func (s *Stats) AddBytesHashed(n int64) {
	atomic.AddInt64(&s.BytesHashed, n)
}
