package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"sfvtool/internal/metrics"
)

// SnapshotFn supplies the counters shown in the bar description.
type SnapshotFn func() metrics.Snapshot

// Bar is a byte progress bar fed from many workers. Byte counts are queued
// on a channel and applied by a single goroutine.
type Bar struct {
	bar  *progressbar.ProgressBar
	ch   chan int64
	done chan struct{}
	stop chan struct{}

	// tickDone is closed once the description goroutine has returned.
	tickDone chan struct{}

	label  string
	snap   SnapshotFn
	lastB  int64
	lastAt time.Time
}

func New(w io.Writer, label string, totalBytes int64, snap SnapshotFn) (*Bar, error) {
	b := &Bar{
		ch:       make(chan int64, 16384),
		done:     make(chan struct{}),
		stop:     make(chan struct{}),
		tickDone: make(chan struct{}),
		label:    label,
		snap:     snap,
		lastAt:   time.Now(),
	}

	b.bar = progressbar.NewOptions64(
		totalBytes,
		progressbar.OptionSetWriter(w),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionSetDescription(label),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(120*time.Millisecond),
		progressbar.OptionOnCompletion(func() { _, _ = fmt.Fprintln(w) }),
	)

	if err := b.bar.RenderBlank(); err != nil {
		return nil, fmt.Errorf("render progress bar: %w", err)
	}

	go func() {
		defer close(b.done)
		for n := range b.ch {
			_ = b.bar.Add64(n)
		}
		_ = b.bar.Finish()
	}()

	go func() {
		defer close(b.tickDone)
		t := time.NewTicker(1 * time.Second)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				b.bar.Describe(b.describe(time.Now()))
			case <-b.stop:
				return
			}
		}
	}()

	return b, nil
}

// AddBytes advances the bar. It is safe for concurrent use and a no-op on a
// nil Bar.
func (b *Bar) AddBytes(n int64) {
	if b == nil || n <= 0 {
		return
	}
	b.ch <- n
}

// Close drains pending updates and finishes the bar. Once it returns the
// snapshot function is no longer called.
func (b *Bar) Close() {
	if b == nil {
		return
	}
	close(b.stop)
	<-b.tickDone
	close(b.ch)
	<-b.done
}

func (b *Bar) describe(now time.Time) string {
	if b.snap == nil {
		return b.label
	}
	s := b.snap()

	mbps := 0.0
	if dt := now.Sub(b.lastAt).Seconds(); dt > 0 {
		mbps = (float64(s.BytesHashed-b.lastB) / 1_000_000.0) / dt
	}
	b.lastB = s.BytesHashed
	b.lastAt = now

	return fmt.Sprintf("%s %d/%d files | ok=%d mismatch=%d missing=%d unreadable=%d | %.1f MB/s",
		b.label, s.Processed, s.Total, s.OK, s.Mismatches, s.Missing, s.ReadErrors, mbps,
	)
}
