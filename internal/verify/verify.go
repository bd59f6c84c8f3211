package verify

import (
	"context"
	"errors"
	"os"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"sfvtool/internal/metrics"
	"sfvtool/internal/progress"
	"sfvtool/internal/sfv"
)

var errStop = errors.New("stop after first failure")

// TotalBytes sums the current sizes of the files records refer to. Files
// that cannot be stat'ed count as zero.
func TotalBytes(records []sfv.Record) int64 {
	var total int64
	for _, rec := range records {
		if info, err := os.Stat(rec.Path()); err == nil && info.Mode().IsRegular() {
			total += info.Size()
		}
	}
	return total
}

// Verify checks every record against disk using up to opts.Workers
// concurrent checks. Each check opens its own file and owns its own digest.
// The returned error is only ever the context's; per-record failures are in
// the Result.
func Verify(ctx context.Context, records []sfv.Record, opts Options, stats *metrics.Stats, bar *progress.Bar) (*Result, error) {
	workers := max(opts.Workers, 1)
	if stats == nil {
		stats = &metrics.Stats{}
	}
	atomic.AddInt64(&stats.Total, int64(len(records)))

	res := &Result{Outcomes: make([]sfv.Outcome, len(records))}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, rec := range records {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			var sent int64
			hashOpts := []sfv.HashOption{
				sfv.WithProgress(func(n int64) {
					stats.AddBytesHashed(n)
					sent += n
					bar.AddBytes(n)
				}),
			}
			if opts.BufferSize > 0 {
				hashOpts = append(hashOpts, sfv.WithBufferSize(opts.BufferSize))
			}

			out := rec.Verify(hashOpts...)
			if out.Status != sfv.StatusOK && out.Status != sfv.StatusMismatch {
				// Keep the bar total consistent with TotalBytes for files
				// that exist but could not be read to the end.
				if info, err := os.Stat(rec.Path()); err == nil && info.Mode().IsRegular() {
					bar.AddBytes(info.Size() - sent)
				}
			}

			stats.Observe(out.Status)
			res.Outcomes[i] = out

			if opts.FailFast && !out.OK() {
				return errStop
			}
			return nil
		})
	}

	err := g.Wait()

	for _, out := range res.Outcomes {
		if out.Status == "" {
			continue
		}
		res.Checked++
		if !out.OK() {
			res.Failures = append(res.Failures, out)
		}
	}

	if err != nil && !errors.Is(err, errStop) {
		return res, err
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}
	return res, nil
}
