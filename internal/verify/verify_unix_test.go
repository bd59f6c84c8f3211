//go:build unix

package verify

import (
	"context"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"sfvtool/internal/metrics"
	"sfvtool/internal/progress"
	"sfvtool/internal/sfv"
)

// A check that outlives the bar's one second refresh must not race with the
// description goroutine reading stats. Run with -race.
func TestVerify_SlowCheckWithProgressBar(t *testing.T) {
	dir := t.TempDir()
	fifo := filepath.Join(dir, "slow.fifo")
	if err := syscall.Mkfifo(fifo, 0o600); err != nil {
		t.Skipf("mkfifo: %v", err)
	}

	content := []byte("slow data arriving late")
	writeErr := make(chan error, 1)
	go func() {
		f, err := os.OpenFile(fifo, os.O_WRONLY, 0)
		if err != nil {
			writeErr <- err
			return
		}
		time.Sleep(1500 * time.Millisecond)
		_, err = f.Write(content)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		writeErr <- err
	}()

	stats := &metrics.Stats{}
	stats.Start()

	bar, err := progress.New(io.Discard, "checking", 0, stats.Snapshot)
	if err != nil {
		t.Fatalf("progress.New: %v", err)
	}

	res, err := Verify(context.Background(), []sfv.Record{sfv.NewRecord(fifo, crc32.ChecksumIEEE(content))}, Options{}, stats, bar)
	bar.Close()
	stats.Stop()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if werr := <-writeErr; werr != nil {
		t.Fatalf("fifo writer: %v", werr)
	}
	if !res.OK() {
		t.Fatalf("expected OK, got failures %+v", res.Failures)
	}

	snap := stats.Snapshot()
	if snap.Total != 1 || snap.OK != 1 {
		t.Fatalf("stats mismatch: %+v", snap)
	}
}
