package report_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sfvtool/internal/report"
	"sfvtool/internal/sfv"
	"sfvtool/internal/verify"
)

func checked(t *testing.T) (report.Report, string, string) {
	t.Helper()

	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(a, []byte("hello"), 0o600))
	gone := filepath.Join(dir, "gone.txt")

	res, err := verify.Verify(context.Background(), []sfv.Record{
		sfv.NewRecord(a, 0x3610a686),
		sfv.NewRecord(a, 0xdeadbeef),
		sfv.NewRecord(gone, 0xabc),
	}, verify.Options{}, nil, nil)
	require.NoError(t, err)

	return report.New("m.sfv", res), a, gone
}

func TestNew(t *testing.T) {
	t.Parallel()

	rep, a, gone := checked(t)

	assert.Equal(t, 3, rep.Records)
	assert.Equal(t, 3, rep.Checked)
	assert.False(t, rep.OK)
	require.Len(t, rep.Failures, 2)
	assert.Equal(t, report.Entry{Path: a, Status: "mismatch", Expected: "deadbeef", Computed: "3610a686"}, rep.Failures[0])
	assert.Equal(t, gone, rep.Failures[1].Path)
	assert.Equal(t, "missing", rep.Failures[1].Status)
	assert.Empty(t, rep.Failures[1].Computed)
	assert.NotEmpty(t, rep.Failures[1].Error)
}

func TestTextWriter_DefaultTemplate(t *testing.T) {
	t.Parallel()

	rep, a, gone := checked(t)
	w, err := report.NewWriter(report.FormatText, "")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, w.Write(&buf, rep))

	want := "mismatch\t" + a + "\texpected=deadbeef\tcomputed=3610a686\n" +
		"missing\t" + gone + "\texpected=abc\tcomputed=\n" +
		"m.sfv: 3/3 records checked, 2 failed: FAILED\n"
	assert.Equal(t, want, buf.String())
}

func TestTextWriter_CustomTemplate(t *testing.T) {
	t.Parallel()

	w, err := report.NewTextWriter("{path} is {status}")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, w.Write(&buf, report.Report{
		Manifest: "x.sfv",
		Records:  1,
		Checked:  1,
		Failures: []report.Entry{{Path: "f", Status: "missing"}},
	}))

	assert.Equal(t, "f is missing\nx.sfv: 1/1 records checked, 1 failed: FAILED\n", buf.String())
}

func TestTextWriter_AllOK(t *testing.T) {
	t.Parallel()

	w, err := report.NewTextWriter("")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, w.Write(&buf, report.Report{Manifest: "x.sfv", Records: 2, Checked: 2, OK: true}))

	assert.Equal(t, "x.sfv: 2/2 records checked, 0 failed: OK\n", buf.String())
}

func TestNewTextWriter_BadTemplate(t *testing.T) {
	t.Parallel()

	_, err := report.NewTextWriter("{path")
	assert.Error(t, err)
}

func TestNewWriter_UnknownFormat(t *testing.T) {
	t.Parallel()

	_, err := report.NewWriter("xml", "")
	assert.Error(t, err)
}

func TestJSONWriter(t *testing.T) {
	t.Parallel()

	rep, _, _ := checked(t)
	w, err := report.NewWriter(report.FormatJSON, "")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, w.Write(&buf, rep))

	var got report.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, rep, got)
	assert.Contains(t, buf.String(), `"status": "mismatch"`)
}
