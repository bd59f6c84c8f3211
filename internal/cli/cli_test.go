package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sfvtool/internal/report"
)

func run(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = Run(t.Context(), append([]string{"sfv", "--no-progress", "--log-level", "error"}, args...), &out, &errOut)
	return code, out.String(), errOut.String()
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestCreate_Stdout(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "hello")
	t.Chdir(dir)

	code, out, _ := run(t, "create", "a.txt")

	assert.Equal(t, ExitOK, code)
	assert.Equal(t, ";created using sfvtool\na.txt 3610a686\n", out)
}

func TestCreate_ToolFlagAndOutputFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "hello")
	out := filepath.Join(dir, "m.sfv")

	code, stdout, _ := run(t, "create", "--tool", "backup", "-o", out, a)

	require.Equal(t, ExitOK, code)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, ";created using backup\n"+a+" 3610a686\n", string(data))
}

func TestCreate_MissingInputFails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	out := filepath.Join(dir, "m.sfv")

	code, _, stderr := run(t, "create", "-o", out, filepath.Join(dir, "nope.txt"))

	assert.Equal(t, ExitError, code)
	assert.Contains(t, stderr, "nope.txt")
	assert.NoFileExists(t, out)
}

func TestCreate_ToolNameWithNewlineRejected(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "hello")
	out := filepath.Join(dir, "m.sfv")

	code, stdout, stderr := run(t, "create", "--tool", "x\ny", "-o", out, a)

	assert.Equal(t, ExitError, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "invalid tool name")
	assert.NoFileExists(t, out)
}

func TestCreate_NoPaths(t *testing.T) {
	t.Parallel()

	code, _, _ := run(t, "create")

	assert.Equal(t, ExitError, code)
}

func TestCheck_ExitCodes(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "hello")

	tests := []struct {
		name     string
		manifest string
		want     int
	}{
		{"all ok", ";created using sfvtool\n" + a + " 3610A686\n", ExitOK},
		{"mismatch", a + " 3610a687\n", ExitFailed},
		{"missing file", a + " 3610a686\n" + filepath.Join(dir, "gone") + " 1\n", ExitFailed},
		{"malformed line", a + " 3610a686 extra\n", ExitError},
		{"blank line", a + " 3610a686\n\n", ExitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := writeFile(t, t.TempDir(), "m.sfv", tt.manifest)

			code, _, _ := run(t, "check", m)

			assert.Equal(t, tt.want, code)
		})
	}
}

func TestCheck_MissingManifest(t *testing.T) {
	t.Parallel()

	code, _, stderr := run(t, "check", filepath.Join(t.TempDir(), "none.sfv"))

	assert.Equal(t, ExitError, code)
	assert.Contains(t, stderr, "none.sfv")
}

func TestCheck_TextReport(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "hello")
	m := writeFile(t, dir, "m.sfv", a+" deadbeef\n")

	code, out, _ := run(t, "check", "--template", "{status} {path} {computed}", m)

	assert.Equal(t, ExitFailed, code)
	assert.Equal(t, "mismatch "+a+" 3610a686\n"+m+": 1/1 records checked, 1 failed: FAILED\n", out)
}

func TestCheck_JSONReportAndMetrics(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "hello")
	b := writeFile(t, dir, "b.txt", "123456789")
	m := writeFile(t, dir, "m.sfv", ";c\n"+a+" 3610a686\n"+b+" cbf43926\n")
	prom := filepath.Join(dir, "sfv.prom")

	code, out, _ := run(t, "check", "--workers", "2", "--format", "json", "--metrics-file", prom, m)

	require.Equal(t, ExitOK, code)

	var rep report.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.True(t, rep.OK)
	assert.Equal(t, 2, rep.Checked)
	assert.Empty(t, rep.Failures)

	data, err := os.ReadFile(prom)
	require.NoError(t, err)
	assert.Contains(t, string(data), "sfv_check_success")
}

func TestCheck_CreatedManifestRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "hello")
	b := writeFile(t, dir, "b.txt", strings.Repeat("x", 5000))
	m := filepath.Join(dir, "m.sfv.zst")

	code, _, _ := run(t, "create", "-o", m, a, b)
	require.Equal(t, ExitOK, code)

	code, _, _ = run(t, "check", m)
	assert.Equal(t, ExitOK, code)

	require.NoError(t, os.WriteFile(b, []byte("changed"), 0o600))

	code, out, _ := run(t, "check", m)
	assert.Equal(t, ExitFailed, code)
	assert.Contains(t, out, "mismatch\t"+b)
}

func TestCheck_Config(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "hello")
	m := writeFile(t, dir, "m.sfv", a+" 1\n")
	cfg := writeFile(t, dir, "sfv.yaml", "report:\n  template: \"BAD {path}\"\n")

	code, out, _ := run(t, "--config", cfg, "check", m)

	assert.Equal(t, ExitFailed, code)
	assert.True(t, strings.HasPrefix(out, "BAD "+a+"\n"))
}

func TestCheck_InvalidConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	m := writeFile(t, dir, "m.sfv", "")
	cfg := writeFile(t, dir, "sfv.yaml", "workers: 1000\n")

	code, _, _ := run(t, "--config", cfg, "check", m)

	assert.Equal(t, ExitError, code)
}

func TestSplits(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	data := bytes.Repeat([]byte("0123456789"), 100)
	a := writeFile(t, dir, "a.bin", string(data))
	b := writeFile(t, dir, "b.bin", string(data))

	code, out, _ := run(t, "splits", "--splits", "4", a, b)
	assert.Equal(t, ExitOK, code)
	assert.Contains(t, out, "files identical")

	data[600] ^= 0x01
	require.NoError(t, os.WriteFile(b, data, 0o600))

	code, out, _ = run(t, "splits", "--splits", "4", a, b)
	assert.Equal(t, ExitFailed, code)
	assert.Contains(t, out, "Differing splits: [2]")
	assert.Contains(t, out, "Split 2 differs (bytes 500-750)")
}

func TestSplits_NeedsTwoFiles(t *testing.T) {
	t.Parallel()

	code, _, _ := run(t, "splits", "only-one")

	assert.Equal(t, ExitError, code)
}
