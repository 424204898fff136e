package scan_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctxpack/ctxpack/pkg/scan"
)

func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, content, 0o644))

	return path
}

func statsByExt(stats []scan.Stats) map[string]scan.Stats {
	m := make(map[string]scan.Stats, len(stats))
	for _, st := range stats {
		m[st.Ext] = st
	}

	return m
}

func TestScanAggregatesByExtension(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.py", []byte("print('a')\n"))
	writeFile(t, dir, "sub/b.py", []byte("print('bb')\n"))
	writeFile(t, dir, "readme.md", []byte("# hi\n"))

	stats, err := scan.NewScanner(dir, nil).Scan()
	require.NoError(t, err)

	byExt := statsByExt(stats)
	require.Contains(t, byExt, "py")
	require.Contains(t, byExt, "md")

	py := byExt["py"]
	assert.Equal(t, 2, py.Count)
	assert.Equal(t, int64(23), py.TotalSize)
	assert.Equal(t, filepath.Join(dir, "sub", "b.py"), py.LargestPath)
	assert.Equal(t, int64(12), py.LargestSize)
	assert.False(t, py.Binary)
	assert.Equal(t, "Python", py.Language)
}

func TestScanSortsBySizeDescending(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "small.md", []byte("x\n"))
	writeFile(t, dir, "big.py", bytes.Repeat([]byte("pass\n"), 100))

	stats, err := scan.NewScanner(dir, nil).Scan()
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, "py", stats[0].Ext)
	assert.Equal(t, "md", stats[1].Ext)
}

func TestScanCaseInsensitiveExtensions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.PY", []byte("pass\n"))
	writeFile(t, dir, "b.py", []byte("pass\n"))

	stats, err := scan.NewScanner(dir, nil).Scan()
	require.NoError(t, err)
	require.Len(t, stats, 1)

	assert.Equal(t, "py", stats[0].Ext)
	assert.Equal(t, 2, stats[0].Count)
}

func TestScanSpecialGroups(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Dockerfile", []byte("FROM scratch\n"))
	writeFile(t, dir, "LICENSE", []byte("MIT\n"))

	stats, err := scan.NewScanner(dir, nil).Scan()
	require.NoError(t, err)

	byExt := statsByExt(stats)
	assert.Contains(t, byExt, "dockerfile")
	assert.Contains(t, byExt, scan.NoExtension)
}

func TestScanIgnoresDirectories(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "keep.py", []byte("pass\n"))
	writeFile(t, dir, "node_modules/skip.py", []byte("pass\n"))

	stats, err := scan.NewScanner(dir, []string{"node_modules"}).Scan()
	require.NoError(t, err)
	require.Len(t, stats, 1)

	assert.Equal(t, 1, stats[0].Count)
	assert.Equal(t, filepath.Join(dir, "keep.py"), stats[0].LargestPath)
}

func TestScanDetectsBinary(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "blob.bin", []byte{0x00, 0x01, 0x02, 0xff})

	stats, err := scan.NewScanner(dir, nil).Scan()
	require.NoError(t, err)
	require.Len(t, stats, 1)

	assert.True(t, stats[0].Binary)
}

func TestScanNotADirectory(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "a.py", []byte("pass\n"))

	_, err := scan.NewScanner(file, nil).Scan()
	assert.Error(t, err)
}

func TestReportRendersRowsAndTotal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.py", []byte("print('a')\n"))
	writeFile(t, dir, "readme.md", []byte("# hi\n"))

	stats, err := scan.NewScanner(dir, nil).Scan()
	require.NoError(t, err)

	var buf bytes.Buffer

	scan.Report(&buf, dir, stats, 0)

	out := buf.String()
	assert.Contains(t, out, "EXTENSION")
	assert.Contains(t, out, "py")
	assert.Contains(t, out, "md")
	assert.Contains(t, out, "a.py")
	assert.Contains(t, out, "TOTAL")
}

func TestReportTruncatesLongPaths(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "very/deeply/nested/directory/structure/file.py", []byte("pass\n"))

	stats, err := scan.NewScanner(dir, nil).Scan()
	require.NoError(t, err)

	var buf bytes.Buffer

	scan.Report(&buf, dir, stats, 20)

	assert.Contains(t, buf.String(), "...")
	assert.Contains(t, buf.String(), "file.py")
}
