package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"io/fs"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/idelchi/fex/internal/explorer"
	"github.com/idelchi/fex/internal/fsops"
)

func TestPrintListing(t *testing.T) {
	now := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	entries := []explorer.Entry{
		{Name: "docs", IsDir: true, ModTime: now.Add(-2 * time.Hour)},
		{Name: "notes.txt", IsRegular: true, Size: 2048, ModTime: now.Add(-2 * time.Hour)},
	}

	var buf bytes.Buffer
	require.NoError(t, PrintListing("/srv", entries, now, &buf))

	out := buf.String()
	assert.Contains(t, out, "Current Directory: /srv")
	assert.Regexp(t, `docs\s+DIR\s+-\s+2024-03-05 10:00 \(2 hours ago\)`, out)
	assert.Regexp(t, `notes\.txt\s+FILE\s+2\.00 KB`, out)
}

func TestPrintStatistics(t *testing.T) {
	stats := &explorer.Statistics{
		Root:       "/srv",
		FileCount:  1234,
		DirCount:   3,
		TotalBytes: 1536,
		Extensions: map[string]int64{".txt": 2, explorer.NoExtension: 1},
		Errors:     1,
	}

	var buf bytes.Buffer
	require.NoError(t, PrintStatistics(stats, &buf))

	out := buf.String()
	assert.Contains(t, out, "DIRECTORY STATISTICS DASHBOARD")
	assert.Regexp(t, `Total Files:\s+1,234`, out)
	assert.Regexp(t, `Total Size:\s+1\.50 KB \(1536 bytes\)`, out)
	assert.Regexp(t, `Skipped \(unreadable\):\s+1`, out)
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("(no_ext)")), bytes.Index(buf.Bytes(), []byte(".txt:")))
}

func TestPrintMatches(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintMatches("/srv", []explorer.Match{{Path: "/srv/a.log"}}, &buf))
	assert.Contains(t, buf.String(), "Found: /srv/a.log")

	buf.Reset()
	require.NoError(t, PrintMatches("/srv", nil, &buf))
	assert.Contains(t, buf.String(), "No matches found.")

	buf.Reset()
	require.NoError(t, PrintFilteredMatches([]explorer.Match{{Path: "/srv/b.txt", Size: 100}}, &buf))
	assert.Contains(t, buf.String(), "/srv/b.txt (100.00 B)")

	buf.Reset()
	require.NoError(t, PrintFilteredMatches(nil, &buf))
	assert.Contains(t, buf.String(), "No files found matching criteria.")
}

func TestPrintComparison(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintComparison(&explorer.Comparison{Identical: true}, &buf))
	assert.Contains(t, buf.String(), "Files are IDENTICAL.")
	assert.NotContains(t, buf.String(), "different number of lines")

	buf.Reset()
	require.NoError(t, PrintComparison(&explorer.Comparison{
		Differences:      []explorer.LineDiff{{Line: 2, Left: "b", Right: "B"}},
		TotalDifferences: 1,
		LengthMismatch:   true,
	}, &buf))

	out := buf.String()
	assert.Contains(t, out, "Difference at line 2:\n  File 1: b\n  File 2: B")
	assert.Contains(t, out, "Files have different number of lines.")
	assert.Contains(t, out, "Files are DIFFERENT (1 differences")
}

func TestPrintPermissionsAndContent(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintPermissions("run.sh", fsops.Permissions{Mode: fs.FileMode(0o751)}, &buf))

	out := buf.String()
	assert.Contains(t, out, "Owner:  rwx")
	assert.Contains(t, out, "Group:  r-x")
	assert.Contains(t, out, "Others: --x")
	assert.Contains(t, out, "Octal:  751")

	buf.Reset()
	require.NoError(t, PrintContent("a.txt", &fsops.Content{MIME: "text/plain", Lines: []string{"one", "two"}}, &buf))
	assert.Contains(t, buf.String(), "   1 | one\n   2 | two\n")

	buf.Reset()
	require.NoError(t, PrintContent("a.png", &fsops.Content{MIME: "image/png", Binary: true}, &buf))
	assert.Contains(t, buf.String(), "Binary file, content not shown.")
}

func TestPrintHistory(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintHistory(nil, &buf))
	assert.Contains(t, buf.String(), "No history found.")

	buf.Reset()
	require.NoError(t, PrintHistory([]string{"[x] one", "[y] two"}, &buf))
	assert.Contains(t, buf.String(), "[x] one\n[y] two\n")
}

func TestRenderFormats(t *testing.T) {
	matches := []explorer.Match{{Path: "a.txt", Size: 3}}

	var buf bytes.Buffer
	require.NoError(t, render(&buf, "json", matches, nil))

	var decoded []explorer.Match
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, matches, decoded)

	buf.Reset()
	require.NoError(t, render(&buf, "YAML", matches, nil))

	decoded = nil
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, matches, decoded)

	called := false
	require.NoError(t, render(&buf, "table", matches, func(io.Writer) error {
		called = true

		return nil
	}))
	assert.True(t, called)

	assert.Error(t, render(&buf, "xml", matches, nil))
}
