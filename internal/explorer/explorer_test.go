package explorer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTree creates files (with the given contents) and directories below root.
// Paths ending in "/" are directories.
func writeTree(t *testing.T, root string, entries map[string]string) {
	t.Helper()

	for rel, content := range entries {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if strings.HasSuffix(rel, "/") {
			require.NoError(t, os.MkdirAll(path, 0o755))

			continue
		}

		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func sampleTree(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"README":                     "hello",
		".gitignore":                 "bin/\n",
		"archive.tar.gz":             strings.Repeat("x", 100),
		"file_explorer_activity.log": "log line\n",
		"catalog/":                   "",
		"catalog/items.txt":          strings.Repeat("y", 2048),
		"src/main.go":                "package main\n",
		"src/nested/deep/notes.txt":  "",
	})

	return root
}

// linkedTree holds a file and a directory, each with a symbolic link to it.
func linkedTree(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"real.txt":      "hello",
		"dir/inner.txt": "abc",
	})

	require.NoError(t, os.Symlink("real.txt", filepath.Join(root, "alias.txt")))
	require.NoError(t, os.Symlink("dir", filepath.Join(root, "dirlink")))

	return root
}

func walkEntries(t *testing.T, walker Walker, root string) map[string]Entry {
	t.Helper()

	entries := map[string]Entry{}

	require.NoError(t, walker.Walk(context.Background(), root, func(entry Entry) error {
		rel, err := filepath.Rel(root, entry.Path)
		require.NoError(t, err)

		entries[filepath.ToSlash(rel)] = entry

		return nil
	}))

	return entries
}

func TestWalkVisitsEveryEntryOnce(t *testing.T) {
	root := sampleTree(t)

	seen := map[string]int{}

	err := Walker{}.Walk(context.Background(), root, func(entry Entry) error {
		rel, err := filepath.Rel(root, entry.Path)
		require.NoError(t, err)

		seen[filepath.ToSlash(rel)]++

		return nil
	})
	require.NoError(t, err)

	assert.NotContains(t, seen, ".")
	assert.Len(t, seen, 11)

	for path, n := range seen {
		assert.Equal(t, 1, n, path)
	}

	assert.Contains(t, seen, "src/nested/deep")
	assert.Contains(t, seen, "src/nested/deep/notes.txt")
}

func TestWalkClassifiesEntries(t *testing.T) {
	root := sampleTree(t)

	entries := map[string]Entry{}

	require.NoError(t, Walker{}.Walk(context.Background(), root, func(entry Entry) error {
		entries[entry.Name] = entry

		return nil
	}))

	assert.True(t, entries["catalog"].IsDir)
	assert.False(t, entries["catalog"].IsRegular)
	assert.Zero(t, entries["catalog"].Size)

	assert.True(t, entries["items.txt"].IsRegular)
	assert.EqualValues(t, 2048, entries["items.txt"].Size)
	assert.False(t, entries["items.txt"].ModTime.IsZero())
}

func TestWalkClassifiesSymlinksByTarget(t *testing.T) {
	root := linkedTree(t)
	require.NoError(t, os.Symlink("missing", filepath.Join(root, "broken")))

	entries := walkEntries(t, Walker{}, root)

	assert.True(t, entries["alias.txt"].IsRegular)
	assert.EqualValues(t, 5, entries["alias.txt"].Size)

	assert.True(t, entries["dirlink"].IsDir)
	assert.NotContains(t, entries, "dirlink/inner.txt", "linked directory descended without Follow")

	require.Contains(t, entries, "broken")
	assert.False(t, entries["broken"].IsDir)
	assert.False(t, entries["broken"].IsRegular)
}

func TestWalkFollowDescendsIntoLinkedDirectories(t *testing.T) {
	root := linkedTree(t)

	entries := walkEntries(t, Walker{Follow: true}, root)

	require.Contains(t, entries, "dirlink/inner.txt")
	assert.True(t, entries["dirlink/inner.txt"].IsRegular)
	assert.EqualValues(t, 3, entries["dirlink/inner.txt"].Size)
}

func TestWalkFollowTerminatesOnLinkCycle(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "d"), 0o755))
	require.NoError(t, os.Symlink("..", filepath.Join(root, "d", "up")))

	stats, err := Analyzer{Walker: Walker{Follow: true}}.Analyze(context.Background(), root)
	require.NoError(t, err)

	assert.EqualValues(t, 2, stats.DirCount)
	assert.Zero(t, stats.FileCount)
}

func TestWalkRejectsMissingAndNonDirectoryRoots(t *testing.T) {
	root := sampleTree(t)
	noop := func(Entry) error { return nil }

	err := Walker{}.Walk(context.Background(), filepath.Join(root, "missing"), noop)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	err = Walker{}.Walk(context.Background(), filepath.Join(root, "README"), noop)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestWalkExcludes(t *testing.T) {
	root := sampleTree(t)

	var names []string

	walker := Walker{Excludes: []string{"src", "**/*.txt"}}
	require.NoError(t, walker.Walk(context.Background(), root, func(entry Entry) error {
		names = append(names, entry.Name)

		return nil
	}))

	assert.NotContains(t, names, "src")
	assert.NotContains(t, names, "main.go")
	assert.NotContains(t, names, "items.txt")
	assert.Contains(t, names, "catalog")
	assert.Contains(t, names, "README")

	err := Walker{Excludes: []string{"[unterminated"}}.Walk(context.Background(), root, func(Entry) error { return nil })
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestWalkSkipsUnreadableDirectories(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	root := sampleTree(t)
	locked := filepath.Join(root, "locked")
	writeTree(t, root, map[string]string{"locked/secret.txt": "s"})
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { os.Chmod(locked, 0o755) })

	var failed []string

	walker := Walker{OnError: func(path string, err error) error {
		failed = append(failed, path)

		return nil
	}}

	var names []string

	require.NoError(t, walker.Walk(context.Background(), root, func(entry Entry) error {
		names = append(names, entry.Name)

		return nil
	}))

	assert.Contains(t, names, "locked")
	assert.NotContains(t, names, "secret.txt")
	assert.Equal(t, []string{locked}, failed)

	stats, err := Analyzer{}.Analyze(context.Background(), root)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.Errors)
	assert.EqualValues(t, 7, stats.FileCount)
}

func TestAnalyze(t *testing.T) {
	root := sampleTree(t)

	stats, err := Analyzer{}.Analyze(context.Background(), root)
	require.NoError(t, err)

	assert.EqualValues(t, 7, stats.FileCount)
	assert.EqualValues(t, 4, stats.DirCount)
	assert.EqualValues(t, 5+5+100+9+2048+13, stats.TotalBytes)
	assert.Equal(t, map[string]int64{
		NoExtension:  1,
		".gitignore": 1,
		".gz":        1,
		".log":       1,
		".txt":       2,
		".go":        1,
	}, stats.Extensions)
}

func TestAnalyzeReturnsFreshResults(t *testing.T) {
	root := sampleTree(t)
	analyzer := Analyzer{}

	first, err := analyzer.Analyze(context.Background(), root)
	require.NoError(t, err)

	second, err := analyzer.Analyze(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, first.FileCount, second.FileCount)
	assert.Equal(t, first.Extensions, second.Extensions)
	assert.NotSame(t, first, second)
}

func TestAnalyzeCountsMatchWalk(t *testing.T) {
	tests := []struct {
		name   string
		root   func(t *testing.T) string
		walker Walker
	}{
		{name: "plain tree", root: sampleTree},
		{name: "symbolic links", root: linkedTree},
		{name: "symbolic links followed", root: linkedTree, walker: Walker{Follow: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := tt.root(t)

			var entries, bytes int64

			require.NoError(t, tt.walker.Walk(context.Background(), root, func(entry Entry) error {
				entries++
				bytes += entry.Size

				return nil
			}))

			stats, err := Analyzer{Walker: tt.walker}.Analyze(context.Background(), root)
			require.NoError(t, err)
			assert.Equal(t, entries, stats.FileCount+stats.DirCount)
			assert.Equal(t, bytes, stats.TotalBytes)
		})
	}
}

func TestAnalyzeCountsLinksByTarget(t *testing.T) {
	stats, err := Analyzer{}.Analyze(context.Background(), linkedTree(t))
	require.NoError(t, err)

	assert.EqualValues(t, 3, stats.FileCount)
	assert.EqualValues(t, 2, stats.DirCount)
	assert.EqualValues(t, 5+5+3, stats.TotalBytes)
	assert.Equal(t, map[string]int64{".txt": 3}, stats.Extensions)
}

func TestAnalyzeReportsProgress(t *testing.T) {
	root := sampleTree(t)

	calls := 0
	analyzer := Analyzer{
		Progress:         func(int64, int64) { calls++ },
		ProgressInterval: 1,
	}

	_, err := analyzer.Analyze(context.Background(), root)
	require.NoError(t, err)
	assert.Positive(t, calls)
}

func TestSortedExtensions(t *testing.T) {
	stats := &Statistics{Extensions: map[string]int64{".txt": 2, ".go": 1, NoExtension: 3}}

	assert.Equal(t, []ExtensionCount{
		{Extension: NoExtension, Count: 3},
		{Extension: ".go", Count: 1},
		{Extension: ".txt", Count: 2},
	}, stats.SortedExtensions())
}

func TestExtension(t *testing.T) {
	tests := map[string]string{
		"archive.tar.gz": ".gz",
		"README":         NoExtension,
		".gitignore":     ".gitignore",
		"Main.GO":        ".GO",
		"trailing.":      ".",
	}

	for name, want := range tests {
		assert.Equal(t, want, Extension(name), name)
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0.00 B"},
		{1023, "1023.00 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{1048576, "1.00 MB"},
		{1073741824, "1.00 GB"},
		{1 << 40, "1.00 TB"},
		{1 << 50, "1024.00 TB"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatSize(tt.bytes))
	}
}
