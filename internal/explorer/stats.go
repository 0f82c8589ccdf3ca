package explorer

import (
	"context"
	"path/filepath"
	"sort"
	"time"
)

// NoExtension is the extension key for file names without a '.'.
const NoExtension = "(no_ext)"

// DefaultProgressInterval is the default interval for progress updates.
const DefaultProgressInterval = 500 * time.Millisecond

// ExtensionCount pairs an extension with the number of files carrying it.
type ExtensionCount struct {
	// Extension includes the leading dot, or is NoExtension.
	Extension string `json:"extension" yaml:"extension"`
	// Count is the number of files.
	Count int64 `json:"count" yaml:"count"`
}

// Statistics holds aggregate statistics for a directory tree.
type Statistics struct {
	// Root is the analyzed directory.
	Root string `json:"root" yaml:"root"`
	// FileCount is the number of regular files below Root.
	FileCount int64 `json:"file_count" yaml:"file_count"`
	// DirCount is the number of directories below Root, excluding Root.
	DirCount int64 `json:"dir_count" yaml:"dir_count"`
	// TotalBytes is the cumulative size of all regular files.
	TotalBytes int64 `json:"total_bytes" yaml:"total_bytes"`
	// Extensions maps extensions to file counts.
	Extensions map[string]int64 `json:"extensions" yaml:"extensions"`
	// Errors is the number of paths skipped because they could not be read.
	Errors int64 `json:"errors" yaml:"errors"`
	// Elapsed is the total time taken for analysis.
	Elapsed time.Duration `json:"elapsed" yaml:"elapsed"`
}

// SortedExtensions returns the extension counts ordered by extension.
func (s *Statistics) SortedExtensions() []ExtensionCount {
	counts := make([]ExtensionCount, 0, len(s.Extensions))
	for ext, n := range s.Extensions {
		counts = append(counts, ExtensionCount{Extension: ext, Count: n})
	}

	sort.Slice(counts, func(i, j int) bool {
		return counts[i].Extension < counts[j].Extension
	})

	return counts
}

// Extension returns the text from the last '.' in name, or NoExtension.
//
// "archive.tar.gz" yields ".gz" and ".gitignore" yields ".gitignore".
func Extension(name string) string {
	if ext := filepath.Ext(name); ext != "" {
		return ext
	}

	return NoExtension
}

// collector accumulates statistics for a single walk.
type collector struct {
	stats *Statistics
}

func newCollector(root string) *collector {
	return &collector{
		stats: &Statistics{
			Root:       root,
			Extensions: make(map[string]int64),
		},
	}
}

func (c *collector) add(entry Entry) {
	switch {
	case entry.IsDir:
		c.stats.DirCount++
	case entry.IsRegular:
		c.stats.FileCount++
		c.stats.TotalBytes += entry.Size
		c.stats.Extensions[Extension(entry.Name)]++
	}
}

// Analyzer computes directory statistics.
type Analyzer struct {
	// Walker performs the traversal.
	Walker Walker
	// Progress, if set, receives running totals of files and bytes.
	Progress func(files, bytes int64)
	// ProgressInterval controls progress callback cadence.
	ProgressInterval time.Duration
}

// Analyze walks root and returns fresh statistics for it.
func (a Analyzer) Analyze(ctx context.Context, root string) (*Statistics, error) {
	if root == "" {
		root = "."
	}

	c := newCollector(root)

	interval := a.ProgressInterval
	if interval <= 0 {
		interval = DefaultProgressInterval
	}

	start := time.Now()
	lastReport := start

	walker := a.Walker.withErrorHook(func(string, error) {
		c.stats.Errors++
	})

	err := walker.Walk(ctx, root, func(entry Entry) error {
		c.add(entry)

		if a.Progress != nil && time.Since(lastReport) >= interval {
			lastReport = time.Now()
			a.Progress(c.stats.FileCount, c.stats.TotalBytes)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	c.stats.Elapsed = time.Since(start)

	return c.stats, nil
}
