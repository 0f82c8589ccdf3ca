package explorer

import (
	"context"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
)

// Match is a single search hit.
type Match struct {
	// Path is the root-joined path of the match.
	Path string `json:"path" yaml:"path"`
	// IsDir reports whether the match is a directory.
	IsDir bool `json:"is_dir" yaml:"is_dir"`
	// Size is the size in bytes for regular files.
	Size int64 `json:"size" yaml:"size"`
}

// Filter restricts a filtered search to regular files.
type Filter struct {
	// NamePattern must be a substring of the name. Empty or "*" matches all.
	NamePattern string `json:"name_pattern" yaml:"name_pattern"`
	// ExtensionPattern must be a substring of the name. Empty matches all.
	ExtensionPattern string `json:"extension_pattern" yaml:"extension_pattern"`
	// MinSize is the inclusive lower size bound.
	MinSize int64 `json:"min_size" yaml:"min_size"`
	// MaxSize is the inclusive upper size bound; 0 means unbounded.
	MaxSize int64 `json:"max_size" yaml:"max_size"`
}

// ParseSizeBound parses a size bound such as "100", "1KB" or "2MiB".
// An empty string yields 0.
func ParseSizeBound(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, invalidf("size bound %q: %v", s, err)
	}

	if n > math.MaxInt64 {
		return 0, invalidf("size bound %q is too large", s)
	}

	return int64(n), nil
}

// normalize validates f and resolves the unbounded MaxSize.
func (f Filter) normalize() (Filter, error) {
	if f.MinSize < 0 || f.MaxSize < 0 {
		return f, invalidf("size bounds cannot be negative")
	}

	if f.MaxSize == 0 {
		f.MaxSize = math.MaxInt64
	}

	if f.MinSize > f.MaxSize {
		return f, invalidf("minimum size %d exceeds maximum size %d", f.MinSize, f.MaxSize)
	}

	return f, nil
}

// matches reports whether a regular file with the given name and size passes f.
// f must be normalized.
func (f Filter) matches(name string, size int64) bool {
	if f.NamePattern != "" && f.NamePattern != "*" && !strings.Contains(name, f.NamePattern) {
		return false
	}

	if f.ExtensionPattern != "" && !strings.Contains(name, f.ExtensionPattern) {
		return false
	}

	return size >= f.MinSize && size <= f.MaxSize
}

// Searcher finds entries by name.
type Searcher struct {
	// Walker performs the traversal.
	Walker Walker
}

// Find reports every file or directory below root whose name contains needle,
// in traversal order.
func (s Searcher) Find(ctx context.Context, root, needle string) ([]Match, error) {
	if needle == "" {
		return nil, invalidf("search term is required")
	}

	var matches []Match

	err := s.Walker.Walk(ctx, root, func(entry Entry) error {
		if strings.Contains(entry.Name, needle) {
			matches = append(matches, Match{Path: entry.Path, IsDir: entry.IsDir, Size: entry.Size})
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return matches, nil
}

// Filter reports every regular file below root that passes filter.
// Directories are only descended into, never matched.
func (s Searcher) Filter(ctx context.Context, root string, filter Filter) ([]Match, error) {
	filter, err := filter.normalize()
	if err != nil {
		return nil, err
	}

	var matches []Match

	err = s.Walker.Walk(ctx, root, func(entry Entry) error {
		if entry.IsRegular && filter.matches(entry.Name, entry.Size) {
			matches = append(matches, Match{Path: entry.Path, Size: entry.Size})
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return matches, nil
}
