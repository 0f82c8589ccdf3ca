package explorer

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
	"go.uber.org/zap"
)

// Entry describes a single filesystem object met during a walk.
type Entry struct {
	// Path is the root-joined path of the entry.
	Path string `json:"path"`
	// Name is the final path element.
	Name string `json:"name"`
	// IsDir reports whether the entry is a directory.
	IsDir bool `json:"is_dir"`
	// IsRegular reports whether the entry is a regular file.
	IsRegular bool `json:"is_regular"`
	// Size is the size in bytes, set for regular files only.
	Size int64 `json:"size"`
	// ModTime is the last modification time.
	ModTime time.Time `json:"mod_time"`
	// Mode holds the type and permission bits.
	Mode fs.FileMode `json:"mode"`
}

// VisitFunc is called once per entry. Returning fs.SkipDir for a directory
// prevents descending into it; any other error aborts the walk.
type VisitFunc func(entry Entry) error

// ErrorFunc is called when a directory cannot be read or an entry cannot be
// inspected. Returning nil skips the failing path and continues.
type ErrorFunc func(path string, err error) error

// Walker traverses a directory tree, visiting every directory before any of
// its contents. It is not a depth-first interleaving: the non-directory
// entries of a directory are visited while it is read, and its
// subdirectories are queued and entered afterwards in an unspecified order.
// Sibling order is whatever the filesystem returns.
//
// Symbolic links are classified by their target. Linked directories are
// counted but only descended into when Follow is set. With Follow set,
// fastwalk refuses to enter a link that resolves to an ancestor of the
// current path, so link cycles terminate.
type Walker struct {
	// Follow descends into symbolically linked directories.
	Follow bool
	// Excludes holds doublestar patterns matched against the slash-separated
	// path relative to the root. Matching directories are pruned.
	Excludes []string
	// OnError overrides the default skip-and-continue policy.
	OnError ErrorFunc
	// Logger receives debug output. A nil Logger discards it.
	Logger *zap.Logger
}

func (w Walker) log() *zap.Logger {
	if w.Logger == nil {
		return zap.NewNop()
	}

	return w.Logger
}

// handleError applies OnError, falling back to logging and skipping.
func (w Walker) handleError(path string, err error) error {
	if w.OnError != nil {
		return w.OnError(path, err)
	}

	w.log().Debug("skipping unreadable path", zap.String("path", path), zap.Error(err))

	return nil
}

// withErrorHook returns a copy of w that calls hook before the configured error policy.
func (w Walker) withErrorHook(hook func(path string, err error)) Walker {
	inner := w

	w.OnError = func(path string, err error) error {
		hook(path, err)

		return inner.handleError(path, err)
	}

	return w
}

// relativeSlash returns path relative to root in slash form.
func relativeSlash(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = strings.TrimPrefix(path, root)
		rel = strings.TrimPrefix(rel, string(filepath.Separator))
	}

	return filepath.ToSlash(rel)
}

// excludedBy returns the first exclusion pattern matching rel.
func (w Walker) excludedBy(rel string) string {
	for _, pattern := range w.Excludes {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return pattern
		}
	}

	return ""
}

// entry classifies d using a metadata lookup. Symbolic links are classified
// by their target whether or not they are followed; a broken link keeps its
// own metadata and counts as neither file nor directory.
func (w Walker) entry(path string, d fs.DirEntry) (Entry, error) {
	info, err := d.Info()
	if err != nil {
		return Entry{}, err
	}

	if d.Type()&fs.ModeSymlink != 0 {
		if target, statErr := fastwalk.StatDirEntry(path, d); statErr == nil {
			info = target
		} else {
			w.log().Debug("broken symbolic link", zap.String("path", path), zap.Error(statErr))
		}
	}

	entry := Entry{
		Path:      path,
		Name:      d.Name(),
		IsDir:     info.IsDir(),
		IsRegular: info.Mode().IsRegular(),
		ModTime:   info.ModTime(),
		Mode:      info.Mode(),
	}

	if entry.IsRegular {
		entry.Size = info.Size()
	}

	return entry, nil
}

// Walk visits every entry below root, excluding root itself.
//
// Unreadable directories are passed to the error policy and contribute
// nothing when it returns nil. The visitor is never called concurrently.
func (w Walker) Walk(ctx context.Context, root string, visit VisitFunc) error {
	if root == "" {
		root = "."
	}

	root = filepath.Clean(root)

	if info, err := os.Stat(root); err != nil {
		return fmt.Errorf("accessing path %q: %w", root, err)
	} else if !info.IsDir() {
		return invalidf("path %q is not a directory", root)
	}

	for _, pattern := range w.Excludes {
		if !doublestar.ValidatePattern(pattern) {
			return invalidf("malformed exclusion pattern %q", pattern)
		}
	}

	log := w.log()

	conf := &fastwalk.Config{
		Follow:     w.Follow,
		NumWorkers: 1,
	}

	//nolint:varnamelen // d is standard for DirEntry
	err := fastwalk.Walk(conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return w.handleError(path, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if path == root {
			return nil
		}

		if pattern := w.excludedBy(relativeSlash(root, path)); pattern != "" {
			log.Debug("excluding path", zap.String("path", path), zap.String("pattern", pattern))

			if d.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		entry, err := w.entry(path, d)
		if err != nil {
			return w.handleError(path, err)
		}

		return visit(entry)
	})
	if err != nil {
		return fmt.Errorf("walking %q: %w", root, err)
	}

	return nil
}
