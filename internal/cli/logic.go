package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/idelchi/fex/internal/activity"
	"github.com/idelchi/fex/internal/config"
	"github.com/idelchi/fex/internal/explorer"
	"github.com/idelchi/fex/internal/logging"
)

// app bundles the services shared by the shell and the subcommands.
type app struct {
	cfg     config.Config
	logger  *zap.Logger
	history *activity.Log
	walker  explorer.Walker
	stdout  io.Writer
	stderr  io.Writer
	tty     bool
}

func newApp(cfg config.Config, stdout, stderr io.Writer) *app {
	logger := logging.NewOrNop(logging.Config{Debug: cfg.Debug})

	logger.Debug("configuration loaded",
		zap.String("log_file", cfg.LogFile),
		zap.Bool("follow_symlinks", cfg.FollowSymlinks),
		zap.Strings("excludes", cfg.Excludes),
	)

	return &app{
		cfg:     cfg,
		logger:  logger,
		history: activity.New(cfg.LogFile, logger),
		walker: explorer.Walker{
			Follow:   cfg.FollowSymlinks,
			Excludes: cfg.Excludes,
			Logger:   logger,
		},
		stdout: stdout,
		stderr: stderr,
		tty:    !cfg.Debug && isTerminal(stderr),
	}
}

// isTerminal reports whether w is a terminal file.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (a *app) close() {
	_ = a.logger.Sync()
}

// analyze runs the statistics aggregator, showing a status line on a terminal.
func (a *app) analyze(ctx context.Context, root string) (*explorer.Statistics, error) {
	analyzer := explorer.Analyzer{Walker: a.walker}

	if a.tty {
		// Hide cursor for in-place updates; restore on exit.
		fmt.Fprint(a.stderr, "\033[?25l")
		defer fmt.Fprint(a.stderr, "\033[?25h")

		analyzer.Progress = func(files, bytes int64) {
			fmt.Fprintf(a.stderr, "\r\033[2KScanning… %s files, %s\r",
				humanize.Comma(files), humanize.IBytes(uint64(bytes))) //nolint:gosec // Bytes is always positive
		}

		defer fmt.Fprint(a.stderr, "\r\033[2K\r")
	}

	return analyzer.Analyze(ctx, root)
}

// searchFilter builds a filter from raw user input. Size bounds accept plain
// byte counts or units such as "10KB"; an empty maximum means unbounded.
func searchFilter(name, ext, minSize, maxSize string) (explorer.Filter, error) {
	lower, err := explorer.ParseSizeBound(minSize)
	if err != nil {
		return explorer.Filter{}, err
	}

	upper, err := explorer.ParseSizeBound(maxSize)
	if err != nil {
		return explorer.Filter{}, err
	}

	if strings.TrimSpace(name) == "" {
		name = "*"
	}

	return explorer.Filter{
		NamePattern:      name,
		ExtensionPattern: strings.TrimSpace(ext),
		MinSize:          lower,
		MaxSize:          upper,
	}, nil
}

func (a *app) runStats(ctx context.Context, root string) error {
	stats, err := a.analyze(ctx, root)
	if err != nil {
		return err
	}

	a.history.Record("Generated statistics for: " + root)

	return render(a.stdout, a.cfg.Output, stats, func(w io.Writer) error {
		return PrintStatistics(stats, w)
	})
}

func (a *app) runFind(ctx context.Context, root, needle string) error {
	matches, err := explorer.Searcher{Walker: a.walker}.Find(ctx, root, needle)
	if err != nil {
		return err
	}

	a.history.Record("Searched for: " + needle)

	return render(a.stdout, a.cfg.Output, matchesOrEmpty(matches), func(w io.Writer) error {
		return PrintMatches(root, matches, w)
	})
}

func (a *app) runSearch(ctx context.Context, root string, filter explorer.Filter) error {
	matches, err := explorer.Searcher{Walker: a.walker}.Filter(ctx, root, filter)
	if err != nil {
		return err
	}

	a.history.Record("Advanced search performed")

	return render(a.stdout, a.cfg.Output, matchesOrEmpty(matches), func(w io.Writer) error {
		return PrintFilteredMatches(matches, w)
	})
}

func (a *app) runCompare(left, right string) error {
	result, err := explorer.Compare(left, right)
	if err != nil {
		return err
	}

	a.history.Record(fmt.Sprintf("Compared files: %s and %s", left, right))

	return render(a.stdout, a.cfg.Output, result, func(w io.Writer) error {
		return PrintComparison(result, w)
	})
}

func (a *app) runHistory(lines int) error {
	if lines <= 0 {
		lines = a.cfg.HistoryLines
	}

	tail, err := a.history.Tail(lines)
	if err != nil && !errors.Is(err, activity.ErrNoHistory) {
		return err
	}

	return render(a.stdout, a.cfg.Output, matchesOrEmpty(tail), func(w io.Writer) error {
		return PrintHistory(tail, w)
	})
}

// matchesOrEmpty keeps structured output as an empty list instead of null.
func matchesOrEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}

	return items
}

// now is replaced in tests.
//
//nolint:gochecknoglobals // Test seam
var now = time.Now
