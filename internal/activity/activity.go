// Package activity keeps the append-only log of completed explorer operations.
package activity

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"go.uber.org/zap"
)

// DefaultTail is the number of lines shown by default.
const DefaultTail = 20

// TimeLayout is the timestamp layout of each log line.
const TimeLayout = time.ANSIC

// ErrNoHistory is returned by Tail when no log has been written yet.
var ErrNoHistory = errors.New("no history found")

// Recorder receives one line per completed operation.
// Implementations must not fail the caller.
type Recorder interface {
	Record(action string)
}

// Log appends timestamped lines to a text file.
type Log struct {
	path   string
	now    func() time.Time
	logger *zap.Logger
}

// New returns a Log writing to path. Write failures are reported to logger.
func New(path string, logger *zap.Logger) *Log {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Log{path: path, now: time.Now, logger: logger}
}

// Path returns the log file location.
func (l *Log) Path() string {
	return l.path
}

// Record appends "[timestamp] action" to the log.
func (l *Log) Record(action string) {
	if err := l.append(action); err != nil {
		l.logger.Warn("recording activity", zap.String("path", l.path), zap.Error(err))
	}
}

func (l *Log) append(action string) (err error) {
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	_, err = fmt.Fprintf(f, "[%s] %s\n", l.now().Format(TimeLayout), action)

	return err
}

// Tail returns the last n lines of the log, oldest first.
func (l *Log) Tail(n int) ([]string, error) {
	if n <= 0 {
		n = DefaultTail
	}

	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoHistory
		}

		return nil, fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	lines := make([]string, 0, n)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if len(lines) == n {
			lines = append(lines[:0], lines[1:]...)
		}

		lines = append(lines, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading activity log: %w", err)
	}

	return lines, nil
}
