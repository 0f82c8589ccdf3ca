package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/MakeNowJust/heredoc/v2"
	"go.uber.org/zap"

	"github.com/idelchi/fex/internal/activity"
	"github.com/idelchi/fex/internal/explorer"
	"github.com/idelchi/fex/internal/fsops"
)

// endOfContent terminates multi-line file input.
const endOfContent = "END"

//nolint:gochecknoglobals // Menu text
var menu = heredoc.Doc(`

	BASIC OPERATIONS
	1.  List Directory Contents
	2.  Change Directory
	3.  Create Directory
	4.  Create File
	5.  Delete File
	6.  Delete Directory
	7.  Copy File
	8.  Move File
	9.  Search File (simple)
	10. View File Permissions
	11. Change File Permissions
	12. View File Content
	13. Show Current Directory

	ADVANCED FEATURES
	14. Directory Statistics Dashboard
	15. View Activity History
	16. Advanced Search (with filters)
	17. Compare Two Files
	0.  Exit
`)

//nolint:gochecknoglobals // Banner text
var banner = heredoc.Doc(`

	========================
	File Explorer Application
	========================
`)

// action runs one menu entry and returns the activity line to record.
// An empty line records nothing.
type action func(ctx context.Context) (string, error)

// Shell is the interactive, menu-driven explorer.
type Shell struct {
	app     *app
	in      *bufio.Reader
	out     io.Writer
	cwd     string
	actions map[int]action

	lines chan inputLine
	start sync.Once
}

// newShell creates a shell reading choices from in and starting in cwd.
func newShell(a *app, in io.Reader, cwd string) *Shell {
	s := &Shell{
		app: a,
		in:    bufio.NewReader(in),
		out:   a.stdout,
		cwd:   cwd,
		lines: make(chan inputLine, 1),
	}

	s.actions = map[int]action{
		1:  s.listDirectory,
		2:  s.changeDirectory,
		3:  s.createDirectory,
		4:  s.createFile,
		5:  s.deleteFile,
		6:  s.deleteDirectory,
		7:  s.copyFile,
		8:  s.moveFile,
		9:  s.searchFile,
		10: s.viewPermissions,
		11: s.changePermissions,
		12: s.viewContent,
		13: s.showCurrentDirectory,
		14: s.showStatistics,
		15: s.viewHistory,
		16: s.advancedSearch,
		17: s.compareFiles,
	}

	return s
}

// Dir returns the current directory of the shell.
func (s *Shell) Dir() string {
	return s.cwd
}

// recorder returns the activity sink.
func (s *Shell) recorder() activity.Recorder {
	return s.app.history
}

// inputLine is one read from the input stream.
type inputLine struct {
	text string
	err  error
}

// readInput runs on its own goroutine and feeds s.lines until the input fails.
func (s *Shell) readInput() {
	for {
		line, err := s.in.ReadString('\n')
		s.lines <- inputLine{text: line, err: err}

		if err != nil {
			return
		}
	}
}

// prompt writes label and reads one line without its terminator.
// io.EOF is returned only when no input is left at all, and ctx.Err() when
// ctx ends while waiting.
func (s *Shell) prompt(ctx context.Context, label string) (string, error) {
	fmt.Fprint(s.out, label)

	s.start.Do(func() { go s.readInput() })

	var in inputLine

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case in = <-s.lines:
	}

	if in.err != nil {
		// Later prompts see the same failure with nothing left to read.
		s.lines <- inputLine{err: in.err}

		if !errors.Is(in.err, io.EOF) || in.text == "" {
			return "", in.err
		}
	}

	return strings.TrimRight(in.text, "\r\n"), nil
}

// closed records the end of the session.
func (s *Shell) closed() {
	s.recorder().Record("Application closed")
}

// ended reports whether err means the session is over: input is exhausted or
// ctx was cancelled.
func ended(ctx context.Context, err error) bool {
	return errors.Is(err, io.EOF) || (ctx.Err() != nil && errors.Is(err, ctx.Err()))
}

// Run shows the menu until the user exits, input ends or ctx is cancelled.
// Operation errors are printed and never end the loop.
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprint(s.out, banner)

	for {
		if ctx.Err() != nil {
			fmt.Fprintln(s.out)
			s.closed()

			return nil
		}

		fmt.Fprint(s.out, menu)

		input, err := s.prompt(ctx, "\nEnter your choice: ")
		if err != nil {
			if ended(ctx, err) {
				fmt.Fprintln(s.out)
				s.closed()

				return nil
			}

			return err
		}

		choice, err := strconv.Atoi(strings.TrimSpace(input))
		if err != nil {
			fmt.Fprintln(s.out, "Invalid input. Please enter a number.")

			continue
		}

		if choice == 0 {
			fmt.Fprintln(s.out, "\nThank you for using File Explorer Application.")
			s.closed()

			return nil
		}

		run, ok := s.actions[choice]
		if !ok {
			fmt.Fprintln(s.out, "Invalid choice. Please try again.")

			continue
		}

		line, err := run(ctx)

		switch {
		case ended(ctx, err):
			fmt.Fprintln(s.out)
			s.closed()

			return nil
		case err != nil:
			s.app.logger.Debug("operation failed", zap.Int("choice", choice), zap.Error(err))
			fmt.Fprintf(s.out, "Error: %v\n", err)
		case line != "":
			s.recorder().Record(line)
		}
	}
}

// name prompts for a required name and resolves it against the current directory.
func (s *Shell) name(ctx context.Context, label, what string) (string, error) {
	input, err := s.prompt(ctx, label)
	if err != nil {
		return "", err
	}

	if err := fsops.Required(what, input); err != nil {
		return "", err
	}

	return fsops.Resolve(s.cwd, input), nil
}

// pair prompts for a source and a destination.
func (s *Shell) pair(ctx context.Context, first, second string) (string, string, error) {
	src, err := s.prompt(ctx, first)
	if err != nil {
		return "", "", err
	}

	dst, err := s.prompt(ctx, second)
	if err != nil {
		return "", "", err
	}

	if strings.TrimSpace(src) == "" || strings.TrimSpace(dst) == "" {
		return "", "", fmt.Errorf("%w: source or destination missing", explorer.ErrInvalidInput)
	}

	return fsops.Resolve(s.cwd, src), fsops.Resolve(s.cwd, dst), nil
}

func (s *Shell) listDirectory(context.Context) (string, error) {
	entries, err := fsops.List(s.cwd)
	if err != nil {
		return "", err
	}

	return "Listed directory: " + s.cwd, PrintListing(s.cwd, entries, now(), s.out)
}

func (s *Shell) changeDirectory(ctx context.Context) (string, error) {
	target, err := s.prompt(ctx, "\nEnter directory path (use .. for parent): ")
	if err != nil {
		return "", err
	}

	next, err := fsops.ChangeDir(s.cwd, target)
	if err != nil {
		return "", err
	}

	prev := s.cwd
	s.cwd = next

	fmt.Fprintf(s.out, "Changed to: %s\n", next)

	return fmt.Sprintf("Changed directory from %s to %s", prev, next), nil
}

func (s *Shell) createDirectory(ctx context.Context) (string, error) {
	path, err := s.name(ctx, "\nEnter directory name: ", "name")
	if err != nil {
		return "", err
	}

	if err := fsops.CreateDir(path); err != nil {
		return "", err
	}

	fmt.Fprintln(s.out, "Directory created successfully.")

	return "Created directory: " + path, nil
}

func (s *Shell) createFile(ctx context.Context) (string, error) {
	path, err := s.name(ctx, "\nEnter file name: ", "filename")
	if err != nil {
		return "", err
	}

	fmt.Fprintf(s.out, "Enter content (type a single line with %s to finish):\n", endOfContent)

	var lines []string

	for {
		line, err := s.prompt(ctx, "")
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return "", err
		}

		if line == endOfContent {
			break
		}

		lines = append(lines, line)
	}

	if err := fsops.CreateFile(path, lines); err != nil {
		return "", err
	}

	fmt.Fprintln(s.out, "File created successfully.")

	return "Created file: " + path, nil
}

func (s *Shell) deleteFile(ctx context.Context) (string, error) {
	path, err := s.name(ctx, "\nEnter file name to delete: ", "filename")
	if err != nil {
		return "", err
	}

	if err := fsops.DeleteFile(path); err != nil {
		return "", err
	}

	fmt.Fprintln(s.out, "File deleted successfully.")

	return "Deleted file: " + path, nil
}

func (s *Shell) deleteDirectory(ctx context.Context) (string, error) {
	path, err := s.name(ctx, "\nEnter directory name to delete: ", "name")
	if err != nil {
		return "", err
	}

	if err := fsops.DeleteDir(path); err != nil {
		return "", err
	}

	fmt.Fprintln(s.out, "Directory deleted successfully.")

	return "Deleted directory: " + path, nil
}

func (s *Shell) copyFile(ctx context.Context) (string, error) {
	src, dst, err := s.pair(ctx, "\nEnter source file name: ", "Enter destination file name: ")
	if err != nil {
		return "", err
	}

	var size int64
	if info, statErr := os.Stat(src); statErr == nil {
		size = info.Size()
	}

	progress := fsops.NewCopyProgress(size, "copying", s.app.tty && size > 0)

	if err := fsops.CopyFile(src, dst, progress); err != nil {
		return "", err
	}

	if err := progress.Finish(); err != nil {
		s.app.logger.Debug("finishing progress bar", zap.Error(err))
	}

	fmt.Fprintln(s.out, "File copied successfully.")

	return fmt.Sprintf("Copied: %s to %s", src, dst), nil
}

func (s *Shell) moveFile(ctx context.Context) (string, error) {
	src, dst, err := s.pair(ctx, "\nEnter source file name: ", "Enter destination file name: ")
	if err != nil {
		return "", err
	}

	if err := fsops.MoveFile(src, dst); err != nil {
		return "", err
	}

	fmt.Fprintln(s.out, "File moved successfully.")

	return fmt.Sprintf("Moved: %s to %s", src, dst), nil
}

func (s *Shell) searchFile(ctx context.Context) (string, error) {
	needle, err := s.prompt(ctx, "\nEnter file name to search: ")
	if err != nil {
		return "", err
	}

	matches, err := explorer.Searcher{Walker: s.app.walker}.Find(ctx, s.cwd, needle)
	if err != nil {
		return "", err
	}

	return "Searched for: " + needle, PrintMatches(s.cwd, matches, s.out)
}

func (s *Shell) viewPermissions(ctx context.Context) (string, error) {
	input, err := s.prompt(ctx, "\nEnter file name: ")
	if err != nil {
		return "", err
	}

	if err := fsops.Required("filename", input); err != nil {
		return "", err
	}

	perms, err := fsops.ReadPermissions(fsops.Resolve(s.cwd, input))
	if err != nil {
		return "", err
	}

	return "", PrintPermissions(input, perms, s.out)
}

func (s *Shell) changePermissions(ctx context.Context) (string, error) {
	path, err := s.name(ctx, "\nEnter file name: ", "filename")
	if err != nil {
		return "", err
	}

	mode, err := s.prompt(ctx, "Enter permissions in octal (e.g., 755): ")
	if err != nil {
		return "", err
	}

	if err := fsops.Chmod(path, mode); err != nil {
		return "", err
	}

	fmt.Fprintln(s.out, "Permissions changed successfully.")

	return "Changed permissions of: " + path, nil
}

func (s *Shell) viewContent(ctx context.Context) (string, error) {
	input, err := s.prompt(ctx, "\nEnter file name: ")
	if err != nil {
		return "", err
	}

	if err := fsops.Required("filename", input); err != nil {
		return "", err
	}

	path := fsops.Resolve(s.cwd, input)

	content, err := fsops.ReadContent(path)
	if err != nil {
		return "", err
	}

	return "Viewed file: " + path, PrintContent(input, content, s.out)
}

func (s *Shell) showCurrentDirectory(context.Context) (string, error) {
	fmt.Fprintf(s.out, "\nCurrent Directory: %s\n", s.cwd)

	return "", nil
}

func (s *Shell) showStatistics(ctx context.Context) (string, error) {
	fmt.Fprintln(s.out, "\nAnalyzing directory tree...")

	stats, err := s.app.analyze(ctx, s.cwd)
	if err != nil {
		return "", err
	}

	return "Generated statistics for: " + s.cwd, PrintStatistics(stats, s.out)
}

func (s *Shell) viewHistory(context.Context) (string, error) {
	lines, err := s.app.history.Tail(s.app.cfg.HistoryLines)
	if err != nil && !errors.Is(err, activity.ErrNoHistory) {
		return "", err
	}

	return "", PrintHistory(lines, s.out)
}

func (s *Shell) advancedSearch(ctx context.Context) (string, error) {
	fmt.Fprintln(s.out, "\nADVANCED SEARCH")

	answers := make([]string, 0, 4)

	for _, label := range []string{
		"Enter filename pattern (or * for all): ",
		"Filter by extension (e.g., .txt) or press Enter to skip: ",
		"Minimum size, e.g. 100 or 1KB (empty for no limit): ",
		"Maximum size, e.g. 100 or 1MB (empty or 0 for no limit): ",
	} {
		answer, err := s.prompt(ctx, label)
		if err != nil {
			return "", err
		}

		answers = append(answers, answer)
	}

	filter, err := searchFilter(answers[0], answers[1], answers[2], answers[3])
	if err != nil {
		return "", err
	}

	matches, err := explorer.Searcher{Walker: s.app.walker}.Filter(ctx, s.cwd, filter)
	if err != nil {
		return "", err
	}

	return "Advanced search performed", PrintFilteredMatches(matches, s.out)
}

func (s *Shell) compareFiles(ctx context.Context) (string, error) {
	fmt.Fprintln(s.out, "\nFILE COMPARISON TOOL")

	first, err := s.prompt(ctx, "Enter first file name: ")
	if err != nil {
		return "", err
	}

	second, err := s.prompt(ctx, "Enter second file name: ")
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(first) == "" || strings.TrimSpace(second) == "" {
		return "", fmt.Errorf("%w: file names missing", explorer.ErrInvalidInput)
	}

	result, err := explorer.Compare(fsops.Resolve(s.cwd, first), fsops.Resolve(s.cwd, second))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("Compared files: %s and %s", first, second), PrintComparison(result, s.out)
}
