package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/idelchi/fex/internal/config"
	"github.com/idelchi/fex/internal/integration"
)

// CLI represents the command-line interface.
type CLI struct {
	version string
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// New creates a new CLI instance with the given version.
func New(version string) CLI {
	return CLI{version: version, stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
}

// flagKeys maps persistent flags to their configuration keys.
//
//nolint:gochecknoglobals // Config constant
var flagKeys = map[string]string{
	"log-file":        config.KeyLogFile,
	"history":         config.KeyHistoryLines,
	"follow-symlinks": config.KeyFollowSymlinks,
	"exclude":         config.KeyExcludes,
	"debug":           config.KeyDebug,
	"output":          config.KeyOutput,
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("binding flag %q: %w", name, err)
		}
	}

	return nil
}

// Command builds the root command. The root runs the interactive shell.
//
//nolint:funlen // Flag and subcommand wiring
func (c CLI) Command() *cobra.Command {
	var (
		cfgFile  string
		startDir string
		printDir string
		current  *app
	)

	v := config.New()

	root := &cobra.Command{
		Use:   "fex",
		Short: "Interactive, menu-driven file explorer",
		Long: heredoc.Doc(`
			fex is an interactive file explorer shell.

			Run without arguments to open the menu: list, navigate, create, delete,
			copy and move files, inspect and change permissions, view content,
			search by name or by filters, show directory statistics and compare
			two files line by line.

			Every completed operation is appended to an activity log.
		`),
		Example: heredoc.Doc(`
			fex
			fex --dir ~/projects
			fex stats -o json .
			fex search --ext .go --min-size 1KB src
		`),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(v, cfgFile)
			if err != nil {
				return err
			}

			current = newApp(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())

			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if current != nil {
				current.close()
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := startDirectory(startDir)
			if err != nil {
				return err
			}

			shell := newShell(current, cmd.InOrStdin(), dir)
			if err := shell.Run(cmd.Context()); err != nil {
				return err
			}

			if printDir != "" {
				return os.WriteFile(printDir, []byte(shell.Dir()), 0o600)
			}

			return nil
		},
	}

	root.SetIn(c.stdin)
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (default: <user config dir>/fex/config.yaml)")
	flags.String("log-file", config.Default().LogFile, "Activity log file")
	flags.Int("history", config.Default().HistoryLines, "Number of activity lines to show")
	flags.Bool("follow-symlinks", false, "Descend into symbolically linked directories")
	flags.StringSliceP("exclude", "e", nil, "Glob patterns to exclude from traversals (e.g., '**/.git')")
	flags.Bool("debug", false, "Enable debug output on stderr")
	flags.StringP("output", "o", config.Default().Output, "Output format for subcommands: table, json or yaml")

	root.Flags().StringVarP(&startDir, "dir", "C", "", "Directory to start in (default: current directory)")
	root.Flags().StringVar(&printDir, "print-dir", "", "Write the final directory to this file on exit")

	if err := bindFlags(v, flags); err != nil {
		panic(err)
	}

	appFn := func() *app { return current }

	root.AddCommand(
		statsCommand(appFn),
		findCommand(appFn),
		searchCommand(appFn),
		compareCommand(appFn),
		historyCommand(appFn),
		initCommand(),
	)

	return root
}

// startDirectory resolves the initial shell directory.
func startDirectory(dir string) (string, error) {
	if dir == "" {
		return os.Getwd()
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}

	if info, err := os.Stat(abs); err != nil {
		return "", fmt.Errorf("accessing path %q: %w", dir, err)
	} else if !info.IsDir() {
		return "", fmt.Errorf("path %q is not a directory", dir)
	}

	return abs, nil
}

// pathArg returns args[i] or the current directory.
func pathArg(args []string, i int) string {
	if len(args) > i {
		return args[i]
	}

	return "."
}

func statsCommand(current func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats [path]",
		Short: "Show file and directory counts, total size and extension breakdown",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return current().runStats(cmd.Context(), pathArg(args, 0))
		},
	}
}

func findCommand(current func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "find <needle> [path]",
		Short: "List files and directories whose name contains needle",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return current().runFind(cmd.Context(), pathArg(args, 1), args[0])
		},
	}
}

func searchCommand(current func() *app) *cobra.Command {
	var name, ext, minSize, maxSize string

	cmd := &cobra.Command{
		Use:   "search [path]",
		Short: "List regular files matching name, extension and size filters",
		Long: heredoc.Doc(`
			List regular files below path that match every given filter.

			--name and --ext are case-sensitive substrings of the file name;
			"*" or an empty name matches everything. Sizes are inclusive and
			accept units such as 10KB or 2MiB; a maximum of 0 means no limit.
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := searchFilter(name, ext, minSize, maxSize)
			if err != nil {
				return err
			}

			return current().runSearch(cmd.Context(), pathArg(args, 0), filter)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "*", "Name substring")
	cmd.Flags().StringVarP(&ext, "ext", "x", "", "Extension substring (e.g., .txt)")
	cmd.Flags().StringVar(&minSize, "min-size", "0", "Minimum file size (e.g., 100 or 1KB)")
	cmd.Flags().StringVar(&maxSize, "max-size", "0", "Maximum file size, 0 for no limit")

	return cmd
}

func compareCommand(current func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "compare <file1> <file2>",
		Short: "Compare two text files line by line by position",
		Args:  cobra.ExactArgs(2), //nolint:mnd // Two files
		RunE: func(_ *cobra.Command, args []string) error {
			return current().runCompare(args[0], args[1])
		},
	}
}

func historyCommand(current func() *app) *cobra.Command {
	var lines int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the most recent activity log lines",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return current().runHistory(lines)
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 0, "Number of lines (default: --history)")

	return cmd
}

func initCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Print a shell function that changes to the last explorer directory on exit",
		Args:  cobra.NoArgs,
		// Runs without loading configuration.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			rendered, err := integration.Render()
			if err != nil {
				return fmt.Errorf("rendering integration script: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)

			return err
		},
	}
}

// Execute runs the CLI with the process arguments.
func (c CLI) Execute(ctx context.Context) error {
	return fang.Execute(
		ctx,
		c.Command(),
		fang.WithVersion(c.version),
		fang.WithoutCompletions(),
		fang.WithoutManpage(),
	)
}
