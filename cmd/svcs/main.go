// cmd/svcs/main.go
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"svcs/internal/change"
	"svcs/internal/config"
	vcserrors "svcs/internal/errors"
	"svcs/internal/logging"
	"svcs/internal/repository"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const helpText = `These are SVCS commands:
config     Get and set a username.
add        Add a file to the index.
log        Show commit logs.
commit     Save changes.
checkout   Restore a file.
status     Compare tracked files with the latest commit.
archive    Export a commit as a .tar.zst file.`

// app holds the state of one invocation.
type app struct {
	dir    string
	repo   *repository.Repository
	logger *zap.Logger
}

func (a *app) open() error {
	if err := repository.Initialize(a.dir); err != nil {
		return fmt.Errorf("initializing repository: %w", err)
	}

	settings, err := config.Load(repository.Layout{Root: a.dir}.SettingsPath())
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	logger, err := logging.NewLogger(settings.LogLevel)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	a.logger = logger.WithRunID()

	a.repo, err = repository.Open(a.dir, settings, a.logger)
	if err != nil {
		return fmt.Errorf("opening repository: %w", err)
	}
	return nil
}

func (a *app) close() {
	if a.repo != nil {
		if err := a.repo.Close(); err != nil {
			a.logger.Error("closing repository", zap.Error(err))
		}
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "svcs",
		Short: "SVCS is a minimal local version control system",
		Long: `SVCS tracks a chosen set of files, snapshots them into commits
and restores the working tree to any earlier commit.`,
		Args:               cobra.ArbitraryArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), helpText)
				return nil
			}
			return vcserrors.UnrecognizedCommand(args[0])
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), helpText)
	})

	var configCmd = &cobra.Command{
		Use:   "config [username]",
		Short: "Get and set a username.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if err := a.repo.Identity.SetUsername(args[0]); err != nil {
					return err
				}
			}

			name, err := a.repo.Identity.Username()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "The username is %s.\n", name)
			return nil
		},
	}

	var addCmd = &cobra.Command{
		Use:   "add [path]",
		Short: "Add a file to the index.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				if err := a.repo.Track(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(out, "The file '%s' is tracked.\n", args[0])
				return nil
			}

			tracked, err := a.repo.Tracked()
			if err != nil {
				return fmt.Errorf("listing tracked files: %w", err)
			}
			if len(tracked) == 0 {
				fmt.Fprintln(out, "Add a file to the index.")
				return nil
			}

			fmt.Fprintln(out, "Tracked files:")
			for _, path := range tracked {
				fmt.Fprintln(out, path)
			}
			return nil
		},
	}

	var logCmd = &cobra.Command{
		Use:   "log",
		Short: "Show commit logs.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			entries, err := a.repo.Log()
			if err != nil {
				return fmt.Errorf("reading log: %w", err)
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "No commits yet.")
				return nil
			}

			header := color.New(color.FgYellow)
			for i, e := range entries {
				if i > 0 {
					fmt.Fprintln(out)
				}
				header.Fprintf(out, "commit %s\n", e.CommitID)
				fmt.Fprintf(out, "Author: %s\n", e.Author)
				fmt.Fprintln(out, e.Message)
			}
			return nil
		},
	}

	var commitCmd = &cobra.Command{
		Use:                "commit <message>",
		Short:              "Save changes.",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Flag parsing is off so messages may start with a dash.
			if len(args) > 0 && (args[0] == "-h" || args[0] == "--help") {
				return cmd.Help()
			}

			message := strings.Join(args, " ")
			if message == "" {
				return vcserrors.MissingMessage()
			}

			author, err := a.repo.Identity.Username()
			if err != nil {
				if !vcserrors.IsType(err, vcserrors.ErrorTypeNoIdentity) {
					return err
				}
				a.logger.Warn("committing without a configured username")
				author = ""
			}

			if _, err := a.repo.Commit(author, message); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Changes are committed.")
			return nil
		},
	}

	var checkoutCmd = &cobra.Command{
		Use:   "checkout <commit id>",
		Short: "Restore a file.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return vcserrors.MissingCommitID()
			}

			if _, err := a.repo.CheckoutCommit(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Switched to commit %s.\n", args[0])
			return nil
		},
	}

	var statusCmd = &cobra.Command{
		Use:   "status",
		Short: "Compare tracked files with the latest commit.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			statuses, err := a.repo.Status()
			if err != nil {
				return fmt.Errorf("getting status: %w", err)
			}
			if len(statuses) == 0 {
				fmt.Fprintln(out, "Add a file to the index.")
				return nil
			}

			// Create color objects
			colors := map[change.State]*color.Color{
				change.StateUnchanged: color.New(color.Reset),
				change.StateModified:  color.New(color.FgYellow),
				change.StateNew:       color.New(color.FgGreen),
				change.StateMissing:   color.New(color.FgRed),
			}
			for _, s := range statuses {
				colors[s.State].Fprintf(out, "%-10s", s.State+":")
				fmt.Fprintf(out, "%s\n", s.Path)
			}
			return nil
		},
	}

	var archiveCmd = &cobra.Command{
		Use:   "archive <commit id> [output]",
		Short: "Export a commit as a .tar.zst file.",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return vcserrors.MissingCommitID()
			}
			id := args[0]
			if _, err := a.repo.Commits.Lookup(id); err != nil {
				return err
			}

			output := filepath.Join(a.dir, shortID(id)+".tar.zst")
			if len(args) == 2 {
				output = args[1]
			}

			if err := writeArchive(a.repo, id, output); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Archived commit %s to %s.\n", id, output)
			return nil
		},
	}

	for _, c := range []*cobra.Command{configCmd, addCmd, logCmd, commitCmd, checkoutCmd, statusCmd, archiveCmd} {
		c.FParseErrWhitelist = cobra.FParseErrWhitelist{UnknownFlags: true}
		rootCmd.AddCommand(c)
	}

	return rootCmd
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

func writeArchive(repo *repository.Repository, id, output string) (err error) {
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("creating %s: %w", output, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", output, cerr)
		}
		if err != nil {
			os.Remove(output)
		}
	}()

	return repo.Archive(id, f)
}

// run executes one command line against the working directory dir and
// returns the process exit code. Conditions the user can act on are printed
// to stdout as a single line; anything else goes to stderr with exit code 1.
func run(dir string, args []string, stdout, stderr io.Writer) int {
	a := &app{dir: dir}
	defer a.close()

	if args == nil {
		args = []string{}
	}

	rootCmd := newRootCmd(a)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	if err == nil {
		return 0
	}

	if e, ok := vcserrors.As(err); ok {
		if a.logger != nil && !e.Soft() {
			a.logger.Info("command refused",
				zap.String("type", string(e.Type)),
				zap.Any("details", e.Details))
		}
		fmt.Fprintln(stdout, e.Message)
		return 0
	}

	if a.logger != nil {
		a.logger.Error("command failed", zap.Error(err))
	}
	fmt.Fprintln(stderr, "error:", err)
	return 1
}

func main() {
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error: getting current directory:", err)
		os.Exit(1)
	}
	os.Exit(run(dir, os.Args[1:], os.Stdout, os.Stderr))
}
