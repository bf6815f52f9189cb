// cmd/trove/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"trove/internal/config"
	verrors "trove/internal/errors"
	"trove/internal/logging"
	"trove/internal/repo"
	"trove/internal/watch"
)

var rootCmd = &cobra.Command{
	Use:   "trove",
	Short: "Trove is a minimal content-addressed version control system",
	Long: `Trove tracks flat file snapshots in a content-addressed object store
with a staging area and a single linear commit history.`,
	SilenceUsage: true,
}

func init() {
	var initCmd = &cobra.Command{
		Use:   "init",
		Short: "Initialize a new Trove repository",
		Long:  `Creates the .trove layout in the current directory. Safe to run on an already-initialized repository.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("getting current directory: %w", err)
			}

			if err := repo.Initialize(dir); err != nil {
				return err
			}

			fmt.Println("Initialized empty Trove repository in", dir)
			return nil
		},
	}

	var addCmd = &cobra.Command{
		Use:   "add <path>",
		Short: "Stage a file for the next commit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := initRepo("add")
			if err != nil {
				return err
			}
			defer r.Close()

			hash, err := r.Add(args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Staged %s (%s)\n", args[0], hash[:8])
			return nil
		},
	}

	var commitCmd = &cobra.Command{
		Use:   "commit <message>",
		Short: "Record the staged files as a new commit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := initRepo("commit")
			if err != nil {
				return err
			}
			defer r.Close()

			digest, err := r.Commit(args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Committed %s\n", digest)
			return nil
		},
	}

	var logCmd = &cobra.Command{
		Use:   "log",
		Short: "Show commit history from HEAD to the root commit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := initRepo("log")
			if err != nil {
				return err
			}
			defer r.Close()

			history, err := r.Log()
			if err != nil {
				return err
			}

			if len(history) == 0 {
				fmt.Println("No commits yet")
				return nil
			}

			yellow := color.New(color.FgYellow).SprintFunc()
			for _, entry := range history {
				fmt.Printf("%s %s\n", yellow("commit"), yellow(entry.Digest))
				fmt.Printf("Date:    %s\n", entry.Commit.Timestamp)
				fmt.Printf("Message: %s\n", entry.Commit.Message)
				for _, f := range entry.Commit.Files {
					fmt.Printf("    %s  %s\n", f.Hash[:8], f.Path)
				}
				fmt.Println()
			}

			return nil
		},
	}

	var diffCmd = &cobra.Command{
		Use:   "diff <commit>",
		Short: "Show changes a commit introduced over its parent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := initRepo("diff")
			if err != nil {
				return err
			}
			defer r.Close()

			results, err := r.ShowCommitDiff(args[0])
			if err != nil {
				return err
			}

			for _, fd := range results {
				fmt.Printf("\ndiff --trove a/%s b/%s\n", fd.Path, fd.Path)
				switch fd.Status {
				case repo.StatusInitial:
					fmt.Println("(no previous version)")
				case repo.StatusNew:
					fmt.Println("(new file)")
				default:
					printColoredDiff(fd.Diff.Format())
				}
			}

			return nil
		},
	}

	var verifyCmd = &cobra.Command{
		Use:   "verify",
		Short: "Re-hash every stored object and report corruption",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := initRepo("verify")
			if err != nil {
				return err
			}
			defer r.Close()

			issues, err := r.Verify()
			if err != nil {
				return err
			}

			if len(issues) == 0 {
				fmt.Println("All objects verified")
				return nil
			}

			red := color.New(color.FgRed).SprintFunc()
			for _, issue := range issues {
				fmt.Printf("%s %s\n", red("corrupt:"), issue)
			}
			return fmt.Errorf("%d corrupted objects", len(issues))
		},
	}

	var bundleCmd = &cobra.Command{
		Use:   "bundle <file>",
		Short: "Export the repository to a compressed bundle file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := initRepo("bundle")
			if err != nil {
				return err
			}
			defer r.Close()

			if err := r.Bundle(args[0]); err != nil {
				return err
			}

			fmt.Println("Wrote bundle to", args[0])
			return nil
		},
	}

	var restoreCmd = &cobra.Command{
		Use:   "restore <file>",
		Short: "Restore repository state from a bundle file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := initRepo("restore")
			if err != nil {
				return err
			}
			defer r.Close()

			if err := r.Restore(args[0]); err != nil {
				return err
			}

			fmt.Println("Restored repository from", args[0])
			return nil
		},
	}

	var watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Auto-stage files as they change",
		Long:  `Watches the working tree and stages every created or modified file until interrupted.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := initRepo("watch")
			if err != nil {
				return err
			}
			defer r.Close()

			w, err := watch.New(r, r.Logger)
			if err != nil {
				return err
			}
			defer w.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Println("Watching for changes (Ctrl-C to stop)")
			if err := w.Run(ctx); err != nil && err != context.Canceled {
				return err
			}
			return nil
		},
	}

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(commitCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(bundleCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(watchCmd)
}

func initRepo(op string) (*repo.Repository, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(filepath.Join(cwd, repo.TroveDir, "config.json"))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}

	r, err := repo.New(cwd, logger.WithOperation(op))
	if err != nil {
		return nil, err
	}

	return r, nil
}

func printColoredDiff(diff string) {
	added := color.New(color.FgGreen)
	removed := color.New(color.FgRed)

	lines := strings.Split(diff, "\n")
	for _, line := range lines {
		if len(line) == 0 {
			fmt.Println()
			continue
		}

		switch {
		case strings.HasPrefix(line, "+"):
			added.Println(line)
		case strings.HasPrefix(line, "-"):
			removed.Println(line)
		default:
			fmt.Println(line)
		}
	}
}

// exitCode maps error kinds to distinct exit codes so callers can tell a
// missing identifier from an I/O failure or corrupted state.
func exitCode(err error) int {
	switch verrors.TypeOf(err) {
	case verrors.ErrorTypeNotFound:
		return 2
	case verrors.ErrorTypeIO:
		return 3
	case verrors.ErrorTypeMalformed:
		return 4
	default:
		return 1
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}
