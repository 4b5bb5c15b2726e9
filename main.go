// pyventory inventories Python repositories: dependencies declared in
// manifests, imports actually used in source, and where they came from.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pyventory/pyventory/internal/config"
	"github.com/pyventory/pyventory/pkg/version"
)

func main() {
	_ = godotenv.Load()

	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// app carries the flags and writers shared by every subcommand.
type app struct {
	stdout     io.Writer
	stderr     io.Writer
	verbose    bool
	configPath string
}

func run(args []string, stdout, stderr io.Writer) error {
	a := &app{stdout: stdout, stderr: stderr}

	rootCmd := &cobra.Command{
		Use:   "pyventory",
		Short: "Inventory dependencies and import usage of Python repositories",
		Long: `pyventory inventories Python source repositories.

Commands:
  deps      Extract declared and inferred dependencies to CSV
  imports   Scan imports and their usage sites, render a report
  repos     List a GitHub account's repositories
  clone     Clone a GitHub account's repositories`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file path")

	rootCmd.AddCommand(newDepsCommand(a))
	rootCmd.AddCommand(newImportsCommand(a))
	rootCmd.AddCommand(newReposCommand(a))
	rootCmd.AddCommand(newCloneCommand(a))
	rootCmd.AddCommand(newInitCommand(a))
	rootCmd.AddCommand(versionCmd(a))

	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	return rootCmd.Execute()
}

// logger builds the CLI's slog logger. Skipped files surface as warnings;
// whole-run failures are reported through returned errors, not the log.
func (a *app) logger() *slog.Logger {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))
}

func (a *app) config() (*config.Config, error) {
	return config.Load(a.configPath)
}

func versionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintln(a.stdout, version.String())
		},
	}
}
