package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pyventory/pyventory/internal/manifest"
	"github.com/pyventory/pyventory/internal/pyenv"
	"github.com/pyventory/pyventory/internal/report"
	"github.com/pyventory/pyventory/internal/scan"
)

// newImportsCommand builds `pyventory imports <path>`: scan every source
// file for imports and their usage sites and render the report. The
// dependency CSV is generated first if this project hasn't been through
// `deps` yet, so the report always has versions to annotate with.
func newImportsCommand(a *app) *cobra.Command {
	var outputPath string
	var sitePackages []string

	cmd := &cobra.Command{
		Use:   "imports <project-path>",
		Short: "Scan imports and their usage sites, render a report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectPath := args[0]
			logger := a.logger()

			records, err := scan.Project(projectPath, logger)
			if err != nil {
				return err
			}

			paths, err := a.searchPaths(sitePackages)
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				paths = pyenv.InterpreterSearchPaths(cmd.Context())
			}

			csvPath := filepath.Join(projectPath, manifest.CSVName)
			if _, err := os.Stat(csvPath); err != nil {
				depRecords, err := manifest.Extract(projectPath, manifest.Options{Logger: logger})
				if err != nil {
					return err
				}
				if csvPath, err = manifest.WriteCSV(projectPath, depRecords); err != nil {
					return err
				}
			}

			versions, err := report.LoadVersions(csvPath, pyenv.ScanInstalled(paths))
			if err != nil {
				return err
			}

			out := a.stdout
			if outputPath != "" {
				f, err := os.Create(outputPath)
				if err != nil {
					return fmt.Errorf("output file: %w", err)
				}
				defer f.Close()
				out = f
			}

			return report.Write(out, records, versions)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "write the report to a file instead of stdout")
	cmd.Flags().StringSliceVar(&sitePackages, "site-packages", nil, "directories to scan for installed package versions")

	return cmd
}
