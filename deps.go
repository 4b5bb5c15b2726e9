package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pyventory/pyventory/internal/manifest"
	"github.com/pyventory/pyventory/internal/pyenv"
)

// newDepsCommand builds `pyventory deps <path>`: extract every declared and
// inferred dependency and write the CSV next to the project root.
func newDepsCommand(a *app) *cobra.Command {
	var sitePackages []string
	var noProbe bool

	cmd := &cobra.Command{
		Use:   "deps <project-path>",
		Short: "Extract declared and inferred dependencies to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectPath := args[0]

			paths, err := a.searchPaths(sitePackages)
			if err != nil {
				return err
			}

			var locator pyenv.Locator
			if !noProbe {
				if len(paths) == 0 {
					paths = pyenv.InterpreterSearchPaths(cmd.Context())
				}
				if len(paths) > 0 {
					locator = pyenv.DirLocator(paths)
				}
			}

			records, err := manifest.Extract(projectPath, manifest.Options{
				IsThirdParty: pyenv.ThirdParty(locator),
				Logger:       a.logger(),
			})
			if err != nil {
				return err
			}

			csvPath, err := manifest.WriteCSV(projectPath, records)
			if err != nil {
				return err
			}

			fmt.Fprintf(a.stdout, "extracted %d dependencies to %s\n", len(records), csvPath)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&sitePackages, "site-packages", nil, "directories to probe for installed modules")
	cmd.Flags().BoolVar(&noProbe, "no-probe", false, "classify imports by the stdlib name set only")

	return cmd
}

// searchPaths resolves the site-packages directories to use: the flag wins,
// then the config file, then nothing (sentinel versions all the way down).
func (a *app) searchPaths(flagPaths []string) ([]string, error) {
	if len(flagPaths) > 0 {
		return flagPaths, nil
	}
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	return cfg.SitePackages, nil
}
