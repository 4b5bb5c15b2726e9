package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// starterConfig is the annotated config file `pyventory init` writes.
const starterConfig = `# pyventory configuration. Environment variables with the PYVENTORY_ prefix
# override anything set here (PYVENTORY_GITHUB_TOKEN, PYVENTORY_DESTINATION).
github:
  # token: ghp_...
  # account: my-org
destination: repos
# Directories probed for installed modules and their versions. Leave empty
# to fall back to the local python3 interpreter's search path.
site_packages: []
`

// newInitCommand builds `pyventory init [path]`: write a starter config
// file (default ./.pyventory.yaml).
func newInitCommand(a *app) *cobra.Command {
	var force, dryRun bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a starter config file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path := ".pyventory.yaml"
			if len(args) > 0 {
				path = args[0]
			}

			if dryRun {
				fmt.Fprint(a.stdout, starterConfig)
				return nil
			}

			return writeStarter(path, force, a.stderr)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the config without writing it")

	return cmd
}

func writeStarter(path string, force bool, stderr io.Writer) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}
	if err := os.WriteFile(path, []byte(starterConfig), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(stderr, "wrote %s\n", path)
	return nil
}
