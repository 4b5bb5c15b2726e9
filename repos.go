package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/pyventory/pyventory/internal/github"
)

// newReposCommand builds `pyventory repos [account]`: list the account's
// repositories. The account falls back to configuration.
func newReposCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "repos [account]",
		Short: "List a GitHub account's repositories",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			account, client, err := a.githubClient(args)
			if err != nil {
				return err
			}

			repos, err := client.ListRepositories(cmd.Context(), account)
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(a.stdout)
			t.AppendHeader(table.Row{"Name", "Language", "Stars", "Forks", "Private", "Updated"})
			for _, r := range repos {
				t.AppendRow(table.Row{r.Name, r.Language, r.Stars, r.Forks, r.Private, r.UpdatedAt})
			}
			t.Render()
			return nil
		},
	}
}

// newCloneCommand builds `pyventory clone [account]`: clone every repository
// of the account under the destination folder, ready for `deps`/`imports`.
func newCloneCommand(a *app) *cobra.Command {
	var destination string

	cmd := &cobra.Command{
		Use:   "clone [account]",
		Short: "Clone a GitHub account's repositories",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			account, client, err := a.githubClient(args)
			if err != nil {
				return err
			}

			if destination == "" {
				cfg, err := a.config()
				if err != nil {
					return err
				}
				destination = cfg.Destination
			}

			repos, err := client.ListRepositories(cmd.Context(), account)
			if err != nil {
				return err
			}

			logger := a.logger()
			cloned := 0
			for _, repo := range repos {
				path, err := client.CloneRepository(cmd.Context(), repo, destination)
				if err != nil {
					logger.Warn("clone failed", "repo", repo.Name, "err", err)
					continue
				}
				cloned++
				fmt.Fprintf(a.stdout, "%s -> %s\n", repo.Name, path)
			}
			fmt.Fprintf(a.stdout, "cloned %d of %d repositories\n", cloned, len(repos))
			return nil
		},
	}

	cmd.Flags().StringVarP(&destination, "destination", "d", "", "directory to clone into")

	return cmd
}

func (a *app) githubClient(args []string) (string, *github.Client, error) {
	cfg, err := a.config()
	if err != nil {
		return "", nil, err
	}

	account := cfg.GitHub.Account
	if len(args) > 0 {
		account = args[0]
	}
	if account == "" {
		return "", nil, fmt.Errorf("no account given and none configured")
	}

	return account, github.NewClient(cfg.GitHub.Token), nil
}
