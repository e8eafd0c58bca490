package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/portfolio/internal/observability"
)

var projectsUser string

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List the projects shown on the projects page",
	RunE:  runProjects,
}

func init() {
	projectsCmd.Flags().StringVarP(&projectsUser, "user", "u", "", "GitHub user (overrides GITHUB_USER)")
	rootCmd.AddCommand(projectsCmd)
}

func runProjects(cmd *cobra.Command, _ []string) error {
	cfg := *appConfig
	if projectsUser != "" {
		cfg.GitHub.User = projectsUser
	}

	source, err := projectsSource(cmd.Context(), &cfg, nil)
	if err != nil {
		return err
	}
	if source == nil {
		return errors.New("no GitHub user or repositories configured (set GITHUB_USER or GITHUB_REPOS)")
	}

	list, err := source.Projects(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load projects: %w", err)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintProjects(list)
	return nil
}
