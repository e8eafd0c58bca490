package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/portfolio/internal/observability"
	"github.com/jonathan/portfolio/internal/types"
)

var postsLang string

var postsCmd = &cobra.Command{
	Use:   "posts",
	Short: "List blog posts from the configured provider",
	RunE:  runPosts,
}

func init() {
	postsCmd.Flags().StringVarP(&postsLang, "lang", "l", string(types.DefaultLanguage), "Language code (es or en)")
	rootCmd.AddCommand(postsCmd)
}

func runPosts(cmd *cobra.Command, _ []string) error {
	lang, err := types.ParseLanguage(postsLang)
	if err != nil {
		return err
	}

	posts, err := blogSource(appConfig, nil).Posts(cmd.Context(), lang)
	if err != nil {
		return fmt.Errorf("failed to load posts: %w", err)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintPosts(posts)
	return nil
}
