package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/portfolio/internal/observability"
	"github.com/jonathan/portfolio/internal/profile"
	"github.com/jonathan/portfolio/internal/types"
)

var (
	profileLang string
	profileJSON bool
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Fetch and print the profile document",
	Long:  "Fetches the profile for one language from the profile API, validates it and prints a summary.",
	RunE:  runProfile,
}

func init() {
	profileCmd.Flags().StringVarP(&profileLang, "lang", "l", string(types.DefaultLanguage), "Language code (es or en)")
	profileCmd.Flags().BoolVar(&profileJSON, "json", false, "Print the validated document as JSON")
	rootCmd.AddCommand(profileCmd)
}

func runProfile(cmd *cobra.Command, _ []string) error {
	lang, err := types.ParseLanguage(profileLang)
	if err != nil {
		return err
	}

	source := profile.NewHTTPSource(appConfig.API.BaseURL, fetchOptions(appConfig))
	doc, err := source.Fetch(cmd.Context(), lang)
	if err != nil {
		return fmt.Errorf("failed to fetch profile: %w", err)
	}

	if profileJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintProfile(doc)
	return nil
}
