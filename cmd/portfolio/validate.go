package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/portfolio/internal/profile"
	"github.com/jonathan/portfolio/internal/schemas"
)

var validateFile string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a profile document",
	Long:  "Validates a profile JSON file (or stdin with --file -) exactly as the server validates profile API responses.",
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateFile, "file", "f", "", "Path to the profile JSON file, or - for stdin (required)")
	if err := validateCmd.MarkFlagRequired("file"); err != nil {
		panic(fmt.Sprintf("failed to mark file flag as required: %v", err))
	}
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	var (
		data []byte
		err  error
	)
	if validateFile == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(validateFile)
	}
	if err != nil {
		return fmt.Errorf("failed to read profile: %w", err)
	}

	out := cmd.OutOrStdout()
	doc, err := profile.Decode(data)
	if err != nil {
		var schemaErr *schemas.ValidationError
		if errors.As(err, &schemaErr) {
			fmt.Fprintln(out, "Validation failed:")
			for _, fe := range schemaErr.Errors {
				fmt.Fprintf(out, "  - %s: %s\n", fe.Field, fe.Message)
			}
			return errors.New("profile does not match the schema")
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintf(out, "Validation passed: %s (%d experience, %d education, %d skills)\n",
		doc.Name, len(doc.Experience), len(doc.Education), len(doc.Skills))
	return nil
}
