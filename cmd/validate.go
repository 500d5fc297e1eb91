package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arcanaland/seer/internal/validator"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration and settings",
	Long: `Validate checks the configuration file, the stored settings (themes, RPC
endpoints, ENS domain, IPFS gateway) and the card art directory.
Missing card art is reported as a warning.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := app.Settings(cmd.Context())
		if err != nil {
			return err
		}

		results := validator.NewValidator(app.cfg, m.Config()).Validate()

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Validation Results:")
		fmt.Fprintln(out, "-------------------")

		if results.Valid() {
			fmt.Fprintln(out, "✅ Configuration is valid.")
		} else {
			fmt.Fprintf(out, "❌ Configuration has %d validation errors:\n", len(results.Errors))
			for i, err := range results.Errors {
				fmt.Fprintf(out, "%d. %s\n", i+1, err)
			}
		}

		if len(results.Warnings) > 0 {
			fmt.Fprintln(out, "\nWarnings:")
			for i, warn := range results.Warnings {
				fmt.Fprintf(out, "%d. %s\n", i+1, warn)
			}
		}

		if !results.Valid() {
			return fmt.Errorf("validation failed")
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(validateCmd)
}
