package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arcanaland/seer/internal/knowledge"
)

var spreadCmd = &cobra.Command{
	Use:   "spread",
	Short: "List spreads and choose a favourite",
}

var spreadListCmd = &cobra.Command{
	Use:   "ls",
	Short: "List the known spreads",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		spreads := knowledge.Spreads()
		return render(cmd.OutOrStdout(), spreads, func(w io.Writer) error {
			palette := app.Palette(cmd.Context())
			for i, s := range spreads {
				if i > 0 {
					fmt.Fprintln(w)
				}
				fmt.Fprintf(w, "%s %s\n", palette.Primary.Bold(true).Render(s.Name), palette.Secondary.Render(fmt.Sprintf("(%d cards)", s.TotalCards)))
				for _, line := range wrapText(s.Description, terminalWidth()-4) {
					fmt.Fprintln(w, "  "+palette.Text.Render(line))
				}
				for _, p := range s.Positions {
					fmt.Fprintf(w, "  %2d. %s\n", p.Position, p.Meaning)
				}
			}
			return nil
		})
	},
}

var spreadSetCmd = &cobra.Command{
	Use:   "set [name]",
	Short: "Record your favourite spread on the ledger",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.Join(args, " ")
		spread, ok := knowledge.GetSpread(name)
		if !ok {
			return fmt.Errorf("unknown spread %q (see 'seer spread ls')", name)
		}

		svc, err := app.UserData(cmd.Context())
		if err != nil {
			return err
		}
		prefs, err := svc.LoadPreferences(cmd.Context())
		if err != nil {
			return err
		}
		prefs.FavoriteSpread = spread.Name
		profile, err := svc.SavePreferences(cmd.Context(), prefs)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), profile, func(w io.Writer) error {
			fmt.Fprintf(w, "Favourite spread set to %s\n", profile.FavoriteSpread)
			return nil
		})
	},
}

func init() {
	RootCmd.AddCommand(spreadCmd)
	spreadCmd.AddCommand(spreadListCmd, spreadSetCmd)
}
