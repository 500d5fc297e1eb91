package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/arcanaland/seer/internal/knowledge"
)

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Show today's daily reading",
	Long: `Daily shows the cards the ledger deals you today. The draw is fixed for
the day. Subscribe once with --subscribe.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		subscribe, _ := cmd.Flags().GetBool("subscribe")
		interpret, _ := cmd.Flags().GetBool("interpret")

		client, err := app.Ledger(cmd.Context())
		if err != nil {
			return err
		}
		if subscribe {
			if err := client.SubscribeToDailyReadings(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "Subscribed to daily readings.")
		}

		drawn, err := client.GetDailyReading(cmd.Context())
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), drawn, func(w io.Writer) error {
			palette := app.Palette(cmd.Context())
			fmt.Fprintln(w, palette.Title.Render("Today's reading"))
			for i, c := range drawn {
				fmt.Fprintf(w, "  %d. %s\n", i+1, drawnCardLine(c))
			}
			if interpret {
				md, err := composeFor("What does today hold?", "", drawn)
				if err != nil {
					return err
				}
				fmt.Fprintln(w)
				fmt.Fprint(w, renderMarkdown(md))
			} else {
				names := make([]string, len(drawn))
				for i, c := range drawn {
					names[i] = c.Name
				}
				fmt.Fprintln(w)
				fmt.Fprintln(w, palette.Accent.Render(knowledge.ElementalInfluence(names)))
			}
			return nil
		})
	},
}

func init() {
	RootCmd.AddCommand(dailyCmd)

	dailyCmd.Flags().Bool("subscribe", false, "subscribe to daily readings first")
	dailyCmd.Flags().BoolP("interpret", "i", false, "compose an interpretation of today's cards")
}
