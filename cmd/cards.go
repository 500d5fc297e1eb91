package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arcanaland/seer/internal/card"
	"github.com/arcanaland/seer/internal/deck"
)

// cardsCmd lists the catalog
var cardsCmd = &cobra.Command{
	Use:   "cards",
	Short: "List the cards in the deck",
	Long: `List every card in the 78 card deck with its canonical ID.
Use --suit to show a single suit or the major arcana.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		suit, _ := cmd.Flags().GetString("suit")

		var cards []card.Card
		for _, c := range deck.Catalog() {
			if suit == "" || strings.EqualFold(c.Suit, suit) || (strings.EqualFold(suit, "major") && c.IsMajor()) {
				cards = append(cards, c)
			}
		}
		if len(cards) == 0 {
			return fmt.Errorf("no cards in suit %q", suit)
		}

		return render(cmd.OutOrStdout(), cards, func(w io.Writer) error {
			current := ""
			for _, c := range cards {
				if c.Suit != current {
					if current != "" {
						fmt.Fprintln(w)
					}
					current = c.Suit
					fmt.Fprintf(w, "%s %s\n", c.Emoji(), current)
				}
				fmt.Fprintf(w, "  %-34s %s\n", c.ID, c.Name)
			}
			return nil
		})
	},
}

func init() {
	RootCmd.AddCommand(cardsCmd)

	cardsCmd.Flags().String("suit", "", "only list one suit (major, wands, cups, swords, pentacles)")
}
