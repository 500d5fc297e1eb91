package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arcanaland/seer/internal/card"
	"github.com/arcanaland/seer/internal/deck"
	"github.com/arcanaland/seer/internal/knowledge"
	"github.com/arcanaland/seer/internal/ledger"
)

type drawnPosition struct {
	Position string    `json:"position" yaml:"position"`
	Card     card.Card `json:"card" yaml:"card"`
}

var drawCmd = &cobra.Command{
	Use:   "draw [count]",
	Short: "Shuffle the deck and draw cards",
	Long: `Draw shuffles a fresh 78 card deck and draws cards from the top. Each card
has a 30% chance of being reversed.

With --spread the count defaults to the spread's size and each card is
labelled with its position.

Examples:
  seer draw 3
  seer draw --spread "Celtic Cross" --interpret --question "Where is my career going?"
  seer draw 1 --seed 42`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spreadName, _ := cmd.Flags().GetString("spread")
		chainSeed, _ := cmd.Flags().GetBool("chain-seed")
		interpret, _ := cmd.Flags().GetBool("interpret")
		question, _ := cmd.Flags().GetString("question")

		var spread knowledge.Spread
		if spreadName != "" {
			s, ok := knowledge.GetSpread(spreadName)
			if !ok {
				return fmt.Errorf("unknown spread %q (see 'seer spread ls')", spreadName)
			}
			spread = s
		}

		count := 1
		switch {
		case len(args) == 1:
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid card count %q", args[0])
			}
			count = n
		case spread.TotalCards > 0:
			count = spread.TotalCards
		}

		var engine *deck.Engine
		switch {
		case cmd.Flags().Changed("seed"):
			seed, _ := cmd.Flags().GetInt64("seed")
			engine = deck.NewSeededEngine(seed)
		case chainSeed:
			client, err := app.Ledger(cmd.Context())
			if err != nil {
				return err
			}
			seed, err := ledger.SeedFromChain(cmd.Context(), client)
			if err != nil {
				return err
			}
			app.logger.Debug("deck seeded from chain", zap.Int64("seed", seed))
			engine = deck.NewSeededEngine(seed)
		default:
			engine = deck.NewDefaultEngine()
		}

		cards, err := engine.DrawCards(count)
		if err != nil {
			return err
		}
		app.metrics.RecordDraw(cards)

		drawn := make([]drawnPosition, len(cards))
		for i, c := range cards {
			drawn[i] = drawnPosition{Position: spread.Label(i), Card: c}
		}

		return render(cmd.OutOrStdout(), drawn, func(w io.Writer) error {
			palette := app.Palette(cmd.Context())
			if spread.Name != "" {
				fmt.Fprintln(w, palette.Title.Render(spread.Name))
			}
			for i, d := range drawn {
				fmt.Fprintf(w, "%2d. %s %s %s\n",
					i+1,
					palette.Secondary.Render(d.Position+":"),
					d.Card.Emoji(),
					cardTitle(d.Card),
				)
				fmt.Fprintln(w, "    "+palette.Text.Render(d.Card.Description))
			}
			if interpret {
				fmt.Fprintln(w)
				fmt.Fprint(w, renderMarkdown(knowledge.Compose(question, spread.Name, cards)))
			}
			return nil
		})
	},
}

func cardTitle(c card.Card) string {
	if c.IsReversed {
		return c.Name + " (Reversed)"
	}
	return c.Name
}

func init() {
	RootCmd.AddCommand(drawCmd)

	drawCmd.Flags().StringP("spread", "s", "", "lay the cards out in a named spread")
	drawCmd.Flags().Int64("seed", 0, "seed the shuffle for a reproducible draw")
	drawCmd.Flags().Bool("chain-seed", false, "seed the shuffle from the ledger's random numbers")
	drawCmd.Flags().BoolP("interpret", "i", false, "compose an interpretation of the draw")
	drawCmd.Flags().StringP("question", "q", "", "question the interpretation answers")
}
