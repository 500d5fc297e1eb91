package cmd

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arcanaland/seer/internal/art"
	"github.com/arcanaland/seer/internal/card"
	"github.com/arcanaland/seer/internal/config"
	"github.com/arcanaland/seer/internal/deck"
	"github.com/arcanaland/seer/internal/knowledge"
)

var showCmd = &cobra.Command{
	Use:   "show [card]",
	Short: "Display information about a card with ANSI art",
	Long: `Show displays what a tarot card means, next to ANSI terminal art when the
card art directory has art or an image for it.

Cards can be named by name or by canonical ID. Art is looked up under
card_art_dir (ansi32/, ansi256/, scalable/, h*/); images are converted
to ANSI art once and cached.

Examples:
  seer show "The Fool"
  seer show minor_arcana.wands.ace
  seer show --reversed "Two of Cups"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reversed, _ := cmd.Flags().GetBool("reversed")

		c, err := deck.Lookup(args[0])
		if err != nil {
			return fmt.Errorf("error getting card: %v", err)
		}
		c.IsReversed = reversed
		meaning, _ := knowledge.GetMeaning(c.Name)

		return render(cmd.OutOrStdout(), meaning, func(w io.Writer) error {
			finder := art.Finder{
				Dir:      app.cfg.CardArtDir,
				CacheDir: filepath.Join(config.GetCacheDir(), "ansi_cache"),
			}
			ansiArt, err := finder.Load(c.ID)
			if err != nil && !errors.Is(err, art.ErrNoArt) {
				return fmt.Errorf("error loading ANSI art: %v", err)
			}
			if err != nil {
				app.logger.Debug("no card art", zap.String("card", c.ID), zap.Error(err))
			}

			displayCard(w, c, meaning, ansiArt)
			return nil
		})
	},
}

func init() {
	RootCmd.AddCommand(showCmd)

	showCmd.Flags().BoolP("reversed", "r", false, "show the reversed meaning")
}

// getSuitSymbol returns the Nerd Font glyph for a suit
func getSuitSymbol(suit string) string {
	switch suit {
	case card.SuitWands:
		return ""
	case card.SuitCups:
		return ""
	case card.SuitSwords:
		return "󰞇"
	case card.SuitPentacles:
		return "󱙧"
	default:
		return "•"
	}
}

// getArcanaSymbol returns a symbol for the arcana type
func getArcanaSymbol(isMinor bool) string {
	if isMinor {
		return "󱀝"
	}
	return ""
}

// cardInfo builds the info column shown beside the art
func cardInfo(c card.Card, m knowledge.Meaning, width int) []string {
	var lines []string
	field := func(name, value string) {
		lines = append(lines, colorize.CyanString("%-9s", name+":")+colorize.HiWhiteString(value))
	}

	field("Card", c.Name)
	field("ID", c.ID)
	if c.IsMajor() {
		field("Type", "Major Arcana · "+getArcanaSymbol(false))
		field("Number", fmt.Sprintf("%d", c.Number))
	} else {
		field("Type", "Minor Arcana · "+getArcanaSymbol(true))
		field("Suit", c.Suit+" · "+getSuitSymbol(c.Suit))
		field("Rank", fmt.Sprintf("%d", c.Number))
	}
	if m.Element != "" {
		field("Element", m.Element)
	}
	if m.Planet != "" {
		field("Planet", m.Planet)
	}
	if n, ok := knowledge.Numerology(c.Number); ok && !c.IsMajor() {
		field("Number", n)
	}

	aspect := m.Aspect(c.IsReversed)
	lines = append(lines, "")
	lines = append(lines, colorize.CyanString("%s:", c.Orientation()))
	if len(aspect.Keywords) > 0 {
		for _, line := range wrapText(strings.Join(aspect.Keywords, " · "), width) {
			lines = append(lines, colorize.HiBlackString(line))
		}
	}
	lines = append(lines, wrapText(aspect.Description, width)...)

	for _, area := range []struct{ name, text string }{
		{"Love", aspect.Love},
		{"Career", aspect.Career},
		{"Health", aspect.Health},
		{"Spirit", aspect.Spirituality},
	} {
		if area.text == "" {
			continue
		}
		lines = append(lines, "")
		lines = append(lines, colorize.CyanString(area.name+":"))
		lines = append(lines, wrapText(area.text, width)...)
	}
	return lines
}

// displayCard prints the ANSI art on the left and the card info on the right
func displayCard(w io.Writer, c card.Card, m knowledge.Meaning, ansiArt string) {
	var ansiLines []string
	if ansiArt != "" {
		ansiLines = strings.Split(strings.TrimSuffix(ansiArt, "\n"), "\n")
	}
	maxAnsiWidth := 0
	for _, line := range ansiLines {
		maxAnsiWidth = max(maxAnsiWidth, art.VisibleWidth(line))
	}

	spacing := 4
	infoStartCol := maxAnsiWidth + spacing
	if maxAnsiWidth == 0 {
		infoStartCol = 0
	}

	infoWidth := terminalWidth() - infoStartCol - 2
	if infoWidth < 20 {
		infoWidth = 20
	}
	infoLines := cardInfo(c, m, infoWidth)

	fmt.Fprintln(w)
	for i := 0; i < max(len(ansiLines), len(infoLines)); i++ {
		fmt.Fprint(w, "  ")
		if i < len(ansiLines) {
			fmt.Fprint(w, ansiLines[i])
			fmt.Fprint(w, strings.Repeat(" ", max(0, infoStartCol-art.VisibleWidth(ansiLines[i]))))
		} else {
			fmt.Fprint(w, strings.Repeat(" ", infoStartCol))
		}
		if i < len(infoLines) {
			fmt.Fprint(w, infoLines[i])
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)
}
