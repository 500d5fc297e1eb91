package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	colorize "github.com/fatih/color"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/arcanaland/seer/internal/ledger"
)

// render writes v as JSON or YAML when --output asks for it, otherwise it
// calls text.
func render(w io.Writer, v any, text func(w io.Writer) error) error {
	switch outputFormat {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return text(w)
	}
}

// terminalWidth returns the width of stdout, or 80 when it is not a terminal
func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// renderMarkdown renders md for the terminal, falling back to the raw text
func renderMarkdown(md string) string {
	width := terminalWidth() - 4
	if width > 100 {
		width = 100
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

// wrapText wraps text to a specified width
func wrapText(text string, width int) []string {
	if width < 10 {
		width = 40
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var result []string
	var currentLine string
	for _, word := range words {
		switch {
		case currentLine == "":
			currentLine = word
		case len(currentLine)+1+len(word) <= width:
			currentLine += " " + word
		default:
			result = append(result, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		result = append(result, currentLine)
	}
	return result
}

func label(name string) string {
	return colorize.CyanString("%-16s", name+":")
}

func formatTimestamp(ts int64) string {
	if ts == 0 {
		return "never"
	}
	return time.Unix(ts, 0).Local().Format(time.RFC1123)
}

func printSession(w io.Writer, s ledger.ReadingSession) error {
	fmt.Fprintln(w, label("Session")+colorize.HiWhiteString(s.SessionID.String()))
	fmt.Fprintln(w, label("Question")+s.Question)
	fmt.Fprintln(w, label("State")+s.State().String())
	fmt.Fprintln(w, label("Started")+formatTimestamp(s.Timestamp))
	if len(s.Cards) > 0 {
		fmt.Fprintln(w, label("Cards"))
		for i, c := range s.DrawnCards() {
			fmt.Fprintf(w, "  %d. %s\n", i+1, drawnCardLine(c))
		}
	}
	if s.Interpretation != "" {
		fmt.Fprintln(w)
		fmt.Fprint(w, renderMarkdown(s.Interpretation))
	}
	return nil
}

func printProfile(w io.Writer, p ledger.UserProfile) error {
	spread := p.FavoriteSpread
	if spread == "" {
		spread = "(none)"
	}
	subscribed := "no"
	if p.HasSubscribed {
		subscribed = "yes"
	}
	fmt.Fprintln(w, label("Favorite spread")+spread)
	fmt.Fprintln(w, label("Total readings")+fmt.Sprint(p.TotalReadings))
	fmt.Fprintln(w, label("Last reading")+formatTimestamp(p.LastReadingTimestamp))
	fmt.Fprintln(w, label("Daily readings")+subscribed)
	if len(p.ReadingHistory) > 0 {
		fmt.Fprintln(w, label("History"))
		for _, id := range p.ReadingHistory {
			fmt.Fprintln(w, "  "+id)
		}
	}
	return nil
}

func drawnCardLine(c ledger.DrawnCard) string {
	if c.IsReversed {
		return c.Name + colorize.YellowString(" (Reversed)")
	}
	return c.Name
}
