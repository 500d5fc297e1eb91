package knowledge

import (
	"fmt"
	"strings"

	"github.com/arcanaland/seer/internal/card"
)

// Compose writes a markdown interpretation of cards laid out in spread for
// question. An unknown spread labels positions by number.
func Compose(question, spreadName string, cards []card.Card) string {
	spread, _ := GetSpread(spreadName)

	var b strings.Builder
	if question != "" {
		fmt.Fprintf(&b, "# %s\n\n", question)
	} else {
		b.WriteString("# Your reading\n\n")
	}
	if spread.Name != "" {
		fmt.Fprintf(&b, "_%s: %s_\n\n", spread.Name, spread.Description)
	}

	names := make([]string, 0, len(cards))
	for i, c := range cards {
		names = append(names, c.Name)
		fmt.Fprintf(&b, "## %d. %s: %s %s (%s)\n\n", i+1, spread.Label(i), c.Emoji(), c.Name, c.Orientation())
		if i < len(spread.Positions) {
			fmt.Fprintf(&b, "*%s*\n\n", spread.Positions[i].Meaning)
		}

		m, ok := GetMeaning(c.Name)
		if !ok {
			b.WriteString(c.Description + "\n\n")
			continue
		}
		b.WriteString(InterpretInContext(m, c.IsReversed, spread.Label(i), question) + "\n\n")
		if kw := m.Aspect(c.IsReversed).Keywords; len(kw) > 0 {
			fmt.Fprintf(&b, "**Keywords:** %s\n\n", strings.Join(kw, ", "))
		}
		if !c.IsMajor() {
			if n, ok := Numerology(c.Number); ok {
				fmt.Fprintf(&b, "**Numerology (%d):** %s\n\n", c.Number, n)
			}
		}
	}

	if len(cards) > 0 {
		dominant := DominantElement(names)
		fmt.Fprintf(&b, "## Elemental influence: %s\n\n%s\n", strings.ToUpper(dominant[:1])+dominant[1:], ElementalInfluence(names))
	}
	return b.String()
}
