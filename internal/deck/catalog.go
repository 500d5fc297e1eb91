package deck

import (
	"fmt"
	"strings"

	"github.com/arcanaland/seer/internal/card"
)

// Size is the number of cards in a full tarot deck
const Size = 78

// ranks maps minor arcana numbers 1-14 to the rank used in canonical IDs
var ranks = []string{
	"ace", "two", "three", "four", "five", "six", "seven", "eight", "nine", "ten",
	"page", "knight", "queen", "king",
}

type entry struct {
	name        string
	number      int
	suit        string
	description string
	keywords    []string
}

var entries = []entry{
	{"The Fool", 0, "Major Arcana", "New beginnings, innocence, spontaneity", []string{"beginnings", "innocence", "adventure", "spontaneity"}},
	{"The Magician", 1, "Major Arcana", "Manifestation, resourcefulness, power", []string{"manifestation", "power", "skill", "concentration"}},
	{"The High Priestess", 2, "Major Arcana", "Intuition, sacred knowledge, divine feminine", []string{"intuition", "mystery", "spirituality", "inner knowledge"}},
	{"The Empress", 3, "Major Arcana", "Femininity, beauty, nature, abundance", []string{"femininity", "beauty", "nature", "abundance"}},
	{"The Emperor", 4, "Major Arcana", "Authority, structure, control, fatherhood", []string{"authority", "structure", "control", "fatherhood"}},
	{"The Hierophant", 5, "Major Arcana", "Spiritual wisdom, religious beliefs, conformity", []string{"tradition", "conformity", "morality", "ethics"}},
	{"The Lovers", 6, "Major Arcana", "Love, harmony, relationships, choices", []string{"love", "harmony", "relationships", "choices"}},
	{"The Chariot", 7, "Major Arcana", "Control, willpower, determination, success", []string{"control", "willpower", "determination", "success"}},
	{"Strength", 8, "Major Arcana", "Inner strength, courage, persuasion, influence", []string{"strength", "courage", "persuasion", "influence"}},
	{"The Hermit", 9, "Major Arcana", "Soul-searching, introspection, solitude", []string{"soul-searching", "introspection", "solitude", "guidance"}},
	{"Wheel of Fortune", 10, "Major Arcana", "Good luck, karma, life cycles, destiny", []string{"luck", "karma", "destiny", "turning point"}},
	{"Justice", 11, "Major Arcana", "Justice, fairness, truth, cause and effect", []string{"justice", "fairness", "truth", "cause and effect"}},
	{"The Hanged Man", 12, "Major Arcana", "Surrender, letting go, new perspectives", []string{"surrender", "letting go", "new perspectives", "sacrifice"}},
	{"Death", 13, "Major Arcana", "Endings, change, transformation, transition", []string{"endings", "change", "transformation", "transition"}},
	{"Temperance", 14, "Major Arcana", "Balance, moderation, patience, purpose", []string{"balance", "moderation", "patience", "purpose"}},
	{"The Devil", 15, "Major Arcana", "Shadow self, attachment, addiction, materialism", []string{"shadow self", "attachment", "addiction", "materialism"}},
	{"The Tower", 16, "Major Arcana", "Sudden change, upheaval, chaos, revelation", []string{"sudden change", "upheaval", "chaos", "revelation"}},
	{"The Star", 17, "Major Arcana", "Hope, faith, purpose, renewal, spirituality", []string{"hope", "faith", "purpose", "renewal"}},
	{"The Moon", 18, "Major Arcana", "Illusion, fear, anxiety, subconscious", []string{"illusion", "fear", "anxiety", "subconscious"}},
	{"The Sun", 19, "Major Arcana", "Positivity, fun, warmth, success, vitality", []string{"positivity", "fun", "warmth", "success"}},
	{"Judgement", 20, "Major Arcana", "Judgement, rebirth, inner calling, absolution", []string{"judgement", "rebirth", "inner calling", "absolution"}},
	{"The World", 21, "Major Arcana", "Completion, integration, accomplishment, travel", []string{"completion", "integration", "accomplishment", "travel"}},
	{"Ace of Wands", 1, "Wands", "Creation, willpower, inspiration, desire", []string{"creation", "willpower", "inspiration", "desire"}},
	{"Two of Wands", 2, "Wands", "Planning, making decisions, leaving comfort zone", []string{"planning", "decisions", "comfort zone", "future"}},
	{"Three of Wands", 3, "Wands", "Looking ahead, expansion, rapid growth", []string{"expansion", "growth", "adventure", "exploration"}},
	{"Four of Wands", 4, "Wands", "Celebration, joy, harmony, relaxation, homecoming", []string{"celebration", "joy", "harmony", "homecoming"}},
	{"Five of Wands", 5, "Wands", "Conflict, disagreements, competition, tension", []string{"conflict", "disagreements", "competition", "tension"}},
	{"Six of Wands", 6, "Wands", "Success, public recognition, progress, self-confidence", []string{"success", "recognition", "progress", "confidence"}},
	{"Seven of Wands", 7, "Wands", "Perseverance, defensive position, maintaining control", []string{"perseverance", "defense", "control", "challenge"}},
	{"Eight of Wands", 8, "Wands", "Rapid action, movement, quick decisions, air travel", []string{"rapid action", "movement", "decisions", "travel"}},
	{"Nine of Wands", 9, "Wands", "Resilience, courage, persistence, test of faith", []string{"resilience", "courage", "persistence", "faith"}},
	{"Ten of Wands", 10, "Wands", "Burden, extra responsibility, hard work, completion", []string{"burden", "responsibility", "hard work", "completion"}},
	{"Page of Wands", 11, "Wands", "Exploration, excitement, freedom, adventure", []string{"exploration", "excitement", "freedom", "adventure"}},
	{"Knight of Wands", 12, "Wands", "Energy, passion, lust, action, adventure, impulsiveness", []string{"energy", "passion", "action", "adventure"}},
	{"Queen of Wands", 13, "Wands", "Courageous, determined, independent, vivacious, sassy", []string{"courage", "determination", "independence", "vivacious"}},
	{"King of Wands", 14, "Wands", "Natural-born leader, vision, entrepreneur, honour", []string{"leadership", "vision", "entrepreneur", "honor"}},
	{"Ace of Cups", 1, "Cups", "New feelings, spirituality, intuition, love", []string{"new feelings", "spirituality", "intuition", "love"}},
	{"Two of Cups", 2, "Cups", "Unity, partnership, connection, attraction", []string{"unity", "partnership", "connection", "attraction"}},
	{"Three of Cups", 3, "Cups", "Friendship, creativity, collaborations, joy", []string{"friendship", "creativity", "collaboration", "joy"}},
	{"Four of Cups", 4, "Cups", "Meditation, contemplation, apathy, reevaluation", []string{"meditation", "contemplation", "apathy", "reevaluation"}},
	{"Five of Cups", 5, "Cups", "Regret, failure, disappointment, pessimism", []string{"regret", "failure", "disappointment", "pessimism"}},
	{"Six of Cups", 6, "Cups", "Revisiting the past, childhood memories, innocence", []string{"past", "memories", "innocence", "nostalgia"}},
	{"Seven of Cups", 7, "Cups", "Opportunities, choices, wishful thinking, illusion", []string{"opportunities", "choices", "illusion", "fantasy"}},
	{"Eight of Cups", 8, "Cups", "Disappointment, abandonment, withdrawal, escapism", []string{"disappointment", "abandonment", "withdrawal", "escapism"}},
	{"Nine of Cups", 9, "Cups", "Contentment, satisfaction, gratitude, wish come true", []string{"contentment", "satisfaction", "gratitude", "wishes"}},
	{"Ten of Cups", 10, "Cups", "Divine love, blissful relationships, harmony, alignment", []string{"divine love", "bliss", "harmony", "alignment"}},
	{"Page of Cups", 11, "Cups", "Creative opportunities, intuitive messages, curiosity", []string{"creativity", "intuition", "curiosity", "messages"}},
	{"Knight of Cups", 12, "Cups", "Creativity, romance, charm, imagination, beauty", []string{"creativity", "romance", "charm", "imagination"}},
	{"Queen of Cups", 13, "Cups", "Compassionate, caring, emotionally stable, intuitive", []string{"compassion", "caring", "emotional", "intuitive"}},
	{"King of Cups", 14, "Cups", "Emotional balance and control, generosity", []string{"emotional balance", "control", "generosity", "wisdom"}},
	{"Ace of Swords", 1, "Swords", "Breakthrough, clarity, sharp mind, new ideas", []string{"breakthrough", "clarity", "sharp mind", "new ideas"}},
	{"Two of Swords", 2, "Swords", "Difficult decisions, weighing up options, an impasse", []string{"decisions", "options", "impasse", "balance"}},
	{"Three of Swords", 3, "Swords", "Heartbreak, emotional pain, sorrow, grief", []string{"heartbreak", "pain", "sorrow", "grief"}},
	{"Four of Swords", 4, "Swords", "Rest, relaxation, meditation, contemplation", []string{"rest", "relaxation", "meditation", "contemplation"}},
	{"Five of Swords", 5, "Swords", "Conflict, disagreements, competition, defeat", []string{"conflict", "disagreements", "competition", "defeat"}},
	{"Six of Swords", 6, "Swords", "Transition, change, rite of passage, releasing baggage", []string{"transition", "change", "passage", "baggage"}},
	{"Seven of Swords", 7, "Swords", "Betrayal, deception, getting away with something", []string{"betrayal", "deception", "secrets", "stealth"}},
	{"Eight of Swords", 8, "Swords", "Negative thoughts, self-imposed restriction, imprisonment", []string{"negative thoughts", "restriction", "imprisonment", "limitation"}},
	{"Nine of Swords", 9, "Swords", "Anxiety, worry, fear, depression, nightmares", []string{"anxiety", "worry", "fear", "depression"}},
	{"Ten of Swords", 10, "Swords", "Painful endings, deep wounds, betrayal, loss", []string{"painful endings", "wounds", "betrayal", "loss"}},
	{"Page of Swords", 11, "Swords", "New ideas, curiosity, thirst for knowledge, new ways", []string{"new ideas", "curiosity", "knowledge", "communication"}},
	{"Knight of Swords", 12, "Swords", "Ambitious, action-oriented, driven to succeed, fast-thinking", []string{"ambition", "action", "success", "fast-thinking"}},
	{"Queen of Swords", 13, "Swords", "Independent, unbiased judgement, clear boundaries", []string{"independent", "judgement", "boundaries", "clarity"}},
	{"King of Swords", 14, "Swords", "Mental clarity, intellectual power, authority, truth", []string{"mental clarity", "intellectual power", "authority", "truth"}},
	{"Ace of Pentacles", 1, "Pentacles", "New financial opportunity, abundance, prosperity", []string{"financial opportunity", "abundance", "prosperity", "new beginnings"}},
	{"Two of Pentacles", 2, "Pentacles", "Multiple priorities, time management, prioritisation", []string{"priorities", "time management", "balance", "adaptability"}},
	{"Three of Pentacles", 3, "Pentacles", "Teamwork, collaboration, building, learning", []string{"teamwork", "collaboration", "building", "learning"}},
	{"Four of Pentacles", 4, "Pentacles", "Saving money, security, conservatism, scarcity", []string{"saving", "security", "conservatism", "scarcity"}},
	{"Five of Pentacles", 5, "Pentacles", "Financial loss, poverty, lack mindset, isolation", []string{"financial loss", "poverty", "lack", "isolation"}},
	{"Six of Pentacles", 6, "Pentacles", "Giving, receiving, sharing wealth, generosity", []string{"giving", "receiving", "sharing", "generosity"}},
	{"Seven of Pentacles", 7, "Pentacles", "Long-term view, sustainable results, perseverance", []string{"long-term", "sustainable", "perseverance", "patience"}},
	{"Eight of Pentacles", 8, "Pentacles", "Apprenticeship, repetitive tasks, skill development", []string{"apprenticeship", "skill development", "dedication", "craftsmanship"}},
	{"Nine of Pentacles", 9, "Pentacles", "Abundance, luxury, self-sufficiency, financial independence", []string{"abundance", "luxury", "self-sufficiency", "independence"}},
	{"Ten of Pentacles", 10, "Pentacles", "Wealth, financial security, family, long-term success", []string{"wealth", "security", "family", "success"}},
	{"Page of Pentacles", 11, "Pentacles", "Manifestation, financial opportunity, new job", []string{"manifestation", "opportunity", "new job", "learning"}},
	{"Knight of Pentacles", 12, "Pentacles", "Hard work, productivity, routine, conservatism", []string{"hard work", "productivity", "routine", "conservatism"}},
	{"Queen of Pentacles", 13, "Pentacles", "Nurturing, practical, providing financially, a working parent", []string{"nurturing", "practical", "providing", "working parent"}},
	{"King of Pentacles", 14, "Pentacles", "Wealth, business, leadership, security, discipline", []string{"wealth", "business", "leadership", "security"}},
}

// catalog is built once and never handed out without copying
var catalog = buildCatalog()

func buildCatalog() []card.Card {
	cards := make([]card.Card, 0, len(entries))
	for _, e := range entries {
		cards = append(cards, card.Card{
			ID:          canonicalID(e.suit, e.number),
			Name:        e.name,
			Suit:        e.suit,
			Number:      e.number,
			Description: e.description,
			Keywords:    e.keywords,
		})
	}
	return cards
}

// canonicalID returns the canonical card ID for a suit and number
func canonicalID(suit string, number int) string {
	if suit == card.SuitMajor {
		return fmt.Sprintf("major_arcana.%02d", number)
	}
	return fmt.Sprintf("minor_arcana.%s.%s", card.SuitSlug(suit), ranks[number-1])
}

// Catalog returns a copy of the 78 catalog entries in table order
func Catalog() []card.Card {
	out := make([]card.Card, len(catalog))
	for i, c := range catalog {
		out[i] = c.Clone()
	}
	return out
}

// Lookup finds a card by display name or canonical ID, ignoring case
func Lookup(nameOrID string) (card.Card, error) {
	key := strings.TrimSpace(nameOrID)
	for _, c := range catalog {
		if strings.EqualFold(c.Name, key) || strings.EqualFold(c.ID, key) {
			return c.Clone(), nil
		}
	}
	return card.Card{}, fmt.Errorf("%w: %s", ErrCardNotFound, nameOrID)
}
