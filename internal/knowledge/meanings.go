package knowledge

// Element names
const (
	Fire  = "fire"
	Water = "water"
	Air   = "air"
	Earth = "earth"
)

// elementOrder is the order ElementalInfluence scans elements in
var elementOrder = []string{Fire, Water, Air, Earth}

// Aspect is one orientation of a card's meaning
type Aspect struct {
	Keywords     []string `json:"keywords" yaml:"keywords"`
	Description  string   `json:"description" yaml:"description"`
	Love         string   `json:"love,omitempty" yaml:"love,omitempty"`
	Career       string   `json:"career,omitempty" yaml:"career,omitempty"`
	Health       string   `json:"health,omitempty" yaml:"health,omitempty"`
	Spirituality string   `json:"spirituality,omitempty" yaml:"spirituality,omitempty"`
}

// Meaning is the detailed interpretation of a card
type Meaning struct {
	Name     string `json:"name" yaml:"name"`
	Upright  Aspect `json:"upright" yaml:"upright"`
	Reversed Aspect `json:"reversed" yaml:"reversed"`
	Element  string `json:"element,omitempty" yaml:"element,omitempty"`
	Planet   string `json:"planet,omitempty" yaml:"planet,omitempty"`
	Suit     string `json:"suit,omitempty" yaml:"suit,omitempty"`
}

// Aspect returns the upright or reversed side
func (m Meaning) Aspect(reversed bool) Aspect {
	if reversed {
		return m.Reversed
	}
	return m.Upright
}

var detailed = map[string]Meaning{
	"The Fool": {
		Name: "The Fool",
		Upright: Aspect{
			Keywords:     []string{"new beginnings", "innocence", "spontaneity", "adventure", "free spirit"},
			Description:  "The Fool represents new beginnings, innocence, and the start of a journey. It suggests taking a leap of faith and embracing the unknown with optimism.",
			Love:         "New love, taking chances in relationships, fresh start",
			Career:       "New job opportunities, starting a business, taking risks",
			Health:       "New health routines, fresh energy, vitality",
			Spirituality: "Spiritual awakening, trusting intuition, divine guidance",
		},
		Reversed: Aspect{
			Keywords:     []string{"recklessness", "naivety", "foolishness", "carelessness"},
			Description:  "The Fool reversed warns against being too reckless or naive. It suggests the need for more careful planning and consideration.",
			Love:         "Being too trusting, ignoring red flags, immature behavior",
			Career:       "Poor planning, unrealistic expectations, lack of preparation",
			Health:       "Ignoring health warnings, reckless behavior",
			Spirituality: "Spiritual confusion, lack of direction",
		},
		Element: Air,
		Planet:  "Uranus",
	},
	"The Magician": {
		Name: "The Magician",
		Upright: Aspect{
			Keywords:     []string{"manifestation", "power", "skill", "concentration", "action"},
			Description:  "The Magician represents your ability to manifest your desires through focused willpower and action. You have all the tools you need.",
			Love:         "Taking action in love, using your charm and skills",
			Career:       "Using your talents effectively, seizing opportunities",
			Health:       "Taking control of your health, using available resources",
			Spirituality: "Connecting with your spiritual power, manifestation",
		},
		Reversed: Aspect{
			Keywords:     []string{"manipulation", "poor planning", "untapped talents"},
			Description:  "The Magician reversed suggests untapped potential or misuse of power. You may need to develop your skills or use them more wisely.",
			Love:         "Manipulation, not using your full potential in relationships",
			Career:       "Wasted opportunities, lack of focus, poor planning",
			Health:       "Not using available health resources, lack of discipline",
			Spirituality: "Disconnection from spiritual power, lack of focus",
		},
		Element: Air,
		Planet:  "Mercury",
	},
	"The High Priestess": {
		Name: "The High Priestess",
		Upright: Aspect{
			Keywords:     []string{"intuition", "mystery", "spirituality", "inner knowledge", "divine feminine"},
			Description:  "The High Priestess represents intuition, inner wisdom, and spiritual knowledge. Trust your gut feelings and listen to your inner voice.",
			Love:         "Intuitive feelings about relationships, spiritual connection",
			Career:       "Following your intuition in decisions, hidden opportunities",
			Health:       "Listening to your body's wisdom, spiritual healing",
			Spirituality: "Deep spiritual connection, psychic abilities, meditation",
		},
		Reversed: Aspect{
			Keywords:     []string{"secrets", "disconnection", "lack of center", "withdrawal"},
			Description:  "The High Priestess reversed suggests disconnection from intuition or keeping secrets. You may need to reconnect with your inner wisdom.",
			Love:         "Keeping secrets, not listening to intuition about love",
			Career:       "Ignoring gut feelings, missing hidden opportunities",
			Health:       "Ignoring body signals, disconnection from self",
			Spirituality: "Spiritual disconnection, ignoring inner guidance",
		},
		Element: Water,
		Planet:  "Moon",
	},
	"Ace of Cups": {
		Name: "Ace of Cups",
		Upright: Aspect{
			Keywords:     []string{"new love", "compassion", "creativity", "intuition", "spiritual awakening"},
			Description:  "The Ace of Cups represents new emotional beginnings, love, and spiritual awakening. It's a sign of emotional fulfillment and divine love.",
			Love:         "New love, emotional fulfillment, deep connection",
			Career:       "Creative inspiration, emotional satisfaction at work",
			Health:       "Emotional healing, spiritual wellness",
			Spirituality: "Spiritual awakening, divine love, compassion",
		},
		Reversed: Aspect{
			Keywords:     []string{"emotional loss", "blocked creativity", "depression"},
			Description:  "The Ace of Cups reversed suggests emotional blocks or loss. You may need to heal emotional wounds or open your heart again.",
			Love:         "Emotional blocks, past heartbreak affecting present",
			Career:       "Lack of inspiration, emotional dissatisfaction",
			Health:       "Emotional distress, spiritual disconnection",
			Spirituality: "Blocked spiritual growth, lack of compassion",
		},
		Element: Water,
		Suit:    "cups",
	},
	"Two of Cups": {
		Name: "Two of Cups",
		Upright: Aspect{
			Keywords:     []string{"partnership", "connection", "mutual attraction", "balance", "harmony"},
			Description:  "The Two of Cups represents partnership, connection, and mutual attraction. It suggests harmonious relationships and emotional balance.",
			Love:         "Deep partnership, mutual love, emotional harmony",
			Career:       "Successful partnerships, collaboration, teamwork",
			Health:       "Emotional balance, supportive relationships",
			Spirituality: "Spiritual partnership, soul connections",
		},
		Reversed: Aspect{
			Keywords:     []string{"broken relationships", "disharmony", "miscommunication"},
			Description:  "The Two of Cups reversed suggests relationship problems or disharmony. Communication and understanding may be needed.",
			Love:         "Relationship problems, lack of connection, disharmony",
			Career:       "Partnership conflicts, lack of teamwork",
			Health:       "Relationship stress affecting health",
			Spirituality: "Disconnection from spiritual partners",
		},
		Element: Water,
		Suit:    "cups",
	},
}

// ElementMeaning describes an element
type ElementMeaning struct {
	Keywords    []string `json:"keywords" yaml:"keywords"`
	Description string   `json:"description" yaml:"description"`
}

var elements = map[string]ElementMeaning{
	Fire: {
		Keywords:    []string{"passion", "energy", "creativity", "transformation", "action"},
		Description: "Fire represents passion, energy, and transformation. It's about taking action and following your desires.",
	},
	Water: {
		Keywords:    []string{"emotions", "intuition", "relationships", "healing", "flow"},
		Description: "Water represents emotions, intuition, and relationships. It's about going with the flow and trusting your feelings.",
	},
	Air: {
		Keywords:    []string{"intellect", "communication", "ideas", "freedom", "clarity"},
		Description: "Air represents intellect, communication, and ideas. It's about thinking clearly and expressing yourself.",
	},
	Earth: {
		Keywords:    []string{"stability", "practicality", "material", "grounding", "nurturing"},
		Description: "Earth represents stability, practicality, and material matters. It's about being grounded and taking care of practical needs.",
	},
}

var numerology = map[int]string{
	1:  "New beginnings, independence, leadership",
	2:  "Partnership, balance, harmony, choice",
	3:  "Creativity, growth, expansion, communication",
	4:  "Stability, foundation, structure, security",
	5:  "Change, freedom, adventure, conflict",
	6:  "Harmony, balance, responsibility, service",
	7:  "Spirituality, wisdom, introspection, mystery",
	8:  "Power, achievement, material success, karma",
	9:  "Completion, fulfillment, wisdom, letting go",
	10: "Completion of a cycle, new beginning, mastery",
}
