package settings

// StorageKey is the store key the settings document is kept under
const StorageKey = "tarot-reader-config"

// Chains with a configurable RPC endpoint
const (
	ChainFlow     = "flow"
	ChainFilecoin = "filecoin"
	ChainIPFS     = "ipfs"
)

const (
	sansFonts  = "system-ui, -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto"
	cardFlip   = "flip 0.6s ease-in-out"
	cardDraw   = "draw 0.8s ease-out"
	defaultGW  = "https://ipfs.io"
	firstTheme = "mystical-purple"
)

// Default returns a fresh copy of the built-in settings
func Default() Config {
	return Config{
		RPCEndpoints: RPCEndpoints{
			Flow:     "https://testnet.evm.nodes.onflow.org",
			Filecoin: "https://api.filecoin.io",
			IPFS:     defaultGW,
		},
		Themes: []Theme{
			{
				ID:          "mystical-purple",
				Name:        "Mystical Purple",
				Description: "Deep purple and indigo theme with mystical energy",
				Colors: Colors{
					Primary:    "#8B5CF6",
					Secondary:  "#6366F1",
					Accent:     "#A855F7",
					Background: "linear-gradient(135deg, #1E1B4B 0%, #312E81 50%, #000000 100%)",
					Text:       "#F3F4F6",
				},
				FontFamily: sansFonts,
				Animations: &Animations{CardFlip: cardFlip, CardDraw: cardDraw, Glow: "glow 2s ease-in-out infinite alternate"},
			},
			{
				ID:          "golden-dawn",
				Name:        "Golden Dawn",
				Description: "Classic golden theme inspired by the Hermetic Order",
				Colors: Colors{
					Primary:    "#D97706",
					Secondary:  "#F59E0B",
					Accent:     "#FCD34D",
					Background: "linear-gradient(135deg, #1F2937 0%, #374151 50%, #111827 100%)",
					Text:       "#F9FAFB",
				},
				FontFamily: "Georgia, serif",
				Animations: &Animations{CardFlip: cardFlip, CardDraw: cardDraw, Glow: "golden-glow 2s ease-in-out infinite alternate"},
			},
			{
				ID:          "moonlight",
				Name:        "Moonlight",
				Description: "Silver and blue theme representing lunar energy",
				Colors: Colors{
					Primary:    "#6B7280",
					Secondary:  "#9CA3AF",
					Accent:     "#E5E7EB",
					Background: "linear-gradient(135deg, #0F172A 0%, #1E293B 50%, #334155 100%)",
					Text:       "#F8FAFC",
				},
				FontFamily: sansFonts,
				Animations: &Animations{CardFlip: cardFlip, CardDraw: cardDraw, Glow: "moonlight-glow 3s ease-in-out infinite alternate"},
			},
			{
				ID:          "earth-mother",
				Name:        "Earth Mother",
				Description: "Green and brown theme representing grounding energy",
				Colors: Colors{
					Primary:    "#059669",
					Secondary:  "#10B981",
					Accent:     "#34D399",
					Background: "linear-gradient(135deg, #064E3B 0%, #065F46 50%, #047857 100%)",
					Text:       "#F0FDF4",
				},
				FontFamily: sansFonts,
				Animations: &Animations{CardFlip: cardFlip, CardDraw: cardDraw, Glow: "earth-glow 2s ease-in-out infinite alternate"},
			},
		},
		CurrentTheme: firstTheme,
		IPFSGateway:  defaultGW,
	}
}
