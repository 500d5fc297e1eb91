package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/arcanaland/seer/internal/card"
	"github.com/arcanaland/seer/internal/settings"
)

// isolate points every XDG directory at a temp dir and returns a config path
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("SEER_PRIVATE_KEY", "")
	return filepath.Join(dir, "config", "seer", "config.toml")
}

func execute(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&out)
	RootCmd.SetArgs(append([]string{"--config", cfgPath, "--offline"}, args...))
	err := Execute()
	return out.String(), err
}

func TestDrawJSON(t *testing.T) {
	cfg := isolate(t)

	out, err := execute(t, cfg, "draw", "3", "--seed", "7", "-o", "json")
	require.NoError(t, err)

	var drawn []drawnPosition
	require.NoError(t, json.Unmarshal([]byte(out), &drawn))
	require.Len(t, drawn, 3)
	seen := map[string]bool{}
	for _, d := range drawn {
		assert.False(t, seen[d.Card.Name], "duplicate card %s", d.Card.Name)
		seen[d.Card.Name] = true
	}

	again, err := execute(t, cfg, "draw", "3", "--seed", "7", "-o", "json")
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestDrawRejectsBadCount(t *testing.T) {
	cfg := isolate(t)

	_, err := execute(t, cfg, "draw", "79", "-o", "json")
	assert.Error(t, err)

	_, err = execute(t, cfg, "draw", "many", "-o", "json")
	assert.Error(t, err)
}

func TestCardsBySuit(t *testing.T) {
	cfg := isolate(t)

	out, err := execute(t, cfg, "cards", "--suit", "cups", "-o", "yaml")
	require.NoError(t, err)

	var cards []card.Card
	require.NoError(t, yaml.Unmarshal([]byte(out), &cards))
	assert.Len(t, cards, 14)
	for _, c := range cards {
		assert.Equal(t, card.SuitCups, c.Suit)
	}
}

func TestReadingSaveOffline(t *testing.T) {
	cfg := isolate(t)

	out, err := execute(t, cfg, "reading", "save", "Will it rain?", "--cards", "2", "--interpretation", "Bring an umbrella.", "-o", "json")
	require.NoError(t, err)

	var saved savedReading
	require.NoError(t, json.Unmarshal([]byte(out), &saved))
	assert.Len(t, saved.Reading.Cards, 2)
	assert.Equal(t, "Bring an umbrella.", saved.Reading.Interpretation)
	assert.Equal(t, uint64(1), saved.Profile.TotalReadings)
	assert.False(t, saved.SessionID.IsZero())
}

func TestReadingGetUnknownSession(t *testing.T) {
	cfg := isolate(t)

	_, err := execute(t, cfg, "reading", "get", "0x"+strings.Repeat("ab", 32), "-o", "json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSettingsTheme(t *testing.T) {
	cfg := isolate(t)

	_, err := execute(t, cfg, "settings", "theme", "moonlight", "-o", "text")
	require.NoError(t, err)

	out, err := execute(t, cfg, "settings", "show", "-o", "json")
	require.NoError(t, err)
	var s settings.Config
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, "moonlight", s.CurrentTheme)

	_, err = execute(t, cfg, "settings", "theme", "neon", "-o", "text")
	assert.ErrorIs(t, err, settings.ErrUnknownTheme)
}

func TestValidateDefaults(t *testing.T) {
	cfg := isolate(t)

	out, err := execute(t, cfg, "validate", "-o", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "✅ Configuration is valid.")
	assert.Contains(t, out, "card_art_dir not found")
}

func TestUnknownOutputFormat(t *testing.T) {
	cfg := isolate(t)

	_, err := execute(t, cfg, "cards", "-o", "xml")
	assert.Error(t, err)
}

func TestSettingsPushToLocalNode(t *testing.T) {
	cfg := isolate(t)

	var published []byte
	node := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v0/add" {
			http.NotFound(w, r)
			return
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		published, _ = io.ReadAll(file)
		w.Write([]byte(`{"Hash":"QmLocal"}`))
	}))
	defer node.Close()
	t.Setenv("SEER_IPFS_API_URL", node.URL)

	out, err := execute(t, cfg, "settings", "push", "-o", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"cid":"QmLocal"}`, out)

	var s settings.Config
	require.NoError(t, json.Unmarshal(published, &s))
	assert.Equal(t, "mystical-purple", s.CurrentTheme)
}
