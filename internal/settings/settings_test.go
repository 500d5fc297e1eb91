package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcanaland/seer/internal/ipfs"
	"github.com/arcanaland/seer/internal/store"
)

type memKV map[string][]byte

func (m memKV) GetJSON(_ context.Context, key string, v any) error {
	data, ok := m[key]
	if !ok {
		return fmt.Errorf("%w: %s", store.ErrNotFound, key)
	}
	return json.Unmarshal(data, v)
}

func (m memKV) SetJSON(_ context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m[key] = data
	return nil
}

type recordingApplier struct {
	applied []string
}

func (r *recordingApplier) ApplyTheme(t Theme) {
	r.applied = append(r.applied, t.ID)
}

func TestLoadDefaults(t *testing.T) {
	applier := &recordingApplier{}
	m := NewManager(memKV{}, WithApplier(applier))
	require.NoError(t, m.Load(context.Background()))

	cfg := m.Config()
	assert.Len(t, cfg.Themes, 4)
	assert.Equal(t, "mystical-purple", cfg.CurrentTheme)
	assert.Equal(t, "https://ipfs.io", cfg.IPFSGateway)
	assert.Equal(t, "https://testnet.evm.nodes.onflow.org", cfg.RPCEndpoints.Flow)
	assert.Equal(t, []string{"mystical-purple"}, applier.applied)
}

func TestLoadMergesOverDefaults(t *testing.T) {
	kv := memKV{StorageKey: []byte(`{"currentTheme":"moonlight","ensDomain":"seer.eth"}`)}
	m := NewManager(kv)
	require.NoError(t, m.Load(context.Background()))

	assert.Equal(t, "moonlight", m.CurrentTheme().ID)
	assert.Equal(t, "seer.eth", m.Config().ENSDomain)
	assert.Len(t, m.Config().Themes, 4)
	assert.Equal(t, "https://api.filecoin.io", m.Config().RPCEndpoints.Filecoin)

	// stored themes replace the defaults whole
	kv = memKV{StorageKey: []byte(`{
		"tarotThemes": [{"id": "custom", "name": "Custom", "colors": {"primary": "#112233", "secondary": "#445566", "accent": "#778899", "background": "#000000", "text": "#ffffff"}}],
		"currentTheme": "custom"
	}`)}
	m = NewManager(kv)
	require.NoError(t, m.Load(context.Background()))

	cfg := m.Config()
	require.Len(t, cfg.Themes, 1)
	custom := m.CurrentTheme()
	assert.Equal(t, "custom", custom.ID)
	assert.Empty(t, custom.Description)
	assert.Empty(t, custom.FontFamily)
	assert.Nil(t, custom.Animations)
	assert.Equal(t, "#112233", custom.Colors.Primary)
	assert.Equal(t, Default().RPCEndpoints, cfg.RPCEndpoints)
	assert.Equal(t, Default().IPFSGateway, cfg.IPFSGateway)
}

func TestMergeReplacesTopLevelKeys(t *testing.T) {
	cfg, err := Merge([]byte(`{"rpcEndpoints": {"flow": "https://flow.example"}}`))
	require.NoError(t, err)
	assert.Equal(t, RPCEndpoints{Flow: "https://flow.example"}, cfg.RPCEndpoints)
	assert.Equal(t, Default().Themes, cfg.Themes)

	cfg, err = Merge([]byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Merge([]byte(`[1, 2]`))
	assert.Error(t, err)
}

func TestLoadCorruptFallsBack(t *testing.T) {
	m := NewManager(memKV{StorageKey: []byte(`{not json`)})
	require.NoError(t, m.Load(context.Background()))
	assert.Equal(t, Default(), m.Config())
}

func TestSetTheme(t *testing.T) {
	ctx := context.Background()
	kv := memKV{}
	applier := &recordingApplier{}
	m := NewManager(kv, WithApplier(applier))

	require.NoError(t, m.SetTheme(ctx, "golden-dawn"))
	assert.Equal(t, "golden-dawn", m.CurrentTheme().ID)
	assert.Equal(t, []string{"golden-dawn"}, applier.applied)

	err := m.SetTheme(ctx, "neon")
	assert.ErrorIs(t, err, ErrUnknownTheme)
	assert.Equal(t, "golden-dawn", m.CurrentTheme().ID)

	reloaded := NewManager(kv)
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, "golden-dawn", reloaded.CurrentTheme().ID)
}

func TestCurrentThemeFallsBackToFirst(t *testing.T) {
	m := NewManager(memKV{StorageKey: []byte(`{"currentTheme":"gone"}`)})
	require.NoError(t, m.Load(context.Background()))
	assert.Equal(t, "mystical-purple", m.CurrentTheme().ID)
}

func TestEndpointsAndDomains(t *testing.T) {
	ctx := context.Background()
	kv := memKV{}
	m := NewManager(kv)

	require.NoError(t, m.UpdateRPCEndpoint(ctx, ChainFilecoin, "https://node.example"))
	assert.ErrorIs(t, m.UpdateRPCEndpoint(ctx, "solana", "https://x"), ErrUnknownChain)
	require.NoError(t, m.SetENSDomain(ctx, "tarot.eth"))
	require.NoError(t, m.SetIPFSGateway(ctx, "https://dweb.link"))

	var stored Config
	require.NoError(t, kv.GetJSON(ctx, StorageKey, &stored))
	assert.Equal(t, "https://node.example", stored.RPCEndpoints.Filecoin)
	assert.Equal(t, "tarot.eth", stored.ENSDomain)
	assert.Equal(t, "https://dweb.link", stored.IPFSGateway)

	assert.ErrorIs(t, m.LoadFromENS(ctx, "tarot.eth"), ErrENSUnsupported)
}

func TestIPFSRoundTrip(t *testing.T) {
	var published []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v0/add":
			file, _, err := r.FormFile("file")
			require.NoError(t, err)
			published, _ = io.ReadAll(file)
			fmt.Fprint(w, `{"Hash":"QmSettings"}`)
		case "/ipfs/QmSettings":
			w.Write(published)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	client := ipfs.NewClient(srv.URL, ipfs.WithHTTPClient(srv.Client()))

	source := NewManager(memKV{}, WithIPFS(client))
	require.NoError(t, source.SetIPFSGateway(ctx, srv.URL))
	require.NoError(t, source.SetTheme(ctx, "earth-mother"))
	cid, err := source.SaveToIPFS(ctx)
	require.NoError(t, err)
	assert.Equal(t, "QmSettings", cid)

	applier := &recordingApplier{}
	target := NewManager(memKV{}, WithIPFS(client), WithApplier(applier))
	require.NoError(t, target.SetIPFSGateway(ctx, srv.URL))
	require.NoError(t, target.LoadFromIPFS(ctx, cid))
	assert.Equal(t, "earth-mother", target.CurrentTheme().ID)
	assert.Equal(t, []string{"earth-mother"}, applier.applied)

	assert.Error(t, target.LoadFromIPFS(ctx, "QmMissing"))
	assert.Equal(t, "earth-mother", target.CurrentTheme().ID)
}

func TestTerminalApplier(t *testing.T) {
	a := &TerminalApplier{}
	theme, ok := Default().Theme("moonlight")
	require.True(t, ok)
	a.ApplyTheme(theme)
	assert.Equal(t, "moonlight", a.Theme().ID)
	assert.NotEmpty(t, a.Palette().Title.Render("The Moon"))
}
