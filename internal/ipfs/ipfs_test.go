package ipfs

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	Theme string `json:"theme"`
}

func newGateway(t *testing.T) (*httptest.Server, map[string][]byte) {
	t.Helper()
	blobs := map[string][]byte{}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v0/add", func(w http.ResponseWriter, r *http.Request) {
		file, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		data, _ := io.ReadAll(file)
		blobs["QmTest"] = data
		json.NewEncoder(w).Encode(map[string]string{"Name": "config.json", "Hash": "QmTest"})
	})
	mux.HandleFunc("GET /ipfs/{cid}", func(w http.ResponseWriter, r *http.Request) {
		data, ok := blobs[r.PathValue("cid")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write(data)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, blobs
}

func TestAddThenGet(t *testing.T) {
	srv, _ := newGateway(t)
	c := NewClient(srv.URL+"/", WithHTTPClient(srv.Client()))
	assert.Equal(t, srv.URL, c.Gateway())

	cid, err := c.Add(context.Background(), doc{Theme: "moonlight"})
	require.NoError(t, err)
	assert.Equal(t, "QmTest", cid)

	var got doc
	require.NoError(t, c.Get(context.Background(), cid, &got))
	assert.Equal(t, "moonlight", got.Theme)
}

func TestGetMissing(t *testing.T) {
	srv, _ := newGateway(t)
	c := NewClient(srv.URL, WithHTTPClient(srv.Client()))

	var got doc
	err := c.Get(context.Background(), "QmMissing", &got)
	assert.ErrorContains(t, err, "404")
	assert.Error(t, c.Get(context.Background(), "", &got))
}

func TestDefaultClientBlocksLoopback(t *testing.T) {
	srv, _ := newGateway(t)
	c := NewClient(srv.URL)

	var got doc
	assert.Error(t, c.Get(context.Background(), "QmTest", &got))
}

func TestWithGateway(t *testing.T) {
	c := NewClient("")
	assert.Equal(t, DefaultGateway, c.Gateway())
	other := c.WithGateway("https://dweb.link/")
	assert.Equal(t, "https://dweb.link", other.Gateway())
	assert.Same(t, c.http, other.http)
}

func TestAddThroughLocalNodeAPI(t *testing.T) {
	node, blobs := newGateway(t)
	c := NewClient("https://ipfs.io", WithAPI(node.URL+"/"))
	assert.Equal(t, "https://ipfs.io", c.Gateway())
	assert.Equal(t, node.URL, c.API())

	// the gateway stays guarded, the configured node does not
	cid, err := c.Add(context.Background(), doc{Theme: "golden-dawn"})
	require.NoError(t, err)
	assert.Equal(t, "QmTest", cid)
	assert.JSONEq(t, `{"theme":"golden-dawn"}`, string(blobs["QmTest"]))

	other := c.WithGateway("https://dweb.link")
	assert.Equal(t, node.URL, other.API())
	_, err = other.Add(context.Background(), doc{Theme: "moonlight"})
	require.NoError(t, err)
}

func TestAddWithoutAPIUsesGuardedGateway(t *testing.T) {
	gateway, _ := newGateway(t)
	c := NewClient(gateway.URL)
	assert.Equal(t, gateway.URL, c.API())

	_, err := c.Add(context.Background(), doc{Theme: "moonlight"})
	assert.Error(t, err)
}
