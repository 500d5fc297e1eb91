package archive

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcanaland/seer/internal/ledger"
	"github.com/arcanaland/seer/internal/store"
)

func newArchive(t *testing.T) *Archive {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "seer.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	a := New(st, nil)
	a.now = func() time.Time { return time.UnixMilli(1700000000123) }
	return a
}

func sample(tags ...string) Reading {
	r := Reading{
		SessionID:      "0x01",
		Question:       "Should I change jobs?",
		Cards:          []string{"The Fool", "The Magician", "The Star"},
		Reversals:      []bool{false, true, false},
		Interpretation: "New beginnings and creative energy.",
		Timestamp:      1700000000,
		UserID:         "0xabc",
	}
	if len(tags) > 0 {
		r.Metadata = &Metadata{Spread: "Past-Present-Future", Tags: tags}
	}
	return r
}

func TestCIDFormat(t *testing.T) {
	cid := CID([]byte(`{"a":1}`))
	assert.True(t, strings.HasPrefix(cid, "bafybeih"))
	assert.Len(t, cid, len("bafybeih")+8)
	assert.Equal(t, cid, CID([]byte(`{"a":1}`)))
	assert.NotEqual(t, cid, CID([]byte(`{"a":2}`)))
}

func TestStoreAndRetrieveReading(t *testing.T) {
	ctx := context.Background()
	a := newArchive(t)

	cid, err := a.StoreReading(ctx, sample())
	require.NoError(t, err)

	got, err := a.RetrieveReading(ctx, cid)
	require.NoError(t, err)
	if diff := cmp.Diff(sample(), got); diff != "" {
		t.Errorf("reading mismatch (-want +got):\n%s", diff)
	}

	again, err := a.StoreReading(ctx, sample())
	require.NoError(t, err)
	assert.Equal(t, cid, again)

	readings, err := a.Readings(ctx)
	require.NoError(t, err)
	assert.Len(t, readings, 1)

	_, err = a.RetrieveReading(ctx, "bafybeihmissing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestKindsAreChecked(t *testing.T) {
	ctx := context.Background()
	a := newArchive(t)

	cids, err := a.StoreCardAssets(ctx, []CardAsset{
		{Name: "The Fool", ImageURL: "ipfs://fool", Category: "major"},
		{Name: "Ace of Cups", ImageURL: "ipfs://ace", Category: "minor", Suit: "cups"},
	})
	require.NoError(t, err)
	require.Len(t, cids, 2)

	asset, err := a.GetCardAsset(ctx, cids[1])
	require.NoError(t, err)
	assert.Equal(t, "cups", asset.Suit)

	_, err = a.RetrieveReading(ctx, cids[0])
	assert.ErrorIs(t, err, ErrWrongKind)
}

func TestUserHistory(t *testing.T) {
	ctx := context.Background()
	a := newArchive(t)

	cid, err := a.StoreUserHistory(ctx, "0xabc", []Reading{sample(), sample("public")})
	require.NoError(t, err)

	h, err := a.GetUserHistory(ctx, cid)
	require.NoError(t, err)
	assert.Equal(t, "0xabc", h.UserID)
	assert.Len(t, h.Readings, 2)
	assert.Equal(t, int64(1700000000123), h.LastUpdated)
}

func TestPublicArchiveKeepsOnlyPublicReadings(t *testing.T) {
	ctx := context.Background()
	a := newArchive(t)

	readings := []Reading{sample(), sample("public", "love"), sample("private")}
	cid, err := a.CreatePublicArchive(ctx, readings)
	require.NoError(t, err)

	p, err := a.GetPublicArchive(ctx, cid)
	require.NoError(t, err)
	assert.Equal(t, 3, p.TotalReadings)
	require.Len(t, p.Readings, 1)
	assert.True(t, p.Readings[0].IsPublic())
}

func TestFromSession(t *testing.T) {
	id, err := ledger.ParseSessionID("0x" + strings.Repeat("11", 32))
	require.NoError(t, err)
	r := FromSession(ledger.ReadingSession{
		SessionID: id,
		Question:  "q",
		Cards:     []string{"Death"},
		Reversals: []bool{true},
		Timestamp: 5,
	}, "0xabc")
	assert.Equal(t, id.String(), r.SessionID)
	assert.Equal(t, "0xabc", r.UserID)
	assert.False(t, r.IsPublic())
}
