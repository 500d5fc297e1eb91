// Package archive keeps content-addressed copies of readings, card assets
// and reading histories in the local store.
package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"github.com/arcanaland/seer/internal/ledger"
)

// Content kinds
const (
	KindReading       = "reading"
	KindCardAsset     = "card-asset"
	KindHistory       = "history"
	KindPublicArchive = "public-archive"
)

// PublicTag marks a reading as consenting to the public archive
const PublicTag = "public"

const cidPrefix = "bafybeih"

// ErrWrongKind is returned when a CID holds a different kind of document
var ErrWrongKind = errors.New("content is of a different kind")

// Metadata is optional reading context
type Metadata struct {
	Spread string   `json:"spread" yaml:"spread"`
	Mood   string   `json:"mood" yaml:"mood"`
	Tags   []string `json:"tags" yaml:"tags"`
}

// Reading is an archived reading
type Reading struct {
	SessionID      string    `json:"sessionId" yaml:"session_id"`
	Question       string    `json:"question" yaml:"question"`
	Cards          []string  `json:"cards" yaml:"cards"`
	Reversals      []bool    `json:"reversals" yaml:"reversals"`
	Interpretation string    `json:"interpretation" yaml:"interpretation"`
	Timestamp      int64     `json:"timestamp" yaml:"timestamp"`
	UserID         string    `json:"userId" yaml:"user_id"`
	Metadata       *Metadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// IsPublic reports whether the reading carries the public tag
func (r Reading) IsPublic() bool {
	return r.Metadata != nil && slices.Contains(r.Metadata.Tags, PublicTag)
}

// FromSession converts a ledger session into an archivable reading
func FromSession(s ledger.ReadingSession, userID string) Reading {
	return Reading{
		SessionID:      s.SessionID.String(),
		Question:       s.Question,
		Cards:          s.Cards,
		Reversals:      s.Reversals,
		Interpretation: s.Interpretation,
		Timestamp:      s.Timestamp,
		UserID:         userID,
	}
}

// CardAsset describes artwork for one card
type CardAsset struct {
	Name        string `json:"name" yaml:"name"`
	ImageURL    string `json:"imageUrl" yaml:"image_url"`
	Description string `json:"description" yaml:"description"`
	Category    string `json:"category" yaml:"category"`
	Suit        string `json:"suit,omitempty" yaml:"suit,omitempty"`
}

// History is a user's reading history snapshot
type History struct {
	UserID      string    `json:"userId" yaml:"user_id"`
	Readings    []Reading `json:"readings" yaml:"readings"`
	LastUpdated int64     `json:"lastUpdated" yaml:"last_updated"`
}

// PublicArchive holds the readings whose owners opted in
type PublicArchive struct {
	Readings      []Reading `json:"readings" yaml:"readings"`
	CreatedAt     int64     `json:"createdAt" yaml:"created_at"`
	TotalReadings int       `json:"totalReadings" yaml:"total_readings"`
}

// ContentStore is the content table. *store.Store satisfies it.
type ContentStore interface {
	PutContent(ctx context.Context, cid, kind string, body []byte) error
	GetContent(ctx context.Context, cid string) (string, []byte, error)
	ListContent(ctx context.Context, kind string) ([]string, error)
}

// Archive stores documents under CIDs derived from their JSON encoding
type Archive struct {
	content ContentStore
	now     func() time.Time
	logger  *zap.Logger
}

// New creates an archive over content
func New(content ContentStore, logger *zap.Logger) *Archive {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Archive{content: content, now: time.Now, logger: logger}
}

// CID returns the content id for body
func CID(body []byte) string {
	return cidPrefix + crypto.Keccak256Hash(body).Hex()[2:10]
}

// StoreReading archives a reading and returns its CID
func (a *Archive) StoreReading(ctx context.Context, r Reading) (string, error) {
	return a.put(ctx, KindReading, r)
}

// RetrieveReading loads an archived reading
func (a *Archive) RetrieveReading(ctx context.Context, cid string) (Reading, error) {
	var r Reading
	err := a.get(ctx, cid, KindReading, &r)
	return r, err
}

// Readings returns every archived reading, oldest first
func (a *Archive) Readings(ctx context.Context) ([]Reading, error) {
	cids, err := a.content.ListContent(ctx, KindReading)
	if err != nil {
		return nil, err
	}
	readings := make([]Reading, 0, len(cids))
	for _, cid := range cids {
		r, err := a.RetrieveReading(ctx, cid)
		if err != nil {
			return nil, err
		}
		readings = append(readings, r)
	}
	return readings, nil
}

// StoreCardAssets archives each asset and returns their CIDs in order
func (a *Archive) StoreCardAssets(ctx context.Context, assets []CardAsset) ([]string, error) {
	cids := make([]string, 0, len(assets))
	for _, asset := range assets {
		cid, err := a.put(ctx, KindCardAsset, asset)
		if err != nil {
			return nil, fmt.Errorf("failed to store asset %s: %w", asset.Name, err)
		}
		cids = append(cids, cid)
	}
	return cids, nil
}

// GetCardAsset loads an archived card asset
func (a *Archive) GetCardAsset(ctx context.Context, cid string) (CardAsset, error) {
	var asset CardAsset
	err := a.get(ctx, cid, KindCardAsset, &asset)
	return asset, err
}

// StoreUserHistory snapshots userID's readings
func (a *Archive) StoreUserHistory(ctx context.Context, userID string, readings []Reading) (string, error) {
	return a.put(ctx, KindHistory, History{
		UserID:      userID,
		Readings:    readings,
		LastUpdated: a.now().UnixMilli(),
	})
}

// GetUserHistory loads a history snapshot
func (a *Archive) GetUserHistory(ctx context.Context, cid string) (History, error) {
	var h History
	err := a.get(ctx, cid, KindHistory, &h)
	return h, err
}

// CreatePublicArchive stores the public subset of readings. TotalReadings
// counts all readings offered, public or not.
func (a *Archive) CreatePublicArchive(ctx context.Context, readings []Reading) (string, error) {
	public := make([]Reading, 0, len(readings))
	for _, r := range readings {
		if r.IsPublic() {
			public = append(public, r)
		}
	}
	return a.put(ctx, KindPublicArchive, PublicArchive{
		Readings:      public,
		CreatedAt:     a.now().UnixMilli(),
		TotalReadings: len(readings),
	})
}

// GetPublicArchive loads a public archive
func (a *Archive) GetPublicArchive(ctx context.Context, cid string) (PublicArchive, error) {
	var p PublicArchive
	err := a.get(ctx, cid, KindPublicArchive, &p)
	return p, err
}

func (a *Archive) put(ctx context.Context, kind string, v any) (string, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", kind, err)
	}
	cid := CID(body)
	if err := a.content.PutContent(ctx, cid, kind, body); err != nil {
		a.logger.Error("archive write failed", zap.String("kind", kind), zap.Error(err))
		return "", err
	}
	a.logger.Debug("archived", zap.String("kind", kind), zap.String("cid", cid))
	return cid, nil
}

func (a *Archive) get(ctx context.Context, cid, kind string, v any) error {
	gotKind, body, err := a.content.GetContent(ctx, cid)
	if err != nil {
		return err
	}
	if gotKind != kind {
		return fmt.Errorf("%w: %s is a %s, not a %s", ErrWrongKind, cid, gotKind, kind)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", cid, err)
	}
	return nil
}
