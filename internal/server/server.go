// Package server exposes the deck, the reading ledger and the settings over
// a JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/arcanaland/seer/internal/card"
	"github.com/arcanaland/seer/internal/deck"
	"github.com/arcanaland/seer/internal/knowledge"
	"github.com/arcanaland/seer/internal/ledger"
	"github.com/arcanaland/seer/internal/metrics"
	"github.com/arcanaland/seer/internal/settings"
)

const maxBodyBytes = 64 << 10

// Default write limits: sustained requests per second and burst
const (
	DefaultRate  = 5
	DefaultBurst = 20
)

// Deps are the services the API serves
type Deps struct {
	Engine   *deck.Engine
	Ledger   *ledger.Client
	Settings *settings.Manager
	Metrics  metrics.Recorder
	// Gatherer backs GET /metrics; the route is omitted when nil
	Gatherer prometheus.Gatherer
	Logger   *zap.Logger
	// Limiter guards draws and ledger writes
	Limiter *rate.Limiter
}

type api struct {
	deps Deps

	// Engine and Manager are not safe for concurrent use
	deckMu     sync.Mutex
	settingsMu sync.Mutex
}

// NewRouter builds the chi router for the API
func NewRouter(deps Deps) http.Handler {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.Nop{}
	}
	if deps.Limiter == nil {
		deps.Limiter = rate.NewLimiter(DefaultRate, DefaultBurst)
	}
	if deps.Engine == nil {
		deps.Engine = deck.NewDefaultEngine()
	}
	a := &api{deps: deps}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(observe(deps.Logger, deps.Metrics))

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/cards", a.listCards)
		r.Get("/cards/{card}", a.getCard)
		r.Get("/spreads", a.listSpreads)
		r.With(limit(deps.Limiter, deps.Logger)).Post("/draw", a.draw)

		r.Route("/readings", func(r chi.Router) {
			r.With(limit(deps.Limiter, deps.Logger)).Post("/", a.startReading)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", a.getReading)
				r.With(limit(deps.Limiter, deps.Logger)).Post("/perform", a.performReading)
				r.With(limit(deps.Limiter, deps.Logger)).Post("/complete", a.completeReading)
			})
		})

		r.Get("/profiles/{address}", a.getProfile)
		r.With(limit(deps.Limiter, deps.Logger)).Put("/profile/spread", a.setFavoriteSpread)
		r.Get("/daily", a.daily)

		if deps.Settings != nil {
			r.Get("/theme", a.getTheme)
			r.Put("/theme", a.setTheme)
		}
	})

	return r
}

// Serve runs handler on addr until ctx is canceled, then shuts down
// gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (a *api) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		a.deps.Logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", RequestIDFromContext(r.Context())),
			zap.Error(err),
		)
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Code: code})
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

func sessionParam(r *http.Request) (ledger.SessionID, error) {
	id, err := ledger.ParseSessionID(chi.URLParam(r, "id"))
	if err != nil {
		return ledger.SessionID{}, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return id, nil
}

func (a *api) listCards(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, deck.Catalog())
}

func (a *api) getCard(w http.ResponseWriter, r *http.Request) {
	c, err := deck.Lookup(chi.URLParam(r, "card"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	meaning, _ := knowledge.GetMeaning(c.Name)
	writeJSON(w, http.StatusOK, struct {
		card.Card
		Meaning knowledge.Meaning `json:"meaning"`
	}{c, meaning})
}

func (a *api) listSpreads(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, knowledge.Spreads())
}

type drawRequest struct {
	Count  int    `json:"count"`
	Spread string `json:"spread,omitempty"`
}

type positionedCard struct {
	Position string    `json:"position"`
	Card     card.Card `json:"card"`
}

type drawResponse struct {
	Spread string           `json:"spread,omitempty"`
	Cards  []positionedCard `json:"cards"`
}

func (a *api) draw(w http.ResponseWriter, r *http.Request) {
	var req drawRequest
	if err := decode(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}

	var spread knowledge.Spread
	if req.Spread != "" {
		s, ok := knowledge.GetSpread(req.Spread)
		if !ok {
			a.fail(w, r, fmt.Errorf("%w: unknown spread %q", errBadRequest, req.Spread))
			return
		}
		spread = s
		if req.Count == 0 {
			req.Count = s.TotalCards
		}
	}

	a.deckMu.Lock()
	cards, err := a.deps.Engine.DrawCards(req.Count)
	a.deckMu.Unlock()
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.deps.Metrics.RecordDraw(cards)

	resp := drawResponse{Spread: spread.Name, Cards: make([]positionedCard, len(cards))}
	for i, c := range cards {
		resp.Cards[i] = positionedCard{Position: spread.Label(i), Card: c}
	}
	writeJSON(w, http.StatusOK, resp)
}

type sessionView struct {
	ledger.ReadingSession
	State string             `json:"state"`
	Drawn []ledger.DrawnCard `json:"drawnCards"`
}

func (a *api) writeSession(w http.ResponseWriter, r *http.Request, status int, id ledger.SessionID) {
	session, err := a.deps.Ledger.GetReadingSession(r.Context(), id)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, status, sessionView{
		ReadingSession: session,
		State:          session.State().String(),
		Drawn:          session.DrawnCards(),
	})
}

func (a *api) startReading(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question string `json:"question"`
	}
	if err := decode(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	id, err := a.deps.Ledger.StartReading(r.Context(), req.Question)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/readings/"+id.String())
	a.writeSession(w, r, http.StatusCreated, id)
}

func (a *api) performReading(w http.ResponseWriter, r *http.Request) {
	id, err := sessionParam(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	var req struct {
		Count int `json:"count"`
	}
	if err := decode(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	if err := a.deps.Ledger.PerformReading(r.Context(), id, req.Count); err != nil {
		a.fail(w, r, err)
		return
	}
	a.writeSession(w, r, http.StatusOK, id)
}

func (a *api) completeReading(w http.ResponseWriter, r *http.Request) {
	id, err := sessionParam(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	var req struct {
		Interpretation string `json:"interpretation"`
	}
	if err := decode(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	if err := a.deps.Ledger.CompleteReading(r.Context(), id, req.Interpretation); err != nil {
		a.fail(w, r, err)
		return
	}
	a.writeSession(w, r, http.StatusOK, id)
}

func (a *api) getReading(w http.ResponseWriter, r *http.Request) {
	id, err := sessionParam(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.writeSession(w, r, http.StatusOK, id)
}

func (a *api) getProfile(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "address")
	if !common.IsHexAddress(raw) {
		a.fail(w, r, fmt.Errorf("%w: %q is not an address", errBadRequest, raw))
		return
	}
	profile, err := a.deps.Ledger.GetUserProfile(r.Context(), common.HexToAddress(raw))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (a *api) setFavoriteSpread(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Spread string `json:"spread"`
	}
	if err := decode(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	if err := a.deps.Ledger.SetFavoriteSpread(r.Context(), req.Spread); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) daily(w http.ResponseWriter, r *http.Request) {
	cards, err := a.deps.Ledger.GetDailyReading(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

func (a *api) getTheme(w http.ResponseWriter, r *http.Request) {
	a.settingsMu.Lock()
	theme := a.deps.Settings.CurrentTheme()
	a.settingsMu.Unlock()
	writeJSON(w, http.StatusOK, theme)
}

func (a *api) setTheme(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if err := decode(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}

	a.settingsMu.Lock()
	err := a.deps.Settings.SetTheme(r.Context(), req.ID)
	theme := a.deps.Settings.CurrentTheme()
	a.settingsMu.Unlock()
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, theme)
}
