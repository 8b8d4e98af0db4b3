package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"trench/internal/config"
	"trench/internal/game"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Server struct {
	cfg  config.APIConfig
	log  *slog.Logger
	game *game.Game
	hub  *Hub
	mux  *chi.Mux
}

func New(cfg config.APIConfig, logger *slog.Logger, g *game.Game, hub *Hub) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:  cfg,
		log:  logger,
		game: g,
		hub:  hub,
		mux:  chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	r := s.mux
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	r.Get("/ws", s.handleWS)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/game/start", s.handleStart)
		r.Get("/state", s.handleState)
		r.Post("/mood", s.handleMood)
		r.Post("/trades/open", s.handleOpenTrade)
		r.Post("/trades/close", s.handleCloseTrade)
		r.Post("/memecoins/launch", s.handleLaunchMemecoin)
		r.Post("/memecoins/rug", s.handleRugMemecoin)
		r.Post("/gambling/toggle", s.handleToggleGambling)
		r.Post("/upgrades/{kind}", s.handleUpgrade)
		r.Post("/day/sleep", s.handleSleep)
		r.Post("/day/wake", s.handleWake)
		r.Get("/events", s.handleEvents)
	})
}

func (s *Server) handleStart(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.game.Start())
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.game.Snapshot())
}

func (s *Server) handleMood(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mood string `json:"mood"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	mood := game.MoodNone
	if req.Mood != "" && req.Mood != "roll" {
		var err error
		if mood, err = game.ParseMood(req.Mood); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	selected, err := s.game.SelectMood(mood)
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"mood": selected, "state": s.game.Snapshot()})
}

func (s *Server) handleOpenTrade(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Coin string  `json:"coin"`
		Size float64 `json:"size"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	trade, err := s.game.OpenTrade(strings.ToUpper(strings.TrimSpace(req.Coin)), req.Size)
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, trade)
}

func (s *Server) handleCloseTrade(w http.ResponseWriter, _ *http.Request) {
	pnl, err := s.game.CloseTrade()
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"pnl": pnl, "state": s.game.Snapshot()})
}

func (s *Server) handleLaunchMemecoin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string  `json:"name"`
		Trend     string  `json:"trend"`
		Liquidity float64 `json:"liquidity"`
		IsRugPull bool    `json:"is_rug_pull"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	trend, err := game.ParseTrend(req.Trend)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	coin, err := s.game.LaunchMemecoin(game.MemecoinConfig{
		Name:             strings.ToUpper(strings.TrimSpace(req.Name)),
		Trend:            trend,
		InitialLiquidity: req.Liquidity,
		IsRugPull:        req.IsRugPull,
	})
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, coin)
}

func (s *Server) handleRugMemecoin(w http.ResponseWriter, _ *http.Request) {
	profit, err := s.game.RugMemecoin()
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"profit": profit, "state": s.game.Snapshot()})
}

func (s *Server) handleToggleGambling(w http.ResponseWriter, _ *http.Request) {
	on, err := s.game.ToggleGambling()
	if err != nil {
		s.writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"gambling_mode": on})
}

func (s *Server) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	kind, err := game.ParseUpgradeKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req struct {
		Username string `json:"username"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if err := s.game.Purchase(kind, req.Username); err != nil {
		s.writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"state": s.game.Snapshot()})
}

func (s *Server) handleSleep(w http.ResponseWriter, _ *http.Request) {
	if err := s.game.Sleep(); err != nil {
		s.writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.game.Snapshot())
}

func (s *Server) handleWake(w http.ResponseWriter, _ *http.Request) {
	if err := s.game.WakeUp(); err != nil {
		s.writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.game.Snapshot())
}

func (s *Server) handleEvents(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"events": s.game.Events().Recent()})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	s.hub.ServeWS(w, r)
}

// writeGameError maps the engine's sentinel errors onto HTTP statuses. Every
// guarded no-op comes back as a 4xx with the rejection reason.
func (s *Server) writeGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrGameOver):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, game.ErrWrongPhase),
		errors.Is(err, game.ErrTradeOpen),
		errors.Is(err, game.ErrCoinActive),
		errors.Is(err, game.ErrLaunchLimit),
		errors.Is(err, game.ErrAlreadyOwned):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, game.ErrInsufficientFunds):
		writeError(w, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, game.ErrFeatureLocked):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, game.ErrNoTrade),
		errors.Is(err, game.ErrNoMemecoin):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, game.ErrNotRuggable),
		errors.Is(err, game.ErrInvalidMood),
		errors.Is(err, game.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.log.Error("unhandled game error", "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": strings.TrimSpace(message)})
}
