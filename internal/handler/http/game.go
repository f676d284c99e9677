package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gregroclawski/DataShatter/internal/domain"
	"github.com/gregroclawski/DataShatter/internal/service"
	"github.com/gregroclawski/DataShatter/pkg/httputil"
	"github.com/gregroclawski/DataShatter/pkg/middleware"
	"github.com/gregroclawski/DataShatter/pkg/validator"
)

// GameHandler handles HTTP requests for the game endpoints.
type GameHandler struct {
	saves       *service.SaveService
	leaderboard *service.LeaderboardService
	gacha       *service.GachaService
	events      *service.EventService
	logger      *slog.Logger
}

// NewGameHandler creates a new game HTTP handler.
func NewGameHandler(
	saves *service.SaveService,
	leaderboard *service.LeaderboardService,
	gacha *service.GachaService,
	events *service.EventService,
	logger *slog.Logger,
) *GameHandler {
	return &GameHandler{
		saves:       saves,
		leaderboard: leaderboard,
		gacha:       gacha,
		events:      events,
		logger:      logger,
	}
}

// --- Request DTOs ---

// SaveGameRequest is the JSON request body for saving game state. Field names
// follow the mobile client's wire format.
type SaveGameRequest struct {
	PlayerID         string             `json:"playerId" validate:"required"`
	Ninja            *domain.NinjaStats `json:"ninja" validate:"required"`
	Shurikens        []domain.Shuriken  `json:"shurikens"`
	Pets             []domain.Pet       `json:"pets"`
	Achievements     []string           `json:"achievements"`
	UnlockedFeatures []string           `json:"unlockedFeatures"`
}

// --- Response types ---

// leaderboardResponse wraps the top-players listing.
type leaderboardResponse struct {
	Leaderboard []domain.LeaderboardEntry `json:"leaderboard"`
}

// shurikenResponse wraps a freshly generated shuriken.
type shurikenResponse struct {
	Shuriken domain.Shuriken `json:"shuriken"`
}

// petResponse wraps a freshly generated pet.
type petResponse struct {
	Pet domain.Pet `json:"pet"`
}

// eventsResponse wraps the game events listing.
type eventsResponse struct {
	Events []domain.GameEvent `json:"events"`
}

// --- Handlers ---

// SaveGame handles POST /api/save-game
//
// The response is the stored save, so the client sees the server-assigned
// save ID, item IDs, and save timestamp.
func (h *GameHandler) SaveGame(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req SaveGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	save, err := h.saves.Save(r.Context(), middleware.PlayerIDFromContext(r.Context()), service.SaveGameInput{
		PlayerID:         req.PlayerID,
		Ninja:            *req.Ninja,
		Shurikens:        req.Shurikens,
		Pets:             req.Pets,
		Achievements:     req.Achievements,
		UnlockedFeatures: req.UnlockedFeatures,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, save)
}

// LoadGame handles GET /api/load-game/{playerId}
//
// A player who has never saved gets a JSON null body, which the client reads
// as "start a new game".
func (h *GameHandler) LoadGame(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "playerId")

	save, err := h.saves.Load(r.Context(), middleware.PlayerIDFromContext(r.Context()), playerID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	if save == nil {
		httputil.WriteJSON(w, http.StatusOK, nil)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, save)
}

// Leaderboard handles GET /api/leaderboard
func (h *GameHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.leaderboard.Top(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, leaderboardResponse{Leaderboard: entries})
}

// GenerateShuriken handles POST /api/generate-shuriken
func (h *GameHandler) GenerateShuriken(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, shurikenResponse{Shuriken: h.gacha.GenerateShuriken()})
}

// GeneratePet handles POST /api/generate-pet
func (h *GameHandler) GeneratePet(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, petResponse{Pet: h.gacha.GeneratePet()})
}

// GameEvents handles GET /api/game-events
func (h *GameHandler) GameEvents(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, eventsResponse{Events: h.events.List()})
}

// Root handles GET /api/
func (h *GameHandler) Root(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Ninja Master Mobile API"})
}
