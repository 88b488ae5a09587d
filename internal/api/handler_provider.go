package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/fastprodman/pokerledger/internal/repos/games"
	"github.com/fastprodman/pokerledger/internal/repos/profiles"
	gamessvc "github.com/fastprodman/pokerledger/internal/services/games"
	profilessvc "github.com/fastprodman/pokerledger/internal/services/profiles"
	"github.com/fastprodman/pokerledger/internal/settlement"
	"github.com/go-chi/chi/v5"
)

type GamesService interface {
	CreateGame(ctx context.Context, in gamessvc.NewGame) (games.Game, error)
	GetGame(ctx context.Context, gameID uint64) (games.Game, error)
	ListGames(ctx context.Context, filter games.ListFilter) ([]games.Game, error)
	DeleteGame(ctx context.Context, gameID uint64) error
	UpdatePlayer(ctx context.Context, gameID, profileID uint64, upd gamessvc.PlayerUpdate) (games.Game, error)
	AddManualSettlement(ctx context.Context, gameID uint64, in gamessvc.ManualSettlement) (games.Game, error)
	Remaining(ctx context.Context, gameID uint64) ([]gamessvc.RemainingBalance, error)
	Settle(ctx context.Context, gameID uint64) (games.Game, error)
	Stats(ctx context.Context, profileIDs []uint64) ([]gamessvc.Stat, error)
}

type ProfilesService interface {
	Create(ctx context.Context, p profiles.Profile) (profiles.Profile, error)
	Get(ctx context.Context, id uint64) (profiles.Profile, error)
	List(ctx context.Context) ([]profiles.Profile, error)
	Update(ctx context.Context, p profiles.Profile) (profiles.Profile, error)
	Delete(ctx context.Context, id uint64) error
}

// HandlerProvider exposes the ledger services as HTTP handlers.
type HandlerProvider struct {
	games    GamesService
	profiles ProfilesService
	logger   *slog.Logger
}

func NewHandler(gamesSvc GamesService, profilesSvc ProfilesService, logger *slog.Logger) *HandlerProvider {
	if logger == nil {
		logger = slog.Default()
	}

	return &HandlerProvider{games: gamesSvc, profiles: profilesSvc, logger: logger}
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeServiceError maps domain errors to status codes.
func (h *HandlerProvider) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		incomplete *settlement.IncompleteDataError
		unbalanced *settlement.UnbalancedTotalsError
	)

	switch {
	case errors.As(err, &incomplete):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:   "missing return buy-ins",
			Players: incomplete.Names(),
		})
	case errors.As(err, &unbalanced):
		residual := unbalanced.Residual
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:    "buy-ins and return buy-ins do not balance",
			Residual: &residual,
			Hint:     unbalanced.Hint(),
		})
	case errors.Is(err, games.ErrGameNotFound):
		writeError(w, http.StatusNotFound, "game not found")
	case errors.Is(err, games.ErrPlayerNotFound):
		writeError(w, http.StatusNotFound, "player not in game")
	case errors.Is(err, profiles.ErrProfileNotFound):
		writeError(w, http.StatusNotFound, "profile not found")
	case errors.Is(err, gamessvc.ErrGameSettled):
		writeError(w, http.StatusConflict, "game already settled")
	case errors.Is(err, profiles.ErrProfileInUse):
		writeError(w, http.StatusConflict, "profile has played in a game")
	case errors.Is(err, gamessvc.ErrValidation),
		errors.Is(err, profilessvc.ErrValidation),
		errors.Is(err, settlement.ErrInvalidManualSettlement),
		errors.Is(err, games.ErrUnknownProfile),
		errors.Is(err, games.ErrDuplicatePlayer),
		errors.Is(err, games.ErrOutOfRange):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func parseIDParam(r *http.Request, name string) (uint64, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return 0, fmt.Errorf("missing %s", name)
	}

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}

	if id == 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", name)
	}

	return id, nil
}

// decodeJSON reads a single JSON object, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	//nolint:errcheck
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty body")
		}

		return errors.New("invalid JSON")
	}

	return nil
}
