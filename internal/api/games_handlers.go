package api

import (
	"net/http"
	"strconv"

	"github.com/fastprodman/pokerledger/internal/repos/games"
	gamessvc "github.com/fastprodman/pokerledger/internal/services/games"
)

// CreateGameHandler handles POST /games
func (h *HandlerProvider) CreateGameHandler(w http.ResponseWriter, r *http.Request) {
	var req gameRequest

	err := decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	in, err := req.toNewGame()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	g, err := h.games.CreateGame(r.Context(), in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toGameDTO(g))
}

// ListGamesHandler handles GET /games?settled=true
func (h *HandlerProvider) ListGamesHandler(w http.ResponseWriter, r *http.Request) {
	var filter games.ListFilter

	if raw := r.URL.Query().Get("settled"); raw != "" {
		settled, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid settled filter")
			return
		}

		filter.SettledOnly = settled
	}

	list, err := h.games.ListGames(r.Context(), filter)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	out := make([]gameDTO, 0, len(list))
	for _, g := range list {
		out = append(out, toGameDTO(g))
	}

	writeJSON(w, http.StatusOK, out)
}

// GetGameHandler handles GET /games/{gameId}
func (h *HandlerProvider) GetGameHandler(w http.ResponseWriter, r *http.Request) {
	gameID, err := parseIDParam(r, "gameId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid gameId in path")
		return
	}

	g, err := h.games.GetGame(r.Context(), gameID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toGameDTO(g))
}

// DeleteGameHandler handles DELETE /games/{gameId}
func (h *HandlerProvider) DeleteGameHandler(w http.ResponseWriter, r *http.Request) {
	gameID, err := parseIDParam(r, "gameId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid gameId in path")
		return
	}

	err = h.games.DeleteGame(r.Context(), gameID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdatePlayerHandler handles PUT /games/{gameId}/players/{profileId}
func (h *HandlerProvider) UpdatePlayerHandler(w http.ResponseWriter, r *http.Request) {
	gameID, err := parseIDParam(r, "gameId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid gameId in path")
		return
	}

	profileID, err := parseIDParam(r, "profileId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid profileId in path")
		return
	}

	var req playerUpdateRequest

	err = decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	g, err := h.games.UpdatePlayer(r.Context(), gameID, profileID, gamessvc.PlayerUpdate{
		BuyIns:       req.BuyIns,
		ReturnBuyIns: req.ReturnBuyIns,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toGameDTO(g))
}

// AddSettlementHandler handles POST /games/{gameId}/settlements
func (h *HandlerProvider) AddSettlementHandler(w http.ResponseWriter, r *http.Request) {
	gameID, err := parseIDParam(r, "gameId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid gameId in path")
		return
	}

	var req manualSettlementRequest

	err = decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	amount, err := parseMoney("amount", req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	g, err := h.games.AddManualSettlement(r.Context(), gameID, gamessvc.ManualSettlement{
		From:   req.From,
		To:     req.To,
		Amount: amount,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toGameDTO(g))
}

// RemainingHandler handles GET /games/{gameId}/remaining
func (h *HandlerProvider) RemainingHandler(w http.ResponseWriter, r *http.Request) {
	gameID, err := parseIDParam(r, "gameId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid gameId in path")
		return
	}

	remaining, err := h.games.Remaining(r.Context(), gameID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toRemainingDTO(remaining))
}

// SettleHandler handles POST /games/{gameId}/settle
func (h *HandlerProvider) SettleHandler(w http.ResponseWriter, r *http.Request) {
	gameID, err := parseIDParam(r, "gameId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid gameId in path")
		return
	}

	g, err := h.games.Settle(r.Context(), gameID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toGameDTO(g))
}

// StatsHandler handles GET /stats?profileId=1&profileId=2
func (h *HandlerProvider) StatsHandler(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query()["profileId"]
	ids := make([]uint64, 0, len(raw))

	for _, s := range raw {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil || id == 0 {
			writeError(w, http.StatusBadRequest, "invalid profileId filter")
			return
		}

		ids = append(ids, id)
	}

	stats, err := h.games.Stats(r.Context(), ids)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toStatDTOs(stats))
}
