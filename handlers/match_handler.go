package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rufinoratti/zonadepor-api/filters"
	"github.com/rufinoratti/zonadepor-api/middleware"
	"github.com/rufinoratti/zonadepor-api/models"
	"github.com/rufinoratti/zonadepor-api/repositories"
	"github.com/rufinoratti/zonadepor-api/services"
)

type MatchHandler struct {
	matchService      services.MatchService
	membershipService services.MembershipService
}

func NewMatchHandler(matchService services.MatchService, membershipService services.MembershipService) *MatchHandler {
	return &MatchHandler{
		matchService:      matchService,
		membershipService: membershipService,
	}
}

// List отдаёт партиды. SQL отсекает по deporteId/zonaId/estado, а текстовый
// фильтр по локации и уровню применяется пакетом filters поверх выборки.
func (h *MatchHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	repoFilter := repositories.ListMatchesFilter{}
	if zoneID := query.Get("zone"); zoneID != "" {
		repoFilter.ZoneID = &zoneID
	}
	if statusStr := query.Get("status"); statusStr != "" {
		status := models.ParseMatchStatus(statusStr)
		if status == models.StatusUnknown {
			writeError(w, http.StatusBadRequest, "unknown status value")
			return
		}
		repoFilter.Status = &status
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			repoFilter.Limit = limit
		}
	}
	if offsetStr := query.Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset > 0 {
			repoFilter.Offset = offset
		}
	}

	matches, err := h.matchService.ListMatches(r.Context(), repoFilter)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	if filter := filters.ParseQuery(query); !filter.IsZero() {
		matches = filter.Apply(matches)
	}

	writeSuccess(w, http.StatusOK, matches)
}

func (h *MatchHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	matchID := chi.URLParam(r, "partidoID")

	match, err := h.matchService.GetMatchByID(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, match)
}

func (h *MatchHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "usuarioID")

	matches, err := h.matchService.ListMatchesByUser(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, matches)
}

func (h *MatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	callerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var input services.CreateMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	match, err := h.matchService.CreateMatch(r.Context(), callerID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, match)
}

func (h *MatchHandler) Update(w http.ResponseWriter, r *http.Request) {
	callerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	matchID := chi.URLParam(r, "partidoID")

	var input services.UpdateMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	match, err := h.matchService.UpdateMatch(r.Context(), matchID, callerID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, match)
}

// ChangeStatus — ручной переход жизненного цикла (подтвердить, начать, отменить).
func (h *MatchHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	callerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	matchID := chi.URLParam(r, "partidoID")

	var input struct {
		Status string `json:"estado"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	match, err := h.matchService.ChangeStatus(r.Context(), matchID, callerID, models.MatchStatus(input.Status))
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, match)
}

// SetWinner завершает партид с результатом A, B или EMPATE.
func (h *MatchHandler) SetWinner(w http.ResponseWriter, r *http.Request) {
	callerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	matchID := chi.URLParam(r, "partidoID")

	var input struct {
		Winner string `json:"equipoGanador"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	match, err := h.matchService.SetWinner(r.Context(), matchID, callerID, models.MatchResult(input.Winner))
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, match)
}

func (h *MatchHandler) Join(w http.ResponseWriter, r *http.Request) {
	callerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	matchID := chi.URLParam(r, "partidoID")

	var input services.JoinMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	participant, err := h.membershipService.Join(r.Context(), matchID, callerID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, participant)
}

func (h *MatchHandler) Leave(w http.ResponseWriter, r *http.Request) {
	callerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	matchID := chi.URLParam(r, "partidoID")

	var input services.LeaveMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	if err := h.membershipService.Leave(r.Context(), matchID, callerID, input); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	writeSuccessMessage(w, http.StatusOK, "abandonaste el partido")
}
