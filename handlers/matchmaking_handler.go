package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rufinoratti/zonadepor-api/middleware"
	"github.com/rufinoratti/zonadepor-api/models"
	"github.com/rufinoratti/zonadepor-api/services"
)

type MatchmakingHandler struct {
	matchmakingService services.MatchmakingService
}

func NewMatchmakingHandler(matchmakingService services.MatchmakingService) *MatchmakingHandler {
	return &MatchmakingHandler{matchmakingService: matchmakingService}
}

// Execute запускает стратегию подбора и возвращает число приглашённых.
// Стратегия берётся из тела запроса; по умолчанию — стратегия самого партида
// не подставляется, ZONA считается разумным дефолтом.
func (h *MatchmakingHandler) Execute(w http.ResponseWriter, r *http.Request) {
	callerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	matchID := chi.URLParam(r, "partidoID")

	var input struct {
		Strategy string `json:"tipoEstrategia"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	strategy := models.StrategyZone
	if input.Strategy != "" {
		strategy = models.MatchmakingStrategy(input.Strategy)
	}

	notified, err := h.matchmakingService.Execute(r.Context(), matchID, callerID, strategy)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{
		"invitados": notified,
	})
}
