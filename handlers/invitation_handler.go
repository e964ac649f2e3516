package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rufinoratti/zonadepor-api/middleware"
	"github.com/rufinoratti/zonadepor-api/services"
)

type InvitationHandler struct {
	invitationService services.InvitationService
}

func NewInvitationHandler(invitationService services.InvitationService) *InvitationHandler {
	return &InvitationHandler{invitationService: invitationService}
}

func (h *InvitationHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	callerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	userID := chi.URLParam(r, "usuarioID")
	// Чужие приглашения не видны.
	if userID != callerID {
		writeError(w, http.StatusForbidden, "cannot view another user's invitations")
		return
	}

	invitations, err := h.invitationService.ListForUser(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, invitations)
}

// Accept принимает приглашение: пользователь входит в партид обычным путём,
// со всеми проверками вместимости и статуса.
func (h *InvitationHandler) Accept(w http.ResponseWriter, r *http.Request) {
	callerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	invitationID := chi.URLParam(r, "invitacionID")

	participant, err := h.invitationService.Accept(r.Context(), invitationID, callerID)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, participant)
}

func (h *InvitationHandler) Reject(w http.ResponseWriter, r *http.Request) {
	callerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	invitationID := chi.URLParam(r, "invitacionID")

	if err := h.invitationService.Reject(r.Context(), invitationID, callerID); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	writeSuccessMessage(w, http.StatusOK, "invitación rechazada")
}
