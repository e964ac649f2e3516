package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rufinoratti/zonadepor-api/middleware"
	"github.com/rufinoratti/zonadepor-api/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "usuarioID")

	user, err := h.userService.GetProfileByID(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, user)
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	callerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	userID := chi.URLParam(r, "usuarioID")
	// Профиль редактирует только его владелец.
	if userID != callerID {
		writeError(w, http.StatusForbidden, "cannot edit another user's profile")
		return
	}

	var input services.UpdateProfileInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), userID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, user)
}

// UpdateFirebaseToken принимает push-токен клиента после логина.
func (h *UserHandler) UpdateFirebaseToken(w http.ResponseWriter, r *http.Request) {
	callerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	userID := chi.URLParam(r, "usuarioID")
	if userID != callerID {
		writeError(w, http.StatusForbidden, "cannot update another user's token")
		return
	}

	var input struct {
		Token string `json:"firebaseToken"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	if err := h.userService.UpdateFirebaseToken(r.Context(), userID, input.Token); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	writeSuccessMessage(w, http.StatusOK, "token actualizado")
}

const maxUploadSize = 5 << 20 // 5MB

// UploadAvatar принимает multipart/form-data с полем file.
func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	callerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	userID := chi.URLParam(r, "usuarioID")
	if userID != callerID {
		writeError(w, http.StatusForbidden, "cannot change another user's avatar")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		badRequestResponse(w, errors.New("request must be multipart/form-data with a file field"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		badRequestResponse(w, errors.New("file field is required"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	user, err := h.userService.UploadAvatar(r.Context(), userID, contentType, file)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, user)
}
