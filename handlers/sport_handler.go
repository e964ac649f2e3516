package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rufinoratti/zonadepor-api/services"
)

type SportHandler struct {
	sportService services.SportService
}

func NewSportHandler(sportService services.SportService) *SportHandler {
	return &SportHandler{sportService: sportService}
}

func (h *SportHandler) List(w http.ResponseWriter, r *http.Request) {
	sports, err := h.sportService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, sports)
}

func (h *SportHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name string `json:"nombre"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	sport, err := h.sportService.Create(r.Context(), input.Name)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, sport)
}

func (h *SportHandler) UploadIcon(w http.ResponseWriter, r *http.Request) {
	sportID := chi.URLParam(r, "deporteID")

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

	sport, err := h.sportService.UploadIcon(r.Context(), sportID, contentType, file)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, sport)
}
