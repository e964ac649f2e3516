package handlers

import (
	"net/http"

	"github.com/rufinoratti/zonadepor-api/services"
)

type ZoneHandler struct {
	zoneService services.ZoneService
}

func NewZoneHandler(zoneService services.ZoneService) *ZoneHandler {
	return &ZoneHandler{zoneService: zoneService}
}

func (h *ZoneHandler) List(w http.ResponseWriter, r *http.Request) {
	zones, err := h.zoneService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, zones)
}

func (h *ZoneHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name string `json:"nombre"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	zone, err := h.zoneService.Create(r.Context(), input.Name)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, zone)
}
