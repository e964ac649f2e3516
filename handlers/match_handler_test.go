package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/rufinoratti/zonadepor-api/middleware"
	"github.com/rufinoratti/zonadepor-api/models"
	"github.com/rufinoratti/zonadepor-api/repositories"
	"github.com/rufinoratti/zonadepor-api/services"
)

type fakeMatchService struct {
	services.MatchService
	matches []models.Match
}

func (f *fakeMatchService) ListMatches(ctx context.Context, filter repositories.ListMatchesFilter) ([]models.Match, error) {
	return f.matches, nil
}

type fakeMembershipService struct {
	joinErr     error
	participant *models.Participant
}

func (f *fakeMembershipService) Join(ctx context.Context, matchID, callerID string, input services.JoinMatchInput) (*models.Participant, error) {
	if f.joinErr != nil {
		return nil, f.joinErr
	}
	return f.participant, nil
}

func (f *fakeMembershipService) Leave(ctx context.Context, matchID, callerID string, input services.LeaveMatchInput) error {
	return nil
}

func newMatchRouter(matchService services.MatchService, membershipService services.MembershipService, userID string) *chi.Mux {
	h := NewMatchHandler(matchService, membershipService)

	router := chi.NewRouter()
	if userID != "" {
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(middleware.ContextWithUserID(r.Context(), userID)))
			})
		})
	}
	router.Get("/partidos", h.List)
	router.Post("/partidos/{partidoID}/unirse", h.Join)
	return router
}

func TestListMatchesAppliesQueryFilters(t *testing.T) {
	matchService := &fakeMatchService{matches: []models.Match{
		{ID: "m-1", SportID: "futbol", Address: "Club Palermo", MinLevel: 1, Status: models.StatusNeedsPlayers},
		{ID: "m-2", SportID: "futbol", Address: "Cancha Belgrano", MinLevel: 2, Status: models.StatusNeedsPlayers},
		{ID: "m-3", SportID: "padel", Address: "Club Palermo", MinLevel: 2, Status: models.StatusNeedsPlayers},
	}}
	router := newMatchRouter(matchService, &fakeMembershipService{}, "")

	req := httptest.NewRequest(http.MethodGet, "/partidos?sport=futbol&level=2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var envelope struct {
		Success bool           `json:"success"`
		Data    []models.Match `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !envelope.Success {
		t.Error("expected success envelope")
	}
	if len(envelope.Data) != 1 || envelope.Data[0].ID != "m-2" {
		t.Errorf("filtered matches = %+v, want only m-2", envelope.Data)
	}
}

func TestListMatchesRejectsUnknownStatus(t *testing.T) {
	router := newMatchRouter(&fakeMatchService{}, &fakeMembershipService{}, "")

	req := httptest.NewRequest(http.MethodGet, "/partidos?status=SUSPENDIDO", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestJoinRequiresAuthentication(t *testing.T) {
	router := newMatchRouter(&fakeMatchService{}, &fakeMembershipService{}, "")

	req := httptest.NewRequest(http.MethodPost, "/partidos/m-1/unirse", strings.NewReader(`{"usuarioId":"user-1"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestJoinMapsServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		joinErr    error
		wantStatus int
	}{
		{name: "full match", joinErr: services.ErrMatchFull, wantStatus: http.StatusConflict},
		{name: "already joined", joinErr: services.ErrAlreadyJoined, wantStatus: http.StatusConflict},
		{name: "organizer", joinErr: services.ErrOrganizerCannotJoin, wantStatus: http.StatusForbidden},
		{name: "missing match", joinErr: services.ErrMatchNotFound, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newMatchRouter(&fakeMatchService{}, &fakeMembershipService{joinErr: tt.joinErr}, "user-1")

			req := httptest.NewRequest(http.MethodPost, "/partidos/m-1/unirse", strings.NewReader(`{"usuarioId":"user-1"}`))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var envelope struct {
				Success bool   `json:"success"`
				Message string `json:"message"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
				t.Fatalf("unmarshal response: %v", err)
			}
			if envelope.Success {
				t.Error("error envelope must have success=false")
			}
			if envelope.Message == "" {
				t.Error("error envelope must carry a message")
			}
		})
	}
}

func TestJoinReturnsParticipant(t *testing.T) {
	membershipService := &fakeMembershipService{
		participant: &models.Participant{ID: "p-1", MatchID: "m-1", UserID: "user-1", Team: models.SideA},
	}
	router := newMatchRouter(&fakeMatchService{}, membershipService, "user-1")

	req := httptest.NewRequest(http.MethodPost, "/partidos/m-1/unirse", strings.NewReader(`{"usuarioId":"user-1"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusCreated)
	}

	var envelope struct {
		Success bool               `json:"success"`
		Data    models.Participant `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.Team != models.SideA {
		t.Errorf("team = %s, want %s", envelope.Data.Team, models.SideA)
	}
}
