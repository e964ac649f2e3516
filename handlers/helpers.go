package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/rufinoratti/zonadepor-api/services"
)

// Все ответы заворачиваются в конверт {success, data} / {success, message},
// который ожидает клиент.
type successEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

type errorEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case err.Error() == "http: request body too large":
			return fmt.Errorf("body must not be larger than %d bytes", maxBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err) // Паника, т.к. это ошибка программиста (передан не указатель)
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	js, err := json.Marshal(payload)
	if err != nil {
		slog.Error("failed to marshal response", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(js); err != nil {
		slog.Error("failed to write response", slog.Any("error", err))
	}
}

func writeSuccess(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, successEnvelope{Success: true, Data: data})
}

func writeSuccessMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, successEnvelope{Success: true, Message: message})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorEnvelope{Success: false, Message: message})
}

func badRequestResponse(w http.ResponseWriter, err error) {
	writeError(w, http.StatusBadRequest, err.Error())
}

func serverErrorResponse(w http.ResponseWriter, err error) {
	slog.Error("internal server error", slog.Any("error", err))
	writeError(w, http.StatusInternalServerError, "the server encountered a problem and could not process your request")
}

// mapServiceErrorToHTTP переводит сентинельные ошибки сервисов в HTTP-статусы.
// Незнакомая ошибка считается внутренней и логируется целиком, наружу уходит
// общий текст.
func mapServiceErrorToHTTP(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrMatchNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrSportNotFound),
		errors.Is(err, services.ErrZoneNotFound),
		errors.Is(err, services.ErrParticipantNotFound),
		errors.Is(err, services.ErrInvitationNotFound):
		writeError(w, http.StatusNotFound, err.Error())

	case errors.Is(err, services.ErrValidationFailed),
		errors.Is(err, services.ErrPasswordTooShort),
		errors.Is(err, services.ErrInvalidLevel),
		errors.Is(err, services.ErrInvalidLevelBand),
		errors.Is(err, services.ErrInvalidCapacity),
		errors.Is(err, services.ErrInvalidStrategy),
		errors.Is(err, services.ErrInvalidTeamSide),
		errors.Is(err, services.ErrInvalidWinner),
		errors.Is(err, services.ErrMatchInvalidStatus):
		writeError(w, http.StatusBadRequest, err.Error())

	case errors.Is(err, services.ErrAuthInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())

	case errors.Is(err, services.ErrNotOrganizer),
		errors.Is(err, services.ErrForbiddenOperation),
		errors.Is(err, services.ErrOrganizerCannotJoin):
		writeError(w, http.StatusForbidden, err.Error())

	case errors.Is(err, services.ErrAuthEmailTaken),
		errors.Is(err, services.ErrAlreadyJoined),
		errors.Is(err, services.ErrMatchFull),
		errors.Is(err, services.ErrMatchNotJoinable),
		errors.Is(err, services.ErrNotJoined),
		errors.Is(err, services.ErrMatchTerminal),
		errors.Is(err, services.ErrMatchNotInProgress),
		errors.Is(err, services.ErrMatchUpdateNotAllowed),
		errors.Is(err, services.ErrMatchInvalidStatusTransition),
		errors.Is(err, services.ErrInvitationNotPending):
		writeError(w, http.StatusConflict, err.Error())

	default:
		serverErrorResponse(w, err)
	}
}
