package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/rufinoratti/zonadepor-api/services"
)

type AuthHandler struct {
	authService services.AuthService
	jwtSecret   []byte
}

func NewAuthHandler(authService services.AuthService, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		jwtSecret:   []byte(jwtSecret),
	}
}

// Signup регистрирует пользователя и сразу выдаёт токен, чтобы клиенту не
// пришлось логиниться вторым запросом.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var input services.SignupInput

	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	if input.Name == "" || input.Email == "" || input.Password == "" {
		badRequestResponse(w, errors.New("nombre, email and password are required"))
		return
	}

	user, err := h.authService.Signup(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	token, err := h.issueToken(user.ID)
	if err != nil {
		serverErrorResponse(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, map[string]interface{}{
		"usuario": user,
		"token":   token,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input services.LoginInput

	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	if input.Email == "" || input.Password == "" {
		badRequestResponse(w, errors.New("email and password are required"))
		return
	}

	user, err := h.authService.Login(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	token, err := h.issueToken(user.ID)
	if err != nil {
		serverErrorResponse(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]interface{}{
		"usuario": user,
		"token":   token,
	})
}

func (h *AuthHandler) issueToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(h.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}
