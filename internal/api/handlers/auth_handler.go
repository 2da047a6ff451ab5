package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/studylens/studylens/internal/pkg/logger"
	"github.com/studylens/studylens/internal/services"
)

type AuthHandler struct {
	users     *services.UserService
	jwtSecret string
	log       *logger.Logger
}

func NewAuthHandler(users *services.UserService, jwtSecret string, log *logger.Logger) *AuthHandler {
	return &AuthHandler{users: users, jwtSecret: jwtSecret, log: log}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid body"})
		return
	}

	user, err := h.users.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrUsernameTaken) {
			writeJSON(w, http.StatusConflict, map[string]string{"message": "username already taken"})
			return
		}
		h.log.Error("signup failed", "err", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "failed to register user"})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"token": h.generateJWT(user.ID)})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid body"})
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid credentials"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": h.generateJWT(user.ID)})
}

// generateJWT creates a signed token with a user ID claim.
func (h *AuthHandler) generateJWT(userID string) string {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, _ := tok.SignedString([]byte(h.jwtSecret))
	return token
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
