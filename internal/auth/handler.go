package auth

import (
	"encoding/json"
	"net/http"

	"log/slog"
)

type LoginHandler struct {
	Service *Service
	Logger  *slog.Logger
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        *User  `json:"user"`
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		http.Error(w, "email and password are required", http.StatusBadRequest)
		return
	}
	user, token, err := h.Service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		http.Error(w, "incorrect email or password", http.StatusUnauthorized)
		return
	}
	h.Logger.Info("login", "user_id", user.ID, "role", user.Role)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(loginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	})
}
