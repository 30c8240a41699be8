package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"jobpack/internal/auth"
	"jobpack/internal/logger"
)

type UserStore interface {
	CreateUser(ctx context.Context, u *auth.User) error
	GetByEmail(ctx context.Context, email string) (*auth.User, error)
}

type AuthHandler struct {
	Users  UserStore
	JWT    *auth.JWT
	Logger *slog.Logger
}

type registerReq struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	BusinessName string `json:"businessName"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "bad json")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "invalid input")
		return
	}

	log := logger.FromContext(r.Context(), h.Logger)
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	u := auth.User{Email: req.Email, PasswordHash: hash, BusinessName: strings.TrimSpace(req.BusinessName)}
	if err := h.Users.CreateUser(r.Context(), &u); err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			writeError(w, http.StatusConflict, "EMAIL_TAKEN", "email already used")
			return
		}
		writeServiceError(w, log, err)
		return
	}

	h.issue(w, log, u.ID)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "bad json")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "invalid input")
		return
	}

	log := logger.FromContext(r.Context(), h.Logger)
	u, err := h.Users.GetByEmail(r.Context(), req.Email)
	if errors.Is(err, auth.ErrUserNotFound) {
		writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials")
		return
	}
	if err != nil {
		writeServiceError(w, log, err)
		return
	}
	if !auth.ComparePassword(u.PasswordHash, req.Password) {
		writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials")
		return
	}

	h.issue(w, log, u.ID)
}

func (h *AuthHandler) issue(w http.ResponseWriter, log *slog.Logger, uid uint64) {
	token, err := h.JWT.Sign(uid)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": token})
}
