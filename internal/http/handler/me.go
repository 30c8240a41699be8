package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"jobpack/internal/auth"
	"jobpack/internal/export"
	"jobpack/internal/logger"
	"jobpack/internal/policy"
)

type MeHandler struct {
	Accounts export.Accounts
	Access   policy.AccessPolicy
	Logger   *slog.Logger
}

type meResp struct {
	UserID       uint64        `json:"user_id"`
	Email        string        `json:"email"`
	BusinessName string        `json:"businessName,omitempty"`
	PlanTier     policy.Tier   `json:"planTier"`
	PlanStatus   policy.Status `json:"planStatus"`
	IsAdmin      bool          `json:"isAdmin"`
	CanExport    bool          `json:"canExport"`
}

func (h *MeHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	u, err := h.Accounts.GetAccount(r.Context(), uid)
	if errors.Is(err, auth.ErrUserNotFound) {
		writeError(w, http.StatusUnauthorized, export.CodeNotAuthenticated, "Not authenticated")
		return
	}
	if err != nil {
		writeServiceError(w, logger.FromContext(r.Context(), h.Logger), err)
		return
	}

	writeJSON(w, http.StatusOK, meResp{
		UserID:       u.ID,
		Email:        u.Email,
		BusinessName: u.BusinessName,
		PlanTier:     u.PlanTier,
		PlanStatus:   u.PlanStatus,
		IsAdmin:      u.IsAdmin,
		CanExport:    h.Access.CanExport(u.Plan(), u.IsAdmin),
	})
}
