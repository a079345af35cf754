package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/iwvelando/finance-dashboard/internal/apperr"
	"github.com/iwvelando/finance-dashboard/internal/auth"
	"github.com/iwvelando/finance-dashboard/internal/model"
	"github.com/iwvelando/finance-dashboard/pkg/validation"
	"go.uber.org/zap"
)

type credentials struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleRegister"

	var req credentials
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.respondErr(w, err, op)
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validation.Struct(req); err != nil {
		h.respondErr(w, err, op)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.respondErr(w, err, op)
		return
	}

	user := model.User{Email: req.Email, PasswordHash: hash}
	if err := h.store.CreateUser(r.Context(), &user); err != nil {
		h.respondErr(w, err, op)
		return
	}

	h.logger.Info("user registered",
		zap.String("op", op),
		zap.String("userId", user.ID.String()),
	)
	h.writeJSON(w, http.StatusCreated, user)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleLogin"

	var req credentials
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.respondErr(w, err, op)
		return
	}
	if err := validation.Struct(req); err != nil {
		h.respondErr(w, err, op)
		return
	}

	user, err := h.store.GetUserByEmail(r.Context(), req.Email)
	if errors.Is(err, apperr.ErrNotFound) {
		h.respondErrorWithOp(w, http.StatusUnauthorized, "invalid email or password", op)
		return
	}
	if err != nil {
		h.respondErr(w, err, op)
		return
	}
	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		if errors.Is(err, apperr.ErrUnauthorized) {
			h.respondErrorWithOp(w, http.StatusUnauthorized, "invalid email or password", op)
			return
		}
		h.respondErr(w, err, op)
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.respondErr(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"token": token})
}
