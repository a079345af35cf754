package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/iwvelando/finance-dashboard/internal/model"
	"github.com/iwvelando/finance-dashboard/pkg/validation"
	"go.uber.org/zap"
)

const aggregationDisabled = "account aggregation is not configured"

type linkRequest struct {
	PublicToken string `json:"publicToken" validate:"required"`
	Institution string `json:"institution" validate:"max=200"`
}

func (h *Handler) handleLinkToken(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleLinkToken"
	if h.provider == nil {
		h.respondErrorWithOp(w, http.StatusServiceUnavailable, aggregationDisabled, op)
		return
	}

	token, err := h.provider.CreateLinkToken(r.Context(), userID(r))
	if err != nil {
		h.respondErr(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"linkToken": token})
}

func (h *Handler) handleLinkAccount(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleLinkAccount"
	if h.provider == nil {
		h.respondErrorWithOp(w, http.StatusServiceUnavailable, aggregationDisabled, op)
		return
	}

	var req linkRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.respondErr(w, err, op)
		return
	}
	if err := validation.Struct(req); err != nil {
		h.respondErr(w, err, op)
		return
	}

	accessToken, itemID, err := h.provider.ExchangePublicToken(r.Context(), req.PublicToken)
	if err != nil {
		h.respondErr(w, err, op)
		return
	}

	item := model.LinkedItem{
		UserID:      userID(r),
		ItemID:      itemID,
		AccessToken: accessToken,
		Institution: req.Institution,
	}
	if err := h.store.SaveLinkedItem(r.Context(), &item); err != nil {
		h.respondErr(w, err, op)
		return
	}

	h.logger.Info("account linked",
		zap.String("op", op),
		zap.String("userId", item.UserID.String()),
		zap.String("itemId", item.ItemID),
	)
	h.writeJSON(w, http.StatusCreated, item)
}

func (h *Handler) handleSync(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSync"
	if h.syncer == nil {
		h.respondErrorWithOp(w, http.StatusServiceUnavailable, aggregationDisabled, op)
		return
	}

	snap, err := h.syncer.SyncUser(r.Context(), userID(r))
	if err != nil {
		h.respondErr(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, snap)
}

// handleImportOFX records a snapshot from an uploaded OFX statement.
func (h *Handler) handleImportOFX(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleImportOFX"

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, "missing statement file", op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	snap, err := h.parser.Snapshot(file, userID(r), h.now())
	if err != nil {
		h.respondErr(w, err, op)
		return
	}
	if err := h.store.SaveSnapshot(r.Context(), &snap); err != nil {
		h.respondErr(w, err, op)
		return
	}

	h.logger.Info("statement imported",
		zap.String("op", op),
		zap.String("filename", header.Filename),
		zap.String("netWorth", snap.NetWorth.StringFixed(2)),
	)
	h.writeJSON(w, http.StatusCreated, snap)
}
