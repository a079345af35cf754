package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/iwvelando/finance-dashboard/internal/apperr"
	"github.com/iwvelando/finance-dashboard/internal/model"
	"github.com/iwvelando/finance-dashboard/pkg/validation"
	"github.com/shopspring/decimal"
)

type manualSnapshotRequest struct {
	Assets      decimal.Decimal `json:"assets"`
	Liabilities decimal.Decimal `json:"liabilities"`
	RecordedAt  *time.Time      `json:"recordedAt,omitempty"`
}

type snapshotListResponse struct {
	Snapshots []model.NetWorthSnapshot `json:"snapshots"`
}

func (h *Handler) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleListSnapshots"

	snapshots, err := h.store.ListSnapshots(r.Context(), userID(r))
	if err != nil {
		h.respondErr(w, err, op)
		return
	}
	if snapshots == nil {
		snapshots = []model.NetWorthSnapshot{}
	}
	h.writeJSON(w, http.StatusOK, snapshotListResponse{Snapshots: snapshots})
}

func (h *Handler) handleCreateSnapshot(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCreateSnapshot"

	var req manualSnapshotRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.respondErr(w, err, op)
		return
	}

	at := h.now()
	if req.RecordedAt != nil && !req.RecordedAt.IsZero() {
		at = req.RecordedAt.UTC()
	}
	snap := model.NetWorthSnapshot{
		UserID:      userID(r),
		RecordedAt:  at,
		Assets:      req.Assets,
		Liabilities: req.Liabilities,
		NetWorth:    req.Assets.Sub(req.Liabilities),
		Source:      model.SourceManual,
	}
	if err := validation.Snapshot(snap); err != nil {
		h.respondErr(w, err, op)
		return
	}

	if err := h.store.SaveSnapshot(r.Context(), &snap); err != nil {
		h.respondErr(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusCreated, snap)
}

// handleComparison compares the user's net worth with their age bracket. The
// age comes from the query or the stored goals, and the net worth from the
// latest snapshot or the stored goals.
func (h *Handler) handleComparison(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleComparison"
	ctx := r.Context()
	uid := userID(r)

	goals, err := h.store.GetGoals(ctx, uid)
	haveGoals := err == nil
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		h.respondErr(w, err, op)
		return
	}

	age := goals.CurrentAge
	if raw := r.URL.Query().Get("age"); raw != "" {
		age, err = strconv.Atoi(raw)
		if err != nil || age < 0 {
			h.respondErr(w, apperr.NewValidationError("age", "must be a non-negative integer"), op)
			return
		}
	} else if !haveGoals {
		h.respondErr(w, apperr.NewValidationError("age", "is required when no retirement goals are saved"), op)
		return
	}

	netWorth := goals.CurrentNetWorth
	latest, err := h.store.LatestSnapshot(ctx, uid)
	switch {
	case err == nil:
		netWorth = latest.NetWorth
	case errors.Is(err, apperr.ErrNotFound):
	default:
		h.respondErr(w, err, op)
		return
	}

	h.writeJSON(w, http.StatusOK, h.currentBenchmarks().Compare(netWorth, age))
}
