package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/iwvelando/finance-dashboard/internal/apperr"
	"github.com/iwvelando/finance-dashboard/internal/model"
	"github.com/iwvelando/finance-dashboard/internal/retirement"
	"github.com/iwvelando/finance-dashboard/pkg/validation"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type goalsResponse struct {
	model.RetirementGoals
	Warnings []string `json:"warnings,omitempty"`
}

type projectionResponse struct {
	Projections     []retirement.Projection `json:"projections"`
	CurrentNetWorth decimal.Decimal         `json:"currentNetWorth"`
	retirement.Evaluation
	Allocation retirement.MonthlyAllocation `json:"allocation"`
	Warnings   []string                     `json:"warnings,omitempty"`
}

func (h *Handler) handleGetGoals(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleGetGoals"

	goals, err := h.store.GetGoals(r.Context(), userID(r))
	if err != nil {
		h.respondErr(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, goals)
}

func (h *Handler) handleSaveGoals(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSaveGoals"

	var goals model.RetirementGoals
	if err := h.decodeJSON(w, r, &goals); err != nil {
		h.respondErr(w, err, op)
		return
	}
	goals.UserID = userID(r)

	warnings, err := validation.Goals(goals)
	if err != nil {
		h.respondErr(w, err, op)
		return
	}
	if err := h.store.SaveGoals(r.Context(), &goals); err != nil {
		h.respondErr(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, goalsResponse{RetirementGoals: goals, Warnings: warnings})
}

// handleProjection projects the stored goals. The latest net-worth snapshot,
// when one exists, replaces the goals' own current net worth.
func (h *Handler) handleProjection(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleProjection"

	rates, err := h.ratesFromQuery(r)
	if err != nil {
		h.respondErr(w, err, op)
		return
	}

	goals, err := h.store.GetGoals(r.Context(), userID(r))
	if err != nil {
		h.respondErr(w, err, op)
		return
	}

	latest, err := h.store.LatestSnapshot(r.Context(), goals.UserID)
	switch {
	case err == nil:
		goals.CurrentNetWorth = latest.NetWorth
	case errors.Is(err, apperr.ErrNotFound):
	default:
		h.respondErr(w, err, op)
		return
	}

	warnings := validation.GoalWarnings(goals)
	projections := retirement.Project(goals, rates)
	resp := projectionResponse{
		Projections:     projections,
		CurrentNetWorth: goals.CurrentNetWorth,
		Evaluation:      retirement.EvaluateGoal(projections, goals),
		Allocation:      retirement.AllocateMonthlySpend(goals),
		Warnings:        warnings,
	}

	h.logger.Debug("projection computed",
		zap.String("op", op),
		zap.Int("projections", len(projections)),
		zap.Bool("goalMet", resp.GoalMet),
	)
	h.writeJSON(w, http.StatusOK, resp)
}

// ratesFromQuery reads an optional comma-separated rates parameter, falling
// back to the configured rates.
func (h *Handler) ratesFromQuery(r *http.Request) ([]float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("rates"))
	if raw == "" {
		return h.currentRates(), nil
	}

	var rates []float64
	for _, part := range strings.Split(raw, ",") {
		rate, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil || rate <= -1 {
			return nil, apperr.NewValidationError("rates", "must be comma-separated decimals greater than -1")
		}
		rates = append(rates, rate)
	}
	return rates, nil
}
