package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/iwvelando/finance-dashboard/internal/model"
)

// GetGoals returns the user's retirement goals.
func (s *SQLStore) GetGoals(ctx context.Context, userID uuid.UUID) (model.RetirementGoals, error) {
	g := model.RetirementGoals{UserID: userID}
	err := s.db.QueryRowContext(ctx,
		`SELECT current_age, retirement_age, monthly_spend, mortgage_pct, cars_pct, health_care_pct,
		        food_and_drinks_pct, travel_and_entertainment_pct, reinvested_funds_pct,
		        current_net_worth, annual_savings, updated_at
		 FROM retirement_goals WHERE user_id = $1`, userID).
		Scan(&g.CurrentAge, &g.RetirementAge, &g.MonthlySpend,
			&g.Mortgage, &g.Cars, &g.HealthCare, &g.FoodAndDrinks, &g.TravelAndEntertainment, &g.ReinvestedFunds,
			&g.CurrentNetWorth, &g.AnnualSavings, &g.UpdatedAt)
	if err != nil {
		return model.RetirementGoals{}, notFound(err, "retirement goals")
	}
	return g, nil
}

// SaveGoals inserts or replaces the user's retirement goals.
func (s *SQLStore) SaveGoals(ctx context.Context, g *model.RetirementGoals) error {
	g.UpdatedAt = s.now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO retirement_goals (user_id, current_age, retirement_age, monthly_spend, mortgage_pct, cars_pct,
		        health_care_pct, food_and_drinks_pct, travel_and_entertainment_pct, reinvested_funds_pct,
		        current_net_worth, annual_savings, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 ON CONFLICT (user_id) DO UPDATE SET
		        current_age = excluded.current_age,
		        retirement_age = excluded.retirement_age,
		        monthly_spend = excluded.monthly_spend,
		        mortgage_pct = excluded.mortgage_pct,
		        cars_pct = excluded.cars_pct,
		        health_care_pct = excluded.health_care_pct,
		        food_and_drinks_pct = excluded.food_and_drinks_pct,
		        travel_and_entertainment_pct = excluded.travel_and_entertainment_pct,
		        reinvested_funds_pct = excluded.reinvested_funds_pct,
		        current_net_worth = excluded.current_net_worth,
		        annual_savings = excluded.annual_savings,
		        updated_at = excluded.updated_at`,
		g.UserID, g.CurrentAge, g.RetirementAge, g.MonthlySpend,
		g.Mortgage, g.Cars, g.HealthCare, g.FoodAndDrinks, g.TravelAndEntertainment, g.ReinvestedFunds,
		g.CurrentNetWorth, g.AnnualSavings, g.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save retirement goals: %w", err)
	}
	return nil
}
