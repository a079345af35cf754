package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/iwvelando/finance-dashboard/internal/model"
	"go.uber.org/zap"
)

const propertyColumns = `id, user_id, name, address, value, purchase_price, property_type, created_at, updated_at`

// ListProperties returns the user's properties ordered by name.
func (s *SQLStore) ListProperties(ctx context.Context, userID uuid.UUID) ([]model.Property, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+propertyColumns+` FROM properties WHERE user_id = $1 ORDER BY name, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}
	defer rows.Close()

	var properties []model.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		properties = append(properties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate properties: %w", err)
	}

	if len(properties) == 0 {
		return properties, nil
	}

	index := make(map[uuid.UUID]*model.Property, len(properties))
	for i := range properties {
		index[properties[i].ID] = &properties[i]
	}
	filter := `property_id IN (SELECT id FROM properties WHERE user_id = $1)`
	if err := s.loadDetails(ctx, filter, userID, index); err != nil {
		return nil, err
	}
	return properties, nil
}

// GetProperty returns one property owned by userID.
func (s *SQLStore) GetProperty(ctx context.Context, userID, id uuid.UUID) (model.Property, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+propertyColumns+` FROM properties WHERE id = $1 AND user_id = $2`, id, userID)
	p, err := scanProperty(row)
	if err != nil {
		return model.Property{}, notFound(err, "property")
	}

	index := map[uuid.UUID]*model.Property{p.ID: &p}
	if err := s.loadDetails(ctx, `property_id = $1`, p.ID, index); err != nil {
		return model.Property{}, err
	}
	return p, nil
}

// CreateProperty inserts p with its rent, income and expense history.
func (s *SQLStore) CreateProperty(ctx context.Context, p *model.Property) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := s.now()
	p.CreatedAt, p.UpdatedAt = now, now

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO properties (`+propertyColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			p.ID, p.UserID, p.Name, p.Address, p.Value, p.PurchasePrice, string(p.PropertyType), p.CreatedAt, p.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert property: %w", err)
		}
		return insertDetails(ctx, tx, p)
	})
}

// UpdateProperty replaces the stored record and its history.
func (s *SQLStore) UpdateProperty(ctx context.Context, p *model.Property) error {
	p.UpdatedAt = s.now()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE properties SET name = $1, address = $2, value = $3, purchase_price = $4, property_type = $5, updated_at = $6
			 WHERE id = $7 AND user_id = $8`,
			p.Name, p.Address, p.Value, p.PurchasePrice, string(p.PropertyType), p.UpdatedAt, p.ID, p.UserID)
		if err != nil {
			return fmt.Errorf("failed to update property: %w", err)
		}
		if err := expectOneRow(res, "property"); err != nil {
			return err
		}
		if err := deleteDetails(ctx, tx, p.ID); err != nil {
			return err
		}
		return insertDetails(ctx, tx, p)
	})
}

// DeleteProperty removes a property and its history.
func (s *SQLStore) DeleteProperty(ctx context.Context, userID, id uuid.UUID) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := deleteDetails(ctx, tx, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM properties WHERE id = $1 AND user_id = $2`, id, userID)
		if err != nil {
			return fmt.Errorf("failed to delete property: %w", err)
		}
		return expectOneRow(res, "property")
	})
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProperty(row rowScanner) (model.Property, error) {
	var (
		p            model.Property
		propertyType string
	)
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Address, &p.Value, &p.PurchasePrice, &propertyType, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return model.Property{}, err
	}
	p.PropertyType = model.PropertyType(propertyType)
	return p, nil
}

// loadDetails fills the rent ledger, income and expenses of every property in
// index whose rows match filter.
func (s *SQLStore) loadDetails(ctx context.Context, filter string, arg interface{}, index map[uuid.UUID]*model.Property) error {
	rentRows, err := s.db.QueryContext(ctx,
		`SELECT property_id, month, amount, collected FROM property_rent WHERE `+filter+` ORDER BY month`, arg)
	if err != nil {
		return fmt.Errorf("failed to query rent: %w", err)
	}
	entries := make(map[uuid.UUID][]model.RentEntry)
	err = eachRow(rentRows, func() error {
		var (
			id uuid.UUID
			e  model.RentEntry
		)
		if err := rentRows.Scan(&id, &e.Month, &e.Amount, &e.Collected); err != nil {
			return err
		}
		entries[id] = append(entries[id], e)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to read rent: %w", err)
	}
	for id, list := range entries {
		if p, ok := index[id]; ok {
			p.RentCollected = model.NewRentLedger(list...)
		}
	}

	incomeRows, err := s.db.QueryContext(ctx,
		`SELECT property_id, date, amount, notes FROM property_income WHERE `+filter+` ORDER BY position`, arg)
	if err != nil {
		return fmt.Errorf("failed to query income: %w", err)
	}
	err = eachRow(incomeRows, func() error {
		var (
			id uuid.UUID
			in model.IncomeEntry
		)
		if err := incomeRows.Scan(&id, &in.Date, &in.Amount, &in.Notes); err != nil {
			return err
		}
		if p, ok := index[id]; ok {
			p.ShortTermIncome = append(p.ShortTermIncome, in)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to read income: %w", err)
	}

	expenseRows, err := s.db.QueryContext(ctx,
		`SELECT property_id, category, amount, date FROM property_expenses WHERE `+filter+` ORDER BY position`, arg)
	if err != nil {
		return fmt.Errorf("failed to query expenses: %w", err)
	}
	err = eachRow(expenseRows, func() error {
		var (
			id       uuid.UUID
			category string
			e        model.Expense
		)
		if err := expenseRows.Scan(&id, &category, &e.Amount, &e.Date); err != nil {
			return err
		}
		// Rows written before categories were normalized may be mixed case.
		e.Category = model.NormalizeCategory(model.ExpenseCategory(category))
		if p, ok := index[id]; ok {
			p.Expenses = append(p.Expenses, e)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to read expenses: %w", err)
	}

	s.logger.Debug("loaded property details",
		zap.String("op", "store.loadDetails"),
		zap.Int("properties", len(index)))
	return nil
}

func eachRow(rows *sql.Rows, fn func() error) error {
	defer rows.Close()
	for rows.Next() {
		if err := fn(); err != nil {
			return err
		}
	}
	return rows.Err()
}

func insertDetails(ctx context.Context, tx *sql.Tx, p *model.Property) error {
	for _, e := range p.RentCollected {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO property_rent (property_id, month, amount, collected) VALUES ($1, $2, $3, $4)`,
			p.ID, e.Month, e.Amount, e.Collected); err != nil {
			return fmt.Errorf("failed to insert rent %s: %w", e.Month, err)
		}
	}
	for i, in := range p.ShortTermIncome {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO property_income (property_id, position, date, amount, notes) VALUES ($1, $2, $3, $4, $5)`,
			p.ID, i, in.Date, in.Amount, in.Notes); err != nil {
			return fmt.Errorf("failed to insert income: %w", err)
		}
	}
	for i, e := range p.Expenses {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO property_expenses (property_id, position, category, amount, date) VALUES ($1, $2, $3, $4, $5)`,
			p.ID, i, string(model.NormalizeCategory(e.Category)), e.Amount, e.Date); err != nil {
			return fmt.Errorf("failed to insert expense: %w", err)
		}
	}
	return nil
}

func deleteDetails(ctx context.Context, tx *sql.Tx, id uuid.UUID) error {
	for _, table := range []string{"property_rent", "property_income", "property_expenses"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE property_id = $1`, id); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}
