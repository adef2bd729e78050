package carts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/clicon/internal/common"
	"github.com/dmitrijs2005/clicon/internal/dbx"
	"github.com/dmitrijs2005/clicon/internal/server/models"
)

// PostgresRepository stores line items as a JSONB array. AddItem locks the
// cart row, so it must run inside a transaction to be race free.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) AddItem(ctx context.Context, userID, productID string, quantity int) (*models.Cart, error) {
	ensure :=
		`INSERT INTO carts (user_id, products) VALUES ($1, '[]')
		 ON CONFLICT (user_id) DO NOTHING
		 `
	if _, err := r.db.ExecContext(ctx, ensure, userID); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	cart, err := r.get(ctx, `SELECT id, user_id, products, total_price FROM carts WHERE user_id = $1 FOR UPDATE`, userID)
	if err != nil {
		return nil, err
	}

	cart.Merge(productID, quantity)

	items, err := json.Marshal(cart.Products)
	if err != nil {
		return nil, err
	}

	if _, err := r.db.ExecContext(ctx, `UPDATE carts SET products = $2 WHERE id = $1`, cart.ID, string(items)); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return cart, nil
}

func (r *PostgresRepository) GetByUser(ctx context.Context, userID string) (*models.Cart, error) {
	return r.get(ctx, `SELECT id, user_id, products, total_price FROM carts WHERE user_id = $1`, userID)
}

func (r *PostgresRepository) SetTotal(ctx context.Context, userID string, total float64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE carts SET total_price = $2 WHERE user_id = $1`, userID, total)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) get(ctx context.Context, query, userID string) (*models.Cart, error) {
	var (
		cart  models.Cart
		items []byte
		total sql.NullFloat64
	)

	err := r.db.QueryRowContext(ctx, query, userID).Scan(&cart.ID, &cart.UserID, &items, &total)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	cart.Products = []models.CartItem{}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &cart.Products); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
	}
	if total.Valid {
		v := total.Float64
		cart.TotalPrice = &v
	}
	return &cart, nil
}
