package products

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/clicon/internal/common"
	"github.com/dmitrijs2005/clicon/internal/dbx"
	"github.com/dmitrijs2005/clicon/internal/server/models"
)

const productColumns = `id, title, description, price, offer_price, category, image_urls, brand`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.Product) (*models.Product, error) {
	query :=
		`INSERT INTO products (id, title, description, price, offer_price, category, image_urls, brand)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 `

	images, err := json.Marshal(nonNil(p.ImageURLs))
	if err != nil {
		return nil, err
	}

	_, err = r.db.ExecContext(ctx, query,
		p.ID, p.Title, p.Description, p.Price, nullFloat(p.OfferPrice), p.Category, string(images), p.Brand)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrorNotFound
		case dbx.IsInvalidText(err):
			return nil, common.ErrorInvalidID
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.Product, error) {
	if len(ids) == 0 {
		return []*models.Product{}, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE id IN (` + strings.Join(placeholders, ", ") + `)`
	return r.query(ctx, query, args...)
}

func (r *PostgresRepository) AppendImage(ctx context.Context, id, url string) error {
	query :=
		`UPDATE products SET image_urls = image_urls || jsonb_build_array($2::text)
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id, url)
	if err != nil {
		if dbx.IsInvalidText(err) {
			return common.ErrorInvalidID
		}
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

func (r *PostgresRepository) List(ctx context.Context, offset, limit int) ([]*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at, id LIMIT $1 OFFSET $2`
	return r.query(ctx, query, limit, offset)
}

func (r *PostgresRepository) Filter(ctx context.Context, f models.ProductFilter, limit int) ([]*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
		WHERE title ILIKE $1 AND brand ILIKE $2 AND category ILIKE $3
		ORDER BY created_at, id
		LIMIT $4`

	return r.query(ctx, query, likePattern(f.Title), likePattern(f.Brand), likePattern(f.Category), limit)
}

func (r *PostgresRepository) query(ctx context.Context, query string, args ...any) ([]*models.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		if dbx.IsInvalidText(err) {
			return nil, common.ErrorInvalidID
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner) (*models.Product, error) {
	var (
		p      models.Product
		offer  sql.NullFloat64
		images []byte
	)
	if err := s.Scan(&p.ID, &p.Title, &p.Description, &p.Price, &offer, &p.Category, &images, &p.Brand); err != nil {
		return nil, err
	}
	if offer.Valid {
		v := offer.Float64
		p.OfferPrice = &v
	}
	p.ImageURLs = []string{}
	if len(images) > 0 {
		if err := json.Unmarshal(images, &p.ImageURLs); err != nil {
			return nil, err
		}
	}
	return &p, nil
}

// likePattern turns s into a substring ILIKE pattern with wildcards escaped.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
