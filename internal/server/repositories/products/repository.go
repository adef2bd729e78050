// Package products persists the catalog.
package products

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/clicon/internal/server/models"
)

// Repository is implemented by every storage backend. The caller assigns
// product ids. GetByID and AppendImage return common.ErrorNotFound for
// unknown ids.
type Repository interface {
	Create(ctx context.Context, p *models.Product) (*models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.Product, error)
	AppendImage(ctx context.Context, id, url string) error
	List(ctx context.Context, offset, limit int) ([]*models.Product, error)
	Filter(ctx context.Context, f models.ProductFilter, limit int) ([]*models.Product, error)
}

// Matches reports whether p satisfies every non-empty criterion of f,
// comparing case-insensitive substrings.
func Matches(p *models.Product, f models.ProductFilter) bool {
	return containsFold(p.Title, f.Title) &&
		containsFold(p.Brand, f.Brand) &&
		containsFold(p.Category, f.Category)
}

func containsFold(s, sub string) bool {
	if sub == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
