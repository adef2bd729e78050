// Package users persists registered accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/clicon/internal/server/models"
)

// Repository is implemented by every storage backend.
//
// Create fails with common.ErrorAlreadyExists when the email is taken.
// Lookups by id fail with common.ErrorInvalidID for ids the backend cannot
// parse and common.ErrorNotFound for unknown ids; GetByEmail matches the
// stored email exactly.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, id string, upd models.UserUpdate) error
	SetRole(ctx context.Context, id string, role models.Role) error
	Delete(ctx context.Context, id string) error
}
