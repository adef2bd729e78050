// Package pendings stores registrations awaiting OTP verification.
package pendings

import (
	"context"

	"github.com/dmitrijs2005/clicon/internal/server/models"
)

// Repository persists PendingRegistration records keyed by session id.
// Get and Delete return common.ErrorNotFound for unknown ids.
type Repository interface {
	Create(ctx context.Context, p *models.PendingRegistration) error
	Get(ctx context.Context, id string) (*models.PendingRegistration, error)
	Delete(ctx context.Context, id string) error
}
