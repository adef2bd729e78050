package httpserver

import (
	"context"
	"time"

	"github.com/dmitrijs2005/clicon/internal/server/models"
	"github.com/dmitrijs2005/clicon/internal/server/services"
)

// AuthService is the part of services.AuthService the handlers use.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (string, error)
	Verify(ctx context.Context, sessionID, otp string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
	TokenValidity() time.Duration
}

type UserService interface {
	Create(ctx context.Context, name, email, password string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, id string, upd models.UserUpdate) error
	Delete(ctx context.Context, id string) error
}

type ProductService interface {
	Create(ctx context.Context, p models.Product) (*models.Product, error)
	UploadImage(ctx context.Context, id string, uploads []services.Upload) (*models.Product, error)
	List(ctx context.Context, page int) ([]*models.Product, error)
	Filter(ctx context.Context, f models.ProductFilter) ([]*models.Product, error)
}

type CartService interface {
	AddItem(ctx context.Context, userID, productID string, quantity int) (*models.Cart, error)
	Get(ctx context.Context, userID string) (*models.Cart, error)
}

// HealthChecker reports whether the backing store answers.
type HealthChecker func(ctx context.Context) error
