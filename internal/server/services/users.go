package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/clicon/internal/common"
	"github.com/dmitrijs2005/clicon/internal/server/auth"
	"github.com/dmitrijs2005/clicon/internal/server/config"
	"github.com/dmitrijs2005/clicon/internal/server/models"
	"github.com/dmitrijs2005/clicon/internal/server/repositories/repomanager"
)

// UserService is the administrative account CRUD.
type UserService struct {
	repomanager repomanager.RepositoryManager
	hasher      auth.PasswordHasher
	dbTimeout   time.Duration
}

func NewUserService(m repomanager.RepositoryManager, hasher auth.PasswordHasher, cfg *config.Config) *UserService {
	return &UserService{repomanager: m, hasher: hasher, dbTimeout: cfg.DBTimeout}
}

// Create adds an account directly, bypassing OTP verification.
func (s *UserService) Create(ctx context.Context, name, email, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = common.NormalizeEmail(email)

	if err := validateCredentials(name, email, password); err != nil {
		return nil, err
	}

	ctx, cancel := bounded(ctx, s.dbTimeout)
	defer cancel()

	repo := s.repomanager.Users()

	_, err := repo.GetByEmail(ctx, email)
	if err == nil {
		return nil, common.ErrorAlreadyExists
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("%w: hash: %v", common.ErrorInternal, err)
	}

	u, err := repo.Create(ctx, &models.User{Name: name, Email: email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return u, nil
}

func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	ctx, cancel := bounded(ctx, s.dbTimeout)
	defer cancel()

	list, err := s.repomanager.Users().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return list, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := bounded(ctx, s.dbTimeout)
	defer cancel()

	u, err := s.repomanager.Users().GetByID(ctx, id)
	if err != nil {
		return nil, passThrough(err)
	}
	return u, nil
}

func (s *UserService) Update(ctx context.Context, id string, upd models.UserUpdate) error {
	upd.Name = strings.TrimSpace(upd.Name)
	if upd.Name == "" {
		return fmt.Errorf("%w: name is required", common.ErrorValidation)
	}
	if upd.Age != nil && (*upd.Age < 0 || *upd.Age > 255) {
		return fmt.Errorf("%w: age out of range", common.ErrorValidation)
	}

	ctx, cancel := bounded(ctx, s.dbTimeout)
	defer cancel()

	return passThrough(s.repomanager.Users().Update(ctx, id, upd))
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	ctx, cancel := bounded(ctx, s.dbTimeout)
	defer cancel()

	return passThrough(s.repomanager.Users().Delete(ctx, id))
}

// SetRole grants role to the account stored under email.
func (s *UserService) SetRole(ctx context.Context, email string, role models.Role) (*models.User, error) {
	ctx, cancel := bounded(ctx, s.dbTimeout)
	defer cancel()

	repo := s.repomanager.Users()

	u, err := repo.GetByEmail(ctx, common.NormalizeEmail(email))
	if err != nil {
		return nil, passThrough(err)
	}

	if err := repo.SetRole(ctx, u.ID, role); err != nil {
		return nil, passThrough(err)
	}

	u.Role = role
	return u, nil
}

// passThrough keeps the repository sentinels callers act on and folds
// everything else into ErrorInternal.
func passThrough(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, common.ErrorNotFound),
		errors.Is(err, common.ErrorInvalidID),
		errors.Is(err, common.ErrorAlreadyExists):
		return err
	default:
		return fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
}
