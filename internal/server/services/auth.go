// Package services contains the server-side business logic: registration
// with email OTP, login and session resolution, user administration, the
// product catalog and carts.
package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/clicon/internal/common"
	"github.com/dmitrijs2005/clicon/internal/logging"
	"github.com/dmitrijs2005/clicon/internal/server/auth"
	"github.com/dmitrijs2005/clicon/internal/server/config"
	"github.com/dmitrijs2005/clicon/internal/server/mailer"
	"github.com/dmitrijs2005/clicon/internal/server/models"
	"github.com/dmitrijs2005/clicon/internal/server/repositories/repomanager"
)

const sessionIDBytes = 32

var (
	generateOTP  = auth.GenerateOTP
	newSessionID = func() (string, error) { return common.MakeRandHexString(sessionIDBytes) }
	now          = time.Now
)

// AuthService drives registration (register, then verify the mailed OTP),
// login and resolution of session tokens back to users.
type AuthService struct {
	repomanager                 repomanager.RepositoryManager
	hasher                      auth.PasswordHasher
	mailer                      mailer.Dispatcher
	logger                      logging.Logger
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	pendingTTL                  time.Duration
	enforcePendingExpiry        bool
	dbTimeout                   time.Duration
	mailTimeout                 time.Duration
}

func NewAuthService(m repomanager.RepositoryManager, hasher auth.PasswordHasher, d mailer.Dispatcher, cfg *config.Config, logger logging.Logger) *AuthService {
	return &AuthService{
		repomanager:                 m,
		hasher:                      hasher,
		mailer:                      d,
		logger:                      logger.With("module", "auth"),
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		pendingTTL:                  cfg.PendingRegistrationTTL,
		enforcePendingExpiry:        cfg.EnforcePendingExpiry,
		dbTimeout:                   cfg.DBTimeout,
		mailTimeout:                 cfg.MailTimeout,
	}
}

// Register mails an OTP to email and stores a pending registration. The
// returned id is the session_token cookie value. Nothing is stored when the
// mail cannot be sent.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (string, error) {
	name = strings.TrimSpace(name)
	email = common.NormalizeEmail(email)

	if err := validateCredentials(name, email, password); err != nil {
		return "", err
	}

	if err := s.ensureEmailFree(ctx, email); err != nil {
		return "", err
	}

	otp, err := generateOTP()
	if err != nil {
		return "", fmt.Errorf("%w: otp: %v", common.ErrorInternal, err)
	}

	mctx, cancel := bounded(ctx, s.mailTimeout)
	err = s.mailer.SendOTP(mctx, name, email, otp)
	cancel()
	if err != nil {
		s.logger.Error(ctx, "otp mail failed", "email", email, "error", err)
		return "", fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("%w: hash: %v", common.ErrorInternal, err)
	}

	id, err := newSessionID()
	if err != nil {
		return "", fmt.Errorf("%w: session id: %v", common.ErrorInternal, err)
	}

	pending := &models.PendingRegistration{
		ID:           id,
		OTP:          otp,
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		ExpiresAt:    now().Add(s.pendingTTL),
	}

	dctx, cancel := bounded(ctx, s.dbTimeout)
	defer cancel()
	if err := s.repomanager.PendingRegistrations().Create(dctx, pending); err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	s.logger.Info(ctx, "registration pending", "email", email)
	return id, nil
}

// Verify turns the pending registration identified by sessionID into a user
// when otp matches the mailed code.
func (s *AuthService) Verify(ctx context.Context, sessionID, otp string) (*models.User, error) {
	if sessionID == "" {
		return nil, common.ErrSessionExpired
	}

	ctx, cancel := bounded(ctx, s.dbTimeout)
	defer cancel()

	pending, err := s.repomanager.PendingRegistrations().Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrSessionExpired
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	if pending.Expired(now()) {
		if s.enforcePendingExpiry {
			return nil, common.ErrSessionExpired
		}
		s.logger.Warn(ctx, "verifying an expired pending registration", "email", pending.Email, "expired_at", pending.ExpiresAt)
	}

	if subtle.ConstantTimeCompare([]byte(otp), []byte(pending.OTP)) != 1 {
		return nil, common.ErrInvalidOTP
	}

	user := &models.User{
		Name:         pending.Name,
		Email:        pending.Email,
		PasswordHash: pending.PasswordHash,
	}

	err = s.repomanager.WithTx(ctx, func(ctx context.Context, rm repomanager.RepositoryManager) error {
		if _, err := rm.Users().Create(ctx, user); err != nil {
			return err
		}
		return rm.PendingRegistrations().Delete(ctx, sessionID)
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// Login checks the password of the account stored under exactly email and
// issues a session token. The address is not lower-cased here.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	if !common.LooksLikeEmail(email) {
		return "", nil, fmt.Errorf("%w: invalid email", common.ErrorValidation)
	}

	ctx, cancel := bounded(ctx, s.dbTimeout)
	defer cancel()

	user, err := s.repomanager.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", nil, common.ErrorNotFound
		}
		return "", nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	if err := s.hasher.Verify(user.PasswordHash, password); err != nil {
		if !errors.Is(err, common.ErrInvalidPassword) {
			s.logger.Warn(ctx, "password hash check failed", "user_id", user.ID, "error", err)
		}
		return "", nil, common.ErrInvalidPassword
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", nil, fmt.Errorf("%w: token: %v", common.ErrorInternal, err)
	}

	return token, user, nil
}

// Authenticate resolves a session token to its user. Token failures keep
// their auth sentinel; a valid token for an unknown user yields
// common.ErrorNotFound.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	ctx, cancel := bounded(ctx, s.dbTimeout)
	defer cancel()

	user, err := s.repomanager.Users().GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrorInvalidID) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	return user, nil
}

// TokenValidity is the lifetime of issued session tokens.
func (s *AuthService) TokenValidity() time.Duration {
	return s.accessTokenValidityDuration
}

func (s *AuthService) ensureEmailFree(ctx context.Context, email string) error {
	ctx, cancel := bounded(ctx, s.dbTimeout)
	defer cancel()

	_, err := s.repomanager.Users().GetByEmail(ctx, email)
	switch {
	case err == nil:
		return common.ErrorAlreadyExists
	case errors.Is(err, common.ErrorNotFound):
		return nil
	default:
		return fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
}

func validateCredentials(name, email, password string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: name is required", common.ErrorValidation)
	case !common.LooksLikeEmail(email):
		return fmt.Errorf("%w: invalid email", common.ErrorValidation)
	case password == "":
		return fmt.Errorf("%w: password is required", common.ErrorValidation)
	}
	return nil
}
