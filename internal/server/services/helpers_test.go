package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/clicon/internal/logging"
	"github.com/dmitrijs2005/clicon/internal/server/auth"
	"github.com/dmitrijs2005/clicon/internal/server/config"
	"github.com/dmitrijs2005/clicon/internal/server/models"
	"github.com/dmitrijs2005/clicon/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/clicon/internal/server/repositories/users"
	"golang.org/x/crypto/bcrypt"
)

var errStore = errors.New("store down")

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "test-secret"
	return cfg
}

func testHasher() auth.PasswordHasher {
	return auth.NewBcryptHasher(bcrypt.MinCost)
}

type sentMail struct {
	name, email, otp string
}

type fakeDispatcher struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (d *fakeDispatcher) SendOTP(ctx context.Context, name, email, otp string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.sent = append(d.sent, sentMail{name, email, otp})
	return nil
}

func (d *fakeDispatcher) last() sentMail {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sent[len(d.sent)-1]
}

// brokenUsers fails every call with errStore.
type brokenUsers struct{}

func (brokenUsers) Create(context.Context, *models.User) (*models.User, error) { return nil, errStore }
func (brokenUsers) GetByID(context.Context, string) (*models.User, error)      { return nil, errStore }
func (brokenUsers) GetByEmail(context.Context, string) (*models.User, error)   { return nil, errStore }
func (brokenUsers) List(context.Context) ([]*models.User, error)               { return nil, errStore }
func (brokenUsers) Update(context.Context, string, models.UserUpdate) error    { return errStore }
func (brokenUsers) SetRole(context.Context, string, models.Role) error         { return errStore }
func (brokenUsers) Delete(context.Context, string) error                       { return errStore }

// brokenUsersManager is a memory manager whose users repository is down.
type brokenUsersManager struct {
	*repomanager.MemoryRepositoryManager
}

func (brokenUsersManager) Users() users.Repository { return brokenUsers{} }

func withNow(t *testing.T, ts time.Time) {
	t.Helper()
	old := now
	now = func() time.Time { return ts }
	t.Cleanup(func() { now = old })
}

func newAuthService(rm repomanager.RepositoryManager, d *fakeDispatcher, cfg *config.Config) *AuthService {
	return NewAuthService(rm, testHasher(), d, cfg, logging.Nop())
}
