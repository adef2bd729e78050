package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/dmitrijs2005/clicon/internal/common"
	"github.com/dmitrijs2005/clicon/internal/logging"
	"github.com/dmitrijs2005/clicon/internal/server/auth"
	"github.com/dmitrijs2005/clicon/internal/server/config"
	"github.com/dmitrijs2005/clicon/internal/server/models"
	"github.com/dmitrijs2005/clicon/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/clicon/internal/server/services"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeDispatcher struct {
	mu   sync.Mutex
	otps map[string]string
}

func (d *fakeDispatcher) SendOTP(ctx context.Context, name, email, otp string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.otps == nil {
		d.otps = map[string]string{}
	}
	d.otps[email] = otp
	return nil
}

func (d *fakeDispatcher) otpFor(email string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.otps[email]
}

type fakeUploader struct{}

func (fakeUploader) Upload(ctx context.Context, filename, contentType string, body io.Reader, size int64) (string, error) {
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", err
	}
	return "https://clicon.s3.eu-north-1.amazonaws.com/upload/" + filename, nil
}

type testEnv struct {
	router   *mux.Router
	rm       *repomanager.MemoryRepositoryManager
	mail     *fakeDispatcher
	hasher   auth.PasswordHasher
	registry *prometheus.Registry
	cfg      *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "test-secret"
	cfg.MaxUploadSize = 1 << 20

	rm := repomanager.NewMemoryRepositoryManager()
	mail := &fakeDispatcher{}
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	l := logging.Nop()

	reg := prometheus.NewRegistry()
	h := NewHandlers(
		services.NewAuthService(rm, hasher, mail, cfg, l),
		services.NewUserService(rm, hasher, cfg),
		services.NewProductService(rm, fakeUploader{}, cfg, l),
		services.NewCartService(rm, cfg),
		rm.Ping,
		NewMetrics(reg),
		l,
		Options{MaxUploadSize: cfg.MaxUploadSize},
	)

	return &testEnv{router: NewRouter(h, reg), rm: rm, mail: mail, hasher: hasher, registry: reg, cfg: cfg}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// seedUser stores a user directly, bypassing the OTP flow.
func (e *testEnv) seedUser(t *testing.T, email, password string, role models.Role) *models.User {
	t.Helper()
	hash, err := e.hasher.Hash(password)
	require.NoError(t, err)
	u, err := e.rm.Users().Create(context.Background(), &models.User{Name: "Seed", Email: email, PasswordHash: hash, Role: role})
	require.NoError(t, err)
	return u
}

func (e *testEnv) login(t *testing.T, email, password string) *http.Cookie {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/auth/login", loginRequest{Email: email, Password: password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	c := findCookie(rec, common.AccessTokenCookieName)
	require.NotNil(t, c)
	return c
}

func (e *testEnv) adminCookie(t *testing.T) *http.Cookie {
	t.Helper()
	e.seedUser(t, "admin@clicon.io", "root", models.RoleAdmin)
	return e.login(t, "admin@clicon.io", "root")
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func decodeStatus(t *testing.T, rec *httptest.ResponseRecorder) statusResponse {
	t.Helper()
	var s statusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s), rec.Body.String())
	return s
}
