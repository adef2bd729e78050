// Package httpserver exposes the storefront over HTTP: auth, user
// administration, catalog and cart routes, plus health and metrics.
package httpserver

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/clicon/internal/logging"
)

// Handlers carries the services and settings shared by every route.
type Handlers struct {
	auth          AuthService
	users         UserService
	products      ProductService
	carts         CartService
	health        HealthChecker
	metrics       *Metrics
	logger        logging.Logger
	cookieSecure  bool
	maxUploadSize int64
}

// Options are the settings the handlers take from configuration.
type Options struct {
	CookieSecure  bool
	MaxUploadSize int64
}

func NewHandlers(a AuthService, u UserService, p ProductService, c CartService, health HealthChecker, m *Metrics, l logging.Logger, opts Options) *Handlers {
	return &Handlers{
		auth:          a,
		users:         u,
		products:      p,
		carts:         c,
		health:        health,
		metrics:       m,
		logger:        l.With("module", "http"),
		cookieSecure:  opts.CookieSecure,
		maxUploadSize: opts.MaxUploadSize,
	}
}

func (h *Handlers) setCookie(w http.ResponseWriter, name, value string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *Handlers) clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

// fail logs server errors and writes the mapped status.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	code, msg := errorStatus(err)
	if code >= http.StatusInternalServerError {
		h.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	writeFail(w, code, msg)
}

func (h *Handlers) healthz(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health(r.Context()); err != nil {
			h.logger.Warn(r.Context(), "health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
