package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/clicon/internal/common"
	"github.com/dmitrijs2005/clicon/internal/server/models"
)

type ctxKey string

const userKey ctxKey = "user"

func withUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromContext returns the user attached by the session or admin gate.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userKey).(*models.User)
	return u, ok && u != nil
}

func isTokenError(err error) bool {
	return errors.Is(err, common.ErrInvalidToken) ||
		errors.Is(err, common.ErrInvalidAudience) ||
		errors.Is(err, common.ErrTokenExpired) ||
		errors.Is(err, common.ErrTokenOther)
}

// sessionGate admits requests whose access_token cookie resolves to a
// stored user.
func (h *Handlers) sessionGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(common.AccessTokenCookieName)
		if err != nil || c.Value == "" {
			writeFail(w, http.StatusUnauthorized, "You are not logged in")
			return
		}

		u, err := h.auth.Authenticate(r.Context(), c.Value)
		switch {
		case err == nil:
		case isTokenError(err):
			writeFail(w, http.StatusBadRequest, "your token is invalid please login again")
			return
		case errors.Is(err, common.ErrorNotFound):
			writeFail(w, http.StatusNotFound, "Invalid Token user not found")
			return
		default:
			h.logger.Error(r.Context(), "session lookup failed", "error", err)
			writeFail(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}

		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), u)))
	})
}

// adminGate admits only authenticated users holding the admin role.
func (h *Handlers) adminGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(common.AccessTokenCookieName)
		if err != nil || c.Value == "" {
			writeFail(w, http.StatusUnauthorized, "UNAUTHORIZED")
			return
		}

		u, err := h.auth.Authenticate(r.Context(), c.Value)
		switch {
		case err == nil:
		case isTokenError(err), errors.Is(err, common.ErrorNotFound):
			writeFail(w, http.StatusUnauthorized, "UNAUTHORIZED")
			return
		default:
			h.logger.Error(r.Context(), "admin lookup failed", "error", err)
			writeFail(w, http.StatusInternalServerError, "Failed to fetch user")
			return
		}

		switch u.Role {
		case models.RoleAdmin:
		case models.RoleNone:
			writeFail(w, http.StatusUnauthorized, "You are not allowed for this request")
			return
		default:
			writeFail(w, http.StatusUnauthorized, "UNAUTHORIZED")
			return
		}

		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), u)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// accessLog logs one line per request and feeds the request metrics.
func (h *Handlers) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		route := routeTemplate(r)
		if h.metrics != nil {
			h.metrics.observe(r.Method, route, rec.status, elapsed)
		}
		h.logger.Info(r.Context(), "request",
			"method", r.Method,
			"route", route,
			"status", rec.status,
			"duration", elapsed,
		)
	})
}
