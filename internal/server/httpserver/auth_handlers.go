package httpserver

import (
	"net/http"

	"github.com/dmitrijs2005/clicon/internal/common"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyRequest struct {
	OTP string `json:"otp"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sid, err := h.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.setCookie(w, common.SessionTokenCookieName, sid, 0)
	writeSuccess(w, http.StatusOK, "OTP sent to your email, please verify")
}

func (h *Handlers) verify(w http.ResponseWriter, r *http.Request) {
	var sid string
	if c, err := r.Cookie(common.SessionTokenCookieName); err == nil {
		sid = c.Value
	}
	if sid == "" {
		h.fail(w, r, common.ErrSessionExpired)
		return
	}

	var req verifyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := h.auth.Verify(r.Context(), sid, req.OTP); err != nil {
		h.fail(w, r, err)
		return
	}

	h.clearCookie(w, common.SessionTokenCookieName)
	writeSuccess(w, http.StatusCreated, "user created")
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, _, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.setCookie(w, common.AccessTokenCookieName, token, h.auth.TokenValidity())
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) me(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		writeFail(w, http.StatusUnauthorized, "You are not logged in")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// logout only expires the cookie; the token itself stays valid until exp.
func (h *Handlers) logout(w http.ResponseWriter, r *http.Request) {
	if _, err := r.Cookie(common.AccessTokenCookieName); err != nil {
		writeFail(w, http.StatusUnauthorized, "you are not logged in")
		return
	}

	h.clearCookie(w, common.AccessTokenCookieName)
	writeSuccess(w, http.StatusOK, "user logged out success")
}
