package httpserver

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/clicon/internal/common"
	"github.com/dmitrijs2005/clicon/internal/server/models"
	"github.com/gorilla/mux"
)

func (h *Handlers) createUser(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.users.Create(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, u)
}

func (h *Handlers) listUsers(w http.ResponseWriter, r *http.Request) {
	list, err := h.users.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handlers) getUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.userFail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *Handlers) updateUser(w http.ResponseWriter, r *http.Request) {
	var upd models.UserUpdate
	if err := decodeJSON(r, &upd); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.users.Update(r.Context(), mux.Vars(r)["id"], upd); err != nil {
		h.userFail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) deleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.userFail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, "user deleted success")
}

func (h *Handlers) userFail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, common.ErrorNotFound) {
		writeFail(w, http.StatusNotFound, "User not found")
		return
	}
	h.fail(w, r, err)
}
