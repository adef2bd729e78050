package httpserver

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/clicon/internal/common"
)

type addToCartRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (h *Handlers) addToCart(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		writeFail(w, http.StatusUnauthorized, "UNAUTHORIZED")
		return
	}

	var req addToCartRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cart, err := h.carts.AddItem(r.Context(), u.ID, req.ProductID, req.Quantity)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeFail(w, http.StatusNotFound, "Product not found")
			return
		}
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (h *Handlers) getCart(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		writeFail(w, http.StatusUnauthorized, "UNAUTHORIZED")
		return
	}

	cart, err := h.carts.Get(r.Context(), u.ID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeFail(w, http.StatusNotFound, "Cart not found")
			return
		}
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}
