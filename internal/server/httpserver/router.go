package httpserver

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires every route. gatherer backs /metrics; nil leaves the
// endpoint out.
func NewRouter(h *Handlers, gatherer prometheus.Gatherer) *mux.Router {
	r := mux.NewRouter()
	r.Use(h.accessLog)

	r.HandleFunc("/health", h.healthz).Methods(http.MethodGet)
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api").Subrouter()

	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", h.register).Methods(http.MethodPost)
	auth.HandleFunc("/verify", h.verify).Methods(http.MethodPost)
	auth.HandleFunc("/login", h.login).Methods(http.MethodPost)
	auth.Handle("/me", h.sessionGate(http.HandlerFunc(h.me))).Methods(http.MethodGet)
	auth.HandleFunc("/logout", h.logout).Methods(http.MethodPost)

	user := api.PathPrefix("/user").Subrouter()
	user.Use(h.adminGate)
	user.HandleFunc("/create", h.createUser).Methods(http.MethodPost)
	user.HandleFunc("/all", h.listUsers).Methods(http.MethodGet)
	user.HandleFunc("/{id}", h.getUser).Methods(http.MethodGet)
	user.HandleFunc("/{id}", h.updateUser).Methods(http.MethodPut)
	user.HandleFunc("/{id}", h.deleteUser).Methods(http.MethodDelete)

	product := api.PathPrefix("/product").Subrouter()
	product.Handle("/create", h.adminGate(http.HandlerFunc(h.createProduct))).Methods(http.MethodPost)
	product.Handle("/image/{id}", h.adminGate(http.HandlerFunc(h.uploadProductImage))).Methods(http.MethodPut)
	product.Handle("/all", h.adminGate(http.HandlerFunc(h.listProducts))).Methods(http.MethodGet)
	product.HandleFunc("/filter", h.filterProducts).Methods(http.MethodGet)

	api.Handle("/cart", h.sessionGate(http.HandlerFunc(h.getCart))).Methods(http.MethodGet)
	api.Handle("/cart/create", h.sessionGate(http.HandlerFunc(h.addToCart))).Methods(http.MethodPost)

	return r
}
