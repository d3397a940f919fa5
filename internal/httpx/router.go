package httpx

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter assembles the full API surface. Product reads are public; the
// cart and order routes require an authenticated identity.
func NewRouter(products *ProductHandler, carts *CartHandler, orders *OrderHandler, requestTimeout time.Duration) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Public product reads
		r.Get("/products", products.ListProducts)
		r.Get("/products/top", products.TopRated)
		r.Get("/products/{id}", products.GetProduct)

		// Everything else needs an identity
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware)

			r.Post("/products/{id}/reviews", products.AddReview)
			r.Group(func(r chi.Router) {
				r.Use(RequireAdmin)
				r.Post("/products", products.CreateProduct)
				r.Put("/products/{id}", products.UpdateProduct)
				r.Delete("/products/{id}", products.DeleteProduct)
			})

			carts.Register(r)
			orders.Register(r)
		})
	})

	return r
}
