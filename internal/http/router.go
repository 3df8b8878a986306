package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handlers collects everything the router mounts.
type Handlers struct {
	Catalog  *CatalogHandler
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Orders   *OrdersHandler
	Admin    *AdminHandler
}

// NewRouter assembles the full storefront API under /api/v1. The admin
// subtree sits behind the allow-list gate; everything else only needs a
// session where the handler says so.
func NewRouter(h Handlers, adminEmails map[string]bool, requestTimeout time.Duration) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(SessionMiddleware(adminEmails))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", h.Catalog.ListProducts)
		r.Get("/products/{id}", h.Catalog.GetProduct)
		r.Get("/bundles", h.Catalog.ListBundles)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.Cart.GetCart)
			r.Delete("/", h.Cart.ClearCart)
			r.Post("/items", h.Cart.AddItem)
			r.Put("/items/{productID}/{size}", h.Cart.UpdateQuantity)
			r.Delete("/items/{productID}/{size}", h.Cart.RemoveItem)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/quote", h.Checkout.Quote)
			r.Post("/", h.Checkout.Submit)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.Orders.ListMine)
			r.Get("/{id}", h.Orders.GetOrder)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(RequireAdmin)

			r.Post("/products", h.Admin.CreateProduct)
			r.Put("/products/{id}", h.Admin.UpdateProduct)
			r.Delete("/products/{id}", h.Admin.DeleteProduct)

			r.Post("/bundles", h.Admin.CreateBundle)
			r.Delete("/bundles/{id}", h.Admin.DeleteBundle)

			r.Get("/promos", h.Admin.ListPromos)
			r.Post("/promos", h.Admin.CreatePromo)
			r.Patch("/promos/{id}", h.Admin.SetPromoActive)
			r.Delete("/promos/{id}", h.Admin.DeletePromo)

			r.Get("/orders", h.Admin.ListOrders)
			r.Patch("/orders/{id}/status", h.Admin.UpdateOrderStatus)
			r.Patch("/orders/{id}/payment-status", h.Admin.UpdatePaymentStatus)

			r.Get("/receipts/{id}", h.Admin.GetReceipt)
		})
	})

	return r
}
