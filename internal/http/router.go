package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"myshop/internal/auth"
)

type Deps struct {
	Logger       zerolog.Logger
	Tokens       *auth.TokenMaker
	AllowOrigins []string

	Users    *UserHandler
	Catalog  *CatalogHandler
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Orders   *OrderHandler
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(d.Logger))
	if len(d.AllowOrigins) > 0 {
		r.Use(CORS(d.AllowOrigins))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		// Public
		r.Post("/register", d.Users.Register)
		r.Post("/login", d.Users.Login)
		r.Get("/products", d.Catalog.ListProducts)
		r.Get("/products/{id}", d.Catalog.GetProduct)
		r.Get("/categories", d.Catalog.ListCategories)
		r.Get("/categories/{id}", d.Catalog.GetCategory)

		// Authenticated
		r.Group(func(r chi.Router) {
			r.Use(Auth(d.Tokens))

			r.Get("/me", d.Users.GetProfile)
			r.Put("/me", d.Users.UpdateProfile)

			r.Get("/cart", d.Cart.GetCart)
			r.Post("/cart/items", d.Cart.AddItem)
			r.Put("/cart/items/{productId}", d.Cart.UpdateItem)
			r.Delete("/cart/items/{productId}", d.Cart.RemoveItem)
			r.Delete("/cart", d.Cart.ClearCart)

			r.Post("/checkout", d.Checkout.Checkout)

			r.Get("/orders", d.Orders.ListOrders)
			r.Get("/orders/{id}", d.Orders.GetOrder)
		})

		// Admin
		r.Group(func(r chi.Router) {
			r.Use(Auth(d.Tokens), AdminOnly)

			r.Post("/products", d.Catalog.CreateProduct)
			r.Put("/products/{id}", d.Catalog.UpdateProduct)
			r.Delete("/products/{id}", d.Catalog.DeleteProduct)
			r.Put("/products/{id}/stock", d.Catalog.SetStock)

			r.Post("/categories", d.Catalog.CreateCategory)
			r.Put("/categories/{id}", d.Catalog.UpdateCategory)
			r.Delete("/categories/{id}", d.Catalog.DeleteCategory)
		})
	})

	return r
}
