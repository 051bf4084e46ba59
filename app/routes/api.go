// Package routes declares the HTTP surface of the application.
package routes

import (
	"github.com/shashiranjanraj/bazaar/app/controllers"
	"github.com/shashiranjanraj/bazaar/pkg/middleware"
	"github.com/shashiranjanraj/bazaar/pkg/router"
)

// RegisterAPI mounts every API route on r. Global middleware (request ID,
// logging, recovery, metrics, CORS, rate limiting) is attached by the
// kernel before this runs.
func RegisterAPI(r *router.Router) {
	authC := controllers.NewAuthController()
	productC := controllers.NewProductController()
	orderC := controllers.NewOrderController()

	api := r.Group("/api")

	// Public
	auth := api.Group("/auth")
	auth.Post("/register", "auth.register", authC.Register)
	auth.Post("/login", "auth.login", authC.Login)

	api.Get("/products", "products.index", productC.Index)
	api.Get("/products/{id}", "products.show", productC.Show)

	// Authenticated
	private := api.Group("", middleware.Auth)
	private.Get("/auth/me", "auth.me", authC.Me)

	orders := private.Group("/orders")
	orders.Get("", "orders.index", orderC.Index)
	orders.Post("", "orders.store", orderC.Store)
	orders.Get("/active", "orders.active", orderC.Active)
	orders.Get("/{id}", "orders.show", orderC.Show)
	orders.Post("/{id}/items", "orders.items.store", orderC.AddItem)
	orders.Patch("/{id}/items/{itemID}", "orders.items.update", orderC.UpdateItem)
	orders.Delete("/{id}/items/{itemID}", "orders.items.destroy", orderC.RemoveItem)

	// Admin
	admin := private.Group("", middleware.RequireAdmin)
	admin.Patch("/orders/{id}", "orders.update", orderC.UpdateStatus)
	admin.Post("/products", "products.store", productC.Store)
	admin.Patch("/products/{id}", "products.update", productC.Update)
	admin.Delete("/products/{id}", "products.destroy", productC.Destroy)
	admin.Post("/products/{id}/image", "products.image", productC.UploadImage)
}
