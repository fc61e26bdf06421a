package routes

import (
	"github.com/gofiber/fiber/v2"

	"laptopshop/controllers"
	"laptopshop/middleware"
	"laptopshop/utils"
)

func RegisterRoutes(app *fiber.App, h *controllers.Handler, tokens *utils.JWT) {
	app.Use(middleware.Session())

	admin := []fiber.Handler{middleware.JWT(tokens), middleware.RequireRole(utils.RoleAdmin)}
	customer := []fiber.Handler{
		middleware.JWT(tokens),
		middleware.RequireRole(utils.RoleCustomer),
		middleware.BoundSession(h.Auth),
	}

	//catalog
	app.Get("/laptops", h.ListLaptops)
	app.Get("/laptops/brands", h.ListBrands)
	app.Get("/laptops/:id", h.GetLaptop)
	app.Post("/laptops", append(admin, h.CreateLaptop)...)
	app.Put("/laptops/:id", append(admin, h.UpdateLaptop)...)
	app.Delete("/laptops/:id", append(admin, h.DeleteLaptop)...)

	//auth
	app.Post("/auth/register", h.Register)
	app.Post("/auth/signin", h.SignIn)
	app.Post("/auth/signout", h.SignOut)
	app.Get("/auth/me", h.Me)
	app.Post("/auth/admin", h.AdminSignIn)

	//cart
	app.Get("/cart", h.GetCart)
	app.Post("/cart/items", h.AddToCart)
	app.Put("/cart/items/:id", h.UpdateCartItem)
	app.Delete("/cart/items/:id", h.RemoveCartItem)
	app.Delete("/cart", h.ClearCart)

	//wishlist
	app.Get("/wishlist", h.GetWishlist)
	app.Post("/wishlist/items", h.AddToWishlist)
	app.Get("/wishlist/items/:id", h.InWishlist)
	app.Delete("/wishlist/items/:id", h.RemoveFromWishlist)
	app.Post("/wishlist/items/:id/cart", h.MoveWishlistToCart)

	//checkout
	app.Post("/checkout", h.StartCheckout)
	app.Get("/checkout", h.GetCheckout)
	app.Post("/checkout/details", h.SubmitDetails)
	app.Post("/checkout/back", h.CheckoutBack)
	app.Post("/checkout/payment", h.SubmitPayment)
	app.Post("/checkout/complete", h.CompleteCheckout)
	app.Delete("/checkout", h.CancelCheckout)

	//account
	acc := app.Group("/account", customer...)
	acc.Get("/wishlist", h.AccountWishlist)
	acc.Post("/wishlist/:id", h.AccountWishlistAdd)
	acc.Delete("/wishlist/:id", h.AccountWishlistRemove)
	acc.Get("/orders", h.AccountOrders)

	//admin
	adm := app.Group("/admin", admin...)
	adm.Post("/init-db", h.InitDB)
	adm.Get("/db-status", h.DBStatus)
	adm.Get("/laptops/export", h.ExportLaptops)
	adm.Post("/laptops/:id/images", h.UploadImages)
	adm.Delete("/laptops/:id/images/:index", h.RemoveImage)
	adm.Delete("/laptops/:id", h.ConfirmDeleteLaptop)
}
