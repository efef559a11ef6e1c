package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/millet-kiosk/internal/application/ports"
	"github.com/jhoicas/millet-kiosk/internal/domain/entity"
	"github.com/jhoicas/millet-kiosk/pkg/listview"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Gateway    ports.Gateway
	Documents  ports.DocumentRenderer
	Session    SessionOptions
	CartCookie string
	PageSize   int
	CSV        listview.CSVOptions
	Logger     zerolog.Logger
	Now        func() time.Time // nil = time.Now
}

// ErrorHandler devuelve el ErrorHandler de fiber con las páginas de error de
// la aplicación. Se pasa en fiber.Config antes de llamar a Router.
func ErrorHandler(deps RouterDeps) (fiber.ErrorHandler, error) {
	s, err := newServer(deps)
	if err != nil {
		return nil, err
	}
	return s.errorHandler, nil
}

// Router registra las rutas del storefront, las consolas y la API JSON.
func Router(app *fiber.App, deps RouterDeps) error {
	s, err := newServer(deps)
	if err != nil {
		return err
	}

	app.Use(RequestLogger(deps.Logger))
	app.Use(SessionMiddleware(deps.Session))

	customer := RequireRole(entity.RoleCustomer)
	seller := RequireRole(entity.RoleSeller)
	admin := RequireRole(entity.RoleAdmin)
	staff := RequireRole(entity.RoleSeller, entity.RoleAdmin)
	anyRole := RequireRole(entity.RoleCustomer, entity.RoleSeller, entity.RoleAdmin)
	public := func(c *fiber.Ctx) error { return c.Next() }

	// Auth (público)
	authHandler := NewAuthHandler(s)
	app.Get("/", authHandler.Home)
	app.Get("/login", authHandler.LoginPage)
	app.Post("/login", authHandler.Login)
	app.Post("/logout", authHandler.Logout)
	app.Post("/shop/select", staff, authHandler.SelectShop)

	// Storefront: el catálogo y el carrito no requieren sesión; el checkout sí.
	catalog := catalogRoute()
	mount(s, app, public, catalog)
	store := NewStorefrontHandler(s)
	app.Get("/cart", store.Cart)
	app.Post("/cart/add", store.AddToCart)
	app.Post("/cart/:line/delete", store.RemoveFromCart)
	app.Post("/cart/:line", store.UpdateCart)
	app.Get("/checkout", customer, store.CheckoutPage)
	app.Post("/checkout", customer, store.Checkout)
	myOrders := myOrdersRoute()
	mount(s, app, customer, myOrders)
	app.Get("/my/orders/:id/receipt.pdf", customer, store.Receipt)

	// Consola del vendedor
	sellerOrders := ordersRoute("/seller/orders")
	mount(s, app, seller, sellerOrders)
	app.Post("/seller/orders/:id/status", seller, mutateRow(s, sellerOrders, statusPatch(orderTransitions...)))

	inventory := inventoryRoute()
	mount(s, app, seller, inventory)
	app.Post("/seller/inventory/:id", seller, mutateRow(s, inventory, inventoryPatch))

	sellerRestocks := sellerRestocksRoute()
	mount(s, app, seller, sellerRestocks)
	app.Post("/seller/restocks", seller, createRow(s, sellerRestocks, "solicitud enviada", createRestock))

	// Consola admin
	dashboard := NewDashboardHandler(s)
	app.Get("/admin/dashboard", admin, dashboard.Page)

	products := adminProductsRoute()
	mount(s, app, admin, products)
	app.Post("/admin/products", admin, createRow(s, products, "producto creado", createProduct))
	app.Post("/admin/products/:id/delete", admin, deleteRow(s, products))
	app.Post("/admin/products/:id", admin, mutateRow(s, products, productPatch))

	sellers := sellersRoute()
	mount(s, app, admin, sellers)
	app.Post("/admin/sellers", admin, createRow(s, sellers, "vendedor creado", createSeller))
	app.Post("/admin/sellers/:id/delete", admin, deleteRow(s, sellers))

	adminRestocks := adminRestocksRoute()
	mount(s, app, admin, adminRestocks)
	app.Post("/admin/restocks/:id/status", admin, mutateRow(s, adminRestocks, statusPatch(restockResolutions...)))

	adminOrders := ordersRoute("/admin/orders")
	mount(s, app, admin, adminOrders)
	app.Post("/admin/orders/:id/status", admin, mutateRow(s, adminOrders, statusPatch(orderTransitions...)))

	// API JSON (/api/v1): mismas vistas, la página reducida en JSON.
	api := app.Group("/api/v1")
	api.Post("/auth/login", authHandler.APILogin)
	mountAPI(s, api, anyRole, catalog)
	mountAPI(s, api, customer, myOrders)
	mountAPI(s, api, staff, sellerOrders)
	mountAPI(s, api, seller, inventory)
	mountAPI(s, api, staff, adminRestocks)
	mountAPI(s, api, admin, sellers)
	api.Get("/dashboard", admin, dashboard.GetSummary)

	return nil
}
