// Package routes registers the HTTP surface.
package routes

import (
	"net/http"
	"time"

	"github.com/andrianfauzi/warungku/app/controllers"
	"github.com/andrianfauzi/warungku/app/repositories"
	"github.com/andrianfauzi/warungku/app/services"
	"github.com/andrianfauzi/warungku/config"
	"github.com/andrianfauzi/warungku/pkg/database"
	"github.com/andrianfauzi/warungku/pkg/metrics"
	"github.com/andrianfauzi/warungku/pkg/middleware"
	"github.com/andrianfauzi/warungku/pkg/reqid"
	"github.com/andrianfauzi/warungku/pkg/response"
	"github.com/andrianfauzi/warungku/pkg/router"
	"github.com/andrianfauzi/warungku/pkg/storage"
)

// PublicRoutes is the fixed allowlist the auth gate checks before token
// verification. Everything else on the API requires a valid token.
func PublicRoutes() *middleware.Allowlist {
	return middleware.NewAllowlist().
		Exact(http.MethodPost, "/users/register").
		Exact(http.MethodPost, "/users/login").
		Exact(http.MethodGet, "/master-menu/menu").
		Pattern(http.MethodGet, "/master-menu/menu/{id}").
		Exact(http.MethodGet, "/healthz").
		Exact(http.MethodGet, "/metrics")
}

// RegisterAPI wires controllers, middleware, and routes onto the router.
func RegisterAPI(r *router.Router) {
	db := database.DB
	disk := storage.Default()

	userController := controllers.NewUserController(
		services.NewAuthService(repositories.NewUserRepository(db), disk))
	menuController := controllers.NewMenuController(
		services.NewMenuService(repositories.NewMenuRepository(db), disk))
	orderController := controllers.NewOrderController(
		services.NewOrderService(repositories.NewOrderRepository(db)))

	r.Use(
		metrics.Middleware(),
		middleware.Recovery(),
		reqid.Middleware(),
		middleware.Logger(),
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(300, time.Minute),
		middleware.AuthGate(PublicRoutes()),
	)

	r.Get("/healthz", "healthz", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, "ok", nil)
	})
	r.Get("/metrics", "metrics", metrics.Handler())

	users := r.Group("/users")
	users.Post("/register", "users.register", userController.Register)
	users.Post("/login", "users.login", userController.Login)
	users.Patch("/update-profile/{id}", "users.update-profile", userController.UpdateProfile)

	menu := r.Group("/master-menu")
	menu.Post("/menu", "menu.create", menuController.Create)
	menu.Get("/menu", "menu.list", menuController.List)
	menu.Get("/menu/{id}", "menu.get", menuController.Get)
	menu.Put("/menu/{id}", "menu.update", menuController.Update)
	menu.Delete("/menu/{id}", "menu.delete", menuController.Delete)

	orders := r.Group("/order")
	orders.Post("/", "order.create", orderController.Create)
	orders.Get("/", "order.list", orderController.List)
	orders.Get("/{id}", "order.get", orderController.Get)
	orders.Delete("/{id}", "order.delete", orderController.Delete)

	// Locally stored uploads are served straight off disk; S3 locators are
	// absolute URLs and never hit this mount.
	if config.StorageDefault() == "local" {
		r.Static("/uploads", storage.LocalRoot())
	}
}
