package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/donation-service/internal/api/http/handlers"
	"github.com/spec-kit/donation-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health           *handlers.HealthHandler
	Auth             *handlers.AuthHandler
	Users            *handlers.UsersHandler
	DonationRequests *handlers.DonationRequestsHandler
	Fundings         *handlers.FundingsHandler
	Media            *handlers.MediaHandler
	Stats            *handlers.StatsHandler
	AuthMiddleware   *auth.AuthMiddleware
	Metrics          http.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", cfg.Health.Root)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics))
	}

	app.Post("/jwt", cfg.Auth.IssueToken)
	app.Post("/users", cfg.Users.Register)

	authed := cfg.AuthMiddleware.Handle

	app.Get("/users", authed, cfg.Users.List)
	app.Patch("/users/admin/:id", authed, cfg.Users.MakeAdmin)
	app.Patch("/users/volunteer/:id", authed, cfg.Users.MakeVolunteer)
	app.Patch("/users/status/:id", authed, cfg.Users.SetStatus)
	app.Get("/users/:email", authed, cfg.Users.Get)
	app.Patch("/users/:email", authed, cfg.Users.UpdateProfile)

	requests := app.Group("/donation-requests")
	requests.Get("/public", cfg.DonationRequests.ListPublic)
	requests.Post("/", authed, cfg.DonationRequests.Create)
	requests.Get("/", authed, cfg.DonationRequests.ListMine)
	requests.Get("/all", authed, cfg.DonationRequests.ListAll)
	requests.Get("/:id", authed, cfg.DonationRequests.Get)
	requests.Patch("/:id", authed, cfg.DonationRequests.Update)
	requests.Delete("/:id", authed, cfg.DonationRequests.Delete)
	requests.Post("/:id/donate", authed, cfg.DonationRequests.Donate)

	app.Post("/create-payment-intent", authed, cfg.Fundings.CreatePaymentIntent)
	app.Post("/fundings", authed, cfg.Fundings.Record)
	app.Get("/fundings", authed, cfg.Fundings.List)

	app.Post("/upload-image", authed, cfg.Media.UploadImage)
	app.Get("/admin-stats", authed, cfg.Stats.AdminStats)
}
