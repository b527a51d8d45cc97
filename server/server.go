// Package server is the HTTP surface: fiber app assembly, the auth and CRUD
// controllers, and the middleware that establishes per-request identity.
package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/naturkart/naturkart/auth"
	"github.com/naturkart/naturkart/config"
	"github.com/naturkart/naturkart/store"
)

// Deps carries the assembled application services the HTTP layer binds to.
type Deps struct {
	Logger       auth.Logger
	Tokens       *auth.TokenService
	Provider     *auth.Keycloak
	Auther       *auth.Auther
	Resolver     auth.RequestResolver
	Observations store.Observations
	Locations    store.Locations
}

// New assembles the fiber application with all routes and middleware bound.
func New(cfg *config.Config, deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "Naturkart API",
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		AllowCredentials: true,
	}))
	app.Use(NewIdentityContext(deps.Tokens))
	app.Use(NewRequestLogger(deps.Logger))

	requireAuth := NewRequireAuth(deps.Resolver)
	optionalAuth := NewOptionalAuth(deps.Resolver)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Naturkart API"})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", metricsHandler())

	authCtrl := &AuthController{
		Provider:    deps.Provider,
		Auther:      deps.Auther,
		RedirectURI: cfg.RedirectURI(),
		FrontendURL: cfg.FrontendURL,
		Logger:      deps.Logger,
	}
	authCtrl.Register(app)

	me := &MeController{}
	me.Register(app, requireAuth)

	api := app.Group("/api/v1")

	observations := &ObservationsController{Repo: deps.Observations}
	observations.Register(api, requireAuth, optionalAuth)

	locations := &LocationsController{Repo: deps.Locations}
	locations.Register(api, requireAuth, optionalAuth)

	return app
}
