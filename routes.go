package crm

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes wires all navigation and API routes. Every data-returning
// /api route sits behind the session guard; the redirect gate in front of the
// pages is presence-only and never the sole protection.
func RegisterRoutes(app *fiber.App, auther *RouteController, repo RepositoryManager, cfg *AppConfig) {
	authController := NewAuthController(auther)
	accountsController := NewAccountsController(repo)
	contactsController := NewContactsController(repo)
	oppsController := NewOpportunitiesController(repo)
	intentController := NewIntentController(repo)
	dashboardController := NewDashboardController(repo)

	// browser navigation
	app.Use(auther.RedirectGate(
		authController.Routes.Login,
		authController.Routes.Landing,
		"/accounts", "/dashboard",
	))

	app.Get(authController.Routes.Login, authController.LoginShow)
	app.Get(authController.Routes.Logout, authController.LogOut)

	app.Get("/accounts", func(c *fiber.Ctx) error {
		return c.Render("accounts", fiber.Map{})
	})
	app.Get("/dashboard", func(c *fiber.Ctx) error {
		return c.Render("dashboard", fiber.Map{})
	})

	// API
	api := app.Group("/api")

	api.Post("/auth/login", authController.LoginPost)

	guard := auther.ProtectedRoute(nil)

	if cfg.OpenIntentIngestion {
		// deliberately unauthenticated ingestion channel, see AppConfig
		api.Post("/intent", intentController.Ingest)
	} else {
		api.Post("/intent", guard, intentController.Ingest)
	}

	api.Use(guard)

	api.Get("/accounts", accountsController.List)
	api.Post("/accounts", accountsController.Create)
	api.Post("/accounts/seed", accountsController.Seed)
	api.Get("/accounts/:id", accountsController.Show)

	api.Post("/contacts", contactsController.Create)

	api.Post("/opportunities", oppsController.Create)
	api.Patch("/opportunities/:id", oppsController.UpdateStage)

	api.Get("/dashboard", dashboardController.Metrics)
}
