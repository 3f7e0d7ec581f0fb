package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/panel-api/internal/application/auth"
	"github.com/jhoicas/panel-api/internal/application/inventory"
	"github.com/jhoicas/panel-api/internal/domain/access"
	"github.com/jhoicas/panel-api/internal/domain/repository"
)

// WorkspaceRegistry workspaces por sesión con cierre explícito.
type WorkspaceRegistry interface {
	Workspaces
	Close(sessionIDs ...string)
}

// RouterDeps dependencias para el router del panel.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	Workspaces    WorkspaceRegistry
	Replenishment *inventory.ReplenishmentUseCase
	Reporter      LowStockReporter
}

// Router registra las rutas de la API del panel.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (login público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.Workspaces.Close)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token con sesión activa)
	protected := api.Group("/", AuthMiddleware(deps.AuthUC))
	protected.Post("/auth/logout", authHandler.Logout)

	// Products
	products := protected.Group("/products", RequireView(access.ResourceProductCatalog))
	productHandler := NewProductHandler(deps.Workspaces, deps.Replenishment, deps.Reporter)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Post("/reload", productHandler.Reload)
	products.Post("/search", productHandler.Search)
	products.Post("/clear", productHandler.Clear)
	products.Get("/low-stock", productHandler.LowStock)
	products.Get("/low-stock/report", productHandler.LowStockReport)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)
	products.Put("/:id/pending", productHandler.StagePending)
	products.Post("/:id/quantity", productHandler.AdjustQuantity)

	// Staff (solo admin)
	staff := protected.Group("/staff", RequireView(access.ResourceStaffDirectory))
	staffHandler := NewStaffHandler(deps.Workspaces)
	staff.Get("/", staffHandler.List)
	staff.Post("/", staffHandler.Create)
	staff.Post("/reload", staffHandler.Reload)
	staff.Post("/search", staffHandler.Search)
	staff.Post("/clear", staffHandler.Clear)
	staff.Put("/:id", staffHandler.Update)
	staff.Delete("/:id", staffHandler.Delete)

	// Profile
	profileHandler := NewProfileHandler(deps.Workspaces)
	protected.Get("/profile", profileHandler.Get)
	protected.Put("/profile", profileHandler.Update)
}

// ElevatedDeps dependencias del servicio elevado.
type ElevatedDeps struct {
	Auth        Authenticator
	Credentials CredentialUpdater
	Purger      repository.StaffPurger
	Log         zerolog.Logger
}

// ElevatedRouter registra PUT /profile y POST /deleteStaff.
func ElevatedRouter(app *fiber.App, deps ElevatedDeps) {
	h := NewElevatedHandler(deps.Credentials, deps.Purger, deps.Log)
	protected := app.Group("/", AuthMiddleware(deps.Auth))
	protected.Put("/profile", h.UpdateProfile)
	protected.Post("/deleteStaff", h.DeleteStaff)
}
