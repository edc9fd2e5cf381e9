package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockops-api/internal/application/auth"
	"github.com/jhoicas/stockops-api/internal/application/dashboard"
	"github.com/jhoicas/stockops-api/internal/application/inventory"
	"github.com/jhoicas/stockops-api/internal/application/ledger"
	"github.com/jhoicas/stockops-api/internal/application/operation"
	"github.com/jhoicas/stockops-api/internal/application/usecase"
	"github.com/jhoicas/stockops-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC     *usecase.ProductUseCase
	UserUC        *usecase.UserUseCase
	OperationUC   *operation.OperationUseCase
	OperationPDF  *operation.PDFUseCase
	LedgerUC      *ledger.LedgerUseCase
	DashboardUC   *dashboard.DashboardUseCase
	Replenishment *inventory.ReplenishmentUseCase
	AuthUC        *auth.AuthUseCase
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	anyRole := RequireRole(entity.RoleManager, entity.RoleStaff)
	managerOnly := RequireRole(entity.RoleManager)

	// Auth (público salvo /me)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/me", AuthMiddleware(deps.JWTSecret), authHandler.Me)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products: lectura para todos, escritura solo manager
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	inventoryHandler := NewInventoryHandler(deps.Replenishment)
	products.Get("/", anyRole, productHandler.List)
	products.Get("/categories", anyRole, productHandler.Categories)
	products.Get("/units", anyRole, productHandler.Units)
	products.Get("/replenishment", anyRole, inventoryHandler.GetReplenishmentList)
	products.Get("/:id", anyRole, productHandler.GetByID)
	products.Post("/", managerOnly, productHandler.Create)
	products.Put("/:id", managerOnly, productHandler.Update)
	products.Delete("/:id", managerOnly, productHandler.Delete)

	// Operations: validar y cancelar solo manager
	operations := protected.Group("/operations")
	operationHandler := NewOperationHandler(deps.OperationUC, deps.OperationPDF)
	operations.Get("/", anyRole, operationHandler.List)
	operations.Post("/", anyRole, operationHandler.Create)
	operations.Get("/:id", anyRole, operationHandler.GetByID)
	operations.Put("/:id", anyRole, operationHandler.Update)
	operations.Get("/:id/pdf", anyRole, operationHandler.DownloadPDF)
	operations.Post("/:id/validate", managerOnly, operationHandler.Validate)
	operations.Post("/:id/cancel", managerOnly, operationHandler.Cancel)

	// Ledger
	moves := protected.Group("/moves")
	moveHandler := NewMoveHandler(deps.LedgerUC)
	moves.Get("/", anyRole, moveHandler.List)
	moves.Get("/reconciliation", managerOnly, moveHandler.Reconcile)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard", anyRole, dashboardHandler.GetSummary)
}
