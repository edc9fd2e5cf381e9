package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/stockops-api/docs"
	"github.com/jhoicas/stockops-api/internal/application/auth"
	"github.com/jhoicas/stockops-api/internal/application/dashboard"
	"github.com/jhoicas/stockops-api/internal/application/inventory"
	"github.com/jhoicas/stockops-api/internal/application/ledger"
	"github.com/jhoicas/stockops-api/internal/application/operation"
	"github.com/jhoicas/stockops-api/internal/application/usecase"
	infrapdf "github.com/jhoicas/stockops-api/internal/infrastructure/pdf"
	httpRouter "github.com/jhoicas/stockops-api/internal/interfaces/http"
	"github.com/jhoicas/stockops-api/internal/scheduler"
	"github.com/jhoicas/stockops-api/pkg/config"
	"github.com/jhoicas/stockops-api/pkg/logger"
)

// @title                       StockOps API
// @version                     1.0
// @description                 Operaciones de stock de bodega: recepciones, entregas, transferencias y ajustes.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log.Component("storage"))
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento")
	}
	defer store.close()

	productUC := usecase.NewProductUseCase(store.products)
	userUC := usecase.NewUserUseCase(store.users)
	operationUC := operation.NewOperationUseCase(store.tx, store.operations, store.products, store.sequences, log.Zerolog())
	ledgerUC := ledger.NewLedgerUseCase(store.moves, store.products, log.Zerolog())
	dashboardUC := dashboard.NewDashboardUseCase(store.products, store.moves)
	replenishmentUC := inventory.NewReplenishmentUseCase(store.products)

	// PDF: comprobante imprimible de cada operación
	slipGenerator := infrapdf.NewMarotoSlipGenerator(cfg.App.Name)
	operationPDFUC := operation.NewPDFUseCase(store.operations, store.products, slipGenerator)

	authUC := auth.NewAuthUseCase(store.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	sched := scheduler.NewScheduler(cfg.Scheduler.ReconcileCron, ledgerUC, log.Zerolog())
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("scheduler")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "StockOps API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:     productUC,
		UserUC:        userUC,
		OperationUC:   operationUC,
		OperationPDF:  operationPDFUC,
		LedgerUC:      ledgerUC,
		DashboardUC:   dashboardUC,
		Replenishment: replenishmentUC,
		AuthUC:        authUC,
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
