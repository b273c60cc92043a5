package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/obracore/inventario-obras/internal/application/movement"
	"github.com/obracore/inventario-obras/internal/application/usecase"
	infrapdf "github.com/obracore/inventario-obras/internal/infrastructure/pdf"
	"github.com/obracore/inventario-obras/internal/infrastructure/postgres"
	httpRouter "github.com/obracore/inventario-obras/internal/interfaces/http"
	"github.com/obracore/inventario-obras/pkg/config"
	"github.com/obracore/inventario-obras/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	siteRepo := postgres.NewSiteRepository(pool)
	materialRepo := postgres.NewMaterialRepository(pool)
	balanceRepo := postgres.NewBalanceRepository(pool)
	ledgerRepo := postgres.NewLedgerRepository(pool)
	valuationRepo := postgres.NewValuationRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	consumptionUC := movement.NewDailyConsumptionUseCase(txRunner, siteRepo, materialRepo)
	adjustmentUC := movement.NewStockAdjustmentUseCase(txRunner, siteRepo, materialRepo)
	receiptUC := movement.NewReceiptUseCase(txRunner, siteRepo, materialRepo)
	transferUC := movement.NewOutwardTransferUseCase(txRunner, siteRepo, materialRepo)
	rebuildUC := movement.NewRebuildBalanceUseCase(txRunner, ledgerRepo, balanceRepo)

	siteUC := usecase.NewSiteUseCase(siteRepo)
	materialUC := usecase.NewMaterialUseCase(materialRepo)

	// PDF: reporte imprimible de valorización por obra
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	valuationUC := usecase.NewValuationUseCase(siteRepo, valuationRepo, pdfGenerator)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		SiteUC:      siteUC,
		MaterialUC:  materialUC,
		ValuationUC: valuationUC,
		Consumption: consumptionUC,
		Adjustment:  adjustmentUC,
		Receipt:     receiptUC,
		Transfer:    transferUC,
		Rebuild:     rebuildUC,
		BalanceRepo: balanceRepo,
		LedgerRepo:  ledgerRepo,
		JWTSecret:   cfg.JWT.Secret,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
