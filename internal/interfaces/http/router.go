package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/obracore/inventario-obras/internal/application/movement"
	"github.com/obracore/inventario-obras/internal/application/usecase"
	"github.com/obracore/inventario-obras/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	SiteUC      *usecase.SiteUseCase
	MaterialUC  *usecase.MaterialUseCase
	ValuationUC *usecase.ValuationUseCase
	Consumption *movement.DailyConsumptionUseCase
	Adjustment  *movement.StockAdjustmentUseCase
	Receipt     *movement.ReceiptUseCase
	Transfer    *movement.OutwardTransferUseCase
	Rebuild     *movement.RebuildBalanceUseCase
	BalanceRepo repository.BalanceRepository
	LedgerRepo  repository.LedgerRepository
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Sites (protegido; creación solo admin)
	siteHandler := NewSiteHandler(deps.SiteUC)
	sites := protected.Group("/sites")
	sites.Post("/", RequireRole("admin"), siteHandler.Create)
	sites.Get("/", siteHandler.List)
	sites.Get("/:id", siteHandler.GetByID)

	// Materials (protegido; creación solo admin)
	materialHandler := NewMaterialHandler(deps.MaterialUC)
	materials := protected.Group("/materials")
	materials.Post("/", RequireRole("admin"), materialHandler.Create)
	materials.Get("/", materialHandler.List)
	materials.Get("/:id", materialHandler.GetByID)

	// Saldos y kardex por obra (protegido)
	balanceHandler := NewBalanceHandler(deps.BalanceRepo, deps.LedgerRepo, deps.Rebuild)
	sites.Get("/:siteId/balances", balanceHandler.ListBySite)
	sites.Get("/:siteId/balances/:materialId", balanceHandler.GetBalance)
	sites.Get("/:siteId/ledger/:materialId", balanceHandler.ListLedger)

	// Valorización (protegido)
	valuationHandler := NewValuationHandler(deps.ValuationUC)
	sites.Get("/:siteId/valuation", valuationHandler.SiteValuation)
	sites.Get("/:siteId/valuation/pdf", valuationHandler.SiteValuationPDF)

	// Movimientos de inventario (protegido; escritura admin o almacenista)
	movementHandler := NewMovementHandler(deps.Consumption, deps.Adjustment, deps.Receipt, deps.Transfer)
	invGroup := protected.Group("/inventory", RequireRole("admin", "almacenista", "residente"))
	invGroup.Post("/consumptions", movementHandler.RegisterConsumption)
	invGroup.Post("/receipts", RequireRole("admin", "almacenista"), movementHandler.RegisterReceipt)
	invGroup.Post("/opening-stocks", RequireRole("admin", "almacenista"), movementHandler.RegisterOpeningStock)
	invGroup.Post("/transfers", RequireRole("admin", "almacenista"), movementHandler.RegisterTransfer)
	invGroup.Post("/adjustments", RequireRole("admin", "almacenista"), movementHandler.RegisterAdjustment)

	// Reconstrucción de saldos (solo admin)
	invGroup.Post("/balances/rebuild", RequireRole("admin"), balanceHandler.RebuildBalance)
}
