package movement_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obracore/inventario-obras/internal/application/movement"
	"github.com/obracore/inventario-obras/internal/domain/entity"
)

// TestRebuild_LockstepTrasMovimientos: tras una secuencia mixta de
// movimientos, reproducir el ledger de cada par regenera exactamente el saldo
// materializado (propiedad de caché derivada).
func TestRebuild_LockstepTrasMovimientos(t *testing.T) {
	store := newMemStore()
	tx := &fakeTxRunner{store: store}
	store.addSite("obra-1")
	store.addSite("obra-2")
	store.addMaterial("cemento")
	ctx := context.Background()

	receipts := movement.NewReceiptUseCase(tx, store.sites, store.materials)
	consumption := movement.NewDailyConsumptionUseCase(tx, store.sites, store.materials)
	adjustment := movement.NewStockAdjustmentUseCase(tx, store.sites, store.materials)
	transfer := movement.NewOutwardTransferUseCase(tx, store.sites, store.materials)

	_, err := receipts.RegisterOpening(ctx, movement.ReceiptInput{
		SiteID: "obra-1", UserID: "tester", Date: testDate(),
		Lines: []movement.ReceiptLine{{MaterialID: "cemento", Quantity: dec("100"), UnitRate: dec("10")}},
	})
	require.NoError(t, err)
	_, err = receipts.RegisterInward(ctx, movement.ReceiptInput{
		SiteID: "obra-1", UserID: "tester", Date: testDate(),
		Lines: []movement.ReceiptLine{{MaterialID: "cemento", Quantity: dec("50"), UnitRate: dec("16")}},
	})
	require.NoError(t, err)
	_, err = consumption.Register(ctx, movement.ConsumptionInput{
		SiteID: "obra-1", UserID: "tester", Date: testDate(),
		Lines: []movement.ConsumptionLine{{MaterialID: "cemento", Quantity: dec("30")}},
	})
	require.NoError(t, err)
	_, err = adjustment.Register(ctx, movement.AdjustmentInput{
		SiteID: "obra-1", UserID: "tester", Date: testDate(),
		Lines: []movement.AdjustmentLine{{MaterialID: "cemento", IssuedQty: dec("95"), UnitRate: dec("12"), Amount: dec("-1140")}},
	})
	require.NoError(t, err)
	_, err = transfer.Register(ctx, movement.TransferInput{
		SourceSiteID: "obra-1", DestSiteID: "obra-2", UserID: "tester", Date: testDate(),
		Lines: []movement.TransferLine{{MaterialID: "cemento", Quantity: dec("10")}},
	})
	require.NoError(t, err)

	rebuild := movement.NewRebuildBalanceUseCase(tx, store.ledger, store.balances)
	for _, siteID := range []string{"obra-1", "obra-2"} {
		res, err := rebuild.Verify(ctx, siteID, "cemento")
		require.NoError(t, err)
		require.NotNil(t, res.Stored, "saldo materializado de %s", siteID)
		require.NotNil(t, res.Recomputed)
		assert.True(t, res.InSync, "replay de %s: almacenado %+v vs recalculado %+v",
			siteID, res.Stored, res.Recomputed)
	}
}

// TestRebuild_ApplyReparaSaldoCorrupto: un saldo pisado a mano se detecta
// fuera de lockstep y Apply lo regenera desde el ledger.
func TestRebuild_ApplyReparaSaldoCorrupto(t *testing.T) {
	store := newMemStore()
	tx := &fakeTxRunner{store: store}
	store.addSite("obra-1")
	store.addMaterial("cemento")
	seedOpening(t, store, tx, "obra-1", "cemento", "100", "10")
	ctx := context.Background()

	// Corrupción simulada de la caché.
	require.NoError(t, store.balances.Upsert(&entity.MaterialBalance{
		SiteID: "obra-1", MaterialID: "cemento",
		ClosingStock: dec("999"), ClosingValue: dec("1"), UnitRate: dec("7"),
		LastMovementLabel: "corrupto", UpdatedAt: time.Now(),
	}))

	rebuild := movement.NewRebuildBalanceUseCase(tx, store.ledger, store.balances)

	res, err := rebuild.Verify(ctx, "obra-1", "cemento")
	require.NoError(t, err)
	assert.False(t, res.InSync, "la corrupción debe detectarse")

	res, err = rebuild.Apply(ctx, "obra-1", "cemento")
	require.NoError(t, err)
	assert.True(t, res.Applied)

	res, err = rebuild.Verify(ctx, "obra-1", "cemento")
	require.NoError(t, err)
	require.True(t, res.InSync, "tras Apply el saldo vuelve a lockstep")
	assert.True(t, res.Stored.Stock.Equal(dec("100")))
	assert.True(t, res.Stored.Value.Equal(dec("1000")))
	assert.True(t, res.Stored.Rate.Equal(dec("10")))
}
