package movement_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obracore/inventario-obras/internal/application/movement"
	"github.com/obracore/inventario-obras/internal/domain"
)

// TestAjuste_SalidaNegativaPermitida: saldo {stock:5}; un ajuste que entrega 8
// deja stock -3 con valor y tarifa recalculados, sin recorte.
func TestAjuste_SalidaNegativaPermitida(t *testing.T) {
	store := newMemStore()
	tx := &fakeTxRunner{store: store}
	store.addSite("obra-1")
	store.addMaterial("acero")
	seedOpening(t, store, tx, "obra-1", "acero", "5", "10")

	uc := movement.NewStockAdjustmentUseCase(tx, store.sites, store.materials)
	_, err := uc.Register(context.Background(), movement.AdjustmentInput{
		SiteID: "obra-1",
		UserID: "tester",
		Date:   testDate(),
		Lines: []movement.AdjustmentLine{
			{MaterialID: "acero", IssuedQty: dec("8"), UnitRate: dec("10"), Amount: dec("-80"), Remark: "faltante en conteo físico"},
		},
	})
	require.NoError(t, err)

	bal, err := store.balances.Get("obra-1", "acero")
	require.NoError(t, err)
	require.NotNil(t, bal)
	assert.True(t, bal.ClosingStock.Equal(dec("-3")), "stock: %s", bal.ClosingStock)
	assert.True(t, bal.ClosingValue.Equal(dec("-30")), "valor: %s", bal.ClosingValue)
	assert.True(t, bal.UnitRate.Equal(dec("10")), "tarifa: %s", bal.UnitRate)
}

// TestAjuste_EntradaYSalidaMismaLinea: obra nueva, una sola línea que recibe
// 20@5 y entrega 5. La salida aplica sobre el saldo post-entrada y la línea
// deja dos filas en el ledger.
func TestAjuste_EntradaYSalidaMismaLinea(t *testing.T) {
	store := newMemStore()
	tx := &fakeTxRunner{store: store}
	store.addSite("obra-2")
	store.addMaterial("arena")

	uc := movement.NewStockAdjustmentUseCase(tx, store.sites, store.materials)
	_, err := uc.Register(context.Background(), movement.AdjustmentInput{
		SiteID: "obra-2",
		UserID: "tester",
		Date:   testDate(),
		Lines: []movement.AdjustmentLine{
			{MaterialID: "arena", ReceivedQty: dec("20"), IssuedQty: dec("5"), UnitRate: dec("5"), Amount: dec("75")},
		},
	})
	require.NoError(t, err)

	bal, err := store.balances.Get("obra-2", "arena")
	require.NoError(t, err)
	require.NotNil(t, bal)
	assert.True(t, bal.ClosingStock.Equal(dec("15")), "stock: %s", bal.ClosingStock)
	assert.True(t, bal.ClosingValue.Equal(dec("75")), "valor: %s", bal.ClosingValue)
	assert.True(t, bal.UnitRate.Equal(dec("5")), "tarifa: %s", bal.UnitRate)

	entries, err := store.ledger.ListAllByPair("obra-2", "arena")
	require.NoError(t, err)
	require.Len(t, entries, 2, "una fila de entrada y una de salida")
	assert.NotNil(t, entries[0].ReceivedQty)
	assert.NotNil(t, entries[1].IssuedQty)
}

// TestAjuste_BootstrapPorObra documenta el comportamiento histórico del flag
// de bootstrap: se calcula una vez por request a nivel de OBRA. En el primer
// request de una obra nueva, una segunda línea de entrada del mismo material
// vuelve a inicializar el saldo en lugar de promediar. Se conserva tal cual.
func TestAjuste_BootstrapPorObra(t *testing.T) {
	store := newMemStore()
	tx := &fakeTxRunner{store: store}
	store.addSite("obra-3")
	store.addMaterial("grava")

	uc := movement.NewStockAdjustmentUseCase(tx, store.sites, store.materials)
	_, err := uc.Register(context.Background(), movement.AdjustmentInput{
		SiteID: "obra-3",
		UserID: "tester",
		Date:   testDate(),
		Lines: []movement.AdjustmentLine{
			{MaterialID: "grava", ReceivedQty: dec("10"), UnitRate: dec("10"), Amount: dec("100")},
			{MaterialID: "grava", ReceivedQty: dec("5"), UnitRate: dec("20"), Amount: dec("100")},
		},
	})
	require.NoError(t, err)

	bal, err := store.balances.Get("obra-3", "grava")
	require.NoError(t, err)
	require.NotNil(t, bal)
	// La segunda línea re-inicializa: queda 5@20, no el promedio de 15.
	assert.True(t, bal.ClosingStock.Equal(dec("5")), "stock: %s", bal.ClosingStock)
	assert.True(t, bal.ClosingValue.Equal(dec("100")), "valor: %s", bal.ClosingValue)
	assert.True(t, bal.UnitRate.Equal(dec("20")), "tarifa: %s", bal.UnitRate)

	// En cambio, con historial previo de la obra sí se promedia.
	_, err = uc.Register(context.Background(), movement.AdjustmentInput{
		SiteID: "obra-3",
		UserID: "tester",
		Date:   testDate(),
		Lines: []movement.AdjustmentLine{
			{MaterialID: "grava", ReceivedQty: dec("5"), UnitRate: dec("10"), Amount: dec("50")},
		},
	})
	require.NoError(t, err)
	bal, err = store.balances.Get("obra-3", "grava")
	require.NoError(t, err)
	assert.True(t, bal.ClosingStock.Equal(dec("10")), "stock: %s", bal.ClosingStock)
	assert.True(t, bal.ClosingValue.Equal(dec("150")), "valor: %s", bal.ClosingValue)
	assert.True(t, bal.UnitRate.Equal(dec("15")), "tarifa promediada: %s", bal.UnitRate)
}

func TestAjuste_LineaSinCantidades(t *testing.T) {
	store := newMemStore()
	tx := &fakeTxRunner{store: store}
	store.addSite("obra-1")
	store.addMaterial("acero")

	uc := movement.NewStockAdjustmentUseCase(tx, store.sites, store.materials)
	_, err := uc.Register(context.Background(), movement.AdjustmentInput{
		SiteID: "obra-1",
		UserID: "tester",
		Date:   testDate(),
		Lines: []movement.AdjustmentLine{
			{MaterialID: "acero", UnitRate: dec("10")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
