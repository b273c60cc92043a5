package movement_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obracore/inventario-obras/internal/application/movement"
	"github.com/obracore/inventario-obras/internal/domain"
)

func TestTraslado_MueveSaldoEntreObras(t *testing.T) {
	store := newMemStore()
	tx := &fakeTxRunner{store: store}
	store.addSite("origen")
	store.addSite("destino")
	store.addMaterial("cemento")
	seedOpening(t, store, tx, "origen", "cemento", "100", "10")

	uc := movement.NewOutwardTransferUseCase(tx, store.sites, store.materials)
	res, err := uc.Register(context.Background(), movement.TransferInput{
		SourceSiteID: "origen",
		DestSiteID:   "destino",
		UserID:       "tester",
		Date:         testDate(),
		Lines:        []movement.TransferLine{{MaterialID: "cemento", Quantity: dec("30")}},
	})
	require.NoError(t, err)
	assert.True(t, res.TotalAmount.Equal(dec("300")), "total: %s", res.TotalAmount)

	src, err := store.balances.Get("origen", "cemento")
	require.NoError(t, err)
	assert.True(t, src.ClosingStock.Equal(dec("70")), "stock origen: %s", src.ClosingStock)
	assert.True(t, src.ClosingValue.Equal(dec("700")), "valor origen: %s", src.ClosingValue)

	dst, err := store.balances.Get("destino", "cemento")
	require.NoError(t, err)
	require.NotNil(t, dst, "el destino estrena saldo")
	assert.True(t, dst.ClosingStock.Equal(dec("30")), "stock destino: %s", dst.ClosingStock)
	assert.True(t, dst.ClosingValue.Equal(dec("300")), "valor destino: %s", dst.ClosingValue)
	assert.True(t, dst.UnitRate.Equal(dec("10")), "la tarifa viaja con el material: %s", dst.UnitRate)

	// Dos filas por línea: salida en origen y entrada en destino, mismo documento.
	srcEntries, _ := store.ledger.ListAllByPair("origen", "cemento")
	dstEntries, _ := store.ledger.ListAllByPair("destino", "cemento")
	require.Len(t, srcEntries, 2) // apertura + salida
	require.Len(t, dstEntries, 1)
	assert.Equal(t, srcEntries[1].DocumentID, dstEntries[0].DocumentID)
}

// TestTraslado_AtomicoEntreObras: si cualquier línea falla la validación de
// stock, ningún lado se aplica: ni la salida en origen ni la entrada en
// destino.
func TestTraslado_AtomicoEntreObras(t *testing.T) {
	store := newMemStore()
	tx := &fakeTxRunner{store: store}
	store.addSite("origen")
	store.addSite("destino")
	store.addMaterial("cemento")
	store.addMaterial("acero")
	seedOpening(t, store, tx, "origen", "cemento", "100", "10")

	before := len(store.ledger.entries)

	uc := movement.NewOutwardTransferUseCase(tx, store.sites, store.materials)
	_, err := uc.Register(context.Background(), movement.TransferInput{
		SourceSiteID: "origen",
		DestSiteID:   "destino",
		UserID:       "tester",
		Date:         testDate(),
		Lines: []movement.TransferLine{
			{MaterialID: "cemento", Quantity: dec("30")},
			{MaterialID: "acero", Quantity: dec("5")}, // sin stock en origen
		},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	src, _ := store.balances.Get("origen", "cemento")
	assert.True(t, src.ClosingStock.Equal(dec("100")), "origen intacto: %s", src.ClosingStock)
	dst, _ := store.balances.Get("destino", "cemento")
	assert.Nil(t, dst, "destino sin saldo")
	assert.Len(t, store.ledger.entries, before, "sin filas nuevas en el ledger")
}

func TestTraslado_MismaObra(t *testing.T) {
	store := newMemStore()
	tx := &fakeTxRunner{store: store}
	store.addSite("origen")
	store.addMaterial("cemento")

	uc := movement.NewOutwardTransferUseCase(tx, store.sites, store.materials)
	_, err := uc.Register(context.Background(), movement.TransferInput{
		SourceSiteID: "origen",
		DestSiteID:   "origen",
		UserID:       "tester",
		Date:         testDate(),
		Lines:        []movement.TransferLine{{MaterialID: "cemento", Quantity: dec("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
