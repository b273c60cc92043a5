// Package costing implementa el costeo promedio ponderado por obra y material
// (servicio de dominio, funciones puras sobre decimal.Decimal).
//
// El redondeo se aplica en cada paso intermedio, no solo al final: cantidades
// a 4 decimales, valores a 2, tarifas a 4. Cambiar los puntos de redondeo
// rompe la compatibilidad con los saldos históricos ya registrados.
package costing

import (
	"github.com/shopspring/decimal"

	"github.com/obracore/inventario-obras/internal/domain/entity"
)

// Posiciones decimales del contrato de costeo.
const (
	QtyPlaces   = 4
	MoneyPlaces = 2
	RatePlaces  = 4
)

// Snapshot es el saldo de un par (obra, material) visto por el motor de costeo.
type Snapshot struct {
	Stock decimal.Decimal
	Value decimal.Decimal
	Rate  decimal.Decimal
}

// RoundQty redondea una cantidad a 4 decimales.
func RoundQty(d decimal.Decimal) decimal.Decimal { return d.Round(QtyPlaces) }

// RoundMoney redondea un valor monetario a 2 decimales.
func RoundMoney(d decimal.Decimal) decimal.Decimal { return d.Round(MoneyPlaces) }

// RoundRate redondea una tarifa unitaria a 4 decimales.
func RoundRate(d decimal.Decimal) decimal.Decimal { return d.Round(RatePlaces) }

// Receive aplica una entrada de material al saldo.
//
// Regla de bootstrap: si el par no tiene saldo previo, o la obra no tiene
// NINGUNA fila en el ledger (flag calculado una sola vez por request, a nivel
// de obra y no de material), la entrada inicializa el saldo ignorando
// cualquier promedio anterior. En caso contrario se acumula:
//
//	NuevoValor = ValorActual + Cant*Tarifa
//	NuevaTarifa = NuevoValor / NuevoStock (tarifa sin cambio si NuevoStock == 0)
func Receive(prior *Snapshot, qty, rate decimal.Decimal, siteHasHistory bool) Snapshot {
	qty = RoundQty(qty)
	rate = RoundRate(rate)
	inValue := RoundMoney(qty.Mul(rate))

	if prior == nil || !siteHasHistory {
		return Snapshot{Stock: qty, Value: inValue, Rate: rate}
	}

	stock := RoundQty(prior.Stock.Add(qty))
	value := RoundMoney(prior.Value.Add(inValue))
	newRate := prior.Rate
	if !stock.IsZero() {
		newRate = RoundRate(value.Div(stock))
	}
	return Snapshot{Stock: stock, Value: value, Rate: newRate}
}

// ConsumptionIssue aplica una salida por consumo diario. La tarifa es la del
// saldo al momento de validar; el stock resultante se recorta a cero (única
// salida que no admite negativos) y el valor se recalcula desde el stock.
func ConsumptionIssue(prior Snapshot, qty decimal.Decimal) Snapshot {
	qty = RoundQty(qty)
	stock := prior.Stock.Sub(qty)
	if stock.IsNegative() {
		stock = decimal.Zero
	}
	stock = RoundQty(stock)
	value := RoundMoney(stock.Mul(prior.Rate))
	return Snapshot{Stock: stock, Value: value, Rate: prior.Rate}
}

// AdjustmentIssue aplica una salida por ajuste de stock con tarifa dada por el
// caller. A diferencia del consumo, el stock puede quedar negativo: el ajuste
// es una corrección y el resultado se expone tal cual, sin recortar.
func AdjustmentIssue(prior Snapshot, qty, rate decimal.Decimal) Snapshot {
	qty = RoundQty(qty)
	rate = RoundRate(rate)
	stock := RoundQty(prior.Stock.Sub(qty))
	value := RoundMoney(prior.Value.Sub(RoundMoney(qty.Mul(rate))))
	newRate := decimal.Zero
	if !stock.IsZero() {
		newRate = RoundRate(value.Div(stock))
	}
	return Snapshot{Stock: stock, Value: value, Rate: newRate}
}

// Replay reconstruye el saldo de un par (obra, material) plegando sus filas
// del ledger en orden de commit. Devuelve nil si no hay filas.
//
// La primera entrada del par inicializa el saldo (no hay saldo previo); las
// salidas aplican la variante que implica su tipo de documento.
func Replay(entries []*entity.LedgerEntry) *Snapshot {
	var cur *Snapshot
	for _, e := range entries {
		switch {
		case e.ReceivedQty != nil:
			s := Receive(cur, *e.ReceivedQty, e.UnitRate, cur != nil)
			cur = &s
		case e.IssuedQty != nil:
			var prior Snapshot
			if cur != nil {
				prior = *cur
			}
			var s Snapshot
			if e.DocumentType == entity.DocTypeStockAdjustment {
				s = AdjustmentIssue(prior, *e.IssuedQty, e.UnitRate)
			} else {
				s = ConsumptionIssue(prior, *e.IssuedQty)
			}
			cur = &s
		}
	}
	return cur
}
