package availability

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/bestands-api/internal/domain/entity"
)

// RowClass documenta el destino de una fila del log dentro del cálculo.
type RowClass string

const (
	RowNoDate        RowClass = "sin-fecha"
	RowOutsideWindow RowClass = "fuera-de-ventana"
	RowPairedOut     RowClass = "par-comision-anulado"
	RowCounted       RowClass = "contada"
	RowNotCountable  RowClass = "no-contable"
)

// RowOutcome es el veredicto por fila: qué clase recibió y si su demanda o
// cobertura entró en los acumulados. Lo consume el inspector de depuración.
type RowOutcome struct {
	Tx            entity.Transaction
	Class         RowClass
	DemandCounted bool
	SupplyCounted bool
}

// Rules es la parametrización efectiva del agregador, fijada por despliegue.
type Rules struct {
	Policy         entity.ClassificationPolicy
	PairingRemoval bool
}

// AggregatePart acumula demanda y cobertura de una parte dentro de la
// ventana [.., windowEnd]:
//
//  1. filas sin fecha quedan fuera;
//  2. filas con fecha posterior al fin de ventana quedan fuera;
//  3. con PairingRemoval, los grupos por KommNr cuya demanda y cobertura
//     suman igual y positivo se anulan completos (traslados internos sin
//     efecto neto; contarlos duplicaría movimiento);
//  4. el resto se clasifica según la política activa y se suma.
//
// Devuelve además el veredicto de cada fila en el orden de entrada.
func AggregatePart(txs []entity.Transaction, windowEnd time.Time, rules Rules) (demand, supply decimal.Decimal, outcomes []RowOutcome) {
	demand, supply = decimal.Zero, decimal.Zero
	outcomes = make([]RowOutcome, len(txs))

	inWindow := make([]bool, len(txs))
	for i, tx := range txs {
		switch {
		case tx.Date == nil:
			outcomes[i] = RowOutcome{Tx: tx, Class: RowNoDate}
		case DateOnly(*tx.Date).After(windowEnd):
			outcomes[i] = RowOutcome{Tx: tx, Class: RowOutsideWindow}
		default:
			inWindow[i] = true
		}
	}

	paired := map[string]bool{}
	if rules.PairingRemoval {
		paired = pairedCommissions(txs, inWindow)
	}

	for i, tx := range txs {
		if !inWindow[i] {
			continue
		}
		if paired[tx.CommissionNo] {
			outcomes[i] = RowOutcome{Tx: tx, Class: RowPairedOut}
			continue
		}
		o := classifyRow(tx, rules.Policy)
		if o.DemandCounted {
			demand = demand.Add(tx.DemandQty)
		}
		if o.SupplyCounted {
			supply = supply.Add(tx.SupplyQty)
		}
		outcomes[i] = o
	}
	return demand, supply, outcomes
}

// pairedCommissions marca los KommNr cuyo grupo dentro de ventana tiene
// demanda total == cobertura total, ambas estrictamente positivas. Filas sin
// KommNr nunca forman pareja (el vacío no identifica nada).
func pairedCommissions(txs []entity.Transaction, inWindow []bool) map[string]bool {
	type sums struct{ demand, supply decimal.Decimal }
	groups := make(map[string]*sums)
	for i, tx := range txs {
		if !inWindow[i] || tx.CommissionNo == "" {
			continue
		}
		g, ok := groups[tx.CommissionNo]
		if !ok {
			g = &sums{demand: decimal.Zero, supply: decimal.Zero}
			groups[tx.CommissionNo] = g
		}
		g.demand = g.demand.Add(tx.DemandQty)
		g.supply = g.supply.Add(tx.SupplyQty)
	}

	paired := make(map[string]bool)
	for komm, g := range groups {
		if g.demand.IsPositive() && g.supply.IsPositive() && g.demand.Equal(g.supply) {
			paired[komm] = true
		}
	}
	return paired
}

// classifyRow aplica la política de clasificación a una fila dentro de
// ventana y no anulada por pareja.
func classifyRow(tx entity.Transaction, policy entity.ClassificationPolicy) RowOutcome {
	o := RowOutcome{Tx: tx}
	switch policy {
	case entity.PolicyStockRelevant:
		relevant := isTransferSubRef(tx.SubRef)
		o.DemandCounted = relevant && tx.DemandQty.IsPositive()
		o.SupplyCounted = relevant && tx.SupplyQty.IsPositive()
	default: // PolicyTransferSupply
		o.DemandCounted = tx.DemandQty.IsPositive()
		o.SupplyCounted = tx.SupplyQty.IsPositive() &&
			(isTransferSubRef(tx.SubRef) || strings.HasPrefix(tx.CommissionNo, entity.CommissionPlannedOrder))
	}
	if o.DemandCounted || o.SupplyCounted {
		o.Class = RowCounted
	} else {
		o.Class = RowNotCountable
	}
	return o
}

// isTransferSubRef reconoce los prefijos de traslado del sistema origen.
// La comparación es sensible a mayúsculas: así los emite el ERP.
func isTransferSubRef(subRef string) bool {
	return strings.HasPrefix(subRef, entity.SubRefTransferInbound) ||
		strings.HasPrefix(subRef, entity.SubRefTransferInternal)
}
