package availability_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bestands-api/internal/domain/availability"
	"github.com/jhoicas/bestands-api/internal/domain/entity"
)

var reglasHistoricas = availability.Rules{
	Policy:         entity.PolicyTransferSupply,
	PairingRemoval: true,
}

func dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

// ──────────────────────────────────────────────────────────────────────────────
// Escenario de referencia: lunes, WBZ 5 hábiles, demanda el martes, cobertura
// marcada el miércoles, y una demanda grande fuera de la ventana.
// ──────────────────────────────────────────────────────────────────────────────

func TestAggregatePart_EscenarioReferencia(t *testing.T) {
	end := availability.AddBusinessDays(lunes, 5) // lunes siguiente
	txs := []entity.Transaction{
		{Key: "p1", Date: fecha(2025, 6, 3), DemandQty: dec(3)},
		{Key: "p1", Date: fecha(2025, 6, 4), SupplyQty: dec(2), SubRef: "ZV-4711"},
		{Key: "p1", Date: fecha(2025, 6, 10), DemandQty: dec(100)}, // martes siguiente, fuera
	}

	demand, supply, outcomes := availability.AggregatePart(txs, end, reglasHistoricas)

	assert.True(t, dec(3).Equal(demand), "solo la demanda del martes está en ventana")
	assert.True(t, dec(2).Equal(supply), "la cobertura ZV- del miércoles cuenta")
	require.Len(t, outcomes, 3)
	assert.Equal(t, availability.RowCounted, outcomes[0].Class)
	assert.Equal(t, availability.RowCounted, outcomes[1].Class)
	assert.Equal(t, availability.RowOutsideWindow, outcomes[2].Class,
		"la demanda de 100 cae después del fin de ventana")

	// Disponible hoy con stock 10: 10 - 3 + 2 = 9.
	disponible := dec(10).Sub(demand).Add(supply)
	assert.True(t, dec(9).Equal(disponible))
}

func TestAggregatePart_FechaIgualAlFinDeVentanaEstaDentro(t *testing.T) {
	end := *fecha(2025, 6, 9)
	txs := []entity.Transaction{
		{Key: "p1", Date: fecha(2025, 6, 9), DemandQty: dec(7)},
	}
	demand, _, _ := availability.AggregatePart(txs, end, reglasHistoricas)
	assert.True(t, dec(7).Equal(demand), "el fin de ventana es inclusive")
}

func TestAggregatePart_SinFechaQuedaFuera(t *testing.T) {
	txs := []entity.Transaction{
		{Key: "p1", Date: nil, DemandQty: dec(50)},
	}
	demand, supply, outcomes := availability.AggregatePart(txs, *fecha(2025, 6, 9), reglasHistoricas)

	assert.True(t, demand.IsZero())
	assert.True(t, supply.IsZero())
	assert.Equal(t, availability.RowNoDate, outcomes[0].Class)
}

// ──────────────────────────────────────────────────────────────────────────────
// Anulación de parejas por comisión
// ──────────────────────────────────────────────────────────────────────────────

func TestAggregatePart_ParejaPorComisionSeAnulaCompleta(t *testing.T) {
	end := *fecha(2025, 6, 30)
	base := []entity.Transaction{
		{Key: "p1", Date: fecha(2025, 6, 3), DemandQty: dec(5)},
	}
	pareja := []entity.Transaction{
		{Key: "p1", Date: fecha(2025, 6, 4), DemandQty: dec(10), CommissionNo: "K-77"},
		{Key: "p1", Date: fecha(2025, 6, 5), SupplyQty: dec(10), CommissionNo: "K-77", SubRef: "ZV-1"},
	}

	demandSin, supplySin, _ := availability.AggregatePart(base, end, reglasHistoricas)
	demandCon, supplyCon, outcomes := availability.AggregatePart(append(base, pareja...), end, reglasHistoricas)

	assert.True(t, demandSin.Equal(demandCon),
		"una pareja demanda==cobertura no debe alterar la demanda acumulada")
	assert.True(t, supplySin.Equal(supplyCon),
		"una pareja demanda==cobertura no debe alterar la cobertura acumulada")
	assert.Equal(t, availability.RowPairedOut, outcomes[1].Class)
	assert.Equal(t, availability.RowPairedOut, outcomes[2].Class)
}

func TestAggregatePart_GrupoDescompensadoNoSeAnula(t *testing.T) {
	end := *fecha(2025, 6, 30)
	txs := []entity.Transaction{
		{Key: "p1", Date: fecha(2025, 6, 4), DemandQty: dec(10), CommissionNo: "K-88"},
		{Key: "p1", Date: fecha(2025, 6, 5), SupplyQty: dec(4), CommissionNo: "K-88", SubRef: "ZV-1"},
	}
	demand, supply, _ := availability.AggregatePart(txs, end, reglasHistoricas)

	assert.True(t, dec(10).Equal(demand), "demanda != cobertura: el grupo sigue contando")
	assert.True(t, dec(4).Equal(supply))
}

func TestAggregatePart_ComisionVaciaNuncaFormaPareja(t *testing.T) {
	end := *fecha(2025, 6, 30)
	txs := []entity.Transaction{
		{Key: "p1", Date: fecha(2025, 6, 4), DemandQty: dec(6), CommissionNo: ""},
		{Key: "p1", Date: fecha(2025, 6, 5), SupplyQty: dec(6), CommissionNo: "", SubRef: "ZL-2"},
	}
	demand, supply, _ := availability.AggregatePart(txs, end, reglasHistoricas)

	assert.True(t, dec(6).Equal(demand),
		"sin KommNr no hay pareja aunque las sumas coincidan")
	assert.True(t, dec(6).Equal(supply))
}

func TestAggregatePart_SinPairingRemovalLaParejaCuenta(t *testing.T) {
	end := *fecha(2025, 6, 30)
	txs := []entity.Transaction{
		{Key: "p1", Date: fecha(2025, 6, 4), DemandQty: dec(10), CommissionNo: "K-77"},
		{Key: "p1", Date: fecha(2025, 6, 5), SupplyQty: dec(10), CommissionNo: "K-77", SubRef: "ZV-1"},
	}
	reglas := availability.Rules{Policy: entity.PolicyTransferSupply, PairingRemoval: false}
	demand, supply, _ := availability.AggregatePart(txs, end, reglas)

	assert.True(t, dec(10).Equal(demand))
	assert.True(t, dec(10).Equal(supply))
}

// ──────────────────────────────────────────────────────────────────────────────
// Políticas de clasificación
// ──────────────────────────────────────────────────────────────────────────────

func TestAggregatePart_CoberturaSinMarcaNoCuentaEnPoliticaHistorica(t *testing.T) {
	end := *fecha(2025, 6, 30)
	txs := []entity.Transaction{
		{Key: "p1", Date: fecha(2025, 6, 4), SupplyQty: dec(8), SubRef: "XX-9"},
	}
	_, supply, outcomes := availability.AggregatePart(txs, end, reglasHistoricas)

	assert.True(t, supply.IsZero(),
		"cobertura sin ZV-/ZL- ni KommNr V- no es contable")
	assert.Equal(t, availability.RowNotCountable, outcomes[0].Class)
}

func TestAggregatePart_CoberturaPorOrdenPlanificada(t *testing.T) {
	end := *fecha(2025, 6, 30)
	txs := []entity.Transaction{
		{Key: "p1", Date: fecha(2025, 6, 4), SupplyQty: dec(8), CommissionNo: "V-1002"},
	}
	_, supply, _ := availability.AggregatePart(txs, end, reglasHistoricas)

	assert.True(t, dec(8).Equal(supply), "KommNr con prefijo V- marca cobertura contable")
}

func TestAggregatePart_PrefijosSonSensiblesAMayusculas(t *testing.T) {
	end := *fecha(2025, 6, 30)
	txs := []entity.Transaction{
		{Key: "p1", Date: fecha(2025, 6, 4), SupplyQty: dec(8), SubRef: "zv-1"},
		{Key: "p1", Date: fecha(2025, 6, 5), SupplyQty: dec(3), CommissionNo: "v-9"},
	}
	_, supply, _ := availability.AggregatePart(txs, end, reglasHistoricas)

	assert.True(t, supply.IsZero(),
		"el ERP emite los prefijos en mayúsculas; minúsculas no clasifican")
}

func TestAggregatePart_PoliticaStockRelevantFiltraDemandaYCobertura(t *testing.T) {
	end := *fecha(2025, 6, 30)
	txs := []entity.Transaction{
		{Key: "p1", Date: fecha(2025, 6, 3), DemandQty: dec(3)},                  // sin marca
		{Key: "p1", Date: fecha(2025, 6, 4), DemandQty: dec(2), SubRef: "ZL-7"},  // marcada
		{Key: "p1", Date: fecha(2025, 6, 5), SupplyQty: dec(5), SubRef: "ZV-7"},  // marcada
		{Key: "p1", Date: fecha(2025, 6, 6), SupplyQty: dec(9), CommissionNo: "V-3"}, // V- no basta aquí
	}
	reglas := availability.Rules{Policy: entity.PolicyStockRelevant, PairingRemoval: true}
	demand, supply, _ := availability.AggregatePart(txs, end, reglas)

	assert.True(t, dec(2).Equal(demand),
		"en stock-relevant solo cuenta la demanda con SubRef marcado")
	assert.True(t, dec(5).Equal(supply),
		"en stock-relevant la cobertura exige SubRef marcado; V- no participa")
}

// ──────────────────────────────────────────────────────────────────────────────
// Monotonía de la ventana
// ──────────────────────────────────────────────────────────────────────────────

func TestAggregatePart_VentanaMasLargaNuncaReduceAcumulados(t *testing.T) {
	txs := []entity.Transaction{
		{Key: "p1", Date: fecha(2025, 6, 3), DemandQty: dec(3)},
		{Key: "p1", Date: fecha(2025, 6, 10), DemandQty: dec(4)},
		{Key: "p1", Date: fecha(2025, 6, 17), SupplyQty: dec(2), SubRef: "ZV-1"},
		{Key: "p1", Date: fecha(2025, 6, 24), SupplyQty: dec(6), SubRef: "ZL-1"},
	}
	reglas := availability.Rules{Policy: entity.PolicyTransferSupply, PairingRemoval: false}

	prevDemand, prevSupply := decimal.Zero, decimal.Zero
	for days := 0; days <= 25; days++ {
		end := lunes.AddDate(0, 0, days)
		demand, supply, _ := availability.AggregatePart(txs, end, reglas)
		assert.False(t, demand.LessThan(prevDemand),
			"la demanda acumulada no puede bajar al crecer la ventana (días=%d)", days)
		assert.False(t, supply.LessThan(prevSupply),
			"la cobertura acumulada no puede bajar al crecer la ventana (días=%d)", days)
		prevDemand, prevSupply = demand, supply
	}
}
