package availability_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appavail "github.com/jhoicas/bestands-api/internal/application/availability"
	"github.com/jhoicas/bestands-api/internal/domain/entity"
	"github.com/jhoicas/bestands-api/pkg/logger"
)

func norm() *appavail.Normalizer {
	return appavail.NewNormalizer(logger.Nop())
}

func tabla(columns []string, rows ...map[string]any) appavail.RawTable {
	return appavail.RawTable{Columns: columns, Rows: rows}
}

// ──────────────────────────────────────────────────────────────────────────────
// Maestro de artículos (wbz): localización de la columna de parte, alias de
// WBZ y coerción numérica con valores neutros.
// ──────────────────────────────────────────────────────────────────────────────

func TestArticles_ColumnaDeParteConRuidoYAliasDeWBZ(t *testing.T) {
	// Encabezados con comillas y BOM, alias largo de WBZ.
	in := tabla(
		[]string{"\uFEFF\"Teil\"", "Wiederbeschaffungszeit"},
		map[string]any{"\uFEFF\"Teil\"": "ABC123", "Wiederbeschaffungszeit": json.Number("5")},
	)
	out := norm().Articles(in)

	require.Len(t, out, 1)
	assert.Equal(t, entity.PartKey("abc123"), out[0].Key)
	assert.Equal(t, "ABC123", out[0].Part, "el display conserva mayúsculas")
	assert.Equal(t, 5, out[0].WBZDays)
}

func TestArticles_WBZNoNumericoONegativoDegradaACero(t *testing.T) {
	in := tabla(
		[]string{"Teil", "WBZ"},
		map[string]any{"Teil": "P1", "WBZ": "sin datos"},
		map[string]any{"Teil": "P2", "WBZ": json.Number("-3")},
		map[string]any{"Teil": "P3"},
	)
	out := norm().Articles(in)

	require.Len(t, out, 3)
	for _, a := range out {
		assert.Equal(t, 0, a.WBZDays, "WBZ defectuoso o ausente debe quedar en 0 (parte %s)", a.Part)
	}
}

func TestArticles_SinColumnaDeParteNormalizaACeroFilas(t *testing.T) {
	in := tabla(
		[]string{"Articulo", "WBZ"},
		map[string]any{"Articulo": "P1", "WBZ": json.Number("5")},
	)
	assert.Empty(t, norm().Articles(in),
		"sin columna que contenga 'teil' no hay forma de cruzar: cero filas")
}

func TestArticles_ClaveVaciaSeDescarta(t *testing.T) {
	in := tabla(
		[]string{"Teil", "WBZ"},
		map[string]any{"Teil": "  \"\"  ", "WBZ": json.Number("2")},
		map[string]any{"Teil": "P1", "WBZ": json.Number("2")},
	)
	out := norm().Articles(in)

	require.Len(t, out, 1)
	assert.Equal(t, entity.PartKey("p1"), out[0].Key)
}

// ──────────────────────────────────────────────────────────────────────────────
// Log de disposición (dispo): fechas alemanas día-primero, cantidades con
// coma decimal y campos de texto garantizados.
// ──────────────────────────────────────────────────────────────────────────────

func TestTransactions_FechaAlemanaEISO(t *testing.T) {
	in := tabla(
		[]string{"Teil", "Termin", "Bedarfsmenge"},
		map[string]any{"Teil": "P1", "Termin": "03.06.2025", "Bedarfsmenge": json.Number("3")},
		map[string]any{"Teil": "P1", "Termin": "2025-06-04", "Bedarfsmenge": json.Number("1")},
		map[string]any{"Teil": "P1", "Termin": "esto no es fecha", "Bedarfsmenge": json.Number("9")},
	)
	out := norm().Transactions(in)

	require.Len(t, out, 3)
	require.NotNil(t, out[0].Date)
	assert.Equal(t, time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC), *out[0].Date,
		"03.06.2025 es día-primero: 3 de junio, no 6 de marzo")
	require.NotNil(t, out[1].Date)
	assert.Equal(t, time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC), *out[1].Date)
	assert.Nil(t, out[2].Date, "una fecha ininterpretable queda ausente, la fila sobrevive")
}

func TestTransactions_ComaDecimalAlemanaYDefectosNumericos(t *testing.T) {
	in := tabla(
		[]string{"Teil", "Termin", "Bedarfsmenge", "Deckungsmenge"},
		map[string]any{"Teil": "P1", "Termin": "03.06.2025", "Bedarfsmenge": "2,5", "Deckungsmenge": "x"},
	)
	out := norm().Transactions(in)

	require.Len(t, out, 1)
	assert.True(t, decimal.NewFromFloat(2.5).Equal(out[0].DemandQty))
	assert.True(t, out[0].SupplyQty.IsZero(), "cantidad no numérica degrada a 0")
}

func TestTransactions_CamposDeTextoGarantizados(t *testing.T) {
	// Sin columnas de texto en absoluto: los campos salen como cadena vacía
	// para que la clasificación posterior nunca tropiece.
	in := tabla(
		[]string{"Teil", "Termin"},
		map[string]any{"Teil": "P1", "Termin": "03.06.2025"},
	)
	out := norm().Transactions(in)

	require.Len(t, out, 1)
	assert.Equal(t, "", out[0].CommissionNo)
	assert.Equal(t, "", out[0].SubRef)
	assert.Equal(t, "", out[0].BookingInfo)
}

func TestTransactions_AliasDeTexto(t *testing.T) {
	in := tabla(
		[]string{"Teil", "Termin", "Kommission", "SubRef", "Info"},
		map[string]any{
			"Teil": "P1", "Termin": "03.06.2025",
			"Kommission": " K-9 ", "SubRef": "ZV-1", "Info": "WBZ-Beleg DisB 0",
		},
	)
	out := norm().Transactions(in)

	require.Len(t, out, 1)
	assert.Equal(t, "K-9", out[0].CommissionNo, "el texto llega recortado")
	assert.Equal(t, "ZV-1", out[0].SubRef)
	assert.Equal(t, "WBZ-Beleg DisB 0", out[0].BookingInfo)
}

// ──────────────────────────────────────────────────────────────────────────────
// Stock agrupado: alias de cantidad y neutros.
// ──────────────────────────────────────────────────────────────────────────────

func TestStock_AliasDeCantidad(t *testing.T) {
	in := tabla(
		[]string{"Teil", "Menge"},
		map[string]any{"Teil": "P1", "Menge": json.Number("10")},
	)
	out := norm().Stock(in)

	require.Len(t, out, 1)
	assert.True(t, decimal.NewFromInt(10).Equal(out[0].Quantity))
}

func TestStock_CantidadDefectuosaDegradaACero(t *testing.T) {
	in := tabla(
		[]string{"Teil", "Anzahl"},
		map[string]any{"Teil": "P2", "Anzahl": "notanumber"},
	)
	out := norm().Stock(in)

	require.Len(t, out, 1)
	assert.Equal(t, entity.PartKey("p2"), out[0].Key,
		"la parte sigue presente aunque su cantidad sea basura")
	assert.True(t, out[0].Quantity.IsZero())
}
