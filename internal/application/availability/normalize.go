package availability

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/bestands-api/internal/domain/entity"
	"github.com/jhoicas/bestands-api/pkg/logger"
)

// Alias de columnas aceptados por campo, en orden de prioridad. Los exports
// del ERP no son estables en nombres; el primero presente gana.
var (
	wbzAliases     = []string{"WBZ", "Wiederbeschaffungszeit"}
	demandAliases  = []string{"Bedarfsmenge", "Bedarf"}
	supplyAliases  = []string{"Deckungsmenge", "Deckung"}
	stockAliases   = []string{"Anzahl", "Menge", "Bestand"}
	dateAliases    = []string{"Termin", "Datum"}
	kommAliases    = []string{"KommNr", "Kommission"}
	subRefAliases  = []string{"SubRefObj", "SubRef"}
	bookingAliases = []string{"BuchInfo", "Buchungsinfo", "Info"}
)

// Layouts de fecha aceptados; los alemanes (día primero) van delante porque
// son el formato nativo del feed.
var dateLayouts = []string{
	"02.01.2006",
	"2.1.2006",
	"02.01.2006 15:04:05",
	"2006-01-02",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"02/01/2006",
}

// Normalizer traduce tablas crudas a entidades tipadas. Nunca falla por una
// celda malformada: los defectos degradan a valores neutros (0, fecha
// ausente, cadena vacía) para que una fila mala no bloquee el cálculo de
// todas las partes.
type Normalizer struct {
	log *logger.Logger
}

// NewNormalizer construye el normalizador de esquema.
func NewNormalizer(log *logger.Logger) *Normalizer {
	return &Normalizer{log: log}
}

// Articles normaliza el maestro de artículos (feed wbz). Filas cuya clave
// canónica queda vacía se descartan: no pueden cruzarse con nada.
func (n *Normalizer) Articles(t RawTable) []entity.Article {
	idx, partCol, ok := n.indexTable(t, "wbz")
	if !ok {
		return nil
	}
	out := make([]entity.Article, 0, len(t.Rows))
	for _, row := range t.Rows {
		raw := stringify(row[partCol])
		key := entity.CanonicalPartKey(raw)
		if key.IsZero() {
			continue
		}
		wbz := int(numericField(row, idx, wbzAliases).IntPart())
		if wbz < 0 {
			wbz = 0
		}
		out = append(out, entity.Article{
			Part:    entity.CleanPart(raw),
			Key:     key,
			WBZDays: wbz,
		})
	}
	return out
}

// Transactions normaliza el log de disposición (feed dispo). Los campos de
// texto libre quedan garantizados como cadenas (vacías si faltan) para que
// la clasificación posterior nunca tropiece con una columna ausente.
func (n *Normalizer) Transactions(t RawTable) []entity.Transaction {
	idx, partCol, ok := n.indexTable(t, "dispo")
	if !ok {
		return nil
	}
	out := make([]entity.Transaction, 0, len(t.Rows))
	for _, row := range t.Rows {
		raw := stringify(row[partCol])
		key := entity.CanonicalPartKey(raw)
		if key.IsZero() {
			continue
		}
		out = append(out, entity.Transaction{
			Part:         entity.CleanPart(raw),
			Key:          key,
			Date:         dateField(row, idx, dateAliases),
			DemandQty:    numericField(row, idx, demandAliases),
			SupplyQty:    numericField(row, idx, supplyAliases),
			CommissionNo: textField(row, idx, kommAliases),
			SubRef:       textField(row, idx, subRefAliases),
			BookingInfo:  textField(row, idx, bookingAliases),
		})
	}
	return out
}

// Stock normaliza el stock agrupado (feed stockgrouped).
func (n *Normalizer) Stock(t RawTable) []entity.StockRecord {
	idx, partCol, ok := n.indexTable(t, "stockgrouped")
	if !ok {
		return nil
	}
	out := make([]entity.StockRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		raw := stringify(row[partCol])
		key := entity.CanonicalPartKey(raw)
		if key.IsZero() {
			continue
		}
		out = append(out, entity.StockRecord{
			Part:     entity.CleanPart(raw),
			Key:      key,
			Quantity: numericField(row, idx, stockAliases),
		})
	}
	return out
}

// indexTable limpia los encabezados y localiza la columna de parte. Sin
// columna de parte la tabla entera degrada a cero filas (con aviso): no hay
// forma de unir lo que no se puede identificar.
func (n *Normalizer) indexTable(t RawTable, source string) (headerIndex, string, bool) {
	idx := indexHeaders(t.Columns)
	partCol, ok := findPartColumn(t.Columns)
	if !ok {
		n.log.Warn().
			Str("fuente", source).
			Strs("columnas", t.Columns).
			Msg("sin columna de parte (Teil): la tabla normaliza a cero filas")
		return nil, "", false
	}
	return idx, partCol, true
}

// headerIndex cruza el nombre de encabezado limpio (minúsculas, sin comillas
// ni espacios) con la clave original de las filas.
type headerIndex map[string]string

func indexHeaders(columns []string) headerIndex {
	idx := make(headerIndex, len(columns))
	for _, col := range columns {
		clean := strings.ToLower(entity.CleanPart(col))
		if clean == "" {
			continue
		}
		if _, seen := idx[clean]; !seen {
			idx[clean] = col
		}
	}
	return idx
}

// findPartColumn busca la primera columna cuyo nombre contiene "teil"
// (insensible a mayúsculas). Devuelve el nombre original, apto como clave
// de fila.
func findPartColumn(columns []string) (string, bool) {
	for _, col := range columns {
		if strings.Contains(strings.ToLower(entity.CleanPart(col)), "teil") {
			return col, true
		}
	}
	return "", false
}

// rawValue devuelve el primer valor presente según la lista de alias.
func rawValue(row map[string]any, idx headerIndex, aliases []string) (any, bool) {
	for _, alias := range aliases {
		orig, ok := idx[strings.ToLower(alias)]
		if !ok {
			continue
		}
		if v, ok := row[orig]; ok {
			return v, true
		}
	}
	return nil, false
}

// numericField coerciona a decimal con 0 como valor neutro. Acepta números
// JSON y cadenas con coma decimal alemana.
func numericField(row map[string]any, idx headerIndex, aliases []string) decimal.Decimal {
	v, ok := rawValue(row, idx, aliases)
	if !ok {
		return decimal.Zero
	}
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n)
	case int:
		return decimal.NewFromInt(int64(n))
	case int64:
		return decimal.NewFromInt(n)
	case json.Number:
		if d, err := decimal.NewFromString(n.String()); err == nil {
			return d
		}
	case string:
		s := strings.TrimSpace(strings.Trim(n, `"`))
		s = strings.ReplaceAll(s, ",", ".")
		if s == "" {
			return decimal.Zero
		}
		if d, err := decimal.NewFromString(s); err == nil {
			return d
		}
	}
	return decimal.Zero
}

// dateField interpreta una fecha de calendario (sin hora, UTC). Valores no
// interpretables quedan como ausentes: esas filas caen fuera de cualquier
// ventana, nunca tumban la fila entera.
func dateField(row map[string]any, idx headerIndex, aliases []string) *time.Time {
	v, ok := rawValue(row, idx, aliases)
	if !ok {
		return nil
	}
	s := strings.TrimSpace(strings.Trim(stringify(v), `"`))
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &d
		}
	}
	return nil
}

// textField garantiza una cadena (recortada; vacía si falta).
func textField(row map[string]any, idx headerIndex, aliases []string) string {
	v, ok := rawValue(row, idx, aliases)
	if !ok || v == nil {
		return ""
	}
	return strings.TrimSpace(stringify(v))
}

func stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case json.Number:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}
