package feed

import (
	"regexp"
	"strings"

	"github.com/jhoicas/bestands-api/internal/application/availability"
)

// stockPairPattern reconoce el export degenerado del stock: cada fila es un
// único texto "parte,cantidad" con comillas opcionales alrededor de cada
// pedazo.
var stockPairPattern = regexp.MustCompile(`^\s*"?\s*(.*?)\s*"?\s*,\s*"?\s*(-?[0-9]+(?:[.,][0-9]+)?)\s*"?\s*$`)

// RepairStockTable repara la forma malformada conocida del feed stockgrouped:
// una tabla de una sola columna donde parte y cantidad viajan pegadas como
// texto entre comillas. Las filas que no casan con el patrón salen con
// cantidad 0 y el texto como parte; una fila mala no tumba el lote. Tablas
// bien formadas pasan intactas.
func RepairStockTable(t availability.RawTable) availability.RawTable {
	if len(t.Columns) != 1 {
		return t
	}
	col := t.Columns[0]

	repaired := availability.RawTable{
		Columns: []string{"Teil", "Anzahl"},
		Rows:    make([]map[string]any, 0, len(t.Rows)),
	}
	for _, row := range t.Rows {
		text, _ := row[col].(string)
		part, qty := splitStockPair(text)
		repaired.Rows = append(repaired.Rows, map[string]any{
			"Teil":   part,
			"Anzahl": qty,
		})
	}
	return repaired
}

// splitStockPair separa "parte,cantidad". Sin pareja reconocible la cantidad
// es "0" y la parte el texto completo (sin comillas), o lo que quede antes de
// la última coma si el resto no es numérico.
func splitStockPair(text string) (part, qty string) {
	if m := stockPairPattern.FindStringSubmatch(text); m != nil {
		return m[1], m[2]
	}
	clean := strings.TrimSpace(strings.Trim(strings.TrimSpace(text), `"`))
	if i := strings.LastIndex(clean, ","); i >= 0 {
		return strings.TrimSpace(clean[:i]), "0"
	}
	return clean, "0"
}
