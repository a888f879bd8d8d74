package availability

import (
	"context"

	domavail "github.com/jhoicas/bestands-api/internal/domain/availability"
	"github.com/jhoicas/bestands-api/internal/domain/entity"
)

// SourceColumns son los nombres de columna descubiertos en cada fuente,
// tal cual llegaron (sin limpiar).
type SourceColumns struct {
	Articles []string
	Dispo    []string
	Stock    []string
}

// RawMatches son las filas crudas (antes de normalizar) de cada fuente cuyo
// identificador de parte colapsa en la clave buscada.
type RawMatches struct {
	Articles []map[string]any
	Dispo    []map[string]any
	Stock    []map[string]any
}

// Inspection es el expediente de depuración de una parte: el resultado, la
// ventana resuelta con su origen, el veredicto de cada movimiento y el
// material crudo que lo produjo. Solo lectura; no toca el cálculo productivo.
type Inspection struct {
	Result  entity.Availability
	Window  domavail.Window
	Rows    []domavail.RowOutcome
	Raw     RawMatches
	Columns SourceColumns
}

// Debug vuelve a ejecutar el pipeline completo para una sola parte y expone
// cada artefacto intermedio. Una parte sin fila en ninguna fuente devuelve
// un resultado a ceros, no un error: "no está" también es una respuesta.
func (uc *UseCase) Debug(ctx context.Context, rawPart string) (*Inspection, error) {
	snap, err := uc.gateway.FetchSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	key := entity.CanonicalPartKey(rawPart)
	ds := uc.normalize(snap)
	idx := indexDataset(ds)
	if _, known := idx.display[key]; !known {
		// Parte desconocida: display con el identificador limpio del caller.
		idx.display[key] = entity.CleanPart(rawPart)
	}

	result, window, outcomes := uc.computePart(idx, key, uc.now())

	return &Inspection{
		Result:  result,
		Window:  window,
		Rows:    outcomes,
		Raw: RawMatches{
			Articles: matchRawRows(snap.Articles, key),
			Dispo:    matchRawRows(snap.Dispo, key),
			Stock:    matchRawRows(snap.Stock, key),
		},
		Columns: SourceColumns{
			Articles: snap.Articles.Columns,
			Dispo:    snap.Dispo.Columns,
			Stock:    snap.Stock.Columns,
		},
	}, nil
}

// matchRawRows filtra las filas crudas de una tabla por clave canónica.
// Tablas sin columna de parte no aportan nada.
func matchRawRows(t RawTable, key entity.PartKey) []map[string]any {
	partCol, ok := findPartColumn(t.Columns)
	if !ok {
		return nil
	}
	var out []map[string]any
	for _, row := range t.Rows {
		if entity.CanonicalPartKey(stringify(row[partCol])) == key {
			out = append(out, row)
		}
	}
	return out
}
