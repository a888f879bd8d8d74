package feed

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/bestands-api/internal/application/availability"
	"github.com/jhoicas/bestands-api/internal/domain"
	"github.com/jhoicas/bestands-api/pkg/logger"
)

// Nombres de archivo esperados en el directorio de fuentes.
const (
	fileWBZ   = "wbz.csv"
	fileDispo = "dispo.csv"
	fileStock = "stockgrouped.csv"
)

// FileGateway lee las tres fuentes de archivos planos locales (operación
// sin red y fixtures de test). Tolera BOM UTF-8, codificación latin1 y el
// envoltorio de comillas extra con que a veces llega el log de disposición.
type FileGateway struct {
	dir       string
	delimiter rune
	latin1    bool
	log       *logger.Logger
}

// NewFileGateway construye el gateway de archivos. encoding acepta "utf-8"
// (defecto) o "latin1".
func NewFileGateway(dir, delimiter, encoding string, log *logger.Logger) *FileGateway {
	d := ';'
	if delimiter != "" {
		d = rune(delimiter[0])
	}
	return &FileGateway{
		dir:       dir,
		delimiter: d,
		latin1:    strings.EqualFold(encoding, "latin1"),
		log:       log,
	}
}

// FetchSnapshot lee los tres archivos. Un archivo ilegible equivale a una
// fuente caída: ErrUpstreamUnavailable y ningún resultado parcial.
func (g *FileGateway) FetchSnapshot(_ context.Context) (*availability.Snapshot, error) {
	articles, err := g.readTable(fileWBZ, false)
	if err != nil {
		return nil, err
	}
	// Solo el log de disposición llega a veces envuelto en comillas.
	dispo, err := g.readTable(fileDispo, true)
	if err != nil {
		return nil, err
	}
	stock, err := g.readTable(fileStock, false)
	if err != nil {
		return nil, err
	}

	return &availability.Snapshot{
		Articles: articles,
		Dispo:    dispo,
		Stock:    RepairStockTable(stock),
	}, nil
}

// readTable lee un archivo delimitado y lo convierte en tabla cruda. La
// primera línea es el encabezado; filas cortas rellenan con vacío y filas
// largas descartan el sobrante, nunca fallan.
func (g *FileGateway) readTable(name string, unwrap bool) (availability.RawTable, error) {
	path := filepath.Join(g.dir, name)
	raw, err := os.ReadFile(path)
	if err != nil {
		return availability.RawTable{}, fmt.Errorf("%w: %s: %v", domain.ErrUpstreamUnavailable, path, err)
	}

	text, err := g.decode(raw)
	if err != nil {
		return availability.RawTable{}, fmt.Errorf("%w: %s: %v", domain.ErrUpstreamUnavailable, path, err)
	}
	if unwrap {
		text = unwrapQuotedLines(text)
	}

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = g.delimiter
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return availability.RawTable{}, fmt.Errorf("%w: %s: %v", domain.ErrUpstreamUnavailable, path, err)
	}
	if len(records) == 0 {
		return availability.RawTable{}, nil
	}

	columns := records[0]
	rows := make([]map[string]any, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(map[string]any, len(columns))
		for i, col := range columns {
			if i < len(rec) {
				row[col] = rec[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}
	return availability.RawTable{Columns: columns, Rows: rows}, nil
}

// decode pasa el contenido a UTF-8 (latin1 si está configurado) y quita el
// BOM que el ERP antepone a sus exports.
func (g *FileGateway) decode(raw []byte) (string, error) {
	if g.latin1 {
		decoded, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), raw)
		if err != nil {
			return "", err
		}
		raw = decoded
	}
	return strings.TrimPrefix(string(raw), "\uFEFF"), nil
}

// unwrapQuotedLines deshace el envoltorio de comillas de nivel extra: líneas
// completas entre comillas con las interiores duplicadas. Líneas CSV
// normales pasan intactas.
func unwrapQuotedLines(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = unwrapLine(line)
	}
	return strings.Join(lines, "\n")
}

// unwrapLine quita un nivel de comillas si y solo si la línea entera está
// envuelta: empieza y termina en comilla y todas las interiores van
// duplicadas. Cualquier comilla interior suelta delata una línea CSV normal
// con campos entrecomillados, que no se toca.
func unwrapLine(line string) string {
	trimmed := strings.TrimRight(line, "\r")
	if len(trimmed) < 2 || !strings.HasPrefix(trimmed, `"`) || !strings.HasSuffix(trimmed, `"`) {
		return line
	}
	inner := trimmed[1 : len(trimmed)-1]
	if strings.Contains(strings.ReplaceAll(inner, `""`, ""), `"`) {
		return line
	}
	unwrapped := strings.ReplaceAll(inner, `""`, `"`)
	if strings.HasSuffix(line, "\r") {
		return unwrapped + "\r"
	}
	return unwrapped
}
