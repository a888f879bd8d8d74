package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/bestands-api/internal/application/availability"
	"github.com/jhoicas/bestands-api/internal/domain"
	"github.com/jhoicas/bestands-api/pkg/logger"
)

// Rutas fijas del servicio de datos, relativas a la base configurada.
const (
	pathWBZ   = "/wbz"
	pathDispo = "/dispo"
	pathStock = "/stockgrouped"
)

// HTTPGateway obtiene las tres fuentes del servicio de datos remoto. Las
// peticiones son de solo lectura e idempotentes; no hay reintentos en el
// contrato.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
	log     *logger.Logger
}

// NewHTTPGateway construye el gateway remoto.
func NewHTTPGateway(baseURL string, log *logger.Logger) *HTTPGateway {
	return &HTTPGateway{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		log:     log,
	}
}

// FetchSnapshot lanza las tres peticiones en paralelo. El primer fallo
// cancela las demás y toda la petición cae con ErrUpstreamUnavailable:
// no existe el cálculo con fuentes parciales.
func (g *HTTPGateway) FetchSnapshot(ctx context.Context) (*availability.Snapshot, error) {
	var snap availability.Snapshot

	grp, ctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		t, err := g.fetchTable(ctx, pathWBZ)
		if err != nil {
			return err
		}
		snap.Articles = t
		return nil
	})
	grp.Go(func() error {
		t, err := g.fetchTable(ctx, pathDispo)
		if err != nil {
			return err
		}
		snap.Dispo = t
		return nil
	})
	grp.Go(func() error {
		t, err := g.fetchTable(ctx, pathStock)
		if err != nil {
			return err
		}
		snap.Stock = RepairStockTable(t)
		return nil
	})

	if err := grp.Wait(); err != nil {
		g.log.Error().Err(err).Msg("fallo al obtener las fuentes remotas")
		return nil, err
	}
	return &snap, nil
}

// fetchTable descarga un endpoint y lo interpreta como arreglo JSON de
// objetos fila. Cualquier defecto de transporte, estado o cuerpo se envuelve
// como ErrUpstreamUnavailable.
func (g *HTTPGateway) fetchTable(ctx context.Context, path string) (availability.RawTable, error) {
	url := g.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return availability.RawTable{}, fmt.Errorf("%w: %s: %v", domain.ErrUpstreamUnavailable, url, err)
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return availability.RawTable{}, fmt.Errorf("%w: %s: %v", domain.ErrUpstreamUnavailable, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return availability.RawTable{}, fmt.Errorf("%w: %s: estado %d", domain.ErrUpstreamUnavailable, url, resp.StatusCode)
	}

	// json.Number conserva los dígitos exactos para la coerción decimal.
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var rows []map[string]any
	if err := dec.Decode(&rows); err != nil {
		return availability.RawTable{}, fmt.Errorf("%w: %s: cuerpo no es un arreglo JSON: %v", domain.ErrUpstreamUnavailable, url, err)
	}

	return availability.RawTable{Columns: discoverColumns(rows), Rows: rows}, nil
}

// discoverColumns reúne los nombres de campo de las filas en orden
// determinista (primera aparición, claves de cada fila ordenadas: el orden
// original del objeto JSON se pierde al decodificar).
func discoverColumns(rows []map[string]any) []string {
	var cols []string
	seen := make(map[string]bool)
	for _, row := range rows {
		keys := make([]string, 0, len(row))
		for k := range row {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	return cols
}
