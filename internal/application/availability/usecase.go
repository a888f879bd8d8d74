package availability

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	domavail "github.com/jhoicas/bestands-api/internal/domain/availability"
	"github.com/jhoicas/bestands-api/internal/domain/entity"
	"github.com/jhoicas/bestands-api/pkg/logger"
)

// UseCase calcula "Heute frei verfügbar" por parte: stock físico menos
// demanda acumulada más cobertura contable, todo dentro de la ventana WBZ de
// la parte. Cada llamada parte de un snapshot fresco de las tres fuentes;
// el motor no guarda estado entre peticiones.
type UseCase struct {
	gateway SourceGateway
	norm    *Normalizer
	rules   domavail.Rules
	strict  bool
	now     func() time.Time
	log     *logger.Logger
}

// Options parametriza el motor al construirlo. Estas decisiones son de
// despliegue (ver pkg/config), nunca por petición.
type Options struct {
	Policy         entity.ClassificationPolicy
	PairingRemoval bool
	// StrictSources reproduce el comportamiento legado: si cualquiera de
	// las tres fuentes normaliza a cero filas, el resultado es vacío.
	StrictSources bool
	// Today fija el "hoy" del cálculo (tests, reprocesos). Cero = fecha
	// real del sistema.
	Today time.Time
	Log   *logger.Logger
}

// NewUseCase construye el caso de uso. Una política desconocida cae a la
// histórica (transfer-supply) con aviso.
func NewUseCase(gateway SourceGateway, opts Options) *UseCase {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	policy := opts.Policy
	if !policy.Valid() {
		log.Warn().
			Str("politica", string(opts.Policy)).
			Msg("política de clasificación desconocida; se usa transfer-supply")
		policy = entity.PolicyTransferSupply
	}

	now := func() time.Time { return domavail.DateOnly(time.Now()) }
	if !opts.Today.IsZero() {
		fixed := domavail.DateOnly(opts.Today)
		now = func() time.Time { return fixed }
	}

	return &UseCase{
		gateway: gateway,
		norm:    NewNormalizer(log),
		rules:   domavail.Rules{Policy: policy, PairingRemoval: opts.PairingRemoval},
		strict:  opts.StrictSources,
		now:     now,
		log:     log,
	}
}

// CalculateAll calcula la disponibilidad de todas las partes conocidas: la
// unión de claves canónicas de las tres fuentes. Una parte presente en una
// sola fuente también sale, con ceros en lo que falte.
func (uc *UseCase) CalculateAll(ctx context.Context) ([]entity.Availability, error) {
	snap, err := uc.gateway.FetchSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return uc.compute(uc.normalize(snap)), nil
}

// Calculate calcula solo las partes pedidas. Los identificadores crudos se
// canonicalizan antes de comparar; partes desconocidas simplemente no salen.
func (uc *UseCase) Calculate(ctx context.Context, parts []string) ([]entity.Availability, error) {
	wanted := make(map[entity.PartKey]bool, len(parts))
	for _, p := range parts {
		if key := entity.CanonicalPartKey(p); !key.IsZero() {
			wanted[key] = true
		}
	}

	all, err := uc.CalculateAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Availability, 0, len(wanted))
	for _, r := range all {
		if wanted[r.Key] {
			out = append(out, r)
		}
	}
	return out, nil
}

// dataset son las tres fuentes ya normalizadas de un snapshot.
type dataset struct {
	articles []entity.Article
	txs      []entity.Transaction
	stock    []entity.StockRecord
}

func (uc *UseCase) normalize(snap *Snapshot) dataset {
	return dataset{
		articles: uc.norm.Articles(snap.Articles),
		txs:      uc.norm.Transactions(snap.Dispo),
		stock:    uc.norm.Stock(snap.Stock),
	}
}

// compute agrega por parte sobre la unión de claves. Orden de salida:
// alfabético por clave canónica, para que dos corridas sobre el mismo
// snapshot sean idénticas fila a fila.
func (uc *UseCase) compute(ds dataset) []entity.Availability {
	if uc.strict && (len(ds.articles) == 0 || len(ds.txs) == 0 || len(ds.stock) == 0) {
		uc.log.Warn().
			Int("articulos", len(ds.articles)).
			Int("movimientos", len(ds.txs)).
			Int("stock", len(ds.stock)).
			Msg("modo estricto: alguna fuente quedó vacía, resultado vacío")
		return []entity.Availability{}
	}

	idx := indexDataset(ds)
	keys := make([]entity.PartKey, 0, len(idx.display))
	for key := range idx.display {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	today := uc.now()
	out := make([]entity.Availability, 0, len(keys))
	for _, key := range keys {
		r, window, _ := uc.computePart(idx, key, today)
		if window.Ambiguous {
			uc.log.Warn().
				Str("teil", r.Part).
				Time("fin_ventana", window.End).
				Msg("varios documentos WBZ con fechas distintas; se tomó el primero en orden de fuente")
		}
		out = append(out, r)
	}
	return out
}

// computePart resuelve ventana y agrega una sola parte. Claves sin fila en
// alguna fuente reciben los neutros: stock 0, WBZ 0 (ventana del mismo día).
func (uc *UseCase) computePart(idx datasetIndex, key entity.PartKey, today time.Time) (entity.Availability, domavail.Window, []domavail.RowOutcome) {
	txs := idx.txsByKey[key]
	window := domavail.ResolveWindowEnd(today, idx.wbzByKey[key], txs)
	demand, supply, outcomes := domavail.AggregatePart(txs, window.End, uc.rules)

	stock, ok := idx.stockByKey[key]
	if !ok {
		stock = decimal.Zero
	}
	return entity.Availability{
		Part:             idx.display[key],
		Key:              key,
		StockOnHand:      stock,
		CumulativeDemand: demand,
		CumulativeSupply: supply,
		AvailableToday:   stock.Sub(demand).Add(supply),
		WindowEnd:        window.End,
	}, window, outcomes
}

// datasetIndex son los cruces por clave canónica de un dataset.
type datasetIndex struct {
	wbzByKey   map[entity.PartKey]int
	stockByKey map[entity.PartKey]decimal.Decimal
	txsByKey   map[entity.PartKey][]entity.Transaction
	display    map[entity.PartKey]string
}

func indexDataset(ds dataset) datasetIndex {
	idx := datasetIndex{
		wbzByKey:   make(map[entity.PartKey]int),
		stockByKey: make(map[entity.PartKey]decimal.Decimal),
		txsByKey:   make(map[entity.PartKey][]entity.Transaction),
		display:    make(map[entity.PartKey]string),
	}

	// Stock primero: filas duplicadas por clave se suman, y su forma de
	// display tiene prioridad sobre artículos y movimientos.
	for _, s := range ds.stock {
		idx.stockByKey[s.Key] = idx.stockByKey[s.Key].Add(s.Quantity)
		if _, ok := idx.display[s.Key]; !ok {
			idx.display[s.Key] = s.Part
		}
	}
	// Artículos duplicados: gana el primero en orden de fuente.
	for _, a := range ds.articles {
		if _, ok := idx.wbzByKey[a.Key]; !ok {
			idx.wbzByKey[a.Key] = a.WBZDays
		}
		if _, ok := idx.display[a.Key]; !ok {
			idx.display[a.Key] = a.Part
		}
	}
	// Movimientos conservan el orden de fuente por clave: la resolución de
	// ventana depende de ese orden entre documentos candidatos.
	for _, tx := range ds.txs {
		idx.txsByKey[tx.Key] = append(idx.txsByKey[tx.Key], tx)
		if _, ok := idx.display[tx.Key]; !ok {
			idx.display[tx.Key] = tx.Part
		}
	}
	return idx
}
