package availability

import "context"

// RawTable es una tabla cruda tal como llega de una fuente: los nombres de
// columna descubiertos (en orden de aparición) y las filas como mapas
// columna -> valor sin interpretar. El normalizador de esquema es el único
// que le da significado.
type RawTable struct {
	Columns []string
	Rows    []map[string]any
}

// Snapshot son las tres tablas crudas de un mismo instante: el maestro de
// artículos con su WBZ, el log de disposición y el stock agrupado. Cada
// petición trabaja sobre un snapshot fresco; nada se cachea entre peticiones.
type Snapshot struct {
	Articles RawTable // feed wbz
	Dispo    RawTable // feed dispo
	Stock    RawTable // feed stockgrouped
}

// SourceGateway obtiene las tres fuentes, sea del servicio de datos remoto o
// de archivos locales. Un fallo de transporte en cualquiera de las tres debe
// devolver domain.ErrUpstreamUnavailable (envuelto): no hay cálculo parcial.
type SourceGateway interface {
	FetchSnapshot(ctx context.Context) (*Snapshot, error)
}
