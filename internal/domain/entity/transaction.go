package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction es un movimiento de demanda/cobertura del log de disposición
// (feed dispo). Una misma fila puede traer demanda y cobertura a la vez
// (p. ej. un traslado interno).
type Transaction struct {
	Part string
	Key  PartKey
	// Date es la fecha del movimiento (Termin) sin componente horario.
	// nil cuando la fuente no trae fecha o no se pudo interpretar; esas
	// filas quedan fuera de cualquier ventana.
	Date         *time.Time
	DemandQty    decimal.Decimal // Bedarfsmenge, >= 0
	SupplyQty    decimal.Decimal // Deckungsmenge, >= 0
	CommissionNo string          // KommNr: agrupa pares demanda/cobertura ligados
	SubRef       string          // SubRefObj: clasifica el origen del movimiento
	BookingInfo  string          // texto libre de la contabilización (BuchInfo)
}
