package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Availability es el resultado por parte: lo libre disponible hoy dentro de
// la ventana de reaprovisionamiento. Se recalcula en cada petición y nunca
// se persiste.
type Availability struct {
	Part             string
	Key              PartKey
	StockOnHand      decimal.Decimal // Bestand (Heute)
	CumulativeDemand decimal.Decimal // kum Bedarfsmenge dentro de la ventana
	CumulativeSupply decimal.Decimal // kum Deckungsmenge contable dentro de la ventana
	AvailableToday   decimal.Decimal // StockOnHand - CumulativeDemand + CumulativeSupply
	WindowEnd        time.Time       // fecha fin de WBZ, inclusive
}
