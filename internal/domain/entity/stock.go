package entity

import "github.com/shopspring/decimal"

// StockRecord es el stock físico agrupado de una parte (feed stockgrouped).
type StockRecord struct {
	Part     string
	Key      PartKey
	Quantity decimal.Decimal // Anzahl; 0 si falta o no es numérico
}
