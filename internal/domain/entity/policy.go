package entity

// ClassificationPolicy decide qué filas cuentan como demanda y cobertura al
// agregar dentro de la ventana. Se fija por configuración del despliegue,
// nunca por petición. Los dos sistemas origen divergían en esta regla; aquí
// las dos variantes conviven con nombre explícito.
type ClassificationPolicy string

const (
	// PolicyTransferSupply (comportamiento histórico): la demanda cuenta
	// siempre; la cobertura solo si la fila viene marcada como traslado de
	// entrada (SubRefObj ZV-/ZL-) o como orden planificada (KommNr V-).
	PolicyTransferSupply ClassificationPolicy = "transfer-supply"

	// PolicyStockRelevant: demanda y cobertura cuentan únicamente en filas
	// marcadas como relevantes para stock por SubRefObj (ZV-/ZL-).
	PolicyStockRelevant ClassificationPolicy = "stock-relevant"
)

// Valid informa si la política es una de las variantes soportadas.
func (p ClassificationPolicy) Valid() bool {
	return p == PolicyTransferSupply || p == PolicyStockRelevant
}

// Prefijos y marcadores que el ERP emite en los campos de texto del feed
// dispo. Son contrato del sistema origen, no elección nuestra.
const (
	// Traslados de entrada en SubRefObj.
	SubRefTransferInbound  = "ZV-"
	SubRefTransferInternal = "ZL-"

	// Órdenes planificadas (PPA) en KommNr.
	CommissionPlannedOrder = "V-"

	// Marcador en BuchInfo de un documento que fija el fin de la ventana
	// WBZ para la parte, y su subvariante preferida.
	BookingLeadTimeMarker  = "WBZ-Beleg"
	BookingLeadTimeVariant = "DisB 0"
)
