package availability

import (
	"strings"
	"time"

	"github.com/jhoicas/bestands-api/internal/domain/entity"
)

// WindowSource indica de dónde salió la fecha fin de ventana de una parte.
type WindowSource string

const (
	// WindowFromLeadTime: hoy + WBZ días hábiles (caso normal).
	WindowFromLeadTime WindowSource = "lead-time-days"
	// WindowFromDocument: un documento WBZ en el log de disposición fija
	// la fecha directamente.
	WindowFromDocument WindowSource = "wbz-document"
)

// Window es la ventana de reaprovisionamiento resuelta para una parte.
// End es inclusive: movimientos con fecha <= End están dentro.
type Window struct {
	End    time.Time
	Source WindowSource
	// Ambiguous: había varios documentos candidatos con fechas distintas y
	// se tomó el primero en orden de fuente. El marcador es texto libre,
	// así que esto se registra en vez de tratarse como contrato.
	Ambiguous bool
}

// ResolveWindowEnd determina la fecha fin de la ventana WBZ de una parte.
// Por defecto avanza wbzDays días hábiles desde today; si el log trae un
// documento WBZ (BuchInfo contiene el marcador, con fecha válida) esa fecha
// manda. Entre varios candidatos se prefiere la subvariante "DisB 0" y, a
// igualdad, el primero en orden de fuente.
func ResolveWindowEnd(today time.Time, wbzDays int, txs []entity.Transaction) Window {
	var candidates []entity.Transaction
	for _, tx := range txs {
		// Documentos sin fecha interpretable no pueden fijar la ventana.
		if tx.Date == nil {
			continue
		}
		if containsFold(tx.BookingInfo, entity.BookingLeadTimeMarker) {
			candidates = append(candidates, tx)
		}
	}
	if len(candidates) == 0 {
		return Window{End: AddBusinessDays(today, wbzDays), Source: WindowFromLeadTime}
	}

	chosen := candidates
	if preferred := filterVariant(candidates); len(preferred) > 0 {
		chosen = preferred
	}
	w := Window{End: DateOnly(*chosen[0].Date), Source: WindowFromDocument}
	for _, c := range chosen[1:] {
		if !DateOnly(*c.Date).Equal(w.End) {
			w.Ambiguous = true
			break
		}
	}
	return w
}

// filterVariant devuelve los candidatos marcados con la subvariante.
func filterVariant(candidates []entity.Transaction) []entity.Transaction {
	var out []entity.Transaction
	for _, c := range candidates {
		if containsFold(c.BookingInfo, entity.BookingLeadTimeVariant) {
			out = append(out, c)
		}
	}
	return out
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
