package dto

import (
	"time"

	"github.com/shopspring/decimal"

	appavail "github.com/jhoicas/bestands-api/internal/application/availability"
	"github.com/jhoicas/bestands-api/internal/domain/entity"
)

// CalculateRequest body para POST /api/availability/calculate.
type CalculateRequest struct {
	Articles []string `json:"articles"`
}

// AvailabilityDTO es una fila de resultado: lo libre disponible hoy de una
// parte dentro de su ventana WBZ.
type AvailabilityDTO struct {
	Part             string          `json:"part"`
	StockOnHand      decimal.Decimal `json:"stock_on_hand"`
	CumulativeDemand decimal.Decimal `json:"cumulative_demand"`
	CumulativeSupply decimal.Decimal `json:"cumulative_supply"`
	AvailableToday   decimal.Decimal `json:"available_today"`
	LeadTimeEndDate  string          `json:"lead_time_end_date"` // fecha ISO, inclusive
}

// FromAvailability mapea la entidad de dominio al DTO.
func FromAvailability(a entity.Availability) AvailabilityDTO {
	return AvailabilityDTO{
		Part:             a.Part,
		StockOnHand:      a.StockOnHand,
		CumulativeDemand: a.CumulativeDemand,
		CumulativeSupply: a.CumulativeSupply,
		AvailableToday:   a.AvailableToday,
		LeadTimeEndDate:  a.WindowEnd.Format(time.DateOnly),
	}
}

// FromAvailabilities mapea una lista completa.
func FromAvailabilities(list []entity.Availability) []AvailabilityDTO {
	out := make([]AvailabilityDTO, 0, len(list))
	for _, a := range list {
		out = append(out, FromAvailability(a))
	}
	return out
}

// DebugRowDTO es el veredicto de un movimiento en el expediente de
// depuración: qué clase recibió y si contó como demanda o cobertura.
type DebugRowDTO struct {
	Date           string          `json:"date,omitempty"` // vacío = sin fecha interpretable
	DemandQty      decimal.Decimal `json:"demand_qty"`
	SupplyQty      decimal.Decimal `json:"supply_qty"`
	CommissionNo   string          `json:"commission_no"`
	SubRef         string          `json:"sub_ref"`
	BookingInfo    string          `json:"booking_info"`
	Classification string          `json:"classification"`
	DemandCounted  bool            `json:"demand_counted"`
	SupplyCounted  bool            `json:"supply_counted"`
}

// DebugColumnsDTO columnas descubiertas por fuente.
type DebugColumnsDTO struct {
	WBZ   []string `json:"wbz"`
	Dispo []string `json:"dispo"`
	Stock []string `json:"stock"`
}

// DebugRawDTO filas crudas (pre-normalización) por fuente que casaron con la
// clave canónica de la parte.
type DebugRawDTO struct {
	WBZ   []map[string]any `json:"wbz"`
	Dispo []map[string]any `json:"dispo"`
	Stock []map[string]any `json:"stock"`
}

// DebugResponse respuesta de GET /api/availability/debug/:teil.
type DebugResponse struct {
	Result          AvailabilityDTO `json:"result"`
	WindowEnd       string          `json:"window_end"`
	WindowSource    string          `json:"window_source"` // lead-time-days | wbz-document
	WindowAmbiguous bool            `json:"window_ambiguous"`
	Rows            []DebugRowDTO   `json:"rows"`
	Raw             DebugRawDTO     `json:"raw"`
	Columns         DebugColumnsDTO `json:"columns"`
}

// FromInspection mapea el expediente de depuración al DTO de respuesta.
func FromInspection(in *appavail.Inspection) DebugResponse {
	rows := make([]DebugRowDTO, 0, len(in.Rows))
	for _, o := range in.Rows {
		row := DebugRowDTO{
			DemandQty:      o.Tx.DemandQty,
			SupplyQty:      o.Tx.SupplyQty,
			CommissionNo:   o.Tx.CommissionNo,
			SubRef:         o.Tx.SubRef,
			BookingInfo:    o.Tx.BookingInfo,
			Classification: string(o.Class),
			DemandCounted:  o.DemandCounted,
			SupplyCounted:  o.SupplyCounted,
		}
		if o.Tx.Date != nil {
			row.Date = o.Tx.Date.Format(time.DateOnly)
		}
		rows = append(rows, row)
	}

	return DebugResponse{
		Result:          FromAvailability(in.Result),
		WindowEnd:       in.Window.End.Format(time.DateOnly),
		WindowSource:    string(in.Window.Source),
		WindowAmbiguous: in.Window.Ambiguous,
		Rows:            rows,
		Raw: DebugRawDTO{
			WBZ:   in.Raw.Articles,
			Dispo: in.Raw.Dispo,
			Stock: in.Raw.Stock,
		},
		Columns: DebugColumnsDTO{
			WBZ:   in.Columns.Articles,
			Dispo: in.Columns.Dispo,
			Stock: in.Columns.Stock,
		},
	}
}
