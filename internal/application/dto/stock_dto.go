package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AvailabilityResponse resultado del chequeo de disponibilidad. Cuando
// Available es false, los campos numéricos permiten a la UI calcular cuántas
// unidades faltan sin otra consulta.
type AvailabilityResponse struct {
	Available    bool            `json:"available"`
	QtyAvailable decimal.Decimal `json:"qty_available"`
	QtyOnHand    decimal.Decimal `json:"qty_on_hand"`
	QtyReserved  decimal.Decimal `json:"qty_reserved"`
	QtyPending   decimal.Decimal `json:"qty_pending"`
	Requested    decimal.Decimal `json:"requested"`
}

// RegisterMovementRequest body para POST /api/stock/movements.
type RegisterMovementRequest struct {
	ProductID  string          `json:"product_id"`
	LocationID string          `json:"location_id"`
	Type       string          `json:"type"` // ENTRY, EXIT, ADJUSTMENT
	Qty        decimal.Decimal `json:"qty"`
	RefType    string          `json:"ref_type,omitempty"`
	RefID      string          `json:"ref_id,omitempty"`
	Notes      string          `json:"notes,omitempty"`
}

// BalanceResponse fila del listado de saldos.
type BalanceResponse struct {
	ProductID    string          `json:"product_id"`
	LocationID   string          `json:"location_id"`
	QtyOnHand    decimal.Decimal `json:"qty_on_hand"`
	QtyReserved  decimal.Decimal `json:"qty_reserved"`
	QtyPending   decimal.Decimal `json:"qty_pending"`
	QtyAvailable decimal.Decimal `json:"qty_available"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// MovementResponse fila del listado de movimientos.
type MovementResponse struct {
	ID         string          `json:"id"`
	ProductID  string          `json:"product_id"`
	LocationID string          `json:"location_id"`
	Type       string          `json:"type"`
	Qty        decimal.Decimal `json:"qty"`
	QtyBefore  decimal.Decimal `json:"qty_before"`
	QtyAfter   decimal.Decimal `json:"qty_after"`
	RefType    string          `json:"ref_type,omitempty"`
	RefID      string          `json:"ref_id,omitempty"`
	Notes      string          `json:"notes,omitempty"`
	CreatedBy  string          `json:"created_by,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}
