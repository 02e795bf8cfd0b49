package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateReservationRequest body para POST /api/reservations.
type CreateReservationRequest struct {
	ProductID  string          `json:"product_id"`
	CustomerID string          `json:"customer_id,omitempty"`
	LocationID string          `json:"location_id"`
	Qty        decimal.Decimal `json:"qty"`
	DueAt      time.Time       `json:"due_at"`
	Notes      string          `json:"notes,omitempty"`
}

// UpdateReservationRequest body para PUT /api/reservations/:id. Solo los
// campos mutables; nil = no tocar.
type UpdateReservationRequest struct {
	DueAt *time.Time `json:"due_at,omitempty"`
	Notes *string    `json:"notes,omitempty"`
}

// ReservationEventResponse entrada de la bitácora de una reserva.
type ReservationEventResponse struct {
	ID        string    `json:"id"`
	EventType string    `json:"event_type"`
	OldStatus string    `json:"old_status,omitempty"`
	NewStatus string    `json:"new_status,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedBy string    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ReservationResponse reserva con campos denormalizados para presentación.
type ReservationResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	ProductCode     string          `json:"product_code,omitempty"`
	ProductName     string          `json:"product_name,omitempty"`
	CustomerID      string          `json:"customer_id,omitempty"`
	CustomerName    string          `json:"customer_name,omitempty"`
	SalespersonID   string          `json:"salesperson_id"`
	SalespersonName string          `json:"salesperson_name,omitempty"`
	LocationID      string          `json:"location_id"`
	Qty             decimal.Decimal `json:"qty"`
	Status          string          `json:"status"`
	DueAt           time.Time       `json:"due_at"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	ReturnedAt      *time.Time      `json:"returned_at,omitempty"`
}
