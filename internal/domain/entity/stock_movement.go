package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	MovementTypeENTRY          = "ENTRY"           // entrada (compra, recepción)
	MovementTypeEXIT           = "EXIT"            // salida (venta)
	MovementTypeADJUSTMENT     = "ADJUSTMENT"      // ajuste manual
	MovementTypeRESERVE        = "RESERVE"         // apartado por reserva
	MovementTypeRESERVERETURN  = "RESERVE_RETURN"  // devolución/cancelación de reserva
	MovementTypeRESERVECONVERT = "RESERVE_CONVERT" // conversión de reserva en venta
)

// Tipos de referencia al objeto de negocio que originó el movimiento.
const (
	RefTypePurchase    = "purchase"
	RefTypeSale        = "sale"
	RefTypeReservation = "reservation"
)

// StockMovement es una entrada inmutable del libro de movimientos: registra un
// cambio de cantidad con el snapshot de qty_on_hand antes y después. Nunca se
// actualiza ni se borra; es la pista de auditoría del saldo.
type StockMovement struct {
	ID         string
	ProductID  string
	LocationID string
	Type       string
	Qty        decimal.Decimal
	QtyBefore  decimal.Decimal // qty_on_hand antes del movimiento
	QtyAfter   decimal.Decimal // qty_on_hand después del movimiento
	RefType    string          // purchase, sale, reservation (opcional)
	RefID      string
	Notes      string
	CreatedBy  string
	CreatedAt  time.Time
}
