package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockBalance es el saldo de stock de un producto en una sucursal: una fila
// por (producto, sucursal). QtyReserved es la suma de las reservas abiertas;
// QtyPending es cantidad facturada aún no recibida/entregada físicamente.
// Se muta únicamente a través del Stock Service o del ciclo de reservas,
// nunca con UPDATE directo.
type StockBalance struct {
	ProductID   string
	LocationID  string
	QtyOnHand   decimal.Decimal
	QtyReserved decimal.Decimal
	QtyPending  decimal.Decimal
	UpdatedAt   time.Time
}

// QtyAvailable devuelve la cantidad disponible: on_hand - reserved - pending.
func (b *StockBalance) QtyAvailable() decimal.Decimal {
	return b.QtyOnHand.Sub(b.QtyReserved).Sub(b.QtyPending)
}
