package entity

import "time"

// Location es la sucursal/empresa que escopa saldos, movimientos y reservas.
type Location struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
