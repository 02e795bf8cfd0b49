package entity

import "time"

// Customer es la vista mínima del cliente que referencia una reserva.
type Customer struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
}
