package entity

import "time"

// Product es la vista mínima del catálogo que necesita el núcleo de stock:
// el producto se administra en otro módulo, aquí solo se referencia.
type Product struct {
	ID        string
	Code      string
	Name      string
	Active    bool
	CreatedAt time.Time
}
