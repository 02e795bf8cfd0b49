package entity

import "time"

// Notification es una notificación dirigida a un usuario (campanita en la UI).
// Metadata lleva datos para que el frontend enlace al objeto origen.
type Notification struct {
	ID        string
	UserID    string
	Type      string
	Title     string
	Message   string
	Metadata  map[string]any
	Read      bool
	CreatedAt time.Time
}
