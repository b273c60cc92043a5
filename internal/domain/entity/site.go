package entity

import "time"

// Site representa una obra (sitio de construcción) que mantiene inventario propio.
type Site struct {
	ID        string
	Code      string
	Name      string
	Address   string
	Active    bool
	CreatedAt time.Time
}
