package entity

import "time"

// Material representa un ítem del maestro de materiales (cemento, acero, etc.).
type Material struct {
	ID        string
	Code      string
	Name      string
	Unit      string // unidad de medida: kg, m3, und...
	Category  string
	CreatedAt time.Time
}
