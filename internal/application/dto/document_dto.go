package dto

import "time"

// ListDocument contenido de una exportación tabular (PDF).
type ListDocument struct {
	Title       string
	Filters     string // resumen legible de los filtros aplicados
	Headers     []string
	Rows        [][]string
	GeneratedAt time.Time
}
