package listing

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jhoicas/millet-kiosk/pkg/listview"
)

// SetFilter filtro de pertenencia visible en la barra de filtros. Si Options
// está vacío, las opciones se derivan de las filas cargadas.
type SetFilter struct {
	Name    string
	Label   string
	Options []string
}

// RangeFilter filtro de rango numérico (mínimo/máximo).
type RangeFilter struct {
	Name  string
	Label string
}

// Definition describe una entidad listable: cómo buscar, filtrar, ordenar y
// exportar sus filas. Es estática; no guarda estado.
type Definition[T any] struct {
	Name         string // slug usado en rutas y en el nombre del CSV
	Title        string
	Key          func(T) string
	Schema       listview.Schema[T]
	CSV          []listview.CSVColumn[T]
	DefaultSort  listview.SortState
	PageSize     int
	SetFilters   []SetFilter
	RangeFilters []RangeFilter
}

// WithPageSize copia la definición con otro tamaño de página.
func (d Definition[T]) WithPageSize(n int) Definition[T] {
	d.PageSize = n
	return d
}

// Find devuelve la fila con clave id entre rows.
func (d Definition[T]) Find(rows []T, id string) (T, bool) {
	for _, r := range rows {
		if d.Key(r) == id {
			return r, true
		}
	}
	var zero T
	return zero, false
}

// Describe resumen legible de los filtros activos de st, en el orden de la
// barra de filtros. Lo usan los encabezados de las exportaciones PDF.
func (d Definition[T]) Describe(st State) string {
	var parts []string
	if st.Filters.Search != "" {
		parts = append(parts, fmt.Sprintf("búsqueda: %q", st.Filters.Search))
	}
	for _, f := range d.SetFilters {
		members := st.Filters.Members(f.Name)
		if len(members) == 0 {
			continue
		}
		sort.Strings(members)
		parts = append(parts, strings.ToLower(f.Label)+": "+strings.Join(members, ", "))
	}
	for _, f := range d.RangeFilters {
		rg, ok := st.Filters.Ranges[f.Name]
		if !ok || rg.IsZero() {
			continue
		}
		text := strings.ToLower(f.Label) + ":"
		if rg.Min != nil {
			text += " desde " + strconv.FormatFloat(*rg.Min, 'f', -1, 64)
		}
		if rg.Max != nil {
			text += " hasta " + strconv.FormatFloat(*rg.Max, 'f', -1, 64)
		}
		parts = append(parts, text)
	}
	if st.Sort.Active() {
		parts = append(parts, "orden: "+st.Sort.String())
	}
	return strings.Join(parts, "; ")
}
