// Package listview implementa el pipeline genérico de las vistas de listado:
// búsqueda → filtros → orden → paginación → tabla, más la exportación CSV.
//
// El paquete es puro: no hace red ni guarda estado entre llamadas. El estado
// (FilterState, SortState, PageState) lo posee el orquestador de cada entidad.
package listview

import (
	"strconv"
	"strings"
)

// DefaultItemsPerPage tamaño de página usado cuando no se configura otro.
const DefaultItemsPerPage = 8

// Direction sentido del orden.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// ParseDirection interpreta "desc"/"descending"; cualquier otro valor es ascendente.
func ParseDirection(s string) Direction {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "desc", "descending":
		return Descending
	default:
		return Ascending
	}
}

// SortState único criterio de orden activo. Key vacío = sin orden.
type SortState struct {
	Key       string
	Direction Direction
}

// Toggle aplica un clic sobre la cabecera key: la misma clave invierte el
// sentido, otra clave reinicia en ascendente.
func (s SortState) Toggle(key string) SortState {
	if key == "" {
		return s
	}
	if s.Key == key {
		if s.Direction == Ascending {
			return SortState{Key: key, Direction: Descending}
		}
		return SortState{Key: key, Direction: Ascending}
	}
	return SortState{Key: key, Direction: Ascending}
}

// Active indica si hay una clave de orden.
func (s SortState) Active() bool { return s.Key != "" }

// String formato "clave:sentido" usado en query strings y en el CLI.
func (s SortState) String() string {
	if s.Key == "" {
		return ""
	}
	return s.Key + ":" + s.Direction.String()
}

// ParseSort interpreta "price:desc", "price" o "".
func ParseSort(s string) SortState {
	s = strings.TrimSpace(s)
	if s == "" {
		return SortState{}
	}
	key, dir, _ := strings.Cut(s, ":")
	return SortState{Key: strings.TrimSpace(key), Direction: ParseDirection(dir)}
}

// Range intervalo numérico inclusivo; cualquiera de los extremos es opcional.
type Range struct {
	Min *float64
	Max *float64
}

// IsZero indica que el rango no impone restricción.
func (r Range) IsZero() bool { return r.Min == nil && r.Max == nil }

// Contains indica si v cae dentro del rango.
func (r Range) Contains(v float64) bool {
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

// ParseRange construye un Range desde dos strings de formulario; los vacíos o
// no numéricos quedan sin límite.
func ParseRange(minStr, maxStr string) Range {
	return Range{Min: parseBound(minStr), Max: parseBound(maxStr)}
}

func parseBound(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// FilterState valores actuales de los filtros: término libre, conjuntos de
// pertenencia y rangos numéricos. Un filtro vacío no restringe.
type FilterState struct {
	Search string
	Sets   map[string]map[string]struct{}
	Ranges map[string]Range
}

// NewFilterState devuelve un estado sin filtros.
func NewFilterState() FilterState {
	return FilterState{
		Sets:   map[string]map[string]struct{}{},
		Ranges: map[string]Range{},
	}
}

// SetSearch fija el término de búsqueda libre.
func (f *FilterState) SetSearch(term string) {
	f.Search = term
}

// SetMembers reemplaza el conjunto seleccionado del filtro name. Un conjunto
// vacío elimina el filtro.
func (f *FilterState) SetMembers(name string, values ...string) {
	if f.Sets == nil {
		f.Sets = map[string]map[string]struct{}{}
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		set[v] = struct{}{}
	}
	if len(set) == 0 {
		delete(f.Sets, name)
		return
	}
	f.Sets[name] = set
}

// ToggleMember agrega o quita value del conjunto del filtro name.
func (f *FilterState) ToggleMember(name, value string) {
	if f.Sets == nil {
		f.Sets = map[string]map[string]struct{}{}
	}
	set := f.Sets[name]
	if set == nil {
		set = map[string]struct{}{}
		f.Sets[name] = set
	}
	if _, ok := set[value]; ok {
		delete(set, value)
	} else {
		set[value] = struct{}{}
	}
	if len(set) == 0 {
		delete(f.Sets, name)
	}
}

// HasMember indica si value está seleccionado en el filtro name.
func (f FilterState) HasMember(name, value string) bool {
	_, ok := f.Sets[name][value]
	return ok
}

// Members devuelve los valores seleccionados de name (orden no garantizado).
func (f FilterState) Members(name string) []string {
	set := f.Sets[name]
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	return out
}

// SetRange fija el rango del filtro name; un rango vacío lo elimina.
func (f *FilterState) SetRange(name string, r Range) {
	if f.Ranges == nil {
		f.Ranges = map[string]Range{}
	}
	if r.IsZero() {
		delete(f.Ranges, name)
		return
	}
	f.Ranges[name] = r
}

// IsEmpty indica que ningún filtro está activo.
func (f FilterState) IsEmpty() bool {
	if strings.TrimSpace(f.Search) != "" {
		return false
	}
	for _, s := range f.Sets {
		if len(s) > 0 {
			return false
		}
	}
	for _, r := range f.Ranges {
		if !r.IsZero() {
			return false
		}
	}
	return true
}

// PageState página actual (base 1) y tamaño fijo.
type PageState struct {
	CurrentPage  int
	ItemsPerPage int
}

// Result página visible derivada por el reductor.
type Result[T any] struct {
	Rows        []T
	TotalItems  int
	TotalPages  int
	CurrentPage int
}

// HasPrev indica si existe página anterior.
func (r Result[T]) HasPrev() bool { return r.CurrentPage > 1 }

// HasNext indica si existe página siguiente.
func (r Result[T]) HasNext() bool { return r.CurrentPage < r.TotalPages }
