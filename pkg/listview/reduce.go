package listview

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortField accesor de una clave ordenable. Exactamente uno de Text o Number
// debe estar definido; Number compara como float, Text con collation
// numérica ("P2" < "P10").
type SortField[T any] struct {
	Text   func(T) string
	Number func(T) float64
}

// TextField atajo para un SortField de texto.
func TextField[T any](fn func(T) string) SortField[T] { return SortField[T]{Text: fn} }

// NumberField atajo para un SortField numérico.
func NumberField[T any](fn func(T) float64) SortField[T] { return SortField[T]{Number: fn} }

// Schema vincula el pipeline genérico con los campos de una entidad.
type Schema[T any] struct {
	// SearchFields lista blanca de campos de texto para la búsqueda libre.
	SearchFields []func(T) string
	// SetFields filtros de pertenencia por nombre (categoría, estado...).
	SetFields map[string]func(T) string
	// RangeFields filtros de rango numérico por nombre (precio, stock...).
	RangeFields map[string]func(T) float64
	// SortFields claves ordenables por nombre de columna.
	SortFields map[string]SortField[T]
	// Locale para la collation de texto; vacío = language.Und.
	Locale language.Tag
}

// Arrange filtra y ordena rows sin paginar. No modifica rows.
//
// Los filtros estructurados se aplican en conjunción; la búsqueda libre exige
// que el término (en minúsculas) esté contenido en algún campo de la lista
// blanca. El orden es estable: empates conservan el orden de entrada.
func Arrange[T any](rows []T, schema Schema[T], filters FilterState, sort SortState) []T {
	out := make([]T, 0, len(rows))
	term := strings.ToLower(strings.TrimSpace(filters.Search))
	for _, r := range rows {
		if !matchStructured(r, schema, filters) {
			continue
		}
		if term != "" && !matchSearch(r, schema.SearchFields, term) {
			continue
		}
		out = append(out, r)
	}

	field, ok := schema.SortFields[sort.Key]
	if !sort.Active() || !ok {
		return out
	}
	cmpFn := comparator(field, schema.Locale)
	if cmpFn == nil {
		return out
	}
	if sort.Direction == Descending {
		asc := cmpFn
		cmpFn = func(a, b T) int { return -asc(a, b) }
	}
	slices.SortStableFunc(out, cmpFn)
	return out
}

func matchStructured[T any](r T, schema Schema[T], filters FilterState) bool {
	for name, set := range filters.Sets {
		if len(set) == 0 {
			continue
		}
		get, ok := schema.SetFields[name]
		if !ok {
			continue
		}
		if _, hit := set[get(r)]; !hit {
			return false
		}
	}
	for name, rng := range filters.Ranges {
		if rng.IsZero() {
			continue
		}
		get, ok := schema.RangeFields[name]
		if !ok {
			continue
		}
		if !rng.Contains(get(r)) {
			return false
		}
	}
	return true
}

func matchSearch[T any](r T, fields []func(T) string, term string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f(r)), term) {
			return true
		}
	}
	return false
}

func comparator[T any](field SortField[T], locale language.Tag) func(a, b T) int {
	switch {
	case field.Number != nil:
		return func(a, b T) int { return cmp.Compare(field.Number(a), field.Number(b)) }
	case field.Text != nil:
		// collate.Collator no es seguro para uso concurrente: uno por llamada.
		col := collate.New(locale, collate.Numeric)
		return func(a, b T) int { return col.CompareString(field.Text(a), field.Text(b)) }
	default:
		return nil
	}
}

// Paginate corta rows en la página pedida. CurrentPage fuera de rango se
// reinicia a 1; un conjunto vacío produce TotalPages = 1.
func Paginate[T any](rows []T, page PageState) Result[T] {
	size := page.ItemsPerPage
	if size <= 0 {
		size = DefaultItemsPerPage
	}
	total := len(rows)
	pages := (total + size - 1) / size
	if pages < 1 {
		pages = 1
	}
	current := page.CurrentPage
	if current < 1 || current > pages {
		current = 1
	}
	start := (current - 1) * size
	end := min(start+size, total)
	visible := []T{}
	if start < end {
		visible = rows[start:end]
	}
	return Result[T]{
		Rows:        visible,
		TotalItems:  total,
		TotalPages:  pages,
		CurrentPage: current,
	}
}

// Reduce deriva la página visible a partir de las filas crudas y los tres estados.
func Reduce[T any](rows []T, schema Schema[T], filters FilterState, sort SortState, page PageState) Result[T] {
	return Paginate(Arrange(rows, schema, filters, sort), page)
}
