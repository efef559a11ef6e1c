package listview

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"strings"
)

// EmptyPlaceholder texto de la fila única cuando no hay datos.
const EmptyPlaceholder = "Sin datos"

// ErrDuplicateColumn la clave de una columna se repite o está vacía.
var ErrDuplicateColumn = errors.New("listview: clave de columna vacía o duplicada")

// Column describe una columna de la tabla. Si Render es nil la celda muestra
// Value(row) escapado.
type Column[T any] struct {
	Key      string
	Header   string
	Width    int // porcentaje; se aplica igual a cabecera y celdas
	Sortable bool
	Render   func(T) template.HTML
	Value    func(T) any
}

// Table renderiza filas según una secuencia ordenada de columnas.
type Table[T any] struct {
	columns []Column[T]
}

// NewTable valida que las claves sean únicas y construye la tabla.
func NewTable[T any](columns ...Column[T]) (*Table[T], error) {
	seen := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		if c.Key == "" {
			return nil, ErrDuplicateColumn
		}
		if _, dup := seen[c.Key]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, c.Key)
		}
		seen[c.Key] = struct{}{}
	}
	return &Table[T]{columns: columns}, nil
}

// MustTable como NewTable pero entra en pánico; para definiciones estáticas.
func MustTable[T any](columns ...Column[T]) *Table[T] {
	t, err := NewTable(columns...)
	if err != nil {
		panic(err)
	}
	return t
}

// Columns devuelve las columnas en orden.
func (t *Table[T]) Columns() []Column[T] { return t.columns }

type headerCell struct {
	Header    string
	Width     int
	Href      string
	Indicator string
}

type tableView struct {
	Headers []headerCell
	Rows    [][]bodyCell
	Colspan int
	Empty   string
}

type bodyCell struct {
	Width   int
	Content template.HTML
}

var tableTmpl = template.Must(template.New("table").Parse(`<table class="lv-table">
<thead><tr>{{range .Headers}}<th{{if .Width}} style="width:{{.Width}}%"{{end}}>{{if .Href}}<a href="{{.Href}}">{{.Header}}</a>{{else}}{{.Header}}{{end}}{{if .Indicator}} <span class="lv-sort">{{.Indicator}}</span>{{end}}</th>{{end}}</tr></thead>
<tbody>{{if .Rows}}{{range .Rows}}<tr>{{range .}}<td{{if .Width}} style="width:{{.Width}}%"{{end}}>{{.Content}}</td>{{end}}</tr>{{end}}{{else}}<tr><td class="lv-empty" colspan="{{.Colspan}}">{{.Empty}}</td></tr>{{end}}</tbody>
</table>`))

// Render escribe la tabla HTML. sortHref recibe la clave de una columna
// ordenable y devuelve la URL que aplica el clic; puede ser nil.
func (t *Table[T]) Render(w io.Writer, rows []T, sort SortState, sortHref func(key string) string) error {
	view := tableView{
		Headers: make([]headerCell, 0, len(t.columns)),
		Colspan: len(t.columns),
		Empty:   EmptyPlaceholder,
	}
	for _, c := range t.columns {
		h := headerCell{Header: c.Header, Width: c.Width}
		if c.Sortable && sortHref != nil {
			h.Href = sortHref(c.Key)
		}
		if sort.Key == c.Key {
			h.Indicator = "▲"
			if sort.Direction == Descending {
				h.Indicator = "▼"
			}
		}
		view.Headers = append(view.Headers, h)
	}
	for _, r := range rows {
		cells := make([]bodyCell, 0, len(t.columns))
		for _, c := range t.columns {
			cells = append(cells, bodyCell{Width: c.Width, Content: cellContent(c, r)})
		}
		view.Rows = append(view.Rows, cells)
	}
	return tableTmpl.Execute(w, view)
}

// HTML devuelve la tabla como fragmento para incrustar en plantillas.
func (t *Table[T]) HTML(rows []T, sort SortState, sortHref func(key string) string) (template.HTML, error) {
	var b strings.Builder
	if err := t.Render(&b, rows, sort, sortHref); err != nil {
		return "", err
	}
	return template.HTML(b.String()), nil
}

func cellContent[T any](c Column[T], row T) template.HTML {
	if c.Render != nil {
		return c.Render(row)
	}
	if c.Value == nil {
		return ""
	}
	v := c.Value(row)
	if v == nil {
		return ""
	}
	return template.HTML(template.HTMLEscapeString(fmt.Sprint(v)))
}
