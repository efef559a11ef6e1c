// Package listing orquesta una vista de listado por entidad: carga las filas
// del backend, guarda el estado de filtros/orden/página/edición, delega la
// derivación de la página visible en pkg/listview y resincroniza tras cada
// escritura confirmada.
package listing

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/millet-kiosk/internal/application/ports"
	"github.com/jhoicas/millet-kiosk/internal/domain"
	"github.com/jhoicas/millet-kiosk/pkg/listview"
)

// ErrReadOnly la vista no tiene operación de escritura configurada.
var ErrReadOnly = errors.New("listing: la vista no admite esta operación")

// Source operaciones de datos de una entidad. Write y Remove son opcionales.
type Source[T any] struct {
	Fetch  func(ctx context.Context) ([]T, error)
	Write  func(ctx context.Context, id string, patch ports.Patch) error
	Remove func(ctx context.Context, id string) error
}

// Controller estado y operaciones de una vista de listado. Es seguro para uso
// concurrente, aunque cada petición HTTP crea el suyo.
type Controller[T any] struct {
	def Definition[T]
	src Source[T]

	mu       sync.Mutex
	rows     []T
	filters  listview.FilterState
	sort     listview.SortState
	page     listview.PageState
	loading  bool
	loadErr  string
	editing  string
	mutErr   string
	notice   string
	issued   uint64 // último token de refresh emitido
	applied  uint64 // último token cuya respuesta se aplicó
	fetchCnt int
}

// New construye el controlador con filtros vacíos, el orden por defecto de la
// definición y la página 1.
func New[T any](def Definition[T], src Source[T]) *Controller[T] {
	size := def.PageSize
	if size <= 0 {
		size = listview.DefaultItemsPerPage
	}
	return &Controller[T]{
		def:     def,
		src:     src,
		filters: listview.NewFilterState(),
		sort:    def.DefaultSort,
		page:    listview.PageState{CurrentPage: 1, ItemsPerPage: size},
	}
}

// Definition devuelve la definición de la entidad.
func (c *Controller[T]) Definition() Definition[T] { return c.def }

// ── Fetcher ───────────────────────────────────────────────────────────────────

// Refresh reemplaza las filas con la respuesta del backend. Si falla, conserva
// las filas previas y guarda el mensaje para el banner. No reintenta.
//
// Cada llamada toma un token creciente; si una respuesta llega después de que
// otra más reciente ya se aplicó, se descarta.
func (c *Controller[T]) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.issued++
	token := c.issued
	c.loading = true
	c.fetchCnt++
	c.mu.Unlock()

	rows, err := c.src.Fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if token == c.issued {
		c.loading = false
	}
	if token < c.applied {
		return nil
	}
	c.applied = token
	if err != nil {
		c.loadErr = domain.UserMessage(err)
		return err
	}
	if rows == nil {
		rows = []T{}
	}
	c.rows = rows
	c.loadErr = ""
	return nil
}

// Loading indica si hay un refresh en curso.
func (c *Controller[T]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Error mensaje del último refresh fallido ("" si el último tuvo éxito).
func (c *Controller[T]) Error() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadErr
}

// Fetches número de refresh emitidos.
func (c *Controller[T]) Fetches() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetchCnt
}

// Rows filas crudas en el orden recibido.
func (c *Controller[T]) Rows() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.rows...)
}

// ── Estado local (sin red) ────────────────────────────────────────────────────

// SetSearch fija el término libre.
func (c *Controller[T]) SetSearch(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters.SetSearch(term)
}

// SetFilter reemplaza los valores seleccionados del filtro name.
func (c *Controller[T]) SetFilter(name string, values ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters.SetMembers(name, values...)
}

// ToggleSetMembership agrega o quita value del filtro name.
func (c *Controller[T]) ToggleSetMembership(name, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters.ToggleMember(name, value)
}

// SetRange fija el rango numérico del filtro name.
func (c *Controller[T]) SetRange(name string, r listview.Range) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters.SetRange(name, r)
}

// SetSort aplica un clic sobre la cabecera key.
func (c *Controller[T]) SetSort(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sort = c.sort.Toggle(key)
}

// SetSortState fija el orden directamente (query string, CLI).
func (c *Controller[T]) SetSortState(s listview.SortState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sort = s
}

// SetPage cambia de página; el reductor la reajusta si queda fuera de rango.
func (c *Controller[T]) SetPage(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.page.CurrentPage = n
}

// Apply restaura un estado completo (filtros, orden, página y edición).
func (c *Controller[T]) Apply(s State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters = cloneFilters(s.Filters)
	if s.Sort.Active() {
		c.sort = s.Sort
	}
	if s.Page > 0 {
		c.page.CurrentPage = s.Page
	}
	c.editing = s.Editing
}

// State devuelve el estado actual para construir enlaces.
func (c *Controller[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{Filters: cloneFilters(c.filters), Sort: c.sort, Page: c.page.CurrentPage, Editing: c.editing}
}

// ── Derivación ────────────────────────────────────────────────────────────────

// View página visible. Reajusta la página actual si quedó fuera de rango.
func (c *Controller[T]) View() listview.Result[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	res := listview.Reduce(c.rows, c.def.Schema, c.filters, c.sort, c.page)
	c.page.CurrentPage = res.CurrentPage
	return res
}

// Arranged colección filtrada y ordenada, sin paginar.
func (c *Controller[T]) Arranged() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return listview.Arrange(c.rows, c.def.Schema, c.filters, c.sort)
}

// Options valores distintos del filtro de pertenencia name, ordenados. Usa
// las opciones fijas de la definición si existen.
func (c *Controller[T]) Options(name string) []string {
	for _, f := range c.def.SetFilters {
		if f.Name == name && len(f.Options) > 0 {
			return f.Options
		}
	}
	get, ok := c.def.Schema.SetFields[name]
	if !ok {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	seen := map[string]struct{}{}
	var out []string
	for _, r := range c.rows {
		v := get(r)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// ── Mutator ───────────────────────────────────────────────────────────────────

// BeginEdit abre la edición en línea de la fila id.
func (c *Controller[T]) BeginEdit(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editing = id
	c.mutErr = ""
}

// CancelEdit cierra la edición sin escribir.
func (c *Controller[T]) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editing = ""
	c.mutErr = ""
}

// Editing id de la fila en edición ("" si ninguna).
func (c *Controller[T]) Editing() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editing
}

// MutationError mensaje de la última escritura fallida.
func (c *Controller[T]) MutationError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mutErr
}

// Notice mensaje de la última escritura exitosa.
func (c *Controller[T]) Notice() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.notice
}

// MutateRow escribe patch en la fila id. Solo tras la confirmación del backend
// cierra la edición y hace un refresh; si falla no hay refresh, la edición
// queda abierta y MutationError tiene el mensaje. Nunca parchea filas locales.
func (c *Controller[T]) MutateRow(ctx context.Context, id string, patch ports.Patch) error {
	if c.src.Write == nil {
		return ErrReadOnly
	}
	return c.afterWrite(ctx, id, c.src.Write(ctx, id, patch), "cambios guardados")
}

// DeleteRow elimina la fila id con la misma disciplina que MutateRow.
func (c *Controller[T]) DeleteRow(ctx context.Context, id string) error {
	if c.src.Remove == nil {
		return ErrReadOnly
	}
	return c.afterWrite(ctx, id, c.src.Remove(ctx, id), "registro eliminado")
}

// Run ejecuta una escritura arbitraria (p. ej. crear) con la misma disciplina.
func (c *Controller[T]) Run(ctx context.Context, write func(ctx context.Context) error, notice string) error {
	return c.afterWrite(ctx, "", write(ctx), notice)
}

func (c *Controller[T]) afterWrite(ctx context.Context, id string, err error, notice string) error {
	if err != nil {
		c.mu.Lock()
		c.mutErr = domain.UserMessage(err)
		c.editing = id
		c.notice = ""
		c.mu.Unlock()
		return err
	}
	c.mu.Lock()
	c.editing = ""
	c.mutErr = ""
	c.notice = notice
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// ── Exportación ───────────────────────────────────────────────────────────────

// ExportCSV escribe la colección filtrada y ordenada (todas las páginas). No
// hace red.
func (c *Controller[T]) ExportCSV(w io.Writer, opts listview.CSVOptions) error {
	return listview.WriteCSV(w, c.Arranged(), c.def.CSV, opts)
}

// ExportTable cabeceras y celdas de la colección filtrada y ordenada, para
// exportaciones que no son CSV.
func (c *Controller[T]) ExportTable() (headers []string, cells [][]string) {
	return listview.Cells(c.Arranged(), c.def.CSV)
}

// ExportFilename nombre del archivo CSV con la fecha de now.
func (c *Controller[T]) ExportFilename(now time.Time) string {
	return listview.CSVFilename(c.def.Name, now)
}
