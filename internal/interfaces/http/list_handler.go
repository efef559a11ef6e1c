package http

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/millet-kiosk/internal/application/dto"
	"github.com/jhoicas/millet-kiosk/internal/application/listing"
	"github.com/jhoicas/millet-kiosk/internal/application/ports"
	"github.com/jhoicas/millet-kiosk/internal/domain"
	"github.com/jhoicas/millet-kiosk/pkg/listview"
)

// listRoute una vista de listado montada en path. Cada petición crea su
// listing.Controller a partir de la definición y la fuente de la sesión.
type listRoute[T any] struct {
	path    string
	def     listing.Definition[T]
	source  func(b ports.Backend, s Session) listing.Source[T]
	columns func(rc rowContext) []listview.Column[T]
	// form fragmento sobre la tabla (alta de registros); opcional.
	form func(rc rowContext) template.HTML
}

// rowContext lo que necesitan las columnas para armar enlaces y formularios
// que conservan el estado de la vista.
type rowContext struct {
	Path    string
	State   listing.State
	Editing string
	Session Session
}

// back estado sin la fila en edición, ya codificado.
func (rc rowContext) back() string {
	st := rc.State
	st.Editing = ""
	return st.Encode()
}

// EditHref enlace que abre la edición en línea de id.
func (rc rowContext) EditHref(id string) string {
	return rc.Path + "?" + rc.State.WithEdit(id).Encode()
}

// CancelHref enlace que cierra la edición.
func (rc rowContext) CancelHref() string {
	return withQuery(rc.Path, rc.back())
}

// Action URL de un POST sobre la fila id; verb vacío = editar.
func (rc rowContext) Action(id, verb string) string {
	p := rc.Path + "/" + url.PathEscape(id)
	if verb != "" {
		p += "/" + verb
	}
	return withQuery(p, rc.back())
}

// CreateAction URL del POST de alta.
func (rc rowContext) CreateAction() string {
	return withQuery(rc.Path, rc.back())
}

func withQuery(path, query string) string {
	if query == "" {
		return path
	}
	return path + "?" + query
}

func newController[T any](s *Server, c *fiber.Ctx, r listRoute[T]) *listing.Controller[T] {
	ctl := listing.New(r.def.WithPageSize(s.pageSize), r.source(s.backend(c), CurrentSession(c)))
	ctl.Apply(listing.ParseState(queryValues(c)))
	return ctl
}

// load primer refresh de la petición. Un 401/403 del backend expulsa la
// sesión (evicted = true); cualquier otro error queda en ctl.Error() para el
// banner y la vista conserva su estado.
func load[T any](s *Server, c *fiber.Ctx, ctl *listing.Controller[T]) (evicted bool, err error) {
	if err := ctl.Refresh(requestContext(c)); err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return true, EvictSession(c, s.session)
		}
		s.logFailure(c, statusFor(err), err)
	}
	return false, nil
}

// ── Página y escrituras ───────────────────────────────────────────────────────

// listPage GET path: carga, deriva la página visible y la renderiza.
func listPage[T any](s *Server, r listRoute[T]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctl := newController(s, c, r)
		if evicted, err := load(s, c, ctl); evicted {
			return err
		}
		return renderList(s, c, r, ctl, fiber.StatusOK, "")
	}
}

// mutateRow POST path/:id[/verb]. Primero carga las filas que el usuario
// estaba viendo; luego escribe con la disciplina del controlador: refresh
// solo si el backend confirma. Un error de patch es validación local y no
// llega al backend.
func mutateRow[T any](s *Server, r listRoute[T], patch func(c *fiber.Ctx) (ports.Patch, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctl := newController(s, c, r)
		if evicted, err := load(s, c, ctl); evicted {
			return err
		}
		id := c.Params("id")
		p, err := patch(c)
		if err != nil {
			ctl.BeginEdit(id)
			return renderList(s, c, r, ctl, statusFor(err), domain.UserMessage(err))
		}
		if err := ctl.MutateRow(requestContext(c), id, p); err != nil {
			return failedWrite(s, c, r, ctl, err)
		}
		return renderList(s, c, r, ctl, fiber.StatusOK, "")
	}
}

// deleteRow POST path/:id/delete.
func deleteRow[T any](s *Server, r listRoute[T]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctl := newController(s, c, r)
		if evicted, err := load(s, c, ctl); evicted {
			return err
		}
		if err := ctl.DeleteRow(requestContext(c), c.Params("id")); err != nil {
			return failedWrite(s, c, r, ctl, err)
		}
		return renderList(s, c, r, ctl, fiber.StatusOK, "")
	}
}

// createRow POST path: build valida el formulario y devuelve la escritura.
func createRow[T any](s *Server, r listRoute[T], notice string,
	build func(c *fiber.Ctx, b ports.Backend) (func(ctx context.Context) error, error),
) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctl := newController(s, c, r)
		if evicted, err := load(s, c, ctl); evicted {
			return err
		}
		write, err := build(c, s.backend(c))
		if err != nil {
			return renderList(s, c, r, ctl, statusFor(err), domain.UserMessage(err))
		}
		if err := ctl.Run(requestContext(c), write, notice); err != nil {
			return failedWrite(s, c, r, ctl, err)
		}
		return renderList(s, c, r, ctl, fiber.StatusOK, "")
	}
}

// failedWrite la escritura falló: sin refresh, la edición sigue abierta y el
// mensaje del backend aparece junto a la tabla.
func failedWrite[T any](s *Server, c *fiber.Ctx, r listRoute[T], ctl *listing.Controller[T], err error) error {
	if errors.Is(err, domain.ErrUnauthorized) {
		return EvictSession(c, s.session)
	}
	if errors.Is(err, listing.ErrReadOnly) {
		return fiber.NewError(fiber.StatusMethodNotAllowed, "la vista no admite esta operación")
	}
	status := statusFor(err)
	s.logFailure(c, status, err)
	return renderList(s, c, r, ctl, status, "")
}

// ── Render ────────────────────────────────────────────────────────────────────

type listPageData struct {
	Layout
	Path          string
	Search        string
	Hidden        []hiddenField
	Sets          []setFilterView
	Ranges        []rangeFilterView
	Table         template.HTML
	Pager         pagerView
	Loading       bool
	MutationError string
	Form          template.HTML
	ExportCSV     string
	ExportPDF     string
}

type hiddenField struct{ Name, Value string }

type setFilterView struct {
	Label   string
	Options []optionView
}

type optionView struct {
	Label  string
	Href   string
	Active bool
}

type rangeFilterView struct {
	Name  string
	Label string
	Min   string
	Max   string
}

type pagerView struct {
	Current    int
	Total      int
	TotalItems int
	PrevHref   string
	NextHref   string
	Pages      []pageLink
}

type pageLink struct {
	N      int
	Href   string
	Active bool
}

// renderList compone la página de listado. formErr sustituye al error de
// mutación cuando la validación fue local.
func renderList[T any](s *Server, c *fiber.Ctx, r listRoute[T], ctl *listing.Controller[T], status int, formErr string) error {
	view := ctl.View()
	state := ctl.State()
	rc := rowContext{Path: r.path, State: state, Editing: ctl.Editing(), Session: CurrentSession(c)}

	table, err := listview.NewTable(r.columns(rc)...)
	if err != nil {
		return err
	}
	html, err := table.HTML(view.Rows, state.Sort, func(key string) string {
		return r.path + "?" + state.WithSort(key).Encode()
	})
	if err != nil {
		return err
	}

	layout := s.layout(c, r.def.Title, r.path)
	layout.Notice = ctl.Notice()
	layout.Error = ctl.Error()

	data := listPageData{
		Layout:        layout,
		Path:          r.path,
		Search:        state.Filters.Search,
		Hidden:        hiddenState(state),
		Table:         html,
		Pager:         pager(r.path, state, view),
		Loading:       ctl.Loading(),
		MutationError: ctl.MutationError(),
		ExportCSV:     withQuery(r.path+"/export.csv", rc.back()),
		ExportPDF:     withQuery(r.path+"/export.pdf", rc.back()),
	}
	if formErr != "" {
		data.MutationError = formErr
	}
	for _, f := range r.def.SetFilters {
		fv := setFilterView{Label: f.Label}
		for _, opt := range ctl.Options(f.Name) {
			fv.Options = append(fv.Options, optionView{
				Label:  statusLabel(opt),
				Href:   r.path + "?" + state.WithToggle(f.Name, opt).Encode(),
				Active: state.Filters.HasMember(f.Name, opt),
			})
		}
		data.Sets = append(data.Sets, fv)
	}
	for _, f := range r.def.RangeFilters {
		rv := rangeFilterView{Name: f.Name, Label: f.Label}
		if rg, ok := state.Filters.Ranges[f.Name]; ok {
			rv.Min = boundText(rg.Min)
			rv.Max = boundText(rg.Max)
		}
		data.Ranges = append(data.Ranges, rv)
	}
	if r.form != nil {
		data.Form = r.form(rc)
	}
	return s.views.render(c, status, "list", data)
}

// hiddenState campos ocultos del formulario de búsqueda: orden y filtros de
// pertenencia. Búsqueda y rangos son campos visibles; página y edición se
// reinician al filtrar.
func hiddenState(st listing.State) []hiddenField {
	vals := st.Values()
	keys := make([]string, 0, len(vals))
	for k := range vals {
		if k == "q" || k == "page" || k == "edit" || strings.HasPrefix(k, "min.") || strings.HasPrefix(k, "max.") {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var out []hiddenField
	for _, k := range keys {
		for _, v := range vals[k] {
			out = append(out, hiddenField{Name: k, Value: v})
		}
	}
	return out
}

func pager[T any](path string, st listing.State, view listview.Result[T]) pagerView {
	p := pagerView{Current: view.CurrentPage, Total: view.TotalPages, TotalItems: view.TotalItems}
	if view.HasPrev() {
		p.PrevHref = path + "?" + st.WithPage(view.CurrentPage-1).Encode()
	}
	if view.HasNext() {
		p.NextHref = path + "?" + st.WithPage(view.CurrentPage+1).Encode()
	}
	for n := 1; n <= view.TotalPages; n++ {
		p.Pages = append(p.Pages, pageLink{N: n, Href: path + "?" + st.WithPage(n).Encode(), Active: n == view.CurrentPage})
	}
	return p
}

func boundText(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

// ── Exportación ───────────────────────────────────────────────────────────────

// exportCSV GET path/export.csv: colección filtrada y ordenada completa.
func exportCSV[T any](s *Server, r listRoute[T]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctl := newController(s, c, r)
		if err := ctl.Refresh(requestContext(c)); err != nil {
			return s.failPage(c, r.def.Title, err)
		}
		var buf bytes.Buffer
		if err := ctl.ExportCSV(&buf, s.csv); err != nil {
			return err
		}
		c.Attachment(ctl.ExportFilename(s.now()))
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		return c.Send(buf.Bytes())
	}
}

// exportPDF GET path/export.pdf: mismas columnas y filas que el CSV.
func exportPDF[T any](s *Server, r listRoute[T]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctl := newController(s, c, r)
		ctx := requestContext(c)
		if err := ctl.Refresh(ctx); err != nil {
			return s.failPage(c, r.def.Title, err)
		}
		headers, cells := ctl.ExportTable()
		out, err := s.docs.ListDocument(ctx, dto.ListDocument{
			Title:       r.def.Title,
			Filters:     r.def.Describe(ctl.State()),
			Headers:     headers,
			Rows:        cells,
			GeneratedAt: s.now(),
		})
		if err != nil {
			return s.failPage(c, r.def.Title, err)
		}
		c.Attachment(strings.TrimSuffix(ctl.ExportFilename(s.now()), ".csv") + ".pdf")
		c.Set(fiber.HeaderContentType, "application/pdf")
		return c.Send(out)
	}
}

// ── JSON ──────────────────────────────────────────────────────────────────────

// apiList GET /api/v1/<vista>: la página reducida en JSON. Acepta los mismos
// parámetros que la página HTML (q, sort, page, f.*, min.*, max.*).
func apiList[T any](s *Server, r listRoute[T]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctl := newController(s, c, r)
		if err := ctl.Refresh(requestContext(c)); err != nil {
			return s.failAPI(c, err)
		}
		view := ctl.View()
		return c.JSON(dto.ListResponse[T]{
			Items: view.Rows,
			Page: dto.PageResponse{
				CurrentPage:  view.CurrentPage,
				ItemsPerPage: s.itemsPerPage(),
				TotalItems:   view.TotalItems,
				TotalPages:   view.TotalPages,
			},
			Sort: ctl.State().Sort.String(),
		})
	}
}

func (s *Server) itemsPerPage() int {
	if s.pageSize > 0 {
		return s.pageSize
	}
	return listview.DefaultItemsPerPage
}

// mount registra la página y las exportaciones de r detrás de guard.
func mount[T any](s *Server, app fiber.Router, guard fiber.Handler, r listRoute[T]) {
	app.Get(r.path, guard, listPage(s, r))
	app.Get(r.path+"/export.csv", guard, exportCSV(s, r))
	app.Get(r.path+"/export.pdf", guard, exportPDF(s, r))
}

// mountAPI registra GET /api/v1/<vista> para r.
func mountAPI[T any](s *Server, api fiber.Router, guard fiber.Handler, r listRoute[T]) {
	api.Get("/"+r.def.Name, guard, apiList(s, r))
}
