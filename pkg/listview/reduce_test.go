package listview_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/millet-kiosk/pkg/listview"
)

// ──────────────────────────────────────────────────────────────────────────────
// Datos de prueba
// ──────────────────────────────────────────────────────────────────────────────

type item struct {
	ID       string
	Name     string
	Category string
	Status   string
	Price    float64
}

func seed() []item {
	return []item{
		{"P1", "Foo millet", "A", "active", 10},
		{"P2", "Bar millet", "B", "active", 20},
		{"P3", "foo flakes", "A", "active", 35},
		{"P4", "Foo snack", "B", "inactive", 15},
		{"P5", "Ragi mix", "A", "active", 50},
		{"P6", "Foo cookies", "A", "inactive", 25},
		{"P7", "Jowar foo", "A", "active", 35},
		{"P8", "Kodo rice", "C", "active", 12},
		{"P9", "FOO bar", "A", "active", 5},
		{"P10", "Little foo", "A", "inactive", 60},
		{"P11", "Bajra", "A", "active", 18},
		{"P12", "Foo dosa", "B", "active", 40},
		{"P13", "foo idli", "A", "active", 22},
		{"P14", "Proso", "A", "inactive", 30},
		{"P15", "Foo laddu", "A", "active", 45},
		{"P16", "Barnyard", "C", "active", 8},
		{"P17", "foo upma", "A", "active", 14},
		{"P18", "Foo pongal", "A", "inactive", 28},
		{"P19", "Kangni foo", "C", "active", 33},
		{"P20", "Foo halwa", "A", "active", 70},
	}
}

func schema() listview.Schema[item] {
	return listview.Schema[item]{
		SearchFields: []func(item) string{
			func(i item) string { return i.ID },
			func(i item) string { return i.Name },
			func(i item) string { return i.Category },
		},
		SetFields: map[string]func(item) string{
			"category": func(i item) string { return i.Category },
			"status":   func(i item) string { return i.Status },
		},
		RangeFields: map[string]func(item) float64{
			"price": func(i item) float64 { return i.Price },
		},
		SortFields: map[string]listview.SortField[item]{
			"id":    listview.TextField(func(i item) string { return i.ID }),
			"name":  listview.TextField(func(i item) string { return i.Name }),
			"price": listview.NumberField(func(i item) float64 { return i.Price }),
		},
	}
}

func ids(rows []item) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

func ptr(f float64) *float64 { return &f }

// ──────────────────────────────────────────────────────────────────────────────
// Filtros
// ──────────────────────────────────────────────────────────────────────────────

func TestArrange_SinFiltrosDevuelveColeccionOriginal(t *testing.T) {
	rows := seed()
	got := listview.Arrange(rows, schema(), listview.NewFilterState(), listview.SortState{})
	assert.Equal(t, rows, got, "sin filtros ni orden la colección no cambia")
}

func TestArrange_ConjuncionDeFiltros(t *testing.T) {
	f := listview.NewFilterState()
	f.SetMembers("category", "A")
	f.SetMembers("status", "active")
	f.SetRange("price", listview.Range{Min: ptr(20), Max: ptr(45)})

	got := listview.Arrange(seed(), schema(), f, listview.SortState{})

	kept := map[string]bool{}
	for _, r := range got {
		kept[r.ID] = true
	}
	for _, r := range seed() {
		want := r.Category == "A" && r.Status == "active" && r.Price >= 20 && r.Price <= 45
		assert.Equal(t, want, kept[r.ID], "fila %s", r.ID)
	}
	assert.Equal(t, []string{"P3", "P7", "P13", "P15"}, ids(got))
}

func TestArrange_FiltroVacioNoRestringe(t *testing.T) {
	f := listview.NewFilterState()
	f.ToggleMember("category", "A")
	f.ToggleMember("category", "A") // vuelve a vacío
	f.SetRange("price", listview.Range{})
	assert.True(t, f.IsEmpty())
	assert.Len(t, listview.Arrange(seed(), schema(), f, listview.SortState{}), 20)
}

func TestArrange_BusquedaInsensibleAMayusculas(t *testing.T) {
	f := listview.NewFilterState()
	f.SetSearch("  MILLET ")
	got := listview.Arrange(seed(), schema(), f, listview.SortState{})
	assert.Equal(t, []string{"P1", "P2"}, ids(got))

	f.SetSearch("c")
	got = listview.Arrange(seed(), schema(), f, listview.SortState{})
	assert.Contains(t, ids(got), "P8", "la categoría está en la lista blanca")
}

func TestArrange_FiltroDesconocidoSeIgnora(t *testing.T) {
	f := listview.NewFilterState()
	f.SetMembers("color", "rojo")
	assert.Len(t, listview.Arrange(seed(), schema(), f, listview.SortState{}), 20)
}

// ──────────────────────────────────────────────────────────────────────────────
// Orden
// ──────────────────────────────────────────────────────────────────────────────

func TestArrange_OrdenInversoEntreSentidos(t *testing.T) {
	asc := listview.Arrange(seed(), schema(), listview.NewFilterState(), listview.SortState{Key: "name"})
	desc := listview.Arrange(seed(), schema(), listview.NewFilterState(), listview.SortState{Key: "name", Direction: listview.Descending})

	require.Len(t, desc, len(asc))
	for i := range asc {
		assert.Equal(t, asc[i].ID, desc[len(desc)-1-i].ID)
	}
}

func TestArrange_EstabilidadEnEmpates(t *testing.T) {
	for _, dir := range []listview.Direction{listview.Ascending, listview.Descending} {
		got := ids(listview.Arrange(seed(), schema(), listview.NewFilterState(), listview.SortState{Key: "price", Direction: dir}))
		var p3, p7 int
		for i, id := range got {
			switch id {
			case "P3":
				p3 = i
			case "P7":
				p7 = i
			}
		}
		assert.Less(t, p3, p7, "P3 y P7 empatan en precio; se conserva el orden original (%s)", dir)
	}
}

func TestArrange_CollationNumerica(t *testing.T) {
	got := ids(listview.Arrange(seed(), schema(), listview.NewFilterState(), listview.SortState{Key: "id"}))
	assert.Equal(t, []string{"P1", "P2", "P3", "P4", "P5", "P6", "P7", "P8", "P9", "P10"}, got[:10])
}

func TestArrange_NoModificaEntrada(t *testing.T) {
	rows := seed()
	_ = listview.Arrange(rows, schema(), listview.NewFilterState(), listview.SortState{Key: "price", Direction: listview.Descending})
	assert.Equal(t, seed(), rows)
}

func TestSortState_Toggle(t *testing.T) {
	s := listview.SortState{}
	s = s.Toggle("price")
	assert.Equal(t, listview.SortState{Key: "price", Direction: listview.Ascending}, s)
	s = s.Toggle("price")
	assert.Equal(t, listview.Descending, s.Direction)
	s = s.Toggle("name")
	assert.Equal(t, listview.SortState{Key: "name", Direction: listview.Ascending}, s)
	assert.Equal(t, listview.SortState{Key: "price", Direction: listview.Descending}, listview.ParseSort("price:desc"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Paginación
// ──────────────────────────────────────────────────────────────────────────────

func TestPaginate_Limites(t *testing.T) {
	const size = 8
	for total := 0; total <= 30; total++ {
		rows := make([]int, total)
		wantPages := max(1, (total+size-1)/size)
		for page := -1; page <= wantPages+1; page++ {
			res := listview.Paginate(rows, listview.PageState{CurrentPage: page, ItemsPerPage: size})
			assert.Equal(t, wantPages, res.TotalPages, "total=%d", total)
			assert.Equal(t, total, res.TotalItems)
			assert.LessOrEqual(t, len(res.Rows), size)
			if page < 1 || page > wantPages {
				assert.Equal(t, 1, res.CurrentPage, "total=%d página=%d se reinicia a 1", total, page)
			} else {
				assert.Equal(t, page, res.CurrentPage)
			}
		}
	}
}

func TestPaginate_ColeccionVacia(t *testing.T) {
	res := listview.Paginate([]item{}, listview.PageState{CurrentPage: 3, ItemsPerPage: 8})
	assert.Empty(t, res.Rows)
	assert.Equal(t, 1, res.TotalPages)
	assert.Equal(t, 1, res.CurrentPage)
	assert.False(t, res.HasNext())
	assert.False(t, res.HasPrev())
}

func TestPaginate_TamanoPorDefecto(t *testing.T) {
	res := listview.Paginate(seed(), listview.PageState{CurrentPage: 1})
	assert.Len(t, res.Rows, listview.DefaultItemsPerPage)
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenario completo: categoría + búsqueda + orden + página
// ──────────────────────────────────────────────────────────────────────────────

func TestReduce_EscenarioCompleto(t *testing.T) {
	f := listview.NewFilterState()
	f.SetMembers("category", "A")
	f.SetSearch("foo")
	sort := listview.SortState{Key: "price", Direction: listview.Descending}

	page1 := listview.Reduce(seed(), schema(), f, sort, listview.PageState{CurrentPage: 1, ItemsPerPage: 8})
	assert.Equal(t, []string{"P20", "P10", "P15", "P3", "P7", "P18", "P6", "P13"}, ids(page1.Rows))
	assert.Equal(t, 11, page1.TotalItems)
	assert.Equal(t, 2, page1.TotalPages)

	page2 := listview.Reduce(seed(), schema(), f, sort, listview.PageState{CurrentPage: 2, ItemsPerPage: 8})
	assert.Equal(t, []string{"P17", "P1", "P9"}, ids(page2.Rows))
}

func TestReduce_FiltroQueVaciaLaPaginaActual(t *testing.T) {
	f := listview.NewFilterState()
	f.SetSearch("no-existe")
	assert.NotPanics(t, func() {
		res := listview.Reduce(seed(), schema(), f, listview.SortState{}, listview.PageState{CurrentPage: 3, ItemsPerPage: 8})
		assert.Empty(t, res.Rows)
		assert.Equal(t, 1, res.CurrentPage)
	})
}

func ExampleReduce() {
	f := listview.NewFilterState()
	f.SetMembers("category", "C")
	res := listview.Reduce(seed(), schema(), f, listview.SortState{Key: "price"}, listview.PageState{CurrentPage: 1, ItemsPerPage: 2})
	fmt.Println(ids(res.Rows), res.TotalPages)
	// Output: [P16 P8] 2
}
