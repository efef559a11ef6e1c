package listing_test

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/millet-kiosk/internal/application/listing"
	"github.com/jhoicas/millet-kiosk/internal/application/ports"
	"github.com/jhoicas/millet-kiosk/internal/domain"
	"github.com/jhoicas/millet-kiosk/internal/domain/entity"
	"github.com/jhoicas/millet-kiosk/internal/infrastructure/kioskapi"
	"github.com/jhoicas/millet-kiosk/pkg/listview"
)

// fakeInventory fuente en memoria que cuenta lecturas y escrituras.
type fakeInventory struct {
	mu       sync.Mutex
	lines    []entity.InventoryLine
	fetches  int
	writes   int
	writeErr error
	fetchErr error
}

func (f *fakeInventory) source() listing.Source[entity.InventoryLine] {
	return listing.Source[entity.InventoryLine]{
		Fetch: func(context.Context) ([]entity.InventoryLine, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.fetches++
			if f.fetchErr != nil {
				return nil, f.fetchErr
			}
			return append([]entity.InventoryLine(nil), f.lines...), nil
		},
		Write: func(_ context.Context, id string, patch ports.Patch) error {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.writes++
			if f.writeErr != nil {
				return f.writeErr
			}
			for i := range f.lines {
				if f.lines[i].ProductID == id {
					if v, ok := patch["stock"].(int); ok {
						f.lines[i].Stock = v
					}
				}
			}
			return nil
		},
	}
}

func seedInventory() []entity.InventoryLine {
	return []entity.InventoryLine{
		{ProductID: "P1", Name: "Ragi flour", Category: "Flour", Stock: 12, Price: decimal.NewFromInt(120), ReorderLevel: 5},
		{ProductID: "P2", Name: "Jowar flakes", Category: "Snacks", Stock: 3, Price: decimal.NewFromInt(80), ReorderLevel: 5},
		{ProductID: "P10", Name: "Bajra mix", Category: "Flour", Stock: 0, Price: decimal.NewFromInt(95), ReorderLevel: 5},
	}
}

func newInventory(t *testing.T, f *fakeInventory) *listing.Controller[entity.InventoryLine] {
	t.Helper()
	c := listing.New(listing.Inventory(), f.source())
	require.NoError(t, c.Refresh(context.Background()))
	return c
}

// ──────────────────────────────────────────────────────────────────────────────
// Refresh
// ──────────────────────────────────────────────────────────────────────────────

func TestRefresh_ReemplazaFilas(t *testing.T) {
	f := &fakeInventory{lines: seedInventory()}
	c := newInventory(t, f)

	assert.Len(t, c.Rows(), 3)
	assert.Empty(t, c.Error())
	assert.False(t, c.Loading())
}

func TestRefresh_FalloConservaFilasPrevias(t *testing.T) {
	f := &fakeInventory{lines: seedInventory()}
	c := newInventory(t, f)

	f.fetchErr = &kioskapi.APIError{Status: 500, Message: "Servidor caído"}
	err := c.Refresh(context.Background())
	require.Error(t, err)

	assert.Len(t, c.Rows(), 3, "las filas previas se conservan")
	assert.Equal(t, "Servidor caído", c.Error())

	f.fetchErr = nil
	require.NoError(t, c.Refresh(context.Background()))
	assert.Empty(t, c.Error())
}

func TestRefresh_DescartaRespuestaObsoleta(t *testing.T) {
	slow := make(chan struct{})
	entered := make(chan struct{})
	var call int
	var mu sync.Mutex
	src := listing.Source[entity.InventoryLine]{
		Fetch: func(context.Context) ([]entity.InventoryLine, error) {
			mu.Lock()
			call++
			n := call
			mu.Unlock()
			if n == 1 {
				close(entered)
				<-slow
				return []entity.InventoryLine{{ProductID: "VIEJO"}}, nil
			}
			return []entity.InventoryLine{{ProductID: "NUEVO"}}, nil
		},
	}
	c := listing.New(listing.Inventory(), src)

	done := make(chan error)
	go func() { done <- c.Refresh(context.Background()) }()
	<-entered

	require.NoError(t, c.Refresh(context.Background()))
	close(slow)
	require.NoError(t, <-done)

	rows := c.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "NUEVO", rows[0].ProductID, "la respuesta más antigua no pisa a la más reciente")
	assert.False(t, c.Loading())
}

// ──────────────────────────────────────────────────────────────────────────────
// MutateRow
// ──────────────────────────────────────────────────────────────────────────────

func TestMutateRow_ExitoHaceUnSoloRefresh(t *testing.T) {
	f := &fakeInventory{lines: seedInventory()}
	c := newInventory(t, f)
	c.BeginEdit("P2")
	before := f.fetches

	require.NoError(t, c.MutateRow(context.Background(), "P2", ports.Patch{"stock": 40}))

	assert.Equal(t, 1, f.writes)
	assert.Equal(t, before+1, f.fetches, "exactamente un refresh tras la escritura")
	assert.Empty(t, c.Editing())
	assert.Empty(t, c.MutationError())
	assert.NotEmpty(t, c.Notice())

	line, ok := listing.Inventory().Find(c.Rows(), "P2")
	require.True(t, ok)
	assert.Equal(t, 40, line.Stock, "el valor nuevo viene del refresh")
}

func TestMutateRow_FalloNoRefrescaYMantieneEdicion(t *testing.T) {
	f := &fakeInventory{lines: seedInventory()}
	c := newInventory(t, f)
	c.BeginEdit("P2")
	before := f.fetches
	f.writeErr = &kioskapi.APIError{Status: 400, Message: "Stock inválido"}

	err := c.MutateRow(context.Background(), "P2", ports.Patch{"stock": -1})
	require.Error(t, err)

	assert.Equal(t, before, f.fetches, "sin refresh tras un fallo")
	assert.Equal(t, "P2", c.Editing())
	assert.Equal(t, "Stock inválido", c.MutationError())

	line, _ := listing.Inventory().Find(c.Rows(), "P2")
	assert.Equal(t, 3, line.Stock, "las filas locales no se parchean")
}

func TestMutateRow_SinRespuestaMensajeGenerico(t *testing.T) {
	f := &fakeInventory{lines: seedInventory(), writeErr: domain.ErrUnavailable}
	c := newInventory(t, f)

	err := c.MutateRow(context.Background(), "P1", ports.Patch{"stock": 1})
	assert.ErrorIs(t, err, domain.ErrUnavailable)
	assert.Equal(t, domain.ErrUnavailable.Error(), c.MutationError())
}

func TestDeleteRow_SoloLectura(t *testing.T) {
	f := &fakeInventory{lines: seedInventory()}
	c := newInventory(t, f)
	assert.ErrorIs(t, c.DeleteRow(context.Background(), "P1"), listing.ErrReadOnly)
}

func TestRun_EscrituraArbitraria(t *testing.T) {
	f := &fakeInventory{lines: seedInventory()}
	c := newInventory(t, f)
	before := f.fetches

	err := c.Run(context.Background(), func(context.Context) error { return errors.New("x") }, "creado")
	require.Error(t, err)
	assert.Equal(t, before, f.fetches)
	assert.Equal(t, domain.GenericMessage, c.MutationError())

	require.NoError(t, c.Run(context.Background(), func(context.Context) error { return nil }, "creado"))
	assert.Equal(t, before+1, f.fetches)
	assert.Equal(t, "creado", c.Notice())
}

// ──────────────────────────────────────────────────────────────────────────────
// Vista, filtros y exportación
// ──────────────────────────────────────────────────────────────────────────────

func TestView_FiltrosYOrdenLocales(t *testing.T) {
	f := &fakeInventory{lines: seedInventory()}
	c := newInventory(t, f)
	fetches := f.fetches

	c.ToggleSetMembership("category", "Flour")
	c.SetSort("stock") // el orden por defecto ya es stock asc: el clic invierte
	res := c.View()

	require.Len(t, res.Rows, 2)
	assert.Equal(t, "P1", res.Rows[0].ProductID)
	assert.Equal(t, "P10", res.Rows[1].ProductID)
	assert.Equal(t, fetches, f.fetches, "filtrar y ordenar no hace red")

	c.ToggleSetMembership("category", "Flour")
	assert.Len(t, c.View().Rows, 3)
}

func TestView_ReajustaPaginaFueraDeRango(t *testing.T) {
	f := &fakeInventory{lines: seedInventory()}
	c := listing.New(listing.Inventory().WithPageSize(2), f.source())
	require.NoError(t, c.Refresh(context.Background()))

	c.SetPage(2)
	assert.Len(t, c.View().Rows, 1)

	c.SetFilter("level", "low")
	res := c.View()
	assert.Equal(t, 1, res.CurrentPage)
	assert.Equal(t, 1, c.State().Page)
}

func TestOptions_DerivadasYFijas(t *testing.T) {
	f := &fakeInventory{lines: seedInventory()}
	c := newInventory(t, f)
	assert.Equal(t, []string{"Flour", "Snacks"}, c.Options("category"))
	assert.Equal(t, []string{"low", "ok"}, c.Options("level"))
	assert.Nil(t, c.Options("desconocido"))
}

func TestExportCSV_CoincideConColeccionFiltrada(t *testing.T) {
	f := &fakeInventory{lines: seedInventory()}
	c := listing.New(listing.Inventory().WithPageSize(1), f.source())
	require.NoError(t, c.Refresh(context.Background()))
	c.SetFilter("category", "Flour")
	fetches := f.fetches

	var buf bytes.Buffer
	require.NoError(t, c.ExportCSV(&buf, listview.CSVOptions{}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, len(c.Arranged())+1, "todas las páginas, no solo la visible")
	assert.Equal(t, "ID,Producto,Categoría,Stock,Precio", lines[0])
	assert.Equal(t, `"P10","Bajra mix","Flour",0,95`, lines[1])
	assert.Equal(t, fetches, f.fetches)

	assert.Equal(t, "inventory_2026-10-15.csv", c.ExportFilename(time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)))
}

// ──────────────────────────────────────────────────────────────────────────────
// State en la URL
// ──────────────────────────────────────────────────────────────────────────────

func TestState_IdaYVuelta(t *testing.T) {
	q, err := url.ParseQuery("q=ragi&sort=price:desc&page=3&f.category=Flour&f.category=Snacks&min.price=10&max.price=99.5&edit=P1")
	require.NoError(t, err)

	s := listing.ParseState(q)
	assert.Equal(t, "ragi", s.Filters.Search)
	assert.Equal(t, listview.SortState{Key: "price", Direction: listview.Descending}, s.Sort)
	assert.Equal(t, 3, s.Page)
	assert.Equal(t, "P1", s.Editing)
	assert.True(t, s.Filters.HasMember("category", "Snacks"))
	require.NotNil(t, s.Filters.Ranges["price"].Max)
	assert.Equal(t, 99.5, *s.Filters.Ranges["price"].Max)

	again := listing.ParseState(s.Values())
	assert.Equal(t, s.Encode(), again.Encode())
}

func TestState_EnlacesNoAlteranOriginal(t *testing.T) {
	s := listing.ParseState(url.Values{"f.status": {"pending"}, "page": {"4"}})

	toggled := s.WithToggle("status", "pending")
	assert.False(t, toggled.Filters.HasMember("status", "pending"))
	assert.True(t, s.Filters.HasMember("status", "pending"))
	assert.Equal(t, 1, toggled.Page)

	sorted := s.WithSort("total")
	assert.Equal(t, "sort=total%3Aasc", sorted.WithToggle("status", "pending").Encode())
}

func TestState_ValoresInvalidosSeIgnoran(t *testing.T) {
	s := listing.ParseState(url.Values{"page": {"-2"}, "min.price": {"abc"}, "sort": {""}})
	assert.Zero(t, s.Page)
	assert.True(t, s.Filters.IsEmpty())
	assert.False(t, s.Sort.Active())
}
