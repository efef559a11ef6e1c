package listview_test

import (
	"bytes"
	"errors"
	"html/template"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/millet-kiosk/pkg/listview"
)

func itemColumns() []listview.Column[item] {
	return []listview.Column[item]{
		{Key: "id", Header: "ID", Width: 10, Sortable: true, Value: func(i item) any { return i.ID }},
		{Key: "name", Header: "Nombre", Width: 50, Sortable: true, Value: func(i item) any { return i.Name }},
		{Key: "status", Header: "Estado", Width: 20, Render: func(i item) template.HTML {
			return template.HTML(`<span class="badge">` + template.HTMLEscapeString(i.Status) + `</span>`)
		}},
		{Key: "actions", Header: "Acciones", Width: 20},
	}
}

func renderTable(t *testing.T, rows []item, sort listview.SortState) string {
	t.Helper()
	tbl, err := listview.NewTable(itemColumns()...)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, tbl.Render(&buf, rows, sort, func(key string) string { return "?sort=" + key }))
	return buf.String()
}

func TestNewTable_ClaveDuplicada(t *testing.T) {
	cols := append(itemColumns(), listview.Column[item]{Key: "id", Header: "Otra"})
	_, err := listview.NewTable(cols...)
	assert.True(t, errors.Is(err, listview.ErrDuplicateColumn))

	_, err = listview.NewTable(listview.Column[item]{Header: "sin clave"})
	assert.ErrorIs(t, err, listview.ErrDuplicateColumn)
}

func TestTable_IndicadorSoloEnColumnaActiva(t *testing.T) {
	html := renderTable(t, seed()[:2], listview.SortState{Key: "name", Direction: listview.Descending})
	assert.Equal(t, 1, strings.Count(html, "▼"))
	assert.NotContains(t, html, "▲")

	html = renderTable(t, seed()[:2], listview.SortState{Key: "id"})
	assert.Equal(t, 1, strings.Count(html, "▲"))
}

func TestTable_SoloColumnasOrdenablesTienenEnlace(t *testing.T) {
	html := renderTable(t, seed()[:1], listview.SortState{})
	assert.Contains(t, html, `href="?sort=id"`)
	assert.Contains(t, html, `href="?sort=name"`)
	assert.NotContains(t, html, `?sort=status`)
	assert.NotContains(t, html, `?sort=actions`)
}

func TestTable_CeldasUsanRenderOValorEscapado(t *testing.T) {
	rows := []item{{ID: "P1", Name: "<b>Ragi</b>", Status: "active"}}
	html := renderTable(t, rows, listview.SortState{})
	assert.Contains(t, html, `<span class="badge">active</span>`)
	assert.Contains(t, html, "&lt;b&gt;Ragi&lt;/b&gt;")
	assert.NotContains(t, html, "<b>Ragi</b>")
}

func TestTable_SinFilasMuestraMarcador(t *testing.T) {
	html := renderTable(t, nil, listview.SortState{})
	assert.Contains(t, html, `colspan="4"`)
	assert.Contains(t, html, listview.EmptyPlaceholder)
	assert.Equal(t, 1, strings.Count(html, "<tr><td"))
}

func TestTable_AnchoIgualEnCabeceraYCeldas(t *testing.T) {
	html := renderTable(t, seed()[:1], listview.SortState{})
	assert.Equal(t, 2, strings.Count(html, "width:50%"))
	assert.Equal(t, 2, strings.Count(html, "width:10%"))
}

// ──────────────────────────────────────────────────────────────────────────────
// CSV
// ──────────────────────────────────────────────────────────────────────────────

func csvColumns() []listview.CSVColumn[item] {
	return []listview.CSVColumn[item]{
		{Header: "ID", Text: func(i item) string { return i.ID }},
		{Header: "Nombre", Text: func(i item) string { return i.Name }},
		{Header: "Precio", Number: func(i item) float64 { return i.Price }},
	}
}

func TestWriteCSV_FormatoYParidad(t *testing.T) {
	f := listview.NewFilterState()
	f.SetMembers("category", "A")
	f.SetSearch("foo")
	arranged := listview.Arrange(seed(), schema(), f, listview.SortState{Key: "price", Direction: listview.Descending})

	var buf bytes.Buffer
	require.NoError(t, listview.WriteCSV(&buf, arranged, csvColumns(), listview.CSVOptions{}))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, len(arranged)+1, "cabecera + una línea por fila filtrada, sin paginar")
	assert.Equal(t, "ID,Nombre,Precio", lines[0])
	assert.Equal(t, `"P20","Foo halwa",70`, lines[1])
	assert.Equal(t, `"P9","FOO bar",5`, lines[len(lines)-1])
}

func TestWriteCSV_Comillas(t *testing.T) {
	rows := []item{{ID: "P1", Name: `Ragi "premium"`, Price: 12.5}}

	var legacy bytes.Buffer
	require.NoError(t, listview.WriteCSV(&legacy, rows, csvColumns(), listview.CSVOptions{}))
	assert.Contains(t, legacy.String(), `"Ragi "premium"",12.5`)

	var escaped bytes.Buffer
	require.NoError(t, listview.WriteCSV(&escaped, rows, csvColumns(), listview.CSVOptions{EscapeQuotes: true}))
	assert.Contains(t, escaped.String(), `"Ragi ""premium""",12.5`)
}

func TestCSVFilename(t *testing.T) {
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, "products_2026-10-15.csv", listview.CSVFilename("products", now))
}
