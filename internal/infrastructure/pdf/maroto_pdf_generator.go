// Package pdf implementa las descargas PDF: la exportación de una vista de
// listado y el comprobante de un pedido.
//
// Layout del comprobante (A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Millet Kiosk          │  N° Pedido + Fecha         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: nombre / dirección / pago                         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Producto | P.Unit | Subtotal                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL + estado                                              │
//	│  FOOTER: QR con el id del pedido                             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/millet-kiosk/internal/application/dto"
	"github.com/jhoicas/millet-kiosk/internal/application/ports"
	"github.com/jhoicas/millet-kiosk/internal/domain/entity"
	"github.com/jhoicas/millet-kiosk/pkg/numeric"
)

var _ ports.DocumentRenderer = (*MarotoPDFGenerator)(nil)

// maroto reparte cada fila en 12 unidades de ancho.
const gridSize = 12

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 122, Green: 86, Blue: 28} // ocre mijo
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorBand    = &props.Color{Red: 245, Green: 238, Blue: 224}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa ports.DocumentRenderer usando Maroto v2.
type MarotoPDFGenerator struct {
	brand string
}

// NewMarotoPDFGenerator construye el generador; brand aparece en cabeceras.
func NewMarotoPDFGenerator(brand string) *MarotoPDFGenerator {
	if brand == "" {
		brand = "Millet Kiosk"
	}
	return &MarotoPDFGenerator{brand: brand}
}

// ListDocument genera la tabla exportada. Más de 6 columnas usa hoja apaisada.
func (g *MarotoPDFGenerator) ListDocument(_ context.Context, doc dto.ListDocument) ([]byte, error) {
	if len(doc.Headers) == 0 {
		return nil, fmt.Errorf("pdf: exportación sin columnas")
	}
	builder := baseConfig(g.brand, doc.Title)
	if len(doc.Headers) > 6 {
		builder = builder.WithOrientation(orientation.Horizontal)
	}
	m := maroto.New(builder.Build())

	m.AddRows(row.New(14).Add(
		col.New(8).Add(
			text.New(doc.Title, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New(g.brand, props.Text{Size: 8, Top: 8, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("Generado: "+doc.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New(strconv.Itoa(len(doc.Rows))+" registros", props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	))
	if doc.Filters != "" {
		m.AddRows(text.NewRow(6, "Filtros: "+doc.Filters, props.Text{Size: 7, Color: colorGray}))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	widths := columnWidths(len(doc.Headers))
	m.AddRows(gridRow(8, doc.Headers, widths, props.Text{Style: fontstyle.Bold, Size: 8, Top: 2, Left: 1}).
		WithStyle(&props.Cell{BackgroundColor: colorBand}))
	if len(doc.Rows) == 0 {
		m.AddRows(text.NewRow(8, "Sin datos", props.Text{Size: 8, Align: align.Center, Top: 2, Color: colorGray}))
	}
	for _, cells := range doc.Rows {
		m.AddRows(gridRow(7, cells, widths, props.Text{Size: 8, Top: 1, Left: 1}))
	}

	return generate(m)
}

// OrderReceipt genera el comprobante de un pedido.
func (g *MarotoPDFGenerator) OrderReceipt(_ context.Context, order entity.Order) ([]byte, error) {
	m := maroto.New(baseConfig(g.brand, "Pedido "+order.ID).Build())

	m.AddRows(receiptHeaderRow(g.brand, order))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(order))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(itemsHeaderRow())
	for _, r := range itemRows(order.Items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(order))

	m.AddRows(line.NewRow(3))
	m.AddRows(row.New(40).Add(
		col.New(3).Add(code.NewQr(order.ID, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New("Presenta este código al recibir tu pedido.", props.Text{
				Size: 8, Top: 4, Left: 3, Color: colorGray,
			}),
			text.New("Pago contra entrega", props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 14, Left: 3, Color: colorPrimary,
			}),
		),
	))

	return generate(m)
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func baseConfig(brand, title string) config.Builder {
	return config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(brand, true)
}

func generate(m core.Maroto) ([]byte, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// receiptHeaderRow: marca (izq) y número de pedido + fecha (der).
func receiptHeaderRow(brand string, order entity.Order) core.Row {
	fecha := "—"
	if !order.CreatedAt.IsZero() {
		fecha = order.CreatedAt.Format("02/01/2006")
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(brand, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("Comprobante de pedido", props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("PEDIDO", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1}),
			text.New(order.ID, props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7}),
			text.New("Fecha: "+fecha, props.Text{Size: 8, Align: align.Right, Top: 14, Color: colorGray}),
		),
	)
}

// customerRow: datos de entrega.
func customerRow(order entity.Order) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("ENTREGA", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(nonEmpty(order.CustomerName, "Cliente"), props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(fmt.Sprintf("Dirección: %s   |   Pago: %s",
				nonEmpty(order.Address, "—"),
				paymentLabel(order.PaymentMethod),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func itemsHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Producto", 6, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Subtotal", 3, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorBand})
}

// itemRows: una fila por línea del pedido.
func itemRows(items []entity.OrderItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(strconv.Itoa(it.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(6).Add(text.New(nonEmpty(it.Name, it.ProductID), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(numeric.Money(it.Price), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(numeric.Money(it.Subtotal()), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func totalRow(order entity.Order) core.Row {
	return row.New(14).Add(
		col.New(6).Add(text.New("Estado: "+order.Status, props.Text{Size: 9, Top: 3, Color: colorGray})),
		col.New(3).Add(text.New("TOTAL:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 3, Right: 2,
		})),
		col.New(3).Add(text.New(numeric.Money(order.Total), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 3, Right: 1,
		})),
	)
}

// gridRow reparte cells en columnas con los anchos dados.
func gridRow(height float64, cells []string, widths []int, style props.Text) core.Row {
	cols := make([]core.Col, 0, len(widths))
	for i, w := range widths {
		value := ""
		if i < len(cells) {
			value = cells[i]
		}
		cols = append(cols, col.New(w).Add(text.New(value, style)))
	}
	return row.New(height).Add(cols...)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// columnWidths reparte las 12 unidades de la grilla entre n columnas; las
// primeras reciben el sobrante. Con más de 12 columnas cada una recibe 1.
func columnWidths(n int) []int {
	widths := make([]int, n)
	if n == 0 {
		return widths
	}
	base := gridSize / n
	if base == 0 {
		base = 1
	}
	extra := gridSize - base*n
	for i := range widths {
		widths[i] = base
		if extra > 0 {
			widths[i]++
			extra--
		}
	}
	return widths
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func paymentLabel(method string) string {
	switch method {
	case "", "cod":
		return "Contra entrega"
	default:
		return method
	}
}
