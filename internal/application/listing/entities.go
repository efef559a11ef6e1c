package listing

import (
	"context"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/jhoicas/millet-kiosk/internal/application/ports"
	"github.com/jhoicas/millet-kiosk/internal/domain/entity"
	"github.com/jhoicas/millet-kiosk/pkg/listview"
)

// Nombres de las vistas; se usan en rutas, exportaciones y nombres de archivo.
const (
	ViewProducts  = "products"
	ViewOrders    = "orders"
	ViewMyOrders  = "my-orders"
	ViewInventory = "inventory"
	ViewRestocks  = "restocks"
	ViewSellers   = "sellers"
)

var locale = language.Spanish

// ──────────────────────────────────────────────────────────────────────────────
// Products
// ──────────────────────────────────────────────────────────────────────────────

// Products catálogo: búsqueda por nombre/descripción/categoría, filtro por
// categoría y rango de precio, orden por nombre, precio, stock o rating.
func Products() Definition[entity.Product] {
	return Definition[entity.Product]{
		Name:  ViewProducts,
		Title: "Productos",
		Key:   func(p entity.Product) string { return p.ID },
		Schema: listview.Schema[entity.Product]{
			SearchFields: []func(entity.Product) string{
				func(p entity.Product) string { return p.ID },
				func(p entity.Product) string { return p.Name },
				func(p entity.Product) string { return p.Description },
				func(p entity.Product) string { return p.Category },
			},
			SetFields: map[string]func(entity.Product) string{
				"category": func(p entity.Product) string { return p.Category },
			},
			RangeFields: map[string]func(entity.Product) float64{
				"price": func(p entity.Product) float64 { return p.Price.InexactFloat64() },
				"stock": func(p entity.Product) float64 { return float64(p.Stock) },
			},
			SortFields: map[string]listview.SortField[entity.Product]{
				"id":     listview.TextField(func(p entity.Product) string { return p.ID }),
				"name":   listview.TextField(func(p entity.Product) string { return p.Name }),
				"price":  listview.NumberField(func(p entity.Product) float64 { return p.Price.InexactFloat64() }),
				"stock":  listview.NumberField(func(p entity.Product) float64 { return float64(p.Stock) }),
				"rating": listview.NumberField(func(p entity.Product) float64 { return p.Rating }),
			},
			Locale: locale,
		},
		CSV: []listview.CSVColumn[entity.Product]{
			{Header: "ID", Text: func(p entity.Product) string { return p.ID }},
			{Header: "Nombre", Text: func(p entity.Product) string { return p.Name }},
			{Header: "Categoría", Text: func(p entity.Product) string { return p.Category }},
			{Header: "Precio", Number: func(p entity.Product) float64 { return p.Price.InexactFloat64() }},
			{Header: "Stock", Number: func(p entity.Product) float64 { return float64(p.Stock) }},
			{Header: "Rating", Number: func(p entity.Product) float64 { return p.Rating }},
		},
		SetFilters:   []SetFilter{{Name: "category", Label: "Categoría"}},
		RangeFilters: []RangeFilter{{Name: "price", Label: "Precio"}},
	}
}

// ProductSource catálogo completo con alta, edición y baja (admin).
func ProductSource(b ports.Backend) Source[entity.Product] {
	return Source[entity.Product]{
		Fetch:  b.ListProducts,
		Write:  b.UpdateProduct,
		Remove: b.DeleteProduct,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Orders
// ──────────────────────────────────────────────────────────────────────────────

// Orders pedidos de una tienda (cola del vendedor) o del cliente.
func Orders() Definition[entity.Order] {
	return Definition[entity.Order]{
		Name:  ViewOrders,
		Title: "Pedidos",
		Key:   func(o entity.Order) string { return o.ID },
		Schema: listview.Schema[entity.Order]{
			SearchFields: []func(entity.Order) string{
				func(o entity.Order) string { return o.ID },
				func(o entity.Order) string { return o.CustomerName },
				func(o entity.Order) string { return o.CustomerEmail },
				func(o entity.Order) string { return o.Address },
			},
			SetFields: map[string]func(entity.Order) string{
				"status": func(o entity.Order) string { return o.Status },
			},
			RangeFields: map[string]func(entity.Order) float64{
				"total": func(o entity.Order) float64 { return o.Total.InexactFloat64() },
			},
			SortFields: map[string]listview.SortField[entity.Order]{
				"id":       listview.TextField(func(o entity.Order) string { return o.ID }),
				"customer": listview.TextField(func(o entity.Order) string { return o.CustomerName }),
				"status":   listview.TextField(func(o entity.Order) string { return o.Status }),
				"total":    listview.NumberField(func(o entity.Order) float64 { return o.Total.InexactFloat64() }),
				"items":    listview.NumberField(func(o entity.Order) float64 { return float64(o.ItemCount()) }),
				"date":     listview.NumberField(func(o entity.Order) float64 { return float64(o.CreatedAt.Unix()) }),
			},
			Locale: locale,
		},
		CSV: []listview.CSVColumn[entity.Order]{
			{Header: "Pedido", Text: func(o entity.Order) string { return o.ID }},
			{Header: "Cliente", Text: func(o entity.Order) string { return o.CustomerName }},
			{Header: "Estado", Text: func(o entity.Order) string { return o.Status }},
			{Header: "Unidades", Number: func(o entity.Order) float64 { return float64(o.ItemCount()) }},
			{Header: "Total", Number: func(o entity.Order) float64 { return o.Total.InexactFloat64() }},
			{Header: "Fecha", Text: func(o entity.Order) string { return dateText(o.CreatedAt) }},
		},
		DefaultSort:  listview.SortState{Key: "date", Direction: listview.Descending},
		SetFilters:   []SetFilter{{Name: "status", Label: "Estado", Options: entity.OrderStatuses}},
		RangeFilters: []RangeFilter{{Name: "total", Label: "Total"}},
	}
}

// MyOrders historial del cliente; misma forma que Orders con otro nombre.
func MyOrders() Definition[entity.Order] {
	d := Orders()
	d.Name = ViewMyOrders
	d.Title = "Mis pedidos"
	return d
}

// ShopOrderSource pedidos de la tienda; el vendedor solo cambia el estado.
func ShopOrderSource(b ports.Backend, shopID string) Source[entity.Order] {
	return Source[entity.Order]{
		Fetch: func(ctx context.Context) ([]entity.Order, error) { return b.ListShopOrders(ctx, shopID) },
		Write: b.UpdateOrder,
	}
}

// MyOrderSource historial del cliente autenticado; solo lectura.
func MyOrderSource(b ports.Backend) Source[entity.Order] {
	return Source[entity.Order]{Fetch: b.ListMyOrders}
}

// ──────────────────────────────────────────────────────────────────────────────
// Inventory
// ──────────────────────────────────────────────────────────────────────────────

// Inventory existencias de la tienda del vendedor.
func Inventory() Definition[entity.InventoryLine] {
	return Definition[entity.InventoryLine]{
		Name:  ViewInventory,
		Title: "Inventario",
		Key:   func(l entity.InventoryLine) string { return l.ProductID },
		Schema: listview.Schema[entity.InventoryLine]{
			SearchFields: []func(entity.InventoryLine) string{
				func(l entity.InventoryLine) string { return l.ProductID },
				func(l entity.InventoryLine) string { return l.Name },
				func(l entity.InventoryLine) string { return l.Category },
			},
			SetFields: map[string]func(entity.InventoryLine) string{
				"category": func(l entity.InventoryLine) string { return l.Category },
				"level": func(l entity.InventoryLine) string {
					if l.Low() {
						return "low"
					}
					return "ok"
				},
			},
			RangeFields: map[string]func(entity.InventoryLine) float64{
				"stock": func(l entity.InventoryLine) float64 { return float64(l.Stock) },
			},
			SortFields: map[string]listview.SortField[entity.InventoryLine]{
				"id":    listview.TextField(func(l entity.InventoryLine) string { return l.ProductID }),
				"name":  listview.TextField(func(l entity.InventoryLine) string { return l.Name }),
				"stock": listview.NumberField(func(l entity.InventoryLine) float64 { return float64(l.Stock) }),
				"price": listview.NumberField(func(l entity.InventoryLine) float64 { return l.Price.InexactFloat64() }),
			},
			Locale: locale,
		},
		CSV: []listview.CSVColumn[entity.InventoryLine]{
			{Header: "ID", Text: func(l entity.InventoryLine) string { return l.ProductID }},
			{Header: "Producto", Text: func(l entity.InventoryLine) string { return l.Name }},
			{Header: "Categoría", Text: func(l entity.InventoryLine) string { return l.Category }},
			{Header: "Stock", Number: func(l entity.InventoryLine) float64 { return float64(l.Stock) }},
			{Header: "Precio", Number: func(l entity.InventoryLine) float64 { return l.Price.InexactFloat64() }},
		},
		DefaultSort: listview.SortState{Key: "stock", Direction: listview.Ascending},
		SetFilters: []SetFilter{
			{Name: "category", Label: "Categoría"},
			{Name: "level", Label: "Nivel", Options: []string{"low", "ok"}},
		},
		RangeFilters: []RangeFilter{{Name: "stock", Label: "Stock"}},
	}
}

// InventorySource existencias con edición en línea de stock y precio.
func InventorySource(b ports.Backend, shopID string) Source[entity.InventoryLine] {
	return Source[entity.InventoryLine]{
		Fetch: func(ctx context.Context) ([]entity.InventoryLine, error) { return b.ListInventory(ctx, shopID) },
		Write: b.UpdateInventory,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Restock requests
// ──────────────────────────────────────────────────────────────────────────────

// Restocks solicitudes de reposición.
func Restocks() Definition[entity.RestockRequest] {
	return Definition[entity.RestockRequest]{
		Name:  ViewRestocks,
		Title: "Reposiciones",
		Key:   func(r entity.RestockRequest) string { return r.ID },
		Schema: listview.Schema[entity.RestockRequest]{
			SearchFields: []func(entity.RestockRequest) string{
				func(r entity.RestockRequest) string { return r.ID },
				func(r entity.RestockRequest) string { return r.ProductID },
				func(r entity.RestockRequest) string { return r.ProductName },
				func(r entity.RestockRequest) string { return r.ShopName },
				func(r entity.RestockRequest) string { return r.Note },
			},
			SetFields: map[string]func(entity.RestockRequest) string{
				"status": func(r entity.RestockRequest) string { return r.Status },
				"shop":   func(r entity.RestockRequest) string { return r.ShopName },
			},
			RangeFields: map[string]func(entity.RestockRequest) float64{
				"quantity": func(r entity.RestockRequest) float64 { return float64(r.Quantity) },
			},
			SortFields: map[string]listview.SortField[entity.RestockRequest]{
				"id":       listview.TextField(func(r entity.RestockRequest) string { return r.ID }),
				"product":  listview.TextField(func(r entity.RestockRequest) string { return r.ProductName }),
				"shop":     listview.TextField(func(r entity.RestockRequest) string { return r.ShopName }),
				"quantity": listview.NumberField(func(r entity.RestockRequest) float64 { return float64(r.Quantity) }),
				"date":     listview.NumberField(func(r entity.RestockRequest) float64 { return float64(r.CreatedAt.Unix()) }),
			},
			Locale: locale,
		},
		CSV: []listview.CSVColumn[entity.RestockRequest]{
			{Header: "Solicitud", Text: func(r entity.RestockRequest) string { return r.ID }},
			{Header: "Producto", Text: func(r entity.RestockRequest) string { return r.ProductName }},
			{Header: "Tienda", Text: func(r entity.RestockRequest) string { return r.ShopName }},
			{Header: "Cantidad", Number: func(r entity.RestockRequest) float64 { return float64(r.Quantity) }},
			{Header: "Estado", Text: func(r entity.RestockRequest) string { return r.Status }},
		},
		DefaultSort: listview.SortState{Key: "date", Direction: listview.Descending},
		SetFilters: []SetFilter{
			{Name: "status", Label: "Estado", Options: entity.RestockStatuses},
			{Name: "shop", Label: "Tienda"},
		},
	}
}

// RestockSource solicitudes de una tienda (vendedor) o de todas (admin, shopID vacío).
// Write aprueba o rechaza.
func RestockSource(b ports.Backend, shopID string) Source[entity.RestockRequest] {
	return Source[entity.RestockRequest]{
		Fetch: func(ctx context.Context) ([]entity.RestockRequest, error) { return b.ListRestocks(ctx, shopID) },
		Write: b.UpdateRestock,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Sellers
// ──────────────────────────────────────────────────────────────────────────────

// Sellers cuentas de vendedor (consola admin).
func Sellers() Definition[entity.Seller] {
	return Definition[entity.Seller]{
		Name:  ViewSellers,
		Title: "Vendedores",
		Key:   func(s entity.Seller) string { return s.ID },
		Schema: listview.Schema[entity.Seller]{
			SearchFields: []func(entity.Seller) string{
				func(s entity.Seller) string { return s.ID },
				func(s entity.Seller) string { return s.Name },
				func(s entity.Seller) string { return s.Email },
				func(s entity.Seller) string { return s.ShopName },
			},
			SetFields: map[string]func(entity.Seller) string{
				"status": func(s entity.Seller) string { return s.Status },
			},
			SortFields: map[string]listview.SortField[entity.Seller]{
				"id":    listview.TextField(func(s entity.Seller) string { return s.ID }),
				"name":  listview.TextField(func(s entity.Seller) string { return s.Name }),
				"email": listview.TextField(func(s entity.Seller) string { return s.Email }),
				"shop":  listview.TextField(func(s entity.Seller) string { return s.ShopName }),
			},
			Locale: locale,
		},
		CSV: []listview.CSVColumn[entity.Seller]{
			{Header: "ID", Text: func(s entity.Seller) string { return s.ID }},
			{Header: "Nombre", Text: func(s entity.Seller) string { return s.Name }},
			{Header: "Email", Text: func(s entity.Seller) string { return s.Email }},
			{Header: "Teléfono", Text: func(s entity.Seller) string { return s.Phone }},
			{Header: "Tienda", Text: func(s entity.Seller) string { return s.ShopName }},
			{Header: "Estado", Text: func(s entity.Seller) string { return s.Status }},
		},
		DefaultSort: listview.SortState{Key: "name", Direction: listview.Ascending},
		SetFilters: []SetFilter{
			{Name: "status", Label: "Estado", Options: []string{entity.SellerActive, entity.SellerInactive}},
		},
	}
}

// SellerSource vendedores con baja.
func SellerSource(b ports.Backend) Source[entity.Seller] {
	return Source[entity.Seller]{
		Fetch:  b.ListSellers,
		Remove: b.DeleteSeller,
	}
}

func dateText(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// ParseQuantity lee un entero no negativo de formulario.
func ParseQuantity(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
