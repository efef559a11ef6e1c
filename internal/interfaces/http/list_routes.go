package http

import (
	"html/template"
	"strconv"
	"time"

	"github.com/jhoicas/millet-kiosk/internal/application/listing"
	"github.com/jhoicas/millet-kiosk/internal/application/ports"
	"github.com/jhoicas/millet-kiosk/internal/domain/entity"
	"github.com/jhoicas/millet-kiosk/pkg/listview"
	"github.com/jhoicas/millet-kiosk/pkg/numeric"
)

func text(s string) template.HTML { return template.HTML(template.HTMLEscapeString(s)) }

func dateCell(t time.Time) template.HTML {
	if t.IsZero() {
		return ""
	}
	return text(t.Format("02/01/2006"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Storefront
// ──────────────────────────────────────────────────────────────────────────────

// catalogRoute catálogo del cliente; solo lectura.
func catalogRoute() listRoute[entity.Product] {
	def := listing.Products()
	def.Title = "Catálogo"
	def.RangeFilters = append(def.RangeFilters, listing.RangeFilter{Name: "stock", Label: "Stock"})
	return listRoute[entity.Product]{
		path: "/shop",
		def:  def,
		source: func(b ports.Backend, _ Session) listing.Source[entity.Product] {
			return listing.Source[entity.Product]{Fetch: b.ListProducts}
		},
		columns: func(rc rowContext) []listview.Column[entity.Product] {
			return []listview.Column[entity.Product]{
				{Key: "name", Header: "Producto", Sortable: true, Width: 30, Render: func(p entity.Product) template.HTML {
					return joinHTML("<strong>"+text(p.Name)+"</strong>", "<br><small>"+text(p.Description)+"</small>")
				}},
				{Key: "category", Header: "Categoría", Value: func(p entity.Product) any { return p.Category }},
				{Key: "price", Header: "Precio", Sortable: true, Render: func(p entity.Product) template.HTML { return text(numeric.Money(p.Price)) }},
				{Key: "rating", Header: "Rating", Sortable: true, Render: func(p entity.Product) template.HTML {
					return text(strconv.FormatFloat(p.Rating, 'f', 1, 64) + " ★")
				}},
				{Key: "stock", Header: "Disponibles", Sortable: true, Value: func(p entity.Product) any { return p.Stock }},
				{Key: "cart", Header: "", Width: 18, Render: func(p entity.Product) template.HTML {
					if !p.InStock() {
						return badge("agotado")
					}
					return frag("add-to-cart", addToCartFrag{ID: p.ID, Stock: p.Stock, Back: rc.back()})
				}},
			}
		},
	}
}

// myOrdersRoute historial del cliente con enlace al comprobante.
func myOrdersRoute() listRoute[entity.Order] {
	return listRoute[entity.Order]{
		path: "/my/orders",
		def:  listing.MyOrders(),
		source: func(b ports.Backend, _ Session) listing.Source[entity.Order] {
			return listing.MyOrderSource(b)
		},
		columns: func(rc rowContext) []listview.Column[entity.Order] {
			return []listview.Column[entity.Order]{
				{Key: "id", Header: "Pedido", Sortable: true, Value: func(o entity.Order) any { return o.ID }},
				{Key: "date", Header: "Fecha", Sortable: true, Render: func(o entity.Order) template.HTML { return dateCell(o.CreatedAt) }},
				{Key: "items", Header: "Unidades", Sortable: true, Value: func(o entity.Order) any { return o.ItemCount() }},
				{Key: "total", Header: "Total", Sortable: true, Render: func(o entity.Order) template.HTML { return text(numeric.Money(o.Total)) }},
				{Key: "status", Header: "Estado", Sortable: true, Render: func(o entity.Order) template.HTML { return badge(o.Status) }},
				{Key: "receipt", Header: "", Render: func(o entity.Order) template.HTML {
					if o.Status == entity.OrderRejected {
						return ""
					}
					return frag("link", linkFrag{Href: receiptHref(o.ID), Label: "Comprobante"})
				}},
			}
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Pedidos (vendedor y admin)
// ──────────────────────────────────────────────────────────────────────────────

// shopScope tienda visible: el admin ve todas, el vendedor la suya.
func shopScope(s Session) string {
	if s.Role == entity.RoleAdmin {
		return ""
	}
	return s.ShopID
}

// ordersRoute cola de pedidos. Los pendientes se aceptan o rechazan; los
// aceptados se marcan como entregados.
func ordersRoute(path string) listRoute[entity.Order] {
	return listRoute[entity.Order]{
		path: path,
		def:  listing.Orders(),
		source: func(b ports.Backend, s Session) listing.Source[entity.Order] {
			return listing.ShopOrderSource(b, shopScope(s))
		},
		columns: func(rc rowContext) []listview.Column[entity.Order] {
			return []listview.Column[entity.Order]{
				{Key: "id", Header: "Pedido", Sortable: true, Value: func(o entity.Order) any { return o.ID }},
				{Key: "customer", Header: "Cliente", Sortable: true, Render: func(o entity.Order) template.HTML {
					return joinHTML(text(o.CustomerName), "<br><small>"+text(o.Address)+"</small>")
				}},
				{Key: "items", Header: "Unidades", Sortable: true, Value: func(o entity.Order) any { return o.ItemCount() }},
				{Key: "total", Header: "Total", Sortable: true, Render: func(o entity.Order) template.HTML { return text(numeric.Money(o.Total)) }},
				{Key: "date", Header: "Fecha", Sortable: true, Render: func(o entity.Order) template.HTML { return dateCell(o.CreatedAt) }},
				{Key: "status", Header: "Estado", Sortable: true, Render: func(o entity.Order) template.HTML { return badge(o.Status) }},
				{Key: "actions", Header: "Acciones", Render: func(o entity.Order) template.HTML {
					action := rc.Action(o.ID, "status")
					switch o.Status {
					case entity.OrderPending:
						return joinHTML(
							postButton(action, "Aceptar", "", hiddenField{Name: "status", Value: entity.OrderAccepted}),
							postButton(action, "Rechazar", "¿Rechazar el pedido "+o.ID+"?", hiddenField{Name: "status", Value: entity.OrderRejected}),
						)
					case entity.OrderAccepted:
						return postButton(action, "Entregado", "", hiddenField{Name: "status", Value: entity.OrderDelivered})
					default:
						return ""
					}
				}},
			}
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Inventario (vendedor)
// ──────────────────────────────────────────────────────────────────────────────

func inventoryRoute() listRoute[entity.InventoryLine] {
	return listRoute[entity.InventoryLine]{
		path: "/seller/inventory",
		def:  listing.Inventory(),
		source: func(b ports.Backend, s Session) listing.Source[entity.InventoryLine] {
			return listing.InventorySource(b, s.ShopID)
		},
		columns: func(rc rowContext) []listview.Column[entity.InventoryLine] {
			return []listview.Column[entity.InventoryLine]{
				{Key: "id", Header: "ID", Sortable: true, Value: func(l entity.InventoryLine) any { return l.ProductID }},
				{Key: "name", Header: "Producto", Sortable: true, Value: func(l entity.InventoryLine) any { return l.Name }},
				{Key: "category", Header: "Categoría", Value: func(l entity.InventoryLine) any { return l.Category }},
				{Key: "stock", Header: "Stock", Sortable: true, Render: func(l entity.InventoryLine) template.HTML {
					if rc.Editing == l.ProductID {
						return input(l.ProductID, "stock", strconv.Itoa(l.Stock), "number", "1")
					}
					return text(strconv.Itoa(l.Stock))
				}},
				{Key: "price", Header: "Precio", Sortable: true, Render: func(l entity.InventoryLine) template.HTML {
					if rc.Editing == l.ProductID {
						return input(l.ProductID, "price", l.Price.String(), "number", "0.01")
					}
					return text(numeric.Money(l.Price))
				}},
				{Key: "level", Header: "Nivel", Render: func(l entity.InventoryLine) template.HTML {
					if l.Low() {
						return badge("low")
					}
					return badge("ok")
				}},
				{Key: "actions", Header: "", Render: func(l entity.InventoryLine) template.HTML {
					return editActions(rc, l.ProductID)
				}},
			}
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Reposiciones
// ──────────────────────────────────────────────────────────────────────────────

// sellerRestocksRoute solicitudes propias con el formulario de envío.
func sellerRestocksRoute() listRoute[entity.RestockRequest] {
	return listRoute[entity.RestockRequest]{
		path: "/seller/restocks",
		def:  listing.Restocks(),
		source: func(b ports.Backend, s Session) listing.Source[entity.RestockRequest] {
			src := listing.RestockSource(b, s.ShopID)
			src.Write = nil // el vendedor no resuelve sus propias solicitudes
			return src
		},
		columns: func(rc rowContext) []listview.Column[entity.RestockRequest] {
			return restockColumns(rc, false)
		},
		form: func(rc rowContext) template.HTML {
			return frag("restock-form", rc)
		},
	}
}

// adminRestocksRoute solicitudes de todas las tiendas; aprobar o rechazar.
// En la API la comparten vendedor y admin, de ahí el shopScope.
func adminRestocksRoute() listRoute[entity.RestockRequest] {
	return listRoute[entity.RestockRequest]{
		path: "/admin/restocks",
		def:  listing.Restocks(),
		source: func(b ports.Backend, s Session) listing.Source[entity.RestockRequest] {
			return listing.RestockSource(b, shopScope(s))
		},
		columns: func(rc rowContext) []listview.Column[entity.RestockRequest] {
			return restockColumns(rc, true)
		},
	}
}

func restockColumns(rc rowContext, resolve bool) []listview.Column[entity.RestockRequest] {
	cols := []listview.Column[entity.RestockRequest]{
		{Key: "id", Header: "Solicitud", Sortable: true, Value: func(r entity.RestockRequest) any { return r.ID }},
		{Key: "product", Header: "Producto", Sortable: true, Value: func(r entity.RestockRequest) any { return r.ProductName }},
		{Key: "shop", Header: "Tienda", Sortable: true, Value: func(r entity.RestockRequest) any { return r.ShopName }},
		{Key: "quantity", Header: "Cantidad", Sortable: true, Value: func(r entity.RestockRequest) any { return r.Quantity }},
		{Key: "date", Header: "Fecha", Sortable: true, Render: func(r entity.RestockRequest) template.HTML { return dateCell(r.CreatedAt) }},
		{Key: "note", Header: "Nota", Value: func(r entity.RestockRequest) any { return r.Note }},
		{Key: "status", Header: "Estado", Render: func(r entity.RestockRequest) template.HTML { return badge(r.Status) }},
	}
	if !resolve {
		return cols
	}
	return append(cols, listview.Column[entity.RestockRequest]{
		Key: "actions", Header: "Acciones", Render: func(r entity.RestockRequest) template.HTML {
			if r.Status != entity.RestockPending {
				return ""
			}
			action := rc.Action(r.ID, "status")
			return joinHTML(
				postButton(action, "Aprobar", "", hiddenField{Name: "status", Value: entity.RestockApproved}),
				postButton(action, "Rechazar", "", hiddenField{Name: "status", Value: entity.RestockRejected}),
			)
		},
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Consola admin: productos y vendedores
// ──────────────────────────────────────────────────────────────────────────────

func adminProductsRoute() listRoute[entity.Product] {
	def := listing.Products()
	def.RangeFilters = append(def.RangeFilters, listing.RangeFilter{Name: "stock", Label: "Stock"})
	return listRoute[entity.Product]{
		path: "/admin/products",
		def:  def,
		source: func(b ports.Backend, _ Session) listing.Source[entity.Product] {
			return listing.ProductSource(b)
		},
		columns: func(rc rowContext) []listview.Column[entity.Product] {
			editing := func(p entity.Product) bool { return rc.Editing == p.ID }
			return []listview.Column[entity.Product]{
				{Key: "id", Header: "ID", Sortable: true, Value: func(p entity.Product) any { return p.ID }},
				{Key: "name", Header: "Nombre", Sortable: true, Render: func(p entity.Product) template.HTML {
					if editing(p) {
						return input(p.ID, "name", p.Name, "text", "")
					}
					return text(p.Name)
				}},
				{Key: "category", Header: "Categoría", Value: func(p entity.Product) any { return p.Category }},
				{Key: "price", Header: "Precio", Sortable: true, Render: func(p entity.Product) template.HTML {
					if editing(p) {
						return input(p.ID, "price", p.Price.String(), "number", "0.01")
					}
					return text(numeric.Money(p.Price))
				}},
				{Key: "stock", Header: "Stock", Sortable: true, Render: func(p entity.Product) template.HTML {
					if editing(p) {
						return input(p.ID, "stock", strconv.Itoa(p.Stock), "number", "1")
					}
					return text(strconv.Itoa(p.Stock))
				}},
				{Key: "rating", Header: "Rating", Sortable: true, Value: func(p entity.Product) any { return p.Rating }},
				{Key: "actions", Header: "", Render: func(p entity.Product) template.HTML {
					if editing(p) {
						return editActions(rc, p.ID)
					}
					return joinHTML(
						editActions(rc, p.ID),
						postButton(rc.Action(p.ID, "delete"), "Eliminar", "¿Eliminar "+p.Name+"?"),
					)
				}},
			}
		},
		form: func(rc rowContext) template.HTML {
			return frag("product-form", rc)
		},
	}
}

func sellersRoute() listRoute[entity.Seller] {
	return listRoute[entity.Seller]{
		path: "/admin/sellers",
		def:  listing.Sellers(),
		source: func(b ports.Backend, _ Session) listing.Source[entity.Seller] {
			return listing.SellerSource(b)
		},
		columns: func(rc rowContext) []listview.Column[entity.Seller] {
			return []listview.Column[entity.Seller]{
				{Key: "name", Header: "Nombre", Sortable: true, Value: func(s entity.Seller) any { return s.Name }},
				{Key: "email", Header: "Email", Sortable: true, Value: func(s entity.Seller) any { return s.Email }},
				{Key: "phone", Header: "Teléfono", Value: func(s entity.Seller) any { return s.Phone }},
				{Key: "shop", Header: "Tienda", Sortable: true, Value: func(s entity.Seller) any { return s.ShopName }},
				{Key: "status", Header: "Estado", Render: func(s entity.Seller) template.HTML { return badge(s.Status) }},
				{Key: "actions", Header: "", Render: func(s entity.Seller) template.HTML {
					return postButton(rc.Action(s.ID, "delete"), "Eliminar", "¿Eliminar la cuenta de "+s.Name+"?")
				}},
			}
		},
		form: func(rc rowContext) template.HTML {
			return frag("seller-form", rc)
		},
	}
}
