package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/millet-kiosk/internal/domain/entity"
	"github.com/jhoicas/millet-kiosk/pkg/numeric"
)

//go:embed templates/*
var templateFS embed.FS

// páginas que se componen con templates/layout.gohtml.
var pages = []string{"list", "login", "cart", "checkout", "dashboard", "message"}

// views plantillas parseadas una vez al arrancar; una por página.
type views struct {
	pages map[string]*template.Template
}

func newViews() (*views, error) {
	v := &views{pages: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		t, err := template.New("layout.gohtml").Funcs(viewFuncs).ParseFS(templateFS,
			"templates/layout.gohtml", "templates/"+name+".gohtml")
		if err != nil {
			return nil, fmt.Errorf("plantilla %s: %w", name, err)
		}
		v.pages[name] = t
	}
	return v, nil
}

// render ejecuta la página en un buffer antes de escribir, para que un error
// de plantilla no deje una respuesta a medias.
func (v *views) render(c *fiber.Ctx, status int, name string, data any) error {
	t, ok := v.pages[name]
	if !ok {
		return fmt.Errorf("plantilla desconocida: %s", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).Send(buf.Bytes())
}

var viewFuncs = template.FuncMap{
	"money":       func(d decimal.Decimal) string { return numeric.Money(d) },
	"integer":     numeric.Integer,
	"statusLabel": statusLabel,
}

// Layout datos comunes a todas las páginas.
type Layout struct {
	Title     string
	Session   Session
	CartCount int
	Nav       []NavLink
	Notice    string
	Error     string
}

// NavLink entrada del menú según el rol.
type NavLink struct {
	Label  string
	Href   string
	Active bool
}

func navFor(s Session, current string) []NavLink {
	var links []NavLink
	switch s.Role {
	case entity.RoleSeller:
		links = []NavLink{
			{Label: "Pedidos", Href: "/seller/orders"},
			{Label: "Inventario", Href: "/seller/inventory"},
			{Label: "Reposiciones", Href: "/seller/restocks"},
		}
	case entity.RoleAdmin:
		links = []NavLink{
			{Label: "Dashboard", Href: "/admin/dashboard"},
			{Label: "Productos", Href: "/admin/products"},
			{Label: "Vendedores", Href: "/admin/sellers"},
			{Label: "Reposiciones", Href: "/admin/restocks"},
			{Label: "Pedidos", Href: "/admin/orders"},
		}
	default:
		links = []NavLink{{Label: "Catálogo", Href: "/shop"}, {Label: "Carrito", Href: "/cart"}}
		if s.Authenticated() {
			links = append(links, NavLink{Label: "Mis pedidos", Href: "/my/orders"})
		}
	}
	for i := range links {
		links[i].Active = links[i].Href == current
	}
	return links
}

func statusLabel(status string) string {
	switch status {
	case entity.OrderPending:
		return "Pendiente"
	case entity.OrderAccepted:
		return "Aceptado"
	case entity.OrderRejected:
		return "Rechazado"
	case entity.OrderDelivered:
		return "Entregado"
	case entity.RestockApproved:
		return "Aprobada"
	case entity.SellerActive:
		return "Activo"
	case entity.SellerInactive:
		return "Inactivo"
	case "low":
		return "Bajo"
	case "ok":
		return "Normal"
	case "agotado":
		return "Agotado"
	default:
		return status
	}
}
