package http

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/millet-kiosk/internal/application/cart"
	"github.com/jhoicas/millet-kiosk/internal/application/dto"
	"github.com/jhoicas/millet-kiosk/internal/application/listing"
	"github.com/jhoicas/millet-kiosk/internal/application/receipt"
	"github.com/jhoicas/millet-kiosk/internal/domain"
	"github.com/jhoicas/millet-kiosk/pkg/numeric"
)

// StorefrontHandler carrito, checkout y comprobantes del cliente. El catálogo
// y el historial son vistas de listado (catalogRoute, myOrdersRoute).
type StorefrontHandler struct {
	s *Server
}

// NewStorefrontHandler construye el handler.
func NewStorefrontHandler(s *Server) *StorefrontHandler {
	return &StorefrontHandler{s: s}
}

type cartPage struct {
	Layout
	Lines []cart.Line
	Total decimal.Decimal
}

type checkoutPage struct {
	Layout
	Lines   []cart.Line
	Total   decimal.Decimal
	Address string
	Phone   string
}

// Cart GET /cart.
func (h *StorefrontHandler) Cart(c *fiber.Ctx) error {
	return h.renderCart(c, fiber.StatusOK, "")
}

// AddToCart POST /cart/add: prodId, qty y el estado del catálogo en back.
// El precio y el stock se toman del catálogo actual, no del formulario.
func (h *StorefrontHandler) AddToCart(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.FormValue("prodId"))
	qty, err := strconv.Atoi(strings.TrimSpace(c.FormValue("qty", "1")))
	if err != nil {
		qty = 0
	}

	products, err := h.s.backend(c).ListProducts(requestContext(c))
	if err != nil {
		return h.s.failPage(c, "Catálogo", err)
	}
	product, ok := listing.Products().Find(products, id)
	if !ok {
		return h.s.failPage(c, "Catálogo", domain.ErrNotFound)
	}

	ct := h.s.readCart(c)
	if err := ct.Add(product, qty); err != nil {
		return h.s.failPage(c, "Catálogo", err)
	}
	if err := h.s.writeCart(c, ct); err != nil {
		return err
	}
	return c.Redirect(withQuery("/shop", c.FormValue("back")), fiber.StatusSeeOther)
}

// UpdateCart POST /cart/:line: fija la cantidad; 0 elimina la línea.
func (h *StorefrontHandler) UpdateCart(c *fiber.Ctx) error {
	qty, err := strconv.Atoi(strings.TrimSpace(c.FormValue("qty")))
	if err != nil || qty < 0 {
		return h.renderCart(c, fiber.StatusUnprocessableEntity, "la cantidad debe ser un entero no negativo")
	}
	ct := h.s.readCart(c)
	if err := ct.Update(c.Params("line"), qty); err != nil {
		return h.renderCart(c, statusFor(err), domain.UserMessage(err))
	}
	if err := h.s.writeCart(c, ct); err != nil {
		return err
	}
	return c.Redirect("/cart", fiber.StatusSeeOther)
}

// RemoveFromCart POST /cart/:line/delete.
func (h *StorefrontHandler) RemoveFromCart(c *fiber.Ctx) error {
	ct := h.s.readCart(c)
	if err := ct.Remove(c.Params("line")); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	if err := h.s.writeCart(c, ct); err != nil {
		return err
	}
	return c.Redirect("/cart", fiber.StatusSeeOther)
}

// CheckoutPage GET /checkout.
func (h *StorefrontHandler) CheckoutPage(c *fiber.Ctx) error {
	ct := h.s.readCart(c)
	if ct.Empty() {
		return c.Redirect("/cart", fiber.StatusSeeOther)
	}
	return h.renderCheckout(c, fiber.StatusOK, ct, dto.CheckoutForm{}, "")
}

// Checkout POST /checkout: crea el pedido (pago contra entrega) y vacía el
// carrito solo si el backend lo confirmó.
func (h *StorefrontHandler) Checkout(c *fiber.Ctx) error {
	var form dto.CheckoutForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "formulario inválido")
	}
	ct := h.s.readCart(c)
	order, err := cart.NewCheckoutUseCase(h.s.backend(c)).PlaceOrder(requestContext(c), ct, form)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return EvictSession(c, h.s.session)
		}
		if errors.Is(err, domain.ErrEmptyCart) {
			return h.renderCart(c, fiber.StatusUnprocessableEntity, domain.UserMessage(err))
		}
		status := statusFor(err)
		if status >= fiber.StatusInternalServerError {
			h.s.logFailure(c, status, err)
		}
		return h.renderCheckout(c, status, ct, form, domain.UserMessage(err))
	}

	ct.Clear()
	if err := h.s.writeCart(c, ct); err != nil {
		return err
	}
	h.s.log.Info().Str("order_id", order.ID).Str("user_id", CurrentSession(c).UserID).Msg("pedido creado")

	layout := h.s.layout(c, "Pedido creado", "")
	layout.CartCount = 0
	layout.Notice = "Tu pedido fue recibido."
	links := []NavLink{{Label: "Ver mis pedidos", Href: "/my/orders"}}
	// El backend puede confirmar sin devolver el pedido; sin id no hay comprobante.
	if order.ID != "" {
		layout.Notice = "Tu pedido " + order.ID + " fue recibido."
		links = append(links, NavLink{Label: "Descargar comprobante", Href: receiptHref(order.ID)})
	}
	links = append(links, NavLink{Label: "Seguir comprando", Href: "/shop"})
	return h.s.views.render(c, fiber.StatusCreated, "message", messagePage{
		Layout:  layout,
		Heading: "¡Gracias por tu compra!",
		Body:    "Total a pagar contra entrega: " + numeric.Money(order.Total),
		Links:   links,
	})
}

// receiptHref enlace al comprobante PDF del pedido id.
func receiptHref(id string) string {
	return "/my/orders/" + url.PathEscape(id) + "/receipt.pdf"
}

// Receipt GET /my/orders/:id/receipt.pdf.
func (h *StorefrontHandler) Receipt(c *fiber.Ctx) error {
	out, filename, err := receipt.NewUseCase(h.s.backend(c), h.s.docs).Download(requestContext(c), c.Params("id"))
	if err != nil {
		return h.s.failPage(c, "Mis pedidos", err)
	}
	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Send(out)
}

func (h *StorefrontHandler) renderCart(c *fiber.Ctx, status int, errMsg string) error {
	ct := h.s.readCart(c)
	layout := h.s.layout(c, "Carrito", "/cart")
	layout.Error = errMsg
	return h.s.views.render(c, status, "cart", cartPage{Layout: layout, Lines: ct.Lines, Total: ct.Total()})
}

func (h *StorefrontHandler) renderCheckout(c *fiber.Ctx, status int, ct cart.Cart, form dto.CheckoutForm, errMsg string) error {
	layout := h.s.layout(c, "Checkout", "/cart")
	layout.Error = errMsg
	return h.s.views.render(c, status, "checkout", checkoutPage{
		Layout:  layout,
		Lines:   ct.Lines,
		Total:   ct.Total(),
		Address: form.Address,
		Phone:   form.Phone,
	})
}
