package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/millet-kiosk/internal/application/dto"
	"github.com/jhoicas/millet-kiosk/internal/application/listing"
	"github.com/jhoicas/millet-kiosk/internal/application/ports"
	"github.com/jhoicas/millet-kiosk/internal/domain"
	"github.com/jhoicas/millet-kiosk/internal/domain/entity"
)

// Formularios de las consolas de vendedor y admin. Cada función traduce el
// formulario en el patch (o la escritura) que recibe el controlador; los
// errores son de validación local y no llegan al backend.

// ── Patches ───────────────────────────────────────────────────────────────────

// statusPatch acepta solo los estados de allowed.
func statusPatch(allowed ...string) func(c *fiber.Ctx) (ports.Patch, error) {
	return func(c *fiber.Ctx) (ports.Patch, error) {
		status := strings.TrimSpace(c.FormValue("status"))
		for _, a := range allowed {
			if status == a {
				return ports.Patch{"status": status}, nil
			}
		}
		return nil, domain.Invalid("estado no permitido: " + status)
	}
}

// inventoryPatch edición en línea de stock y precio.
func inventoryPatch(c *fiber.Ctx) (ports.Patch, error) {
	stock, ok := listing.ParseQuantity(c.FormValue("stock"))
	if !ok {
		return nil, domain.Invalid("el stock debe ser un entero no negativo")
	}
	patch := ports.Patch{"stock": stock}
	if raw := strings.TrimSpace(c.FormValue("price")); raw != "" {
		price, err := parsePrice(raw)
		if err != nil {
			return nil, err
		}
		patch["price"] = price.InexactFloat64()
	}
	return patch, nil
}

// productPatch edición en línea del catálogo admin: nombre, precio y stock.
func productPatch(c *fiber.Ctx) (ports.Patch, error) {
	name := strings.TrimSpace(c.FormValue("name"))
	if name == "" {
		return nil, domain.Invalid("el nombre es requerido")
	}
	patch, err := inventoryPatch(c)
	if err != nil {
		return nil, err
	}
	patch["name"] = name
	return patch, nil
}

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(raw), ",", "."))
	if err != nil || price.IsNegative() {
		return decimal.Zero, domain.Invalid("el precio debe ser un número no negativo")
	}
	return price, nil
}

// ── Altas ─────────────────────────────────────────────────────────────────────

// createProduct POST /admin/products.
func createProduct(c *fiber.Ctx, b ports.Backend) (func(ctx context.Context) error, error) {
	stock, ok := listing.ParseQuantity(c.FormValue("stock"))
	if !ok {
		return nil, domain.Invalid("el stock debe ser un entero no negativo")
	}
	price, err := parsePrice(c.FormValue("price"))
	if err != nil {
		return nil, err
	}
	in := dto.CreateProductRequest{
		Name:        strings.TrimSpace(c.FormValue("name")),
		Description: strings.TrimSpace(c.FormValue("description")),
		Category:    strings.TrimSpace(c.FormValue("category")),
		Price:       price,
		Stock:       stock,
		ImageURL:    strings.TrimSpace(c.FormValue("image")),
	}
	if msg := in.Validate(); msg != "" {
		return nil, domain.Invalid(msg)
	}
	return func(ctx context.Context) error { return b.CreateProduct(ctx, in) }, nil
}

// createSeller POST /admin/sellers.
func createSeller(c *fiber.Ctx, b ports.Backend) (func(ctx context.Context) error, error) {
	var in dto.CreateSellerRequest
	if err := c.BodyParser(&in); err != nil {
		return nil, domain.Invalid("formulario inválido")
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.ShopName = strings.TrimSpace(in.ShopName)
	if in.Name == "" || in.Email == "" || in.ShopName == "" {
		return nil, domain.Invalid("nombre, email y tienda son requeridos")
	}
	if len(in.Password) < 8 {
		return nil, domain.Invalid("la contraseña debe tener al menos 8 caracteres")
	}
	return func(ctx context.Context) error { return b.CreateSeller(ctx, in) }, nil
}

// createRestock POST /seller/restocks.
func createRestock(c *fiber.Ctx, b ports.Backend) (func(ctx context.Context) error, error) {
	qty, ok := listing.ParseQuantity(c.FormValue("quantity"))
	if !ok || qty == 0 {
		return nil, domain.Invalid("la cantidad debe ser mayor que cero")
	}
	in := dto.CreateRestockRequest{
		ProductID: strings.TrimSpace(c.FormValue("prodId")),
		Quantity:  qty,
		Note:      strings.TrimSpace(c.FormValue("note")),
	}
	if in.ProductID == "" {
		return nil, domain.Invalid("el producto es requerido")
	}
	return func(ctx context.Context) error { return b.CreateRestock(ctx, in) }, nil
}

// orderTransitions estados a los que el vendedor puede mover un pedido.
var orderTransitions = []string{entity.OrderAccepted, entity.OrderRejected, entity.OrderDelivered}

// restockResolutions decisiones del admin sobre una solicitud.
var restockResolutions = []string{entity.RestockApproved, entity.RestockRejected}
