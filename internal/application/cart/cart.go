// Package cart contiene el carrito del storefront y el caso de uso de checkout.
// El carrito vive en una cookie del navegador; el backend solo ve el pedido
// final en POST /orders.
package cart

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/millet-kiosk/internal/domain"
	"github.com/jhoicas/millet-kiosk/internal/domain/entity"
)

// MaxLines límite de líneas distintas; mantiene la cookie por debajo de 4 KB.
const MaxLines = 20

// Line línea del carrito. Price es el precio de catálogo al momento de agregar.
type Line struct {
	ID        string          `json:"id"`
	ProductID string          `json:"prodId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"qty"`
	ShopID    string          `json:"shopId,omitempty"`
}

// Subtotal precio × cantidad.
func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart carrito del cliente.
type Cart struct {
	Lines []Line `json:"lines"`
}

// Add agrega quantity unidades de p. Si el producto ya está, suma a la línea
// existente. La cantidad resultante no supera el stock publicado.
func (c *Cart) Add(p entity.Product, quantity int) error {
	if quantity <= 0 {
		return domain.Invalid("la cantidad debe ser mayor que cero")
	}
	if !p.InStock() {
		return domain.Invalid(p.Name + " no tiene stock")
	}
	for i := range c.Lines {
		if c.Lines[i].ProductID == p.ID {
			c.Lines[i].Quantity = min(c.Lines[i].Quantity+quantity, p.Stock)
			c.Lines[i].Price = p.Price
			return nil
		}
	}
	if len(c.Lines) >= MaxLines {
		return domain.Invalid(fmt.Sprintf("el carrito admite hasta %d productos", MaxLines))
	}
	c.Lines = append(c.Lines, Line{
		ID:        uuid.NewString(),
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  min(quantity, p.Stock),
		ShopID:    p.ShopID,
	})
	return nil
}

// Update fija la cantidad de la línea id; cero o menos la elimina.
func (c *Cart) Update(id string, quantity int) error {
	for i := range c.Lines {
		if c.Lines[i].ID == id {
			if quantity <= 0 {
				c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
				return nil
			}
			c.Lines[i].Quantity = quantity
			return nil
		}
	}
	return domain.ErrNotFound
}

// Remove elimina la línea id.
func (c *Cart) Remove(id string) error { return c.Update(id, 0) }

// Clear vacía el carrito.
func (c *Cart) Clear() { c.Lines = nil }

// Empty indica que no hay líneas.
func (c Cart) Empty() bool { return len(c.Lines) == 0 }

// Count unidades totales.
func (c Cart) Count() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// Total suma de subtotales.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Encode serializa el carrito para la cookie (JSON en base64 URL-safe).
func (c Cart) Encode() (string, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("cart: serializar: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// Decode lee el carrito de la cookie. Una cookie vacía o corrupta da un
// carrito vacío: el cliente no puede hacer nada para repararla.
func Decode(value string) Cart {
	if value == "" {
		return Cart{}
	}
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return Cart{}
	}
	var c Cart
	if err := json.Unmarshal(raw, &c); err != nil {
		return Cart{}
	}
	valid := c.Lines[:0]
	for _, l := range c.Lines {
		if l.ID != "" && l.ProductID != "" && l.Quantity > 0 {
			valid = append(valid, l)
		}
	}
	c.Lines = valid
	return c
}
