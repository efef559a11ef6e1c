package cart

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/millet-kiosk/internal/application/dto"
	"github.com/jhoicas/millet-kiosk/internal/application/ports"
	"github.com/jhoicas/millet-kiosk/internal/domain"
	"github.com/jhoicas/millet-kiosk/internal/domain/entity"
)

// PaymentCashOnDelivery único medio de pago del cliente.
const PaymentCashOnDelivery = "cod"

// CheckoutUseCase convierte el carrito en un pedido del backend.
type CheckoutUseCase struct {
	backend ports.Backend
}

// NewCheckoutUseCase construye el caso de uso con el backend de la sesión.
func NewCheckoutUseCase(backend ports.Backend) *CheckoutUseCase {
	return &CheckoutUseCase{backend: backend}
}

// PlaceOrder envía el pedido. Carrito vacío → domain.ErrEmptyCart; dirección o
// teléfono vacíos → domain.ErrInvalidInput. El carrito no se modifica: quien
// llama lo vacía solo si el pedido se creó.
func (uc *CheckoutUseCase) PlaceOrder(ctx context.Context, c Cart, form dto.CheckoutForm) (*entity.Order, error) {
	if c.Empty() {
		return nil, domain.ErrEmptyCart
	}
	address := strings.TrimSpace(form.Address)
	phone := strings.TrimSpace(form.Phone)
	if address == "" || phone == "" {
		return nil, domain.Invalid("dirección y teléfono son obligatorios")
	}

	req := dto.PlaceOrderRequest{
		Address:       address,
		Phone:         phone,
		PaymentMethod: PaymentCashOnDelivery,
		Items:         make([]dto.OrderLineInput, 0, len(c.Lines)),
	}
	for _, l := range c.Lines {
		req.Items = append(req.Items, dto.OrderLineInput{ProductID: l.ProductID, Quantity: l.Quantity})
	}

	order, err := uc.backend.PlaceOrder(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("checkout: %w", err)
	}
	if order.Total.IsZero() {
		order.Total = c.Total()
	}
	return order, nil
}
