// Package receipt genera el comprobante PDF de un pedido del cliente.
package receipt

import (
	"context"
	"fmt"

	"github.com/jhoicas/millet-kiosk/internal/application/ports"
	"github.com/jhoicas/millet-kiosk/internal/domain"
	"github.com/jhoicas/millet-kiosk/internal/domain/entity"
)

// UseCase busca el pedido en el historial del cliente y lo entrega al renderer.
// Solo se emite comprobante de pedidos que el backend lista como propios.
type UseCase struct {
	backend  ports.Backend
	renderer ports.DocumentRenderer
}

// NewUseCase construye el caso de uso inyectando sus dependencias.
func NewUseCase(backend ports.Backend, renderer ports.DocumentRenderer) *UseCase {
	return &UseCase{backend: backend, renderer: renderer}
}

// Download devuelve los bytes del PDF y el nombre de archivo.
//
// Retorna:
//   - domain.ErrNotFound      si el pedido no está en el historial del cliente.
//   - domain.ErrInvalidInput  si el pedido fue rechazado.
func (uc *UseCase) Download(ctx context.Context, orderID string) (pdfBytes []byte, filename string, err error) {
	orders, err := uc.backend.ListMyOrders(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: historial: %w", err)
	}
	for _, o := range orders {
		if o.ID != orderID {
			continue
		}
		if o.Status == entity.OrderRejected {
			return nil, "", domain.Invalid("el pedido fue rechazado y no tiene comprobante")
		}
		out, err := uc.renderer.OrderReceipt(ctx, o)
		if err != nil {
			return nil, "", fmt.Errorf("receipt: generar: %w", err)
		}
		return out, "pedido_" + o.ID + ".pdf", nil
	}
	return nil, "", domain.ErrNotFound
}
