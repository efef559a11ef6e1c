package ports

import (
	"context"

	"github.com/jhoicas/millet-kiosk/internal/application/dto"
	"github.com/jhoicas/millet-kiosk/internal/domain/entity"
)

// DocumentRenderer puerto de salida para documentos descargables. Lo
// implementa el generador PDF de infraestructura.
type DocumentRenderer interface {
	// ListDocument tabla exportada de una vista de listado (todas las filas filtradas).
	ListDocument(ctx context.Context, doc dto.ListDocument) ([]byte, error)
	// OrderReceipt comprobante de un pedido del cliente.
	OrderReceipt(ctx context.Context, order entity.Order) ([]byte, error)
}
