package ports

import (
	"context"

	"github.com/jhoicas/millet-kiosk/internal/application/dto"
	"github.com/jhoicas/millet-kiosk/internal/domain/entity"
)

// Patch campos a modificar en una escritura parcial; se envía tal cual como JSON.
type Patch map[string]any

// Backend puerto de salida hacia el backend REST, atado al token de una sesión.
// Lo implementa *kioskapi.Client; la capa de aplicación solo conoce este contrato.
type Backend interface {
	ListProducts(ctx context.Context) ([]entity.Product, error)
	CreateProduct(ctx context.Context, in dto.CreateProductRequest) error
	UpdateProduct(ctx context.Context, id string, patch Patch) error
	DeleteProduct(ctx context.Context, id string) error

	// ListShopOrders pedidos de una tienda (shopID vacío = todas, solo admin).
	ListShopOrders(ctx context.Context, shopID string) ([]entity.Order, error)
	ListMyOrders(ctx context.Context) ([]entity.Order, error)
	PlaceOrder(ctx context.Context, in dto.PlaceOrderRequest) (*entity.Order, error)
	UpdateOrder(ctx context.Context, id string, patch Patch) error

	ListInventory(ctx context.Context, shopID string) ([]entity.InventoryLine, error)
	UpdateInventory(ctx context.Context, productID string, patch Patch) error

	// ListRestocks solicitudes de reposición (shopID vacío = todas, solo admin).
	ListRestocks(ctx context.Context, shopID string) ([]entity.RestockRequest, error)
	CreateRestock(ctx context.Context, in dto.CreateRestockRequest) error
	UpdateRestock(ctx context.Context, id string, patch Patch) error

	ListSellers(ctx context.Context) ([]entity.Seller, error)
	CreateSeller(ctx context.Context, in dto.CreateSellerRequest) error
	DeleteSeller(ctx context.Context, id string) error
}

// Gateway punto de entrada al backend: login anónimo y clientes por sesión.
type Gateway interface {
	// Login devuelve el bearer token emitido por el backend.
	Login(ctx context.Context, in dto.LoginRequest) (string, error)
	// ForSession devuelve un Backend que autentica con token.
	ForSession(token string) Backend
}
