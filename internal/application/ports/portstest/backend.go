// Package portstest ofrece un Backend en memoria para tests de las capas de
// aplicación e interfaz.
package portstest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/millet-kiosk/internal/application/dto"
	"github.com/jhoicas/millet-kiosk/internal/application/ports"
	"github.com/jhoicas/millet-kiosk/internal/domain"
	"github.com/jhoicas/millet-kiosk/internal/domain/entity"
	"github.com/jhoicas/millet-kiosk/pkg/numeric"
)

var (
	_ ports.Backend = (*Backend)(nil)
	_ ports.Gateway = (*Backend)(nil)
)

// Backend implementación en memoria. Fail inyecta un error por nombre de
// método ("ListProducts", "UpdateInventory"...). Calls registra cada llamada.
type Backend struct {
	mu sync.Mutex

	Products  []entity.Product
	Orders    []entity.Order
	MyOrders  []entity.Order
	Inventory []entity.InventoryLine
	Restocks  []entity.RestockRequest
	Sellers   []entity.Seller

	// Tokens email → token para Login.
	Tokens map[string]string
	Fail   map[string]error

	Calls   []string
	Patches map[string]ports.Patch // "Método:id" → último patch
	Placed  []dto.PlaceOrderRequest
	seq     int
}

// New backend vacío.
func New() *Backend {
	return &Backend{Fail: map[string]error{}, Tokens: map[string]string{}, Patches: map[string]ports.Patch{}}
}

// Count número de llamadas a method.
func (b *Backend) Count(method string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.Calls {
		if c == method {
			n++
		}
	}
	return n
}

// SetFail fija o limpia (err nil) el error de method.
func (b *Backend) SetFail(method string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err == nil {
		delete(b.Fail, method)
		return
	}
	b.Fail[method] = err
}

func (b *Backend) call(method string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Calls = append(b.Calls, method)
	return b.Fail[method]
}

func (b *Backend) nextID(prefix string) string {
	b.seq++
	return fmt.Sprintf("%s-%d", prefix, b.seq)
}

// ── Gateway ───────────────────────────────────────────────────────────────────

func (b *Backend) Login(_ context.Context, in dto.LoginRequest) (string, error) {
	if err := b.call("Login"); err != nil {
		return "", err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	tok, ok := b.Tokens[in.Email]
	if !ok {
		return "", domain.ErrUnauthorized
	}
	return tok, nil
}

func (b *Backend) ForSession(string) ports.Backend { return b }

// ── Products ──────────────────────────────────────────────────────────────────

func (b *Backend) ListProducts(context.Context) ([]entity.Product, error) {
	if err := b.call("ListProducts"); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]entity.Product(nil), b.Products...), nil
}

func (b *Backend) CreateProduct(_ context.Context, in dto.CreateProductRequest) error {
	if err := b.call("CreateProduct"); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Products = append(b.Products, entity.Product{
		ID: b.nextID("P"), Name: in.Name, Description: in.Description,
		Category: in.Category, Price: in.Price, Stock: in.Stock, ImageURL: in.ImageURL,
	})
	return nil
}

func (b *Backend) UpdateProduct(_ context.Context, id string, patch ports.Patch) error {
	if err := b.call("UpdateProduct"); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Patches["UpdateProduct:"+id] = patch
	for i := range b.Products {
		if b.Products[i].ID == id {
			if v, ok := patch["price"]; ok {
				b.Products[i].Price = numeric.NormalizeDecimal(v)
			}
			if v, ok := patch["stock"]; ok {
				b.Products[i].Stock = int(numeric.NormalizeDecimal(v).IntPart())
			}
			if v, ok := patch["name"].(string); ok {
				b.Products[i].Name = v
			}
			return nil
		}
	}
	return domain.ErrNotFound
}

func (b *Backend) DeleteProduct(_ context.Context, id string) error {
	if err := b.call("DeleteProduct"); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.Products {
		if b.Products[i].ID == id {
			b.Products = append(b.Products[:i], b.Products[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// ── Orders ────────────────────────────────────────────────────────────────────

func (b *Backend) ListShopOrders(_ context.Context, shopID string) ([]entity.Order, error) {
	if err := b.call("ListShopOrders"); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]entity.Order, 0, len(b.Orders))
	for _, o := range b.Orders {
		if shopID == "" || o.ShopID == shopID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (b *Backend) ListMyOrders(context.Context) ([]entity.Order, error) {
	if err := b.call("ListMyOrders"); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]entity.Order(nil), b.MyOrders...), nil
}

func (b *Backend) PlaceOrder(_ context.Context, in dto.PlaceOrderRequest) (*entity.Order, error) {
	if err := b.call("PlaceOrder"); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Placed = append(b.Placed, in)
	o := entity.Order{
		ID: b.nextID("O"), Status: entity.OrderPending, Address: in.Address,
		PaymentMethod: in.PaymentMethod, CreatedAt: time.Now(),
	}
	for _, it := range in.Items {
		o.Items = append(o.Items, entity.OrderItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	b.MyOrders = append(b.MyOrders, o)
	return &o, nil
}

func (b *Backend) UpdateOrder(_ context.Context, id string, patch ports.Patch) error {
	if err := b.call("UpdateOrder"); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Patches["UpdateOrder:"+id] = patch
	for i := range b.Orders {
		if b.Orders[i].ID == id {
			if s, ok := patch["status"].(string); ok {
				b.Orders[i].Status = s
			}
			return nil
		}
	}
	return domain.ErrNotFound
}

// ── Inventory ─────────────────────────────────────────────────────────────────

func (b *Backend) ListInventory(_ context.Context, shopID string) ([]entity.InventoryLine, error) {
	if err := b.call("ListInventory"); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]entity.InventoryLine, 0, len(b.Inventory))
	for _, l := range b.Inventory {
		if shopID == "" || l.ShopID == shopID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (b *Backend) UpdateInventory(_ context.Context, productID string, patch ports.Patch) error {
	if err := b.call("UpdateInventory"); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Patches["UpdateInventory:"+productID] = patch
	for i := range b.Inventory {
		if b.Inventory[i].ProductID == productID {
			if v, ok := patch["stock"]; ok {
				b.Inventory[i].Stock = int(numeric.NormalizeDecimal(v).IntPart())
			}
			if v, ok := patch["price"]; ok {
				b.Inventory[i].Price = numeric.NormalizeDecimal(v)
			}
			return nil
		}
	}
	return domain.ErrNotFound
}

// ── Restocks ──────────────────────────────────────────────────────────────────

func (b *Backend) ListRestocks(_ context.Context, shopID string) ([]entity.RestockRequest, error) {
	if err := b.call("ListRestocks"); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]entity.RestockRequest, 0, len(b.Restocks))
	for _, r := range b.Restocks {
		if shopID == "" || r.ShopID == shopID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (b *Backend) CreateRestock(_ context.Context, in dto.CreateRestockRequest) error {
	if err := b.call("CreateRestock"); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Restocks = append(b.Restocks, entity.RestockRequest{
		ID: b.nextID("R"), ProductID: in.ProductID, Quantity: in.Quantity,
		Note: in.Note, Status: entity.RestockPending, CreatedAt: time.Now(),
	})
	return nil
}

func (b *Backend) UpdateRestock(_ context.Context, id string, patch ports.Patch) error {
	if err := b.call("UpdateRestock"); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Patches["UpdateRestock:"+id] = patch
	for i := range b.Restocks {
		if b.Restocks[i].ID == id {
			if s, ok := patch["status"].(string); ok {
				b.Restocks[i].Status = s
			}
			return nil
		}
	}
	return domain.ErrNotFound
}

// ── Sellers ───────────────────────────────────────────────────────────────────

func (b *Backend) ListSellers(context.Context) ([]entity.Seller, error) {
	if err := b.call("ListSellers"); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]entity.Seller(nil), b.Sellers...), nil
}

func (b *Backend) CreateSeller(_ context.Context, in dto.CreateSellerRequest) error {
	if err := b.call("CreateSeller"); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Sellers = append(b.Sellers, entity.Seller{
		ID: b.nextID("S"), Name: in.Name, Email: in.Email, Phone: in.Phone,
		ShopName: in.ShopName, Status: entity.SellerActive,
	})
	return nil
}

func (b *Backend) DeleteSeller(_ context.Context, id string) error {
	if err := b.call("DeleteSeller"); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.Sellers {
		if b.Sellers[i].ID == id {
			b.Sellers = append(b.Sellers[:i], b.Sellers[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}
