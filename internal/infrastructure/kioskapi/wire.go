package kioskapi

import (
	"github.com/jhoicas/millet-kiosk/internal/domain/entity"
	"github.com/jhoicas/millet-kiosk/pkg/numeric"
)

// Formas JSON del backend. Todos los campos numéricos pasan por
// numeric.Number; al convertir a entidad ya son floats/decimales planos.

type wireProduct struct {
	ProdID      string         `json:"prodId"`
	MongoID     string         `json:"_id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Price       numeric.Number `json:"price"`
	Stock       numeric.Number `json:"stock"`
	Rating      numeric.Number `json:"rating"`
	Image       string         `json:"image"`
	ShopID      string         `json:"shopId"`
}

func (w wireProduct) toEntity() entity.Product {
	return entity.Product{
		ID:          firstNonEmpty(w.ProdID, w.MongoID),
		Name:        w.Name,
		Description: w.Description,
		Category:    w.Category,
		Price:       w.Price.Decimal(),
		Stock:       w.Stock.Int(),
		Rating:      w.Rating.Float(),
		ImageURL:    w.Image,
		ShopID:      w.ShopID,
	}
}

type wireOrderItem struct {
	ProdID   string         `json:"prodId"`
	Name     string         `json:"name"`
	Quantity numeric.Number `json:"quantity"`
	Price    numeric.Number `json:"price"`
}

type wireOrder struct {
	OrderID       string          `json:"orderId"`
	MongoID       string          `json:"_id"`
	CustomerName  string          `json:"customerName"`
	CustomerEmail string          `json:"customerEmail"`
	ShopID        string          `json:"shopId"`
	Status        string          `json:"status"`
	TotalAmount   numeric.Number  `json:"totalAmount"`
	Total         numeric.Number  `json:"total"`
	Items         []wireOrderItem `json:"items"`
	Address       string          `json:"address"`
	PaymentMethod string          `json:"paymentMethod"`
	CreatedAt     wireTime        `json:"createdAt"`
}

func (w wireOrder) toEntity() entity.Order {
	total := w.TotalAmount.Decimal()
	if total.IsZero() {
		total = w.Total.Decimal()
	}
	items := make([]entity.OrderItem, 0, len(w.Items))
	for _, it := range w.Items {
		items = append(items, entity.OrderItem{
			ProductID: it.ProdID,
			Name:      it.Name,
			Quantity:  it.Quantity.Int(),
			Price:     it.Price.Decimal(),
		})
	}
	return entity.Order{
		ID:            firstNonEmpty(w.OrderID, w.MongoID),
		CustomerName:  w.CustomerName,
		CustomerEmail: w.CustomerEmail,
		ShopID:        w.ShopID,
		Status:        w.Status,
		Total:         total,
		Items:         items,
		Address:       w.Address,
		PaymentMethod: w.PaymentMethod,
		CreatedAt:     w.CreatedAt.Time,
	}
}

type wireInventory struct {
	ProdID       string         `json:"prodId"`
	Name         string         `json:"name"`
	Category     string         `json:"category"`
	Stock        numeric.Number `json:"stock"`
	Price        numeric.Number `json:"price"`
	ReorderLevel numeric.Number `json:"reorderLevel"`
	ShopID       string         `json:"shopId"`
}

func (w wireInventory) toEntity() entity.InventoryLine {
	return entity.InventoryLine{
		ProductID:    w.ProdID,
		Name:         w.Name,
		Category:     w.Category,
		Stock:        w.Stock.Int(),
		Price:        w.Price.Decimal(),
		ReorderLevel: w.ReorderLevel.Int(),
		ShopID:       w.ShopID,
	}
}

type wireRestock struct {
	MongoID     string         `json:"_id"`
	RequestID   string         `json:"requestId"`
	ProdID      string         `json:"prodId"`
	ProductName string         `json:"productName"`
	ShopID      string         `json:"shopId"`
	ShopName    string         `json:"shopName"`
	Quantity    numeric.Number `json:"quantity"`
	Status      string         `json:"status"`
	Note        string         `json:"note"`
	CreatedAt   wireTime       `json:"createdAt"`
}

func (w wireRestock) toEntity() entity.RestockRequest {
	return entity.RestockRequest{
		ID:          firstNonEmpty(w.RequestID, w.MongoID),
		ProductID:   w.ProdID,
		ProductName: w.ProductName,
		ShopID:      w.ShopID,
		ShopName:    w.ShopName,
		Quantity:    w.Quantity.Int(),
		Status:      w.Status,
		Note:        w.Note,
		CreatedAt:   w.CreatedAt.Time,
	}
}

type wireSeller struct {
	MongoID  string `json:"_id"`
	SellerID string `json:"sellerId"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	ShopID   string `json:"shopId"`
	ShopName string `json:"shopName"`
	Status   string `json:"status"`
}

func (w wireSeller) toEntity() entity.Seller {
	status := w.Status
	if status == "" {
		status = entity.SellerActive
	}
	return entity.Seller{
		ID:       firstNonEmpty(w.SellerID, w.MongoID),
		Name:     w.Name,
		Email:    w.Email,
		Phone:    w.Phone,
		ShopID:   w.ShopID,
		ShopName: w.ShopName,
		Status:   status,
	}
}

func mapSlice[W any, E any](in []W, fn func(W) E) []E {
	out := make([]E, 0, len(in))
	for _, w := range in {
		out = append(out, fn(w))
	}
	return out
}
