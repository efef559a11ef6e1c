package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de pedido tal como los reporta el backend.
const (
	OrderPending   = "pending"
	OrderAccepted  = "accepted"
	OrderRejected  = "rejected"
	OrderDelivered = "delivered"
)

// OrderStatuses en el orden en que se muestran los filtros.
var OrderStatuses = []string{OrderPending, OrderAccepted, OrderRejected, OrderDelivered}

// Order pedido de un cliente a una tienda.
type Order struct {
	ID            string // orderId
	CustomerName  string
	CustomerEmail string
	ShopID        string
	Status        string
	Total         decimal.Decimal
	Items         []OrderItem
	Address       string
	PaymentMethod string
	CreatedAt     time.Time
}

// OrderItem línea de un pedido.
type OrderItem struct {
	ProductID string
	Name      string
	Quantity  int
	Price     decimal.Decimal
}

// Subtotal precio × cantidad de la línea.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ItemCount unidades totales del pedido.
func (o Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}
