package entity

import "github.com/shopspring/decimal"

// InventoryLine existencias de un producto en la tienda de un vendedor.
type InventoryLine struct {
	ProductID    string
	Name         string
	Category     string
	Stock        int
	Price        decimal.Decimal
	ReorderLevel int // por debajo de este nivel se sugiere pedir reposición
	ShopID       string
}

// Low indica si el stock está en o por debajo del nivel de reposición.
func (l InventoryLine) Low() bool { return l.Stock <= l.ReorderLevel }
