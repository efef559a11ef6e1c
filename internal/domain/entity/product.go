package entity

import "github.com/shopspring/decimal"

// Product representa un producto del catálogo (harinas, snacks y mezclas de mijo).
// Price llega del backend como número o envoltorio decimal; aquí ya está normalizado.
type Product struct {
	ID          string // prodId
	Name        string
	Description string
	Category    string
	Price       decimal.Decimal
	Stock       int
	Rating      float64 // 0–5
	ImageURL    string
	ShopID      string
}

// InStock indica si hay unidades disponibles para el carrito.
func (p Product) InStock() bool { return p.Stock > 0 }
