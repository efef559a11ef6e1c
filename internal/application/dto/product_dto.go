package dto

import "github.com/shopspring/decimal"

// CreateProductRequest entrada para crear un producto desde la consola admin.
type CreateProductRequest struct {
	Name        string          `json:"name" form:"name"`
	Description string          `json:"description" form:"description"`
	Category    string          `json:"category" form:"category"`
	Price       decimal.Decimal `json:"price" form:"price"`
	Stock       int             `json:"stock" form:"stock"`
	ImageURL    string          `json:"image" form:"image"`
}

// Validate comprueba los campos mínimos.
func (r CreateProductRequest) Validate() string {
	if r.Name == "" || r.Category == "" {
		return "nombre y categoría son requeridos"
	}
	if r.Price.IsNegative() || r.Stock < 0 {
		return "precio y stock no pueden ser negativos"
	}
	return ""
}
