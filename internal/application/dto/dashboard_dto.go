package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO KPIs del panel de analítica admin.
type DashboardSummaryDTO struct {
	// Ingresos de pedidos aceptados o entregados
	Revenue decimal.Decimal `json:"revenue"`
	// Ingresos del mes en curso
	MonthlyRevenue decimal.Decimal `json:"monthly_revenue"`
	// Valor promedio por pedido facturable
	AverageOrder decimal.Decimal `json:"average_order"`

	TotalOrders    int            `json:"total_orders"`
	OrdersByStatus map[string]int `json:"orders_by_status"`

	TotalProducts int `json:"total_products"`
	LowStock      int `json:"low_stock"`

	ActiveSellers   int `json:"active_sellers"`
	PendingRestocks int `json:"pending_restocks"`

	// Top productos por unidades vendidas (mayor a menor)
	TopProducts []TopProductDTO `json:"top_products"`

	DateLabel string `json:"date_label"` // ej: "Octubre 2026"
}

// TopProductDTO resumen de un producto para el widget del dashboard.
type TopProductDTO struct {
	ProductID    string          `json:"product_id"`
	Name         string          `json:"name"`
	QuantitySold int             `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}
