// Package analytics contiene el caso de uso del panel de analítica de la
// consola admin.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/millet-kiosk/internal/application/dto"
	"github.com/jhoicas/millet-kiosk/internal/application/ports"
	"github.com/jhoicas/millet-kiosk/internal/domain/entity"
)

const (
	dashboardTopProducts = 5 // productos en el widget del dashboard
	lowStockThreshold    = 5
)

// DashboardUseCase resume pedidos, catálogo, vendedores y reposiciones.
//
// Fuente de datos: el backend REST de la sesión admin (solo lecturas).
type DashboardUseCase struct {
	backend ports.Backend
	now     func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(backend ports.Backend) *DashboardUseCase {
	return &DashboardUseCase{backend: backend, now: time.Now}
}

// WithClock reemplaza el reloj; para tests.
func (uc *DashboardUseCase) WithClock(now func() time.Time) *DashboardUseCase {
	uc.now = now
	return uc
}

// GetSummary construye el DashboardSummaryDTO.
//
// Cuatro llamadas en paralelo:
//  1. ListShopOrders("") → ingresos, pedidos por estado, top productos
//  2. ListProducts       → total y stock bajo
//  3. ListSellers        → vendedores activos
//  4. ListRestocks("")   → reposiciones pendientes
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	now := uc.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	// ── Goroutines para paralelizar las 4 lecturas ─────────────────────────────
	type ordersResult struct {
		orders []entity.Order
		err    error
	}
	type productsResult struct {
		products []entity.Product
		err      error
	}
	type sellersResult struct {
		sellers []entity.Seller
		err     error
	}
	type restocksResult struct {
		restocks []entity.RestockRequest
		err      error
	}

	ordersCh := make(chan ordersResult, 1)
	productsCh := make(chan productsResult, 1)
	sellersCh := make(chan sellersResult, 1)
	restocksCh := make(chan restocksResult, 1)

	go func() {
		o, err := uc.backend.ListShopOrders(ctx, "")
		ordersCh <- ordersResult{o, err}
	}()
	go func() {
		p, err := uc.backend.ListProducts(ctx)
		productsCh <- productsResult{p, err}
	}()
	go func() {
		s, err := uc.backend.ListSellers(ctx)
		sellersCh <- sellersResult{s, err}
	}()
	go func() {
		r, err := uc.backend.ListRestocks(ctx, "")
		restocksCh <- restocksResult{r, err}
	}()

	orders := <-ordersCh
	products := <-productsCh
	sellers := <-sellersCh
	restocks := <-restocksCh

	if orders.err != nil {
		return nil, fmt.Errorf("dashboard: pedidos: %w", orders.err)
	}
	if products.err != nil {
		return nil, fmt.Errorf("dashboard: productos: %w", products.err)
	}
	if sellers.err != nil {
		return nil, fmt.Errorf("dashboard: vendedores: %w", sellers.err)
	}
	if restocks.err != nil {
		return nil, fmt.Errorf("dashboard: reposiciones: %w", restocks.err)
	}

	// ── Pedidos ────────────────────────────────────────────────────────────────
	out := &dto.DashboardSummaryDTO{
		Revenue:        decimal.Zero,
		MonthlyRevenue: decimal.Zero,
		AverageOrder:   decimal.Zero,
		TotalOrders:    len(orders.orders),
		OrdersByStatus: make(map[string]int, len(entity.OrderStatuses)),
		DateLabel:      monthLabel(now),
	}
	for _, s := range entity.OrderStatuses {
		out.OrdersByStatus[s] = 0
	}

	billable := 0
	for _, o := range orders.orders {
		out.OrdersByStatus[o.Status]++
		if !isBillable(o) {
			continue
		}
		billable++
		out.Revenue = out.Revenue.Add(o.Total)
		if !o.CreatedAt.Before(monthStart) {
			out.MonthlyRevenue = out.MonthlyRevenue.Add(o.Total)
		}
	}
	if billable > 0 {
		out.AverageOrder = out.Revenue.Div(decimal.NewFromInt(int64(billable))).Round(2)
	}
	out.Revenue = out.Revenue.Round(2)
	out.MonthlyRevenue = out.MonthlyRevenue.Round(2)
	out.TopProducts = topProducts(orders.orders, dashboardTopProducts)

	// ── Catálogo, vendedores, reposiciones ─────────────────────────────────────
	out.TotalProducts = len(products.products)
	for _, p := range products.products {
		if p.Stock <= lowStockThreshold {
			out.LowStock++
		}
	}
	for _, s := range sellers.sellers {
		if s.Status == entity.SellerActive {
			out.ActiveSellers++
		}
	}
	for _, r := range restocks.restocks {
		if r.Status == entity.RestockPending {
			out.PendingRestocks++
		}
	}
	return out, nil
}

// isBillable pedidos que cuentan como venta.
func isBillable(o entity.Order) bool {
	return o.Status == entity.OrderAccepted || o.Status == entity.OrderDelivered
}

// topProducts agrega las líneas de pedidos facturables por producto y devuelve
// los n con más unidades (empate: mayor ingreso, luego id).
func topProducts(orders []entity.Order, n int) []dto.TopProductDTO {
	agg := map[string]*dto.TopProductDTO{}
	for _, o := range orders {
		if !isBillable(o) {
			continue
		}
		for _, it := range o.Items {
			t, ok := agg[it.ProductID]
			if !ok {
				t = &dto.TopProductDTO{ProductID: it.ProductID, Name: it.Name, Revenue: decimal.Zero}
				agg[it.ProductID] = t
			}
			t.QuantitySold += it.Quantity
			t.Revenue = t.Revenue.Add(it.Subtotal())
		}
	}
	list := make([]dto.TopProductDTO, 0, len(agg))
	for _, t := range agg {
		list = append(list, *t)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].QuantitySold != list[j].QuantitySold {
			return list[i].QuantitySold > list[j].QuantitySold
		}
		if c := list[i].Revenue.Cmp(list[j].Revenue); c != 0 {
			return c > 0
		}
		return list[i].ProductID < list[j].ProductID
	})
	if len(list) > n {
		list = list[:n]
	}
	return list
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Octubre 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
