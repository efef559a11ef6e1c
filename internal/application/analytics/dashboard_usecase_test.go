package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/millet-kiosk/internal/application/analytics"
	"github.com/jhoicas/millet-kiosk/internal/application/ports/portstest"
	"github.com/jhoicas/millet-kiosk/internal/domain"
	"github.com/jhoicas/millet-kiosk/internal/domain/entity"
)

var now = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func item(id, name string, qty int, price int64) entity.OrderItem {
	return entity.OrderItem{ProductID: id, Name: name, Quantity: qty, Price: decimal.NewFromInt(price)}
}

func seededBackend() *portstest.Backend {
	b := portstest.New()
	b.Orders = []entity.Order{
		{ID: "O1", Status: entity.OrderDelivered, Total: decimal.NewFromInt(300), CreatedAt: now.AddDate(0, -1, 0),
			Items: []entity.OrderItem{item("P1", "Ragi", 2, 100), item("P2", "Jowar", 1, 100)}},
		{ID: "O2", Status: entity.OrderAccepted, Total: decimal.NewFromInt(200), CreatedAt: now.AddDate(0, 0, -2),
			Items: []entity.OrderItem{item("P1", "Ragi", 2, 100)}},
		{ID: "O3", Status: entity.OrderPending, Total: decimal.NewFromInt(999), CreatedAt: now,
			Items: []entity.OrderItem{item("P3", "Bajra", 50, 10)}},
		{ID: "O4", Status: entity.OrderRejected, Total: decimal.NewFromInt(50), CreatedAt: now},
	}
	b.Products = []entity.Product{{ID: "P1", Stock: 2}, {ID: "P2", Stock: 40}, {ID: "P3", Stock: 5}}
	b.Sellers = []entity.Seller{{ID: "S1", Status: entity.SellerActive}, {ID: "S2", Status: entity.SellerInactive}}
	b.Restocks = []entity.RestockRequest{{ID: "R1", Status: entity.RestockPending}, {ID: "R2", Status: entity.RestockApproved}}
	return b
}

func TestGetSummary_Metricas(t *testing.T) {
	b := seededBackend()
	uc := analytics.NewDashboardUseCase(b).WithClock(func() time.Time { return now })

	out, err := uc.GetSummary(context.Background())
	require.NoError(t, err)

	assert.True(t, out.Revenue.Equal(decimal.NewFromInt(500)), out.Revenue.String())
	assert.True(t, out.MonthlyRevenue.Equal(decimal.NewFromInt(200)), out.MonthlyRevenue.String())
	assert.True(t, out.AverageOrder.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, 4, out.TotalOrders)
	assert.Equal(t, map[string]int{"pending": 1, "accepted": 1, "rejected": 1, "delivered": 1}, out.OrdersByStatus)
	assert.Equal(t, 3, out.TotalProducts)
	assert.Equal(t, 2, out.LowStock)
	assert.Equal(t, 1, out.ActiveSellers)
	assert.Equal(t, 1, out.PendingRestocks)
	assert.Equal(t, "Octubre 2026", out.DateLabel)

	require.Len(t, out.TopProducts, 2, "los pedidos pendientes no cuentan")
	assert.Equal(t, "P1", out.TopProducts[0].ProductID)
	assert.Equal(t, 4, out.TopProducts[0].QuantitySold)
	assert.True(t, out.TopProducts[0].Revenue.Equal(decimal.NewFromInt(400)))
}

func TestGetSummary_LecturasEnParalelo(t *testing.T) {
	b := seededBackend()
	_, err := analytics.NewDashboardUseCase(b).GetSummary(context.Background())
	require.NoError(t, err)
	for _, m := range []string{"ListShopOrders", "ListProducts", "ListSellers", "ListRestocks"} {
		assert.Equal(t, 1, b.Count(m), m)
	}
}

func TestGetSummary_ErrorEnUnaLectura(t *testing.T) {
	b := seededBackend()
	b.SetFail("ListSellers", domain.ErrUnavailable)

	_, err := analytics.NewDashboardUseCase(b).GetSummary(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnavailable)
	assert.Contains(t, err.Error(), "vendedores")
}

func TestGetSummary_SinPedidos(t *testing.T) {
	out, err := analytics.NewDashboardUseCase(portstest.New()).GetSummary(context.Background())
	require.NoError(t, err)
	assert.True(t, out.AverageOrder.IsZero())
	assert.Empty(t, out.TopProducts)
	assert.Equal(t, 0, out.OrdersByStatus["pending"])
}
