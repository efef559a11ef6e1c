package http_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/millet-kiosk/internal/application/dto"
	"github.com/jhoicas/millet-kiosk/internal/application/ports"
	"github.com/jhoicas/millet-kiosk/internal/application/ports/portstest"
	"github.com/jhoicas/millet-kiosk/internal/domain/entity"
	apphttp "github.com/jhoicas/millet-kiosk/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/millet-kiosk/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testShopID    = "shop-1"
)

var testNow = time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)

// fakeDocs generador de documentos que no depende de maroto.
type fakeDocs struct {
	lists    []dto.ListDocument
	receipts []entity.Order
}

func (d *fakeDocs) ListDocument(_ context.Context, doc dto.ListDocument) ([]byte, error) {
	d.lists = append(d.lists, doc)
	return []byte("%PDF-lista"), nil
}

func (d *fakeDocs) OrderReceipt(_ context.Context, o entity.Order) ([]byte, error) {
	d.receipts = append(d.receipts, o)
	return []byte("%PDF-comprobante"), nil
}

// seedBackend backend en memoria con un poco de cada entidad.
func seedBackend() *portstest.Backend {
	b := portstest.New()
	b.Products = []entity.Product{
		{ID: "P-1", Name: "Mijo perlado", Category: "granos", Price: decimal.RequireFromString("12.50"), Stock: 10, Rating: 4.5, ShopID: testShopID},
		{ID: "P-2", Name: "Harina de mijo", Category: "harinas", Price: decimal.RequireFromString("8.00"), Stock: 0, Rating: 3.9, ShopID: testShopID},
		{ID: "P-3", Name: "Galletas de sorgo", Category: "snacks", Price: decimal.RequireFromString("4.25"), Stock: 40, Rating: 4.8, ShopID: testShopID},
	}
	b.Inventory = []entity.InventoryLine{
		{ProductID: "P-1", Name: "Mijo perlado", Category: "granos", Stock: 10, Price: decimal.RequireFromString("12.50"), ReorderLevel: 5, ShopID: testShopID},
		{ProductID: "P-3", Name: "Galletas de sorgo", Category: "snacks", Stock: 2, Price: decimal.RequireFromString("4.25"), ReorderLevel: 5, ShopID: testShopID},
	}
	b.Orders = []entity.Order{
		{ID: "O-1", CustomerName: "Lucía", ShopID: testShopID, Status: entity.OrderPending, Total: decimal.RequireFromString("25.00"), CreatedAt: testNow},
		{ID: "O-2", CustomerName: "Tomás", ShopID: testShopID, Status: entity.OrderDelivered, Total: decimal.RequireFromString("4.25"), CreatedAt: testNow},
	}
	b.Restocks = []entity.RestockRequest{
		{ID: "R-1", ProductID: "P-3", ProductName: "Galletas de sorgo", ShopID: testShopID, Quantity: 20, Status: entity.RestockPending, CreatedAt: testNow},
	}
	b.Sellers = []entity.Seller{
		{ID: "S-1", Name: "Marta", Email: "marta@millet.test", ShopName: "Tienda Norte", Status: entity.SellerActive},
	}
	return b
}

// buildApp arma la aplicación completa sobre el backend en memoria.
func buildApp(t *testing.T, b *portstest.Backend) (*fiber.App, *fakeDocs) {
	t.Helper()
	return buildAppWith(t, b)
}

// buildAppWith igual que buildApp pero sobre cualquier gateway.
func buildAppWith(t *testing.T, gw ports.Gateway) (*fiber.App, *fakeDocs) {
	t.Helper()
	docs := &fakeDocs{}
	deps := apphttp.RouterDeps{
		Gateway:   gw,
		Documents: docs,
		Session:   apphttp.SessionOptions{JWTSecret: testJWTSecret},
		PageSize:  10,
		Logger:    zerolog.Nop(),
		Now:       func() time.Time { return testNow },
	}
	handler, err := apphttp.ErrorHandler(deps)
	require.NoError(t, err)
	app := fiber.New(fiber.Config{ErrorHandler: handler})
	require.NoError(t, apphttp.Router(app, deps))
	return app, docs
}

// tokenFor genera un JWT con el rol indicado.
func tokenFor(t *testing.T, role, shopID string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, role, shopID, time.Hour)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return tok
}

func sessionCookie(t *testing.T, role string) *http.Cookie {
	t.Helper()
	shop := ""
	if role == entity.RoleSeller {
		shop = testShopID
	}
	return &http.Cookie{Name: "token", Value: tokenFor(t, role, shop)}
}

func get(t *testing.T, app *fiber.App, target string, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func postForm(t *testing.T, app *fiber.App, target string, form url.Values, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

// cookieNamed devuelve la cookie name de Set-Cookie, o nil.
func cookieNamed(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
