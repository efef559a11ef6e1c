package kioskapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/millet-kiosk/internal/application/dto"
	"github.com/jhoicas/millet-kiosk/internal/application/ports"
	"github.com/jhoicas/millet-kiosk/internal/domain"
	"github.com/jhoicas/millet-kiosk/internal/infrastructure/kioskapi"
)

// newServer levanta un backend falso que responde con status y body fijos y
// registra la última petición.
func newServer(t *testing.T, status int, body string, last **http.Request) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if last != nil {
			clone := r.Clone(context.Background())
			*last = clone
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newClient(url string) *kioskapi.Client {
	return kioskapi.New(kioskapi.Config{BaseURL: url, Timeout: 2 * time.Second})
}

func TestListProducts_ArregloPlano(t *testing.T) {
	var last *http.Request
	srv := newServer(t, http.StatusOK, `[
		{"prodId": "P1", "name": "Ragi", "category": "Flour", "price": {"$numberDecimal": "120.50"}, "stock": 4, "rating": "4.5"},
		{"_id": "abc", "name": "Jowar", "price": 80, "rating": null}
	]`, &last)

	list, err := newClient(srv.URL).WithToken("tok-123").ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "P1", list[0].ID)
	assert.True(t, list[0].Price.Equal(decimal.RequireFromString("120.50")))
	assert.Equal(t, 4, list[0].Stock)
	assert.Equal(t, 4.5, list[0].Rating)
	assert.Equal(t, "abc", list[1].ID, "sin prodId se usa _id")
	assert.Equal(t, 0.0, list[1].Rating)

	require.NotNil(t, last)
	assert.Equal(t, "Bearer tok-123", last.Header.Get("Authorization"))
	assert.NotEmpty(t, last.Header.Get("X-Request-ID"))
}

func TestListProducts_ObjetoEnvuelto(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"success": true, "products": [{"prodId": "P9", "price": "12"}]}`, nil)
	list, err := newClient(srv.URL).ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 12.0, list[0].Price.InexactFloat64())
}

func TestListRestocks_ObjetoSinCampoEsListaVacia(t *testing.T) {
	var last *http.Request
	srv := newServer(t, http.StatusOK, `{"message": "ok"}`, &last)
	list, err := newClient(srv.URL).ListRestocks(context.Background(), "shop 1")
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, "shop 1", last.URL.Query().Get("shopId"))
	assert.Equal(t, "/request", last.URL.Path)
}

func TestListOrders_CuerpoMalformado(t *testing.T) {
	srv := newServer(t, http.StatusOK, `"hola"`, nil)
	_, err := newClient(srv.URL).ListShopOrders(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrMalformed)
	assert.Equal(t, domain.ErrMalformed.Error(), domain.UserMessage(err))
}

func TestErrores_MensajeDelBackend(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"message", `{"message": "Stock inválido"}`, "Stock inválido"},
		{"msg", `{"msg": "Producto no existe"}`, "Producto no existe"},
		{"sin cuerpo", ``, domain.GenericMessage},
		{"html", `<html>502</html>`, domain.GenericMessage},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newServer(t, http.StatusBadRequest, tc.body, nil)
			err := newClient(srv.URL).UpdateInventory(context.Background(), "P1", ports.Patch{"stock": 3})
			var apiErr *kioskapi.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, http.StatusBadRequest, apiErr.Status)
			assert.Equal(t, tc.want, domain.UserMessage(err))
		})
	}
}

func TestErrores_401y403SonNoAutorizado(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		srv := newServer(t, status, `{"message": "jwt expired"}`, nil)
		_, err := newClient(srv.URL).ListSellers(context.Background())
		assert.ErrorIs(t, err, domain.ErrUnauthorized, "status %d", status)
	}
	srv := newServer(t, http.StatusNotFound, `{}`, nil)
	err := newClient(srv.URL).DeleteProduct(context.Background(), "P1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NotErrorIs(t, err, domain.ErrUnauthorized)
}

func TestErrores_SinRespuesta(t *testing.T) {
	srv := newServer(t, http.StatusOK, `[]`, nil)
	url := srv.URL
	srv.Close()

	_, err := newClient(url).ListProducts(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestUpdateOrder_EnviaPatch(t *testing.T) {
	var got map[string]any
	var path, method string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path, method = r.URL.Path, r.Method
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := newClient(srv.URL).UpdateOrder(context.Background(), "O-1", ports.Patch{"status": "accepted"})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/orders/O-1/status", path)
	assert.Equal(t, "accepted", got["status"])
}

func TestPlaceOrder_DecodificaPedido(t *testing.T) {
	srv := newServer(t, http.StatusCreated, `{"message": "creado", "order": {"orderId": "O-7", "status": "pending", "totalAmount": {"$numberDecimal": "240"}, "createdAt": "2026-10-15T10:00:00Z",
		"items": [{"prodId": "P1", "name": "Ragi", "quantity": 2, "price": "120"}]}}`, nil)

	order, err := newClient(srv.URL).PlaceOrder(context.Background(), dto.PlaceOrderRequest{
		Items: []dto.OrderLineInput{{ProductID: "P1", Quantity: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, "O-7", order.ID)
	assert.True(t, order.Total.Equal(decimal.NewFromInt(240)))
	assert.Equal(t, 2, order.ItemCount())
	assert.Equal(t, 2026, order.CreatedAt.Year())
}

func TestPlaceOrder_2xxSinPedidoEsExito(t *testing.T) {
	cases := map[string]struct {
		status int
		body   string
	}{
		"201 vacío":         {http.StatusCreated, ""},
		"204 sin contenido": {http.StatusNoContent, ""},
		"solo mensaje":      {http.StatusCreated, `{"message": "ok"}`},
		"texto plano":       {http.StatusOK, `pedido creado`},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			srv := newServer(t, tc.status, tc.body, nil)

			order, err := newClient(srv.URL).PlaceOrder(context.Background(), dto.PlaceOrderRequest{
				Items: []dto.OrderLineInput{{ProductID: "P1", Quantity: 1}},
			})

			require.NoError(t, err, "un 2xx no debe reportarse como fallo")
			require.NotNil(t, order)
			assert.Empty(t, order.ID)
		})
	}
}

func TestLogin(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"token": "abc.def.ghi"}`, nil)
	tok, err := newClient(srv.URL).Login(context.Background(), dto.LoginRequest{Email: "a@b.c", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", tok)

	srv = newServer(t, http.StatusOK, `{}`, nil)
	_, err = newClient(srv.URL).Login(context.Background(), dto.LoginRequest{})
	assert.ErrorIs(t, err, domain.ErrMalformed)
}
