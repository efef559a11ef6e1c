package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/millet-kiosk/internal/application/dto"
	"github.com/jhoicas/millet-kiosk/internal/application/ports/portstest"
	"github.com/jhoicas/millet-kiosk/internal/domain"
	"github.com/jhoicas/millet-kiosk/internal/domain/entity"
)

var fixedNow = time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)

type fakeDocs struct {
	lists []dto.ListDocument
}

func (d *fakeDocs) ListDocument(_ context.Context, doc dto.ListDocument) ([]byte, error) {
	d.lists = append(d.lists, doc)
	return []byte("%PDF-lista"), nil
}

func (d *fakeDocs) OrderReceipt(context.Context, entity.Order) ([]byte, error) {
	return []byte("%PDF-comprobante"), nil
}

func seeded() *portstest.Backend {
	b := portstest.New()
	b.Inventory = []entity.InventoryLine{
		{ProductID: "P-1", Name: "Mijo perlado", Category: "granos", Stock: 10, Price: decimal.RequireFromString("12.50"), ReorderLevel: 5, ShopID: "shop-1"},
		{ProductID: "P-3", Name: "Galletas de sorgo", Category: "snacks", Stock: 2, Price: decimal.RequireFromString("4.25"), ReorderLevel: 5, ShopID: "shop-1"},
	}
	b.Orders = []entity.Order{
		{ID: "O-1", CustomerName: "Lucía", ShopID: "shop-1", Status: entity.OrderPending, Total: decimal.RequireFromString("25.00"), CreatedAt: fixedNow},
		{ID: "O-2", CustomerName: "Tomás", ShopID: "shop-1", Status: entity.OrderDelivered, Total: decimal.RequireFromString("4.25"), CreatedAt: fixedNow},
	}
	return b
}

// run ejecuta kioskctl con args sobre el backend en memoria.
func run(t *testing.T, b *portstest.Backend, args ...string) (stdout, stderr string, docs *fakeDocs, err error) {
	t.Helper()
	docs = &fakeDocs{}
	c := &cli{gateway: b, docs: docs, now: func() time.Time { return fixedNow }}
	root := newRootCmd(c)
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err = root.Execute()
	return out.String(), errOut.String(), docs, err
}

func TestExport_CSVPorStdout(t *testing.T) {
	out, _, _, err := run(t, seeded(), "export", "inventory", "--shop", "shop-1")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3, "cabecera más dos filas")
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "Galletas de sorgo", "orden por defecto: stock ascendente")
	assert.Contains(t, lines[2], "Mijo perlado")
}

func TestExport_FiltroDeNivel(t *testing.T) {
	out, _, _, err := run(t, seeded(), "export", "inventory", "--filter", "level=low")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "Galletas de sorgo")
}

func TestExport_PDFConFiltrosDescritos(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "pedidos.pdf")

	_, stderr, docs, err := run(t, seeded(), "export", "orders",
		"--filter", "status=pending", "--format", "pdf", "--out", target)
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-lista", string(data))
	assert.Contains(t, stderr, "1 filas")

	require.Len(t, docs.lists, 1)
	assert.Contains(t, docs.lists[0].Filters, "estado: pending")
	assert.Len(t, docs.lists[0].Rows, 1)
	assert.Equal(t, fixedNow, docs.lists[0].GeneratedAt)
}

func TestExport_ErroresDeArgumentos(t *testing.T) {
	cases := map[string][]string{
		"filtro sin igual":   {"export", "orders", "--filter", "status"},
		"mínimo no numérico": {"export", "orders", "--min", "total=mucho"},
		"formato inválido":   {"export", "orders", "--format", "xlsx"},
		"vista desconocida":  {"export", "clientes"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			b := seeded()
			_, _, _, err := run(t, b, args...)
			assert.Error(t, err)
			assert.Zero(t, b.Count("ListShopOrders"), "no debe consultar el backend")
		})
	}
}

func TestExport_SesionRechazadaIndicaElRol(t *testing.T) {
	b := seeded()
	b.SetFail("ListSellers", domain.ErrUnauthorized)

	_, _, _, err := run(t, b, "export", "sellers")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Contains(t, err.Error(), "requiere rol admin")
}

func TestLogin_ImprimeElToken(t *testing.T) {
	b := seeded()
	b.Tokens["admin@millet.test"] = "tok-123"

	out, _, _, err := run(t, b, "login", "--email", "admin@millet.test", "--password", "secreto")

	require.NoError(t, err)
	assert.Equal(t, "tok-123\n", out)
}

func TestLogin_SinPasswordFalla(t *testing.T) {
	t.Setenv("KIOSK_PASSWORD", "")
	b := seeded()

	_, _, _, err := run(t, b, "login", "--email", "admin@millet.test")

	require.Error(t, err)
	assert.Zero(t, b.Count("Login"))
}
