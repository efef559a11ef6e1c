package listing_test

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/millet-kiosk/internal/application/listing"
	"github.com/jhoicas/millet-kiosk/internal/domain/entity"
)

func TestDescribe_ResumeFiltrosEnOrden(t *testing.T) {
	st := listing.ParseState(url.Values{
		"q":         {"mijo"},
		"f.status":  {"pending", "accepted"},
		"min.total": {"10"},
		"sort":      {"total:desc"},
	})

	got := listing.Orders().Describe(st)

	assert.Equal(t, `búsqueda: "mijo"; estado: accepted, pending; total: desde 10; orden: total:desc`, got)
}

func TestDescribe_SinFiltros(t *testing.T) {
	assert.Empty(t, listing.Products().Describe(listing.ParseState(url.Values{})))
}

func TestFind_PorClave(t *testing.T) {
	rows := []entity.Seller{{ID: "S-1", Name: "Marta"}, {ID: "S-2", Name: "Iván"}}

	s, ok := listing.Sellers().Find(rows, "S-2")
	assert.True(t, ok)
	assert.Equal(t, "Iván", s.Name)

	_, ok = listing.Sellers().Find(rows, "S-9")
	assert.False(t, ok)
}

func TestBusqueda_IncluyeElIdentificador(t *testing.T) {
	ctx := context.Background()
	search := listing.ParseState(url.Values{"q": {"p-3"}})

	products := listing.New(listing.Products(), listing.Source[entity.Product]{
		Fetch: func(context.Context) ([]entity.Product, error) {
			return []entity.Product{{ID: "P-1", Name: "Mijo"}, {ID: "P-3", Name: "Sorgo"}}, nil
		},
	})
	products.Apply(search)
	require.NoError(t, products.Refresh(ctx))
	require.Len(t, products.Arranged(), 1)
	assert.Equal(t, "Sorgo", products.Arranged()[0].Name)

	inventory := listing.New(listing.Inventory(), listing.Source[entity.InventoryLine]{
		Fetch: func(context.Context) ([]entity.InventoryLine, error) {
			return []entity.InventoryLine{{ProductID: "P-1", Name: "Mijo"}, {ProductID: "P-3", Name: "Sorgo"}}, nil
		},
	})
	inventory.Apply(search)
	require.NoError(t, inventory.Refresh(ctx))
	require.Len(t, inventory.Arranged(), 1)
	assert.Equal(t, "P-3", inventory.Arranged()[0].ProductID)

	restocks := listing.New(listing.Restocks(), listing.Source[entity.RestockRequest]{
		Fetch: func(context.Context) ([]entity.RestockRequest, error) {
			return []entity.RestockRequest{{ID: "R-1", ProductName: "Mijo"}, {ID: "R-2", ProductName: "Sorgo"}}, nil
		},
	})
	restocks.Apply(listing.ParseState(url.Values{"q": {"r-2"}}))
	require.NoError(t, restocks.Refresh(ctx))
	require.Len(t, restocks.Arranged(), 1)
	assert.Equal(t, "Sorgo", restocks.Arranged()[0].ProductName)
}
