package receipt_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/millet-kiosk/internal/application/dto"
	"github.com/jhoicas/millet-kiosk/internal/application/ports/portstest"
	"github.com/jhoicas/millet-kiosk/internal/application/receipt"
	"github.com/jhoicas/millet-kiosk/internal/domain"
	"github.com/jhoicas/millet-kiosk/internal/domain/entity"
)

type fakeRenderer struct{ got []entity.Order }

func (f *fakeRenderer) ListDocument(context.Context, dto.ListDocument) ([]byte, error) {
	return []byte("%PDF-list"), nil
}

func (f *fakeRenderer) OrderReceipt(_ context.Context, o entity.Order) ([]byte, error) {
	f.got = append(f.got, o)
	return []byte("%PDF-receipt"), nil
}

func TestDownload(t *testing.T) {
	b := portstest.New()
	b.MyOrders = []entity.Order{
		{ID: "O1", Status: entity.OrderDelivered},
		{ID: "O2", Status: entity.OrderRejected},
	}
	r := &fakeRenderer{}
	uc := receipt.NewUseCase(b, r)

	out, name, err := uc.Download(context.Background(), "O1")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-receipt", string(out))
	assert.Equal(t, "pedido_O1.pdf", name)
	require.Len(t, r.got, 1)

	_, _, err = uc.Download(context.Background(), "O2")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, _, err = uc.Download(context.Background(), "ajeno")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDownload_ErrorDelBackend(t *testing.T) {
	b := portstest.New()
	b.SetFail("ListMyOrders", domain.ErrUnavailable)
	_, _, err := receipt.NewUseCase(b, &fakeRenderer{}).Download(context.Background(), "O1")
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}
