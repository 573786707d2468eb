package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vendido/internal/domain"
	"vendido/internal/infer"
	"vendido/internal/port"
	"vendido/internal/service"
	"vendido/mocks"
)

func salesOrder() domain.Record {
	return domain.Record{
		"number":      "SO-123",
		"date":        1755680100.0,
		"contactName": "Energia Solar SL",
		"products": []any{
			map[string]any{
				"name":      "AIKO MAH72Mw",
				"sku":       "AIKO-605",
				"productId": "p1",
				"units":     72.0,
				"price":     62.98,
			},
			map[string]any{
				"name":  "Transporte peninsula",
				"units": 1.0,
				"price": 150.0,
			},
			map[string]any{
				"name":  "Cable solar 6mm",
				"units": 10.0,
				"price": 1.25,
			},
		},
	}
}

func newMapper(docs *mocks.MockDocumentSource, products *mocks.MockProductSource, sender *mocks.MockEmailSender, archive port.ObjectStorage) service.MapperService {
	return service.NewMapperService(
		docs, products, sender, archive, "archive-bucket",
		infer.DefaultPackConfig(), time.UTC, []string{"ops@example.com"})
}

func TestMapByID(t *testing.T) {
	docs := new(mocks.MockDocumentSource)
	products := new(mocks.MockProductSource)
	sender := new(mocks.MockEmailSender)

	docs.On("GetDocument", mock.Anything, domain.DocKindSalesOrder, "abc").Return(salesOrder(), nil)
	products.On("GetProduct", mock.Anything, "p1").Return(domain.Record{
		"attributes": map[string]any{"power_w": 605.0, "units_per_pallet": 36.0},
	}, nil)

	svc := newMapper(docs, products, sender, nil)
	res, err := svc.MapByID(context.Background(), "abc")
	require.NoError(t, err)

	assert.Equal(t, "SO-123", res.Header.Number)
	assert.Equal(t, "Energia Solar SL", res.Header.Customer)
	assert.True(t, res.Header.HasTransport)
	assert.Equal(t, 150.0, res.Header.Transport)

	require.Len(t, res.Rows, 2, "transport line excluded from material rows")

	panel := res.Rows[0]
	assert.Equal(t, 605.0, panel.PowerW)
	assert.Equal(t, 72, panel.Quantity)
	assert.Equal(t, "2", panel.Pallets)
	assert.Equal(t, domain.ProvenanceAttribute, panel.Pack.Provenance)
	assert.Equal(t, domain.PriceUnitPerWatt, panel.PriceUnit)
	assert.InDelta(t, 62.98/605.0, panel.UnitPrice, 0.0001)
	assert.True(t, panel.HasTransport, "transport on the first material row")
	assert.Equal(t, 150.0, panel.Transport)

	cable := res.Rows[1]
	assert.Equal(t, 0.0, cable.PowerW)
	assert.Equal(t, domain.PriceUnitPerUnit, cable.PriceUnit)
	assert.Equal(t, 1.25, cable.UnitPrice)
	assert.False(t, cable.HasTransport, "never repeated on later rows")

	docs.AssertExpectations(t)
	products.AssertExpectations(t)
}

func TestMapByID_ProductLookupFailureDegrades(t *testing.T) {
	docs := new(mocks.MockDocumentSource)
	products := new(mocks.MockProductSource)
	sender := new(mocks.MockEmailSender)

	docs.On("GetDocument", mock.Anything, domain.DocKindSalesOrder, "abc").Return(salesOrder(), nil)
	products.On("GetProduct", mock.Anything, "p1").Return(nil, assert.AnError)

	svc := newMapper(docs, products, sender, nil)
	res, err := svc.MapByID(context.Background(), "abc")
	require.NoError(t, err, "a failed product lookup never fails the mapping")

	// Power still inferred from the item SKU text.
	assert.Equal(t, 605.0, res.Rows[0].PowerW)
}

func TestMapRecent_SortsAndLimits(t *testing.T) {
	docs := new(mocks.MockDocumentSource)
	products := new(mocks.MockProductSource)
	sender := new(mocks.MockEmailSender)

	batch := []domain.Record{
		{"number": "SO-old", "date": 100.0},
		{"number": "SO-new", "date": 300.0},
		{"number": "SO-mid", "date": 200.0},
	}
	docs.On("ListDocuments", mock.Anything, domain.DocKindSalesOrder, mock.Anything, mock.Anything).Return(batch, nil)

	svc := newMapper(docs, products, sender, nil)
	out, err := svc.MapRecent(context.Background(), 60, 2)
	require.NoError(t, err)

	require.Len(t, out, 2)
	assert.Equal(t, "SO-new", out[0].Header.Number)
	assert.Equal(t, "SO-mid", out[1].Header.Number)
}

func TestMapByID_ArchivesRawDocument(t *testing.T) {
	docs := new(mocks.MockDocumentSource)
	products := new(mocks.MockProductSource)
	sender := new(mocks.MockEmailSender)
	archive := new(mocks.MockObjectStorage)

	docs.On("GetDocument", mock.Anything, domain.DocKindSalesOrder, "abc").Return(salesOrder(), nil)
	products.On("GetProduct", mock.Anything, "p1").Return(domain.Record{}, nil)
	archive.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.Bucket == "archive-bucket" &&
			in.ContentType == "application/json" &&
			strings.HasPrefix(in.Key, "salesorder/SO-123-")
	})).Return(&port.UploadOutput{Location: "somewhere"}, nil)

	svc := newMapper(docs, products, sender, archive)
	_, err := svc.MapByID(context.Background(), "abc")
	require.NoError(t, err)

	archive.AssertExpectations(t)
}

func TestSendReservation(t *testing.T) {
	docs := new(mocks.MockDocumentSource)
	products := new(mocks.MockProductSource)
	sender := new(mocks.MockEmailSender)

	docs.On("GetDocument", mock.Anything, domain.DocKindSalesOrder, "abc").Return(salesOrder(), nil)
	products.On("GetProduct", mock.Anything, "p1").Return(domain.Record{}, nil)
	sender.On("Send", mock.Anything, mock.MatchedBy(func(msg port.Message) bool {
		return msg.Subject == "Reserva de material — Pedido SO-123" &&
			len(msg.To) == 1 &&
			strings.Contains(msg.HTMLBody, "SO-123")
	})).Return(nil)

	svc := newMapper(docs, products, sender, nil)
	res, err := svc.MapByID(context.Background(), "abc")
	require.NoError(t, err)
	require.NoError(t, svc.SendReservation(context.Background(), res))

	sender.AssertExpectations(t)
}
