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
	"vendido/internal/timewindow"
	"vendido/mocks"
)

func digestFixtures() (orders, invoices []domain.Record) {
	orders = []domain.Record{
		{"number": "SO-1", "contactName": "Solar SL", "subtotal": 100.0, "total": 121.0, "date": 200.0},
		{"number": "SO-2", "contactName": "Otra SA", "subtotal": 40.0, "total": 48.4, "status": "Cancelada", "date": 100.0},
	}
	invoices = []domain.Record{
		{"number": "F-1", "contactName": "Solar SL", "subtotal": 100.0, "total": 121.0},
	}
	return orders, invoices
}

func newDigest(docs *mocks.MockDocumentSource, store *mocks.MockLedgerStore, sender *mocks.MockEmailSender) service.DigestService {
	return service.NewDigestService(
		docs, store, sender, infer.DefaultStatusConfig(), time.UTC, []string{"ops@example.com"})
}

func TestDigestRun(t *testing.T) {
	docs := new(mocks.MockDocumentSource)
	store := new(mocks.MockLedgerStore)
	sender := new(mocks.MockEmailSender)

	orders, invoices := digestFixtures()
	docs.On("ListDocuments", mock.Anything, domain.DocKindSalesOrder, mock.Anything, mock.Anything).Return(orders, nil)
	docs.On("ListDocuments", mock.Anything, domain.DocKindInvoice, mock.Anything, mock.Anything).Return(invoices, nil)
	store.On("Load", mock.Anything).Return(domain.NewProcessedSet([]string{"SO-1"}), nil)
	store.On("Save", mock.Anything, mock.MatchedBy(func(set domain.ProcessedSet) bool {
		return set.Contains("SO-1") && set.Contains("SO-2") && set.Contains("F-1")
	})).Return(nil)
	sender.On("Send", mock.Anything, mock.MatchedBy(func(msg port.Message) bool {
		return strings.HasPrefix(msg.Subject, "Pedidos (2) y Facturas (1)") &&
			strings.Contains(msg.HTMLBody, "SO-1")
	})).Return(nil)

	svc := newDigest(docs, store, sender)
	summary, err := svc.Run(context.Background(), time.Date(2025, 8, 21, 7, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.True(t, summary.Sent)
	assert.Equal(t, "20/08/2025", summary.DateLabel)

	// Aggregates count finalized documents only; the cancelled order is
	// listed but not summed.
	require.Len(t, summary.Orders.Entries, 2)
	assert.Equal(t, 121.0, summary.Orders.Total)
	assert.Equal(t, 100.0, summary.Orders.Subtotal)
	assert.False(t, summary.Orders.Entries[1].Finalized)

	// SO-1 was already in the ledger; SO-2 and F-1 are new.
	assert.Equal(t, []string{"F-1", "SO-2"}, summary.NewRefs)
	assert.Equal(t, 1, summary.Orders.NewCount)
	assert.Equal(t, 1, summary.Invoices.NewCount)

	docs.AssertExpectations(t)
	store.AssertExpectations(t)
	sender.AssertExpectations(t)
}

func TestDigestRun_EntriesNewestFirst(t *testing.T) {
	docs := new(mocks.MockDocumentSource)
	store := new(mocks.MockLedgerStore)
	sender := new(mocks.MockEmailSender)

	orders, invoices := digestFixtures()
	docs.On("ListDocuments", mock.Anything, domain.DocKindSalesOrder, mock.Anything, mock.Anything).Return(orders, nil)
	docs.On("ListDocuments", mock.Anything, domain.DocKindInvoice, mock.Anything, mock.Anything).Return(invoices, nil)
	store.On("Load", mock.Anything).Return(domain.ProcessedSet{}, nil)

	svc := newDigest(docs, store, sender)
	summary, err := svc.Preview(context.Background(), time.Now(), service.WindowYesterday)
	require.NoError(t, err)

	assert.Equal(t, "SO-1", summary.Orders.Entries[0].Ref, "newer document listed first")
	assert.Equal(t, "SO-2", summary.Orders.Entries[1].Ref)
}

func TestDigestPreview_MonthToDate(t *testing.T) {
	docs := new(mocks.MockDocumentSource)
	store := new(mocks.MockLedgerStore)
	sender := new(mocks.MockEmailSender)

	now := time.Date(2025, 8, 25, 10, 0, 0, 0, time.UTC)
	start, end := timewindow.MonthToDate(now, time.UTC).Epochs()

	orders, invoices := digestFixtures()
	docs.On("ListDocuments", mock.Anything, domain.DocKindSalesOrder, start, end).Return(orders, nil)
	docs.On("ListDocuments", mock.Anything, domain.DocKindInvoice, start, end).Return(invoices, nil)
	store.On("Load", mock.Anything).Return(domain.ProcessedSet{}, nil)

	svc := newDigest(docs, store, sender)
	summary, err := svc.Preview(context.Background(), now, service.WindowMonthToDate)
	require.NoError(t, err)

	assert.Equal(t, "01/08/2025 - 25/08/2025", summary.DateLabel)
	assert.Equal(t, "del MES en curso", summary.Orders.Period)
	docs.AssertExpectations(t)
}

func TestDigestPreview_UnknownWindow(t *testing.T) {
	svc := newDigest(new(mocks.MockDocumentSource), new(mocks.MockLedgerStore), new(mocks.MockEmailSender))
	_, err := svc.Preview(context.Background(), time.Now(), "quarter")
	require.Error(t, err)
}

func TestDigestPreview_NoSideEffects(t *testing.T) {
	docs := new(mocks.MockDocumentSource)
	store := new(mocks.MockLedgerStore)
	sender := new(mocks.MockEmailSender)

	orders, invoices := digestFixtures()
	docs.On("ListDocuments", mock.Anything, domain.DocKindSalesOrder, mock.Anything, mock.Anything).Return(orders, nil)
	docs.On("ListDocuments", mock.Anything, domain.DocKindInvoice, mock.Anything, mock.Anything).Return(invoices, nil)
	store.On("Load", mock.Anything).Return(domain.ProcessedSet{}, nil)

	svc := newDigest(docs, store, sender)
	summary, err := svc.Preview(context.Background(), time.Now(), service.WindowYesterday)
	require.NoError(t, err)

	assert.False(t, summary.Sent)
	store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestDigestRun_ListFailure(t *testing.T) {
	docs := new(mocks.MockDocumentSource)
	store := new(mocks.MockLedgerStore)
	sender := new(mocks.MockEmailSender)

	docs.On("ListDocuments", mock.Anything, domain.DocKindSalesOrder, mock.Anything, mock.Anything).Return(nil, assert.AnError)

	svc := newDigest(docs, store, sender)
	_, err := svc.Run(context.Background(), time.Now())
	require.Error(t, err)
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestDigestRun_CorruptLedgerDegradesToEmpty(t *testing.T) {
	docs := new(mocks.MockDocumentSource)
	store := new(mocks.MockLedgerStore)
	sender := new(mocks.MockEmailSender)

	orders, invoices := digestFixtures()
	docs.On("ListDocuments", mock.Anything, domain.DocKindSalesOrder, mock.Anything, mock.Anything).Return(orders, nil)
	docs.On("ListDocuments", mock.Anything, domain.DocKindInvoice, mock.Anything, mock.Anything).Return(invoices, nil)
	store.On("Load", mock.Anything).Return(nil, assert.AnError)
	store.On("Save", mock.Anything, mock.Anything).Return(nil)
	sender.On("Send", mock.Anything, mock.Anything).Return(nil)

	svc := newDigest(docs, store, sender)
	summary, err := svc.Run(context.Background(), time.Now())
	require.NoError(t, err, "an unreadable ledger never blocks the digest")
	assert.Len(t, summary.NewRefs, 3, "everything counts as new")
}

func TestDigestRun_SendFailure(t *testing.T) {
	docs := new(mocks.MockDocumentSource)
	store := new(mocks.MockLedgerStore)
	sender := new(mocks.MockEmailSender)

	orders, invoices := digestFixtures()
	docs.On("ListDocuments", mock.Anything, domain.DocKindSalesOrder, mock.Anything, mock.Anything).Return(orders, nil)
	docs.On("ListDocuments", mock.Anything, domain.DocKindInvoice, mock.Anything, mock.Anything).Return(invoices, nil)
	store.On("Load", mock.Anything).Return(domain.ProcessedSet{}, nil)
	store.On("Save", mock.Anything, mock.Anything).Return(nil)
	sender.On("Send", mock.Anything, mock.Anything).Return(assert.AnError)

	svc := newDigest(docs, store, sender)
	summary, err := svc.Run(context.Background(), time.Now())
	require.Error(t, err)
	assert.NotNil(t, summary, "the built digest is still returned for inspection")
	assert.False(t, summary.Sent)
}
