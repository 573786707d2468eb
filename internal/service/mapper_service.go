package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"vendido/internal/domain"
	"vendido/internal/infer"
	"vendido/internal/port"
	"vendido/internal/report"
	"vendido/internal/timewindow"
)

// productIDCandidates are the line keys that may point at the catalog product.
var productIDCandidates = []string{"productId", "product_id"}

// Reservation is a sales order mapped into enriched material rows, ready for
// rendering as a table, email or workbook.
type Reservation struct {
	Doc    domain.Record
	Header report.ReservationHeader
	Rows   []domain.ReservationRow
}

// MapperService turns sales orders into material reservation reports.
type MapperService interface {
	// MapByID fetches one sales order and maps it.
	MapByID(ctx context.Context, id string) (*Reservation, error)

	// MapRecent maps the sales orders created in the last N minutes, newest
	// first, capped at limit when limit > 0.
	MapRecent(ctx context.Context, minutes, limit int) ([]*Reservation, error)

	// SendReservation emails the reservation as an HTML table.
	SendReservation(ctx context.Context, res *Reservation) error
}

type mapperService struct {
	docs     port.DocumentSource
	products port.ProductSource
	sender   port.EmailSender
	archive  port.ObjectStorage
	bucket   string
	packCfg  infer.PackConfig
	loc      *time.Location
	to       []string
	now      func() time.Time
}

// NewMapperService creates a MapperService. archive may be nil; raw document
// dumps are then skipped.
func NewMapperService(
	docs port.DocumentSource,
	products port.ProductSource,
	sender port.EmailSender,
	archive port.ObjectStorage,
	bucket string,
	packCfg infer.PackConfig,
	loc *time.Location,
	to []string,
) MapperService {
	return &mapperService{
		docs:     docs,
		products: products,
		sender:   sender,
		archive:  archive,
		bucket:   bucket,
		packCfg:  packCfg,
		loc:      loc,
		to:       to,
		now:      time.Now,
	}
}

func (s *mapperService) MapByID(ctx context.Context, id string) (*Reservation, error) {
	doc, err := s.docs.GetDocument(ctx, domain.DocKindSalesOrder, id)
	if err != nil {
		return nil, fmt.Errorf("fetching sales order %s: %w", id, err)
	}
	return s.mapDocument(ctx, doc), nil
}

func (s *mapperService) MapRecent(ctx context.Context, minutes, limit int) ([]*Reservation, error) {
	win := timewindow.LastMinutes(s.now(), s.loc, minutes)
	start, end := win.Epochs()

	docs, err := s.docs.ListDocuments(ctx, domain.DocKindSalesOrder, start, end)
	if err != nil {
		return nil, fmt.Errorf("listing sales orders: %w", err)
	}

	sort.SliceStable(docs, func(i, j int) bool { return docs[i].Date() > docs[j].Date() })
	if limit > 0 && len(docs) > limit {
		docs = docs[:limit]
	}

	out := make([]*Reservation, 0, len(docs))
	for _, doc := range docs {
		out = append(out, s.mapDocument(ctx, doc))
	}
	return out, nil
}

func (s *mapperService) SendReservation(ctx context.Context, res *Reservation) error {
	msg := port.Message{
		To:       s.to,
		Subject:  fmt.Sprintf("Reserva de material — Pedido %s", res.Header.Number),
		HTMLBody: report.BuildReservationHTML(res.Header, res.Rows),
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("sending reservation %s: %w", res.Header.Number, err)
	}
	return nil
}

// mapDocument enriches the material lines of one sales order. Transport
// lines are folded into the document-level transport amount, attributed to
// the first material row. Product lookups that fail degrade to an empty
// product record so inference falls back to the line's own text.
func (s *mapperService) mapDocument(ctx context.Context, doc domain.Record) *Reservation {
	s.archiveDocument(ctx, doc)

	dateLabel := doc.DateLabel(s.loc)
	customer := doc.Contact()
	transport, hasTransport := doc.TransportAmount()

	var rows []domain.ReservationRow
	for _, line := range doc.Lines() {
		if line.IsTransport() {
			continue
		}

		name := domain.ToString(line["name"])
		sku := domain.ToString(line["sku"])
		product := s.lookupProduct(ctx, infer.ResolveString(line, productIDCandidates))

		units, _ := domain.ToFloat(line["units"])
		qty := int(units)
		price, _ := domain.ToFloat(line["price"])

		power := infer.PowerW(product, name, sku)
		pack := infer.PackSize(s.packCfg, product, name, sku, qty)

		unitPrice := price
		priceUnit := domain.PriceUnitPerUnit
		if power > 0 && qty > 0 {
			unitPrice = price * units / (float64(qty) * power)
			priceUnit = domain.PriceUnitPerWatt
		}

		row := domain.ReservationRow{
			DateLabel: dateLabel,
			Material:  name,
			PowerW:    power,
			Quantity:  qty,
			Pallets:   pack.PalletsDisplay(qty),
			Pack:      pack,
			Customer:  customer,
			UnitPrice: unitPrice,
			PriceUnit: priceUnit,
		}
		if hasTransport && len(rows) == 0 {
			row.Transport = transport
			row.HasTransport = true
		}
		rows = append(rows, row)
	}

	return &Reservation{
		Doc: doc,
		Header: report.ReservationHeader{
			Number:       doc.Ref(),
			Customer:     customer,
			DateLabel:    dateLabel,
			Transport:    transport,
			HasTransport: hasTransport,
		},
		Rows: rows,
	}
}

func (s *mapperService) lookupProduct(ctx context.Context, id string) domain.Record {
	if id == "" || s.products == nil {
		return domain.Record{}
	}
	product, err := s.products.GetProduct(ctx, id)
	if err != nil {
		log.Printf("service.mapperService: product %s lookup failed: %v", id, err)
		return domain.Record{}
	}
	return product
}

// archiveDocument dumps the raw document JSON to the configured archive.
// Failures are logged, never fatal: the report matters more than the dump.
func (s *mapperService) archiveDocument(ctx context.Context, doc domain.Record) {
	if s.archive == nil {
		return
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		log.Printf("service.mapperService: marshaling document %s: %v", doc.Ref(), err)
		return
	}
	key := fmt.Sprintf("salesorder/%s-%s.json", doc.Ref(), uuid.New().String())
	_, err = s.archive.Upload(ctx, port.UploadInput{
		Bucket:      s.bucket,
		Key:         key,
		Body:        bytes.NewReader(data),
		ContentType: "application/json",
	})
	if err != nil {
		log.Printf("service.mapperService: archiving document %s: %v", doc.Ref(), err)
	}
}
