package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"vendido/internal/domain"
	"vendido/internal/infer"
	"vendido/internal/port"
	"vendido/internal/report"
	"vendido/internal/timewindow"
)

// DigestSummary is the outcome of one digest run: both sections plus the refs
// newly recorded in the ledger.
type DigestSummary struct {
	DateLabel string
	Orders    report.DigestSection
	Invoices  report.DigestSection
	NewRefs   []string
	Sent      bool
}

// Subject renders the digest email subject line.
func (d *DigestSummary) Subject() string {
	return fmt.Sprintf("Pedidos (%d) y Facturas (%d) — %s",
		len(d.Orders.Entries), len(d.Invoices.Entries), d.DateLabel)
}

// HTML renders the digest email body.
func (d *DigestSummary) HTML() string {
	return report.BuildDigestHTML([]report.DigestSection{d.Orders, d.Invoices})
}

// Digest window names. Yesterday is the delivered daily report; month- and
// year-to-date are aggregate previews.
const (
	WindowYesterday   = "yesterday"
	WindowMonthToDate = "mtd"
	WindowYearToDate  = "ytd"
)

// DigestService builds and delivers the daily report over yesterday's sales
// orders and invoices.
type DigestService interface {
	// Run builds yesterday's digest, records the new refs in the ledger and
	// sends the email.
	Run(ctx context.Context, now time.Time) (*DigestSummary, error)

	// Preview builds the digest for the named window without touching the
	// ledger or sending mail. An empty window means yesterday.
	Preview(ctx context.Context, now time.Time, window string) (*DigestSummary, error)
}

type digestService struct {
	docs      port.DocumentSource
	ledger    port.LedgerStore
	sender    port.EmailSender
	statusCfg infer.StatusConfig
	loc       *time.Location
	to        []string
}

// NewDigestService creates a DigestService.
func NewDigestService(
	docs port.DocumentSource,
	ledger port.LedgerStore,
	sender port.EmailSender,
	statusCfg infer.StatusConfig,
	loc *time.Location,
	to []string,
) DigestService {
	return &digestService{
		docs:      docs,
		ledger:    ledger,
		sender:    sender,
		statusCfg: statusCfg,
		loc:       loc,
		to:        to,
	}
}

func (s *digestService) Preview(ctx context.Context, now time.Time, window string) (*DigestSummary, error) {
	summary, _, _, err := s.build(ctx, now, window)
	return summary, err
}

func (s *digestService) Run(ctx context.Context, now time.Time) (*DigestSummary, error) {
	summary, seen, batch, err := s.build(ctx, now, WindowYesterday)
	if err != nil {
		return nil, err
	}

	if err := s.ledger.Save(ctx, seen.Merge(batch)); err != nil {
		log.Printf("service.digestService: saving ledger: %v", err)
	}

	msg := port.Message{
		To:       s.to,
		Subject:  summary.Subject(),
		HTMLBody: summary.HTML(),
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		return summary, fmt.Errorf("sending digest: %w", err)
	}
	summary.Sent = true
	return summary, nil
}

// resolveWindow maps a window name to its bounds, heading label and the
// period phrase shown in the section titles.
func (s *digestService) resolveWindow(now time.Time, window string) (timewindow.Window, string, string, error) {
	switch window {
	case "", WindowYesterday:
		return timewindow.Yesterday(now, s.loc), timewindow.YesterdayLabel(now, s.loc), "de AYER", nil
	case WindowMonthToDate:
		win := timewindow.MonthToDate(now, s.loc)
		return win, rangeLabel(win), "del MES en curso", nil
	case WindowYearToDate:
		win := timewindow.YearToDate(now, s.loc)
		return win, rangeLabel(win), "del AÑO en curso", nil
	default:
		return timewindow.Window{}, "", "", fmt.Errorf("unknown digest window %q", window)
	}
}

func rangeLabel(w timewindow.Window) string {
	return w.Start.Format("02/01/2006") + " - " + w.End.Format("02/01/2006")
}

// build assembles both digest sections for the named window. The returned
// set and batch let Run update the ledger after delivery.
func (s *digestService) build(ctx context.Context, now time.Time, window string) (*DigestSummary, domain.ProcessedSet, []domain.Record, error) {
	win, label, period, err := s.resolveWindow(now, window)
	if err != nil {
		return nil, nil, nil, err
	}
	start, end := win.Epochs()

	orders, err := s.docs.ListDocuments(ctx, domain.DocKindSalesOrder, start, end)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("listing sales orders: %w", err)
	}
	invoices, err := s.docs.ListDocuments(ctx, domain.DocKindInvoice, start, end)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("listing invoices: %w", err)
	}

	seen, err := s.ledger.Load(ctx)
	if err != nil {
		log.Printf("service.digestService: loading ledger: %v", err)
		seen = domain.NewProcessedSet(nil)
	}

	summary := &DigestSummary{
		DateLabel: label,
		Orders:    s.buildSection("Pedidos de venta", "pedidos", label, period, orders, seen),
		Invoices:  s.buildSection("Facturas", "facturas", label, period, invoices, seen),
	}

	batch := append(append([]domain.Record{}, orders...), invoices...)
	for _, doc := range seen.Diff(batch) {
		if ref := doc.Ref(); ref != "-" {
			summary.NewRefs = append(summary.NewRefs, ref)
		}
	}
	sort.Strings(summary.NewRefs)

	return summary, seen, batch, nil
}

// buildSection turns one document batch into a digest section. Every document
// in the window is listed; the monetary aggregates count the finalized ones
// only.
func (s *digestService) buildSection(title, subtitle, label, period string, docs []domain.Record, seen domain.ProcessedSet) report.DigestSection {
	sort.SliceStable(docs, func(i, j int) bool { return docs[i].Date() > docs[j].Date() })

	section := report.DigestSection{
		Title:     title,
		Subtitle:  subtitle,
		DateLabel: label,
		Period:    period,
	}
	for _, doc := range docs {
		entry := domain.DigestEntry{
			Ref:       doc.Ref(),
			Customer:  doc.Contact(),
			Total:     infer.Total(doc),
			Subtotal:  infer.Subtotal(doc),
			DateLabel: doc.DateLabel(s.loc),
			Finalized: infer.Finalized(doc, s.statusCfg),
		}
		entry.New = entry.Ref != "-" && !seen.Contains(entry.Ref)
		if entry.Finalized {
			section.Total += entry.Total
			section.Subtotal += entry.Subtotal
		}
		if entry.New {
			section.NewCount++
		}
		section.Entries = append(section.Entries, entry)
	}
	return section
}
