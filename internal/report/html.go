package report

import (
	"fmt"
	"html"
	"strings"

	"vendido/internal/domain"
)

const htmlWrapper = "<div style='font-family:system-ui,Segoe UI,Roboto,Arial,sans-serif'>%s</div>"

// ReservationHeader carries the document-level fields shown above the
// reservation table.
type ReservationHeader struct {
	Number       string
	Customer     string
	DateLabel    string
	Transport    float64
	HasTransport bool
}

// BuildReservationHTML renders the material reservation email body for one
// sales order.
func BuildReservationHTML(head ReservationHeader, rows []domain.ReservationRow) string {
	transport := "-"
	if head.HasTransport {
		transport = FormatEUR(head.Transport, 2)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<h3 style='margin:0 0 8px'>Reserva de material — Pedido %s</h3>", html.EscapeString(head.Number))
	fmt.Fprintf(&b,
		"<p style='margin:0 0 10px'>Cliente: <b>%s</b> &nbsp;|&nbsp; Fecha: <b>%s</b> &nbsp;|&nbsp; Transporte: <b>%s</b></p>",
		html.EscapeString(head.Customer), html.EscapeString(head.DateLabel), transport)

	b.WriteString("<table border='1' cellspacing='0' cellpadding='6' style='border-collapse:collapse'><thead><tr>")
	for _, h := range tableHeaders {
		fmt.Fprintf(&b, "<th>%s</th>", h)
	}
	b.WriteString("</tr></thead><tbody>")

	if len(rows) == 0 {
		b.WriteString("<tr><td colspan=8>Sin líneas</td></tr>")
	}
	for _, row := range rows {
		b.WriteString("<tr>")
		fmt.Fprintf(&b, "<td>%s</td>", html.EscapeString(row.DateLabel))
		fmt.Fprintf(&b, "<td>%s</td>", html.EscapeString(row.Material))
		fmt.Fprintf(&b, "<td style='text-align:right'>%s</td>", powerCell(row.PowerW))
		fmt.Fprintf(&b, "<td style='text-align:right'>%d</td>", row.Quantity)
		fmt.Fprintf(&b, "<td style='text-align:right'>%s</td>", html.EscapeString(row.Pallets))
		fmt.Fprintf(&b, "<td>%s</td>", html.EscapeString(row.Customer))
		fmt.Fprintf(&b, "<td style='text-align:right'>%s</td>", priceCell(row))
		fmt.Fprintf(&b, "<td style='text-align:right'>%s</td>", transportCell(row))
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table>")

	return fmt.Sprintf(htmlWrapper, b.String())
}

// DigestSection is one block of the daily digest: all documents of a kind
// inside the report window, with their aggregates.
type DigestSection struct {
	Title    string
	Subtitle string
	// Period is the phrase after the title, e.g. "de AYER" or
	// "del MES en curso".
	Period    string
	DateLabel string
	Entries   []domain.DigestEntry
	// Total and Subtotal aggregate the finalized entries only.
	Total    float64
	Subtotal float64
	NewCount int
}

// BuildDigestHTML renders the daily digest email body.
func BuildDigestHTML(sections []DigestSection) string {
	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		parts = append(parts, buildDigestSection(s))
	}
	return fmt.Sprintf(htmlWrapper, strings.Join(parts, "<br><br>"))
}

func buildDigestSection(s DigestSection) string {
	period := s.Period
	if period == "" {
		period = "de AYER"
	}
	if len(s.Entries) == 0 {
		return fmt.Sprintf("<p>No hay %s %s (%s).</p>", strings.ToLower(s.Title), period, html.EscapeString(s.DateLabel))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<h3 style='margin:0 0 8px'>%s %s — %s</h3>", s.Title, period, html.EscapeString(s.DateLabel))
	fmt.Fprintf(&b,
		"<p style='margin:0 0 12px'>Total %s: <b>%d</b> &nbsp;|&nbsp; Importe total: <b>%s</b> &nbsp;|&nbsp; Base imponible: <b>%s</b> &nbsp;|&nbsp; Nuevas: <b>%d</b></p>",
		s.Subtitle, len(s.Entries), FormatEUR(s.Total, 2), FormatEUR(s.Subtotal, 2), s.NewCount)

	b.WriteString("<table border='1' cellspacing='0' cellpadding='6' style='border-collapse:collapse'>")
	b.WriteString("<thead><tr><th>Nº</th><th>Cliente</th><th>Base</th><th>Total</th><th>Fecha</th><th>Estado</th><th>Nueva</th></tr></thead><tbody>")
	for _, e := range s.Entries {
		state := "Computada"
		if !e.Finalized {
			state = "No computada"
		}
		isNew := ""
		if e.New {
			isNew = "Sí"
		}
		b.WriteString("<tr>")
		fmt.Fprintf(&b, "<td style='white-space:nowrap'>%s</td>", html.EscapeString(e.Ref))
		fmt.Fprintf(&b, "<td>%s</td>", html.EscapeString(e.Customer))
		fmt.Fprintf(&b, "<td style='text-align:right'>%s</td>", FormatEUR(e.Subtotal, 2))
		fmt.Fprintf(&b, "<td style='text-align:right'>%s</td>", FormatEUR(e.Total, 2))
		fmt.Fprintf(&b, "<td style='white-space:nowrap'>%s</td>", html.EscapeString(e.DateLabel))
		fmt.Fprintf(&b, "<td>%s</td>", state)
		fmt.Fprintf(&b, "<td>%s</td>", isNew)
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table>")
	return b.String()
}
