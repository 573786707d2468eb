package domain

// PriceUnitPerWatt and PriceUnitPerUnit tag how a row's unit price is
// denominated.
const (
	PriceUnitPerWatt = "€/W"
	PriceUnitPerUnit = "€/ud"
)

// ReservationRow is one enriched material line of a sales order, ready for
// table rendering.
type ReservationRow struct {
	DateLabel string
	Material  string
	// PowerW is the inferred panel power in watts, 0 when unknown.
	PowerW   float64
	Quantity int
	// Pallets is the display form of the pallet count, e.g. "3" or "3 (+12)".
	Pallets  string
	Pack     PackResult
	Customer string
	// UnitPrice is denominated in PriceUnit: €/W when the power is known,
	// €/ud otherwise.
	UnitPrice float64
	PriceUnit string
	// Transport carries the document's transport amount on the first row
	// only; HasTransport is false on every other row.
	Transport    float64
	HasTransport bool
}

// DigestEntry is one document line of the daily digest report.
type DigestEntry struct {
	Ref       string
	Customer  string
	Total     float64
	Subtotal  float64
	DateLabel string
	Finalized bool
	// New is true when the document ref was not in the dedup ledger at the
	// start of the run.
	New bool
}
