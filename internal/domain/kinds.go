package domain

// DocKind selects a commercial document family on the invoicing API.
type DocKind string

const (
	DocKindSalesOrder DocKind = "salesorder"
	DocKindInvoice    DocKind = "invoice"
)
