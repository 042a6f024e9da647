package domain

import "time"

// InvoiceStatus is the closed set of stored invoice states. Overdue is
// intentionally absent: it is derived at render time, never stored.
type InvoiceStatus string

const (
	InvoiceDraft InvoiceStatus = "draft"
	InvoiceSent  InvoiceStatus = "sent"
	InvoicePaid  InvoiceStatus = "paid"
)

type Invoice struct {
	ID        string
	ClientID  string
	Number    string
	IssueDate time.Time
	DueDate   time.Time
	Status    InvoiceStatus
	VATRate   float64
	Notes     string
	Items     []LineItem
}

// Overdue reports whether a sent invoice has passed its due date.
func (inv Invoice) Overdue(now time.Time) bool {
	return inv.Status == InvoiceSent && !inv.DueDate.IsZero() && inv.DueDate.Before(now)
}

// LineItem is one billable row on an invoice. Amount is always derived
// from Quantity and UnitPrice. SourceEntryID is a weak back-reference to
// the time entry the item was generated from; deleting the entry does
// not remove the item.
type LineItem struct {
	Description   string
	Quantity      float64
	UnitPrice     float64
	SourceEntryID string
}

func (li LineItem) Amount() float64 {
	return li.Quantity * li.UnitPrice
}
