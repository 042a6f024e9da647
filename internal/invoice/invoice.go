// Package invoice assembles invoice line items and their derived totals.
//
// VAT policy: VAT is always modeled. Every invoice carries its own
// VATRate (DefaultVATRate for new ones) and VATAmount/Total derive from
// it. There is no VAT-free invoice variant.
package invoice

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/vjamst/meestercrm/internal/calendar"
	"github.com/vjamst/meestercrm/internal/domain"
)

// DefaultVATRate is the Dutch standard rate, as a percentage.
const DefaultVATRate = 21

// CoerceNumber turns user input into a non-negative amount. Malformed or
// empty input coerces to 0 instead of rejecting; this leniency is
// deliberate and this function is its single home.
func CoerceNumber(value string) float64 {
	value = strings.ReplaceAll(strings.TrimSpace(value), ",", ".")
	n, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(n) || n < 0 {
		return 0
	}
	return n
}

// AppendItem appends a line item built from raw form input. Quantity
// defaults to 1 when omitted; unit price coerces to 0.
func AppendItem(inv *domain.Invoice, description, quantity, unitPrice, sourceEntryID string) {
	qty := CoerceNumber(quantity)
	if strings.TrimSpace(quantity) == "" {
		qty = 1
	}
	inv.Items = append(inv.Items, domain.LineItem{
		Description:   description,
		Quantity:      qty,
		UnitPrice:     CoerceNumber(unitPrice),
		SourceEntryID: sourceEntryID,
	})
}

// RemoveItem removes the item at index in place.
func RemoveItem(inv *domain.Invoice, index int) error {
	if index < 0 || index >= len(inv.Items) {
		return domain.Invalid("item", fmt.Sprintf("no line item at position %d", index+1))
	}
	inv.Items = append(inv.Items[:index], inv.Items[index+1:]...)
	return nil
}

func Subtotal(items []domain.LineItem) float64 {
	var sum float64
	for _, item := range items {
		sum += item.Amount()
	}
	return sum
}

func VATAmount(subtotal, vatRatePercent float64) float64 {
	return subtotal * vatRatePercent / 100
}

func Total(subtotal, vatAmount float64) float64 {
	return subtotal + vatAmount
}

// Totals is the derived summary of an invoice, recomputed after every
// item edit rather than stored.
type Totals struct {
	Subtotal  float64
	VATAmount float64
	Total     float64
}

func ComputeTotals(inv domain.Invoice) Totals {
	subtotal := Subtotal(inv.Items)
	vat := VATAmount(subtotal, inv.VATRate)
	return Totals{
		Subtotal:  subtotal,
		VATAmount: vat,
		Total:     Total(subtotal, vat),
	}
}

// FromTimeEntries converts time entries into line items: quantity is the
// duration in hours rounded to two decimals, the rate falls back from
// the entry to the client default to zero. The same entry converted
// twice yields two items; marking entries billed is the caller's job.
func FromTimeEntries(entries []domain.TimeEntry, clientRate func(clientID string) float64) []domain.LineItem {
	items := make([]domain.LineItem, 0, len(entries))
	for _, entry := range entries {
		description := entry.Description
		if description == "" {
			description = "Uren " + calendar.FormatDate(entry.StartTime)
		}
		rate := entry.HourlyRate
		if rate == 0 && clientRate != nil {
			rate = clientRate(entry.ClientID)
		}
		items = append(items, domain.LineItem{
			Description:   description,
			Quantity:      RoundHours(entry.DurationSeconds()),
			UnitPrice:     rate,
			SourceEntryID: entry.ID,
		})
	}
	return items
}

// RoundHours converts seconds to hours rounded to two decimals.
func RoundHours(seconds int64) float64 {
	return math.Round(float64(seconds)/3600*100) / 100
}

// NewNumber generates an invoice number like "20240314-483". Collisions
// are possible; uniqueness is the store's constraint, not ours.
func NewNumber(now time.Time) string {
	return fmt.Sprintf("%s-%03d", now.Format("20060102"), rand.Intn(900)+100)
}
