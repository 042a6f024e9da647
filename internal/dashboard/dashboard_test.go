package dashboard

import (
	"math"
	"testing"
	"time"

	"github.com/vjamst/meestercrm/internal/domain"
)

func TestTrendPercent(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		previous float64
		want     string
	}{
		{"growth", 120, 100, "+20.0%"},
		{"decline", 80, 100, "-20.0%"},
		{"flat", 100, 100, "+0.0%"},
		{"zero previous", 120, 0, ""},
		{"fractional", 101.5, 100, "+1.5%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrendPercent(tt.current, tt.previous); got != tt.want {
				t.Fatalf("TrendPercent(%v, %v) = %q, want %q", tt.current, tt.previous, got, tt.want)
			}
		})
	}
}

func TestSumInPeriodHalfOpenInterval(t *testing.T) {
	start := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, 0)

	type sample struct {
		at    time.Time
		value float64
	}
	// Start is inclusive, end exclusive: only the first two count.
	items := []sample{
		{start, 10},
		{start.AddDate(0, 0, 15), 20},
		{end, 40},
		{start.Add(-time.Second), 80},
		{end.Add(time.Second), 160},
	}

	got := SumInPeriod(items,
		func(s sample) time.Time { return s.at },
		func(s sample) float64 { return s.value },
		start, end)
	if got != 30 {
		t.Fatalf("SumInPeriod = %v, want 30", got)
	}
}

func entryWith(start time.Time, seconds int64) domain.TimeEntry {
	return domain.TimeEntry{
		StartTime: start,
		EndTime:   start.Add(time.Duration(seconds) * time.Second),
	}
}

func TestHoursForPeriod(t *testing.T) {
	start := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.Local)
	entries := []domain.TimeEntry{
		entryWith(start.AddDate(0, 0, 1), 3600),
		entryWith(start.AddDate(0, 0, 2), 1800),
		entryWith(start.AddDate(0, -1, 0), 7200),
	}

	got := HoursForPeriod(entries, start, start.AddDate(0, 1, 0))
	if math.Abs(got-1.5) > 1e-9 {
		t.Fatalf("HoursForPeriod = %v, want 1.5", got)
	}
}

func invoiceWith(issue time.Time, amount float64, status domain.InvoiceStatus) domain.Invoice {
	return domain.Invoice{
		IssueDate: issue,
		Status:    status,
		Items:     []domain.LineItem{{Quantity: 1, UnitPrice: amount}},
	}
}

func TestRevenueForPeriodIncludesVAT(t *testing.T) {
	start := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.Local)
	invoices := []domain.Invoice{
		{
			IssueDate: start.AddDate(0, 0, 5),
			VATRate:   21,
			Items:     []domain.LineItem{{Quantity: 2, UnitPrice: 50}},
		},
	}

	got := RevenueForPeriod(invoices, start, start.AddDate(0, 1, 0))
	if math.Abs(got-121) > 1e-9 {
		t.Fatalf("RevenueForPeriod = %v, want 121", got)
	}
}

func TestMonthlySeries(t *testing.T) {
	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.Local)
	invoices := []domain.Invoice{
		invoiceWith(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.Local), 100, domain.InvoiceSent),
		invoiceWith(time.Date(2024, time.May, 20, 0, 0, 0, 0, time.Local), 50, domain.InvoiceSent),
		invoiceWith(time.Date(2023, time.December, 31, 0, 0, 0, 0, time.Local), 999, domain.InvoiceSent),
	}

	labels, values := MonthlySeries(invoices,
		func(inv domain.Invoice) time.Time { return inv.IssueDate },
		func(inv domain.Invoice) float64 { return inv.Items[0].Amount() },
		now, 6)

	if len(labels) != 6 || len(values) != 6 {
		t.Fatalf("series length = %d/%d, want 6/6", len(labels), len(values))
	}
	if labels[0] != "Jan 2024" || labels[5] != "Jun 2024" {
		t.Fatalf("labels = %v", labels)
	}
	if values[4] != 50 || values[5] != 100 {
		t.Fatalf("values = %v, want May=50 June=100", values)
	}
	if values[0] != 0 {
		t.Fatalf("December invoice leaked into January bucket: %v", values)
	}
}

func TestBuildOverview(t *testing.T) {
	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.Local)
	may := time.Date(2024, time.May, 10, 0, 0, 0, 0, time.Local)
	june := time.Date(2024, time.June, 5, 0, 0, 0, 0, time.Local)

	invoices := []domain.Invoice{
		invoiceWith(june, 120, domain.InvoiceSent),
		invoiceWith(may, 100, domain.InvoicePaid),
		{
			IssueDate: may,
			Status:    domain.InvoiceSent,
			DueDate:   now.AddDate(0, 0, -1),
			Items:     []domain.LineItem{{Quantity: 1, UnitPrice: 10}},
		},
	}
	entries := []domain.TimeEntry{
		entryWith(june, 7200),
		entryWith(may, 3600),
	}

	overview := BuildOverview(invoices, entries, now)

	if math.Abs(overview.Hours-2) > 1e-9 {
		t.Fatalf("hours = %v, want 2", overview.Hours)
	}
	if overview.HoursTrend != "+100.0%" {
		t.Fatalf("hours trend = %q, want +100.0%%", overview.HoursTrend)
	}
	if overview.OpenInvoices != 2 {
		t.Fatalf("open invoices = %d, want 2", overview.OpenInvoices)
	}
	if overview.OverdueCount != 1 {
		t.Fatalf("overdue = %d, want 1", overview.OverdueCount)
	}
	if len(overview.ChartLabels) != 6 {
		t.Fatalf("chart labels = %d, want 6", len(overview.ChartLabels))
	}
}
