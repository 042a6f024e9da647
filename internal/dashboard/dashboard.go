// Package dashboard computes the period sums, trends and chart series
// shown on the overview. Everything here is a pure function of already
// loaded collections and is recomputed on every render.
package dashboard

import (
	"fmt"
	"time"

	"github.com/vjamst/meestercrm/internal/calendar"
	"github.com/vjamst/meestercrm/internal/domain"
	"github.com/vjamst/meestercrm/internal/invoice"
)

// SumInPeriod filters items to [start, end) by their date and sums their
// values.
func SumInPeriod[T any](items []T, dateFn func(T) time.Time, valueFn func(T) float64, start, end time.Time) float64 {
	var sum float64
	for _, item := range items {
		date := dateFn(item)
		if date.Before(start) || !date.Before(end) {
			continue
		}
		sum += valueFn(item)
	}
	return sum
}

// TrendPercent formats the signed percentage change from previous to
// current, one decimal. A zero previous period has no defined change and
// yields the empty string.
func TrendPercent(current, previous float64) string {
	if previous == 0 {
		return ""
	}
	change := (current - previous) / previous * 100
	if previous < 0 {
		change = -change
	}
	return fmt.Sprintf("%+.1f%%", change)
}

// RevenueForPeriod sums invoice totals (including VAT) by issue date
// over [start, end).
func RevenueForPeriod(invoices []domain.Invoice, start, end time.Time) float64 {
	return SumInPeriod(invoices,
		func(inv domain.Invoice) time.Time { return inv.IssueDate },
		func(inv domain.Invoice) float64 { return invoice.ComputeTotals(inv).Total },
		start, end)
}

// HoursForPeriod sums time entry durations, in hours, by start time over
// [start, end).
func HoursForPeriod(entries []domain.TimeEntry, start, end time.Time) float64 {
	seconds := SumInPeriod(entries,
		func(e domain.TimeEntry) time.Time { return e.StartTime },
		func(e domain.TimeEntry) float64 { return float64(e.DurationSeconds()) },
		start, end)
	return seconds / 3600
}

// MonthlySeries buckets values by calendar month for the chart, oldest
// bucket first, ending with the month containing now.
func MonthlySeries[T any](items []T, dateFn func(T) time.Time, valueFn func(T) float64, now time.Time, monthsBack int) (labels []string, values []float64) {
	if monthsBack <= 0 {
		monthsBack = 6
	}
	for i := monthsBack - 1; i >= 0; i-- {
		start := calendar.MonthStart(now).AddDate(0, -i, 0)
		end := start.AddDate(0, 1, 0)
		labels = append(labels, start.Format("Jan 2006"))
		values = append(values, SumInPeriod(items, dateFn, valueFn, start, end))
	}
	return labels, values
}

// Overview is the dashboard view-model: this month's revenue and hours
// against the previous month, plus the six-month revenue chart.
type Overview struct {
	Revenue      float64
	RevenueTrend string
	Hours        float64
	HoursTrend   string
	OpenInvoices int
	OverdueCount int
	ChartLabels  []string
	ChartRevenue []float64
}

func BuildOverview(invoices []domain.Invoice, entries []domain.TimeEntry, now time.Time) Overview {
	currentStart := calendar.MonthStart(now)
	currentEnd := currentStart.AddDate(0, 1, 0)
	previousStart := currentStart.AddDate(0, -1, 0)

	revenue := RevenueForPeriod(invoices, currentStart, currentEnd)
	prevRevenue := RevenueForPeriod(invoices, previousStart, currentStart)
	hours := HoursForPeriod(entries, currentStart, currentEnd)
	prevHours := HoursForPeriod(entries, previousStart, currentStart)

	open, overdue := 0, 0
	for _, inv := range invoices {
		if inv.Status == domain.InvoiceSent {
			open++
		}
		if inv.Overdue(now) {
			overdue++
		}
	}

	labels, values := MonthlySeries(invoices,
		func(inv domain.Invoice) time.Time { return inv.IssueDate },
		func(inv domain.Invoice) float64 { return invoice.ComputeTotals(inv).Total },
		now, 6)

	return Overview{
		Revenue:      revenue,
		RevenueTrend: TrendPercent(revenue, prevRevenue),
		Hours:        hours,
		HoursTrend:   TrendPercent(hours, prevHours),
		OpenInvoices: open,
		OverdueCount: overdue,
		ChartLabels:  labels,
		ChartRevenue: values,
	}
}
