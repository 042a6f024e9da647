package service

import (
	"context"
	"fmt"

	"github.com/vjamst/meestercrm/internal/clock"
	"github.com/vjamst/meestercrm/internal/dashboard"
	"github.com/vjamst/meestercrm/internal/domain"
	"github.com/vjamst/meestercrm/internal/money"
)

type DashboardStore interface {
	ListInvoices(ctx context.Context) ([]domain.Invoice, error)
	ListTimeEntries(ctx context.Context) ([]domain.TimeEntry, error)
}

type Dashboard interface {
	Overview(ctx context.Context) (*OverviewView, error)
}

type dashboardService struct {
	store DashboardStore
	clock clock.Clock
}

func NewDashboard(store DashboardStore, clk clock.Clock) *dashboardService {
	return &dashboardService{store: store, clock: clk}
}

// OverviewView is the dashboard payload: this month against last month,
// formatted for direct display, plus the revenue chart series.
type OverviewView struct {
	Revenue      string    `json:"revenue"`
	RevenueTrend string    `json:"revenueTrend"`
	Hours        string    `json:"hours"`
	HoursTrend   string    `json:"hoursTrend"`
	OpenInvoices int       `json:"openInvoices"`
	OverdueCount int       `json:"overdueCount"`
	ChartLabels  []string  `json:"chartLabels"`
	ChartRevenue []float64 `json:"chartRevenue"`
}

func (s *dashboardService) Overview(ctx context.Context) (*OverviewView, error) {
	invoices, err := s.store.ListInvoices(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := s.store.ListTimeEntries(ctx)
	if err != nil {
		return nil, err
	}

	overview := dashboard.BuildOverview(invoices, entries, s.clock.Now())
	return &OverviewView{
		Revenue:      money.Format(overview.Revenue),
		RevenueTrend: overview.RevenueTrend,
		Hours:        fmt.Sprintf("%.1f", overview.Hours),
		HoursTrend:   overview.HoursTrend,
		OpenInvoices: overview.OpenInvoices,
		OverdueCount: overview.OverdueCount,
		ChartLabels:  overview.ChartLabels,
		ChartRevenue: overview.ChartRevenue,
	}, nil
}
