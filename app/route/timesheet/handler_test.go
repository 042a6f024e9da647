package timesheet

import (
	"net/http/httptest"
	"testing"
	"time"
)

type fakeClock struct {
	now time.Time
}

func (c fakeClock) Now() time.Time { return c.now }

func TestWeekFromQuery(t *testing.T) {
	clk := fakeClock{now: time.Date(2024, time.March, 6, 12, 0, 0, 0, time.Local)}

	r := httptest.NewRequest("GET", "/timesheet/week", nil)
	if got := weekFromQuery(r, clk); !got.Equal(clk.now) {
		t.Fatalf("default week = %s, want clock now", got)
	}

	r = httptest.NewRequest("GET", "/timesheet/week?week=2024-W01", nil)
	want := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.Local)
	if got := weekFromQuery(r, clk); !got.Equal(want) {
		t.Fatalf("parsed week = %s, want %s", got, want)
	}

	r = httptest.NewRequest("GET", "/timesheet/week?week=onzin", nil)
	if got := weekFromQuery(r, clk); !got.Equal(clk.now) {
		t.Fatalf("malformed week = %s, want clock now", got)
	}
}
