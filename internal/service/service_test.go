package service

import (
	"context"
	"errors"
	"time"

	"github.com/vjamst/meestercrm/internal/domain"
	"github.com/vjamst/meestercrm/pkg/resend"
)

var errRowNotFound = errors.New("row not found")

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, time.March, 4, 9, 0, 0, 0, time.Local)}
}

// fakeStore keeps everything in slices and fails on demand, standing in
// for the remote row store.
type fakeStore struct {
	clients  []domain.Client
	entries  []domain.TimeEntry
	invoices []domain.Invoice
	events   []domain.PlanningEvent
	tasks    []domain.Task

	insertEntryErr  error
	insertInvErr    error
	markBilledErr   error
	updateStatusErr error
}

func (f *fakeStore) ListClients(ctx context.Context) ([]domain.Client, error) {
	return append([]domain.Client{}, f.clients...), nil
}

func (f *fakeStore) GetClient(ctx context.Context, id string) (domain.Client, error) {
	for _, c := range f.clients {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.Client{}, errRowNotFound
}

func (f *fakeStore) InsertClient(ctx context.Context, c domain.Client) error {
	f.clients = append(f.clients, c)
	return nil
}

func (f *fakeStore) UpdateClient(ctx context.Context, c domain.Client) error {
	for i := range f.clients {
		if f.clients[i].ID == c.ID {
			f.clients[i] = c
			return nil
		}
	}
	return errRowNotFound
}

func (f *fakeStore) DeleteClient(ctx context.Context, id string) error {
	for i := range f.clients {
		if f.clients[i].ID == id {
			f.clients = append(f.clients[:i], f.clients[i+1:]...)
			return nil
		}
	}
	return errRowNotFound
}

func (f *fakeStore) ListTimeEntries(ctx context.Context) ([]domain.TimeEntry, error) {
	return append([]domain.TimeEntry{}, f.entries...), nil
}

func (f *fakeStore) InsertTimeEntry(ctx context.Context, e domain.TimeEntry) error {
	if f.insertEntryErr != nil {
		return f.insertEntryErr
	}
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeStore) DeleteTimeEntry(ctx context.Context, id string) error {
	for i := range f.entries {
		if f.entries[i].ID == id {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return nil
		}
	}
	return errRowNotFound
}

func (f *fakeStore) MarkEntriesBilled(ctx context.Context, ids []string) error {
	if f.markBilledErr != nil {
		return f.markBilledErr
	}
	for _, id := range ids {
		for i := range f.entries {
			if f.entries[i].ID == id {
				f.entries[i].Billed = true
			}
		}
	}
	return nil
}

func (f *fakeStore) ListInvoices(ctx context.Context) ([]domain.Invoice, error) {
	return append([]domain.Invoice{}, f.invoices...), nil
}

func (f *fakeStore) GetInvoice(ctx context.Context, id string) (domain.Invoice, error) {
	for _, inv := range f.invoices {
		if inv.ID == id {
			return inv, nil
		}
	}
	return domain.Invoice{}, errRowNotFound
}

func (f *fakeStore) InsertInvoice(ctx context.Context, inv domain.Invoice) error {
	if f.insertInvErr != nil {
		return f.insertInvErr
	}
	f.invoices = append(f.invoices, inv)
	return nil
}

func (f *fakeStore) UpdateInvoiceStatus(ctx context.Context, id string, status domain.InvoiceStatus) error {
	if f.updateStatusErr != nil {
		return f.updateStatusErr
	}
	for i := range f.invoices {
		if f.invoices[i].ID == id {
			f.invoices[i].Status = status
			return nil
		}
	}
	return errRowNotFound
}

func (f *fakeStore) DeleteInvoice(ctx context.Context, id string) error {
	for i := range f.invoices {
		if f.invoices[i].ID == id {
			f.invoices = append(f.invoices[:i], f.invoices[i+1:]...)
			return nil
		}
	}
	return errRowNotFound
}

func (f *fakeStore) ListEvents(ctx context.Context) ([]domain.PlanningEvent, error) {
	return append([]domain.PlanningEvent{}, f.events...), nil
}

func (f *fakeStore) InsertEvents(ctx context.Context, events []domain.PlanningEvent) error {
	f.events = append(f.events, events...)
	return nil
}

func (f *fakeStore) DeleteEvent(ctx context.Context, id string) error {
	for i := range f.events {
		if f.events[i].ID == id {
			f.events = append(f.events[:i], f.events[i+1:]...)
			return nil
		}
	}
	return errRowNotFound
}

func (f *fakeStore) ListTasks(ctx context.Context) ([]domain.Task, error) {
	return append([]domain.Task{}, f.tasks...), nil
}

func (f *fakeStore) InsertTask(ctx context.Context, t domain.Task) error {
	f.tasks = append(f.tasks, t)
	return nil
}

func (f *fakeStore) UpdateTask(ctx context.Context, t domain.Task) error {
	for i := range f.tasks {
		if f.tasks[i].ID == t.ID {
			f.tasks[i] = t
			return nil
		}
	}
	return errRowNotFound
}

func (f *fakeStore) DeleteTask(ctx context.Context, id string) error {
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return errRowNotFound
}

type fakeMailer struct {
	sent []resend.Email
	err  error
}

func (m *fakeMailer) Send(ctx context.Context, email resend.Email) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.sent = append(m.sent, email)
	return "msg_test", nil
}
