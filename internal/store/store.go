// Package store maps the remote Supabase tables onto the domain types.
// It is a thin persistence layer: every method is one round trip and the
// services rebuild their in-memory collections wholesale from it after a
// mutation, rather than patching incrementally.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/vjamst/meestercrm/internal/domain"
	"github.com/vjamst/meestercrm/pkg/supabase"
)

type Store struct {
	sb *supabase.Client
}

func New(sb *supabase.Client) *Store {
	return &Store{sb: sb}
}

type clientRow struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	HourlyRate float64   `json:"hourly_rate"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
}

func (r clientRow) toDomain() domain.Client {
	return domain.Client{
		ID:         r.ID,
		Name:       r.Name,
		Email:      r.Email,
		Phone:      r.Phone,
		HourlyRate: r.HourlyRate,
		Notes:      r.Notes,
		CreatedAt:  r.CreatedAt,
	}
}

func clientToRow(c domain.Client) clientRow {
	return clientRow{
		ID:         c.ID,
		Name:       c.Name,
		Email:      c.Email,
		Phone:      c.Phone,
		HourlyRate: c.HourlyRate,
		Notes:      c.Notes,
		CreatedAt:  c.CreatedAt,
	}
}

func (s *Store) ListClients(ctx context.Context) ([]domain.Client, error) {
	rows := []clientRow{}
	err := s.sb.From("clients").Select("*").Order("created_at", false).Get(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("load clients: %w", err)
	}
	clients := make([]domain.Client, 0, len(rows))
	for _, row := range rows {
		clients = append(clients, row.toDomain())
	}
	return clients, nil
}

func (s *Store) GetClient(ctx context.Context, id string) (domain.Client, error) {
	row := clientRow{}
	if err := s.sb.From("clients").Select("*").Eq("id", id).Single(ctx, &row); err != nil {
		return domain.Client{}, fmt.Errorf("load client %s: %w", id, err)
	}
	return row.toDomain(), nil
}

func (s *Store) InsertClient(ctx context.Context, c domain.Client) error {
	if err := s.sb.From("clients").Insert(ctx, clientToRow(c), nil); err != nil {
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// UpdateClient patches the user-editable columns only; id and
// created_at stay untouched so the creation timestamp survives edits.
func (s *Store) UpdateClient(ctx context.Context, c domain.Client) error {
	patch := map[string]any{
		"name":        c.Name,
		"email":       c.Email,
		"phone":       c.Phone,
		"hourly_rate": c.HourlyRate,
		"notes":       c.Notes,
	}
	if err := s.sb.From("clients").Eq("id", c.ID).Update(ctx, patch); err != nil {
		return fmt.Errorf("update client %s: %w", c.ID, err)
	}
	return nil
}

// DeleteClient removes the client row only. References from entries,
// events and invoices are left dangling on purpose and render with a
// placeholder name.
func (s *Store) DeleteClient(ctx context.Context, id string) error {
	if err := s.sb.From("clients").Eq("id", id).Delete(ctx); err != nil {
		return fmt.Errorf("delete client %s: %w", id, err)
	}
	return nil
}

type entryRow struct {
	ID          string    `json:"id"`
	ClientID    string    `json:"client_id"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Billable    bool      `json:"billable"`
	Billed      bool      `json:"billed"`
	HourlyRate  float64   `json:"hourly_rate"`
}

func (r entryRow) toDomain() domain.TimeEntry {
	return domain.TimeEntry{
		ID:          r.ID,
		ClientID:    r.ClientID,
		Description: r.Description,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		Billable:    r.Billable,
		Billed:      r.Billed,
		HourlyRate:  r.HourlyRate,
	}
}

func entryToRow(e domain.TimeEntry) entryRow {
	return entryRow{
		ID:          e.ID,
		ClientID:    e.ClientID,
		Description: e.Description,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		Billable:    e.Billable,
		Billed:      e.Billed,
		HourlyRate:  e.HourlyRate,
	}
}

func (s *Store) ListTimeEntries(ctx context.Context) ([]domain.TimeEntry, error) {
	rows := []entryRow{}
	err := s.sb.From("time_entries").Select("*").Order("start_time", false).Get(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("load time entries: %w", err)
	}
	entries := make([]domain.TimeEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.toDomain())
	}
	return entries, nil
}

func (s *Store) InsertTimeEntry(ctx context.Context, e domain.TimeEntry) error {
	if err := s.sb.From("time_entries").Insert(ctx, entryToRow(e), nil); err != nil {
		return fmt.Errorf("insert time entry: %w", err)
	}
	return nil
}

func (s *Store) DeleteTimeEntry(ctx context.Context, id string) error {
	if err := s.sb.From("time_entries").Eq("id", id).Delete(ctx); err != nil {
		return fmt.Errorf("delete time entry %s: %w", id, err)
	}
	return nil
}

// MarkEntriesBilled flags entries that were converted to line items so
// the next conversion skips them.
func (s *Store) MarkEntriesBilled(ctx context.Context, ids []string) error {
	for _, id := range ids {
		patch := map[string]bool{"billed": true}
		if err := s.sb.From("time_entries").Eq("id", id).Update(ctx, patch); err != nil {
			return fmt.Errorf("mark entry %s billed: %w", id, err)
		}
	}
	return nil
}

type invoiceRow struct {
	ID        string     `json:"id"`
	ClientID  string     `json:"client_id"`
	Number    string     `json:"number"`
	IssueDate time.Time  `json:"issue_date"`
	DueDate   *time.Time `json:"due_date"`
	Status    string     `json:"status"`
	VATRate   float64    `json:"vat_rate"`
	Notes     string     `json:"notes"`
}

type itemRow struct {
	InvoiceID     string  `json:"invoice_id"`
	Position      int     `json:"position"`
	Description   string  `json:"description"`
	Quantity      float64 `json:"quantity"`
	UnitPrice     float64 `json:"unit_price"`
	SourceEntryID string  `json:"source_entry_id"`
}

func (r invoiceRow) toDomain(items []itemRow) domain.Invoice {
	inv := domain.Invoice{
		ID:        r.ID,
		ClientID:  r.ClientID,
		Number:    r.Number,
		IssueDate: r.IssueDate,
		Status:    domain.InvoiceStatus(r.Status),
		VATRate:   r.VATRate,
		Notes:     r.Notes,
	}
	if r.DueDate != nil {
		inv.DueDate = *r.DueDate
	}
	for _, item := range items {
		inv.Items = append(inv.Items, domain.LineItem{
			Description:   item.Description,
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
			SourceEntryID: item.SourceEntryID,
		})
	}
	return inv
}

func invoiceToRow(inv domain.Invoice) invoiceRow {
	row := invoiceRow{
		ID:        inv.ID,
		ClientID:  inv.ClientID,
		Number:    inv.Number,
		IssueDate: inv.IssueDate,
		Status:    string(inv.Status),
		VATRate:   inv.VATRate,
		Notes:     inv.Notes,
	}
	if !inv.DueDate.IsZero() {
		due := inv.DueDate
		row.DueDate = &due
	}
	return row
}

func itemsToRows(inv domain.Invoice) []itemRow {
	rows := make([]itemRow, 0, len(inv.Items))
	for i, item := range inv.Items {
		rows = append(rows, itemRow{
			InvoiceID:     inv.ID,
			Position:      i,
			Description:   item.Description,
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
			SourceEntryID: item.SourceEntryID,
		})
	}
	return rows
}

func (s *Store) ListInvoices(ctx context.Context) ([]domain.Invoice, error) {
	invoiceRows := []invoiceRow{}
	err := s.sb.From("invoices").Select("*").Order("issue_date", false).Get(ctx, &invoiceRows)
	if err != nil {
		return nil, fmt.Errorf("load invoices: %w", err)
	}

	itemRows := []itemRow{}
	err = s.sb.From("invoice_items").Select("*").Order("position", true).Get(ctx, &itemRows)
	if err != nil {
		return nil, fmt.Errorf("load invoice items: %w", err)
	}

	itemsByInvoice := map[string][]itemRow{}
	for _, item := range itemRows {
		itemsByInvoice[item.InvoiceID] = append(itemsByInvoice[item.InvoiceID], item)
	}

	invoices := make([]domain.Invoice, 0, len(invoiceRows))
	for _, row := range invoiceRows {
		invoices = append(invoices, row.toDomain(itemsByInvoice[row.ID]))
	}
	return invoices, nil
}

func (s *Store) GetInvoice(ctx context.Context, id string) (domain.Invoice, error) {
	row := invoiceRow{}
	if err := s.sb.From("invoices").Select("*").Eq("id", id).Single(ctx, &row); err != nil {
		return domain.Invoice{}, fmt.Errorf("load invoice %s: %w", id, err)
	}
	items := []itemRow{}
	err := s.sb.From("invoice_items").Select("*").Eq("invoice_id", id).Order("position", true).Get(ctx, &items)
	if err != nil {
		return domain.Invoice{}, fmt.Errorf("load invoice %s items: %w", id, err)
	}
	return row.toDomain(items), nil
}

func (s *Store) InsertInvoice(ctx context.Context, inv domain.Invoice) error {
	if err := s.sb.From("invoices").Insert(ctx, invoiceToRow(inv), nil); err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}
	if len(inv.Items) == 0 {
		return nil
	}
	if err := s.sb.From("invoice_items").Insert(ctx, itemsToRows(inv), nil); err != nil {
		return fmt.Errorf("insert invoice items: %w", err)
	}
	return nil
}

func (s *Store) UpdateInvoiceStatus(ctx context.Context, id string, status domain.InvoiceStatus) error {
	patch := map[string]string{"status": string(status)}
	if err := s.sb.From("invoices").Eq("id", id).Update(ctx, patch); err != nil {
		return fmt.Errorf("update invoice %s status: %w", id, err)
	}
	return nil
}

func (s *Store) DeleteInvoice(ctx context.Context, id string) error {
	if err := s.sb.From("invoice_items").Eq("invoice_id", id).Delete(ctx); err != nil {
		return fmt.Errorf("delete invoice %s items: %w", id, err)
	}
	if err := s.sb.From("invoices").Eq("id", id).Delete(ctx); err != nil {
		return fmt.Errorf("delete invoice %s: %w", id, err)
	}
	return nil
}

type eventRow struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"client_id"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Location  string    `json:"location"`
	URL       string    `json:"url"`
	Notes     string    `json:"notes"`
	Source    string    `json:"source"`
}

func (r eventRow) toDomain() domain.PlanningEvent {
	return domain.PlanningEvent{
		ID:        r.ID,
		ClientID:  r.ClientID,
		Title:     r.Title,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Location:  r.Location,
		URL:       r.URL,
		Notes:     r.Notes,
		Source:    domain.EventSource(r.Source),
	}
}

func eventToRow(e domain.PlanningEvent) eventRow {
	return eventRow{
		ID:        e.ID,
		ClientID:  e.ClientID,
		Title:     e.Title,
		StartTime: e.StartTime,
		EndTime:   e.EndTime,
		Location:  e.Location,
		URL:       e.URL,
		Notes:     e.Notes,
		Source:    string(e.Source),
	}
}

func (s *Store) ListEvents(ctx context.Context) ([]domain.PlanningEvent, error) {
	rows := []eventRow{}
	err := s.sb.From("planning_events").Select("*").Order("start_time", true).Get(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("load planning events: %w", err)
	}
	events := make([]domain.PlanningEvent, 0, len(rows))
	for _, row := range rows {
		events = append(events, row.toDomain())
	}
	return events, nil
}

func (s *Store) InsertEvents(ctx context.Context, events []domain.PlanningEvent) error {
	if len(events) == 0 {
		return nil
	}
	rows := make([]eventRow, 0, len(events))
	for _, event := range events {
		rows = append(rows, eventToRow(event))
	}
	if err := s.sb.From("planning_events").Insert(ctx, rows, nil); err != nil {
		return fmt.Errorf("insert planning events: %w", err)
	}
	return nil
}

func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	if err := s.sb.From("planning_events").Eq("id", id).Delete(ctx); err != nil {
		return fmt.Errorf("delete planning event %s: %w", id, err)
	}
	return nil
}

type taskRow struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
}

func (r taskRow) toDomain() domain.Task {
	task := domain.Task{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Priority:    domain.TaskPriority(r.Priority),
		Status:      domain.TaskStatus(r.Status),
	}
	if r.Deadline != nil {
		task.Deadline = *r.Deadline
	}
	return task
}

func taskToRow(t domain.Task) taskRow {
	row := taskRow{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    string(t.Priority),
		Status:      string(t.Status),
	}
	if !t.Deadline.IsZero() {
		deadline := t.Deadline
		row.Deadline = &deadline
	}
	return row
}

func (s *Store) ListTasks(ctx context.Context) ([]domain.Task, error) {
	rows := []taskRow{}
	err := s.sb.From("tasks").Select("*").Order("deadline", true).Get(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	tasks := make([]domain.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, row.toDomain())
	}
	return tasks, nil
}

func (s *Store) InsertTask(ctx context.Context, t domain.Task) error {
	if err := s.sb.From("tasks").Insert(ctx, taskToRow(t), nil); err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (s *Store) UpdateTask(ctx context.Context, t domain.Task) error {
	if err := s.sb.From("tasks").Eq("id", t.ID).Update(ctx, taskToRow(t)); err != nil {
		return fmt.Errorf("update task %s: %w", t.ID, err)
	}
	return nil
}

func (s *Store) DeleteTask(ctx context.Context, id string) error {
	if err := s.sb.From("tasks").Eq("id", id).Delete(ctx); err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	return nil
}
