package service

import (
	"context"
	"errors"
	"math"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/vjamst/meestercrm/internal/domain"
)

func newInvoicing(store *fakeStore, mailer *fakeMailer, clk *fakeClock) *invoicing {
	return NewInvoicing(store, mailer, clk, "Facturatie <no-reply@example.com>")
}

func TestCreateInvoiceValidation(t *testing.T) {
	ctx := context.Background()
	inv := newInvoicing(acmeStore(), &fakeMailer{}, newFakeClock())

	_, err := inv.Create(ctx, CreateInvoiceParams{Items: []LineItemParams{{Description: "advies"}}})
	if !domain.IsValidation(err) {
		t.Fatalf("Create without client = %v, want ValidationError", err)
	}

	_, err = inv.Create(ctx, CreateInvoiceParams{ClientID: "acme"})
	if !errors.Is(err, domain.ErrEmptyInvoice) {
		t.Fatalf("Create without items = %v, want ErrEmptyInvoice", err)
	}
}

func TestCreateInvoiceDefaults(t *testing.T) {
	ctx := context.Background()
	store := acmeStore()
	clk := newFakeClock()
	inv := newInvoicing(store, &fakeMailer{}, clk)

	created, err := inv.Create(ctx, CreateInvoiceParams{
		ClientID: "acme",
		Items: []LineItemParams{
			{Description: "advies", Quantity: "2", UnitPrice: "50"},
			{Description: "reiskosten", Quantity: "", UnitPrice: "12,50"},
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if !regexp.MustCompile(`^20240304-\d{3}$`).MatchString(created.Number) {
		t.Fatalf("generated number = %q", created.Number)
	}
	if !created.IssueDate.Equal(clk.now) {
		t.Fatalf("issue date = %s, want clock now", created.IssueDate)
	}
	if created.Status != domain.InvoiceDraft {
		t.Fatalf("status = %q, want draft", created.Status)
	}
	if created.VATRate != 21 {
		t.Fatalf("vat rate = %v, want default 21", created.VATRate)
	}
	if len(created.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(created.Items))
	}
	if created.Items[1].Quantity != 1 || created.Items[1].UnitPrice != 12.5 {
		t.Fatalf("coerced item = %+v, want quantity 1 price 12.5", created.Items[1])
	}
	if len(store.invoices) != 1 {
		t.Fatalf("stored invoices = %d, want 1", len(store.invoices))
	}
}

func TestCreateInvoiceExplicitVATRate(t *testing.T) {
	inv := newInvoicing(acmeStore(), &fakeMailer{}, newFakeClock())

	created, err := inv.Create(context.Background(), CreateInvoiceParams{
		ClientID: "acme",
		VATRate:  "9",
		Items:    []LineItemParams{{Description: "advies", Quantity: "1", UnitPrice: "100"}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.VATRate != 9 {
		t.Fatalf("vat rate = %v, want 9", created.VATRate)
	}
}

func unbilledEntry(id string, seconds int64) domain.TimeEntry {
	start := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.Local)
	return domain.TimeEntry{
		ID:        id,
		ClientID:  "acme",
		StartTime: start,
		EndTime:   start.Add(time.Duration(seconds) * time.Second),
		Billable:  true,
	}
}

func TestCreateFromEntries(t *testing.T) {
	ctx := context.Background()
	clk := newFakeClock()
	store := acmeStore()
	billed := unbilledEntry("al-gefactureerd", 3600)
	billed.Billed = true
	nonBillable := unbilledEntry("intern", 3600)
	nonBillable.Billable = false
	other := unbilledEntry("ander", 3600)
	other.ClientID = "globex"
	store.entries = []domain.TimeEntry{unbilledEntry("e1", 3661), billed, nonBillable, other}

	inv := newInvoicing(store, &fakeMailer{}, clk)

	created, err := inv.CreateFromEntries(ctx, "acme", nil)
	if err != nil {
		t.Fatalf("CreateFromEntries: %v", err)
	}
	if len(created.Items) != 1 {
		t.Fatalf("items = %d, want only the unbilled billable entry", len(created.Items))
	}
	item := created.Items[0]
	if math.Abs(item.Quantity-1.02) > 1e-9 {
		t.Fatalf("quantity = %v, want 1.02", item.Quantity)
	}
	if math.Abs(item.Amount()-76.5) > 1e-9 {
		t.Fatalf("amount = %v, want 76.50 at the client rate", item.Amount())
	}
	if item.SourceEntryID != "e1" {
		t.Fatalf("source entry = %q, want e1", item.SourceEntryID)
	}
	if !created.DueDate.Equal(clk.now.AddDate(0, 0, 30)) {
		t.Fatalf("due date = %s, want +30 days", created.DueDate)
	}

	for _, entry := range store.entries {
		if entry.ID == "e1" && !entry.Billed {
			t.Fatal("converted entry not marked billed")
		}
		if entry.ID == "intern" && entry.Billed {
			t.Fatal("non-billable entry marked billed")
		}
	}

	// A second conversion finds nothing left to bill.
	if _, err := inv.CreateFromEntries(ctx, "acme", nil); !errors.Is(err, domain.ErrEmptyInvoice) {
		t.Fatalf("second conversion = %v, want ErrEmptyInvoice", err)
	}
}

func TestCreateFromEntriesSelection(t *testing.T) {
	ctx := context.Background()
	store := acmeStore()
	store.entries = []domain.TimeEntry{unbilledEntry("e1", 3600), unbilledEntry("e2", 1800)}
	inv := newInvoicing(store, &fakeMailer{}, newFakeClock())

	created, err := inv.CreateFromEntries(ctx, "acme", []string{"e2"})
	if err != nil {
		t.Fatalf("CreateFromEntries: %v", err)
	}
	if len(created.Items) != 1 || created.Items[0].SourceEntryID != "e2" {
		t.Fatalf("items = %+v, want only e2", created.Items)
	}

	entries, _ := store.ListTimeEntries(ctx)
	for _, entry := range entries {
		if entry.ID == "e1" && entry.Billed {
			t.Fatal("unselected entry marked billed")
		}
	}
}

func TestCreateFromEntriesMarkBilledFailure(t *testing.T) {
	ctx := context.Background()
	store := acmeStore()
	store.entries = []domain.TimeEntry{unbilledEntry("e1", 3600)}
	store.markBilledErr = errors.New("store down")
	inv := newInvoicing(store, &fakeMailer{}, newFakeClock())

	created, err := inv.CreateFromEntries(ctx, "acme", nil)
	if err == nil {
		t.Fatal("CreateFromEntries with failing MarkEntriesBilled returned nil error")
	}
	if created.ID == "" {
		t.Fatal("saved invoice not returned alongside the error")
	}
	if len(store.invoices) != 1 {
		t.Fatalf("stored invoices = %d, want 1", len(store.invoices))
	}
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	store := acmeStore()
	store.invoices = []domain.Invoice{{ID: "inv-1", Status: domain.InvoiceSent}}
	inv := newInvoicing(store, &fakeMailer{}, newFakeClock())

	if err := inv.UpdateStatus(ctx, "inv-1", domain.InvoicePaid); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if store.invoices[0].Status != domain.InvoicePaid {
		t.Fatalf("status = %q, want paid", store.invoices[0].Status)
	}

	if err := inv.UpdateStatus(ctx, "inv-1", "betaald"); !domain.IsValidation(err) {
		t.Fatalf("unknown status = %v, want ValidationError", err)
	}
}

func TestListDerivesOverdue(t *testing.T) {
	ctx := context.Background()
	clk := newFakeClock()
	store := acmeStore()
	store.invoices = []domain.Invoice{
		{
			ID: "inv-1", ClientID: "acme", Number: "F-001",
			Status:  domain.InvoiceSent,
			DueDate: clk.now.AddDate(0, 0, -1),
			VATRate: 21,
			Items:   []domain.LineItem{{Quantity: 2, UnitPrice: 50}},
		},
		{
			ID: "inv-2", ClientID: "acme", Number: "F-002",
			Status:  domain.InvoiceSent,
			DueDate: clk.now.AddDate(0, 0, 10),
		},
	}
	inv := newInvoicing(store, &fakeMailer{}, clk)

	views, err := inv.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if views[0].Status != "overdue" || views[0].StatusLabel != "Vervallen" {
		t.Fatalf("overdue view = %q/%q, want overdue/Vervallen", views[0].Status, views[0].StatusLabel)
	}
	if views[1].Status != "sent" || views[1].StatusLabel != "Verzonden" {
		t.Fatalf("sent view = %q/%q, want sent/Verzonden", views[1].Status, views[1].StatusLabel)
	}
	if views[0].TotalText != "€ 121,00" {
		t.Fatalf("total text = %q, want € 121,00", views[0].TotalText)
	}
	if views[0].ClientName != "Acme" {
		t.Fatalf("client name = %q, want Acme", views[0].ClientName)
	}
}

func TestSendInvoice(t *testing.T) {
	ctx := context.Background()
	clk := newFakeClock()
	store := acmeStore()
	store.invoices = []domain.Invoice{{
		ID: "inv-1", ClientID: "acme", Number: "F-001",
		Status:  domain.InvoiceDraft,
		DueDate: clk.now.AddDate(0, 0, 30),
		VATRate: 21,
		Items:   []domain.LineItem{{Quantity: 1, UnitPrice: 100}},
	}}
	mailer := &fakeMailer{}
	inv := newInvoicing(store, mailer, clk)

	err := inv.Send(ctx, SendInvoiceParams{
		InvoiceID: "inv-1",
		To:        "billing@acme.test",
		PDFBase64: "JVBERi0=",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	if len(mailer.sent) != 1 {
		t.Fatalf("sent emails = %d, want 1", len(mailer.sent))
	}
	email := mailer.sent[0]
	if email.Subject != "Factuur F-001" {
		t.Fatalf("subject = %q, want default", email.Subject)
	}
	if email.To[0] != "billing@acme.test" {
		t.Fatalf("recipient = %q", email.To[0])
	}
	if !strings.Contains(email.Text, "Beste Acme,") {
		t.Fatalf("text greeting missing: %q", email.Text)
	}
	if !strings.Contains(email.Text, "€ 100,00 exclusief btw") {
		t.Fatalf("text amount missing: %q", email.Text)
	}
	if len(email.Attachments) != 1 || email.Attachments[0].Filename != "factuur-F-001.pdf" {
		t.Fatalf("attachments = %+v", email.Attachments)
	}

	if store.invoices[0].Status != domain.InvoiceSent {
		t.Fatalf("status after send = %q, want sent", store.invoices[0].Status)
	}
}

func TestSendInvoiceMailerFailureKeepsDraft(t *testing.T) {
	ctx := context.Background()
	store := acmeStore()
	store.invoices = []domain.Invoice{{
		ID: "inv-1", ClientID: "acme", Number: "F-001",
		Status: domain.InvoiceDraft,
	}}
	mailer := &fakeMailer{err: errors.New("provider down")}
	inv := newInvoicing(store, mailer, newFakeClock())

	err := inv.Send(ctx, SendInvoiceParams{InvoiceID: "inv-1", To: "billing@acme.test"})
	if err == nil {
		t.Fatal("Send with failing mailer returned nil error")
	}
	if store.invoices[0].Status != domain.InvoiceDraft {
		t.Fatalf("status = %q, want draft untouched", store.invoices[0].Status)
	}
}

func TestSendInvoiceUnknownClientFallback(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{invoices: []domain.Invoice{{
		ID: "inv-1", ClientID: "verdwenen", Number: "F-001",
		Status: domain.InvoiceDraft,
	}}}
	mailer := &fakeMailer{}
	inv := newInvoicing(store, mailer, newFakeClock())

	if err := inv.Send(ctx, SendInvoiceParams{InvoiceID: "inv-1", To: "iemand@example.com"}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if !strings.Contains(mailer.sent[0].Text, "Beste "+domain.UnknownClientName+",") {
		t.Fatalf("greeting = %q, want unknown-client fallback", mailer.sent[0].Text)
	}
}
