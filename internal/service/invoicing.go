package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vjamst/meestercrm/internal/calendar"
	"github.com/vjamst/meestercrm/internal/clock"
	"github.com/vjamst/meestercrm/internal/domain"
	"github.com/vjamst/meestercrm/internal/invoice"
	"github.com/vjamst/meestercrm/internal/money"
	"github.com/vjamst/meestercrm/pkg/resend"
)

type InvoicingStore interface {
	ListClients(ctx context.Context) ([]domain.Client, error)
	GetClient(ctx context.Context, id string) (domain.Client, error)
	ListTimeEntries(ctx context.Context) ([]domain.TimeEntry, error)
	MarkEntriesBilled(ctx context.Context, ids []string) error
	ListInvoices(ctx context.Context) ([]domain.Invoice, error)
	GetInvoice(ctx context.Context, id string) (domain.Invoice, error)
	InsertInvoice(ctx context.Context, inv domain.Invoice) error
	UpdateInvoiceStatus(ctx context.Context, id string, status domain.InvoiceStatus) error
	DeleteInvoice(ctx context.Context, id string) error
}

// Mailer sends a composed email and returns the provider message id.
type Mailer interface {
	Send(ctx context.Context, email resend.Email) (string, error)
}

type Invoicing interface {
	List(ctx context.Context) ([]InvoiceView, error)
	Create(ctx context.Context, params CreateInvoiceParams) (domain.Invoice, error)
	CreateFromEntries(ctx context.Context, clientID string, entryIDs []string) (domain.Invoice, error)
	UpdateStatus(ctx context.Context, id string, status domain.InvoiceStatus) error
	Delete(ctx context.Context, id string) error
	Send(ctx context.Context, params SendInvoiceParams) error
}

type invoicing struct {
	store     InvoicingStore
	mailer    Mailer
	clock     clock.Clock
	fromEmail string
}

func NewInvoicing(store InvoicingStore, mailer Mailer, clk clock.Clock, fromEmail string) *invoicing {
	return &invoicing{
		store:     store,
		mailer:    mailer,
		clock:     clk,
		fromEmail: fromEmail,
	}
}

// InvoiceView is the invoice table row: stored fields plus the derived
// totals and the display status, which substitutes "vervallen" for sent
// invoices past their due date.
type InvoiceView struct {
	ID          string  `json:"id"`
	Number      string  `json:"number"`
	ClientName  string  `json:"clientName"`
	IssueDate   string  `json:"issueDate"`
	DueDate     string  `json:"dueDate"`
	Status      string  `json:"status"`
	StatusLabel string  `json:"statusLabel"`
	Subtotal    float64 `json:"subtotal"`
	VATAmount   float64 `json:"vatAmount"`
	Total       float64 `json:"total"`
	TotalText   string  `json:"totalText"`
	ItemCount   int     `json:"itemCount"`
}

func (s *invoicing) List(ctx context.Context) ([]InvoiceView, error) {
	invoices, err := s.store.ListInvoices(ctx)
	if err != nil {
		return nil, err
	}
	clients, err := s.store.ListClients(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	views := make([]InvoiceView, 0, len(invoices))
	for _, inv := range invoices {
		totals := invoice.ComputeTotals(inv)
		status, label := displayStatus(inv, now)
		views = append(views, InvoiceView{
			ID:          inv.ID,
			Number:      inv.Number,
			ClientName:  domain.ClientName(clients, inv.ClientID),
			IssueDate:   calendar.FormatDate(inv.IssueDate),
			DueDate:     calendar.FormatDate(inv.DueDate),
			Status:      status,
			StatusLabel: label,
			Subtotal:    totals.Subtotal,
			VATAmount:   totals.VATAmount,
			Total:       totals.Total,
			TotalText:   money.Format(totals.Total),
			ItemCount:   len(inv.Items),
		})
	}
	return views, nil
}

// displayStatus maps a stored status to its display form. "overdue" only
// exists here: it is derived from the due date, never written back.
func displayStatus(inv domain.Invoice, now time.Time) (status, label string) {
	if inv.Overdue(now) {
		return "overdue", "Vervallen"
	}
	switch inv.Status {
	case domain.InvoiceDraft:
		return string(inv.Status), "Concept"
	case domain.InvoiceSent:
		return string(inv.Status), "Verzonden"
	case domain.InvoicePaid:
		return string(inv.Status), "Betaald"
	default:
		return string(inv.Status), string(inv.Status)
	}
}

type CreateInvoiceParams struct {
	ClientID  string
	Number    string
	IssueDate time.Time
	DueDate   time.Time
	VATRate   string
	Notes     string
	Items     []LineItemParams
}

// LineItemParams carries raw form values; numeric coercion is the
// assembler's lenient policy, not the handler's.
type LineItemParams struct {
	Description   string
	Quantity      string
	UnitPrice     string
	SourceEntryID string
}

func (s *invoicing) Create(ctx context.Context, params CreateInvoiceParams) (domain.Invoice, error) {
	if params.ClientID == "" {
		return domain.Invoice{}, domain.Invalid("client", "a client is required")
	}
	if len(params.Items) == 0 {
		return domain.Invoice{}, domain.ErrEmptyInvoice
	}

	now := s.clock.Now()
	number := strings.TrimSpace(params.Number)
	if number == "" {
		number = invoice.NewNumber(now)
	}
	issueDate := params.IssueDate
	if issueDate.IsZero() {
		issueDate = now
	}
	vatRate := float64(invoice.DefaultVATRate)
	if strings.TrimSpace(params.VATRate) != "" {
		vatRate = invoice.CoerceNumber(params.VATRate)
	}

	inv := domain.Invoice{
		ID:        uuid.NewString(),
		ClientID:  params.ClientID,
		Number:    number,
		IssueDate: issueDate,
		DueDate:   params.DueDate,
		Status:    domain.InvoiceDraft,
		VATRate:   vatRate,
		Notes:     params.Notes,
	}
	for _, item := range params.Items {
		invoice.AppendItem(&inv, item.Description, item.Quantity, item.UnitPrice, item.SourceEntryID)
	}

	if err := s.store.InsertInvoice(ctx, inv); err != nil {
		return domain.Invoice{}, err
	}
	return inv, nil
}

// CreateFromEntries builds a draft invoice from the client's unbilled
// billable entries and marks them billed afterwards, so converting the
// same week twice does not double-bill.
func (s *invoicing) CreateFromEntries(ctx context.Context, clientID string, entryIDs []string) (domain.Invoice, error) {
	if clientID == "" {
		return domain.Invoice{}, domain.Invalid("client", "a client is required")
	}

	entries, err := s.store.ListTimeEntries(ctx)
	if err != nil {
		return domain.Invoice{}, err
	}

	wanted := map[string]bool{}
	for _, id := range entryIDs {
		wanted[id] = true
	}

	selected := []domain.TimeEntry{}
	for _, entry := range entries {
		if entry.ClientID != clientID || !entry.Billable || entry.Billed {
			continue
		}
		if len(entryIDs) > 0 && !wanted[entry.ID] {
			continue
		}
		selected = append(selected, entry)
	}
	if len(selected) == 0 {
		return domain.Invoice{}, domain.ErrEmptyInvoice
	}

	clients, err := s.store.ListClients(ctx)
	if err != nil {
		return domain.Invoice{}, err
	}
	clientRate := func(id string) float64 {
		for _, c := range clients {
			if c.ID == id {
				return c.HourlyRate
			}
		}
		return 0
	}

	now := s.clock.Now()
	inv := domain.Invoice{
		ID:        uuid.NewString(),
		ClientID:  clientID,
		Number:    invoice.NewNumber(now),
		IssueDate: now,
		DueDate:   now.AddDate(0, 0, 30),
		Status:    domain.InvoiceDraft,
		VATRate:   invoice.DefaultVATRate,
		Items:     invoice.FromTimeEntries(selected, clientRate),
	}

	if err := s.store.InsertInvoice(ctx, inv); err != nil {
		return domain.Invoice{}, err
	}

	billedIDs := make([]string, 0, len(selected))
	for _, entry := range selected {
		billedIDs = append(billedIDs, entry.ID)
	}
	if err := s.store.MarkEntriesBilled(ctx, billedIDs); err != nil {
		return inv, fmt.Errorf("invoice %s saved, but marking entries billed failed: %w", inv.Number, err)
	}
	return inv, nil
}

func (s *invoicing) UpdateStatus(ctx context.Context, id string, status domain.InvoiceStatus) error {
	switch status {
	case domain.InvoiceDraft, domain.InvoiceSent, domain.InvoicePaid:
		return s.store.UpdateInvoiceStatus(ctx, id, status)
	default:
		return domain.Invalid("status", fmt.Sprintf("unknown invoice status %q", status))
	}
}

func (s *invoicing) Delete(ctx context.Context, id string) error {
	if id == "" {
		return domain.Invalid("invoice", "an invoice id is required")
	}
	return s.store.DeleteInvoice(ctx, id)
}

type SendInvoiceParams struct {
	InvoiceID string
	To        string
	Subject   string
	Message   string
	PDFBase64 string
	Filename  string
}

// Send mails an invoice to its recipient and moves it to sent. The PDF
// attachment, when present, is passed through as rendered by the caller.
func (s *invoicing) Send(ctx context.Context, params SendInvoiceParams) error {
	if params.InvoiceID == "" {
		return domain.Invalid("invoice", "an invoice id is required")
	}
	if params.To == "" {
		return domain.Invalid("recipient", "a recipient address is required")
	}

	inv, err := s.store.GetInvoice(ctx, params.InvoiceID)
	if err != nil {
		return err
	}
	client, err := s.store.GetClient(ctx, inv.ClientID)
	if err != nil {
		client = domain.Client{Name: domain.UnknownClientName}
	}

	subject := params.Subject
	if subject == "" {
		subject = "Factuur " + inv.Number
	}

	email := resend.Email{
		From:    s.fromEmail,
		To:      []string{params.To},
		Subject: subject,
		HTML:    invoiceEmailHTML(inv, client, params.Message),
		Text:    invoiceEmailText(inv, client, params.Message),
	}
	if params.PDFBase64 != "" {
		filename := params.Filename
		if filename == "" {
			filename = fmt.Sprintf("factuur-%s.pdf", inv.Number)
		}
		email.Attachments = []resend.Attachment{{Filename: filename, Content: params.PDFBase64}}
	}

	if _, err := s.mailer.Send(ctx, email); err != nil {
		return fmt.Errorf("send invoice %s: %w", inv.Number, err)
	}

	if inv.Status == domain.InvoiceDraft {
		if err := s.store.UpdateInvoiceStatus(ctx, inv.ID, domain.InvoiceSent); err != nil {
			return fmt.Errorf("invoice %s mailed, but updating status failed: %w", inv.Number, err)
		}
	}
	return nil
}

func invoiceEmailText(inv domain.Invoice, client domain.Client, message string) string {
	greeting := message
	if greeting == "" {
		greeting = fmt.Sprintf("Beste %s,\n\nIn de bijlage vind je factuur %s.", client.Name, inv.Number)
	}
	totals := invoice.ComputeTotals(inv)
	dueDate := calendar.FormatDate(inv.DueDate)
	if dueDate == "" {
		dueDate = "n.v.t."
	}
	lines := []string{
		greeting,
		"Factuur: " + inv.Number,
		"Bedrag: " + money.Format(totals.Subtotal) + " exclusief btw",
		"Vervaldatum: " + dueDate,
		"\nMet vriendelijke groet,\nMeesterCRM",
	}
	return strings.Join(lines, "\n")
}

func invoiceEmailHTML(inv domain.Invoice, client domain.Client, message string) string {
	greeting := strings.ReplaceAll(message, "\n", "<br />")
	if greeting == "" {
		greeting = fmt.Sprintf("Beste %s,<br /><br />In de bijlage vind je factuur %s.", client.Name, inv.Number)
	}
	totals := invoice.ComputeTotals(inv)
	dueDate := calendar.FormatDate(inv.DueDate)
	if dueDate == "" {
		dueDate = "n.v.t."
	}
	return fmt.Sprintf(`<div style="font-family: Inter, Arial, sans-serif; color:#0f172a;">
  <p>%s</p>
  <p>
    <strong>Factuur:</strong> %s<br />
    <strong>Bedrag:</strong> %s exclusief btw<br />
    <strong>Vervaldatum:</strong> %s
  </p>
  <p>Met vriendelijke groet,<br />MeesterCRM</p>
</div>`, greeting, inv.Number, money.Format(totals.Subtotal), dueDate)
}
