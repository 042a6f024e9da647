package invoice

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/vjamst/meestercrm/app/respond"
	"github.com/vjamst/meestercrm/internal/domain"
	"github.com/vjamst/meestercrm/internal/service"
)

type HandlerGroup struct {
	svc service.Invoicing
}

func NewHandlerGroup(svc service.Invoicing) *HandlerGroup {
	return &HandlerGroup{svc: svc}
}

func (hg *HandlerGroup) Mount(r chi.Router) {
	r.Route("/invoices", func(r chi.Router) {
		r.Get("/", hg.handleList)
		r.Post("/", hg.handleCreate)
		r.Post("/from-entries", hg.handleCreateFromEntries)
		r.Post("/{id}/status", hg.handleUpdateStatus)
		r.Post("/{id}/send", hg.handleSend)
		r.Delete("/{id}", hg.handleDelete)
	})
}

func (hg *HandlerGroup) handleList(w http.ResponseWriter, r *http.Request) {
	invoices, err := hg.svc.List(r.Context())
	if err != nil {
		respond.Err(w, err)
		return
	}
	render.JSON(w, r, invoices)
}

type CreateInvoiceRequest struct {
	ClientID  string `form:"client-id"`
	Number    string `form:"number"`
	IssueDate string `form:"issue-date"`
	DueDate   string `form:"due-date"`
	VATRate   string `form:"vat-rate"`
	Notes     string `form:"notes"`

	ItemDescriptions []string `form:"item-description"`
	ItemQuantities   []string `form:"item-quantity"`
	ItemUnitPrices   []string `form:"item-unit-price"`
	ItemSourceIDs    []string `form:"item-source-id"`

	issueDate time.Time
	dueDate   time.Time
}

const dateOnly = "2006-01-02"

// CreateInvoiceRequest satisfies [render.Binder]. Dates must parse when
// present; the item columns must line up. Numeric item values are left
// raw on purpose: coercion is the assembler's policy.
func (req *CreateInvoiceRequest) Bind(r *http.Request) error {
	if req.ClientID == "" {
		return errors.New("Select a client for the invoice.")
	}
	if len(req.ItemQuantities) != len(req.ItemDescriptions) || len(req.ItemUnitPrices) != len(req.ItemDescriptions) {
		return errors.New("Invoice line item fields are mismatched.")
	}

	var err error
	if req.IssueDate != "" {
		if req.issueDate, err = time.ParseInLocation(dateOnly, req.IssueDate, time.Local); err != nil {
			return fmt.Errorf("Invalid issue date: %s", req.IssueDate)
		}
	}
	if req.DueDate != "" {
		if req.dueDate, err = time.ParseInLocation(dateOnly, req.DueDate, time.Local); err != nil {
			return fmt.Errorf("Invalid due date: %s", req.DueDate)
		}
	}
	return nil
}

func (req *CreateInvoiceRequest) toParams() service.CreateInvoiceParams {
	params := service.CreateInvoiceParams{
		ClientID:  req.ClientID,
		Number:    req.Number,
		IssueDate: req.issueDate,
		DueDate:   req.dueDate,
		VATRate:   req.VATRate,
		Notes:     req.Notes,
	}
	for i, description := range req.ItemDescriptions {
		item := service.LineItemParams{
			Description: description,
			Quantity:    req.ItemQuantities[i],
			UnitPrice:   req.ItemUnitPrices[i],
		}
		if i < len(req.ItemSourceIDs) {
			item.SourceEntryID = req.ItemSourceIDs[i]
		}
		params.Items = append(params.Items, item)
	}
	return params
}

func (hg *HandlerGroup) handleCreate(w http.ResponseWriter, r *http.Request) {
	req := &CreateInvoiceRequest{}
	if err := render.Bind(r, req); err != nil {
		respond.Err(w, err)
		return
	}

	inv, err := hg.svc.Create(r.Context(), req.toParams())
	if err != nil {
		respond.Err(w, err)
		return
	}
	respond.OK(w, "Factuur "+inv.Number+" aangemaakt")
}

type FromEntriesRequest struct {
	ClientID string   `form:"client-id"`
	EntryIDs []string `form:"entry-id"`
}

// FromEntriesRequest satisfies [render.Binder]
func (req *FromEntriesRequest) Bind(r *http.Request) error {
	if req.ClientID == "" {
		return errors.New("Select a client to invoice.")
	}
	return nil
}

func (hg *HandlerGroup) handleCreateFromEntries(w http.ResponseWriter, r *http.Request) {
	req := &FromEntriesRequest{}
	if err := render.Bind(r, req); err != nil {
		respond.Err(w, err)
		return
	}

	inv, err := hg.svc.CreateFromEntries(r.Context(), req.ClientID, req.EntryIDs)
	if err != nil {
		respond.Err(w, err)
		return
	}
	respond.OK(w, fmt.Sprintf("Factuur %s aangemaakt met %d regels", inv.Number, len(inv.Items)))
}

type UpdateStatusRequest struct {
	Status string `form:"status"`
}

// UpdateStatusRequest satisfies [render.Binder]
func (req *UpdateStatusRequest) Bind(r *http.Request) error {
	if req.Status == "" {
		return errors.New("A status is required.")
	}
	return nil
}

func (hg *HandlerGroup) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	req := &UpdateStatusRequest{}
	if err := render.Bind(r, req); err != nil {
		respond.Err(w, err)
		return
	}

	id := chi.URLParam(r, "id")
	if err := hg.svc.UpdateStatus(r.Context(), id, domain.InvoiceStatus(req.Status)); err != nil {
		respond.Err(w, err)
		return
	}
	respond.OK(w, "Factuurstatus bijgewerkt")
}

type SendInvoiceRequest struct {
	To        string `form:"to"`
	Subject   string `form:"subject"`
	Message   string `form:"message"`
	PDFBase64 string `form:"pdf-base64"`
	Filename  string `form:"filename"`
}

// SendInvoiceRequest satisfies [render.Binder]
func (req *SendInvoiceRequest) Bind(r *http.Request) error {
	if req.To == "" {
		return errors.New("A recipient email address is required.")
	}
	return nil
}

func (hg *HandlerGroup) handleSend(w http.ResponseWriter, r *http.Request) {
	req := &SendInvoiceRequest{}
	if err := render.Bind(r, req); err != nil {
		respond.Err(w, err)
		return
	}

	err := hg.svc.Send(r.Context(), service.SendInvoiceParams{
		InvoiceID: chi.URLParam(r, "id"),
		To:        req.To,
		Subject:   req.Subject,
		Message:   req.Message,
		PDFBase64: req.PDFBase64,
		Filename:  req.Filename,
	})
	if err != nil {
		respond.Err(w, err)
		return
	}
	respond.OK(w, "Factuur verzonden naar "+req.To)
}

func (hg *HandlerGroup) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := hg.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respond.Err(w, err)
		return
	}
	respond.OK(w, "Factuur verwijderd")
}
