// Package respond centralizes how handlers report success and failure:
// JSON for data reads, HX-Trigger events for mutations.
package respond

import (
	"errors"
	"net/http"

	"github.com/angelofallars/htmx-go"

	"github.com/vjamst/meestercrm/app/event"
	"github.com/vjamst/meestercrm/internal/domain"
	"github.com/vjamst/meestercrm/pkg/supabase"
)

// Err writes an error response with the set-err-message trigger, mapping
// the error taxonomy to a status code: validation and empty-invoice
// errors are the client's fault, timer state conflicts are 409, a
// rejected store key is 401, everything else is a server-side failure.
func Err(w http.ResponseWriter, err error) {
	_ = htmx.NewResponse().
		StatusCode(statusCode(err)).
		Reswap(htmx.SwapNone).
		AddTrigger(event.TriggerSetErrMessage(err.Error())).
		Write(w)
}

func statusCode(err error) int {
	switch {
	case domain.IsValidation(err), errors.Is(err, domain.ErrEmptyInvoice):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrTimerRunning), errors.Is(err, domain.ErrTimerNotRunning):
		return http.StatusConflict
	case errors.Is(err, supabase.ErrInvalidKey):
		return http.StatusUnauthorized
	case errors.Is(err, supabase.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// OK acknowledges a mutation: a toast, a cleared error message and a
// refresh-data event so the affected views reload their collections.
func OK(w http.ResponseWriter, toast string) {
	_ = htmx.NewResponse().
		Reswap(htmx.SwapNone).
		AddTrigger(
			event.TriggerShowToast(toast),
			event.TriggerSetErrMessage(""),
			event.TriggerRefreshData,
		).
		Write(w)
}
