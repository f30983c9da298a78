package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shiven-c1/bill-software/internal/billing"
	"github.com/shiven-c1/bill-software/internal/catalog"
	"github.com/shiven-c1/bill-software/internal/order"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	var body []byte
	var err error
	if payload != nil {
		body, err = json.Marshal(payload)
		if err != nil {
			// best-effort error response; avoid writing partial JSON
			http.Error(w, `{"error":"encode_error"}`, http.StatusInternalServerError)
			return
		}
	} else {
		body = []byte("null")
	}
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		_ = err
	}
}

func JSONError(w http.ResponseWriter, status int, msg string, details any) {
	JSON(w, status, ErrorResponse{Error: msg, Details: details})
}

// DomainError maps core errors onto stable HTTP codes. Callers may still
// handle specific errors before falling back to this.
func DomainError(w http.ResponseWriter, err error) {
	var stockErr *catalog.InsufficientStockError
	var vanished *catalog.ProductVanishedError
	switch {
	case errors.As(err, &stockErr):
		JSONError(w, http.StatusConflict, "insufficient_stock", map[string]any{
			"product_id": stockErr.ProductID,
			"available":  stockErr.Available,
			"requested":  stockErr.Requested,
		})
	case errors.As(err, &vanished):
		JSONError(w, http.StatusNotFound, "product_vanished", map[string]any{
			"product_id": vanished.ProductID,
		})
	case errors.Is(err, catalog.ErrInvalidArgument):
		JSONError(w, http.StatusBadRequest, "invalid_argument", err.Error())
	case errors.Is(err, catalog.ErrNotFound):
		JSONError(w, http.StatusNotFound, "not_found", nil)
	case errors.Is(err, catalog.ErrDuplicateName):
		JSONError(w, http.StatusConflict, "name_already_exists", nil)
	case errors.Is(err, billing.ErrEmptyOrder):
		JSONError(w, http.StatusUnprocessableEntity, "empty_order", nil)
	case errors.Is(err, billing.ErrConflict):
		JSONError(w, http.StatusConflict, "commit_conflict", nil)
	case errors.Is(err, order.ErrBadTransition):
		JSONError(w, http.StatusConflict, "invalid_transition", nil)
	default:
		JSONError(w, http.StatusInternalServerError, "storage_error", nil)
	}
}
