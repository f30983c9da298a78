package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/shiven-c1/bill-software/internal/billing"
	"github.com/shiven-c1/bill-software/internal/httpx"
	"github.com/shiven-c1/bill-software/internal/order"
)

// BillingHandler is the checkout path plus the read-only sales history used
// by report screens.
type BillingHandler struct {
	Engine   *billing.Engine
	Channels *order.Channels
}

func NewBillingHandler(engine *billing.Engine, ch *order.Channels) *BillingHandler {
	return &BillingHandler{Engine: engine, Channels: ch}
}

// Checkout commits a channel's buffer into a sale. On success the buffer is
// emptied and a table channel reads Idle again; the returned sale is what
// the caller hands to the invoice formatter.
func (h *BillingHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Channel string `json:"channel"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	buf, _, err := h.Channels.Resolve(input.Channel)
	if err != nil {
		httpx.DomainError(w, err)
		return
	}
	sale, err := h.Engine.Commit(buf)
	if err != nil {
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, sale)
}

func (h *BillingHandler) ListSales(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	sales, err := h.Engine.ListRecentSales(limit)
	if err != nil {
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": sales})
}

func (h *BillingHandler) GetSale(w http.ResponseWriter, r *http.Request) {
	id := queryID(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	sale, err := h.Engine.GetSale(id)
	if err != nil {
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, sale)
}

func (h *BillingHandler) GetLines(w http.ResponseWriter, r *http.Request) {
	id := queryID(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	lines, err := h.Engine.GetLines(id)
	if err != nil {
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"sale_id": id, "lines": lines})
}
