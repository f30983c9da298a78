package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/shiven-c1/bill-software/internal/httpx"
	"github.com/shiven-c1/bill-software/internal/order"
	"github.com/shiven-c1/bill-software/internal/validation"
)

// OrderHandler exposes the per-channel order buffers and the table grid.
type OrderHandler struct {
	Channels *order.Channels
}

func NewOrderHandler(ch *order.Channels) *OrderHandler {
	return &OrderHandler{Channels: ch}
}

// View returns the display snapshot of a channel: lines priced from the
// current catalog plus the running total.
func (h *OrderHandler) View(w http.ResponseWriter, r *http.Request) {
	channel := r.URL.Query().Get("channel")
	buf, _, err := h.Channels.Resolve(channel)
	if err != nil {
		httpx.DomainError(w, err)
		return
	}
	lines, err := buf.Snapshot()
	if err != nil {
		httpx.DomainError(w, err)
		return
	}
	var total float64
	for _, l := range lines {
		total += l.Subtotal
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"channel": channel,
		"lines":   lines,
		"total":   total,
	})
}

func (h *OrderHandler) Add(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Channel   string `json:"channel"`
		ProductID uint   `json:"product_id"`
		Qty       int    `json:"qty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("channel", input.Channel, v)
	validation.PositiveInt("qty", input.Qty, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	if err := h.Channels.Add(input.Channel, input.ProductID, input.Qty); err != nil {
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"channel": input.Channel, "added": input.ProductID})
}

func (h *OrderHandler) Remove(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Channel   string `json:"channel"`
		ProductID uint   `json:"product_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if err := h.Channels.Remove(input.Channel, input.ProductID); err != nil {
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"channel": input.Channel, "removed": input.ProductID})
}

func (h *OrderHandler) Clear(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Channel string `json:"channel"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if err := h.Channels.Clear(input.Channel); err != nil {
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"channel": input.Channel, "cleared": true})
}

// Tables renders the table-grid display.
func (h *OrderHandler) Tables(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.Channels.Board.Snapshot()
	if err != nil {
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"tables": snapshot})
}

// MarkReady and MarkServed are staff display transitions; they never gate
// billing.
func (h *OrderHandler) MarkReady(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(t *order.Table) error { return t.MarkReady() })
}

func (h *OrderHandler) MarkServed(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(t *order.Table) error { return t.MarkServed() })
}

func (h *OrderHandler) transition(w http.ResponseWriter, r *http.Request, fn func(*order.Table) error) {
	var input struct {
		Table int `json:"table"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	t, err := h.Channels.Board.Table(input.Table)
	if err != nil {
		httpx.DomainError(w, err)
		return
	}
	if err := fn(t); err != nil {
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"table": input.Table, "state": t.State().String()})
}
