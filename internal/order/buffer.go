package order

import (
	"errors"
	"fmt"
	"sync"

	"github.com/shiven-c1/bill-software/internal/catalog"
)

// Line is a requested (product, quantity) pair held in a buffer. Nothing is
// persisted until the billing engine commits the buffer.
type Line struct {
	ProductID uint `json:"product_id"`
	Qty       int  `json:"qty"`
}

// SnapshotLine is a display view of a buffer entry priced from the current
// catalog. The committed price is captured independently at commit time.
type SnapshotLine struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Qty       int     `json:"qty"`
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal"`
}

// Buffer is the in-memory order of one sales channel (the walk-in cart or a
// table). Entries keep insertion order. The stock check in Add is advisory:
// the authoritative check happens inside the commit transaction.
type Buffer struct {
	mu      sync.Mutex
	catalog *catalog.Store
	lines   []Line
}

func NewBuffer(cat *catalog.Store) *Buffer {
	return &Buffer{catalog: cat}
}

// Add inserts a request or increments an existing one. It re-reads current
// stock and rejects the mutation if the resulting requested quantity for the
// product would exceed it.
func (b *Buffer) Add(productID uint, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("%w: quantity must be positive", catalog.ErrInvalidArgument)
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	p, err := b.catalog.Get(productID)
	if err != nil {
		return err
	}
	requested := qty
	idx := -1
	for i, l := range b.lines {
		if l.ProductID == productID {
			requested += l.Qty
			idx = i
			break
		}
	}
	if requested > p.Stock {
		return &catalog.InsufficientStockError{ProductID: productID, Available: p.Stock, Requested: requested}
	}
	if idx >= 0 {
		b.lines[idx].Qty = requested
	} else {
		b.lines = append(b.lines, Line{ProductID: productID, Qty: qty})
	}
	return nil
}

// Remove deletes the entry for a product. Removing an absent product is a
// no-op.
func (b *Buffer) Remove(productID uint) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, l := range b.lines {
		if l.ProductID == productID {
			b.lines = append(b.lines[:i], b.lines[i+1:]...)
			return
		}
	}
}

// Clear empties the buffer.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = nil
}

func (b *Buffer) IsEmpty() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.lines) == 0
}

func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.lines)
}

// Lines returns a copy of the buffered requests in insertion order.
func (b *Buffer) Lines() []Line {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Line, len(b.lines))
	copy(out, b.lines)
	return out
}

// Snapshot prices every entry from the current catalog for display. A
// referenced product that has been deleted since insertion surfaces as a
// ProductVanishedError.
func (b *Buffer) Snapshot() ([]SnapshotLine, error) {
	lines := b.Lines()
	out := make([]SnapshotLine, 0, len(lines))
	for _, l := range lines {
		p, err := b.catalog.Get(l.ProductID)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				return nil, &catalog.ProductVanishedError{ProductID: l.ProductID}
			}
			return nil, err
		}
		out = append(out, SnapshotLine{
			ProductID: l.ProductID,
			Name:      p.Name,
			Qty:       l.Qty,
			UnitPrice: p.Price,
			Subtotal:  float64(l.Qty) * p.Price,
		})
	}
	return out, nil
}

// Total sums the snapshot subtotals.
func (b *Buffer) Total() (float64, error) {
	snap, err := b.Snapshot()
	if err != nil {
		return 0, err
	}
	var total float64
	for _, l := range snap {
		total += l.Subtotal
	}
	return total, nil
}
