package order

import (
	"errors"
	"fmt"
	"sync"

	"github.com/shiven-c1/bill-software/internal/catalog"
)

// TableState is the lifecycle stage of a table channel.
type TableState int

const (
	Idle TableState = iota
	Ordering
	Ready
	Served
)

func (s TableState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Ordering:
		return "ordering"
	case Ready:
		return "ready"
	case Served:
		return "served"
	default:
		return "unknown"
	}
}

// ErrBadTransition is returned for a staff transition that does not apply to
// the table's current state.
var ErrBadTransition = errors.New("invalid table transition")

// Table is one restaurant-table channel. Its visible state is derived: an
// empty buffer always reads as Idle, so the idle invariant holds no matter
// which path (clear, commit) emptied the buffer.
type Table struct {
	mu     sync.Mutex
	number int
	stage  TableState
	buffer *Buffer
}

func (t *Table) Number() int     { return t.number }
func (t *Table) Buffer() *Buffer { return t.buffer }

// State reports Idle whenever the buffer is empty; otherwise the stored
// stage (Ordering, Ready or Served).
func (t *Table) State() TableState {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.buffer.IsEmpty() {
		return Idle
	}
	return t.stage
}

func (t *Table) IsIdle() bool { return t.State() == Idle }

// Add forwards to the table's buffer. The first successful add on an empty
// table opens it: the stage becomes Ordering.
func (t *Table) Add(productID uint, qty int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	wasEmpty := t.buffer.IsEmpty()
	if err := t.buffer.Add(productID, qty); err != nil {
		return err
	}
	if wasEmpty {
		t.stage = Ordering
	}
	return nil
}

func (t *Table) Remove(productID uint) {
	t.buffer.Remove(productID)
}

// Clear empties the buffer and returns the table to Idle without recording a
// sale.
func (t *Table) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buffer.Clear()
	t.stage = Idle
}

// MarkReady advances Ordering -> Ready. Display-only; it does not gate
// billing.
func (t *Table) MarkReady() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.buffer.IsEmpty() || t.stage != Ordering {
		return fmt.Errorf("%w: table %d is not in ordering", ErrBadTransition, t.number)
	}
	t.stage = Ready
	return nil
}

// MarkServed advances Ready -> Served. Display-only.
func (t *Table) MarkServed() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.buffer.IsEmpty() || t.stage != Ready {
		return fmt.Errorf("%w: table %d is not ready", ErrBadTransition, t.number)
	}
	t.stage = Served
	return nil
}

// TableStatus is a row of the table-grid display.
type TableStatus struct {
	Number int     `json:"number"`
	State  string  `json:"state"`
	Items  int     `json:"items"`
	Total  float64 `json:"total"`
}

// Board holds the fixed set of table channels, numbered 1..N.
type Board struct {
	tables []*Table
}

func NewBoard(cat *catalog.Store, n int) *Board {
	b := &Board{tables: make([]*Table, n)}
	for i := range b.tables {
		b.tables[i] = &Table{number: i + 1, buffer: NewBuffer(cat)}
	}
	return b
}

func (b *Board) Size() int { return len(b.tables) }

// Table returns the channel for a table number in 1..N.
func (b *Board) Table(number int) (*Table, error) {
	if number < 1 || number > len(b.tables) {
		return nil, fmt.Errorf("%w: table number %d out of range 1..%d",
			catalog.ErrInvalidArgument, number, len(b.tables))
	}
	return b.tables[number-1], nil
}

func (b *Board) State(number int) (TableState, error) {
	t, err := b.Table(number)
	if err != nil {
		return Idle, err
	}
	return t.State(), nil
}

func (b *Board) IsIdle(number int) (bool, error) {
	t, err := b.Table(number)
	if err != nil {
		return false, err
	}
	return t.IsIdle(), nil
}

// Snapshot renders the whole board for the table grid. Totals are priced
// from the current catalog; a vanished product fails the snapshot so the
// grid never shows a made-up total.
func (b *Board) Snapshot() ([]TableStatus, error) {
	out := make([]TableStatus, 0, len(b.tables))
	for _, t := range b.tables {
		total, err := t.buffer.Total()
		if err != nil {
			return nil, err
		}
		out = append(out, TableStatus{
			Number: t.number,
			State:  t.State().String(),
			Items:  t.buffer.Len(),
			Total:  total,
		})
	}
	return out, nil
}
