package order

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shiven-c1/bill-software/internal/catalog"
)

// Channels resolves channel names to their buffers. The walk-in cart is the
// singleton channel "cart"; tables are addressed as "table/1".."table/N".
// Every operation takes the explicit channel name — nothing is inferred from
// display state.
type Channels struct {
	Cart  *Buffer
	Board *Board
}

func NewChannels(cat *catalog.Store, tableCount int) *Channels {
	return &Channels{
		Cart:  NewBuffer(cat),
		Board: NewBoard(cat, tableCount),
	}
}

// Resolve returns the buffer behind a channel name and, for table channels,
// the table itself (nil for the cart).
func (c *Channels) Resolve(name string) (*Buffer, *Table, error) {
	name = strings.TrimSpace(name)
	if name == "cart" {
		return c.Cart, nil, nil
	}
	if rest, ok := strings.CutPrefix(name, "table/"); ok {
		n, err := strconv.Atoi(rest)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: bad table number %q", catalog.ErrInvalidArgument, rest)
		}
		t, err := c.Board.Table(n)
		if err != nil {
			return nil, nil, err
		}
		return t.Buffer(), t, nil
	}
	return nil, nil, fmt.Errorf("%w: unknown channel %q", catalog.ErrInvalidArgument, name)
}

// Add appends to a channel. Table adds go through the table so the first
// item opens it (Idle -> Ordering).
func (c *Channels) Add(name string, productID uint, qty int) error {
	buf, table, err := c.Resolve(name)
	if err != nil {
		return err
	}
	if table != nil {
		return table.Add(productID, qty)
	}
	return buf.Add(productID, qty)
}

// Remove drops a product from a channel.
func (c *Channels) Remove(name string, productID uint) error {
	buf, table, err := c.Resolve(name)
	if err != nil {
		return err
	}
	if table != nil {
		table.Remove(productID)
		return nil
	}
	buf.Remove(productID)
	return nil
}

// Clear abandons a channel's order without recording a sale; a table channel
// returns to Idle.
func (c *Channels) Clear(name string) error {
	buf, table, err := c.Resolve(name)
	if err != nil {
		return err
	}
	if table != nil {
		table.Clear()
		return nil
	}
	buf.Clear()
	return nil
}
