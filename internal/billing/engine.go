package billing

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shiven-c1/bill-software/internal/catalog"
	"github.com/shiven-c1/bill-software/internal/models"
	"github.com/shiven-c1/bill-software/internal/order"
)

var (
	// ErrEmptyOrder rejects a commit of a buffer with no entries.
	ErrEmptyOrder = errors.New("empty order")
	// ErrConflict reports a commit that lost the race against a concurrent
	// commit touching the same stock. The caller may retry against fresh
	// data; the engine never retries on its own.
	ErrConflict = errors.New("commit conflict")
)

// Engine is the single write path into sales history. Commit turns a buffer
// into a Sale with line items and decrements stock, all inside one database
// transaction.
type Engine struct {
	DB *gorm.DB
}

func NewEngine(db *gorm.DB) *Engine { return &Engine{DB: db} }

// Commit validates the buffer against current stock, persists the sale and
// its lines, and decrements stock — all or nothing. Prices are re-read
// inside the transaction; insertion-time prices are display estimates only.
// On success the source buffer is cleared and the sale returned with lines.
func (e *Engine) Commit(buf *order.Buffer) (*models.Sale, error) {
	lines := buf.Lines()
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}

	var sale models.Sale
	err := e.DB.Transaction(func(tx *gorm.DB) error {
		saleLines := make([]models.SaleLine, 0, len(lines))
		var total float64
		for _, l := range lines {
			var p models.Product
			if err := tx.First(&p, l.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &catalog.ProductVanishedError{ProductID: l.ProductID}
				}
				return fmt.Errorf("%w: read product %d: %v", catalog.ErrStorage, l.ProductID, err)
			}
			if l.Qty > p.Stock {
				return &catalog.InsufficientStockError{
					ProductID: l.ProductID,
					Available: p.Stock,
					Requested: l.Qty,
				}
			}
			subtotal := float64(l.Qty) * p.Price
			total += subtotal
			saleLines = append(saleLines, models.SaleLine{
				ProductID:   p.ID,
				ProductName: p.Name,
				Qty:         l.Qty,
				UnitPrice:   p.Price,
				Subtotal:    subtotal,
			})
		}

		sale = models.Sale{CreatedAt: time.Now(), Total: total}
		if err := tx.Create(&sale).Error; err != nil {
			return fmt.Errorf("%w: create sale: %v", catalog.ErrStorage, err)
		}
		for i := range saleLines {
			saleLines[i].SaleID = sale.ID
		}
		if err := tx.Create(&saleLines).Error; err != nil {
			return fmt.Errorf("%w: create sale lines: %v", catalog.ErrStorage, err)
		}

		// The conditional decrement is the serialization point between
		// concurrent commits: if another transaction consumed the stock
		// after the validation read above, zero rows match and the whole
		// transaction rolls back.
		for _, l := range lines {
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", l.ProductID, l.Qty).
				Update("stock", gorm.Expr("stock - ?", l.Qty))
			if res.Error != nil {
				return fmt.Errorf("%w: decrement stock for product %d: %v",
					catalog.ErrStorage, l.ProductID, res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: stock for product %d changed during commit",
					ErrConflict, l.ProductID)
			}
		}

		sale.Lines = saleLines
		return nil
	})
	if err != nil {
		return nil, err
	}

	buf.Clear()
	return &sale, nil
}
