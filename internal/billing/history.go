package billing

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/shiven-c1/bill-software/internal/catalog"
	"github.com/shiven-c1/bill-software/internal/models"
)

// DefaultRecentLimit bounds ListRecentSales when the caller passes no limit.
const DefaultRecentLimit = 50

// GetSale returns a committed sale without its lines.
func (e *Engine) GetSale(id uint) (*models.Sale, error) {
	var sale models.Sale
	if err := e.DB.First(&sale, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: sale %d", catalog.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: load sale %d: %v", catalog.ErrStorage, id, err)
	}
	return &sale, nil
}

// ListRecentSales returns committed sales newest first.
func (e *Engine) ListRecentSales(limit int) ([]models.Sale, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	var sales []models.Sale
	if err := e.DB.Order("id desc").Limit(limit).Find(&sales).Error; err != nil {
		return nil, fmt.Errorf("%w: list sales: %v", catalog.ErrStorage, err)
	}
	return sales, nil
}

// GetLines returns the line items of a sale in insertion order. The lines
// carry their own product-name and price snapshots, so they render the same
// whether or not the product still exists.
func (e *Engine) GetLines(saleID uint) ([]models.SaleLine, error) {
	if _, err := e.GetSale(saleID); err != nil {
		return nil, err
	}
	var lines []models.SaleLine
	if err := e.DB.Where("sale_id = ?", saleID).Order("id asc").Find(&lines).Error; err != nil {
		return nil, fmt.Errorf("%w: list sale lines: %v", catalog.ErrStorage, err)
	}
	return lines, nil
}
