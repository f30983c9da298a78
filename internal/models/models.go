package models

import "time"

// Product is a catalog row. Name is unique; price and stock are kept
// non-negative by the catalog store and enforced again at the schema level.
type Product struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;unique" json:"name"`
	Price     float64   `gorm:"not null;check:price >= 0" json:"price"`
	Stock     int       `gorm:"not null;check:stock >= 0" json:"stock"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Sale is an immutable committed bill. Total always equals the sum of its
// lines' subtotals; both are written in the same transaction and never
// recomputed afterwards.
type Sale struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
	Total     float64    `gorm:"not null" json:"total"`
	Lines     []SaleLine `gorm:"foreignKey:SaleID" json:"lines,omitempty"`
}

// SaleLine carries a snapshot of the product (name, unit price) taken at
// commit time. ProductID is informational only: there is no foreign key to
// products, so deleting a product leaves sale history intact.
type SaleLine struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	SaleID      uint    `gorm:"not null;index" json:"sale_id"`
	ProductID   uint    `gorm:"not null" json:"product_id"`
	ProductName string  `gorm:"not null" json:"product_name"`
	Qty         int     `gorm:"not null" json:"qty"`
	UnitPrice   float64 `gorm:"not null" json:"unit_price"`
	Subtotal    float64 `gorm:"not null" json:"subtotal"`
}
