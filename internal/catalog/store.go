package catalog

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/shiven-c1/bill-software/internal/models"
)

// Store owns the product table. All catalog mutation funnels through it so
// the name-uniqueness and stock non-negativity invariants are enforced in one
// place.
type Store struct {
	DB *gorm.DB
}

func NewStore(db *gorm.DB) *Store { return &Store{DB: db} }

// Create inserts a new product and returns its id.
func (s *Store) Create(name string, price float64, stock int) (uint, error) {
	name = strings.TrimSpace(name)
	if err := validate(name, price, stock); err != nil {
		return 0, err
	}
	var count int64
	if err := s.DB.Model(&models.Product{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return 0, storageFault("count products", err)
	}
	if count > 0 {
		return 0, fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	p := models.Product{Name: name, Price: price, Stock: stock}
	if err := s.DB.Create(&p).Error; err != nil {
		if isDuplicate(err) {
			return 0, fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
		return 0, storageFault("create product", err)
	}
	return p.ID, nil
}

// Update replaces name, price and stock of an existing product.
func (s *Store) Update(id uint, name string, price float64, stock int) error {
	name = strings.TrimSpace(name)
	if err := validate(name, price, stock); err != nil {
		return err
	}
	var p models.Product
	if err := s.DB.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return storageFault("load product", err)
	}
	var count int64
	if err := s.DB.Model(&models.Product{}).
		Where("name = ? AND id <> ?", name, id).
		Count(&count).Error; err != nil {
		return storageFault("count products", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	p.Name = name
	p.Price = price
	p.Stock = stock
	if err := s.DB.Save(&p).Error; err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
		return storageFault("save product", err)
	}
	return nil
}

// Delete removes a product. It is idempotent and never touches sale lines:
// committed history keeps its own name/price snapshot.
func (s *Store) Delete(id uint) error {
	if err := s.DB.Where("id = ?", id).Delete(&models.Product{}).Error; err != nil {
		return storageFault("delete product", err)
	}
	return nil
}

// Get returns a product by id, or ErrNotFound.
func (s *Store) Get(id uint) (*models.Product, error) {
	var p models.Product
	if err := s.DB.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return nil, storageFault("load product", err)
	}
	return &p, nil
}

// List returns products whose name contains filter (case-insensitive),
// ordered by name ascending. An empty filter returns the whole catalog.
func (s *Store) List(filter string) ([]models.Product, error) {
	q := s.DB.Order("name asc")
	if f := strings.TrimSpace(filter); f != "" {
		q = q.Where("lower(name) LIKE ?", "%"+strings.ToLower(f)+"%")
	}
	var products []models.Product
	if err := q.Find(&products).Error; err != nil {
		return nil, storageFault("list products", err)
	}
	return products, nil
}

// AdjustStock applies delta to a product's stock as a single conditional
// update. The WHERE clause keeps stock from ever going negative, even under
// concurrent adjustments; a zero row count means the product is missing or
// the delta would overdraw it.
func (s *Store) AdjustStock(id uint, delta int) error {
	res := s.DB.Model(&models.Product{}).
		Where("id = ? AND stock + ? >= 0", id, delta).
		Update("stock", gorm.Expr("stock + ?", delta))
	if res.Error != nil {
		return storageFault("adjust stock", res.Error)
	}
	if res.RowsAffected == 0 {
		p, err := s.Get(id)
		if err != nil {
			return err
		}
		return &InsufficientStockError{ProductID: id, Available: p.Stock, Requested: -delta}
	}
	return nil
}

func validate(name string, price float64, stock int) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidArgument)
	}
	if price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidArgument)
	}
	if stock < 0 {
		return fmt.Errorf("%w: stock must not be negative", ErrInvalidArgument)
	}
	return nil
}

// isDuplicate recognizes unique-constraint violations across the sqlite and
// postgres drivers.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique constraint")
}
