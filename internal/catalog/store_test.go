package catalog

import (
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shiven-c1/bill-software/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Use a unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Product{}, &models.Sale{}, &models.SaleLine{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func TestCreateAndGet(t *testing.T) {
	s := NewStore(setupTestDB(t))
	id, err := s.Create("Pizza", 250.00, 5)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	p, err := s.Get(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.Name != "Pizza" || p.Price != 250.00 || p.Stock != 5 {
		t.Fatalf("unexpected product: %+v", p)
	}
}

func TestCreateValidation(t *testing.T) {
	s := NewStore(setupTestDB(t))
	cases := []struct {
		name  string
		price float64
		stock int
	}{
		{"", 10, 1},
		{"  ", 10, 1},
		{"Pizza", -1, 1},
		{"Pizza", 10, -1},
	}
	for _, c := range cases {
		if _, err := s.Create(c.name, c.price, c.stock); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("Create(%q, %v, %d): expected ErrInvalidArgument got %v", c.name, c.price, c.stock, err)
		}
	}
}

func TestCreateDuplicateName(t *testing.T) {
	s := NewStore(setupTestDB(t))
	if _, err := s.Create("Pizza", 250, 5); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.Create("Pizza", 100, 1); !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName got %v", err)
	}
	// Different case is a different name (exact match on the constraint).
	if _, err := s.Create("pizza", 100, 1); err != nil {
		t.Fatalf("case-different name should be allowed: %v", err)
	}
}

func TestUpdate(t *testing.T) {
	s := NewStore(setupTestDB(t))
	id, _ := s.Create("Pizza", 250, 5)
	if err := s.Update(id, "Pizza Large", 300, 7); err != nil {
		t.Fatalf("update: %v", err)
	}
	p, _ := s.Get(id)
	if p.Name != "Pizza Large" || p.Price != 300 || p.Stock != 7 {
		t.Fatalf("unexpected product after update: %+v", p)
	}
	if err := s.Update(9999, "X", 1, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound got %v", err)
	}
}

func TestUpdateRenameCollision(t *testing.T) {
	s := NewStore(setupTestDB(t))
	id, _ := s.Create("Pizza", 250, 5)
	_, _ = s.Create("Burger", 120, 3)
	if err := s.Update(id, "Burger", 250, 5); !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName got %v", err)
	}
	// Keeping the same name is not a collision.
	if err := s.Update(id, "Pizza", 260, 5); err != nil {
		t.Fatalf("same-name update: %v", err)
	}
}

func TestDeleteIdempotent(t *testing.T) {
	s := NewStore(setupTestDB(t))
	id, _ := s.Create("Pizza", 250, 5)
	if err := s.Delete(id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete got %v", err)
	}
	// Second delete of the same id is a no-op.
	if err := s.Delete(id); err != nil {
		t.Fatalf("repeat delete: %v", err)
	}
}

func TestListFilterAndOrder(t *testing.T) {
	s := NewStore(setupTestDB(t))
	for _, name := range []string{"Coke", "Burger", "Cold Brew"} {
		if _, err := s.Create(name, 10, 1); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}
	all, err := s.List("")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 products got %d", len(all))
	}
	if all[0].Name != "Burger" || all[1].Name != "Coke" || all[2].Name != "Cold Brew" {
		t.Fatalf("expected name ascending order, got %v %v %v", all[0].Name, all[1].Name, all[2].Name)
	}
	// Case-insensitive substring match.
	cold, err := s.List("cO")
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if len(cold) != 2 {
		t.Fatalf("expected 2 matches for 'cO' got %d", len(cold))
	}
}

func TestAdjustStock(t *testing.T) {
	s := NewStore(setupTestDB(t))
	id, _ := s.Create("Coke", 15, 5)

	if err := s.AdjustStock(id, -3); err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if err := s.AdjustStock(id, 10); err != nil {
		t.Fatalf("increment: %v", err)
	}
	p, _ := s.Get(id)
	if p.Stock != 12 {
		t.Fatalf("expected stock 12 got %d", p.Stock)
	}

	err := s.AdjustStock(id, -13)
	var stockErr *InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError got %v", err)
	}
	if stockErr.ProductID != id || stockErr.Available != 12 || stockErr.Requested != 13 {
		t.Fatalf("unexpected error payload: %+v", stockErr)
	}
	// Failed adjustment leaves stock untouched.
	p, _ = s.Get(id)
	if p.Stock != 12 {
		t.Fatalf("stock mutated by failed adjustment: %d", p.Stock)
	}

	if err := s.AdjustStock(9999, -1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound got %v", err)
	}
}
