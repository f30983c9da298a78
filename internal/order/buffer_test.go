package order

import (
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shiven-c1/bill-software/internal/catalog"
	"github.com/shiven-c1/bill-software/internal/models"
)

func setupCatalog(t *testing.T) *catalog.Store {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Product{}, &models.Sale{}, &models.SaleLine{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return catalog.NewStore(conn)
}

func TestBufferAddAndIncrement(t *testing.T) {
	cat := setupCatalog(t)
	id, _ := cat.Create("Pizza", 250, 5)
	b := NewBuffer(cat)

	if err := b.Add(id, 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := b.Add(id, 1); err != nil {
		t.Fatalf("increment: %v", err)
	}
	lines := b.Lines()
	if len(lines) != 1 || lines[0].Qty != 3 {
		t.Fatalf("expected single line qty 3 got %+v", lines)
	}
}

func TestBufferAddValidation(t *testing.T) {
	cat := setupCatalog(t)
	id, _ := cat.Create("Pizza", 250, 5)
	b := NewBuffer(cat)

	if err := b.Add(id, 0); !errors.Is(err, catalog.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for qty 0 got %v", err)
	}
	if err := b.Add(id, -2); !errors.Is(err, catalog.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for negative qty got %v", err)
	}
	if err := b.Add(9999, 1); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected ErrNotFound got %v", err)
	}
}

func TestBufferAddStockPreCheck(t *testing.T) {
	cat := setupCatalog(t)
	id, _ := cat.Create("Pizza", 250, 5)
	b := NewBuffer(cat)

	if err := b.Add(id, 4); err != nil {
		t.Fatalf("add: %v", err)
	}
	// 4 already requested; 2 more would exceed the 5 in stock.
	err := b.Add(id, 2)
	var stockErr *catalog.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError got %v", err)
	}
	if stockErr.Available != 5 || stockErr.Requested != 6 {
		t.Fatalf("unexpected payload: %+v", stockErr)
	}
	// Failed add leaves the buffer unchanged.
	if lines := b.Lines(); len(lines) != 1 || lines[0].Qty != 4 {
		t.Fatalf("buffer mutated by failed add: %+v", lines)
	}
}

func TestBufferRemoveAndClear(t *testing.T) {
	cat := setupCatalog(t)
	pizza, _ := cat.Create("Pizza", 250, 5)
	coke, _ := cat.Create("Coke", 15, 5)
	b := NewBuffer(cat)
	_ = b.Add(pizza, 1)
	_ = b.Add(coke, 2)

	b.Remove(pizza)
	if lines := b.Lines(); len(lines) != 1 || lines[0].ProductID != coke {
		t.Fatalf("unexpected lines after remove: %+v", lines)
	}
	// Removing an absent product is a no-op.
	b.Remove(9999)
	if b.Len() != 1 {
		t.Fatalf("remove of absent product mutated buffer")
	}

	b.Clear()
	if !b.IsEmpty() {
		t.Fatalf("buffer not empty after clear")
	}
}

func TestBufferSnapshotAndTotal(t *testing.T) {
	cat := setupCatalog(t)
	pizza, _ := cat.Create("Pizza", 250, 5)
	coke, _ := cat.Create("Coke", 15, 10)
	b := NewBuffer(cat)
	_ = b.Add(pizza, 2)
	_ = b.Add(coke, 3)

	snap, err := b.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snap) != 2 {
		t.Fatalf("expected 2 snapshot lines got %d", len(snap))
	}
	if snap[0].Name != "Pizza" || snap[0].Subtotal != 500 {
		t.Fatalf("unexpected first line: %+v", snap[0])
	}
	total, err := b.Total()
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	if total != 545 {
		t.Fatalf("expected total 545 got %v", total)
	}

	// Snapshot follows current catalog price; the commit path captures its
	// own price independently.
	if err := cat.Update(pizza, "Pizza", 300, 5); err != nil {
		t.Fatalf("update: %v", err)
	}
	total, _ = b.Total()
	if total != 645 {
		t.Fatalf("expected repriced total 645 got %v", total)
	}
}

func TestBufferSnapshotVanishedProduct(t *testing.T) {
	cat := setupCatalog(t)
	pizza, _ := cat.Create("Pizza", 250, 5)
	b := NewBuffer(cat)
	_ = b.Add(pizza, 1)

	if err := cat.Delete(pizza); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, err := b.Snapshot()
	var vanished *catalog.ProductVanishedError
	if !errors.As(err, &vanished) {
		t.Fatalf("expected ProductVanishedError got %v", err)
	}
	if vanished.ProductID != pizza {
		t.Fatalf("unexpected product id: %d", vanished.ProductID)
	}
}
