package loyalty

import (
	"context"
	"errors"
	"testing"

	"github.com/fidelizaa/loyalty/internal/models"
)

func TestAdjustCreditsAndDebits(t *testing.T) {
	db := setupLoyaltyDB(t)
	store := seedStore(t, db, "acme")
	customer := seedCustomer(t, db, store.ID, 0)
	ledger := NewLedger(db)

	balance, err := ledger.Adjust(context.Background(), store.ID, customer.ID, 100, models.TransactionEarned, "Purchase", nil)
	if err != nil {
		t.Fatalf("credit: %v", err)
	}
	if balance != 100 {
		t.Fatalf("expected balance 100, got %d", balance)
	}

	balance, err = ledger.Adjust(context.Background(), store.ID, customer.ID, 30, models.TransactionRedeemed, "", nil)
	if err != nil {
		t.Fatalf("debit: %v", err)
	}
	if balance != 70 {
		t.Fatalf("expected balance 70, got %d", balance)
	}

	// The cached total equals the ledger sum after every operation.
	var sum int64
	if errSum := db.Model(&models.PointTransaction{}).
		Where("customer_id = ?", customer.ID).
		Select("COALESCE(SUM(points), 0)").
		Scan(&sum).Error; errSum != nil {
		t.Fatalf("sum ledger: %v", errSum)
	}
	if sum != 70 {
		t.Fatalf("expected ledger sum 70, got %d", sum)
	}
	if got := reloadCustomer(t, db, customer.ID).TotalPoints; got != sum {
		t.Fatalf("cached total %d drifted from ledger sum %d", got, sum)
	}
}

func TestAdjustClampsAtZero(t *testing.T) {
	db := setupLoyaltyDB(t)
	store := seedStore(t, db, "acme")
	customer := seedCustomer(t, db, store.ID, 0)
	ledger := NewLedger(db)

	if _, err := ledger.Adjust(context.Background(), store.ID, customer.ID, 10, models.TransactionEarned, "", nil); err != nil {
		t.Fatalf("credit: %v", err)
	}
	balance, err := ledger.Adjust(context.Background(), store.ID, customer.ID, 50, models.TransactionExpired, "", nil)
	if err != nil {
		t.Fatalf("over-debit: %v", err)
	}
	if balance != 0 {
		t.Fatalf("expected clamped balance 0, got %d", balance)
	}

	// The ledger keeps the full signed delta even when the total clamps.
	var entry models.PointTransaction
	if errFind := db.Where("customer_id = ? AND type = ?", customer.ID, models.TransactionExpired).
		First(&entry).Error; errFind != nil {
		t.Fatalf("load entry: %v", errFind)
	}
	if entry.Points != -50 {
		t.Fatalf("expected ledger delta -50, got %d", entry.Points)
	}
}

func TestAdjustRejectsBadInput(t *testing.T) {
	db := setupLoyaltyDB(t)
	store := seedStore(t, db, "acme")
	customer := seedCustomer(t, db, store.ID, 100)
	ledger := NewLedger(db)

	if _, err := ledger.Adjust(context.Background(), store.ID, customer.ID, 0, models.TransactionEarned, "", nil); err == nil {
		t.Fatal("expected error for zero points")
	}
	if _, err := ledger.Adjust(context.Background(), store.ID, customer.ID, -5, models.TransactionEarned, "", nil); err == nil {
		t.Fatal("expected error for negative points")
	}
	if _, err := ledger.Adjust(context.Background(), store.ID, customer.ID, 10, "bogus", "", nil); err == nil {
		t.Fatal("expected error for unknown type")
	}
	if got := countRows(t, db, &models.PointTransaction{}, "customer_id = ?", customer.ID); got != 0 {
		t.Fatalf("expected no ledger rows after rejected input, got %d", got)
	}
}

func TestAdjustScopedToStore(t *testing.T) {
	db := setupLoyaltyDB(t)
	storeA := seedStore(t, db, "acme")
	storeB := seedStore(t, db, "globex")
	customer := seedCustomer(t, db, storeA.ID, 100)
	ledger := NewLedger(db)

	_, err := ledger.Adjust(context.Background(), storeB.ID, customer.ID, 10, models.TransactionEarned, "", nil)
	if !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound across stores, got %v", err)
	}
}

func TestReconcileRepairsDrift(t *testing.T) {
	db := setupLoyaltyDB(t)
	store := seedStore(t, db, "acme")
	customer := seedCustomer(t, db, store.ID, 0)
	ledger := NewLedger(db)

	if _, err := ledger.Adjust(context.Background(), store.ID, customer.ID, 80, models.TransactionEarned, "", nil); err != nil {
		t.Fatalf("credit: %v", err)
	}

	// Simulate drift in the cached column.
	if err := db.Model(&models.Customer{}).Where("id = ?", customer.ID).
		Update("total_points", 999).Error; err != nil {
		t.Fatalf("inject drift: %v", err)
	}

	balance, repaired, err := ledger.Reconcile(context.Background(), store.ID, customer.ID)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if !repaired {
		t.Fatal("expected reconcile to report a repair")
	}
	if balance != 80 {
		t.Fatalf("expected reconciled balance 80, got %d", balance)
	}
	if got := reloadCustomer(t, db, customer.ID).TotalPoints; got != 80 {
		t.Fatalf("expected stored balance 80, got %d", got)
	}

	_, repaired, err = ledger.Reconcile(context.Background(), store.ID, customer.ID)
	if err != nil {
		t.Fatalf("second reconcile: %v", err)
	}
	if repaired {
		t.Fatal("expected no repair on a consistent balance")
	}
}
