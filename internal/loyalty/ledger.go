package loyalty

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fidelizaa/loyalty/internal/models"
)

// Ledger maintains customer balances over the append-only point transaction
// table. The balance column is a cache: every mutation appends exactly one
// ledger row and updates the cached total in the same transaction.
type Ledger struct {
	db *gorm.DB
}

// NewLedger constructs a Ledger.
func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// Delta describes one ledger append.
type Delta struct {
	Points       int64
	Type         string
	Description  string
	RedemptionID *uint64
	ActorID      *uint64
}

// applyDelta appends one point transaction and moves the cached balance.
// The caller must already hold a row lock on the customer within tx. A debit
// larger than the balance clamps the total at zero instead of failing; the
// ledger row still records the full signed delta.
func applyDelta(tx *gorm.DB, customer *models.Customer, d Delta) (int64, error) {
	if d.Points == 0 {
		return 0, fmt.Errorf("ledger: zero point delta")
	}

	entry := models.PointTransaction{
		CustomerID:   customer.ID,
		StoreID:      customer.StoreID,
		Type:         d.Type,
		Points:       d.Points,
		Description:  d.Description,
		RedemptionID: d.RedemptionID,
		CreatedBy:    d.ActorID,
	}
	if errCreate := tx.Create(&entry).Error; errCreate != nil {
		return 0, fmt.Errorf("ledger: append transaction: %w", errCreate)
	}

	newBalance := customer.TotalPoints + d.Points
	if newBalance < 0 {
		newBalance = 0
	}
	if errUpdate := tx.Model(customer).Updates(map[string]any{
		"total_points": newBalance,
		"updated_at":   time.Now().UTC(),
	}).Error; errUpdate != nil {
		return 0, fmt.Errorf("ledger: update balance: %w", errUpdate)
	}
	customer.TotalPoints = newBalance
	return newBalance, nil
}

// Adjust applies a store-operator point adjustment and returns the new
// balance. points is always positive; type redeemed debits, every other type
// credits. The customer must belong to the given store.
func (l *Ledger) Adjust(ctx context.Context, storeID, customerID uint64, points int64, txType, description string, actorID *uint64) (int64, error) {
	if points <= 0 {
		return 0, fmt.Errorf("ledger: points must be positive")
	}
	switch txType {
	case models.TransactionEarned, models.TransactionRedeemed, models.TransactionExpired, models.TransactionAdjusted:
	default:
		return 0, fmt.Errorf("ledger: unknown transaction type %q", txType)
	}

	signed := points
	if txType == models.TransactionRedeemed || txType == models.TransactionExpired {
		signed = -points
	}
	if description == "" {
		if signed < 0 {
			description = "Points deducted"
		} else {
			description = "Points added"
		}
	}

	var newBalance int64
	errTx := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if errFind := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND store_id = ?", customerID, storeID).
			First(&customer).Error; errFind != nil {
			if errors.Is(errFind, gorm.ErrRecordNotFound) {
				return ErrCustomerNotFound
			}
			return errFind
		}

		balance, errApply := applyDelta(tx, &customer, Delta{
			Points:      signed,
			Type:        txType,
			Description: description,
			ActorID:     actorID,
		})
		if errApply != nil {
			return errApply
		}
		newBalance = balance
		return nil
	})
	if errTx != nil {
		return 0, errTx
	}
	return newBalance, nil
}

// Reconcile recomputes a customer's balance from the ledger and repairs the
// cached total when it drifted. It returns the ledger sum (clamped at zero)
// and whether a repair was needed.
func (l *Ledger) Reconcile(ctx context.Context, storeID, customerID uint64) (int64, bool, error) {
	var repaired bool
	var balance int64
	errTx := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if errFind := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND store_id = ?", customerID, storeID).
			First(&customer).Error; errFind != nil {
			if errors.Is(errFind, gorm.ErrRecordNotFound) {
				return ErrCustomerNotFound
			}
			return errFind
		}

		var sum int64
		if errSum := tx.Model(&models.PointTransaction{}).
			Where("customer_id = ?", customer.ID).
			Select("COALESCE(SUM(points), 0)").
			Scan(&sum).Error; errSum != nil {
			return fmt.Errorf("ledger: sum transactions: %w", errSum)
		}
		if sum < 0 {
			sum = 0
		}
		balance = sum

		if customer.TotalPoints == sum {
			return nil
		}
		repaired = true
		return tx.Model(&customer).Updates(map[string]any{
			"total_points": sum,
			"updated_at":   time.Now().UTC(),
		}).Error
	})
	if errTx != nil {
		return 0, false, errTx
	}
	return balance, repaired, nil
}
