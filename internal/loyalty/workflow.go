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

// codeAttempts bounds code generation retries on a (store, code) collision.
// At 36^6 combinations per prefix a second attempt is already rare.
const codeAttempts = 5

// Workflow orchestrates reward redemptions: eligibility checks, the atomic
// debit, code generation and the pending → completed/cancelled transitions.
// Every operation runs as one database transaction with row locks on the
// customer and reward so concurrent requests serialize per resource.
type Workflow struct {
	db      *gorm.DB
	catalog *Catalog
}

// NewWorkflow constructs a Workflow.
func NewWorkflow(db *gorm.DB, catalog *Catalog) *Workflow {
	return &Workflow{db: db, catalog: catalog}
}

// RedeemResult is returned to the customer after a successful claim.
type RedeemResult struct {
	Redemption models.Redemption
	RewardName string
	NewBalance int64
}

// Redeem claims a reward for a customer. On success a pending redemption
// with a fresh pickup code exists, the customer's balance is debited by the
// reward cost, the ledger records the debit, and the reward's redemption
// counter is incremented; on any failure none of those changes survive.
func (w *Workflow) Redeem(ctx context.Context, customerID, rewardID uint64) (*RedeemResult, error) {
	var result *RedeemResult
	errTx := w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if errFind := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND is_active = ?", customerID, true).
			First(&customer).Error; errFind != nil {
			if errors.Is(errFind, gorm.ErrRecordNotFound) {
				return ErrCustomerNotFound
			}
			return errFind
		}

		var reward models.Reward
		if errFind := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND is_active = ?", rewardID, true).
			First(&reward).Error; errFind != nil {
			if errors.Is(errFind, gorm.ErrRecordNotFound) {
				return ErrRewardNotFound
			}
			return errFind
		}
		// Cross-tenant rewards are indistinguishable from absent ones.
		if reward.StoreID != customer.StoreID {
			return ErrRewardNotFound
		}

		if customer.TotalPoints < reward.PointsRequired {
			return &InsufficientPointsError{
				Required:  reward.PointsRequired,
				Available: customer.TotalPoints,
			}
		}

		if reward.MaxRedemptions != nil && reward.CurrentRedemptions >= *reward.MaxRedemptions {
			return ErrRedemptionLimitReached
		}

		var pendingCount int64
		if errCount := tx.Model(&models.Redemption{}).
			Where("customer_id = ? AND reward_id = ? AND status = ?", customer.ID, reward.ID, models.RedemptionPending).
			Count(&pendingCount).Error; errCount != nil {
			return fmt.Errorf("redeem: count pending: %w", errCount)
		}
		if pendingCount > 0 {
			return ErrDuplicatePendingRedemption
		}

		now := time.Now().UTC()
		if !reward.NeverExpires && reward.ValidUntil != nil && reward.ValidUntil.Before(now) {
			return ErrRewardExpired
		}

		code, errCode := w.uniqueCode(tx, customer.StoreID, reward.Category)
		if errCode != nil {
			return errCode
		}

		redemption := models.Redemption{
			CustomerID: customer.ID,
			StoreID:    customer.StoreID,
			RewardID:   reward.ID,
			PointsUsed: reward.PointsRequired,
			Status:     models.RedemptionPending,
			Code:       code,
			RedeemedAt: now,
		}
		if errCreate := tx.Create(&redemption).Error; errCreate != nil {
			return fmt.Errorf("redeem: create redemption: %w", errCreate)
		}

		newBalance, errApply := applyDelta(tx, &customer, Delta{
			Points:       -reward.PointsRequired,
			Type:         models.TransactionRedeemed,
			Description:  fmt.Sprintf("Reward redemption: %s", reward.Name),
			RedemptionID: &redemption.ID,
		})
		if errApply != nil {
			return errApply
		}

		// Guarded increment: the predicate re-checks the cap so two claims
		// racing for the last slot cannot both commit.
		res := tx.Model(&models.Reward{}).
			Where("id = ? AND (max_redemptions IS NULL OR current_redemptions < max_redemptions)", reward.ID).
			UpdateColumn("current_redemptions", gorm.Expr("current_redemptions + 1"))
		if res.Error != nil {
			return fmt.Errorf("redeem: increment counter: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrRedemptionLimitReached
		}

		result = &RedeemResult{
			Redemption: redemption,
			RewardName: reward.Name,
			NewBalance: newBalance,
		}
		return nil
	})
	if errTx != nil {
		return nil, errTx
	}

	w.catalog.Invalidate(ctx, result.Redemption.StoreID)
	return result, nil
}

// Cancel voids a pending redemption and refunds the frozen point cost to the
// customer. Completed and cancelled redemptions are terminal.
func (w *Workflow) Cancel(ctx context.Context, storeID, redemptionID uint64, actorID *uint64) error {
	errTx := w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var redemption models.Redemption
		if errFind := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND store_id = ?", redemptionID, storeID).
			First(&redemption).Error; errFind != nil {
			if errors.Is(errFind, gorm.ErrRecordNotFound) {
				return ErrCodeNotFound
			}
			return errFind
		}
		if redemption.Status != models.RedemptionPending {
			return ErrRedemptionNotPending
		}

		if errUpdate := tx.Model(&redemption).Updates(map[string]any{
			"status": models.RedemptionCancelled,
		}).Error; errUpdate != nil {
			return fmt.Errorf("cancel: update status: %w", errUpdate)
		}

		var customer models.Customer
		if errFind := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", redemption.CustomerID).
			First(&customer).Error; errFind != nil {
			return fmt.Errorf("cancel: load customer: %w", errFind)
		}
		if _, errApply := applyDelta(tx, &customer, Delta{
			Points:       redemption.PointsUsed,
			Type:         models.TransactionAdjusted,
			Description:  "Redemption cancelled, points refunded",
			RedemptionID: &redemption.ID,
			ActorID:      actorID,
		}); errApply != nil {
			return errApply
		}

		// The slot goes back to the pool.
		return tx.Model(&models.Reward{}).
			Where("id = ? AND current_redemptions > 0", redemption.RewardID).
			UpdateColumn("current_redemptions", gorm.Expr("current_redemptions - 1")).Error
	})
	if errTx != nil {
		return errTx
	}

	w.catalog.Invalidate(ctx, storeID)
	return nil
}

// uniqueCode generates a code and retries while it collides with an existing
// redemption in the same store.
func (w *Workflow) uniqueCode(tx *gorm.DB, storeID uint64, category string) (string, error) {
	for attempt := 0; attempt < codeAttempts; attempt++ {
		code, errGen := newCode(category)
		if errGen != nil {
			return "", errGen
		}
		var count int64
		if errCount := tx.Model(&models.Redemption{}).
			Where("store_id = ? AND code = ?", storeID, code).
			Count(&count).Error; errCount != nil {
			return "", fmt.Errorf("redeem: check code: %w", errCount)
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", fmt.Errorf("redeem: could not generate unique code")
}
