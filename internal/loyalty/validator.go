package loyalty

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fidelizaa/loyalty/internal/models"
)

// ValidationResult is the enriched view returned to the store operator after
// a code is accepted.
type ValidationResult struct {
	Redemption        models.Redemption
	CustomerName      string
	RewardName        string
	RewardDescription string
}

// ValidateCode accepts a pickup code presented in store and completes the
// matching pending redemption. The lookup, state check and transition run in
// one transaction under a row lock, so a second validation of the same code
// observes the completed state rather than completing twice.
func (w *Workflow) ValidateCode(ctx context.Context, storeID uint64, code string) (*ValidationResult, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return nil, ErrCodeNotFound
	}

	var result *ValidationResult
	errTx := w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var redemption models.Redemption
		if errFind := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("store_id = ? AND code = ?", storeID, normalized).
			First(&redemption).Error; errFind != nil {
			if errors.Is(errFind, gorm.ErrRecordNotFound) {
				return ErrCodeNotFound
			}
			return errFind
		}

		switch redemption.Status {
		case models.RedemptionCompleted:
			completedAt := redemption.RedeemedAt
			if redemption.CompletedAt != nil {
				completedAt = *redemption.CompletedAt
			}
			return &AlreadyUsedError{CompletedAt: completedAt}
		case models.RedemptionCancelled:
			return ErrRedemptionCancelled
		}

		now := time.Now().UTC()
		if errUpdate := tx.Model(&redemption).Updates(map[string]any{
			"status":       models.RedemptionCompleted,
			"completed_at": now,
		}).Error; errUpdate != nil {
			return fmt.Errorf("validate: complete redemption: %w", errUpdate)
		}
		redemption.Status = models.RedemptionCompleted
		redemption.CompletedAt = &now

		var customer models.Customer
		if errFind := tx.Where("id = ?", redemption.CustomerID).First(&customer).Error; errFind != nil {
			return fmt.Errorf("validate: load customer: %w", errFind)
		}
		var reward models.Reward
		if errFind := tx.Where("id = ?", redemption.RewardID).First(&reward).Error; errFind != nil {
			return fmt.Errorf("validate: load reward: %w", errFind)
		}

		result = &ValidationResult{
			Redemption:        redemption,
			CustomerName:      customer.Name,
			RewardName:        reward.Name,
			RewardDescription: reward.Description,
		}
		return nil
	})
	if errTx != nil {
		return nil, errTx
	}
	return result, nil
}
