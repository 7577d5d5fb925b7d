package loyalty

import (
	"errors"
	"fmt"
	"time"
)

// Failure reasons surfaced to callers. Handlers map these to HTTP statuses;
// the core never retries.
var (
	// ErrCustomerNotFound indicates the customer is absent or belongs to
	// another store.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrRewardNotFound indicates the reward is absent, inactive or belongs
	// to another store.
	ErrRewardNotFound = errors.New("reward not found")
	// ErrRedemptionLimitReached indicates the reward's redemption cap is
	// exhausted.
	ErrRedemptionLimitReached = errors.New("redemption limit reached")
	// ErrDuplicatePendingRedemption indicates the customer already holds an
	// unused code for the same reward.
	ErrDuplicatePendingRedemption = errors.New("pending redemption already exists for this reward")
	// ErrRewardExpired indicates the reward's validity window has passed.
	ErrRewardExpired = errors.New("reward expired")
	// ErrCodeNotFound indicates no redemption matches the presented code.
	ErrCodeNotFound = errors.New("redemption code not found")
	// ErrRedemptionCancelled indicates the presented code was cancelled.
	ErrRedemptionCancelled = errors.New("redemption cancelled")
	// ErrRedemptionNotPending indicates a state transition was attempted on
	// a redemption that already reached a terminal state.
	ErrRedemptionNotPending = errors.New("redemption is not pending")
	// ErrTenantMismatch indicates the principal's store scope does not match
	// the resource's store.
	ErrTenantMismatch = errors.New("tenant mismatch")
)

// InsufficientPointsError reports a failed eligibility check together with
// the amounts involved so the caller can display them.
type InsufficientPointsError struct {
	Required  int64
	Available int64
}

func (e *InsufficientPointsError) Error() string {
	return fmt.Sprintf("insufficient points: required %d, available %d", e.Required, e.Available)
}

// AlreadyUsedError reports a second validation of a completed code. It
// carries the original completion time so the operator can explain the
// earlier use to the customer.
type AlreadyUsedError struct {
	CompletedAt time.Time
}

func (e *AlreadyUsedError) Error() string {
	return fmt.Sprintf("code already used at %s", e.CompletedAt.Format(time.RFC3339))
}
