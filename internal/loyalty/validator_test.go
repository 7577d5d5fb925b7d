package loyalty

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fidelizaa/loyalty/internal/models"
)

func TestValidateCodeCompletesRedemption(t *testing.T) {
	db := setupLoyaltyDB(t)
	store := seedStore(t, db, "acme")
	customer := seedCustomer(t, db, store.ID, 100)
	reward := seedReward(t, db, store.ID, 60, nil)
	workflow := newTestWorkflow(db)

	claimed, err := workflow.Redeem(context.Background(), customer.ID, reward.ID)
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}

	result, errValidate := workflow.ValidateCode(context.Background(), store.ID, claimed.Redemption.Code)
	if errValidate != nil {
		t.Fatalf("validate: %v", errValidate)
	}
	if result.Redemption.Status != models.RedemptionCompleted {
		t.Fatalf("expected completed status, got %s", result.Redemption.Status)
	}
	if result.Redemption.CompletedAt == nil {
		t.Fatalf("expected completed_at to be set")
	}
	if result.CustomerName != customer.Name {
		t.Fatalf("expected customer name %q, got %q", customer.Name, result.CustomerName)
	}
	if result.RewardName != reward.Name {
		t.Fatalf("expected reward name %q, got %q", reward.Name, result.RewardName)
	}
	// Completing the code never touches the balance; the debit happened at
	// claim time.
	if got := reloadCustomer(t, db, customer.ID).TotalPoints; got != 40 {
		t.Fatalf("expected balance 40 after validation, got %d", got)
	}
}

func TestValidateCodeNormalizesInput(t *testing.T) {
	db := setupLoyaltyDB(t)
	store := seedStore(t, db, "acme")
	customer := seedCustomer(t, db, store.ID, 100)
	reward := seedReward(t, db, store.ID, 60, nil)
	workflow := newTestWorkflow(db)

	claimed, err := workflow.Redeem(context.Background(), customer.ID, reward.ID)
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}

	messy := "  " + strings.ToLower(claimed.Redemption.Code) + "  "
	if _, errValidate := workflow.ValidateCode(context.Background(), store.ID, messy); errValidate != nil {
		t.Fatalf("validate with messy input: %v", errValidate)
	}
}

func TestValidateCodeAlreadyUsed(t *testing.T) {
	db := setupLoyaltyDB(t)
	store := seedStore(t, db, "acme")
	customer := seedCustomer(t, db, store.ID, 100)
	reward := seedReward(t, db, store.ID, 60, nil)
	workflow := newTestWorkflow(db)

	claimed, err := workflow.Redeem(context.Background(), customer.ID, reward.ID)
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	first, errFirst := workflow.ValidateCode(context.Background(), store.ID, claimed.Redemption.Code)
	if errFirst != nil {
		t.Fatalf("first validate: %v", errFirst)
	}

	_, errSecond := workflow.ValidateCode(context.Background(), store.ID, claimed.Redemption.Code)
	var used *AlreadyUsedError
	if !errors.As(errSecond, &used) {
		t.Fatalf("expected AlreadyUsedError, got %v", errSecond)
	}
	if !used.CompletedAt.Equal(*first.Redemption.CompletedAt) {
		t.Fatalf("expected original completion time %v, got %v", first.Redemption.CompletedAt, used.CompletedAt)
	}
}

func TestValidateCodeCancelled(t *testing.T) {
	db := setupLoyaltyDB(t)
	store := seedStore(t, db, "acme")
	customer := seedCustomer(t, db, store.ID, 100)
	reward := seedReward(t, db, store.ID, 60, nil)
	workflow := newTestWorkflow(db)

	claimed, err := workflow.Redeem(context.Background(), customer.ID, reward.ID)
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if errCancel := workflow.Cancel(context.Background(), store.ID, claimed.Redemption.ID, nil); errCancel != nil {
		t.Fatalf("cancel: %v", errCancel)
	}

	_, errValidate := workflow.ValidateCode(context.Background(), store.ID, claimed.Redemption.Code)
	if !errors.Is(errValidate, ErrRedemptionCancelled) {
		t.Fatalf("expected ErrRedemptionCancelled, got %v", errValidate)
	}
}

func TestValidateCodeUnknown(t *testing.T) {
	db := setupLoyaltyDB(t)
	store := seedStore(t, db, "acme")
	workflow := newTestWorkflow(db)

	if _, err := workflow.ValidateCode(context.Background(), store.ID, "PRODUCT-ZZZZZZ"); !errors.Is(err, ErrCodeNotFound) {
		t.Fatalf("expected ErrCodeNotFound, got %v", err)
	}
	if _, err := workflow.ValidateCode(context.Background(), store.ID, "   "); !errors.Is(err, ErrCodeNotFound) {
		t.Fatalf("expected ErrCodeNotFound for blank code, got %v", err)
	}
}

func TestValidateCodeScopedToStore(t *testing.T) {
	db := setupLoyaltyDB(t)
	storeA := seedStore(t, db, "acme")
	storeB := seedStore(t, db, "globex")
	customer := seedCustomer(t, db, storeA.ID, 100)
	reward := seedReward(t, db, storeA.ID, 60, nil)
	workflow := newTestWorkflow(db)

	claimed, err := workflow.Redeem(context.Background(), customer.ID, reward.ID)
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}

	_, errValidate := workflow.ValidateCode(context.Background(), storeB.ID, claimed.Redemption.Code)
	if !errors.Is(errValidate, ErrCodeNotFound) {
		t.Fatalf("expected ErrCodeNotFound in foreign store, got %v", errValidate)
	}
}
