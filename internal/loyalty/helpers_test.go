package loyalty

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/fidelizaa/loyalty/internal/models"
)

func setupLoyaltyDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:loyalty_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if errMigrate := db.AutoMigrate(
		&models.Store{},
		&models.User{},
		&models.Customer{},
		&models.Reward{},
		&models.Redemption{},
		&models.PointTransaction{},
	); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	return db
}

func seedStore(t *testing.T, db *gorm.DB, name string) models.Store {
	t.Helper()
	store := models.Store{
		Name:       name,
		Slug:       fmt.Sprintf("%s-%d", name, time.Now().UnixNano()),
		CNPJ:       fmt.Sprintf("%014d", time.Now().UnixNano()%1e14),
		Segment:    "retail",
		OwnerEmail: name + "@example.com",
		IsActive:   true,
	}
	if errCreate := db.Create(&store).Error; errCreate != nil {
		t.Fatalf("seed store: %v", errCreate)
	}
	return store
}

func seedCustomer(t *testing.T, db *gorm.DB, storeID uint64, points int64) models.Customer {
	t.Helper()
	customer := models.Customer{
		StoreID:     storeID,
		Name:        "Test Customer",
		Email:       fmt.Sprintf("customer_%d@example.com", time.Now().UnixNano()),
		TotalPoints: points,
		IsActive:    true,
	}
	if errCreate := db.Create(&customer).Error; errCreate != nil {
		t.Fatalf("seed customer: %v", errCreate)
	}
	return customer
}

func seedReward(t *testing.T, db *gorm.DB, storeID uint64, cost int64, mutate func(*models.Reward)) models.Reward {
	t.Helper()
	reward := models.Reward{
		StoreID:        storeID,
		Name:           "Free Coffee",
		Description:    "One free coffee",
		PointsRequired: cost,
		Category:       models.CategoryProduct,
		RewardType:     models.RewardTypeFreeItem,
		NeverExpires:   true,
		IsActive:       true,
	}
	if mutate != nil {
		mutate(&reward)
	}
	if errCreate := db.Create(&reward).Error; errCreate != nil {
		t.Fatalf("seed reward: %v", errCreate)
	}
	return reward
}

func reloadCustomer(t *testing.T, db *gorm.DB, id uint64) models.Customer {
	t.Helper()
	var customer models.Customer
	if errFind := db.First(&customer, id).Error; errFind != nil {
		t.Fatalf("reload customer: %v", errFind)
	}
	return customer
}

func reloadReward(t *testing.T, db *gorm.DB, id uint64) models.Reward {
	t.Helper()
	var reward models.Reward
	if errFind := db.First(&reward, id).Error; errFind != nil {
		t.Fatalf("reload reward: %v", errFind)
	}
	return reward
}

func countRows(t *testing.T, db *gorm.DB, model any, query string, args ...any) int64 {
	t.Helper()
	var count int64
	if errCount := db.Model(model).Where(query, args...).Count(&count).Error; errCount != nil {
		t.Fatalf("count rows: %v", errCount)
	}
	return count
}
