package public

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/fidelizaa/loyalty/internal/loyalty"
	"github.com/fidelizaa/loyalty/internal/models"
)

func setupPublicDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:public_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if errMigrate := db.AutoMigrate(
		&models.Store{},
		&models.Customer{},
		&models.Reward{},
		&models.Redemption{},
		&models.PointTransaction{},
	); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	return db
}

func seedPublicStore(t *testing.T, db *gorm.DB, slug string) models.Store {
	t.Helper()
	store := models.Store{
		Name:       "Test Store",
		Slug:       slug,
		CNPJ:       fmt.Sprintf("%014d", time.Now().UnixNano()%1e14),
		Segment:    "retail",
		OwnerEmail: "owner@example.com",
		IsActive:   true,
	}
	if errCreate := db.Create(&store).Error; errCreate != nil {
		t.Fatalf("seed store: %v", errCreate)
	}
	return store
}

func runHandler(t *testing.T, handler gin.HandlerFunc, method, body string, params gin.Params) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = params
	handler(c)
	return w
}

func TestCustomerLoginRegistersOnFirstContact(t *testing.T) {
	db := setupPublicDB(t)
	store := seedPublicStore(t, db, "acme")
	catalog := loyalty.NewCatalog(db, nil)
	handler := NewCustomerHandler(db, loyalty.NewWorkflow(db, catalog))

	w := runHandler(t, handler.Login, http.MethodPost, `{
		"store_slug": "acme",
		"email": "Maria@Example.com",
		"name": "Maria"
	}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var res struct {
		Customer struct {
			ID          uint64 `json:"id"`
			Name        string `json:"name"`
			TotalPoints int64  `json:"total_points"`
		} `json:"customer"`
	}
	if errDecode := json.NewDecoder(w.Body).Decode(&res); errDecode != nil {
		t.Fatalf("decode: %v", errDecode)
	}
	if res.Customer.Name != "Maria" || res.Customer.TotalPoints != 0 {
		t.Fatalf("unexpected customer: %+v", res.Customer)
	}

	// A second login with the same email returns the existing record.
	w = runHandler(t, handler.Login, http.MethodPost, `{
		"store_slug": "acme",
		"email": "maria@example.com"
	}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on repeat login, got %d", w.Code)
	}
	var repeat struct {
		Customer struct {
			ID uint64 `json:"id"`
		} `json:"customer"`
	}
	if errDecode := json.NewDecoder(w.Body).Decode(&repeat); errDecode != nil {
		t.Fatalf("decode repeat: %v", errDecode)
	}
	if repeat.Customer.ID != res.Customer.ID {
		t.Fatalf("expected same customer, got %d and %d", res.Customer.ID, repeat.Customer.ID)
	}

	var count int64
	if err := db.Model(&models.Customer{}).Where("store_id = ?", store.ID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one customer, got %d", count)
	}
}

func TestCustomerLoginUnknownStore(t *testing.T) {
	db := setupPublicDB(t)
	catalog := loyalty.NewCatalog(db, nil)
	handler := NewCustomerHandler(db, loyalty.NewWorkflow(db, catalog))

	w := runHandler(t, handler.Login, http.MethodPost, `{
		"store_slug": "missing",
		"email": "maria@example.com"
	}`, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestCustomerLoginRequiresContact(t *testing.T) {
	db := setupPublicDB(t)
	seedPublicStore(t, db, "acme")
	catalog := loyalty.NewCatalog(db, nil)
	handler := NewCustomerHandler(db, loyalty.NewWorkflow(db, catalog))

	w := runHandler(t, handler.Login, http.MethodPost, `{"store_slug": "acme"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestRedeemReportsInsufficientPoints(t *testing.T) {
	db := setupPublicDB(t)
	store := seedPublicStore(t, db, "acme")
	customer := models.Customer{StoreID: store.ID, Name: "Maria", Email: "maria@example.com", TotalPoints: 10, IsActive: true}
	if errCreate := db.Create(&customer).Error; errCreate != nil {
		t.Fatalf("seed customer: %v", errCreate)
	}
	reward := models.Reward{StoreID: store.ID, Name: "Coffee", PointsRequired: 50, Category: models.CategoryProduct, RewardType: models.RewardTypeFreeItem, NeverExpires: true, IsActive: true}
	if errCreate := db.Create(&reward).Error; errCreate != nil {
		t.Fatalf("seed reward: %v", errCreate)
	}
	catalog := loyalty.NewCatalog(db, nil)
	handler := NewCustomerHandler(db, loyalty.NewWorkflow(db, catalog))

	w := runHandler(t, handler.Redeem, http.MethodPost, "", gin.Params{
		{Key: "customerID", Value: fmt.Sprint(customer.ID)},
		{Key: "rewardID", Value: fmt.Sprint(reward.ID)},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}

	var res struct {
		Error     string `json:"error"`
		Required  int64  `json:"required"`
		Available int64  `json:"available"`
	}
	if errDecode := json.NewDecoder(w.Body).Decode(&res); errDecode != nil {
		t.Fatalf("decode: %v", errDecode)
	}
	if res.Required != 50 || res.Available != 10 {
		t.Fatalf("unexpected amounts: %+v", res)
	}
}

func TestRedeemReturnsPickupCode(t *testing.T) {
	db := setupPublicDB(t)
	store := seedPublicStore(t, db, "acme")
	customer := models.Customer{StoreID: store.ID, Name: "Maria", Email: "maria@example.com", TotalPoints: 100, IsActive: true}
	if errCreate := db.Create(&customer).Error; errCreate != nil {
		t.Fatalf("seed customer: %v", errCreate)
	}
	reward := models.Reward{StoreID: store.ID, Name: "Coffee", PointsRequired: 50, Category: models.CategoryProduct, RewardType: models.RewardTypeFreeItem, NeverExpires: true, IsActive: true}
	if errCreate := db.Create(&reward).Error; errCreate != nil {
		t.Fatalf("seed reward: %v", errCreate)
	}
	catalog := loyalty.NewCatalog(db, nil)
	handler := NewCustomerHandler(db, loyalty.NewWorkflow(db, catalog))

	w := runHandler(t, handler.Redeem, http.MethodPost, "", gin.Params{
		{Key: "customerID", Value: fmt.Sprint(customer.ID)},
		{Key: "rewardID", Value: fmt.Sprint(reward.ID)},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var res struct {
		Redemption struct {
			Code   string `json:"code"`
			Status string `json:"status"`
		} `json:"redemption"`
		NewBalance int64 `json:"new_balance"`
	}
	if errDecode := json.NewDecoder(w.Body).Decode(&res); errDecode != nil {
		t.Fatalf("decode: %v", errDecode)
	}
	if !strings.HasPrefix(res.Redemption.Code, "PRODUCT-") {
		t.Fatalf("unexpected code: %s", res.Redemption.Code)
	}
	if res.Redemption.Status != models.RedemptionPending {
		t.Fatalf("unexpected status: %s", res.Redemption.Status)
	}
	if res.NewBalance != 50 {
		t.Fatalf("expected balance 50, got %d", res.NewBalance)
	}
}
