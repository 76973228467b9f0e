package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"valuefolio/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestHolding creates a purchase lot with sensible defaults.
func CreateTestHolding(t *testing.T, db *gorm.DB, userID uint, symbol string) *models.Holding {
	t.Helper()
	return CreateTestHoldingWithLot(t, db, userID, symbol, 100, 10)
}

// CreateTestHoldingWithLot creates a purchase lot with the given quantity
// and buy price.
func CreateTestHoldingWithLot(t *testing.T, db *gorm.DB, userID uint, symbol string, quantity, buyPrice float64) *models.Holding {
	t.Helper()

	holding := &models.Holding{
		UserID:       userID,
		Symbol:       symbol,
		CompanyName:  fmt.Sprintf("Test Company %d", nextID()),
		Market:       models.MarketNYSE,
		Quantity:     quantity,
		BuyPrice:     buyPrice,
		Currency:     "USD",
		PurchaseDate: time.Now().AddDate(0, -1, 0),
	}
	if err := db.Create(holding).Error; err != nil {
		t.Fatalf("failed to create test holding: %v", err)
	}
	return holding
}

// CreateTestWeightProfile creates a weight profile with uniform weights.
func CreateTestWeightProfile(t *testing.T, db *gorm.DB, userID uint, name string, isDefault bool) *models.WeightProfile {
	t.Helper()

	profile := &models.WeightProfile{
		UserID:                userID,
		Name:                  name,
		IsDefault:             isDefault,
		WeightROE:             5,
		WeightDebtEquity:      5,
		WeightNetProfitMargin: 5,
		WeightFreeCashFlow:    5,
		WeightEPSGrowth:       5,
		WeightOperatingMargin: 5,
		WeightCurrentRatio:    5,
		WeightShareDilution:   5,
		WeightROA:             5,
		WeightMoat:            5,
		WeightManagement:      5,
	}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("failed to create test weight profile: %v", err)
	}
	return profile
}
