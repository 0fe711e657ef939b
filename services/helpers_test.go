package services

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/threadline/threadline-api/models"
)

func setupServiceDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Tailor{},
		&models.CustomOrder{},
		&models.ClothCustomizer{},
		&models.OrderAssignment{},
		&models.ClothingItem{},
		&models.InventoryAdjustment{},
		&models.AdjustmentItem{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func seedUser(t *testing.T, db *gorm.DB, auth0ID, role string) models.User {
	t.Helper()
	user := models.User{
		Auth0ID: auth0ID,
		Name:    auth0ID,
		Email:   auth0ID + "@example.com",
		Role:    role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
	return user
}

func seedTailor(t *testing.T, db *gorm.DB, userID uint, active bool) models.Tailor {
	t.Helper()
	tailor := models.Tailor{
		UserID:      userID,
		DisplayName: "Test Tailor",
		IsActive:    active,
	}
	if err := db.Create(&tailor).Error; err != nil {
		t.Fatalf("Failed to seed tailor: %v", err)
	}
	return tailor
}

func seedItem(t *testing.T, db *gorm.DB, name string, stock int) models.ClothingItem {
	t.Helper()
	item := models.ClothingItem{
		Name:     name,
		Category: "test",
		Price:    10,
		Stock:    stock,
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("Failed to seed item: %v", err)
	}
	return item
}
