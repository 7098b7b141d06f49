package services

import (
	"testing"
	"time"

	"catchat/db"
	"catchat/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) {
	t.Helper()

	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// Один коннект, чтобы все горутины видели одну in-memory базу
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = database.AutoMigrate(
		&models.User{}, &models.UserTokens{}, &models.FriendRequest{},
		&models.Conversation{}, &models.ConversationParticipant{}, &models.Message{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	db.ORM = database
}

func createTestUser(t *testing.T, name, email string) models.User {
	t.Helper()

	user := models.User{
		Name:      name,
		Email:     email,
		Password:  "irrelevant",
		Role:      models.RoleUser,
		CreatedAt: time.Now(),
	}
	if err := db.ORM.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}
