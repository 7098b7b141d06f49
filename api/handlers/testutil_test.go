package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"catchat/api/routes"
	"catchat/db"
	"catchat/models"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) {
	t.Helper()

	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
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

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	setupTestDB(t)

	r := gin.New()
	routes.PublicApi(r)
	return r
}

func performRequest(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// registerAndLogin создает пользователя через HTTP API и возвращает
// его id и bearer-токен
func registerAndLogin(t *testing.T, r *gin.Engine, name, email string) (int64, string) {
	t.Helper()

	w := performRequest(r, "POST", "/api/auth/register", "", gin.H{
		"name":     name,
		"email":    email,
		"password": "secret123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register failed for %s: %d %s", email, w.Code, w.Body.String())
	}
	var registerResp struct {
		UserID int64 `json:"user_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &registerResp); err != nil {
		t.Fatalf("failed to parse register response: %v", err)
	}

	w = performRequest(r, "POST", "/api/auth/login", "", gin.H{
		"email":    email,
		"password": "secret123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login failed for %s: %d %s", email, w.Code, w.Body.String())
	}
	var loginResp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &loginResp); err != nil {
		t.Fatalf("failed to parse login response: %v", err)
	}
	if loginResp.Token == "" {
		t.Fatal("empty token after login")
	}
	return registerResp.UserID, loginResp.Token
}

func acceptPath(id int64) string {
	return fmt.Sprintf("/api/friend-request/accept/%d", id)
}
