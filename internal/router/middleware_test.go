package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/indicamais/internal/models"
	"github.com/indicamais/internal/repository"
	"github.com/indicamais/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestResolveAllowedOrigin(t *testing.T) {
	got := resolveAllowedOrigin("https://indicamais.app", []string{"*"}, false)
	if got != "*" {
		t.Fatalf("wildcard without credentials should return *, got %s", got)
	}

	got = resolveAllowedOrigin("https://indicamais.app", []string{"*"}, true)
	if got != "https://indicamais.app" {
		t.Fatalf("wildcard with credentials should echo origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://a.indicamais.app", []string{"https://a.indicamais.app", "https://b.indicamais.app"}, false)
	if got != "https://a.indicamais.app" {
		t.Fatalf("allow-list should return matched origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://x.indicamais.app", []string{"https://a.indicamais.app"}, false)
	if got != "" {
		t.Fatalf("unmatched origin should be empty, got %s", got)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": getRequestID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-123")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if w.Header().Get(requestIDHeader) != "req-123" {
		t.Fatalf("response request id want req-123 got %s", w.Header().Get(requestIDHeader))
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["request_id"] != "req-123" {
		t.Fatalf("context request id want req-123 got %s", resp["request_id"])
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w2, req2)
	if w2.Header().Get(requestIDHeader) == "" {
		t.Fatalf("generated request id should not be empty")
	}
}

func openRouterTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:router_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.Admin{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func envelopeStatus(t *testing.T, body []byte) int {
	t.Helper()
	var envelope struct {
		StatusCode int `json:"status_code"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	return envelope.StatusCode
}

func TestJWTAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db := openRouterTestDB(t)
	adminRepo := repository.NewAdminRepository(db)
	secret := "router-test-secret-with-enough-length"

	hash, err := bcrypt.GenerateFromPassword([]byte("senha123"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	admin := &models.Admin{Username: "gestor", PasswordHash: string(hash), Name: "Gestor Geral"}
	if err := db.Create(admin).Error; err != nil {
		t.Fatalf("create admin: %v", err)
	}

	authService := service.NewAuthService(adminRepo, secret, 24)
	login, err := authService.Login("gestor", "senha123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	r := gin.New()
	r.Use(JWTAuthMiddleware(secret, adminRepo))
	r.GET("/admin/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"admin_id": c.GetUint("admin_id")})
	})

	// Missing token.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	r.ServeHTTP(w, req)
	if envelopeStatus(t, w.Body.Bytes()) != 401 {
		t.Fatalf("missing token want envelope 401 got %s", w.Body.String())
	}

	// Malformed header.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Token abc")
	r.ServeHTTP(w, req)
	if envelopeStatus(t, w.Body.Bytes()) != 401 {
		t.Fatalf("malformed header want envelope 401 got %s", w.Body.String())
	}

	// Valid token passes and binds the admin id.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("valid token want 200 got %d", w.Code)
	}
	var resp map[string]uint
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp["admin_id"] != admin.ID {
		t.Fatalf("admin_id want %d got %d", admin.ID, resp["admin_id"])
	}

	// A deleted admin's token stops working.
	if err := db.Delete(&models.Admin{}, admin.ID).Error; err != nil {
		t.Fatalf("delete admin: %v", err)
	}
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	r.ServeHTTP(w, req)
	if envelopeStatus(t, w.Body.Bytes()) != 401 {
		t.Fatalf("deleted admin want envelope 401 got %s", w.Body.String())
	}
}
