package service

import (
	"testing"

	"github.com/indicamais/internal/models"
	"github.com/indicamais/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

func TestAuthServiceLogin(t *testing.T) {
	db := openServiceTestDB(t)
	adminRepo := repository.NewAdminRepository(db)
	svc := NewAuthService(adminRepo, "test-secret-for-auth-service-tests", 24)

	hash, err := bcrypt.GenerateFromPassword([]byte("senha123"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	admin := &models.Admin{Username: "gestor", PasswordHash: string(hash), Name: "Gestor Geral", IsSuper: true}
	if err := db.Create(admin).Error; err != nil {
		t.Fatalf("create admin: %v", err)
	}

	result, err := svc.Login("gestor", "senha123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("token missing")
	}
	if result.Admin.ID != admin.ID {
		t.Fatalf("admin id want %d got %d", admin.ID, result.Admin.ID)
	}

	claims, err := svc.ParseToken(result.Token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.AdminID != admin.ID || claims.Username != "gestor" || !claims.IsSuper {
		t.Fatalf("claims mismatch: %+v", claims)
	}

	// Last login is stamped.
	reloaded, err := adminRepo.GetByID(admin.ID)
	if err != nil {
		t.Fatalf("reload admin: %v", err)
	}
	if reloaded.LastLoginAt == nil {
		t.Fatalf("last_login_at not stamped")
	}
}

func TestAuthServiceLoginRejections(t *testing.T) {
	db := openServiceTestDB(t)
	adminRepo := repository.NewAdminRepository(db)
	svc := NewAuthService(adminRepo, "test-secret-for-auth-service-tests", 24)

	hash, err := bcrypt.GenerateFromPassword([]byte("senha123"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := db.Create(&models.Admin{Username: "gestor", PasswordHash: string(hash), Name: "Gestor Geral"}).Error; err != nil {
		t.Fatalf("create admin: %v", err)
	}

	// Wrong username and wrong password return the same error.
	if _, err := svc.Login("desconhecido", "senha123"); err != ErrInvalidCredentials {
		t.Fatalf("unknown user want ErrInvalidCredentials got %v", err)
	}
	if _, err := svc.Login("gestor", "errada"); err != ErrInvalidCredentials {
		t.Fatalf("wrong password want ErrInvalidCredentials got %v", err)
	}
}

func TestParseTokenRejectsForeignSecret(t *testing.T) {
	db := openServiceTestDB(t)
	adminRepo := repository.NewAdminRepository(db)

	hash, err := bcrypt.GenerateFromPassword([]byte("senha123"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := db.Create(&models.Admin{Username: "gestor", PasswordHash: string(hash), Name: "Gestor Geral"}).Error; err != nil {
		t.Fatalf("create admin: %v", err)
	}

	signer := NewAuthService(adminRepo, "secret-one-for-signing-tokens", 24)
	verifier := NewAuthService(adminRepo, "secret-two-for-verifying-them", 24)

	result, err := signer.Login("gestor", "senha123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := verifier.ParseToken(result.Token); err != ErrInvalidCredentials {
		t.Fatalf("foreign secret want ErrInvalidCredentials got %v", err)
	}
	if _, err := signer.ParseToken("nao-e-um-token"); err != ErrInvalidCredentials {
		t.Fatalf("garbage token want ErrInvalidCredentials got %v", err)
	}
}
