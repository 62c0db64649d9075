package utils

import (
	"testing"

	"github.com/sunvolt/fieldopsgo/internal/config"
	"github.com/sunvolt/fieldopsgo/internal/models"
)

func TestPasswordHashing(t *testing.T) {
	password := "secret123"

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	if hash == password {
		t.Error("Hash should not match plaintext password")
	}
	if len(hash) == 0 {
		t.Error("Hash should not be empty")
	}

	if !CheckPasswordHash(password, hash) {
		t.Error("Password should match hash")
	}
	if CheckPasswordHash("wrongpassword", hash) {
		t.Error("Wrong password should not match hash")
	}
}

func TestJWT(t *testing.T) {
	cfg := &config.Config{
		JWTSecret: "test-secret-key-12345",
	}

	user := &models.UserAuth{
		ID:    "uuid-1234",
		Email: "tech@example.com",
		Role:  "technician",
	}

	accessToken, refreshToken, err := GenerateTokens(user, cfg)
	if err != nil {
		t.Fatalf("Failed to generate tokens: %v", err)
	}
	if accessToken == "" || refreshToken == "" {
		t.Error("Tokens should not be empty")
	}

	claims, err := ValidateToken(accessToken, cfg.JWTSecret)
	if err != nil {
		t.Fatalf("Failed to validate token: %v", err)
	}
	if claims["id"] != user.ID {
		t.Errorf("Claim id: got %v, want %s", claims["id"], user.ID)
	}
	if claims["role"] != "technician" {
		t.Errorf("Claim role: got %v, want technician", claims["role"])
	}

	if _, err := ValidateToken(accessToken, "wrong-secret"); err == nil {
		t.Error("Token signed with another secret must not validate")
	}
	if _, err := ValidateToken("not-a-token", cfg.JWTSecret); err == nil {
		t.Error("Garbage token must not validate")
	}
}
