package service

import (
	"testing"

	"github.com/aulago/campus/config"
	"github.com/aulago/campus/internal/model"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpirationHours = 1
	return cfg
}

func TestTokenRoundTrip(t *testing.T) {
	cfg := testConfig()
	user := &model.User{
		ID:                 42,
		Username:           "marta",
		Role:               model.RoleTeacher,
		VerificationStatus: model.VerificationApproved,
	}

	token, err := GenerateToken(user, cfg)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	claims, err := ParseToken(token, cfg)
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Role != model.RoleTeacher {
		t.Errorf("Role = %s, want teacher", claims.Role)
	}
	if !claims.Approved {
		t.Error("Approved = false, want true")
	}
	if claims.Subject != "marta" {
		t.Errorf("Subject = %s, want marta", claims.Subject)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	cfg := testConfig()
	user := &model.User{ID: 1, Username: "x", Role: model.RoleStudent}

	token, err := GenerateToken(user, cfg)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	other := testConfig()
	other.JWT.Secret = "another-secret"
	if _, err := ParseToken(token, other); err == nil {
		t.Fatal("expected signature verification to fail")
	}
}

func TestParseTokenGarbage(t *testing.T) {
	if _, err := ParseToken("not.a.token", testConfig()); err == nil {
		t.Fatal("expected parse error")
	}
}
