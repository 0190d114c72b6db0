package token

import (
	"testing"
)

func TestGenerateAndValidateToken(t *testing.T) {
	Configure("test-secret", 1)

	signed, err := GenerateToken("user-1", "u1@example.com", "reviewer", "Reviewer One")
	if err != nil {
		t.Fatalf("签发Token失败: %v", err)
	}

	claims, err := ValidateToken(signed)
	if err != nil {
		t.Fatalf("校验Token失败: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Fatalf("UserID = %q, want %q", claims.UserID, "user-1")
	}
	if claims.Email != "u1@example.com" {
		t.Fatalf("Email = %q, want %q", claims.Email, "u1@example.com")
	}
	if claims.Role != "reviewer" {
		t.Fatalf("Role = %q, want %q", claims.Role, "reviewer")
	}
	if claims.Subject != "user-1" {
		t.Fatalf("Subject = %q, want %q", claims.Subject, "user-1")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	Configure("test-secret", 1)

	tests := []struct {
		name  string
		token string
	}{
		{name: "空字符串", token: ""},
		{name: "非JWT文本", token: "not-a-jwt"},
		{name: "签名被篡改", token: mustToken(t) + "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ValidateToken(tt.token); err != ErrInvalidToken {
				t.Fatalf("err = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestValidateTokenWrongKey(t *testing.T) {
	Configure("first-secret", 1)
	signed, err := GenerateToken("user-1", "u1@example.com", "reviewer", "Reviewer One")
	if err != nil {
		t.Fatalf("签发Token失败: %v", err)
	}

	// 换了密钥之后旧Token全部失效
	Configure("second-secret", 1)
	if _, err := ValidateToken(signed); err != ErrInvalidToken {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func mustToken(t *testing.T) string {
	t.Helper()
	signed, err := GenerateToken("user-1", "u1@example.com", "reviewer", "Reviewer One")
	if err != nil {
		t.Fatalf("签发Token失败: %v", err)
	}
	return signed
}
