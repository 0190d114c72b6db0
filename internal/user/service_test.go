package user

import (
	"errors"
	"testing"

	"github.com/SlpAus/startup-pitch-backend/pkg/token"
)

func TestSignupAndSignin(t *testing.T) {
	newTestDB(t)
	token.Configure("test-secret", 1)

	result, err := Signup("founder@example.com", "secret123", "Founder", RoleFounder)
	if err != nil {
		t.Fatalf("注册失败: %v", err)
	}
	if result.User.Role != RoleFounder {
		t.Fatalf("Role = %q, want %q", result.User.Role, RoleFounder)
	}
	if result.User.Password == "secret123" {
		t.Fatal("密码不应明文存储")
	}
	if result.Token == "" {
		t.Fatal("注册应当签发Token")
	}

	claims, err := token.ValidateToken(result.Token)
	if err != nil {
		t.Fatalf("校验Token失败: %v", err)
	}
	if claims.UserID != result.User.UUID {
		t.Fatalf("Token中的UserID = %q, want %q", claims.UserID, result.User.UUID)
	}

	// 邮箱唯一
	if _, err := Signup("founder@example.com", "other", "Another", RoleReviewer); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}

	// 正确凭据登录
	signin, err := Signin("founder@example.com", "secret123")
	if err != nil {
		t.Fatalf("登录失败: %v", err)
	}
	if signin.User.UUID != result.User.UUID {
		t.Fatalf("登录返回的用户不一致: %q vs %q", signin.User.UUID, result.User.UUID)
	}

	// 错误密码和不存在的邮箱返回同一个错误
	if _, err := Signin("founder@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := Signin("nobody@example.com", "whatever"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestCapabilities(t *testing.T) {
	tests := []struct {
		name string
		user User
		want Capabilities
	}{
		{
			name: "没有团队的创业者只能建团队",
			user: User{Role: RoleFounder, IsActive: true},
			want: Capabilities{CanCreateTeam: true},
		},
		{
			name: "有团队的创业者只能提交Pitch",
			user: User{Role: RoleFounder, IsActive: true, TeamID: strPtr("team-1")},
			want: Capabilities{CanSubmitPitch: true},
		},
		{
			name: "评审",
			user: User{Role: RoleReviewer, IsActive: true},
			want: Capabilities{CanVote: true, CanLeaveFeedback: true},
		},
		{
			name: "停用的评审没有任何能力",
			user: User{Role: RoleReviewer, IsActive: false},
			want: Capabilities{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.Capabilities(); got != tt.want {
				t.Fatalf("Capabilities = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func strPtr(s string) *string {
	return &s
}
