package user

import (
	"errors"
	"fmt"
	"time"

	"github.com/SlpAus/startup-pitch-backend/internal/platform/database"
	"github.com/SlpAus/startup-pitch-backend/pkg/token"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// bcryptCost 是密码哈希的代价因子
const bcryptCost = 12

var (
	// ErrEmailTaken 表示邮箱已被注册
	ErrEmailTaken = errors.New("该邮箱已被注册")
	// ErrInvalidCredentials 表示邮箱或密码错误，对外不区分两者
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	// ErrUserNotFound 表示用户不存在
	ErrUserNotFound = errors.New("用户不存在")
)

// AuthResult 是注册/登录成功后返回给控制器的数据包。
type AuthResult struct {
	User  *User
	Token string
}

// Signup 注册一个新用户并签发Token。角色在此刻固定，之后不可变更。
func Signup(email, password, name string, role Role) (*AuthResult, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("无法哈希密码: %w", err)
	}

	newUUID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("无法生成UUID v7: %w", err)
	}

	newUser := User{
		UUID:     newUUID.String(),
		Email:    email,
		Password: string(hashed),
		Name:     name,
		Role:     role,
		IsActive: true,
	}
	if err := database.DB.Create(&newUser).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("无法创建用户: %w", err)
	}

	t, err := token.GenerateToken(newUser.UUID, newUser.Email, string(newUser.Role), newUser.Name)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: &newUser, Token: t}, nil
}

// Signin 校验凭据并签发Token，同时更新登录统计。
func Signin(email, password string) (*AuthResult, error) {
	var u User
	err := database.DB.Where("email = ?", email).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 更新登录统计，失败只记录不影响登录
	now := time.Now()
	err = database.DB.Model(&User{}).Where("uuid = ?", u.UUID).
		Updates(map[string]interface{}{
			"last_login_at": now,
			"login_count":   gorm.Expr("login_count + 1"),
		}).Error
	if err != nil {
		fmt.Printf("警告: 更新用户 %s 的登录统计失败: %v\n", u.UUID, err)
	}

	t, err := token.GenerateToken(u.UUID, u.Email, string(u.Role), u.Name)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: &u, Token: t}, nil
}

// GetByID 按UUID查找用户。
func GetByID(userID string) (*User, error) {
	var u User
	err := database.DB.Where("uuid = ?", userID).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	return &u, nil
}

// BindTeam 将founder与其创建的团队绑定，必须在创建团队的事务中调用。
func BindTeam(tx *gorm.DB, userID, teamID string) error {
	return tx.Model(&User{}).Where("uuid = ?", userID).Update("team_id", teamID).Error
}
