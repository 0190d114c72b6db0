package token

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// secretKey 是用于签发和校验JWT的对称密钥。
var secretKey []byte

// tokenTTL 是签发Token的有效期。
var tokenTTL = 24 * time.Hour

// ErrInvalidToken 表示Token无法通过校验（签名错误、过期或格式不正确）。
var ErrInvalidToken = errors.New("无效或已过期的Token")

// Claims 定义了JWT负载中携带的用户信息。
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// Configure 在应用启动时设置密钥和有效期。
// 如果密钥为空，则生成一个一次性的随机密钥（仅适用于开发模式，
// 重启后所有已签发的Token都会失效）。
func Configure(secret string, ttlHours int) {
	if secret == "" {
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			panic("无法生成安全的JWT密钥: " + err.Error())
		}
		secretKey = key
		fmt.Printf("警告: 未配置JWT密钥，已生成临时密钥: %s...\n", base64.RawURLEncoding.EncodeToString(key)[:8])
	} else {
		secretKey = []byte(secret)
	}

	if ttlHours > 0 {
		tokenTTL = time.Duration(ttlHours) * time.Hour
	}
	fmt.Println("JWT密钥已配置。")
}

// GenerateToken 为一个用户签发Token。
func GenerateToken(userID, email, role, name string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		Name:   name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
			Subject:   userID,
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(secretKey)
	if err != nil {
		return "", fmt.Errorf("无法签发JWT: %w", err)
	}
	return signed, nil
}

// ValidateToken 校验Token并返回其负载。
func ValidateToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		// 只接受HMAC签名，防止算法替换攻击
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("意外的签名算法: %v", t.Header["alg"])
		}
		return secretKey, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
