package user

import (
	"net/http"
	"strings"

	"github.com/SlpAus/startup-pitch-backend/pkg/token"
	"github.com/gin-gonic/gin"
)

const (
	// CurrentUserKey 是Gin上下文中已认证用户的键
	CurrentUserKey = "currentUser"
	// CapabilitiesKey 是Gin上下文中能力集合的键
	CapabilitiesKey = "capabilities"
)

// AuthMiddleware 校验Bearer Token，加载用户并把能力集合放入Gin上下文。
// 能力集合在这里一次性求值，后续的handler只读取它，不再按角色重新推导。
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "缺少或格式错误的Authorization头"})
			return
		}

		claims, err := token.ValidateToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "无效或已过期的Token"})
			return
		}

		u, err := GetByID(claims.UserID)
		if err != nil || !u.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "用户不存在或已被停用"})
			return
		}

		c.Set(CurrentUserKey, u)
		c.Set(CapabilitiesKey, u.Capabilities())
		c.Next()
	}
}

// RequireCapability 基于已求值的能力集合做访问控制。
// 必须在AuthMiddleware之后使用。
func RequireCapability(pick func(Capabilities) bool, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		caps, ok := CapabilitiesFrom(c)
		if !ok || !pick(caps) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": message})
			return
		}
		c.Next()
	}
}

// CurrentUser 从Gin上下文中取出已认证的用户。
func CurrentUser(c *gin.Context) (*User, bool) {
	v, exists := c.Get(CurrentUserKey)
	if !exists {
		return nil, false
	}
	u, ok := v.(*User)
	return u, ok
}

// CapabilitiesFrom 从Gin上下文中取出能力集合。
func CapabilitiesFrom(c *gin.Context) (Capabilities, bool) {
	v, exists := c.Get(CapabilitiesKey)
	if !exists {
		return Capabilities{}, false
	}
	caps, ok := v.(Capabilities)
	return caps, ok
}
