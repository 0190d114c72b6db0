package user

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// SignupRequestBody 定义了注册请求体的JSON结构
type SignupRequestBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required,max=100"`
	Role     string `json:"role" binding:"required,oneof=founder reviewer"`
}

// SigninRequestBody 定义了登录请求体的JSON结构
type SigninRequestBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserResponse 是对外的用户信息，永远不包含密码
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	TeamID    *string   `json:"teamId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func formatUser(u *User) UserResponse {
	return UserResponse{
		ID:        u.UUID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		TeamID:    u.TeamID,
		CreatedAt: u.CreatedAt,
	}
}

// HandleSignup 处理用户注册
func HandleSignup(c *gin.Context) {
	var body SignupRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	result, err := Signup(body.Email, body.Password, body.Name, Role(body.Role))
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "注册失败"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":  formatUser(result.User),
		"token": result.Token,
	})
}

// HandleSignin 处理用户登录
func HandleSignin(c *gin.Context) {
	var body SigninRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	result, err := Signin(body.Email, body.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "登录失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  formatUser(result.User),
		"token": result.Token,
	})
}

// HandleProfile 返回当前认证用户的资料
func HandleProfile(c *gin.Context) {
	u, ok := CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未认证"})
		return
	}
	c.JSON(http.StatusOK, formatUser(u))
}
