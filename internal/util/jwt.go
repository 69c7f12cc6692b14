package util

import (
	"errors"
	"skillswap_backend/internal/model"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const principalKey = "user"

type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Principal 当前请求的认证用户，由 AuthMiddleware 从数据库加载
type Principal struct {
	UserID   uint
	Username string
	IsAdmin  bool
}

// Owns 判断当前用户是否为指定用户本人
func (p *Principal) Owns(userID uint) bool {
	return p != nil && p.UserID == userID
}

// CanView 本人、管理员或公开资料
func (p *Principal) CanView(user *model.User) bool {
	if user.IsPublic {
		return true
	}
	return p != nil && (p.IsAdmin || p.UserID == user.ID)
}

func GenerateJWT(user *model.User, secret string, expiration time.Duration) (string, error) {
	now := time.Now()

	claims := &Claims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseJWT(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid && claims.Username != "" {
		return claims, nil
	}

	return nil, errors.New("invalid token claims")
}

func SetPrincipal(c *gin.Context, p *Principal) {
	c.Set(principalKey, p)
}

func GetUserFromContext(c *gin.Context) *Principal {
	user, exists := c.Get(principalKey)
	if !exists {
		return nil
	}
	p, ok := user.(*Principal)
	if !ok {
		return nil
	}
	return p
}
