package middleware

import (
	"errors"
	"skillswap_backend/internal/config"
	"skillswap_backend/internal/model"
	"skillswap_backend/internal/util"
	"skillswap_backend/pkg/logger"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserLookup 根据令牌中的用户名加载用户
type UserLookup interface {
	FindByUsername(username string) (*model.User, error)
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return ""
}

// authenticate 解析令牌并从数据库加载用户，管理员标记以数据库为准
func authenticate(c *gin.Context, cfg *config.Config, users UserLookup) (*util.Principal, error) {
	tokenString := bearerToken(c)
	if tokenString == "" {
		return nil, util.ErrUnauthorized
	}

	claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
	if err != nil {
		logger.Log.Debug("JWT parse failed", zap.Error(err))
		return nil, util.ErrUnauthorized
	}

	user, err := users.FindByUsername(claims.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUnauthorized
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, util.ErrAccountInactive
	}

	return &util.Principal{
		UserID:   user.ID,
		Username: user.Username,
		IsAdmin:  user.IsAdmin,
	}, nil
}

func AuthMiddleware(cfg *config.Config, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := authenticate(c, cfg, users)
		if err != nil {
			if util.KindOf(err) == util.KindUnauthorized {
				util.HandleError(c, err)
			} else {
				util.LogInternalError(c, err)
			}
			c.Abort()
			return
		}

		util.SetPrincipal(c, principal)
		c.Next()
	}
}

// TryAuthMiddleware 有合法令牌时设置当前用户，否则按匿名访问继续
func TryAuthMiddleware(cfg *config.Config, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		if principal, err := authenticate(c, cfg, users); err == nil {
			util.SetPrincipal(c, principal)
		}
		c.Next()
	}
}

// AdminMiddleware 必须在 AuthMiddleware 之后使用
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := util.GetUserFromContext(c)
		if user == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}
		if !user.IsAdmin {
			util.Forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
