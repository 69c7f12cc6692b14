package controller

import (
	"skillswap_backend/internal/model"
	"skillswap_backend/internal/service"
	"skillswap_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// pathID 解析路径参数中的 ID，失败时直接写 400 响应
func pathID(ctx *gin.Context, name string) (uint, bool) {
	id, ok := util.ParseID(ctx.Param(name))
	if !ok {
		util.BadRequest(ctx, "Invalid "+name)
		return 0, false
	}
	return id, true
}

// currentUser 路由都挂在 AuthMiddleware 后面，为空说明配置错误
func currentUser(ctx *gin.Context) (*util.Principal, bool) {
	p := util.GetUserFromContext(ctx)
	if p == nil {
		util.Unauthorized(ctx)
		return nil, false
	}
	return p, true
}

// viewableUser 加载路径参数指定的用户并校验资料可见性
// 挂在 TryAuthMiddleware 后面，匿名访问只能看到公开资料
func viewableUser(ctx *gin.Context, users *service.UserService, param string) (*model.User, bool) {
	userID, ok := pathID(ctx, param)
	if !ok {
		return nil, false
	}

	user, err := users.GetByID(userID)
	if err != nil {
		util.HandleError(ctx, err)
		return nil, false
	}
	if !util.GetUserFromContext(ctx).CanView(user) {
		util.HandleError(ctx, util.Forbiddenf("This profile is private"))
		return nil, false
	}
	return user, true
}
