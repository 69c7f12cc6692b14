package controller

import (
	"skillswap_backend/internal/model"
	"skillswap_backend/internal/service"
	"skillswap_backend/internal/util"
	"skillswap_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserController struct {
	UserService    *service.UserService
	StorageService *service.StorageService
}

func NewUserController(userService *service.UserService, storageService *service.StorageService) *UserController {
	return &UserController{
		UserService:    userService,
		StorageService: storageService,
	}
}

// UpdateProfileRequest 只更新提交的字段
// swagger:model UpdateProfileRequest
type UpdateProfileRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=1,max=100"`
	Location     *string `json:"location" binding:"omitempty,max=100"`
	ProfilePhoto *string `json:"profilePhoto" binding:"omitempty,max=255"`
	Availability *string `json:"availability" binding:"omitempty,min=1,max=100"`
	IsPublic     *bool   `json:"isPublic"`
	Password     *string `json:"password" binding:"omitempty,min=6"`
}

// ListPublic godoc
// @Summary 公开用户列表
// @Description 只返回公开且未停用的用户
// @Tags 用户
// @Produce  json
// @Success 200 {object} util.Response{data=[]UserDTO}
// @Router /api/users/public [get]
func (c *UserController) ListPublic(ctx *gin.Context) {
	users, err := c.UserService.ListPublic()
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, ToUserDTOs(users))
}

// SearchByOfferedSkill godoc
// @Summary 按提供的技能搜索用户
// @Tags 用户
// @Produce  json
// @Param skillName query string true "技能名称"
// @Success 200 {object} util.Response{data=[]UserDTO}
// @Failure 400 {object} util.Response
// @Security ApiKeyAuth
// @Router /api/users/search/offered-skills [get]
func (c *UserController) SearchByOfferedSkill(ctx *gin.Context) {
	c.search(ctx, c.UserService.SearchByOfferedSkill)
}

// SearchByWantedSkill godoc
// @Summary 按想学的技能搜索用户
// @Tags 用户
// @Produce  json
// @Param skillName query string true "技能名称"
// @Success 200 {object} util.Response{data=[]UserDTO}
// @Failure 400 {object} util.Response
// @Security ApiKeyAuth
// @Router /api/users/search/wanted-skills [get]
func (c *UserController) SearchByWantedSkill(ctx *gin.Context) {
	c.search(ctx, c.UserService.SearchByWantedSkill)
}

func (c *UserController) search(ctx *gin.Context, find func(string) ([]model.User, error)) {
	skill := ctx.Query("skillName")
	if skill == "" {
		util.BadRequest(ctx, "skillName query parameter is required")
		return
	}
	users, err := find(skill)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, ToUserDTOs(users))
}

// GetUser godoc
// @Summary 获取用户资料
// @Description 私密资料只有本人和管理员可见
// @Tags 用户
// @Produce  json
// @Param id path int true "用户ID"
// @Success 200 {object} util.Response{data=UserDTO}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Security ApiKeyAuth
// @Router /api/users/{id} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	user, ok := viewableUser(ctx, c.UserService, "id")
	if !ok {
		return
	}
	util.Success(ctx, ToUserDTO(user))
}

// GetProfile godoc
// @Summary 当前用户资料
// @Tags 用户
// @Produce  json
// @Success 200 {object} util.Response{data=UserDTO}
// @Security ApiKeyAuth
// @Router /api/users/profile [get]
func (c *UserController) GetProfile(ctx *gin.Context) {
	principal, ok := currentUser(ctx)
	if !ok {
		return
	}
	user, err := c.UserService.GetByID(principal.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, ToUserDTO(user))
}

// UpdateProfile godoc
// @Summary 修改当前用户资料
// @Tags 用户
// @Accept  json
// @Produce  json
// @Param body body UpdateProfileRequest true "资料"
// @Success 200 {object} util.Response{data=UserDTO}
// @Failure 400 {object} util.Response
// @Security ApiKeyAuth
// @Router /api/users/profile [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	principal, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.UpdateProfile(principal.UserID, service.ProfileUpdate{
		Name:         req.Name,
		Location:     req.Location,
		ProfilePhoto: req.ProfilePhoto,
		Availability: req.Availability,
		IsPublic:     req.IsPublic,
		Password:     req.Password,
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, ToUserDTO(user))
}

// UploadProfilePhoto godoc
// @Summary 上传头像
// @Description 仅支持图片，最大 5MB
// @Tags 用户
// @Accept  multipart/form-data
// @Produce  json
// @Param file formData file true "头像文件"
// @Success 200 {object} util.Response{data=UserDTO}
// @Failure 400 {object} util.Response
// @Security ApiKeyAuth
// @Router /api/users/profile/photo [post]
func (c *UserController) UploadProfilePhoto(ctx *gin.Context) {
	principal, ok := currentUser(ctx)
	if !ok {
		return
	}

	header, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	obj, err := c.StorageService.UploadProfilePhoto(ctx.Request.Context(), principal.UserID, header)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	user, err := c.UserService.SetProfilePhoto(principal.UserID, obj.URL)
	if err != nil {
		// 资料更新失败时清理已上传的文件
		if delErr := c.StorageService.Delete(ctx.Request.Context(), obj.Name); delErr != nil {
			logger.Log.Warn("Failed to remove orphaned upload", zap.String("object", obj.Name), zap.Error(delErr))
		}
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, ToUserDTO(user))
}

// Activate godoc
// @Summary 启用用户
// @Tags 管理
// @Produce  json
// @Param id path int true "用户ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Security ApiKeyAuth
// @Router /api/users/{id}/activate [put]
func (c *UserController) Activate(ctx *gin.Context) {
	c.applyFlag(ctx, c.UserService.Activate, "User activated")
}

// Deactivate godoc
// @Summary 停用用户
// @Description 停用后无法登录，已签发的令牌也会失效
// @Tags 管理
// @Produce  json
// @Param id path int true "用户ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Security ApiKeyAuth
// @Router /api/users/{id}/deactivate [put]
func (c *UserController) Deactivate(ctx *gin.Context) {
	c.applyFlag(ctx, c.UserService.Deactivate, "User deactivated")
}

func (c *UserController) applyFlag(ctx *gin.Context, apply func(uint) error, message string) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := apply(id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": message})
}
