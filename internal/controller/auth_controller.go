package controller

import (
	"skillswap_backend/internal/service"
	"skillswap_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// RegisterRequest defines model for registration
// swagger:model RegisterRequest
type RegisterRequest struct {
	Username     string `json:"username" binding:"required,min=3,max=50"`
	Password     string `json:"password" binding:"required,min=6"`
	Name         string `json:"name" binding:"required,max=100"`
	Location     string `json:"location" binding:"max=100"`
	ProfilePhoto string `json:"profilePhoto" binding:"max=255"`
	Availability string `json:"availability" binding:"required,max=100"`
	IsPublic     *bool  `json:"isPublic"`
}

// LoginRequest swagger:model LoginRequest
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register godoc
// @Summary 注册新用户
// @Description 注册成功后直接返回令牌
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body RegisterRequest true "用户注册信息"
// @Success 201 {object} util.Response{data=AuthResponse} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误或用户名已存在"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	res, err := c.AuthService.Register(service.RegisterInput{
		Username:     req.Username,
		Password:     req.Password,
		Name:         req.Name,
		Location:     req.Location,
		ProfilePhoto: req.ProfilePhoto,
		Availability: req.Availability,
		IsPublic:     req.IsPublic,
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Created(ctx, toAuthResponse(res))
}

// Login godoc
// @Summary 用户登录
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body LoginRequest true "登录信息"
// @Success 200 {object} util.Response{data=AuthResponse}
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "用户名或密码错误"
// @Router /api/auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	res, err := c.AuthService.Login(req.Username, req.Password)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, toAuthResponse(res))
}

func toAuthResponse(res *service.AuthResult) AuthResponse {
	return AuthResponse{
		Token:    res.Token,
		Username: res.User.Username,
		UserID:   res.User.ID,
		IsAdmin:  res.User.IsAdmin,
	}
}
