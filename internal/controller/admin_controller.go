package controller

import (
	"skillswap_backend/internal/service"
	"skillswap_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// AdminController 管理后台接口，路由组统一挂 AdminMiddleware
type AdminController struct {
	AdminService    *service.AdminService
	UserService     *service.UserService
	SkillService    *service.SkillService
	FeedbackService *service.FeedbackService
}

func NewAdminController(adminService *service.AdminService, userService *service.UserService, skillService *service.SkillService, feedbackService *service.FeedbackService) *AdminController {
	return &AdminController{
		AdminService:    adminService,
		UserService:     userService,
		SkillService:    skillService,
		FeedbackService: feedbackService,
	}
}

// ListUsers godoc
// @Summary 用户列表
// @Tags 管理
// @Produce  json
// @Param page query int false "页码，默认 1"
// @Param limit query int false "每页数量，默认 20，最大 100"
// @Success 200 {object} util.Response{data=util.PageResponse{list=[]UserDTO}}
// @Failure 403 {object} util.Response
// @Security ApiKeyAuth
// @Router /api/admin/users [get]
func (c *AdminController) ListUsers(ctx *gin.Context) {
	page, limit := util.NormalizePage(
		util.ParseIntDefault(ctx.Query("page"), 1),
		util.ParseIntDefault(ctx.Query("limit"), 20),
	)

	users, total, err := c.UserService.List(page, limit)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{
		List:  ToUserDTOs(users),
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// ListAdmins godoc
// @Summary 管理员列表
// @Tags 管理
// @Produce  json
// @Success 200 {object} util.Response{data=[]UserDTO}
// @Failure 403 {object} util.Response
// @Security ApiKeyAuth
// @Router /api/admin/users/admins [get]
func (c *AdminController) ListAdmins(ctx *gin.Context) {
	users, err := c.UserService.ListAdmins()
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, ToUserDTOs(users))
}

// MakeAdmin godoc
// @Summary 设为管理员
// @Tags 管理
// @Produce  json
// @Param id path int true "用户ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Security ApiKeyAuth
// @Router /api/admin/users/{id}/make-admin [put]
func (c *AdminController) MakeAdmin(ctx *gin.Context) {
	c.applyUserFlag(ctx, c.UserService.MakeAdmin, "User promoted to admin")
}

// RemoveAdmin godoc
// @Summary 取消管理员
// @Tags 管理
// @Produce  json
// @Param id path int true "用户ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Security ApiKeyAuth
// @Router /api/admin/users/{id}/remove-admin [put]
func (c *AdminController) RemoveAdmin(ctx *gin.Context) {
	c.applyUserFlag(ctx, c.UserService.RemoveAdmin, "Admin role removed")
}

func (c *AdminController) applyUserFlag(ctx *gin.Context, apply func(uint) error, message string) {
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

// ListPendingSkills godoc
// @Summary 待审核技能
// @Tags 管理
// @Produce  json
// @Success 200 {object} util.Response{data=[]SkillDTO}
// @Failure 403 {object} util.Response
// @Security ApiKeyAuth
// @Router /api/admin/skills/pending [get]
func (c *AdminController) ListPendingSkills(ctx *gin.Context) {
	skills, err := c.SkillService.ListPendingApproval()
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, ToSkillDTOs(skills))
}

// ApproveSkill godoc
// @Summary 审核通过技能
// @Tags 管理
// @Produce  json
// @Param id path int true "技能ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Security ApiKeyAuth
// @Router /api/admin/skills/{id}/approve [put]
func (c *AdminController) ApproveSkill(ctx *gin.Context) {
	c.applySkillApproval(ctx, c.SkillService.Approve, "Skill approved")
}

// RejectSkill godoc
// @Summary 驳回技能
// @Tags 管理
// @Produce  json
// @Param id path int true "技能ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Security ApiKeyAuth
// @Router /api/admin/skills/{id}/reject [put]
func (c *AdminController) RejectSkill(ctx *gin.Context) {
	c.applySkillApproval(ctx, c.SkillService.Reject, "Skill rejected")
}

func (c *AdminController) applySkillApproval(ctx *gin.Context, apply func(uint) error, message string) {
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

// SwapStats godoc
// @Summary 交换申请状态统计
// @Tags 管理
// @Produce  json
// @Success 200 {object} util.Response{data=service.SwapStats}
// @Failure 403 {object} util.Response
// @Security ApiKeyAuth
// @Router /api/admin/swap-requests/stats [get]
func (c *AdminController) SwapStats(ctx *gin.Context) {
	stats, err := c.AdminService.SwapStats()
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// LowRatingFeedback godoc
// @Summary 低分评价
// @Tags 管理
// @Produce  json
// @Param maxRating query int false "最高分，默认 2"
// @Success 200 {object} util.Response{data=[]FeedbackDTO}
// @Failure 403 {object} util.Response
// @Security ApiKeyAuth
// @Router /api/admin/feedback/low-rating [get]
func (c *AdminController) LowRatingFeedback(ctx *gin.Context) {
	maxRating := util.ParseIntDefault(ctx.Query("maxRating"), 2)
	list, err := c.FeedbackService.ListRatingAtMost(maxRating)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, ToFeedbackDTOs(list))
}

// UserActivityReport godoc
// @Summary 用户活跃度报表
// @Tags 管理
// @Produce  json
// @Success 200 {object} util.Response{data=service.UserActivityReport}
// @Failure 403 {object} util.Response
// @Security ApiKeyAuth
// @Router /api/admin/reports/user-activity [get]
func (c *AdminController) UserActivityReport(ctx *gin.Context) {
	report, err := c.AdminService.UserActivityReport()
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, report)
}
