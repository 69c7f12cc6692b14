package controller

import (
	"skillswap_backend/internal/model"
	"skillswap_backend/internal/service"
	"skillswap_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SkillController struct {
	SkillService *service.SkillService
	UserService  *service.UserService
}

func NewSkillController(skillService *service.SkillService, userService *service.UserService) *SkillController {
	return &SkillController{
		SkillService: skillService,
		UserService:  userService,
	}
}

// SkillRequest swagger:model SkillRequest
type SkillRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	IsOffered   *bool  `json:"isOffered" binding:"required"`
}

func (r SkillRequest) input() service.SkillInput {
	return service.SkillInput{
		Name:        r.Name,
		Description: r.Description,
		IsOffered:   *r.IsOffered,
	}
}

// ListNames godoc
// @Summary 所有已审核技能名称
// @Description 去重并按名称排序
// @Tags 技能
// @Produce  json
// @Success 200 {object} util.Response{data=[]string}
// @Router /api/skills/public/names [get]
func (c *SkillController) ListNames(ctx *gin.Context) {
	names, err := c.SkillService.DistinctNames()
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, names)
}

// Search godoc
// @Summary 按名称搜索技能
// @Description 不区分大小写
// @Tags 技能
// @Produce  json
// @Param name query string true "技能名称"
// @Success 200 {object} util.Response{data=[]SkillDTO}
// @Router /api/skills/public/search [get]
func (c *SkillController) Search(ctx *gin.Context) {
	c.search(ctx, c.SkillService.SearchByName)
}

// SearchOffered godoc
// @Summary 搜索已审核的 offered 技能
// @Tags 技能
// @Produce  json
// @Param name query string true "技能名称"
// @Success 200 {object} util.Response{data=[]SkillDTO}
// @Router /api/skills/public/offered [get]
func (c *SkillController) SearchOffered(ctx *gin.Context) {
	c.search(ctx, c.SkillService.SearchOffered)
}

// SearchWanted godoc
// @Summary 搜索已审核的 wanted 技能
// @Tags 技能
// @Produce  json
// @Param name query string true "技能名称"
// @Success 200 {object} util.Response{data=[]SkillDTO}
// @Router /api/skills/public/wanted [get]
func (c *SkillController) SearchWanted(ctx *gin.Context) {
	c.search(ctx, c.SkillService.SearchWanted)
}

func (c *SkillController) search(ctx *gin.Context, find func(string) ([]model.Skill, error)) {
	name := ctx.Query("name")
	if name == "" {
		util.BadRequest(ctx, "name query parameter is required")
		return
	}
	skills, err := find(name)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, ToSkillDTOs(skills))
}

// ListByUser godoc
// @Summary 用户的全部技能
// @Tags 技能
// @Produce  json
// @Param userId path int true "用户ID"
// @Success 200 {object} util.Response{data=[]SkillDTO}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Security ApiKeyAuth
// @Router /api/skills/user/{userId} [get]
func (c *SkillController) ListByUser(ctx *gin.Context) {
	c.listForUser(ctx, c.SkillService.ListByUser)
}

// ListOfferedByUser godoc
// @Summary 用户提供的技能
// @Tags 技能
// @Produce  json
// @Param userId path int true "用户ID"
// @Success 200 {object} util.Response{data=[]SkillDTO}
// @Security ApiKeyAuth
// @Router /api/skills/user/{userId}/offered [get]
func (c *SkillController) ListOfferedByUser(ctx *gin.Context) {
	c.listForUser(ctx, c.SkillService.ListOfferedByUser)
}

// ListWantedByUser godoc
// @Summary 用户想学的技能
// @Tags 技能
// @Produce  json
// @Param userId path int true "用户ID"
// @Success 200 {object} util.Response{data=[]SkillDTO}
// @Security ApiKeyAuth
// @Router /api/skills/user/{userId}/wanted [get]
func (c *SkillController) ListWantedByUser(ctx *gin.Context) {
	c.listForUser(ctx, c.SkillService.ListWantedByUser)
}

// listForUser 私密用户的技能只有本人和管理员可见
func (c *SkillController) listForUser(ctx *gin.Context, list func(uint) ([]model.Skill, error)) {
	user, ok := viewableUser(ctx, c.UserService, "userId")
	if !ok {
		return
	}

	skills, err := list(user.ID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, ToSkillDTOs(skills))
}

// GetSkill godoc
// @Summary 技能详情
// @Tags 技能
// @Produce  json
// @Param id path int true "技能ID"
// @Success 200 {object} util.Response{data=SkillDTO}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Security ApiKeyAuth
// @Router /api/skills/{id} [get]
func (c *SkillController) GetSkill(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	principal, ok := currentUser(ctx)
	if !ok {
		return
	}

	skill, err := c.SkillService.GetByID(id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	if skill.User != nil && !principal.CanView(skill.User) {
		util.HandleError(ctx, util.Forbiddenf("This profile is private"))
		return
	}
	util.Success(ctx, ToSkillDTO(skill))
}

// CreateSkill godoc
// @Summary 添加技能
// @Description offered 技能需要管理员审核后才能用于交换
// @Tags 技能
// @Accept  json
// @Produce  json
// @Param body body SkillRequest true "技能"
// @Success 201 {object} util.Response{data=SkillDTO}
// @Failure 400 {object} util.Response
// @Security ApiKeyAuth
// @Router /api/skills [post]
func (c *SkillController) CreateSkill(ctx *gin.Context) {
	principal, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req SkillRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	skill, err := c.SkillService.Create(principal.UserID, req.input())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, ToSkillDTO(skill))
}

// UpdateSkill godoc
// @Summary 修改技能
// @Description 只有技能所有者或管理员可以修改，wanted 改为 offered 需要重新审核
// @Tags 技能
// @Accept  json
// @Produce  json
// @Param id path int true "技能ID"
// @Param body body SkillRequest true "技能"
// @Success 200 {object} util.Response{data=SkillDTO}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Security ApiKeyAuth
// @Router /api/skills/{id} [put]
func (c *SkillController) UpdateSkill(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req SkillRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if !c.authorizeOwner(ctx, id, "You don't have permission to update this skill") {
		return
	}

	skill, err := c.SkillService.Update(id, req.input())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, ToSkillDTO(skill))
}

// DeleteSkill godoc
// @Summary 删除技能
// @Description 已被交换申请引用的技能不能删除
// @Tags 技能
// @Produce  json
// @Param id path int true "技能ID"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Security ApiKeyAuth
// @Router /api/skills/{id} [delete]
func (c *SkillController) DeleteSkill(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if !c.authorizeOwner(ctx, id, "You don't have permission to delete this skill") {
		return
	}

	if err := c.SkillService.Delete(id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "Skill deleted"})
}

// authorizeOwner 技能不存在时返回 404，存在但不属于当前用户时返回 403
func (c *SkillController) authorizeOwner(ctx *gin.Context, skillID uint, message string) bool {
	principal, ok := currentUser(ctx)
	if !ok {
		return false
	}
	skill, err := c.SkillService.GetByID(skillID)
	if err != nil {
		util.HandleError(ctx, err)
		return false
	}
	if !principal.Owns(skill.UserID) && !principal.IsAdmin {
		util.HandleError(ctx, util.Forbiddenf("%s", message))
		return false
	}
	return true
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
// @Router /api/skills/{id}/approve [put]
func (c *SkillController) ApproveSkill(ctx *gin.Context) {
	c.setApproval(ctx, c.SkillService.Approve, "Skill approved")
}

// RejectSkill godoc
// @Summary 驳回技能
// @Description 只取消审核状态，不删除技能
// @Tags 管理
// @Produce  json
// @Param id path int true "技能ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Security ApiKeyAuth
// @Router /api/skills/{id}/reject [put]
func (c *SkillController) RejectSkill(ctx *gin.Context) {
	c.setApproval(ctx, c.SkillService.Reject, "Skill rejected")
}

func (c *SkillController) setApproval(ctx *gin.Context, apply func(uint) error, message string) {
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

// ListPendingApproval godoc
// @Summary 待审核技能
// @Tags 管理
// @Produce  json
// @Success 200 {object} util.Response{data=[]SkillDTO}
// @Failure 403 {object} util.Response
// @Security ApiKeyAuth
// @Router /api/skills/pending-approval [get]
func (c *SkillController) ListPendingApproval(ctx *gin.Context) {
	skills, err := c.SkillService.ListPendingApproval()
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, ToSkillDTOs(skills))
}
