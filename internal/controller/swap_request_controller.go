package controller

import (
	"skillswap_backend/internal/model"
	"skillswap_backend/internal/service"
	"skillswap_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SwapRequestController struct {
	SwapService *service.SwapRequestService
}

func NewSwapRequestController(swapService *service.SwapRequestService) *SwapRequestController {
	return &SwapRequestController{SwapService: swapService}
}

// CreateSwapRequest swagger:model CreateSwapRequest
type CreateSwapRequest struct {
	RequesterID      uint   `json:"requesterId" binding:"required"`
	ProviderID       uint   `json:"providerId" binding:"required"`
	RequestedSkillID uint   `json:"requestedSkillId" binding:"required"`
	OfferedSkillID   uint   `json:"offeredSkillId" binding:"required"`
	Message          string `json:"message"`
}

func (c *SwapRequestController) respondList(ctx *gin.Context, reqs []model.SwapRequest, err error) {
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, ToSwapRequestDTOs(reqs))
}

// ListMine godoc
// @Summary 我参与的交换申请
// @Tags 交换申请
// @Produce  json
// @Success 200 {object} util.Response{data=[]SwapRequestDTO}
// @Security ApiKeyAuth
// @Router /api/swap-requests [get]
func (c *SwapRequestController) ListMine(ctx *gin.Context) {
	principal, ok := currentUser(ctx)
	if !ok {
		return
	}
	reqs, err := c.SwapService.ListByUser(principal.UserID)
	c.respondList(ctx, reqs, err)
}

// ListSent godoc
// @Summary 我发出的交换申请
// @Tags 交换申请
// @Produce  json
// @Success 200 {object} util.Response{data=[]SwapRequestDTO}
// @Security ApiKeyAuth
// @Router /api/swap-requests/sent [get]
func (c *SwapRequestController) ListSent(ctx *gin.Context) {
	principal, ok := currentUser(ctx)
	if !ok {
		return
	}
	reqs, err := c.SwapService.ListSent(principal.UserID)
	c.respondList(ctx, reqs, err)
}

// ListReceived godoc
// @Summary 我收到的交换申请
// @Tags 交换申请
// @Produce  json
// @Success 200 {object} util.Response{data=[]SwapRequestDTO}
// @Security ApiKeyAuth
// @Router /api/swap-requests/received [get]
func (c *SwapRequestController) ListReceived(ctx *gin.Context) {
	principal, ok := currentUser(ctx)
	if !ok {
		return
	}
	reqs, err := c.SwapService.ListReceived(principal.UserID)
	c.respondList(ctx, reqs, err)
}

// ListMineByStatus godoc
// @Summary 按状态筛选我参与的交换申请
// @Tags 交换申请
// @Produce  json
// @Param status path string true "PENDING/ACCEPTED/REJECTED/COMPLETED/CANCELLED"
// @Success 200 {object} util.Response{data=[]SwapRequestDTO}
// @Failure 400 {object} util.Response
// @Security ApiKeyAuth
// @Router /api/swap-requests/status/{status} [get]
func (c *SwapRequestController) ListMineByStatus(ctx *gin.Context) {
	principal, ok := currentUser(ctx)
	if !ok {
		return
	}
	status, ok := pathStatus(ctx)
	if !ok {
		return
	}
	reqs, err := c.SwapService.ListByUserAndStatus(principal.UserID, status)
	c.respondList(ctx, reqs, err)
}

func pathStatus(ctx *gin.Context) (model.SwapStatus, bool) {
	status, ok := model.ParseSwapStatus(ctx.Param("status"))
	if !ok {
		util.BadRequest(ctx, "Invalid status: "+ctx.Param("status"))
		return "", false
	}
	return status, true
}

// GetSwapRequest godoc
// @Summary 交换申请详情
// @Description 只有参与者和管理员可以查看
// @Tags 交换申请
// @Produce  json
// @Param id path int true "申请ID"
// @Success 200 {object} util.Response{data=SwapRequestDTO}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Security ApiKeyAuth
// @Router /api/swap-requests/{id} [get]
func (c *SwapRequestController) GetSwapRequest(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	principal, ok := currentUser(ctx)
	if !ok {
		return
	}

	req, err := c.SwapService.GetByID(id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	if !req.IsParticipant(principal.UserID) && !principal.IsAdmin {
		util.HandleError(ctx, util.Forbiddenf("You don't have permission to view this swap request"))
		return
	}
	util.Success(ctx, ToSwapRequestDTO(req))
}

// CreateSwapRequest godoc
// @Summary 发起交换申请
// @Description requesterId 必须是当前用户，两个技能都必须是已审核的 offered 技能
// @Tags 交换申请
// @Accept  json
// @Produce  json
// @Param body body CreateSwapRequest true "交换申请"
// @Success 201 {object} util.Response{data=SwapRequestDTO}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Security ApiKeyAuth
// @Router /api/swap-requests [post]
func (c *SwapRequestController) CreateSwapRequest(ctx *gin.Context) {
	principal, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req CreateSwapRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if !principal.Owns(req.RequesterID) {
		util.HandleError(ctx, util.Forbiddenf("You can only create swap requests for yourself"))
		return
	}

	created, err := c.SwapService.Create(service.CreateSwapInput{
		RequesterID:      req.RequesterID,
		ProviderID:       req.ProviderID,
		RequestedSkillID: req.RequestedSkillID,
		OfferedSkillID:   req.OfferedSkillID,
		Message:          req.Message,
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, ToSwapRequestDTO(created))
}

// Accept godoc
// @Summary 接受交换申请
// @Description 只有提供方可以接受，申请必须处于 PENDING
// @Tags 交换申请
// @Produce  json
// @Param id path int true "申请ID"
// @Success 200 {object} util.Response{data=SwapRequestDTO}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Security ApiKeyAuth
// @Router /api/swap-requests/{id}/accept [put]
func (c *SwapRequestController) Accept(ctx *gin.Context) {
	c.act(ctx, providerOnly("Only the provider can accept a swap request"), c.SwapService.Accept)
}

// Reject godoc
// @Summary 拒绝交换申请
// @Description 只有提供方可以拒绝，申请必须处于 PENDING
// @Tags 交换申请
// @Produce  json
// @Param id path int true "申请ID"
// @Success 200 {object} util.Response{data=SwapRequestDTO}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Security ApiKeyAuth
// @Router /api/swap-requests/{id}/reject [put]
func (c *SwapRequestController) Reject(ctx *gin.Context) {
	c.act(ctx, providerOnly("Only the provider can reject a swap request"), c.SwapService.Reject)
}

// Complete godoc
// @Summary 完成交换
// @Description 任一参与者可操作，申请必须处于 ACCEPTED
// @Tags 交换申请
// @Produce  json
// @Param id path int true "申请ID"
// @Success 200 {object} util.Response{data=SwapRequestDTO}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Security ApiKeyAuth
// @Router /api/swap-requests/{id}/complete [put]
func (c *SwapRequestController) Complete(ctx *gin.Context) {
	c.act(ctx, participantOnly("Only participants can complete a swap request"), c.SwapService.Complete)
}

// Cancel godoc
// @Summary 取消交换申请
// @Description 任一参与者可操作，申请必须处于 PENDING 或 ACCEPTED
// @Tags 交换申请
// @Produce  json
// @Param id path int true "申请ID"
// @Success 200 {object} util.Response{data=SwapRequestDTO}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Security ApiKeyAuth
// @Router /api/swap-requests/{id}/cancel [put]
func (c *SwapRequestController) Cancel(ctx *gin.Context) {
	c.act(ctx, participantOnly("Only participants can cancel a swap request"), c.SwapService.Cancel)
}

// swapGuard 返回非 nil 错误表示当前用户无权操作
type swapGuard func(p *util.Principal, req *model.SwapRequest) error

func providerOnly(message string) swapGuard {
	return func(p *util.Principal, req *model.SwapRequest) error {
		if !p.Owns(req.ProviderID) {
			return util.Forbiddenf("%s", message)
		}
		return nil
	}
}

func participantOnly(message string) swapGuard {
	return func(p *util.Principal, req *model.SwapRequest) error {
		if !req.IsParticipant(p.UserID) {
			return util.Forbiddenf("%s", message)
		}
		return nil
	}
}

func (c *SwapRequestController) act(ctx *gin.Context, guard swapGuard, apply func(uint) (*model.SwapRequest, error)) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	principal, ok := currentUser(ctx)
	if !ok {
		return
	}

	req, err := c.SwapService.GetByID(id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	if err := guard(principal, req); err != nil {
		util.HandleError(ctx, err)
		return
	}

	updated, err := apply(id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, ToSwapRequestDTO(updated))
}

// ListAll godoc
// @Summary 全部交换申请
// @Tags 管理
// @Produce  json
// @Success 200 {object} util.Response{data=[]SwapRequestDTO}
// @Failure 403 {object} util.Response
// @Security ApiKeyAuth
// @Router /api/swap-requests/admin/all [get]
func (c *SwapRequestController) ListAll(ctx *gin.Context) {
	reqs, err := c.SwapService.ListAll()
	c.respondList(ctx, reqs, err)
}

// ListByStatus godoc
// @Summary 按状态查看全部交换申请
// @Tags 管理
// @Produce  json
// @Param status path string true "状态"
// @Success 200 {object} util.Response{data=[]SwapRequestDTO}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Security ApiKeyAuth
// @Router /api/swap-requests/admin/status/{status} [get]
func (c *SwapRequestController) ListByStatus(ctx *gin.Context) {
	status, ok := pathStatus(ctx)
	if !ok {
		return
	}
	reqs, err := c.SwapService.ListByStatus(status)
	c.respondList(ctx, reqs, err)
}
