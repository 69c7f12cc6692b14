package controller

import (
	"skillswap_backend/internal/model"
	"skillswap_backend/internal/service"
	"skillswap_backend/internal/util"
	"time"

	"github.com/gin-gonic/gin"
)

type FeedbackController struct {
	FeedbackService *service.FeedbackService
	SwapService     *service.SwapRequestService
	UserService     *service.UserService
}

func NewFeedbackController(feedbackService *service.FeedbackService, swapService *service.SwapRequestService, userService *service.UserService) *FeedbackController {
	return &FeedbackController{
		FeedbackService: feedbackService,
		SwapService:     swapService,
		UserService:     userService,
	}
}

// CreateFeedbackRequest swagger:model CreateFeedbackRequest
type CreateFeedbackRequest struct {
	ReviewerID    uint   `json:"reviewerId" binding:"required"`
	RecipientID   uint   `json:"recipientId" binding:"required"`
	SwapRequestID uint   `json:"swapRequestId" binding:"required"`
	Rating        int    `json:"rating"`
	Comment       string `json:"comment"`
}

func (c *FeedbackController) respondList(ctx *gin.Context, list []model.Feedback, err error) {
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, ToFeedbackDTOs(list))
}

// ListGiven godoc
// @Summary 我给出的评价
// @Tags 评价
// @Produce  json
// @Success 200 {object} util.Response{data=[]FeedbackDTO}
// @Security ApiKeyAuth
// @Router /api/feedback/given [get]
func (c *FeedbackController) ListGiven(ctx *gin.Context) {
	principal, ok := currentUser(ctx)
	if !ok {
		return
	}
	list, err := c.FeedbackService.ListGiven(principal.UserID)
	c.respondList(ctx, list, err)
}

// ListReceived godoc
// @Summary 我收到的评价
// @Tags 评价
// @Produce  json
// @Success 200 {object} util.Response{data=[]FeedbackDTO}
// @Security ApiKeyAuth
// @Router /api/feedback/received [get]
func (c *FeedbackController) ListReceived(ctx *gin.Context) {
	principal, ok := currentUser(ctx)
	if !ok {
		return
	}
	list, err := c.FeedbackService.ListReceived(principal.UserID)
	c.respondList(ctx, list, err)
}

// ListByUser godoc
// @Summary 用户收到的评价
// @Tags 评价
// @Produce  json
// @Param userId path int true "用户ID"
// @Success 200 {object} util.Response{data=[]FeedbackDTO}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Security ApiKeyAuth
// @Router /api/feedback/user/{userId} [get]
func (c *FeedbackController) ListByUser(ctx *gin.Context) {
	user, ok := viewableUser(ctx, c.UserService, "userId")
	if !ok {
		return
	}
	list, err := c.FeedbackService.ListReceived(user.ID)
	c.respondList(ctx, list, err)
}

// AverageRating godoc
// @Summary 用户平均评分
// @Description 没有评价时 averageRating 为 null
// @Tags 评价
// @Produce  json
// @Param userId path int true "用户ID"
// @Success 200 {object} util.Response{data=AverageRatingResponse}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Security ApiKeyAuth
// @Router /api/feedback/rating/{userId} [get]
func (c *FeedbackController) AverageRating(ctx *gin.Context) {
	user, ok := viewableUser(ctx, c.UserService, "userId")
	if !ok {
		return
	}
	avg, err := c.FeedbackService.AverageRating(user.ID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, AverageRatingResponse{UserID: user.ID, AverageRating: avg})
}

// ListBySwapRequest godoc
// @Summary 交换申请的评价
// @Description 只有参与者和管理员可以查看
// @Tags 评价
// @Produce  json
// @Param swapRequestId path int true "申请ID"
// @Success 200 {object} util.Response{data=[]FeedbackDTO}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Security ApiKeyAuth
// @Router /api/feedback/swap-request/{swapRequestId} [get]
func (c *FeedbackController) ListBySwapRequest(ctx *gin.Context) {
	swapID, ok := pathID(ctx, "swapRequestId")
	if !ok {
		return
	}
	principal, ok := currentUser(ctx)
	if !ok {
		return
	}
	swap, err := c.SwapService.GetByID(swapID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	if !swap.IsParticipant(principal.UserID) && !principal.IsAdmin {
		util.HandleError(ctx, util.Forbiddenf("You don't have permission to view this feedback"))
		return
	}
	list, err := c.FeedbackService.ListBySwapRequest(swapID)
	c.respondList(ctx, list, err)
}

// CreateFeedback godoc
// @Summary 提交评价
// @Description 交换完成后参与双方可以互相评价，每人每次交换只能评价一次
// @Tags 评价
// @Accept  json
// @Produce  json
// @Param body body CreateFeedbackRequest true "评价"
// @Success 201 {object} util.Response{data=FeedbackDTO}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Security ApiKeyAuth
// @Router /api/feedback [post]
func (c *FeedbackController) CreateFeedback(ctx *gin.Context) {
	principal, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req CreateFeedbackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if !principal.Owns(req.ReviewerID) {
		util.HandleError(ctx, util.Forbiddenf("You can only give feedback as yourself"))
		return
	}

	f, err := c.FeedbackService.Create(service.CreateFeedbackInput{
		ReviewerID:    req.ReviewerID,
		RecipientID:   req.RecipientID,
		SwapRequestID: req.SwapRequestID,
		Rating:        req.Rating,
		Comment:       req.Comment,
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, ToFeedbackDTO(f))
}

// DeleteFeedback godoc
// @Summary 删除评价
// @Description 评价人本人或管理员可以删除
// @Tags 评价
// @Produce  json
// @Param id path int true "评价ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Security ApiKeyAuth
// @Router /api/feedback/{id} [delete]
func (c *FeedbackController) DeleteFeedback(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	principal, ok := currentUser(ctx)
	if !ok {
		return
	}

	f, err := c.FeedbackService.GetByID(id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	if !principal.Owns(f.ReviewerID) && !principal.IsAdmin {
		util.HandleError(ctx, util.Forbiddenf("You don't have permission to delete this feedback"))
		return
	}

	if err := c.FeedbackService.Delete(id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "Feedback deleted"})
}

// ListAll godoc
// @Summary 全部评价
// @Tags 管理
// @Produce  json
// @Success 200 {object} util.Response{data=[]FeedbackDTO}
// @Failure 403 {object} util.Response
// @Security ApiKeyAuth
// @Router /api/feedback/admin/all [get]
func (c *FeedbackController) ListAll(ctx *gin.Context) {
	list, err := c.FeedbackService.ListAll()
	c.respondList(ctx, list, err)
}

// ListLowRating godoc
// @Summary 低分评价
// @Tags 管理
// @Produce  json
// @Param maxRating query int false "最高分，默认 2"
// @Success 200 {object} util.Response{data=[]FeedbackDTO}
// @Failure 403 {object} util.Response
// @Security ApiKeyAuth
// @Router /api/feedback/admin/low-rating [get]
func (c *FeedbackController) ListLowRating(ctx *gin.Context) {
	maxRating := util.ParseIntDefault(ctx.Query("maxRating"), 2)
	list, err := c.FeedbackService.ListRatingAtMost(maxRating)
	c.respondList(ctx, list, err)
}

// ListHighRating godoc
// @Summary 高分评价
// @Tags 管理
// @Produce  json
// @Param minRating query int false "最低分，默认 4"
// @Success 200 {object} util.Response{data=[]FeedbackDTO}
// @Failure 403 {object} util.Response
// @Security ApiKeyAuth
// @Router /api/feedback/admin/high-rating [get]
func (c *FeedbackController) ListHighRating(ctx *gin.Context) {
	minRating := util.ParseIntDefault(ctx.Query("minRating"), 4)
	list, err := c.FeedbackService.ListRatingAtLeast(minRating)
	c.respondList(ctx, list, err)
}

// ListByDateRange godoc
// @Summary 按创建时间查询评价
// @Description start/end 支持 2006-01-02 或 RFC3339，日期形式的 end 包含当天
// @Tags 管理
// @Produce  json
// @Param start query string true "开始时间"
// @Param end query string true "结束时间"
// @Success 200 {object} util.Response{data=[]FeedbackDTO}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Security ApiKeyAuth
// @Router /api/feedback/admin/range [get]
func (c *FeedbackController) ListByDateRange(ctx *gin.Context) {
	start, ok := parseTimeParam(ctx, "start", false)
	if !ok {
		return
	}
	end, ok := parseTimeParam(ctx, "end", true)
	if !ok {
		return
	}
	list, err := c.FeedbackService.ListCreatedBetween(start, end)
	c.respondList(ctx, list, err)
}

// parseTimeParam endOfDay 为 true 时日期形式取当天最后一刻
func parseTimeParam(ctx *gin.Context, name string, endOfDay bool) (time.Time, bool) {
	raw := ctx.Query(name)
	if raw == "" {
		util.BadRequest(ctx, name+" query parameter is required")
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	t, err := time.ParseInLocation(util.DateFormat, raw, time.Local)
	if err != nil {
		util.BadRequest(ctx, "Invalid "+name+": expected "+util.DateFormat+" or RFC3339")
		return time.Time{}, false
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, true
}
