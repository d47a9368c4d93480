package controller

import (
	"strconv"

	"qbank_backend/internal/model"
	"qbank_backend/internal/service"
	"qbank_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// VettingController 审核流程：待审列表、通过、驳回
type VettingController struct {
	Vetting   *service.VettingService
	Questions *service.QuestionService
	Reviewer  *service.ReviewerService
}

func NewVettingController(vetting *service.VettingService, questions *service.QuestionService, reviewer *service.ReviewerService) *VettingController {
	return &VettingController{Vetting: vetting, Questions: questions, Reviewer: reviewer}
}

// @Summary 审核任务：当前审核人对应的教师与课程
// @Tags 审核
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/faculty/vetting/assignment [get]
func (c *VettingController) GetAssignment(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	assignment, err := c.Reviewer.ResolveAssignment(claims.UserID)
	if err != nil {
		// 没有分到审核任务不是错误，前端据此隐藏审核入口
		util.Success(ctx, gin.H{"assigned": false})
		return
	}

	pending, err := c.Questions.PendingCount(assignment.CourseCode)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"assigned":     true,
		"assignment":   assignment,
		"pendingCount": pending,
	})
}

// @Summary 审核视图：被审课程全部未通过试题（pending + rejected）
// @Tags 审核
// @Produce json
// @Security ApiKeyAuth
// @Param search query string false "搜索词"
// @Param status query string false "状态筛选"
// @Param unit query string false "单元筛选"
// @Success 200 {object} util.Response
// @Router /api/faculty/vetting/questions [get]
func (c *VettingController) ListVetting(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	assignment, err := c.Reviewer.ResolveAssignment(claims.UserID)
	if err != nil {
		util.SuccessWithWarning(ctx, []model.Question{}, "no vetting assignment for this account")
		return
	}

	qs, err := c.Questions.ListQuestions(assignment.CourseCode, service.ViewVetting)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, applyFilters(ctx, qs))
}

// @Summary 审核意见枚举（通过与驳回各自独立）
// @Tags 审核
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/faculty/vetting/remarks [get]
func (c *VettingController) GetRemarks(ctx *gin.Context) {
	util.Success(ctx, gin.H{
		"approvalRemarks":  service.ApprovalRemarks,
		"rejectionReasons": service.RejectionReasons,
	})
}

type decisionRequest struct {
	Remark string `json:"remark" binding:"required"`
}

// @Summary 通过试题
// @Tags 审核
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "试题ID"
// @Param body body decisionRequest true "通过意见"
// @Success 200 {object} util.Response
// @Router /api/faculty/vetting/questions/{id}/accept [put]
func (c *VettingController) Accept(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	var req decisionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.Vetting.Accept(uint(id), req.Remark, claims.Email); err != nil {
		c.writeDecisionError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"id": id, "status": model.StatusAccepted, "refresh": true})
}

// @Summary 驳回试题
// @Tags 审核
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "试题ID"
// @Param body body decisionRequest true "驳回原因"
// @Success 200 {object} util.Response
// @Router /api/faculty/vetting/questions/{id}/reject [put]
func (c *VettingController) Reject(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	var req decisionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.Vetting.Reject(uint(id), req.Remark); err != nil {
		c.writeDecisionError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"id": id, "status": model.StatusRejected, "refresh": true})
}

func (c *VettingController) writeDecisionError(ctx *gin.Context, err error) {
	switch err {
	case util.ErrRemarkRequired, util.ErrInvalidRemark:
		util.BadRequest(ctx, err.Error())
	case util.ErrQuestionNotFound:
		util.NotFound(ctx)
	case util.ErrAlreadyReviewed:
		// 终态不可再审，并发的第二次决定返回冲突
		util.Conflict(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
