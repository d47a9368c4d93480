package controller

import (
	"fmt"
	"net/http"
	"strconv"

	"qbank_backend/internal/model"
	"qbank_backend/internal/service"
	"qbank_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// QuestionController 教师侧的试题列表/详情/编辑/导出
type QuestionController struct {
	Questions  *service.QuestionService
	Submission *service.SubmissionService
	Reviewer   *service.ReviewerService
	Export     *service.ExportService
}

func NewQuestionController(questions *service.QuestionService, submission *service.SubmissionService, reviewer *service.ReviewerService, export *service.ExportService) *QuestionController {
	return &QuestionController{
		Questions:  questions,
		Submission: submission,
		Reviewer:   reviewer,
		Export:     export,
	}
}

// applyFilters 搜索与筛选都是对已取回集合的纯投影，可任意顺序叠加
func applyFilters(ctx *gin.Context, qs []model.Question) []model.Question {
	if status := ctx.Query("status"); status != "" {
		qs = service.FilterByStatus(qs, model.QuestionStatus(status))
	}
	if unit := ctx.Query("unit"); unit != "" {
		qs = service.FilterByUnit(qs, unit)
	}
	if search := ctx.Query("search"); search != "" {
		qs = service.FilterBySearch(qs, search)
	}
	return qs
}

func (c *QuestionController) listForView(ctx *gin.Context, view service.ListView) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courseCode, err := c.Questions.ResolveCourseCode(claims.Email)
	if err != nil {
		// 课程代码解析失败不阻断页面，列表为空并附提示
		util.SuccessWithWarning(ctx, []model.Question{}, "course code could not be resolved")
		return
	}

	qs, err := c.Questions.ListQuestions(courseCode, view)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, applyFilters(ctx, qs))
}

// @Summary 管理视图：本人课程的 pending/rejected 试题
// @Tags 试题
// @Produce json
// @Security ApiKeyAuth
// @Param search query string false "搜索词"
// @Param status query string false "状态筛选"
// @Param unit query string false "单元筛选"
// @Success 200 {object} util.Response
// @Router /api/faculty/questions/manage [get]
func (c *QuestionController) ListManage(ctx *gin.Context) {
	c.listForView(ctx, service.ViewManage)
}

// @Summary 汇总视图：本人课程的 accepted 试题（只读）
// @Tags 试题
// @Produce json
// @Security ApiKeyAuth
// @Param search query string false "搜索词"
// @Param unit query string false "单元筛选"
// @Success 200 {object} util.Response
// @Router /api/faculty/questions/details [get]
func (c *QuestionController) ListDetails(ctx *gin.Context) {
	c.listForView(ctx, service.ViewDetails)
}

// @Summary 试题详情（含正文）
// @Tags 试题
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "试题ID"
// @Success 200 {object} util.Response
// @Router /api/faculty/questions/{id} [get]
func (c *QuestionController) GetQuestion(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	q, err := c.Questions.GetQuestion(uint(id))
	if err != nil {
		util.NotFound(ctx)
		return
	}

	util.Success(ctx, q)
}

// @Summary 编辑试题（教师侧宽字段子集，一次 PUT 覆盖该子集）
// @Tags 试题
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "试题ID"
// @Param body body service.FacultyEditRequest true "字段子集"
// @Success 200 {object} util.Response
// @Router /api/faculty/questions/{id} [put]
func (c *QuestionController) UpdateQuestion(ctx *gin.Context) {
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

	var req service.FacultyEditRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.Questions.FacultyUpdate(uint(id), claims.UserID, req); err != nil {
		switch err {
		case util.ErrQuestionNotFound:
			util.NotFound(ctx)
		case util.ErrNotQuestionOwner:
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	// 不做乐观更新，前端收到 refresh 后重拉列表
	util.Success(ctx, gin.H{"updated": id, "refresh": true})
}

// @Summary 导出当前筛选结果为 CSV
// @Tags 试题
// @Produce text/csv
// @Security ApiKeyAuth
// @Param view query string false "manage 或 details" default(manage)
// @Param search query string false "搜索词"
// @Param status query string false "状态筛选"
// @Param unit query string false "单元筛选"
// @Success 200 {file} file
// @Router /api/faculty/questions/export [get]
func (c *QuestionController) ExportCSV(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	view := service.ListView(ctx.DefaultQuery("view", "manage"))
	courseCode, err := c.Questions.ResolveCourseCode(claims.Email)
	if err != nil {
		util.SuccessWithWarning(ctx, nil, "course code could not be resolved")
		return
	}

	qs, err := c.Questions.ListQuestions(courseCode, view)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	qs = applyFilters(ctx, qs)

	if len(qs) == 0 {
		// 空结果只提示，不产生文件下载
		util.SuccessWithWarning(ctx, nil, "no rows to export")
		return
	}

	ctx.Header("Content-Type", "text/csv")
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=questions_%s.csv", courseCode))
	ctx.Status(http.StatusOK)
	if err := c.Export.WriteQuestionsCSV(ctx.Writer, qs); err != nil {
		util.LogInternalError(ctx, err)
	}
}

// @Summary 提交前上下文：审核人解析结果与运行计数
// @Tags 试题
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/faculty/context [get]
func (c *QuestionController) GetSubmissionContext(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	rc, err := c.Reviewer.ResolveForFaculty(claims.UserID)
	if err != nil {
		// 解析失败时提交按钮应被禁用
		util.Success(ctx, gin.H{"resolved": false, "reason": err.Error()})
		return
	}

	count, _ := c.Submission.RunningCount(ctx.Request.Context(), claims.UserID)
	util.Success(ctx, gin.H{
		"resolved":     true,
		"reviewer":     rc,
		"runningCount": count,
	})
}
