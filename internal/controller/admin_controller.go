package controller

import (
	"fmt"
	"net/http"
	"strconv"

	"qbank_backend/internal/service"
	"qbank_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// AdminController 管理端：按课程查看已通过试题、窄字段编辑、聚合与导出
type AdminController struct {
	Questions *service.QuestionService
	Export    *service.ExportService
	Users     *service.UserService
}

func NewAdminController(questions *service.QuestionService, export *service.ExportService, users *service.UserService) *AdminController {
	return &AdminController{Questions: questions, Export: export, Users: users}
}

// @Summary 某课程全部已通过试题
// @Tags 管理
// @Produce json
// @Security ApiKeyAuth
// @Param courseCode path string true "课程代码"
// @Param search query string false "搜索词"
// @Param unit query string false "单元筛选"
// @Success 200 {object} util.Response
// @Router /api/admin/courses/{courseCode}/questions [get]
func (c *AdminController) ListAccepted(ctx *gin.Context) {
	courseCode := ctx.Param("courseCode")

	qs, err := c.Questions.ListQuestions(courseCode, service.ViewDetails)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, applyFilters(ctx, qs))
}

// @Summary 试题详情（管理端，含正文）
// @Tags 管理
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "试题ID"
// @Success 200 {object} util.Response
// @Router /api/admin/questions/{id} [get]
func (c *AdminController) GetQuestion(ctx *gin.Context) {
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

// @Summary 编辑试题（管理端窄字段子集）
// @Tags 管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "试题ID"
// @Param body body service.AdminEditRequest true "字段子集"
// @Success 200 {object} util.Response
// @Router /api/admin/questions/{id} [put]
func (c *AdminController) UpdateQuestion(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	var req service.AdminEditRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.Questions.AdminUpdate(uint(id), req); err != nil {
		if err == util.ErrQuestionNotFound {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"updated": id, "refresh": true})
}

// @Summary 删除试题（软删除）
// @Tags 管理
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "试题ID"
// @Success 200 {object} util.Response
// @Router /api/admin/questions/{id} [delete]
func (c *AdminController) DeleteQuestion(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	if err := c.Questions.Delete(uint(id)); err != nil {
		if err == util.ErrQuestionNotFound {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"deleted": id, "refresh": true})
}

// @Summary 生成题库聚合文档（仅 accepted，按单元汇总）
// @Tags 管理
// @Produce json
// @Security ApiKeyAuth
// @Param courseCode path string true "课程代码"
// @Success 200 {object} util.Response
// @Router /api/admin/courses/{courseCode}/qb [get]
func (c *AdminController) GenerateQB(ctx *gin.Context) {
	courseCode := ctx.Param("courseCode")

	doc, err := c.Export.BuildQBDocument(courseCode)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	if doc.Total == 0 {
		util.SuccessWithWarning(ctx, doc, "no accepted questions for this course")
		return
	}
	util.Success(ctx, doc)
}

// @Summary 导出某课程已通过试题为 CSV
// @Tags 管理
// @Produce text/csv
// @Security ApiKeyAuth
// @Param courseCode path string true "课程代码"
// @Success 200 {file} file
// @Router /api/admin/courses/{courseCode}/export [get]
func (c *AdminController) ExportCSV(ctx *gin.Context) {
	courseCode := ctx.Param("courseCode")

	qs, err := c.Questions.ListQuestions(courseCode, service.ViewDetails)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	qs = applyFilters(ctx, qs)

	if len(qs) == 0 {
		util.SuccessWithWarning(ctx, nil, "no rows to export")
		return
	}

	ctx.Header("Content-Type", "text/csv")
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=qb_%s.csv", courseCode))
	ctx.Status(http.StatusOK)
	if err := c.Export.WriteQuestionsCSV(ctx.Writer, qs); err != nil {
		util.LogInternalError(ctx, err)
	}
}

// @Summary 某课程教师列表（含审核人分配状态）
// @Tags 管理
// @Produce json
// @Security ApiKeyAuth
// @Param courseCode query string false "课程代码"
// @Success 200 {object} util.Response
// @Router /api/admin/faculty [get]
func (c *AdminController) ListFaculty(ctx *gin.Context) {
	faculty, err := c.Users.ListFaculty(ctx.Query("courseCode"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, faculty)
}

type assignReviewerRequest struct {
	FacultyID  uint `json:"facultyId" binding:"required"`
	ReviewerID uint `json:"reviewerId" binding:"required"`
}

// @Summary 为教师指派审核人
// @Tags 管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body assignReviewerRequest true "指派关系"
// @Success 200 {object} util.Response
// @Router /api/admin/faculty/assign [put]
func (c *AdminController) AssignReviewer(ctx *gin.Context) {
	var req assignReviewerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.Users.AssignReviewer(req.FacultyID, req.ReviewerID); err != nil {
		switch err {
		case util.ErrUserNotFound:
			util.NotFound(ctx)
		case util.ErrPermissionDenied:
			util.BadRequest(ctx, "both accounts must be faculty")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"facultyId": req.FacultyID, "reviewerId": req.ReviewerID})
}
