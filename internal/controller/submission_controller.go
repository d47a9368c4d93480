package controller

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"qbank_backend/internal/model"
	"qbank_backend/internal/service"
	"qbank_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// SubmissionController 试题提交：手工录入、题图上传、批量上传
type SubmissionController struct {
	Submission *service.SubmissionService
	Storage    *service.StorageService
}

func NewSubmissionController(submission *service.SubmissionService, storage *service.StorageService) *SubmissionController {
	return &SubmissionController{Submission: submission, Storage: storage}
}

// @Summary 提交单道试题
// @Tags 提交
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.SubmissionRequest true "题目字段"
// @Success 201 {object} util.Response
// @Router /api/faculty/questions [post]
func (c *SubmissionController) CreateQuestion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.SubmissionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, warning, err := c.Submission.Submit(ctx.Request.Context(), claims.UserID, req)
	if err != nil {
		var ve *service.ValidationError
		switch {
		case errors.As(err, &ve):
			util.BadRequest(ctx, ve.Error())
		case err == util.ErrReviewerUnresolved || err == util.ErrCourseCodeNotFound:
			// 审核人/课程代码解析失败属阻断性错误，提交不落库
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	if warning != "" {
		util.CreatedWithWarning(ctx, q, warning)
		return
	}
	util.Created(ctx, q)
}

// @Summary 上传题图
// @Tags 提交
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param figure formData file true "图片文件"
// @Success 200 {object} util.Response
// @Router /api/faculty/questions/figure [post]
func (c *SubmissionController) UploadFigure(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	fileHeader, err := ctx.FormFile("figure")
	if err != nil {
		util.BadRequest(ctx, "figure file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	contentType, err := util.ValidateMimeType(file, []string{"image/"})
	if err != nil {
		util.BadRequest(ctx, "only image files are allowed")
		return
	}

	// 嗅探读掉了前 512 字节，上传前回到文件头
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	filename := fmt.Sprintf("figures/%s%s", model.GenerateUUID(), ext)

	stored, err := c.Storage.Upload(ctx.Request.Context(), filename, file, fileHeader.Size, contentType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	// 入库的是相对路径，绝对 URL 只在详情渲染时拼接
	util.Success(ctx, gin.H{
		"figure": stored,
		"url":    c.Storage.GetURL(stored),
	})
}

// @Summary 批量上传试题（CSV 模板）
// @Tags 提交
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param file formData file true "批量文件"
// @Success 201 {object} util.Response
// @Router /api/faculty/questions/bulk [post]
func (c *SubmissionController) BulkUpload(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	result, err := c.Submission.SubmitBulk(ctx.Request.Context(), claims.UserID, file)
	if err != nil {
		// 解析审核人失败、表头/列不匹配都属调用方可修正的错误
		util.BadRequest(ctx, err.Error())
		return
	}

	if result.Warning != "" {
		util.CreatedWithWarning(ctx, result, result.Warning)
		return
	}
	util.Created(ctx, result)
}
