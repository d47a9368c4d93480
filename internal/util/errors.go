package util

import "errors"

var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrEmailRegistered    = errors.New("该邮箱已被注册")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrAlreadyReviewed    = errors.New("question already reviewed")
	ErrRemarkRequired     = errors.New("remark is required")
	ErrInvalidRemark      = errors.New("remark not in the allowed list")
	ErrReviewerUnresolved = errors.New("reviewer assignment could not be resolved")
	ErrCourseCodeNotFound = errors.New("course code not found for faculty")
	ErrNothingToExport    = errors.New("no rows to export")
	ErrNotQuestionOwner   = errors.New("question belongs to another faculty")
)
