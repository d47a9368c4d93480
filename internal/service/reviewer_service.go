package service

import (
	"qbank_backend/internal/model"
	"qbank_backend/internal/repository"
	"qbank_backend/internal/util"

	"gorm.io/gorm"
)

// ReviewerContext 是提交前必须解析成功的审核人上下文，
// 把原来分散的串行查找收敛为一次解析，任何一步失败都直接短路
type ReviewerContext struct {
	FacultyID     uint         `json:"facultyId"`
	CourseCode    string       `json:"courseCode"`
	Degree        model.Degree `json:"degree"`
	ReviewerID    uint         `json:"reviewerId"`
	ReviewerEmail string       `json:"reviewerEmail"`
}

// VettingAssignment 审核人视角的任务：被分配的教师及其课程
type VettingAssignment struct {
	FacultyID    uint   `json:"facultyId"`
	FacultyEmail string `json:"facultyEmail"`
	CourseCode   string `json:"courseCode"`
}

type ReviewerService struct {
	Users *repository.UserRepository
	DB    *gorm.DB
}

func NewReviewerService(users *repository.UserRepository, db *gorm.DB) *ReviewerService {
	return &ReviewerService{Users: users, DB: db}
}

// ResolveForFaculty 提交侧解析：教师 → vetting_id → 审核人记录。
// 解析失败时提交被整体阻断，不产生任何写入
func (s *ReviewerService) ResolveForFaculty(facultyID uint) (*ReviewerContext, error) {
	faculty, err := s.Users.FindByID(facultyID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}

	if faculty.CourseCode == "" {
		return nil, util.ErrCourseCodeNotFound
	}

	if faculty.VettingID == 0 {
		return nil, util.ErrReviewerUnresolved
	}

	reviewer, err := s.Users.FindByID(faculty.VettingID)
	if err != nil || reviewer.Email == "" {
		return nil, util.ErrReviewerUnresolved
	}

	return &ReviewerContext{
		FacultyID:     faculty.ID,
		CourseCode:    faculty.CourseCode,
		Degree:        faculty.Degree,
		ReviewerID:    reviewer.ID,
		ReviewerEmail: reviewer.Email,
	}, nil
}

// ResolveAssignment 审核侧解析：审核人 → 被分配教师 → 教师邮箱 → 教师记录 → 课程代码
func (s *ReviewerService) ResolveAssignment(reviewerID uint) (*VettingAssignment, error) {
	var assigned model.User
	if err := s.DB.Where("vetting_id = ?", reviewerID).First(&assigned).Error; err != nil {
		return nil, util.ErrReviewerUnresolved
	}

	faculty, err := s.Users.FindByEmail(assigned.Email)
	if err != nil {
		return nil, util.ErrReviewerUnresolved
	}

	if faculty.CourseCode == "" {
		return nil, util.ErrCourseCodeNotFound
	}

	return &VettingAssignment{
		FacultyID:    faculty.ID,
		FacultyEmail: faculty.Email,
		CourseCode:   faculty.CourseCode,
	}, nil
}
