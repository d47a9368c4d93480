package repository

import (
	"qbank_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

// listColumns 列表视图不带题干/答案正文，正文只在详情接口按需返回
var listColumns = []string{
	"id", "created_at", "updated_at", "faculty_id", "course_code",
	"unit", "portion", "topic", "mark", "competence_level",
	"course_outcome", "figure", "status", "remarks", "reviewed_by",
}

func (r *QuestionRepository) Create(q *model.Question) error {
	return r.DB.Create(q).Error
}

func (r *QuestionRepository) CreateBatch(qs []model.Question) error {
	return r.DB.Create(&qs).Error
}

func (r *QuestionRepository) FindByID(id uint) (*model.Question, error) {
	var q model.Question
	err := r.DB.First(&q, id).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// ListByCourse 拉取课程全部试题（不含正文），状态过滤与排序由 service 层在内存中完成
func (r *QuestionRepository) ListByCourse(courseCode string) ([]model.Question, error) {
	var qs []model.Question
	err := r.DB.Select(listColumns).Where("course_code = ?", courseCode).Find(&qs).Error
	return qs, err
}

// ListByCourseWithBody 导出用，带正文
func (r *QuestionRepository) ListByCourseWithBody(courseCode string) ([]model.Question, error) {
	var qs []model.Question
	err := r.DB.Where("course_code = ?", courseCode).Find(&qs).Error
	return qs, err
}

// UpdateFields 只更新给定的字段子集，一次 PUT 对应一次有界更新
func (r *QuestionRepository) UpdateFields(id uint, fields map[string]interface{}) error {
	return r.DB.Model(&model.Question{}).Where("id = ?", id).Updates(fields).Error
}

func (r *QuestionRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Question{}, id).Error
}

func (r *QuestionRepository) CountByFaculty(facultyID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Question{}).Where("faculty_id = ?", facultyID).Count(&count).Error
	return count, err
}

func (r *QuestionRepository) CountByStatus(courseCode string, status model.QuestionStatus) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Question{}).
		Where("course_code = ? AND status = ?", courseCode, status).
		Count(&count).Error
	return count, err
}
