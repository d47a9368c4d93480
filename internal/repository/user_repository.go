package repository

import (
	"qbank_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

func (r *UserRepository) UpdateLastLogin(userID uint) error {
	return r.DB.Model(&model.User{}).Where("id = ?", userID).Update("last_login", time.Now()).Error
}

// ListFaculty 管理端教师列表，按课程代码过滤可选
func (r *UserRepository) ListFaculty(courseCode string) ([]model.User, error) {
	var users []model.User
	query := r.DB.Where("role = ?", model.Faculty)
	if courseCode != "" {
		query = query.Where("course_code = ?", courseCode)
	}
	err := query.Order("name asc").Find(&users).Error
	return users, err
}

func (r *UserRepository) AssignReviewer(facultyID, reviewerID uint) error {
	return r.DB.Model(&model.User{}).Where("id = ?", facultyID).Update("vetting_id", reviewerID).Error
}
