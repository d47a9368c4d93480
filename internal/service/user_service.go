package service

import (
	"qbank_backend/internal/model"
	"qbank_backend/internal/repository"
	"qbank_backend/internal/util"
)

type UserService struct {
	Users *repository.UserRepository
}

func NewUserService(users *repository.UserRepository) *UserService {
	return &UserService{Users: users}
}

func (s *UserService) ListFaculty(courseCode string) ([]model.User, error) {
	users, err := s.Users.ListFaculty(courseCode)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].Password = ""
	}
	return users, nil
}

// AssignReviewer 审核人指派：双方都必须是教师账号，管理员不参与审核
func (s *UserService) AssignReviewer(facultyID, reviewerID uint) error {
	faculty, err := s.Users.FindByID(facultyID)
	if err != nil {
		return util.ErrUserNotFound
	}
	reviewer, err := s.Users.FindByID(reviewerID)
	if err != nil {
		return util.ErrUserNotFound
	}

	if faculty.Role != model.Faculty || reviewer.Role != model.Faculty {
		return util.ErrPermissionDenied
	}

	return s.Users.AssignReviewer(facultyID, reviewerID)
}
