package service

import (
	"testing"

	"qbank_backend/internal/repository"
	"qbank_backend/internal/util"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReviewerService(t *testing.T) (*ReviewerService, sqlmock.Sqlmock) {
	db, mock := newTestDB(t)
	return NewReviewerService(repository.NewUserRepository(db), db), mock
}

func TestResolveForFaculty(t *testing.T) {
	svc, mock := newReviewerService(t)

	faculty := sqlmock.NewRows([]string{"id", "email", "course_code", "degree", "vetting_id"}).
		AddRow(7, "prof@college.edu", "CS301", "PG", 3)
	mock.ExpectQuery("SELECT (.+) FROM `users`").WillReturnRows(faculty)

	reviewer := sqlmock.NewRows([]string{"id", "email"}).
		AddRow(3, "reviewer@college.edu")
	mock.ExpectQuery("SELECT (.+) FROM `users`").WillReturnRows(reviewer)

	rc, err := svc.ResolveForFaculty(7)
	require.NoError(t, err)
	assert.Equal(t, "CS301", rc.CourseCode)
	assert.Equal(t, uint(3), rc.ReviewerID)
	assert.Equal(t, "reviewer@college.edu", rc.ReviewerEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// 串行解析任一环节失败即短路，不再发起后续查询
func TestResolveForFacultyShortCircuits(t *testing.T) {
	t.Run("missing course code", func(t *testing.T) {
		svc, mock := newReviewerService(t)
		rows := sqlmock.NewRows([]string{"id", "email", "course_code", "vetting_id"}).
			AddRow(7, "prof@college.edu", "", 3)
		mock.ExpectQuery("SELECT (.+) FROM `users`").WillReturnRows(rows)

		_, err := svc.ResolveForFaculty(7)
		assert.ErrorIs(t, err, util.ErrCourseCodeNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no reviewer assigned", func(t *testing.T) {
		svc, mock := newReviewerService(t)
		rows := sqlmock.NewRows([]string{"id", "email", "course_code", "vetting_id"}).
			AddRow(7, "prof@college.edu", "CS301", 0)
		mock.ExpectQuery("SELECT (.+) FROM `users`").WillReturnRows(rows)

		_, err := svc.ResolveForFaculty(7)
		assert.ErrorIs(t, err, util.ErrReviewerUnresolved)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reviewer record missing", func(t *testing.T) {
		svc, mock := newReviewerService(t)
		rows := sqlmock.NewRows([]string{"id", "email", "course_code", "vetting_id"}).
			AddRow(7, "prof@college.edu", "CS301", 3)
		mock.ExpectQuery("SELECT (.+) FROM `users`").WillReturnRows(rows)
		mock.ExpectQuery("SELECT (.+) FROM `users`").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := svc.ResolveForFaculty(7)
		assert.ErrorIs(t, err, util.ErrReviewerUnresolved)
	})
}

func TestResolveAssignment(t *testing.T) {
	svc, mock := newReviewerService(t)

	assigned := sqlmock.NewRows([]string{"id", "email", "course_code", "vetting_id"}).
		AddRow(7, "prof@college.edu", "CS301", 3)
	mock.ExpectQuery("SELECT (.+) FROM `users`").WillReturnRows(assigned)

	byEmail := sqlmock.NewRows([]string{"id", "email", "course_code"}).
		AddRow(7, "prof@college.edu", "CS301")
	mock.ExpectQuery("SELECT (.+) FROM `users`").WillReturnRows(byEmail)

	assignment, err := svc.ResolveAssignment(3)
	require.NoError(t, err)
	assert.Equal(t, uint(7), assignment.FacultyID)
	assert.Equal(t, "CS301", assignment.CourseCode)
}

func TestResolveAssignmentNoneAssigned(t *testing.T) {
	svc, mock := newReviewerService(t)

	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.ResolveAssignment(3)
	assert.ErrorIs(t, err, util.ErrReviewerUnresolved)
}
