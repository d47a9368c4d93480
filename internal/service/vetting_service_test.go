package service

import (
	"testing"

	"qbank_backend/internal/repository"
	"qbank_backend/internal/util"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVettingService(t *testing.T) (*VettingService, sqlmock.Sqlmock) {
	db, mock := newTestDB(t)
	questionRepo := repository.NewQuestionRepository(db)
	return NewVettingService(questionRepo, nil), mock
}

func pendingQuestionRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "status", "course_code"}).
		AddRow(5, "pending", "CS301")
}

func TestAcceptRecordsReviewerEmail(t *testing.T) {
	svc, mock := newVettingService(t)

	mock.ExpectQuery("SELECT (.+) FROM `questions`").WillReturnRows(pendingQuestionRows())

	// map 更新按键名排序：remarks, reviewed_by, status, updated_at
	mock.ExpectExec("UPDATE `questions` SET").
		WithArgs("Excellent Question Structure", "reviewer@college.edu", "accepted", sqlmock.AnyArg(), 5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := svc.Accept(5, "Excellent Question Structure", "reviewer@college.edu")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// 驳回不记录审核人邮箱，与通过路径刻意不对称
func TestRejectOmitsReviewerEmail(t *testing.T) {
	svc, mock := newVettingService(t)

	mock.ExpectQuery("SELECT (.+) FROM `questions`").WillReturnRows(pendingQuestionRows())

	mock.ExpectExec("UPDATE `questions` SET").
		WithArgs("Out of Syllabus", "rejected", sqlmock.AnyArg(), 5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := svc.Reject(5, "Out of Syllabus")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// 终态不可再审
func TestDecisionOnReviewedQuestion(t *testing.T) {
	t.Run("accept after accept", func(t *testing.T) {
		svc, mock := newVettingService(t)
		mock.ExpectQuery("SELECT (.+) FROM `questions`").
			WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow(5, "accepted"))

		err := svc.Accept(5, "Meets Course Outcome", "reviewer@college.edu")
		assert.ErrorIs(t, err, util.ErrAlreadyReviewed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reject after reject", func(t *testing.T) {
		svc, mock := newVettingService(t)
		mock.ExpectQuery("SELECT (.+) FROM `questions`").
			WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow(5, "rejected"))

		err := svc.Reject(5, "Duplicate Question")
		assert.ErrorIs(t, err, util.ErrAlreadyReviewed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDecisionRemarkValidation(t *testing.T) {
	svc, _ := newVettingService(t)

	assert.ErrorIs(t, svc.Accept(5, "", "reviewer@college.edu"), util.ErrRemarkRequired)
	assert.ErrorIs(t, svc.Reject(5, ""), util.ErrRemarkRequired)

	// 枚举互斥：驳回原因不能用于通过，反之亦然
	assert.ErrorIs(t, svc.Accept(5, "Out of Syllabus", "reviewer@college.edu"), util.ErrInvalidRemark)
	assert.ErrorIs(t, svc.Reject(5, "Excellent Question Structure"), util.ErrInvalidRemark)
}

func TestAcceptMissingQuestion(t *testing.T) {
	svc, mock := newVettingService(t)
	mock.ExpectQuery("SELECT (.+) FROM `questions`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	err := svc.Accept(99, "Meets Course Outcome", "reviewer@college.edu")
	assert.ErrorIs(t, err, util.ErrQuestionNotFound)
}
