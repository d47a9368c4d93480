package service

import (
	"context"
	"strings"
	"testing"

	"qbank_backend/internal/model"
	"qbank_backend/internal/repository"
	"qbank_backend/internal/util"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validMCQRequest() SubmissionRequest {
	return SubmissionRequest{
		Unit:            "Unit 2",
		Portion:         "A",
		Topic:           "Normalization",
		Mark:            1,
		Question:        "Which normal form removes transitive dependencies?",
		Answer:          "3NF",
		CompetenceLevel: "K2",
		OptionA:         "1NF",
		OptionB:         "2NF",
		OptionC:         "3NF",
		OptionD:         "BCNF",
	}
}

func TestValidateSubmission(t *testing.T) {
	t.Run("valid mcq", func(t *testing.T) {
		req := validMCQRequest()
		assert.NoError(t, ValidateSubmission(&req, model.UG))
	})

	t.Run("missing option blocks mcq", func(t *testing.T) {
		req := validMCQRequest()
		req.OptionC = "  "
		err := ValidateSubmission(&req, model.UG)
		require.Error(t, err)
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "optionC", ve.Field)
	})

	t.Run("answer must match an option", func(t *testing.T) {
		req := validMCQRequest()
		req.Answer = "4NF"
		err := ValidateSubmission(&req, model.UG)
		require.Error(t, err)
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "answer", ve.Field)
	})

	t.Run("answer matches after trimming", func(t *testing.T) {
		req := validMCQRequest()
		req.Answer = "  3NF  "
		assert.NoError(t, ValidateSubmission(&req, model.UG))
	})

	t.Run("non-mcq ignores options", func(t *testing.T) {
		req := validMCQRequest()
		req.Mark = 5
		req.OptionA, req.OptionB, req.OptionC, req.OptionD = "", "", "", ""
		req.Answer = "Long form answer"
		assert.NoError(t, ValidateSubmission(&req, model.UG))
	})

	t.Run("non-mcq requires answer", func(t *testing.T) {
		req := validMCQRequest()
		req.Mark = 5
		req.Answer = ""
		err := ValidateSubmission(&req, model.UG)
		require.Error(t, err)
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "answer", ve.Field)
	})

	t.Run("pg-only marks rejected for ug", func(t *testing.T) {
		req := validMCQRequest()
		req.Mark = 13
		err := ValidateSubmission(&req, model.UG)
		require.Error(t, err)
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "mark", ve.Field)

		req.Mark = 13
		req.Answer = "Long form answer"
		assert.NoError(t, ValidateSubmission(&req, model.PG))
	})

	t.Run("invalid portion", func(t *testing.T) {
		req := validMCQRequest()
		req.Portion = "C"
		err := ValidateSubmission(&req, model.UG)
		require.Error(t, err)
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "portion", ve.Field)
	})
}

func TestWrapMCQ(t *testing.T) {
	assert.Equal(t, "<p>3NF</p>", WrapMCQ("3NF"))
	assert.Equal(t, "<p>3NF</p>", WrapMCQ("  3NF "))
	// 已包裹的内容不重复包
	assert.Equal(t, "<p>3NF</p>", WrapMCQ("<p>3NF</p>"))
}

// 审核人未解析时提交整体阻断，不应出现任何 INSERT
func TestSubmitBlockedWhenReviewerUnresolved(t *testing.T) {
	db, mock := newTestDB(t)

	userRepo := repository.NewUserRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	reviewer := NewReviewerService(userRepo, db)
	svc := NewSubmissionService(questionRepo, reviewer, nil)

	rows := sqlmock.NewRows([]string{"id", "email", "role", "course_code", "degree", "vetting_id"}).
		AddRow(7, "prof@college.edu", "faculty", "CS301", "UG", 0)
	mock.ExpectQuery("SELECT (.+) FROM `users`").WillReturnRows(rows)

	_, _, err := svc.Submit(context.Background(), 7, validMCQRequest())
	assert.ErrorIs(t, err, util.ErrReviewerUnresolved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitBlockedWhenCourseCodeMissing(t *testing.T) {
	db, mock := newTestDB(t)

	userRepo := repository.NewUserRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	reviewer := NewReviewerService(userRepo, db)
	svc := NewSubmissionService(questionRepo, reviewer, nil)

	rows := sqlmock.NewRows([]string{"id", "email", "role", "course_code", "degree", "vetting_id"}).
		AddRow(7, "prof@college.edu", "faculty", "", "UG", 3)
	mock.ExpectQuery("SELECT (.+) FROM `users`").WillReturnRows(rows)

	_, _, err := svc.Submit(context.Background(), 7, validMCQRequest())
	assert.ErrorIs(t, err, util.ErrCourseCodeNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// MCQ 字段入库时统一包裹 <p> 标记
func TestSubmitWrapsMCQFields(t *testing.T) {
	db, mock := newTestDB(t)

	userRepo := repository.NewUserRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	reviewer := NewReviewerService(userRepo, db)
	svc := NewSubmissionService(questionRepo, reviewer, nil)

	faculty := sqlmock.NewRows([]string{"id", "email", "role", "course_code", "degree", "vetting_id"}).
		AddRow(7, "prof@college.edu", "faculty", "CS301", "UG", 3)
	mock.ExpectQuery("SELECT (.+) FROM `users`").WillReturnRows(faculty)

	rev := sqlmock.NewRows([]string{"id", "email", "role"}).
		AddRow(3, "reviewer@college.edu", "faculty")
	mock.ExpectQuery("SELECT (.+) FROM `users`").WillReturnRows(rev)

	mock.ExpectExec("INSERT INTO `questions`").WillReturnResult(sqlmock.NewResult(42, 1))

	q, warning, err := svc.Submit(context.Background(), 7, validMCQRequest())
	require.NoError(t, err)
	assert.Empty(t, warning)
	assert.Equal(t, "CS301", q.CourseCode)
	assert.Equal(t, model.StatusPending, q.Status)
	assert.Equal(t, "<p>3NF</p>", q.Answer)
	assert.Equal(t, "<p>1NF</p>", q.OptionA)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParseBulkCSV(t *testing.T) {
	t.Run("rejects wrong header", func(t *testing.T) {
		csvData := "unit,portion,topic\nUnit 1,A,Graphs"
		_, err := ParseBulkCSV(strings.NewReader(csvData))
		assert.Error(t, err)
	})

	t.Run("parses template rows", func(t *testing.T) {
		csvData := strings.Join([]string{
			"unit,portion,topic,mark,question,answer,competence_level,course_outcome,option_a,option_b,option_c,option_d",
			"Unit 1,A,Graphs,2,What is a DAG?,A directed acyclic graph,K1,CO1,,,,",
			"Unit 3,B,Trees,1,Pick the balanced tree,AVL,K2,CO2,AVL,Skewed BST,Linked List,Array",
		}, "\n")

		rows, err := ParseBulkCSV(strings.NewReader(csvData))
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "Unit 1", rows[0].Unit)
		assert.Equal(t, 2, rows[0].Mark)
		assert.Equal(t, "AVL", rows[1].OptionA)
	})
}

// 数据行校验失败逐行上报，行号从 2 起算（1 为表头）
func TestSubmitBulkReportsRowErrors(t *testing.T) {
	db, mock := newTestDB(t)

	userRepo := repository.NewUserRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	reviewer := NewReviewerService(userRepo, db)
	svc := NewSubmissionService(questionRepo, reviewer, nil)

	faculty := sqlmock.NewRows([]string{"id", "email", "role", "course_code", "degree", "vetting_id"}).
		AddRow(7, "prof@college.edu", "faculty", "CS301", "UG", 3)
	mock.ExpectQuery("SELECT (.+) FROM `users`").WillReturnRows(faculty)

	rev := sqlmock.NewRows([]string{"id", "email", "role"}).
		AddRow(3, "reviewer@college.edu", "faculty")
	mock.ExpectQuery("SELECT (.+) FROM `users`").WillReturnRows(rev)

	mock.ExpectExec("INSERT INTO `questions`").WillReturnResult(sqlmock.NewResult(1, 1))

	csvData := strings.Join([]string{
		"unit,portion,topic,mark,question,answer,competence_level,course_outcome,option_a,option_b,option_c,option_d",
		"Unit 1,A,Graphs,2,What is a DAG?,A directed acyclic graph,K1,CO1,,,,",
		"Unit 9,A,Bogus,2,Question,Answer,K1,CO1,,,,",
	}, "\n")

	result, err := svc.SubmitBulk(context.Background(), 7, strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	require.Len(t, result.RowErrors, 1)
	assert.Equal(t, 3, result.RowErrors[0].Row)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Redis 不可用时运行计数回退到数据库
func TestRunningCountFallsBackToDatabase(t *testing.T) {
	db, mock := newTestDB(t)

	questionRepo := repository.NewQuestionRepository(db)
	svc := NewSubmissionService(questionRepo, nil, nil)

	mock.ExpectQuery("SELECT count(.+) FROM `questions`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	count, err := svc.RunningCount(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(12), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
