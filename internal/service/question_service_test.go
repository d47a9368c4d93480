package service

import (
	"testing"
	"time"

	"qbank_backend/internal/model"
	"qbank_backend/internal/repository"
	"qbank_backend/internal/util"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewKeeps(t *testing.T) {
	tests := []struct {
		view   ListView
		status model.QuestionStatus
		keep   bool
	}{
		{ViewManage, model.StatusPending, true},
		{ViewManage, model.StatusRejected, true},
		{ViewManage, model.StatusAccepted, false},
		{ViewDetails, model.StatusAccepted, true},
		{ViewDetails, model.StatusPending, false},
		{ViewDetails, model.StatusRejected, false},
		{ViewVetting, model.StatusPending, true},
		{ViewVetting, model.StatusRejected, true},
		{ViewVetting, model.StatusAccepted, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.keep, viewKeeps(tt.view, tt.status), "%s/%s", tt.view, tt.status)
	}
}

// 列表固定按 updated_at 倒序，与数据库返回顺序无关
func TestListQuestionsOrdersByUpdatedDesc(t *testing.T) {
	db, mock := newTestDB(t)

	userRepo := repository.NewUserRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	svc := NewQuestionService(questionRepo, userRepo, nil)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "updated_at", "course_code", "status", "unit", "topic"}).
		AddRow(1, now.Add(-48*time.Hour), "CS301", "pending", "Unit 1", "Graphs").
		AddRow(2, now.Add(-1*time.Hour), "CS301", "pending", "Unit 2", "Trees").
		AddRow(3, now.Add(-24*time.Hour), "CS301", "rejected", "Unit 1", "Sorting").
		AddRow(4, now, "CS301", "accepted", "Unit 3", "Hashing")
	mock.ExpectQuery("SELECT (.+) FROM `questions`").WillReturnRows(rows)

	qs, err := svc.ListQuestions("CS301", ViewManage)
	require.NoError(t, err)

	// accepted 被 manage 视图过滤掉
	require.Len(t, qs, 3)
	assert.Equal(t, uint(2), qs[0].ID)
	assert.Equal(t, uint(3), qs[1].ID)
	assert.Equal(t, uint(1), qs[2].ID)

	// 冷热标签在渲染期打上
	assert.Equal(t, model.PriorityRecent, qs[0].Priority)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func sampleQuestions() []model.Question {
	return []model.Question{
		{BaseModel: model.BaseModel{ID: 1}, FacultyID: 7, Unit: "Unit 1", Topic: "Graph Traversal", Status: model.StatusPending, Remarks: ""},
		{BaseModel: model.BaseModel{ID: 2}, FacultyID: 8, Unit: "Unit 2", Topic: "AVL Trees", Status: model.StatusRejected, Remarks: "Out of Syllabus"},
		{BaseModel: model.BaseModel{ID: 3}, FacultyID: 7, Unit: "Unit 1", Topic: "Shortest Paths", Status: model.StatusAccepted, Remarks: "Meets Course Outcome"},
	}
}

func TestFilterBySearch(t *testing.T) {
	qs := sampleQuestions()

	t.Run("case insensitive topic match", func(t *testing.T) {
		out := FilterBySearch(qs, "graph")
		require.Len(t, out, 1)
		assert.Equal(t, uint(1), out[0].ID)
	})

	t.Run("matches remarks", func(t *testing.T) {
		out := FilterBySearch(qs, "syllabus")
		require.Len(t, out, 1)
		assert.Equal(t, uint(2), out[0].ID)
	})

	t.Run("matches unit", func(t *testing.T) {
		out := FilterBySearch(qs, "unit 2")
		require.Len(t, out, 1)
		assert.Equal(t, uint(2), out[0].ID)
	})

	t.Run("empty term keeps everything", func(t *testing.T) {
		assert.Len(t, FilterBySearch(qs, ""), 3)
	})

	t.Run("does not mutate input", func(t *testing.T) {
		FilterBySearch(qs, "graph")
		assert.Len(t, qs, 3)
	})

	t.Run("idempotent", func(t *testing.T) {
		once := FilterBySearch(qs, "unit 1")
		twice := FilterBySearch(once, "unit 1")
		assert.Equal(t, once, twice)
	})
}

// 筛选是纯投影，叠加顺序不影响结果
func TestFiltersCommute(t *testing.T) {
	qs := sampleQuestions()

	a := FilterByUnit(FilterByStatus(qs, model.StatusPending), "Unit 1")
	b := FilterByStatus(FilterByUnit(qs, "Unit 1"), model.StatusPending)
	assert.Equal(t, a, b)
}

func TestFilterByStatusAndUnit(t *testing.T) {
	qs := sampleQuestions()

	assert.Len(t, FilterByStatus(qs, model.StatusRejected), 1)
	assert.Len(t, FilterByStatus(qs, ""), 3)
	assert.Len(t, FilterByUnit(qs, "Unit 1"), 2)
	assert.Len(t, FilterByUnit(qs, "Unit 4"), 0)
}

func TestGetQuestionNotFound(t *testing.T) {
	db, mock := newTestDB(t)

	userRepo := repository.NewUserRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	svc := NewQuestionService(questionRepo, userRepo, nil)

	mock.ExpectQuery("SELECT (.+) FROM `questions`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.GetQuestion(99)
	assert.ErrorIs(t, err, util.ErrQuestionNotFound)
}

// 编辑必须是题目归属人
func TestFacultyUpdateOwnership(t *testing.T) {
	db, mock := newTestDB(t)

	userRepo := repository.NewUserRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	svc := NewQuestionService(questionRepo, userRepo, nil)

	rows := sqlmock.NewRows([]string{"id", "faculty_id", "status"}).
		AddRow(5, 7, "pending")
	mock.ExpectQuery("SELECT (.+) FROM `questions`").WillReturnRows(rows)

	err := svc.FacultyUpdate(5, 99, FacultyEditRequest{Topic: "New Topic"})
	assert.ErrorIs(t, err, util.ErrNotQuestionOwner)
	assert.NoError(t, mock.ExpectationsWereMet())
}
