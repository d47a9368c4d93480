package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"qbank_backend/internal/model"
	"qbank_backend/internal/repository"
	"qbank_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// ValidationError 指向第一个缺失/非法字段，校验失败即中止，不产生任何写入
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

// SubmissionRequest 手工录入的结构化题目字段
type SubmissionRequest struct {
	Unit            string `json:"unit"`
	Portion         string `json:"portion"`
	Topic           string `json:"topic"`
	Mark            int    `json:"mark"`
	Question        string `json:"question"`
	Answer          string `json:"answer"`
	CompetenceLevel string `json:"competenceLevel"`
	CourseOutcome   string `json:"courseOutcome"`
	OptionA         string `json:"optionA"`
	OptionB         string `json:"optionB"`
	OptionC         string `json:"optionC"`
	OptionD         string `json:"optionD"`
	Figure          string `json:"figure"`
}

// WrapMCQ 选择题选项/答案入库时统一包一层固定标记，与存量富文本约定保持一致
func WrapMCQ(text string) string {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "<p>") && strings.HasSuffix(trimmed, "</p>") {
		return trimmed
	}
	return "<p>" + trimmed + "</p>"
}

// ValidateSubmission 按序校验，返回第一个不满足的字段。
// mark==1 视为选择题：四个选项齐全且答案必须取自选项原文
func ValidateSubmission(req *SubmissionRequest, degree model.Degree) error {
	if req.Unit == "" {
		return &ValidationError{Field: "unit", Reason: "required"}
	}
	if !model.ValidUnit(req.Unit) {
		return &ValidationError{Field: "unit", Reason: "must be one of Unit 1..Unit 5"}
	}
	if req.Portion != "A" && req.Portion != "B" {
		return &ValidationError{Field: "portion", Reason: "must be A or B"}
	}
	if req.Topic == "" {
		return &ValidationError{Field: "topic", Reason: "required"}
	}
	if !model.ValidMark(req.Mark, degree) {
		return &ValidationError{Field: "mark", Reason: "value not allowed for degree level"}
	}
	if req.CompetenceLevel != "" && !model.ValidCompetenceLevel(req.CompetenceLevel) {
		return &ValidationError{Field: "competenceLevel", Reason: "must be K1..K6"}
	}
	if req.Question == "" {
		return &ValidationError{Field: "question", Reason: "required"}
	}

	if req.Mark == 1 {
		options := map[string]string{
			"optionA": req.OptionA,
			"optionB": req.OptionB,
			"optionC": req.OptionC,
			"optionD": req.OptionD,
		}
		for _, field := range []string{"optionA", "optionB", "optionC", "optionD"} {
			if strings.TrimSpace(options[field]) == "" {
				return &ValidationError{Field: field, Reason: "required for 1-mark questions"}
			}
		}
		if strings.TrimSpace(req.Answer) == "" {
			return &ValidationError{Field: "answer", Reason: "required for 1-mark questions"}
		}
		answer := strings.TrimSpace(req.Answer)
		if answer != strings.TrimSpace(req.OptionA) &&
			answer != strings.TrimSpace(req.OptionB) &&
			answer != strings.TrimSpace(req.OptionC) &&
			answer != strings.TrimSpace(req.OptionD) {
			return &ValidationError{Field: "answer", Reason: "must match one of the options"}
		}
		return nil
	}

	if req.Answer == "" {
		return &ValidationError{Field: "answer", Reason: "required"}
	}
	return nil
}

type SubmissionService struct {
	Questions *repository.QuestionRepository
	Reviewer  *ReviewerService
	Redis     *redis.Client
}

func NewSubmissionService(questions *repository.QuestionRepository, reviewer *ReviewerService, rdb *redis.Client) *SubmissionService {
	return &SubmissionService{Questions: questions, Reviewer: reviewer, Redis: rdb}
}

func countKey(facultyID uint) string {
	return fmt.Sprintf("qbank:question_count:%d", facultyID)
}

// Submit 手工提交：先解析审核人上下文（失败即阻断，零写入），再校验，
// 再落库；创建成功后的计数递增是尽力而为的次要操作，失败只降级为警告
func (s *SubmissionService) Submit(ctx context.Context, facultyID uint, req SubmissionRequest) (*model.Question, string, error) {
	rc, err := s.Reviewer.ResolveForFaculty(facultyID)
	if err != nil {
		return nil, "", err
	}

	if err := ValidateSubmission(&req, rc.Degree); err != nil {
		return nil, "", err
	}

	q := s.buildQuestion(rc, req)
	if err := s.Questions.Create(q); err != nil {
		return nil, "", err
	}

	warning := s.incrementCount(ctx, facultyID, 1)
	return q, warning, nil
}

func (s *SubmissionService) buildQuestion(rc *ReviewerContext, req SubmissionRequest) *model.Question {
	q := &model.Question{
		FacultyID:       rc.FacultyID,
		CourseCode:      rc.CourseCode,
		Unit:            req.Unit,
		Portion:         req.Portion,
		Topic:           req.Topic,
		Mark:            req.Mark,
		Question:        req.Question,
		CompetenceLevel: req.CompetenceLevel,
		CourseOutcome:   req.CourseOutcome,
		Figure:          req.Figure,
		Status:          model.StatusPending,
	}

	if req.Mark == 1 {
		q.OptionA = WrapMCQ(req.OptionA)
		q.OptionB = WrapMCQ(req.OptionB)
		q.OptionC = WrapMCQ(req.OptionC)
		q.OptionD = WrapMCQ(req.OptionD)
		q.Answer = WrapMCQ(req.Answer)
	} else {
		q.Answer = req.Answer
	}
	return q
}

// incrementCount 创建成功后的运行计数，与创建非事务绑定
func (s *SubmissionService) incrementCount(ctx context.Context, facultyID uint, n int64) string {
	if s.Redis == nil {
		return ""
	}
	if err := s.Redis.IncrBy(ctx, countKey(facultyID), n).Err(); err != nil {
		logger.Log.Warn("question count increment failed",
			zap.Uint("faculty_id", facultyID),
			zap.Error(err),
		)
		return "question saved, but running count update failed"
	}
	return ""
}

// RunningCount 优先读 Redis 计数，不可用时回退数据库
func (s *SubmissionService) RunningCount(ctx context.Context, facultyID uint) (int64, error) {
	if s.Redis != nil {
		v, err := s.Redis.Get(ctx, countKey(facultyID)).Result()
		if err == nil {
			if n, convErr := strconv.ParseInt(v, 10, 64); convErr == nil {
				return n, nil
			}
		}
	}
	return s.Questions.CountByFaculty(facultyID)
}

var bulkHeader = []string{
	"unit", "portion", "topic", "mark", "question", "answer",
	"competence_level", "course_outcome",
	"option_a", "option_b", "option_c", "option_d",
}

// BulkRowError 单行失败不拖垮整个文件，逐行上报
type BulkRowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

type BulkResult struct {
	Created   int            `json:"created"`
	RowErrors []BulkRowError `json:"rowErrors,omitempty"`
	Warning   string         `json:"warning,omitempty"`
}

// ParseBulkCSV 解析批量上传的表格文件，列顺序必须与模板一致
func ParseBulkCSV(r io.Reader) ([]SubmissionRequest, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("empty or unreadable file: %w", err)
	}
	if len(header) < len(bulkHeader) {
		return nil, fmt.Errorf("expected %d columns, got %d", len(bulkHeader), len(header))
	}
	for i, want := range bulkHeader {
		if strings.TrimSpace(strings.ToLower(header[i])) != want {
			return nil, fmt.Errorf("column %d: expected %q, got %q", i+1, want, header[i])
		}
	}

	var rows []SubmissionRequest
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		mark, _ := strconv.Atoi(strings.TrimSpace(record[3]))
		rows = append(rows, SubmissionRequest{
			Unit:            strings.TrimSpace(record[0]),
			Portion:         strings.TrimSpace(record[1]),
			Topic:           strings.TrimSpace(record[2]),
			Mark:            mark,
			Question:        record[4],
			Answer:          record[5],
			CompetenceLevel: strings.TrimSpace(record[6]),
			CourseOutcome:   strings.TrimSpace(record[7]),
			OptionA:         record[8],
			OptionB:         record[9],
			OptionC:         record[10],
			OptionD:         record[11],
		})
	}
	return rows, nil
}

// SubmitBulk 批量提交：审核人上下文解析一次，逐行校验，合法行整批入库
func (s *SubmissionService) SubmitBulk(ctx context.Context, facultyID uint, r io.Reader) (*BulkResult, error) {
	rc, err := s.Reviewer.ResolveForFaculty(facultyID)
	if err != nil {
		return nil, err
	}

	rows, err := ParseBulkCSV(r)
	if err != nil {
		return nil, err
	}

	result := &BulkResult{}
	var valid []model.Question
	for i, row := range rows {
		if err := ValidateSubmission(&row, rc.Degree); err != nil {
			result.RowErrors = append(result.RowErrors, BulkRowError{Row: i + 2, Error: err.Error()})
			continue
		}
		valid = append(valid, *s.buildQuestion(rc, row))
	}

	if len(valid) > 0 {
		if err := s.Questions.CreateBatch(valid); err != nil {
			return nil, err
		}
		result.Created = len(valid)
		result.Warning = s.incrementCount(ctx, facultyID, int64(len(valid)))
	}

	return result, nil
}
