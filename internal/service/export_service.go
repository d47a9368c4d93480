package service

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"qbank_backend/internal/model"
	"qbank_backend/internal/repository"
	"qbank_backend/internal/util"
)

type ExportService struct {
	Questions *repository.QuestionRepository
}

func NewExportService(questions *repository.QuestionRepository) *ExportService {
	return &ExportService{Questions: questions}
}

var exportHeader = []string{
	"id", "course_code", "unit", "portion", "topic", "mark",
	"competence_level", "course_outcome", "status", "remarks", "updated_at",
}

// WriteQuestionsCSV 导出当前筛选结果；空集不产生文件，由调用方提示
func (s *ExportService) WriteQuestionsCSV(w io.Writer, qs []model.Question) error {
	if len(qs) == 0 {
		return util.ErrNothingToExport
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		return err
	}

	for _, q := range qs {
		record := []string{
			strconv.FormatUint(uint64(q.ID), 10),
			q.CourseCode,
			q.Unit,
			q.Portion,
			q.Topic,
			strconv.Itoa(q.Mark),
			q.CompetenceLevel,
			q.CourseOutcome,
			string(q.Status),
			q.Remarks,
			q.UpdatedAt.Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

type UnitSummary struct {
	Unit       string `json:"unit"`
	Count      int    `json:"count"`
	TotalMarks int    `json:"totalMarks"`
}

// QBDocument 管理端聚合产物：某课程全部已通过试题按单元汇总
type QBDocument struct {
	CourseCode  string           `json:"courseCode"`
	GeneratedAt time.Time        `json:"generatedAt"`
	Total       int              `json:"total"`
	Units       []UnitSummary    `json:"units"`
	Questions   []model.Question `json:"questions"`
}

// BuildQBDocument 只聚合 accepted 试题，单元顺序固定 Unit 1..Unit 5
func (s *ExportService) BuildQBDocument(courseCode string) (*QBDocument, error) {
	qs, err := s.Questions.ListByCourseWithBody(courseCode)
	if err != nil {
		return nil, err
	}

	accepted := make([]model.Question, 0, len(qs))
	for _, q := range qs {
		if q.Status == model.StatusAccepted {
			accepted = append(accepted, q)
		}
	}

	byUnit := make(map[string]*UnitSummary)
	for _, q := range accepted {
		summary, ok := byUnit[q.Unit]
		if !ok {
			summary = &UnitSummary{Unit: q.Unit}
			byUnit[q.Unit] = summary
		}
		summary.Count++
		summary.TotalMarks += q.Mark
	}

	doc := &QBDocument{
		CourseCode:  courseCode,
		GeneratedAt: time.Now(),
		Total:       len(accepted),
		Questions:   accepted,
	}
	for _, unit := range model.Units {
		if summary, ok := byUnit[unit]; ok {
			doc.Units = append(doc.Units, *summary)
		}
	}
	return doc, nil
}
