package service

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"qbank_backend/internal/model"
	"qbank_backend/internal/repository"
	"qbank_backend/internal/util"
)

// ListView 决定状态谓词：manage 看 pending/rejected，details 只看 accepted，
// vetting 看除 accepted 外的全部
type ListView string

const (
	ViewManage  ListView = "manage"
	ViewDetails ListView = "details"
	ViewVetting ListView = "vetting"
)

func viewKeeps(view ListView, status model.QuestionStatus) bool {
	switch view {
	case ViewManage:
		return status == model.StatusPending || status == model.StatusRejected
	case ViewDetails:
		return status == model.StatusAccepted
	case ViewVetting:
		return status != model.StatusAccepted
	default:
		return true
	}
}

type QuestionService struct {
	Repo    *repository.QuestionRepository
	Users   *repository.UserRepository
	Storage *StorageService
}

func NewQuestionService(repo *repository.QuestionRepository, users *repository.UserRepository, storage *StorageService) *QuestionService {
	return &QuestionService{Repo: repo, Users: users, Storage: storage}
}

// ResolveCourseCode 按登录邮箱查课程代码，查不到视为非阻断错误（列表为空）
func (s *QuestionService) ResolveCourseCode(email string) (string, error) {
	user, err := s.Users.FindByEmail(email)
	if err != nil {
		return "", util.ErrCourseCodeNotFound
	}
	if user.CourseCode == "" {
		return "", util.ErrCourseCodeNotFound
	}
	return user.CourseCode, nil
}

// ListQuestions 拉取课程全量 → 视图谓词过滤 → updated_at 倒序 → 渲染期派生字段。
// 搜索/筛选是对这份结果的纯投影，不再回数据库
func (s *QuestionService) ListQuestions(courseCode string, view ListView) ([]model.Question, error) {
	qs, err := s.Repo.ListByCourse(courseCode)
	if err != nil {
		return nil, err
	}

	kept := qs[:0]
	for _, q := range qs {
		if viewKeeps(view, q.Status) {
			kept = append(kept, q)
		}
	}

	sortByUpdatedDesc(kept)
	s.stampDerived(kept, time.Now())
	return kept, nil
}

func sortByUpdatedDesc(qs []model.Question) {
	sort.SliceStable(qs, func(i, j int) bool {
		return qs[i].UpdatedAt.After(qs[j].UpdatedAt)
	})
}

func (s *QuestionService) stampDerived(qs []model.Question, now time.Time) {
	for i := range qs {
		qs[i].Priority = model.PriorityFor(qs[i].UpdatedAt, now)
		if qs[i].Figure != "" && s.Storage != nil {
			qs[i].FigureURL = s.Storage.GetURL(qs[i].Figure)
		}
	}
}

// FilterBySearch 大小写不敏感的子串匹配，命中 topic/unit/remarks/facultyId 任一即保留。
// 纯投影：不修改入参，结果可重复套用且与其他筛选交换顺序不变
func FilterBySearch(qs []model.Question, term string) []model.Question {
	if term == "" {
		return qs
	}
	needle := strings.ToLower(term)
	out := make([]model.Question, 0, len(qs))
	for _, q := range qs {
		if strings.Contains(strings.ToLower(q.Topic), needle) ||
			strings.Contains(strings.ToLower(q.Unit), needle) ||
			strings.Contains(strings.ToLower(q.Remarks), needle) ||
			strings.Contains(strconv.FormatUint(uint64(q.FacultyID), 10), needle) {
			out = append(out, q)
		}
	}
	return out
}

func FilterByStatus(qs []model.Question, status model.QuestionStatus) []model.Question {
	if status == "" {
		return qs
	}
	out := make([]model.Question, 0, len(qs))
	for _, q := range qs {
		if q.Status == status {
			out = append(out, q)
		}
	}
	return out
}

func FilterByUnit(qs []model.Question, unit string) []model.Question {
	if unit == "" {
		return qs
	}
	out := make([]model.Question, 0, len(qs))
	for _, q := range qs {
		if q.Unit == unit {
			out = append(out, q)
		}
	}
	return out
}

// GetQuestion 详情按需取正文，图片相对路径仅在此时改写为可访问 URL
func (s *QuestionService) GetQuestion(id uint) (*model.Question, error) {
	q, err := s.Repo.FindByID(id)
	if err != nil {
		return nil, util.ErrQuestionNotFound
	}
	q.Priority = model.PriorityFor(q.UpdatedAt, time.Now())
	if q.Figure != "" && s.Storage != nil {
		q.FigureURL = s.Storage.GetURL(q.Figure)
	}
	return q, nil
}

// PendingCount 审核任务入口展示的待办数量
func (s *QuestionService) PendingCount(courseCode string) (int64, error) {
	return s.Repo.CountByStatus(courseCode, model.StatusPending)
}

// Delete 软删除，仅管理端可用
func (s *QuestionService) Delete(id uint) error {
	if _, err := s.Repo.FindByID(id); err != nil {
		return util.ErrQuestionNotFound
	}
	return s.Repo.Delete(id)
}

// FacultyEditRequest 教师侧可改的宽字段子集
type FacultyEditRequest struct {
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

func (s *QuestionService) FacultyUpdate(id uint, facultyID uint, req FacultyEditRequest) error {
	q, err := s.Repo.FindByID(id)
	if err != nil {
		return util.ErrQuestionNotFound
	}
	if q.FacultyID != facultyID {
		return util.ErrNotQuestionOwner
	}

	fields := map[string]interface{}{
		"unit":             req.Unit,
		"portion":          req.Portion,
		"topic":            req.Topic,
		"mark":             req.Mark,
		"question":         req.Question,
		"answer":           req.Answer,
		"competence_level": req.CompetenceLevel,
		"course_outcome":   req.CourseOutcome,
		"option_a":         req.OptionA,
		"option_b":         req.OptionB,
		"option_c":         req.OptionC,
		"option_d":         req.OptionD,
		"figure":           req.Figure,
	}
	return s.Repo.UpdateFields(id, fields)
}

// AdminEditRequest 管理端只开放较窄的字段子集
type AdminEditRequest struct {
	Unit     string `json:"unit"`
	Topic    string `json:"topic"`
	Mark     int    `json:"mark"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Figure   string `json:"figure"`
}

func (s *QuestionService) AdminUpdate(id uint, req AdminEditRequest) error {
	if _, err := s.Repo.FindByID(id); err != nil {
		return util.ErrQuestionNotFound
	}

	fields := map[string]interface{}{
		"unit":     req.Unit,
		"topic":    req.Topic,
		"mark":     req.Mark,
		"question": req.Question,
		"answer":   req.Answer,
		"figure":   req.Figure,
	}
	return s.Repo.UpdateFields(id, fields)
}
