package model

import "time"

type QuestionStatus string

const (
	StatusPending  QuestionStatus = "pending"
	StatusAccepted QuestionStatus = "accepted"
	StatusRejected QuestionStatus = "rejected"
)

// Priority 是渲染期派生的冷热标签，不落库
type Priority string

const (
	PriorityRecent Priority = "recent"
	PriorityNormal Priority = "normal"
	PriorityOld    Priority = "old"
)

// PriorityFor 根据最后更新时间计算冷热标签，边界(7天/30天)含等于
func PriorityFor(updatedAt, now time.Time) Priority {
	age := now.Sub(updatedAt)
	switch {
	case age <= 7*24*time.Hour:
		return PriorityRecent
	case age <= 30*24*time.Hour:
		return PriorityNormal
	default:
		return PriorityOld
	}
}

var Units = []string{"Unit 1", "Unit 2", "Unit 3", "Unit 4", "Unit 5"}

var CompetenceLevels = []string{"K1", "K2", "K3", "K4", "K5", "K6"}

func ValidUnit(unit string) bool {
	for _, u := range Units {
		if u == unit {
			return true
		}
	}
	return false
}

func ValidCompetenceLevel(level string) bool {
	for _, l := range CompetenceLevels {
		if l == level {
			return true
		}
	}
	return false
}

// ValidMark 分值空间取决于学位层次：UG 1..6，PG 额外允许 13 和 15
func ValidMark(mark int, degree Degree) bool {
	if mark >= 1 && mark <= 6 {
		return true
	}
	if degree == PG && (mark == 13 || mark == 15) {
		return true
	}
	return false
}

// swagger:model Question
type Question struct {
	BaseModel
	FacultyID  uint   `gorm:"index;not null" json:"facultyId"`
	CourseCode string `gorm:"size:20;index;not null" json:"courseCode"`
	Unit       string `gorm:"size:20;not null" json:"unit"`
	Portion    string `gorm:"size:1" json:"portion"`
	Topic      string `gorm:"size:255" json:"topic"`
	Mark       int    `gorm:"not null" json:"mark"`
	// Question/Answer 为富文本 HTML，可能内嵌图片相对路径
	Question        string `gorm:"type:longtext" json:"question,omitempty"`
	Answer          string `gorm:"type:longtext" json:"answer,omitempty"`
	CompetenceLevel string `gorm:"size:5" json:"competenceLevel"`
	CourseOutcome   string `gorm:"size:255" json:"courseOutcome"`
	OptionA         string `gorm:"type:text" json:"optionA,omitempty"`
	OptionB         string `gorm:"type:text" json:"optionB,omitempty"`
	OptionC         string `gorm:"type:text" json:"optionC,omitempty"`
	OptionD         string `gorm:"type:text" json:"optionD,omitempty"`
	// Figure 存相对路径，绝对 URL 只在返回时拼接
	Figure  string         `gorm:"size:255" json:"figure,omitempty"`
	Status  QuestionStatus `gorm:"type:enum('pending','accepted','rejected');default:'pending';index" json:"status"`
	Remarks string         `gorm:"size:500" json:"remarks"`
	// ReviewedBy 仅 accept 时记录审核人邮箱，reject 不记录（沿用既有前端行为）
	ReviewedBy string `gorm:"size:100" json:"reviewedBy,omitempty"`

	Priority  Priority `gorm:"-" json:"priority,omitempty"`
	FigureURL string   `gorm:"-" json:"figureUrl,omitempty"`

	Faculty *User `gorm:"foreignKey:FacultyID" json:"faculty,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// Reviewed 终态判断：accepted/rejected 不允许再次审核
func (q *Question) Reviewed() bool {
	return q.Status == StatusAccepted || q.Status == StatusRejected
}

// IsMCQ mark 为 1 表示选择题
func (q *Question) IsMCQ() bool {
	return q.Mark == 1
}
