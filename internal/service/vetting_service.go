package service

import (
	"qbank_backend/internal/model"
	"qbank_backend/internal/repository"
	"qbank_backend/internal/util"
	"qbank_backend/pkg/monitoring"
)

// 审核意见只能从固定枚举里选，通过/驳回互斥，一次决定只带一条
var ApprovalRemarks = []string{
	"Excellent Question Structure",
	"Meets Course Outcome",
	"Appropriate Difficulty Level",
	"Good Coverage of Unit",
}

var RejectionReasons = []string{
	"Out of Syllabus",
	"Duplicate Question",
	"Incorrect Answer Key",
	"Ambiguous Wording",
	"Image Not Clear",
}

func ValidApprovalRemark(remark string) bool {
	for _, r := range ApprovalRemarks {
		if r == remark {
			return true
		}
	}
	return false
}

func ValidRejectionReason(reason string) bool {
	for _, r := range RejectionReasons {
		if r == reason {
			return true
		}
	}
	return false
}

type VettingService struct {
	Questions *repository.QuestionRepository
	Reviewer  *ReviewerService
}

func NewVettingService(questions *repository.QuestionRepository, reviewer *ReviewerService) *VettingService {
	return &VettingService{Questions: questions, Reviewer: reviewer}
}

// Accept pending → accepted，终态不可再审。通过时记录审核人邮箱
func (s *VettingService) Accept(id uint, remark string, reviewerEmail string) error {
	if remark == "" {
		return util.ErrRemarkRequired
	}
	if !ValidApprovalRemark(remark) {
		return util.ErrInvalidRemark
	}

	q, err := s.Questions.FindByID(id)
	if err != nil {
		return util.ErrQuestionNotFound
	}
	if q.Reviewed() {
		return util.ErrAlreadyReviewed
	}

	err = s.Questions.UpdateFields(id, map[string]interface{}{
		"status":      model.StatusAccepted,
		"remarks":     remark,
		"reviewed_by": reviewerEmail,
	})
	if err != nil {
		return err
	}

	monitoring.ReviewDecisionCounter.WithLabelValues("accepted").Inc()
	return nil
}

// Reject pending → rejected。与 Accept 不同，这里不记录审核人邮箱，
// 沿用既有前端行为，刻意不做"修正"
func (s *VettingService) Reject(id uint, reason string) error {
	if reason == "" {
		return util.ErrRemarkRequired
	}
	if !ValidRejectionReason(reason) {
		return util.ErrInvalidRemark
	}

	q, err := s.Questions.FindByID(id)
	if err != nil {
		return util.ErrQuestionNotFound
	}
	if q.Reviewed() {
		return util.ErrAlreadyReviewed
	}

	err = s.Questions.UpdateFields(id, map[string]interface{}{
		"status":  model.StatusRejected,
		"remarks": reason,
	})
	if err != nil {
		return err
	}

	monitoring.ReviewDecisionCounter.WithLabelValues("rejected").Inc()
	return nil
}
