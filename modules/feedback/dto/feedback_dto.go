package dto

import (
	"time"

	"hiringdesk/modules/feedback/entity"
)

// ===================== Request DTOs =====================

// SubmitFeedbackRequest is the interviewer's verdict on one interview.
type SubmitFeedbackRequest struct {
	InterviewID       string `json:"interview_id" validate:"required"`
	SkillEvaluation   string `json:"skill_evaluation"` // JSON blob
	Strength          string `json:"strength"`
	ImprovementPoints string `json:"improvement_points"`
	OverallRemark     string `json:"overall_remark" validate:"required"`
	OverallScore      int    `json:"overall_score" validate:"min=0,max=100"`
	RecordingLink     string `json:"recording_link"`
}

// RateInterviewerRequest is the candidate's rating of the interviewer.
type RateInterviewerRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// ===================== Response DTOs =====================

type FeedbackResponse struct {
	ID                string     `json:"id"`
	InterviewID       string     `json:"interview_id"`
	SkillEvaluation   *string    `json:"skill_evaluation,omitempty"`
	Strength          *string    `json:"strength,omitempty"`
	ImprovementPoints *string    `json:"improvement_points,omitempty"`
	OverallRemark     *string    `json:"overall_remark,omitempty"`
	OverallScore      *int       `json:"overall_score,omitempty"`
	RecordingLink     *string    `json:"recording_link,omitempty"`
	PDFKey            *string    `json:"pdf_key,omitempty"`
	SubmittedAt       *time.Time `json:"submitted_at,omitempty"`
	FineApplied       float64    `json:"fine_applied"`
}

func ToFeedbackResponse(feedback *entity.InterviewFeedback, fine float64) *FeedbackResponse {
	resp := &FeedbackResponse{
		ID:                feedback.ID.String(),
		InterviewID:       feedback.InterviewID.String(),
		SkillEvaluation:   feedback.SkillEvaluation,
		Strength:          feedback.Strength,
		ImprovementPoints: feedback.ImprovementPoints,
		OverallScore:      feedback.OverallScore,
		RecordingLink:     feedback.RecordingLink,
		PDFKey:            feedback.PDFKey,
		SubmittedAt:       feedback.SubmittedAt,
		FineApplied:       fine,
	}
	if feedback.OverallRemark != nil {
		remark := string(*feedback.OverallRemark)
		resp.OverallRemark = &remark
	}
	return resp
}
