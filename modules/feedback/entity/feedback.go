package entity

import (
	"time"

	"hiringdesk/core/entity"
	candidateentity "hiringdesk/modules/candidate/entity"

	"github.com/google/uuid"
)

// InterviewFeedback is the evaluation of one interview. A draft row is
// created when the automated transcript summary lands; the interviewer's
// submission fills in the verdict. The draft's CreatedAt anchors the
// late-submission fine clock.
type InterviewFeedback struct {
	InterviewID       uuid.UUID               `db:"interview_id" json:"interview_id"`
	SkillEvaluation   *string                 `db:"skill_evaluation" json:"skill_evaluation,omitempty"` // JSON blob
	Strength          *string                 `db:"strength" json:"strength,omitempty"`
	ImprovementPoints *string                 `db:"improvement_points" json:"improvement_points,omitempty"`
	OverallRemark     *candidateentity.Status `db:"overall_remark" json:"overall_remark,omitempty"`
	OverallScore      *int                    `db:"overall_score" json:"overall_score,omitempty"`
	RecordingLink     *string                 `db:"recording_link" json:"recording_link,omitempty"`
	PDFKey            *string                 `db:"pdf_key" json:"pdf_key,omitempty"`
	SubmittedAt       *time.Time              `db:"submitted_at" json:"submitted_at,omitempty"`
	entity.BaseEntity
}

// InterviewerRating is the candidate's anonymous rating of how the interview
// was conducted.
type InterviewerRating struct {
	InterviewID uuid.UUID `db:"interview_id" json:"interview_id"`
	Rating      int       `db:"rating" json:"rating"`
	Comment     *string   `db:"comment" json:"comment,omitempty"`
	entity.BaseEntity
}
