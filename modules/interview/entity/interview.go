package entity

import (
	"time"

	"hiringdesk/core/entity"
	candidateentity "hiringdesk/modules/candidate/entity"

	"github.com/google/uuid"
)

// Interview is a confirmed meeting between one interviewer and one candidate.
// A candidate accrues one row per confirmed booking; reschedules mark the old
// row RESCH and link the replacement through PreviousInterviewID.
type Interview struct {
	CandidateID         uuid.UUID              `db:"candidate_id" json:"candidate_id"`
	InterviewerID       uuid.UUID              `db:"interviewer_id" json:"interviewer_id"`
	SlotID              uuid.UUID              `db:"slot_id" json:"slot_id"`
	JobRoundID          *uuid.UUID             `db:"job_round_id" json:"job_round_id,omitempty"`
	BookedBy            uuid.UUID              `db:"booked_by" json:"booked_by"`
	ScheduledTime       time.Time              `db:"scheduled_time" json:"scheduled_time"`
	Status              candidateentity.Status `db:"status" json:"status"`
	Remark              *string                `db:"remark" json:"remark,omitempty"`
	MeetingLink         *string                `db:"meeting_link" json:"meeting_link,omitempty"`
	CalendarEventID     *string                `db:"calendar_event_id" json:"calendar_event_id,omitempty"`
	PreviousInterviewID *uuid.UUID             `db:"previous_interview_id" json:"previous_interview_id,omitempty"`
	IsBillingCalculated bool                   `db:"is_billing_calculated" json:"is_billing_calculated"`
	entity.BaseEntity
}

// EndTime is the scheduled end of the interview.
func (i *Interview) EndTime() time.Time {
	return i.ScheduledTime.Add(time.Hour)
}
