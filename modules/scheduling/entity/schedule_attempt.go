package entity

import (
	"time"

	"hiringdesk/core/entity"

	"github.com/google/uuid"
)

// ScheduleAttempt is one scheduling round for a candidate. Initiating a new
// round creates a new attempt; only the latest attempt's invitations can
// still be accepted.
type ScheduleAttempt struct {
	CandidateID  uuid.UUID  `db:"candidate_id" json:"candidate_id"`
	BookedBy     uuid.UUID  `db:"booked_by" json:"booked_by"`
	ScheduleTime time.Time  `db:"schedule_time" json:"schedule_time"`
	// PreviousInterviewID links a reschedule back to the interview it
	// replaced.
	PreviousInterviewID *uuid.UUID `db:"previous_interview_id" json:"previous_interview_id,omitempty"`
	NotifiedSlots       int        `db:"notified_slots" json:"notified_slots"`
	entity.BaseEntity
}
