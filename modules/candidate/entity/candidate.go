package entity

import (
	"time"

	"hiringdesk/core/entity"

	"github.com/google/uuid"
)

// Status is shared between Candidate and Interview rows.
type Status string

const (
	// Scheduling statuses
	StatusNotScheduled      Status = "NSCH"
	StatusScheduled         Status = "SCH"  // invitations outstanding
	StatusCompleteScheduled Status = "CSCH" // an interviewer accepted
	StatusRescheduled       Status = "RESCH"
	StatusNotJoined         Status = "NJ"

	// Evaluation statuses
	StatusPendingEvaluation      Status = "PENDING_EVAL"
	StatusCompleted              Status = "COMPLETED"
	StatusHighlyRecommended      Status = "HREC"
	StatusRecommended            Status = "REC"
	StatusNotRecommended         Status = "NREC"
	StatusStronglyNotRecommended Status = "SNREC"
)

// Schedulable reports whether a new scheduling round may be initiated for a
// candidate in this status.
func (s Status) Schedulable() bool {
	switch s {
	case StatusNotScheduled, StatusScheduled, StatusCompleteScheduled, StatusNotJoined:
		return true
	}
	return false
}

// Evaluation reports whether s is a terminal feedback remark.
func (s Status) Evaluation() bool {
	switch s {
	case StatusHighlyRecommended, StatusRecommended, StatusNotRecommended, StatusStronglyNotRecommended:
		return true
	}
	return false
}

type Candidate struct {
	OrganizationID            uuid.UUID  `db:"organization_id" json:"organization_id"`
	Name                      string     `db:"name" json:"name"`
	Email                     string     `db:"email" json:"email"`
	Phone                     string     `db:"phone" json:"phone"`
	JobID                     *uuid.UUID `db:"job_id" json:"job_id,omitempty"`
	ExperienceYears           int        `db:"experience_years" json:"experience_years"`
	ExperienceMonths          int        `db:"experience_months" json:"experience_months"`
	Status                    Status     `db:"status" json:"status"`
	FinalSelectionStatus      *string    `db:"final_selection_status" json:"final_selection_status,omitempty"`
	NextRoundID               *uuid.UUID `db:"next_round_id" json:"next_round_id,omitempty"`
	LastCompletedRoundID      *uuid.UUID `db:"last_completed_round_id" json:"last_completed_round_id,omitempty"`
	LastScheduledInitiateTime *time.Time `db:"last_scheduled_initiate_time" json:"last_scheduled_initiate_time,omitempty"`
	ScheduledTime             *time.Time `db:"scheduled_time" json:"scheduled_time,omitempty"`
	Score                     int        `db:"score" json:"score"`
	TotalScore                int        `db:"total_score" json:"total_score"`
	AddedByID                 *uuid.UUID `db:"added_by_id" json:"added_by_id,omitempty"`
	ArchivedAt                *time.Time `db:"archived_at" json:"archived_at,omitempty"`
	entity.BaseEntity
}

// Job is the position a candidate interviews for. Full job CRUD lives
// outside this service; only the fields the scheduling core reads are here.
type Job struct {
	OrganizationID  uuid.UUID  `db:"organization_id" json:"organization_id"`
	Name            string     `db:"name" json:"name"`
	HiringManagerID *uuid.UUID `db:"hiring_manager_id" json:"hiring_manager_id,omitempty"`
	entity.BaseEntity
}

// JobRound is one round in a job's interview sequence, ordered by
// SequenceNumber.
type JobRound struct {
	JobID           uuid.UUID `db:"job_id" json:"job_id"`
	Name            string    `db:"name" json:"name"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	SequenceNumber  int       `db:"sequence_number" json:"sequence_number"`
	entity.BaseEntity
}
