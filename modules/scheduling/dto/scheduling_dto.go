package dto

import "time"

// ===================== Request DTOs =====================

// InitiateRequest starts a scheduling round for a candidate.
type InitiateRequest struct {
	CandidateID  string   `json:"candidate_id" validate:"required"`
	ScheduleTime string   `json:"schedule_time" validate:"required"` // RFC3339
	SlotIDs      []string `json:"slot_ids" validate:"required,min=1"`
}

// ===================== Response DTOs =====================

// InitiateResponse reports the new scheduling round.
type InitiateResponse struct {
	AttemptID            string    `json:"attempt_id"`
	CandidateStatus      string    `json:"candidate_status"`
	ScheduleTime         time.Time `json:"schedule_time"`
	NotifiedInterviewers int       `json:"notified_interviewers"`
}

// RespondResponse reports the outcome of following an invitation link.
type RespondResponse struct {
	Message       string     `json:"message"`
	InterviewID   *string    `json:"interview_id,omitempty"`
	ScheduledTime *time.Time `json:"scheduled_time,omitempty"`
}
