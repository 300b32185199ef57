package dto

import (
	"time"

	"hiringdesk/modules/interview/entity"
)

// InterviewResponse for dashboard listings
type InterviewResponse struct {
	ID                  string    `json:"id"`
	CandidateID         string    `json:"candidate_id"`
	InterviewerID       string    `json:"interviewer_id"`
	ScheduledTime       time.Time `json:"scheduled_time"`
	EndTime             time.Time `json:"end_time"`
	Status              string    `json:"status"`
	Remark              *string   `json:"remark,omitempty"`
	MeetingLink         *string   `json:"meeting_link,omitempty"`
	PreviousInterviewID *string   `json:"previous_interview_id,omitempty"`
}

func ToInterviewResponse(interview *entity.Interview) *InterviewResponse {
	resp := &InterviewResponse{
		ID:            interview.ID.String(),
		CandidateID:   interview.CandidateID.String(),
		InterviewerID: interview.InterviewerID.String(),
		ScheduledTime: interview.ScheduledTime,
		EndTime:       interview.EndTime(),
		Status:        string(interview.Status),
		Remark:        interview.Remark,
		MeetingLink:   interview.MeetingLink,
	}
	if interview.PreviousInterviewID != nil {
		prev := interview.PreviousInterviewID.String()
		resp.PreviousInterviewID = &prev
	}
	return resp
}

// DashboardResponse groups an interviewer's interviews the way the dashboard
// shows them: confirmed future bookings, finished ones still awaiting
// feedback, and everything already settled.
type DashboardResponse struct {
	Upcoming        []InterviewResponse `json:"upcoming"`
	PendingFeedback []InterviewResponse `json:"pending_feedback"`
	History         []InterviewResponse `json:"history"`
}

func ToInterviewResponses(interviews []entity.Interview) []InterviewResponse {
	result := make([]InterviewResponse, 0, len(interviews))
	for i := range interviews {
		result = append(result, *ToInterviewResponse(&interviews[i]))
	}
	return result
}
