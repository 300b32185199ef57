package handler

import (
	"context"
	"encoding/json"
	"fmt"

	"hiringdesk/core/constants"
	"hiringdesk/core/logger"
	"hiringdesk/core/tasks"
	"hiringdesk/externals/google"
	availabilityrepo "hiringdesk/modules/availability/repository"
	candidaterepo "hiringdesk/modules/candidate/repository"
	interviewrepo "hiringdesk/modules/interview/repository"
	userrepo "hiringdesk/modules/user/repository"

	"github.com/hibiken/asynq"
)

// TaskHandler runs the meeting side effects queued after a booking commits.
type TaskHandler struct {
	interviews   interviewrepo.InterviewRepositoryInterface
	availability availabilityrepo.AvailabilityRepositoryInterface
	candidates   candidaterepo.CandidateRepositoryInterface
	users        userrepo.UserRepositoryInterface
	meet         google.MeetProviderInterface
}

func NewTaskHandler(
	interviews interviewrepo.InterviewRepositoryInterface,
	availability availabilityrepo.AvailabilityRepositoryInterface,
	candidates candidaterepo.CandidateRepositoryInterface,
	users userrepo.UserRepositoryInterface,
	meet google.MeetProviderInterface,
) *TaskHandler {
	return &TaskHandler{
		interviews:   interviews,
		availability: availability,
		candidates:   candidates,
		users:        users,
		meet:         meet,
	}
}

// Register binds the meeting task types onto the worker mux.
func (h *TaskHandler) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(tasks.TypeProvisionMeeting, h.ProcessProvisionMeeting)
	mux.HandleFunc(tasks.TypeCancelMeeting, h.ProcessCancelMeeting)
}

// ProcessProvisionMeeting creates the Meet conference for a confirmed
// interview and stores the join link. Retried by the queue on failure.
func (h *TaskHandler) ProcessProvisionMeeting(ctx context.Context, t *asynq.Task) error {
	var payload tasks.ProvisionMeetingPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal provision payload: %w", err)
	}

	interview, err := h.interviews.GetByID(ctx, payload.InterviewID)
	if err != nil {
		return fmt.Errorf("load interview %s: %w", payload.InterviewID, err)
	}
	if interview == nil {
		logger.Error("TaskHandler:ProcessProvisionMeeting:InterviewGone", "interview_id", payload.InterviewID)
		return nil
	}
	if interview.MeetingLink != nil {
		return nil
	}

	candidate, err := h.candidates.GetByID(ctx, interview.CandidateID)
	if err != nil || candidate == nil {
		return fmt.Errorf("load candidate %s: %w", interview.CandidateID, err)
	}

	attendees := []string{candidate.Email}
	summary := "Interview: " + candidate.Name
	if interviewer, lookupErr := h.users.GetByID(ctx, interview.InterviewerID); lookupErr == nil && interviewer != nil {
		attendees = append(attendees, interviewer.Email)
	}

	meeting, err := h.meet.CreateMeeting(ctx, google.MeetingInput{
		Summary:   summary,
		StartTime: interview.ScheduledTime,
		EndTime:   interview.ScheduledTime.Add(constants.InterviewDuration),
		Attendees: attendees,
	})
	if err != nil {
		return fmt.Errorf("provision meeting for interview %s: %w", interview.ID, err)
	}

	if err := h.interviews.SetMeeting(ctx, interview.ID, meeting.MeetingLink, meeting.EventID); err != nil {
		return fmt.Errorf("store meeting link: %w", err)
	}
	if err := h.availability.SetCalendarEventID(ctx, interview.SlotID, meeting.EventID); err != nil {
		logger.Error("TaskHandler:ProcessProvisionMeeting:TagSlot", "slot_id", interview.SlotID, "error", err)
	}

	logger.Info("TaskHandler:ProcessProvisionMeeting:Done",
		"interview_id", interview.ID, "event_id", meeting.EventID)
	return nil
}

// ProcessCancelMeeting tears down the conference of a rescheduled interview.
func (h *TaskHandler) ProcessCancelMeeting(ctx context.Context, t *asynq.Task) error {
	var payload tasks.CancelMeetingPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal cancel payload: %w", err)
	}

	if err := h.meet.CancelMeeting(ctx, payload.EventID); err != nil {
		return fmt.Errorf("cancel meeting %s: %w", payload.EventID, err)
	}

	logger.Info("TaskHandler:ProcessCancelMeeting:Done", "event_id", payload.EventID)
	return nil
}
