package service

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"hiringdesk/core/config"
	"hiringdesk/core/constants"
	"hiringdesk/core/database"
	"hiringdesk/core/errors"
	"hiringdesk/core/logger"
	"hiringdesk/core/tasks"
	availabilityentity "hiringdesk/modules/availability/entity"
	availabilityrepo "hiringdesk/modules/availability/repository"
	billingservice "hiringdesk/modules/billing/service"
	candidateentity "hiringdesk/modules/candidate/entity"
	candidaterepo "hiringdesk/modules/candidate/repository"
	interviewentity "hiringdesk/modules/interview/entity"
	interviewrepo "hiringdesk/modules/interview/repository"
	"hiringdesk/modules/scheduling/dto"
	"hiringdesk/modules/scheduling/entity"
	"hiringdesk/modules/scheduling/repository"
	userrepo "hiringdesk/modules/user/repository"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// SchedulingService orchestrates booking rounds: initiating invitations and
// settling interviewer responses. All state changes for one operation commit
// in a single transaction; side effects (emails, meeting provisioning) fire
// only after commit.
type SchedulingService struct {
	db           database.IDatabase
	candidates   candidaterepo.CandidateRepositoryInterface
	availability availabilityrepo.AvailabilityRepositoryInterface
	interviews   interviewrepo.InterviewRepositoryInterface
	attempts     repository.ScheduleRepositoryInterface
	billing      billingservice.BillingServiceInterface
	users        userrepo.UserRepositoryInterface
	dispatcher   tasks.Dispatcher
}

type SchedulingServiceInterface interface {
	Initiate(ctx context.Context, recruiterID uuid.UUID, req *dto.InitiateRequest) (*dto.InitiateResponse, *errors.AppError)
	Respond(ctx context.Context, tokenString string) (*dto.RespondResponse, *errors.AppError)
}

func NewSchedulingService(
	db database.IDatabase,
	candidates candidaterepo.CandidateRepositoryInterface,
	availability availabilityrepo.AvailabilityRepositoryInterface,
	interviews interviewrepo.InterviewRepositoryInterface,
	attempts repository.ScheduleRepositoryInterface,
	billing billingservice.BillingServiceInterface,
	users userrepo.UserRepositoryInterface,
	dispatcher tasks.Dispatcher,
) SchedulingServiceInterface {
	return &SchedulingService{
		db:           db,
		candidates:   candidates,
		availability: availability,
		interviews:   interviews,
		attempts:     attempts,
		billing:      billing,
		users:        users,
		dispatcher:   dispatcher,
	}
}

// Initiate opens a scheduling round: it marks the candidate as awaiting
// responses and emails every interviewer whose open slot covers the requested
// hour a tokenized accept/reject link. When the candidate already holds a
// confirmed interview, that interview is cancelled first; cancelling inside
// the late-cancel window also charges both parties.
func (s *SchedulingService) Initiate(ctx context.Context, recruiterID uuid.UUID, req *dto.InitiateRequest) (*dto.InitiateResponse, *errors.AppError) {
	candidateID, err := uuid.Parse(req.CandidateID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid candidate_id", err)
	}

	scheduleTime, err := time.Parse(time.RFC3339, req.ScheduleTime)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid schedule_time, expected RFC3339", err)
	}
	if !scheduleTime.After(time.Now()) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "schedule_time must be in the future", nil)
	}

	slotIDs := make([]uuid.UUID, 0, len(req.SlotIDs))
	for _, raw := range req.SlotIDs {
		id, parseErr := uuid.Parse(raw)
		if parseErr != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid slot id "+raw, parseErr)
		}
		slotIDs = append(slotIDs, id)
	}

	window := availabilityentity.Window{
		Start: scheduleTime,
		End:   scheduleTime.Add(constants.InterviewDuration),
	}

	var (
		attempt       *entity.ScheduleAttempt
		matching      []availabilityentity.AvailabilitySlot
		candidate     *candidateentity.Candidate
		cancelEventID string
	)

	txErr := s.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		var innerErr error
		candidate, innerErr = s.candidates.GetForUpdate(ctx, tx, candidateID)
		if innerErr != nil {
			return errors.NewAppError(errors.ErrInternalServer, "Failed to load candidate", innerErr)
		}
		if candidate == nil {
			return errors.NewAppError(errors.ErrNotFound, "Candidate not found", nil)
		}
		if !candidate.Status.Schedulable() {
			return errors.NewAppError(errors.ErrInvalidCandidateState,
				"Candidate cannot be scheduled from status "+string(candidate.Status), nil)
		}

		var previousInterviewID *uuid.UUID
		if candidate.Status == candidateentity.StatusCompleteScheduled {
			previous, innerErr := s.interviews.LatestConfirmedByCandidateForUpdate(ctx, tx, candidateID)
			if innerErr != nil {
				return errors.NewAppError(errors.ErrInternalServer, "Failed to load confirmed interview", innerErr)
			}
			if previous != nil {
				if innerErr := s.interviews.UpdateStatus(ctx, tx, previous.ID, candidateentity.StatusRescheduled, nil); innerErr != nil {
					return errors.NewAppError(errors.ErrInternalServer, "Failed to cancel previous interview", innerErr)
				}
				if innerErr := s.availability.ReleaseSlot(ctx, tx, previous.SlotID); innerErr != nil {
					return errors.NewAppError(errors.ErrInternalServer, "Failed to release previous slot", innerErr)
				}

				untilStart := time.Until(previous.ScheduledTime)
				if untilStart > 0 && untilStart < constants.LateCancelWindow {
					if appErr := s.billing.RecordLateReschedule(ctx, tx, previous, candidate); appErr != nil {
						return appErr
					}
				}

				if previous.CalendarEventID != nil {
					cancelEventID = *previous.CalendarEventID
				}
				previousInterviewID = &previous.ID
			}
		}

		open, innerErr := s.availability.GetOpenByIDs(ctx, slotIDs)
		if innerErr != nil {
			return errors.NewAppError(errors.ErrInternalServer, "Failed to load slots", innerErr)
		}
		matching = matching[:0]
		for _, slot := range open {
			if !slot.StartTime.After(window.Start) && !slot.EndTime.Before(window.End) {
				matching = append(matching, slot)
			}
		}
		if len(matching) == 0 {
			return errors.NewAppError(errors.ErrInvalidInput, "No open slots cover the requested time", nil)
		}

		attempt, innerErr = s.attempts.Create(ctx, tx, &entity.ScheduleAttempt{
			CandidateID:         candidateID,
			BookedBy:            recruiterID,
			ScheduleTime:        scheduleTime,
			PreviousInterviewID: previousInterviewID,
			NotifiedSlots:       len(matching),
		})
		if innerErr != nil {
			return errors.NewAppError(errors.ErrInternalServer, "Failed to create schedule attempt", innerErr)
		}

		nextStatus, appErr := candidateentity.Transition(candidate.Status,
			candidateentity.Event{Type: candidateentity.EventInitiateScheduling})
		if appErr != nil {
			return appErr
		}
		now := time.Now()
		candidate.Status = nextStatus
		candidate.LastScheduledInitiateTime = &now
		candidate.ScheduledTime = &scheduleTime
		if innerErr := s.candidates.Update(ctx, tx, candidate); innerErr != nil {
			return errors.NewAppError(errors.ErrInternalServer, "Failed to update candidate", innerErr)
		}
		return nil
	})
	if txErr != nil {
		return nil, asAppError(txErr)
	}

	if cancelEventID != "" {
		if err := s.dispatcher.CancelMeeting(ctx, tasks.CancelMeetingPayload{EventID: cancelEventID}); err != nil {
			logger.Error("SchedulingService:Initiate:CancelMeeting", "error", err)
		}
	}
	s.notifyInvitations(ctx, candidate, attempt, matching)

	logger.Info("SchedulingService:Initiate:RoundOpened",
		"candidate_id", candidateID,
		"attempt_id", attempt.ID,
		"schedule_time", scheduleTime,
		"invitations", len(matching),
	)
	return &dto.InitiateResponse{
		AttemptID:            attempt.ID.String(),
		CandidateStatus:      string(candidate.Status),
		ScheduleTime:         scheduleTime,
		NotifiedInterviewers: len(matching),
	}, nil
}

// Respond settles an interviewer's click on an invitation link. Accepts run
// in one transaction that claims the slot, checks the interviewer's calendar
// and confirms the candidate; rejects are acknowledged without state change.
func (s *SchedulingService) Respond(ctx context.Context, tokenString string) (*dto.RespondResponse, *errors.AppError) {
	claims, appErr := ParseRespondToken(tokenString)
	if appErr != nil {
		return nil, appErr
	}

	if claims.Action == ActionReject {
		logger.Info("SchedulingService:Respond:Rejected",
			"candidate_id", claims.CandidateID,
			"slot_id", claims.SlotID,
			"attempt_id", claims.AttemptID,
		)
		return &dto.RespondResponse{Message: "Response recorded. Thank you."}, nil
	}

	window := availabilityentity.Window{
		Start: claims.ScheduleTime,
		End:   claims.ScheduleTime.Add(constants.InterviewDuration),
	}

	var (
		interview *interviewentity.Interview
		slot      *availabilityentity.AvailabilitySlot
		candidate *candidateentity.Candidate
	)

	// Lock order: slot, then the interviewer's confirmed interviews, then the
	// candidate. Every booking path takes locks in this order.
	txErr := s.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		var innerErr error
		slot, _, innerErr = s.availability.ClaimSlot(ctx, tx, claims.SlotID, claims.CandidateID, window)
		if innerErr != nil {
			if innerErr == availabilityrepo.ErrAlreadyClaimed {
				return errors.NewAppError(errors.ErrAlreadyClaimed, "This slot has already been claimed", innerErr)
			}
			return errors.NewAppError(errors.ErrInternalServer, "Failed to claim slot", innerErr)
		}

		busy, innerErr := s.interviews.HasConfirmedWithinBuffer(ctx, tx, slot.InterviewerID, window)
		if innerErr != nil {
			return errors.NewAppError(errors.ErrInternalServer, "Failed to check interviewer calendar", innerErr)
		}
		if busy {
			return errors.NewAppError(errors.ErrConflict, "You already have an interview booked around this time", nil)
		}

		candidate, innerErr = s.candidates.GetForUpdate(ctx, tx, claims.CandidateID)
		if innerErr != nil {
			return errors.NewAppError(errors.ErrInternalServer, "Failed to load candidate", innerErr)
		}
		if candidate == nil {
			return errors.NewAppError(errors.ErrNotFound, "Candidate not found", nil)
		}
		if candidate.Status != candidateentity.StatusScheduled {
			return errors.NewAppError(errors.ErrSuperseded, "This scheduling round is no longer active", nil)
		}

		latest, innerErr := s.attempts.LatestByCandidate(ctx, tx, claims.CandidateID)
		if innerErr != nil {
			return errors.NewAppError(errors.ErrInternalServer, "Failed to load schedule attempt", innerErr)
		}
		if latest == nil || latest.ID != claims.AttemptID {
			return errors.NewAppError(errors.ErrSuperseded, "A newer scheduling request supersedes this invitation", nil)
		}

		interview, innerErr = s.interviews.Create(ctx, tx, &interviewentity.Interview{
			CandidateID:         claims.CandidateID,
			InterviewerID:       slot.InterviewerID,
			SlotID:              slot.ID,
			JobRoundID:          candidate.NextRoundID,
			BookedBy:            claims.BookedBy,
			ScheduledTime:       claims.ScheduleTime,
			Status:              candidateentity.StatusCompleteScheduled,
			PreviousInterviewID: latest.PreviousInterviewID,
		})
		if innerErr != nil {
			return errors.NewAppError(errors.ErrInternalServer, "Failed to create interview", innerErr)
		}

		nextStatus, appErr := candidateentity.Transition(candidate.Status,
			candidateentity.Event{Type: candidateentity.EventInterviewerAccept})
		if appErr != nil {
			return appErr
		}
		candidate.Status = nextStatus
		candidate.ScheduledTime = &claims.ScheduleTime
		if innerErr := s.candidates.Update(ctx, tx, candidate); innerErr != nil {
			return errors.NewAppError(errors.ErrInternalServer, "Failed to update candidate", innerErr)
		}
		return nil
	})
	if txErr != nil {
		return nil, asAppError(txErr)
	}

	if err := s.dispatcher.ProvisionMeeting(ctx, tasks.ProvisionMeetingPayload{InterviewID: interview.ID}); err != nil {
		logger.Error("SchedulingService:Respond:ProvisionMeeting", "error", err)
	}
	s.notifyConfirmation(ctx, candidate, interview, slot)

	logger.Info("SchedulingService:Respond:Confirmed",
		"interview_id", interview.ID,
		"candidate_id", candidate.ID,
		"interviewer_id", slot.InterviewerID,
		"scheduled_time", interview.ScheduledTime,
	)
	interviewID := interview.ID.String()
	return &dto.RespondResponse{
		Message:       "Interview confirmed",
		InterviewID:   &interviewID,
		ScheduledTime: &interview.ScheduledTime,
	}, nil
}

// notifyInvitations emails every matching interviewer an accept and a reject
// link. Failures here are logged, never surfaced: the round is already
// committed.
func (s *SchedulingService) notifyInvitations(ctx context.Context, candidate *candidateentity.Candidate, attempt *entity.ScheduleAttempt, slots []availabilityentity.AvailabilitySlot) {
	baseURL := config.Get().Server.PublicBaseURL
	contexts := make([]tasks.NotificationContext, 0, len(slots))

	for _, slot := range slots {
		interviewer, err := s.users.GetByID(ctx, slot.InterviewerID)
		if err != nil || interviewer == nil {
			logger.Error("SchedulingService:notifyInvitations:LookupInterviewer",
				"interviewer_id", slot.InterviewerID, "error", err)
			continue
		}

		acceptToken, err := GenerateRespondToken(slot.ID, candidate.ID, attempt.ID, attempt.BookedBy, attempt.ScheduleTime, ActionAccept)
		if err != nil {
			logger.Error("SchedulingService:notifyInvitations:SignAccept", "error", err)
			continue
		}
		rejectToken, err := GenerateRespondToken(slot.ID, candidate.ID, attempt.ID, attempt.BookedBy, attempt.ScheduleTime, ActionReject)
		if err != nil {
			logger.Error("SchedulingService:notifyInvitations:SignReject", "error", err)
			continue
		}

		contexts = append(contexts, tasks.NotificationContext{
			Email: interviewer.Email,
			Name:  interviewer.Name,
			Data: map[string]string{
				"candidate_name": candidate.Name,
				"scheduled_time": attempt.ScheduleTime.Format(time.RFC1123),
				"accept_link":    fmt.Sprintf("%s/api/v1/public/scheduling/respond?token=%s", baseURL, url.QueryEscape(acceptToken)),
				"reject_link":    fmt.Sprintf("%s/api/v1/public/scheduling/respond?token=%s", baseURL, url.QueryEscape(rejectToken)),
			},
		})
	}

	if len(contexts) == 0 {
		return
	}
	err := s.dispatcher.SendMany(ctx, tasks.SendManyPayload{
		Contexts:        contexts,
		DefaultSubject:  "Interview request: " + candidate.Name,
		DefaultTemplate: "interview_invitation",
	})
	if err != nil {
		logger.Error("SchedulingService:notifyInvitations:Dispatch", "error", err)
	}
}

// notifyConfirmation tells everyone involved that the interview is booked:
// the candidate, the interviewer, the recruiter who initiated the round and
// the client's internal account owner.
func (s *SchedulingService) notifyConfirmation(ctx context.Context, candidate *candidateentity.Candidate, interview *interviewentity.Interview, slot *availabilityentity.AvailabilitySlot) {
	scheduled := interview.ScheduledTime.Format(time.RFC1123)
	data := map[string]string{"candidate_name": candidate.Name, "scheduled_time": scheduled}
	contexts := []tasks.NotificationContext{
		{Email: candidate.Email, Name: candidate.Name, Data: data},
	}

	if interviewer, err := s.users.GetByID(ctx, slot.InterviewerID); err == nil && interviewer != nil {
		contexts = append(contexts, tasks.NotificationContext{
			Email: interviewer.Email,
			Name:  interviewer.Name,
			Data:  data,
		})
	}
	if recruiter, err := s.users.GetByID(ctx, interview.BookedBy); err == nil && recruiter != nil {
		contexts = append(contexts, tasks.NotificationContext{
			Email: recruiter.Email,
			Name:  recruiter.Name,
			Data:  data,
		})
	}

	ownerID, appErr := s.billing.AccountOwner(ctx, candidate.OrganizationID)
	if appErr != nil {
		logger.Error("SchedulingService:notifyConfirmation:AccountOwner", "error", appErr)
	} else if ownerID != nil && *ownerID != interview.BookedBy {
		if owner, err := s.users.GetByID(ctx, *ownerID); err == nil && owner != nil {
			contexts = append(contexts, tasks.NotificationContext{
				Email: owner.Email,
				Name:  owner.Name,
				Data:  data,
			})
		}
	}

	err := s.dispatcher.SendMany(ctx, tasks.SendManyPayload{
		Contexts:        contexts,
		DefaultSubject:  "Interview confirmed: " + candidate.Name,
		DefaultTemplate: "interview_confirmed",
	})
	if err != nil {
		logger.Error("SchedulingService:notifyConfirmation:Dispatch", "error", err)
	}
}

// asAppError narrows a transaction error back to the AppError a service step
// returned, wrapping anything else as an internal error.
func asAppError(err error) *errors.AppError {
	if appErr, ok := err.(*errors.AppError); ok {
		return appErr
	}
	return errors.NewAppError(errors.ErrInternalServer, "Operation failed", err)
}
