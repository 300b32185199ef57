package service

import (
	"context"
	"database/sql"
	goerrors "errors"
	"time"

	"hiringdesk/core/database"
	"hiringdesk/core/errors"
	"hiringdesk/core/logger"
	"hiringdesk/core/tasks"
	billingservice "hiringdesk/modules/billing/service"
	candidateentity "hiringdesk/modules/candidate/entity"
	candidaterepo "hiringdesk/modules/candidate/repository"
	interviewrepo "hiringdesk/modules/interview/repository"
	"hiringdesk/modules/feedback/dto"
	"hiringdesk/modules/feedback/entity"
	"hiringdesk/modules/feedback/repository"
	userrepo "hiringdesk/modules/user/repository"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// FeedbackService handles interviewer verdicts: persisting the evaluation,
// moving the candidate through the pipeline and triggering billing. One
// submission per interview; the whole settlement is a single transaction.
type FeedbackService struct {
	db         database.IDatabase
	feedbacks  repository.FeedbackRepositoryInterface
	interviews interviewrepo.InterviewRepositoryInterface
	candidates candidaterepo.CandidateRepositoryInterface
	billing    billingservice.BillingServiceInterface
	users      userrepo.UserRepositoryInterface
	dispatcher tasks.Dispatcher
}

type FeedbackServiceInterface interface {
	Submit(ctx context.Context, interviewerID uuid.UUID, req *dto.SubmitFeedbackRequest) (*dto.FeedbackResponse, *errors.AppError)
	GetByInterview(ctx context.Context, interviewID uuid.UUID) (*dto.FeedbackResponse, *errors.AppError)
	RateInterviewer(ctx context.Context, interviewID uuid.UUID, req *dto.RateInterviewerRequest) *errors.AppError
}

func NewFeedbackService(
	db database.IDatabase,
	feedbacks repository.FeedbackRepositoryInterface,
	interviews interviewrepo.InterviewRepositoryInterface,
	candidates candidaterepo.CandidateRepositoryInterface,
	billing billingservice.BillingServiceInterface,
	users userrepo.UserRepositoryInterface,
	dispatcher tasks.Dispatcher,
) FeedbackServiceInterface {
	return &FeedbackService{
		db:         db,
		feedbacks:  feedbacks,
		interviews: interviews,
		candidates: candidates,
		billing:    billing,
		users:      users,
		dispatcher: dispatcher,
	}
}

// Submit records the verdict, advances the candidate and bills both parties.
func (s *FeedbackService) Submit(ctx context.Context, interviewerID uuid.UUID, req *dto.SubmitFeedbackRequest) (*dto.FeedbackResponse, *errors.AppError) {
	interviewID, err := uuid.Parse(req.InterviewID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid interview_id", err)
	}

	remark := candidateentity.Status(req.OverallRemark)
	if remark != candidateentity.StatusNotJoined && !remark.Evaluation() {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Unknown overall_remark", nil)
	}

	interview, err := s.interviews.GetByID(ctx, interviewID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load interview", err)
	}
	if interview == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Interview not found", nil)
	}
	if interview.InterviewerID != interviewerID {
		return nil, errors.NewAppError(errors.ErrForbidden, "Feedback can only be submitted by the interviewer", nil)
	}
	if interview.Status != candidateentity.StatusCompleteScheduled {
		return nil, errors.NewAppError(errors.ErrInvalidCandidateState,
			"Interview is not awaiting feedback", nil)
	}

	now := time.Now()
	var (
		feedback *entity.InterviewFeedback
		fine     float64
	)

	txErr := s.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		// One-shot guard: flipping the billing flag claims the submission.
		if innerErr := s.interviews.MarkBillingCalculated(ctx, tx, interviewID); innerErr != nil {
			if goerrors.Is(innerErr, sql.ErrNoRows) {
				return errors.NewAppError(errors.ErrAlreadyExists, "Feedback already submitted for this interview", nil)
			}
			return errors.NewAppError(errors.ErrInternalServer, "Failed to claim feedback submission", innerErr)
		}

		var innerErr error
		feedback, innerErr = s.feedbacks.GetOrCreateDraft(ctx, tx, interviewID)
		if innerErr != nil {
			return errors.NewAppError(errors.ErrInternalServer, "Failed to load feedback draft", innerErr)
		}

		if req.SkillEvaluation != "" {
			feedback.SkillEvaluation = &req.SkillEvaluation
		}
		if req.Strength != "" {
			feedback.Strength = &req.Strength
		}
		if req.ImprovementPoints != "" {
			feedback.ImprovementPoints = &req.ImprovementPoints
		}
		if req.RecordingLink != "" {
			feedback.RecordingLink = &req.RecordingLink
		}
		feedback.OverallRemark = &remark
		feedback.OverallScore = &req.OverallScore
		feedback.SubmittedAt = &now
		if innerErr := s.feedbacks.Update(ctx, tx, feedback); innerErr != nil {
			return errors.NewAppError(errors.ErrInternalServer, "Failed to save feedback", innerErr)
		}

		remarkStr := string(remark)
		if innerErr := s.interviews.UpdateStatus(ctx, tx, interviewID, remark, &remarkStr); innerErr != nil {
			return errors.NewAppError(errors.ErrInternalServer, "Failed to update interview", innerErr)
		}

		candidate, innerErr := s.candidates.GetForUpdate(ctx, tx, interview.CandidateID)
		if innerErr != nil {
			return errors.NewAppError(errors.ErrInternalServer, "Failed to load candidate", innerErr)
		}
		if candidate == nil {
			return errors.NewAppError(errors.ErrNotFound, "Candidate not found", nil)
		}

		nextStatus, appErr := candidateentity.Transition(candidate.Status,
			candidateentity.Event{Type: candidateentity.EventFeedbackSubmitted, Remark: remark})
		if appErr != nil {
			return appErr
		}
		candidate.Status = nextStatus

		// A completed round moves the candidate forward; a no-show keeps the
		// round open for the next attempt.
		if remark != candidateentity.StatusNotJoined && candidate.NextRoundID != nil && candidate.JobID != nil {
			current, innerErr := s.candidates.GetRoundByID(ctx, *candidate.NextRoundID)
			if innerErr != nil {
				return errors.NewAppError(errors.ErrInternalServer, "Failed to load current round", innerErr)
			}
			candidate.LastCompletedRoundID = candidate.NextRoundID
			if current != nil {
				next, innerErr := s.candidates.NextRoundAfter(ctx, *candidate.JobID, current.SequenceNumber)
				if innerErr != nil {
					return errors.NewAppError(errors.ErrInternalServer, "Failed to load next round", innerErr)
				}
				if next != nil {
					candidate.NextRoundID = &next.ID
				} else {
					candidate.NextRoundID = nil
				}
			}
		}
		candidate.Score = candidate.Score + req.OverallScore
		if innerErr := s.candidates.Update(ctx, tx, candidate); innerErr != nil {
			return errors.NewAppError(errors.ErrInternalServer, "Failed to update candidate", innerErr)
		}

		log, appErr := s.billing.RecordFeedbackBilling(ctx, tx, billingservice.FeedbackBillingInput{
			Interview:           interview,
			Candidate:           candidate,
			Remark:              remark,
			FeedbackGeneratedAt: feedback.CreatedAt,
			SubmittedAt:         now,
		})
		if appErr != nil {
			return appErr
		}
		fine = log.LateFeedbackDeduction
		return nil
	})
	if txErr != nil {
		if appErr, ok := txErr.(*errors.AppError); ok {
			return nil, appErr
		}
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to submit feedback", txErr)
	}

	// No report for a no-show: there is no evaluation to render.
	if remark != candidateentity.StatusNotJoined {
		if err := s.dispatcher.GenerateFeedbackPDF(ctx, tasks.GenerateFeedbackPDFPayload{InterviewID: interviewID}); err != nil {
			logger.Error("FeedbackService:Submit:QueuePDF", "error", err)
		}
	}
	s.notifySubmission(ctx, interview.BookedBy, remark)

	logger.Info("FeedbackService:Submit:Done",
		"interview_id", interviewID,
		"remark", remark,
		"fine", fine,
	)
	return dto.ToFeedbackResponse(feedback, fine), nil
}

func (s *FeedbackService) GetByInterview(ctx context.Context, interviewID uuid.UUID) (*dto.FeedbackResponse, *errors.AppError) {
	feedback, err := s.feedbacks.GetByInterview(ctx, interviewID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load feedback", err)
	}
	if feedback == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Feedback not found", nil)
	}
	return dto.ToFeedbackResponse(feedback, 0), nil
}

// RateInterviewer stores the candidate's rating of the interview experience.
func (s *FeedbackService) RateInterviewer(ctx context.Context, interviewID uuid.UUID, req *dto.RateInterviewerRequest) *errors.AppError {
	if req.Rating < 1 || req.Rating > 5 {
		return errors.NewAppError(errors.ErrInvalidInput, "Rating must be between 1 and 5", nil)
	}

	interview, err := s.interviews.GetByID(ctx, interviewID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to load interview", err)
	}
	if interview == nil {
		return errors.NewAppError(errors.ErrNotFound, "Interview not found", nil)
	}

	rating := &entity.InterviewerRating{
		InterviewID: interviewID,
		Rating:      req.Rating,
	}
	if req.Comment != "" {
		rating.Comment = &req.Comment
	}
	if _, err := s.feedbacks.CreateRating(ctx, rating); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to save rating", err)
	}
	return nil
}

func (s *FeedbackService) notifySubmission(ctx context.Context, recruiterID uuid.UUID, remark candidateentity.Status) {
	recruiter, err := s.users.GetByID(ctx, recruiterID)
	if err != nil || recruiter == nil {
		return
	}

	err = s.dispatcher.SendMany(ctx, tasks.SendManyPayload{
		Contexts: []tasks.NotificationContext{{
			Email: recruiter.Email,
			Name:  recruiter.Name,
			Data:  map[string]string{"remark": string(remark)},
		}},
		DefaultSubject:  "Interview feedback submitted",
		DefaultTemplate: "feedback_submitted",
	})
	if err != nil {
		logger.Error("FeedbackService:notifySubmission:Dispatch", "error", err)
	}
}
