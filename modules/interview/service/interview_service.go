package service

import (
	"context"
	"time"

	"hiringdesk/core/errors"
	candidateentity "hiringdesk/modules/candidate/entity"
	"hiringdesk/modules/interview/dto"
	"hiringdesk/modules/interview/entity"
	"hiringdesk/modules/interview/repository"

	"github.com/google/uuid"
)

// InterviewService serves the interviewer and recruiter dashboards.
type InterviewService struct {
	repo repository.InterviewRepositoryInterface
}

type InterviewServiceInterface interface {
	GetMyInterviews(ctx context.Context, interviewerID uuid.UUID) (*dto.DashboardResponse, *errors.AppError)
	GetCandidateInterviews(ctx context.Context, candidateID uuid.UUID) ([]dto.InterviewResponse, *errors.AppError)
	GetInterview(ctx context.Context, id uuid.UUID) (*dto.InterviewResponse, *errors.AppError)
}

func NewInterviewService(repo repository.InterviewRepositoryInterface) InterviewServiceInterface {
	return &InterviewService{repo: repo}
}

// GetMyInterviews returns the interviewer dashboard: upcoming confirmed
// bookings, finished interviews still owing feedback, and the rest.
func (s *InterviewService) GetMyInterviews(ctx context.Context, interviewerID uuid.UUID) (*dto.DashboardResponse, *errors.AppError) {
	interviews, err := s.repo.ListByInterviewer(ctx, interviewerID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list interviews", err)
	}

	now := time.Now()
	resp := &dto.DashboardResponse{
		Upcoming:        []dto.InterviewResponse{},
		PendingFeedback: []dto.InterviewResponse{},
		History:         []dto.InterviewResponse{},
	}
	for i := range interviews {
		item := *dto.ToInterviewResponse(&interviews[i])
		switch bucket(&interviews[i], now) {
		case bucketUpcoming:
			resp.Upcoming = append(resp.Upcoming, item)
		case bucketPendingFeedback:
			resp.PendingFeedback = append(resp.PendingFeedback, item)
		default:
			resp.History = append(resp.History, item)
		}
	}
	return resp, nil
}

type dashboardBucket int

const (
	bucketUpcoming dashboardBucket = iota
	bucketPendingFeedback
	bucketHistory
)

func bucket(interview *entity.Interview, now time.Time) dashboardBucket {
	if interview.Status != candidateentity.StatusCompleteScheduled {
		return bucketHistory
	}
	if interview.ScheduledTime.After(now) {
		return bucketUpcoming
	}
	if !interview.IsBillingCalculated {
		return bucketPendingFeedback
	}
	return bucketHistory
}

func (s *InterviewService) GetCandidateInterviews(ctx context.Context, candidateID uuid.UUID) ([]dto.InterviewResponse, *errors.AppError) {
	interviews, err := s.repo.ListByCandidate(ctx, candidateID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list interviews", err)
	}
	return dto.ToInterviewResponses(interviews), nil
}

func (s *InterviewService) GetInterview(ctx context.Context, id uuid.UUID) (*dto.InterviewResponse, *errors.AppError) {
	interview, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get interview", err)
	}
	if interview == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Interview not found", nil)
	}
	return dto.ToInterviewResponse(interview), nil
}
