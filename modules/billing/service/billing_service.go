package service

import (
	"context"
	"time"

	"hiringdesk/core/config"
	"hiringdesk/core/errors"
	"hiringdesk/core/logger"
	"hiringdesk/modules/billing/dto"
	"hiringdesk/modules/billing/entity"
	"hiringdesk/modules/billing/repository"
	candidateentity "hiringdesk/modules/candidate/entity"
	interviewentity "hiringdesk/modules/interview/entity"
	userrepo "hiringdesk/modules/user/repository"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// FeedbackBillingInput carries everything the ledger needs to bill one
// submitted feedback.
type FeedbackBillingInput struct {
	Interview           *interviewentity.Interview
	Candidate           *candidateentity.Candidate
	Remark              candidateentity.Status
	FeedbackGeneratedAt time.Time
	SubmittedAt         time.Time
}

// BillingService is the money ledger. The Record* methods run inside the
// caller's transaction so a billing failure rolls the triggering operation
// back with it.
type BillingService struct {
	repo  repository.BillingRepositoryInterface
	users userrepo.UserRepositoryInterface
}

type BillingServiceInterface interface {
	RecordFeedbackBilling(ctx context.Context, tx *sqlx.Tx, in FeedbackBillingInput) (*entity.BillingLog, *errors.AppError)
	RecordLateReschedule(ctx context.Context, tx *sqlx.Tx, interview *interviewentity.Interview, candidate *candidateentity.Candidate) *errors.AppError
	AccountOwner(ctx context.Context, organizationID uuid.UUID) (*uuid.UUID, *errors.AppError)
	GetClientRecords(ctx context.Context, userID uuid.UUID) ([]dto.RecordResponse, *errors.AppError)
	GetInterviewerRecords(ctx context.Context, interviewerID uuid.UUID) ([]dto.RecordResponse, *errors.AppError)
}

func NewBillingService(repo repository.BillingRepositoryInterface, users userrepo.UserRepositoryInterface) BillingServiceInterface {
	return &BillingService{repo: repo, users: users}
}

func (s *BillingService) timezone() *time.Location {
	loc, err := time.LoadLocation(config.Get().Billing.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// RecordFeedbackBilling creates the billing log for a submitted feedback and
// rolls its amounts into both monthly records. Safe to call more than once
// for the same interview: the amounts only land the first time.
func (s *BillingService) RecordFeedbackBilling(ctx context.Context, tx *sqlx.Tx, in FeedbackBillingInput) (*entity.BillingLog, *errors.AppError) {
	cfg := config.Get().Billing
	loc := s.timezone()
	now := time.Now()

	client, err := s.repo.GetClientByOrganization(ctx, in.Candidate.OrganizationID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load client billing profile", err)
	}
	if client == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Client billing profile not found", nil)
	}

	level := entity.ExperienceLevel(in.Candidate.ExperienceYears, in.Candidate.ExperienceMonths)
	pricing, err := s.repo.GetPricing(ctx, level)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load interviewer pricing", err)
	}
	agreement, err := s.repo.GetAgreement(ctx, client.ID, level)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load client agreement", err)
	}
	if pricing == nil || agreement == nil {
		return nil, errors.NewAppError(errors.ErrPricingNotConfigured,
			"Pricing not configured for experience level "+level, nil)
	}

	interviewerAmount := pricing.Price
	clientAmount := agreement.Rate
	if in.Remark == candidateentity.StatusNotJoined {
		interviewerAmount = cfg.InterviewerLateAmount
		clientAmount = cfg.ClientLateAmount
	}

	month := entity.MonthStart(now, loc)
	log, created, err := s.repo.GetOrCreateLog(ctx, tx, &entity.BillingLog{
		InterviewID:          in.Interview.ID,
		ClientID:             client.ID,
		InterviewerID:        in.Interview.InterviewerID,
		AmountForClient:      clientAmount,
		AmountForInterviewer: interviewerAmount,
		Reason:               entity.ReasonFeedbackSubmitted,
		BillingMonth:         month,
	})
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create billing log", err)
	}

	// The fine never applies to a no-show: the interviewer had nothing to
	// evaluate.
	var fine float64
	if in.Remark != candidateentity.StatusNotJoined {
		fine = entity.LateFeedbackFine(in.FeedbackGeneratedAt, in.Interview.EndTime(), in.SubmittedAt, loc)
	}

	if !log.IsBillingCalculated {
		// Credits are consumed only on the first calculation, so a replayed
		// call cannot burn a second one.
		lockedClient, err := s.repo.GetClientForUpdate(ctx, tx, client.ID)
		if err != nil || lockedClient == nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to lock client billing profile", err)
		}
		usedFreeCredit := false
		if lockedClient.FreeInterviews > 0 {
			clientAmount = 0
			usedFreeCredit = true
			if err := s.repo.ConsumeFreeInterview(ctx, tx, client.ID); err != nil {
				return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to consume free interview credit", err)
			}
		}

		if fine > 0 {
			interviewerAmount -= fine
			log.LateFeedbackDeduction = fine
			log.IsFeedbackSubmittedLate = true
		}

		dueDate := entity.DueDate(now, loc)

		clientRecord, recordCreated, err := s.repo.GetOrCreateRecord(ctx, tx, &entity.BillingRecord{
			BillingMonth: month,
			RecordType:   entity.RecordTypeClientBilling,
			AmountDue:    clientAmount,
			DueDate:      dueDate,
			ClientID:     &client.ID,
		})
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update client billing record", err)
		}
		if !recordCreated {
			if err := s.repo.AddToRecordAmountDue(ctx, tx, clientRecord.ID, clientAmount); err != nil {
				return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update client billing record", err)
			}
		}

		interviewerRecord, recordCreated, err := s.repo.GetOrCreateRecord(ctx, tx, &entity.BillingRecord{
			BillingMonth:  month,
			RecordType:    entity.RecordTypeInterviewerPayment,
			AmountDue:     interviewerAmount,
			DueDate:       dueDate,
			InterviewerID: &in.Interview.InterviewerID,
		})
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update interviewer payment record", err)
		}
		if !recordCreated {
			if err := s.repo.AddToRecordAmountDue(ctx, tx, interviewerRecord.ID, interviewerAmount); err != nil {
				return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update interviewer payment record", err)
			}
		}

		log.AmountForClient = clientAmount
		log.AmountForInterviewer = interviewerAmount
		if clientAmount == 0 && usedFreeCredit {
			log.Status = entity.LogStatusPaid
			log.Reason = entity.ReasonFreeFeedback
		}
		log.IsBillingCalculated = true

		if err := s.repo.UpdateLog(ctx, tx, log); err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to finalize billing log", err)
		}
	}

	logger.Info("BillingService:RecordFeedbackBilling:Done",
		"interview_id", in.Interview.ID,
		"client_amount", log.AmountForClient,
		"interviewer_amount", log.AmountForInterviewer,
		"fine", fine,
		"created", created,
	)
	return log, nil
}

// RecordLateReschedule charges both parties the fixed amounts for cancelling
// a confirmed interview inside the late-cancel window. One charge per
// interview: replays find the existing log and stop.
func (s *BillingService) RecordLateReschedule(ctx context.Context, tx *sqlx.Tx, interview *interviewentity.Interview, candidate *candidateentity.Candidate) *errors.AppError {
	cfg := config.Get().Billing
	loc := s.timezone()
	now := time.Now()

	client, err := s.repo.GetClientByOrganization(ctx, candidate.OrganizationID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to load client billing profile", err)
	}
	if client == nil {
		return errors.NewAppError(errors.ErrNotFound, "Client billing profile not found", nil)
	}

	month := entity.MonthStart(now, loc)
	log, created, err := s.repo.GetOrCreateLog(ctx, tx, &entity.BillingLog{
		InterviewID:          interview.ID,
		ClientID:             client.ID,
		InterviewerID:        interview.InterviewerID,
		AmountForClient:      cfg.ClientLateAmount,
		AmountForInterviewer: cfg.InterviewerLateAmount,
		Reason:               entity.ReasonLateRescheduled,
		BillingMonth:         month,
	})
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to create late reschedule log", err)
	}
	if !created {
		return nil
	}

	dueDate := entity.DueDate(now, loc)

	clientRecord, recordCreated, err := s.repo.GetOrCreateRecord(ctx, tx, &entity.BillingRecord{
		BillingMonth: month,
		RecordType:   entity.RecordTypeClientBilling,
		AmountDue:    cfg.ClientLateAmount,
		DueDate:      dueDate,
		ClientID:     &client.ID,
	})
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to update client billing record", err)
	}
	if !recordCreated {
		if err := s.repo.AddToRecordAmountDue(ctx, tx, clientRecord.ID, cfg.ClientLateAmount); err != nil {
			return errors.NewAppError(errors.ErrInternalServer, "Failed to update client billing record", err)
		}
	}

	interviewerRecord, recordCreated, err := s.repo.GetOrCreateRecord(ctx, tx, &entity.BillingRecord{
		BillingMonth:  month,
		RecordType:    entity.RecordTypeInterviewerPayment,
		AmountDue:     cfg.InterviewerLateAmount,
		DueDate:       dueDate,
		InterviewerID: &interview.InterviewerID,
	})
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to update interviewer payment record", err)
	}
	if !recordCreated {
		if err := s.repo.AddToRecordAmountDue(ctx, tx, interviewerRecord.ID, cfg.InterviewerLateAmount); err != nil {
			return errors.NewAppError(errors.ErrInternalServer, "Failed to update interviewer payment record", err)
		}
	}

	log.IsBillingCalculated = true
	if err := s.repo.UpdateLog(ctx, tx, log); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to finalize late reschedule log", err)
	}

	logger.Info("BillingService:RecordLateReschedule:Charged",
		"interview_id", interview.ID,
		"client_amount", cfg.ClientLateAmount,
		"interviewer_amount", cfg.InterviewerLateAmount,
	)
	return nil
}

// AccountOwner returns the internal user assigned to the organization's
// client account, or nil when none is assigned.
func (s *BillingService) AccountOwner(ctx context.Context, organizationID uuid.UUID) (*uuid.UUID, *errors.AppError) {
	client, err := s.repo.GetClientByOrganization(ctx, organizationID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load client billing profile", err)
	}
	if client == nil {
		return nil, nil
	}
	return client.AssignedToID, nil
}

// GetClientRecords lists the billing records of the requesting client user's
// organization.
func (s *BillingService) GetClientRecords(ctx context.Context, userID uuid.UUID) ([]dto.RecordResponse, *errors.AppError) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to look up user", err)
	}
	if user == nil || user.OrganizationID == nil {
		return nil, errors.NewAppError(errors.ErrForbidden, "User does not belong to a client organization", nil)
	}

	client, err := s.repo.GetClientByOrganization(ctx, *user.OrganizationID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load client billing profile", err)
	}
	if client == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Client billing profile not found", nil)
	}

	records, err := s.repo.ListRecordsByClient(ctx, client.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list billing records", err)
	}
	return dto.ToRecordResponses(records), nil
}

func (s *BillingService) GetInterviewerRecords(ctx context.Context, interviewerID uuid.UUID) ([]dto.RecordResponse, *errors.AppError) {
	records, err := s.repo.ListRecordsByInterviewer(ctx, interviewerID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list payment records", err)
	}
	return dto.ToRecordResponses(records), nil
}
