package service

import (
	"context"
	"time"

	"hiringdesk/core/constants"
	"hiringdesk/core/errors"
	"hiringdesk/core/logger"
	"hiringdesk/modules/availability/dto"
	"hiringdesk/modules/availability/entity"
	"hiringdesk/modules/availability/repository"

	"github.com/google/uuid"
)

// AvailabilityService handles interviewer availability windows
type AvailabilityService struct {
	repo repository.AvailabilityRepositoryInterface
}

// AvailabilityServiceInterface defines the service contract
type AvailabilityServiceInterface interface {
	CreateSlot(ctx context.Context, interviewerID uuid.UUID, req *dto.CreateSlotRequest) (*dto.SlotResponse, *errors.AppError)
	GetMySlots(ctx context.Context, interviewerID uuid.UUID) ([]dto.SlotResponse, *errors.AppError)
	ArchiveSlot(ctx context.Context, slotID, interviewerID uuid.UUID) *errors.AppError
}

// NewAvailabilityService creates a new availability service
func NewAvailabilityService(repo repository.AvailabilityRepositoryInterface) AvailabilityServiceInterface {
	return &AvailabilityService{repo: repo}
}

// CreateSlot publishes a new open window. Windows must be at least one
// interview long, lie in the future and not overlap the interviewer's
// existing windows.
func (s *AvailabilityService) CreateSlot(ctx context.Context, interviewerID uuid.UUID, req *dto.CreateSlotRequest) (*dto.SlotResponse, *errors.AppError) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid date, expected YYYY-MM-DD", err)
	}
	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid start_time, expected RFC3339", err)
	}
	endTime, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid end_time, expected RFC3339", err)
	}

	if !endTime.After(startTime) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "end_time must be after start_time", nil)
	}
	if endTime.Sub(startTime) < constants.InterviewDuration {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Slot must be at least one hour long", nil)
	}
	if startTime.Before(time.Now()) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Slot cannot start in the past", nil)
	}

	window := entity.Window{Start: startTime, End: endTime}
	overlapping, err := s.repo.ListOverlapping(ctx, interviewerID, window)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to check for overlapping slots", err)
	}
	if len(overlapping) > 0 {
		return nil, errors.NewAppError(errors.ErrAlreadyExists, "Slot overlaps an existing availability window", nil)
	}

	slot := &entity.AvailabilitySlot{
		InterviewerID: interviewerID,
		Date:          date,
		StartTime:     startTime,
		EndTime:       endTime,
	}
	if req.Notes != "" {
		slot.Notes = &req.Notes
	}

	created, err := s.repo.Create(ctx, slot)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create slot", err)
	}

	logger.Info("AvailabilityService:CreateSlot:Created",
		"slot_id", created.ID,
		"interviewer_id", interviewerID,
		"start", created.StartTime,
		"end", created.EndTime,
	)
	return dto.ToSlotResponse(created), nil
}

// GetMySlots lists the interviewer's windows that have not yet ended.
func (s *AvailabilityService) GetMySlots(ctx context.Context, interviewerID uuid.UUID) ([]dto.SlotResponse, *errors.AppError) {
	slots, err := s.repo.ListByInterviewer(ctx, interviewerID, time.Now())
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list slots", err)
	}
	return dto.ToSlotResponses(slots), nil
}

// ArchiveSlot removes a window that no candidate has claimed yet.
func (s *AvailabilityService) ArchiveSlot(ctx context.Context, slotID, interviewerID uuid.UUID) *errors.AppError {
	if err := s.repo.Archive(ctx, slotID, interviewerID); err != nil {
		return errors.NewAppError(errors.ErrNotFound, "Slot not found or already booked", err)
	}
	return nil
}
