package repository

import (
	"context"
	"database/sql"
	goerrors "errors"
	"time"

	"hiringdesk/core/constants"
	"hiringdesk/core/database"
	"hiringdesk/modules/availability/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ErrAlreadyClaimed is returned when a claim races another booking to the
// same slot and loses.
var ErrAlreadyClaimed = goerrors.New("availability slot already claimed")

type AvailabilityRepositoryInterface interface {
	Create(ctx context.Context, slot *entity.AvailabilitySlot) (*entity.AvailabilitySlot, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.AvailabilitySlot, error)
	GetOpenByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.AvailabilitySlot, error)
	ListByInterviewer(ctx context.Context, interviewerID uuid.UUID, from time.Time) ([]entity.AvailabilitySlot, error)
	ListOverlapping(ctx context.Context, interviewerID uuid.UUID, window entity.Window) ([]entity.AvailabilitySlot, error)
	ClaimSlot(ctx context.Context, tx *sqlx.Tx, slotID, claimantID uuid.UUID, window entity.Window) (*entity.AvailabilitySlot, []entity.AvailabilitySlot, error)
	ReleaseSlot(ctx context.Context, tx *sqlx.Tx, slotID uuid.UUID) error
	SetCalendarEventID(ctx context.Context, slotID uuid.UUID, eventID string) error
	Archive(ctx context.Context, slotID, interviewerID uuid.UUID) error
}

type AvailabilityRepository struct {
	DB database.IDatabase
}

func NewAvailabilityRepository(db database.IDatabase) AvailabilityRepositoryInterface {
	return &AvailabilityRepository{DB: db}
}

func (r *AvailabilityRepository) Create(ctx context.Context, slot *entity.AvailabilitySlot) (*entity.AvailabilitySlot, error) {
	query := `
		INSERT INTO availability_slots (interviewer_id, date, start_time, end_time, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *`

	var created entity.AvailabilitySlot
	err := r.DB.GetContext(ctx, &created, query,
		slot.InterviewerID, slot.Date, slot.StartTime, slot.EndTime, slot.Notes)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *AvailabilityRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.AvailabilitySlot, error) {
	query := `SELECT * FROM availability_slots WHERE id = $1 AND archived_at IS NULL`

	var slot entity.AvailabilitySlot
	err := r.DB.GetContext(ctx, &slot, query, id)
	if err != nil {
		if goerrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &slot, nil
}

// GetOpenByIDs returns the subset of the given slots that are still unclaimed.
func (r *AvailabilityRepository) GetOpenByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.AvailabilitySlot, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT * FROM availability_slots
		WHERE id IN (?) AND booked_by IS NULL AND archived_at IS NULL
		ORDER BY start_time ASC`, ids)
	if err != nil {
		return nil, err
	}
	query = r.DB.SQLx().Rebind(query)

	var slots []entity.AvailabilitySlot
	if err := r.DB.SelectContext(ctx, &slots, query, args...); err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *AvailabilityRepository) ListByInterviewer(ctx context.Context, interviewerID uuid.UUID, from time.Time) ([]entity.AvailabilitySlot, error) {
	query := `
		SELECT * FROM availability_slots
		WHERE interviewer_id = $1 AND end_time > $2 AND archived_at IS NULL
		ORDER BY start_time ASC`

	var slots []entity.AvailabilitySlot
	if err := r.DB.SelectContext(ctx, &slots, query, interviewerID, from); err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *AvailabilityRepository) ListOverlapping(ctx context.Context, interviewerID uuid.UUID, window entity.Window) ([]entity.AvailabilitySlot, error) {
	query := `
		SELECT * FROM availability_slots
		WHERE interviewer_id = $1 AND start_time < $2 AND end_time > $3 AND archived_at IS NULL`

	var slots []entity.AvailabilitySlot
	if err := r.DB.SelectContext(ctx, &slots, query, interviewerID, window.End, window.Start); err != nil {
		return nil, err
	}
	return slots, nil
}

// ClaimSlot locks the slot row, marks the booked window as scheduled and
// re-creates whatever open time remains around it as fresh slots. It must run
// inside the caller's transaction so the lock holds until the booking commits.
func (r *AvailabilityRepository) ClaimSlot(ctx context.Context, tx *sqlx.Tx, slotID, claimantID uuid.UUID, window entity.Window) (*entity.AvailabilitySlot, []entity.AvailabilitySlot, error) {
	var slot entity.AvailabilitySlot
	err := tx.GetContext(ctx, &slot, `
		SELECT * FROM availability_slots
		WHERE id = $1 AND archived_at IS NULL
		FOR UPDATE`, slotID)
	if err != nil {
		if goerrors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrAlreadyClaimed
		}
		return nil, nil, err
	}

	if slot.BookedBy != nil {
		return nil, nil, ErrAlreadyClaimed
	}

	before, after := entity.SplitAround(slot.StartTime, slot.EndTime, window,
		constants.SlotBuffer, constants.MinResidualSlot)

	err = tx.GetContext(ctx, &slot, `
		UPDATE availability_slots
		SET start_time = $1, end_time = $2, booked_by = $3, is_scheduled = TRUE, updated_at = NOW()
		WHERE id = $4
		RETURNING *`, window.Start, window.End, claimantID, slotID)
	if err != nil {
		return nil, nil, err
	}

	var residuals []entity.AvailabilitySlot
	for _, w := range []*entity.Window{before, after} {
		if w == nil {
			continue
		}
		var residual entity.AvailabilitySlot
		err := tx.GetContext(ctx, &residual, `
			INSERT INTO availability_slots (interviewer_id, date, start_time, end_time, notes)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING *`, slot.InterviewerID, slot.Date, w.Start, w.End, slot.Notes)
		if err != nil {
			return nil, nil, err
		}
		residuals = append(residuals, residual)
	}

	return &slot, residuals, nil
}

// ReleaseSlot reopens a previously claimed slot. Residuals created at claim
// time stay as-is; windows are never merged back.
func (r *AvailabilityRepository) ReleaseSlot(ctx context.Context, tx *sqlx.Tx, slotID uuid.UUID) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE availability_slots
		SET booked_by = NULL, is_scheduled = FALSE, calendar_event_id = NULL, updated_at = NOW()
		WHERE id = $1`, slotID)
	return err
}

func (r *AvailabilityRepository) SetCalendarEventID(ctx context.Context, slotID uuid.UUID, eventID string) error {
	return r.DB.ExecContext(ctx, `
		UPDATE availability_slots
		SET calendar_event_id = $1, updated_at = NOW()
		WHERE id = $2`, eventID, slotID)
}

// Archive soft-deletes an open slot. Claimed slots cannot be archived; the
// caller gets sql.ErrNoRows when the slot is booked, owned by someone else or
// already gone.
func (r *AvailabilityRepository) Archive(ctx context.Context, slotID, interviewerID uuid.UUID) error {
	var archived uuid.UUID
	return r.DB.GetContext(ctx, &archived, `
		UPDATE availability_slots
		SET archived_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND interviewer_id = $2 AND booked_by IS NULL AND archived_at IS NULL
		RETURNING id`,
		slotID, interviewerID)
}
