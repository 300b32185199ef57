package repository

import (
	"context"
	"database/sql"
	goerrors "errors"

	"hiringdesk/core/constants"
	"hiringdesk/core/database"
	availabilityentity "hiringdesk/modules/availability/entity"
	candidateentity "hiringdesk/modules/candidate/entity"
	"hiringdesk/modules/interview/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type InterviewRepositoryInterface interface {
	Create(ctx context.Context, tx *sqlx.Tx, interview *entity.Interview) (*entity.Interview, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Interview, error)
	LatestConfirmedByCandidate(ctx context.Context, candidateID uuid.UUID) (*entity.Interview, error)
	LatestConfirmedByCandidateForUpdate(ctx context.Context, tx *sqlx.Tx, candidateID uuid.UUID) (*entity.Interview, error)
	HasConfirmedWithinBuffer(ctx context.Context, tx *sqlx.Tx, interviewerID uuid.UUID, window availabilityentity.Window) (bool, error)
	UpdateStatus(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, status candidateentity.Status, remark *string) error
	SetMeeting(ctx context.Context, id uuid.UUID, meetingLink, calendarEventID string) error
	MarkBillingCalculated(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error
	ListByInterviewer(ctx context.Context, interviewerID uuid.UUID) ([]entity.Interview, error)
	ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]entity.Interview, error)
}

type InterviewRepository struct {
	DB database.IDatabase
}

func NewInterviewRepository(db database.IDatabase) InterviewRepositoryInterface {
	return &InterviewRepository{DB: db}
}

func (r *InterviewRepository) Create(ctx context.Context, tx *sqlx.Tx, interview *entity.Interview) (*entity.Interview, error) {
	query := `
		INSERT INTO interviews (
			candidate_id, interviewer_id, slot_id, job_round_id, booked_by,
			scheduled_time, status, remark, previous_interview_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING *`

	var created entity.Interview
	err := tx.GetContext(ctx, &created, query,
		interview.CandidateID, interview.InterviewerID, interview.SlotID,
		interview.JobRoundID, interview.BookedBy, interview.ScheduledTime,
		interview.Status, interview.Remark, interview.PreviousInterviewID)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *InterviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Interview, error) {
	query := `SELECT * FROM interviews WHERE id = $1`

	var interview entity.Interview
	err := r.DB.GetContext(ctx, &interview, query, id)
	if err != nil {
		if goerrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &interview, nil
}

func (r *InterviewRepository) LatestConfirmedByCandidate(ctx context.Context, candidateID uuid.UUID) (*entity.Interview, error) {
	query := `
		SELECT * FROM interviews
		WHERE candidate_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT 1`

	var interview entity.Interview
	err := r.DB.GetContext(ctx, &interview, query, candidateID, candidateentity.StatusCompleteScheduled)
	if err != nil {
		if goerrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &interview, nil
}

func (r *InterviewRepository) LatestConfirmedByCandidateForUpdate(ctx context.Context, tx *sqlx.Tx, candidateID uuid.UUID) (*entity.Interview, error) {
	query := `
		SELECT * FROM interviews
		WHERE candidate_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT 1
		FOR UPDATE`

	var interview entity.Interview
	err := tx.GetContext(ctx, &interview, query, candidateID, candidateentity.StatusCompleteScheduled)
	if err != nil {
		if goerrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &interview, nil
}

// HasConfirmedWithinBuffer reports whether the interviewer already has a
// confirmed interview whose hour, padded by the slot buffer on both sides,
// touches the requested window. The matching rows are locked so a racing
// booking for the same interviewer serializes behind this one.
func (r *InterviewRepository) HasConfirmedWithinBuffer(ctx context.Context, tx *sqlx.Tx, interviewerID uuid.UUID, window availabilityentity.Window) (bool, error) {
	query := `
		SELECT id FROM interviews
		WHERE interviewer_id = $1 AND status = $2
		  AND scheduled_time < $3
		  AND scheduled_time + interval '1 hour' > $4
		FOR UPDATE`

	bufferedStart := window.Start.Add(-constants.SlotBuffer)
	bufferedEnd := window.End.Add(constants.SlotBuffer)

	var ids []uuid.UUID
	err := tx.SelectContext(ctx, &ids, query,
		interviewerID, candidateentity.StatusCompleteScheduled,
		bufferedEnd, bufferedStart)
	if err != nil {
		return false, err
	}
	return len(ids) > 0, nil
}

func (r *InterviewRepository) UpdateStatus(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, status candidateentity.Status, remark *string) error {
	query := `
		UPDATE interviews
		SET status = $1, remark = COALESCE($2, remark), updated_at = NOW()
		WHERE id = $3`

	_, err := tx.ExecContext(ctx, query, status, remark, id)
	return err
}

func (r *InterviewRepository) SetMeeting(ctx context.Context, id uuid.UUID, meetingLink, calendarEventID string) error {
	return r.DB.ExecContext(ctx, `
		UPDATE interviews
		SET meeting_link = $1, calendar_event_id = $2, updated_at = NOW()
		WHERE id = $3`, meetingLink, calendarEventID, id)
}

// MarkBillingCalculated flips the one-shot billing guard. It fails with
// sql.ErrNoRows when billing already ran for the interview.
func (r *InterviewRepository) MarkBillingCalculated(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	var marked uuid.UUID
	return tx.GetContext(ctx, &marked, `
		UPDATE interviews
		SET is_billing_calculated = TRUE, updated_at = NOW()
		WHERE id = $1 AND is_billing_calculated = FALSE
		RETURNING id`, id)
}

func (r *InterviewRepository) ListByInterviewer(ctx context.Context, interviewerID uuid.UUID) ([]entity.Interview, error) {
	query := `
		SELECT * FROM interviews
		WHERE interviewer_id = $1
		ORDER BY scheduled_time DESC`

	var interviews []entity.Interview
	if err := r.DB.SelectContext(ctx, &interviews, query, interviewerID); err != nil {
		return nil, err
	}
	return interviews, nil
}

func (r *InterviewRepository) ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]entity.Interview, error) {
	query := `
		SELECT * FROM interviews
		WHERE candidate_id = $1
		ORDER BY scheduled_time DESC`

	var interviews []entity.Interview
	if err := r.DB.SelectContext(ctx, &interviews, query, candidateID); err != nil {
		return nil, err
	}
	return interviews, nil
}
