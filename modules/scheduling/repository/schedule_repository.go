package repository

import (
	"context"
	"database/sql"
	goerrors "errors"

	"hiringdesk/core/database"
	"hiringdesk/modules/scheduling/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type ScheduleRepositoryInterface interface {
	Create(ctx context.Context, tx *sqlx.Tx, attempt *entity.ScheduleAttempt) (*entity.ScheduleAttempt, error)
	LatestByCandidate(ctx context.Context, tx *sqlx.Tx, candidateID uuid.UUID) (*entity.ScheduleAttempt, error)
}

type ScheduleRepository struct {
	DB database.IDatabase
}

func NewScheduleRepository(db database.IDatabase) ScheduleRepositoryInterface {
	return &ScheduleRepository{DB: db}
}

func (r *ScheduleRepository) Create(ctx context.Context, tx *sqlx.Tx, attempt *entity.ScheduleAttempt) (*entity.ScheduleAttempt, error) {
	query := `
		INSERT INTO schedule_attempts (candidate_id, booked_by, schedule_time, previous_interview_id, notified_slots)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *`

	var created entity.ScheduleAttempt
	err := tx.GetContext(ctx, &created, query,
		attempt.CandidateID, attempt.BookedBy, attempt.ScheduleTime,
		attempt.PreviousInterviewID, attempt.NotifiedSlots)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// LatestByCandidate reads through the caller's transaction; attempts are
// only written under the candidate row lock, so the latest row is stable for
// the duration of the tx.
func (r *ScheduleRepository) LatestByCandidate(ctx context.Context, tx *sqlx.Tx, candidateID uuid.UUID) (*entity.ScheduleAttempt, error) {
	query := `
		SELECT * FROM schedule_attempts
		WHERE candidate_id = $1
		ORDER BY created_at DESC
		LIMIT 1`

	var attempt entity.ScheduleAttempt
	err := tx.GetContext(ctx, &attempt, query, candidateID)
	if err != nil {
		if goerrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &attempt, nil
}
