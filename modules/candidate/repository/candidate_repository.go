package repository

import (
	"context"
	"database/sql"

	"hiringdesk/core/database"
	"hiringdesk/core/logger"
	"hiringdesk/modules/candidate/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type CandidateRepository struct {
	DB database.IDatabase
}

func NewCandidateRepository(db database.IDatabase) *CandidateRepository {
	return &CandidateRepository{DB: db}
}

type CandidateRepositoryInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Candidate, error)
	GetForUpdate(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*entity.Candidate, error)
	Update(ctx context.Context, tx *sqlx.Tx, candidate *entity.Candidate) error
	NextRoundAfter(ctx context.Context, jobID uuid.UUID, sequenceNumber int) (*entity.JobRound, error)
	GetRoundByID(ctx context.Context, id uuid.UUID) (*entity.JobRound, error)
	GetJobByID(ctx context.Context, id uuid.UUID) (*entity.Job, error)
}

const candidateColumns = `
	id, organization_id, name, email, phone, job_id, experience_years, experience_months,
	status, final_selection_status, next_round_id, last_completed_round_id,
	last_scheduled_initiate_time, scheduled_time, score, total_score, added_by_id,
	archived_at, created_at, updated_at`

func (r *CandidateRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Candidate, error) {
	query := `SELECT` + candidateColumns + ` FROM candidates WHERE id = $1 AND archived_at IS NULL`

	var c entity.Candidate
	err := r.DB.GetContext(ctx, &c, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("CandidateRepository:GetByID", err)
		return nil, err
	}
	return &c, nil
}

// GetForUpdate locks the candidate row for the remainder of tx. It is the
// last lock taken on the accept path (slot -> interviews -> candidate).
func (r *CandidateRepository) GetForUpdate(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*entity.Candidate, error) {
	query := `SELECT` + candidateColumns + ` FROM candidates WHERE id = $1 AND archived_at IS NULL FOR UPDATE`

	var c entity.Candidate
	err := tx.GetContext(ctx, &c, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("CandidateRepository:GetForUpdate", err)
		return nil, err
	}
	return &c, nil
}

func (r *CandidateRepository) Update(ctx context.Context, tx *sqlx.Tx, candidate *entity.Candidate) error {
	query := `
		UPDATE candidates
		SET status = $2, next_round_id = $3, last_completed_round_id = $4,
		    last_scheduled_initiate_time = $5, scheduled_time = $6,
		    score = $7, total_score = $8, final_selection_status = $9, updated_at = NOW()
		WHERE id = $1
	`
	_, err := tx.ExecContext(ctx, query,
		candidate.ID, candidate.Status, candidate.NextRoundID, candidate.LastCompletedRoundID,
		candidate.LastScheduledInitiateTime, candidate.ScheduledTime,
		candidate.Score, candidate.TotalScore, candidate.FinalSelectionStatus)
	if err != nil {
		logger.Error("CandidateRepository:Update", err)
		return err
	}
	return nil
}

// NextRoundAfter returns the next round in the job's sequence, or nil when
// the candidate has cleared the final round.
func (r *CandidateRepository) NextRoundAfter(ctx context.Context, jobID uuid.UUID, sequenceNumber int) (*entity.JobRound, error) {
	query := `
		SELECT id, job_id, name, duration_minutes, sequence_number, created_at, updated_at
		FROM job_rounds
		WHERE job_id = $1 AND sequence_number > $2
		ORDER BY sequence_number ASC
		LIMIT 1
	`
	var round entity.JobRound
	err := r.DB.GetContext(ctx, &round, query, jobID, sequenceNumber)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("CandidateRepository:NextRoundAfter", err)
		return nil, err
	}
	return &round, nil
}

func (r *CandidateRepository) GetRoundByID(ctx context.Context, id uuid.UUID) (*entity.JobRound, error) {
	query := `
		SELECT id, job_id, name, duration_minutes, sequence_number, created_at, updated_at
		FROM job_rounds WHERE id = $1
	`
	var round entity.JobRound
	err := r.DB.GetContext(ctx, &round, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("CandidateRepository:GetRoundByID", err)
		return nil, err
	}
	return &round, nil
}

func (r *CandidateRepository) GetJobByID(ctx context.Context, id uuid.UUID) (*entity.Job, error) {
	query := `SELECT id, organization_id, name, hiring_manager_id, created_at, updated_at FROM jobs WHERE id = $1`

	var job entity.Job
	err := r.DB.GetContext(ctx, &job, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("CandidateRepository:GetJobByID", err)
		return nil, err
	}
	return &job, nil
}
