package repository

import (
	"context"
	"database/sql"
	goerrors "errors"

	"hiringdesk/core/database"
	"hiringdesk/modules/feedback/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type FeedbackRepositoryInterface interface {
	GetByInterview(ctx context.Context, interviewID uuid.UUID) (*entity.InterviewFeedback, error)
	GetOrCreateDraft(ctx context.Context, tx *sqlx.Tx, interviewID uuid.UUID) (*entity.InterviewFeedback, error)
	Update(ctx context.Context, tx *sqlx.Tx, feedback *entity.InterviewFeedback) error
	SetPDFKey(ctx context.Context, interviewID uuid.UUID, key string) error
	CreateRating(ctx context.Context, rating *entity.InterviewerRating) (*entity.InterviewerRating, error)
}

type FeedbackRepository struct {
	DB database.IDatabase
}

func NewFeedbackRepository(db database.IDatabase) FeedbackRepositoryInterface {
	return &FeedbackRepository{DB: db}
}

func (r *FeedbackRepository) GetByInterview(ctx context.Context, interviewID uuid.UUID) (*entity.InterviewFeedback, error) {
	query := `SELECT * FROM interview_feedbacks WHERE interview_id = $1`

	var feedback entity.InterviewFeedback
	err := r.DB.GetContext(ctx, &feedback, query, interviewID)
	if err != nil {
		if goerrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &feedback, nil
}

// GetOrCreateDraft returns the interview's feedback row, creating an empty
// draft when the automated summary never arrived. The row is locked either
// way.
func (r *FeedbackRepository) GetOrCreateDraft(ctx context.Context, tx *sqlx.Tx, interviewID uuid.UUID) (*entity.InterviewFeedback, error) {
	var inserted entity.InterviewFeedback
	err := tx.GetContext(ctx, &inserted, `
		INSERT INTO interview_feedbacks (interview_id)
		VALUES ($1)
		ON CONFLICT (interview_id) DO NOTHING
		RETURNING *`, interviewID)
	if err == nil {
		return &inserted, nil
	}
	if !goerrors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	var existing entity.InterviewFeedback
	err = tx.GetContext(ctx, &existing, `
		SELECT * FROM interview_feedbacks
		WHERE interview_id = $1
		FOR UPDATE`, interviewID)
	if err != nil {
		return nil, err
	}
	return &existing, nil
}

func (r *FeedbackRepository) Update(ctx context.Context, tx *sqlx.Tx, feedback *entity.InterviewFeedback) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE interview_feedbacks
		SET skill_evaluation = $1, strength = $2, improvement_points = $3,
		    overall_remark = $4, overall_score = $5, recording_link = $6,
		    submitted_at = $7, updated_at = NOW()
		WHERE id = $8`,
		feedback.SkillEvaluation, feedback.Strength, feedback.ImprovementPoints,
		feedback.OverallRemark, feedback.OverallScore, feedback.RecordingLink,
		feedback.SubmittedAt, feedback.ID)
	return err
}

func (r *FeedbackRepository) SetPDFKey(ctx context.Context, interviewID uuid.UUID, key string) error {
	return r.DB.ExecContext(ctx, `
		UPDATE interview_feedbacks
		SET pdf_key = $1, updated_at = NOW()
		WHERE interview_id = $2`, key, interviewID)
}

func (r *FeedbackRepository) CreateRating(ctx context.Context, rating *entity.InterviewerRating) (*entity.InterviewerRating, error) {
	query := `
		INSERT INTO interviewer_ratings (interview_id, rating, comment)
		VALUES ($1, $2, $3)
		ON CONFLICT (interview_id) DO UPDATE SET rating = $2, comment = $3, updated_at = NOW()
		RETURNING *`

	var created entity.InterviewerRating
	err := r.DB.GetContext(ctx, &created, query, rating.InterviewID, rating.Rating, rating.Comment)
	if err != nil {
		return nil, err
	}
	return &created, nil
}
