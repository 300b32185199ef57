package repository

import (
	"context"
	"database/sql"
	goerrors "errors"
	"time"

	"hiringdesk/core/database"
	"hiringdesk/modules/billing/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type BillingRepositoryInterface interface {
	GetOrCreateLog(ctx context.Context, tx *sqlx.Tx, log *entity.BillingLog) (*entity.BillingLog, bool, error)
	UpdateLog(ctx context.Context, tx *sqlx.Tx, log *entity.BillingLog) error
	MarkClientLogsPaid(ctx context.Context, tx *sqlx.Tx, clientID uuid.UUID, billingMonth time.Time) error
	ListLogsByClientMonth(ctx context.Context, clientID uuid.UUID, billingMonth time.Time) ([]entity.BillingLog, error)

	GetOrCreateRecord(ctx context.Context, tx *sqlx.Tx, record *entity.BillingRecord) (*entity.BillingRecord, bool, error)
	AddToRecordAmountDue(ctx context.Context, tx *sqlx.Tx, recordID uuid.UUID, delta float64) error
	GetRecordByPublicIDForUpdate(ctx context.Context, tx *sqlx.Tx, publicID uuid.UUID) (*entity.BillingRecord, error)
	GetRecordByPublicID(ctx context.Context, publicID uuid.UUID) (*entity.BillingRecord, error)
	GetRecordForUpdate(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*entity.BillingRecord, error)
	ApplyRecordPayment(ctx context.Context, tx *sqlx.Tx, recordID uuid.UUID, status entity.RecordStatus, amountWithoutTax, amountWithTax float64) error
	ListRecordsByClient(ctx context.Context, clientID uuid.UUID) ([]entity.BillingRecord, error)
	ListRecordsByInterviewer(ctx context.Context, interviewerID uuid.UUID) ([]entity.BillingRecord, error)

	GetPricing(ctx context.Context, experienceLevel string) (*entity.InterviewerPricing, error)
	GetAgreement(ctx context.Context, clientID uuid.UUID, experienceLevel string) (*entity.Agreement, error)
	GetClientByOrganization(ctx context.Context, organizationID uuid.UUID) (*entity.InternalClient, error)
	GetClientByID(ctx context.Context, id uuid.UUID) (*entity.InternalClient, error)
	GetClientForUpdate(ctx context.Context, tx *sqlx.Tx, clientID uuid.UUID) (*entity.InternalClient, error)
	ConsumeFreeInterview(ctx context.Context, tx *sqlx.Tx, clientID uuid.UUID) error
}

type BillingRepository struct {
	DB database.IDatabase
}

func NewBillingRepository(db database.IDatabase) BillingRepositoryInterface {
	return &BillingRepository{DB: db}
}

// GetOrCreateLog inserts the log unless one already exists for the same
// (interview, reason) pair. The returned row is locked either way; the bool
// reports whether this call created it.
func (r *BillingRepository) GetOrCreateLog(ctx context.Context, tx *sqlx.Tx, log *entity.BillingLog) (*entity.BillingLog, bool, error) {
	var inserted entity.BillingLog
	err := tx.GetContext(ctx, &inserted, `
		INSERT INTO billing_logs (
			interview_id, client_id, interviewer_id,
			amount_for_client, amount_for_interviewer,
			reason, billing_month, status, interviewer_payment_status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (interview_id, reason) DO NOTHING
		RETURNING *`,
		log.InterviewID, log.ClientID, log.InterviewerID,
		log.AmountForClient, log.AmountForInterviewer,
		log.Reason, log.BillingMonth, entity.LogStatusPending, entity.LogStatusPending)
	if err == nil {
		return &inserted, true, nil
	}
	if !goerrors.Is(err, sql.ErrNoRows) {
		return nil, false, err
	}

	var existing entity.BillingLog
	err = tx.GetContext(ctx, &existing, `
		SELECT * FROM billing_logs
		WHERE interview_id = $1 AND reason = $2
		FOR UPDATE`, log.InterviewID, log.Reason)
	if err != nil {
		return nil, false, err
	}
	return &existing, false, nil
}

func (r *BillingRepository) UpdateLog(ctx context.Context, tx *sqlx.Tx, log *entity.BillingLog) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE billing_logs
		SET amount_for_client = $1, amount_for_interviewer = $2, reason = $3,
		    status = $4, interviewer_payment_status = $5,
		    late_feedback_deduction = $6, is_feedback_submitted_late = $7,
		    is_billing_calculated = $8, updated_at = NOW()
		WHERE id = $9`,
		log.AmountForClient, log.AmountForInterviewer, log.Reason,
		log.Status, log.InterviewerPaymentStatus,
		log.LateFeedbackDeduction, log.IsFeedbackSubmittedLate,
		log.IsBillingCalculated, log.ID)
	return err
}

// MarkClientLogsPaid settles every pending client-side log in the month.
func (r *BillingRepository) MarkClientLogsPaid(ctx context.Context, tx *sqlx.Tx, clientID uuid.UUID, billingMonth time.Time) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE billing_logs
		SET status = $1, updated_at = NOW()
		WHERE client_id = $2 AND billing_month = $3 AND status = $4`,
		entity.LogStatusPaid, clientID, billingMonth, entity.LogStatusPending)
	return err
}

func (r *BillingRepository) ListLogsByClientMonth(ctx context.Context, clientID uuid.UUID, billingMonth time.Time) ([]entity.BillingLog, error) {
	var logs []entity.BillingLog
	err := r.DB.SelectContext(ctx, &logs, `
		SELECT * FROM billing_logs
		WHERE client_id = $1 AND billing_month = $2
		ORDER BY created_at ASC`, clientID, billingMonth)
	if err != nil {
		return nil, err
	}
	return logs, nil
}

// GetOrCreateRecord finds or creates the single record for (party, month)
// and locks it for the rest of the transaction.
func (r *BillingRepository) GetOrCreateRecord(ctx context.Context, tx *sqlx.Tx, record *entity.BillingRecord) (*entity.BillingRecord, bool, error) {
	var conflictTarget string
	var partyID uuid.UUID
	switch record.RecordType {
	case entity.RecordTypeClientBilling:
		conflictTarget = "(client_id, billing_month)"
		partyID = *record.ClientID
	case entity.RecordTypeInterviewerPayment:
		conflictTarget = "(interviewer_id, billing_month)"
		partyID = *record.InterviewerID
	}

	var inserted entity.BillingRecord
	err := tx.GetContext(ctx, &inserted, `
		INSERT INTO billing_records (
			public_id, billing_month, record_type, status,
			amount_due, due_date, client_id, interviewer_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT `+conflictTarget+` DO NOTHING
		RETURNING *`,
		uuid.New(), record.BillingMonth, record.RecordType, entity.RecordStatusPending,
		record.AmountDue, record.DueDate, record.ClientID, record.InterviewerID)
	if err == nil {
		return &inserted, true, nil
	}
	if !goerrors.Is(err, sql.ErrNoRows) {
		return nil, false, err
	}

	partyColumn := "client_id"
	if record.RecordType == entity.RecordTypeInterviewerPayment {
		partyColumn = "interviewer_id"
	}

	var existing entity.BillingRecord
	err = tx.GetContext(ctx, &existing, `
		SELECT * FROM billing_records
		WHERE `+partyColumn+` = $1 AND billing_month = $2
		FOR UPDATE`, partyID, record.BillingMonth)
	if err != nil {
		return nil, false, err
	}
	return &existing, false, nil
}

func (r *BillingRepository) AddToRecordAmountDue(ctx context.Context, tx *sqlx.Tx, recordID uuid.UUID, delta float64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE billing_records
		SET amount_due = amount_due + $1, updated_at = NOW()
		WHERE id = $2`, delta, recordID)
	return err
}

func (r *BillingRepository) GetRecordByPublicIDForUpdate(ctx context.Context, tx *sqlx.Tx, publicID uuid.UUID) (*entity.BillingRecord, error) {
	var record entity.BillingRecord
	err := tx.GetContext(ctx, &record, `
		SELECT * FROM billing_records
		WHERE public_id = $1
		FOR UPDATE`, publicID)
	if err != nil {
		if goerrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *BillingRepository) GetRecordForUpdate(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*entity.BillingRecord, error) {
	var record entity.BillingRecord
	err := tx.GetContext(ctx, &record, `
		SELECT * FROM billing_records
		WHERE id = $1
		FOR UPDATE`, id)
	if err != nil {
		if goerrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *BillingRepository) GetRecordByPublicID(ctx context.Context, publicID uuid.UUID) (*entity.BillingRecord, error) {
	var record entity.BillingRecord
	err := r.DB.GetContext(ctx, &record, `
		SELECT * FROM billing_records WHERE public_id = $1`, publicID)
	if err != nil {
		if goerrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// ApplyRecordPayment settles a record: the received totals accumulate, the
// amount due resets and the status reflects how the month closed.
func (r *BillingRepository) ApplyRecordPayment(ctx context.Context, tx *sqlx.Tx, recordID uuid.UUID, status entity.RecordStatus, amountWithoutTax, amountWithTax float64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE billing_records
		SET status = $1,
		    total_received_without_tax = total_received_without_tax + $2,
		    total_received_with_tax = total_received_with_tax + $3,
		    amount_due = 0,
		    updated_at = NOW()
		WHERE id = $4`, status, amountWithoutTax, amountWithTax, recordID)
	return err
}

func (r *BillingRepository) ListRecordsByClient(ctx context.Context, clientID uuid.UUID) ([]entity.BillingRecord, error) {
	var records []entity.BillingRecord
	err := r.DB.SelectContext(ctx, &records, `
		SELECT * FROM billing_records
		WHERE client_id = $1
		ORDER BY billing_month DESC`, clientID)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *BillingRepository) ListRecordsByInterviewer(ctx context.Context, interviewerID uuid.UUID) ([]entity.BillingRecord, error) {
	var records []entity.BillingRecord
	err := r.DB.SelectContext(ctx, &records, `
		SELECT * FROM billing_records
		WHERE interviewer_id = $1
		ORDER BY billing_month DESC`, interviewerID)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *BillingRepository) GetPricing(ctx context.Context, experienceLevel string) (*entity.InterviewerPricing, error) {
	var pricing entity.InterviewerPricing
	err := r.DB.GetContext(ctx, &pricing, `
		SELECT * FROM interviewer_pricing WHERE experience_level = $1`, experienceLevel)
	if err != nil {
		if goerrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &pricing, nil
}

func (r *BillingRepository) GetAgreement(ctx context.Context, clientID uuid.UUID, experienceLevel string) (*entity.Agreement, error) {
	var agreement entity.Agreement
	err := r.DB.GetContext(ctx, &agreement, `
		SELECT * FROM agreements
		WHERE client_id = $1 AND experience_level = $2`, clientID, experienceLevel)
	if err != nil {
		if goerrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &agreement, nil
}

func (r *BillingRepository) GetClientByID(ctx context.Context, id uuid.UUID) (*entity.InternalClient, error) {
	var client entity.InternalClient
	err := r.DB.GetContext(ctx, &client, `
		SELECT * FROM internal_clients WHERE id = $1`, id)
	if err != nil {
		if goerrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &client, nil
}

func (r *BillingRepository) GetClientByOrganization(ctx context.Context, organizationID uuid.UUID) (*entity.InternalClient, error) {
	var client entity.InternalClient
	err := r.DB.GetContext(ctx, &client, `
		SELECT * FROM internal_clients WHERE organization_id = $1`, organizationID)
	if err != nil {
		if goerrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &client, nil
}

func (r *BillingRepository) GetClientForUpdate(ctx context.Context, tx *sqlx.Tx, clientID uuid.UUID) (*entity.InternalClient, error) {
	var client entity.InternalClient
	err := tx.GetContext(ctx, &client, `
		SELECT * FROM internal_clients WHERE id = $1 FOR UPDATE`, clientID)
	if err != nil {
		if goerrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &client, nil
}

// ConsumeFreeInterview burns one free-interview credit if any remain.
func (r *BillingRepository) ConsumeFreeInterview(ctx context.Context, tx *sqlx.Tx, clientID uuid.UUID) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE internal_clients
		SET free_interviews = free_interviews - 1, updated_at = NOW()
		WHERE id = $1 AND free_interviews > 0`, clientID)
	return err
}
