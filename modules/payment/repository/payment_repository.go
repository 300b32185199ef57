package repository

import (
	"context"
	"database/sql"
	goerrors "errors"

	"hiringdesk/core/database"
	"hiringdesk/modules/payment/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type PaymentRepositoryInterface interface {
	Create(ctx context.Context, payment *entity.BillPayment) (*entity.BillPayment, error)
	GetByLinkID(ctx context.Context, linkID string) (*entity.BillPayment, error)
	GetByLinkIDForUpdate(ctx context.Context, tx *sqlx.Tx, linkID string) (*entity.BillPayment, error)
	LatestPendingByRecord(ctx context.Context, recordID uuid.UUID) (*entity.BillPayment, error)
	MarkInactive(ctx context.Context, id uuid.UUID) error
	ApplyWebhook(ctx context.Context, tx *sqlx.Tx, payment *entity.BillPayment) error
	ListByRecord(ctx context.Context, recordID uuid.UUID) ([]entity.BillPayment, error)
}

type PaymentRepository struct {
	DB database.IDatabase
}

func NewPaymentRepository(db database.IDatabase) PaymentRepositoryInterface {
	return &PaymentRepository{DB: db}
}

func (r *PaymentRepository) Create(ctx context.Context, payment *entity.BillPayment) (*entity.BillPayment, error) {
	var created entity.BillPayment
	err := r.DB.GetContext(ctx, &created, `
		INSERT INTO bill_payments (
			billing_record_id, link_id, link_url,
			amount, amount_with_tax, status, expires_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING *`,
		payment.BillingRecordID, payment.LinkID, payment.LinkURL,
		payment.Amount, payment.AmountWithTax, payment.Status, payment.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *PaymentRepository) GetByLinkID(ctx context.Context, linkID string) (*entity.BillPayment, error) {
	var payment entity.BillPayment
	err := r.DB.GetContext(ctx, &payment, `
		SELECT * FROM bill_payments WHERE link_id = $1`, linkID)
	if goerrors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepository) GetByLinkIDForUpdate(ctx context.Context, tx *sqlx.Tx, linkID string) (*entity.BillPayment, error) {
	var payment entity.BillPayment
	err := tx.GetContext(ctx, &payment, `
		SELECT * FROM bill_payments WHERE link_id = $1 FOR UPDATE`, linkID)
	if goerrors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// LatestPendingByRecord returns the newest still-pending link for a record,
// or nil when none is open.
func (r *PaymentRepository) LatestPendingByRecord(ctx context.Context, recordID uuid.UUID) (*entity.BillPayment, error) {
	var payment entity.BillPayment
	err := r.DB.GetContext(ctx, &payment, `
		SELECT * FROM bill_payments
		WHERE billing_record_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT 1`, recordID, entity.StatusPending)
	if goerrors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// MarkInactive retires a pending link that can no longer be used, typically
// because the amount due changed after it was issued.
func (r *PaymentRepository) MarkInactive(ctx context.Context, id uuid.UUID) error {
	return r.DB.ExecContext(ctx, `
		UPDATE bill_payments
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3`,
		entity.StatusInactive, id, entity.StatusPending)
}

func (r *PaymentRepository) ApplyWebhook(ctx context.Context, tx *sqlx.Tx, payment *entity.BillPayment) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE bill_payments
		SET status = $1, link_status = $2, transaction_id = $3,
		    payment_time = $4, updated_at = NOW()
		WHERE id = $5`,
		payment.Status, payment.LinkStatus, payment.TransactionID,
		payment.PaymentTime, payment.ID)
	return err
}

func (r *PaymentRepository) ListByRecord(ctx context.Context, recordID uuid.UUID) ([]entity.BillPayment, error) {
	payments := []entity.BillPayment{}
	err := r.DB.SelectContext(ctx, &payments, `
		SELECT * FROM bill_payments
		WHERE billing_record_id = $1
		ORDER BY created_at DESC`, recordID)
	if err != nil {
		return nil, err
	}
	return payments, nil
}
