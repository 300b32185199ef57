package entity

import (
	"time"

	"hiringdesk/core/entity"

	"github.com/google/uuid"
)

// Status is the transaction state reported by the gateway, normalized to
// our short codes.
type Status string

const (
	StatusSuccess     Status = "SUC"
	StatusFailed      Status = "FLD"
	StatusUserDropped Status = "UDP"
	StatusCancelled   Status = "CNL"
	StatusVoid        Status = "VOD"
	StatusPending     Status = "PED"
	StatusInactive    Status = "INA"
)

// LinkStatus is the payment link state, normalized to our short codes.
type LinkStatus string

const (
	LinkStatusPaid          LinkStatus = "PAID"
	LinkStatusPartiallyPaid LinkStatus = "PRT"
	LinkStatusExpired       LinkStatus = "EXP"
	LinkStatusCancelled     LinkStatus = "CNL"
)

// BillPayment is one payment link issued against a monthly billing record.
// A record accumulates a new row each time a link is created; at most one
// row should be pending at a time.
type BillPayment struct {
	BillingRecordID uuid.UUID   `db:"billing_record_id" json:"billing_record_id"`
	LinkID          string      `db:"link_id" json:"link_id"`
	LinkURL         string      `db:"link_url" json:"link_url"`
	Amount          float64     `db:"amount" json:"amount"`
	AmountWithTax   float64     `db:"amount_with_tax" json:"amount_with_tax"`
	Status          Status      `db:"status" json:"status"`
	LinkStatus      *LinkStatus `db:"link_status" json:"link_status,omitempty"`
	TransactionID   *string     `db:"transaction_id" json:"transaction_id,omitempty"`
	PaymentTime     *time.Time  `db:"payment_time" json:"payment_time,omitempty"`
	ExpiresAt       time.Time   `db:"expires_at" json:"expires_at"`
	entity.BaseEntity
}

// Expired reports whether the link can no longer collect a payment.
func (p *BillPayment) Expired(now time.Time) bool {
	return !p.ExpiresAt.After(now)
}
