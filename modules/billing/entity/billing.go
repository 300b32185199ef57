package entity

import (
	"time"

	"hiringdesk/core/entity"

	"github.com/google/uuid"
)

// Reason classifies why a billing log row exists.
type Reason string

const (
	ReasonFeedbackSubmitted Reason = "feedback_submitted"
	ReasonLateRescheduled   Reason = "late_rescheduled"
	// ReasonFreeFeedback marks a feedback row fully covered by the client's
	// free-interview credits.
	ReasonFreeFeedback Reason = "free_feedback"
)

// LogStatus is the payment state of one billing log side.
type LogStatus string

const (
	LogStatusPending LogStatus = "PED"
	LogStatusPaid    LogStatus = "PAI"
)

// RecordType separates client invoices from interviewer payouts.
type RecordType string

const (
	RecordTypeClientBilling      RecordType = "CLB"
	RecordTypeInterviewerPayment RecordType = "INP"
)

// RecordStatus is the lifecycle state of a monthly billing record.
type RecordStatus string

const (
	RecordStatusPending         RecordStatus = "PED"
	RecordStatusPaid            RecordStatus = "PAI"
	RecordStatusOverdue         RecordStatus = "OVD"
	RecordStatusCancelled       RecordStatus = "CAN"
	RecordStatusFailed          RecordStatus = "FLD"
	RecordStatusInProgress      RecordStatus = "INP"
	RecordStatusMidMonthPayment RecordStatus = "MMP"
	RecordStatusPostInvoice     RecordStatus = "PIP"
	RecordStatusLatePayment     RecordStatus = "LTD"
)

// BillingLog is one billable event tied to a single interview. Both sides of
// the money movement live on the same row; the unique (interview, reason)
// pair makes re-billing a no-op.
type BillingLog struct {
	InterviewID          uuid.UUID `db:"interview_id" json:"interview_id"`
	ClientID             uuid.UUID `db:"client_id" json:"client_id"`
	InterviewerID        uuid.UUID `db:"interviewer_id" json:"interviewer_id"`
	AmountForClient      float64   `db:"amount_for_client" json:"amount_for_client"`
	AmountForInterviewer float64   `db:"amount_for_interviewer" json:"amount_for_interviewer"`
	Reason               Reason    `db:"reason" json:"reason"`
	BillingMonth         time.Time `db:"billing_month" json:"billing_month"`
	IsBillingCalculated  bool      `db:"is_billing_calculated" json:"is_billing_calculated"`
	// Status tracks the client side; InterviewerPaymentStatus the payout side.
	Status                   LogStatus `db:"status" json:"status"`
	InterviewerPaymentStatus LogStatus `db:"interviewer_payment_status" json:"interviewer_payment_status"`
	LateFeedbackDeduction    float64   `db:"late_feedback_deduction" json:"late_feedback_deduction"`
	IsFeedbackSubmittedLate  bool      `db:"is_feedback_submitted_late" json:"is_feedback_submitted_late"`
	entity.BaseEntity
}

// BillingRecord aggregates one party's billable activity for one calendar
// month. BillingMonth always holds the first day of the month; exactly one
// row exists per (party, month).
type BillingRecord struct {
	PublicID                uuid.UUID    `db:"public_id" json:"public_id"`
	BillingMonth            time.Time    `db:"billing_month" json:"billing_month"`
	RecordType              RecordType   `db:"record_type" json:"record_type"`
	Status                  RecordStatus `db:"status" json:"status"`
	AmountDue               float64      `db:"amount_due" json:"amount_due"`
	TotalReceivedWithoutTax float64      `db:"total_received_without_tax" json:"total_received_without_tax"`
	TotalReceivedWithTax    float64      `db:"total_received_with_tax" json:"total_received_with_tax"`
	DueDate                 time.Time    `db:"due_date" json:"due_date"`
	InvoiceNumber           *string      `db:"invoice_number" json:"invoice_number,omitempty"`
	ClientID                *uuid.UUID   `db:"client_id" json:"client_id,omitempty"`
	InterviewerID           *uuid.UUID   `db:"interviewer_id" json:"interviewer_id,omitempty"`
	entity.BaseEntity
}

// InterviewerPricing is the payout rate for one candidate experience level.
type InterviewerPricing struct {
	ExperienceLevel string  `db:"experience_level" json:"experience_level"`
	Price           float64 `db:"price" json:"price"`
	entity.BaseEntity
}

// Agreement is the negotiated client rate for one candidate experience level.
type Agreement struct {
	ClientID        uuid.UUID `db:"client_id" json:"client_id"`
	ExperienceLevel string    `db:"experience_level" json:"experience_level"`
	Rate            float64   `db:"rate" json:"rate"`
	entity.BaseEntity
}

// InternalClient carries the billing profile of a client organization.
type InternalClient struct {
	OrganizationID uuid.UUID `db:"organization_id" json:"organization_id"`
	Name           string    `db:"name" json:"name"`
	BillingEmail   string    `db:"billing_email" json:"billing_email"`
	// AssignedToID is the internal account owner looped into booking
	// notifications for this client.
	AssignedToID *uuid.UUID `db:"assigned_to_id" json:"assigned_to_id,omitempty"`
	// FreeInterviews is the remaining allocation of interviews billed at zero
	// to the client. Decremented once per feedback billing until exhausted.
	FreeInterviews int `db:"free_interviews" json:"free_interviews"`
	entity.BaseEntity
}
