package dto

import (
	"time"

	"hiringdesk/modules/payment/entity"
)

// CreateLinkRequest asks for a payment link against a monthly record,
// addressed by the record's public id.
type CreateLinkRequest struct {
	RecordPublicID string `json:"record_public_id" validate:"required,uuid"`
}

// LinkResponse is the payment link handed back to the payer.
type LinkResponse struct {
	LinkID    string    `json:"link_id"`
	LinkURL   string    `json:"link_url"`
	Amount    float64   `json:"amount"`
	AmountDue float64   `json:"amount_due"`
	ExpiresAt time.Time `json:"expires_at"`
	Reused    bool      `json:"reused"`
}

// PaymentResponse is one payment attempt against a record.
type PaymentResponse struct {
	LinkID        string     `json:"link_id"`
	Status        string     `json:"status"`
	LinkStatus    *string    `json:"link_status,omitempty"`
	Amount        float64    `json:"amount"`
	AmountWithTax float64    `json:"amount_with_tax"`
	TransactionID *string    `json:"transaction_id,omitempty"`
	PaymentTime   *time.Time `json:"payment_time,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func ToPaymentResponse(p *entity.BillPayment) *PaymentResponse {
	resp := &PaymentResponse{
		LinkID:        p.LinkID,
		Status:        string(p.Status),
		Amount:        p.Amount,
		AmountWithTax: p.AmountWithTax,
		TransactionID: p.TransactionID,
		PaymentTime:   p.PaymentTime,
		CreatedAt:     p.CreatedAt,
	}
	if p.LinkStatus != nil {
		ls := string(*p.LinkStatus)
		resp.LinkStatus = &ls
	}
	return resp
}

func ToPaymentResponses(payments []entity.BillPayment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(payments))
	for i := range payments {
		out = append(out, *ToPaymentResponse(&payments[i]))
	}
	return out
}

// WebhookEvent is the gateway callback body. Only the fields the settlement
// flow reads are modeled; the raw body is what the signature covers.
type WebhookEvent struct {
	Type string `json:"type"`
	Data struct {
		Link struct {
			LinkID         string  `json:"link_id"`
			LinkStatus     string  `json:"link_status"`
			LinkAmountPaid float64 `json:"link_amount_paid"`
		} `json:"link"`
		Order struct {
			Transaction struct {
				TransactionID     int64   `json:"cf_payment_id"`
				TransactionStatus string  `json:"payment_status"`
				TransactionAmount float64 `json:"payment_amount"`
				TransactionTime   string  `json:"payment_time"`
			} `json:"transaction"`
		} `json:"order"`
	} `json:"data"`
	EventTime string `json:"event_time"`
}
