package dto

import (
	"time"

	"hiringdesk/modules/billing/entity"
)

// RecordResponse is one monthly billing/payout record on the finance
// dashboard.
type RecordResponse struct {
	PublicID                string  `json:"public_id"`
	BillingMonth            string  `json:"billing_month"`
	RecordType              string  `json:"record_type"`
	Status                  string  `json:"status"`
	AmountDue               float64 `json:"amount_due"`
	TotalReceivedWithoutTax float64 `json:"total_received_without_tax"`
	TotalReceivedWithTax    float64 `json:"total_received_with_tax"`
	DueDate                 string  `json:"due_date"`
	InvoiceNumber           *string `json:"invoice_number,omitempty"`
}

func ToRecordResponse(record *entity.BillingRecord) *RecordResponse {
	return &RecordResponse{
		PublicID:                record.PublicID.String(),
		BillingMonth:            record.BillingMonth.Format("2006-01"),
		RecordType:              string(record.RecordType),
		Status:                  string(record.Status),
		AmountDue:               record.AmountDue,
		TotalReceivedWithoutTax: record.TotalReceivedWithoutTax,
		TotalReceivedWithTax:    record.TotalReceivedWithTax,
		DueDate:                 record.DueDate.Format(time.DateOnly),
		InvoiceNumber:           record.InvoiceNumber,
	}
}

func ToRecordResponses(records []entity.BillingRecord) []RecordResponse {
	result := make([]RecordResponse, 0, len(records))
	for i := range records {
		result = append(result, *ToRecordResponse(&records[i]))
	}
	return result
}
