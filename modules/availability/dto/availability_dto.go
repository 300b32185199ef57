package dto

import (
	"time"

	"hiringdesk/modules/availability/entity"
)

// ===================== Request DTOs =====================

// CreateSlotRequest for publishing a new availability window
type CreateSlotRequest struct {
	Date      string `json:"date" validate:"required"`       // YYYY-MM-DD
	StartTime string `json:"start_time" validate:"required"` // RFC3339
	EndTime   string `json:"end_time" validate:"required"`   // RFC3339
	Notes     string `json:"notes"`
}

// ===================== Response DTOs =====================

// SlotResponse for a single availability window
type SlotResponse struct {
	ID              string    `json:"id"`
	InterviewerID   string    `json:"interviewer_id"`
	Date            string    `json:"date"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	IsScheduled     bool      `json:"is_scheduled"`
	BookedBy        *string   `json:"booked_by,omitempty"`
	CalendarEventID *string   `json:"calendar_event_id,omitempty"`
	Notes           *string   `json:"notes,omitempty"`
}

func ToSlotResponse(slot *entity.AvailabilitySlot) *SlotResponse {
	resp := &SlotResponse{
		ID:              slot.ID.String(),
		InterviewerID:   slot.InterviewerID.String(),
		Date:            slot.Date.Format("2006-01-02"),
		StartTime:       slot.StartTime,
		EndTime:         slot.EndTime,
		IsScheduled:     slot.IsScheduled,
		CalendarEventID: slot.CalendarEventID,
		Notes:           slot.Notes,
	}
	if slot.BookedBy != nil {
		bookedBy := slot.BookedBy.String()
		resp.BookedBy = &bookedBy
	}
	return resp
}

func ToSlotResponses(slots []entity.AvailabilitySlot) []SlotResponse {
	result := make([]SlotResponse, 0, len(slots))
	for i := range slots {
		result = append(result, *ToSlotResponse(&slots[i]))
	}
	return result
}
