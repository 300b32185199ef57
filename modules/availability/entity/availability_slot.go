package entity

import (
	"time"

	"hiringdesk/core/entity"

	"github.com/google/uuid"
)

// AvailabilitySlot is a contiguous open time window owned by one interviewer.
// Claiming shrinks the row to the booked window; the remainder is re-created
// as independent rows (see SplitAround).
type AvailabilitySlot struct {
	InterviewerID   uuid.UUID  `db:"interviewer_id" json:"interviewer_id"`
	Date            time.Time  `db:"date" json:"date"`
	StartTime       time.Time  `db:"start_time" json:"start_time"`
	EndTime         time.Time  `db:"end_time" json:"end_time"`
	BookedBy        *uuid.UUID `db:"booked_by" json:"booked_by,omitempty"`
	IsScheduled     bool       `db:"is_scheduled" json:"is_scheduled"`
	CalendarEventID *string    `db:"calendar_event_id" json:"calendar_event_id,omitempty"`
	Notes           *string    `db:"notes" json:"notes,omitempty"`
	ArchivedAt      *time.Time `db:"archived_at" json:"archived_at,omitempty"`
	entity.BaseEntity
}

// Window is a half-open [Start, End) time range.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Overlaps reports whether two half-open windows intersect.
func (w Window) Overlaps(other Window) bool {
	return w.Start.Before(other.End) && other.Start.Before(w.End)
}

// SplitAround computes the residual open windows left over when `window` is
// booked out of a slot spanning [slotStart, slotEnd), keeping a mandatory
// buffer on both sides of the booking. Residuals shorter than minResidual are
// dropped rather than created.
func SplitAround(slotStart, slotEnd time.Time, window Window, buffer, minResidual time.Duration) (before, after *Window) {
	beforeEnd := window.Start.Add(-buffer)
	if beforeEnd.Sub(slotStart) >= minResidual {
		before = &Window{Start: slotStart, End: beforeEnd}
	}

	afterStart := window.End.Add(buffer)
	if slotEnd.Sub(afterStart) >= minResidual {
		after = &Window{Start: afterStart, End: slotEnd}
	}
	return before, after
}
