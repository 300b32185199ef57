package constants

import "time"

// Context keys
const (
	ContextTokenData = "token_data"
)

// Database tuning
const (
	DatabaseSSLMode         = "disable"
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 10
	DatabaseConnMaxLifetime = 30 // minutes
)

const DefaultTimeout = 15 * time.Second

// Scheduling durations. The interview length, the mandatory buffer around a
// booked interview and the respond-token lifetime are structural, not tunable.
const (
	InterviewDuration   = time.Hour
	SlotBuffer          = time.Hour
	MinResidualSlot     = time.Hour
	RespondTokenTTL     = time.Hour
	LateCancelWindow    = 3 * time.Hour
	FeedbackGracePeriod = time.Hour
)

// Late-feedback courtesy window: interviews ending after EveningCutoff have
// their feedback clock pushed to NextDayStartHour the following morning.
const (
	EveningCutoffHour   = 20
	EveningCutoffMinute = 30
	NextDayStartHour    = 9
)

// Billing
const (
	DueDateDaysAfterMonthEnd = 10
)

// Payments
const (
	PaymentLinkTTL        = 7 * 24 * time.Hour
	WebhookReplayGuardTTL = 48 * time.Hour
)
