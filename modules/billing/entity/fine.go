package entity

import (
	"fmt"
	"time"

	"hiringdesk/core/constants"
)

// ExperienceLevel buckets a candidate's total experience into the level keys
// used by InterviewerPricing and Agreement rows.
func ExperienceLevel(years, months int) string {
	total := float64(years) + float64(months)/12

	switch {
	case total < 4:
		return "0-4"
	case total < 7:
		return "4-7"
	case total < 10:
		return "7-10"
	default:
		return "10+"
	}
}

// MonthStart truncates t to the first day of its calendar month in loc.
func MonthStart(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
}

// DueDate is the payment deadline for activity in t's month: the last day of
// the month plus a fixed settlement period.
func DueDate(t time.Time, loc *time.Location) time.Time {
	monthEnd := MonthStart(t, loc).AddDate(0, 1, -1)
	return monthEnd.AddDate(0, 0, constants.DueDateDaysAfterMonthEnd)
}

// LateFeedbackFine computes the deduction from the interviewer's payout for
// submitting feedback late.
//
// The clock starts one hour after the automated feedback draft was generated.
// When the interview ends after the evening cutoff the draft timestamp is
// pushed to the next morning first, so overnight hours never count.
func LateFeedbackFine(feedbackGeneratedAt, interviewEndTime, submittedAt time.Time, loc *time.Location) float64 {
	generated := feedbackGeneratedAt.In(loc)
	interviewEnd := interviewEndTime.In(loc)
	submitted := submittedAt.In(loc)

	cutoff := time.Date(interviewEnd.Year(), interviewEnd.Month(), interviewEnd.Day(),
		constants.EveningCutoffHour, constants.EveningCutoffMinute, 0, 0, loc)
	if interviewEnd.After(cutoff) {
		nextDay := generated.AddDate(0, 0, 1)
		generated = time.Date(nextDay.Year(), nextDay.Month(), nextDay.Day(),
			constants.NextDayStartHour, 0, 0, 0, loc)
	}

	deadline := generated.Add(constants.FeedbackGracePeriod)
	delay := submitted.Sub(deadline).Hours()

	switch {
	case delay <= 1:
		return 0
	case delay <= 2:
		return 100
	case delay <= 3:
		return 300
	case delay <= 5:
		return 500
	case delay <= 8:
		return 700
	default:
		return 1000
	}
}

// FormatMonth renders a billing month for invoices and notifications.
func FormatMonth(t time.Time) string {
	return fmt.Sprintf("%s %d", t.Month().String(), t.Year())
}
