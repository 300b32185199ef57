package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kolkata(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	return loc
}

func TestLateFeedbackFine(t *testing.T) {
	loc := kolkata(t)
	day := func(d, hour, min int) time.Time {
		return time.Date(2026, time.March, d, hour, min, 0, 0, loc)
	}

	t.Run("daytime interview", func(t *testing.T) {
		interviewEnd := day(4, 15, 0)
		generated := day(4, 15, 5)
		// deadline is 16:05

		tests := []struct {
			submitted time.Time
			want      float64
		}{
			{day(4, 16, 0), 0},
			{day(4, 17, 0), 0},   // within the one hour tolerance
			{day(4, 17, 30), 100},
			{day(4, 18, 30), 300},
			{day(4, 20, 0), 500},
			{day(4, 23, 0), 700},
			{day(5, 4, 0), 1000},
		}
		for _, tc := range tests {
			assert.Equal(t, tc.want, LateFeedbackFine(generated, interviewEnd, tc.submitted, loc),
				"submitted at %s", tc.submitted)
		}
	})

	t.Run("evening interview defers the clock to next morning", func(t *testing.T) {
		interviewEnd := day(4, 21, 0)
		generated := day(4, 21, 5)
		// clock restarts at 09:00 next day, deadline 10:00

		assert.Equal(t, float64(0), LateFeedbackFine(generated, interviewEnd, day(5, 10, 30), loc))
		assert.Equal(t, float64(100), LateFeedbackFine(generated, interviewEnd, day(5, 11, 30), loc))
		assert.Equal(t, float64(700), LateFeedbackFine(generated, interviewEnd, day(5, 16, 5), loc))
		assert.Equal(t, float64(1000), LateFeedbackFine(generated, interviewEnd, day(5, 19, 0), loc))
	})

	t.Run("interview ending exactly at cutoff is not deferred", func(t *testing.T) {
		interviewEnd := day(4, 20, 30)
		generated := day(4, 20, 35)

		assert.Equal(t, float64(0), LateFeedbackFine(generated, interviewEnd, day(4, 22, 0), loc))
	})
}

func TestExperienceLevel(t *testing.T) {
	assert.Equal(t, "0-4", ExperienceLevel(0, 6))
	assert.Equal(t, "0-4", ExperienceLevel(3, 11))
	assert.Equal(t, "4-7", ExperienceLevel(4, 0))
	assert.Equal(t, "7-10", ExperienceLevel(9, 11))
	assert.Equal(t, "10+", ExperienceLevel(10, 0))
	assert.Equal(t, "10+", ExperienceLevel(15, 3))
}

func TestBillingMonthAndDueDate(t *testing.T) {
	loc := kolkata(t)
	moment := time.Date(2026, time.February, 17, 13, 45, 0, 0, loc)

	month := MonthStart(moment, loc)
	assert.Equal(t, time.Date(2026, time.February, 1, 0, 0, 0, 0, loc), month)

	// Feb 2026 ends on the 28th; settlement runs ten days past month end.
	due := DueDate(moment, loc)
	assert.Equal(t, time.Date(2026, time.March, 10, 0, 0, 0, 0, loc), due)
}
