package service

import (
	"testing"
	"time"

	candidateentity "hiringdesk/modules/candidate/entity"
	"hiringdesk/modules/interview/entity"

	"github.com/stretchr/testify/assert"
)

func TestDashboardBucket(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		status    candidateentity.Status
		scheduled time.Time
		billed    bool
		want      dashboardBucket
	}{
		{"confirmed future", candidateentity.StatusCompleteScheduled, now.Add(2 * time.Hour), false, bucketUpcoming},
		{"confirmed past awaiting feedback", candidateentity.StatusCompleteScheduled, now.Add(-2 * time.Hour), false, bucketPendingFeedback},
		{"confirmed past feedback done", candidateentity.StatusCompleteScheduled, now.Add(-2 * time.Hour), true, bucketHistory},
		{"rescheduled", candidateentity.StatusRescheduled, now.Add(2 * time.Hour), false, bucketHistory},
		{"evaluated", candidateentity.StatusRecommended, now.Add(-48 * time.Hour), true, bucketHistory},
		{"no show", candidateentity.StatusNotJoined, now.Add(-2 * time.Hour), true, bucketHistory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			interview := &entity.Interview{
				Status:              tt.status,
				ScheduledTime:       tt.scheduled,
				IsBillingCalculated: tt.billed,
			}
			assert.Equal(t, tt.want, bucket(interview, now))
		})
	}
}
