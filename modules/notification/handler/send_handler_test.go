package handler

import (
	"testing"

	"hiringdesk/core/tasks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderBody(t *testing.T) {
	h := &SendHandler{}

	body, err := h.renderBody("interview_invitation", tasks.NotificationContext{
		Email: "jordan@example.com",
		Name:  "Jordan",
		Data: map[string]string{
			"candidate_name": "Priya Sharma",
			"scheduled_time": "12 Mar 2026 14:00 IST",
			"accept_link":    "https://api.example/respond?token=a",
			"reject_link":    "https://api.example/respond?token=r",
		},
	})
	require.NoError(t, err)

	assert.Contains(t, body, "Hi Jordan")
	assert.Contains(t, body, "Priya Sharma")
	assert.Contains(t, body, "https://api.example/respond?token=a")
	assert.Contains(t, body, "first interviewer to accept")
}

func TestRenderBodyOptionalSections(t *testing.T) {
	h := &SendHandler{}

	withLink, err := h.renderBody("interview_confirmed", tasks.NotificationContext{
		Name: "Sam",
		Data: map[string]string{"candidate_name": "Lee", "scheduled_time": "today", "meeting_link": "https://meet.example/x"},
	})
	require.NoError(t, err)
	assert.Contains(t, withLink, "https://meet.example/x")

	withoutLink, err := h.renderBody("interview_confirmed", tasks.NotificationContext{
		Name: "Sam",
		Data: map[string]string{"candidate_name": "Lee", "scheduled_time": "today"},
	})
	require.NoError(t, err)
	assert.NotContains(t, withoutLink, "Join:")
}

func TestRenderBodyUnknownTemplate(t *testing.T) {
	h := &SendHandler{}
	_, err := h.renderBody("password_reset", tasks.NotificationContext{})
	assert.Error(t, err)
}
