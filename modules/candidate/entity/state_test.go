package entity

import (
	"testing"

	"hiringdesk/core/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		name string
		from Status
		ev   Event
		want Status
	}{
		{"initiate from fresh candidate", StatusNotScheduled, Event{Type: EventInitiateScheduling}, StatusScheduled},
		{"re-initiate while invitations outstanding", StatusScheduled, Event{Type: EventInitiateScheduling}, StatusScheduled},
		{"initiate over a confirmed interview", StatusCompleteScheduled, Event{Type: EventInitiateScheduling}, StatusScheduled},
		{"initiate after a no-show", StatusNotJoined, Event{Type: EventInitiateScheduling}, StatusScheduled},
		{"interviewer accepts", StatusScheduled, Event{Type: EventInterviewerAccept}, StatusCompleteScheduled},
		{"reschedule request", StatusCompleteScheduled, Event{Type: EventRescheduleRequest}, StatusNotScheduled},
		{"feedback with no-show remark", StatusCompleteScheduled, Event{Type: EventFeedbackSubmitted, Remark: StatusNotJoined}, StatusNotJoined},
		{"feedback recommends", StatusCompleteScheduled, Event{Type: EventFeedbackSubmitted, Remark: StatusRecommended}, StatusRecommended},
		{"feedback strongly rejects", StatusCompleteScheduled, Event{Type: EventFeedbackSubmitted, Remark: StatusStronglyNotRecommended}, StatusStronglyNotRecommended},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Transition(tc.from, tc.ev)
			require.Nil(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestTransitionRejectsInvalidMoves(t *testing.T) {
	tests := []struct {
		name string
		from Status
		ev   Event
	}{
		{"accept without an open round", StatusNotScheduled, Event{Type: EventInterviewerAccept}},
		{"accept after confirmation", StatusCompleteScheduled, Event{Type: EventInterviewerAccept}},
		{"initiate on an evaluated candidate", StatusRecommended, Event{Type: EventInitiateScheduling}},
		{"reschedule without confirmation", StatusScheduled, Event{Type: EventRescheduleRequest}},
		{"feedback before confirmation", StatusScheduled, Event{Type: EventFeedbackSubmitted, Remark: StatusRecommended}},
		{"feedback with scheduling remark", StatusCompleteScheduled, Event{Type: EventFeedbackSubmitted, Remark: StatusScheduled}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Transition(tc.from, tc.ev)
			require.NotNil(t, err)
			assert.Equal(t, errors.ErrInvalidCandidateState, err.Code)
		})
	}
}

func TestStatusHelpers(t *testing.T) {
	assert.True(t, StatusNotScheduled.Schedulable())
	assert.True(t, StatusNotJoined.Schedulable())
	assert.False(t, StatusRescheduled.Schedulable())
	assert.False(t, StatusRecommended.Schedulable())

	assert.True(t, StatusHighlyRecommended.Evaluation())
	assert.True(t, StatusNotRecommended.Evaluation())
	assert.False(t, StatusNotJoined.Evaluation())
	assert.False(t, StatusCompleteScheduled.Evaluation())
}
