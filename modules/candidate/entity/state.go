package entity

import (
	"fmt"

	"hiringdesk/core/errors"
)

// EventType drives the candidate status transition table.
type EventType string

const (
	EventInitiateScheduling EventType = "initiate_scheduling"
	EventInterviewerAccept  EventType = "interviewer_accept"
	EventRescheduleRequest  EventType = "reschedule_request"
	EventFeedbackSubmitted  EventType = "feedback_submitted"
)

// Event is one candidate lifecycle event. Remark is only read for
// EventFeedbackSubmitted and must then be an evaluation status or NJ.
type Event struct {
	Type   EventType
	Remark Status
}

// Transition is the authoritative candidate status table. Callers must not
// mutate any row when an error is returned.
//
//	NSCH/SCH/CSCH/NJ + initiate scheduling -> SCH
//	SCH              + interviewer accept  -> CSCH
//	CSCH             + reschedule request  -> NSCH (interview row holds RESCH)
//	CSCH             + feedback, remark NJ -> NJ
//	CSCH             + feedback, remark *  -> remark
func Transition(from Status, ev Event) (Status, *errors.AppError) {
	switch ev.Type {
	case EventInitiateScheduling:
		if from.Schedulable() {
			return StatusScheduled, nil
		}
	case EventInterviewerAccept:
		if from == StatusScheduled {
			return StatusCompleteScheduled, nil
		}
	case EventRescheduleRequest:
		if from == StatusCompleteScheduled {
			return StatusNotScheduled, nil
		}
	case EventFeedbackSubmitted:
		if from != StatusCompleteScheduled {
			break
		}
		if ev.Remark == StatusNotJoined {
			return StatusNotJoined, nil
		}
		if ev.Remark.Evaluation() {
			return ev.Remark, nil
		}
		return "", errors.NewAppError(errors.ErrInvalidCandidateState,
			fmt.Sprintf("invalid feedback remark %q", ev.Remark), nil)
	}
	return "", errors.NewAppError(errors.ErrInvalidCandidateState,
		fmt.Sprintf("cannot apply %s to candidate in status %q", ev.Type, from), nil)
}
