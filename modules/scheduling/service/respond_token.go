package service

import (
	goerrors "errors"
	"time"

	"hiringdesk/core/config"
	"hiringdesk/core/constants"
	"hiringdesk/core/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// RespondAction is what an invitation link does when followed.
type RespondAction string

const (
	ActionAccept RespondAction = "accept"
	ActionReject RespondAction = "reject"
)

// RespondTokenClaims is the signed capability carried by an interviewer's
// accept/reject link. The link works without a session; everything the
// response needs to be verified rides in the token.
type RespondTokenClaims struct {
	SlotID       uuid.UUID     `json:"slot_id"`
	CandidateID  uuid.UUID     `json:"candidate_id"`
	AttemptID    uuid.UUID     `json:"attempt_id"`
	BookedBy     uuid.UUID     `json:"booked_by"`
	ScheduleTime time.Time     `json:"schedule_time"`
	Action       RespondAction `json:"action"`
	jwt.RegisteredClaims
}

// GenerateRespondToken signs a single-purpose accept or reject token that
// expires one hour after issue.
func GenerateRespondToken(slotID, candidateID, attemptID, bookedBy uuid.UUID, scheduleTime time.Time, action RespondAction) (string, error) {
	now := time.Now()
	claims := RespondTokenClaims{
		SlotID:       slotID,
		CandidateID:  candidateID,
		AttemptID:    attemptID,
		BookedBy:     bookedBy,
		ScheduleTime: scheduleTime,
		Action:       action,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(constants.RespondTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.Get().Scheduling.RespondTokenSecret))
}

// ParseRespondToken validates the signature and expiry of an invitation
// token.
func ParseRespondToken(tokenString string) (*RespondTokenClaims, *errors.AppError) {
	claims := &RespondTokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(config.Get().Scheduling.RespondTokenSecret), nil
	})
	if err != nil {
		if goerrors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.NewAppError(errors.ErrExpired, "This invitation has expired", err)
		}
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid invitation token", err)
	}
	if !token.Valid {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid invitation token", nil)
	}

	switch claims.Action {
	case ActionAccept, ActionReject:
	default:
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid invitation token", nil)
	}
	return claims, nil
}
