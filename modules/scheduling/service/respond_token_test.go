package service

import (
	"testing"
	"time"

	"hiringdesk/core/config"
	"hiringdesk/core/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestConfig(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("RESPOND_TOKEN_SECRET", "respond-secret")
	_, err := config.Load()
	require.NoError(t, err)
}

func TestRespondTokenRoundTrip(t *testing.T) {
	loadTestConfig(t)

	slotID := uuid.New()
	candidateID := uuid.New()
	attemptID := uuid.New()
	bookedBy := uuid.New()
	scheduleTime := time.Now().Add(24 * time.Hour).Truncate(time.Second)

	token, err := GenerateRespondToken(slotID, candidateID, attemptID, bookedBy, scheduleTime, ActionAccept)
	require.NoError(t, err)

	claims, appErr := ParseRespondToken(token)
	require.Nil(t, appErr)
	assert.Equal(t, slotID, claims.SlotID)
	assert.Equal(t, candidateID, claims.CandidateID)
	assert.Equal(t, attemptID, claims.AttemptID)
	assert.Equal(t, bookedBy, claims.BookedBy)
	assert.True(t, claims.ScheduleTime.Equal(scheduleTime))
	assert.Equal(t, ActionAccept, claims.Action)
}

func TestRespondTokenExpired(t *testing.T) {
	loadTestConfig(t)

	claims := RespondTokenClaims{
		SlotID:      uuid.New(),
		CandidateID: uuid.New(),
		AttemptID:   uuid.New(),
		Action:      ActionAccept,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(config.Get().Scheduling.RespondTokenSecret))
	require.NoError(t, err)

	_, appErr := ParseRespondToken(signed)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrExpired, appErr.Code)
}

func TestRespondTokenTampered(t *testing.T) {
	loadTestConfig(t)

	token, err := GenerateRespondToken(uuid.New(), uuid.New(), uuid.New(), uuid.New(),
		time.Now().Add(time.Hour), ActionReject)
	require.NoError(t, err)

	_, appErr := ParseRespondToken(token + "x")
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)

	signedElsewhere, err := jwt.NewWithClaims(jwt.SigningMethodHS256, RespondTokenClaims{
		SlotID: uuid.New(),
		Action: ActionAccept,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	_, appErr = ParseRespondToken(signedElsewhere)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
}

func TestRespondTokenUnknownAction(t *testing.T) {
	loadTestConfig(t)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, RespondTokenClaims{
		SlotID: uuid.New(),
		Action: RespondAction("approve"),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(config.Get().Scheduling.RespondTokenSecret))
	require.NoError(t, err)

	_, appErr := ParseRespondToken(signed)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
}
