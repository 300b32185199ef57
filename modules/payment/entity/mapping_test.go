package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMapLinkStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want LinkStatus
	}{
		{"PAID", LinkStatusPaid},
		{"PARTIALLY_PAID", LinkStatusPartiallyPaid},
		{"EXPIRED", LinkStatusExpired},
		{"CANCELLED", LinkStatusCancelled},
	}
	for _, tc := range tests {
		got, ok := MapLinkStatus(tc.raw)
		assert.True(t, ok, tc.raw)
		assert.Equal(t, tc.want, got)
	}

	_, ok := MapLinkStatus("ACTIVE")
	assert.False(t, ok)
}

func TestMapStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want Status
	}{
		{"SUCCESS", StatusSuccess},
		{"FAILED", StatusFailed},
		{"USER_DROPPED", StatusUserDropped},
		{"CANCELLED", StatusCancelled},
		{"VOID", StatusVoid},
		{"PENDING", StatusPending},
		{"INACTIVE", StatusInactive},
	}
	for _, tc := range tests {
		got, ok := MapStatus(tc.raw)
		assert.True(t, ok, tc.raw)
		assert.Equal(t, tc.want, got)
	}

	_, ok := MapStatus("REFUNDED")
	assert.False(t, ok)
}

func TestBillPaymentExpired(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	live := &BillPayment{ExpiresAt: now.Add(time.Hour)}
	assert.False(t, live.Expired(now))

	stale := &BillPayment{ExpiresAt: now.Add(-time.Minute)}
	assert.True(t, stale.Expired(now))

	boundary := &BillPayment{ExpiresAt: now}
	assert.True(t, boundary.Expired(now))
}
