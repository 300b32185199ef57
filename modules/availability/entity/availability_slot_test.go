package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, min int) time.Time {
	return time.Date(2026, time.March, 4, hour, min, 0, 0, time.UTC)
}

func TestSplitAround(t *testing.T) {
	buffer := time.Hour
	minResidual := time.Hour

	tests := []struct {
		name       string
		slotStart  time.Time
		slotEnd    time.Time
		window     Window
		wantBefore *Window
		wantAfter  *Window
	}{
		{
			name:      "booking at slot start keeps only trailing residual",
			slotStart: at(9, 0), slotEnd: at(13, 0),
			window:    Window{Start: at(10, 0), End: at(11, 0)},
			wantAfter: &Window{Start: at(12, 0), End: at(13, 0)},
		},
		{
			name:      "booking in the middle keeps both residuals",
			slotStart: at(8, 0), slotEnd: at(15, 0),
			window:     Window{Start: at(11, 0), End: at(12, 0)},
			wantBefore: &Window{Start: at(8, 0), End: at(10, 0)},
			wantAfter:  &Window{Start: at(13, 0), End: at(15, 0)},
		},
		{
			name:      "exact fit leaves nothing",
			slotStart: at(10, 0), slotEnd: at(11, 0),
			window: Window{Start: at(10, 0), End: at(11, 0)},
		},
		{
			name:      "sub-hour remainders are dropped",
			slotStart: at(9, 30), slotEnd: at(13, 30),
			window: Window{Start: at(11, 0), End: at(12, 0)},
		},
		{
			name:      "residual of exactly the minimum is kept",
			slotStart: at(9, 0), slotEnd: at(11, 0),
			window:     Window{Start: at(10, 0), End: at(11, 0)},
			wantBefore: nil,
			wantAfter:  nil,
		},
		{
			name:      "leading residual exactly one hour",
			slotStart: at(8, 0), slotEnd: at(11, 0),
			window:     Window{Start: at(10, 0), End: at(11, 0)},
			wantBefore: &Window{Start: at(8, 0), End: at(9, 0)},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			before, after := SplitAround(tc.slotStart, tc.slotEnd, tc.window, buffer, minResidual)
			assert.Equal(t, tc.wantBefore, before)
			assert.Equal(t, tc.wantAfter, after)
		})
	}
}

func TestWindowOverlaps(t *testing.T) {
	base := Window{Start: at(10, 0), End: at(12, 0)}

	assert.True(t, base.Overlaps(Window{Start: at(11, 0), End: at(13, 0)}))
	assert.True(t, base.Overlaps(Window{Start: at(9, 0), End: at(10, 30)}))
	assert.True(t, base.Overlaps(Window{Start: at(10, 30), End: at(11, 0)}))
	assert.False(t, base.Overlaps(Window{Start: at(12, 0), End: at(13, 0)}))
	assert.False(t, base.Overlaps(Window{Start: at(8, 0), End: at(10, 0)}))
}
