package policy_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campsite/internal/domain/policy"
)

func TestDefaultPolicyIsValid(t *testing.T) {
	require.NoError(t, policy.Default().Validate())
}

func TestValidateRejectsOddDeadlineHours(t *testing.T) {
	for _, hours := range []int{3, 6, 9, 12} {
		p := policy.Default()
		p.DepositDeadlineHours = hours
		assert.NoError(t, p.Validate(), "hours=%d", hours)
	}
	for _, hours := range []int{0, 1, 4, 24, -6} {
		p := policy.Default()
		p.DepositDeadlineHours = hours
		assert.ErrorIs(t, p.Validate(), policy.ErrInvalidDeadlineHours, "hours=%d", hours)
	}
}

func TestValidateRequiresRefundTiers(t *testing.T) {
	p := policy.Default()
	p.RefundTiers = nil
	assert.ErrorIs(t, p.Validate(), policy.ErrNoRefundTiers)
}

func TestRefundRateTiers(t *testing.T) {
	p := policy.Default()
	cases := []struct {
		daysBefore int
		rate       int
	}{
		{10, 100},
		{7, 100},
		{6, 90},
		{5, 90},
		{4, 50},
		{3, 50},
		{2, 20},
		{1, 20},
		{0, 0},
		{-1, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.rate, p.RefundRate(tc.daysBefore), "daysBefore=%d", tc.daysBefore)
	}
}

func TestRefundAmount(t *testing.T) {
	assert.Equal(t, int64(100000), policy.RefundAmount(100000, 100))
	assert.Equal(t, int64(90000), policy.RefundAmount(100000, 90))
	assert.Equal(t, int64(50000), policy.RefundAmount(100000, 50))
	assert.Equal(t, int64(20000), policy.RefundAmount(100000, 20))
	assert.Zero(t, policy.RefundAmount(100000, 0))

	// rounds half up on odd totals
	assert.Equal(t, int64(17), policy.RefundAmount(33, 50))
	assert.Zero(t, policy.RefundAmount(0, 100))
	assert.Equal(t, int64(40), policy.RefundAmount(40, 150))
}

func TestRequiresMinStay(t *testing.T) {
	p := policy.Default()

	assert.True(t, p.RequiresMinStay(time.Date(2025, 6, 6, 0, 0, 0, 0, time.UTC)), "friday")
	assert.True(t, p.RequiresMinStay(time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC)), "saturday")
	assert.False(t, p.RequiresMinStay(time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)), "sunday")
	assert.False(t, p.RequiresMinStay(time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)), "monday")
}

func TestWithinImminentWindow(t *testing.T) {
	p := policy.Default()
	now := time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC)

	assert.True(t, p.WithinImminentWindow(now, now), "same day")
	assert.True(t, p.WithinImminentWindow(now.AddDate(0, 0, 7), now), "boundary")
	assert.False(t, p.WithinImminentWindow(now.AddDate(0, 0, 8), now))
	assert.False(t, p.WithinImminentWindow(now.AddDate(0, 0, -1), now), "past check-in")
}
