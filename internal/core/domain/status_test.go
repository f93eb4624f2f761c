package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from    ApplicationStatus
		to      ApplicationStatus
		allowed bool
	}{
		{StatusSubmitted, StatusApproved, true},
		{StatusSubmitted, StatusRejected, true},
		{StatusSubmitted, StatusReview, true},
		{StatusReview, StatusApproved, true},
		{StatusReview, StatusRejected, true},
		{StatusReview, StatusSubmitted, false},
		{StatusApproved, StatusRejected, false},
		{StatusApproved, StatusSubmitted, false},
		{StatusRejected, StatusApproved, false},
		{StatusRejected, StatusReview, false},
		{StatusSubmitted, StatusSubmitted, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, CanTransition(tc.from, tc.to),
			"transition %s -> %s", tc.from, tc.to)
	}
}

func TestIsValidStatus(t *testing.T) {
	assert.True(t, IsValidStatus(StatusSubmitted))
	assert.True(t, IsValidStatus(StatusApproved))
	assert.True(t, IsValidStatus(StatusRejected))
	assert.True(t, IsValidStatus(StatusReview))
	assert.False(t, IsValidStatus("FROZEN"))
	assert.False(t, IsValidStatus(""))
}
