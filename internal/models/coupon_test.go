package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCouponAllocation_DisplayName(t *testing.T) {
	t.Run("participant name", func(t *testing.T) {
		c := &CouponAllocation{FamilyName: "Keluarga Sinaga", ParticipantName: "Ester"}
		assert.Equal(t, "Ester", c.DisplayName())
	})

	t.Run("falls back to family", func(t *testing.T) {
		c := &CouponAllocation{FamilyName: "Keluarga Sinaga"}
		assert.Equal(t, "Keluarga Sinaga", c.DisplayName())
	})
}

func TestCouponAllocation_CouponCount(t *testing.T) {
	assert.Equal(t, 3, (&CouponAllocation{Quantity: 3}).CouponCount())
	assert.Equal(t, 2, (&CouponAllocation{CouponNumbers: []string{"0001", "0002"}}).CouponCount())
	assert.True(t, (&CouponAllocation{Quantity: 3}).IsBooking())
}
