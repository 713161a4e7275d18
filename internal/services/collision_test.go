package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckCollisions(t *testing.T) {
	t.Run("reports the overlap", func(t *testing.T) {
		err := CheckCollisions([]string{"0005", "0006"}, []string{"0006", "0007"})
		require.ErrorIs(t, err, ErrDuplicateCoupons)

		var cerr *CouponError
		require.True(t, errors.As(err, &cerr))
		assert.Equal(t, []string{"0006"}, cerr.Numbers)
		assert.Contains(t, cerr.Error(), "0006")
	})

	t.Run("lists every duplicate once in order", func(t *testing.T) {
		err := CheckCollisions([]string{"0009", "0003", "0009", "0004"}, []string{"0003", "0004", "0009"})
		var cerr *CouponError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, []string{"0003", "0004", "0009"}, cerr.Numbers)
	})

	t.Run("no overlap", func(t *testing.T) {
		assert.NoError(t, CheckCollisions([]string{"0001"}, []string{"0002"}))
	})

	t.Run("legacy unpadded numbers collide", func(t *testing.T) {
		err := CheckCollisions([]string{"0007", "0010"}, []string{"7", " 12 "})
		var cerr *CouponError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, []string{"0007"}, cerr.Numbers)
	})

	t.Run("booking has nothing to check", func(t *testing.T) {
		assert.NoError(t, CheckCollisions(nil, []string{"0002"}))
	})
}

func TestExcludeNumbers(t *testing.T) {
	out := excludeNumbers([]string{"0001", "0002", "0003"}, []string{"0002"})
	assert.Equal(t, []string{"0001", "0003"}, out)
	assert.NoError(t, CheckCollisions([]string{"0002"}, out))

	t.Run("own legacy numbers are excluded", func(t *testing.T) {
		out := excludeNumbers([]string{"7", "0008"}, []string{"0007"})
		assert.Equal(t, []string{"0008"}, out)
	})
}
