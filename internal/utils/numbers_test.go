package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCouponNumbers(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []int
	}{
		{"single", "7", []int{7}},
		{"range", "1-5", []int{1, 2, 3, 4, 5}},
		{"mixed", "1-3, 123, 78", []int{1, 2, 3, 78, 123}},
		{"unordered with duplicates", "5,1,3,1-3", []int{1, 2, 3, 5}},
		{"whitespace around tokens", "  10 ,  2 - 4 ", []int{2, 3, 4, 10}},
		{"bounds", "1, 1000", []int{1, 1000}},
		{"single-element range", "9-9", []int{9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCouponNumbers(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseCouponNumbers_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
		token string
	}{
		{"empty", "", ErrEmptyInput, ""},
		{"whitespace only", "   ", ErrEmptyInput, ""},
		{"range below minimum", "0-5", ErrOutOfRange, "0-5"},
		{"above maximum", "1001", ErrOutOfRange, "1001"},
		{"zero", "0", ErrOutOfRange, "0"},
		{"reversed range", "10-2", ErrOutOfRange, "10-2"},
		{"letters", "abc", ErrInvalidFormat, "abc"},
		{"half range", "5-", ErrInvalidFormat, "5-"},
		{"double dash", "1-2-3", ErrInvalidFormat, "1-2-3"},
		{"negative number", "-5", ErrInvalidFormat, "-5"},
		{"empty token", "1,,2", ErrInvalidFormat, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCouponNumbers(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var perr *NumberParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.token, perr.Token)
		})
	}
}

func TestParseCouponNumbers_Ascending(t *testing.T) {
	got, err := ParseCouponNumbers("900-905, 3, 1-2, 903, 4")
	require.NoError(t, err)
	for i := 1; i < len(got); i++ {
		assert.Less(t, got[i-1], got[i])
	}
}

func TestFormatCouponNumbers(t *testing.T) {
	assert.Equal(t, "0001", FormatCouponNumber(1))
	assert.Equal(t, "1000", FormatCouponNumber(1000))
	assert.Equal(t, []string{"0005", "0078", "0123"}, FormatCouponNumbers([]int{5, 78, 123}))
	assert.Empty(t, FormatCouponNumbers(nil))
}

func TestNormalizeCouponNumber(t *testing.T) {
	assert.Equal(t, "0007", NormalizeCouponNumber("7"))
	assert.Equal(t, "0007", NormalizeCouponNumber(" 007 "))
	assert.Equal(t, "0123", NormalizeCouponNumber("0123"))
	assert.Equal(t, "A1", NormalizeCouponNumber("A1"))
}

func TestFormatRupiah(t *testing.T) {
	assert.Equal(t, "Rp 20.000", FormatRupiah(20000))
	assert.Equal(t, "Rp 0", FormatRupiah(0))
	assert.Equal(t, "-Rp 1.500.000", FormatRupiah(-1500000))
}
