package utils

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Coupon numbers are issued from this closed range.
const (
	MinCouponNumber = 1
	MaxCouponNumber = 1000
)

var (
	ErrInvalidFormat = errors.New("invalid coupon number format")
	ErrOutOfRange    = errors.New("coupon number out of range")
	ErrEmptyInput    = errors.New("no coupon numbers given")
)

// NumberParseError names the token that failed to parse.
type NumberParseError struct {
	Err   error
	Token string
}

func (e *NumberParseError) Error() string {
	if e.Token == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %q", e.Err.Error(), e.Token)
}

func (e *NumberParseError) Unwrap() error {
	return e.Err
}

// ParseCouponNumbers turns input like "1-10, 123, 78" into a sorted,
// de-duplicated list of numbers within [MinCouponNumber, MaxCouponNumber].
func ParseCouponNumbers(text string) ([]int, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &NumberParseError{Err: ErrEmptyInput}
	}

	seen := make(map[int]struct{})
	for _, raw := range strings.Split(text, ",") {
		token := strings.TrimSpace(raw)
		if token == "" {
			return nil, &NumberParseError{Err: ErrInvalidFormat, Token: raw}
		}

		start, end, err := parseToken(token)
		if err != nil {
			return nil, err
		}
		for n := start; n <= end; n++ {
			seen[n] = struct{}{}
		}
	}

	numbers := make([]int, 0, len(seen))
	for n := range seen {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	return numbers, nil
}

// parseToken returns the inclusive bounds of a single number or a range.
func parseToken(token string) (int, int, error) {
	if !strings.Contains(token, "-") {
		n, err := strconv.Atoi(token)
		if err != nil {
			return 0, 0, &NumberParseError{Err: ErrInvalidFormat, Token: token}
		}
		if !inRange(n) {
			return 0, 0, &NumberParseError{Err: ErrOutOfRange, Token: token}
		}
		return n, n, nil
	}

	parts := strings.Split(token, "-")
	if len(parts) != 2 {
		return 0, 0, &NumberParseError{Err: ErrInvalidFormat, Token: token}
	}
	start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, &NumberParseError{Err: ErrInvalidFormat, Token: token}
	}
	end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, &NumberParseError{Err: ErrInvalidFormat, Token: token}
	}
	if !inRange(start) || !inRange(end) || start > end {
		return 0, 0, &NumberParseError{Err: ErrOutOfRange, Token: token}
	}
	return start, end, nil
}

func inRange(n int) bool {
	return n >= MinCouponNumber && n <= MaxCouponNumber
}

// FormatCouponNumber renders n as a 4-digit zero-padded string.
func FormatCouponNumber(n int) string {
	return fmt.Sprintf("%04d", n)
}

// FormatCouponNumbers formats every number in order.
func FormatCouponNumbers(numbers []int) []string {
	out := make([]string, len(numbers))
	for i, n := range numbers {
		out[i] = FormatCouponNumber(n)
	}
	return out
}

// NormalizeCouponNumber accepts "7", "007" or "0007" and returns "0007".
// Stored numbers that are not numeric are returned trimmed.
func NormalizeCouponNumber(s string) string {
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(s)
	if err != nil {
		return s
	}
	return FormatCouponNumber(n)
}
