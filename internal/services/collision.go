package services

import (
	"sort"

	"github.com/wijk-raffle/kupon-backend/internal/utils"
)

// CheckCollisions fails with DuplicateCoupons when any requested number is
// already held by another record. When editing, callers leave the record's
// own numbers out of existing. Numbers are compared in their four-digit
// form, so a stored "7" collides with "0007".
func CheckCollisions(requested, existing []string) error {
	if len(requested) == 0 || len(existing) == 0 {
		return nil
	}

	taken := make(map[string]struct{}, len(existing))
	for _, n := range existing {
		taken[utils.NormalizeCouponNumber(n)] = struct{}{}
	}

	var dupes []string
	reported := make(map[string]struct{})
	for _, raw := range requested {
		n := utils.NormalizeCouponNumber(raw)
		if _, ok := taken[n]; !ok {
			continue
		}
		if _, ok := reported[n]; ok {
			continue
		}
		reported[n] = struct{}{}
		dupes = append(dupes, n)
	}
	if len(dupes) == 0 {
		return nil
	}

	sort.Strings(dupes)
	return &CouponError{
		Kind:    KindDuplicateCoupons,
		Message: "coupon numbers already taken",
		Numbers: dupes,
	}
}

// excludeNumbers returns existing without the numbers in own.
func excludeNumbers(existing, own []string) []string {
	if len(own) == 0 {
		return existing
	}
	skip := make(map[string]struct{}, len(own))
	for _, n := range own {
		skip[utils.NormalizeCouponNumber(n)] = struct{}{}
	}
	out := make([]string, 0, len(existing))
	for _, n := range existing {
		if _, ok := skip[utils.NormalizeCouponNumber(n)]; !ok {
			out = append(out, n)
		}
	}
	return out
}
