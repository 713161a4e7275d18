package services

import (
	"github.com/wijk-raffle/kupon-backend/internal/models"
	"github.com/wijk-raffle/kupon-backend/internal/utils"
)

// IsEligible reports whether a record's coupons may enter the draw.
func IsEligible(r *models.CouponAllocation) bool {
	return r.PaymentStatus == models.PaymentFullyPaid && r.ReceiptStatus == models.ReceiptReceived
}

// BuildEligiblePool flattens eligible records into one entry per coupon
// number in four-digit form, dropping numbers that have already won.
func BuildEligiblePool(records []*models.CouponAllocation, winnerNumbers []string) []models.DrawEntry {
	won := make(map[string]struct{}, len(winnerNumbers))
	for _, n := range winnerNumbers {
		won[utils.NormalizeCouponNumber(n)] = struct{}{}
	}

	pool := make([]models.DrawEntry, 0)
	seen := make(map[string]struct{})
	for _, r := range records {
		if !IsEligible(r) {
			continue
		}
		for _, raw := range r.CouponNumbers {
			number := utils.NormalizeCouponNumber(raw)
			if number == "" {
				continue
			}
			if _, ok := won[number]; ok {
				continue
			}
			if _, ok := seen[number]; ok {
				continue
			}
			seen[number] = struct{}{}
			pool = append(pool, models.DrawEntry{
				CouponNumber:    number,
				FamilyName:      r.FamilyName,
				ParticipantName: r.ParticipantName,
				Category:        r.Category,
				Zone:            r.Zone,
				Amount:          r.Amount,
			})
		}
	}
	return pool
}

// CountEligibleCoupons sums coupon counts over eligible records. Past
// winners are not subtracted.
func CountEligibleCoupons(records []*models.CouponAllocation) int {
	total := 0
	for _, r := range records {
		if IsEligible(r) {
			total += r.CouponCount()
		}
	}
	return total
}
