package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wijk-raffle/kupon-backend/internal/models"
)

func record(numbers []string, payment models.PaymentStatus, receipt models.ReceiptStatus) *models.CouponAllocation {
	return &models.CouponAllocation{
		FamilyName:    "Keluarga Sitompul",
		Category:      models.CategoryRemaja,
		Zone:          "Wijk Sion",
		CouponNumbers: numbers,
		Quantity:      len(numbers),
		Amount:        int64(len(numbers)) * DefaultUnitPrice,
		PaymentStatus: payment,
		ReceiptStatus: receipt,
	}
}

func TestBuildEligiblePool(t *testing.T) {
	records := []*models.CouponAllocation{
		record([]string{"0001", "0002"}, models.PaymentFullyPaid, models.ReceiptReceived),
		record([]string{"0003"}, models.PaymentFullyPaid, models.ReceiptNotReceived),
		record([]string{"0004"}, models.PaymentPartiallyPaid, models.ReceiptReceived),
		record([]string{"0005", " ", ""}, models.PaymentFullyPaid, models.ReceiptReceived),
	}

	t.Run("only paid and received numbers", func(t *testing.T) {
		pool := BuildEligiblePool(records, nil)
		numbers := make([]string, 0, len(pool))
		for _, e := range pool {
			numbers = append(numbers, e.CouponNumber)
		}
		assert.ElementsMatch(t, []string{"0001", "0002", "0005"}, numbers)
		assert.Equal(t, "Keluarga Sitompul", pool[0].FamilyName)
		assert.Equal(t, "Wijk Sion", pool[0].Zone)
	})

	t.Run("past winners are excluded", func(t *testing.T) {
		pool := BuildEligiblePool(records, []string{"0002", "0005"})
		assert.Len(t, pool, 1)
		assert.Equal(t, "0001", pool[0].CouponNumber)
	})

	t.Run("legacy unpadded numbers match padded winners", func(t *testing.T) {
		legacy := []*models.CouponAllocation{
			record([]string{"7", "0008"}, models.PaymentFullyPaid, models.ReceiptReceived),
		}
		pool := BuildEligiblePool(legacy, []string{"0007", "8"})
		assert.Empty(t, pool)

		pool = BuildEligiblePool(legacy, nil)
		require.Len(t, pool, 2)
		assert.Equal(t, "0007", pool[0].CouponNumber)
	})

	t.Run("paid but not received contributes nothing", func(t *testing.T) {
		pool := BuildEligiblePool(records[1:2], nil)
		assert.Empty(t, pool)
	})
}

func TestCountEligibleCoupons(t *testing.T) {
	booking := &models.CouponAllocation{
		Quantity:      3,
		PaymentStatus: models.PaymentFullyPaid,
		ReceiptStatus: models.ReceiptReceived,
	}
	records := []*models.CouponAllocation{
		record([]string{"0001", "0002"}, models.PaymentFullyPaid, models.ReceiptReceived),
		record([]string{"0003"}, models.PaymentUnpaid, models.ReceiptReceived),
		booking,
	}
	assert.Equal(t, 5, CountEligibleCoupons(records))
}
