package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wijk-raffle/kupon-backend/internal/models"
)

func TestCalculateAllocation_Direct(t *testing.T) {
	numbers := []string{"0001", "0002", "0003"}

	tests := []struct {
		name       string
		status     models.PaymentStatus
		paid       int64
		amount     int64
		amountPaid int64
	}{
		{"fully paid", models.PaymentFullyPaid, 0, 60000, 0},
		{"partially paid", models.PaymentPartiallyPaid, 25000, 25000, 25000},
		{"unpaid", models.PaymentUnpaid, 0, -60000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alloc, err := CalculateAllocation(AllocationInput{
				Mode:    models.ModeDirect,
				Status:  tt.status,
				Numbers: numbers,
				Paid:    tt.paid,
			})
			require.NoError(t, err)
			assert.Equal(t, 3, alloc.Quantity)
			assert.Equal(t, tt.amount, alloc.Amount)
			assert.Equal(t, tt.amountPaid, alloc.AmountPaid)
			assert.Equal(t, numbers, alloc.Numbers)
			assert.Empty(t, alloc.ReceiptStatus)
		})
	}
}

func TestCalculateAllocation_DirectPartialBounds(t *testing.T) {
	numbers := []string{"0001", "0002"}

	for _, paid := range []int64{0, -1, 40000, 50000} {
		_, err := CalculateAllocation(AllocationInput{
			Mode:    models.ModeDirect,
			Status:  models.PaymentPartiallyPaid,
			Numbers: numbers,
			Paid:    paid,
		})
		assert.ErrorIs(t, err, ErrInvalidPartialAmount, "paid=%d", paid)
	}
}

func TestCalculateAllocation_DirectRequiresNumbers(t *testing.T) {
	_, err := CalculateAllocation(AllocationInput{Mode: models.ModeDirect, Status: models.PaymentFullyPaid})
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestCalculateAllocation_Booking(t *testing.T) {
	t.Run("fully paid derives quantity and absorbs remainder", func(t *testing.T) {
		alloc, err := CalculateAllocation(AllocationInput{
			Mode:   models.ModeBooking,
			Status: models.PaymentFullyPaid,
			Paid:   50000,
		})
		require.NoError(t, err)
		assert.Equal(t, 2, alloc.Quantity)
		assert.Equal(t, int64(50000), alloc.Amount)
		assert.Equal(t, int64(50000), alloc.AmountPaid)
		assert.Empty(t, alloc.Numbers)
		assert.Equal(t, models.ReceiptNotReceived, alloc.ReceiptStatus)
	})

	t.Run("fully paid below one coupon", func(t *testing.T) {
		_, err := CalculateAllocation(AllocationInput{
			Mode:   models.ModeBooking,
			Status: models.PaymentFullyPaid,
			Paid:   10000,
		})
		assert.ErrorIs(t, err, ErrInsufficientPayment)
	})

	t.Run("partially paid", func(t *testing.T) {
		alloc, err := CalculateAllocation(AllocationInput{
			Mode:     models.ModeBooking,
			Status:   models.PaymentPartiallyPaid,
			Paid:     30000,
			Quantity: 3,
		})
		require.NoError(t, err)
		assert.Equal(t, 3, alloc.Quantity)
		assert.Equal(t, int64(30000), alloc.Amount)
		assert.Equal(t, int64(30000), alloc.AmountPaid)
		assert.Equal(t, int64(30000), alloc.Payment.Outstanding())
	})

	t.Run("partially paid covering the total", func(t *testing.T) {
		_, err := CalculateAllocation(AllocationInput{
			Mode:     models.ModeBooking,
			Status:   models.PaymentPartiallyPaid,
			Paid:     60000,
			Quantity: 3,
		})
		assert.ErrorIs(t, err, ErrOverpayment)
	})

	t.Run("partially paid needs quantity and amount", func(t *testing.T) {
		_, err := CalculateAllocation(AllocationInput{
			Mode:   models.ModeBooking,
			Status: models.PaymentPartiallyPaid,
			Paid:   10000,
		})
		assert.ErrorIs(t, err, ErrInvalidQuantity)

		_, err = CalculateAllocation(AllocationInput{
			Mode:     models.ModeBooking,
			Status:   models.PaymentPartiallyPaid,
			Quantity: 2,
		})
		assert.ErrorIs(t, err, ErrInvalidPartialAmount)
	})

	t.Run("unpaid", func(t *testing.T) {
		alloc, err := CalculateAllocation(AllocationInput{
			Mode:     models.ModeBooking,
			Status:   models.PaymentUnpaid,
			Quantity: 4,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(-80000), alloc.Amount)
		assert.Equal(t, int64(0), alloc.AmountPaid)
		assert.Equal(t, int64(80000), alloc.Payment.Outstanding())
	})

	t.Run("unpaid without quantity", func(t *testing.T) {
		_, err := CalculateAllocation(AllocationInput{Mode: models.ModeBooking, Status: models.PaymentUnpaid})
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})
}

func TestCalculateAllocation_CustomUnitPrice(t *testing.T) {
	alloc, err := CalculateAllocation(AllocationInput{
		Mode:      models.ModeDirect,
		Status:    models.PaymentFullyPaid,
		Numbers:   []string{"0010"},
		UnitPrice: 25000,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(25000), alloc.Amount)
}

func TestCalculateAllocation_RejectsUnknownStatus(t *testing.T) {
	_, err := CalculateAllocation(AllocationInput{Mode: models.ModeDirect, Status: "Lunas?", Numbers: []string{"0001"}})
	assert.ErrorIs(t, err, ErrInvalidRecord)

	_, err = CalculateAllocation(AllocationInput{Mode: "lottery", Status: models.PaymentFullyPaid})
	assert.ErrorIs(t, err, ErrInvalidRecord)
}

func TestAllocation_ApplyTo(t *testing.T) {
	record := &models.CouponAllocation{ReceiptStatus: models.ReceiptReceived}
	alloc, err := CalculateAllocation(AllocationInput{
		Mode:     models.ModeBooking,
		Status:   models.PaymentUnpaid,
		Quantity: 1,
	})
	require.NoError(t, err)

	alloc.ApplyTo(record)
	assert.Equal(t, models.ReceiptNotReceived, record.ReceiptStatus)
	assert.Equal(t, models.PaymentUnpaid, record.PaymentStatus)
	assert.Equal(t, int64(-20000), record.Amount)
	assert.True(t, record.IsBooking())
}

func TestPaymentFromRecord(t *testing.T) {
	dp := &models.CouponAllocation{
		CouponNumbers: []string{"0001", "0002"},
		Quantity:      2,
		Amount:        15000,
		AmountPaid:    15000,
		PaymentStatus: models.PaymentPartiallyPaid,
	}
	p := PaymentFromRecord(dp, DefaultUnitPrice)
	assert.Equal(t, int64(40000), p.Total)
	assert.Equal(t, int64(25000), p.Outstanding())

	direct := &models.CouponAllocation{
		CouponNumbers: []string{"0003", "0004"},
		Quantity:      2,
		Amount:        40000,
		PaymentStatus: models.PaymentFullyPaid,
	}
	p = PaymentFromRecord(direct, DefaultUnitPrice)
	assert.Equal(t, int64(40000), p.Total)
	assert.Equal(t, p.Total, p.AmountPaid())
	assert.Zero(t, p.Outstanding())

	legacy := &models.CouponAllocation{Quantity: 1, Amount: -20000, PaymentStatus: models.PaymentUnpaidLegacy}
	p = PaymentFromRecord(legacy, DefaultUnitPrice)
	assert.Equal(t, int64(20000), p.Outstanding())
	assert.Equal(t, int64(-20000), p.Amount())
}

func TestParseNumbers(t *testing.T) {
	numbers, err := ParseNumbers("5,1,3,1-3")
	require.NoError(t, err)
	assert.Equal(t, []string{"0001", "0002", "0003", "0005"}, numbers)

	_, err = ParseNumbers("0-5")
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = ParseNumbers("1001")
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = ParseNumbers("")
	assert.ErrorIs(t, err, ErrEmptyInput)
	_, err = ParseNumbers("1-x")
	assert.ErrorIs(t, err, ErrInvalidFormat)
	assert.Contains(t, err.Error(), "1-x")
}
