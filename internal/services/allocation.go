package services

import (
	"github.com/wijk-raffle/kupon-backend/internal/models"
	"github.com/wijk-raffle/kupon-backend/internal/utils"
)

// DefaultUnitPrice is the price of one coupon in rupiah.
const DefaultUnitPrice int64 = 20000

// Payment is the explicit form of a record's money state. It is flattened to
// the signed amount only when written to a record.
type Payment struct {
	Status models.PaymentStatus `json:"status"`
	Total  int64                `json:"total"`
	Paid   int64                `json:"paid"`
}

// Amount returns the signed storage figure: the total for Lunas, the paid
// part for DP and the negated total for unpaid records.
func (p Payment) Amount() int64 {
	switch {
	case p.Status == models.PaymentFullyPaid:
		return p.Total
	case p.Status == models.PaymentPartiallyPaid:
		return p.Paid
	case p.Status.IsUnpaid():
		return -p.Total
	}
	return 0
}

// AmountPaid returns the received figure stored alongside Amount.
func (p Payment) AmountPaid() int64 {
	if p.Status.IsUnpaid() {
		return 0
	}
	return p.Paid
}

// Outstanding is what the participant still owes.
func (p Payment) Outstanding() int64 {
	switch {
	case p.Status == models.PaymentPartiallyPaid:
		return p.Total - p.Paid
	case p.Status.IsUnpaid():
		return p.Total
	}
	return 0
}

// PaymentFromRecord rebuilds the explicit payment state from stored fields.
// Lunas records are paid in full whatever their stored paid figure.
func PaymentFromRecord(r *models.CouponAllocation, unitPrice int64) Payment {
	total := int64(r.CouponCount()) * unitPrice
	switch {
	case r.PaymentStatus == models.PaymentFullyPaid:
		paid := abs(r.Amount)
		return Payment{Status: r.PaymentStatus, Total: paid, Paid: paid}
	case r.PaymentStatus == models.PaymentPartiallyPaid:
		return Payment{Status: r.PaymentStatus, Total: total, Paid: r.AmountPaid}
	default:
		return Payment{Status: r.PaymentStatus, Total: abs(r.Amount)}
	}
}

// AllocationInput carries the operator's choices for one allocation.
// Direct mode reads Numbers; booking mode reads Quantity and Paid.
type AllocationInput struct {
	Mode      models.AllocationMode `json:"mode"`
	Status    models.PaymentStatus  `json:"paymentStatus"`
	Numbers   []string              `json:"couponNumbers,omitempty"`
	Quantity  int                   `json:"quantity,omitempty"`
	Paid      int64                 `json:"paid,omitempty"`
	UnitPrice int64                 `json:"-"`
}

// Allocation is the computed outcome of an AllocationInput.
type Allocation struct {
	Mode       models.AllocationMode `json:"mode"`
	Numbers    []string              `json:"couponNumbers"`
	Quantity   int                   `json:"quantity"`
	Payment    Payment               `json:"payment"`
	Amount     int64                 `json:"amount"`
	AmountPaid int64                 `json:"amountPaid"`
	// ReceiptStatus is set when the mode dictates it; empty leaves the
	// operator's choice in place.
	ReceiptStatus models.ReceiptStatus `json:"receiptStatus,omitempty"`
}

// CalculateAllocation computes quantity and payment figures for a direct or
// booking allocation.
func CalculateAllocation(in AllocationInput) (*Allocation, error) {
	unitPrice := in.UnitPrice
	if unitPrice <= 0 {
		unitPrice = DefaultUnitPrice
	}
	if !in.Status.IsValid() {
		return nil, newError(KindInvalidRecord, "unknown payment status %q", in.Status)
	}

	var (
		alloc *Allocation
		err   error
	)
	switch in.Mode {
	case models.ModeDirect, "":
		alloc, err = calculateDirect(in, unitPrice)
	case models.ModeBooking:
		alloc, err = calculateBooking(in, unitPrice)
	default:
		return nil, newError(KindInvalidRecord, "unknown allocation mode %q", in.Mode)
	}
	if err != nil {
		return nil, err
	}

	alloc.Amount = alloc.Payment.Amount()
	alloc.AmountPaid = alloc.Payment.AmountPaid()
	return alloc, nil
}

func calculateDirect(in AllocationInput, unitPrice int64) (*Allocation, error) {
	if len(in.Numbers) == 0 {
		return nil, newError(KindEmptyInput, "enter at least one coupon number")
	}
	quantity := len(in.Numbers)
	total := int64(quantity) * unitPrice

	alloc := &Allocation{Mode: models.ModeDirect, Numbers: in.Numbers, Quantity: quantity}
	switch in.Status {
	case models.PaymentFullyPaid:
		alloc.Payment = Payment{Status: in.Status, Total: total}
	case models.PaymentPartiallyPaid:
		if in.Paid <= 0 || in.Paid >= total {
			return nil, newError(KindInvalidPartialAmount,
				"partial payment must be more than Rp 0 and less than %s; use Lunas for full payment",
				utils.FormatRupiah(total))
		}
		alloc.Payment = Payment{Status: in.Status, Total: total, Paid: in.Paid}
	default:
		alloc.Payment = Payment{Status: in.Status, Total: total}
	}
	return alloc, nil
}

func calculateBooking(in AllocationInput, unitPrice int64) (*Allocation, error) {
	alloc := &Allocation{
		Mode:          models.ModeBooking,
		Numbers:       []string{},
		ReceiptStatus: models.ReceiptNotReceived,
	}

	switch in.Status {
	case models.PaymentFullyPaid:
		quantity := int(in.Paid / unitPrice)
		if in.Paid <= 0 || quantity == 0 {
			return nil, newError(KindInsufficientPayment,
				"payment must be at least %s for one coupon", utils.FormatRupiah(unitPrice))
		}
		alloc.Quantity = quantity
		alloc.Payment = Payment{Status: in.Status, Total: in.Paid, Paid: in.Paid}
	case models.PaymentPartiallyPaid:
		if in.Paid <= 0 {
			return nil, newError(KindInvalidPartialAmount, "partial payment must be more than Rp 0")
		}
		if in.Quantity <= 0 {
			return nil, newError(KindInvalidQuantity, "enter the number of coupons booked")
		}
		total := int64(in.Quantity) * unitPrice
		if in.Paid >= total {
			return nil, newError(KindOverpayment,
				"payment of %s covers %d coupons; use Lunas instead", utils.FormatRupiah(in.Paid), in.Quantity)
		}
		alloc.Quantity = in.Quantity
		alloc.Payment = Payment{Status: in.Status, Total: total, Paid: in.Paid}
	default:
		if in.Quantity <= 0 {
			return nil, newError(KindInvalidQuantity, "enter the number of coupons booked")
		}
		alloc.Quantity = in.Quantity
		alloc.Payment = Payment{Status: in.Status, Total: int64(in.Quantity) * unitPrice}
	}
	return alloc, nil
}

// ApplyTo copies the computed fields onto a record.
func (a *Allocation) ApplyTo(r *models.CouponAllocation) {
	r.CouponNumbers = a.Numbers
	r.Quantity = a.Quantity
	r.Amount = a.Amount
	r.AmountPaid = a.AmountPaid
	r.PaymentStatus = a.Payment.Status
	if a.ReceiptStatus != "" {
		r.ReceiptStatus = a.ReceiptStatus
	}
	if r.ReceiptStatus == "" {
		r.ReceiptStatus = models.ReceiptNotReceived
	}
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
