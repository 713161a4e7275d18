package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wijk-raffle/kupon-backend/internal/utils"
)

// ErrorKind classifies a user-correctable failure.
type ErrorKind string

const (
	KindInvalidFormat        ErrorKind = "INVALID_FORMAT"
	KindOutOfRange           ErrorKind = "OUT_OF_RANGE"
	KindEmptyInput           ErrorKind = "EMPTY_INPUT"
	KindInvalidPartialAmount ErrorKind = "INVALID_PARTIAL_AMOUNT"
	KindInsufficientPayment  ErrorKind = "INSUFFICIENT_PAYMENT"
	KindOverpayment          ErrorKind = "OVERPAYMENT"
	KindInvalidQuantity      ErrorKind = "INVALID_QUANTITY"
	KindInvalidRecord        ErrorKind = "INVALID_RECORD"
	KindDuplicateCoupons     ErrorKind = "DUPLICATE_COUPONS"
	KindNoEligibleCoupons    ErrorKind = "NO_ELIGIBLE_COUPONS"
	KindNoPendingResult      ErrorKind = "NO_PENDING_RESULT"
	KindInvalidCredentials   ErrorKind = "INVALID_CREDENTIALS"
	KindSessionExpired       ErrorKind = "SESSION_EXPIRED"
)

// CouponError is returned for every failure the operator can fix by changing
// input. Numbers lists the offending coupon numbers where relevant.
type CouponError struct {
	Kind    ErrorKind
	Message string
	Numbers []string
}

func (e *CouponError) Error() string {
	if len(e.Numbers) > 0 {
		return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Numbers, ", "))
	}
	return e.Message
}

// Is matches any CouponError of the same kind, so callers can compare
// against the Err* sentinels.
func (e *CouponError) Is(target error) bool {
	t, ok := target.(*CouponError)
	return ok && t.Kind == e.Kind
}

var (
	ErrInvalidFormat        = &CouponError{Kind: KindInvalidFormat, Message: "invalid coupon number format"}
	ErrOutOfRange           = &CouponError{Kind: KindOutOfRange, Message: "coupon number out of range"}
	ErrEmptyInput           = &CouponError{Kind: KindEmptyInput, Message: "no coupon numbers given"}
	ErrInvalidPartialAmount = &CouponError{Kind: KindInvalidPartialAmount, Message: "invalid partial payment amount"}
	ErrInsufficientPayment  = &CouponError{Kind: KindInsufficientPayment, Message: "payment does not cover a single coupon"}
	ErrOverpayment          = &CouponError{Kind: KindOverpayment, Message: "partial payment covers the full price"}
	ErrInvalidQuantity      = &CouponError{Kind: KindInvalidQuantity, Message: "quantity must be greater than zero"}
	ErrInvalidRecord        = &CouponError{Kind: KindInvalidRecord, Message: "invalid coupon record"}
	ErrDuplicateCoupons     = &CouponError{Kind: KindDuplicateCoupons, Message: "coupon numbers already taken"}
	ErrNoEligibleCoupons    = &CouponError{Kind: KindNoEligibleCoupons, Message: "no eligible coupons to draw"}
	ErrNoPendingResult      = &CouponError{Kind: KindNoPendingResult, Message: "no draw result to save"}
	ErrInvalidCredentials   = &CouponError{Kind: KindInvalidCredentials, Message: "invalid username or password"}
	ErrSessionExpired       = &CouponError{Kind: KindSessionExpired, Message: "session expired"}
)

func newError(kind ErrorKind, format string, args ...interface{}) *CouponError {
	return &CouponError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// ParseNumbers parses operator input and formats it for storage.
func ParseNumbers(text string) ([]string, error) {
	numbers, err := utils.ParseCouponNumbers(text)
	if err != nil {
		return nil, fromParseError(err)
	}
	return utils.FormatCouponNumbers(numbers), nil
}

func fromParseError(err error) error {
	var perr *utils.NumberParseError
	if !errors.As(err, &perr) {
		return err
	}
	switch {
	case errors.Is(err, utils.ErrEmptyInput):
		return newError(KindEmptyInput, "enter at least one coupon number")
	case errors.Is(err, utils.ErrOutOfRange):
		return newError(KindOutOfRange, "coupon numbers must be between %d and %d, got %q",
			utils.MinCouponNumber, utils.MaxCouponNumber, perr.Token)
	default:
		return newError(KindInvalidFormat, "invalid coupon number format %q", perr.Token)
	}
}
