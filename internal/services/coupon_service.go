package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/wijk-raffle/kupon-backend/internal/metrics"
	"github.com/wijk-raffle/kupon-backend/internal/models"
	"github.com/wijk-raffle/kupon-backend/internal/repositories"
	"github.com/wijk-raffle/kupon-backend/internal/utils"
)

// CouponInput is the operator's form for creating or editing an allocation.
// CouponNumbers is free text such as "1-10, 15" and is ignored for bookings.
type CouponInput struct {
	FamilyName      string                `json:"familyName"`
	ParticipantName string                `json:"participantName"`
	Category        string                `json:"category"`
	Zone            string                `json:"zone"`
	Mode            models.AllocationMode `json:"mode"`
	CouponNumbers   string                `json:"couponNumbers"`
	Quantity        int                   `json:"quantity"`
	Paid            int64                 `json:"paid"`
	PaymentStatus   models.PaymentStatus  `json:"paymentStatus"`
	ReceiptStatus   models.ReceiptStatus  `json:"receiptStatus"`
}

// CouponService handles coupon allocation business logic
type CouponService struct {
	couponRepo repositories.CouponRepository
	unitPrice  int64
	logger     logrus.FieldLogger
}

// NewCouponService creates a new CouponService
func NewCouponService(couponRepo repositories.CouponRepository, unitPrice int64, logger logrus.FieldLogger) *CouponService {
	if unitPrice <= 0 {
		unitPrice = DefaultUnitPrice
	}
	return &CouponService{
		couponRepo: couponRepo,
		unitPrice:  unitPrice,
		logger:     logger,
	}
}

// UnitPrice returns the configured price of one coupon
func (s *CouponService) UnitPrice() int64 {
	return s.unitPrice
}

// Calculate previews an allocation without checking collisions or writing.
func (s *CouponService) Calculate(in CouponInput) (*Allocation, error) {
	numbers, err := s.parseForMode(in)
	if err != nil {
		return nil, err
	}
	return CalculateAllocation(s.allocationInput(in, numbers))
}

// CheckNumbers parses text and checks it against numbers held by other
// records. excludeID names the record being edited, if any.
func (s *CouponService) CheckNumbers(ctx context.Context, text, excludeID string) ([]string, error) {
	numbers, err := ParseNumbers(text)
	if err != nil {
		return nil, err
	}
	if err := s.checkCollisions(ctx, numbers, excludeID); err != nil {
		return numbers, err
	}
	return numbers, nil
}

// CreateCoupon validates, prices and stores a new allocation
func (s *CouponService) CreateCoupon(ctx context.Context, in CouponInput) (*models.CouponAllocation, error) {
	coupon, err := s.build(ctx, in, nil)
	if err != nil {
		return nil, err
	}
	if err := s.couponRepo.Create(ctx, coupon); err != nil {
		return nil, fmt.Errorf("create coupon: %w", err)
	}

	metrics.RecordAllocation(string(modeOf(coupon)), string(coupon.PaymentStatus))
	s.logger.WithFields(logrus.Fields{
		"id":            coupon.ID,
		"participant":   coupon.DisplayName(),
		"quantity":      coupon.Quantity,
		"paymentStatus": coupon.PaymentStatus,
		"booking":       coupon.IsBooking(),
	}).Info("Coupon allocation created")
	return coupon, nil
}

// UpdateCoupon re-runs the allocation for an existing record
func (s *CouponService) UpdateCoupon(ctx context.Context, id string, in CouponInput) (*models.CouponAllocation, error) {
	existing, err := s.couponRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	coupon, err := s.build(ctx, in, existing)
	if err != nil {
		return nil, err
	}
	if err := s.couponRepo.Update(ctx, coupon); err != nil {
		return nil, fmt.Errorf("update coupon: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"id":            coupon.ID,
		"participant":   coupon.DisplayName(),
		"quantity":      coupon.Quantity,
		"paymentStatus": coupon.PaymentStatus,
	}).Info("Coupon allocation updated")
	return coupon, nil
}

// DeleteCoupon removes an allocation; its numbers become free again
func (s *CouponService) DeleteCoupon(ctx context.Context, id string) error {
	if err := s.couponRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.WithField("id", id).Info("Coupon allocation deleted")
	return nil
}

// GetCoupon retrieves an allocation by ID
func (s *CouponService) GetCoupon(ctx context.Context, id string) (*models.CouponAllocation, error) {
	return s.couponRepo.FindByID(ctx, id)
}

// ListCoupons retrieves allocations matching the filter, newest first
func (s *CouponService) ListCoupons(ctx context.Context, filter models.CouponFilter) ([]*models.CouponAllocation, error) {
	return s.couponRepo.FindAll(ctx, filter)
}

// UsedNumbers returns every issued coupon number in ascending order
func (s *CouponService) UsedNumbers(ctx context.Context) ([]string, error) {
	numbers, err := s.couponRepo.FindAllNumbers(ctx)
	if err != nil {
		return nil, err
	}
	sort.Strings(numbers)
	return numbers, nil
}

// Number board views
const (
	BoardAll       = "all"
	BoardTaken     = "taken"
	BoardAvailable = "available"
)

// NumberBoard lists every number in range with its owner, filtered by view.
func (s *CouponService) NumberBoard(ctx context.Context, view string) ([]models.NumberSlot, error) {
	records, err := s.couponRepo.FindAll(ctx, models.CouponFilter{})
	if err != nil {
		return nil, err
	}

	owners := make(map[string]*models.CouponAllocation)
	for _, r := range records {
		for _, n := range r.CouponNumbers {
			owners[utils.NormalizeCouponNumber(n)] = r
		}
	}

	slots := make([]models.NumberSlot, 0, utils.MaxCouponNumber)
	for i := utils.MinCouponNumber; i <= utils.MaxCouponNumber; i++ {
		number := utils.FormatCouponNumber(i)
		owner, taken := owners[number]
		if (view == BoardTaken && !taken) || (view == BoardAvailable && taken) {
			continue
		}
		slot := models.NumberSlot{Number: number, Taken: taken}
		if taken {
			slot.AllocationID = owner.ID
			slot.FamilyName = owner.FamilyName
			slot.ParticipantName = owner.ParticipantName
			slot.Zone = owner.Zone
			slot.PaymentStatus = owner.PaymentStatus
			slot.ReceiptStatus = owner.ReceiptStatus
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

// build turns input into a stored record. existing is nil for creates.
func (s *CouponService) build(ctx context.Context, in CouponInput, existing *models.CouponAllocation) (*models.CouponAllocation, error) {
	if err := validateInput(&in); err != nil {
		return nil, err
	}

	numbers, err := s.parseForMode(in)
	if err != nil {
		return nil, err
	}
	if len(numbers) > 0 {
		excludeID := ""
		if existing != nil {
			excludeID = existing.ID
		}
		if err := s.checkCollisions(ctx, numbers, excludeID); err != nil {
			return nil, err
		}
	}

	alloc, err := CalculateAllocation(s.allocationInput(in, numbers))
	if err != nil {
		return nil, err
	}

	coupon := &models.CouponAllocation{}
	if existing != nil {
		*coupon = *existing
	}
	coupon.FamilyName = in.FamilyName
	coupon.ParticipantName = in.ParticipantName
	coupon.Category = in.Category
	coupon.Zone = in.Zone
	coupon.ReceiptStatus = in.ReceiptStatus
	alloc.ApplyTo(coupon)
	return coupon, nil
}

func (s *CouponService) parseForMode(in CouponInput) ([]string, error) {
	if in.Mode == models.ModeBooking {
		return []string{}, nil
	}
	return ParseNumbers(in.CouponNumbers)
}

func (s *CouponService) allocationInput(in CouponInput, numbers []string) AllocationInput {
	return AllocationInput{
		Mode:      in.Mode,
		Status:    in.PaymentStatus,
		Numbers:   numbers,
		Quantity:  in.Quantity,
		Paid:      in.Paid,
		UnitPrice: s.unitPrice,
	}
}

func (s *CouponService) checkCollisions(ctx context.Context, numbers []string, excludeID string) error {
	existing, err := s.UsedNumbers(ctx)
	if err != nil {
		return fmt.Errorf("load issued numbers: %w", err)
	}
	if excludeID != "" {
		own, err := s.couponRepo.FindByID(ctx, excludeID)
		if err != nil {
			return err
		}
		existing = excludeNumbers(existing, own.CouponNumbers)
	}
	return CheckCollisions(numbers, existing)
}

func validateInput(in *CouponInput) error {
	in.FamilyName = strings.TrimSpace(in.FamilyName)
	in.ParticipantName = strings.TrimSpace(in.ParticipantName)
	in.Zone = strings.TrimSpace(in.Zone)
	in.Category = strings.TrimSpace(in.Category)

	if in.FamilyName == "" && in.ParticipantName == "" {
		return newError(KindInvalidRecord, "enter a family name or a participant name")
	}
	if !contains(models.Zones, in.Zone) {
		return newError(KindInvalidRecord, "unknown zone %q", in.Zone)
	}
	if !contains(models.Categories, in.Category) {
		return newError(KindInvalidRecord, "unknown category %q", in.Category)
	}
	if in.ReceiptStatus == "" {
		in.ReceiptStatus = models.ReceiptNotReceived
	}
	if !in.ReceiptStatus.IsValid() {
		return newError(KindInvalidRecord, "unknown receipt status %q", in.ReceiptStatus)
	}
	return nil
}

func modeOf(c *models.CouponAllocation) models.AllocationMode {
	if c.IsBooking() {
		return models.ModeBooking
	}
	return models.ModeDirect
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
