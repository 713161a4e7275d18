package services

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/wijk-raffle/kupon-backend/internal/models"
	"github.com/wijk-raffle/kupon-backend/internal/repositories"
)

// ComputeStatistics folds the record set into dashboard totals. Unpaid
// records never contribute their negative amount to income.
func ComputeStatistics(records []*models.CouponAllocation) models.Statistics {
	var stats models.Statistics
	stats.TotalPartisipan = len(records)

	for _, r := range records {
		count := r.CouponCount()
		stats.TotalKupon += count

		switch {
		case r.PaymentStatus == models.PaymentFullyPaid:
			stats.TotalLunas += count
			stats.TotalPemasukan += abs(r.Amount)
		case r.PaymentStatus == models.PaymentPartiallyPaid:
			stats.TotalDP += count
			stats.TotalPemasukan += r.AmountPaid
		case r.PaymentStatus.IsUnpaid():
			stats.TotalBelumLunas += count
		}

		if r.ReceiptStatus == models.ReceiptReceived {
			stats.TotalDiterima += count
		} else {
			stats.TotalBelumDiterima += count
		}
	}
	return stats
}

// StatisticsService serves the dashboard roll-up from the coupon store.
type StatisticsService struct {
	couponRepo repositories.CouponRepository
	logger     logrus.FieldLogger
}

// NewStatisticsService creates a new StatisticsService
func NewStatisticsService(couponRepo repositories.CouponRepository, logger logrus.FieldLogger) *StatisticsService {
	return &StatisticsService{couponRepo: couponRepo, logger: logger}
}

// GetStatistics loads every record and aggregates it.
func (s *StatisticsService) GetStatistics(ctx context.Context) (models.Statistics, error) {
	records, err := s.couponRepo.FindAll(ctx, models.CouponFilter{})
	if err != nil {
		return models.Statistics{}, err
	}
	stats := ComputeStatistics(records)
	s.logger.WithFields(logrus.Fields{
		"records": stats.TotalPartisipan,
		"coupons": stats.TotalKupon,
	}).Debug("Statistics computed")
	return stats, nil
}
