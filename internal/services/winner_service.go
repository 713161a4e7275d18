package services

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/wijk-raffle/kupon-backend/internal/models"
	"github.com/wijk-raffle/kupon-backend/internal/repositories"
)

// WinnerService handles saved draw results
type WinnerService struct {
	winnerRepo repositories.WinnerRepository
	logger     logrus.FieldLogger
}

// NewWinnerService creates a new WinnerService
func NewWinnerService(winnerRepo repositories.WinnerRepository, logger logrus.FieldLogger) *WinnerService {
	return &WinnerService{winnerRepo: winnerRepo, logger: logger}
}

// ListWinners returns winners, most recent first
func (s *WinnerService) ListWinners(ctx context.Context) ([]*models.Winner, error) {
	return s.winnerRepo.FindAll(ctx)
}

// DeleteWinner removes a winner. Its coupon number becomes drawable again.
func (s *WinnerService) DeleteWinner(ctx context.Context, id string) error {
	if err := s.winnerRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.WithField("winnerId", id).Warn("Winner deleted")
	return nil
}
