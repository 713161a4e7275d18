package services

import (
	"context"

	"github.com/wijk-raffle/kupon-backend/internal/models"
)

// DrawService defines the interface for draw-related operations
type DrawService interface {
	// EligibleCount returns the number of Lunas and Diterima coupons
	EligibleCount(ctx context.Context) (int, error)

	// Draw selects a coupon for the operator and holds it as an unsaved result
	Draw(ctx context.Context, operator string) (*models.DrawStatus, error)

	// Current returns the operator's draw state
	Current(operator string) *models.DrawStatus

	// Discard drops the operator's unsaved result
	Discard(operator string) error

	// SaveWinner persists the operator's result as a winner
	SaveWinner(ctx context.Context, operator string) (*models.Winner, error)
}
