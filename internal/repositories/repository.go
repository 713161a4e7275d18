package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/wijk-raffle/kupon-backend/internal/models"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = errors.New("record not found")

// CouponRepository defines the interface for coupon allocation data operations.
// No isolation is assumed between a read and a following write.
type CouponRepository interface {
	Create(ctx context.Context, coupon *models.CouponAllocation) error
	Update(ctx context.Context, coupon *models.CouponAllocation) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*models.CouponAllocation, error)
	// FindAll returns records matching filter, newest first.
	FindAll(ctx context.Context, filter models.CouponFilter) ([]*models.CouponAllocation, error)
	FindByStatus(ctx context.Context, payment models.PaymentStatus, receipt models.ReceiptStatus) ([]*models.CouponAllocation, error)
	// FindAllNumbers returns every coupon number held by any record.
	FindAllNumbers(ctx context.Context) ([]string, error)
}

// WinnerRepository defines the interface for winner data operations
type WinnerRepository interface {
	Create(ctx context.Context, winner *models.Winner) error
	Delete(ctx context.Context, id string) error
	// FindAll returns winners ordered by draw time, newest first.
	FindAll(ctx context.Context) ([]*models.Winner, error)
	FindAllNumbers(ctx context.Context) ([]string, error)
}

// UserRepository defines the interface for operator account operations
type UserRepository interface {
	Create(ctx context.Context, user *models.AdminUser) error
	FindByUsername(ctx context.Context, username string) (*models.AdminUser, error)
}

// SessionRepository records revoked session tokens until they would expire anyway.
type SessionRepository interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
