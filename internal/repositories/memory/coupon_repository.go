// Package memory holds map-backed repositories for local development and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wijk-raffle/kupon-backend/internal/models"
	"github.com/wijk-raffle/kupon-backend/internal/repositories"
)

// CouponRepository implements the repositories.CouponRepository interface
type CouponRepository struct {
	mu      sync.RWMutex
	coupons map[string]*models.CouponAllocation
	now     func() time.Time
	last    time.Time
}

// NewCouponRepository creates a new CouponRepository
func NewCouponRepository() *CouponRepository {
	return &CouponRepository{
		coupons: make(map[string]*models.CouponAllocation),
		now:     time.Now,
	}
}

// Create stores a new allocation and assigns its ID
func (r *CouponRepository) Create(ctx context.Context, coupon *models.CouponAllocation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := r.now()
	if !created.After(r.last) {
		// keep insertion order visible when the clock does not advance
		created = r.last.Add(time.Nanosecond)
	}
	r.last = created

	coupon.ID = uuid.NewString()
	coupon.CreatedAt = created
	coupon.UpdatedAt = coupon.CreatedAt
	r.coupons[coupon.ID] = copyCoupon(coupon)
	return nil
}

// Update replaces an existing allocation
func (r *CouponRepository) Update(ctx context.Context, coupon *models.CouponAllocation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.coupons[coupon.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	coupon.CreatedAt = existing.CreatedAt
	coupon.UpdatedAt = r.now()
	r.coupons[coupon.ID] = copyCoupon(coupon)
	return nil
}

// Delete removes an allocation
func (r *CouponRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.coupons[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.coupons, id)
	return nil
}

// FindByID finds an allocation by ID
func (r *CouponRepository) FindByID(ctx context.Context, id string) (*models.CouponAllocation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	coupon, ok := r.coupons[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return copyCoupon(coupon), nil
}

// FindAll returns allocations matching the filter, newest first
func (r *CouponRepository) FindAll(ctx context.Context, filter models.CouponFilter) ([]*models.CouponAllocation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	coupons := make([]*models.CouponAllocation, 0, len(r.coupons))
	for _, c := range r.coupons {
		if filter.Matches(c) {
			coupons = append(coupons, copyCoupon(c))
		}
	}
	sort.SliceStable(coupons, func(i, j int) bool {
		if coupons[i].CreatedAt.Equal(coupons[j].CreatedAt) {
			return coupons[i].ID < coupons[j].ID
		}
		return coupons[i].CreatedAt.After(coupons[j].CreatedAt)
	})
	return coupons, nil
}

// FindByStatus returns allocations with exactly the given statuses
func (r *CouponRepository) FindByStatus(ctx context.Context, payment models.PaymentStatus, receipt models.ReceiptStatus) ([]*models.CouponAllocation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var coupons []*models.CouponAllocation
	for _, c := range r.coupons {
		if c.PaymentStatus == payment && c.ReceiptStatus == receipt {
			coupons = append(coupons, copyCoupon(c))
		}
	}
	if coupons == nil {
		return []*models.CouponAllocation{}, nil
	}
	return coupons, nil
}

// FindAllNumbers returns every coupon number held by any allocation
func (r *CouponRepository) FindAllNumbers(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	numbers := make([]string, 0)
	for _, c := range r.coupons {
		numbers = append(numbers, c.CouponNumbers...)
	}
	sort.Strings(numbers)
	return numbers, nil
}

func copyCoupon(c *models.CouponAllocation) *models.CouponAllocation {
	out := *c
	out.CouponNumbers = append([]string(nil), c.CouponNumbers...)
	if out.CouponNumbers == nil {
		out.CouponNumbers = []string{}
	}
	return &out
}
