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

// WinnerRepository implements the repositories.WinnerRepository interface
type WinnerRepository struct {
	mu      sync.RWMutex
	winners map[string]*models.Winner
}

// NewWinnerRepository creates a new WinnerRepository
func NewWinnerRepository() *WinnerRepository {
	return &WinnerRepository{winners: make(map[string]*models.Winner)}
}

// Create stores a winner and assigns its ID
func (r *WinnerRepository) Create(ctx context.Context, winner *models.Winner) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	winner.ID = uuid.NewString()
	if winner.DrawnAt.IsZero() {
		winner.DrawnAt = time.Now()
	}
	w := *winner
	r.winners[w.ID] = &w
	return nil
}

// Delete removes a winner
func (r *WinnerRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.winners[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.winners, id)
	return nil
}

// FindAll returns winners, most recent draw first
func (r *WinnerRepository) FindAll(ctx context.Context) ([]*models.Winner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	winners := make([]*models.Winner, 0, len(r.winners))
	for _, w := range r.winners {
		c := *w
		winners = append(winners, &c)
	}
	sort.SliceStable(winners, func(i, j int) bool {
		return winners[i].DrawnAt.After(winners[j].DrawnAt)
	})
	return winners, nil
}

// FindAllNumbers returns the coupon numbers of all winners
func (r *WinnerRepository) FindAllNumbers(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	numbers := make([]string, 0, len(r.winners))
	for _, w := range r.winners {
		numbers = append(numbers, w.CouponNumber)
	}
	return numbers, nil
}
