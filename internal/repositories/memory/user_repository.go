package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wijk-raffle/kupon-backend/internal/models"
	"github.com/wijk-raffle/kupon-backend/internal/repositories"
)

// UserRepository implements the repositories.UserRepository interface
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*models.AdminUser
}

// NewUserRepository creates a new UserRepository
func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]*models.AdminUser)}
}

// Create stores an operator account; usernames are unique
func (r *UserRepository) Create(ctx context.Context, user *models.AdminUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.Username]; ok {
		return fmt.Errorf("user %q already exists", user.Username)
	}
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	u := *user
	r.users[u.Username] = &u
	return nil
}

// FindByUsername finds an operator by username
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[username]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c := *u
	return &c, nil
}

// SessionRepository keeps revoked token IDs in memory until they expire
type SessionRepository struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{revoked: make(map[string]time.Time), now: time.Now}
}

// Revoke marks a token ID as revoked for ttl
func (r *SessionRepository) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.revoked[tokenID] = r.now().Add(ttl)
	return nil
}

// IsRevoked reports whether a token ID was revoked and has not yet expired
func (r *SessionRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	until, ok := r.revoked[tokenID]
	if !ok {
		return false, nil
	}
	if r.now().After(until) {
		delete(r.revoked, tokenID)
		return false, nil
	}
	return true, nil
}
