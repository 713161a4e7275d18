package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wijk-raffle/kupon-backend/internal/models"
	"github.com/wijk-raffle/kupon-backend/internal/repositories"
)

var (
	_ repositories.WinnerRepository = (*WinnerRepository)(nil)
	_ repositories.UserRepository   = (*UserRepository)(nil)
)

// WinnerRepository handles winner rows
type WinnerRepository struct {
	db DBExecutor
}

// NewWinnerRepository creates a new winner repository
func NewWinnerRepository(db DBExecutor) *WinnerRepository {
	return &WinnerRepository{db: db}
}

// Create inserts a winner
func (r *WinnerRepository) Create(ctx context.Context, w *models.Winner) error {
	query := `
		INSERT INTO winners (id, nomor_kupon, nama_keluarga, nama_remaja, kategori_pembelian, wijk, waktu_undi, drawn_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	w.ID = uuid.NewString()
	if w.DrawnAt.IsZero() {
		w.DrawnAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, query,
		w.ID, w.CouponNumber, w.FamilyName, w.ParticipantName, w.Category, w.Zone, w.DrawnAt, w.DrawnBy)
	if err != nil {
		return fmt.Errorf("failed to insert winner: %w", err)
	}
	return nil
}

// Delete removes a winner
func (r *WinnerRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM winners WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete winner: %w", err)
	}
	return expectOneRow(result)
}

// FindAll lists winners, most recent draw first
func (r *WinnerRepository) FindAll(ctx context.Context) ([]*models.Winner, error) {
	query := `
		SELECT id, nomor_kupon, nama_keluarga, nama_remaja, kategori_pembelian, wijk, waktu_undi, drawn_by
		FROM winners
		ORDER BY waktu_undi DESC
	`

	winners := []*models.Winner{}
	if err := r.db.SelectContext(ctx, &winners, query); err != nil {
		return nil, fmt.Errorf("failed to list winners: %w", err)
	}
	return winners, nil
}

// FindAllNumbers returns the coupon numbers that have already won
func (r *WinnerRepository) FindAllNumbers(ctx context.Context) ([]string, error) {
	numbers := []string{}
	if err := r.db.SelectContext(ctx, &numbers, `SELECT nomor_kupon FROM winners`); err != nil {
		return nil, fmt.Errorf("failed to list winner numbers: %w", err)
	}
	return numbers, nil
}

// UserRepository handles operator account rows
type UserRepository struct {
	db DBExecutor
}

// NewUserRepository creates a new user repository
func NewUserRepository(db DBExecutor) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts an operator account
func (r *UserRepository) Create(ctx context.Context, u *models.AdminUser) error {
	query := `
		INSERT INTO users (id, username, password, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	if _, err := r.db.ExecContext(ctx, query, u.ID, u.Username, u.PasswordHash, u.Role, u.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// FindByUsername finds an operator by username
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	var u models.AdminUser
	err := r.db.GetContext(ctx, &u, `SELECT id, username, password, role, created_at FROM users WHERE username = $1`, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}
