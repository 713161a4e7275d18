package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/wijk-raffle/kupon-backend/internal/models"
	"github.com/wijk-raffle/kupon-backend/internal/repositories"
)

var _ repositories.CouponRepository = (*CouponRepository)(nil)

const couponColumns = `id, nama_keluarga, nama_remaja, kategori_pembelian, nomor_kupon, jumlah_kupon,
	wijk, harga, jumlah_dibayar, status_pembayaran, status_penerimaan, created_at, updated_at`

// couponRow carries the number array, which sqlx cannot scan into []string
type couponRow struct {
	models.CouponAllocation
	Numbers pq.StringArray `db:"nomor_kupon"`
}

func (r couponRow) toModel() *models.CouponAllocation {
	c := r.CouponAllocation
	c.CouponNumbers = []string(r.Numbers)
	if c.CouponNumbers == nil {
		c.CouponNumbers = []string{}
	}
	return &c
}

// CouponRepository handles coupon allocation rows
type CouponRepository struct {
	db DBExecutor
}

// NewCouponRepository creates a new coupon repository
func NewCouponRepository(db DBExecutor) *CouponRepository {
	return &CouponRepository{db: db}
}

// Create inserts a new allocation
func (r *CouponRepository) Create(ctx context.Context, c *models.CouponAllocation) error {
	query := `
		INSERT INTO kupons (id, nama_keluarga, nama_remaja, kategori_pembelian, nomor_kupon, jumlah_kupon,
			wijk, harga, jumlah_dibayar, status_pembayaran, status_penerimaan, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
	`

	c.ID = uuid.NewString()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.FamilyName, c.ParticipantName, c.Category, pq.Array(c.CouponNumbers), c.Quantity,
		c.Zone, c.Amount, c.AmountPaid, c.PaymentStatus, c.ReceiptStatus, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert coupon: %w", err)
	}
	return nil
}

// Update replaces the mutable columns of an allocation
func (r *CouponRepository) Update(ctx context.Context, c *models.CouponAllocation) error {
	query := `
		UPDATE kupons
		SET nama_keluarga = $2, nama_remaja = $3, kategori_pembelian = $4, nomor_kupon = $5,
			jumlah_kupon = $6, wijk = $7, harga = $8, jumlah_dibayar = $9,
			status_pembayaran = $10, status_penerimaan = $11, updated_at = $12
		WHERE id = $1
	`

	c.UpdatedAt = time.Now()
	result, err := r.db.ExecContext(ctx, query,
		c.ID, c.FamilyName, c.ParticipantName, c.Category, pq.Array(c.CouponNumbers), c.Quantity,
		c.Zone, c.Amount, c.AmountPaid, c.PaymentStatus, c.ReceiptStatus, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update coupon: %w", err)
	}
	return expectOneRow(result)
}

// Delete removes an allocation
func (r *CouponRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM kupons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete coupon: %w", err)
	}
	return expectOneRow(result)
}

// FindByID finds an allocation by ID
func (r *CouponRepository) FindByID(ctx context.Context, id string) (*models.CouponAllocation, error) {
	var row couponRow
	err := r.db.GetContext(ctx, &row, `SELECT `+couponColumns+` FROM kupons WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get coupon: %w", err)
	}
	return row.toModel(), nil
}

// FindAll lists allocations matching the filter, newest first
func (r *CouponRepository) FindAll(ctx context.Context, filter models.CouponFilter) ([]*models.CouponAllocation, error) {
	where, args := buildCouponWhere(filter)
	query := `SELECT ` + couponColumns + ` FROM kupons` + where + ` ORDER BY created_at DESC`
	return r.selectCoupons(ctx, query, args...)
}

// FindByStatus lists allocations with the given payment and receipt status
func (r *CouponRepository) FindByStatus(ctx context.Context, payment models.PaymentStatus, receipt models.ReceiptStatus) ([]*models.CouponAllocation, error) {
	query := `SELECT ` + couponColumns + ` FROM kupons WHERE status_pembayaran = $1 AND status_penerimaan = $2`
	return r.selectCoupons(ctx, query, payment, receipt)
}

// FindAllNumbers returns every coupon number across all allocations
func (r *CouponRepository) FindAllNumbers(ctx context.Context) ([]string, error) {
	var numbers []string
	err := r.db.SelectContext(ctx, &numbers, `SELECT DISTINCT unnest(nomor_kupon) FROM kupons`)
	if err != nil {
		return nil, fmt.Errorf("failed to list coupon numbers: %w", err)
	}
	sort.Strings(numbers)
	return numbers, nil
}

func (r *CouponRepository) selectCoupons(ctx context.Context, query string, args ...interface{}) ([]*models.CouponAllocation, error) {
	var rows []couponRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list coupons: %w", err)
	}
	coupons := make([]*models.CouponAllocation, 0, len(rows))
	for _, row := range rows {
		coupons = append(coupons, row.toModel())
	}
	return coupons, nil
}

func buildCouponWhere(f models.CouponFilter) (string, []interface{}) {
	var (
		clauses []string
		args    []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Zone != "" {
		clauses = append(clauses, "wijk = "+arg(f.Zone))
	}
	if f.PaymentStatus != "" {
		if f.PaymentStatus.IsUnpaid() {
			clauses = append(clauses, fmt.Sprintf("status_pembayaran IN (%s, %s)",
				arg(models.PaymentUnpaid), arg(models.PaymentUnpaidLegacy)))
		} else {
			clauses = append(clauses, "status_pembayaran = "+arg(f.PaymentStatus))
		}
	}
	if f.ReceiptStatus != "" {
		clauses = append(clauses, "status_penerimaan = "+arg(f.ReceiptStatus))
	}
	if f.Search != "" {
		p := arg("%" + escapeLike(strings.TrimSpace(f.Search)) + "%")
		clauses = append(clauses, fmt.Sprintf(
			"(nama_keluarga ILIKE %[1]s OR nama_remaja ILIKE %[1]s OR array_to_string(nomor_kupon, ',') ILIKE %[1]s)", p))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func expectOneRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
