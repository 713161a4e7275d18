package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/wijk-raffle/kupon-backend/internal/models"
	"github.com/wijk-raffle/kupon-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure CouponRepository implements the interface
var _ repositories.CouponRepository = (*CouponRepository)(nil)

// CouponRepository handles MongoDB operations for coupon allocations
type CouponRepository struct {
	collection *mongo.Collection
}

// NewCouponRepository creates a new CouponRepository
func NewCouponRepository(db *mongo.Database) *CouponRepository {
	return &CouponRepository{
		collection: db.Collection("kupons"),
	}
}

// EnsureIndexes creates the indexes used by listing and eligibility queries
func (r *CouponRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "statusPembayaran", Value: 1}, {Key: "statusPenerimaan", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "nomorKupon", Value: 1}}},
	})
	return err
}

// Create inserts a new allocation
func (r *CouponRepository) Create(ctx context.Context, coupon *models.CouponAllocation) error {
	coupon.ID = primitive.NewObjectID().Hex()
	coupon.CreatedAt = time.Now()
	coupon.UpdatedAt = coupon.CreatedAt
	if coupon.CouponNumbers == nil {
		coupon.CouponNumbers = []string{}
	}
	if _, err := r.collection.InsertOne(ctx, coupon); err != nil {
		return fmt.Errorf("insert coupon: %w", err)
	}
	return nil
}

// Update replaces the mutable fields of an allocation
func (r *CouponRepository) Update(ctx context.Context, coupon *models.CouponAllocation) error {
	coupon.UpdatedAt = time.Now()
	if coupon.CouponNumbers == nil {
		coupon.CouponNumbers = []string{}
	}
	update := bson.M{
		"$set": bson.M{
			"namaKeluarga":      coupon.FamilyName,
			"namaRemaja":        coupon.ParticipantName,
			"kategoriPembelian": coupon.Category,
			"nomorKupon":        coupon.CouponNumbers,
			"jumlahKupon":       coupon.Quantity,
			"wijk":              coupon.Zone,
			"harga":             coupon.Amount,
			"jumlahDibayar":     coupon.AmountPaid,
			"statusPembayaran":  coupon.PaymentStatus,
			"statusPenerimaan":  coupon.ReceiptStatus,
			"updatedAt":         coupon.UpdatedAt,
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": coupon.ID}, update)
	if err != nil {
		return fmt.Errorf("update coupon: %w", err)
	}
	if res.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// Delete removes an allocation
func (r *CouponRepository) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete coupon: %w", err)
	}
	if res.DeletedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// FindByID finds an allocation by ID
func (r *CouponRepository) FindByID(ctx context.Context, id string) (*models.CouponAllocation, error) {
	var coupon models.CouponAllocation
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&coupon)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("find coupon: %w", err)
	}
	return &coupon, nil
}

// FindAll finds allocations matching the filter, newest first
func (r *CouponRepository) FindAll(ctx context.Context, filter models.CouponFilter) ([]*models.CouponAllocation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.find(ctx, buildCouponFilter(filter), opts)
}

// FindByStatus finds allocations with the given payment and receipt status
func (r *CouponRepository) FindByStatus(ctx context.Context, payment models.PaymentStatus, receipt models.ReceiptStatus) ([]*models.CouponAllocation, error) {
	return r.find(ctx, bson.M{
		"statusPembayaran": payment,
		"statusPenerimaan": receipt,
	})
}

// FindAllNumbers returns every coupon number across all allocations
func (r *CouponRepository) FindAllNumbers(ctx context.Context) ([]string, error) {
	values, err := r.collection.Distinct(ctx, "nomorKupon", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("distinct coupon numbers: %w", err)
	}
	numbers := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			numbers = append(numbers, s)
		}
	}
	return numbers, nil
}

func (r *CouponRepository) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]*models.CouponAllocation, error) {
	cursor, err := r.collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("find coupons: %w", err)
	}
	defer cursor.Close(ctx)

	var coupons []*models.CouponAllocation
	if err := cursor.All(ctx, &coupons); err != nil {
		return nil, fmt.Errorf("decode coupons: %w", err)
	}
	if coupons == nil {
		return []*models.CouponAllocation{}, nil
	}
	return coupons, nil
}

func buildCouponFilter(f models.CouponFilter) bson.M {
	filter := bson.M{}
	if f.Zone != "" {
		filter["wijk"] = f.Zone
	}
	if f.PaymentStatus != "" {
		if f.PaymentStatus.IsUnpaid() {
			filter["statusPembayaran"] = bson.M{"$in": []models.PaymentStatus{models.PaymentUnpaid, models.PaymentUnpaidLegacy}}
		} else {
			filter["statusPembayaran"] = f.PaymentStatus
		}
	}
	if f.ReceiptStatus != "" {
		filter["statusPenerimaan"] = f.ReceiptStatus
	}
	if f.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"namaKeluarga": pattern},
			bson.M{"namaRemaja": pattern},
			bson.M{"nomorKupon": pattern},
		}
	}
	return filter
}
