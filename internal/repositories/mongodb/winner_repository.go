package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/wijk-raffle/kupon-backend/internal/models"
	"github.com/wijk-raffle/kupon-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ repositories.WinnerRepository = (*WinnerRepository)(nil)

// WinnerRepository implements the repositories.WinnerRepository interface
type WinnerRepository struct {
	collection *mongo.Collection
}

// NewWinnerRepository creates a new WinnerRepository
func NewWinnerRepository(db *mongo.Database) *WinnerRepository {
	return &WinnerRepository{
		collection: db.Collection("winners"),
	}
}

// Create inserts a winner
func (r *WinnerRepository) Create(ctx context.Context, winner *models.Winner) error {
	winner.ID = primitive.NewObjectID().Hex()
	if winner.DrawnAt.IsZero() {
		winner.DrawnAt = time.Now()
	}
	if _, err := r.collection.InsertOne(ctx, winner); err != nil {
		return fmt.Errorf("insert winner: %w", err)
	}
	return nil
}

// Delete removes a winner
func (r *WinnerRepository) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete winner: %w", err)
	}
	if res.DeletedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// FindAll finds all winners sorted by draw time descending
func (r *WinnerRepository) FindAll(ctx context.Context) ([]*models.Winner, error) {
	opts := options.Find().SetSort(bson.M{"waktuUndi": -1})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find winners: %w", err)
	}
	defer cursor.Close(ctx)

	var winners []*models.Winner
	if err := cursor.All(ctx, &winners); err != nil {
		return nil, fmt.Errorf("decode winners: %w", err)
	}
	if winners == nil {
		return []*models.Winner{}, nil
	}
	return winners, nil
}

// FindAllNumbers returns the coupon numbers that have already won
func (r *WinnerRepository) FindAllNumbers(ctx context.Context) ([]string, error) {
	opts := options.Find().SetProjection(bson.M{"nomorKupon": 1})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find winner numbers: %w", err)
	}
	defer cursor.Close(ctx)

	numbers := make([]string, 0)
	for cursor.Next(ctx) {
		var doc struct {
			CouponNumber string `bson:"nomorKupon"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode winner number: %w", err)
		}
		numbers = append(numbers, doc.CouponNumber)
	}
	return numbers, cursor.Err()
}
