// Package store opens the repositories selected by configuration.
package store

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/wijk-raffle/kupon-backend/internal/config"
	"github.com/wijk-raffle/kupon-backend/internal/repositories"
	"github.com/wijk-raffle/kupon-backend/internal/repositories/memory"
	mongorepo "github.com/wijk-raffle/kupon-backend/internal/repositories/mongodb"
	pgrepo "github.com/wijk-raffle/kupon-backend/internal/repositories/postgres"
	redisrepo "github.com/wijk-raffle/kupon-backend/internal/repositories/redis"
	"github.com/wijk-raffle/kupon-backend/pkg/cache"
	"github.com/wijk-raffle/kupon-backend/pkg/mongodb"
	"github.com/wijk-raffle/kupon-backend/pkg/postgres"
)

// Stores bundles the repositories and the health checks of their backends
type Stores struct {
	Coupons  repositories.CouponRepository
	Winners  repositories.WinnerRepository
	Users    repositories.UserRepository
	Sessions repositories.SessionRepository
	Pingers  map[string]func(context.Context) error

	closers []func(context.Context) error
}

// Open connects to the configured backends. Call Close when done.
func Open(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger) (*Stores, error) {
	s := &Stores{Pingers: make(map[string]func(context.Context) error)}

	switch cfg.Storage.Driver {
	case config.DriverMongoDB:
		client, err := mongodb.NewClient(ctx, cfg.MongoDB.URI, cfg.MongoDB.ConnectTimeout)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, client.Disconnect)
		s.Pingers["mongodb"] = client.Ping

		db := client.Database(cfg.MongoDB.Database)
		coupons := mongorepo.NewCouponRepository(db)
		users := mongorepo.NewUserRepository(db)
		if err := coupons.EnsureIndexes(ctx); err != nil {
			s.Close(ctx)
			return nil, fmt.Errorf("coupon indexes: %w", err)
		}
		if err := users.EnsureIndexes(ctx); err != nil {
			s.Close(ctx)
			return nil, fmt.Errorf("user indexes: %w", err)
		}
		s.Coupons = coupons
		s.Users = users
		s.Winners = mongorepo.NewWinnerRepository(db)
		logger.WithField("database", cfg.MongoDB.Database).Info("Connected to MongoDB")

	case config.DriverPostgres:
		db, err := postgres.NewDB(ctx, postgres.Options{
			DSN:          cfg.Postgres.DSN,
			MaxOpenConns: cfg.Postgres.MaxOpenConns,
			MaxIdleConns: cfg.Postgres.MaxIdleConns,
		})
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func(context.Context) error { return db.Close() })
		s.Pingers["postgres"] = db.PingContext

		if err := pgrepo.Migrate(ctx, db); err != nil {
			s.Close(ctx)
			return nil, err
		}
		s.Coupons = pgrepo.NewCouponRepository(db)
		s.Winners = pgrepo.NewWinnerRepository(db)
		s.Users = pgrepo.NewUserRepository(db)
		logger.Info("Connected to PostgreSQL")

	default:
		s.Coupons = memory.NewCouponRepository()
		s.Winners = memory.NewWinnerRepository()
		s.Users = memory.NewUserRepository()
		logger.Warn("Using in-memory storage, data is lost on restart")
	}

	if !cfg.Redis.Enabled {
		s.Sessions = memory.NewSessionRepository()
		return s, nil
	}

	redisCache, err := cache.NewRedisCache(ctx, &cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		s.Close(ctx)
		return nil, err
	}
	s.closers = append(s.closers, func(context.Context) error { return redisCache.Close() })
	s.Pingers["redis"] = redisCache.Ping
	s.Sessions = redisrepo.NewSessionRepository(redisCache)
	return s, nil
}

// Close releases backend connections in reverse order of opening
func (s *Stores) Close(ctx context.Context) error {
	var first error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil && first == nil {
			first = err
		}
	}
	s.closers = nil
	return first
}
