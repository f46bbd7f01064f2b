package app

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/second-brain/core/internal/config"
	"github.com/second-brain/core/internal/database"
	"github.com/second-brain/core/internal/middleware"
	"github.com/second-brain/core/internal/modules/content/note"
	"github.com/second-brain/core/internal/modules/system/health"
	pkgredis "github.com/second-brain/core/internal/pkg/redis"
)

type resources struct {
	store   note.Store
	counter middleware.Counter
	rdb     *goredis.Client
	checks  map[string]health.Check
	closers []func(context.Context) error
}

// openResources connects the note store selected by database.driver and,
// when configured, Redis for rate limiting, response caching and write
// deduplication. An unreachable Redis only disables those.
func openResources(ctx context.Context, cfg *config.AppConfig, log *zap.Logger) (*resources, error) {
	res := &resources{checks: map[string]health.Check{}}

	store, check, closer, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	res.store = store
	if check != nil {
		res.checks["store"] = check
	}
	if closer != nil {
		res.closers = append(res.closers, closer)
	}
	log.Info("note store ready", zap.String("driver", cfg.Database.Driver))

	if !cfg.Redis.Enabled() {
		log.Info("redis not configured, rate limiting and caching disabled")
		return res, nil
	}
	rc, err := pkgredis.Connect(ctx, cfg.Redis.URL)
	if err != nil {
		log.Warn("redis unavailable, rate limiting and caching disabled", zap.Error(err))
		return res, nil
	}
	res.rdb = rc.Raw()
	res.checks["redis"] = rc.Ping
	res.closers = append(res.closers, func(context.Context) error { return rc.Close() })
	if cfg.RateLimit.Enable {
		res.counter = rc
	}
	return res, nil
}

func (r *resources) close(ctx context.Context) error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	r.closers = nil
	return errors.Join(errs...)
}

// OpenStore connects the note store selected by database.driver. The
// returned probe and closer are nil for the in-memory store.
func OpenStore(ctx context.Context, cfg *config.AppConfig) (note.Store, health.Check, func(context.Context) error, error) {
	switch cfg.Database.Driver {
	case config.DriverMongo:
		client, coll, err := database.ConnectMongo(ctx, cfg)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("database: %w", err)
		}
		check := func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		}
		return note.NewMongoStore(coll), check, client.Disconnect, nil
	case config.DriverMySQL:
		db, err := database.OpenSQL(cfg)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("database: %w", err)
		}
		check := func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
		closer := func(context.Context) error { return database.CloseSQL(db) }
		return note.NewSQLStore(db), check, closer, nil
	case config.DriverMemory:
		return note.NewMemoryStore(), nil, nil, nil
	}
	return nil, nil, nil, fmt.Errorf("database: unsupported driver %q", cfg.Database.Driver)
}
