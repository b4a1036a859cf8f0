package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/Preet1920/finebookeasyaccounting/shared/config"
	sharedredis "github.com/Preet1920/finebookeasyaccounting/shared/redis"
	_ "github.com/lib/pq"
)

// Backends holds the stores selected by configuration and the connections
// behind them.
type Backends struct {
	Records  RecordStore
	Sessions SessionStore
	// Redis is set whenever a configured component needs it.
	Redis *sharedredis.Client

	closers []func()
}

// OpenBackends connects to every backend cfg selects.
func OpenBackends(ctx context.Context, cfg *config.Config) (*Backends, error) {
	b := &Backends{}

	if cfg.NeedsRedis() {
		rc, err := sharedredis.NewClient(ctx, sharedredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, err
		}
		b.Redis = rc
		b.closers = append(b.closers, func() { _ = rc.Close() })
	}

	switch cfg.Store {
	case config.BackendMemory:
		b.Records = NewMemoryRecordStore(nil)
	case config.BackendRedis:
		b.Records = NewRedisRecordStore(b.Redis.Client)
	case config.BackendPostgres:
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		b.closers = append(b.closers, func() { _ = db.Close() })
		if err := db.PingContext(ctx); err != nil {
			b.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		store := NewPostgresRecordStore(db, DefaultRecordTable)
		if err := store.EnsureSchema(ctx); err != nil {
			b.Close()
			return nil, err
		}
		b.Records = store
	case config.BackendMongo:
		client, coll, err := ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.closers = append(b.closers, func() { _ = client.Disconnect(context.Background()) })
		b.Records = NewMongoRecordStore(coll)
	default:
		b.Records = NewFileRecordStore(cfg.DataFile)
	}

	switch cfg.SessionStore {
	case config.BackendFile:
		b.Sessions = NewFileSessionStore(cfg.SessionFile)
	case config.BackendRedis:
		b.Sessions = NewRedisSessionStore(b.Redis.Client, cfg.SessionTTL)
	default:
		b.Sessions = NewMemorySessionStore()
	}

	log.Printf("Ledger store: %s, session store: %s", cfg.Store, cfg.SessionStore)
	return b, nil
}

// Close releases connections in reverse order of opening.
func (b *Backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
	b.closers = nil
}
