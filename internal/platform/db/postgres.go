package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// PoolConfig sizes one physical connection pool.
type PoolConfig struct {
	DSN          string
	MaxConns     int
	MinIdleConns int
}

// Router owns the two connection pools of the CQRS split and dispatches each
// unit of work to the pool selected by the routing mode carried in the
// context. The query pool is sized larger than the command pool.
type Router struct {
	read  *gorm.DB
	write *gorm.DB
}

// ConnectRouter opens both pools and verifies connectivity to each.
func ConnectRouter(query, command PoolConfig) (*Router, error) {
	read, err := connectPool(query)
	if err != nil {
		return nil, fmt.Errorf("open query pool: %w", err)
	}
	write, err := connectPool(command)
	if err != nil {
		closePool(read)
		return nil, fmt.Errorf("open command pool: %w", err)
	}
	return &Router{read: read, write: write}, nil
}

// NewRouter wires pre-built handles; used by tests.
func NewRouter(read, write *gorm.DB) *Router {
	return &Router{read: read, write: write}
}

// DB returns the pool bound to the mode currently in effect, the write pool
// when nothing is set.
func (r *Router) DB(ctx context.Context) *gorm.DB {
	if ModeOf(ctx) == ModeRead {
		return r.read.WithContext(ctx)
	}
	return r.write.WithContext(ctx)
}

// Write returns the command pool regardless of context routing. Transactions
// that must not be rerouted mid-flight (existence check + insert) start here.
func (r *Router) Write() *gorm.DB {
	return r.write
}

func (r *Router) Close() error {
	return errors.Join(closePool(r.read), closePool(r.write))
}

func connectPool(cfg PoolConfig) (*gorm.DB, error) {
	if cfg.DSN == "" {
		return nil, errors.New("postgres dsn is required")
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open gorm postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("resolve postgres sql db handle: %w", err)
	}

	if cfg.MaxConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxConns)
	}
	minIdle := cfg.MinIdleConns
	if cfg.MaxConns > 0 && minIdle > cfg.MaxConns {
		minIdle = cfg.MaxConns
	}
	if minIdle > 0 {
		sqlDB.SetMaxIdleConns(minIdle)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

func closePool(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
