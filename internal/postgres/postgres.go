package postgres

import (
	"context"
	"fmt"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gamerstore/backend/internal/domain"
)

// DBTX is the subset of pgx shared by *pgxpool.Pool and pgx.Tx. Every store
// runs against it, so the same code serves pooled and transactional calls.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements domain.Stores over PostgreSQL.
type Store struct {
	db   DBTX
	pool *pgxpool.Pool // nil when the store is transaction-scoped
}

// Compile-time check that Store implements domain.Stores.
var _ domain.Stores = (*Store)(nil)

// NewStore creates a pool-backed store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{db: pool, pool: pool}
}

// NewPool opens a pgx connection pool with NUMERIC mapped to decimal.Decimal.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}

	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return pool, nil
}

func (s *Store) Users() domain.UserStore { return &UserStore{db: s.db} }

func (s *Store) Products() domain.ProductStore { return &ProductStore{db: s.db} }

func (s *Store) Categories() domain.CategoryStore { return &CategoryStore{db: s.db} }

func (s *Store) Carts() domain.CartStore { return &CartStore{db: s.db} }

func (s *Store) Orders() domain.OrderStore { return &OrderStore{db: s.db} }

// ExecTx runs fn inside a transaction. The Stores handed to fn share that
// transaction; any error (or panic) rolls it back.
func (s *Store) ExecTx(ctx context.Context, fn func(domain.Stores) error) error {
	if s.pool == nil {
		// Already inside a transaction; just run in the current scope.
		return fn(s)
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if err := fn(&Store{db: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
