package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/stephenafamo/bob"

	"github.com/carson-networks/finance-server/internal/config"
)

// Storage is a persistence backend. Write opens one atomic unit of work: every
// change made through the returned Writer is kept on Commit and discarded on
// Rollback.
type Storage interface {
	Read() *Reader
	Write(ctx context.Context) (*Writer, error)
	Ping(ctx context.Context) error
	Close() error
}

var _ Storage = (*PostgresStorage)(nil)

// PostgresStorage runs units of work as READ COMMITTED transactions. Row
// locks taken by the writers serialize concurrent changes to the same account.
type PostgresStorage struct {
	DB     *sql.DB
	bobDB  bob.DB
	reader *Reader
}

func NewPostgresStorage(env *config.Config) (*PostgresStorage, error) {
	db, err := sql.Open("postgres", env.PostgresConnectionString())
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	return NewPostgresStorageFromDB(db), nil
}

func NewPostgresStorageFromDB(db *sql.DB) *PostgresStorage {
	bobDB := bob.NewDB(db)
	return &PostgresStorage{
		DB:     db,
		bobDB:  bobDB,
		reader: NewReader(bobDB),
	}
}

func (s *PostgresStorage) Read() *Reader {
	return s.reader
}

func (s *PostgresStorage) Write(ctx context.Context) (*Writer, error) {
	tx, err := s.bobDB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("BeginTx: %w", err)
	}
	return NewPostgresWriter(tx), nil
}

func (s *PostgresStorage) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

func (s *PostgresStorage) Close() error {
	return s.DB.Close()
}
