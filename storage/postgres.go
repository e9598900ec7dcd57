package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrDatabase = errors.New("unexpected-database-error")

// PostgresRepo is the persistent word store. It satisfies words.Source.
type PostgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresRepo(ctx context.Context, connString string) (*PostgresRepo, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	return &PostgresRepo{pool: pool}, nil
}

func (pgr *PostgresRepo) Words(ctx context.Context) ([]string, error) {
	rows, err := pgr.pool.Query(ctx, "SELECT word FROM words ORDER BY id")
	if err != nil {
		return nil, wrapErr(err)
	}
	words, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, wrapErr(err)
	}
	return words, nil
}

// AddWords inserts the given words, skipping blanks and ones already stored.
// It returns how many rows were actually inserted.
func (pgr *PostgresRepo) AddWords(ctx context.Context, words ...string) (int, error) {
	batch := &pgx.Batch{}
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		batch.Queue("INSERT INTO words(word) VALUES($1) ON CONFLICT (word) DO NOTHING", w)
	}
	if batch.Len() == 0 {
		return 0, nil
	}

	results := pgr.pool.SendBatch(ctx, batch)
	defer results.Close()

	inserted := 0
	for range batch.Len() {
		tag, err := results.Exec()
		if err != nil {
			return inserted, wrapErr(err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

func (pgr *PostgresRepo) Close() {
	pgr.pool.Close()
}

func wrapErr(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrDatabase, err)
}
