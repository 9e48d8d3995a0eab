// Package pgstore keeps the encoded study program as a single JSONB row in
// PostgreSQL. The schema is applied with goose on Open.
package pgstore

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/domain"
	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/infra/logger"
	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/ports"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	migrationsDir = "migrations"

	selectDoc = `SELECT doc FROM study_programs WHERE key = $1`
	upsertDoc = `INSERT INTO study_programs (key, doc, updated_at)
VALUES ($1, $2::jsonb, now())
ON CONFLICT (key) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()`
)

type Store struct {
	pool *pgxpool.Pool
	key  string
}

var _ ports.StoreCloser = (*Store)(nil)

// Open connects, pings and migrates. key selects the row so several programs
// can share one database.
func Open(ctx context.Context, cfg domain.PostgresConfig) (*Store, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, &domain.OpError{
			Op:   "pgstore.open",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("storage.postgres.dsn is empty: %w", domain.ErrInvalidConfig),
		}
	}
	key := cfg.Key
	if strings.TrimSpace(key) == "" {
		key = "default"
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "pgstore.open",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("%w: %w", domain.ErrInvalidConfig, err),
		}
	}
	poolCfg.MaxConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, storageErr("pgstore.connect", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, storageErr("pgstore.ping", err)
	}

	if err := migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, storageErr("pgstore.migrate", err)
	}

	return &Store{pool: pool, key: key}, nil
}

func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(gooseLogger{l: logger.L()})
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, migrationsDir)
}

func (s *Store) Load(ctx context.Context) (map[string]any, bool, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, selectDoc, s.key).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, storageErr("pgstore.load", err)
	}

	doc, err := decodeDoc(raw)
	if err != nil {
		return nil, false, &domain.OpError{
			Op:   "pgstore.parse",
			Kind: domain.KindMalformed,
			Path: s.key,
			Err:  fmt.Errorf("%w: %w", domain.ErrMalformedData, err),
		}
	}
	return doc, true, nil
}

func (s *Store) Save(ctx context.Context, doc map[string]any) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return storageErr("pgstore.marshal", err)
	}
	if _, err := s.pool.Exec(ctx, upsertDoc, s.key, string(b)); err != nil {
		return storageErr("pgstore.save", err)
	}
	return nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func decodeDoc(raw []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, errors.New("document is null")
	}
	return doc, nil
}

func storageErr(op string, err error) error {
	return &domain.OpError{
		Op:   op,
		Kind: domain.KindStorage,
		Err:  fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err),
	}
}

// gooseLogger routes goose output into the process log. Fatalf does not exit.
type gooseLogger struct {
	l *slog.Logger
}

func (g gooseLogger) Printf(format string, v ...any) {
	g.l.Info("pgstore.migrate", "msg", strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (g gooseLogger) Fatalf(format string, v ...any) {
	g.l.Error("pgstore.migrate.failed", "msg", strings.TrimSpace(fmt.Sprintf(format, v...)))
}
