package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses, satisfied by
// pgxmock.PgxPoolIface in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id            TEXT PRIMARY KEY,
	business_name TEXT NOT NULL,
	status        TEXT NOT NULL,
	rank          TEXT NOT NULL DEFAULT 'cold',
	total_score   INTEGER NOT NULL DEFAULT 0,
	data          JSONB NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status);
CREATE INDEX IF NOT EXISTS idx_leads_rank ON leads(rank);
CREATE INDEX IF NOT EXISTS idx_leads_total_score ON leads(total_score DESC);
CREATE INDEX IF NOT EXISTS idx_leads_business_name ON leads(business_name);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) SaveLead(ctx context.Context, lead *model.Lead) error {
	data, err := json.Marshal(lead)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal lead")
	}

	rank, total := scoreColumns(lead)
	_, err = s.pool.Exec(ctx,
		`INSERT INTO leads (id, business_name, status, rank, total_score, data, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		 ON CONFLICT (id) DO UPDATE SET
		   business_name = EXCLUDED.business_name,
		   status        = EXCLUDED.status,
		   rank          = EXCLUDED.rank,
		   total_score   = EXCLUDED.total_score,
		   data          = EXCLUDED.data,
		   updated_at    = now()`,
		lead.ID, lead.BusinessName, string(lead.Enrichment.Status),
		rank, total, data, lead.CreatedAt.UTC(),
	)
	return eris.Wrapf(err, "postgres: save lead %s", lead.ID)
}

func (s *PostgresStore) GetLead(ctx context.Context, id string) (*model.Lead, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM leads WHERE id = $1`, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get lead %s", id)
	}
	return unmarshalLead(string(data))
}

func (s *PostgresStore) ListLeads(ctx context.Context, filter LeadFilter) ([]model.Lead, error) {
	query := `SELECT data FROM leads WHERE 1=1`
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return placeholder(len(args))
	}

	if filter.Status != "" {
		query += ` AND status = ` + arg(string(filter.Status))
	}
	if filter.Rank != "" {
		query += ` AND rank = ` + arg(string(filter.Rank))
	}
	if filter.MinScore > 0 {
		query += ` AND total_score >= ` + arg(filter.MinScore)
	}
	query += ` ORDER BY total_score DESC, created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ` + arg(limit)
	if filter.Offset > 0 {
		query += ` OFFSET ` + arg(filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list leads")
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "postgres: scan lead")
		}
		lead, err := unmarshalLead(string(data))
		if err != nil {
			return nil, err
		}
		leads = append(leads, *lead)
	}
	return leads, eris.Wrap(rows.Err(), "postgres: list leads iterate")
}

func (s *PostgresStore) DeleteLead(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete lead %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("lead not found: %s", id)
	}
	return nil
}

func placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}
