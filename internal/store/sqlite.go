package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id            TEXT PRIMARY KEY,
	business_name TEXT NOT NULL,
	status        TEXT NOT NULL,
	rank          TEXT NOT NULL DEFAULT 'cold',
	total_score   INTEGER NOT NULL DEFAULT 0,
	data          TEXT NOT NULL,
	created_at    DATETIME NOT NULL,
	updated_at    DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status);
CREATE INDEX IF NOT EXISTS idx_leads_rank ON leads(rank);
CREATE INDEX IF NOT EXISTS idx_leads_total_score ON leads(total_score DESC);
CREATE INDEX IF NOT EXISTS idx_leads_business_name ON leads(business_name);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveLead(ctx context.Context, lead *model.Lead) error {
	data, err := json.Marshal(lead)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal lead")
	}

	rank, total := scoreColumns(lead)
	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO leads (id, business_name, status, rank, total_score, data, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   business_name = excluded.business_name,
		   status        = excluded.status,
		   rank          = excluded.rank,
		   total_score   = excluded.total_score,
		   data          = excluded.data,
		   updated_at    = excluded.updated_at`,
		lead.ID, lead.BusinessName, string(lead.Enrichment.Status),
		rank, total, string(data), lead.CreatedAt.UTC(), now,
	)
	return eris.Wrapf(err, "sqlite: save lead %s", lead.ID)
}

func (s *SQLiteStore) GetLead(ctx context.Context, id string) (*model.Lead, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM leads WHERE id = ?`, id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get lead %s", id)
	}
	return unmarshalLead(data)
}

func (s *SQLiteStore) ListLeads(ctx context.Context, filter LeadFilter) ([]model.Lead, error) {
	query := `SELECT data FROM leads WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.Rank != "" {
		query += ` AND rank = ?`
		args = append(args, string(filter.Rank))
	}
	if filter.MinScore > 0 {
		query += ` AND total_score >= ?`
		args = append(args, filter.MinScore)
	}
	query += ` ORDER BY total_score DESC, created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list leads")
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan lead")
		}
		lead, err := unmarshalLead(data)
		if err != nil {
			return nil, err
		}
		leads = append(leads, *lead)
	}
	return leads, eris.Wrap(rows.Err(), "sqlite: list leads iterate")
}

func (s *SQLiteStore) DeleteLead(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM leads WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete lead %s", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Errorf("lead not found: %s", id)
	}
	return nil
}

// helpers

func scoreColumns(lead *model.Lead) (string, int) {
	if lead.LeadScore == nil {
		return string(model.PriorityCold), 0
	}
	return string(lead.LeadScore.PriorityRank), lead.LeadScore.Total
}

func unmarshalLead(data string) (*model.Lead, error) {
	var lead model.Lead
	if err := json.Unmarshal([]byte(data), &lead); err != nil {
		return nil, eris.Wrap(err, "store: unmarshal lead")
	}
	return &lead, nil
}
