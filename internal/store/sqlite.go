// Package store persists trading statements in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"taengine/internal/engine"
	"taengine/internal/trading"
	"taengine/num"
	"taengine/types"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

var ErrRunNotFound = errors.New("run not found")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id            TEXT PRIMARY KEY,
	strategy      TEXT NOT NULL,
	series        TEXT NOT NULL,
	starting_type TEXT NOT NULL,
	created_at    TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS trades (
	run_id  TEXT NOT NULL REFERENCES runs(id),
	seq     INTEGER NOT NULL,
	idx     INTEGER NOT NULL,
	type    TEXT NOT NULL,
	price   TEXT NOT NULL,
	amount  TEXT NOT NULL,
	cost    TEXT NOT NULL,
	PRIMARY KEY (run_id, seq)
);
CREATE TABLE IF NOT EXISTS criteria (
	run_id  TEXT NOT NULL REFERENCES runs(id),
	name    TEXT NOT NULL,
	value   TEXT NOT NULL,
	PRIMARY KEY (run_id, name)
);
`

// Run is the stored header of one statement.
type Run struct {
	ID           uuid.UUID
	Strategy     string
	Series       string
	StartingType types.TradeType
	CreatedAt    time.Time
}

// SQLiteStore keeps statements, their trades and their criteria values.
// Numbers are stored as text so decimal values survive unchanged.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and creates
// the tables it needs.
func NewSQLiteStore(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save writes a statement in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, st engine.TradingStatement) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	seriesName := ""
	if st.Series != nil {
		seriesName = st.Series.Name()
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, strategy, series, starting_type, created_at) VALUES (?, ?, ?, ?, ?)`,
		st.RunID.String(), st.Strategy, seriesName, string(st.Record.StartingType()),
		time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for i, t := range st.Record.Trades() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO trades (run_id, seq, idx, type, price, amount, cost) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			st.RunID.String(), i, t.Index, string(t.Type), t.Price.String(), t.Amount.String(), t.Cost.String()); err != nil {
			return fmt.Errorf("insert trade %d: %w", i, err)
		}
	}

	for name, v := range st.Criteria {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO criteria (run_id, name, value) VALUES (?, ?, ?)`,
			st.RunID.String(), name, v.String()); err != nil {
			return fmt.Errorf("insert criterion %s: %w", name, err)
		}
	}
	return tx.Commit()
}

// Runs lists stored runs, oldest first.
func (s *SQLiteStore) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, strategy, series, starting_type, created_at FROM runs ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			r                      Run
			id, startType, created string
		)
		if err := rows.Scan(&id, &r.Strategy, &r.Series, &startType, &created); err != nil {
			return nil, err
		}
		if r.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("run id %q: %w", id, err)
		}
		if r.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("run %s created_at: %w", id, err)
		}
		r.StartingType = types.TradeType(startType)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Trades returns the trades of a run in ledger order, parsed with f.
func (s *SQLiteStore) Trades(ctx context.Context, id uuid.UUID, f num.Factory) ([]trading.Trade, error) {
	if err := s.exists(ctx, id); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT idx, type, price, amount, cost FROM trades WHERE run_id = ? ORDER BY seq`, id.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []trading.Trade
	for rows.Next() {
		var (
			t                   trading.Trade
			typ                 string
			price, amount, cost string
		)
		if err := rows.Scan(&t.Index, &typ, &price, &amount, &cost); err != nil {
			return nil, err
		}
		t.Type = types.TradeType(typ)
		if t.Price, err = f.Parse(price); err != nil {
			return nil, err
		}
		if t.Amount, err = f.Parse(amount); err != nil {
			return nil, err
		}
		if t.Cost, err = f.Parse(cost); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Criteria returns the stored criteria values of a run, parsed with f.
func (s *SQLiteStore) Criteria(ctx context.Context, id uuid.UUID, f num.Factory) (map[string]num.Num, error) {
	if err := s.exists(ctx, id); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT name, value FROM criteria WHERE run_id = ?`, id.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]num.Num)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		v, err := f.Parse(value)
		if err != nil {
			return nil, fmt.Errorf("criterion %s: %w", name, err)
		}
		out[name] = v
	}
	return out, rows.Err()
}

func (s *SQLiteStore) exists(ctx context.Context, id uuid.UUID) error {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM runs WHERE id = ?`, id.String()).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", id, ErrRunNotFound)
	}
	return nil
}
