// Package ledger persists one audit row per processed document.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/joseph-ayodele/docsort/internal/pipeline"
)

const table = "docsort_ledger"

var columns = []string{
	"run_id", "seq", "source", "kind", "state", "label", "score", "pages",
	"artifact", "quarantine", "error", "started_at", "finished_at",
}

// Entry is one ledger row.
type Entry struct {
	RunID      string
	Seq        int
	Source     string
	Kind       string
	State      string
	Label      string
	Score      float64
	Pages      int
	Artifact   string
	Quarantine string
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}

// FromOutcome maps a pipeline outcome to a ledger row.
func FromOutcome(runID string, seq int, o pipeline.Outcome) Entry {
	return Entry{
		RunID:      runID,
		Seq:        seq,
		Source:     o.Source,
		Kind:       string(o.Kind),
		State:      string(o.State),
		Label:      string(o.Label),
		Score:      o.Score,
		Pages:      o.Pages,
		Artifact:   o.Artifact,
		Quarantine: o.Quarantine,
		Error:      o.ErrText(),
		StartedAt:  o.Started,
		FinishedAt: o.Finished,
	}
}

// Store writes entries through ent's SQL driver to sqlite or postgres.
// It is an audit trail only; nothing reads it to skip work.
type Store struct {
	drv     *entsql.Driver
	dialect string
	pool    *pgxpool.Pool // postgres only
	logger  *slog.Logger

	mu  sync.Mutex
	seq map[string]int
}

// IsPostgres reports whether dsn addresses a postgres server.
func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// Open connects to dsn and creates the ledger table if needed. A postgres URL
// selects pgx; anything else is a sqlite path (optionally "sqlite://" prefixed).
func Open(ctx context.Context, dsn string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{logger: logger, seq: map[string]int{}}

	if IsPostgres(dsn) {
		logger.Info("connecting to ledger database", "driver", "pgx")
		pc, err := pgxpool.ParseConfig(dsn)
		if err != nil {
			return nil, fmt.Errorf("parse ledger dsn: %w", err)
		}
		pc.MaxConns = 4
		pc.MaxConnIdleTime = 5 * time.Minute
		pc.ConnConfig.RuntimeParams["application_name"] = "docsort"

		dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		pool, err := pgxpool.NewWithConfig(dialCtx, pc)
		if err != nil {
			return nil, fmt.Errorf("connect ledger: %w", err)
		}
		if err := pool.Ping(dialCtx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ping ledger: %w", err)
		}
		s.pool = pool
		s.dialect = dialect.Postgres
		s.drv = entsql.OpenDB(dialect.Postgres, stdlib.OpenDBFromPool(pool))
	} else {
		path := strings.TrimPrefix(dsn, "sqlite://")
		if path != ":memory:" && !strings.HasPrefix(path, "file:") {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return nil, fmt.Errorf("create ledger dir: %w", err)
			}
		}
		logger.Info("opening ledger database", "driver", "sqlite", "path", path)
		db, err := sql.Open("sqlite", path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		db.SetMaxOpenConns(1)
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ping sqlite: %w", err)
		}
		s.dialect = dialect.SQLite
		s.drv = entsql.OpenDB(dialect.SQLite, db)
	}

	if err := s.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// ledgerDDL is the table definition; only the float type differs per dialect.
const ledgerDDL = `CREATE TABLE IF NOT EXISTS ` + table + ` (
	run_id      VARCHAR(36) NOT NULL,
	seq         INTEGER NOT NULL,
	source      TEXT NOT NULL DEFAULT '',
	kind        TEXT NOT NULL DEFAULT '',
	state       TEXT NOT NULL DEFAULT '',
	label       TEXT NOT NULL DEFAULT '',
	score       %s NOT NULL DEFAULT 0,
	pages       INTEGER NOT NULL DEFAULT 0,
	artifact    TEXT NOT NULL DEFAULT '',
	quarantine  TEXT NOT NULL DEFAULT '',
	error       TEXT NOT NULL DEFAULT '',
	started_at  TEXT NOT NULL DEFAULT '',
	finished_at TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (run_id, seq)
)`

func (s *Store) migrate(ctx context.Context) error {
	float := "REAL"
	if s.dialect == dialect.Postgres {
		float = "DOUBLE PRECISION"
	}
	if err := s.drv.Exec(ctx, fmt.Sprintf(ledgerDDL, float), []any{}, nil); err != nil {
		return fmt.Errorf("create ledger table: %w", err)
	}
	return nil
}

// Record inserts one entry.
func (s *Store) Record(ctx context.Context, e Entry) error {
	q, args := entsql.Dialect(s.dialect).
		Insert(table).
		Columns(columns...).
		Values(e.RunID, e.Seq, e.Source, e.Kind, e.State, e.Label, e.Score, e.Pages,
			e.Artifact, e.Quarantine, e.Error, formatTime(e.StartedAt), formatTime(e.FinishedAt)).
		Query()
	if err := s.drv.Exec(ctx, q, args, nil); err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	s.logger.Debug("ledger entry recorded", "run_id", e.RunID, "seq", e.Seq, "state", e.State)
	return nil
}

// Observe records a finished document, numbering entries per run.
func (s *Store) Observe(ctx context.Context, runID string, o pipeline.Outcome) error {
	s.mu.Lock()
	s.seq[runID]++
	seq := s.seq[runID]
	s.mu.Unlock()
	return s.Record(ctx, FromOutcome(runID, seq, o))
}

// ListRun returns a run's entries in recording order.
func (s *Store) ListRun(ctx context.Context, runID string) ([]Entry, error) {
	q, args := entsql.Dialect(s.dialect).
		Select(columns...).
		From(entsql.Table(table)).
		Where(entsql.EQ("run_id", runID)).
		OrderBy("seq").
		Query()

	var rows entsql.Rows
	if err := s.drv.Query(ctx, q, args, &rows); err != nil {
		return nil, fmt.Errorf("query ledger: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var started, finished string
		if err := rows.Scan(&e.RunID, &e.Seq, &e.Source, &e.Kind, &e.State, &e.Label, &e.Score, &e.Pages,
			&e.Artifact, &e.Quarantine, &e.Error, &started, &finished); err != nil {
			return nil, fmt.Errorf("scan ledger row: %w", err)
		}
		e.StartedAt = parseTime(started)
		e.FinishedAt = parseTime(finished)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger rows: %w", err)
	}
	return out, nil
}

// Close closes the driver and, for postgres, the pool.
func (s *Store) Close() error {
	err := s.drv.Close()
	if s.pool != nil {
		s.pool.Close()
	}
	if err != nil {
		s.logger.Error("failed to close ledger", "error", err)
	}
	return err
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
