package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/fishy-dino/woojin/internal/object"
)

const (
	dialectSQLite   = "sqlite3"
	dialectMySQL    = "mysql"
	dialectPostgres = "postgres"
)

var schemas = map[string]string{
	dialectSQLite: `CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		path TEXT NOT NULL,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP NULL,
		exit_code INTEGER NULL,
		error_kind TEXT NULL,
		error_message TEXT NULL,
		output TEXT NULL
	)`,
	dialectMySQL: `CREATE TABLE IF NOT EXISTS runs (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		path VARCHAR(1024) NOT NULL,
		started_at DATETIME(6) NOT NULL,
		finished_at DATETIME(6) NULL,
		exit_code INT NULL,
		error_kind VARCHAR(64) NULL,
		error_message TEXT NULL,
		output MEDIUMTEXT NULL
	)`,
	dialectPostgres: `CREATE TABLE IF NOT EXISTS runs (
		id BIGSERIAL PRIMARY KEY,
		path TEXT NOT NULL,
		started_at TIMESTAMPTZ NOT NULL,
		finished_at TIMESTAMPTZ NULL,
		exit_code INTEGER NULL,
		error_kind TEXT NULL,
		error_message TEXT NULL,
		output TEXT NULL
	)`,
}

// Journal records program runs in a SQL database.
type Journal struct {
	db      *sql.DB
	dialect string
}

// Run is one journal row that has been started but not finished.
type Run struct {
	ID      int64
	journal *Journal
}

type Record struct {
	ID           int64
	Path         string
	StartedAt    time.Time
	FinishedAt   sql.NullTime
	ExitCode     sql.NullInt64
	ErrorKind    sql.NullString
	ErrorMessage sql.NullString
	Output       sql.NullString
}

// ParseDSN maps a journal DSN to a database/sql driver and connection
// string: `sqlite3:<path>` or `sqlite:<path>`, `mysql:<dsn>` and
// `postgres://...` or `postgresql://...`.
func ParseDSN(dsn string) (driver string, conn string, err error) {
	switch {
	case strings.HasPrefix(dsn, "sqlite3:"):
		return dialectSQLite, strings.TrimPrefix(dsn, "sqlite3:"), nil
	case strings.HasPrefix(dsn, "sqlite:"):
		return dialectSQLite, strings.TrimPrefix(dsn, "sqlite:"), nil
	case strings.HasPrefix(dsn, "mysql:"):
		cfg, err := mysql.ParseDSN(strings.TrimPrefix(dsn, "mysql:"))
		if err != nil {
			return "", "", fmt.Errorf("invalid mysql journal dsn: %w", err)
		}
		cfg.ParseTime = true
		return dialectMySQL, cfg.FormatDSN(), nil
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return dialectPostgres, dsn, nil
	}
	return "", "", fmt.Errorf("unsupported journal dsn %q", dsn)
}

func Open(ctx context.Context, dsn string) (*Journal, error) {
	driver, conn, err := ParseDSN(dsn)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, conn)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to journal: %w", err)
	}
	if _, err := db.ExecContext(ctx, schemas[driver]); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create journal table: %w", err)
	}

	slog.Debug("journal opened", slog.String("driver", driver))
	return &Journal{db: db, dialect: driver}, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

// rebind rewrites `?` placeholders for drivers that number them.
func (j *Journal) rebind(query string) string {
	if j.dialect != dialectPostgres {
		return query
	}
	var out strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			out.WriteString("$" + strconv.Itoa(n))
			continue
		}
		out.WriteRune(ch)
	}
	return out.String()
}

// Begin inserts a row for a run of the program at path.
func (j *Journal) Begin(ctx context.Context, path string) (*Run, error) {
	started := time.Now().UTC()

	if j.dialect == dialectPostgres {
		var id int64
		err := j.db.QueryRowContext(ctx,
			j.rebind("INSERT INTO runs (path, started_at) VALUES (?, ?) RETURNING id"),
			path, started).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("failed to record run: %w", err)
		}
		return &Run{ID: id, journal: j}, nil
	}

	result, err := j.db.ExecContext(ctx, "INSERT INTO runs (path, started_at) VALUES (?, ?)", path, started)
	if err != nil {
		return nil, fmt.Errorf("failed to record run: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read run id: %w", err)
	}
	return &Run{ID: id, journal: j}, nil
}

// Finish stores the outcome of the run. runErr may be nil.
func (r *Run) Finish(ctx context.Context, exitCode int, runErr error, output string) error {
	var kind, message sql.NullString
	if runErr != nil {
		message = sql.NullString{String: runErr.Error(), Valid: true}
		kind = sql.NullString{String: object.Unknown.String(), Valid: true}
		var e *object.Error
		if errors.As(runErr, &e) {
			kind.String = e.Kind.String()
			message.String = e.Message
		}
	}

	_, err := r.journal.db.ExecContext(ctx,
		r.journal.rebind("UPDATE runs SET finished_at = ?, exit_code = ?, error_kind = ?, error_message = ?, output = ? WHERE id = ?"),
		time.Now().UTC(), exitCode, kind, message, output, r.ID)
	if err != nil {
		return fmt.Errorf("failed to finish run %d: %w", r.ID, err)
	}
	return nil
}

// Recent returns up to n runs, newest first.
func (j *Journal) Recent(ctx context.Context, n int) ([]Record, error) {
	rows, err := j.db.QueryContext(ctx,
		j.rebind("SELECT id, path, started_at, finished_at, exit_code, error_kind, error_message, output FROM runs ORDER BY id DESC LIMIT ?"),
		n)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.Path, &rec.StartedAt, &rec.FinishedAt, &rec.ExitCode,
			&rec.ErrorKind, &rec.ErrorMessage, &rec.Output); err != nil {
			return nil, fmt.Errorf("failed to read run: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
