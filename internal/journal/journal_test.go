package journal

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fishy-dino/woojin/internal/object"
)

func TestParseDSN(t *testing.T) {
	cases := []struct {
		dsn    string
		driver string
		conn   string
	}{
		{"sqlite3:/tmp/runs.db", "sqlite3", "/tmp/runs.db"},
		{"sqlite:runs.db", "sqlite3", "runs.db"},
		{"postgres://user@localhost/woojin?sslmode=disable", "postgres", "postgres://user@localhost/woojin?sslmode=disable"},
		{"postgresql://localhost/woojin", "postgres", "postgresql://localhost/woojin"},
	}
	for _, c := range cases {
		driver, conn, err := ParseDSN(c.dsn)
		if err != nil {
			t.Fatalf("%s: %v", c.dsn, err)
		}
		if driver != c.driver || conn != c.conn {
			t.Errorf("%s: expected %s %s, got %s %s", c.dsn, c.driver, c.conn, driver, conn)
		}
	}

	driver, conn, err := ParseDSN("mysql:woojin:secret@tcp(localhost:3306)/runs")
	if err != nil {
		t.Fatalf("mysql: %v", err)
	}
	if driver != "mysql" || !strings.Contains(conn, "parseTime=true") || !strings.HasPrefix(conn, "woojin:secret@tcp(localhost:3306)/runs") {
		t.Errorf("unexpected mysql connection %s %s", driver, conn)
	}

	for _, bad := range []string{"runs.db", "redis://localhost", "mysql:nope"} {
		if _, _, err := ParseDSN(bad); err == nil {
			t.Errorf("%s: expected an error", bad)
		}
	}
}

func TestRebind(t *testing.T) {
	query := "UPDATE runs SET a = ?, b = ? WHERE id = ?"
	pg := &Journal{dialect: dialectPostgres}
	if got := pg.rebind(query); got != "UPDATE runs SET a = $1, b = $2 WHERE id = $3" {
		t.Errorf("unexpected postgres query %s", got)
	}
	lite := &Journal{dialect: dialectSQLite}
	if got := lite.rebind(query); got != query {
		t.Errorf("sqlite query must be unchanged, got %s", got)
	}
}

func TestJournalSQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "runs.db")

	j, err := Open(ctx, "sqlite3:"+path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer j.Close()

	first, err := j.Begin(ctx, "hello.wj")
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := first.Finish(ctx, 0, nil, "hello\n"); err != nil {
		t.Fatalf("finish: %v", err)
	}

	second, err := j.Begin(ctx, "broken.wj")
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	runErr := object.Errorf(object.DivisionByZero, "cannot divide 1 by zero")
	if err := second.Finish(ctx, 1, runErr, ""); err != nil {
		t.Fatalf("finish: %v", err)
	}

	third, err := j.Begin(ctx, "plain.wj")
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := third.Finish(ctx, 2, errors.New("disk full"), ""); err != nil {
		t.Fatalf("finish: %v", err)
	}

	records, err := j.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	plain, broken := records[0], records[1]
	if plain.Path != "plain.wj" || plain.ErrorKind.String != "Unknown" || plain.ErrorMessage.String != "disk full" {
		t.Errorf("unexpected record %+v", plain)
	}
	if broken.Path != "broken.wj" || !broken.ExitCode.Valid || broken.ExitCode.Int64 != 1 {
		t.Errorf("unexpected record %+v", broken)
	}
	if broken.ErrorKind.String != "DivisionByZero" || broken.ErrorMessage.String != "cannot divide 1 by zero" {
		t.Errorf("unexpected error columns %+v", broken)
	}
	if !broken.FinishedAt.Valid || broken.FinishedAt.Time.Before(broken.StartedAt) {
		t.Errorf("unexpected timestamps %+v", broken)
	}

	all, _ := j.Recent(ctx, 10)
	if len(all) != 3 || all[2].Output.String != "hello\n" || all[2].ErrorKind.Valid {
		t.Errorf("unexpected first run %+v", all)
	}
}

func TestOpenRejectsUnknownDSN(t *testing.T) {
	if _, err := Open(context.Background(), "ftp://nowhere"); err == nil {
		t.Errorf("expected an error")
	}
}
