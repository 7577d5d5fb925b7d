package db

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestMigrateCreatesSchema(t *testing.T) {
	dsn := fmt.Sprintf("file:migrate_%d?mode=memory&cache=shared", time.Now().UnixNano())
	conn, err := Open(dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = Close(conn) }()

	if errMigrate := Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}

	tables := []string{"stores", "users", "customers", "rewards", "redemptions", "point_transactions", "leads"}
	for _, table := range tables {
		if !conn.Migrator().HasTable(table) {
			t.Fatalf("missing table %s", table)
		}
	}
	if !conn.Migrator().HasIndex("redemptions", "idx_redemptions_store_code") {
		t.Fatal("missing unique index on (store_id, code)")
	}
}

func TestDetectDialectFromDSN(t *testing.T) {
	cases := []struct {
		dsn  string
		want string
	}{
		{"postgres://user@localhost/db", DialectPostgres},
		{"postgresql://user@localhost/db", DialectPostgres},
		{"host=localhost user=app dbname=loyalty", DialectPostgres},
		{"file:loyalty.db", DialectSQLite},
		{"loyalty.db", DialectSQLite},
		{"sqlite://loyalty.db", DialectSQLite},
		{":memory:", DialectSQLite},
	}
	for _, tc := range cases {
		got, err := detectDialectFromDSN(tc.dsn)
		if err != nil {
			t.Fatalf("detect %q: %v", tc.dsn, err)
		}
		if got != tc.want {
			t.Fatalf("detect %q = %s, want %s", tc.dsn, got, tc.want)
		}
	}
	if _, err := Open(""); err == nil {
		t.Fatal("expected error for empty dsn")
	}
}

func TestEnsureSQLiteParams(t *testing.T) {
	out := ensureSQLiteParams("file:loyalty.db")
	for _, param := range []string{"_busy_timeout=", "_journal_mode=", "_foreign_keys=", "_synchronous="} {
		if !strings.Contains(out, param) {
			t.Fatalf("missing %s in %s", param, out)
		}
	}

	custom := ensureSQLiteParams("file:loyalty.db?_journal_mode=DELETE")
	if strings.Count(custom, "_journal_mode=") != 1 {
		t.Fatalf("journal mode duplicated: %s", custom)
	}
}
