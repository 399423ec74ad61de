package db

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func tableColumns(t *testing.T, db *sql.DB, table string) map[string]bool {
	t.Helper()
	rows, err := db.Query("PRAGMA table_info(" + table + ")")
	if err != nil {
		t.Fatalf("pragmas: %v", err)
	}
	defer rows.Close()
	cols := map[string]bool{}
	for rows.Next() {
		var cid int
		var colName, ctype string
		var notnull, pk int
		var dfltVal interface{}
		if err := rows.Scan(&cid, &colName, &ctype, &notnull, &dfltVal, &pk); err != nil {
			t.Fatalf("scan col: %v", err)
		}
		cols[colName] = true
	}
	return cols
}

// TestInitDBCreatesSchema verifies a fresh database gets every table with
// the position columns that preserve entry order.
func TestInitDBCreatesSchema(t *testing.T) {
	dbConn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer dbConn.Close()
	dbConn.SetMaxOpenConns(1)

	if err := InitDB(dbConn); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}

	for _, table := range []string{"kanji", "old_kanji", "readings", "alternate_orthographies", "examples", "compound_readings", "placename_readings"} {
		var name string
		if err := dbConn.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name); err != nil {
			t.Fatalf("%s table missing: %v", table, err)
		}
	}

	for _, table := range []string{"old_kanji", "readings", "alternate_orthographies", "examples"} {
		if cols := tableColumns(t, dbConn, table); !cols["position"] {
			t.Fatalf("expected position in %s, got %v", table, cols)
		}
	}
	if cols := tableColumns(t, dbConn, "examples"); !cols["literary"] || !cols["pos"] {
		t.Fatalf("expected literary and pos in examples, got %v", cols)
	}
}

// TestInitDBIdempotent verifies migrations can run against an existing
// database.
func TestInitDBIdempotent(t *testing.T) {
	dbConn, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer dbConn.Close()

	if err := InitDB(dbConn); err != nil {
		t.Fatalf("second InitDB failed: %v", err)
	}
}
