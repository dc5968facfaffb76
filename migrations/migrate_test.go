package migrations

import (
	"strings"
	"testing"
)

func TestSplitStatements(t *testing.T) {
	stmts := splitStatements("CREATE TABLE a (id INT);\n\nCREATE TABLE b (id INT);\n")
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(stmts))
	}
	for _, s := range stmts {
		if strings.HasSuffix(s, ";") || strings.TrimSpace(s) == "" {
			t.Fatalf("statement not trimmed: %q", s)
		}
	}
}

func TestEmbeddedSchemaIsSplittable(t *testing.T) {
	entries, err := migrationFiles.ReadDir(".")
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("no embedded migration files")
	}
	for _, e := range entries {
		bs, err := migrationFiles.ReadFile(e.Name())
		if err != nil {
			t.Fatalf("read %s: %v", e.Name(), err)
		}
		if len(splitStatements(string(bs))) == 0 {
			t.Fatalf("%s yields no statements", e.Name())
		}
	}
}
