package postgres

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"
)

func TestMigrations_Embedded(t *testing.T) {
	migs, err := Migrations()
	if err != nil {
		t.Fatalf("Migrations: %v", err)
	}
	if len(migs) < 1 {
		t.Fatal("expected at least one migration")
	}
	if migs[0].Name != "0001_create_posts.sql" {
		t.Errorf("first migration = %q", migs[0].Name)
	}
	if !strings.Contains(migs[0].SQL, "CREATE TABLE IF NOT EXISTS posts") {
		t.Error("first migration must create posts table")
	}
	for i := 1; i < len(migs); i++ {
		if migs[i-1].Name >= migs[i].Name {
			t.Errorf("migrations out of order: %q before %q", migs[i-1].Name, migs[i].Name)
		}
	}
}

func TestLoadMigrations_SortsAndFilters(t *testing.T) {
	fsys := fstest.MapFS{
		"m/0002_b.sql": {Data: []byte("SELECT 2")},
		"m/0001_a.sql": {Data: []byte("SELECT 1")},
		"m/README.md":  {Data: []byte("docs")},
		"m/sub/x.sql":  {Data: []byte("SELECT 3")},
		"m/0010_c.sql": {Data: []byte("SELECT 10")},
	}
	migs, err := loadMigrations(fsys, "m")
	if err != nil {
		t.Fatalf("loadMigrations: %v", err)
	}

	want := []string{"0001_a.sql", "0002_b.sql", "0010_c.sql"}
	if len(migs) != len(want) {
		t.Fatalf("got %d migrations, want %d", len(migs), len(want))
	}
	for i, name := range want {
		if migs[i].Name != name {
			t.Errorf("migs[%d] = %q, want %q", i, migs[i].Name, name)
		}
	}
	if migs[0].SQL != "SELECT 1" {
		t.Errorf("SQL = %q", migs[0].SQL)
	}
}

func TestLoadMigrations_MissingDir(t *testing.T) {
	if _, err := loadMigrations(fstest.MapFS{}, "nope"); err == nil {
		t.Fatal("expected error for missing dir")
	}
}

func TestNewStore_RequiresDSN(t *testing.T) {
	if _, err := NewStore(context.Background(), Config{}); err == nil {
		t.Fatal("expected error for empty dsn")
	}
}

func TestNewStore_BadDSN(t *testing.T) {
	if _, err := NewStore(context.Background(), Config{DSN: "postgres://%zz"}); err == nil {
		t.Fatal("expected parse error")
	}
}
