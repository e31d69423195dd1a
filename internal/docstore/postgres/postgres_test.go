package postgres

import (
	"io/fs"
	"strings"
	"testing"
)

func TestQueriesAreScopedToCollection(t *testing.T) {
	queries := map[string]string{
		"get":    queryGet,
		"list":   queryList,
		"where":  queryWhere,
		"merge":  queryMerge,
		"delete": queryDelete,
	}

	for name, query := range queries {
		if !strings.Contains(query, "collection = $1") {
			t.Fatalf("expected %s query to filter on collection", name)
		}
	}
}

func TestMergeKeepsUntouchedFields(t *testing.T) {
	if !strings.Contains(queryMerge, "data = data || $3::jsonb") {
		t.Fatal("update must merge into the existing document, not replace it")
	}
	if !strings.Contains(queryUpsert, "ON CONFLICT (collection, id)") {
		t.Fatal("set must upsert by collection and id")
	}
}

func TestWhereUsesContainment(t *testing.T) {
	if !strings.Contains(queryWhere, "data @> $2::jsonb") {
		t.Fatal("equality filter should use jsonb containment to hit the GIN index")
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(Migrations, MigrationsDir)
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}

	found := map[string]bool{}
	for _, e := range entries {
		found[e.Name()] = true
	}
	for _, name := range []string{"000001_documents.up.sql", "000001_documents.down.sql"} {
		if !found[name] {
			t.Fatalf("expected embedded migration %s", name)
		}
	}
}
