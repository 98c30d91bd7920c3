//go:build !integration

package migrations

import (
	"io/fs"
	"strings"
	"testing"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(files, "sql")
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}
	ups, downs := map[string]bool{}, map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		}
	}
	if len(ups) == 0 {
		t.Fatal("expected at least one migration")
	}
	for v := range ups {
		if !downs[v] {
			t.Errorf("migration %s has no down file", v)
		}
	}
}

func TestActivationCodeConstraintIsNamed(t *testing.T) {
	b, err := fs.ReadFile(files, "sql/000001_init.up.sql")
	if err != nil {
		t.Fatalf("read init migration: %v", err)
	}
	// the repository maps violations of this constraint to a retryable error
	if !strings.Contains(string(b), "CONSTRAINT mqtt_auth_activation_code_key UNIQUE (activation_code)") {
		t.Error("mqtt_auth must carry the named unique constraint on activation_code")
	}
}
