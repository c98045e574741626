package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("miatctl %s: %v\n%s", strings.Join(args, " "), err, out.String())
	}
	return out.String()
}

func TestCommandsAgainstSQLite(t *testing.T) {
	t.Setenv("MIAT_CONFIG_FILE", "")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_NAME", filepath.Join(t.TempDir(), "miatctl.db"))

	if out := run(t, "migrate"); !strings.Contains(out, "schema migrated") {
		t.Fatalf("migrate output = %q", out)
	}

	out := run(t, "create-admin", "--email", "Boss@MIAT.mn", "--password", "long-password", "--role", "super-admin")
	if !strings.Contains(out, "boss@miat.mn") || !strings.Contains(out, "super-admin") {
		t.Fatalf("create-admin output = %q", out)
	}
	// Re-running changes the role of the existing admin.
	if out := run(t, "create-admin", "--email", "boss@miat.mn", "--role", "special-admin"); !strings.Contains(out, "admin 1 ") || !strings.Contains(out, "special-admin") {
		t.Fatalf("second create-admin output = %q", out)
	}

	if out := run(t, "create-hazard-type", "--name", "Fire", "--code", "fire", "--private"); !strings.Contains(out, "FIRE (private=true)") {
		t.Fatalf("create-hazard-type output = %q", out)
	}
	if out := run(t, "create-location", "--name", "Hangar 2", "--group", "Chinggis Khaan"); !strings.Contains(out, "Hangar 2") {
		t.Fatalf("create-location output = %q", out)
	}
}
