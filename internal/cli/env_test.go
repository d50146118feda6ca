package cli

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestEnvLoaderLoadsRequestedFile(t *testing.T) {
	t.Setenv("NEWSANALYSIS_ENV_FILE", "")
	t.Setenv("HORSE_ENV_FILE", "")
	t.Setenv("NA_TEST_VALUE", "before")

	path := filepath.Join(t.TempDir(), "custom.env")
	if err := os.WriteFile(path, []byte("NA_TEST_VALUE=after\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	loader := AddEnvFlag(fs, "", "")
	loader.SetOutput(io.Discard)
	if err := fs.Parse([]string{"--env", path}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	loaded, err := loader.Load()
	if err != nil {
		t.Fatalf("load env: %v", err)
	}
	if loaded != path {
		t.Fatalf("unexpected loaded path: got %q want %q", loaded, path)
	}
	if got := os.Getenv("NA_TEST_VALUE"); got != "after" {
		t.Fatalf("unexpected env value: got %q want %q", got, "after")
	}
}

func TestEnvLoaderPrefersOverrideVariable(t *testing.T) {
	t.Setenv("HORSE_ENV_FILE", "")

	path := filepath.Join(t.TempDir(), "override.env")
	if err := os.WriteFile(path, []byte("NA_TEST_OVERRIDE=yes\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("NEWSANALYSIS_ENV_FILE", path)
	t.Setenv("NA_TEST_OVERRIDE", "no")

	loader := AddEnvFlag(flag.NewFlagSet("test", flag.ContinueOnError), filepath.Join(t.TempDir(), "missing.env"), "")
	loader.SetOutput(nil)

	loaded, err := loader.Load()
	if err != nil {
		t.Fatalf("load env: %v", err)
	}
	if loaded != path {
		t.Fatalf("unexpected loaded path: got %q want %q", loaded, path)
	}
	if got := os.Getenv("NA_TEST_OVERRIDE"); got != "yes" {
		t.Fatalf("unexpected env value: got %q want %q", got, "yes")
	}
}

func TestEnvLoaderMissingFiles(t *testing.T) {
	t.Setenv("NEWSANALYSIS_ENV_FILE", "")
	t.Setenv("HORSE_ENV_FILE", "")

	dir := t.TempDir()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	loader := AddEnvFlag(fs, filepath.Join(dir, ".env"), "")
	loader.SetOutput(nil)

	loaded, err := loader.Load()
	if err != nil {
		t.Fatalf("missing default env file should be ignored: %v", err)
	}
	if loaded != "" {
		t.Fatalf("unexpected loaded path: %q", loaded)
	}

	if err := fs.Parse([]string{"--env", filepath.Join(dir, "explicit.env")}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if _, err := loader.Load(); err == nil {
		t.Fatalf("expected missing explicit env file to fail")
	}
}
