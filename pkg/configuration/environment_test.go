package configuration

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEnv_ReadsExistingFilesOnly(t *testing.T) {
	tmp := t.TempDir()

	requireWriteFile(t, filepath.Join(tmp, ".env.local"), "DAM_TEST_ENV_LOAD=ok\n")

	origWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(origWd) })
	if err := os.Chdir(tmp); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	_ = os.Unsetenv("DAM_TEST_ENV_LOAD")

	n, err := LoadEnv([]string{".env", ".env.local"})
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 env file loaded, got %d", n)
	}
	if got := os.Getenv("DAM_TEST_ENV_LOAD"); got != "ok" {
		t.Fatalf("expected env var loaded, got %q", got)
	}
}

func TestTenancyOptions_Validation(t *testing.T) {
	c := &Configuration{}
	c.Tenancy.RootDomain = "Brandassets.Space "
	c.Tenancy.AdminSubdomain = "sysadmin"
	if err := c.validateTenancy(); err != nil {
		t.Fatalf("validateTenancy: %v", err)
	}
	if c.Tenancy.RootDomain != "brandassets.space" {
		t.Fatalf("root domain not normalized: %q", c.Tenancy.RootDomain)
	}
	if got := c.Tenancy.AdminHost(); got != "sysadmin.brandassets.space" {
		t.Fatalf("unexpected admin host %q", got)
	}

	c.Tenancy.AdminSubdomain = "bad.label"
	if err := c.validateTenancy(); err == nil {
		t.Fatal("expected error for dotted admin label")
	}
}

func requireWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
