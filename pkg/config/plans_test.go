package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPlanCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plans.yaml")
	content := []byte(`plans:
  - name: free
    storage_limit_mb: 100
    max_assets: 10
  - name: lab
    storage_limit_mb: 2048
    max_assets: 250
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	catalog, err := LoadPlanCatalog(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(catalog) != 2 {
		t.Fatalf("expected 2 plans, got %d", len(catalog))
	}
	lab := catalog.Lookup("lab")
	if lab.StorageLimitMB != 2048 || lab.MaxAssets != 250 {
		t.Fatalf("unexpected lab plan: %+v", lab)
	}
}

func TestLoadPlanCatalog_Errors(t *testing.T) {
	if _, err := LoadPlanCatalog("/nonexistent/plans.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}

	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(empty, []byte("plans: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPlanCatalog(empty); err == nil {
		t.Fatal("expected error for empty catalog")
	}
}

func TestPlanCatalogLookupFallback(t *testing.T) {
	catalog := DefaultPlanCatalog()
	got := catalog.Lookup("no-such-plan")
	if got.Name != "free" {
		t.Fatalf("expected fallback to free tier, got %s", got.Name)
	}
}
