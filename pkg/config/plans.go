package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Plan describes the resource limits attached to a subscription tier.
// Tenants reference plans by name; a zero MaxAssets means unlimited.
type Plan struct {
	Name           string  `yaml:"name"`
	StorageLimitMB float64 `yaml:"storage_limit_mb"`
	MaxAssets      int     `yaml:"max_assets"`
}

// PlanCatalog maps plan names to their limits.
type PlanCatalog map[string]Plan

// DefaultPlanCatalog returns the built-in tiers used when no catalog file
// is configured.
func DefaultPlanCatalog() PlanCatalog {
	return PlanCatalog{
		"free":       {Name: "free", StorageLimitMB: 100, MaxAssets: 10},
		"starter":    {Name: "starter", StorageLimitMB: 1024, MaxAssets: 100},
		"business":   {Name: "business", StorageLimitMB: 10240, MaxAssets: 1000},
		"enterprise": {Name: "enterprise", StorageLimitMB: 51200, MaxAssets: 0},
	}
}

// LoadPlanCatalog reads a plan catalog from a YAML file. The file holds a
// list of plans under a top-level "plans" key.
func LoadPlanCatalog(path string) (PlanCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan catalog: %w", err)
	}

	var doc struct {
		Plans []Plan `yaml:"plans"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse plan catalog: %w", err)
	}
	if len(doc.Plans) == 0 {
		return nil, fmt.Errorf("plan catalog %s contains no plans", path)
	}

	catalog := make(PlanCatalog, len(doc.Plans))
	for _, p := range doc.Plans {
		if p.Name == "" {
			return nil, fmt.Errorf("plan catalog %s contains a plan without a name", path)
		}
		catalog[p.Name] = p
	}
	return catalog, nil
}

// Lookup returns the plan for a name, falling back to the free tier when the
// name is unknown so a misconfigured tenant never gets unlimited storage.
func (c PlanCatalog) Lookup(name string) Plan {
	if p, ok := c[name]; ok {
		return p
	}
	if p, ok := c["free"]; ok {
		return p
	}
	return Plan{Name: name}
}
