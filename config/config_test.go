package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "semgraph.yaml")
	src := "data_dir: /srv/semgraph\nstore: sqlite\nstore_path: relations.db\nmax_bindings: 500\nauto_create_nodes: true\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Store != StoreSqlite || cfg.MaxBindings != 500 || !cfg.AutoCreateNodes {
		t.Errorf("got %+v", cfg)
	}
	// untouched fields keep their defaults
	if cfg.Rules != "rules.txt" {
		t.Errorf("rules = %q, want the default", cfg.Rules)
	}
	if got := cfg.Path(cfg.StorePath); got != "/srv/semgraph/relations.db" {
		t.Errorf("store path = %q", got)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SEMGRAPH_STORE", "memory")
	t.Setenv("SEMGRAPH_MAX_BINDINGS", "42")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Store != StoreMemory || cfg.MaxBindings != 42 {
		t.Errorf("got %+v", cfg)
	}
}

func TestApplyEnvErrors(t *testing.T) {
	env := map[string]string{"SEMGRAPH_AUTO_CREATE_NODES": "maybe"}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	if err := cfg.applyEnv(lookup); err == nil {
		t.Errorf("expected an error for a non boolean value")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Store = "redis"
	if err := cfg.Validate(); err == nil {
		t.Errorf("expected an error for an unknown store")
	}
}

func TestPath(t *testing.T) {
	cfg := Default()
	if got := cfg.Path("/abs/rules.txt"); got != "/abs/rules.txt" {
		t.Errorf("absolute path changed: %q", got)
	}
	if got := cfg.Path(""); got != "" {
		t.Errorf("empty path changed: %q", got)
	}
	if got := cfg.Path("rules.txt"); got != filepath.Join("data", "rules.txt") {
		t.Errorf("got %q", got)
	}
}
