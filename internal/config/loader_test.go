package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadExplicitPath(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "cfg.yaml")

	content := `
tick_rate: 12
level_dir: "/tmp/levels"
solver:
  effort: quick
  cache: false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.TickRate != 12 {
		t.Errorf("TickRate = %d, expected 12", cfg.TickRate)
	}
	if cfg.LevelDir != "/tmp/levels" {
		t.Errorf("LevelDir = %q, expected /tmp/levels", cfg.LevelDir)
	}
	if cfg.Solver.Effort != EffortQuick {
		t.Errorf("Effort = %q, expected quick", cfg.Solver.Effort)
	}
	if cfg.Solver.Cache {
		t.Error("Cache should be false")
	}

	// Omitted fields get defaults filled in
	if cfg.Database == "" {
		t.Error("Database should fall back to the default")
	}
	if cfg.Render.CellWidth <= 0 {
		t.Error("CellWidth should fall back to the default")
	}
}

func TestLoadExplicitPathErrors(t *testing.T) {
	if _, err := Load("/does/not/exist.yaml"); err == nil {
		t.Error("Load() with a missing explicit path should fail")
	}

	tmpDir := t.TempDir()
	bad := filepath.Join(tmpDir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("{"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("Load() with invalid YAML should fail")
	}
}

func TestEmbeddedDefaultParses(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Whatever source won, the result must be usable.
	if cfg.TickRate <= 0 {
		t.Errorf("TickRate = %d, expected positive", cfg.TickRate)
	}
	if !ValidEffort(string(cfg.Solver.Effort)) {
		t.Errorf("Effort = %q, expected a known preset", cfg.Solver.Effort)
	}
	if cfg.Solver.Budget() <= 0 {
		t.Errorf("Budget() = %d, expected positive", cfg.Solver.Budget())
	}
}

func TestMaxStatesForPreset(t *testing.T) {
	if MaxStatesForPreset(EffortQuick) >= MaxStatesForPreset(EffortNormal) {
		t.Error("quick budget should be below normal")
	}
	if MaxStatesForPreset(EffortNormal) >= MaxStatesForPreset(EffortExhaustive) {
		t.Error("normal budget should be below exhaustive")
	}
	if MaxStatesForPreset("bogus") != MaxStatesForPreset(EffortNormal) {
		t.Error("unknown preset should get the normal budget")
	}
}

func TestSolverBudgetOverride(t *testing.T) {
	c := SolverConfig{Effort: EffortQuick, MaxStates: 77}
	if c.Budget() != 77 {
		t.Errorf("Budget() = %d, expected explicit 77", c.Budget())
	}

	c.MaxStates = 0
	if c.Budget() != MaxStatesForPreset(EffortQuick) {
		t.Errorf("Budget() = %d, expected the quick preset", c.Budget())
	}
}
