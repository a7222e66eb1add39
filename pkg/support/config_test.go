package support

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	if cfg.HeadBackRadius != 1.0 {
		t.Errorf("head back radius = %f, want 1.0", cfg.HeadBackRadius)
	}
	if cfg.HeadFrontRadius != 0.5 {
		t.Errorf("head front radius = %f, want 0.5", cfg.HeadFrontRadius)
	}
	if cfg.HeadWidth != 2.0 {
		t.Errorf("head width = %f, want 2.0", cfg.HeadWidth)
	}
	if len(cfg.Validate()) != 0 {
		t.Errorf("default config should validate, got %v", cfg.Validate())
	}
	if warnings := cfg.Lint(); len(warnings) != 0 {
		t.Errorf("default config should lint clean, got %v", warnings)
	}
	if math.Sin(-cfg.Tilt) >= 0 {
		t.Error("default tilt must give a descending bridge slope")
	}
}

func TestValidateCatchesNonPositive(t *testing.T) {
	cfg := Default()
	cfg.PillarRadius = 0
	cfg.HeadWidth = -1

	errs := cfg.Validate()
	if len(errs) != 2 {
		t.Fatalf("got %d validation errors, want 2: %v", len(errs), errs)
	}
	if !strings.Contains(errs[0].Error(), "head_width_mm") {
		t.Errorf("first error = %v, want head_width_mm finding", errs[0])
	}
}

func TestLintFindings(t *testing.T) {
	cfg := Default()
	cfg.Tilt = -math.Pi / 4
	cfg.HeadFrontRadius = 1.5

	warnings := cfg.Lint()
	if len(warnings) != 2 {
		t.Fatalf("got %d lint warnings, want 2: %v", len(warnings), warnings)
	}
	if !strings.Contains(warnings[0], "non-descending") {
		t.Errorf("warning = %q, want tilt finding", warnings[0])
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "supports.yaml")
	data := "head_width_mm: 3.5\npillar_radius_mm: 1.2\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HeadWidth != 3.5 {
		t.Errorf("head width = %f, want 3.5", cfg.HeadWidth)
	}
	if cfg.PillarRadius != 1.2 {
		t.Errorf("pillar radius = %f, want 1.2", cfg.PillarRadius)
	}
	// untouched fields keep their defaults
	if cfg.BaseRadius != 2.0 {
		t.Errorf("base radius = %f, want default 2.0", cfg.BaseRadius)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("loading a missing file should fail")
	}
}
