package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if got := cfg.CollaborativeWeight + cfg.ContentWeight + cfg.PopularityWeight; got != 1.0 {
		t.Errorf("weight sum = %v, want 1.0", got)
	}
	if cfg.NeighborLimit != 10 || cfg.MinCommonRatings != 2 || cfg.HistoryWindow != 50 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.HighRatingThreshold != 4.0 || cfg.DemoteFactor != 0.3 {
		t.Errorf("unexpected demotion defaults: %+v", cfg)
	}
}

func TestFillDefaults(t *testing.T) {
	t.Run("zero value gets all defaults", func(t *testing.T) {
		var cfg Engine
		cfg.FillDefaults()
		if want := Default(); cfg.CollaborativeWeight != want.CollaborativeWeight ||
			cfg.NeighborLimit != want.NeighborLimit ||
			cfg.DefaultLimit != want.DefaultLimit {
			t.Errorf("got %+v, want %+v", cfg, want)
		}
	})

	t.Run("explicit weights kept as a trio", func(t *testing.T) {
		cfg := Engine{CollaborativeWeight: 1.0}
		cfg.FillDefaults()
		if cfg.CollaborativeWeight != 1.0 || cfg.ContentWeight != 0 || cfg.PopularityWeight != 0 {
			t.Errorf("weights = (%v, %v, %v), want (1, 0, 0)",
				cfg.CollaborativeWeight, cfg.ContentWeight, cfg.PopularityWeight)
		}
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Engine)
		wantErr bool
	}{
		{"defaults", func(*Engine) {}, false},
		{"single path takes full weight", func(c *Engine) {
			c.CollaborativeWeight, c.ContentWeight, c.PopularityWeight = 1.0, 0, 0
		}, false},
		{"rebalanced pair", func(c *Engine) {
			c.CollaborativeWeight, c.ContentWeight, c.PopularityWeight = 0.5, 0.5, 0
		}, false},
		{"partial triple", func(c *Engine) {
			c.CollaborativeWeight, c.ContentWeight, c.PopularityWeight = 0.5, 0, 0
		}, true},
		{"oversubscribed", func(c *Engine) {
			c.CollaborativeWeight, c.ContentWeight, c.PopularityWeight = 0.6, 0.6, 0.2
		}, true},
		{"demote factor above 1", func(c *Engine) { c.DemoteFactor = 1.5 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromYAML_PartialWeightsRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	data := []byte("engine:\n  collaborative_weight: 0.5\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromYAML(path); err == nil {
		t.Error("LoadFromYAML() error = nil, want weight-sum error")
	}
}

func TestLoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	data := []byte(`engine:
  collaborative_weight: 0.5
  content_weight: 0.3
  popularity_weight: 0.2
  neighbor_limit: 5
  rules:
    - expr: 'label.recall_source.contains("popularity")'
      factor: 0.9
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromYAML(path)
	if err != nil {
		t.Fatalf("LoadFromYAML() error = %v", err)
	}
	if cfg.CollaborativeWeight != 0.5 || cfg.ContentWeight != 0.3 || cfg.PopularityWeight != 0.2 {
		t.Errorf("weights = (%v, %v, %v), want (0.5, 0.3, 0.2)",
			cfg.CollaborativeWeight, cfg.ContentWeight, cfg.PopularityWeight)
	}
	if cfg.NeighborLimit != 5 {
		t.Errorf("NeighborLimit = %d, want 5", cfg.NeighborLimit)
	}
	// 未出现的字段回落默认
	if cfg.HistoryWindow != DefaultHistoryWindow || cfg.DemoteFactor != DefaultDemoteFactor {
		t.Errorf("defaults not filled: %+v", cfg)
	}
	if len(cfg.Rules) != 1 || cfg.Rules[0].Factor != 0.9 {
		t.Errorf("rules = %+v, want one rule with factor 0.9", cfg.Rules)
	}
}

func TestLoadFromYAML_Errors(t *testing.T) {
	if _, err := LoadFromYAML(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadFromYAML(missing) error = nil, want error")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("engine: [not a mapping"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromYAML(path); err == nil {
		t.Error("LoadFromYAML(malformed) error = nil, want error")
	}
}
