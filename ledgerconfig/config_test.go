package ledgerconfig

import "testing"

func TestDefaultConfigValidates(t *testing.T) {
	if err := Validate(DefaultConfig()); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestValidateRejectsBadSplitRatios(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PayrollRatio = 0.5
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for ratios not summing to 1.0")
	}
}

func TestValidateRejectsEmptyTreasuryID(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TreasurySingletonID = ""
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for empty treasury singleton id")
	}
}

func TestLoadWithNoFileReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TreasurySingletonID != DefaultConfig().TreasurySingletonID {
		t.Errorf("expected default treasury id, got %s", cfg.TreasurySingletonID)
	}
}
