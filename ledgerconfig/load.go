package ledgerconfig

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from configPath (YAML), overlaid by CONCORD_
// prefixed environment variables, on top of DefaultConfig. An empty
// configPath skips the file read and returns defaults plus any
// environment overrides.
func Load(configPath string) (Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("ledgerconfig: read config %s: %w", configPath, err)
		}
	}

	v.SetEnvPrefix("CONCORD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("ledgerconfig: unmarshal: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("ledgerconfig: validate: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, defaults Config) {
	v.SetDefault("fee_rates", defaults.FeeRates)
	v.SetDefault("reserves_ratio", defaults.ReservesRatio)
	v.SetDefault("operating_ratio", defaults.OperatingRatio)
	v.SetDefault("payroll_ratio", defaults.PayrollRatio)
	v.SetDefault("royalty_initial_rate", defaults.RoyaltyInitialRate)
	v.SetDefault("royalty_rate_floor", defaults.RoyaltyRateFloor)
	v.SetDefault("royalty_max_depth", defaults.RoyaltyMaxDepth)
	v.SetDefault("treasury_singleton_id", defaults.TreasurySingletonID)
	v.SetDefault("vault_root_path", defaults.VaultRootPath)
	v.SetDefault("vault_grace_period", defaults.VaultGracePeriod)
	v.SetDefault("reconcile_interval", defaults.ReconcileInterval)
	v.SetDefault("reconcile_drift_tolerance_cents", defaults.ReconcileDriftToleranceCents)
	v.SetDefault("withdrawal_max_retries", defaults.WithdrawalMaxRetries)
	v.SetDefault("withdrawal_stale_after", defaults.WithdrawalStaleAfter)
	v.SetDefault("emergent_consistency_interval", defaults.EmergentConsistencyInterval)
}

// Validate checks that the split ratios reconcile and required paths/ids
// are non-empty.
func Validate(cfg Config) error {
	const epsilon = 1e-9
	sum := cfg.ReservesRatio + cfg.OperatingRatio + cfg.PayrollRatio
	if diff := sum - 1.0; diff > epsilon || diff < -epsilon {
		return fmt.Errorf("fee-split ratios must sum to 1.0, got %f", sum)
	}
	if cfg.TreasurySingletonID == "" {
		return fmt.Errorf("treasury_singleton_id must not be empty")
	}
	if cfg.VaultRootPath == "" {
		return fmt.Errorf("vault_root_path must not be empty")
	}
	if cfg.RoyaltyMaxDepth <= 0 {
		return fmt.Errorf("royalty_max_depth must be positive")
	}
	return nil
}
