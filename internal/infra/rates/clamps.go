package rates

import (
	"encoding/json"
	"log/slog"
	"strings"

	domainsuites "petlodge/internal/domain/suites"
)

type ClampRange struct {
	MinCents int64 `json:"min_cents"`
	MaxCents int64 `json:"max_cents"`
}

type ClampConfig struct {
	Defaults map[domainsuites.SuiteType]ClampRange `json:"defaults"`
}

func DefaultClampConfig() ClampConfig {
	return ClampConfig{
		Defaults: map[domainsuites.SuiteType]ClampRange{
			domainsuites.TypeKennel:  {MinCents: 2_000, MaxCents: 15_000},
			domainsuites.TypeSuite:   {MinCents: 4_000, MaxCents: 30_000},
			domainsuites.TypeCattery: {MinCents: 1_500, MaxCents: 12_000},
		},
	}
}

func LoadClampConfig(raw string, logger *slog.Logger) ClampConfig {
	if strings.TrimSpace(raw) == "" {
		return DefaultClampConfig()
	}

	var cfg ClampConfig
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		if logger != nil {
			logger.Warn("invalid RATE_CLAMPS JSON, using defaults", "error", err)
		}
		return DefaultClampConfig()
	}
	if cfg.Defaults == nil {
		cfg.Defaults = DefaultClampConfig().Defaults
	}
	return cfg
}

func applyClamps(amount int64, cfg ClampConfig, suiteType domainsuites.SuiteType) (final int64, min int64, max int64, clamped bool) {
	final = amount
	rng, ok := cfg.Defaults[suiteType]
	if !ok {
		return final, 0, 0, false
	}

	min = rng.MinCents
	max = rng.MaxCents

	if min > 0 && final < min {
		final = min
		clamped = true
	}
	if max > 0 && final > max {
		final = max
		clamped = true
	}
	return final, min, max, clamped
}
