package config

import (
	"os"
	"strconv"
)

// applyEnvOverrides reads well-known environment variables and overwrites
// the corresponding Config fields when a variable is set. Secrets such as
// API keys are best kept there rather than in tj.toml.
func applyEnvOverrides(cfg *Config) {
	setStr(&cfg.Currency, "TJ_CURRENCY")
	setStr(&cfg.Ledger.Location, "TJ_LEDGER")
	setStr(&cfg.Cash.Mode, "TJ_CASH_MODE")
	setStr(&cfg.Quotes.Provider, "TJ_QUOTES_PROVIDER")
	setStr(&cfg.Quotes.EODHDKey, "EODHD_API_KEY")
	setStr(&cfg.Refresh.Schedule, "TJ_REFRESH_SCHEDULE")
	setStr(&cfg.Server.Addr, "TJ_SERVER_ADDR")
	setStr(&cfg.Log.Level, "TJ_LOG_LEVEL")
	setBool(&cfg.Log.Pretty, "TJ_LOG_PRETTY")
	setStr(&cfg.Review.Model, "TJ_REVIEW_MODEL")
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
