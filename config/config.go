// Package config loads the tj configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/etnz/tradejournal"
	"github.com/etnz/tradejournal/date"
	"github.com/etnz/tradejournal/eodhd"
	"github.com/etnz/tradejournal/httpquote"
	"github.com/etnz/tradejournal/logger"
	"github.com/etnz/tradejournal/scheduler"
	"github.com/etnz/tradejournal/sheets"
	"github.com/etnz/tradejournal/yahoo"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// DefaultFile is the configuration file read when none is given.
const DefaultFile = "tj.toml"

// Quote providers.
const (
	ProviderYahoo  = "yahoo"
	ProviderEODHD  = "eodhd"
	ProviderHTTP   = "http"
	ProviderStatic = "static"
)

// Config is the content of a tj.toml file.
type Config struct {
	Currency       string  `toml:"currency"`
	ReferenceValue float64 `toml:"reference_value"` // starting portfolio value
	Tolerance      float64 `toml:"tolerance"`       // accepted P&L rounding difference

	Fees    FeesConfig    `toml:"fees"`
	Cash    CashConfig    `toml:"cash"`
	Ledger  LedgerConfig  `toml:"ledger"`
	Quotes  QuotesConfig  `toml:"quotes"`
	Refresh RefreshConfig `toml:"refresh"`
	Server  ServerConfig  `toml:"server"`
	Log     LogConfig     `toml:"log"`
	Review  ReviewConfig  `toml:"review"`
}

// FeesConfig is the broker fee schedule.
type FeesConfig struct {
	Base       float64 `toml:"base"`
	PerShare   float64 `toml:"per_share"`
	ChargeExit bool    `toml:"charge_exit"`
}

// CashConfig selects how available cash is computed.
type CashConfig struct {
	Mode      string  `toml:"mode"`      // static, ledger or derived
	Amount    float64 `toml:"amount"`    // static mode
	Reference float64 `toml:"reference"` // derived mode
	Since     string  `toml:"since"`     // derived mode, optional
}

// LedgerConfig locates the trade ledger.
type LedgerConfig struct {
	Location string              `toml:"location"` // Google Sheets link or CSV file
	Aliases  map[string][]string `toml:"aliases"`  // extra column names per field
	// DateOrder is "mdy" (Google Sheets in a US locale) or "dmy".
	DateOrder string `toml:"date_order"`
}

// QuotesConfig selects and configures the quote provider.
type QuotesConfig struct {
	Provider      string             `toml:"provider"`
	Timeout       duration           `toml:"timeout"`
	MovingAverage int                `toml:"moving_average"`
	EODHDKey      string             `toml:"eodhd_key"`
	Exchange      string             `toml:"exchange"`
	URL           string             `toml:"url"`
	Price         string             `toml:"price"`
	Closes        string             `toml:"closes"`
	Prices        map[string]float64 `toml:"prices"`
}

// RefreshConfig is the schedule of watch and serve modes.
type RefreshConfig struct {
	Schedule string `toml:"schedule"`
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Addr        string   `toml:"addr"`
	CORSOrigins []string `toml:"cors_origins"`
}

// LogConfig holds logging parameters.
type LogConfig struct {
	Level  string `toml:"level"`
	Pretty bool   `toml:"pretty"`
}

// ReviewConfig holds AI review parameters.
type ReviewConfig struct {
	Model string `toml:"model"`
}

// duration is a wrapper around time.Duration that supports TOML string decoding
// (e.g. "5m", "30s").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with the journal defaults.
func Defaults() Config {
	return Config{
		Currency:  "USD",
		Tolerance: 0.01,
		Fees:      FeesConfig{Base: 3.50, PerShare: 0.0078, ChargeExit: true},
		Cash:      CashConfig{Mode: tradejournal.CashStatic},
		Quotes: QuotesConfig{
			Provider:      ProviderYahoo,
			Timeout:       duration{10 * time.Second},
			MovingAverage: tradejournal.DefaultMovingAverage,
			Exchange:      "US",
		},
		Refresh: RefreshConfig{Schedule: "@every 1m"},
		Server:  ServerConfig{Addr: "localhost:8080"},
		Log:     LogConfig{Level: "info", Pretty: true},
		Review:  ReviewConfig{Model: "gemini-2.5-flash"},
	}
}

// Load reads the TOML file at path over the defaults, then applies
// environment overrides. A missing DefaultFile is not an error.
// The returned Config has not been validated.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !(errors.Is(err, os.ErrNotExist) && path == DefaultFile) {
			return nil, fmt.Errorf("cannot load configuration: %w", err)
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)
	return &cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []string
	if c.Currency == "" {
		errs = append(errs, "currency must not be empty")
	}
	if c.Fees.Base < 0 || c.Fees.PerShare < 0 {
		errs = append(errs, "fees: base and per_share must not be negative")
	}
	switch c.Cash.Mode {
	case tradejournal.CashStatic, tradejournal.CashLedger:
	case tradejournal.CashDerived:
		if _, err := date.Parse(c.Cash.Since); err != nil {
			errs = append(errs, fmt.Sprintf("cash: since: %v", err))
		}
	default:
		errs = append(errs, fmt.Sprintf("cash: unknown mode %q (valid: static, ledger, derived)", c.Cash.Mode))
	}
	for field := range c.Ledger.Aliases {
		if !slices.Contains(tradejournal.AllFields(), tradejournal.Field(field)) {
			errs = append(errs, fmt.Sprintf("ledger: aliases: unknown field %q", field))
		}
	}
	if _, err := date.LayoutsFor(c.Ledger.DateOrder); err != nil {
		errs = append(errs, fmt.Sprintf("ledger: %v", err))
	}
	switch c.Quotes.Provider {
	case ProviderYahoo, ProviderStatic:
	case ProviderEODHD:
		if c.Quotes.EODHDKey == "" {
			errs = append(errs, "quotes: eodhd_key (or EODHD_API_KEY) is required for the eodhd provider")
		}
	case ProviderHTTP:
		if c.Quotes.URL == "" || c.Quotes.Price == "" {
			errs = append(errs, "quotes: url and price are required for the http provider")
		}
	default:
		errs = append(errs, fmt.Sprintf("quotes: unknown provider %q (valid: yahoo, eodhd, http, static)", c.Quotes.Provider))
	}
	if c.Quotes.Timeout.Duration <= 0 {
		errs = append(errs, "quotes: timeout must be positive")
	}
	if c.Quotes.MovingAverage < 0 {
		errs = append(errs, "quotes: moving_average must not be negative")
	}
	if err := scheduler.Validate(c.Refresh.Schedule); err != nil {
		errs = append(errs, fmt.Sprintf("refresh: schedule %q: %v", c.Refresh.Schedule, err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// Logger returns the logger configured by the log section.
func (c *Config) Logger() zerolog.Logger {
	return logger.New(logger.Config{Level: c.Log.Level, Pretty: c.Log.Pretty})
}

// CashStrategy returns the configured cash strategy.
func (c *Config) CashStrategy() (tradejournal.CashStrategy, error) {
	switch c.Cash.Mode {
	case tradejournal.CashStatic:
		return tradejournal.StaticCash{Amount: tradejournal.M(c.Cash.Amount, c.Currency)}, nil
	case tradejournal.CashLedger:
		return tradejournal.LedgerCash{}, nil
	case tradejournal.CashDerived:
		since, err := date.Parse(c.Cash.Since)
		if err != nil {
			return nil, &tradejournal.ConfigError{Setting: "cash", Err: err}
		}
		return tradejournal.DerivedCash{Reference: tradejournal.M(c.Cash.Reference, c.Currency), Since: since}, nil
	}
	return nil, &tradejournal.ConfigError{Setting: "cash", Err: fmt.Errorf("unknown mode %q", c.Cash.Mode)}
}

// Aggregator returns the aggregation configuration.
func (c *Config) Aggregator() (tradejournal.Config, error) {
	cash, err := c.CashStrategy()
	if err != nil {
		return tradejournal.Config{}, err
	}
	schema := tradejournal.DefaultSchema(c.Currency)
	for field, names := range c.Ledger.Aliases {
		schema = schema.WithAliases(tradejournal.Field(field), names...)
	}
	if schema.DateLayouts, err = date.LayoutsFor(c.Ledger.DateOrder); err != nil {
		return tradejournal.Config{}, &tradejournal.ConfigError{Setting: "ledger", Err: err}
	}
	return tradejournal.Config{
		Currency: c.Currency,
		Schema:   schema,
		Fees: tradejournal.FeeSchedule{
			Base:       tradejournal.M(c.Fees.Base, c.Currency),
			PerShare:   tradejournal.M(c.Fees.PerShare, c.Currency),
			ChargeExit: c.Fees.ChargeExit,
		},
		Cash:           cash,
		ReferenceValue: tradejournal.M(c.ReferenceValue, c.Currency),
		MovingAverage:  c.Quotes.MovingAverage,
		QuoteTimeout:   c.Quotes.Timeout.Duration,
		Tolerance:      tradejournal.M(c.Tolerance, c.Currency),
	}, nil
}

// QuoteProvider returns the configured quote provider.
func (c *Config) QuoteProvider(log zerolog.Logger) (tradejournal.QuoteProvider, error) {
	switch c.Quotes.Provider {
	case ProviderYahoo:
		return yahoo.New(log), nil
	case ProviderEODHD:
		p := eodhd.New(c.Quotes.EODHDKey, c.Quotes.MovingAverage, log)
		p.Exchange = c.Quotes.Exchange
		return p, nil
	case ProviderHTTP:
		return httpquote.New(c.Quotes.URL, c.Quotes.Price, c.Quotes.Closes, log)
	case ProviderStatic:
		return tradejournal.StaticPrices(c.Quotes.Prices), nil
	}
	return nil, &tradejournal.ConfigError{Setting: "quotes", Err: fmt.Errorf("unknown provider %q", c.Quotes.Provider)}
}

// LedgerSource returns the configured ledger source.
func (c *Config) LedgerSource(log zerolog.Logger) (tradejournal.LedgerSource, error) {
	if c.Ledger.Location == "" {
		return nil, &tradejournal.ConfigError{Setting: "ledger", Err: errors.New("no location (set ledger.location or TJ_LEDGER)")}
	}
	return sheets.Open(c.Ledger.Location, log), nil
}

// NewAggregator assembles the aggregator of this configuration.
func (c *Config) NewAggregator(log zerolog.Logger) (*tradejournal.Aggregator, error) {
	cfg, err := c.Aggregator()
	if err != nil {
		return nil, err
	}
	quotes, err := c.QuoteProvider(log)
	if err != nil {
		return nil, err
	}
	return tradejournal.NewAggregator(cfg, quotes, log)
}
