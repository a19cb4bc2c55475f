package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa del advisor.
type Config struct {
	Advisor AdvisorConfig `yaml:"advisor"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// AdvisorConfig controla el filtrado y el dimensionado de apuestas.
type AdvisorConfig struct {
	BudgetUSD       decimal.Decimal `yaml:"budget_usd"`
	BankrollUSD     decimal.Decimal `yaml:"bankroll_usd"` // 0 = usar el presupuesto como bankroll
	Policy          string          `yaml:"policy"`       // sequential_kelly | proportional
	KellyFraction   float64         `yaml:"kelly_fraction"`
	MinEdge         float64         `yaml:"min_edge"`
	NoiseMargin     float64         `yaml:"noise_margin"`
	MinTicketUSD    decimal.Decimal `yaml:"min_ticket_usd"`
	MinPriceCents   int64           `yaml:"min_price_cents"`
	MaxPriceCents   int64           `yaml:"max_price_cents"`
	MinVolume       float64         `yaml:"min_volume"` // liquidity trap: 0 = desactivado
	KeepZero        bool            `yaml:"keep_zero"`
	Categories      []string        `yaml:"categories"`
	SplitByCategory bool            `yaml:"split_by_category"`
	IntervalSeconds int             `yaml:"interval_seconds"` // 0 = un solo ciclo
}

// StorageConfig controla dónde se guarda el snapshot de investigación.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Si el archivo YAML no existe se usan solo defaults y variables de entorno.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	setDefaults(&cfg)

	return &cfg, nil
}

// BudgetCents devuelve el presupuesto por ciclo en centavos (redondeado al centavo).
func (c *Config) BudgetCents() int64 {
	return toCents(c.Advisor.BudgetUSD)
}

// BankrollCents devuelve el bankroll en centavos.
func (c *Config) BankrollCents() int64 {
	return toCents(c.Advisor.BankrollUSD)
}

// MinTicketCents devuelve el ticket mínimo en centavos.
func (c *Config) MinTicketCents() int64 {
	return toCents(c.Advisor.MinTicketUSD)
}

// Interval devuelve el intervalo entre ciclos como time.Duration.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.Advisor.IntervalSeconds) * time.Second
}

// ParseUSD convierte "12.34" a centavos sin pérdida de precisión.
func ParseUSD(s string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if err != nil {
		return 0, fmt.Errorf("parse USD %q: %w", s, err)
	}
	return toCents(d), nil
}

func toCents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("ADVISOR_BUDGET_USD"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return fmt.Errorf("ADVISOR_BUDGET_USD %q: %w", v, err)
		}
		cfg.Advisor.BudgetUSD = d
	}
	if v := os.Getenv("ADVISOR_POLICY"); v != "" {
		cfg.Advisor.Policy = v
	}
	if v := os.Getenv("ADVISOR_DB"); v != "" {
		cfg.Storage.DSN = v
	}
	return nil
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Advisor.BudgetUSD.IsZero() {
		cfg.Advisor.BudgetUSD = decimal.NewFromInt(10) // $10 por ciclo
	}
	if cfg.Advisor.Policy == "" {
		cfg.Advisor.Policy = "sequential_kelly"
	}
	if cfg.Advisor.KellyFraction <= 0 {
		cfg.Advisor.KellyFraction = 0.25 // quarter-Kelly
	}
	if cfg.Advisor.MinEdge <= 0 {
		cfg.Advisor.MinEdge = 0.05
	}
	if cfg.Advisor.NoiseMargin <= 0 {
		cfg.Advisor.NoiseMargin = 0.05
	}
	if cfg.Advisor.MinTicketUSD.IsZero() {
		cfg.Advisor.MinTicketUSD = decimal.NewFromInt(1)
	}
	if cfg.Advisor.MinPriceCents <= 0 {
		cfg.Advisor.MinPriceCents = 1
	}
	if cfg.Advisor.MaxPriceCents <= 0 {
		cfg.Advisor.MaxPriceCents = 99
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "advisor.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
