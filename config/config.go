package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ianfmc/livewell-nadex/internal/domain"
	"github.com/ianfmc/livewell-nadex/internal/strategy"
)

// Backends de almacenamiento soportados.
const (
	BackendLocal  = "local"
	BackendSQLite = "sqlite"
	BackendS3     = "s3"
)

// Config es la configuración completa del backtester.
type Config struct {
	Strategy   StrategyConfig   `yaml:"strategy"`
	KPI        KPIConfig        `yaml:"kpi"`
	Data       DataConfig       `yaml:"data"`
	Results    ResultsConfig    `yaml:"results"`
	Storage    StorageConfig    `yaml:"storage"`
	Report     ReportConfig     `yaml:"report"`
	Log        LogConfig        `yaml:"log"`
	Comparison ComparisonConfig `yaml:"comparison"`
}

// StrategyConfig son los parámetros del baseline más el tamaño del worker pool.
type StrategyConfig struct {
	domain.StrategyParams `yaml:",inline"`
	Workers               int `yaml:"workers"` // tickers en paralelo
}

// KPIConfig controla el cálculo de KPIs.
type KPIConfig struct {
	CommissionPerContract *float64 `yaml:"commission_per_contract"` // nil = 1.00
}

// Commission devuelve la comisión por contrato en USD.
func (k KPIConfig) Commission() float64 {
	if k.CommissionPerContract == nil || *k.CommissionPerContract < 0 {
		return domain.DefaultCommission
	}
	return *k.CommissionPerContract
}

// DataConfig controla la carga del histórico.
type DataConfig struct {
	Prefix     string  `yaml:"prefix"`      // p.ej. "historical/"
	DateFormat string  `yaml:"date_format"` // layout de Go, "02-Jan-06" por defecto
	Workers    int     `yaml:"workers"`     // descargas simultáneas
	RatePerSec float64 `yaml:"rate_per_sec"`
}

// ResultsConfig controla dónde se guardan las ejecuciones.
type ResultsConfig struct {
	Prefix      string `yaml:"prefix"`
	SaveLatest  *bool  `yaml:"save_latest"`  // nil = true
	LocalMirror bool   `yaml:"local_mirror"` // copia en storage.local_dir si el backend es remoto
	SampleSize  int    `yaml:"sample_size"`  // trades en la tabla de muestra
}

// LatestEnabled devuelve si hay que actualizar <prefix>/latest/.
func (r ResultsConfig) LatestEnabled() bool {
	return r.SaveLatest == nil || *r.SaveLatest
}

// StorageConfig selecciona el BlobStore y sus parámetros.
type StorageConfig struct {
	Backend   string   `yaml:"backend"`    // local | sqlite | s3
	LocalDir  string   `yaml:"local_dir"`  // raíz del backend local
	SQLiteDSN string   `yaml:"sqlite_dsn"` // ruta al archivo SQLite, o ":memory:"
	S3        S3Config `yaml:"s3"`
}

// S3Config son los parámetros del bucket S3 (o compatible).
type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    *bool  `yaml:"use_ssl"` // nil = true
}

// SSL devuelve si la conexión a S3 usa TLS.
func (s S3Config) SSL() bool {
	return s.UseSSL == nil || *s.UseSSL
}

// ReportConfig controla el dashboard HTML.
type ReportConfig struct {
	Template string `yaml:"template"` // kpi_dashboard | kpi_compact
	Output   string `yaml:"output"`   // fichero local del HTML
	Upload   bool   `yaml:"upload"`   // sube también el HTML junto a los resultados
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// ComparisonConfig lista los presets a comparar. Vacío = presets por defecto.
type ComparisonConfig struct {
	Presets []strategy.Preset `yaml:"presets"`
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Las variables de entorno sobreescriben los valores del YAML.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}
	return Parse(data)
}

// Parse es Load sin ficheros: YAML → overrides de entorno → defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

// Presets devuelve los presets de comparación, o los de por defecto sobre
// el baseline configurado. Los parámetros vacíos de cada preset se heredan
// del baseline.
func (c *Config) Presets() []strategy.Preset {
	if len(c.Comparison.Presets) == 0 {
		return strategy.DefaultPresets(c.Strategy.StrategyParams)
	}
	out := make([]strategy.Preset, len(c.Comparison.Presets))
	for i, p := range c.Comparison.Presets {
		out[i] = strategy.Preset{Name: p.Name, Params: inherit(p.Params, c.Strategy.StrategyParams)}
		if out[i].Name == "" {
			out[i].Name = out[i].Params.Label()
		}
	}
	return out
}

func inherit(p, base domain.StrategyParams) domain.StrategyParams {
	if p.RSIPeriod <= 0 {
		p.RSIPeriod = base.RSIPeriod
	}
	if p.Oversold == 0 && p.Overbought == 0 {
		p.Oversold, p.Overbought = base.Oversold, base.Overbought
	}
	if p.Volatility <= 0 {
		p.Volatility = base.Volatility
	}
	if p.MaxPayout <= 0 {
		p.MaxPayout = base.MaxPayout
	}
	if p.Pricer == "" {
		p.Pricer = base.Pricer
	}
	return p
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("S3_ENDPOINT"); v != "" {
		cfg.Storage.S3.Endpoint = v
	}
	if v := os.Getenv("S3_BUCKET"); v != "" {
		cfg.Storage.S3.Bucket = v
	}
	if v := os.Getenv("S3_USE_SSL"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Storage.S3.UseSSL = &b
		}
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		cfg.Storage.S3.Region = v
	}
	if v := os.Getenv("AWS_ACCESS_KEY_ID"); v != "" {
		cfg.Storage.S3.AccessKey = v
	}
	if v := os.Getenv("AWS_SECRET_ACCESS_KEY"); v != "" {
		cfg.Storage.S3.SecretKey = v
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	cfg.Strategy.StrategyParams = cfg.Strategy.StrategyParams.WithDefaults()
	if cfg.Strategy.Workers <= 0 {
		cfg.Strategy.Workers = 4
	}
	if cfg.Data.Prefix == "" {
		cfg.Data.Prefix = "historical/"
	}
	if cfg.Data.DateFormat == "" {
		cfg.Data.DateFormat = "02-Jan-06"
	}
	if cfg.Data.Workers <= 0 {
		cfg.Data.Workers = 4
	}
	if cfg.Results.Prefix == "" {
		cfg.Results.Prefix = "backtest/results"
	}
	if cfg.Results.SampleSize <= 0 {
		cfg.Results.SampleSize = 15
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = BackendLocal
	}
	if cfg.Storage.LocalDir == "" {
		cfg.Storage.LocalDir = "data"
	}
	if cfg.Storage.SQLiteDSN == "" {
		cfg.Storage.SQLiteDSN = "nadex.db"
	}
	if cfg.Storage.S3.Region == "" {
		cfg.Storage.S3.Region = "us-east-1"
	}
	if cfg.Storage.S3.Endpoint == "" {
		cfg.Storage.S3.Endpoint = "s3.amazonaws.com"
	}
	if cfg.Report.Template == "" {
		cfg.Report.Template = "kpi_dashboard"
	}
	if cfg.Report.Output == "" {
		cfg.Report.Output = "reports/kpi_dashboard.html"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case BackendLocal, BackendSQLite:
	case BackendS3:
		if c.Storage.S3.Bucket == "" {
			return fmt.Errorf("storage.s3.bucket is required for backend %q", BackendS3)
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	switch c.Strategy.Pricer {
	case domain.PricerProbability, domain.PricerTier:
	default:
		return fmt.Errorf("strategy.pricer: %w: %q", domain.ErrUnknownPricer, c.Strategy.Pricer)
	}
	if c.Strategy.Oversold >= c.Strategy.Overbought {
		return fmt.Errorf("strategy: oversold (%g) must be below overbought (%g)", c.Strategy.Oversold, c.Strategy.Overbought)
	}
	return nil
}
