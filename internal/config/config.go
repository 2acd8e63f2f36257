package config

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	API        APIConfig        `mapstructure:"api"`
	Analysis   AnalysisConfig   `mapstructure:"analysis"`
	Budget     BudgetConfig     `mapstructure:"budget"`
	Negatives  NegativesConfig  `mapstructure:"negatives"`
	Thresholds ThresholdsConfig `mapstructure:"thresholds"`
	Fanout     FanoutConfig     `mapstructure:"fanout"`
	Logger     LoggerConfig     `mapstructure:"logger"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type APIConfig struct {
	BaseURL      string `mapstructure:"base_url"`
	TimeoutMs    int    `mapstructure:"timeout_ms"`
	MaxRetries   int    `mapstructure:"max_retries"`
	RetryDelayMs int    `mapstructure:"retry_delay_ms"`
	MaxConns     int    `mapstructure:"max_conns"`
}

type AnalysisConfig struct {
	Location     int    `mapstructure:"location"`
	Language     string `mapstructure:"language"`
	Depth        int    `mapstructure:"depth"`
	FetchLimit   int    `mapstructure:"fetch_limit"`
	AnalyzeLimit int    `mapstructure:"analyze_limit"`
	MinVolume    int    `mapstructure:"min_volume"`
}

type BudgetConfig struct {
	MaxSpend float64      `mapstructure:"max_spend"`
	Prices   PricesConfig `mapstructure:"prices"`
}

type PricesConfig struct {
	KeywordFetch      float64 `mapstructure:"keyword_fetch"`
	KeywordIdeasFetch float64 `mapstructure:"keyword_ideas_fetch"`
	AutocompleteFetch float64 `mapstructure:"autocomplete_fetch"`
	SerpFetch         float64 `mapstructure:"serp_fetch"`
}

// NegativesConfig is the documented starter exclusion set; users override
// it per run.
type NegativesConfig struct {
	Keywords []string `mapstructure:"keywords"`
	Domains  []string `mapstructure:"domains"`
}

type ThresholdsConfig struct {
	MonopolisticTop3  float64 `mapstructure:"monopolistic_top3"`
	ConcentratedTop3  float64 `mapstructure:"concentrated_top3"`
	ConcentratedTop10 float64 `mapstructure:"concentrated_top10"`
}

type FanoutConfig struct {
	MaxConcurrent int     `mapstructure:"max_concurrent"`
	QPS           float64 `mapstructure:"qps"`
	TimeoutMs     int     `mapstructure:"timeout_ms"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	TimeFormat string `mapstructure:"time_format"`
}

type Manager interface {
	Load(configPath string) (*Config, error)
	Reload() error
	GetConfig() *Config
}
