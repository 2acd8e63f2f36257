package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"topicshare-go/pkg/serp"
)

type manager struct {
	mu     sync.RWMutex
	config *Config
	viper  *viper.Viper
}

func NewManager() Manager {
	return &manager{
		viper: viper.New(),
	}
}

func (m *manager) Load(configPath string) (*Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.setupViper(configPath)

	if err := m.viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := m.viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := m.validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	m.config = &config
	return &config, nil
}

func (m *manager) Reload() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.viper == nil {
		return fmt.Errorf("config not loaded")
	}

	if err := m.viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to reload config: %w", err)
	}

	var config Config
	if err := m.viper.Unmarshal(&config); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := m.validateConfig(&config); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	m.config = &config
	return nil
}

func (m *manager) GetConfig() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

func (m *manager) setupViper(configPath string) {
	m.viper.SetConfigFile(configPath)

	m.viper.SetEnvPrefix("TOPICSHARE")
	m.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	m.viper.AutomaticEnv()

	m.setDefaults()
}

// setDefaults documents the starter configuration; a config file only
// needs to override what differs.
func (m *manager) setDefaults() {
	m.viper.SetDefault("server.host", "0.0.0.0")
	m.viper.SetDefault("server.port", 8080)

	m.viper.SetDefault("api.base_url", "https://api.dataforseo.com/v3")
	m.viper.SetDefault("api.timeout_ms", 30000)
	m.viper.SetDefault("api.max_retries", 3)
	m.viper.SetDefault("api.retry_delay_ms", 1000)
	m.viper.SetDefault("api.max_conns", 64)

	m.viper.SetDefault("analysis.location", 2840)
	m.viper.SetDefault("analysis.language", "en")
	m.viper.SetDefault("analysis.depth", 10)
	m.viper.SetDefault("analysis.fetch_limit", 700)
	m.viper.SetDefault("analysis.analyze_limit", 100)
	m.viper.SetDefault("analysis.min_volume", 10)

	m.viper.SetDefault("budget.max_spend", 5.0)
	m.viper.SetDefault("budget.prices.keyword_fetch", 0.01)
	m.viper.SetDefault("budget.prices.keyword_ideas_fetch", 0.01)
	m.viper.SetDefault("budget.prices.autocomplete_fetch", 0.0002)
	m.viper.SetDefault("budget.prices.serp_fetch", 0.0006)

	m.viper.SetDefault("negatives.keywords", []string{
		"google", "login", "sign up", "sign in", "free download", "crack", "torrent",
	})
	m.viper.SetDefault("negatives.domains", []string{
		"wikipedia.org", "amazon.com", "youtube.com", "pinterest.com", "reddit.com",
	})

	m.viper.SetDefault("thresholds.monopolistic_top3", 0.75)
	m.viper.SetDefault("thresholds.concentrated_top3", 0.50)
	m.viper.SetDefault("thresholds.concentrated_top10", 0.60)

	m.viper.SetDefault("fanout.max_concurrent", 10)
	m.viper.SetDefault("fanout.qps", 20)
	m.viper.SetDefault("fanout.timeout_ms", 30000)

	m.viper.SetDefault("logger.level", "info")
	m.viper.SetDefault("logger.format", "json")
	m.viper.SetDefault("logger.output", "stdout")
}

func (m *manager) validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if !serp.ValidDepth(config.Analysis.Depth) {
		return fmt.Errorf("invalid serp depth %d, must be one of %v", config.Analysis.Depth, serp.SupportedDepths)
	}

	if config.Analysis.FetchLimit <= 0 {
		return fmt.Errorf("fetch_limit must be positive")
	}

	if config.Budget.MaxSpend < 0 {
		return fmt.Errorf("max_spend cannot be negative")
	}

	if config.Fanout.MaxConcurrent <= 0 {
		return fmt.Errorf("fanout max_concurrent must be positive")
	}

	return nil
}
