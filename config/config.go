package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log      Logger         `mapstructure:"logger"`
	DB       Database       `mapstructure:"database"`
	API      API            `mapstructure:"api"`
	Binance  Binance        `mapstructure:"binance"`
	Monitor  Monitor        `mapstructure:"monitor"`
	Signal   Signal         `mapstructure:"signal"`
	Cache    Cache          `mapstructure:"cache"`
	Telegram TelegramConfig `mapstructure:"telegram"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type Database struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	TimeZone        string `mapstructure:"time_zone"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

type API struct {
	Port int `mapstructure:"port"`
}

type Binance struct {
	BaseURL             string        `mapstructure:"base_url"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
}

// Monitor controls the polling loop over watched symbols.
type Monitor struct {
	Symbols          []string `mapstructure:"symbols"`
	CronExpression   string   `mapstructure:"cron_expression"`
	MaxConcurrency   int      `mapstructure:"max_concurrency"`
	HistorySize      int      `mapstructure:"history_size"`
	OIPeriods        []string `mapstructure:"oi_periods"`
	BroadcastUpdates bool     `mapstructure:"broadcast_updates"`
}

// Signal holds the evaluator thresholds. Defaults mirror the long strategy:
// trigger timeframe "5m", OI > 1.5, price > 1.3, volume > 12, SL 2% below
// entry, reward ratio 1:2.
type Signal struct {
	TriggerTimeframe   string        `mapstructure:"trigger_timeframe"`
	OIThreshold        float64       `mapstructure:"oi_threshold"`
	PriceThreshold     float64       `mapstructure:"price_threshold"`
	VolumeThreshold    float64       `mapstructure:"volume_threshold"`
	StopLossPercent    float64       `mapstructure:"stop_loss_percent"`
	RewardRatio        float64       `mapstructure:"reward_ratio"`
	DedupCacheDuration time.Duration `mapstructure:"dedup_cache_duration"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

type TelegramConfig struct {
	BotToken                  string        `mapstructure:"bot_token"`
	PollerTimeout             time.Duration `mapstructure:"poller_timeout"`
	MaxGlobalRequestPerSecond int           `mapstructure:"max_global_request_per_second"`
	MaxChatRequestPerSecond   int           `mapstructure:"max_chat_request_per_second"`
	RatelimitExpireDuration   time.Duration `mapstructure:"ratelimit_expire_duration"`
	RateLimitCleanupDuration  time.Duration `mapstructure:"rate_limit_cleanup_duration"`
}

func setDefaults() {
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.encoding", "json")
	viper.SetDefault("api.port", 8080)
	viper.SetDefault("binance.base_url", "https://fapi.binance.com")
	viper.SetDefault("binance.timeout", 10*time.Second)
	viper.SetDefault("binance.max_request_per_minute", 1200)
	viper.SetDefault("monitor.cron_expression", "* * * * *")
	viper.SetDefault("monitor.max_concurrency", 5)
	viper.SetDefault("monitor.history_size", 60)
	viper.SetDefault("monitor.oi_periods", []string{"5m", "15m", "1h", "1d"})
	viper.SetDefault("monitor.broadcast_updates", true)
	viper.SetDefault("signal.trigger_timeframe", "5m")
	viper.SetDefault("signal.oi_threshold", 1.5)
	viper.SetDefault("signal.price_threshold", 1.3)
	viper.SetDefault("signal.volume_threshold", 12)
	viper.SetDefault("signal.stop_loss_percent", 0.02)
	viper.SetDefault("signal.reward_ratio", 2)
	viper.SetDefault("signal.dedup_cache_duration", 1*time.Hour)
	viper.SetDefault("cache.default_expiration", 5*time.Minute)
	viper.SetDefault("cache.cleanup_interval", 10*time.Minute)
	viper.SetDefault("telegram.poller_timeout", 10*time.Second)
	viper.SetDefault("telegram.max_global_request_per_second", 30)
	viper.SetDefault("telegram.max_chat_request_per_second", 1)
	viper.SetDefault("telegram.ratelimit_expire_duration", 10*time.Minute)
	viper.SetDefault("telegram.rate_limit_cleanup_duration", 5*time.Minute)
}

func Load() (*Config, error) {
	// .env is optional, env vars still win through AutomaticEnv.
	_ = godotenv.Load()

	viper.SetConfigType("yaml")
	viper.SetConfigName("config")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Println("No config file loaded:", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
