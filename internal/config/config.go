package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	Feed    FeedConfig
	Account AccountConfig
	Risk    RiskConfig
	Journal JournalConfig
	Prefs   PrefsConfig
	Log     LogConfig
}

type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
}

type FeedConfig struct {
	Seed         int64
	BarPeriod    time.Duration
	TickInterval time.Duration
	HistoryBars  int
	DepthLevels  int
	DepthBucket  time.Duration
}

type AccountConfig struct {
	Currency     string
	StartBalance float64
}

type RiskConfig struct {
	MaxDrawdownPct  float64
	MaxDailyLossPct float64
	MaxExposureLots float64
}

type JournalConfig struct {
	Enabled bool
	Path    string
}

type PrefsConfig struct {
	Path string
}

type LogConfig struct {
	Level      string
	Output     string
	Monitor    []string
	MaxSizeMb  int
	MaxBackups int
	MaxAgeDays int
}

// Load reads configs/config.yaml if present, with env vars (PAPERTRADE_*)
// taking precedence. An optional .env file is applied first. Every key has a
// usable default, so a missing config file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	viper.AddConfigPath("configs")
	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetEnvPrefix("papertrade")
	viper.AutomaticEnv()

	setDefaults()
	_ = viper.ReadInConfig()

	cfg := &Config{
		Server: ServerConfig{
			Addr:           viper.GetString("server.addr"),
			AllowedOrigins: viper.GetStringSlice("server.allowed_origins"),
		},
		Feed: FeedConfig{
			Seed:         viper.GetInt64("feed.seed"),
			BarPeriod:    viper.GetDuration("feed.bar_period"),
			TickInterval: viper.GetDuration("feed.tick_interval"),
			HistoryBars:  viper.GetInt("feed.history_bars"),
			DepthLevels:  viper.GetInt("feed.depth_levels"),
			DepthBucket:  viper.GetDuration("feed.depth_bucket"),
		},
		Account: AccountConfig{
			Currency:     viper.GetString("account.currency"),
			StartBalance: viper.GetFloat64("account.start_balance"),
		},
		Risk: RiskConfig{
			MaxDrawdownPct:  viper.GetFloat64("risk.max_drawdown_pct"),
			MaxDailyLossPct: viper.GetFloat64("risk.max_daily_loss_pct"),
			MaxExposureLots: viper.GetFloat64("risk.max_exposure_lots"),
		},
		Journal: JournalConfig{
			Enabled: viper.GetBool("journal.enabled"),
			Path:    viper.GetString("journal.path"),
		},
		Prefs: PrefsConfig{
			Path: viper.GetString("prefs.path"),
		},
		Log: LogConfig{
			Level:      viper.GetString("log.level"),
			Output:     viper.GetString("log.output"),
			Monitor:    viper.GetStringSlice("log.monitor"),
			MaxSizeMb:  viper.GetInt("log.max_size_mb"),
			MaxBackups: viper.GetInt("log.max_backups"),
			MaxAgeDays: viper.GetInt("log.max_age_days"),
		},
	}
	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	viper.SetDefault("feed.seed", 0)
	viper.SetDefault("feed.bar_period", time.Minute)
	viper.SetDefault("feed.tick_interval", time.Second)
	viper.SetDefault("feed.history_bars", 180)
	viper.SetDefault("feed.depth_levels", 15)
	viper.SetDefault("feed.depth_bucket", 5*time.Second)

	viper.SetDefault("account.currency", "USD")
	viper.SetDefault("account.start_balance", 100_000)

	viper.SetDefault("risk.max_drawdown_pct", 10)
	viper.SetDefault("risk.max_daily_loss_pct", 5)
	viper.SetDefault("risk.max_exposure_lots", 20)

	viper.SetDefault("journal.enabled", false)
	viper.SetDefault("journal.path", "data/journal.duckdb")

	viper.SetDefault("prefs.path", "data/prefs.json")

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.output", "stdout")
	viper.SetDefault("log.monitor", []string{})
	viper.SetDefault("log.max_size_mb", 50)
	viper.SetDefault("log.max_backups", 3)
	viper.SetDefault("log.max_age_days", 14)
}
