package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dkeye/Pairline/internal/adapters/rtc"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type GeoConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type Config struct {
	Mode           string          `mapstructure:"mode"`
	Port           int             `mapstructure:"port"`
	StaticPath     string          `mapstructure:"static_path"`
	LogLevel       string          `mapstructure:"log_level"`
	AdminSecret    string          `mapstructure:"admin_secret"`
	ReadLimit      int64           `mapstructure:"read_limit"`
	SendBuffer     int             `mapstructure:"send_buffer"`
	WriteTimeout   time.Duration   `mapstructure:"write_timeout"`
	PingPeriod     time.Duration   `mapstructure:"ping_period"`
	TrustedProxies []string        `mapstructure:"trusted_proxies"`
	Geo            GeoConfig       `mapstructure:"geo"`
	ICEServers     []rtc.ICEServer `mapstructure:"ice_servers"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 10000)
	v.SetDefault("static_path", "./web")
	v.SetDefault("log_level", "info")
	v.SetDefault("admin_secret", "admin123")
	v.SetDefault("read_limit", 65536)
	v.SetDefault("send_buffer", 64)
	v.SetDefault("write_timeout", "5s")
	v.SetDefault("ping_period", "54s")
	v.SetDefault("geo.enabled", true)
	v.SetDefault("geo.url", "http://ip-api.com/json/%s?fields=status,message,countryCode")
	v.SetDefault("geo.timeout", "3s")
}

// Load reads config/config.<CONFIG_ENV>.yaml (CONFIG_ENV defaults to dev)
// on top of defaults. PAIRLINE_* environment variables override both, and
// PORT overrides the port for hosted deployments.
func Load() (*Config, error) {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	return LoadFile(fmt.Sprintf("config/config.%s.yaml", env))
}

func LoadFile(fileName string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(fileName)
	v.SetEnvPrefix("pairline")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if p := os.Getenv("PORT"); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", p, err)
		}
		cfg.Port = port
	}
	if cfg.AdminSecret == "admin123" {
		log.Warn().Str("module", "config").Msg("admin_secret is the default, change it")
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).
		Str("static", cfg.StaticPath).Bool("geo", cfg.Geo.Enabled).Msg("config ready")
	return &cfg, nil
}
