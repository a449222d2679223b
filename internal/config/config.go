package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"autoprint/internal/logger"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. AUTOPRINT_CONTROLLER_BASE_URL.
const EnvPrefix = "AUTOPRINT"

type Controller struct {
	BaseURL  string        `mapstructure:"base_url"`
	APIKey   string        `mapstructure:"api_key"`
	Timeout  time.Duration `mapstructure:"timeout"`
	RetryMax int           `mapstructure:"retry_max"`
}

type Poll struct {
	Interval time.Duration `mapstructure:"interval"`
}

type Auth struct {
	Enabled      bool          `mapstructure:"enabled"`
	Username     string        `mapstructure:"username"`
	PasswordHash string        `mapstructure:"password_hash"`
	SigningKey   string        `mapstructure:"signing_key"`
	TokenTTL     time.Duration `mapstructure:"token_ttl"`
}

type WS struct {
	Interval time.Duration `mapstructure:"interval"`
}

type Simulator struct {
	Port         string        `mapstructure:"port"`
	Tick         time.Duration `mapstructure:"tick"`
	Cooldown     time.Duration `mapstructure:"cooldown"`
	PrintSpeedup float64       `mapstructure:"print_speedup"`
}

// Config is the full runtime configuration.
type Config struct {
	Port       string     `mapstructure:"port"`
	LogLevel   string     `mapstructure:"log_level"`
	Timezone   string     `mapstructure:"timezone"`
	Controller Controller `mapstructure:"controller"`
	Poll       Poll       `mapstructure:"poll"`
	Auth       Auth       `mapstructure:"auth"`
	WS         WS         `mapstructure:"ws"`
	Simulator  Simulator  `mapstructure:"simulator"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("timezone", "")

	v.SetDefault("controller.base_url", "http://127.0.0.1:5000")
	v.SetDefault("controller.api_key", "")
	v.SetDefault("controller.timeout", 5*time.Second)
	v.SetDefault("controller.retry_max", 1)

	v.SetDefault("poll.interval", 500*time.Millisecond)

	v.SetDefault("auth.enabled", true)
	v.SetDefault("auth.username", "")
	v.SetDefault("auth.password_hash", "")
	v.SetDefault("auth.signing_key", "")
	v.SetDefault("auth.token_ttl", time.Hour)

	v.SetDefault("ws.interval", time.Second)

	v.SetDefault("simulator.port", "5000")
	v.SetDefault("simulator.tick", time.Second)
	v.SetDefault("simulator.cooldown", 30*time.Second)
	v.SetDefault("simulator.print_speedup", 1.0)
}

// Load reads configuration from path, or from configs/config.yml when path is empty.
// A missing default file is not an error; defaults and env still apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %q: %w", path, err)
		}
	} else {
		v.AddConfigPath("configs")
		v.SetConfigName("config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &c, nil
}

// Location resolves the configured timezone, falling back to time.Local.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// CheckLogLevel rejects level names the logger does not know.
func (c *Config) CheckLogLevel() error {
	if !logger.ValidLevel(c.LogLevel) {
		return fmt.Errorf("log_level %q: must be debug, info, warn or error", c.LogLevel)
	}
	return nil
}

// Validate checks the settings needed to serve the local API.
func (c *Config) Validate() error {
	if err := c.CheckLogLevel(); err != nil {
		return err
	}
	u := c.Controller.BaseURL
	if u == "" {
		return errors.New("controller.base_url is required")
	}
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		return errors.New("controller.base_url must start with http:// or https://")
	}
	if c.Controller.Timeout <= 0 {
		return errors.New("controller.timeout must be positive")
	}
	if c.Controller.RetryMax < 0 {
		return errors.New("controller.retry_max must be >= 0")
	}
	if c.Poll.Interval <= 0 {
		return errors.New("poll.interval must be positive")
	}
	if c.WS.Interval <= 0 {
		return errors.New("ws.interval must be positive")
	}
	if c.Auth.Enabled {
		if c.Auth.Username == "" || c.Auth.PasswordHash == "" {
			return errors.New("auth.username and auth.password_hash are required when auth is enabled")
		}
		if c.Auth.SigningKey == "" {
			return errors.New("auth.signing_key is required when auth is enabled")
		}
		if c.Auth.TokenTTL <= 0 {
			return errors.New("auth.token_ttl must be positive")
		}
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}
