package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Mode       string         `mapstructure:"mode"`
	Port       int            `mapstructure:"port"`
	ReadLimit  int64          `mapstructure:"read_limit"`
	PingPeriod time.Duration  `mapstructure:"ping_period"`
	Secret     string         `mapstructure:"secret"`
	Auth       AuthConfig     `mapstructure:"auth"`
	Database   DatabaseConfig `mapstructure:"database"`
	Chat       ChatConfig     `mapstructure:"chat"`
}

type AuthConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

type ChatConfig struct {
	TypingTimeout time.Duration `mapstructure:"typing_timeout"`
	MaxTextLen    int           `mapstructure:"max_text_len"`
	EchoToSender  bool          `mapstructure:"echo_to_sender"`
	SendBuffer    int           `mapstructure:"send_buffer"`
	Backpressure  string        `mapstructure:"backpressure"`
	RateLimit     int           `mapstructure:"rate_limit"`
	RateInterval  time.Duration `mapstructure:"rate_interval"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("read_limit", 32768)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("secret", "")
	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.issuer", "projectchat")
	v.SetDefault("database.dsn", "projectchat.db")
	v.SetDefault("chat.typing_timeout", "5s")
	v.SetDefault("chat.max_text_len", 4000)
	v.SetDefault("chat.echo_to_sender", false)
	v.SetDefault("chat.send_buffer", 64)
	v.SetDefault("chat.backpressure", "drop")
	v.SetDefault("chat.rate_limit", 20)
	v.SetDefault("chat.rate_interval", "1s")
}

// Load reads config/config.<CONFIG_ENV>.yaml (env "dev" by default) on top of
// the defaults. CHAT_* environment variables override both, e.g.
// CHAT_AUTH_SECRET for auth.secret.
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
	v.SetEnvPrefix("CHAT")
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
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).Str("dsn", cfg.Database.DSN).Msg("config ready")
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Auth.Secret == "" {
		errs = append(errs, errors.New("auth.secret is required"))
	}
	if c.Secret == "" {
		errs = append(errs, errors.New("secret is required"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.PingPeriod <= 0 {
		errs = append(errs, errors.New("ping_period must be positive"))
	}
	if c.Chat.SendBuffer <= 0 {
		errs = append(errs, errors.New("chat.send_buffer must be positive"))
	}
	switch c.Chat.Backpressure {
	case "drop", "kick":
	default:
		errs = append(errs, fmt.Errorf("chat.backpressure %q must be drop or kick", c.Chat.Backpressure))
	}
	return errors.Join(errs...)
}
