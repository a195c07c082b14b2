package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Locale pairs a locale code with the label shown in the editor UI. Order
// matters: the editor renders translation tabs in configuration order.
type Locale struct {
	Code  string `mapstructure:"code"`
	Label string `mapstructure:"label"`
}

type Config struct {
	Server struct {
		Host string `mapstructure:"host"`
		Port int    `mapstructure:"port"`
		Mode string `mapstructure:"mode"`
	} `mapstructure:"server"`
	Database struct {
		Driver string `mapstructure:"driver"`
		DSN    string `mapstructure:"dsn"`
	} `mapstructure:"database"`
	Cache struct {
		Backend    string `mapstructure:"backend"` // memory, redis or none
		Enabled    bool   `mapstructure:"enabled"`
		TTLSeconds int    `mapstructure:"ttlSeconds"`
		RedisAddr  string `mapstructure:"redisAddr"`
		RedisDB    int    `mapstructure:"redisDb"`
	} `mapstructure:"cache"`
	Auth struct {
		JWTSecret string `mapstructure:"jwtSecret"`
	} `mapstructure:"auth"`
	Locales struct {
		Default   string   `mapstructure:"default"`
		Available []Locale `mapstructure:"available"`
	} `mapstructure:"locales"`
	Media struct {
		BaseURL string `mapstructure:"baseUrl"`
	} `mapstructure:"media"`
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// LocaleCodes returns the configured locale codes in declaration order.
func (c *Config) LocaleCodes() []string {
	codes := make([]string, 0, len(c.Locales.Available))
	for _, l := range c.Locales.Available {
		codes = append(codes, l.Code)
	}
	return codes
}

func LoadConfig() (*Config, error) {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.dsn", "blocks.db")
	viper.SetDefault("cache.backend", "memory")
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.ttlSeconds", 3600)
	viper.SetDefault("locales.default", "en")
	viper.SetDefault("media.baseUrl", "/storage")

	viper.AutomaticEnv()
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %v", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %v", err)
	}

	if len(config.Locales.Available) == 0 {
		config.Locales.Available = []Locale{{Code: config.Locales.Default, Label: config.Locales.Default}}
	}

	return &config, nil
}
