package config

import (
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Storage  StorageConfig  `mapstructure:"storage"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type DatabaseConfig struct {
	Path          string `mapstructure:"path"`
	MigrationsDir string `mapstructure:"migrations_dir"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	SecretKey   string `mapstructure:"secret_key"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

// StorageConfig selects the backing store for auth/user operations.
// Backend is "sqlite" or "file"; FilePath is only used by the file backend.
type StorageConfig struct {
	Backend  string `mapstructure:"backend"`
	FilePath string `mapstructure:"file_path"`
}

var (
	cfg  *Config
	once sync.Once
)

// Load reads config.yaml (optional) and ELDERCARE_* environment overrides.
func Load() error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("ELDERCARE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Config file is optional; defaults + env are enough to run
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return err
	}

	cfg = &c
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("database.path", "./eldercare.db")
	v.SetDefault("database.migrations_dir", "./database/migrations")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.secret_key", "eldercare-dev-secret-change-me")
	v.SetDefault("jwt.expire_hours", 24)
	v.SetDefault("storage.backend", "sqlite")
	v.SetDefault("storage.file_path", "./eldercare_users.json")
}

// Get returns the loaded configuration, loading defaults on first use.
func Get() *Config {
	once.Do(func() {
		if cfg == nil {
			v := viper.New()
			setDefaults(v)
			var c Config
			if err := v.Unmarshal(&c); err == nil {
				cfg = &c
			}
		}
	})
	return cfg
}
