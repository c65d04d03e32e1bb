package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "ZENO"

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Repository RepositoryConfig `mapstructure:"repository"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Assistant  AssistantConfig  `mapstructure:"assistant"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Pomodoro   PomodoroConfig   `mapstructure:"pomodoro"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	RateLimit       int           `mapstructure:"rate_limit"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

type DatabaseConfig struct {
	URL            string        `mapstructure:"url"`
	MaxConnections int32         `mapstructure:"max_connections"`
	MinConnections int32         `mapstructure:"min_connections"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	Migrate        bool          `mapstructure:"migrate"`
}

type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

type RepositoryConfig struct {
	Type string `mapstructure:"type"` // "postgres" или "inmemory"
}

// AuthConfig: пользователь -> статический bearer-токен. Ключи карт viper
// приводит к нижнему регистру, поэтому токен хранится в значении.
type AuthConfig struct {
	Users map[string]string `mapstructure:"users"`
}

type AssistantConfig struct {
	// Provider: "deepseek" или "keyword"; пустое значение выбирает
	// deepseek при наличии ключа.
	Provider  string        `mapstructure:"provider"`
	APIKey    string        `mapstructure:"api_key"`
	Model     string        `mapstructure:"model"`
	MaxTokens int           `mapstructure:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout"`
	// APIURL и APIToken - удалённый API, в который исполняются действия.
	APIURL   string `mapstructure:"api_url"`
	APIToken string `mapstructure:"api_token"`
}

type StorageConfig struct {
	Backend string `mapstructure:"backend"` // sqlite, dir или memory
	Path    string `mapstructure:"path"`
}

type PomodoroConfig struct {
	Focus      int `mapstructure:"focus"`
	ShortBreak int `mapstructure:"short_break"`
	LongBreak  int `mapstructure:"long_break"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.request_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.rate_limit", 100)
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.min_connections", 2)
	v.SetDefault("database.idle_timeout", 5*time.Minute)
	v.SetDefault("database.connect_timeout", 30*time.Second)
	v.SetDefault("database.migrate", true)

	v.SetDefault("logging.development", false)
	v.SetDefault("repository.type", "inmemory")
	v.SetDefault("auth.users", map[string]string{})

	v.SetDefault("assistant.provider", "")
	v.SetDefault("assistant.api_key", "")
	v.SetDefault("assistant.model", "deepseek-chat")
	v.SetDefault("assistant.max_tokens", 1024)
	v.SetDefault("assistant.timeout", 60*time.Second)
	v.SetDefault("assistant.api_url", "http://localhost:8080")
	v.SetDefault("assistant.api_token", "")

	v.SetDefault("storage.backend", "sqlite")
	v.SetDefault("storage.path", "")

	v.SetDefault("pomodoro.focus", 25)
	v.SetDefault("pomodoro.short_break", 5)
	v.SetDefault("pomodoro.long_break", 15)
}

// Load читает .env, затем файл конфигурации и переменные окружения ZENO_*.
// Путь к файлу: аргумент, затем ZENO_CONFIG, затем config.yml, если он есть.
// Отсутствие файла не ошибка: используются значения по умолчанию.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("ошибка чтения .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = os.Getenv(envPrefix + "_CONFIG")
	}
	if path == "" {
		if _, err := os.Stat("config.yml"); err == nil {
			path = "config.yml"
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("не могу прочитать %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка разбора конфигурации: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Repository.Type {
	case "inmemory":
	case "postgres":
		if c.Database.URL == "" {
			return errors.New("для repository.type=postgres нужен database.url")
		}
	default:
		return fmt.Errorf("неизвестный repository.type %q", c.Repository.Type)
	}

	switch c.Storage.Backend {
	case "sqlite", "dir", "memory":
	default:
		return fmt.Errorf("неизвестный storage.backend %q", c.Storage.Backend)
	}
	return nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}
