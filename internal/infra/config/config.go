package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DatabaseConfig параметры подключения к PostgreSQL
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"dbname"`
}

// RedisConfig параметры подключения к Redis
type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port string `yaml:"port"`
	} `yaml:"server"`
	TelegramBot struct {
		Token       string        `yaml:"token"`
		Mode        string        `yaml:"mode"`
		WebhookURL  string        `yaml:"webhook_url"`
		ListenAddr  string        `yaml:"listen_addr"`
		PollTimeout time.Duration `yaml:"poll_timeout"`
	} `yaml:"telegram_bot"`
	API struct {
		BaseURL string        `yaml:"base_url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"api"`
	Storage struct {
		Type     string         `yaml:"type"`
		File     string         `yaml:"file"`
		Database DatabaseConfig `yaml:"database"`
		Redis    RedisConfig    `yaml:"redis"`
	} `yaml:"storage"`
	Logging struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"logging"`
	Tracing struct {
		Enabled        bool   `yaml:"enabled"`
		ServiceName    string `yaml:"service_name"`
		JaegerEndpoint string `yaml:"jaeger_endpoint"`
	} `yaml:"tracing"`
	Timer struct {
		EditsPerSecond float64 `yaml:"edits_per_second"`
		EditBurst      int     `yaml:"edit_burst"`
	} `yaml:"timer"`
	Messages struct {
		File string `yaml:"file"`
	} `yaml:"messages"`
	Report struct {
		FontDir string `yaml:"font_dir"`
	} `yaml:"report"`
	Display struct {
		Timezone string `yaml:"timezone"`
	} `yaml:"display"`
}

// LoadConfig читает YAML-файл, затем применяет переменные окружения (и .env, если он есть)
func LoadConfig(filename string) (*Config, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	defer func(f *os.File) {
		err := f.Close()
		if err != nil {
			fmt.Println("f.Close() failed ", err)
		}
	}(f)

	config := &Config{}
	if err := yaml.NewDecoder(f).Decode(config); err != nil {
		return nil, err
	}

	_ = godotenv.Load()
	config.applyEnv()
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnv переопределяет секреты и адреса из окружения
func (c *Config) applyEnv() {
	setString(&c.TelegramBot.Token, "VERITAS_BOT_TOKEN")
	setString(&c.TelegramBot.Mode, "VERITAS_BOT_MODE")
	setString(&c.TelegramBot.WebhookURL, "VERITAS_WEBHOOK_URL")
	setString(&c.API.BaseURL, "VERITAS_API_URL")
	setString(&c.Storage.Type, "VERITAS_STORAGE")
	setString(&c.Storage.Database.Password, "VERITAS_DB_PASSWORD")
	setString(&c.Storage.Redis.Password, "VERITAS_REDIS_PASSWORD")
	setString(&c.Logging.Level, "VERITAS_LOG_LEVEL")
	setString(&c.Display.Timezone, "VERITAS_TIMEZONE")

	if v := os.Getenv("VERITAS_TRACING"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Tracing.Enabled = enabled
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.TelegramBot.Mode == "" {
		c.TelegramBot.Mode = "polling"
	}
	if c.TelegramBot.ListenAddr == "" {
		c.TelegramBot.ListenAddr = ":8443"
	}
	if c.TelegramBot.PollTimeout == 0 {
		c.TelegramBot.PollTimeout = 10 * time.Second
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = 15 * time.Second
	}
	if c.Storage.Type == "" {
		c.Storage.Type = "memory"
	}
	if c.Storage.File == "" {
		c.Storage.File = "storage.json"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = "veritasbot"
	}
	if c.Timer.EditsPerSecond <= 0 {
		c.Timer.EditsPerSecond = 1
	}
	if c.Timer.EditBurst <= 0 {
		c.Timer.EditBurst = 1
	}
	if c.Display.Timezone == "" {
		c.Display.Timezone = "Europe/Kyiv"
	}
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	if c.TelegramBot.Token == "" {
		return fmt.Errorf("telegram_bot.token is required")
	}
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	switch c.TelegramBot.Mode {
	case "polling":
	case "webhook":
		if c.TelegramBot.WebhookURL == "" {
			return fmt.Errorf("telegram_bot.webhook_url is required in webhook mode")
		}
	default:
		return fmt.Errorf("unknown telegram_bot.mode %q", c.TelegramBot.Mode)
	}
	switch c.Storage.Type {
	case "memory", "json", "postgres", "redis":
	default:
		return fmt.Errorf("unknown storage.type %q", c.Storage.Type)
	}
	if _, err := time.LoadLocation(c.Display.Timezone); err != nil {
		return fmt.Errorf("invalid display.timezone: %w", err)
	}
	return nil
}

// Location часовой пояс для отображения дат и ввода времени теста
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Display.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
