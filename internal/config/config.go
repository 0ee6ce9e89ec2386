package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath используется, если переменная окружения CONFIG_PATH не задана
const DefaultPath = "config/config.yaml"

// Config определяет структуру конфигурации всего приложения целиком
type Config struct {
	HTTPServer `yaml:"http_server"`
	Kafka      `yaml:"kafka"`
	Logger     `yaml:"logger"`
	Tracing    `yaml:"tracing"`
	Catalog    `yaml:"catalog"`
}

// HTTPServer содержит конфигурацию для HTTP-сервера
type HTTPServer struct {
	Port            string        `yaml:"port"`
	Timeout         time.Duration `yaml:"timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Kafka содержит конфигурацию для подключения к кафке
// консьюмер принимает заявки на заказ, продюсер публикует размещённые заказы
type Kafka struct {
	Enabled       bool     `yaml:"enabled"`
	Brokers       []string `yaml:"brokers"`
	RequestsTopic string   `yaml:"requests_topic"`
	OrdersTopic   string   `yaml:"orders_topic"`
	GroupID       string   `yaml:"group_id"`
}

// Logger содержит конфигурацию для логгера
type Logger struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Tracing содержит конфигурацию OpenTelemetry
type Tracing struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
}

// Catalog содержит настройки каталога и пагинации
type Catalog struct {
	Seed         bool `yaml:"seed"`
	DefaultLimit int  `yaml:"default_limit"`
}

// Path возвращает путь к конфигу из CONFIG_PATH или DefaultPath
func Path() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return DefaultPath
}

// Load читает конфигурацию из файла и подставляет значения по умолчанию
func Load(configPath string) (*Config, error) {
	const op = "config.Load"

	if configPath == "" {
		return nil, fmt.Errorf("%s: CONFIG_PATH is not set", op)
	}

	file, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read config file: %w", op, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(file, cfg); err != nil {
		return nil, fmt.Errorf("%s: failed to unmarshal config: %w", op, err)
	}
	cfg.applyDefaults()

	return cfg, nil
}

// MustLoad загружает конфигурацию из файла по указанному пути
// в случае ошибки программа завершается с фатальной ошибкой
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

// Default возвращает конфигурацию для локального запуска без файла
func Default() *Config {
	return &Config{
		HTTPServer: HTTPServer{
			Port:            ":8080",
			Timeout:         10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Kafka: Kafka{
			Brokers:       []string{"localhost:9092"},
			RequestsTopic: "order_requests",
			OrdersTopic:   "orders",
			GroupID:       "coffee-order-service",
		},
		Logger:  Logger{Level: "INFO", Format: "text"},
		Tracing: Tracing{ServiceName: "coffee-order-service"},
		Catalog: Catalog{Seed: true, DefaultLimit: 10},
	}
}

// applyDefaults восстанавливает значения, явно обнулённые в файле
func (c *Config) applyDefaults() {
	def := Default()
	if c.HTTPServer.Port == "" {
		c.HTTPServer.Port = def.HTTPServer.Port
	}
	if c.HTTPServer.Timeout <= 0 {
		c.HTTPServer.Timeout = def.HTTPServer.Timeout
	}
	if c.HTTPServer.ShutdownTimeout <= 0 {
		c.HTTPServer.ShutdownTimeout = def.HTTPServer.ShutdownTimeout
	}
	if c.Logger.Level == "" {
		c.Logger.Level = def.Logger.Level
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = def.Tracing.ServiceName
	}
	if c.Catalog.DefaultLimit <= 0 {
		c.Catalog.DefaultLimit = def.Catalog.DefaultLimit
	}
}
