package infra

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata" // пояс отделений доступен и без zoneinfo на хосте

	"github.com/spf13/viper"

	"github.com/xela07ax/citizen-queue-portal/internal/engine"
)

var (
	ErrInvalidSimulations   = errors.New("simulation.num_simulations must be positive")
	ErrInvalidLoadProfile   = errors.New("simulation default load profile must be non-negative")
	ErrInvalidRateLimit     = errors.New("simulation.rate_limit and rate_burst must be positive")
	ErrInvalidWorkingWindow = errors.New("simulation.default_working_hours is not a valid window")
	ErrInvalidServerPort    = errors.New("server.port must be in 1..65535")
	ErrInvalidTimezone      = errors.New("server.timezone is not a known IANA zone")
)

// Config — корневая структура конфигурации портала.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	GRPC       GRPCConfig       `mapstructure:"grpc"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	Logger     LoggerConfig     `mapstructure:"logger"`
}

// ServerConfig описывает настройки HTTP-сервера.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// Часовой пояс отделений: в нем считаются слоты и пиковые часы
	Timezone        string        `mapstructure:"timezone"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func (s ServerConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTimezone, err)
	}
	return loc, nil
}

// GRPCConfig: порт gRPC health-сервиса, 0 отключает.
type GRPCConfig struct {
	Port int `mapstructure:"port"`
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// DatabaseConfig описывает подключение к PostgreSQL.
type DatabaseConfig struct {
	URL            string        `mapstructure:"url"`
	MaxConns       int32         `mapstructure:"max_conns"`
	MinConns       int32         `mapstructure:"min_conns"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	ConnectRetries uint          `mapstructure:"connect_retries"`
}

// RedisConfig описывает подключение к Redis (кэш агрегатов). Пустой addr отключает кэш.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// Настройки Circuit Breaker вокруг Redis
	CBMaxRequests uint32        `mapstructure:"cb_max_requests"`
	CBInterval    time.Duration `mapstructure:"cb_interval"`
	CBTimeout     time.Duration `mapstructure:"cb_timeout"`
}

// AuthConfig содержит пути к RSA ключам и настройки JWT.
type AuthConfig struct {
	PublicKeyPath  string        `mapstructure:"public_key_path"`
	PrivateKeyPath string        `mapstructure:"private_key_path"`
	Issuer         string        `mapstructure:"issuer"`
	TokenTTL       time.Duration `mapstructure:"token_ttl"`
	BcryptCost     int           `mapstructure:"bcrypt_cost"`
	PublicKey      []byte
	PrivateKey     []byte
}

// SimulationConfig — параметры Monte-Carlo и профиль нагрузки по умолчанию.
type SimulationConfig struct {
	ArrivalRate         float64              `mapstructure:"arrival_rate"`
	ServiceRate         float64              `mapstructure:"service_rate"`
	CurrentQueue        int                  `mapstructure:"current_queue"`
	NumSimulations      int                  `mapstructure:"num_simulations"`
	MaxSimulations      int                  `mapstructure:"max_simulations"`
	Workers             int                  `mapstructure:"workers"`
	DefaultWorkingHours string               `mapstructure:"default_working_hours"`
	Bands               []engine.ArrivalBand `mapstructure:"bands"`
	RateLimit           float64              `mapstructure:"rate_limit"`
	RateBurst           int                  `mapstructure:"rate_burst"`
	CacheTTL            time.Duration        `mapstructure:"cache_ttl"`
}

// DefaultRate возвращает нагрузку на случай, когда клиент ее не прислал.
func (s SimulationConfig) DefaultRate() engine.ServiceRate {
	return engine.ServiceRate{
		ArrivalRatePerHour: s.ArrivalRate,
		ServiceRatePerHour: s.ServiceRate,
		CurrentQueue:       s.CurrentQueue,
	}
}

// KafkaConfig — опциональный поток событий истории запросов. Пустой brokers отключает.
type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0 && k.Topic != ""
}

// LoggerConfig настраивает поведение zap логгера.
type LoggerConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
	Output string `mapstructure:"output"` // stdout, stderr

	FileEnabled bool   `mapstructure:"file_enabled"`
	Directory   string `mapstructure:"directory"`
	Filename    string `mapstructure:"filename"`
	MaxSize     int    `mapstructure:"max_size"`    // MB
	MaxBackups  int    `mapstructure:"max_backups"` // файлов
	MaxAge      int    `mapstructure:"max_age"`     // дней
	Compress    bool   `mapstructure:"compress"`
}

// LoadConfig инициализирует конфигурацию, объединяя значения из файла и ENV.
// path задает явный путь к файлу; пустой path ищет config.yaml в . и ./configs.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// 1. Настройка поиска файла
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	// 2. Переменные окружения: SERVER_PORT=9000 перекроет server.port
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 3. Установка дефолтных значений
	setDefaults(v)

	// 4. Чтение файла
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Если файла нет, работаем на ENV и дефолтах
	}

	// 5. Маппинг в структуру
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	if len(cfg.Simulation.Bands) == 0 {
		cfg.Simulation.Bands = engine.DefaultBands()
	}

	// 6. Ключи: PEM прямо в ENV (Docker/K8s) или файл по пути
	cfg.Auth.PublicKey = loadKeyResource(cfg.Auth.PublicKeyPath, "AUTH_PUBLIC_KEY_DATA")
	cfg.Auth.PrivateKey = loadKeyResource(cfg.Auth.PrivateKeyPath, "AUTH_PRIVATE_KEY_DATA")

	// 7. Валидация
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate отсекает значения, с которыми портал не сможет работать.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return ErrInvalidServerPort
	}
	if _, err := c.Server.Location(); err != nil {
		return err
	}

	s := c.Simulation
	if s.NumSimulations <= 0 || s.MaxSimulations < s.NumSimulations {
		return ErrInvalidSimulations
	}
	if s.ArrivalRate < 0 || s.ServiceRate < 0 || s.CurrentQueue < 0 {
		return ErrInvalidLoadProfile
	}
	if s.RateLimit <= 0 || s.RateBurst <= 0 {
		return ErrInvalidRateLimit
	}
	if _, err := engine.ParseWorkingHours(s.DefaultWorkingHours); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidWorkingWindow, err)
	}
	if err := engine.ValidateBands(s.Bands); err != nil {
		return err
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 5*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("server.timezone", "Europe/Podgorica")

	v.SetDefault("grpc.port", 50052)
	v.SetDefault("metrics.addr", ":9090")

	v.SetDefault("database.max_conns", 15)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.connect_timeout", 5*time.Second)
	v.SetDefault("database.connect_retries", 5)

	v.SetDefault("redis.cb_max_requests", 3)
	v.SetDefault("redis.cb_interval", 5*time.Second)
	v.SetDefault("redis.cb_timeout", 30*time.Second)

	v.SetDefault("auth.issuer", "citizen-queue-portal")
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("auth.bcrypt_cost", 10)

	v.SetDefault("simulation.arrival_rate", 18)
	v.SetDefault("simulation.service_rate", 20)
	v.SetDefault("simulation.current_queue", 12)
	v.SetDefault("simulation.num_simulations", 1000)
	v.SetDefault("simulation.max_simulations", 20000)
	v.SetDefault("simulation.workers", 0)
	v.SetDefault("simulation.default_working_hours", "08:00-15:00")
	v.SetDefault("simulation.rate_limit", 5)
	v.SetDefault("simulation.rate_burst", 10)
	v.SetDefault("simulation.cache_ttl", 10*time.Minute)

	v.SetDefault("kafka.topic", "citizen-queries")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.directory", "logs")
	v.SetDefault("logger.filename", "portal.log")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
}

// loadKeyResource: сначала PEM из ENV, иначе файл по пути из конфига
func loadKeyResource(path string, envDataKey string) []byte {
	if data := os.Getenv(envDataKey); data != "" {
		return []byte(data)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			return data
		}
	}
	return nil
}
