package configs

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"

	"github.com/ch1kkapo0m/scraping-auto/internal/constants"

	"github.com/joho/godotenv"
)

// DBConfig хранит конфигурацию для БД
type DBConfig struct {
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	MaxConns int
}

// URL собирает DSN для pgx из отдельных параметров.
func (c DBConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		url.QueryEscape(c.User),
		url.QueryEscape(c.Password),
		c.Host,
		c.Port,
		c.Name,
	)
}

// ScheduleConfig — когда запускать проход и бэкап (ежедневно, "HH:MM").
type ScheduleConfig struct {
	CrawlTime  string
	BackupTime string
	RunOnStart bool
}

// BackupConfig хранит настройки выгрузки.
type BackupConfig struct {
	Dir string
}

// HTTPConfig хранит настройки служебного HTTP-сервера.
type HTTPConfig struct {
	Port string
}

type StdoutLogConfig struct {
	Level string // По умолчанию DEBUG
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string // По умолчанию INFO
}

// AppConfig хранит всю конфигурацию приложения
type AppConfig struct {
	AppName      string
	Database     DBConfig
	Schedule     ScheduleConfig
	Backup       BackupConfig
	HTTP         HTTPConfig
	FluentBit    FluentBitConfig
	StdoutLogger StdoutLogConfig
}

// LoadConfig загружает конфигурацию из переменных окружения. Все значения
// имеют умолчания, поэтому отсутствие .env не является ошибкой.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		log.Printf("Info: Could not load .env file (path: %v): %v. Using environment only.\n", envPath, err)
	}

	cfg := &AppConfig{}

	cfg.AppName = getEnvAsString("APP_NAME", "scraping-auto")

	cfg.Database.Host = getEnvAsString("DB_HOST", "localhost")
	cfg.Database.Port = getEnvAsInt("DB_PORT", 5432)
	cfg.Database.Name = getEnvAsString("DB_NAME", "autoria")
	cfg.Database.User = getEnvAsString("DB_USER", "postgres")
	cfg.Database.Password = getEnvAsString("DB_PASSWORD", "postgres")
	cfg.Database.MaxConns = getEnvAsInt("DB_MAX_CONNS", constants.DefaultDBMaxConns)

	cfg.Schedule.CrawlTime = getEnvAsString("CRAWL_TIME", "02:00")
	cfg.Schedule.BackupTime = getEnvAsString("BACKUP_TIME", "04:00")
	cfg.Schedule.RunOnStart = getEnvAsBool("RUN_ON_START", false)

	cfg.Backup.Dir = getEnvAsString("BACKUP_DIR", "./dumps")

	cfg.HTTP.Port = getEnvAsString("HTTP_PORT", "8080")

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}

		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	return cfg, nil
}

// getEnvAsString читает переменную окружения как строку или возвращает значение по умолчанию
func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt читает переменную окружения как int или возвращает значение по умолчанию
// Логирует ошибку, если переменная есть, но не может быть преобразована в int
func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

// getEnvAsBool читает переменную окружения как bool или возвращает значение по умолчанию
func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}
