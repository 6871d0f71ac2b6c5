package resources

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Storage drivers.
const (
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Telemetry TelemetryConfig
	LogLevel  string
}

type ServerConfig struct {
	Host string
	Port string
}

type StorageConfig struct {
	Driver string
	// Path is the data file for the file and sqlite drivers.
	Path string
	// Postgres connection parameters.
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
}

type TelemetryConfig struct {
	Enabled  bool
	Endpoint string
}

// LoadConfig resolves configuration from defaults, an optional config file
// and CALENDAR_-prefixed environment variables (highest precedence).
func LoadConfig(file string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("storage.driver", DriverFile)
	v.SetDefault("storage.path", "data/events.json")
	v.SetDefault("storage.db_user", "postgres")
	v.SetDefault("storage.db_password", "")
	v.SetDefault("storage.db_host", "localhost")
	v.SetDefault("storage.db_port", "5432")
	v.SetDefault("storage.db_name", "calendar")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.endpoint", "localhost:4317")
	v.SetDefault("log.level", "info")

	v.SetEnvPrefix("CALENDAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("server.host"),
			Port: v.GetString("server.port"),
		},
		Storage: StorageConfig{
			Driver:     v.GetString("storage.driver"),
			Path:       v.GetString("storage.path"),
			DBUser:     v.GetString("storage.db_user"),
			DBPassword: v.GetString("storage.db_password"),
			DBHost:     v.GetString("storage.db_host"),
			DBPort:     v.GetString("storage.db_port"),
			DBName:     v.GetString("storage.db_name"),
		},
		Telemetry: TelemetryConfig{
			Enabled:  v.GetBool("telemetry.enabled"),
			Endpoint: v.GetString("telemetry.endpoint"),
		},
		LogLevel: v.GetString("log.level"),
	}

	switch cfg.Storage.Driver {
	case DriverFile, DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	return cfg, nil
}
