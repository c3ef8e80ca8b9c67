package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Store backings selectable through STORE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Location store backings selectable through LOCATION_STORE.
const (
	LocationStorePrimary = "primary"
	LocationStoreRedis   = "redis"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Store      StoreConfig
	Database   DatabaseConfig
	SQLite     SQLiteConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Auth       AuthConfig
	CORS       CORSConfig
	Log        LogConfig
	Location   LocationConfig
	Navigation NavigationConfig
	Metrics    MetricsConfig
}

// StoreConfig selects the domain store backing and seeding behaviour.
type StoreConfig struct {
	Backend       string
	LocationStore string
	Seed          bool
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

// SQLiteConfig points at the single-file database used for local runs.
type SQLiteConfig struct {
	Path string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Issuer     string
	Expiration time.Duration
}

// AuthConfig gates role checks on catalog and location writes.
type AuthConfig struct {
	ProtectCatalogWrites bool
	// ProtectLocationWrites limits location writes to the owner or an admin.
	ProtectLocationWrites bool
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// LocationConfig tunes live location sharing.
type LocationConfig struct {
	TTL                  time.Duration
	SweepSchedule        string
	BuildingRadiusMeters float64
}

// NavigationConfig holds walking estimate parameters.
type NavigationConfig struct {
	WalkingSpeedMetersPerMinute float64
	NearbyRadiusMeters          float64
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Store = StoreConfig{
		Backend:       strings.ToLower(v.GetString("STORE_BACKEND")),
		LocationStore: strings.ToLower(v.GetString("LOCATION_STORE")),
		Seed:          v.GetBool("SEED_DATA"),
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.SQLite = SQLiteConfig{Path: v.GetString("SQLITE_PATH")}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Issuer:     v.GetString("JWT_ISSUER"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
	}

	cfg.Auth = AuthConfig{
		ProtectCatalogWrites:  v.GetBool("PROTECT_CATALOG_WRITES"),
		ProtectLocationWrites: v.GetBool("PROTECT_LOCATION_WRITES"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Location = LocationConfig{
		TTL:                  parseDuration(v.GetString("LOCATION_TTL"), 0),
		SweepSchedule:        v.GetString("LOCATION_SWEEP_SCHEDULE"),
		BuildingRadiusMeters: v.GetFloat64("LOCATION_BUILDING_RADIUS"),
	}

	cfg.Navigation = NavigationConfig{
		WalkingSpeedMetersPerMinute: v.GetFloat64("WALKING_SPEED_MPM"),
		NearbyRadiusMeters:          v.GetFloat64("NEARBY_RADIUS_METERS"),
	}

	cfg.Metrics = MetricsConfig{Enabled: v.GetBool("ENABLE_METRICS")}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendPostgres, BackendSQLite:
	default:
		return errors.New("STORE_BACKEND must be one of memory, postgres, sqlite")
	}
	switch c.Store.LocationStore {
	case LocationStorePrimary, LocationStoreRedis:
	default:
		return errors.New("LOCATION_STORE must be one of primary, redis")
	}
	if c.Navigation.WalkingSpeedMetersPerMinute <= 0 {
		return errors.New("WALKING_SPEED_MPM must be positive")
	}
	if c.Env == EnvProduction && c.JWT.Secret == "dev_secret" {
		return errors.New("JWT_SECRET must be set in production")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 5000)
	v.SetDefault("API_PREFIX", "/api")

	v.SetDefault("STORE_BACKEND", BackendMemory)
	v.SetDefault("LOCATION_STORE", LocationStorePrimary)
	v.SetDefault("SEED_DATA", true)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "campus_nav")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("SQLITE_PATH", "./data/campus.db")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_ISSUER", "campus-nav-api")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("PROTECT_CATALOG_WRITES", false)
	v.SetDefault("PROTECT_LOCATION_WRITES", false)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("LOCATION_TTL", "0s")
	v.SetDefault("LOCATION_SWEEP_SCHEDULE", "@every 1m")
	v.SetDefault("LOCATION_BUILDING_RADIUS", 0)

	v.SetDefault("WALKING_SPEED_MPM", 83)
	v.SetDefault("NEARBY_RADIUS_METERS", 500)

	v.SetDefault("ENABLE_METRICS", true)
}

func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
