package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	NATS       NATSConfig
	Routing    RoutingConfig
	Geocoding  GeocodingConfig
	City       CityConfig
	Session    SessionConfig
	Transit    TransitConfig
	RateLimit  RateLimitConfig
	Resilience ResilienceConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	Environment  string
	ServiceName  string
	ReadTimeout  int
	WriteTimeout int
	CORSOrigins  string // Comma-separated list of allowed origins
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int
	MinConns int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// NATSConfig holds event bus configuration
type NATSConfig struct {
	URL     string
	Enabled bool
}

// RoutingConfig holds upstream directions service configuration
type RoutingConfig struct {
	// OSRMBaseURL serves the driving profile
	OSRMBaseURL string
	// OSRMFootBaseURL serves pedestrian profiles; may equal OSRMBaseURL
	OSRMFootBaseURL string
	// ORSBaseURL is the OpenRouteService endpoint for the walking fallback
	ORSBaseURL string
	// ORSAPIKey is empty or the literal "DISABLED" when ORS must not be called
	ORSAPIKey       string
	TimeoutSeconds  int
	CacheTTLSeconds int
	UserAgent       string
}

// GeocodingConfig holds place search configuration
type GeocodingConfig struct {
	NominatimBaseURL string
	TimeoutSeconds   int
	CacheTTLSeconds  int
	ResultLimit      int
	UserAgent        string
}

// CityConfig pins the service to one city
type CityConfig struct {
	Name        string
	CenterLat   float64
	CenterLon   float64
	// Viewbox is the Nominatim west,north,east,south bounding box
	Viewbox string
	// NameVariants are the localized and romanized spellings checked for
	// the city-bias rule, lower-cased
	NameVariants []string
	// BiasSuffix is appended to queries that do not mention the city
	BiasSuffix string
}

// SessionConfig tunes the websocket route session behaviour
type SessionConfig struct {
	DragDebounceMillis int
	// KeepRouteOnError keeps the last successful route visible when a later
	// recalculation fails
	KeepRouteOnError bool
}

// TransitConfig gates the stubbed transit surface
type TransitConfig struct {
	Enabled bool
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled           bool
	WindowSeconds     int
	DefaultLimit      int
	DefaultBurst      int
	RedisPrefix       string
	EndpointOverrides map[string]EndpointRateLimitConfig
}

// EndpointRateLimitConfig allows customizing limits per endpoint
type EndpointRateLimitConfig struct {
	Limit         int `json:"limit"`
	Burst         int `json:"burst"`
	WindowSeconds int `json:"window_seconds"`
}

// ResilienceConfig groups runtime resilience controls
type ResilienceConfig struct {
	CircuitBreaker CircuitBreakerConfig
}

// CircuitBreakerConfig captures default and per-provider breaker tuning
type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	SuccessThreshold int
	TimeoutSeconds   int
	IntervalSeconds  int
	ServiceOverrides map[string]CircuitBreakerSettings
}

// CircuitBreakerSettings overrides defaults for a specific upstream service
type CircuitBreakerSettings struct {
	FailureThreshold int `json:"failure_threshold"`
	SuccessThreshold int `json:"success_threshold"`
	TimeoutSeconds   int `json:"timeout_seconds"`
	IntervalSeconds  int `json:"interval_seconds"`
}

// Load loads configuration from environment variables
func Load(serviceName string) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Environment:  getEnv("ENVIRONMENT", "development"),
			ServiceName:  serviceName,
			ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 10),
			WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 10),
			CORSOrigins:  getEnv("CORS_ORIGINS", "http://localhost:3000"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "uzhroute"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns: getEnvAsInt("DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		NATS: NATSConfig{
			URL:     getEnv("NATS_URL", "nats://localhost:4222"),
			Enabled: getEnvAsBool("NATS_ENABLED", false),
		},
		Routing: RoutingConfig{
			OSRMBaseURL:     getEnv("OSRM_BASE_URL", "https://router.project-osrm.org"),
			OSRMFootBaseURL: getEnv("OSRM_FOOT_BASE_URL", getEnv("OSRM_BASE_URL", "https://router.project-osrm.org")),
			ORSBaseURL:      getEnv("ORS_BASE_URL", "https://api.openrouteservice.org"),
			ORSAPIKey:       getEnv("ORS_API_KEY", ""),
			TimeoutSeconds:  getEnvAsInt("ROUTING_TIMEOUT_SECONDS", 10),
			CacheTTLSeconds: getEnvAsInt("ROUTING_CACHE_TTL_SECONDS", 300),
			UserAgent:       getEnv("ROUTING_USER_AGENT", "UzhRoutePlanner/1.0"),
		},
		Geocoding: GeocodingConfig{
			NominatimBaseURL: getEnv("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org"),
			TimeoutSeconds:   getEnvAsInt("GEOCODING_TIMEOUT_SECONDS", 5),
			CacheTTLSeconds:  getEnvAsInt("GEOCODING_CACHE_TTL_SECONDS", 300),
			ResultLimit:      getEnvAsInt("GEOCODING_RESULT_LIMIT", 5),
			UserAgent:        getEnv("GEOCODING_USER_AGENT", "UzhRoutePlanner/1.0"),
		},
		City: CityConfig{
			Name:         getEnv("CITY_NAME", "Ужгород"),
			CenterLat:    getEnvAsFloat("CITY_CENTER_LAT", 48.6208),
			CenterLon:    getEnvAsFloat("CITY_CENTER_LON", 22.2879),
			Viewbox:      getEnv("CITY_VIEWBOX", "22.20,48.68,22.38,48.55"),
			NameVariants: []string{"ужгород", "uzhhorod"},
			BiasSuffix:   getEnv("CITY_BIAS_SUFFIX", ", Ужгород"),
		},
		Session: SessionConfig{
			DragDebounceMillis: getEnvAsInt("SESSION_DRAG_DEBOUNCE_MS", 150),
			KeepRouteOnError:   getEnvAsBool("ROUTE_KEEP_LAST_ON_ERROR", true),
		},
		Transit: TransitConfig{
			Enabled: getEnvAsBool("TRANSIT_ENABLED", false),
		},
		RateLimit: RateLimitConfig{
			Enabled:       getEnvAsBool("RATE_LIMIT_ENABLED", false),
			WindowSeconds: getEnvAsInt("RATE_LIMIT_WINDOW_SECONDS", 60),
			DefaultLimit:  getEnvAsInt("RATE_LIMIT_DEFAULT_LIMIT", 120),
			DefaultBurst:  getEnvAsInt("RATE_LIMIT_DEFAULT_BURST", 40),
			RedisPrefix:   getEnv("RATE_LIMIT_REDIS_PREFIX", "rate-limit"),
		},
		Resilience: ResilienceConfig{
			CircuitBreaker: CircuitBreakerConfig{
				Enabled:          getEnvAsBool("CB_ENABLED", false),
				FailureThreshold: getEnvAsInt("CB_FAILURE_THRESHOLD", 5),
				SuccessThreshold: getEnvAsInt("CB_SUCCESS_THRESHOLD", 1),
				TimeoutSeconds:   getEnvAsInt("CB_TIMEOUT_SECONDS", 30),
				IntervalSeconds:  getEnvAsInt("CB_INTERVAL_SECONDS", 60),
			},
		},
	}

	if overrides := getEnv("RATE_LIMIT_ENDPOINTS", ""); overrides != "" {
		var endpointConfig map[string]EndpointRateLimitConfig
		if err := json.Unmarshal([]byte(overrides), &endpointConfig); err != nil {
			return nil, fmt.Errorf("invalid RATE_LIMIT_ENDPOINTS value: %w", err)
		}
		cfg.RateLimit.EndpointOverrides = endpointConfig
	}

	if breakerOverrides := getEnv("CB_SERVICE_OVERRIDES", ""); breakerOverrides != "" {
		var serviceConfig map[string]CircuitBreakerSettings
		if err := json.Unmarshal([]byte(breakerOverrides), &serviceConfig); err != nil {
			return nil, fmt.Errorf("invalid CB_SERVICE_OVERRIDES value: %w", err)
		}
		cfg.Resilience.CircuitBreaker.ServiceOverrides = serviceConfig
	}

	if cfg.Routing.TimeoutSeconds <= 0 {
		cfg.Routing.TimeoutSeconds = 10
	}

	if cfg.Geocoding.ResultLimit <= 0 || cfg.Geocoding.ResultLimit > 50 {
		return nil, fmt.Errorf("GEOCODING_RESULT_LIMIT must be between 1 and 50")
	}

	if cfg.Session.DragDebounceMillis < 0 {
		return nil, fmt.Errorf("SESSION_DRAG_DEBOUNCE_MS must not be negative")
	}

	if cfg.RateLimit.WindowSeconds <= 0 {
		cfg.RateLimit.WindowSeconds = int((time.Minute).Seconds())
	}

	if cfg.Resilience.CircuitBreaker.TimeoutSeconds <= 0 {
		cfg.Resilience.CircuitBreaker.TimeoutSeconds = 30
	}

	if cfg.Resilience.CircuitBreaker.IntervalSeconds <= 0 {
		cfg.Resilience.CircuitBreaker.IntervalSeconds = 60
	}

	if cfg.Resilience.CircuitBreaker.FailureThreshold <= 0 {
		cfg.Resilience.CircuitBreaker.FailureThreshold = 5
	}

	if cfg.Resilience.CircuitBreaker.SuccessThreshold <= 0 {
		cfg.Resilience.CircuitBreaker.SuccessThreshold = 1
	}

	return cfg, nil
}

// ORSEnabled reports whether the OpenRouteService fallback may be attempted
func (c *RoutingConfig) ORSEnabled() bool {
	return c.ORSAPIKey != "" && c.ORSAPIKey != "DISABLED"
}

// DragDebounce returns the drag coalescing window as a duration
func (c *SessionConfig) DragDebounce() time.Duration {
	return time.Duration(c.DragDebounceMillis) * time.Millisecond
}

// SettingsFor returns effective breaker settings for a specific upstream service name
func (c CircuitBreakerConfig) SettingsFor(service string) CircuitBreakerSettings {
	settings := CircuitBreakerSettings{
		FailureThreshold: c.FailureThreshold,
		SuccessThreshold: c.SuccessThreshold,
		TimeoutSeconds:   c.TimeoutSeconds,
		IntervalSeconds:  c.IntervalSeconds,
	}

	if c.ServiceOverrides != nil {
		if override, ok := c.ServiceOverrides[service]; ok {
			if override.FailureThreshold > 0 {
				settings.FailureThreshold = override.FailureThreshold
			}
			if override.SuccessThreshold > 0 {
				settings.SuccessThreshold = override.SuccessThreshold
			}
			if override.TimeoutSeconds > 0 {
				settings.TimeoutSeconds = override.TimeoutSeconds
			}
			if override.IntervalSeconds > 0 {
				settings.IntervalSeconds = override.IntervalSeconds
			}
		}
	}

	if settings.SuccessThreshold <= 0 {
		settings.SuccessThreshold = 1
	}
	if settings.FailureThreshold <= 0 {
		settings.FailureThreshold = 5
	}
	if settings.TimeoutSeconds <= 0 {
		settings.TimeoutSeconds = 30
	}
	if settings.IntervalSeconds <= 0 {
		settings.IntervalSeconds = 60
	}

	return settings
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// URL returns the connection string in URL form, as expected by migration
// tooling.
func (c *DatabaseConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// Window returns the configured rate limit window duration
func (c RateLimitConfig) Window() time.Duration {
	if c.WindowSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(c.WindowSeconds) * time.Second
}
