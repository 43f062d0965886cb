package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/UnknownOlympus/horizon/internal/colorize"
	"github.com/UnknownOlympus/horizon/internal/itinerary"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the configuration settings for the isochrone service.
//
// Values come from, by increasing priority: defaults, the YAML file named by HORIZON_CONFIG,
// and HORIZON_* environment variables (a .env file is loaded first when present).
type Config struct {
	Env       string          // Env is the current environment: local, development, production.
	Port      int             // Port is the HTTP server port.
	Planner   PlannerConfig   // Planner holds the journey planner API settings.
	Isochrone IsochroneConfig // Isochrone holds the drawing settings.
	Search    SearchConfig    // Search holds the place search provider settings.
	Database  PostgresConfig  // Database holds the postgres database configuration.
}

// PlannerConfig holds the journey planner API settings.
type PlannerConfig struct {
	BaseURL   string           // BaseURL of the planner API.
	Region    string           // Region (coverage) queried.
	Token     string           // Token used as basic auth user.
	Schema    itinerary.Schema // Schema forces a response schema, empty means detect.
	RateLimit int              // RateLimit in requests per second, 0 means unlimited.
	Timeout   time.Duration    // Timeout of one planner request.
}

// IsochroneConfig holds what the drawn isochrone looks like.
type IsochroneConfig struct {
	Origin      string            // Origin drawn on start, "lon;lat" or a place id. Empty disables it.
	MaxDuration int               // MaxDuration in seconds, the slow end of the gradient.
	MinDuration int               // MinDuration in seconds, 0 to omit.
	Refresh     time.Duration     // Refresh interval of the origin isochrone, 0 disables it.
	Zoom        int               // Zoom is the initial map zoom level.
	Policy      colorize.Policy   // Policy for out of range durations.
	Gradient    colorize.Gradient // Gradient from fast to slow.
}

// SearchConfig holds the place search provider settings.
type SearchConfig struct {
	Provider  string // Provider type: planner, google, nominatim, visicom.
	APIKey    string // APIKey for the Google and Visicom providers.
	RateLimit int    // RateLimit for the Google and Visicom providers.
	Limit     int    // Limit of results for the Nominatim and Visicom providers.
	Language  string // Language for the Nominatim and Visicom providers.
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
// Snapshots are disabled when Host is empty.
type PostgresConfig struct {
	Host     string // Host is the database server address.
	Port     string // Port is the database server port.
	User     string // User is the database user.
	Password string // Password is the database user's password.
	Name     string // Name is the name of the database.
}

func defaults(v *viper.Viper) {
	v.SetDefault("env", "production")
	v.SetDefault("port", "8080")
	v.SetDefault("planner.base_url", "https://api.navitia.io/v1")
	v.SetDefault("planner.region", "")
	v.SetDefault("planner.schema", "")
	v.SetDefault("planner.rate_limit", "5")
	v.SetDefault("planner.timeout", "10s")
	v.SetDefault("isochrone.origin", "")
	v.SetDefault("isochrone.max_duration", "3600")
	v.SetDefault("isochrone.min_duration", "0")
	v.SetDefault("isochrone.refresh", "0s")
	v.SetDefault("isochrone.zoom", "12")
	v.SetDefault("isochrone.policy", string(colorize.PolicyExtrapolate))
	v.SetDefault("isochrone.fast_color", colorize.DefaultGradient.Fast.Hex())
	v.SetDefault("isochrone.slow_color", colorize.DefaultGradient.Slow.Hex())
	v.SetDefault("search.provider", "planner")
	v.SetDefault("search.rate_limit", "10")
	v.SetDefault("search.limit", "5")
	v.SetDefault("search.language", "en")
	v.SetDefault("database.port", "5432")
}

// MustLoad loads the configuration and panics with a descriptive message on invalid values.
func MustLoad() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("horizon")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	defaults(v)

	// historical variable names of the database settings
	for key, env := range map[string]string{
		"database.host":     "DB_HOST",
		"database.port":     "DB_PORT",
		"database.user":     "DB_USERNAME",
		"database.password": "DB_PASSWORD",
		"database.name":     "DB_NAME",
	} {
		_ = v.BindEnv(key, "HORIZON_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env)
	}

	if path := os.Getenv("HORIZON_CONFIG"); path != "" {
		v.SetConfigFile(path)
		if filepath.Ext(path) == "" {
			v.SetConfigType("yaml")
		}
		if err := v.ReadInConfig(); err != nil {
			panic("failed to read configuration file " + path)
		}
	}

	return &Config{
		Env:  v.GetString("env"),
		Port: mustInt(v, "port", "failed to parse port for server from configuration"),
		Planner: PlannerConfig{
			BaseURL:   v.GetString("planner.base_url"),
			Region:    v.GetString("planner.region"),
			Token:     v.GetString("planner.token"),
			Schema:    mustSchema(v.GetString("planner.schema")),
			RateLimit: mustInt(v, "planner.rate_limit", "failed to parse planner rate limit, must be an integer"),
			Timeout:   mustDuration(v, "planner.timeout", "failed to parse planner timeout from configuration"),
		},
		Isochrone: mustIsochrone(v),
		Search: SearchConfig{
			Provider:  v.GetString("search.provider"),
			APIKey:    v.GetString("search.api_key"),
			RateLimit: mustInt(v, "search.rate_limit", "failed to parse search rate limit, must be an integer"),
			Limit:     mustInt(v, "search.limit", "failed to parse search limit, must be an integer"),
			Language:  v.GetString("search.language"),
		},
		Database: PostgresConfig{
			Host:     v.GetString("database.host"),
			Port:     v.GetString("database.port"),
			User:     v.GetString("database.user"),
			Password: v.GetString("database.password"),
			Name:     v.GetString("database.name"),
		},
	}
}

func mustIsochrone(v *viper.Viper) IsochroneConfig {
	maxDuration := mustInt(v, "isochrone.max_duration", "failed to parse max duration, must be an integer")
	if maxDuration <= 0 {
		panic("max duration must be a positive number of seconds")
	}

	policy, err := colorize.ParsePolicy(v.GetString("isochrone.policy"))
	if err != nil {
		panic("failed to parse color policy, expected extrapolate or clamp")
	}

	fast, err := colorize.ParseRGB(v.GetString("isochrone.fast_color"))
	if err != nil {
		panic("failed to parse fast color, expected #RRGGBB")
	}
	slow, err := colorize.ParseRGB(v.GetString("isochrone.slow_color"))
	if err != nil {
		panic("failed to parse slow color, expected #RRGGBB")
	}

	return IsochroneConfig{
		Origin:      v.GetString("isochrone.origin"),
		MaxDuration: maxDuration,
		MinDuration: mustInt(v, "isochrone.min_duration", "failed to parse min duration, must be an integer"),
		Refresh:     mustDuration(v, "isochrone.refresh", "failed to parse refresh interval from configuration"),
		Zoom:        mustInt(v, "isochrone.zoom", "failed to parse zoom, must be an integer"),
		Policy:      policy,
		Gradient:    colorize.Gradient{Fast: fast, Slow: slow},
	}
}

func mustSchema(value string) itinerary.Schema {
	schema, err := itinerary.ParseSchema(value)
	if err != nil {
		panic("failed to parse planner schema, expected legacy_v1, legacy_v2, legacy_v3 or current")
	}

	return schema
}

func mustInt(v *viper.Viper, key, message string) int {
	value, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		panic(message)
	}

	return value
}

func mustDuration(v *viper.Viper, key, message string) time.Duration {
	value, err := time.ParseDuration(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		panic(message)
	}

	return value
}
