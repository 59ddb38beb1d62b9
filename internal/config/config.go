package config

import (
	"fmt"
	"strings"
	"time"

	"crime_service/internal/core"
	"crime_service/internal/domain/model"
	"crime_service/internal/domain/repository"
	"crime_service/internal/infrastructure/policeapi"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvPrefix      = "CRIME"
	DefaultPolygon = "52.268,0.543:52.794,0.238:52.130,0.478"
)

// Config is everything one run or the API server needs. It is built once in
// main and passed down explicitly.
type Config struct {
	Month            string
	MonthLag         int
	Polygon          model.Polygon
	Area             string
	CrimesURL        string
	NeighbourhoodURL string
	OverpassURL      string
	Timeout          time.Duration
	Workers          int
	SkipFailed       bool
	OutputDir        string
	Charts           []string
	Listen           string
}

// SetDefaults registers every key with its default so env and file values
// can be unmarshalled even when no flag is bound.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("month", "")
	v.SetDefault("month_lag", 2)
	v.SetDefault("polygon", DefaultPolygon)
	v.SetDefault("area", "")
	v.SetDefault("crimes_url", policeapi.DefaultCrimesURL)
	v.SetDefault("neighbourhood_url", policeapi.DefaultNeighbourhoodURL)
	v.SetDefault("overpass_url", repository.DefaultOverpassURL)
	v.SetDefault("timeout", 10*time.Second)
	v.SetDefault("workers", core.DefaultWorkers)
	v.SetDefault("skip_failed", false)
	v.SetDefault("output_dir", "output")
	v.SetDefault("chart", []string{"png", "xlsx"})
	v.SetDefault("listen", ":8080")
}

// New returns a viper instance reading CRIME_* environment variables and,
// when configFile is set, that file.
func New(configFile string) (*viper.Viper, error) {
	// .env is optional, only used in development
	_ = godotenv.Load()

	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return v, nil
}

// Load builds and validates a Config from v. now is used to derive the
// default reporting month.
func Load(v *viper.Viper, now time.Time) (*Config, error) {
	cfg := &Config{
		Month:            strings.TrimSpace(v.GetString("month")),
		MonthLag:         v.GetInt("month_lag"),
		Area:             strings.TrimSpace(v.GetString("area")),
		CrimesURL:        v.GetString("crimes_url"),
		NeighbourhoodURL: v.GetString("neighbourhood_url"),
		OverpassURL:      v.GetString("overpass_url"),
		Timeout:          v.GetDuration("timeout"),
		Workers:          v.GetInt("workers"),
		SkipFailed:       v.GetBool("skip_failed"),
		OutputDir:        v.GetString("output_dir"),
		Charts:           splitList(v.GetStringSlice("chart")),
		Listen:           v.GetString("listen"),
	}

	if cfg.MonthLag < 0 {
		return nil, fmt.Errorf("month_lag must not be negative, got %d", cfg.MonthLag)
	}
	if cfg.Month == "" {
		cfg.Month = core.ReportingMonth(now, cfg.MonthLag)
	}
	if err := core.ValidateMonth(cfg.Month); err != nil {
		return nil, err
	}

	poly, err := model.ParsePolygon(v.GetString("polygon"))
	if err != nil {
		return nil, fmt.Errorf("invalid polygon: %w", err)
	}
	cfg.Polygon = poly

	if cfg.Workers < 1 {
		return nil, fmt.Errorf("workers must be at least 1, got %d", cfg.Workers)
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive, got %s", cfg.Timeout)
	}
	if cfg.CrimesURL == "" || cfg.NeighbourhoodURL == "" {
		return nil, fmt.Errorf("crimes_url and neighbourhood_url must be set")
	}

	return cfg, nil
}

// Request is the report request described by the configuration.
func (c *Config) Request() model.ReportRequest {
	return model.ReportRequest{
		Month:   c.Month,
		Polygon: c.Polygon,
		Area:    c.Area,
	}
}

// splitList accepts both list values and a single comma separated string,
// which is what environment variables provide.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
