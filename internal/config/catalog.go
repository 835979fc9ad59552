package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/the-subs-must-go/internal/common"
	"github.com/Veraticus/the-subs-must-go/internal/model"
	"github.com/Veraticus/the-subs-must-go/internal/usage"
	"github.com/spf13/viper"
)

// DateLayout is the format used for renewal dates in configuration.
const DateLayout = "2006-01-02"

// DefaultRenewalWindowDays is how far ahead renewal reminders look.
const DefaultRenewalWindowDays = 30

// ServiceConfig describes one tracked subscription in the config file.
type ServiceConfig struct {
	UsageScore  *int     `mapstructure:"usage_score"`
	Name        string   `mapstructure:"name"`
	RenewalDate string   `mapstructure:"renewal_date"`
	Shows       []string `mapstructure:"shows"`
}

// Config is the loaded application configuration.
type Config struct {
	Services      []ServiceConfig
	Thresholds    usage.Thresholds
	RenewalWindow time.Duration
	SurveySeed    uint64
}

// Demo renewals fall this many days after the day the catalog is built, so
// the renewals view always has something to show.
const (
	demoNetflixRenewsIn = 9
	demoSpotifyRenewsIn = 11
	demoAdobeRenewsIn   = 14
)

// DefaultServices is the demo catalog used when none is configured.
func DefaultServices() []ServiceConfig {
	return DefaultServicesAt(time.Now())
}

// DefaultServicesAt builds the demo catalog with renewal dates relative to
// today's calendar date.
func DefaultServicesAt(today time.Time) []ServiceConfig {
	score := func(n int) *int { return &n }
	renews := func(days int) string { return today.AddDate(0, 0, days).Format(DateLayout) }
	return []ServiceConfig{
		{Name: "Notion"},
		{Name: "Figma"},
		{Name: "Slack"},
		{Name: "Netflix", RenewalDate: renews(demoNetflixRenewsIn), UsageScore: score(80),
			Shows: []string{"Stranger Things", "Wednesday", "Money Heist", "The Witcher"}},
		{Name: "Prime Video",
			Shows: []string{"The Boys", "Jack Ryan", "Reacher", "Invincible"}},
		{Name: "Disney+ Hotstar",
			Shows: []string{"Loki", "Andor", "The Mandalorian", "Hawkeye"}},
		{Name: "Spotify", RenewalDate: renews(demoSpotifyRenewsIn), UsageScore: score(30)},
		{Name: "Adobe Creative Cloud", RenewalDate: renews(demoAdobeRenewsIn), UsageScore: score(60)},
	}
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("thresholds.cancel_below", usage.DefaultCancelBelow)
	v.SetDefault("thresholds.keep_at", usage.DefaultKeepAt)
	v.SetDefault("renewals.window_days", DefaultRenewalWindowDays)
	v.SetDefault("survey.seed", 0)
	v.SetDefault("dashboard.show_help", true)
}

// Load reads configuration from v. Missing services fall back to
// DefaultServices.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	cfg := &Config{
		Thresholds: usage.Thresholds{
			CancelBelow: v.GetFloat64("thresholds.cancel_below"),
			KeepAt:      v.GetFloat64("thresholds.keep_at"),
		},
		SurveySeed: v.GetUint64("survey.seed"),
	}

	days := v.GetInt("renewals.window_days")
	if days < 0 {
		return nil, fmt.Errorf("%w: renewals.window_days cannot be negative", common.ErrInvalidConfig)
	}
	cfg.RenewalWindow = time.Duration(days) * 24 * time.Hour

	if v.IsSet("services") {
		if err := v.UnmarshalKey("services", &cfg.Services); err != nil {
			return nil, fmt.Errorf("%w: services: %v", common.ErrInvalidConfig, err)
		}
	}
	if len(cfg.Services) == 0 {
		cfg.Services = DefaultServices()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks thresholds and every service entry.
func (c *Config) Validate() error {
	if err := c.Thresholds.Validate(); err != nil {
		return err
	}

	seen := make(map[string]bool, len(c.Services))
	for i, sc := range c.Services {
		if strings.TrimSpace(sc.Name) == "" {
			return fmt.Errorf("%w: service %d has no name", common.ErrInvalidConfig, i)
		}
		if seen[sc.Name] {
			return fmt.Errorf("%w: service %q listed twice", common.ErrInvalidConfig, sc.Name)
		}
		seen[sc.Name] = true

		if _, err := sc.ToService(); err != nil {
			return err
		}
	}
	return nil
}

// ToService converts the config entry into a model.Service with no history.
func (sc ServiceConfig) ToService() (model.Service, error) {
	svc := model.Service{ID: sc.Name}

	if sc.RenewalDate != "" {
		d, err := time.Parse(DateLayout, sc.RenewalDate)
		if err != nil {
			return model.Service{}, fmt.Errorf("%w: service %q renewal_date: %v",
				common.ErrInvalidConfig, sc.Name, err)
		}
		svc.RenewalDate = &d
	}

	if sc.UsageScore != nil {
		if err := model.RawScoreResponse(*sc.UsageScore).Validate(); err != nil {
			return model.Service{}, fmt.Errorf("%w: service %q usage_score: %v",
				common.ErrInvalidConfig, sc.Name, err)
		}
		score := *sc.UsageScore
		svc.UsageScore = &score
	}

	return svc, nil
}

// Registrar is anything services can be registered into.
type Registrar interface {
	Register(svc model.Service) error
}

// Seed registers every configured service, in order.
func (c *Config) Seed(r Registrar) error {
	for _, sc := range c.Services {
		svc, err := sc.ToService()
		if err != nil {
			return err
		}
		if err := r.Register(svc); err != nil {
			return fmt.Errorf("failed to register %q: %w", sc.Name, err)
		}
	}
	return nil
}

// ShowPools returns the configured show titles keyed by service name.
func (c *Config) ShowPools() map[string][]string {
	pools := make(map[string][]string)
	for _, sc := range c.Services {
		if len(sc.Shows) > 0 {
			pools[sc.Name] = sc.Shows
		}
	}
	return pools
}
