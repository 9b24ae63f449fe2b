package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the global application configuration
var Config AppConfig

// LoadAppConfig loads and validates the application configuration from
// config.yml. Geocoder API keys from the environment override the file so
// secrets stay out of checked-in configuration.
func LoadAppConfig() error {
	paths := []string{"config.yml", "./config/config.yml"}
	var data []byte
	var err error
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	if err != nil {
		return err
	}
	return parse(data)
}

func parse(data []byte) error {
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return err
	}
	v := validator.New()
	if err := v.Struct(cfg.Server); err != nil {
		return err
	}
	if err := v.Struct(cfg.Geocode); err != nil {
		return err
	}
	if err := v.Struct(cfg.Matching); err != nil {
		return err
	}
	if key := os.Getenv("BING_MAPS_KEY"); key != "" {
		cfg.Geocode.BingKey = key
	}
	if key := os.Getenv("GOOGLE_GEOCODING_KEY"); key != "" {
		cfg.Geocode.GoogleKey = key
	}
	Config = cfg
	applyDefaults(&Config)
	return nil
}

// applyDefaults fills zero values after validation so an empty or partial
// file is usable as-is.
func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8480
	}
	if cfg.Dataset.Path == "" {
		cfg.Dataset.Path = "gazetteer.db"
	}
	if len(cfg.Geocode.Providers) == 0 {
		cfg.Geocode.Providers = []string{"nominatim"}
	}
	if cfg.Geocode.TimeoutMS == 0 {
		cfg.Geocode.TimeoutMS = 3000
	}
	if cfg.Geocode.Region == "" {
		cfg.Geocode.Region = "London"
	}
	if cfg.Geocode.Country == "" {
		cfg.Geocode.Country = "United Kingdom"
	}
	if cfg.Geocode.RegionCode == "" {
		cfg.Geocode.RegionCode = "uk"
	}
	if cfg.Geocode.MaxRadiusKM == 0 {
		cfg.Geocode.MaxRadiusKM = 5
	}
	if cfg.Geocode.CacheSize == 0 {
		cfg.Geocode.CacheSize = 4096
	}
	if cfg.Geocode.CacheTTLMin == 0 {
		cfg.Geocode.CacheTTLMin = 60
	}
	if cfg.Matching.MinConfidence == 0 {
		cfg.Matching.MinConfidence = 0.70
	}
	if cfg.Matching.AmbiguityMargin == 0 {
		cfg.Matching.AmbiguityMargin = 0.03
	}
	if cfg.Bot.Handle == "" {
		cfg.Bot.Handle = "whensmytransport"
	}
}
