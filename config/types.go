package config

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port int `yaml:"port" validate:"gte=0"`
}

// DatasetConfig points at the SQLite gazetteer snapshot
type DatasetConfig struct {
	Path string `yaml:"path"`
}

// GeocodeConfig configures the geocoding provider chain
type GeocodeConfig struct {
	Providers   []string `yaml:"providers" validate:"dive,oneof=nominatim bing google"`
	TimeoutMS   int      `yaml:"timeoutMS" validate:"gte=0"`
	Region      string   `yaml:"region"`
	Country     string   `yaml:"country"`
	RegionCode  string   `yaml:"regionCode"`
	MaxRadiusKM float64  `yaml:"maxRadiusKM" validate:"gte=0"`
	CacheSize   int      `yaml:"cacheSize" validate:"gte=0"`
	CacheTTLMin int      `yaml:"cacheTTLMin" validate:"gte=0"`
	BingKey     string   `yaml:"bingKey"`
	GoogleKey   string   `yaml:"googleKey"`
}

// MatchingConfig tunes match acceptance and ambiguity detection
type MatchingConfig struct {
	MinConfidence   float64 `yaml:"minConfidence" validate:"gte=0,lte=1"`
	AmbiguityMargin float64 `yaml:"ambiguityMargin" validate:"gte=0,lte=1"`
}

// BotConfig describes the bot identity queries are addressed to
type BotConfig struct {
	Handle string `yaml:"handle"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Server   ServerConfig   `yaml:"server"`
	Dataset  DatasetConfig  `yaml:"dataset"`
	Geocode  GeocodeConfig  `yaml:"geocode"`
	Matching MatchingConfig `yaml:"matching"`
	Bot      BotConfig      `yaml:"bot"`
}
