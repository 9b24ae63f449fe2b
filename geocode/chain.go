package geocode

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/theoremus-urban-solutions/transit-query-resolver/config"
)

// Chain asks providers in configured order until one answers. An empty
// answer is still an answer and stops the chain; only errors and timeouts
// move it along.
type Chain struct {
	providers []Provider
	timeout   time.Duration
	cache     *Cache
	logger    *zap.Logger
}

// NewChain wires providers with a per-provider timeout and an optional
// cache. A zero timeout leaves each attempt bounded only by the caller's
// context.
func NewChain(providers []Provider, timeout time.Duration, cache *Cache, logger *zap.Logger) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chain{
		providers: providers,
		timeout:   timeout,
		cache:     cache,
		logger:    logger,
	}
}

// NewChainFromConfig builds the provider chain and cache described by the
// geocode configuration section.
func NewChainFromConfig(cfg config.GeocodeConfig, logger *zap.Logger) (*Chain, error) {
	providers := make([]Provider, 0, len(cfg.Providers))
	for _, name := range cfg.Providers {
		switch name {
		case "nominatim":
			providers = append(providers, NewNominatim(cfg.Region))
		case "bing":
			if cfg.BingKey == "" {
				return nil, fmt.Errorf("geocode provider bing requires a key, set BING_MAPS_KEY or geocode.bingKey")
			}
			providers = append(providers, NewBing(cfg.BingKey, cfg.Region, cfg.Country))
		case "google":
			if cfg.GoogleKey == "" {
				return nil, fmt.Errorf("geocode provider google requires a key, set GOOGLE_GEOCODING_KEY or geocode.googleKey")
			}
			providers = append(providers, NewGoogle(cfg.GoogleKey, cfg.Region, cfg.RegionCode))
		default:
			return nil, fmt.Errorf("unknown geocode provider %q", name)
		}
	}
	cache := NewCache(cfg.CacheSize, time.Duration(cfg.CacheTTLMin)*time.Minute)
	return NewChain(providers, time.Duration(cfg.TimeoutMS)*time.Millisecond, cache, logger), nil
}

// Geocode answers from the cache when possible, then walks the chain.
// It returns ErrUnavailable once every provider has failed. Cancelling
// the parent context stops the walk between providers.
func (c *Chain) Geocode(ctx context.Context, query string) ([]Place, error) {
	key := cacheKey(query)
	if places, ok := c.cache.get(key); ok {
		return places, nil
	}

	var lastErr error
	for _, p := range c.providers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pctx := ctx
		cancel := func() {}
		if c.timeout > 0 {
			pctx, cancel = context.WithTimeout(ctx, c.timeout)
		}
		start := time.Now()
		places, err := p.Geocode(pctx, query)
		cancel()

		if err != nil {
			c.logger.Warn("geocode provider failed",
				zap.String("provider", p.Name()),
				zap.Duration("elapsed", time.Since(start)),
				zap.Error(err))
			lastErr = err
			continue
		}

		c.logger.Debug("geocoded",
			zap.String("provider", p.Name()),
			zap.Int("places", len(places)),
			zap.Duration("elapsed", time.Since(start)))
		c.cache.set(key, places)
		return places, nil
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
	}
	return nil, ErrUnavailable
}
