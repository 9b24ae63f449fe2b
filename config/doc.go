// Package config handles application configuration loading and validation.
//
// Configuration is loaded from config.yml and validated using struct tags.
// Zero values take sensible London defaults, and geocoder API keys may be
// supplied through the BING_MAPS_KEY and GOOGLE_GEOCODING_KEY environment
// variables instead of the file.
package config
