package config

import "github.com/caarlos0/env/v11"

// parseEnv overlays STOREFRONT_* environment variables. Unset variables keep
// whatever the previous layers produced. Malformed values panic, matching the
// JSON and flag layers.
func parseEnv(config *Config) {
	if err := env.Parse(config); err != nil {
		panic(err)
	}
}
