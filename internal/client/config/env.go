package config

import (
	"github.com/dmitrijs2005/dailyjournal/internal/envx"
	"github.com/dmitrijs2005/dailyjournal/internal/flagx"
)

const defaultEnvFile = ".env"

// parseEnv overlays DJ_SERVER_ADDR and DJ_REQUEST_TIMEOUT. Malformed values
// panic, like the other loaders.
func parseEnv(config *Config) {
	path, optional := flagx.EnvFileFlags(), false
	if path == "" {
		path, optional = defaultEnvFile, true
	}
	if err := envx.Load(path, optional); err != nil {
		panic(err)
	}

	envx.String(&config.ServerEndpointAddr, "DJ_SERVER_ADDR")
	if err := envx.Duration(&config.RequestTimeout, "DJ_REQUEST_TIMEOUT"); err != nil {
		panic(err)
	}
}
