package config

import (
	"github.com/dmitrijs2005/dailyjournal/internal/envx"
	"github.com/dmitrijs2005/dailyjournal/internal/flagx"
)

// defaultEnvFile is read when present; -env names another file that must exist.
const defaultEnvFile = ".env"

// parseEnv overlays DJ_* environment variables. Durations use Go syntax
// ("15m", "720h"). Malformed values panic, like the other loaders.
//
//	DJ_GRPC_ADDR, DJ_HTTP_ADDR, DJ_DATABASE_DSN, DJ_SECRET_KEY,
//	DJ_ACCESS_TOKEN_TTL, DJ_REFRESH_TOKEN_TTL, DJ_QUERY_TIMEOUT, DJ_TIMEZONE,
//	DJ_AUTH_RATE_LIMIT, DJ_AUTH_RATE_BURST, DJ_TOKEN_PURGE_SCHEDULE,
//	DJ_S3_ROOT_USER, DJ_S3_ROOT_PASSWORD, DJ_S3_BUCKET, DJ_S3_REGION,
//	DJ_S3_BASE_ENDPOINT
func parseEnv(config *Config) {
	path, optional := flagx.EnvFileFlags(), false
	if path == "" {
		path, optional = defaultEnvFile, true
	}
	if err := envx.Load(path, optional); err != nil {
		panic(err)
	}

	envx.String(&config.EndpointAddrGRPC, "DJ_GRPC_ADDR")
	envx.String(&config.EndpointAddrHTTP, "DJ_HTTP_ADDR")
	envx.String(&config.DatabaseDSN, "DJ_DATABASE_DSN")
	envx.String(&config.SecretKey, "DJ_SECRET_KEY")
	envx.String(&config.Timezone, "DJ_TIMEZONE")
	envx.String(&config.TokenPurgeSchedule, "DJ_TOKEN_PURGE_SCHEDULE")
	envx.String(&config.S3RootUser, "DJ_S3_ROOT_USER")
	envx.String(&config.S3RootPassword, "DJ_S3_ROOT_PASSWORD")
	envx.String(&config.S3Bucket, "DJ_S3_BUCKET")
	envx.String(&config.S3Region, "DJ_S3_REGION")
	envx.String(&config.S3BaseEndpoint, "DJ_S3_BASE_ENDPOINT")

	for _, err := range []error{
		envx.Duration(&config.AccessTokenValidityDuration, "DJ_ACCESS_TOKEN_TTL"),
		envx.Duration(&config.RefreshTokenValidityDuration, "DJ_REFRESH_TOKEN_TTL"),
		envx.Duration(&config.QueryTimeout, "DJ_QUERY_TIMEOUT"),
		envx.Float(&config.AuthRateLimit, "DJ_AUTH_RATE_LIMIT"),
		envx.Int(&config.AuthRateBurst, "DJ_AUTH_RATE_BURST"),
	} {
		if err != nil {
			panic(err)
		}
	}
}
