package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/dailyjournal/internal/flagx"
)

// parseFlags overlays the server flags:
//
//	-a string   gRPC bind address (e.g. ":50051")
//	-m string   ops HTTP bind address for /health and /metrics
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-r int      refresh token validity, minutes
//	-q int      dashboard query timeout, seconds
//	-z string   time zone that defines "today"
//	-l float    Login/Register requests per second per peer
//	-k int      Login/Register burst per peer
//	-x string   cron spec of the expired token purge
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint
//
// Only these flags are taken from os.Args (see flagx.FilterArgs).
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-m", "-d", "-s", "-t", "-r", "-q", "-z", "-l", "-k", "-x", "-u", "-p", "-b", "-g", "-e",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "gRPC address and port")
	fs.StringVar(&config.EndpointAddrHTTP, "m", config.EndpointAddrHTTP, "ops HTTP address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	refreshTokenValidityDuration := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh token validity (in minutes)")
	queryTimeout := fs.Int("q", int(config.QueryTimeout.Seconds()), "dashboard query timeout (in seconds)")

	fs.StringVar(&config.Timezone, "z", config.Timezone, "time zone of the journal day")
	fs.Float64Var(&config.AuthRateLimit, "l", config.AuthRateLimit, "auth requests per second per peer")
	fs.IntVar(&config.AuthRateBurst, "k", config.AuthRateBurst, "auth burst per peer")
	fs.StringVar(&config.TokenPurgeSchedule, "x", config.TokenPurgeSchedule, "expired token purge schedule (cron)")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
	config.RefreshTokenValidityDuration = time.Duration(*refreshTokenValidityDuration) * time.Minute
	config.QueryTimeout = time.Duration(*queryTimeout) * time.Second
}
