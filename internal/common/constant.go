// Package common contains shared constants and sentinel errors used across
// Daily Journal components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// DateLayout is the wire and storage layout of a journal calendar date.
const DateLayout = "2006-01-02"
