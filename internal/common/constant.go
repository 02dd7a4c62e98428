package common

// AuthorizationHeaderName is the HTTP header carrying the bearer token.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix is the scheme prefix expected in the Authorization header.
const BearerPrefix = "Bearer "

// RequestIDHeaderName is echoed back on every response.
const RequestIDHeaderName = "X-Request-ID"
