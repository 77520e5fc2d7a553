// Package auth provides authentication middleware for airgauge-server.
//
// APIKeyMiddleware(mode, header, key) returns HTTP middleware that validates
// the API key from the named request header.
//
// When mode != "apikey" or key == "", all requests pass through (useful for
// local development with auth disabled). When the key is incorrect or absent,
// the middleware responds 401 immediately.
package auth
