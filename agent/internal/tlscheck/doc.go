// Package tlscheck inspects TLS certificates on HTTPS sensor endpoints at
// agent startup. Expired or soon-to-expire certificates are logged so an
// operator notices before the sensor becomes unreachable mid-deployment.
package tlscheck
