package tlscheck

import (
	"context"
	"crypto/tls"
	"log/slog"
	"math"
	"net"
	"net/url"
	"time"

	"github.com/airgauge/airgauge/agent/internal/config"
)

// Certificate status values reported by Check.
const (
	StatusValid       = "valid"
	StatusExpiring    = "expiring"
	StatusExpired     = "expired"
	StatusUnreachable = "unreachable"
)

// expiryWarnDays is the remaining lifetime below which a certificate is
// reported as expiring.
const expiryWarnDays = 30

// CertStatus describes the leaf certificate presented by a sensor endpoint.
type CertStatus struct {
	SensorID string
	Endpoint string
	AuthType string
	Status   string
	Issuer   string
	NotAfter time.Time
	DaysLeft int
}

// Check dials the TLS endpoint of the given sensor and returns a CertStatus
// describing the leaf certificate.
//
// Returns nil for non-HTTPS endpoints, there is no TLS certificate to
// inspect. Uses a 10-second dial timeout so a slow host does not block agent
// startup indefinitely.
func Check(ctx context.Context, s config.Sensor) *CertStatus {
	u, err := url.Parse(s.Endpoint)
	if err != nil || u.Scheme != "https" {
		return nil // nothing to inspect for plain-HTTP or unparseable endpoints
	}

	cs := &CertStatus{
		SensorID: s.ID,
		Endpoint: s.Endpoint,
		AuthType: s.Auth.Mode,
	}
	if cs.AuthType == "" {
		cs.AuthType = "none"
	}

	host := u.Host
	if _, _, err := net.SplitHostPort(host); err != nil {
		// No explicit port in the URL, append the HTTPS default.
		host = net.JoinHostPort(host, "443")
	}

	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{},
		Config: &tls.Config{
			InsecureSkipVerify: s.TLS.InsecureSkipVerify, //nolint:gosec
		},
	}

	netConn, err := dialer.DialContext(dialCtx, "tcp", host)
	if err != nil {
		cs.Status = StatusUnreachable
		return cs
	}
	conn := netConn.(*tls.Conn)
	defer conn.Close()

	peerCerts := conn.ConnectionState().PeerCertificates
	if len(peerCerts) == 0 {
		cs.Status = StatusUnreachable
		return cs
	}

	leaf := peerCerts[0]
	daysLeft := time.Until(leaf.NotAfter).Hours() / 24

	cs.NotAfter = leaf.NotAfter.UTC()
	cs.Issuer = leaf.Issuer.CommonName
	cs.DaysLeft = int(math.Floor(daysLeft))

	switch {
	case daysLeft <= 0:
		cs.Status = StatusExpired
	case daysLeft <= expiryWarnDays:
		cs.Status = StatusExpiring
	default:
		cs.Status = StatusValid
	}

	return cs
}

// Report runs Check on every sensor and logs anything an operator should see.
func Report(ctx context.Context, sensors []config.Sensor) {
	for _, s := range sensors {
		cs := Check(ctx, s)
		if cs == nil {
			continue
		}
		switch cs.Status {
		case StatusValid:
			slog.Debug("tlscheck: certificate ok",
				"sensor", cs.SensorID, "issuer", cs.Issuer, "days_left", cs.DaysLeft)
		case StatusExpiring:
			slog.Warn("tlscheck: certificate expires soon",
				"sensor", cs.SensorID, "endpoint", cs.Endpoint,
				"issuer", cs.Issuer, "days_left", cs.DaysLeft)
		case StatusExpired:
			slog.Error("tlscheck: certificate expired",
				"sensor", cs.SensorID, "endpoint", cs.Endpoint,
				"not_after", cs.NotAfter.Format(time.RFC3339))
		case StatusUnreachable:
			slog.Warn("tlscheck: endpoint unreachable for inspection",
				"sensor", cs.SensorID, "endpoint", cs.Endpoint)
		}
	}
}
