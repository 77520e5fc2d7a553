package uplink

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/airgauge/airgauge/agent/internal/compute"
	"github.com/airgauge/airgauge/agent/internal/config"
	"github.com/airgauge/airgauge/pkg/types"
)

const (
	backoffInitial    = 1 * time.Second
	backoffMax        = 60 * time.Second
	backoffMultiplier = 2.0
	sendTimeout       = 10 * time.Second

	ingestPath = "/api/v1/ingest"
)

// Uplink buffers samples and posts them to the airgauge server's ingest API.
// Ship() is non-blocking; when the buffer is full the oldest sample is
// evicted. Run() must be called in a goroutine to drain the buffer.
type Uplink struct {
	cfg    config.AgentConfig
	buf    chan *types.Sample
	postFn postFunc // injectable for tests
}

// postFunc posts one sample and returns the server's verdict.
// Abstracted so tests can inject an httptest round trip.
type postFunc func(ctx context.Context, s *types.Sample) error

// permanentError marks a rejection that will not succeed on retry.
type permanentError struct {
	status int
	body   string
}

func (e *permanentError) Error() string {
	return fmt.Sprintf("server rejected sample: status %d: %s", e.status, e.body)
}

// New creates an Uplink using the given agent config.
func New(cfg config.AgentConfig) (*Uplink, error) {
	u := &Uplink{
		cfg: cfg,
		buf: make(chan *types.Sample, cfg.BufferSize),
	}
	client, err := buildClient(cfg.ServerAuth)
	if err != nil {
		return nil, err
	}
	u.postFn = func(ctx context.Context, s *types.Sample) error {
		return post(ctx, client, cfg, s)
	}
	return u, nil
}

// Ship converts a compute.Result to a wire sample and enqueues it.
// If the buffer is full the oldest entry is evicted to make room.
func (u *Uplink) Ship(res *compute.Result) {
	sample := toSample(res)
	select {
	case u.buf <- sample:
	default:
		// Buffer full. Drop the oldest sample, keep the newest.
		select {
		case <-u.buf:
			slog.Warn("uplink: buffer full, evicted oldest sample",
				"device", res.SensorID, "buffer_cap", cap(u.buf))
		default:
		}
		u.buf <- sample
	}
}

// Run drains the buffer, posting samples to the server.
// It retries with exponential backoff when the server is unreachable.
// Run blocks until ctx is cancelled.
func (u *Uplink) Run(ctx context.Context) {
	bo := newBackoff(u.cfg.ShipInterval)

	for {
		select {
		case <-ctx.Done():
			return

		case sample := <-u.buf:
			sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
			err := u.postFn(sendCtx, sample)
			cancel()

			if err == nil {
				slog.Debug("uplink: sample delivered", "device", sample.DeviceID)
				bo.reset()
				continue
			}

			var perm *permanentError
			if errors.As(err, &perm) {
				slog.Error("uplink: permanent send error, discarding sample",
					"device", sample.DeviceID, "err", err)
				continue
			}

			// Requeue at the back of the buffer if there's room; it may be
			// delivered after samples shipped in the meantime.
			select {
			case u.buf <- sample:
			default:
				// Buffer full. The sample is lost; the server will receive
				// the next cycle's data once it is reachable again.
			}

			wait := bo.next()
			slog.Warn("uplink: send failed, will retry",
				"endpoint", u.cfg.ServerEndpoint, "err", err, "retry_in", wait)
			select {
			case <-ctx.Done():
				return
			case <-time.After(wait):
			}
		}
	}
}

// post sends one sample as a JSON body to the server's ingest endpoint.
func post(ctx context.Context, client *http.Client, cfg config.AgentConfig, s *types.Sample) error {
	body, err := json.Marshal(s)
	if err != nil {
		return &permanentError{status: 0, body: err.Error()}
	}

	url := strings.TrimRight(cfg.ServerEndpoint, "/") + ingestPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("uplink: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if cfg.ServerAuth.Mode == "apikey" {
		req.Header.Set(cfg.ServerAuth.EffectiveHeader(), cfg.ServerAuth.Key())
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("uplink: post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	switch resp.StatusCode {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden,
		http.StatusRequestEntityTooLarge, http.StatusUnprocessableEntity:
		return &permanentError{status: resp.StatusCode, body: string(msg)}
	}
	return fmt.Errorf("uplink: server status %d: %s", resp.StatusCode, msg)
}

// buildClient returns an http.Client configured from the server auth config.
// Only "mtls" changes the transport; apikey auth is a per-request header.
func buildClient(auth config.AuthConfig) (*http.Client, error) {
	client := &http.Client{Timeout: sendTimeout}
	if auth.Mode != "mtls" {
		return client, nil
	}

	cert, err := tls.LoadX509KeyPair(auth.CertFile, auth.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("uplink: load client cert: %w", err)
	}
	tlsCfg := &tls.Config{Certificates: []tls.Certificate{cert}}

	if auth.CAFile != "" {
		caPEM, err := os.ReadFile(auth.CAFile)
		if err != nil {
			return nil, fmt.Errorf("uplink: read ca file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caPEM) {
			return nil, fmt.Errorf("uplink: no valid certs in ca file %q", auth.CAFile)
		}
		tlsCfg.RootCAs = pool
	}

	client.Transport = &http.Transport{TLSClientConfig: tlsCfg}
	return client, nil
}

// backoff implements truncated exponential backoff with jitter. The floor
// is the agent's configured ship_interval; growth is capped at backoffMax
// or the floor, whichever is larger.
type backoff struct {
	initial time.Duration
	current time.Duration
}

func newBackoff(initial time.Duration) *backoff {
	if initial <= 0 {
		initial = backoffInitial
	}
	return &backoff{initial: initial, current: initial}
}

// next returns the current backoff duration and advances the internal state.
func (b *backoff) next() time.Duration {
	d := b.current
	// Apply ±25 % jitter.
	jitter := time.Duration(float64(b.current) * 0.25 * (rand.Float64()*2 - 1)) //nolint:gosec // not crypto
	d += jitter
	if d < 0 {
		d = 0
	}

	// Advance for next call.
	ceiling := backoffMax
	if b.initial > ceiling {
		ceiling = b.initial
	}
	b.current = time.Duration(float64(b.current) * backoffMultiplier)
	if b.current > ceiling {
		b.current = ceiling
	}
	return d
}

func (b *backoff) reset() {
	b.current = b.initial
}
