package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultSampleInterval = 30 * time.Second
	DefaultShipInterval   = 15 * time.Second
	DefaultBufferSize     = 1000
)

// Config is the agent-side configuration parsed from the `agent:` section of
// config.yaml. A `server:` key in the same file is ignored by the agent binary.
type Config struct {
	Agent AgentConfig `yaml:"agent"`
}

// AgentConfig holds all node agent settings.
type AgentConfig struct {
	// ServerEndpoint is the base URL of the collection server's ingest API
	// (e.g. "http://airgauge-server:8080").
	ServerEndpoint string `yaml:"server_endpoint"`

	// SampleInterval controls how often each sensor is read.
	SampleInterval time.Duration `yaml:"sample_interval"`

	// ShipInterval is the minimum pause between upload retries when the
	// server is unreachable.
	ShipInterval time.Duration `yaml:"ship_interval"`

	// BufferSize is the maximum number of samples held in memory when the
	// server is unreachable. The oldest sample is evicted when full.
	BufferSize int `yaml:"buffer_size"`

	// Sensors is the list of sensor endpoints this node reads.
	Sensors []Sensor `yaml:"sensors"`

	// Display selects the local readout implementation.
	Display DisplayConfig `yaml:"display"`

	// ServerAuth configures how the agent authenticates to the server.
	ServerAuth AuthConfig `yaml:"server_auth"`
}

// Sensor describes one sensor endpoint polled by the agent.
type Sensor struct {
	// ID is a unique, human-readable identifier for this sensor. It becomes
	// the device_id of every sample it produces.
	ID string `yaml:"id"`

	// Type is the sensor transport: gateway | httpjson | sim.
	Type string `yaml:"type"`

	// Endpoint is the full URL of the sensor's metrics or readings endpoint.
	// Unused by the sim type.
	Endpoint string `yaml:"endpoint"`

	// HumidityCompensation applies the US EPA correction to raw PM2.5
	// readings using the same cycle's relative humidity.
	HumidityCompensation bool `yaml:"humidity_compensation"`

	// Auth configures how the agent authenticates to this sensor endpoint.
	Auth AuthConfig `yaml:"auth"`

	// TLS holds optional TLS dial options.
	TLS TLSConfig `yaml:"tls"`
}

// DisplayConfig selects the local readout.
type DisplayConfig struct {
	// Mode is one of: console | none. Default: none.
	Mode string `yaml:"mode"`
}

// AuthConfig specifies the authentication mode for an endpoint.
type AuthConfig struct {
	// Mode is one of: mtls | apikey | bearer | basic | none.
	Mode string `yaml:"mode"`

	// mTLS fields — used when Mode == "mtls".
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
	CAFile   string `yaml:"ca_file"`

	// API key fields — used when Mode == "apikey".
	// Header is the HTTP header name to send the key in.
	Header string `yaml:"header"`
	// KeyEnv is the name of the environment variable that holds the key value.
	KeyEnv string `yaml:"key_env"`

	// Bearer token fields — used when Mode == "bearer".
	// TokenEnv is the name of the environment variable that holds the token.
	TokenEnv string `yaml:"token_env"`

	// Basic auth fields — used when Mode == "basic".
	// Username is the literal username (safe to store in config).
	Username string `yaml:"username"`
	// PasswordEnv is the name of the environment variable that holds the password.
	PasswordEnv string `yaml:"password_env"`
}

// Key returns the API key value resolved from the environment.
// Returns empty string if KeyEnv is unset or the variable is not found.
func (a AuthConfig) Key() string {
	if a.KeyEnv == "" {
		return ""
	}
	return os.Getenv(a.KeyEnv)
}

// EffectiveHeader returns the configured header name, or the default "x-api-key".
func (a AuthConfig) EffectiveHeader() string {
	if a.Header != "" {
		return a.Header
	}
	return "x-api-key"
}

// Token returns the bearer token value resolved from the environment.
func (a AuthConfig) Token() string {
	if a.TokenEnv == "" {
		return ""
	}
	return os.Getenv(a.TokenEnv)
}

// Password returns the basic-auth password resolved from the environment.
func (a AuthConfig) Password() string {
	if a.PasswordEnv == "" {
		return ""
	}
	return os.Getenv(a.PasswordEnv)
}

// TLSConfig holds per-endpoint TLS dial options.
type TLSConfig struct {
	// InsecureSkipVerify disables TLS certificate verification.
	// Only use this for internal CAs in development environments.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify"`
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with sensible defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Agent: AgentConfig{
			SampleInterval: DefaultSampleInterval,
			ShipInterval:   DefaultShipInterval,
			BufferSize:     DefaultBufferSize,
		},
	}
}

// validate checks required fields and structural constraints.
func validate(cfg *Config) error {
	if cfg.Agent.ServerEndpoint == "" {
		return fmt.Errorf("agent.server_endpoint is required")
	}
	if cfg.Agent.SampleInterval <= 0 {
		return fmt.Errorf("agent.sample_interval must be positive")
	}
	if cfg.Agent.ShipInterval <= 0 {
		return fmt.Errorf("agent.ship_interval must be positive")
	}
	if cfg.Agent.BufferSize <= 0 {
		return fmt.Errorf("agent.buffer_size must be positive")
	}
	switch cfg.Agent.Display.Mode {
	case "console", "none", "":
	default:
		return fmt.Errorf("agent.display.mode %q unknown: want console|none", cfg.Agent.Display.Mode)
	}
	for i, s := range cfg.Agent.Sensors {
		if s.ID == "" {
			return fmt.Errorf("sensors[%d]: id is required", i)
		}
		switch s.Type {
		case "gateway", "httpjson", "sim":
		default:
			return fmt.Errorf("sensors[%d] %q: unknown type %q", i, s.ID, s.Type)
		}
		if s.Endpoint == "" && s.Type != "sim" {
			return fmt.Errorf("sensors[%d] %q: endpoint is required", i, s.ID)
		}
		switch s.Auth.Mode {
		case "mtls", "apikey", "bearer", "basic", "none", "":
		default:
			return fmt.Errorf("sensors[%d] %q: unknown auth mode %q", i, s.ID, s.Auth.Mode)
		}
	}
	return nil
}
