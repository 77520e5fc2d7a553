// Package config loads and watches the node agent configuration (config.yaml).
//
// Top-level types:
//   - Config{Agent} — the `agent:` section of the YAML file; a `server:` key
//     in the same file belongs to the server binary and is ignored here
//   - AgentConfig — server_endpoint, sample_interval, ship_interval,
//     buffer_size, sensors [], display, server_auth
//   - Sensor — id, type (gateway|httpjson|sim), endpoint, auth, tls,
//     humidity_compensation
//   - AuthConfig — mode (mtls|apikey|bearer|basic|none), cert/key/ca files,
//     header, key_env, token_env, password_env; Key(), Token() and Password()
//     resolve secrets from environment variables so they never live in the file
//
// Load(path) reads the YAML file, applies defaults (30s sampling, 15s ship
// retry pause, 1000 sample buffer), then validates required fields and enums.
//
// Watch(ctx, path, onChange) uses fsnotify to detect file changes and calls
// onChange with the newly parsed Config. It handles the rename→create pattern
// used by atomic-save editors (vim, VS Code) by re-adding the watch after
// a rename event.
package config
