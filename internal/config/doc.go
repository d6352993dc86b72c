// Package config resolves the solver service settings: listen port, accepted
// distance classes, per-request egg limit, result cache size, and HTTP and
// rate-limit tuning. Values are layered from defaults, environment variables,
// an optional YAML file and CLI flags, later layers winning.
package config
