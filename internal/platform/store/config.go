package store

import "time"

// Config aggregates per backend configuration
type Config struct {
	AppName string

	PG PGConfig
	CH CHConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	ConnectRetries int           // default 20 pings with capped exponential backoff
	PingTimeout    time.Duration // per ping, default 3s
}

// CHConfig configures the clickhouse native client
type CHConfig struct {
	Enabled      bool
	URL          string
	Role         string // reported in system.query_log client info
	DialTimeout  time.Duration
	MaxOpenConns int
}
