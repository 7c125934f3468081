package internal

import (
	"fmt"
	"time"
)

type Config struct {
	BadgerFilepath       string        `env:"BADGER_FILEPATH,required=true"`
	LogLevel             string        `env:"LOG_LEVEL,default=INFO"`
	Host                 string        `env:"HOST,default=localhost"`
	HTTPPort             int           `env:"HTTP_PORT,default=8080"`
	GRPCPort             int           `env:"GRPC_PORT,default=9090"`
	JWTSecret            string        `env:"JWT_SECRET,required=true"`
	JWTIssuer            string        `env:"JWT_ISSUER"`
	MaxContentLength     int           `env:"MAX_CONTENT_LENGTH,default=5000"`
	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,default=64"`
	WriteTimeout         time.Duration `env:"WRITE_TIMEOUT,default=10s"`
	PongTimeout          time.Duration `env:"PONG_TIMEOUT,default=60s"`
	TxMaxRetries         int           `env:"TX_MAX_RETRIES,default=5"`
	RestartInterval      time.Duration `env:"RESTART_INTERVAL,default=1s"`
	MetricInterval       time.Duration `env:"METRIC_INTERVAL,default=30s"`
	ShutdownTimeout      time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
	OTLPEndpoint         string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName          string        `env:"OTEL_SERVICE_NAME,default=dm-lab"`
}

// Validate catches values the environment decoder accepts but the server cannot run with.
func (c Config) Validate() error {
	switch {
	case len(c.JWTSecret) < 16:
		return fmt.Errorf("JWT_SECRET must be at least 16 characters")
	case c.ConnectionBufferSize <= 0:
		return fmt.Errorf("CONNECTION_BUFFER_SIZE must be positive, got %d", c.ConnectionBufferSize)
	case c.PongTimeout <= 0 || c.WriteTimeout <= 0:
		return fmt.Errorf("WRITE_TIMEOUT and PONG_TIMEOUT must be positive")
	case c.MetricInterval <= 0:
		return fmt.Errorf("METRIC_INTERVAL must be positive, got %s", c.MetricInterval)
	case c.TxMaxRetries < 0:
		return fmt.Errorf("TX_MAX_RETRIES cannot be negative, got %d", c.TxMaxRetries)
	}
	return nil
}

func (c Config) HTTPAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.HTTPPort)
}

func (c Config) GRPCAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.GRPCPort)
}

// MaxFrameSize bounds an inbound live frame: the JSON envelope around the
// longest content, with room for escaped characters.
func (c Config) MaxFrameSize() int64 {
	return int64(c.MaxContentLength)*6 + 1024
}
