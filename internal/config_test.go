package internal

import (
	"testing"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/stretchr/testify/require"
)

func TestConfig_Defaults_From_Environment(t *testing.T) {
	req := require.New(t)
	t.Setenv("BADGER_FILEPATH", "/tmp/dm")
	t.Setenv("JWT_SECRET", "0123456789abcdef")
	t.Setenv("HTTP_PORT", "8181")

	var config Config
	_, err := env.UnmarshalFromEnviron(&config)

	req.NoError(err)
	req.NoError(config.Validate())
	req.Equal("localhost:8181", config.HTTPAddress())
	req.Equal("localhost:9090", config.GRPCAddress())
	req.Equal(60*time.Second, config.PongTimeout)
	req.Equal(5000, config.MaxContentLength)
	req.Equal("dm-lab", config.ServiceName)
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		JWTSecret:            "0123456789abcdef",
		ConnectionBufferSize: 1,
		WriteTimeout:         time.Second,
		PongTimeout:          time.Second,
		MetricInterval:       time.Second,
	}
	tests := []struct {
		name   string
		mutate func(c *Config)
		ok     bool
	}{
		{"Valid", func(c *Config) {}, true},
		{"Short secret", func(c *Config) { c.JWTSecret = "short" }, false},
		{"No buffer", func(c *Config) { c.ConnectionBufferSize = 0 }, false},
		{"No pong timeout", func(c *Config) { c.PongTimeout = 0 }, false},
		{"Negative retries", func(c *Config) { c.TxMaxRetries = -1 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := valid
			tt.mutate(&config)
			err := config.Validate()
			if tt.ok {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}
