package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	cfg := &Config{}
	var got *Config
	cmd := NewCommand(cfg, func(_ context.Context, c *Config) error {
		got = c
		return nil
	})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return got, err
}

func TestDefaults(t *testing.T) {
	cfg, err := parse(t, "--admin-password", "pw")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 15*time.Minute, cfg.ReapInterval)
	assert.Equal(t, time.Hour, cfg.IdleTimeout)
	assert.Empty(t, cfg.AllowedOrigins)
}

func TestEnvironment(t *testing.T) {
	t.Setenv("CARDROOM_PORT", "9090")
	t.Setenv("CARDROOM_ADMIN_PASSWORD", "from-env")
	t.Setenv("CARDROOM_IDLE_TIMEOUT", "30m")

	cfg, err := parse(t)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "from-env", cfg.AdminPassword)
	assert.Equal(t, 30*time.Minute, cfg.IdleTimeout)
}

func TestFlagsBeatEnvironment(t *testing.T) {
	t.Setenv("CARDROOM_PORT", "9090")
	cfg, err := parse(t, "--port", "7000", "--admin-password", "pw", "--allowed-origins", "a.example.com,b.example.com")
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, []string{"a.example.com", "b.example.com"}, cfg.AllowedOrigins)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Port:          8080,
			DBDriver:      "postgres",
			DatabaseURL:   "postgres://localhost/cardroom",
			AdminPassword: "pw",
			ReapInterval:  time.Minute,
			IdleTimeout:   time.Hour,
			PublicURL:     "https://cards.example.com",
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Port = 0 }},
		{"unknown driver", func(c *Config) { c.DBDriver = "mysql" }},
		{"empty dsn", func(c *Config) { c.DatabaseURL = "" }},
		{"no admin password", func(c *Config) { c.AdminPassword = "" }},
		{"zero interval", func(c *Config) { c.ReapInterval = 0 }},
		{"negative timeout", func(c *Config) { c.IdleTimeout = -time.Second }},
		{"relative public url", func(c *Config) { c.PublicURL = "/cards" }},
	}

	ok := valid()
	require.NoError(t, ok.Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}

	_, err := parse(t)
	assert.Error(t, err, "admin password is required")
}
