package main

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Store:        "badger",
		JWTSecret:    "secret",
		PasswordSalt: "salt",
		RateLimitRPM: 10,
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"ok", func(*Config) {}, ""},
		{"unknown store", func(c *Config) { c.Store = "sqlite" }, "unknown STORE"},
		{"mongo without uri", func(c *Config) { c.Store = "mongo" }, "MONGODB_URI"},
		{"no jwt secret", func(c *Config) { c.JWTSecret = "" }, "JWT_SECRET or JWT_KEYS"},
		{"active kid missing", func(c *Config) {
			c.JWTKeys = map[string]string{"k1": "s1"}
			c.JWTActiveKid = "k2"
		}, "JWT_ACTIVE_KID"},
		{"keys without secret", func(c *Config) {
			c.JWTSecret = ""
			c.JWTKeys = map[string]string{"k1": "s1"}
			c.JWTActiveKid = "k1"
		}, ""},
		{"no salt", func(c *Config) { c.PasswordSalt = "" }, "PASSWORD_SALT"},
		{"zero rpm", func(c *Config) { c.RateLimitRPM = 0 }, "RATE_LIMIT_RPM"},
		{"tls required without cert", func(c *Config) { c.RequireTLS = true }, "REQUIRE_TLS"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("STORE", "badger")
	t.Setenv("JWT_KEYS", "old:secret-1,new:secret-2")
	t.Setenv("JWT_ACTIVE_KID", "new")
	t.Setenv("PASSWORD_SALT", "pepper")
	t.Setenv("TOKEN_TTL", "30m")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, map[string]string{"old": "secret-1", "new": "secret-2"}, cfg.JWTKeys)
	require.Equal(t, 30*time.Minute, cfg.TokenTTL)
	require.Equal(t, 50051, cfg.Port)
	require.Equal(t, 10, cfg.RateLimitRPM)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoadConfig_DefaultsToMongo(t *testing.T) {
	unsetenv(t, "STORE")
	unsetenv(t, "MONGODB_URI")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PASSWORD_SALT", "pepper")

	_, err := LoadConfig()
	require.ErrorContains(t, err, "MONGODB_URI")
}

// unsetenv removes key for the duration of the test.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}
