package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is read from the environment, after an optional .env file.
type Config struct {
	Store           string            `envconfig:"STORE" default:"mongo"`
	MongoURI        string            `envconfig:"MONGODB_URI"`
	MongoDatabase   string            `envconfig:"MONGODB_DATABASE" default:"chat_db"`
	BadgerPath      string            `envconfig:"BADGER_PATH"` // empty: in memory
	JWTSecret       string            `envconfig:"JWT_SECRET"`
	JWTKeys         map[string]string `envconfig:"JWT_KEYS"` // kid:secret,kid2:secret2
	JWTActiveKid    string            `envconfig:"JWT_ACTIVE_KID"`
	TokenTTL        time.Duration     `envconfig:"TOKEN_TTL" default:"12h"`
	PasswordSalt    string            `envconfig:"PASSWORD_SALT"`
	Port            int               `envconfig:"PORT" default:"50051"`
	AdminPort       int               `envconfig:"ADMIN_PORT" default:"9090"`
	RateLimitRPM    int               `envconfig:"RATE_LIMIT_RPM" default:"10"`
	TLSCert         string            `envconfig:"TLS_CERT"`
	TLSKey          string            `envconfig:"TLS_KEY"`
	RequireTLS      bool              `envconfig:"REQUIRE_TLS" default:"false"`
	LogLevel        string            `envconfig:"LOG_LEVEL" default:"info"`
	ShutdownTimeout time.Duration     `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// LoadConfig loads .env when present, then processes the environment.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Validate checks the combinations envconfig cannot express.
func (c Config) Validate() error {
	switch c.Store {
	case "mongo":
		if c.MongoURI == "" {
			return errors.New("MONGODB_URI must be set when STORE=mongo")
		}
	case "badger":
	default:
		return fmt.Errorf("unknown STORE %q (want mongo or badger)", c.Store)
	}

	if len(c.JWTKeys) == 0 && c.JWTSecret == "" {
		return errors.New("either JWT_SECRET or JWT_KEYS must be set")
	}
	if len(c.JWTKeys) > 0 {
		if _, ok := c.JWTKeys[c.JWTActiveKid]; !ok {
			return fmt.Errorf("JWT_ACTIVE_KID %q is not in JWT_KEYS", c.JWTActiveKid)
		}
	}
	if c.PasswordSalt == "" {
		return errors.New("PASSWORD_SALT must be set")
	}
	if c.RateLimitRPM <= 0 {
		return errors.New("RATE_LIMIT_RPM must be positive")
	}
	if c.RequireTLS && (c.TLSCert == "" || c.TLSKey == "") {
		return errors.New("REQUIRE_TLS is true but TLS_CERT/TLS_KEY are not configured")
	}
	return nil
}
