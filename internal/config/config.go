package config

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds runtime configuration for the origination backend. Secrets are
// read once at startup and passed into components explicitly.
type Config struct {
	Addr  string `env:"ADDR,default=:8080"`
	DBDSN string `env:"DB_DSN,required"`

	SessionSecret      string        `env:"SESSION_SECRET"`
	AdminSessionSecret string        `env:"ADMIN_SESSION_SECRET"`
	SessionTTL         time.Duration `env:"SESSION_TTL,default=24h"`
	AdminSessionTTL    time.Duration `env:"ADMIN_SESSION_TTL,default=24h"`

	SignInPath     string   `env:"SIGN_IN_PATH,default=/sign-in"`
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS,default=http://localhost:3000"`
	CookieDomain   string   `env:"COOKIE_DOMAIN"`
	CookieSecure   bool     `env:"COOKIE_SECURE,default=false"`

	NATSURL    string `env:"NATS_URL"`
	SMSSubject string `env:"SMS_SUBJECT,default=lendgate.sms.otp"`

	S3Endpoint   string `env:"S3_ENDPOINT"`
	S3AccessKey  string `env:"S3_ACCESS_KEY"`
	S3SecretKey  string `env:"S3_SECRET_KEY"`
	S3Region     string `env:"S3_REGION,default=ap-south-1"`
	S3DisableTLS bool   `env:"S3_DISABLE_TLS,default=false"`
	DocsBucket   string `env:"DOCS_BUCKET,default=lendgate-kyc"`

	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// Deprecated environment names still honored for the signing secrets. Earlier
// deployments used several names for the same key; they are resolved once
// here and nowhere else.
var (
	sessionSecretAliases = []string{"AUTH_COOKIE_SECRET", "SESSION_SIGNING_KEY"}
	adminSecretAliases   = []string{"ADMIN_COOKIE_SECRET"}
)

// Load returns a Config populated from environment variables, resolving
// deprecated secret aliases to the canonical keys. Missing signing secrets
// are a hard startup failure.
func Load(ctx context.Context) (Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, err
	}

	cfg.SessionSecret = firstNonEmpty(cfg.SessionSecret, sessionSecretAliases)
	cfg.AdminSessionSecret = firstNonEmpty(cfg.AdminSessionSecret, adminSecretAliases)

	if cfg.SessionSecret == "" {
		return Config{}, errors.New("config: SESSION_SECRET is required")
	}
	if cfg.AdminSessionSecret == "" {
		return Config{}, errors.New("config: ADMIN_SESSION_SECRET is required")
	}

	return cfg, nil
}

// DocsEnabled reports whether the object-storage integration is configured.
func (c Config) DocsEnabled() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

func firstNonEmpty(value string, aliases []string) string {
	if value != "" {
		return value
	}
	for _, name := range aliases {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}
