package app

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/troias/tradematey/internal/admin/mailer"
)

type Config struct {
	Env       string `env:"ENV"        env-default:"dev"`
	LogLevel  string `env:"LOG_LEVEL"  env-default:"info"`
	LogFormat string `env:"LOG_FORMAT" env-default:"json"`

	Port                int           `env:"PORT"                  env-default:"8080"`
	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" env-default:"10s"`

	DatabaseFile string `env:"ADMIN_DATABASE_FILE" env-default:"admin.db"`

	// SessionSecret verifies marketplace session tokens. Required: without it
	// every privileged endpoint would reject all callers.
	SessionSecret string `env:"SESSION_SECRET"`

	MailProvider string `env:"MAIL_PROVIDER"     env-default:"noop"`
	MailFrom     string `env:"MAIL_FROM_ADDRESS" env-default:"invites@tradematey.example"`
	MailFromName string `env:"MAIL_FROM_NAME"    env-default:"TradeMatey"`

	AWSRegion          string `env:"AWS_REGION" env-default:"ap-southeast-2"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
}

// LoadConfig reads configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}

	if cfg.SessionSecret == "" {
		return Config{}, fmt.Errorf("SESSION_SECRET is required")
	}

	return cfg, nil
}

// MailerConfig maps the flat environment settings onto the mailer's config.
func (c Config) MailerConfig() mailer.Config {
	return mailer.Config{
		Provider:    c.MailProvider,
		FromAddress: c.MailFrom,
		FromName:    c.MailFromName,
		SES: mailer.SESConfig{
			Region:          c.AWSRegion,
			AccessKeyID:     c.AWSAccessKeyID,
			SecretAccessKey: c.AWSSecretAccessKey,
		},
	}
}
