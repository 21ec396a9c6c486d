// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

const (
	AppName    = "FlowMind Core API"
	AppVersion = "0.1.0"
)

var (
	configPath     = pflag.String("config", ".", "Directory to search for config.toml in")
	validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}
)

// Config is built once by Setup and handed to every component that
// needs it. Nothing reads viper after startup.
type Config struct {
	LogLevel string
	Env      string

	Port        int
	CORSOrigins []string

	DatabaseURL string

	JWTSecret string
	TokenTTL  time.Duration

	CodeLength     int
	CodeTTL        time.Duration
	ResendCooldown time.Duration

	MailHost     string
	MailPort     int
	MailSender   string
	MailPassword string
}

// MailConfigured reports whether the SMTP credentials are complete.
// An incomplete set puts the mailer into log-only mode instead of
// failing startup.
func (c *Config) MailConfigured() bool {
	return c.MailHost != "" && c.MailSender != "" && c.MailPassword != ""
}

func genSecret() string {
	b := make([]byte, 64)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() (*Config, error) {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(*configPath)

	v.AutomaticEnv()

	//
	// ENVS
	//
	v.BindEnv("app.log_level", "app_log_level")
	v.BindEnv("app.env", "app_env")

	v.BindEnv("host.port", "host_port")
	v.BindEnv("host.cors_origins", "host_cors_origins")

	v.BindEnv("db.url", "db_url")

	v.BindEnv("security.jwt_secret", "security_jwt_secret")
	v.BindEnv("security.token_ttl", "security_token_ttl")

	v.BindEnv("verification.code_length", "verification_code_length")
	v.BindEnv("verification.code_ttl", "verification_code_ttl")
	v.BindEnv("verification.resend_cooldown", "verification_resend_cooldown")

	v.BindEnv("mail.host", "mail_host")
	v.BindEnv("mail.port", "mail_port")
	v.BindEnv("mail.sender", "mail_sender")
	v.BindEnv("mail.password", "mail_password")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.env", "development")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.cors_origins", []string{"http://localhost:5173"})

	v.SetDefault("db.url", "data/flowmind.db")

	v.SetDefault("security.token_ttl", "720h")

	v.SetDefault("verification.code_length", 6)
	v.SetDefault("verification.code_ttl", "15m")
	v.SetDefault("verification.resend_cooldown", "60s")

	v.SetDefault("mail.port", 587)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(v.ConfigFileNotFoundError); ok {
			return nil, errors.New("config.toml file is missing")
		}

		return nil, fmt.Errorf("failed to read config file, %w", err)
	}

	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return nil, errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return nil, errors.New("invalid port provided")
	}

	if v.GetString("db.url") == "" {
		return nil, errors.New("db.url can't be empty")
	}

	if v.GetString("security.jwt_secret") == "" {
		fmt.Println("WARNING: You haven't set a JWT secret, so it has been generated for you. Please set it as an environment variable or in the config.toml file.\nYour random JWT secret:\n\n" + genSecret() + "\n\nPaste it into your config.toml file.")
		os.Exit(0)
	}

	if v.GetDuration("security.token_ttl") <= 0 {
		return nil, errors.New("security.token_ttl must be bigger than 0")
	}

	if v.GetInt("verification.code_length") < 4 || v.GetInt("verification.code_length") > 10 {
		return nil, errors.New("verification.code_length must be between 4 and 10")
	}

	if v.GetDuration("verification.code_ttl") <= 0 {
		return nil, errors.New("verification.code_ttl must be bigger than 0")
	}

	if !v.IsSet("mail.host") || !v.IsSet("mail.sender") || !v.IsSet("mail.password") {
		fmt.Println("[WARNING]: Mail credentials are incomplete. Verification mails will only be logged, not delivered")
	}

	return &Config{
		LogLevel: v.GetString("app.log_level"),
		Env:      v.GetString("app.env"),

		Port:        v.GetInt("host.port"),
		CORSOrigins: v.GetStringSlice("host.cors_origins"),

		DatabaseURL: v.GetString("db.url"),

		JWTSecret: v.GetString("security.jwt_secret"),
		TokenTTL:  v.GetDuration("security.token_ttl"),

		CodeLength:     v.GetInt("verification.code_length"),
		CodeTTL:        v.GetDuration("verification.code_ttl"),
		ResendCooldown: v.GetDuration("verification.resend_cooldown"),

		MailHost:     v.GetString("mail.host"),
		MailPort:     v.GetInt("mail.port"),
		MailSender:   v.GetString("mail.sender"),
		MailPassword: v.GetString("mail.password"),
	}, nil
}
