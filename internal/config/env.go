package config

import (
	"errors"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

// Env holds process-level settings: the project file configures the
// domain, the environment configures the deployment.
type Env struct {
	Addr          string `envconfig:"APP_ADDR" default:":8080"`
	Password      string `envconfig:"APP_PASSWORD"`
	SessionSecret string `envconfig:"SESSION_SECRET"`
	GeminiAPIKey  string `envconfig:"GEMINI_API_KEY"`
	GotenbergURL  string `envconfig:"GOTENBERG_URL"`
	LogFormat     string `envconfig:"LOG_FORMAT" default:"text"`
	LogLevel      string `envconfig:"LOG_LEVEL" default:"info"`
	FrontendURL   string `envconfig:"FRONTEND_URL"`
}

// LoadEnv reads configuration from environment variables, loading a
// .env file first when one exists.
func LoadEnv() (Env, error) {
	godotenv.Load()

	var env Env
	if err := envconfig.Process("", &env); err != nil {
		return Env{}, fmt.Errorf("reading environment: %w", err)
	}
	return env, nil
}

// CheckServe validates the settings the HTTP server cannot run
// without. Ingest-only commands skip this.
func (e Env) CheckServe() error {
	if e.Password == "" {
		return errors.New("APP_PASSWORD must be set to serve")
	}
	if e.SessionSecret == "" {
		return errors.New("SESSION_SECRET must be set to serve")
	}
	return nil
}

// NewLogger builds the shared logger from LOG_FORMAT and LOG_LEVEL.
// Unknown levels keep the logrus default.
func (e Env) NewLogger() *logrus.Logger {
	log := logrus.New()
	if e.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	if lvl, err := logrus.ParseLevel(e.LogLevel); err == nil {
		log.SetLevel(lvl)
	}
	return log
}
