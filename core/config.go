package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Env      string
		Debug    bool
		TestMode bool
		AppName  string
		Build    string

		API    APIConfig
		Server ServerConfig

		SessionFile  string
		RollbarToken string
	}

	// APIConfig configures access to the remote school-management backend.
	APIConfig struct {
		BaseURL string
		Timeout time.Duration

		// RefreshInterval is how often an authenticated session proactively
		// refreshes its access token when the token carries no readable expiry.
		RefreshInterval time.Duration
		// RefreshSkew is how long before a readable token expiry the refresh fires.
		RefreshSkew time.Duration
	}

	ServerConfig struct {
		Addr          string
		CookieName    string
		SessionMaxAge time.Duration
	}
)

// NewConfig loads the app configuration: defaults first, then an optional
// config/.env.<env> file, then environment variables.
func NewConfig() *Config {
	conf := viper.New()
	conf.SetTypeByDefaultValue(true)

	// defaults
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "Darasa")
	conf.SetDefault("build", "dev")
	conf.SetDefault("apiBaseUrl", "http://localhost:8000")
	conf.SetDefault("apiTimeout", 30*time.Second)
	conf.SetDefault("refreshInterval", 50*time.Minute)
	conf.SetDefault("refreshSkew", 5*time.Minute)
	conf.SetDefault("serverAddr", ":3000")
	conf.SetDefault("sessionCookieName", "darasa_session")
	conf.SetDefault("sessionMaxAge", 12*time.Hour)
	conf.SetDefault("sessionFile", defaultSessionFile())
	conf.SetDefault("rollbarToken", "")

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		Env:      env,
		Debug:    conf.GetBool("debug"),
		TestMode: conf.GetBool("testMode"),
		AppName:  conf.GetString("appName"),
		Build:    conf.GetString("build"),
		API: APIConfig{
			BaseURL:         conf.GetString("apiBaseUrl"),
			Timeout:         conf.GetDuration("apiTimeout"),
			RefreshInterval: conf.GetDuration("refreshInterval"),
			RefreshSkew:     conf.GetDuration("refreshSkew"),
		},
		Server: ServerConfig{
			Addr:          conf.GetString("serverAddr"),
			CookieName:    conf.GetString("sessionCookieName"),
			SessionMaxAge: conf.GetDuration("sessionMaxAge"),
		},
		SessionFile:  conf.GetString("sessionFile"),
		RollbarToken: conf.GetString("rollbarToken"),
	}
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "" // degrades to an in-memory session
	}
	return filepath.Join(dir, "darasa", "session.json")
}
