package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port             int
	MasterSecret     string
	GinMode          string
	TLSCertFile      string
	TLSKeyFile       string
	TokenExpiry      time.Duration
	DataDir          string
	StorageBackend   string
	Namespace        string
	AssistantURL     string
	AssistantTimeout time.Duration
}

type Env interface {
	Getenv(key string) string
}

type osEnv struct{}

func (osEnv) Getenv(key string) string { return os.Getenv(key) }

func LoadConfig() (Config, error) {
	return LoadConfigFromEnv(osEnv{})
}

func LoadConfigFromEnv(env Env) (Config, error) {
	cfg := Config{
		Port:             3000,
		GinMode:          "release",
		TokenExpiry:      7 * 24 * time.Hour,
		DataDir:          "data",
		StorageBackend:   "file",
		Namespace:        "travel-vault",
		AssistantURL:     "https://toolkit.rork.com/text/llm/",
		AssistantTimeout: 90 * time.Second,
	}

	if raw := env.Getenv("PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil || port <= 0 || port > 65535 {
			return Config{}, fmt.Errorf("invalid PORT")
		}
		cfg.Port = port
	}

	cfg.MasterSecret = env.Getenv("MASTER_SECRET")
	if cfg.MasterSecret == "" {
		return Config{}, fmt.Errorf("MASTER_SECRET is required")
	}

	if raw := env.Getenv("GIN_MODE"); raw != "" {
		cfg.GinMode = raw
	}

	cfg.TLSCertFile = env.Getenv("TLS_CERT_FILE")
	cfg.TLSKeyFile = env.Getenv("TLS_KEY_FILE")

	if raw := env.Getenv("TOKEN_EXPIRY_SECONDS"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			return Config{}, fmt.Errorf("invalid TOKEN_EXPIRY_SECONDS")
		}
		cfg.TokenExpiry = time.Duration(seconds) * time.Second
	}

	if raw := env.Getenv("DATA_DIR"); raw != "" {
		cfg.DataDir = raw
	}

	if raw := env.Getenv("STORAGE_BACKEND"); raw != "" {
		if raw != "file" && raw != "sqlite" {
			return Config{}, fmt.Errorf("invalid STORAGE_BACKEND (want file or sqlite)")
		}
		cfg.StorageBackend = raw
	}

	if raw := env.Getenv("VAULT_NAMESPACE"); raw != "" {
		cfg.Namespace = raw
	}

	if raw := env.Getenv("ASSISTANT_URL"); raw != "" {
		cfg.AssistantURL = raw
	}

	if raw := env.Getenv("ASSISTANT_TIMEOUT_SECONDS"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			return Config{}, fmt.Errorf("invalid ASSISTANT_TIMEOUT_SECONDS")
		}
		cfg.AssistantTimeout = time.Duration(seconds) * time.Second
	}

	return cfg, nil
}
