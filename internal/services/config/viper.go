package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabrielcapilla/songdash/internal/domain"
	"github.com/gabrielcapilla/songdash/internal/logger"
	"github.com/gabrielcapilla/songdash/internal/ports"

	"github.com/spf13/viper"
)

const (
	DefaultBaseURL = "http://localhost:8080/api/v1"
	appDirName     = "songdash"
)

type ViperConfigService struct {
	v *viper.Viper
}

// NewViperConfigService looks for config.yml in dir. An empty dir means the
// user config directory, with the current directory as a second choice.
func NewViperConfigService(dir string) ports.ConfigService {
	v := viper.New()

	dataDir := dir
	if dataDir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			logger.Log.Warn().Err(err).Msg("Could not find user config directory, using current directory")
			dataDir = "."
		} else {
			dataDir = filepath.Join(configDir, appDirName)
		}
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		logger.Log.Error().Err(err).Msg("Could not create songdash config directory")
	} else {
		v.AddConfigPath(dataDir)
	}

	v.SetConfigName("config")
	v.SetConfigType("yml")
	if dir == "" {
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("SONGDASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("baseURL", DefaultBaseURL)
	v.SetDefault("timeout", "10s")
	v.SetDefault("dbPath", filepath.Join(dataDir, "songdash.db"))
	v.SetDefault("historyLimit", 20)
	v.SetDefault("logLevel", "info")
	v.SetDefault("search.responseShape", string(domain.ResponseShapeObject))

	return &ViperConfigService{v: v}
}

func (s *ViperConfigService) Load() (domain.Config, error) {
	var cfg domain.Config

	if err := s.v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			logger.Log.Info().Msg("Config file not found, creating with default values.")
			if err := s.v.SafeWriteConfig(); err != nil {
				logger.Log.Warn().Err(err).Msg("Could not write default config file")
			}
		} else {
			return cfg, err
		}
	}

	if err := s.v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}

	switch cfg.Search.ResponseShape {
	case domain.ResponseShapeObject, domain.ResponseShapeArray:
	default:
		return cfg, fmt.Errorf("invalid search.responseShape %q: must be %q or %q",
			cfg.Search.ResponseShape, domain.ResponseShapeObject, domain.ResponseShapeArray)
	}
	if cfg.HistoryLimit < 0 {
		return cfg, fmt.Errorf("invalid historyLimit %d: must not be negative", cfg.HistoryLimit)
	}
	if cfg.BaseURL == "" {
		return cfg, errors.New("baseURL must not be empty")
	}

	return cfg, nil
}

// Set overrides a key for this process only, e.g. from a command-line flag.
func (s *ViperConfigService) Set(key string, value any) {
	s.v.Set(key, value)
}
