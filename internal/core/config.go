package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/valter-silva-au/trello-sankey/pkg/models"
)

// DefaultBaseURL is the Trello REST API root used when no override is
// configured.
const DefaultBaseURL = "https://api.trello.com/1"

// stageConfigFile is the optional stage vocabulary file under the base path.
const stageConfigFile = "stages.yaml"

// ErrMissingCredentials is returned when neither the config file nor the
// environment provides a Trello API key and token.
var ErrMissingCredentials = errors.New(
	"missing Trello credentials: set TRELLO_API_KEY and TRELLO_TOKEN, or api_key and token in .trellosankey")

// ConfigurationManager loads Trello credentials and the stage vocabulary.
type ConfigurationManager interface {
	LoadGlobalConfig() (*models.GlobalConfig, error)
	LoadStageConfig() (models.StageConfig, error)
}

// viperConfigManager implements ConfigurationManager using Viper for the
// .trellosankey YAML file, with environment variables taking precedence.
type viperConfigManager struct {
	basePath string
}

// NewConfigurationManager creates a ConfigurationManager that reads
// configuration files relative to basePath.
func NewConfigurationManager(basePath string) ConfigurationManager {
	return &viperConfigManager{basePath: basePath}
}

// LoadGlobalConfig reads the .trellosankey file from the base path, applies
// TRELLO_API_KEY / TRELLO_TOKEN / TRELLO_BASE_URL overrides, and validates
// that credentials are present.
func (cm *viperConfigManager) LoadGlobalConfig() (*models.GlobalConfig, error) {
	v := viper.New()
	v.SetConfigName(".trellosankey")
	v.SetConfigType("yaml")
	v.AddConfigPath(cm.basePath)

	v.SetDefault("base_url", DefaultBaseURL)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading .trellosankey: %w", err)
		}
		// No config file is fine as long as the environment is set.
	}

	cfg := &models.GlobalConfig{
		APIKey:  v.GetString("api_key"),
		Token:   v.GetString("token"),
		BaseURL: v.GetString("base_url"),
	}

	if key := os.Getenv("TRELLO_API_KEY"); key != "" {
		cfg.APIKey = key
	}
	if token := os.Getenv("TRELLO_TOKEN"); token != "" {
		cfg.Token = token
	}
	if base := os.Getenv("TRELLO_BASE_URL"); base != "" {
		cfg.BaseURL = base
	}

	if cfg.APIKey == "" || cfg.Token == "" {
		return nil, ErrMissingCredentials
	}

	return cfg, nil
}

// LoadStageConfig reads stages.yaml from the base path. A missing file
// returns the built-in job-board defaults; a present file replaces only the
// sections it sets.
func (cm *viperConfigManager) LoadStageConfig() (models.StageConfig, error) {
	cfg := models.DefaultStageConfig()

	data, err := os.ReadFile(filepath.Join(cm.basePath, stageConfigFile))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return models.StageConfig{}, fmt.Errorf("reading %s: %w", stageConfigFile, err)
	}

	var overrides models.StageConfig
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return models.StageConfig{}, fmt.Errorf("parsing %s: %w", stageConfigFile, err)
	}

	if len(overrides.PipelineStages) > 0 {
		cfg.PipelineStages = overrides.PipelineStages
	}
	if len(overrides.TerminalStages) > 0 {
		cfg.TerminalStages = overrides.TerminalStages
	}
	if len(overrides.Rules) > 0 {
		cfg.Rules = overrides.Rules
	}
	if len(overrides.Ranks) > 0 {
		cfg.Ranks = overrides.Ranks
	}
	if overrides.FallbackRank != 0 {
		cfg.FallbackRank = overrides.FallbackRank
	}
	if len(overrides.Colors) > 0 {
		cfg.Colors = overrides.Colors
	}

	return cfg, nil
}
