// Package config loads tasklens settings from tasklens.yaml and TASKLENS_* environment variables.
package config

import (
	"errors"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"go.trai.ch/tasklens/internal/core/domain"
	"go.trai.ch/tasklens/internal/core/ports"
	"go.trai.ch/zerr"
)

// Loader implements ports.SettingsLoader with viper.
type Loader struct {
	logger    ports.Logger
	searchDir string
	validate  *validator.Validate
}

var _ ports.SettingsLoader = (*Loader)(nil)

// NewLoader returns a Loader that searches searchDir for tasklens.yaml when no explicit path is given.
// An empty searchDir selects the working directory.
func NewLoader(logger ports.Logger, searchDir string) *Loader {
	if searchDir == "" {
		searchDir = "."
	}
	return &Loader{
		logger:    logger,
		searchDir: searchDir,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Load reads the settings. Values come from defaults, then the settings file, then the environment.
func (l *Loader) Load(path string) (*domain.Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(domain.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(strings.TrimSuffix(domain.SettingsFileName, filepath.Ext(domain.SettingsFileName)))
		v.SetConfigType("yaml")
		v.AddConfigPath(l.searchDir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
		}
		l.logger.Debug("no settings file found, using defaults")
	} else {
		l.logger.Debug("loaded settings from " + v.ConfigFileUsed())
	}

	var settings domain.Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if used := v.ConfigFileUsed(); used != "" && !filepath.IsAbs(settings.Vault.Root) {
		settings.Vault.Root = filepath.Join(filepath.Dir(used), settings.Vault.Root)
	}

	if err := l.validate.Struct(&settings); err != nil {
		return nil, invalid(err)
	}
	return &settings, nil
}

func invalid(err error) error {
	wrapped := zerr.Wrap(err, domain.ErrConfigInvalid.Error())
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		wrapped = zerr.With(wrapped, "field", fieldErrs[0].Namespace())
		wrapped = zerr.With(wrapped, "rule", fieldErrs[0].Tag())
	}
	return wrapped
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("vault.root", ".")
	v.SetDefault("vault.config_file_name", domain.DirectoryConfigFileName)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.max_entries", domain.DefaultMaxCachedFiles)
	v.SetDefault("cache.batch_delay", domain.DefaultBatchDelay)
	v.SetDefault("cache.refresh_schedule", "")

	v.SetDefault("workers.enabled", true)
	v.SetDefault("workers.parallelism", runtime.NumCPU())
	v.SetDefault("workers.max_attempts", domain.DefaultMaxAttempts)
	v.SetDefault("workers.retry_base_delay", domain.DefaultRetryBaseDelay)
	v.SetDefault("workers.failure_threshold", domain.DefaultFailureThreshold)
	v.SetDefault("workers.cooldown", domain.DefaultBreakerCooldown)

	v.SetDefault("project.metadata_key", "project")
	v.SetDefault("project.metadata_detection", true)
	v.SetDefault("project.config_file_detection", true)
	v.SetDefault("project.default_naming.enabled", false)
	v.SetDefault("project.default_naming.strategy", "filename")
	v.SetDefault("project.default_naming.strip_extension", true)
	v.SetDefault("project.default_naming.metadata_key", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)

	v.SetDefault("metrics.address", "")
}
