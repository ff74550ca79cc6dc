package domain

import "time"

// Settings is the tasklens runtime configuration.
type Settings struct {
	Vault   VaultSettings   `mapstructure:"vault"`
	Cache   CacheSettings   `mapstructure:"cache"`
	Workers WorkerSettings  `mapstructure:"workers"`
	Project ProjectSettings `mapstructure:"project"`
	Log     LogSettings     `mapstructure:"log"`
	Metrics MetricsSettings `mapstructure:"metrics"`
}

// VaultSettings locate the vault on disk.
type VaultSettings struct {
	Root           string `mapstructure:"root" validate:"required"`
	ConfigFileName string `mapstructure:"config_file_name" validate:"required"`
}

// CacheSettings tune the derived-data cache.
type CacheSettings struct {
	Enabled    bool          `mapstructure:"enabled"`
	MaxEntries int           `mapstructure:"max_entries" validate:"gt=0"`
	BatchDelay time.Duration `mapstructure:"batch_delay" validate:"gt=0"`
	// RefreshSchedule is a cron spec for stale-entry refreshes in watch mode. Empty disables it.
	RefreshSchedule string `mapstructure:"refresh_schedule"`
}

// WorkerSettings tune the worker pool and the orchestrator's resilience policy.
type WorkerSettings struct {
	Enabled          bool          `mapstructure:"enabled"`
	Parallelism      int           `mapstructure:"parallelism" validate:"gt=0"`
	MaxAttempts      int           `mapstructure:"max_attempts" validate:"gte=1"`
	RetryBaseDelay   time.Duration `mapstructure:"retry_base_delay" validate:"gte=0"`
	FailureThreshold int           `mapstructure:"failure_threshold" validate:"gt=0"`
	Cooldown         time.Duration `mapstructure:"cooldown" validate:"gt=0"`
}

// ProjectSettings configure project detection.
type ProjectSettings struct {
	// MetadataKey is the front-matter property holding a file's project.
	MetadataKey         string            `mapstructure:"metadata_key"`
	MetadataDetection   bool              `mapstructure:"metadata_detection"`
	ConfigFileDetection bool              `mapstructure:"config_file_detection"`
	PathMappings        []PathMapping     `mapstructure:"path_mappings" validate:"dive"`
	DetectionMethods    []DetectionMethod `mapstructure:"detection_methods" validate:"dive"`
	MetadataMappings    []MetadataMapping `mapstructure:"metadata_mappings" validate:"dive"`
	DefaultNaming       DefaultNaming     `mapstructure:"default_naming"`
}

// PathMapping assigns Project to files whose path matches Pattern.
// Patterns containing * or ? are globs, others match as substrings.
type PathMapping struct {
	Pattern string `mapstructure:"pattern" validate:"required"`
	Project string `mapstructure:"project" validate:"required"`
	Enabled bool   `mapstructure:"enabled"`
}

// DetectionMethod is an additional project detection strategy.
type DetectionMethod struct {
	// Type is "metadata", "tag" or "link".
	Type        string `mapstructure:"type" validate:"oneof=metadata tag link"`
	PropertyKey string `mapstructure:"property_key" validate:"required_unless=Type link"`
	// LinkFilter selects links containing this text. Link methods without a filter
	// only consider links mentioned in the PropertyKey front-matter value.
	LinkFilter string `mapstructure:"link_filter"`
	Enabled    bool   `mapstructure:"enabled"`
}

// MetadataMapping copies SourceKey to TargetKey, converting dates and priorities.
type MetadataMapping struct {
	SourceKey string `mapstructure:"source_key" validate:"required"`
	TargetKey string `mapstructure:"target_key" validate:"required"`
	Enabled   bool   `mapstructure:"enabled"`
}

// DefaultNaming names a project when no other strategy matched.
type DefaultNaming struct {
	Enabled bool `mapstructure:"enabled"`
	// Strategy is "filename", "foldername" or "metadata".
	Strategy       string `mapstructure:"strategy" validate:"omitempty,oneof=filename foldername metadata"`
	StripExtension bool   `mapstructure:"strip_extension"`
	MetadataKey    string `mapstructure:"metadata_key"`
}

// LogSettings configure the logger.
type LogSettings struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// MetricsSettings configure the Prometheus endpoint served in watch mode.
type MetricsSettings struct {
	// Address is empty when metrics are not served.
	Address string `mapstructure:"address"`
}
