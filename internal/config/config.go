package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"    validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"  validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// SchedulerConfig contains the tunables of the schedule generation
// algorithm: the revision cycle length and its extension bound, the
// quality threshold that triggers the extension, the weekly special
// insertion, the snapshot sort policy, and the tenant used when a
// request does not name one.
type SchedulerConfig struct {
	TargetCycleDays  int     `mapstructure:"target_cycle_days" validate:"required,gte=1"`
	MaxCycleDays     int     `mapstructure:"max_cycle_days"    validate:"required,gte=1"`
	QualityThreshold float64 `mapstructure:"quality_threshold" validate:"gte=0,lte=1"`
	SpecialChapter   int     `mapstructure:"special_chapter"   validate:"required,gte=1"`
	SpecialWeekday   string  `mapstructure:"special_weekday"   validate:"required,oneof=Sunday Monday Tuesday Wednesday Thursday Friday Saturday"`
	SortPolicy       string  `mapstructure:"sort_policy"       validate:"required,oneof=sequential recency"`
	DefaultTenant    string  `mapstructure:"default_tenant"    validate:"required"`
}
