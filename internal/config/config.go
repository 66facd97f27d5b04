package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"    validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"  validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth"      validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" validate:"required"`
}

// ServerConfig contains all HTTP server settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// SchedulerConfig contains settings for the cron-triggered batch
// orchestrators. CronSecret is the shared secret the external trigger must
// present in the X-Cron-Secret header; it is loaded once at startup and never
// mutated at runtime. BatchSize bounds how many items one invocation
// processes; anything beyond the cap is picked up by the next trigger.
type SchedulerConfig struct {
	CronSecret string `mapstructure:"cron_secret" validate:"required,min=16"`
	BatchSize  int    `mapstructure:"batch_size"  validate:"required,gt=0"`
}
