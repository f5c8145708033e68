package config

const EnvPrefix = "CAFEPOS"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv   = "CAFEPOS_APP_ENV"
	EnvPort     = "CAFEPOS_APP_PORT"
	EnvLogLevel = "CAFEPOS_LOG_LEVEL"
	EnvTimezone = "CAFEPOS_TIMEZONE"

	EnvDBDSN    = "CAFEPOS_DB_DSN"
	EnvDBDriver = "CAFEPOS_DB_DRIVER"
	EnvDBHost   = "CAFEPOS_DB_HOST"
	EnvDBPort   = "CAFEPOS_DB_PORT"
	EnvDBUser   = "CAFEPOS_DB_USER"
	EnvDBPass   = "CAFEPOS_DB_PASSWORD"
	EnvDBName   = "CAFEPOS_DB_NAME"

	EnvRedisURL = "CAFEPOS_REDIS_URL"

	EnvCORSOrigins = "CAFEPOS_CORS_ORIGINS"
	EnvUploadsDir  = "CAFEPOS_UPLOADS_DIR"
	EnvMaxUploadMB = "CAFEPOS_MAX_UPLOAD_MB"
	EnvAutoMigrate = "CAFEPOS_AUTO_MIGRATE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
