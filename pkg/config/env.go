package config

import "time"

const (
	EnvPrefix = "MARKETPLACE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
	DefaultSQLiteDSN = "file:marketplace.db?_foreign_keys=on"

	DefaultTokenTTL = 7 * 24 * time.Hour
)

const (
	EnvAppEnv       = "MARKETPLACE_APP_ENV"
	EnvPort         = "MARKETPLACE_APP_PORT"
	EnvDBDSN        = "MARKETPLACE_DB_DSN"
	EnvDBHost       = "MARKETPLACE_DB_HOST"
	EnvDBUser       = "MARKETPLACE_DB_USER"
	EnvDBName       = "MARKETPLACE_DB_NAME"
	EnvDBPassword   = "MARKETPLACE_DB_PASSWORD"
	EnvRedisURL     = "MARKETPLACE_REDIS_URL"
	EnvJWTSecret    = "MARKETPLACE_JWT_SECRET"
	EnvJWTIssuer    = "MARKETPLACE_JWT_ISSUER"
	EnvJWTExpMins   = "MARKETPLACE_JWT_EXPIRATION_MINUTES"
	EnvUseSQLite    = "MARKETPLACE_USE_SQLITE"
	EnvOrdersTopic  = "MARKETPLACE_PUBSUB_ORDERS_TOPIC"
	EnvGCPProjectID = "MARKETPLACE_GCP_PROJECT_ID"
)

var splitDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
