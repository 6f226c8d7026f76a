package config

const (
	EnvPrefix = "AUTOSHOP"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
	DefaultSQLiteDSN = "file:autoshop.db?_foreign_keys=on"

	EnvAppEnv         = "AUTOSHOP_APP_ENV"
	EnvPort           = "AUTOSHOP_APP_PORT"
	EnvDBDSN          = "AUTOSHOP_DB_DSN"
	EnvDBDriver       = "AUTOSHOP_DB_DRIVER"
	EnvDBHost         = "AUTOSHOP_DB_HOST"
	EnvDBUser         = "AUTOSHOP_DB_USER"
	EnvDBName         = "AUTOSHOP_DB_NAME"
	EnvRedisURL       = "AUTOSHOP_REDIS_URL"
	EnvRestorePolicy  = "AUTOSHOP_INVENTORY_RESTORE_POLICY"
	EnvReconcileRate  = "AUTOSHOP_RECONCILE_INTERVAL"
	EnvInventoryTopic = "AUTOSHOP_PUBSUB_INVENTORY_TOPIC"
	EnvCORSOrigins    = "AUTOSHOP_CORS_ALLOWED_ORIGINS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
