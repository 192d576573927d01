package config

// EnvPrefix is empty because every variable carries the CHOPNOW_ prefix in
// its envconfig tag already.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "CHOPNOW_DB_DSN"
	EnvDBHost = "CHOPNOW_DB_HOST"
	EnvDBUser = "CHOPNOW_DB_USER"
	EnvDBName = "CHOPNOW_DB_NAME"

	EnvMailBranchSenders   = "CHOPNOW_MAIL_BRANCH_SENDERS"
	EnvMailBranchPasswords = "CHOPNOW_MAIL_BRANCH_PASSWORDS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
