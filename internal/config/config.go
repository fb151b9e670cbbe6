package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"

	DBDriverPostgres = "postgres"
	DBDriverPgx      = "pgx"
)

type Config struct {
	PostgresAddress  string
	PostgresPort     string
	PostgresDB       string
	PostgresUsername string
	PostgresPassword string

	// StorageDriver selects the ledger store: postgres or memory.
	StorageDriver string
	// DBDriver is the database/sql driver used for postgres: postgres (lib/pq) or pgx.
	DBDriver string
	HTTPPort string
	LogLevel string

	AccountRuleCacheTTL    time.Duration
	DefaultCurrency        string
	AutoAccountBankName    string
	OperatorWorkers        int
	ClassifierKeywordsFile string
}

// ConnectionString returns the postgres URL for the configured database.
func (c *Config) ConnectionString() string {
	return "postgres://" + c.PostgresUsername + ":" +
		c.PostgresPassword + "@" + c.PostgresAddress + ":" +
		c.PostgresPort + "/" + c.PostgresDB + "?sslmode=disable"
}

func ProcessEnvironmentVariables() (*Config, error) {
	// In all cases the default behavior should be for the docker compose setup
	env := Config{
		PostgresAddress:     "localhost",
		PostgresPort:        "5433",
		PostgresDB:          "postgres",
		PostgresUsername:    "postgres",
		PostgresPassword:    "testpassword",
		StorageDriver:       StorageDriverPostgres,
		DBDriver:            DBDriverPostgres,
		HTTPPort:            "9446",
		AccountRuleCacheTTL: 5 * time.Minute,
		DefaultCurrency:     "PLN",
		AutoAccountBankName: "Import Automatyczny",
		OperatorWorkers:     1,
	}

	setString(&env.PostgresAddress, "POSTGRES_ADDRESS")
	setString(&env.PostgresPort, "POSTGRES_PORT")
	setString(&env.PostgresDB, "POSTGRES_DB")
	setString(&env.PostgresUsername, "POSTGRES_USERNAME")
	setString(&env.PostgresPassword, "POSTGRES_PASSWORD")
	setString(&env.StorageDriver, "STORAGE_DRIVER")
	setString(&env.DBDriver, "DB_DRIVER")
	setString(&env.HTTPPort, "HTTP_PORT")
	setString(&env.LogLevel, "LOG_LEVEL")
	setString(&env.DefaultCurrency, "DEFAULT_CURRENCY")
	setString(&env.AutoAccountBankName, "AUTO_ACCOUNT_BANK_NAME")
	setString(&env.ClassifierKeywordsFile, "CLASSIFIER_KEYWORDS_FILE")

	if v := os.Getenv("ACCOUNT_RULE_CACHE_TTL"); len(v) != 0 {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("ACCOUNT_RULE_CACHE_TTL: %w", err)
		}
		env.AccountRuleCacheTTL = ttl
	}

	if v := os.Getenv("OPERATOR_WORKERS"); len(v) != 0 {
		workers, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("OPERATOR_WORKERS: %w", err)
		}
		env.OperatorWorkers = workers
	}

	switch env.StorageDriver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		return nil, fmt.Errorf("STORAGE_DRIVER: unknown driver %q", env.StorageDriver)
	}

	switch env.DBDriver {
	case DBDriverPostgres, DBDriverPgx:
	default:
		return nil, fmt.Errorf("DB_DRIVER: unknown driver %q", env.DBDriver)
	}

	return &env, nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); len(v) != 0 {
		*dst = v
	}
}
