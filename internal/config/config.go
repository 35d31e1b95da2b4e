package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	StorageDriverDynamoDB = "dynamodb"
	StorageDriverMemory   = "memory"

	FiscalModeHomologation = "homologation"
	FiscalModeProduction   = "production"
)

type Config struct {
	App       AppConfig
	Storage   StorageConfig
	DynamoDB  DynamoDBConfig
	Redis     RedisConfig
	RabbitMQ  RabbitMQConfig
	Payments  PaymentsConfig
	Fiscal    FiscalConfig
	Retry     RetryConfig
	Auth      AuthConfig
	Scheduler SchedulerConfig
}

// Load reads the process environment. Call it after .env autoload.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch strings.ToLower(c.Storage.Driver) {
	case StorageDriverDynamoDB, StorageDriverMemory:
	default:
		return fmt.Errorf("invalid STORAGE_DRIVER %q", c.Storage.Driver)
	}
	switch strings.ToLower(c.Fiscal.Mode) {
	case FiscalModeHomologation, FiscalModeProduction:
	default:
		return fmt.Errorf("invalid FISCAL_MODE %q", c.Fiscal.Mode)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("RETRY_MAX_ATTEMPTS must be >= 1")
	}
	if c.Fiscal.Workers < 1 {
		return fmt.Errorf("FISCAL_WORKERS must be >= 1")
	}
	return nil
}

type AppConfig struct {
	Name         string `envconfig:"APP_NAME" default:"checkout-service"`
	Port         string `envconfig:"APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"LOG_WARN_STACK" default:"false"`

	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`
}

type StorageConfig struct {
	Driver string `envconfig:"STORAGE_DRIVER" default:"dynamodb"`
	// CatalogSeedFile is a JSON file of offerings and coupons loaded into the
	// in-memory catalog.
	CatalogSeedFile string `envconfig:"CATALOG_SEED_FILE"`
}

func (s StorageConfig) InMemory() bool {
	return strings.EqualFold(s.Driver, StorageDriverMemory)
}

type DynamoDBConfig struct {
	Region              string `envconfig:"AWS_REGION" default:"us-east-1"`
	AccessKeyID         string `envconfig:"AWS_ACCESS_KEY_ID" default:"local"`
	SecretAccessKey     string `envconfig:"AWS_SECRET_ACCESS_KEY" default:"local"`
	Endpoint            string `envconfig:"DYNAMODB_ENDPOINT"`
	PaymentIntentsTable string `envconfig:"PAYMENT_INTENTS_TABLE" default:"payment_intents"`
	LedgerEntriesTable  string `envconfig:"LEDGER_ENTRIES_TABLE" default:"ledger_entries"`
	EnrollmentsTable    string `envconfig:"ENROLLMENTS_TABLE" default:"enrollments"`
	FiscalInvoicesTable string `envconfig:"FISCAL_INVOICES_TABLE" default:"fiscal_invoices"`
	PurchasesTable      string `envconfig:"PURCHASES_TABLE" default:"purchases"`
	OfferingsTable      string `envconfig:"OFFERINGS_TABLE" default:"offerings"`
	CouponsTable        string `envconfig:"COUPONS_TABLE" default:"coupons"`
}

type RedisConfig struct {
	URL       string `envconfig:"REDIS_URL"`
	KeyPrefix string `envconfig:"REDIS_KEY_PREFIX" default:"checkout"`
}

type RabbitMQConfig struct {
	URL      string `envconfig:"RABBITMQ_URL"`
	Exchange string `envconfig:"RABBITMQ_EXCHANGE" default:"checkout.events"`
}

type PaymentsConfig struct {
	AccessToken       string        `envconfig:"MERCADOPAGO_ACCESS_TOKEN"`
	Mock              string        `envconfig:"PAYMENT_GATEWAY_MOCK"`
	NotificationURL   string        `envconfig:"MERCADOPAGO_NOTIFICATION_URL"`
	PixExpiration     time.Duration `envconfig:"PIX_EXPIRATION" default:"30m"`
	BoletoDueDays     int           `envconfig:"BOLETO_DUE_DAYS" default:"3"`
	IntentDedupWindow time.Duration `envconfig:"INTENT_DEDUP_WINDOW" default:"30m"`
}

// MockEnabled accepts the same truthy spellings as the gateway env switch.
func (p PaymentsConfig) MockEnabled() bool {
	switch strings.ToLower(strings.TrimSpace(p.Mock)) {
	case "1", "true", "yes", "on", "mock":
		return true
	}
	return false
}

type FiscalConfig struct {
	Mode             string        `envconfig:"FISCAL_MODE" default:"homologation"`
	HomologationURL  string        `envconfig:"FISCAL_HOMOLOGATION_URL" default:"https://homologacao.nfse.example.gov.br/api/v1"`
	ProductionURL    string        `envconfig:"FISCAL_PRODUCTION_URL" default:"https://nfse.example.gov.br/api/v1"`
	APIToken         string        `envconfig:"FISCAL_API_TOKEN"`
	CertPath         string        `envconfig:"FISCAL_CERT_PATH"`
	CertPassword     string        `envconfig:"FISCAL_CERT_PASSWORD"`
	RequestTimeout   time.Duration `envconfig:"FISCAL_REQUEST_TIMEOUT" default:"15s"`
	SubmissionWindow time.Duration `envconfig:"FISCAL_SUBMISSION_WINDOW" default:"24h"`
	Workers          int           `envconfig:"FISCAL_WORKERS" default:"4"`
	QueueSize        int           `envconfig:"FISCAL_QUEUE_SIZE" default:"128"`
}

type RetryConfig struct {
	MaxAttempts uint64        `envconfig:"RETRY_MAX_ATTEMPTS" default:"3"`
	BaseDelay   time.Duration `envconfig:"RETRY_BASE_DELAY" default:"200ms"`
	MaxDelay    time.Duration `envconfig:"RETRY_MAX_DELAY" default:"5s"`
}

type AuthConfig struct {
	JWTSecret string   `envconfig:"JWT_SECRET"`
	JWTIssuer string   `envconfig:"JWT_ISSUER"`
	AdminRole []string `envconfig:"ADMIN_ROLES" default:"admin,financeiro"`
}

type SchedulerConfig struct {
	ExpireIntentsSpec   string        `envconfig:"CRON_EXPIRE_INTENTS" default:"@every 1m"`
	RetryInvoicesSpec   string        `envconfig:"CRON_RETRY_INVOICES" default:"@every 5m"`
	PollInvoicesSpec    string        `envconfig:"CRON_POLL_INVOICES" default:"@every 2m"`
	ResumePurchasesSpec string        `envconfig:"CRON_RESUME_PURCHASES" default:"@every 10m"`
	ResumeStaleAfter    time.Duration `envconfig:"RESUME_STALE_AFTER" default:"5m"`
	BatchSize           int32         `envconfig:"SCHEDULER_BATCH_SIZE" default:"100"`
	// Embedded runs the jobs inside the API process instead of cmd/scheduler.
	Embedded   bool          `envconfig:"SCHEDULER_EMBEDDED" default:"false"`
	LockTTL    time.Duration `envconfig:"SCHEDULER_LOCK_TTL" default:"5m"`
	JobTimeout time.Duration `envconfig:"SCHEDULER_JOB_TIMEOUT" default:"5m"`
}
