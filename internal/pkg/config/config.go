package config

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/ManuelReschke/LinkFox/internal/pkg/env"
)

// ErrMissingConfig is returned when a required environment variable is unset.
var ErrMissingConfig = errors.New("missing required configuration")

// Section names a group of settings a process can require.
type Section string

const (
	SectionApp         Section = "app"
	SectionDatabase    Section = "database"
	SectionCache       Section = "cache"
	SectionStripe      Section = "stripe"
	SectionQueue       Section = "queue"
	SectionReconciler  Section = "reconciler"
	SectionCredentials Section = "credentials"
	SectionArchive     Section = "archive"
)

const (
	ClaimModeSelectUpdate = "select_update"
	ClaimModeAtomic       = "atomic"

	TransportQueue = "queue"
	TransportHTTP  = "http"
)

type AppConfig struct {
	Env             string `env:"APP_ENV"`
	Host            string `env:"APP_HOST" validate:"required"`
	Port            string `env:"APP_PORT" validate:"required,numeric"`
	ServiceRoleKey  string `env:"SERVICE_ROLE_KEY" validate:"required,min=16"`
	MetricsUser     string `env:"METRICS_USER"`
	MetricsPassword string `env:"METRICS_PASSWORD"`
}

type DatabaseConfig struct {
	Host     string `env:"DB_HOST" validate:"required"`
	Port     string `env:"DB_PORT" validate:"required,numeric"`
	User     string `env:"DB_USER" validate:"required"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME" validate:"required"`
}

type CacheConfig struct {
	Host     string `env:"CACHE_HOST" validate:"required"`
	Port     string `env:"CACHE_PORT" validate:"required,numeric"`
	Password string `env:"CACHE_PASSWORD"`
}

type StripeConfig struct {
	SecretKey       string `env:"STRIPE_SECRET_KEY" validate:"required"`
	SetupSuccessURL string `env:"STRIPE_SETUP_SUCCESS_URL" validate:"required,url"`
	SetupCancelURL  string `env:"STRIPE_SETUP_CANCEL_URL" validate:"required,url"`
}

// QueueConfig covers both work-queue handlers and the worker transport.
type QueueConfig struct {
	EnrichmentBatchSize     int    `env:"ENRICHMENT_BATCH_SIZE" validate:"min=1"`
	BacklinkReviewBatchSize int    `env:"BACKLINK_REVIEW_BATCH_SIZE" validate:"min=1"`
	ClaimMode               string `env:"QUEUE_CLAIM_MODE" validate:"oneof=select_update atomic"`
	DispatchConcurrency     int    `env:"QUEUE_DISPATCH_CONCURRENCY" validate:"min=1"`
	WorkerCount             int    `env:"QUEUE_WORKER_COUNT" validate:"min=1"`
	ScheduleIntervalMinutes int    `env:"QUEUE_SCHEDULE_INTERVAL_MINUTES" validate:"min=0"`
	Transport               string `env:"WORKER_TRANSPORT" validate:"oneof=queue http"`
	FunctionsBaseURL        string `env:"FUNCTIONS_BASE_URL" validate:"required_if=Transport http"`
}

type ReconcilerConfig struct {
	PageSize   int    `env:"RECONCILE_PAGE_SIZE" validate:"min=1,max=100"`
	OutputPath string `env:"RECONCILE_OUTPUT" validate:"required"`
}

type CredentialsConfig struct {
	EncryptionKey string `env:"CREDENTIALS_ENCRYPTION_KEY" validate:"required,len=64,hexadecimal"`
}

type ArchiveConfig struct {
	Enabled         bool   `env:"AUDIT_ARCHIVE_ENABLED"`
	AccessKeyID     string `env:"S3_ACCESS_KEY_ID" validate:"required_if=Enabled true"`
	SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY" validate:"required_if=Enabled true"`
	Region          string `env:"S3_REGION"`
	BucketName      string `env:"S3_BUCKET_NAME" validate:"required_if=Enabled true"`
	EndpointURL     string `env:"S3_ENDPOINT_URL" validate:"omitempty,url"`
}

// Config is the process-wide configuration, resolved once from the environment.
type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Cache       CacheConfig
	Stripe      StripeConfig
	Queue       QueueConfig
	Reconciler  ReconcilerConfig
	Credentials CredentialsConfig
	Archive     ArchiveConfig
}

var (
	current  *Config
	loadOnce sync.Once
	validate = validator.New()
)

// Get returns the process configuration, reading the environment on first use.
func Get() *Config {
	loadOnce.Do(func() {
		current = FromEnv()
	})
	return current
}

// Load returns the process configuration after validating the given sections.
func Load(sections ...Section) (*Config, error) {
	cfg := Get()
	if err := cfg.Validate(sections...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv builds a fresh Config from env.GetEnv without validating it.
func FromEnv() *Config {
	return &Config{
		App: AppConfig{
			Env:             env.GetEnv("APP_ENV", "prod"),
			Host:            env.GetEnv("APP_HOST", "localhost"),
			Port:            env.GetEnv("APP_PORT", "4000"),
			ServiceRoleKey:  strings.TrimSpace(env.GetEnv("SERVICE_ROLE_KEY", "")),
			MetricsUser:     env.GetEnv("METRICS_USER", "admin"),
			MetricsPassword: env.GetEnv("METRICS_PASSWORD", ""),
		},
		Database: DatabaseConfig{
			Host:     env.GetEnv("DB_HOST", "127.0.0.1"),
			Port:     env.GetEnv("DB_PORT", "3306"),
			User:     env.GetEnv("DB_USER", ""),
			Password: env.GetEnv("DB_PASSWORD", ""),
			Name:     env.GetEnv("DB_NAME", ""),
		},
		Cache: CacheConfig{
			Host:     env.GetEnv("CACHE_HOST", "localhost"),
			Port:     env.GetEnv("CACHE_PORT", "6379"),
			Password: env.GetEnv("CACHE_PASSWORD", ""),
		},
		Stripe: StripeConfig{
			SecretKey:       strings.TrimSpace(env.GetEnv("STRIPE_SECRET_KEY", "")),
			SetupSuccessURL: env.GetEnv("STRIPE_SETUP_SUCCESS_URL", ""),
			SetupCancelURL:  env.GetEnv("STRIPE_SETUP_CANCEL_URL", ""),
		},
		Queue: QueueConfig{
			EnrichmentBatchSize:     getInt("ENRICHMENT_BATCH_SIZE", 100),
			BacklinkReviewBatchSize: getInt("BACKLINK_REVIEW_BATCH_SIZE", 25),
			ClaimMode:               strings.ToLower(env.GetEnv("QUEUE_CLAIM_MODE", ClaimModeSelectUpdate)),
			DispatchConcurrency:     getInt("QUEUE_DISPATCH_CONCURRENCY", 10),
			WorkerCount:             getInt("QUEUE_WORKER_COUNT", 5),
			ScheduleIntervalMinutes: getInt("QUEUE_SCHEDULE_INTERVAL_MINUTES", 0),
			Transport:               strings.ToLower(env.GetEnv("WORKER_TRANSPORT", TransportQueue)),
			FunctionsBaseURL:        strings.TrimRight(env.GetEnv("FUNCTIONS_BASE_URL", ""), "/"),
		},
		Reconciler: ReconcilerConfig{
			PageSize:   getInt("RECONCILE_PAGE_SIZE", 100),
			OutputPath: env.GetEnv("RECONCILE_OUTPUT", "subscription-cleanup.log"),
		},
		Credentials: CredentialsConfig{
			EncryptionKey: strings.TrimSpace(env.GetEnv("CREDENTIALS_ENCRYPTION_KEY", "")),
		},
		Archive: ArchiveConfig{
			Enabled:         env.GetEnv("AUDIT_ARCHIVE_ENABLED", "false") == "true",
			AccessKeyID:     env.GetEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: env.GetEnv("S3_SECRET_ACCESS_KEY", ""),
			Region:          env.GetEnv("S3_REGION", "us-west-001"),
			BucketName:      env.GetEnv("S3_BUCKET_NAME", ""),
			EndpointURL:     env.GetEnv("S3_ENDPOINT_URL", ""),
		},
	}
}

// Validate checks the requested sections and reports every offending
// environment variable in a single error.
func (c *Config) Validate(sections ...Section) error {
	var missing, invalid []string
	for _, s := range sections {
		target, err := c.section(s)
		if err != nil {
			return err
		}
		verr := validate.Struct(target)
		if verr == nil {
			continue
		}
		var fieldErrs validator.ValidationErrors
		if !errors.As(verr, &fieldErrs) {
			return verr
		}
		t := reflect.TypeOf(target)
		for _, fe := range fieldErrs {
			key := fe.StructField()
			if f, ok := t.FieldByName(fe.StructField()); ok {
				if tag := f.Tag.Get("env"); tag != "" {
					key = tag
				}
			}
			switch fe.Tag() {
			case "required", "required_if":
				missing = append(missing, key)
			default:
				invalid = append(invalid, fmt.Sprintf("%s (%s)", key, describe(fe)))
			}
		}
	}

	if len(missing) == 0 && len(invalid) == 0 {
		return nil
	}
	msg := ""
	if len(invalid) > 0 {
		msg = "invalid configuration: " + strings.Join(invalid, ", ")
	}
	if len(missing) == 0 {
		return errors.New(msg)
	}
	if msg != "" {
		msg = "; " + msg
	}
	return fmt.Errorf("%w: %s%s", ErrMissingConfig, strings.Join(missing, ", "), msg)
}

func (c *Config) section(s Section) (interface{}, error) {
	switch s {
	case SectionApp:
		return c.App, nil
	case SectionDatabase:
		return c.Database, nil
	case SectionCache:
		return c.Cache, nil
	case SectionStripe:
		return c.Stripe, nil
	case SectionQueue:
		return c.Queue, nil
	case SectionReconciler:
		return c.Reconciler, nil
	case SectionCredentials:
		return c.Credentials, nil
	case SectionArchive:
		return c.Archive, nil
	default:
		return nil, fmt.Errorf("unknown config section %q", s)
	}
}

// Addr returns host:port for the HTTP listener.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// IsDev reports whether the process runs in the dev environment.
func (a AppConfig) IsDev() bool {
	return a.Env == "dev"
}

// DSN returns the MySQL data source name.
func (d DatabaseConfig) DSN() string {
	// "user:pass@tcp(127.0.0.1:3306)/dbname?charset=utf8mb4&parseTime=True&loc=Local"
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

// Addr returns host:port for the Redis client.
func (c CacheConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return "must be >= " + fe.Param()
	case "max":
		return "must be <= " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "len":
		return "must be " + fe.Param() + " characters"
	default:
		return "failed " + fe.Tag()
	}
}

// getInt parses an integer setting. Unparseable values become -1 so that the
// section's min rule reports them by name.
func getInt(key string, def int) int {
	raw := strings.TrimSpace(env.GetEnv(key, ""))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return -1
	}
	return v
}
