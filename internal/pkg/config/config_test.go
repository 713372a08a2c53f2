package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/LinkFox/internal/pkg/env"
)

func withEnv(t *testing.T, values map[string]string) {
	t.Helper()
	prev := env.Env
	env.Env = values
	t.Cleanup(func() { env.Env = prev })
}

func TestFromEnv_Defaults(t *testing.T) {
	withEnv(t, map[string]string{})

	cfg := FromEnv()
	assert.Equal(t, 100, cfg.Queue.EnrichmentBatchSize)
	assert.Equal(t, 25, cfg.Queue.BacklinkReviewBatchSize)
	assert.Equal(t, ClaimModeSelectUpdate, cfg.Queue.ClaimMode)
	assert.Equal(t, TransportQueue, cfg.Queue.Transport)
	assert.Equal(t, 100, cfg.Reconciler.PageSize)
	assert.Equal(t, "subscription-cleanup.log", cfg.Reconciler.OutputPath)
	assert.False(t, cfg.Archive.Enabled)
}

func TestFromEnv_Overrides(t *testing.T) {
	withEnv(t, map[string]string{
		"ENRICHMENT_BATCH_SIZE":      "40",
		"BACKLINK_REVIEW_BATCH_SIZE": "5",
		"QUEUE_CLAIM_MODE":           "ATOMIC",
		"FUNCTIONS_BASE_URL":         "https://functions.example.com/v1/",
	})

	cfg := FromEnv()
	assert.Equal(t, 40, cfg.Queue.EnrichmentBatchSize)
	assert.Equal(t, 5, cfg.Queue.BacklinkReviewBatchSize)
	assert.Equal(t, ClaimModeAtomic, cfg.Queue.ClaimMode)
	assert.Equal(t, "https://functions.example.com/v1", cfg.Queue.FunctionsBaseURL)
}

func TestValidate_ReportsEveryMissingKey(t *testing.T) {
	withEnv(t, map[string]string{})

	err := FromEnv().Validate(SectionStripe, SectionDatabase)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingConfig))
	for _, key := range []string{"STRIPE_SECRET_KEY", "STRIPE_SETUP_SUCCESS_URL", "DB_USER", "DB_NAME"} {
		assert.Contains(t, err.Error(), key)
	}
	assert.NotContains(t, err.Error(), "DB_HOST")
}

func TestValidate_OnlyRequestedSections(t *testing.T) {
	withEnv(t, map[string]string{"STRIPE_SECRET_KEY": "sk_test_123"})

	// Database is not configured, but the reconciler only asks for these.
	assert.NoError(t, FromEnv().Validate(SectionReconciler, SectionQueue))
}

func TestValidate_InvalidValues(t *testing.T) {
	withEnv(t, map[string]string{
		"ENRICHMENT_BATCH_SIZE": "abc",
		"QUEUE_CLAIM_MODE":      "lease",
	})

	err := FromEnv().Validate(SectionQueue)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrMissingConfig))
	assert.Contains(t, err.Error(), "ENRICHMENT_BATCH_SIZE (must be >= 1)")
	assert.Contains(t, err.Error(), "QUEUE_CLAIM_MODE (must be one of: select_update atomic)")
}

func TestValidate_HTTPTransportNeedsBaseURL(t *testing.T) {
	withEnv(t, map[string]string{"WORKER_TRANSPORT": "http"})

	err := FromEnv().Validate(SectionQueue)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FUNCTIONS_BASE_URL")
}

func TestValidate_ArchiveOnlyWhenEnabled(t *testing.T) {
	withEnv(t, map[string]string{})
	assert.NoError(t, FromEnv().Validate(SectionArchive))

	withEnv(t, map[string]string{"AUDIT_ARCHIVE_ENABLED": "true"})
	err := FromEnv().Validate(SectionArchive)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "S3_BUCKET_NAME")
}

func TestValidate_UnknownSection(t *testing.T) {
	withEnv(t, map[string]string{})
	assert.Error(t, FromEnv().Validate(Section("nope")))
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: "3306", User: "linkfox", Password: "secret", Name: "linkfox_db"}
	assert.Equal(t, "linkfox:secret@tcp(db:3306)/linkfox_db?charset=utf8mb4&parseTime=True&loc=Local", d.DSN())
}

func TestAppConfig_IsDev(t *testing.T) {
	withEnv(t, map[string]string{})
	assert.False(t, FromEnv().App.IsDev())

	withEnv(t, map[string]string{"APP_ENV": "dev"})
	assert.True(t, FromEnv().App.IsDev())
}
