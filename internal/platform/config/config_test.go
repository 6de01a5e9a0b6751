package config_test

import (
	"testing"
	"time"

	"github.com/SscSPs/splitledger/internal/core/domain"
	"github.com/SscSPs/splitledger/internal/platform/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_TTL", "45m")
	t.Setenv("SESSION_SWEEP_INTERVAL", "not-a-duration")
	t.Setenv("APPROVAL_POLICY", "unanimous")
	t.Setenv("RECEIPT_MIN_CONFIDENCE", "85")

	cfg, err := config.LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 45*time.Minute, cfg.SessionTTL)
	assert.Equal(t, time.Minute, cfg.SessionSweepInterval)
	assert.Equal(t, domain.ApprovalUnanimous, cfg.ApprovalPolicy)
	assert.Equal(t, 85.0, cfg.ReceiptMinConfidence)
}

func TestLoadConfig_RejectsUnknownApprovalPolicy(t *testing.T) {
	t.Setenv("APPROVAL_POLICY", "everyone-but-me")

	_, err := config.LoadConfig()

	assert.Error(t, err)
}
