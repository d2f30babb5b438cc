package mainconfig

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appconfig "github.com/wolfman30/sitefront/internal/config"
	httpmiddleware "github.com/wolfman30/sitefront/internal/http/middleware"
	"github.com/wolfman30/sitefront/pkg/logging"
)

func TestSenderConfigMapsProviders(t *testing.T) {
	cfg := &appconfig.Config{
		EmailProvider:    "smtp",
		EmailFrom:        "hello@example.com",
		SendGridFromName: "Acme",
		ResendAPIKey:     "re_1",
		SMTPHost:         "smtp.example.com",
		SMTPPort:         2525,
	}
	sc := SenderConfig(cfg)
	assert.Equal(t, "smtp", sc.Provider)
	assert.Equal(t, "hello@example.com", sc.FromEmail)
	assert.Equal(t, "re_1", sc.Resend.APIKey)
	assert.Equal(t, "smtp.example.com", sc.SMTP.Host)
	assert.Equal(t, 2525, sc.SMTP.Port)
}

func TestSubmitLimiterMemory(t *testing.T) {
	cfg := &appconfig.Config{RateLimitRPS: 1, RateLimitBurst: 2, RateLimitWindow: time.Minute}
	limiter, stop := SubmitLimiter(cfg, logging.New("error"))
	defer stop()
	_, ok := limiter.(*httpmiddleware.MemoryLimiter)
	assert.True(t, ok)
}

func TestSubmitLimiterRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &appconfig.Config{RedisAddr: mr.Addr(), RateLimitRPS: 0, RateLimitBurst: 1, RateLimitWindow: time.Minute}
	limiter, stop := SubmitLimiter(cfg, logging.New("error"))
	defer stop()

	_, ok := limiter.(*httpmiddleware.RedisLimiter)
	require.True(t, ok)
	allowed, err := limiter.Allow(context.Background(), "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, allowed)
	allowed, err = limiter.Allow(context.Background(), "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestLoadAWSConfigWithStaticCredentials(t *testing.T) {
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")
	cfg := &appconfig.Config{
		AWSRegion:           "us-east-1",
		AWSAccessKeyID:      "test",
		AWSSecretAccessKey:  "test",
		AWSEndpointOverride: "http://localhost:4566",
	}
	awsCfg, err := LoadAWSConfig(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", awsCfg.Region)
	require.NotNil(t, awsCfg.EndpointResolverWithOptions)
}
