package mainconfig

import (
	"context"
	"crypto/tls"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/redis/go-redis/v9"
	appconfig "github.com/wolfman30/sitefront/internal/config"
	httpmiddleware "github.com/wolfman30/sitefront/internal/http/middleware"
	"github.com/wolfman30/sitefront/internal/notify"
	"github.com/wolfman30/sitefront/pkg/logging"
)

// LoadAWSConfig centralizes AWS SDK initialization so the API and tools share
// the same LocalStack/production wiring.
func LoadAWSConfig(ctx context.Context, cfg *appconfig.Config) (aws.Config, error) {
	loaders := []func(*config.LoadOptions) error{config.WithRegion(cfg.AWSRegion)}
	if strings.TrimSpace(cfg.AWSAccessKeyID) != "" && strings.TrimSpace(cfg.AWSSecretAccessKey) != "" {
		loaders = append(loaders, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return aws.Config{}, err
	}

	if endpoint := cfg.AWSEndpointOverride; endpoint != "" {
		awsCfg.EndpointResolverWithOptions = aws.EndpointResolverWithOptionsFunc(
			func(service, region string, _ ...interface{}) (aws.Endpoint, error) {
				switch service {
				case sqs.ServiceID, sesv2.ServiceID:
					return aws.Endpoint{
						URL:           endpoint,
						PartitionID:   "aws",
						SigningRegion: cfg.AWSRegion,
					}, nil
				default:
					return aws.Endpoint{}, &aws.EndpointNotFoundError{}
				}
			},
		)
	}

	return awsCfg, nil
}

// SenderConfig maps application config onto the email provider factory.
func SenderConfig(cfg *appconfig.Config) notify.SenderConfig {
	return notify.SenderConfig{
		Provider:  cfg.EmailProvider,
		FromEmail: cfg.EmailFrom,
		FromName:  cfg.SendGridFromName,
		Resend:    notify.ResendConfig{APIKey: cfg.ResendAPIKey},
		SendGrid:  notify.SendGridConfig{APIKey: cfg.SendGridAPIKey},
		SMTP: notify.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
		},
	}
}

// SubmitLimiter returns the redis limiter when REDIS_ADDR is set, otherwise
// the in-process one. The returned stop function releases its resources.
func SubmitLimiter(cfg *appconfig.Config, logger *logging.Logger) (httpmiddleware.Limiter, func()) {
	if addr := strings.TrimSpace(cfg.RedisAddr); addr != "" {
		opts := &redis.Options{Addr: addr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		client := redis.NewClient(opts)
		limit := int(cfg.RateLimitRPS*cfg.RateLimitWindow.Seconds()) + cfg.RateLimitBurst
		logger.Info("submission rate limiter: redis", "addr", addr, "limit", limit, "window", cfg.RateLimitWindow.String())
		return httpmiddleware.NewRedisLimiter(client, limit, cfg.RateLimitWindow), func() { _ = client.Close() }
	}
	ml := httpmiddleware.NewMemoryLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	logger.Info("submission rate limiter: memory", "rps", cfg.RateLimitRPS, "burst", cfg.RateLimitBurst)
	return ml, ml.Stop
}
