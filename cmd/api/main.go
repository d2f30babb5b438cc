package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wolfman30/sitefront/cmd/mainconfig"
	"github.com/wolfman30/sitefront/internal/api/router"
	"github.com/wolfman30/sitefront/internal/calendly"
	appconfig "github.com/wolfman30/sitefront/internal/config"
	"github.com/wolfman30/sitefront/internal/http/handlers"
	"github.com/wolfman30/sitefront/internal/notify"
	"github.com/wolfman30/sitefront/internal/notify/templates"
	"github.com/wolfman30/sitefront/internal/observability/metrics"
	"github.com/wolfman30/sitefront/internal/validation"
	"github.com/wolfman30/sitefront/internal/whatsapp"
	"github.com/wolfman30/sitefront/pkg/logging"
)

func main() {
	cfg, err := appconfig.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := logging.NewWithOptions(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	logger.Info("starting sitefront API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"email_provider", cfg.EmailProvider,
	)

	ctx := context.Background()
	handler, cleanup, err := buildServer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialise server", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// buildServer wires every service from cfg. The cleanup function releases
// background resources.
func buildServer(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (http.Handler, func(), error) {
	metricsHandler, siteMetrics := setupMetrics()

	var awsCfg *aws.Config
	if cfg.EmailProvider == "ses" || cfg.CalendlyEventsQueueURL != "" {
		loaded, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("load AWS config: %w", err)
		}
		awsCfg = &loaded
	}

	mailer, err := setupEmail(cfg, awsCfg, siteMetrics, logger)
	if err != nil {
		return nil, nil, err
	}

	calendlySvc := calendly.NewService(calendly.Options{
		URL:    cfg.CalendlyURL,
		APIKey: cfg.CalendlyAPIKey,
		Logger: logger,
	})
	var publisher calendly.Publisher
	if cfg.CalendlyEventsQueueURL != "" {
		pub, err := calendly.NewSQSPublisher(sqs.NewFromConfig(*awsCfg), cfg.CalendlyEventsQueueURL)
		if err != nil {
			return nil, nil, err
		}
		publisher = pub
	}
	processor := calendly.NewWebhookProcessor(publisher, siteMetrics, logger)
	verifier := calendly.NewVerifier(cfg.CalendlyWebhookSigningKey, calendly.DefaultSignatureTolerance)

	limiter, stopLimiter := mainconfig.SubmitLimiter(cfg, logger)

	button := whatsapp.DefaultButton(cfg.WhatsAppNumber)
	if cfg.WhatsAppMessage != "" {
		button.Message = cfg.WhatsAppMessage
	}

	r := router.New(&router.Config{
		Logger:   logger,
		Forms:    handlers.NewFormsHandler(mailer, validation.New(), siteMetrics, logger),
		Calendly: handlers.NewCalendlyHandler(calendlySvc, processor, verifier, logger),
		Book: handlers.NewBookHandler(calendlySvc, handlers.BookPageConfig{
			Title:       cfg.BookPageTitle,
			CompanyName: cfg.CompanyName,
			Widgets: []handlers.InlineWidget{{
				Config: calendly.Config{PrimaryColor: cfg.PrimaryColor, HideEventTypeDetails: true},
			}},
			WhatsApp: button,
		}, logger),
		MetricsHandler:    metricsHandler,
		AllowedOrigin:     cfg.AllowedOrigin(),
		SubmitLimiter:     limiter,
		TrustProxyHeaders: cfg.TrustProxyHeaders,
	})
	return r, stopLimiter, nil
}

func setupMetrics() (http.Handler, *metrics.SiteMetrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), metrics.NewSiteMetrics(reg)
}

func setupEmail(cfg *appconfig.Config, awsCfg *aws.Config, m *metrics.SiteMetrics, logger *logging.Logger) (*notify.Service, error) {
	var ses notify.SESAPI
	if awsCfg != nil && cfg.EmailProvider == "ses" {
		ses = sesv2.NewFromConfig(*awsCfg)
	}
	sender, err := notify.NewSender(mainconfig.SenderConfig(cfg), ses, logger)
	if err != nil {
		return nil, fmt.Errorf("email sender: %w", err)
	}
	if cfg.EmailTo == "" {
		logger.Warn("EMAIL_TO not configured; contact submissions will fail")
	}
	return notify.NewService(sender, notify.ServiceConfig{
		From: cfg.EmailFrom,
		To:   cfg.EmailTo,
		Branding: templates.Branding{
			CompanyName:    cfg.CompanyName,
			CompanyLogo:    cfg.CompanyLogo,
			CompanyAddress: cfg.CompanyAddress,
			SupportEmail:   cfg.SupportEmail,
			PrimaryColor:   cfg.PrimaryColor,
		},
	}, m, logger)
}
