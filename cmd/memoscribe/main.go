// Command memoscribe serves speech-to-text transcription over HTTP.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"

	"github.com/kbukum/memoscribe/api"
	"github.com/kbukum/memoscribe/auth/jwt"
	"github.com/kbukum/memoscribe/bootstrap"
	"github.com/kbukum/memoscribe/component"
	"github.com/kbukum/memoscribe/config"
	"github.com/kbukum/memoscribe/logger"
	"github.com/kbukum/memoscribe/observability"
	"github.com/kbukum/memoscribe/server"
	"github.com/kbukum/memoscribe/server/endpoint"
	"github.com/kbukum/memoscribe/server/middleware"
	"github.com/kbukum/memoscribe/storage/local"
	"github.com/kbukum/memoscribe/transcription"
	"github.com/kbukum/memoscribe/transcription/whisper"
	"github.com/kbukum/memoscribe/transcription/whispercli"
	"github.com/kbukum/memoscribe/util"
	"github.com/kbukum/memoscribe/version"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "memoscribe:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet(serviceName, pflag.ContinueOnError)
	configFile := flags.StringP("config", "c", "", "path to config.yml")
	envFile := flags.String("env-file", "", "path to a .env file")
	issueToken := flags.String("issue-token", "", "print a bearer token for `subject` and exit")
	showVersion := flags.BoolP("version", "v", false, "print the version and exit")
	if err := flags.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		fmt.Println(version.GetVersionInfo().String())
		return nil
	}

	var cfg AppConfig
	var opts []config.LoaderOption
	if *configFile != "" {
		opts = append(opts, config.WithConfigFile(*configFile))
	}
	if *envFile != "" {
		opts = append(opts, config.WithEnvFile(*envFile))
	}
	if err := config.LoadConfig(serviceName, &cfg, opts...); err != nil {
		return err
	}

	if *issueToken != "" {
		return printToken(&cfg, *issueToken)
	}

	app, err := bootstrap.NewApp(&cfg)
	if err != nil {
		return err
	}
	return serve(context.Background(), app)
}

func printToken(cfg *AppConfig, subject string) error {
	cfg.ApplyDefaults()
	if !cfg.Auth.Enabled {
		return fmt.Errorf("auth is disabled")
	}
	if err := cfg.Auth.Validate(); err != nil {
		return err
	}
	svc, err := jwt.NewService(cfg.Auth.Config)
	if err != nil {
		return err
	}
	token, err := svc.Sign(subject)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

func serve(ctx context.Context, app *bootstrap.App[*AppConfig]) error {
	cfg := app.Cfg
	log := app.Logger

	tel, err := observability.Setup(ctx, cfg.Observability, observability.ServiceInfo{
		Name:        cfg.Name,
		Version:     cfg.Version,
		Environment: cfg.Environment,
	})
	if err != nil {
		return err
	}
	app.OnStop(tel.Shutdown)

	metrics, err := observability.NewMetrics(observability.Meter(observability.InstrumentationName))
	if err != nil {
		return err
	}

	store, err := local.NewStorage(cfg.Storage.BasePath)
	if err != nil {
		return err
	}

	backends := transcription.NewBackends()
	backends.RegisterFactory(whispercli.ProviderName, whispercli.Factory(cfg.Transcription.CLI))
	backends.RegisterFactory(whisper.ProviderName, whisper.Factory(cfg.Transcription.HTTP))

	tcfg := cfg.Transcription.Config
	loader := transcription.NewLoader(tcfg, backends,
		transcription.WithLogger(log),
		transcription.WithMetrics(metrics),
		transcription.WithDeviceProber(transcription.NewNvidiaSMIProber()),
	)
	pipeline := transcription.NewPipeline(loader, store, transcription.NewInferencePool(tcfg), tcfg.InferenceTimeout,
		transcription.WithLogger(log),
		transcription.WithMetrics(metrics),
	)

	srv := server.New(cfg.Server, log)
	srv.ApplyDefaults(endpoint.ServiceInfo{
		Name:        cfg.Name,
		Title:       "Memoscribe",
		Version:     cfg.Version,
		Environment: cfg.Environment,
	}, app.Components.HealthAll)

	var apiMiddleware []gin.HandlerFunc
	if cfg.Server.RateLimitPerMinute > 0 {
		apiMiddleware = append(apiMiddleware, middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerMinute: cfg.Server.RateLimitPerMinute,
		}))
	}
	if cfg.Auth.Enabled {
		tokens, err := jwt.NewService(cfg.Auth.Config)
		if err != nil {
			return err
		}
		apiMiddleware = append(apiMiddleware, middleware.Auth(middleware.AuthConfig{
			TokenValidator: tokens.ValidatorFunc(),
		}))
	}
	api.NewHandler(pipeline, cfg.Server.StaticDir).Register(srv.GinEngine(), apiMiddleware...)

	for _, c := range []component.Component{local.NewComponent(store), loader, server.NewComponent(srv)} {
		if err := app.RegisterComponent(c); err != nil {
			return err
		}
	}

	if !tcfg.SkipWarmUp {
		app.OnReady(func(ctx context.Context) error {
			go loader.WarmUp(ctx)
			return nil
		})
	}

	app.AddSummary("backend", tcfg.Backend)
	app.AddSummary("model", tcfg.Model)
	app.AddSummary("workers", fmt.Sprint(tcfg.Workers))
	app.AddSummary("staging", store.BasePath())
	app.AddSummary("max_body_size", util.FormatSize(util.ParseSize(cfg.Server.MaxBodySize, 0)))
	app.AddSummary("auth", cfg.Auth.Describe())
	app.AddSummary("telemetry", fmt.Sprint(tel.Enabled()))
	log.Debug("Configuration loaded", logger.Fields("environment", cfg.Environment))

	return app.Run(ctx)
}
