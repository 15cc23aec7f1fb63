package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	"brreg-lookup/internal/common/brreg"
	"brreg-lookup/internal/common/config"
	"brreg-lookup/internal/common/errors"
	httpclient "brreg-lookup/internal/common/http"
	"brreg-lookup/internal/common/logger"
	"brreg-lookup/internal/common/metrics"
	"brreg-lookup/internal/common/observability"
	"brreg-lookup/internal/models"
	applyrelevanceranking "brreg-lookup/internal/workers/organization/apply-relevance-ranking"
	collectcandidates "brreg-lookup/internal/workers/organization/collect-candidates"
	lookupbynumber "brreg-lookup/internal/workers/organization/lookup-by-number"
	renderresult "brreg-lookup/internal/workers/organization/render-result"
	searchbyname "brreg-lookup/internal/workers/organization/search-by-name"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
	"go.opentelemetry.io/otel/attribute"
)

// workers holds the handlers of one invocation.
type workers struct {
	lookup    *lookupbynumber.Handler
	search    *searchbyname.Handler
	presenter *renderresult.Handler
}

func newWorkers(cfg *config.Config, client *httpclient.Client, obs *observability.Observability, log logger.Logger, format string, out io.Writer) *workers {
	primary, sub := brreg.NewSources(client, cfg.BRREG.MaxResults, log)

	collector := collectcandidates.NewHandler(
		collectcandidates.LoadConfig(), primary, sub, log,
		collectcandidates.WithTracer(obs.Tracer()),
		collectcandidates.WithRecorder(obs),
	)
	ranker := applyrelevanceranking.NewHandler(&applyrelevanceranking.Config{
		WarnAfter: config.GetDuration(cfg.Search.RankWarnAfter),
	}, log)

	return &workers{
		lookup: lookupbynumber.NewHandler(&lookupbynumber.Config{
			Timeout: config.GetDuration(cfg.Lookup.Timeout),
		}, collector, log, lookupbynumber.WithRecorder(obs)),
		search: searchbyname.NewHandler(&searchbyname.Config{
			MinNameLength: cfg.Search.MinNameLength,
			Timeout:       config.GetDuration(cfg.Search.Timeout),
		}, collector, ranker, log, searchbyname.WithRecorder(obs)),
		presenter: renderresult.NewHandler(&renderresult.Config{
			Format:      format,
			Version:     Version,
			ScoresShown: 3,
		}, out),
	}
}

func lookupAction(stdout io.Writer) cli.ActionFunc {
	return func(c *cli.Context) error {
		if c.IsSet("number") == c.IsSet("name") {
			return cli.Exit("❌ Error: exactly one of --number or --name is required", errors.ExitUsage)
		}
		format := c.String("output")
		if format != renderresult.FormatText && format != renderresult.FormatJSON {
			return cli.Exit(fmt.Sprintf("❌ Error: unknown output format %q", format), errors.ExitUsage)
		}

		cfg, err := loadConfig(c)
		if err != nil {
			return cli.Exit("❌ Error: "+errors.NewConfigInvalidError(err).Details, errors.ExitUsage)
		}

		zapLog, err := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
		if err != nil {
			return cli.Exit("❌ Error: "+err.Error(), errors.ExitUsage)
		}
		defer func() { _ = zapLog.Sync() }()

		runID := uuid.NewString()
		log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{"runId": runID})
		log.Debug("configuration loaded", map[string]interface{}{
			"configFile": cfg.ConfigFile,
			"envFile":    cfg.EnvFile,
			"baseUrl":    cfg.BRREG.BaseURL,
		})

		obs, err := observability.New(observability.Options{
			ServiceName:    cfg.Observability.ServiceName,
			JaegerEndpoint: cfg.Observability.JaegerEndpoint,
			Registerer:     metrics.Registry,
		})
		if err != nil {
			log.WithError(err).Error("failed to initialize observability", nil)
			return cli.Exit("", errors.ExitInternal)
		}
		defer func() {
			if err := obs.Shutdown(context.Background()); err != nil {
				log.WithError(err).Warn("observability shutdown failed", nil)
			}
		}()
		if path := cfg.Observability.MetricsFile; path != "" {
			defer func() {
				if err := metrics.WriteTextfile(path); err != nil {
					log.WithError(err).Warn("failed to write metrics file", map[string]interface{}{
						"path": path,
					})
				}
			}()
		}

		client := httpclient.NewClient(httpclient.Config{
			BaseURL:    cfg.BRREG.BaseURL,
			UserAgent:  cfg.BRREG.UserAgent,
			Timeout:    config.GetDuration(cfg.BRREG.Timeout),
			MaxRetries: cfg.BRREG.MaxRetries,
			RateLimit:  cfg.BRREG.RateLimit,
			RateBurst:  cfg.BRREG.RateBurst,
		})
		defer client.Close()

		w := newWorkers(cfg, client, obs, log, format, stdout)
		return w.run(c.Context, c, runID, log, obs)
	}
}

func (w *workers) run(ctx context.Context, c *cli.Context, runID string, log logger.Logger, obs *observability.Observability) error {
	ctx, span := obs.StartSpan(ctx, "brreg-lookup", attribute.String("run.id", runID))

	input := &renderresult.Input{RunID: runID}
	var (
		operation string
		opErr     error
	)

	if c.IsSet("number") {
		operation = lookupbynumber.TaskType
		input.QueryType = models.QueryTypeOrgNumber
		input.Query = strings.TrimSpace(c.String("number"))

		out, err := w.lookup.Execute(ctx, &lookupbynumber.Input{OrgNumber: c.String("number")})
		if err != nil {
			opErr = err
		} else {
			input.Organization = &out.Organization
			input.Warnings = out.Warnings
		}
	} else {
		operation = searchbyname.TaskType
		input.QueryType = models.QueryTypeName
		input.Query = strings.TrimSpace(c.String("name"))

		out, err := w.search.Execute(ctx, &searchbyname.Input{Name: c.String("name")})
		if err != nil {
			opErr = err
		} else {
			input.Results = out.Results
			input.Warnings = out.Warnings
		}
	}
	span.SetAttributes(attribute.String("operation", operation))
	observability.EndSpan(span, opErr)

	input.Err = opErr
	if err := w.presenter.Execute(ctx, input); err != nil {
		log.WithError(err).Error("failed to render result", nil)
		return cli.Exit("", errors.ExitInternal)
	}

	code := errors.NewErrorHandler(log).Report(operation, opErr)
	if opErr == nil && input.Organization == nil && input.Results.Len() == 0 {
		code = errors.ExitNoResults
	}
	if code != errors.ExitOK {
		return cli.Exit("", code)
	}
	return nil
}
