// Command imdbload downloads the IMDb dataset dumps, decompresses and
// transforms them, and bulk-loads them into Postgres, replacing prior table
// contents. Datasets are processed strictly sequentially; the first stage
// failure aborts the run with a non-zero exit.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"imdbload/internal/catalog"
	"imdbload/internal/config"
	"imdbload/internal/fetch"
	"imdbload/internal/importer"
	"imdbload/internal/metrics"
	"imdbload/internal/metrics/prompush"
	"imdbload/internal/storage/postgres"
)

func main() {
	if err := run(); err != nil {
		// The orchestrator already logged the failure; exit non-zero.
		os.Exit(1)
	}
}

// resolveMetricsBackend picks the metrics backend name: flag value first,
// then the METRICS_BACKEND environment value, then "none".
func resolveMetricsBackend(flagValue, envValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue != "" {
		return envValue
	}
	return "none"
}

func run() error {
	var (
		cfgPath           string
		metricsBackendFlg string
		pushGatewayURLFlg string
		validate          bool
	)

	flag.StringVar(&cfgPath, "config", "configs/imdb.json", "run config JSON path")
	flag.StringVar(&metricsBackendFlg, "metrics-backend", "", "metrics backend to use (pushgateway, none); defaults to $METRICS_BACKEND, then none")
	flag.StringVar(&pushGatewayURLFlg, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	flag.Parse()

	// Optional .env for DATABASE_URL and friends; absence is not an error.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("dotenv: %v", err)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Printf("%v", err)
		return err
	}

	issues := config.ValidateRun(cfg)
	hasError := false
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
		if iss.Severity == config.SeverityError {
			hasError = true
		}
	}
	if hasError {
		log.Printf("configuration is invalid: %v", cfgPath)
		return fmt.Errorf("invalid configuration")
	}
	ctx := context.Background()

	if validate {
		repo, err := postgres.NewRepository(ctx, cfg.DB.DSN)
		if err != nil {
			log.Printf("validate: %v", err)
			return err
		}
		defer repo.Close()
		if err := repo.Ping(ctx); err != nil {
			log.Printf("validate: db unreachable: %v", err)
			return err
		}
		log.Printf("configuration is valid and database is reachable: %v", cfgPath)
		return nil
	}

	jobName := cfg.Job
	if jobName == "" {
		jobName = "imdbload"
	}

	backendName := resolveMetricsBackend(metricsBackendFlg, os.Getenv("METRICS_BACKEND"))
	switch backendName {
	case "pushgateway":
		gwURL := pushGatewayURLFlg
		if gwURL == "" {
			gwURL = os.Getenv("PUSHGATEWAY_URL")
		}
		if gwURL == "" {
			gwURL = "http://localhost:9091"
		}
		b, err := prompush.NewBackend(jobName, gwURL)
		if err != nil {
			log.Printf("metrics: failed to init prom push backend: %v; using nop", err)
		} else {
			log.Printf("metrics: url=%v backend=%v job=%v", gwURL, backendName, jobName)
			metrics.SetBackend(b)
			defer func() {
				if err := metrics.Flush(); err != nil {
					log.Printf("metrics: flush error: %v", err)
				}
			}()
		}
	case "none":
		// metrics disabled; nop backend remains
	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backendName)
	}

	repo, err := postgres.NewRepository(ctx, cfg.DB.DSN)
	if err != nil {
		log.Printf("init repository: %v", err)
		return err
	}
	// The single guaranteed cleanup: the pool closes exactly once, whether
	// the run succeeded or failed.
	defer repo.Close()

	runner := &importer.Runner{
		Job:           jobName,
		Catalog:       catalog.IMDb(),
		BaseURL:       cfg.Source.BaseURL,
		StagingDir:    cfg.Staging.Dir,
		Fetcher:       fetch.NewClient(fetch.Config{}),
		Repo:          repo,
		ChannelBuffer: cfg.Runtime.ChannelBuffer,
	}

	if err := runner.Run(ctx); err != nil {
		return err
	}

	log.Printf("import finished")
	return nil
}
