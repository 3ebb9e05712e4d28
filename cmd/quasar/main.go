package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	json "github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/parallaxdata/quasar/pkg/config"
	bqconn "github.com/parallaxdata/quasar/pkg/connector/bigquery"
	"github.com/parallaxdata/quasar/pkg/connector/core"
	sfconn "github.com/parallaxdata/quasar/pkg/connector/snowflake"
	"github.com/parallaxdata/quasar/pkg/connector/verify"
	"github.com/parallaxdata/quasar/pkg/logger"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "quasar",
		Short: "Quasar - warehouse job completion connector",
		Long: `Quasar awaits the completion of asynchronous jobs in a remote analytics
warehouse (Snowflake or BigQuery), polling the job's status with exponential
backoff until it completes, fails, or the overall timeout expires.`,
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Quasar v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	var configFile, jobID string
	var samplePeriod, overallTimeout time.Duration

	awaitCmd := &cobra.Command{
		Use:   "await",
		Short: "Await completion of a remote job",
		Long: `Await completion of an asynchronous warehouse job identified by its job id.
The command exits 0 once the job completes, and non-zero when the job fails,
the status query errors, or the overall timeout expires.

Example:
  quasar await --config quasar.yaml --job 01b2c3d4-0000-1111-2222-333344445555 --timeout 10m`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return awaitJob(cmd.Context(), configFile, jobID, samplePeriod, overallTimeout)
		},
	}

	awaitCmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to YAML configuration file (required)")
	awaitCmd.Flags().StringVarP(&jobID, "job", "j", "", "Remote job id to await (required)")
	awaitCmd.Flags().DurationVar(&samplePeriod, "interval", 0, "Status polling interval; overrides the configured sample period")
	awaitCmd.Flags().DurationVar(&overallTimeout, "timeout", 0, "Overall wait timeout; overrides the configured value. 0 keeps the configured timeout, negative disables it")
	_ = awaitCmd.MarkFlagRequired("config")
	_ = awaitCmd.MarkFlagRequired("job")

	root.AddCommand(awaitCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// awaitJob wires the configured status query into the verifier and
// blocks until the job resolves.
func awaitJob(ctx context.Context, configFile, jobID string, samplePeriod, overallTimeout time.Duration) error {
	cfg := config.Default()
	if err := config.Load(configFile, cfg); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	if err := logger.Init(logger.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		Encoding:    cfg.Logging.Encoding,
	}); err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if samplePeriod > 0 {
		cfg.Polling.SamplePeriod = samplePeriod
	}
	if overallTimeout != 0 {
		cfg.Polling.OverallTimeout = overallTimeout
	}

	query, closeQuery, err := buildStatusQuery(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeQuery()

	log := logger.With(
		zap.String("component", "quasar-cli"),
		zap.String("service", cfg.Service),
		zap.String("job_id", jobID),
	)
	log.Info("awaiting job",
		zap.Duration("sample_period", cfg.Polling.SamplePeriod),
		zap.Duration("overall_timeout", cfg.Polling.OverallTimeout))

	start := time.Now()
	outcome, err := verify.New(query).Await(ctx, core.JobHandle(jobID),
		cfg.Polling.SamplePeriod, cfg.Polling.OverallTimeout)

	printOutcome(outcome)

	if err != nil {
		return fmt.Errorf("job %s: %w", jobID, err)
	}

	log.Info("job completed", zap.Duration("elapsed", time.Since(start)))
	return nil
}

// buildStatusQuery constructs the service-appropriate StatusQuery.
func buildStatusQuery(ctx context.Context, cfg *config.Config) (core.StatusQuery, func(), error) {
	switch cfg.Service {
	case config.ServiceSnowflake:
		q, err := sfconn.NewStatusQuery(cfg.Snowflake)
		if err != nil {
			return nil, nil, err
		}
		if err := q.Ping(ctx); err != nil {
			_ = q.Close()
			return nil, nil, err
		}
		return q, func() { _ = q.Close() }, nil
	case config.ServiceBigQuery:
		q, err := bqconn.NewStatusQuery(ctx, cfg.BigQuery.ProjectID)
		if err != nil {
			return nil, nil, err
		}
		return q, func() { _ = q.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown service %q", cfg.Service)
	}
}

// printOutcome writes the final outcome to stdout as JSON.
func printOutcome(outcome core.Outcome) {
	data, err := json.MarshalIndent(outcome, "", "  ")
	if err != nil {
		return
	}
	fmt.Println(string(data))
}
