package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/compliancespectre/internal/aws"
	"github.com/ppiankov/compliancespectre/internal/compliance"
	"github.com/ppiankov/compliancespectre/internal/ingest"
)

// sourceFlags locate the compliance exports. They are shared by every
// command that loads findings.
type sourceFlags struct {
	folder      string
	bucket      string
	prefix      string
	region      string
	concurrency int
	timeout     time.Duration
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.folder, "folder", "", "Folder containing compliance CSV exports")
	cmd.Flags().StringVar(&f.bucket, "bucket", "", "S3 bucket containing compliance CSV exports")
	cmd.Flags().StringVar(&f.prefix, "prefix", "", "S3 key prefix")
	cmd.Flags().StringVar(&f.region, "s3-region", "", "AWS region of the S3 bucket")
	cmd.Flags().IntVar(&f.concurrency, "concurrency", ingest.DefaultConcurrency, "Parallel file downloads and parses")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 5*time.Minute, "Load timeout")
}

// applyConfigDefaults fills flags that were not set from the config file.
func (f *sourceFlags) applyConfigDefaults() {
	if f.folder == "" {
		f.folder = cfg.Folder
	}
	if f.bucket == "" {
		f.bucket = cfg.S3.Bucket
	}
	if f.prefix == "" {
		f.prefix = cfg.S3.Prefix
	}
	if f.region == "" {
		f.region = cfg.S3.Region
	}
	if f.concurrency == ingest.DefaultConcurrency && cfg.Concurrency > 0 {
		f.concurrency = cfg.Concurrency
	}
	if f.timeout == 5*time.Minute && cfg.TimeoutDuration() > 0 {
		f.timeout = cfg.TimeoutDuration()
	}
}

// describe returns a human-readable list of the configured sources.
func (f *sourceFlags) describe() string {
	switch {
	case f.folder != "" && f.bucket != "":
		return fmt.Sprintf("%s, s3://%s/%s", f.folder, f.bucket, f.prefix)
	case f.bucket != "":
		return fmt.Sprintf("s3://%s/%s", f.bucket, f.prefix)
	default:
		return f.folder
	}
}

func (f *sourceFlags) sources(ctx context.Context) ([]ingest.Source, error) {
	var sources []ingest.Source
	if f.folder != "" {
		sources = append(sources, ingest.FolderSource{Dir: f.folder, Concurrency: f.concurrency})
	}

	if f.bucket != "" {
		prof := profile
		if prof == "" {
			prof = cfg.S3.Profile
		}
		client, err := aws.NewClient(ctx, prof, f.region)
		if err != nil {
			return nil, enhanceError("initialize AWS client", err)
		}
		if account, err := client.CallerAccount(ctx); err != nil {
			slog.Warn("Could not resolve caller account", "error", err)
		} else {
			slog.Info("Reading exports from S3", "bucket", f.bucket, "prefix", f.prefix, "account", account)
		}
		sources = append(sources, aws.NewS3Source(client.S3(), f.bucket, f.prefix, f.concurrency))
	}

	if len(sources) == 0 {
		return nil, fmt.Errorf("no source configured; use --folder or --bucket, or set folder/s3.bucket in .compliancespectre.yaml")
	}
	return sources, nil
}

// loadEngine reads every configured source and builds the aggregation engine.
// The returned skipped list covers both unreadable files and tables the
// engine could not normalize.
func (f *sourceFlags) loadEngine(ctx context.Context) (*compliance.Engine, []ingest.SkippedSource, error) {
	f.applyConfigDefaults()

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	sources, err := f.sources(ctx)
	if err != nil {
		return nil, nil, err
	}

	batch, err := ingest.LoadAll(ctx, f.concurrency, sources...)
	if err != nil {
		return nil, nil, enhanceError("load compliance exports", err)
	}

	engine := compliance.NewEngine(batch.Tables, cfg.EngineOptions())
	skipped := append([]ingest.SkippedSource{}, batch.Skipped...)
	for _, s := range engine.Skipped() {
		skipped = append(skipped, ingest.SkippedSource{Name: s.Name, Reason: s.Reason})
	}
	return engine, skipped, nil
}
