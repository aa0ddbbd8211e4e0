package aws

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/compliancespectre/internal/finding"
	"github.com/ppiankov/compliancespectre/internal/ingest"
)

// S3API is the minimal interface for reading compliance exports from S3.
type S3API interface {
	ListObjectsV2(ctx context.Context, input *s3.ListObjectsV2Input, opts ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	GetObject(ctx context.Context, input *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads every .csv object under a bucket prefix.
type S3Source struct {
	client      S3API
	bucket      string
	prefix      string
	concurrency int
}

// NewS3Source creates a source for s3://bucket/prefix.
func NewS3Source(client S3API, bucket, prefix string, concurrency int) *S3Source {
	if concurrency <= 0 {
		concurrency = ingest.DefaultConcurrency
	}
	return &S3Source{client: client, bucket: bucket, prefix: prefix, concurrency: concurrency}
}

// Name implements ingest.Source.
func (s *S3Source) Name() string {
	return "s3://" + path.Join(s.bucket, s.prefix)
}

// Load implements ingest.Source. Objects that fail to download or parse are
// skipped; a failed listing aborts the load.
func (s *S3Source) Load(ctx context.Context) (*ingest.Batch, error) {
	keys, err := s.listKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list s3://%s/%s: %w", s.bucket, s.prefix, err)
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("%s: %w", s.Name(), ingest.ErrNoFiles)
	}

	var (
		mu    sync.Mutex
		batch ingest.Batch
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, key := range keys {
		key := key
		g.Go(func() error {
			slog.Debug("Fetching object", "bucket", s.bucket, "key", key)
			table, err := s.fetch(ctx, key)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				batch.Skipped = append(batch.Skipped, ingest.Skip(key, err))
				return nil
			}
			batch.Tables = append(batch.Tables, *table)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(batch.Tables, func(i, j int) bool { return batch.Tables[i].Name < batch.Tables[j].Name })
	return &batch, nil
}

func (s *S3Source) listKeys(ctx context.Context) ([]string, error) {
	input := &s3.ListObjectsV2Input{Bucket: aws.String(s.bucket)}
	if s.prefix != "" {
		input.Prefix = aws.String(strings.TrimPrefix(s.prefix, "/"))
	}

	var keys []string
	paginator := s3.NewListObjectsV2Paginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if ingest.IsCSV(key) {
				keys = append(keys, key)
			}
		}
	}
	return keys, nil
}

func (s *S3Source) fetch(ctx context.Context, key string) (*finding.RawTable, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get object: %w", err)
	}
	defer out.Body.Close()
	return ingest.ParseCSV(path.Base(key), out.Body)
}
