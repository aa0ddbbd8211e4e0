package aws

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/ppiankov/compliancespectre/internal/ingest"
)

const exportCSV = "ACCOUNTID;REGION;ASSESSMENTDATE;CHECKID;STATUS;MUTED;RESOURCEID;STATUSEXTENDED\n" +
	"111;eu-west-1;2024-01-02 10:00:00;iam_root_mfa;FAIL;False;arn:root;Root has no MFA\n"

type mockS3Client struct {
	pages   [][]string
	objects map[string]string
	listErr error
	calls   int
}

func (m *mockS3Client) ListObjectsV2(_ context.Context, input *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	page := m.calls
	m.calls++

	out := &s3.ListObjectsV2Output{}
	for _, key := range m.pages[page] {
		out.Contents = append(out.Contents, s3types.Object{Key: awssdk.String(key)})
	}
	if page+1 < len(m.pages) {
		out.IsTruncated = awssdk.Bool(true)
		out.NextContinuationToken = awssdk.String("next")
	}
	return out, nil
}

func (m *mockS3Client) GetObject(_ context.Context, input *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	body, ok := m.objects[*input.Key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestS3Source_Load(t *testing.T) {
	mock := &mockS3Client{
		pages: [][]string{
			{"exports/out_cis_2.0_aws.csv", "exports/readme.md"},
			{"exports/out_mitre_attack_aws.csv", "exports/gone.csv", "exports/header_only_aws.csv"},
		},
		objects: map[string]string{
			"exports/out_cis_2.0_aws.csv":      exportCSV,
			"exports/out_mitre_attack_aws.csv": exportCSV,
			"exports/header_only_aws.csv":      "ACCOUNTID;CHECKID\n",
		},
	}

	src := NewS3Source(mock, "audit-bucket", "exports/", 2)
	if src.Name() != "s3://audit-bucket/exports" {
		t.Fatalf("unexpected name %q", src.Name())
	}

	batch, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batch.Tables) != 2 {
		t.Fatalf("expected 2 tables, got %d", len(batch.Tables))
	}
	if batch.Tables[0].Name != "out_cis_2.0_aws.csv" {
		t.Fatalf("expected table named after the object base name, got %q", batch.Tables[0].Name)
	}
	if len(batch.Skipped) != 2 {
		t.Fatalf("expected 2 skipped objects, got %+v", batch.Skipped)
	}
}

func TestS3Source_ListError(t *testing.T) {
	mock := &mockS3Client{listErr: errors.New("AccessDenied")}
	if _, err := NewS3Source(mock, "b", "", 0).Load(context.Background()); err == nil {
		t.Fatal("expected listing error")
	}
}

func TestS3Source_NoObjects(t *testing.T) {
	mock := &mockS3Client{pages: [][]string{{"exports/readme.md"}}}
	_, err := NewS3Source(mock, "b", "exports", 0).Load(context.Background())
	if !errors.Is(err, ingest.ErrNoFiles) {
		t.Fatalf("expected ErrNoFiles, got %v", err)
	}
}
