package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ppiankov/compliancespectre/internal/ingest"
	"github.com/ppiankov/compliancespectre/internal/report"
)

func TestEnhanceError_NoCredentials(t *testing.T) {
	err := enhanceError("test", fmt.Errorf("NoCredentialProviders: no valid providers"))
	if !strings.Contains(err.Error(), "hint:") {
		t.Fatal("expected hint for NoCredentialProviders")
	}
	if !strings.Contains(err.Error(), "AWS_PROFILE") {
		t.Fatal("expected hint to mention AWS_PROFILE")
	}
}

func TestEnhanceError_Hints(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"expired token", fmt.Errorf("ExpiredToken: token has expired"), "sso login"},
		{"access denied", fmt.Errorf("AccessDenied: not authorized"), "compliancespectre init"},
		{"no bucket", fmt.Errorf("api error NoSuchBucket: gone"), "--bucket"},
		{"throttling", fmt.Errorf("SlowDown: reduce rate"), "--concurrency"},
		{"no files", fmt.Errorf("list exports: %w", ingest.ErrNoFiles), "--folder"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := enhanceError("load", tt.err)
			if !strings.Contains(err.Error(), "hint:") || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected hint containing %q, got %v", tt.want, err)
			}
			if !errors.Is(err, tt.err) {
				t.Fatal("expected original error to stay wrapped")
			}
		})
	}
}

func TestEnhanceError_GenericError(t *testing.T) {
	err := enhanceError("do something", fmt.Errorf("random error"))
	if strings.Contains(err.Error(), "hint:") {
		t.Fatal("expected no hint for generic error")
	}
	if !strings.Contains(err.Error(), "do something") {
		t.Fatal("expected action in error message")
	}
}

func TestComputeTargetHash(t *testing.T) {
	hash1 := computeTargetHash("./exports", "CIS_2.0 - AWS - Level_1")
	hash2 := computeTargetHash("./exports", "CIS_2.0 - AWS - Level_1")
	hash3 := computeTargetHash("./exports", "CIS_2.0 - AWS - Level_2")

	if hash1 != hash2 {
		t.Fatal("same input should produce same hash")
	}
	if hash1 == hash3 {
		t.Fatal("different input should produce different hash")
	}
	if !strings.HasPrefix(hash1, "sha256:") {
		t.Fatalf("expected sha256: prefix, got %s", hash1)
	}
}

func TestSelectReporter(t *testing.T) {
	for _, format := range []string{"text", "json", "sarif", "spectrehub"} {
		r, closeOutput, err := selectReporter(format, "")
		if err != nil || r == nil {
			t.Fatalf("format %s: %v", format, err)
		}
		if err := closeOutput(); err != nil {
			t.Fatalf("format %s: close stdout: %v", format, err)
		}
	}
}

func TestSelectReporter_OutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	r, closeOutput, err := selectReporter("json", path)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := r.Generate(report.Data{Tool: "compliancespectre"}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if err := closeOutput(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := closeOutput(); err == nil {
		t.Fatal("expected second close to fail on an already closed file")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(data), `"tool": "compliancespectre"`) {
		t.Fatalf("unexpected report %s", data)
	}
}

func TestSelectReporter_UnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xml")
	if _, _, err := selectReporter("xml", path); err == nil {
		t.Fatal("expected error for unsupported format")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("expected no output file for unsupported format")
	}
}

func TestSourceFlags_NoSource(t *testing.T) {
	f := sourceFlags{}
	if _, err := f.sources(context.Background()); err == nil {
		t.Fatal("expected error without folder or bucket")
	}
}

func TestSourceFlags_LoadEngine(t *testing.T) {
	dir := t.TempDir()
	csv := "ACCOUNTID;REGION;ASSESSMENTDATE;REQUIREMENTS_ID;CHECKID;STATUS;MUTED;RESOURCEID;STATUSEXTENDED\n" +
		"111;eu-west-1;2024-01-02 10:00:00;2.1;s3_bucket_public;FAIL;False;arn:bucket;public\n"
	if err := writeIfNotExists(dir+"/run_pci_4.0_aws.csv", csv, false); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if err := writeIfNotExists(dir+"/notes.csv", "", false); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	f := sourceFlags{folder: dir, concurrency: 2}
	engine, skipped, err := f.loadEngine(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := engine.ListFrameworks(); len(got) != 1 || got[0] != "PCI_4.0 - AWS" {
		t.Fatalf("unexpected frameworks %v", got)
	}
	if len(skipped) != 1 || skipped[0].Name != "notes.csv" {
		t.Fatalf("expected empty file skipped, got %+v", skipped)
	}
}
