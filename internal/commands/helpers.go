package commands

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"

	"github.com/ppiankov/compliancespectre/internal/ingest"
)

// enhanceError wraps an error with context and suggestions for common source issues.
func enhanceError(action string, err error) error {
	msg := err.Error()

	var hint string
	switch {
	case errors.Is(err, ingest.ErrNoFiles):
		hint = "No .csv exports found. Check --folder, or --bucket/--prefix for S3 sources"
	case strings.Contains(msg, "NoCredentialProviders"):
		hint = "Configure AWS credentials: set AWS_PROFILE, AWS_ACCESS_KEY_ID/AWS_SECRET_ACCESS_KEY, or run 'aws configure'"
	case strings.Contains(msg, "ExpiredToken"):
		hint = "AWS session token expired. Refresh credentials or run 'aws sso login'"
	case strings.Contains(msg, "NoSuchBucket"):
		hint = "Bucket does not exist. Check --bucket and --s3-region"
	case strings.Contains(msg, "AccessDenied") || strings.Contains(msg, "UnauthorizedAccess"):
		hint = "Insufficient permissions. Apply the IAM policy from 'compliancespectre init' to your role/user"
	case strings.Contains(msg, "RequestExpired"):
		hint = "Request expired. Check system clock synchronization"
	case strings.Contains(msg, "SlowDown") || strings.Contains(msg, "Throttling"):
		hint = "AWS API rate limit hit. Retry with a lower --concurrency"
	}

	if hint != "" {
		return fmt.Errorf("%s: %w\n  hint: %s", action, err, hint)
	}
	return fmt.Errorf("%s: %w", action, err)
}

// computeTargetHash generates a SHA256 hash for the source and framework.
func computeTargetHash(source, framework string) string {
	input := fmt.Sprintf("source:%s,framework:%s", source, framework)
	h := sha256.Sum256([]byte(input))
	return fmt.Sprintf("sha256:%x", h)
}
