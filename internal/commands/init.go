package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var initFlags struct {
	force bool
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate sample config and IAM policy",
	Long:  `Creates a sample .compliancespectre.yaml config file and an IAM policy JSON file for
read-only access to compliance exports stored in S3.`,
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initFlags.force, "force", false, "Overwrite existing files")
}

func runInit(_ *cobra.Command, _ []string) error {
	configPath := ".compliancespectre.yaml"
	policyPath := "compliancespectre-policy.json"

	wrote := 0

	if err := writeIfNotExists(configPath, sampleConfig, initFlags.force); err != nil {
		return err
	}
	wrote++

	if err := writeIfNotExists(policyPath, sampleIAMPolicy, initFlags.force); err != nil {
		return err
	}
	wrote++

	if wrote > 0 {
		fmt.Printf("Created %s and %s\n", configPath, policyPath)
		fmt.Println("\nNext steps:")
		fmt.Println("  1. Edit .compliancespectre.yaml to point at your exports")
		fmt.Println("  2. For S3 sources, apply compliancespectre-policy.json to your AWS IAM role/user")
		fmt.Println("  3. Run: compliancespectre frameworks")
	}
	return nil
}

func writeIfNotExists(path, content string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			fmt.Printf("Skipping %s (already exists, use --force to overwrite)\n", path)
			return nil
		}
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return os.WriteFile(path, []byte(content), 0o644)
}

const sampleConfig = `# compliancespectre configuration
# See: https://github.com/ppiankov/compliancespectre

# Folder with compliance CSV exports (one file per framework)
folder: ./output/compliance

# Exports stored in S3 (read in addition to folder when set)
# s3:
#   bucket: my-compliance-exports
#   prefix: output/compliance/
#   profile: default
#   region: eu-west-1

# Output format: text, json, sarif, spectrehub
format: text

# Load timeout
timeout: 5m

# Parallel file downloads and parses
concurrency: 4

# Listen address for 'compliancespectre serve'
# listen: ":8080"

# Maximum length of ranked labels before truncation
label_max_length: 43

# Frameworks that get weighted pillar scores
risk_scored:
  - THREATSCORE

# Preferred ranking dimension per framework (matched by substring)
dimension_preferences:
  - match: PCI
    dimension: requirement_id
  - match: THREATSCORE
    dimension: pillar
`

const sampleIAMPolicy = `{
  "Version": "2012-10-17",
  "Statement": [
    {
      "Sid": "ComplianceSpectreReadExports",
      "Effect": "Allow",
      "Action": [
        "s3:ListBucket",
        "s3:GetObject"
      ],
      "Resource": [
        "arn:aws:s3:::my-compliance-exports",
        "arn:aws:s3:::my-compliance-exports/*"
      ]
    },
    {
      "Sid": "ComplianceSpectreIdentity",
      "Effect": "Allow",
      "Action": [
        "sts:GetCallerIdentity"
      ],
      "Resource": "*"
    }
  ]
}
`
