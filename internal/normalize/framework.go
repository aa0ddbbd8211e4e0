package normalize

import (
	"path"
	"path/filepath"
	"strings"
)

// Provider identifies the cloud or platform family that produced an export.
type Provider string

const (
	ProviderAWS        Provider = "aws"
	ProviderGCP        Provider = "gcp"
	ProviderAzure      Provider = "azure"
	ProviderKubernetes Provider = "kubernetes"
	ProviderM365       Provider = "m365"
)

// providerSuffixes are applied in order to turn "_<TOKEN>" into " - <TOKEN>".
var providerSuffixes = []string{"GCP", "AZURE", "KUBERNETES", "M365"}

// DeriveFrameworkName turns a raw framework identifier (an export file name
// such as "prowler-output-123_cis_2.0_aws.csv") into its canonical name
// ("CIS_2.0 - AWS"). Only a ".csv" extension is removed, so versioned
// identifiers keep their dots. Canonical names are already upper-case and
// are returned unchanged, so the derivation is idempotent.
func DeriveFrameworkName(raw string) string {
	name := strings.TrimSpace(raw)
	if name == "" || IsCanonical(name) {
		return name
	}

	name = path.Base(filepath.ToSlash(name))
	if ext := path.Ext(name); strings.EqualFold(ext, csvExt) {
		name = strings.TrimSuffix(name, ext)
	}
	if _, rest, ok := strings.Cut(name, "_"); ok {
		name = rest
	}
	name = strings.ToUpper(name)

	if strings.Contains(name, "AWS") {
		// Frameworks already carrying an AWS_ prefix drop the provider suffix.
		if strings.Contains(name, "AWS_") {
			name = strings.ReplaceAll(name, "_AWS", "")
		} else {
			name = strings.ReplaceAll(name, "_AWS", " - AWS")
		}
	}
	for _, token := range providerSuffixes {
		name = strings.ReplaceAll(name, "_"+token, " - "+token)
	}
	return name
}

const csvExt = ".csv"

// IsCanonical reports whether name already has the canonical form, which is
// the case for every name upper-casing leaves unchanged.
func IsCanonical(name string) bool {
	return name == strings.ToUpper(name)
}

// ProviderOf infers the provider family from a canonical framework name.
func ProviderOf(framework string) Provider {
	upper := strings.ToUpper(framework)
	switch {
	case strings.Contains(upper, "KUBERNETES"):
		return ProviderKubernetes
	case strings.Contains(upper, "M365"):
		return ProviderM365
	case strings.Contains(upper, "AZURE"):
		return ProviderAzure
	case strings.Contains(upper, "GCP"):
		return ProviderGCP
	default:
		return ProviderAWS
	}
}
