package normalize

import (
	"errors"
	"testing"
	"time"

	"github.com/ppiankov/compliancespectre/internal/finding"
)

func columns(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

func TestNormalize_AWSAccountAndRegion(t *testing.T) {
	table := finding.RawTable{
		Name:    "out_cis_2.0_aws.csv",
		Columns: columns(finding.ColAccountID, finding.ColRegion, finding.ColAssessmentDate, finding.ColCheckID, finding.ColStatus, finding.ColMuted, finding.ColProfile),
		Records: []finding.RawRecord{
			{AccountID: "111", Region: "us-east-1", AssessmentDate: "2024-01-02 10:00:00.123456", CheckID: "C1", Status: "fail", Muted: "False", Profile: "Level 1 - Automated"},
			{AccountID: "111", Region: "", AssessmentDate: "2024-01-02T10:00:00", CheckID: "C2", Status: "PASS", Muted: "True", Profile: "Level 2"},
		},
	}

	res, err := Normalize(table)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Framework != "CIS_2.0 - AWS" {
		t.Fatalf("expected framework CIS_2.0 - AWS, got %q", res.Framework)
	}
	if len(res.Findings) != 2 {
		t.Fatalf("expected 2 findings, got %d", len(res.Findings))
	}

	f := res.Findings[0]
	if f.AccountIdentifier != "111" || f.LocationIdentifier != "us-east-1" {
		t.Fatalf("unexpected identity %q/%q", f.AccountIdentifier, f.LocationIdentifier)
	}
	if f.Status != finding.StatusFail {
		t.Fatalf("expected FAIL, got %s", f.Status)
	}
	if f.Muted {
		t.Fatal("expected unmuted finding")
	}
	if f.Requirement.Profile.Value != "Level 1" {
		t.Fatalf("expected truncated profile, got %q", f.Requirement.Profile.Value)
	}
	if f.Requirement.Section.Present {
		t.Fatal("expected section to be absent")
	}
	if !f.AssessmentTimestamp.Equal(time.Date(2024, 1, 2, 10, 0, 0, 123456000, time.UTC)) {
		t.Fatalf("unexpected timestamp %v", f.AssessmentTimestamp)
	}

	if res.Findings[1].LocationIdentifier != finding.LocationNone {
		t.Fatalf("expected empty region to default to -, got %q", res.Findings[1].LocationIdentifier)
	}
	if !res.Findings[1].Muted {
		t.Fatal("expected muted finding")
	}
}

func TestNormalize_IdentityPrecedence(t *testing.T) {
	tests := []struct {
		name         string
		file         string
		cols         []string
		rec          finding.RawRecord
		wantAccount  string
		wantLocation string
	}{
		{
			name:         "gcp project forces location sentinel",
			file:         "out_cis_2.0_gcp.csv",
			cols:         []string{finding.ColProjectID, finding.ColLocation},
			rec:          finding.RawRecord{ProjectID: "proj-1", Location: "europe-west1"},
			wantAccount:  "proj-1",
			wantLocation: "-",
		},
		{
			name:         "azure v2 subscription id",
			file:         "out_cis_2.0_azure.csv",
			cols:         []string{finding.ColSubscriptionID, finding.ColLocation},
			rec:          finding.RawRecord{SubscriptionID: "sub-1", Location: "westeurope"},
			wantAccount:  "sub-1",
			wantLocation: "-",
		},
		{
			name:         "azure v3 subscription name",
			file:         "out_cis_3.0_azure.csv",
			cols:         []string{finding.ColSubscription, finding.ColLocation},
			rec:          finding.RawRecord{Subscription: "Production", Location: "westeurope"},
			wantAccount:  "Production",
			wantLocation: "-",
		},
		{
			name:         "explicit account wins over subscription",
			file:         "out_cis_2.0_azure.csv",
			cols:         []string{finding.ColAccountID, finding.ColSubscriptionID, finding.ColLocation},
			rec:          finding.RawRecord{AccountID: "acc-1", SubscriptionID: "sub-1", Location: "westeurope"},
			wantAccount:  "acc-1",
			wantLocation: "westeurope",
		},
		{
			name:         "kubernetes context and namespace",
			file:         "out_cis_1.8_kubernetes.csv",
			cols:         []string{finding.ColContext, finding.ColNamespace},
			rec:          finding.RawRecord{Context: "kind-dev", Namespace: "kube-system"},
			wantAccount:  "kind-dev",
			wantLocation: "kube-system",
		},
		{
			name:         "m365 tenant and location",
			file:         "out_cis_4.0_m365.csv",
			cols:         []string{finding.ColTenantID, finding.ColLocation},
			rec:          finding.RawRecord{TenantID: "tenant-1", Location: "global"},
			wantAccount:  "tenant-1",
			wantLocation: "global",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.rec.AssessmentDate = "2024-01-02 10:00:00"
			table := finding.RawTable{
				Name:    tt.file,
				Columns: columns(append(tt.cols, finding.ColAssessmentDate, finding.ColCheckID)...),
				Records: []finding.RawRecord{tt.rec},
			}
			res, err := Normalize(table)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			f := res.Findings[0]
			if f.AccountIdentifier != tt.wantAccount {
				t.Fatalf("expected account %q, got %q", tt.wantAccount, f.AccountIdentifier)
			}
			if f.LocationIdentifier != tt.wantLocation {
				t.Fatalf("expected location %q, got %q", tt.wantLocation, f.LocationIdentifier)
			}
		})
	}
}

func TestNormalize_DropsUnparseableTimestamps(t *testing.T) {
	table := finding.RawTable{
		Name:    "out_cis_2.0_aws.csv",
		Columns: columns(finding.ColAccountID, finding.ColAssessmentDate, finding.ColCheckID),
		Records: []finding.RawRecord{
			{AccountID: "111", AssessmentDate: "not-a-date", CheckID: "C1"},
			{AccountID: "111", AssessmentDate: "2024-01-02", CheckID: "C2"},
		},
	}

	res, err := Normalize(table)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Dropped != 1 {
		t.Fatalf("expected 1 dropped row, got %d", res.Dropped)
	}
	if len(res.Findings) != 1 || res.Findings[0].CheckID != "C2" {
		t.Fatalf("expected only C2 to survive, got %+v", res.Findings)
	}
}

func TestNormalize_NoIdentityColumn(t *testing.T) {
	table := finding.RawTable{
		Name:    "out_cis_2.0_aws.csv",
		Columns: columns(finding.ColCheckID, finding.ColStatus),
	}
	_, err := Normalize(table)
	if !errors.Is(err, ErrNoIdentityColumn) {
		t.Fatalf("expected ErrNoIdentityColumn, got %v", err)
	}
}

func TestTruncateProfile(t *testing.T) {
	if got := TruncateProfile("Level 1 - Manual"); got != "Level 1" {
		t.Fatalf("expected Level 1, got %q", got)
	}
	if got := TruncateProfile("E3 Level 2"); got != "E3 Level 2" {
		t.Fatalf("expected unchanged profile, got %q", got)
	}
}

func TestParseTimestamp(t *testing.T) {
	valid := []string{
		"2024-01-02T10:00:00Z",
		"2024-01-02T10:00:00.5+02:00",
		"2024-01-02 10:00:00",
		"2024-01-02 10:00:00.123456",
		"2024-01-02T10:00",
		"2024-01-02",
	}
	for _, v := range valid {
		if _, err := ParseTimestamp(v); err != nil {
			t.Fatalf("expected %q to parse: %v", v, err)
		}
	}
	if _, err := ParseTimestamp("yesterday"); err == nil {
		t.Fatal("expected error for invalid timestamp")
	}
}
