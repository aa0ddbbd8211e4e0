package ingest

import (
	"errors"
	"strings"
	"testing"
)

const sampleCSV = "\ufeffPROVIDER;ACCOUNTID;REGION;ASSESSMENTDATE;REQUIREMENTS_ID;CHECKID;STATUS;MUTED;RESOURCEID;STATUSEXTENDED\n" +
	"aws;111;eu-west-1;2024-01-02 10:00:00.123456;1.1;iam_root_mfa;FAIL;False;arn:root;Root has no MFA\n" +
	"aws;111;eu-west-1;2024-01-02 10:00:00.123456;1.2;iam_password_policy;PASS;False;arn:policy;\"Policy; strong\"\n" +
	"aws;111;broken row\n"

func TestParseCSV(t *testing.T) {
	table, err := ParseCSV("out_cis_2.0_aws.csv", strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if table.Name != "out_cis_2.0_aws.csv" {
		t.Fatalf("unexpected name %q", table.Name)
	}
	if len(table.Records) != 2 {
		t.Fatalf("expected 2 records, malformed row skipped, got %d", len(table.Records))
	}
	if !table.Has("PROVIDER") || !table.Has("CHECKID") || table.Has("PROJECTID") {
		t.Fatalf("unexpected columns %v", table.Columns)
	}

	r := table.Records[1]
	if r.AccountID != "111" || r.CheckID != "iam_password_policy" || r.StatusExtended != "Policy; strong" {
		t.Fatalf("unexpected record %+v", r)
	}
	if r.RequirementID != "1.2" || r.Muted != "False" {
		t.Fatalf("unexpected requirement fields %+v", r)
	}
}

func TestParseCSV_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"header only", "ACCOUNTID;CHECKID;STATUS\n", ErrNoRows},
		{"empty", "", ErrNoRows},
		{"no check column", "ACCOUNTID;STATUS\n111;PASS\n", ErrNoCheckColumn},
		{"invalid encoding", "ACCOUNTID;CHECKID\n111;\xff\xfe\n", ErrEncoding},
		{"only malformed rows", "ACCOUNTID;CHECKID;STATUS\n111\n", ErrNoRows},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCSV("x.csv", strings.NewReader(tt.input))
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestReason(t *testing.T) {
	if got := Reason(ErrEncoding); got != "encoding" {
		t.Fatalf("expected encoding, got %s", got)
	}
	if got := Reason(errors.New("boom")); got != "unreadable" {
		t.Fatalf("expected unreadable, got %s", got)
	}
}
