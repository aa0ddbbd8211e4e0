package aws

import (
	"context"
	"errors"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

type mockSTSClient struct {
	account *string
	err     error
}

func (m *mockSTSClient) GetCallerIdentity(_ context.Context, _ *sts.GetCallerIdentityInput, _ ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &sts.GetCallerIdentityOutput{Account: m.account}, nil
}

func TestCallerAccount(t *testing.T) {
	got, err := callerAccount(context.Background(), &mockSTSClient{account: awssdk.String("123456789012")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "123456789012" {
		t.Fatalf("expected account 123456789012, got %s", got)
	}
}

func TestCallerAccount_Errors(t *testing.T) {
	if _, err := callerAccount(context.Background(), &mockSTSClient{err: errors.New("ExpiredToken")}); err == nil {
		t.Fatal("expected error from STS")
	}
	if _, err := callerAccount(context.Background(), &mockSTSClient{}); err == nil {
		t.Fatal("expected error for empty account")
	}
}
