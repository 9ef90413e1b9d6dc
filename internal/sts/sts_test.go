package sts

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aws/smithy-go"
)

func TestAssumeRoleWithSAML_InvalidInput(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	// No assertion can ever be valid here; the call must fail long
	// before returning credentials.
	_, err := AssumeRoleWithSAML(
		ctx,
		"arn:aws:iam::123456789012:saml-provider/Okta",
		"arn:aws:iam::123456789012:role/TestRole",
		"bm90LWEtcmVhbC1hc3NlcnRpb24=",
		time.Hour,
	)
	if err == nil {
		t.Error("AssumeRoleWithSAML() with a fake assertion should return error")
	}
}

func TestFormatSTSError(t *testing.T) {
	roleArn := "arn:aws:iam::123456789012:role/TestRole"

	tests := []struct {
		name        string
		code        string
		message     string
		wantContain string
	}{
		{
			name:        "access denied",
			code:        "AccessDenied",
			wantContain: "trust policy",
		},
		{
			name:        "expired assertion",
			code:        "ExpiredTokenException",
			wantContain: "authenticate again",
		},
		{
			name:        "invalid assertion",
			code:        "InvalidIdentityToken",
			wantContain: "malformed",
		},
		{
			name:        "duration validation",
			code:        "ValidationError",
			message:     "DurationSeconds exceeds the MaxSessionDuration set for this role",
			wantContain: "sts_duration",
		},
		{
			name:        "other validation",
			code:        "ValidationError",
			message:     "Invalid ARN format",
			wantContain: "Invalid ARN format",
		},
		{
			name:        "unknown code with message",
			code:        "SomethingElse",
			message:     "backend exploded",
			wantContain: "backend exploded",
		},
		{
			name:        "unknown code without message",
			code:        "SomethingElse",
			wantContain: "SomethingElse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := &smithy.GenericAPIError{Code: tt.code, Message: tt.message}
			err := formatSTSError(apiErr, roleArn)
			if err == nil {
				t.Fatal("formatSTSError() returned nil, expected error")
			}
			if !strings.Contains(err.Error(), tt.wantContain) {
				t.Errorf("formatSTSError() = %v, want to contain %q", err, tt.wantContain)
			}
		})
	}
}

func TestFormatSTSError_NonAPIError(t *testing.T) {
	err := formatSTSError(context.DeadlineExceeded, "arn:aws:iam::1:role/X")
	if err == nil {
		t.Fatal("formatSTSError() returned nil, expected error")
	}
	if !strings.Contains(err.Error(), "arn:aws:iam::1:role/X") {
		t.Errorf("formatSTSError() = %v, want role arn in message", err)
	}
}
