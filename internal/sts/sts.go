// Package sts exchanges a SAML assertion for temporary AWS
// credentials via the STS AssumeRoleWithSAML operation.
package sts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"
)

// Credentials is the temporary key set returned by STS
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	Expiration      time.Time
}

// AssumeRoleWithSAML trades the assertion for temporary credentials.
// The call is unsigned; the assertion itself is the credential.
func AssumeRoleWithSAML(ctx context.Context, principalArn, roleArn, assertion string, sessionDuration time.Duration) (*Credentials, error) {
	cfg := aws.Config{
		Credentials: aws.AnonymousCredentials{},
		Region:      "us-east-1",
	}

	stsClient := sts.NewFromConfig(cfg)

	input := &sts.AssumeRoleWithSAMLInput{
		PrincipalArn:    aws.String(principalArn),
		RoleArn:         aws.String(roleArn),
		SAMLAssertion:   aws.String(assertion),
		DurationSeconds: aws.Int32(int32(sessionDuration.Seconds())),
	}

	result, err := stsClient.AssumeRoleWithSAML(ctx, input)
	if err != nil {
		return nil, formatSTSError(err, roleArn)
	}

	return &Credentials{
		AccessKeyID:     *result.Credentials.AccessKeyId,
		SecretAccessKey: *result.Credentials.SecretAccessKey,
		SessionToken:    *result.Credentials.SessionToken,
		Expiration:      *result.Credentials.Expiration,
	}, nil
}

// formatSTSError converts AWS SDK errors into user-friendly error messages
func formatSTSError(err error, roleArn string) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		message := apiErr.ErrorMessage()

		switch code {
		case "AccessDenied":
			return fmt.Errorf("access denied: cannot assume role '%s' - "+
				"common causes: the SAML assertion does not grant this role, "+
				"or the role's trust policy does not authorize the Okta identity provider", roleArn)
		case "ExpiredTokenException":
			return fmt.Errorf("expired assertion: the SAML assertion is no longer valid - authenticate again")
		case "InvalidIdentityToken":
			return fmt.Errorf("invalid assertion: the SAML assertion is malformed or cannot be validated")
		case "ValidationError":
			if strings.Contains(message, "DurationSeconds") {
				return fmt.Errorf("invalid session duration: %s - lower the sts_duration setting "+
					"or raise the role's maximum session duration", message)
			}
			return fmt.Errorf("STS validation error: %s", message)
		default:
			if message != "" {
				return fmt.Errorf("STS error [%s]: %s", code, message)
			}
			return fmt.Errorf("STS error [%s]: assume role failed for '%s'", code, roleArn)
		}
	}

	return fmt.Errorf("failed to assume role '%s': %w", roleArn, err)
}
