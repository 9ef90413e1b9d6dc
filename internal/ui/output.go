package ui

import (
	"fmt"
	"os"
	"time"

	"github.com/oktatools/okta-aws-assume/internal/sts"
)

// PrintExports prints credentials in shell-export form on stdout so
// the output can be eval'd instead of written to the credentials file
func PrintExports(creds *sts.Credentials, profile string) {
	fmt.Printf("export AWS_ACCESS_KEY_ID=%s\n", creds.AccessKeyID)
	fmt.Printf("export AWS_SECRET_ACCESS_KEY=%s\n", creds.SecretAccessKey)
	fmt.Printf("export AWS_SESSION_TOKEN='%s'\n", creds.SessionToken)
	if profile != "" {
		fmt.Printf("export AWS_PROFILE=%s\n", profile)
	}
	fmt.Printf("export AWS_CREDENTIAL_EXPIRATION=%s\n", creds.Expiration.Format(time.RFC3339))
}

// PrintSaved reports where credentials were written and for how long
// they are valid. Goes to stderr so stdout stays clean.
func PrintSaved(profile string, expiration time.Time) {
	fmt.Fprintf(os.Stderr, "# Credentials saved to profile: %s\n", profile)
	fmt.Fprintf(os.Stderr, "# Valid until: %s\n", expiration.Format(time.RFC3339))
	fmt.Fprintf(os.Stderr, "# Usage: aws --profile %s s3 ls\n", profile)
}
