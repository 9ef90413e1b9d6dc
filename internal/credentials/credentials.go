// Package credentials drives the authentication flow end to end:
// fill in missing settings (prompting when interactive), authenticate
// to Okta, pick a role from the SAML assertion, exchange it at STS,
// and persist the temporary keys into the awscli credentials file.
package credentials

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/ini.v1"

	"github.com/oktatools/okta-aws-assume/internal/okta"
	"github.com/oktatools/okta-aws-assume/internal/settings"
	"github.com/oktatools/okta-aws-assume/internal/sts"
	"github.com/oktatools/okta-aws-assume/internal/ui"
	"github.com/oktatools/okta-aws-assume/pkg/duration"
)

// GetCredentials authenticates to Okta per the resolved settings and
// returns temporary AWS credentials for the selected role.
func GetCredentials(ctx context.Context, s *settings.Settings) (*sts.Credentials, error) {
	username, password, err := resolveLogin(s)
	if err != nil {
		return nil, err
	}

	if err := requireSettings(s); err != nil {
		return nil, err
	}

	sessionDuration, err := duration.Parse(s.STSDuration)
	if err != nil {
		return nil, fmt.Errorf("invalid sts_duration: %w", err)
	}
	if err := duration.Validate(sessionDuration); err != nil {
		return nil, err
	}

	client := okta.NewClient(s.OktaOrg, s.Verbose)
	if s.Interactive {
		client.PasscodePrompt = ui.PromptPasscode
	}

	sessionToken, err := client.Authenticate(username, password)
	if err != nil {
		return nil, fmt.Errorf("okta authentication failed: %w", err)
	}

	if s.Verbose {
		fmt.Fprintf(os.Stderr, "# Fetching SAML assertion from AWS app\n")
	}

	assertion, err := client.FetchSAMLAssertion(s.OktaAWSAppURL, sessionToken)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch SAML assertion: %w", err)
	}

	roles, err := okta.ParseRoles(assertion)
	if err != nil {
		return nil, err
	}

	role, err := selectRole(roles, s)
	if err != nil {
		return nil, err
	}

	if s.Verbose {
		fmt.Fprintf(os.Stderr, "# Assuming role: %s\n", role.RoleARN)
		fmt.Fprintf(os.Stderr, "# Session duration: %d seconds (%s)\n", int(sessionDuration.Seconds()), duration.Format(sessionDuration))
	}

	creds, err := sts.AssumeRoleWithSAML(ctx, role.PrincipalARN, role.RoleARN, assertion, sessionDuration)
	if err != nil {
		return nil, err
	}

	return creds, nil
}

// resolveLogin returns the username and password, prompting for
// whichever is missing when the run is interactive.
func resolveLogin(s *settings.Settings) (string, string, error) {
	username := s.Username
	password := s.Password

	if username == "" && s.Interactive {
		var err error
		username, err = ui.PromptUsername()
		if err != nil {
			return "", "", fmt.Errorf("failed to read username: %w", err)
		}
	}
	if password == "" && s.Interactive {
		var err error
		password, err = ui.PromptPassword()
		if err != nil {
			return "", "", fmt.Errorf("failed to read password: %w", err)
		}
	}

	var missing []string
	if username == "" {
		missing = append(missing, "username")
	}
	if password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return "", "", fmt.Errorf("missing required settings in non-interactive mode: %s", strings.Join(missing, ", "))
	}

	return username, password, nil
}

// requireSettings checks the settings that can never be prompted for
func requireSettings(s *settings.Settings) error {
	var missing []string
	if s.OktaOrg == "" {
		missing = append(missing, "okta_org")
	}
	if s.OktaAWSAppURL == "" {
		missing = append(missing, "okta_aws_app_url")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required settings: %s (set via cli, env vars, or config file)", strings.Join(missing, ", "))
	}
	return nil
}

// selectRole picks the role to assume: the configured
// aws_role_to_assume when set, the only granted role when there is
// exactly one, an interactive selection otherwise.
func selectRole(roles []okta.Role, s *settings.Settings) (okta.Role, error) {
	if s.AWSRoleToAssume != "" {
		for _, role := range roles {
			if matchRole(role, s.AWSRoleToAssume) {
				return role, nil
			}
		}
		return okta.Role{}, fmt.Errorf("role '%s' is not granted by the SAML assertion. Granted roles: %s",
			s.AWSRoleToAssume, strings.Join(roleLabels(roles), ", "))
	}

	if len(roles) == 1 {
		return roles[0], nil
	}

	if !s.Interactive {
		return okta.Role{}, fmt.Errorf("multiple roles granted and no aws_role_to_assume set in non-interactive mode. Granted roles: %s",
			strings.Join(roleLabels(roles), ", "))
	}

	index, err := ui.SelectRole(roleLabels(roles))
	if err != nil {
		return okta.Role{}, fmt.Errorf("role selection failed: %w", err)
	}
	return roles[index], nil
}

// matchRole accepts a full role ARN, a bare role name, or the
// "<aws_accnt_id>/<role_name>[/...]" form used by the config file.
func matchRole(role okta.Role, want string) bool {
	if role.RoleARN == want || role.Name() == want {
		return true
	}

	parts := strings.Split(want, "/")
	if len(parts) >= 2 {
		return strings.Contains(role.RoleARN, fmt.Sprintf("::%s:role/%s", parts[0], parts[1]))
	}

	return false
}

func roleLabels(roles []okta.Role) []string {
	labels := make([]string, len(roles))
	for i, role := range roles {
		labels[i] = role.RoleARN
	}
	return labels
}

// Save writes the credentials into the awscli credentials file under
// the given profile section, creating the file when absent. Respects
// AWS_SHARED_CREDENTIALS_FILE the way the awscli does.
func Save(profile string, creds *sts.Credentials) error {
	path, err := credentialsPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}

	file := ini.Empty()
	if _, err := os.Stat(path); err == nil {
		file, err = ini.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load credentials file: %w", err)
		}
	}

	if profile == "" {
		profile = "default"
	}

	section := file.Section(profile)
	section.Key("aws_access_key_id").SetValue(creds.AccessKeyID)
	section.Key("aws_secret_access_key").SetValue(creds.SecretAccessKey)
	section.Key("aws_session_token").SetValue(creds.SessionToken)
	section.Key("aws_session_expiration").SetValue(creds.Expiration.Format(time.RFC3339))

	if err := file.SaveTo(path); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}
	if err := os.Chmod(path, 0o600); err != nil {
		return fmt.Errorf("failed to set credentials file permissions: %w", err)
	}

	return nil
}

func credentialsPath() (string, error) {
	if path := os.Getenv("AWS_SHARED_CREDENTIALS_FILE"); path != "" {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find home directory: %w", err)
	}
	return filepath.Join(homeDir, ".aws", "credentials"), nil
}
