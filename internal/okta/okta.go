// Package okta performs primary authentication and MFA verification
// against an Okta org, and trades the resulting session token for the
// SAML assertion served by the org's AWS app.
package okta

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/oktatools/okta-aws-assume/internal/version"
)

// Authentication timeouts and intervals
const (
	// AuthTimeout is the maximum time to wait for MFA verification
	AuthTimeout = 60 * time.Second
	// PushPollInterval is how often to poll a push factor for its result
	PushPollInterval = 5 * time.Second
)

// Client talks to one Okta org
type Client struct {
	OrgURL     string
	HTTPClient *http.Client
	Verbose    bool

	// PasscodePrompt supplies a TOTP passcode when a totp factor is
	// verified. Left nil, totp factors are rejected.
	PasscodePrompt func() (string, error)

	// PollInterval overrides PushPollInterval when non-zero
	PollInterval time.Duration
}

// NewClient creates a client for the given org. A bare hostname like
// myorg.okta.com is accepted and normalized to an https URL.
func NewClient(org string, verbose bool) *Client {
	return &Client{
		OrgURL:     NormalizeOrgURL(org),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Verbose:    verbose,
	}
}

// NormalizeOrgURL turns a bare Okta org hostname into a full https URL
func NormalizeOrgURL(org string) string {
	org = strings.TrimRight(org, "/")
	if org == "" {
		return org
	}
	if !strings.HasPrefix(org, "https://") && !strings.HasPrefix(org, "http://") {
		return "https://" + org
	}
	return org
}

// Authenticate performs primary authentication with username and
// password, driving MFA verification when the org requires it, and
// returns a one-time session token.
func (c *Client) Authenticate(username, password string) (string, error) {
	authnURL := fmt.Sprintf("%s/api/v1/authn", c.OrgURL)

	if c.Verbose {
		fmt.Fprintf(os.Stderr, "# Authenticating to %s as %s\n", c.OrgURL, username)
	}

	resp, err := c.postJSON(authnURL, authnRequest{Username: username, Password: password})
	if err != nil {
		return "", fmt.Errorf("authn request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var authn AuthnResponse
	if err := json.NewDecoder(resp.Body).Decode(&authn); err != nil {
		return "", fmt.Errorf("failed to parse authn response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", formatAuthnError(resp.StatusCode, &authn)
	}

	switch authn.Status {
	case "SUCCESS":
		return authn.SessionToken, nil
	case "MFA_REQUIRED":
		return c.verifyMFA(&authn)
	case "LOCKED_OUT":
		return "", fmt.Errorf("account is locked out; unlock it via your Okta org before retrying")
	case "PASSWORD_EXPIRED":
		return "", fmt.Errorf("password is expired; change it via your Okta org before retrying")
	default:
		return "", fmt.Errorf("unsupported authn status: %s", authn.Status)
	}
}

// verifyMFA picks an enrolled factor and verifies it. Push factors are
// preferred and polled until approved; totp factors prompt for a
// passcode.
func (c *Client) verifyMFA(authn *AuthnResponse) (string, error) {
	if len(authn.Embedded.Factors) == 0 {
		return "", fmt.Errorf("MFA required but no factors are enrolled")
	}

	factor := pickFactor(authn.Embedded.Factors)
	if factor == nil {
		return "", fmt.Errorf("no supported MFA factor enrolled (supported: push, token:software:totp)")
	}

	if c.Verbose {
		fmt.Fprintf(os.Stderr, "# Verifying MFA factor: %s (%s)\n", factor.FactorType, factor.Provider)
	}

	switch factor.FactorType {
	case "push":
		return c.verifyPush(factor, authn.StateToken)
	case "token:software:totp":
		if c.PasscodePrompt == nil {
			return "", fmt.Errorf("totp factor requires a passcode and no prompt is available")
		}
		passCode, err := c.PasscodePrompt()
		if err != nil {
			return "", fmt.Errorf("failed to read passcode: %w", err)
		}
		return c.verifyFactor(factor, verifyRequest{StateToken: authn.StateToken, PassCode: passCode})
	default:
		return "", fmt.Errorf("unsupported MFA factor type: %s", factor.FactorType)
	}
}

// pickFactor chooses push over totp when both are enrolled
func pickFactor(factors []Factor) *Factor {
	for i := range factors {
		if factors[i].FactorType == "push" {
			return &factors[i]
		}
	}
	for i := range factors {
		if factors[i].FactorType == "token:software:totp" {
			return &factors[i]
		}
	}
	return nil
}

// verifyPush polls the push factor until the user approves, rejects,
// or the verification times out.
func (c *Client) verifyPush(factor *Factor, stateToken string) (string, error) {
	fmt.Fprintf(os.Stderr, "# Push notification sent; check your device...\n")

	startTime := time.Now()
	for time.Since(startTime) < AuthTimeout {
		resp, err := c.postVerify(factor, verifyRequest{StateToken: stateToken})
		if err != nil {
			return "", err
		}

		if resp.Status == "SUCCESS" {
			return resp.SessionToken, nil
		}

		switch resp.FactorResult {
		case "WAITING":
			time.Sleep(c.pollInterval())
			continue
		case "REJECTED":
			return "", fmt.Errorf("push verification was rejected")
		case "TIMEOUT":
			return "", fmt.Errorf("push verification timed out on the Okta side")
		default:
			return "", fmt.Errorf("unexpected push factor result: %s", resp.FactorResult)
		}
	}

	return "", fmt.Errorf("MFA verification timeout after %v", AuthTimeout)
}

// verifyFactor performs a single verification call (totp path)
func (c *Client) verifyFactor(factor *Factor, req verifyRequest) (string, error) {
	resp, err := c.postVerify(factor, req)
	if err != nil {
		return "", err
	}
	if resp.Status != "SUCCESS" {
		return "", fmt.Errorf("MFA verification failed: %s", resp.ErrorSummary)
	}
	return resp.SessionToken, nil
}

func (c *Client) pollInterval() time.Duration {
	if c.PollInterval > 0 {
		return c.PollInterval
	}
	return PushPollInterval
}

func (c *Client) postVerify(factor *Factor, req verifyRequest) (*AuthnResponse, error) {
	verifyURL := factor.Links.Verify.Href
	if verifyURL == "" {
		verifyURL = fmt.Sprintf("%s/api/v1/authn/factors/%s/verify", c.OrgURL, factor.ID)
	}

	resp, err := c.postJSON(verifyURL, req)
	if err != nil {
		return nil, fmt.Errorf("verify request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var verify AuthnResponse
	if err := json.NewDecoder(resp.Body).Decode(&verify); err != nil {
		return nil, fmt.Errorf("failed to parse verify response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, formatAuthnError(resp.StatusCode, &verify)
	}

	return &verify, nil
}

// postJSON sends a JSON request with the tool's User-Agent set
func (c *Client) postJSON(reqURL string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.GetUserAgent())

	return c.HTTPClient.Do(req)
}

// get sends a GET request with the tool's User-Agent set
func (c *Client) get(reqURL string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", version.GetUserAgent())

	return c.HTTPClient.Do(req)
}

// formatAuthnError converts Okta API errors into user-friendly messages
func formatAuthnError(statusCode int, authn *AuthnResponse) error {
	switch authn.ErrorCode {
	case "E0000004":
		return fmt.Errorf("authentication failed: username or password is incorrect")
	case "E0000047":
		return fmt.Errorf("authentication failed: API rate limit exceeded, wait and retry")
	case "":
		return fmt.Errorf("authn request failed with status %d", statusCode)
	default:
		return fmt.Errorf("authn error [%s]: %s", authn.ErrorCode, authn.ErrorSummary)
	}
}
