package okta

import (
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

// awsRoleAttribute is the SAML attribute carrying the role pairs the
// app grants
const awsRoleAttribute = "https://aws.amazon.com/SAML/Attributes/Role"

// samlResponsePattern extracts the SAMLResponse hidden input from the
// app's HTML form
var samlResponsePattern = regexp.MustCompile(`name="SAMLResponse"[^>]*value="([^"]+)"`)

// Role is one (IdP, role) pair granted by the SAML assertion
type Role struct {
	PrincipalARN string
	RoleARN      string
}

// Name returns the short role name from the role ARN
func (r Role) Name() string {
	if i := strings.LastIndex(r.RoleARN, "/"); i >= 0 {
		return r.RoleARN[i+1:]
	}
	return r.RoleARN
}

// FetchSAMLAssertion exchanges a one-time session token for the
// base64-encoded SAML assertion served by the Okta AWS app.
func (c *Client) FetchSAMLAssertion(appURL, sessionToken string) (string, error) {
	reqURL := fmt.Sprintf("%s?onetimetoken=%s", appURL, url.QueryEscape(sessionToken))

	resp, err := c.get(reqURL)
	if err != nil {
		return "", fmt.Errorf("app request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("app request failed with status %d: %s", resp.StatusCode, string(body))
	}

	page, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read app response: %w", err)
	}

	match := samlResponsePattern.FindSubmatch(page)
	if match == nil {
		return "", fmt.Errorf("no SAMLResponse found in app response; check the okta_aws_app_url setting")
	}

	// The form value is HTML-escaped inside the page
	return html.UnescapeString(string(match[1])), nil
}

// samlAssertion is the subset of the assertion XML we care about
type samlAssertion struct {
	Attributes []struct {
		Name   string   `xml:"Name,attr"`
		Values []string `xml:"AttributeValue"`
	} `xml:"Assertion>AttributeStatement>Attribute"`
}

// ParseRoles extracts the AWS role pairs from a base64-encoded SAML
// assertion. Each attribute value is "principal_arn,role_arn" (either
// order; the role ARN is the one containing ":role/").
func ParseRoles(assertion string) ([]Role, error) {
	decoded, err := base64.StdEncoding.DecodeString(assertion)
	if err != nil {
		return nil, fmt.Errorf("failed to decode SAML assertion: %w", err)
	}

	var parsed samlAssertion
	if err := xml.Unmarshal(decoded, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse SAML assertion: %w", err)
	}

	var roles []Role
	for _, attr := range parsed.Attributes {
		if attr.Name != awsRoleAttribute {
			continue
		}
		for _, value := range attr.Values {
			role, err := parseRolePair(value)
			if err != nil {
				return nil, err
			}
			roles = append(roles, role)
		}
	}

	if len(roles) == 0 {
		return nil, fmt.Errorf("SAML assertion grants no AWS roles")
	}

	return roles, nil
}

func parseRolePair(value string) (Role, error) {
	parts := strings.Split(strings.TrimSpace(value), ",")
	if len(parts) != 2 {
		return Role{}, fmt.Errorf("malformed role attribute value: %s", value)
	}

	first, second := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if strings.Contains(first, ":role/") {
		return Role{PrincipalARN: second, RoleARN: first}, nil
	}
	if strings.Contains(second, ":role/") {
		return Role{PrincipalARN: first, RoleARN: second}, nil
	}
	return Role{}, fmt.Errorf("role attribute value contains no role ARN: %s", value)
}
