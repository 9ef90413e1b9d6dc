package okta

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const samlAssertionXML = `<?xml version="1.0" encoding="UTF-8"?>
<saml2p:Response xmlns:saml2p="urn:oasis:names:tc:SAML:2.0:protocol">
  <saml2:Assertion xmlns:saml2="urn:oasis:names:tc:SAML:2.0:assertion">
    <saml2:AttributeStatement>
      <saml2:Attribute Name="https://aws.amazon.com/SAML/Attributes/Role">
        <saml2:AttributeValue>arn:aws:iam::123456789012:saml-provider/Okta,arn:aws:iam::123456789012:role/AWSAdmin</saml2:AttributeValue>
        <saml2:AttributeValue>arn:aws:iam::123456789012:role/ReadOnly,arn:aws:iam::123456789012:saml-provider/Okta</saml2:AttributeValue>
      </saml2:Attribute>
      <saml2:Attribute Name="https://aws.amazon.com/SAML/Attributes/RoleSessionName">
        <saml2:AttributeValue>user@example.com</saml2:AttributeValue>
      </saml2:Attribute>
    </saml2:AttributeStatement>
  </saml2:Assertion>
</saml2p:Response>`

func encodedAssertion() string {
	return base64.StdEncoding.EncodeToString([]byte(samlAssertionXML))
}

func TestParseRoles(t *testing.T) {
	roles, err := ParseRoles(encodedAssertion())
	if err != nil {
		t.Fatalf("ParseRoles() unexpected error: %v", err)
	}

	if len(roles) != 2 {
		t.Fatalf("ParseRoles() returned %d roles, want 2", len(roles))
	}

	// Role ARN is recognized regardless of pair order
	if roles[0].RoleARN != "arn:aws:iam::123456789012:role/AWSAdmin" {
		t.Errorf("roles[0].RoleARN = %q, want AWSAdmin arn", roles[0].RoleARN)
	}
	if roles[0].PrincipalARN != "arn:aws:iam::123456789012:saml-provider/Okta" {
		t.Errorf("roles[0].PrincipalARN = %q, want saml-provider arn", roles[0].PrincipalARN)
	}
	if roles[1].RoleARN != "arn:aws:iam::123456789012:role/ReadOnly" {
		t.Errorf("roles[1].RoleARN = %q, want ReadOnly arn", roles[1].RoleARN)
	}
}

func TestParseRoles_Errors(t *testing.T) {
	tests := []struct {
		name      string
		assertion string
	}{
		{
			name:      "not base64",
			assertion: "not-base64!!!",
		},
		{
			name:      "not xml",
			assertion: base64.StdEncoding.EncodeToString([]byte("plain text")),
		},
		{
			name: "no role attribute",
			assertion: base64.StdEncoding.EncodeToString([]byte(`<?xml version="1.0"?>
<Response><Assertion><AttributeStatement>
  <Attribute Name="something-else"><AttributeValue>x</AttributeValue></Attribute>
</AttributeStatement></Assertion></Response>`)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseRoles(tt.assertion); err == nil {
				t.Error("ParseRoles() expected error but got none")
			}
		})
	}
}

func TestParseRolePair(t *testing.T) {
	tests := []struct {
		name          string
		value         string
		wantRole      string
		wantPrincipal string
		wantErr       bool
	}{
		{
			name:          "principal first",
			value:         "arn:aws:iam::1:saml-provider/Okta,arn:aws:iam::1:role/Admin",
			wantRole:      "arn:aws:iam::1:role/Admin",
			wantPrincipal: "arn:aws:iam::1:saml-provider/Okta",
		},
		{
			name:          "role first",
			value:         "arn:aws:iam::1:role/Admin,arn:aws:iam::1:saml-provider/Okta",
			wantRole:      "arn:aws:iam::1:role/Admin",
			wantPrincipal: "arn:aws:iam::1:saml-provider/Okta",
		},
		{
			name:    "single value",
			value:   "arn:aws:iam::1:role/Admin",
			wantErr: true,
		},
		{
			name:    "no role arn",
			value:   "arn:aws:iam::1:saml-provider/A,arn:aws:iam::1:saml-provider/B",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role, err := parseRolePair(tt.value)
			if tt.wantErr {
				if err == nil {
					t.Error("parseRolePair() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseRolePair() unexpected error: %v", err)
			}
			if role.RoleARN != tt.wantRole {
				t.Errorf("RoleARN = %q, want %q", role.RoleARN, tt.wantRole)
			}
			if role.PrincipalARN != tt.wantPrincipal {
				t.Errorf("PrincipalARN = %q, want %q", role.PrincipalARN, tt.wantPrincipal)
			}
		})
	}
}

func TestRoleName(t *testing.T) {
	tests := []struct {
		name string
		role Role
		want string
	}{
		{
			name: "standard arn",
			role: Role{RoleARN: "arn:aws:iam::123456789012:role/AWSAdmin"},
			want: "AWSAdmin",
		},
		{
			name: "path in role",
			role: Role{RoleARN: "arn:aws:iam::123456789012:role/team/AWSAdmin"},
			want: "AWSAdmin",
		},
		{
			name: "no slash",
			role: Role{RoleARN: "AWSAdmin"},
			want: "AWSAdmin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.role.Name(); got != tt.want {
				t.Errorf("Name() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFetchSAMLAssertion(t *testing.T) {
	assertion := encodedAssertion()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("onetimetoken"); got != "session-token-123" {
			t.Errorf("onetimetoken = %q, want %q", got, "session-token-123")
		}
		// The form value carries HTML entities the way the app serves it
		escaped := strings.ReplaceAll(assertion, "+", "&#x2b;")
		fmt.Fprintf(w, `<html><body>
<form method="post" action="https://signin.aws.amazon.com/saml">
<input type="hidden" name="SAMLResponse" value="%s"/>
<input type="hidden" name="RelayState" value=""/>
</form></body></html>`, escaped)
	}))
	defer srv.Close()

	client := &Client{HTTPClient: srv.Client(), PollInterval: time.Millisecond}
	got, err := client.FetchSAMLAssertion(srv.URL+"/home/amazon_aws/1a2b3c4d5e", "session-token-123")
	if err != nil {
		t.Fatalf("FetchSAMLAssertion() unexpected error: %v", err)
	}
	if got != assertion {
		t.Errorf("FetchSAMLAssertion() did not unescape the form value")
	}

	// The fetched assertion parses end to end
	if _, err := ParseRoles(got); err != nil {
		t.Errorf("ParseRoles() on fetched assertion: %v", err)
	}
}

func TestFetchSAMLAssertion_NoForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>Sign in required</body></html>`)
	}))
	defer srv.Close()

	client := &Client{HTTPClient: srv.Client()}
	_, err := client.FetchSAMLAssertion(srv.URL, "tok")
	if err == nil || !strings.Contains(err.Error(), "SAMLResponse") {
		t.Errorf("FetchSAMLAssertion() error = %v, want missing SAMLResponse message", err)
	}
}

func TestFetchSAMLAssertion_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	client := &Client{HTTPClient: srv.Client()}
	_, err := client.FetchSAMLAssertion(srv.URL, "tok")
	if err == nil || !strings.Contains(err.Error(), "403") {
		t.Errorf("FetchSAMLAssertion() error = %v, want status in message", err)
	}
}
