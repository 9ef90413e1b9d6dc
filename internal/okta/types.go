package okta

// authnRequest is the body for the primary authentication call
type authnRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthnResponse is the Okta authn API response for both the primary
// call and factor verification
type AuthnResponse struct {
	Status       string `json:"status"`
	SessionToken string `json:"sessionToken"`
	StateToken   string `json:"stateToken"`
	FactorResult string `json:"factorResult"`
	Embedded     struct {
		Factors []Factor `json:"factors"`
	} `json:"_embedded"`
	ErrorCode    string `json:"errorCode"`
	ErrorSummary string `json:"errorSummary"`
}

// Factor is one enrolled MFA factor from the authn response
type Factor struct {
	ID         string `json:"id"`
	FactorType string `json:"factorType"`
	Provider   string `json:"provider"`
	Links      struct {
		Verify struct {
			Href string `json:"href"`
		} `json:"verify"`
	} `json:"_links"`
}

// verifyRequest is the body for a factor verification call
type verifyRequest struct {
	StateToken string `json:"stateToken"`
	PassCode   string `json:"passCode,omitempty"`
}
