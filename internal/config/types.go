package config

// Profile holds the per-profile keys read from the tool's config file
type Profile struct {
	OktaOrg         string `ini:"okta_org"`
	OktaAWSAppURL   string `ini:"okta_aws_app_url"`
	AWSRoleToAssume string `ini:"aws_role_to_assume"`
	Username        string `ini:"username"`
	STSDuration     string `ini:"sts_duration"`
}
