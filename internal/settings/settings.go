package settings

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// DefaultConfigFile is the tool's own config file (not the awscli config)
const DefaultConfigFile = "~/.pyokta_aws/config"

// RedactedMarker replaces the password value in any printed settings dump
const RedactedMarker = "<redacted>"

// Settings holds the resolved configuration for a single invocation.
// It is constructed once, from named options or from a resolved value
// map, and not mutated afterwards.
type Settings struct {
	Profile         string
	Username        string
	Password        string
	OktaOrg         string
	OktaAWSAppURL   string
	AWSRoleToAssume string
	STSDuration     string
	ConfigFile      string
	Verbose         bool
	Interactive     bool
}

// Option sets a single named field on a Settings under construction.
// Settings can only be built from named options; there is no positional
// form.
type Option func(*Settings)

func WithProfile(profile string) Option {
	return func(s *Settings) { s.Profile = profile }
}

func WithUsername(username string) Option {
	return func(s *Settings) { s.Username = username }
}

func WithPassword(password string) Option {
	return func(s *Settings) { s.Password = password }
}

func WithOktaOrg(org string) Option {
	return func(s *Settings) { s.OktaOrg = org }
}

func WithOktaAWSAppURL(appURL string) Option {
	return func(s *Settings) { s.OktaAWSAppURL = appURL }
}

func WithAWSRoleToAssume(role string) Option {
	return func(s *Settings) { s.AWSRoleToAssume = role }
}

func WithSTSDuration(duration string) Option {
	return func(s *Settings) { s.STSDuration = duration }
}

func WithConfigFile(path string) Option {
	return func(s *Settings) { s.ConfigFile = path }
}

func WithVerbose(verbose bool) Option {
	return func(s *Settings) { s.Verbose = verbose }
}

func WithInteractive(interactive bool) Option {
	return func(s *Settings) { s.Interactive = interactive }
}

// New builds a Settings from named options. A nil option is a caller
// bug (an attempt to pass something other than a WithX value) and is
// rejected as a usage error.
func New(opts ...Option) (*Settings, error) {
	s := &Settings{
		ConfigFile:  DefaultConfigFile,
		Interactive: true,
	}
	for i, opt := range opts {
		if opt == nil {
			return nil, fmt.Errorf("settings: argument %d is not a named option; use settings.WithProfile(...) and friends", i+1)
		}
		opt(s)
	}
	return s, nil
}

// FromValues materializes a Settings from a resolved option-name ->
// value map, as produced by resolver.Resolve. The non-interactive flag
// is inverted into Interactive and dropped; keys that do not match a
// known field are ignored. When the verbose flag is set the resolved
// settings are dumped to stderr with the password redacted.
func FromValues(vals map[string]string) *Settings {
	s := &Settings{
		ConfigFile:  DefaultConfigFile,
		Interactive: true,
	}

	for key, val := range vals {
		switch key {
		case "profile":
			s.Profile = val
		case "username":
			s.Username = val
		case "password":
			s.Password = val
		case "okta-org":
			s.OktaOrg = val
		case "okta-aws-app-url":
			s.OktaAWSAppURL = val
		case "aws-role-to-assume":
			s.AWSRoleToAssume = val
		case "sts-duration":
			s.STSDuration = val
		case "config-file":
			s.ConfigFile = val
		case "verbose":
			s.Verbose = parseBool(val)
		case "non-interactive":
			s.Interactive = !parseBool(val)
		default:
			// Unknown keys from future options are allowed and dropped
		}
	}

	if s.Verbose {
		fmt.Fprintf(os.Stderr, "\n# Using the following settings...\n")
		s.Dump(os.Stderr)
	}

	return s
}

// Dump writes an aligned key/value listing of every setting to w. The
// password value is always replaced with RedactedMarker.
func (s *Settings) Dump(w io.Writer) {
	rows := []struct {
		key   string
		value string
	}{
		{"profile", s.Profile},
		{"username", s.Username},
		{"password", s.Password},
		{"okta_org", s.OktaOrg},
		{"okta_aws_app_url", s.OktaAWSAppURL},
		{"aws_role_to_assume", s.AWSRoleToAssume},
		{"sts_duration", s.STSDuration},
		{"config_file", s.ConfigFile},
		{"verbose", strconv.FormatBool(s.Verbose)},
		{"interactive", strconv.FormatBool(s.Interactive)},
	}

	for _, row := range rows {
		value := row.value
		if row.key == "password" {
			value = RedactedMarker
		}
		fmt.Fprintf(w, "# %s: %s\n", pad(row.key, 19), value)
	}
}

// pad left-aligns key to width with dot filler, matching the dump
// format of the original tool.
func pad(key string, width int) string {
	if len(key) >= width {
		return key
	}
	return key + strings.Repeat(".", width-len(key))
}

func parseBool(val string) bool {
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false
	}
	return b
}
