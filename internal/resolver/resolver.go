// Package resolver declares the command-line options recognized by the
// tool and resolves each one to its effective value. Every bound option
// follows the same precedence: explicit CLI value, then environment
// variable, then static default.
package resolver

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
)

// Option describes one recognized command-line option and its
// environment-variable fallback.
type Option struct {
	Name    string // long flag name, also the key in the resolved value map
	Short   string // single-letter shorthand, empty for none
	EnvVar  string // environment fallback, empty for plain switches
	Default string // static default, empty for unset
	Help    string
	Bool    bool // registered as a boolean switch
}

// Values is the flat option-name -> effective-value map produced by
// Resolve. Options that resolved to nothing are absent.
type Values map[string]string

// Options returns the full option table. The order matches the help
// output.
func Options() []Option {
	return []Option{
		{
			Name:   "profile",
			Short:  "p",
			EnvVar: "OKTA_AWS_PROFILE",
			Help:   "AWS profile to write credentials to. Example: myorg-admin",
		},
		{
			Name:   "okta-org",
			Short:  "o",
			EnvVar: "OKTA_ORG",
			Help:   "Your Okta Org base URL. Example: myorg.okta.com",
		},
		{
			Name:   "okta-aws-app-url",
			Short:  "a",
			EnvVar: "OKTA_AWS_APP_URL",
			Help:   "The URL of the Okta AWS app. Example: https://myorg.okta.com/home/amazon_aws/1a2b3c4d5e",
		},
		{
			Name:   "aws-role-to-assume",
			Short:  "r",
			EnvVar: "OKTA_AWS_ROLE_TO_ASSUME",
			Help:   "The AWS role to assume. Example: <aws_accnt_id>/AWSAdmin/<okta_user>",
		},
		{
			Name:   "username",
			Short:  "u",
			EnvVar: "OKTA_USERNAME",
			Help:   "The username to authenticate to Okta as.",
		},
		{
			Name:   "password",
			EnvVar: "OKTA_PASSWORD",
			Help:   "The password to authenticate to Okta with.",
		},
		{
			Name:    "sts-duration",
			Short:   "s",
			EnvVar:  "OKTA_STS_DURATION",
			Default: "3600",
			Help:    "The AWS session duration in seconds.",
		},
		{
			Name:    "config-file",
			Short:   "c",
			EnvVar:  "PYOKTA_AWS_CONFIG",
			Default: "~/.pyokta_aws/config",
			Help:    "The config file to use. This is not referring to the awscli config.",
		},
		{
			Name:    "non-interactive",
			Default: "false",
			Help:    "Run non-interactively. Requires that all settings are set via cli, env vars, or config file.",
			Bool:    true,
		},
		{
			Name:    "verbose",
			Default: "false",
			Help:    "Show verbose output.",
			Bool:    true,
		},
	}
}

// Register declares every option from the table on fs. Help strings
// for env-bound options document the fallback variable.
func Register(fs *pflag.FlagSet) {
	for _, opt := range Options() {
		help := opt.Help
		if opt.EnvVar != "" {
			help = fmt.Sprintf("%s (Can also be set via %s environment variable.)", strings.TrimRight(help, " "), opt.EnvVar)
		}
		if opt.Bool {
			fs.BoolP(opt.Name, opt.Short, false, help)
			continue
		}
		// Defaults are applied by Resolve, not by pflag, so a flag
		// left untouched is distinguishable from one set to the
		// default value.
		fs.StringP(opt.Name, opt.Short, "", help)
	}
}

// Resolve computes the effective value of every option: an explicitly
// supplied CLI value wins over the bound environment variable, which
// wins over the static default. Options with none of the three stay
// out of the returned map. The environment is an injected map (see
// Environ) rather than read from the process, so resolution is
// deterministic under test.
func Resolve(fs *pflag.FlagSet, env map[string]string) Values {
	return ResolveWithFile(fs, env, nil)
}

// ResolveWithFile is Resolve with a config-file tier between the
// environment and the static defaults: CLI > env > file > default.
// file maps option names to the values read from the selected config
// file profile (see config.SectionValues).
func ResolveWithFile(fs *pflag.FlagSet, env map[string]string, file map[string]string) Values {
	vals := make(Values)

	for _, opt := range Options() {
		if fs != nil && fs.Changed(opt.Name) {
			if opt.Bool {
				b, _ := fs.GetBool(opt.Name)
				vals[opt.Name] = fmt.Sprintf("%t", b)
			} else {
				v, _ := fs.GetString(opt.Name)
				vals[opt.Name] = v
			}
			continue
		}
		if opt.EnvVar != "" {
			if v, ok := env[opt.EnvVar]; ok {
				vals[opt.Name] = v
				continue
			}
		}
		if v, ok := file[opt.Name]; ok {
			vals[opt.Name] = v
			continue
		}
		if opt.Default != "" {
			vals[opt.Name] = opt.Default
		}
	}

	return vals
}

// Environ snapshots the process environment into the map form Resolve
// consumes.
func Environ() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if i := strings.Index(kv, "="); i > 0 {
			env[kv[:i]] = kv[i+1:]
		}
	}
	return env
}
