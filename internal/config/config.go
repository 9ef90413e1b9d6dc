// Package config reads the tool's own config file (default
// ~/.pyokta_aws/config), an ini file with one section per profile.
// File values participate in option resolution below CLI flags and
// environment variables but above static defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
)

// ExpandPath resolves a leading ~ against the user's home directory
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, strings.TrimPrefix(path, "~"))
	}
	return path
}

// Load loads the config file from path. A missing file is not an
// error; it yields an empty config.
func Load(path string) (*ini.File, error) {
	expanded := ExpandPath(path)

	file := ini.Empty()

	if _, err := os.Stat(expanded); err == nil {
		file, err = ini.Load(expanded)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", expanded, err)
		}
	}

	return file, nil
}

// LoadOrEmpty loads the config file, returning an empty config on error.
// If verboseMode is true and loading fails, an error message is printed to stderr.
func LoadOrEmpty(path string, verboseMode bool) *ini.File {
	file, err := Load(path)
	if err != nil {
		if verboseMode {
			fmt.Fprintf(os.Stderr, "# Failed to load config file: %v\n", err)
		}
		return ini.Empty()
	}
	return file
}

// Profiles returns the named profile sections present in the config file
func Profiles(file *ini.File) []string {
	var profiles []string

	for _, section := range file.Sections() {
		name := section.Name()
		if name == "DEFAULT" || name == ini.DefaultSection {
			continue
		}
		profiles = append(profiles, name)
	}

	return profiles
}

// GetProfile retrieves the configuration section for a profile
func GetProfile(name string, file *ini.File) (*Profile, error) {
	profile := &Profile{}

	sec, err := file.GetSection(name)
	if err != nil {
		return nil, fmt.Errorf("profile '%s' not found in config file. Available profiles: %v", name, Profiles(file))
	}
	if err := sec.MapTo(profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile '%s': %w", name, err)
	}

	return profile, nil
}

// SectionValues returns the profile's non-empty keys as an option-name
// -> value map in the form the resolver consumes as its file tier. A
// missing section yields an empty map; the file layer is optional.
func SectionValues(file *ini.File, profileName string) map[string]string {
	if profileName == "" {
		profileName = "default"
	}

	vals := make(map[string]string)

	profile, err := GetProfile(profileName, file)
	if err != nil {
		return vals
	}

	if profile.OktaOrg != "" {
		vals["okta-org"] = profile.OktaOrg
	}
	if profile.OktaAWSAppURL != "" {
		vals["okta-aws-app-url"] = profile.OktaAWSAppURL
	}
	if profile.AWSRoleToAssume != "" {
		vals["aws-role-to-assume"] = profile.AWSRoleToAssume
	}
	if profile.Username != "" {
		vals["username"] = profile.Username
	}
	if profile.STSDuration != "" {
		vals["sts-duration"] = profile.STSDuration
	}

	return vals
}
