package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oktatools/okta-aws-assume/internal/config"
	"github.com/oktatools/okta-aws-assume/internal/credentials"
	"github.com/oktatools/okta-aws-assume/internal/resolver"
	"github.com/oktatools/okta-aws-assume/internal/settings"
	"github.com/oktatools/okta-aws-assume/internal/ui"
	"github.com/oktatools/okta-aws-assume/internal/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "okta-aws-assume",
		Short: "Federate an Okta login into temporary AWS credentials",
		Long: `okta-aws-assume authenticates to your Okta org, exchanges the SAML
assertion of your Okta AWS app for temporary credentials via STS, and
writes them to the awscli credentials file.

Every option can be set via cli flag, environment variable, or the
config file (default ~/.pyokta_aws/config); flags win over environment
variables, which win over the config file.`,
		SilenceUsage: true,
		RunE:         run,
	}

	resolver.Register(cmd.Flags())

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			version.PrintVersion()
		},
	})

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	env := resolver.Environ()

	// First pass without the file tier, to learn which config file and
	// profile to read.
	pre := resolver.Resolve(cmd.Flags(), env)
	verbose := pre["verbose"] == "true"
	interactive := pre["non-interactive"] != "true"

	file := config.LoadOrEmpty(pre["config-file"], verbose)

	profileName := pre["profile"]
	if profileName == "" && interactive {
		if profiles := config.Profiles(file); len(profiles) > 0 {
			selected, err := ui.SelectProfile(profiles)
			if err != nil {
				return err
			}
			profileName = selected
		}
	}

	vals := resolver.ResolveWithFile(cmd.Flags(), env, config.SectionValues(file, profileName))
	if profileName != "" {
		vals["profile"] = profileName
	}

	s := settings.FromValues(vals)

	creds, err := credentials.GetCredentials(cmd.Context(), s)
	if err != nil {
		return err
	}

	if err := credentials.Save(s.Profile, creds); err != nil {
		return err
	}

	if s.Verbose {
		ui.PrintSaved(s.Profile, creds.Expiration)
	}
	ui.PrintExports(creds, s.Profile)

	return nil
}
