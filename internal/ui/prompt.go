package ui

import (
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
)

// PromptUsername asks for the Okta username
func PromptUsername() (string, error) {
	prompt := promptui.Prompt{
		Label:    "Okta username",
		Validate: notEmpty("username"),
	}
	return prompt.Run()
}

// PromptPassword asks for the Okta password without echoing it
func PromptPassword() (string, error) {
	prompt := promptui.Prompt{
		Label:    "Okta password",
		Mask:     '*',
		Validate: notEmpty("password"),
	}
	return prompt.Run()
}

// PromptPasscode asks for a TOTP passcode
func PromptPasscode() (string, error) {
	prompt := promptui.Prompt{
		Label:    "MFA passcode",
		Validate: notEmpty("passcode"),
	}
	return prompt.Run()
}

func notEmpty(what string) func(string) error {
	return func(input string) error {
		if strings.TrimSpace(input) == "" {
			return fmt.Errorf("%s cannot be empty", what)
		}
		return nil
	}
}
