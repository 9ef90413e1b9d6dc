package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
)

// bellSkipper implements an io.WriteCloser that skips the terminal bell character.
type bellSkipper struct {
	w io.Writer
}

func (bs *bellSkipper) Write(b []byte) (int, error) {
	const charBell = 7 // bell control character
	if len(b) == 1 && b[0] == charBell {
		return 0, nil
	}
	return bs.w.Write(b)
}

func (bs *bellSkipper) Close() error {
	return nil
}

// SelectProfile shows an interactive selector over the config file's
// profile sections
func SelectProfile(profiles []string) (string, error) {
	if len(profiles) == 0 {
		return "", fmt.Errorf("no profiles found in config file")
	}
	return runSelect("Please select the profile to use:", profiles)
}

// SelectRole shows an interactive selector over the role labels the
// SAML assertion grants
func SelectRole(labels []string) (int, error) {
	if len(labels) == 0 {
		return 0, fmt.Errorf("no roles to select from")
	}
	index, _, err := newSelect("Please select the AWS role to assume:", labels).Run()
	if err != nil {
		return 0, err
	}
	return index, nil
}

func runSelect(label string, items []string) (string, error) {
	_, result, err := newSelect(label, items).Run()
	if err != nil {
		return "", err
	}
	return result, nil
}

func newSelect(label string, items []string) *promptui.Select {
	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "{{ \">\" | cyan }} {{ . | cyan | bold }}",
		Inactive: "   {{ . | white }}",
		Selected: "\U00002713 {{ . | cyan | bold }}",
	}

	return &promptui.Select{
		Label:        label,
		Items:        items,
		Templates:    templates,
		Size:         10,
		HideHelp:     false,
		Stdout:       &bellSkipper{os.Stderr},
		HideSelected: false,
		Searcher: func(input string, index int) bool {
			item := strings.ReplaceAll(strings.ToLower(items[index]), " ", "")
			input = strings.ReplaceAll(strings.ToLower(input), " ", "")
			return strings.Contains(item, input)
		},
	}
}
