package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	subHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	keyStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("226"))
)

func validateName(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("name must not be empty")
	}
	if strings.ContainsAny(s, " /") {
		return errors.New("name must not contain spaces or slashes")
	}
	return nil
}

// promptName asks for the turtle name.
func promptName() (string, error) {
	var name string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Please enter a name").
				Description("Your turtle is spawned under this name").
				Value(&name).
				Validate(validateName),
		),
	)
	if err := form.Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(name), nil
}

// printBanner shows the key bindings once the keyboard is in raw mode.
func printBanner(w io.Writer, name string) {
	fmt.Fprintln(w, headerStyle.Render("Reading from keyboard")+dimStyle.Render("  turtle: "+name))
	fmt.Fprintln(w, dimStyle.Render("━━━━━━━━━━━━━━━━━━━━━━━━━━━"))
	fmt.Fprintln(w, "Use "+keyStyle.Render("arrow keys")+" to move the turtle.")
	fmt.Fprintln(w, "Press "+keyStyle.Render("q")+" to quit.")
}
