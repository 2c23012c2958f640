// Package ui holds the terminal presentation pieces of the instagrab
// CLI: lipgloss styles for session listings and small interactive
// models for picking sessions and entering usernames.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/entrhq/instagrab/pkg/session"
)

var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205"))

	validStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42"))

	invalidStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("196"))

	labelStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	selectedStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205"))

	hintStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true)
)

// Title renders a section heading.
func Title(text string) string {
	return titleStyle.Render(text)
}

// StatusBadge renders a session validity marker.
func StatusBadge(valid bool) string {
	if valid {
		return validStyle.Render("✓ valid")
	}
	return invalidStyle.Render("✗ invalid")
}

func formatEpoch(secs float64) string {
	if secs == 0 {
		return "unknown"
	}
	return time.Unix(int64(secs), 0).Format("2006-01-02 15:04:05")
}

// RenderSessionList renders the full session listing for the list
// command.
func RenderSessionList(infos []session.Info) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n\n", Title("Instagram sessions"))
	if len(infos) == 0 {
		b.WriteString("No sessions found.\n")
		return b.String()
	}
	fmt.Fprintf(&b, "Number of sessions: %d\n\n", len(infos))

	for i, info := range infos {
		fmt.Fprintf(&b, "%d. %s  %s\n", i+1, selectedStyle.Render(info.Username), StatusBadge(info.Valid))
		fmt.Fprintf(&b, "   %s %s\n", labelStyle.Render("file:"), info.FilePath)
		fmt.Fprintf(&b, "   %s %s\n", labelStyle.Render("created:"), formatEpoch(info.CreatedAt))
		fmt.Fprintf(&b, "   %s %s\n", labelStyle.Render("last used:"), formatEpoch(info.LastUsed))
		fmt.Fprintf(&b, "   %s %.2f KB\n\n", labelStyle.Render("size:"), float64(info.FileSize)/1024)
	}

	return b.String()
}

// SessionLine renders a one-line summary used by the picker.
func SessionLine(info session.Info) string {
	return fmt.Sprintf("%s  %s", info.Username, StatusBadge(info.Valid))
}
