package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	muted      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

func printOK(w io.Writer, msg string) {
	fmt.Fprintln(w, okStyle.Render("✓")+" "+msg)
}

func printWarn(w io.Writer, msg string) {
	fmt.Fprintln(w, warnStyle.Render("!")+" "+msg)
}
