package utils

import "github.com/charmbracelet/lipgloss"

var (
	cyanStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	greenStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	yellowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	redStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	whiteStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	boldStyle   = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Faint(true)
)

func Cyan(text string) string        { return cyanStyle.Render(text) }
func Green(text string) string       { return greenStyle.Render(text) }
func Yellow(text string) string      { return yellowStyle.Render(text) }
func Red(text string) string         { return redStyle.Render(text) }
func BrightWhite(text string) string { return whiteStyle.Render(text) }
func Bold(text string) string        { return boldStyle.Render(text) }
func Dim(text string) string         { return dimStyle.Render(text) }
