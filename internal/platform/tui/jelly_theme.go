package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// JellyTheme contains all configurable visual styles used by the jelly menus
// and the online race view.
type JellyTheme struct {
	// Race board styles
	BoardBorder   lipgloss.Style
	BoardWon      lipgloss.Style
	BoardLabel    lipgloss.Style
	BoardLabelYou lipgloss.Style

	// HUD styles
	HUDTitle     lipgloss.Style
	HUDValue     lipgloss.Style
	HUDSeparator lipgloss.Style
	HUDControls  lipgloss.Style

	// Overlay styles
	OverlayTitle lipgloss.Style
	OverlayText  lipgloss.Style

	// Level picker styles
	MenuTitle       lipgloss.Style
	MenuItemNormal  lipgloss.Style
	MenuItemActive  lipgloss.Style
	MenuItemSolved  lipgloss.Style
	MenuDescription lipgloss.Style
}

// DefaultJellyTheme returns the default visual theme.
func DefaultJellyTheme() JellyTheme {
	return JellyTheme{
		BoardBorder:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		BoardWon:      lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
		BoardLabel:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		BoardLabelYou: lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),

		HUDTitle:     lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),
		HUDValue:     lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
		HUDSeparator: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		HUDControls:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),

		OverlayTitle: lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		OverlayText:  lipgloss.NewStyle().Foreground(lipgloss.Color("255")),

		MenuTitle:       lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),
		MenuItemNormal:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		MenuItemActive:  lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		MenuItemSolved:  lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
		MenuDescription: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// MonochromeJellyTheme returns a grayscale theme for terminals with poor
// color support.
func MonochromeJellyTheme() JellyTheme {
	theme := DefaultJellyTheme()
	theme.BoardWon = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)
	theme.BoardLabelYou = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)
	theme.HUDTitle = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)
	theme.OverlayTitle = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)
	theme.MenuTitle = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)
	theme.MenuItemActive = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)
	theme.MenuItemSolved = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	return theme
}

// Global theme variable (can be changed at runtime)
var jellyTheme = DefaultJellyTheme()

// SetJellyTheme sets the global theme.
func SetJellyTheme(theme JellyTheme) {
	jellyTheme = theme
}

// GetJellyTheme returns the current global theme.
func GetJellyTheme() JellyTheme {
	return jellyTheme
}
