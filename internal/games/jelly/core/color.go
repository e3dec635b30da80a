package core

import "strings"

// Color represents a jelly color. ColorNeutral is the sentinel carried by
// Block movables; it never equals any jelly color, so Blocks can neither
// fuse nor break the win condition.
type Color uint8

const (
	ColorRed Color = iota
	ColorGreen
	ColorBlue
	ColorYellow
	ColorNeutral
)

// String returns the string representation of a color.
func (c Color) String() string {
	switch c {
	case ColorRed:
		return "red"
	case ColorGreen:
		return "green"
	case ColorBlue:
		return "blue"
	case ColorYellow:
		return "yellow"
	case ColorNeutral:
		return "neutral"
	default:
		return "unknown"
	}
}

// Char returns a single character representation for ASCII rendering.
func (c Color) Char() rune {
	switch c {
	case ColorRed:
		return 'R'
	case ColorGreen:
		return 'G'
	case ColorBlue:
		return 'B'
	case ColorYellow:
		return 'Y'
	case ColorNeutral:
		return 'X'
	default:
		return '?'
	}
}

// ParseColor converts a string to a Color.
// The "x" spelling for the neutral sentinel matches the level text format.
// Returns ColorRed and false if the string is not recognized.
func ParseColor(s string) (Color, bool) {
	switch strings.ToLower(s) {
	case "red", "r":
		return ColorRed, true
	case "green", "g":
		return ColorGreen, true
	case "blue", "b":
		return ColorBlue, true
	case "yellow", "y":
		return ColorYellow, true
	case "x", "neutral", "block":
		return ColorNeutral, true
	default:
		return ColorRed, false
	}
}

// JellyColors returns the colors a Jelly may carry, in declaration order.
func JellyColors() []Color {
	return []Color{ColorRed, ColorGreen, ColorBlue, ColorYellow}
}
