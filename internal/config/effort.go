package config

// EffortPreset names a solver state budget.
// Budgets trade completeness for responsiveness: "quick" keeps in-game hints
// snappy, "exhaustive" lets the solve command chew through large boards.
type EffortPreset string

const (
	EffortQuick      EffortPreset = "quick"
	EffortNormal     EffortPreset = "normal"
	EffortExhaustive EffortPreset = "exhaustive"
)

// MaxStatesForPreset returns the state budget for an effort preset.
// Unknown presets get the normal budget.
func MaxStatesForPreset(preset EffortPreset) int {
	switch preset {
	case EffortQuick:
		return 20_000
	case EffortExhaustive:
		return 5_000_000
	default:
		return 200_000
	}
}

// ValidEffort reports whether the string names a known preset.
func ValidEffort(s string) bool {
	switch EffortPreset(s) {
	case EffortQuick, EffortNormal, EffortExhaustive:
		return true
	}
	return false
}
