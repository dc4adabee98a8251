package classify

import "strings"

// ActionKind is the attempt type behind an action label, independent of
// whether the attempt scored.
type ActionKind string

const (
	KindGoal          ActionKind = "goal"
	KindPoint         ActionKind = "point"
	KindFree          ActionKind = "free"
	KindOffensiveMark ActionKind = "offensive_mark"
	KindFortyFive     ActionKind = "fortyfive"
	KindUnknown       ActionKind = "unknown"
)

// Scoring labels, matched exactly after NormalizeLabel.
var (
	goalLabels      = map[string]bool{"goal": true, "penalty goal": true}
	pointLabels     = map[string]bool{"point": true}
	setPlayLabels   = map[string]bool{"free": true, "offensive mark": true}
	fortyFiveLabels = map[string]bool{"45": true, "fortyfive": true, "forty five": true}
)

// missKeywords mark an unsuccessful attempt when found anywhere in a label.
var missKeywords = []string{"miss", "wide", "short", "blocked", "post"}

// NormalizeLabel lowercases and trims a label and folds '_' and '-' into
// single spaces, so "Offensive_Mark" and "offensive  mark" compare equal.
func NormalizeLabel(label string) string {
	label = strings.ToLower(label)
	label = strings.NewReplacer("_", " ", "-", " ").Replace(label)
	return strings.Join(strings.Fields(label), " ")
}

// Kind maps a label to the attempt type used for base conversion rates.
// Checks run from most to least specific.
func Kind(label string) ActionKind {
	l := NormalizeLabel(label)
	switch {
	case l == "":
		return KindUnknown
	case isFortyFive(l):
		return KindFortyFive
	case strings.Contains(l, "mark"):
		return KindOffensiveMark
	case strings.Contains(l, "free"):
		return KindFree
	case strings.Contains(l, "goal"), strings.Contains(l, "penalty"):
		return KindGoal
	case strings.Contains(l, "point"):
		return KindPoint
	default:
		return KindUnknown
	}
}

// IsGoalAttempt reports whether xG applies to the label.
func IsGoalAttempt(label string) bool {
	return Kind(label) == KindGoal
}

// IsBlocked reports whether the label records a blocked attempt.
func IsBlocked(label string) bool {
	return strings.Contains(NormalizeLabel(label), "blocked")
}

func isFortyFive(l string) bool {
	return strings.Contains(l, "45") || strings.Contains(l, "fortyfive") || strings.Contains(l, "forty five")
}

func isSetPlayLabel(l string) bool {
	return isFortyFive(l) || strings.Contains(l, "free") || strings.Contains(l, "mark")
}

func hasMissKeyword(l string) bool {
	for _, k := range missKeywords {
		if strings.Contains(l, k) {
			return true
		}
	}
	return false
}
