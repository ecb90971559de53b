package constants

import "strings"

// Label is a classification label assigned to recovered text.
type Label string

const (
	StaticData  Label = "static data"
	DynamicData Label = "dynamic data"
	Unknown     Label = "unknown"
)

// Unclassified is the label an artifact carries before the classifier runs.
const Unclassified Label = "unclassified"

var allLabels = []Label{
	StaticData,
	DynamicData,
}

// LabelVocabulary returns the closed zero-shot vocabulary, in a fresh slice.
func LabelVocabulary() []string {
	result := make([]string, len(allLabels))
	for i, l := range allLabels {
		result[i] = string(l)
	}
	return result
}

// IsKnown reports whether s is part of the vocabulary (case-insensitive).
func IsKnown(s string) (Label, bool) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	for _, l := range allLabels {
		if normalized == string(l) {
			return l, true
		}
	}
	return "", false
}

// DirName maps a label to its routing subdirectory name ("static data" -> "static_data").
func (l Label) DirName() string {
	return strings.ReplaceAll(strings.TrimSpace(string(l)), " ", "_")
}
