// Package diagnose maps classifier output vectors to nutrient-state labels
// and their bilingual knowledge records.
package diagnose

import (
	"errors"
	"fmt"
	"strings"
)

// ClassLabel identifies one nutrient state. The numeric values are
// index-stable and must match the classifier's output ordering.
type ClassLabel int

const (
	Healthy ClassLabel = iota
	NitrogenDeficiency
	ZincDeficiency
)

// NumClasses is the dimensionality contract shared with the model output.
const NumClasses = 3

// String returns the canonical English form of the label, used in reports
// and as the stable identifier in API responses.
func (l ClassLabel) String() string {
	switch l {
	case Healthy:
		return "Healthy Leaf"
	case NitrogenDeficiency:
		return "Nitrogen Deficiency"
	case ZincDeficiency:
		return "Zinc Deficiency"
	}
	return fmt.Sprintf("ClassLabel(%d)", int(l))
}

// Language selects which variant of the knowledge table is returned.
type Language string

const (
	English Language = "en"
	Arabic  Language = "ar"
)

var ErrUnsupportedLanguage = errors.New("unsupported language")

// ParseLanguage accepts the short codes and full names used by the UI
// selector. An empty string defaults to English.
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "en", "english":
		return English, nil
	case "ar", "arabic":
		return Arabic, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, s)
}
