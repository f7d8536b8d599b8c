package domain

import (
	"encoding/json"
	"strings"
)

const themeSeparator = ", "

// EncodeThemes serializes a theme sequence into a single metadata string.
// Themes are comma-joined when that form decodes back to the same sequence;
// otherwise a JSON array is written.
func EncodeThemes(themes []string) string {
	if len(themes) == 0 {
		return ""
	}
	for _, t := range themes {
		if !joinable(t) {
			data, _ := json.Marshal(themes)
			return string(data)
		}
	}
	return strings.Join(themes, themeSeparator)
}

func joinable(theme string) bool {
	return theme != "" &&
		theme == strings.TrimSpace(theme) &&
		!strings.Contains(theme, ",") &&
		!strings.HasPrefix(theme, "[")
}

// DecodeThemes parses a value written by EncodeThemes. A JSON-looking value
// that fails to parse yields ErrMalformedMetadata together with the raw value
// as a one-element sequence, so callers can log and carry on.
func DecodeThemes(raw string) ([]string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return []string{}, nil
	}

	if strings.HasPrefix(trimmed, "[") {
		var themes []string
		if err := json.Unmarshal([]byte(trimmed), &themes); err != nil {
			return []string{raw}, ErrMalformedMetadata
		}
		if themes == nil {
			themes = []string{}
		}
		return themes, nil
	}

	parts := strings.Split(trimmed, ",")
	themes := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			themes = append(themes, p)
		}
	}
	return themes, nil
}
