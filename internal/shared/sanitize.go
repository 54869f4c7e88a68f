package shared

import (
	"strings"
)

// maxTitleLength caps sanitized directory names at 100 runes.
const maxTitleLength = 100

// reservedNames are Windows device names that cannot be used as file names.
var reservedNames = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {},
	"COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {},
	"LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

// SanitizeTitle converts a playlist title into a filesystem-safe directory name.
//
// Illegal path characters are replaced with underscores, underscore runs are
// collapsed, the result is capped at 100 runes without a trailing underscore,
// and reserved device names (CON, PRN, COM1, ...) are prefixed with an underscore.
func SanitizeTitle(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	prevUnderscore := false
	for _, r := range title {
		switch r {
		case '\\', '/', ':', '*', '?', '"', '<', '>', '|':
			r = '_'
		}
		if r == '_' {
			if prevUnderscore {
				continue
			}
			prevUnderscore = true
		} else {
			prevUnderscore = false
		}
		b.WriteRune(r)
	}

	name := b.String()

	if runes := []rune(name); len(runes) > maxTitleLength {
		name = string(runes[:maxTitleLength])
	}
	name = strings.TrimSuffix(name, "_")

	if _, reserved := reservedNames[strings.ToUpper(name)]; reserved {
		name = "_" + name
	}

	return name
}
