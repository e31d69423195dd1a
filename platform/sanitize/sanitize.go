// Package sanitize provides text sanitization utilities.
package sanitize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	maxFileNameLen  = 120
	defaultFileName = "file"
)

// FileName turns a client supplied file name into something safe to embed in
// an object key: accents folded, path separators dropped, anything outside
// [A-Za-z0-9._-] collapsed to a single dash.
func FileName(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	lastDash := false
	for _, r := range folded {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)), r == '.', r == '_':
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteRune('-')
			lastDash = true
		}
	}

	result := strings.Trim(b.String(), "-.")
	if len(result) > maxFileNameLen {
		result = strings.Trim(result[len(result)-maxFileNameLen:], "-.")
	}
	if result == "" {
		return defaultFileName
	}
	return result
}
