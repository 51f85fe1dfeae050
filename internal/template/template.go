// Package template substitutes {{key}} placeholders in message templates.
// Rendered output is end-user-visible, so a raw {{key}} marker must never
// survive rendering.
package template

import "regexp"

// placeholderPattern matches {{identifier}} markers. Identifiers are
// case-sensitive and limited to alphanumerics and underscores.
var placeholderPattern = regexp.MustCompile(`\{\{([A-Za-z0-9_]+)\}\}`)

// Render replaces every {{key}} occurrence in the template with the
// context value for key, or the empty string when the key is absent.
// Substitution is a single pass: a value containing {{...}} is inserted
// verbatim and never re-scanned, so templates cannot recurse.
func Render(template string, context map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		key := match[2 : len(match)-2]
		return context[key]
	})
}

// Placeholders returns the distinct placeholder keys referenced by the
// template, in order of first appearance.
func Placeholders(template string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(template, -1)
	seen := make(map[string]bool, len(matches))
	var keys []string
	for _, match := range matches {
		if !seen[match[1]] {
			seen[match[1]] = true
			keys = append(keys, match[1])
		}
	}
	return keys
}
