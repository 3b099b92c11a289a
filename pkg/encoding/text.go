// Package encoding normalizes names and paths read from scene documents.
package encoding

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizePath converts backslashes to forward slashes and composes the
// path to Unicode NFC, so the same file spelled two ways compares equal.
func NormalizePath(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	return norm.NFC.String(path)
}

// SanitizeName replaces every rune found in invalid, and every
// non-printable rune, with '_'. The result is NFC composed.
func SanitizeName(name, invalid string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalid, r) || !unicode.IsPrint(r) {
			return '_'
		}
		return r
	}, norm.NFC.String(name))
}
