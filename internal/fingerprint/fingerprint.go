// Package fingerprint identifies cards by their content so callers can tell
// whether a generated card is already marked.
package fingerprint

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// Normalize lowercases, trims and unifies line endings of the question and
// answer, joining them with a newline so "ab"+"c" and "a"+"bc" differ.
func Normalize(question, answer string) string {
	normalizePart := func(part string) string {
		p := strings.ToLower(part)
		p = strings.ReplaceAll(p, "\r\n", "\n")
		return strings.TrimSpace(p)
	}
	return normalizePart(question) + "\n" + normalizePart(answer)
}

// Of returns the hex SHA-256 of the normalized question and answer.
func Of(question, answer string) string {
	sum := sha256.Sum256([]byte(Normalize(question, answer)))
	return fmt.Sprintf("%x", sum)
}
