// Package personality lists the answer voices of the bot and maps user input
// such as "Engraçada", "EMPÁTICA" or a menu number to their canonical keys.
package personality

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	Formal      = "formal"
	Engracada   = "engracada"
	Desafiadora = "desafiadora"
	Empatica    = "empatica"

	Default = Formal
)

type Personality struct {
	Key         string
	Name        string
	Description string
}

var all = []Personality{
	{Key: Formal, Name: "Formal", Description: "A Professora Profissional"},
	{Key: Engracada, Name: "Engraçada", Description: "A Coach Descontraída"},
	{Key: Desafiadora, Name: "Desafiadora", Description: "A Professora Exigente"},
	{Key: Empatica, Name: "Empática", Description: "A Mentora Gentil"},
}

// All returns the personalities in menu order.
func All() []Personality {
	return append([]Personality(nil), all...)
}

// Canonicalize returns the key for s. Case, accents and the 1-based menu
// position are accepted.
func Canonicalize(s string) (string, bool) {
	s = fold(s)
	if s == "" {
		return "", false
	}

	for i, p := range all {
		if s == p.Key || s == string(rune('1'+i)) {
			return p.Key, true
		}
	}
	return "", false
}

// IsValid reports whether s names a personality.
func IsValid(s string) bool {
	_, ok := Canonicalize(s)
	return ok
}

// OrDefault canonicalizes s and falls back to Default.
func OrDefault(s string) string {
	if key, ok := Canonicalize(s); ok {
		return key
	}
	return Default
}

// DisplayName returns the accented name of key, or key capitalized when it
// is unknown.
func DisplayName(key string) string {
	for _, p := range all {
		if p.Key == key {
			return p.Name
		}
	}
	if key == "" {
		return ""
	}
	r := []rune(key)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func Description(key string) string {
	for _, p := range all {
		if p.Key == key {
			return p.Description
		}
	}
	return ""
}

func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}
