package utils

import (
	"strings"
	"unicode"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const lowerAlphanumeric = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateSuffix gera um sufixo aleatório minúsculo para compor identificadores
func GenerateSuffix(length int) (string, error) {
	return gonanoid.Generate(lowerAlphanumeric, length)
}

// Slugify converte um nome livre em kebab-case, limitado a maxLen caracteres
func Slugify(name string, maxLen int) string {
	var b strings.Builder
	pendingDash := false

	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsSpace(r) || r == '-' || r == '_':
			pendingDash = b.Len() > 0
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if pendingDash {
				b.WriteByte('-')
				pendingDash = false
			}
			b.WriteRune(r)
		}
	}

	slug := b.String()
	if len(slug) > maxLen {
		slug = strings.TrimRight(slug[:maxLen], "-")
	}
	return slug
}
