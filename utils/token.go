package utils

import (
	"crypto/rand"
	"strings"
)

const tokenAlphabet = "0123456789abcdef"

// GenerateToken returns length characters drawn uniformly from the hex
// alphabet using crypto/rand. 256 values mod 16 leaves no bias.
func GenerateToken(length int) string {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the platform RNG is broken; nothing
		// sensible to return.
		panic("utils: crypto/rand unavailable: " + err.Error())
	}
	out := make([]byte, length)
	for i, b := range buf {
		out[i] = tokenAlphabet[int(b)%len(tokenAlphabet)]
	}
	return string(out)
}

// GenerateSecretToken returns the public handle for secrets and secret
// requests: 64 hex characters = 256 bits. Collisions are left to the unique
// index on the token column; callers retry on conflict.
func GenerateSecretToken() string {
	return GenerateToken(64)
}

// Slugify derives a URL-safe identifier from a human name: lowercase, runs of
// non-alphanumerics collapsed to single dashes, leading/trailing dashes
// trimmed. Used for organization slugs, never for secret tokens.
func Slugify(name string) string {
	lowered := strings.ToLower(name)
	var b strings.Builder
	for _, c := range lowered {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			b.WriteRune(c)
		} else {
			b.WriteByte('-')
		}
	}
	parts := strings.FieldsFunc(b.String(), func(r rune) bool { return r == '-' })
	return strings.Join(parts, "-")
}
