package utils

import (
	"strings"
	"testing"
)

func TestGenerateSecretToken(t *testing.T) {
	token := GenerateSecretToken()
	if len(token) != 64 {
		t.Fatalf("len = %d, want 64", len(token))
	}
	for _, c := range token {
		if !strings.ContainsRune(tokenAlphabet, c) {
			t.Fatalf("token contains non-hex character %q", c)
		}
	}
	if GenerateSecretToken() == token {
		t.Fatal("two generated tokens are identical")
	}
}

func TestGenerateTokenLength(t *testing.T) {
	for _, n := range []int{1, 16, 64, 128} {
		if got := len(GenerateToken(n)); got != n {
			t.Fatalf("GenerateToken(%d) has length %d", n, got)
		}
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Acme GmbH", "acme-gmbh"},
		{"  spaced   out  ", "spaced-out"},
		{"Already-Slugged", "already-slugged"},
		{"Ümlaut & Sons!", "mlaut-sons"},
		{"UPPER123", "upper123"},
		{"---", ""},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
