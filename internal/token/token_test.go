package token

import (
	"strings"
	"testing"
)

func TestGenerate_LengthAndAlphabet(t *testing.T) {
	tok, err := Generate()
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if len(tok) != Length {
		t.Fatalf("token length = %d, want %d", len(tok), Length)
	}
	for i, r := range tok {
		if !strings.ContainsRune(alphabet, r) {
			t.Fatalf("token[%d] = %q, not in alphabet", i, r)
		}
	}
}

func TestGenerate_Distinctness(t *testing.T) {
	const n = 1000
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		tok, err := Generate()
		if err != nil {
			t.Fatalf("Generate error: %v", err)
		}
		if _, ok := seen[tok]; ok {
			t.Fatalf("duplicate token after %d generations: %s", i, tok)
		}
		seen[tok] = struct{}{}
	}
}
