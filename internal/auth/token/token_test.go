package token

import "testing"

func TestGenerateRandomTokenIsUnique(t *testing.T) {
	a, err := GenerateRandomToken(32)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	b, err := GenerateRandomToken(32)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if a == b {
		t.Fatal("expected distinct tokens")
	}
	if a == "" {
		t.Fatal("expected non-empty token")
	}
}

func TestHashSHA256IsStableAndHidesInput(t *testing.T) {
	h1 := HashSHA256("refresh-token-value")
	h2 := HashSHA256("refresh-token-value")
	if h1 != h2 {
		t.Fatal("hash must be deterministic")
	}
	if len(h1) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(h1))
	}
	if h1 == HashSHA256("refresh-token-other") {
		t.Fatal("different inputs must not collide")
	}
}
