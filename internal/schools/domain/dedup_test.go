package domain

import (
	"math"
	"testing"
)

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Greenwood High School", "greenwoodhighschool"},
		{"  Greenwood   High\tSchool ", "greenwoodhighschool"},
		{"Greenwood Secondary School", "greenwoodhighschool"},
		{"GREENWOOD SECONDARY SCHOOL", "greenwoodhighschool"},
		{"Oakdale Primary", "oakdaleprimary"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := NormalizeName(tc.in); got != tc.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNameExists(t *testing.T) {
	cases := []struct {
		name      string
		candidate string
		existing  []string
		want      bool
	}{
		{"empty existing set", "Greenwood High School", nil, false},
		{"whitespace and case insensitive", "Greenwood High School", []string{"greenwoodhighschool"}, true},
		{"secondary folds into high", "Greenwood Secondary School", []string{"Greenwood High School"}, true},
		{"single-char typo above threshold", "Greenwood High Schol", []string{"Greenwood High School"}, true},
		{"unrelated name", "Totally Different Name", []string{"Greenwood High School"}, false},
		{"match anywhere in list", "Oakdale Primary", []string{"Greenwood High School", "oakdale  primary"}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NameExists(tc.candidate, tc.existing); got != tc.want {
				t.Errorf("NameExists(%q, %v) = %v, want %v", tc.candidate, tc.existing, got, tc.want)
			}
		})
	}
}

// Pins the exact similarity for the canonical typo fixture so the edit
// distance implementation cannot drift: "greenwoodhighschol" vs
// "greenwoodhighschool" is one deletion over 19 characters.
func TestNameSimilarityPinnedFixture(t *testing.T) {
	a := NormalizeName("Greenwood High Schol")
	b := NormalizeName("Greenwood High School")

	want := 18.0 / 19.0
	got := NameSimilarity(a, b)
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("NameSimilarity(%q, %q) = %.15f, want %.15f", a, b, got, want)
	}
	if got <= DuplicateSimilarityThreshold {
		t.Fatalf("fixture similarity %.4f must sit above the %.2f threshold", got, DuplicateSimilarityThreshold)
	}
}

func TestNameSimilarityBounds(t *testing.T) {
	if got := NameSimilarity("", ""); got != 1.0 {
		t.Errorf("similarity of two empty strings = %v, want 1.0", got)
	}
	if got := NameSimilarity("abc", "abc"); got != 1.0 {
		t.Errorf("similarity of identical strings = %v, want 1.0", got)
	}
	if got := NameSimilarity("abc", "xyz"); got != 0.0 {
		t.Errorf("similarity of disjoint strings = %v, want 0.0", got)
	}
}
