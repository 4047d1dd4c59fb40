package feature

import (
	"testing"

	"github.com/yourusername/degree-recommender/internal/models"
)

func TestLabelEncoderLexicographicCodes(t *testing.T) {
	enc := FitLabelEncoder([]string{"Colombo", "Ampara", "Galle", "Colombo"})

	// Classes sort lexicographically with Missing always present
	want := []string{"Ampara", "Colombo", "Galle", models.MissingToken}
	if len(enc.Classes) != len(want) {
		t.Fatalf("expected %d classes, got %d", len(want), len(enc.Classes))
	}
	for i, c := range want {
		if enc.Classes[i] != c {
			t.Fatalf("class %d: expected %q, got %q", i, c, enc.Classes[i])
		}
	}
}

func TestLabelEncoderStability(t *testing.T) {
	values := []string{"Arts", "Commerce", "Physical Science"}
	enc := FitLabelEncoder(values)

	for _, v := range values {
		first := enc.Transform(v)
		for i := 0; i < 10; i++ {
			if got := enc.Transform(v); got != first {
				t.Fatalf("transform of %q not stable: %d then %d", v, first, got)
			}
		}
	}

	// Re-fitting on the same value set reproduces the same code space
	refit := FitLabelEncoder(values)
	for _, v := range values {
		if enc.Transform(v) != refit.Transform(v) {
			t.Fatalf("re-fit changed code for %q", v)
		}
	}
}

func TestLabelEncoderUnseenFallsBackToMissing(t *testing.T) {
	enc := FitLabelEncoder([]string{"Colombo", "Galle"})

	missing := enc.Transform(models.MissingToken)
	if got := enc.Transform("Atlantis"); got != missing {
		t.Fatalf("unseen value should get Missing code %d, got %d", missing, got)
	}
}

func TestLabelEncoderInverse(t *testing.T) {
	enc := FitLabelEncoder([]string{"Jaffna", "Kandy"})

	code := enc.Transform("Kandy")
	v, ok := enc.Inverse(code)
	if !ok || v != "Kandy" {
		t.Fatalf("inverse(%d) = %q, %v; expected Kandy", code, v, ok)
	}

	if _, ok := enc.Inverse(999); ok {
		t.Fatalf("inverse of out-of-range code should fail")
	}
}

func TestEncoderRegistryUnfittedField(t *testing.T) {
	r := NewEncoderRegistry()
	if got := r.Transform("nope", "value"); got != 0 {
		t.Fatalf("unfitted field should encode to 0, got %f", got)
	}
}
