// Package feature turns raw admission records into the fixed-order numeric
// vectors the ranking model consumes. Fitting stores every aggregate and
// encoder needed so that transform-time math is identical to training-time
// math.
package feature

import (
	"sort"

	"github.com/yourusername/degree-recommender/internal/models"
)

// LabelEncoder assigns dense integer codes to categorical values.
// Codes are assigned in lexicographic order of the observed classes so that
// re-fitting on the same value set reproduces the same code space. The
// Missing token is always a class, and unseen values fall back to its code
// instead of erroring.
type LabelEncoder struct {
	Classes []string
	Codes   map[string]int
}

// FitLabelEncoder builds an encoder over the distinct observed values.
func FitLabelEncoder(values []string) *LabelEncoder {
	seen := map[string]struct{}{models.MissingToken: {}}
	for _, v := range values {
		seen[v] = struct{}{}
	}

	classes := make([]string, 0, len(seen))
	for v := range seen {
		classes = append(classes, v)
	}
	sort.Strings(classes)

	codes := make(map[string]int, len(classes))
	for i, c := range classes {
		codes[c] = i
	}

	return &LabelEncoder{Classes: classes, Codes: codes}
}

// Transform returns the fitted code for v, or the Missing code when v was
// never observed during fit.
func (e *LabelEncoder) Transform(v string) int {
	if code, ok := e.Codes[v]; ok {
		return code
	}
	return e.Codes[models.MissingToken]
}

// Inverse returns the class for a code, for diagnostics.
func (e *LabelEncoder) Inverse(code int) (string, bool) {
	if code < 0 || code >= len(e.Classes) {
		return "", false
	}
	return e.Classes[code], true
}

// Categorical fields with a fitted encoder.
const (
	FieldExamYear   = "exam_year"
	FieldDistrict   = "district"
	FieldStream     = "stream"
	FieldCourse     = "course"
	FieldUniversity = "university"
	FieldIsNQC      = "is_nqc"
)

// EncoderRegistry holds one label encoder per categorical field, fit once on
// the training corpus and reused verbatim at inference.
type EncoderRegistry struct {
	Encoders map[string]*LabelEncoder
}

// NewEncoderRegistry creates an empty registry.
func NewEncoderRegistry() *EncoderRegistry {
	return &EncoderRegistry{Encoders: make(map[string]*LabelEncoder)}
}

// Fit fits an encoder for the named field over the given values.
func (r *EncoderRegistry) Fit(field string, values []string) {
	r.Encoders[field] = FitLabelEncoder(values)
}

// Transform encodes a value for the named field. An unfitted field yields 0,
// matching the unseen-category policy.
func (r *EncoderRegistry) Transform(field, value string) float64 {
	enc, ok := r.Encoders[field]
	if !ok {
		return 0
	}
	return float64(enc.Transform(value))
}

// boolToken maps the not-qualified flag onto encoder classes.
func boolToken(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
