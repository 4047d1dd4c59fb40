package feature

import (
	"testing"

	"github.com/yourusername/degree-recommender/internal/dataset"
	"github.com/yourusername/degree-recommender/internal/models"
)

func rec(year, district, stream, course, uni string, z, intake float64) models.AdmissionRecord {
	return models.AdmissionRecord{
		ExamYear:   year,
		District:   district,
		Stream:     stream,
		Course:     course,
		University: uni,
		Zscore:     z,
		Intake:     intake,
	}
}

func testCorpus() []models.AdmissionRecord {
	var records []models.AdmissionRecord
	// Two groups of 4 in Colombo, one group of 4 in Galle, plus a
	// singleton group that must be filtered out.
	zs := []float64{0.5, 1.0, 1.5, 2.0}
	for i, z := range zs {
		course := "Computer Science"
		if i%2 == 1 {
			course = "Engineering"
		}
		records = append(records,
			rec("2023", "Colombo", "Physical Science", course, "University Of Colombo", z, 100),
			rec("2022", "Colombo", "Physical Science", course, "University Of Colombo", z-0.1, 100),
			rec("2023", "Galle", "Biological Science", "Medicine", "University Of Ruhuna", z+0.2, 150),
		)
	}
	records = append(records,
		rec("2023", "Jaffna", "Arts", "History", "University Of Jaffna", 0.9, 80))
	return records
}

func TestFitFiltersSingletonGroups(t *testing.T) {
	_, set, err := Fit(testCorpus())
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}

	for _, gid := range set.GroupIDs {
		if gid == "Jaffna_Arts_2023" {
			t.Fatalf("singleton group survived filtering")
		}
	}
	if len(set.Features) != 12 {
		t.Fatalf("expected 12 rows after group filtering, got %d", len(set.Features))
	}
	if len(set.Features[0]) != len(FeatureColumns) {
		t.Fatalf("expected %d features, got %d", len(FeatureColumns), len(set.Features[0]))
	}
}

func TestFitEmptyCorpus(t *testing.T) {
	if _, _, err := Fit(nil); err == nil {
		t.Fatalf("expected error for empty corpus")
	}
}

func TestPercentileMonotonic(t *testing.T) {
	p, _, err := Fit(testCorpus())
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}

	agg := p.Aggregates
	prev := -1.0
	for z := -2.0; z <= 3.0; z += 0.25 {
		pct := agg.Percentile(z)
		if pct < prev {
			t.Fatalf("percentile not monotonic at z=%.2f: %f < %f", z, pct, prev)
		}
		if pct < 0 || pct > 1 {
			t.Fatalf("percentile out of [0,1]: %f", pct)
		}
		prev = pct
	}
}

func TestPercentileAverageRankTies(t *testing.T) {
	agg := &Aggregates{SortedZscores: []float64{1.0, 1.0, 2.0, 3.0}}

	// Two ties at 1.0 occupy ranks 1 and 2; average rank 1.5 of 4
	if got := agg.Percentile(1.0); got != 1.5/4 {
		t.Fatalf("tie percentile: expected %f, got %f", 1.5/4, got)
	}
	if got := agg.Percentile(3.0); got != 1.0 {
		t.Fatalf("max percentile: expected 1, got %f", got)
	}
}

func TestPercentileOutsideFittedRange(t *testing.T) {
	agg := &Aggregates{SortedZscores: []float64{1.0, 1.5, 2.0}}

	if got := agg.Percentile(2.5); got != 1.0 {
		t.Fatalf("above fitted max: expected 1, got %f", got)
	}
	if got := agg.Percentile(0.5); got != 0.0 {
		t.Fatalf("below fitted min: expected 0, got %f", got)
	}
	// Strictly between two samples: fraction of samples at or below
	if got := agg.Percentile(1.2); got != 1.0/3 {
		t.Fatalf("between samples: expected %f, got %f", 1.0/3, got)
	}
}

func TestCrossStreamCompatibilityIdentity(t *testing.T) {
	p, _, err := Fit(testCorpus())
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}

	agg := p.Aggregates
	key := models.CandidateKey("Computer Science", "University Of Colombo")

	sum := 0.0
	for _, s := range dataset.Streams {
		if s == dataset.CrossStream {
			continue
		}
		sum += float64(agg.StreamCandidateCount[pairKey(s, key)])
	}
	// The Cross Stream bucket itself is part of the sum as well
	sum += float64(agg.StreamCandidateCount[pairKey(dataset.CrossStream, key)])

	if got := agg.StreamCompatibility(dataset.CrossStream, key); got != sum {
		t.Fatalf("cross-stream compatibility: expected %f, got %f", sum, got)
	}
}

func TestTransformUnseenCandidate(t *testing.T) {
	p, _, err := Fit(testCorpus())
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}

	vec := p.Transform(rec("2023", "Colombo", "Physical Science", "Astrology", "Unknown University", 1.2, 0))

	if vec[8] != 0 {
		t.Fatalf("unseen candidate district competition should be 0, got %f", vec[8])
	}
	if vec[10] != 0 {
		t.Fatalf("unseen candidate popularity should be 0, got %f", vec[10])
	}
	if vec[IdxZscoreVsCourseAvg] != 1.2 {
		t.Fatalf("unseen candidate average defaults to 0, delta should equal zscore: got %f", vec[IdxZscoreVsCourseAvg])
	}

	missing := p.Encoders.Encoders[FieldCourse].Transform(models.MissingToken)
	if vec[3] != float64(missing) {
		t.Fatalf("unseen course should encode to Missing code %d, got %f", missing, vec[3])
	}
}

func TestRelevanceTiers(t *testing.T) {
	agg := &Aggregates{QuantileCuts: [4]float64{0.5, 1.0, 1.5, 1.9}}

	cases := []struct {
		z    float64
		tier int
	}{
		{models.NotQualifiedZscore, 0},
		{0.5, 0},
		{0.7, 1},
		{1.2, 2},
		{1.7, 3},
		{2.5, 4},
	}
	for _, c := range cases {
		if got := agg.RelevanceTier(c.z); got != c.tier {
			t.Fatalf("tier for z=%.2f: expected %d, got %d", c.z, c.tier, got)
		}
	}
}

func TestMaxYearComparesNumerically(t *testing.T) {
	cases := []struct {
		a, b, want string
	}{
		{"2022", "2023", "2023"},
		{"2023", "2022", "2023"},
		{"999", "1000", "1000"},
		{"", "2023", "2023"},
		{"2023", "abc", "abc"},
	}
	for _, c := range cases {
		if got := maxYear(c.a, c.b); got != c.want {
			t.Fatalf("maxYear(%q, %q): expected %q, got %q", c.a, c.b, c.want, got)
		}
	}
}

func TestNotQualifiedFlagEncoded(t *testing.T) {
	records := testCorpus()
	records = append(records,
		rec("2023", "Colombo", "Physical Science", "Computer Science", "University Of Colombo", models.NotQualifiedZscore, 100))

	p, _, err := Fit(records)
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}

	nqc := p.Transform(records[len(records)-1])
	ok := p.Transform(records[0])
	if nqc[IdxIsNQC] == ok[IdxIsNQC] {
		t.Fatalf("not-qualified flag should encode differently from qualified rows")
	}
}
