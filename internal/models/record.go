// Package models contains the core domain types for the degree recommendation system.
package models

import "fmt"

const (
	// NotQualifiedZscore is the sentinel for students who did not meet the
	// minimum bar for an offering. Kept numeric so competition and popularity
	// counts still see the row.
	NotQualifiedZscore = -10.0

	// MissingToken is the imputed value for absent categorical fields so
	// encoders always have a defined class.
	MissingToken = "Missing"
)

// AdmissionRecord is one historical admission row after loading and cleaning.
type AdmissionRecord struct {
	ExamYear   string
	District   string
	Stream     string
	Course     string
	University string
	Zscore     float64
	Intake     float64
}

// CandidateKey returns the canonical (course, university) identifier used
// throughout the pipeline.
func (r AdmissionRecord) CandidateKey() string {
	return CandidateKey(r.Course, r.University)
}

// GroupID returns the learning-to-rank group this record belongs to.
func (r AdmissionRecord) GroupID() string {
	return r.District + "_" + r.Stream + "_" + r.ExamYear
}

// IsNotQualified reports whether the record carries the not-qualified sentinel.
func (r AdmissionRecord) IsNotQualified() bool {
	return r.Zscore == NotQualifiedZscore
}

// CandidateKey builds the combined course/university identifier.
func CandidateKey(course, university string) string {
	return fmt.Sprintf("%s (%s)", course, university)
}
