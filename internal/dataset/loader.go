package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/degree-recommender/internal/config"
	"github.com/yourusername/degree-recommender/internal/models"
)

// Canonical column names after header normalization.
const (
	colExamYear   = "exam_year"
	colDistrict   = "district"
	colStream     = "stream"
	colCourse     = "course"
	colUniversity = "university"
	colZscore     = "zscore"
	colIntake     = "intake"
)

var requiredColumns = []string{
	colExamYear, colDistrict, colStream, colCourse, colUniversity, colZscore, colIntake,
}

// Loader reads historical admission records from a local file or an HTTP URL.
type Loader struct {
	cfg    config.DatasetConfig
	http   *httpSource
	logger *logrus.Logger
}

// NewLoader creates a dataset loader for the configured location.
func NewLoader(cfg config.DatasetConfig, logger *logrus.Logger) *Loader {
	return &Loader{
		cfg:    cfg,
		http:   newHTTPSource(cfg, logger),
		logger: logger,
	}
}

// Load reads the configured source and returns cleaned admission records.
// Rows are never dropped here: missing categoricals become the Missing token
// and unparseable z-scores become the not-qualified sentinel, so downstream
// competition and popularity counts see every row.
func (l *Loader) Load(ctx context.Context) ([]models.AdmissionRecord, error) {
	data, err := l.read(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDataUnavailable, err)
	}

	records, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	l.logger.WithFields(logrus.Fields{
		"location": l.cfg.Location,
		"rows":     len(records),
	}).Info("Dataset loaded")

	return records, nil
}

func (l *Loader) read(ctx context.Context) ([]byte, error) {
	if strings.HasPrefix(l.cfg.Location, "http://") || strings.HasPrefix(l.cfg.Location, "https://") {
		return l.http.fetch(ctx, l.cfg.Location)
	}
	return os.ReadFile(l.cfg.Location)
}

// Parse reads CSV content into admission records, validating the schema and
// imputing missing values.
func Parse(r io.Reader) ([]models.AdmissionRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read header: %v", models.ErrDataUnavailable, err)
	}

	index, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var records []models.AdmissionRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read row: %v", models.ErrDataUnavailable, err)
		}

		records = append(records, models.AdmissionRecord{
			ExamYear:   categorical(cell(row, index[colExamYear])),
			District:   categorical(cell(row, index[colDistrict])),
			Stream:     categorical(cell(row, index[colStream])),
			Course:     categorical(cell(row, index[colCourse])),
			University: categorical(cell(row, index[colUniversity])),
			Zscore:     zscore(cell(row, index[colZscore])),
			Intake:     intake(cell(row, index[colIntake])),
		})
	}

	return records, nil
}

// columnIndex maps canonical column names to positions, tolerating case and
// separator differences in headers ("Exam Year", "exam_year", "ExamYear").
func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(requiredColumns))
	for i, h := range header {
		index[normalizeHeader(h)] = i
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns %v", models.ErrSchemaMismatch, missing)
	}

	return index, nil
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, " ", "_")
	// "Matched_Course_University" style headers stay as-is; only the
	// required columns matter for lookup
	return h
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func categorical(v string) string {
	if v == "" {
		return models.MissingToken
	}
	return v
}

func zscore(v string) float64 {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return models.NotQualifiedZscore
	}
	return f
}

func intake(v string) float64 {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}
