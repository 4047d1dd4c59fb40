package models

import "errors"

// Custom errors
var (
	// ErrDataUnavailable indicates the dataset source could not be read
	ErrDataUnavailable = errors.New("dataset unavailable")

	// ErrSchemaMismatch indicates required dataset columns are missing
	ErrSchemaMismatch = errors.New("dataset schema mismatch")

	// ErrTrainingDataInsufficient indicates too few usable rows/groups remain after filtering
	ErrTrainingDataInsufficient = errors.New("insufficient training data")

	// ErrModelNotReady indicates inference was attempted before a valid artifact was loaded
	ErrModelNotReady = errors.New("model not ready")

	// ErrInvalidProfile indicates student profile validation failed
	ErrInvalidProfile = errors.New("invalid student profile")

	// ErrNotFound indicates a record was not found
	ErrNotFound = errors.New("record not found")
)
