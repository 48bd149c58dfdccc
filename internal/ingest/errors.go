package ingest

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation matches every user-correctable ingestion failure.
var ErrValidation = errors.New("validation failed")

// DecodeError means the upload could not be read as CSV under any of the
// attempted encodings.
type DecodeError struct {
	Encodings []string
	Err       error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("Failed to read CSV (tried %s): %v", strings.Join(e.Encodings, ", "), e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrValidation }

// SchemaError means a required column is absent. NearMisses lists headers
// that look like review text columns under another name.
type SchemaError struct {
	Missing    []string
	Available  []string
	NearMisses []string
}

func (e *SchemaError) Error() string {
	msg := "Missing required columns: " + strings.Join(e.Missing, ", ")
	if len(e.NearMisses) > 0 {
		msg += ". Possible matches: " + strings.Join(e.NearMisses, ", ")
	}
	return msg
}

func (e *SchemaError) Is(target error) bool { return target == ErrValidation }

// EmptyDataError means no row survived cleaning.
type EmptyDataError struct {
	Column string
}

func (e *EmptyDataError) Error() string {
	return fmt.Sprintf("No valid reviews found: every row has an empty %q value", e.Column)
}

func (e *EmptyDataError) Is(target error) bool { return target == ErrValidation }
