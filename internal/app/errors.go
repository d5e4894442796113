package service

import (
	"errors"
	"fmt"

	"github.com/okian/securescore/internal/adapters/repository"
	"github.com/okian/securescore/internal/adapters/source"
	"github.com/okian/securescore/internal/domain/record"
)

// Error kinds an ingestion can fail with. All of them are reachable through
// errors.Is on the returned *StageError.
var (
	ErrParse           = errors.New("history is not valid JSON")
	ErrValidation      = record.ErrValidation
	ErrSource          = source.ErrSource
	ErrWrite           = repository.ErrWrite
	ErrFieldNotNumeric = record.ErrFieldNotNumeric
	ErrLocked          = repository.ErrLocked
)

// Stage names a step of the ingestion pipeline.
type Stage string

// Pipeline stages in execution order.
const (
	StageRead      Stage = "READ"
	StageParse     Stage = "PARSE"
	StageNormalize Stage = "NORMALIZE"
	StageFetch     Stage = "FETCH"
	StageDelta     Stage = "DELTA"
	StageAppend    Stage = "APPEND"
	StagePersist   Stage = "PERSIST"
)

// StageError reports the stage an ingestion failed in.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func fail(stage Stage, err error) error {
	return &StageError{Stage: stage, Err: err}
}

// ErrorType returns a short label for err suitable for metrics and exit
// diagnostics.
func ErrorType(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrLocked):
		return "locked"
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrSource):
		return "source"
	case errors.Is(err, ErrFieldNotNumeric):
		return "field_not_numeric"
	case errors.Is(err, ErrWrite):
		return "write"
	case errors.Is(err, repository.ErrRead):
		return "read"
	default:
		return "internal"
	}
}
