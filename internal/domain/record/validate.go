package record

import (
	"fmt"

	"github.com/okian/securescore/internal/domain/jsondoc"
)

// RootPath is the path reported for the document root.
const RootPath = "$"

// ErrorKind classifies a ValidationError.
type ErrorKind int

// Validation failure kinds.
const (
	MissingField ErrorKind = iota + 1
	TypeMismatch
	UnexpectedElementKind
)

func (k ErrorKind) String() string {
	switch k {
	case MissingField:
		return "MissingField"
	case TypeMismatch:
		return "TypeMismatch"
	case UnexpectedElementKind:
		return "UnexpectedElementKind"
	default:
		return "Unknown"
	}
}

// ValidationError reports a structurally invalid record. It matches
// ErrValidation and the per-kind sentinel under errors.Is.
type ValidationError struct {
	Kind  ErrorKind
	Field string       // offending field, empty for UnexpectedElementKind
	Path  string       // location in the document, e.g. $[2][0]
	Got   jsondoc.Kind // kind found where something else was expected
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case MissingField:
		return fmt.Sprintf("%s at %s: missing field %q", e.Kind, e.Path, e.Field)
	case TypeMismatch:
		return fmt.Sprintf("%s at %s: field %q is %s, want number", e.Kind, e.Path, e.Field, e.Got)
	default:
		return fmt.Sprintf("%s at %s: got %s, want object or array", e.Kind, e.Path, e.Got)
	}
}

// Is matches ErrValidation and the sentinel of the error's kind.
func (e *ValidationError) Is(target error) bool {
	switch target {
	case ErrValidation:
		return true
	case ErrMissingField:
		return e.Kind == MissingField
	case ErrTypeMismatch:
		return e.Kind == TypeMismatch
	case ErrUnexpectedElementKind:
		return e.Kind == UnexpectedElementKind
	}
	return false
}

// Validate checks a single record object.
func Validate(v jsondoc.Value) (Fields, error) {
	obj, ok := v.(jsondoc.Object)
	if !ok {
		return Fields{}, unexpected(v, RootPath)
	}
	return ValidateObject(obj, RootPath)
}

// ValidateObject checks that obj carries a numeric currentScore and a
// scorePercentage. path is only used for error reporting.
func ValidateObject(obj jsondoc.Object, path string) (Fields, error) {
	cur, ok := obj.Get(FieldCurrentScore)
	if !ok {
		return Fields{}, &ValidationError{Kind: MissingField, Field: FieldCurrentScore, Path: path}
	}
	if _, isNum := cur.(jsondoc.Number); !isNum {
		return Fields{}, &ValidationError{Kind: TypeMismatch, Field: FieldCurrentScore, Path: path, Got: cur.Kind()}
	}
	if _, ok := obj.Get(FieldScorePercentage); !ok {
		return Fields{}, &ValidationError{Kind: MissingField, Field: FieldScorePercentage, Path: path}
	}
	return Fields{object: obj}, nil
}

// ValidateDocument checks an object or an array of records. Arrays are
// walked recursively; any element that is neither object nor array fails
// with UnexpectedElementKind.
func ValidateDocument(v jsondoc.Value) ([]Fields, error) {
	var out []Fields
	if err := validateAt(v, RootPath, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func validateAt(v jsondoc.Value, path string, out *[]Fields) error {
	switch t := v.(type) {
	case jsondoc.Object:
		f, err := ValidateObject(t, path)
		if err != nil {
			return err
		}
		*out = append(*out, f)
	case jsondoc.Array:
		for i, e := range t.Elems {
			if err := validateAt(e, ElemPath(path, i), out); err != nil {
				return err
			}
		}
	default:
		return unexpected(v, path)
	}
	return nil
}

// ElemPath returns the path of the i-th element below path.
func ElemPath(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}

func unexpected(v jsondoc.Value, path string) *ValidationError {
	got := jsondoc.KindOther
	if v != nil {
		got = v.Kind()
	}
	return &ValidationError{Kind: UnexpectedElementKind, Path: path, Got: got}
}
