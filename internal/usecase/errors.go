package usecase

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Sentinels classify failures for the transport layer.
var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// classifiedError prints only its own message and matches its sentinel
// through errors.Is.
type classifiedError struct {
	kind error
	msg  string
}

func (e *classifiedError) Error() string        { return e.msg }
func (e *classifiedError) Is(target error) bool { return target == e.kind }

func classify(kind error, format string, args ...any) error {
	return errors.WithStackDepth(&classifiedError{kind: kind, msg: fmt.Sprintf(format, args...)}, 2)
}

func invalidInputf(format string, args ...any) error {
	return classify(ErrInvalidInput, format, args...)
}

func notFound(kind, id string) error {
	return classify(ErrNotFound, "%s %q not found", kind, id)
}

func unavailablef(format string, args ...any) error {
	return classify(ErrDependencyUnavailable, format, args...)
}
