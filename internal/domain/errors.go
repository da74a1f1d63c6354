package domain

import (
	"errors"
	"fmt"
)

// CoverageError reports a coverage pipeline failure: nothing was
// instrumented, the annotator failed, no executable lines were found, or a
// rate fell below its threshold.
type CoverageError struct {
	Msg string
}

func (e *CoverageError) Error() string {
	return e.Msg
}

func newCoverageError(format string, args ...any) error {
	return &CoverageError{Msg: fmt.Sprintf(format, args...)}
}

// IsCoverageError reports whether err wraps a CoverageError.
func IsCoverageError(err error) bool {
	var coverageErr *CoverageError
	return errors.As(err, &coverageErr)
}
