package domain

import "errors"

// Outcome classifies the result of a journal operation.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeNotFound
	OutcomeForbidden
	OutcomeConflict
	OutcomeInvalid
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeForbidden:
		return "forbidden"
	case OutcomeConflict:
		return "conflict"
	case OutcomeInvalid:
		return "invalid"
	default:
		return "failed"
	}
}

// OutcomeOf maps an operation error onto its Outcome. A nil error is OutcomeOK;
// anything that is not an expected outcome is OutcomeFailed.
func OutcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrInconsistentState), errors.Is(err, ErrTransactionAborted):
		return OutcomeFailed
	case errors.Is(err, ErrForbidden):
		return OutcomeForbidden
	case errors.Is(err, ErrPrincipalNotFound), errors.Is(err, ErrEntryNotFound):
		return OutcomeNotFound
	case errors.Is(err, ErrUsernameTaken):
		return OutcomeConflict
	case errors.Is(err, ErrInvalidRole), errors.Is(err, ErrInvalidCredential):
		return OutcomeInvalid
	default:
		return OutcomeFailed
	}
}

// IsExpected reports whether err is one of the expected outcomes rather than a failure.
func IsExpected(err error) bool {
	o := OutcomeOf(err)
	return o != OutcomeOK && o != OutcomeFailed
}
