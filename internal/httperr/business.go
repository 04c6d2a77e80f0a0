package httperr

import "errors"

// Kind classifies a business error. Every kind is recoverable by the caller
// retrying with corrected input; none of them is fatal to the process.
type Kind string

const (
	KindValidation Kind = "validation"
	KindConflict   Kind = "conflict"
	KindPermission Kind = "permission"
	KindState      Kind = "state"
	KindNotFound   Kind = "not_found"
)

type BusinessError struct {
	Kind Kind
	Code string
}

func (e BusinessError) Error() string {
	return string(e.Kind) + ": " + e.Code
}

// ErrBusiness is a validation failure identified by code.
func ErrBusiness(code string) error {
	return ErrValidation(code)
}

func ErrValidation(code string) error {
	return BusinessError{Kind: KindValidation, Code: code}
}

func ErrConflict(code string) error {
	return BusinessError{Kind: KindConflict, Code: code}
}

func ErrPermission(code string) error {
	return BusinessError{Kind: KindPermission, Code: code}
}

func ErrState(code string) error {
	return BusinessError{Kind: KindState, Code: code}
}

func ErrNotFound(code string) error {
	return BusinessError{Kind: KindNotFound, Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func IsKind(err error, kind Kind) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind == kind
	}
	return false
}
