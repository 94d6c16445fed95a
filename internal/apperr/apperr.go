// Package apperr defines the typed error kinds surfaced by the store and
// its collaborators. Callers branch with errors.As / the Is* helpers rather
// than matching message strings.
package apperr

import "errors"

// AuthError covers identity and credential failures from the session
// manager. Never retried automatically.
type AuthError struct {
	Msg string
	Err error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return "auth: " + e.Msg + ": " + e.Err.Error()
	}
	return "auth: " + e.Msg
}

func (e *AuthError) Unwrap() error { return e.Err }

func Auth(msg string) *AuthError { return &AuthError{Msg: msg} }

func AuthWrap(msg string, err error) *AuthError { return &AuthError{Msg: msg, Err: err} }

// PersistenceError covers durable-backend read/write failures. The
// corresponding in-memory mutation is never applied.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	if e.Err != nil {
		return "persist: " + e.Op + ": " + e.Err.Error()
	}
	return "persist: " + e.Op
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func Persistence(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}

// ValidationError rejects bad input before any mutation or network call.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return "validation: " + e.Msg }

func Validation(msg string) *ValidationError { return &ValidationError{Msg: msg} }

func IsAuth(err error) bool {
	var e *AuthError
	return errors.As(err, &e)
}

func IsPersistence(err error) bool {
	var e *PersistenceError
	return errors.As(err, &e)
}

func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}
