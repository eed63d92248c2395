package guard

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	textCodeSlugAndPINRequired = "SLUG_AND_PIN_REQUIRED"
	textCodeInvalidPIN         = "INVALID_PIN"
	textCodeRemoteVerification = "REMOTE_VERIFICATION_FAILED"
)

// ErrSlugAndPINRequired is returned when login is attempted with an empty
// slug or PIN. The remote verifier is never contacted in that case.
var ErrSlugAndPINRequired = goerrors.New("slug and PIN required", goerrors.CategoryValidation).
	WithTextCode(textCodeSlugAndPINRequired).
	WithCode(goerrors.CodeBadRequest)

// ErrInvalidPIN is returned when the remote verifier denied access or
// returned an unusable payload.
var ErrInvalidPIN = goerrors.New("invalid PIN", goerrors.CategoryAuth).
	WithTextCode(textCodeInvalidPIN).
	WithCode(goerrors.CodeUnauthorized)

// ErrRemoteVerification wraps transport or remote-side failures of the
// verification call.
var ErrRemoteVerification = goerrors.New("remote verification failed", goerrors.CategoryOperation).
	WithTextCode(textCodeRemoteVerification).
	WithCode(goerrors.CodeInternal)

// IsValidationError reports whether err is a pre-flight validation failure
// (missing slug or PIN).
func IsValidationError(err error) bool {
	return hasCategory(err, goerrors.CategoryValidation)
}

// IsInvalidCredentials reports whether err means the remote verifier denied
// access or returned an unusable payload.
func IsInvalidCredentials(err error) bool {
	return hasCategory(err, goerrors.CategoryAuth)
}

// IsRemoteError reports whether err is a transport or remote-side failure of
// the verification call.
func IsRemoteError(err error) bool {
	return hasCategory(err, goerrors.CategoryOperation)
}

func hasCategory(err error, category goerrors.Category) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	return richErr.Category == category
}
