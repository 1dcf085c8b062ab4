package domain

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	ErrorCodeTeamExists        ErrorCode = "TEAM_EXISTS"
	ErrorCodePRExists          ErrorCode = "PR_EXISTS"
	ErrorCodePRMerged          ErrorCode = "PR_MERGED"
	ErrorCodeNotAssigned       ErrorCode = "NOT_ASSIGNED"
	ErrorCodeNoCandidate       ErrorCode = "NO_CANDIDATE"
	ErrorCodeNotFound          ErrorCode = "NOT_FOUND"
	ErrorCodeAuthorNotEligible ErrorCode = "AUTHOR_NOT_ELIGIBLE"
	ErrorCodeBadRequest        ErrorCode = "BAD_REQUEST"
	ErrorCodeDBError           ErrorCode = "DB_ERROR"
	ErrorCodeInternal          ErrorCode = "INTERNAL_ERROR"
)

// DomainError is an expected, caller-facing failure with a stable code.
type DomainError struct {
	Code    ErrorCode
	Message string
}

func NewDomainError(code ErrorCode, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches any DomainError carrying the same code, so callers can write
// errors.Is(err, domain.NewDomainError(domain.ErrorCodeNotFound, "")).
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// CodeOf returns the code of the DomainError in err's chain, or "" if there is none.
func CodeOf(err error) ErrorCode {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
