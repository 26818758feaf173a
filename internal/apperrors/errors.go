package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure for callers and the HTTP layer.
type Kind string

const (
	KindNotFound        Kind = "NOT_FOUND"
	KindForbidden       Kind = "FORBIDDEN"
	KindInvalidState    Kind = "INVALID_STATE"
	KindInvalidArgument Kind = "INVALID_ARGUMENT"
	KindUnauthenticated Kind = "UNAUTHENTICATED"
)

// Code identifies a specific failure within a kind.
type Code string

const (
	CodeProposalNotFound   Code = "PROPOSAL_NOT_FOUND"
	CodeTargetUserNotFound Code = "TARGET_USER_NOT_FOUND"
	CodeUserNotFound       Code = "USER_NOT_FOUND"
	CodeRecapNotFound      Code = "RECAP_NOT_FOUND"
	CodeNotProposalTarget  Code = "NOT_PROPOSAL_TARGET"
	CodeNotParticipant     Code = "NOT_PROPOSAL_PARTICIPANT"
	CodeInvalidTransition  Code = "PROPOSAL_INVALID_TRANSITION"
	CodeNotOpenForBets     Code = "PROPOSAL_NOT_OPEN_FOR_BETS"
	CodeNotAccepted        Code = "PROPOSAL_NOT_ACCEPTED"
	CodeDarePoolEmpty      Code = "DARE_POOL_EMPTY"
	CodeDareRollLimit      Code = "DARE_ROLL_LIMIT"
	CodeRecapUnknownBet    Code = "RECAP_UNKNOWN_BET"
	CodeRecapBetSettled    Code = "RECAP_BET_SETTLED"
	CodeRecapDuplicateBet  Code = "RECAP_DUPLICATE_BET"
	CodeRecapUnknownDare   Code = "RECAP_UNKNOWN_DARE"
	CodeSelfProposal       Code = "SELF_PROPOSAL"
	CodeUsernameTaken      Code = "USERNAME_TAKEN"
	CodeEmailTaken         Code = "EMAIL_TAKEN"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeInvalidToken       Code = "INVALID_TOKEN"
	CodeMissingToken       Code = "MISSING_TOKEN"
	CodeValidationFailed   Code = "VALIDATION_FAILED"
)

// Error is a classified application error.
type Error struct {
	Kind    Kind
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches on code when the target carries one, otherwise on kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Code != "" {
		return e.Code == t.Code
	}
	return e.Kind == t.Kind
}

// Kind sentinels for errors.Is.
var (
	ErrNotFound        = &Error{Kind: KindNotFound, Message: "not found"}
	ErrForbidden       = &Error{Kind: KindForbidden, Message: "forbidden"}
	ErrInvalidState    = &Error{Kind: KindInvalidState, Message: "invalid state"}
	ErrInvalidArgument = &Error{Kind: KindInvalidArgument, Message: "invalid argument"}
	ErrUnauthenticated = &Error{Kind: KindUnauthenticated, Message: "unauthenticated"}
)

func New(kind Kind, code Code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func Wrap(kind Kind, code Code, message string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Cause: cause}
}

func NotFound(code Code, format string, args ...any) *Error {
	return New(KindNotFound, code, fmt.Sprintf(format, args...))
}

func Forbidden(code Code, format string, args ...any) *Error {
	return New(KindForbidden, code, fmt.Sprintf(format, args...))
}

func InvalidState(code Code, format string, args ...any) *Error {
	return New(KindInvalidState, code, fmt.Sprintf(format, args...))
}

func InvalidArgument(code Code, format string, args ...any) *Error {
	return New(KindInvalidArgument, code, fmt.Sprintf(format, args...))
}

func Unauthenticated(code Code, format string, args ...any) *Error {
	return New(KindUnauthenticated, code, fmt.Sprintf(format, args...))
}

// As extracts the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf returns the kind of err, or "" for unclassified errors.
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return ""
}

// HTTPStatus maps an error to its response status. Unclassified errors are 500.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindInvalidState:
		return http.StatusConflict
	case KindInvalidArgument:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
