// AngelaMos | 2026
// errors.go

package core

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound        = errors.New("resource not found")
	ErrDuplicateKey    = errors.New("duplicate key")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrTokenExpired    = errors.New("token expired")
	ErrTokenInvalid    = errors.New("token invalid")
	ErrTokenRevoked    = errors.New("token revoked")
	ErrStoreRejected   = errors.New("store rejected request")
	ErrProviderFailure = errors.New("auth provider request failed")
	ErrRateLimited     = errors.New("rate limited")
)

const (
	CodeUnauthenticated        = "UNAUTHENTICATED"
	CodeBadJSON                = "BAD_JSON"
	CodeValidation             = "VALIDATION"
	CodeDBInsertFailed         = "DB_INSERT_FAILED"
	CodeDBUpsertFailed         = "DB_UPSERT_FAILED"
	CodeRPCFailed              = "RPC_FAILED"
	CodeNoActiveWorkspace      = "NO_ACTIVE_WORKSPACE"
	CodeNoEmployerForWorkspace = "NO_EMPLOYER_FOR_WORKSPACE"
	CodeMissingEmployerState   = "MISSING_EMPLOYER_STATE"
	CodeForbidden              = "FORBIDDEN"
	CodeNotFound               = "NOT_FOUND"
	CodeUpstreamFailed         = "UPSTREAM_FAILED"
	CodeRateLimited            = "RATE_LIMITED"
	CodeInternal               = "INTERNAL_ERROR"
)

// Token rejections all answer UNAUTHENTICATED. The reason rides in details.
const (
	ReasonTokenExpired = "token_expired"
	ReasonTokenInvalid = "token_invalid"
	ReasonTokenRevoked = "token_revoked"
)

// AppError is an error that knows how it is rendered in the response
// envelope.
type AppError struct {
	Err        error
	Message    string
	StatusCode int
	Code       string
	Details    any
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(err error, message string, status int, code string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		StatusCode: status,
		Code:       code,
	}
}

func (e *AppError) WithDetails(details any) *AppError {
	e.Details = details
	return e
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func UnauthorizedError(message string) *AppError {
	if message == "" {
		message = "authentication required"
	}
	return NewAppError(
		ErrUnauthorized,
		message,
		http.StatusUnauthorized,
		CodeUnauthenticated,
	)
}

func ForbiddenError(message string) *AppError {
	if message == "" {
		message = "forbidden"
	}
	return NewAppError(ErrForbidden, message, http.StatusForbidden, CodeForbidden)
}

func NotFoundError(resource string) *AppError {
	return NewAppError(
		ErrNotFound,
		resource+" not found",
		http.StatusNotFound,
		CodeNotFound,
	)
}

func BadJSONError() *AppError {
	return NewAppError(
		ErrInvalidInput,
		"request body must be valid JSON",
		http.StatusBadRequest,
		CodeBadJSON,
	)
}

func ValidationError(message string, details any) *AppError {
	return NewAppError(
		ErrInvalidInput,
		message,
		http.StatusUnprocessableEntity,
		CodeValidation,
	).WithDetails(details)
}

// StoreWriteError relays a rejected write with the store's own message and
// the raw error in details.
func StoreWriteError(code string, err error) *AppError {
	return NewAppError(
		ErrStoreRejected,
		StoreMessage(err),
		http.StatusBadRequest,
		code,
	).WithDetails(StoreErrorDetails(err))
}

func TokenExpiredError() *AppError {
	return tokenError(ErrTokenExpired, "session expired", ReasonTokenExpired)
}

func TokenInvalidError() *AppError {
	return tokenError(ErrTokenInvalid, "invalid session token", ReasonTokenInvalid)
}

func TokenRevokedError() *AppError {
	return tokenError(ErrTokenRevoked, "session has been signed out", ReasonTokenRevoked)
}

func tokenError(err error, message, reason string) *AppError {
	return NewAppError(
		err,
		message,
		http.StatusUnauthorized,
		CodeUnauthenticated,
	).WithDetails(map[string]string{"reason": reason})
}

// StoreErrorDetails exposes the diagnostic fields of a Postgres error.
func StoreErrorDetails(err error) any {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return map[string]string{
			"code":       pgErr.Code,
			"message":    pgErr.Message,
			"detail":     pgErr.Detail,
			"hint":       pgErr.Hint,
			"constraint": pgErr.ConstraintName,
		}
	}
	if err == nil {
		return nil
	}
	return map[string]string{"message": err.Error()}
}

// StoreMessage returns the message the store attached to err, falling back
// to the full error text.
func StoreMessage(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

func IsDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// transientClasses are SQLSTATE classes a retry may clear: connection
// exceptions, transaction rollbacks, resource and operator limits.
var transientClasses = map[string]bool{
	"08": true,
	"40": true,
	"53": true,
	"57": true,
	"58": true,
}

// IsTransientStoreError reports whether err may succeed on retry. A missing
// row or any Postgres error outside the transient classes is permanent;
// errors that never reached the store (network, timeouts) are transient.
func IsTransientStoreError(err error) bool {
	if err == nil || errors.Is(err, sql.ErrNoRows) {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return len(pgErr.Code) >= 2 && transientClasses[pgErr.Code[:2]]
	}
	return true
}
