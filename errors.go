package membership

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fernandezvara/dbkit"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Sentinel errors for membership operations.
var (
	// ErrInvalidConfiguration is returned when configuration uses a reserved
	// separator character or an impossible value.
	ErrInvalidConfiguration = errors.New("membership: invalid configuration")

	// ErrDuplicateHandle is returned when a group or permission handle is already taken.
	ErrDuplicateHandle = errors.New("membership: duplicate handle")

	// ErrGroupFull is returned when a group has reached its member limit.
	ErrGroupFull = errors.New("membership: group is full")

	// ErrPermissionNotFound is returned when a permission reference does not resolve.
	ErrPermissionNotFound = errors.New("membership: permission not found")

	// ErrGroupNotFound is returned when a group reference does not resolve.
	ErrGroupNotFound = errors.New("membership: group not found")

	// ErrUserNotFound is returned when the host users table has no such user.
	ErrUserNotFound = errors.New("membership: user not found")

	// ErrPermissionInUse is returned when deleting a permission that is still granted.
	ErrPermissionInUse = errors.New("membership: permission in use")

	// ErrInvalidPermission is returned when a permission handle is malformed.
	ErrInvalidPermission = errors.New("membership: invalid permission")

	// ErrInvalidGroup is returned when group attributes are malformed.
	ErrInvalidGroup = errors.New("membership: invalid group")

	// ErrAbilityNotDefined is returned by the gate for handles it does not know.
	ErrAbilityNotDefined = errors.New("membership: ability not defined")

	// ErrForbidden is passed to the middleware error handler when the gate denies a request.
	ErrForbidden = errors.New("membership: forbidden")

	// ErrNoUserID is returned when user ID is not found in context.
	ErrNoUserID = errors.New("membership: no user ID in context")

	// ErrDatabaseError is returned when a database operation fails.
	ErrDatabaseError = errors.New("membership: database error")
)

// Error wraps a sentinel error with additional context.
type Error struct {
	Err          error  // Underlying sentinel error
	Message      string // Additional context
	GroupID      string // Group involved (if applicable)
	PermissionID string // Permission id or handle involved (if applicable)
	UserID       string // User involved (if applicable)
	Cause        error  // Store error that triggered this one (if any)
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Err.Error())
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying errors for errors.Is/As.
func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

// NewError creates a new Error with context.
func NewError(err error, message string) *Error {
	return &Error{
		Err:     err,
		Message: message,
	}
}

// WithGroup adds group information to the error.
func (e *Error) WithGroup(groupID string) *Error {
	e.GroupID = groupID
	return e
}

// WithPermission adds permission information to the error.
func (e *Error) WithPermission(ref string) *Error {
	e.PermissionID = ref
	return e
}

// WithUser adds user information to the error.
func (e *Error) WithUser(userID string) *Error {
	e.UserID = userID
	return e
}

// WithCause records the store error behind this one.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// BatchItemError is the failure of one element of a batch operation.
type BatchItemError struct {
	Index int    // Position of the element in the batch
	Ref   string // Human readable reference of the element
	Err   error
}

func (e BatchItemError) Error() string {
	return fmt.Sprintf("item %d (%s): %v", e.Index, e.Ref, e.Err)
}

func (e BatchItemError) Unwrap() error {
	return e.Err
}

// BatchError collects the per-element failures of a best-effort batch.
// Elements that succeeded stay applied.
type BatchError struct {
	Op       string
	Failures []BatchItemError
}

func (e *BatchError) Error() string {
	msgs := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		msgs = append(msgs, f.Error())
	}
	return fmt.Sprintf("membership: %s: %d failed: %s", e.Op, len(e.Failures), strings.Join(msgs, "; "))
}

// Unwrap exposes every element failure to errors.Is/As.
func (e *BatchError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f)
	}
	return errs
}

func (e *BatchError) add(index int, ref string, err error) {
	e.Failures = append(e.Failures, BatchItemError{Index: index, Ref: ref, Err: err})
}

// orNil returns nil when no element failed.
func (e *BatchError) orNil() error {
	if len(e.Failures) == 0 {
		return nil
	}
	return e
}

// IsGroupFull checks if an error is due to the group member limit.
func IsGroupFull(err error) bool {
	return errors.Is(err, ErrGroupFull)
}

// IsNotFound checks if an error is a group, permission or user lookup failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrGroupNotFound) ||
		errors.Is(err, ErrPermissionNotFound) ||
		errors.Is(err, ErrUserNotFound)
}

// IsDuplicateHandle checks if an error is a handle collision.
func IsDuplicateHandle(err error) bool {
	return errors.Is(err, ErrDuplicateHandle)
}

// isUniqueViolation recognises unique constraint failures from PostgreSQL and SQLite.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if dbkit.IsDuplicate(err) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	var bunErr pgdriver.Error
	if errors.As(err, &bunErr) && bunErr.Field('C') == "23505" {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isUndefinedTable recognises "table does not exist" from PostgreSQL and SQLite.
func isUndefinedTable(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "42P01" {
		return true
	}
	var bunErr pgdriver.Error
	if errors.As(err, &bunErr) && bunErr.Field('C') == "42P01" {
		return true
	}
	return strings.Contains(err.Error(), "no such table")
}
