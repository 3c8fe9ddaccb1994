package membership

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Message(t *testing.T) {
	err := NewError(ErrGroupFull, "group member limit reached").WithGroup("g1").WithUser("u1")
	assert.Equal(t, "membership: group is full: group member limit reached", err.Error())
	assert.Equal(t, "g1", err.GroupID)
	assert.Equal(t, "u1", err.UserID)

	bare := &Error{Err: ErrGroupNotFound}
	assert.Equal(t, "membership: group not found", bare.Error())
}

func TestError_UnwrapWithCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewError(ErrDatabaseError, "failed to assign user").WithCause(cause).WithPermission("posts.edit")

	assert.ErrorIs(t, err, ErrDatabaseError)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Equal(t, "posts.edit", err.PermissionID)

	var target *Error
	require.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &target))
	assert.Same(t, err, target)
}

func TestBatchError(t *testing.T) {
	batch := &BatchError{Op: "grant permissions"}
	assert.NoError(t, batch.orNil())

	batch.add(1, "handle:missing", NewError(ErrPermissionNotFound, "no permission matches"))
	batch.add(3, "id:x", ErrDatabaseError)

	err := batch.orNil()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPermissionNotFound)
	assert.ErrorIs(t, err, ErrDatabaseError)
	assert.NotErrorIs(t, err, ErrGroupFull)
	assert.Contains(t, err.Error(), "grant permissions: 2 failed")
	assert.Contains(t, err.Error(), "item 1 (handle:missing)")

	var be *BatchError
	require.True(t, errors.As(err, &be))
	assert.Len(t, be.Failures, 2)
	assert.Equal(t, 3, be.Failures[1].Index)
}

func TestErrorClassifiers(t *testing.T) {
	assert.True(t, IsGroupFull(NewError(ErrGroupFull, "")))
	assert.False(t, IsGroupFull(ErrGroupNotFound))

	assert.True(t, IsNotFound(ErrGroupNotFound))
	assert.True(t, IsNotFound(NewError(ErrPermissionNotFound, "x")))
	assert.True(t, IsNotFound(fmt.Errorf("ctx: %w", ErrUserNotFound)))
	assert.False(t, IsNotFound(ErrDuplicateHandle))

	assert.True(t, IsDuplicateHandle(NewError(ErrDuplicateHandle, "taken")))
	assert.False(t, IsDuplicateHandle(nil))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, isUniqueViolation(nil))
	assert.True(t, isUniqueViolation(errors.New("UNIQUE constraint failed: groups.handle")))
	assert.False(t, isUniqueViolation(errors.New("disk I/O error")))
}

func TestIsUndefinedTable(t *testing.T) {
	assert.False(t, isUndefinedTable(nil))
	assert.True(t, isUndefinedTable(errors.New("no such table: permissions")))
	assert.False(t, isUndefinedTable(errors.New("syntax error")))
}
